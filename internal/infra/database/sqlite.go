package database

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"gestionale/internal/infra/database/models"
)

func NewSqlite(path string) (*gorm.DB, error) {
	gormLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             300 * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		},
	)

	// The pragma rides on the DSN so every pooled connection enforces
	// the OnDelete constraints declared on the models.
	dsn := path
	if !strings.Contains(dsn, "?") {
		dsn += "?_pragma=foreign_keys(1)"
	}

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormLogger,
	})
	if err != nil {
		return nil, err
	}

	return db, nil
}

func MigrateSqlite(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Utente{},
		&models.Associazione{},
		&models.Referente{},
		&models.AltroSoggetto{},
		&models.Agora{},
		&models.Presenza{},
	)
}
