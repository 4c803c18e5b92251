package repository

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"gestionale/internal/domain"
	"gestionale/internal/infra/database/models"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	var row models.Utente
	err := r.db.WithContext(ctx).
		Take(&row, "Email = ?", email).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.User{}, domain.NotFoundError{Resource: "utente"}
	}
	if err != nil {
		return domain.User{}, err
	}

	return domain.User{
		Email:        row.Email,
		PasswordHash: row.Password,
		Nome:         row.Nome,
	}, nil
}

// Upsert replaces any account with the same email. Used by the admin
// seeding flow.
func (r *UserRepository) Upsert(ctx context.Context, user domain.User) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Delete(&models.Utente{}, "Email = ?", user.Email).Error
		if err != nil {
			return err
		}
		return tx.Create(&models.Utente{
			Email:    user.Email,
			Password: user.PasswordHash,
			Nome:     user.Nome,
		}).Error
	})
}
