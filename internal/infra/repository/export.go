package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"gestionale/internal/domain"
)

type ExportRepository struct {
	db *gorm.DB
}

func NewExportRepository(db *gorm.DB) *ExportRepository {
	return &ExportRepository{db: db}
}

// ListTables enumerates the user tables of the store.
func (r *ExportRepository) ListTables(ctx context.Context) ([]string, error) {
	var names []string
	err := r.db.WithContext(ctx).
		Raw(`SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name`).
		Scan(&names).Error
	if err != nil {
		return nil, err
	}
	return names, nil
}

// DumpTable reads one table's rows verbatim.
func (r *ExportRepository) DumpTable(ctx context.Context, name string) (domain.TableDump, error) {
	rows, err := r.db.WithContext(ctx).
		Raw(`SELECT * FROM ` + quoteIdent(name)).Rows()
	if err != nil {
		return domain.TableDump{}, err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return domain.TableDump{}, err
	}

	dump := domain.TableDump{Name: name, Columns: columns}
	for rows.Next() {
		values := make([]any, len(columns))
		pointers := make([]any, len(columns))
		for i := range values {
			pointers[i] = &values[i]
		}
		if err := rows.Scan(pointers...); err != nil {
			return domain.TableDump{}, err
		}
		for i, v := range values {
			if b, ok := v.([]byte); ok {
				values[i] = string(b)
			}
		}
		dump.Rows = append(dump.Rows, values)
	}

	return dump, rows.Err()
}

// Snapshot writes a consistent copy of the whole store to destPath
// without closing the live handle. The path is spliced in as a quoted
// literal; VACUUM does not take bound parameters on every driver.
func (r *ExportRepository) Snapshot(ctx context.Context, destPath string) error {
	quoted := strings.ReplaceAll(destPath, `'`, `''`)
	return r.db.WithContext(ctx).
		Exec(`VACUUM INTO '` + quoted + `'`).Error
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
