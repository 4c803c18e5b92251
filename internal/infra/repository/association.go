package repository

import (
	"context"

	"gorm.io/gorm"

	"gestionale/internal/domain"
	"gestionale/internal/infra/database/models"
)

type AssociationRepository struct {
	db *gorm.DB
}

func NewAssociationRepository(db *gorm.DB) *AssociationRepository {
	return &AssociationRepository{db: db}
}

// List returns every association ordered by name, with its referenti
// and altri soggetti nested as id+name pairs. The nesting is composed
// in memory from two follow-up queries instead of string-aggregating
// in SQL.
func (r *AssociationRepository) List(ctx context.Context) ([]domain.Association, error) {

	var rows []models.Associazione
	err := r.db.WithContext(ctx).
		Order("SOGGETTO ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	var referenti []models.Referente
	err = r.db.WithContext(ctx).Find(&referenti).Error
	if err != nil {
		return nil, err
	}

	var altri []models.AltroSoggetto
	err = r.db.WithContext(ctx).Find(&altri).Error
	if err != nil {
		return nil, err
	}

	refByAssoc := make(map[int64][]domain.PersonRef)
	for _, ref := range referenti {
		refByAssoc[ref.IDAssociazione] = append(refByAssoc[ref.IDAssociazione], domain.PersonRef{ID: ref.ID, Nome: ref.Nome})
	}
	altByAssoc := make(map[int64][]domain.PersonRef)
	for _, alt := range altri {
		altByAssoc[alt.IDAssociazione] = append(altByAssoc[alt.IDAssociazione], domain.PersonRef{ID: alt.ID, Nome: alt.Nome})
	}

	associations := make([]domain.Association, 0, len(rows))
	for _, row := range rows {
		assoc := domain.Association{
			ID:                   row.ID,
			Soggetto:             row.Soggetto,
			Mail:                 row.Mail,
			Pec:                  row.Pec,
			Tavolo:               row.Tavolo,
			DirettivoDelegazione: row.DirettivoDelegazione,
			Referenti:            refByAssoc[row.ID],
			AltriSoggetti:        altByAssoc[row.ID],
		}
		if assoc.Referenti == nil {
			assoc.Referenti = []domain.PersonRef{}
		}
		if assoc.AltriSoggetti == nil {
			assoc.AltriSoggetti = []domain.PersonRef{}
		}
		associations = append(associations, assoc)
	}

	return associations, nil
}

func (r *AssociationRepository) Create(ctx context.Context, assoc domain.Association) (int64, error) {
	row := models.Associazione{
		Soggetto:             assoc.Soggetto,
		Mail:                 assoc.Mail,
		Pec:                  assoc.Pec,
		Tavolo:               assoc.Tavolo,
		DirettivoDelegazione: assoc.DirettivoDelegazione,
	}
	err := r.db.WithContext(ctx).Create(&row).Error
	if err != nil {
		return 0, err
	}
	return row.ID, nil
}

// Update overwrites the full row. A missing id is not an error.
func (r *AssociationRepository) Update(ctx context.Context, assoc domain.Association) error {
	return r.db.WithContext(ctx).
		Model(&models.Associazione{}).
		Where("ID = ?", assoc.ID).
		Updates(map[string]any{
			"SOGGETTO":              assoc.Soggetto,
			"MAIL":                  assoc.Mail,
			"PEC":                   assoc.Pec,
			"TAVOLO":                assoc.Tavolo,
			"DIRETTIVO_DELEGAZIONE": assoc.DirettivoDelegazione,
		}).Error
}

// Delete removes the association; referenti, altri soggetti and
// presenze rows go with it through the OnDelete:CASCADE constraints.
// Deleting a missing id is a no-op.
func (r *AssociationRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).
		Delete(&models.Associazione{}, "ID = ?", id).Error
}
