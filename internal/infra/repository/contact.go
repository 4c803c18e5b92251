package repository

import (
	"context"
	"sort"

	"gorm.io/gorm"

	"gestionale/internal/domain"
	"gestionale/internal/infra/database/models"
)

type ContactRepository struct {
	db *gorm.DB
}

func NewContactRepository(db *gorm.DB) *ContactRepository {
	return &ContactRepository{db: db}
}

func (r *ContactRepository) CreateReferente(ctx context.Context, contact domain.Contact) (int64, error) {
	row := models.Referente{
		IDAssociazione: contact.IDAssociazione,
		Nome:           contact.Nome,
	}
	err := r.db.WithContext(ctx).Create(&row).Error
	if err != nil {
		return 0, err
	}
	return row.ID, nil
}

func (r *ContactRepository) UpdateReferente(ctx context.Context, id int64, nome string) error {
	return r.db.WithContext(ctx).
		Model(&models.Referente{}).
		Where("ID = ?", id).
		Update("Nome", nome).Error
}

func (r *ContactRepository) DeleteReferente(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).
		Delete(&models.Referente{}, "ID = ?", id).Error
}

func (r *ContactRepository) CreateAltroSoggetto(ctx context.Context, contact domain.Contact) (int64, error) {
	row := models.AltroSoggetto{
		IDAssociazione: contact.IDAssociazione,
		Nome:           contact.Nome,
	}
	err := r.db.WithContext(ctx).Create(&row).Error
	if err != nil {
		return 0, err
	}
	return row.ID, nil
}

func (r *ContactRepository) UpdateAltroSoggetto(ctx context.Context, id int64, nome string) error {
	return r.db.WithContext(ctx).
		Model(&models.AltroSoggetto{}).
		Where("ID = ?", id).
		Update("Nome", nome).Error
}

func (r *ContactRepository) DeleteAltroSoggetto(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).
		Delete(&models.AltroSoggetto{}, "ID = ?", id).Error
}

type personRow struct {
	ID             int64  `gorm:"column:ID"`
	IDAssociazione int64  `gorm:"column:ID_Associazione"`
	Nome           string `gorm:"column:Nome"`
	Soggetto       string `gorm:"column:SOGGETTO"`
}

// ListPersone unions referenti and altri soggetti with a type
// discriminator and the owning association's name, ordered by
// association name then person name.
func (r *ContactRepository) ListPersone(ctx context.Context) ([]domain.Person, error) {
	return r.listPersone(ctx, 0)
}

// ListPersoneByAssociation narrows the union to one association.
func (r *ContactRepository) ListPersoneByAssociation(ctx context.Context, associationID int64) ([]domain.Person, error) {
	return r.listPersone(ctx, associationID)
}

func (r *ContactRepository) listPersone(ctx context.Context, associationID int64) ([]domain.Person, error) {

	referenti := r.db.WithContext(ctx).
		Model(&models.Referente{}).
		Joins("JOIN Associazioni a ON a.ID = Referenti.ID_Associazione").
		Select(`Referenti.ID AS ID, Referenti.ID_Associazione AS ID_Associazione, Referenti.Nome AS Nome, a.SOGGETTO AS SOGGETTO`)
	altri := r.db.WithContext(ctx).
		Model(&models.AltroSoggetto{}).
		Joins("JOIN Associazioni a ON a.ID = AltriSoggetti.ID_Associazione").
		Select(`AltriSoggetti.ID AS ID, AltriSoggetti.ID_Associazione AS ID_Associazione, AltriSoggetti.Nome AS Nome, a.SOGGETTO AS SOGGETTO`)

	if associationID != 0 {
		referenti = referenti.Where("Referenti.ID_Associazione = ?", associationID)
		altri = altri.Where("AltriSoggetti.ID_Associazione = ?", associationID)
	}

	var refRows []personRow
	err := referenti.Scan(&refRows).Error
	if err != nil {
		return nil, err
	}

	var altRows []personRow
	err = altri.Scan(&altRows).Error
	if err != nil {
		return nil, err
	}

	persone := make([]domain.Person, 0, len(refRows)+len(altRows))
	for _, row := range refRows {
		persone = append(persone, domain.Person{
			ID:             row.ID,
			IDAssociazione: row.IDAssociazione,
			Nome:           row.Nome,
			Tipo:           domain.PersonTipoReferente,
			Soggetto:       row.Soggetto,
		})
	}
	for _, row := range altRows {
		persone = append(persone, domain.Person{
			ID:             row.ID,
			IDAssociazione: row.IDAssociazione,
			Nome:           row.Nome,
			Tipo:           domain.PersonTipoAltroSoggetto,
			Soggetto:       row.Soggetto,
		})
	}

	sort.SliceStable(persone, func(i, j int) bool {
		if persone[i].Soggetto != persone[j].Soggetto {
			return persone[i].Soggetto < persone[j].Soggetto
		}
		return persone[i].Nome < persone[j].Nome
	})

	return persone, nil
}
