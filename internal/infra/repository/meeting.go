package repository

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"gestionale/internal/domain"
	"gestionale/internal/infra/database/models"
)

type MeetingRepository struct {
	db *gorm.DB
}

func NewMeetingRepository(db *gorm.DB) *MeetingRepository {
	return &MeetingRepository{db: db}
}

func (r *MeetingRepository) List(ctx context.Context) ([]domain.Meeting, error) {
	var rows []models.Agora
	err := r.db.WithContext(ctx).
		Order("Data DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	meetings := make([]domain.Meeting, 0, len(rows))
	for _, row := range rows {
		meetings = append(meetings, meetingFromModel(row))
	}
	return meetings, nil
}

func (r *MeetingRepository) Get(ctx context.Context, id int64) (domain.Meeting, error) {
	var row models.Agora
	err := r.db.WithContext(ctx).
		Take(&row, "ID = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.Meeting{}, domain.NotFoundError{Resource: "agora"}
	}
	if err != nil {
		return domain.Meeting{}, err
	}
	return meetingFromModel(row), nil
}

func (r *MeetingRepository) Create(ctx context.Context, meeting domain.Meeting) (int64, error) {
	row := models.Agora{
		Data:      meeting.Data,
		Evento:    meeting.Evento,
		ODG:       meeting.ODG,
		Verbale:   meeting.Verbale,
		Documenti: meeting.Documenti,
	}
	err := r.db.WithContext(ctx).Create(&row).Error
	if err != nil {
		return 0, err
	}
	return row.ID, nil
}

// Update overwrites the full row, file columns included. A missing id
// is not an error.
func (r *MeetingRepository) Update(ctx context.Context, meeting domain.Meeting) error {
	return r.db.WithContext(ctx).
		Model(&models.Agora{}).
		Where("ID = ?", meeting.ID).
		Updates(map[string]any{
			"Data":      meeting.Data,
			"Evento":    meeting.Evento,
			"ODG":       meeting.ODG,
			"Verbale":   meeting.Verbale,
			"Documenti": meeting.Documenti,
		}).Error
}

// Delete removes the meeting row; presenze cascade with it.
func (r *MeetingRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).
		Delete(&models.Agora{}, "ID = ?", id).Error
}

type presenzaRow struct {
	ID             int64  `gorm:"column:ID"`
	IDAgora        int64  `gorm:"column:ID_Agora"`
	IDAssociazione int64  `gorm:"column:ID_Associazione"`
	Rappresentante string `gorm:"column:Rappresentante"`
	Soggetto       string `gorm:"column:SOGGETTO"`
}

func (r *MeetingRepository) ListPresenze(ctx context.Context, meetingID int64) ([]domain.Attendee, error) {
	var rows []presenzaRow
	err := r.db.WithContext(ctx).
		Model(&models.Presenza{}).
		Joins("LEFT JOIN Associazioni a ON a.ID = Presenze.ID_Associazione").
		Select(`Presenze.ID AS ID, Presenze.ID_Agora AS ID_Agora, Presenze.ID_Associazione AS ID_Associazione, Presenze.Rappresentante AS Rappresentante, a.SOGGETTO AS SOGGETTO`).
		Where("Presenze.ID_Agora = ?", meetingID).
		Order("a.SOGGETTO ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	attendees := make([]domain.Attendee, 0, len(rows))
	for _, row := range rows {
		attendees = append(attendees, domain.Attendee{
			ID:             row.ID,
			IDAgora:        row.IDAgora,
			IDAssociazione: row.IDAssociazione,
			Rappresentante: row.Rappresentante,
			Soggetto:       row.Soggetto,
		})
	}
	return attendees, nil
}

func (r *MeetingRepository) CreatePresenza(ctx context.Context, attendee domain.Attendee) (int64, error) {
	row := models.Presenza{
		IDAgora:        attendee.IDAgora,
		IDAssociazione: attendee.IDAssociazione,
		Rappresentante: attendee.Rappresentante,
	}
	err := r.db.WithContext(ctx).Create(&row).Error
	if err != nil {
		return 0, err
	}
	return row.ID, nil
}

func (r *MeetingRepository) DeletePresenza(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).
		Delete(&models.Presenza{}, "ID = ?", id).Error
}

func meetingFromModel(row models.Agora) domain.Meeting {
	return domain.Meeting{
		ID:        row.ID,
		Data:      row.Data,
		Evento:    row.Evento,
		ODG:       row.ODG,
		Verbale:   row.Verbale,
		Documenti: row.Documenti,
	}
}
