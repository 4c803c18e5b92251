package usecase

import (
	"context"
	"io"

	"gestionale/internal/domain"
)

// AssociationRepository defines storage operations for associations.
type AssociationRepository interface {
	List(ctx context.Context) ([]domain.Association, error)
	Create(ctx context.Context, assoc domain.Association) (int64, error)
	Update(ctx context.Context, assoc domain.Association) error
	Delete(ctx context.Context, id int64) error
}

// ContactRepository defines storage operations for referenti and altri
// soggetti, plus the unioned person listings.
type ContactRepository interface {
	CreateReferente(ctx context.Context, contact domain.Contact) (int64, error)
	UpdateReferente(ctx context.Context, id int64, nome string) error
	DeleteReferente(ctx context.Context, id int64) error
	CreateAltroSoggetto(ctx context.Context, contact domain.Contact) (int64, error)
	UpdateAltroSoggetto(ctx context.Context, id int64, nome string) error
	DeleteAltroSoggetto(ctx context.Context, id int64) error
	ListPersone(ctx context.Context) ([]domain.Person, error)
	ListPersoneByAssociation(ctx context.Context, associationID int64) ([]domain.Person, error)
}

// MeetingRepository defines storage operations for meetings and their
// attendance rows.
type MeetingRepository interface {
	List(ctx context.Context) ([]domain.Meeting, error)
	Get(ctx context.Context, id int64) (domain.Meeting, error)
	Create(ctx context.Context, meeting domain.Meeting) (int64, error)
	Update(ctx context.Context, meeting domain.Meeting) error
	Delete(ctx context.Context, id int64) error
	ListPresenze(ctx context.Context, meetingID int64) ([]domain.Attendee, error)
	CreatePresenza(ctx context.Context, attendee domain.Attendee) (int64, error)
	DeletePresenza(ctx context.Context, id int64) error
}

// AttachmentStore binds meeting file fields to durable storage.
// Remove is best-effort and never reports failure.
type AttachmentStore interface {
	Save(kind domain.AttachmentKind, content io.Reader, originalName string, dateHint string) (string, error)
	Replace(oldPath string, kind domain.AttachmentKind, content io.Reader, originalName string, dateHint string) (string, error)
	Remove(path string)
}

// ExportRepository exposes the whole store for backup purposes.
type ExportRepository interface {
	ListTables(ctx context.Context) ([]string, error)
	DumpTable(ctx context.Context, name string) (domain.TableDump, error)
	Snapshot(ctx context.Context, destPath string) error
}
