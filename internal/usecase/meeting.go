package usecase

import (
	"context"
	"io"

	"github.com/pkg/errors"

	"gestionale/internal/domain"
)

// FileUpload is one incoming multipart file.
type FileUpload struct {
	Content io.Reader
	Name    string
}

// MeetingInput carries the multipart form fields of a meeting write.
type MeetingInput struct {
	Data      string
	Evento    string
	ODG       string
	Verbale   *FileUpload
	Documenti *FileUpload
}

// MeetingUsecase owns the meeting lifecycle, including the attachment
// bookkeeping: store-on-upload, delete-old-on-replace and
// cascade-delete of files when the row goes away. File and row writes
// are deliberately not atomic with each other; a crash in between can
// orphan a file, never a row pointing at content that was deleted by
// this process.
type MeetingUsecase struct {
	repo  MeetingRepository
	store AttachmentStore
}

func NewMeetingUsecase(repo MeetingRepository, store AttachmentStore) *MeetingUsecase {
	return &MeetingUsecase{repo: repo, store: store}
}

func (uc *MeetingUsecase) List(ctx context.Context) ([]domain.Meeting, error) {
	return uc.repo.List(ctx)
}

func (uc *MeetingUsecase) Create(ctx context.Context, input MeetingInput) (int64, error) {
	meeting := domain.Meeting{
		Data:   input.Data,
		Evento: input.Evento,
		ODG:    input.ODG,
	}

	if input.Verbale != nil {
		path, err := uc.store.Save(domain.AttachmentVerbale, input.Verbale.Content, input.Verbale.Name, input.Data)
		if err != nil {
			return 0, errors.Wrap(err, "storing verbale")
		}
		meeting.Verbale = path
	}
	if input.Documenti != nil {
		path, err := uc.store.Save(domain.AttachmentDocumenti, input.Documenti.Content, input.Documenti.Name, input.Data)
		if err != nil {
			return 0, errors.Wrap(err, "storing documenti")
		}
		meeting.Documenti = path
	}

	return uc.repo.Create(ctx, meeting)
}

// Update overwrites the meeting. A fresh upload replaces the bound
// file (deleting the old one), the delete flags drop it, and otherwise
// the existing reference is carried over. A missing id is a no-op,
// matching the idempotent-success write semantics of the rest of the
// API.
func (uc *MeetingUsecase) Update(ctx context.Context, id int64, input MeetingInput, deleteVerbale bool, deleteDocumenti bool) error {
	current, err := uc.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return err
	}

	meeting := domain.Meeting{
		ID:        id,
		Data:      input.Data,
		Evento:    input.Evento,
		ODG:       input.ODG,
		Verbale:   current.Verbale,
		Documenti: current.Documenti,
	}

	switch {
	case input.Verbale != nil:
		path, err := uc.store.Replace(current.Verbale, domain.AttachmentVerbale, input.Verbale.Content, input.Verbale.Name, input.Data)
		if err != nil {
			return errors.Wrap(err, "replacing verbale")
		}
		meeting.Verbale = path
	case deleteVerbale:
		uc.store.Remove(current.Verbale)
		meeting.Verbale = ""
	}

	switch {
	case input.Documenti != nil:
		path, err := uc.store.Replace(current.Documenti, domain.AttachmentDocumenti, input.Documenti.Content, input.Documenti.Name, input.Data)
		if err != nil {
			return errors.Wrap(err, "replacing documenti")
		}
		meeting.Documenti = path
	case deleteDocumenti:
		uc.store.Remove(current.Documenti)
		meeting.Documenti = ""
	}

	return uc.repo.Update(ctx, meeting)
}

// Delete removes the meeting's files, then the row. Presenze cascade
// with the row. Deleting a missing id reports success.
func (uc *MeetingUsecase) Delete(ctx context.Context, id int64) error {
	current, err := uc.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return err
	}

	uc.store.Remove(current.Verbale)
	uc.store.Remove(current.Documenti)

	return uc.repo.Delete(ctx, id)
}

func (uc *MeetingUsecase) ListPresenze(ctx context.Context, meetingID int64) ([]domain.Attendee, error) {
	return uc.repo.ListPresenze(ctx, meetingID)
}

func (uc *MeetingUsecase) AddPresenza(ctx context.Context, attendee domain.Attendee) (int64, error) {
	return uc.repo.CreatePresenza(ctx, attendee)
}

func (uc *MeetingUsecase) RemovePresenza(ctx context.Context, id int64) error {
	return uc.repo.DeletePresenza(ctx, id)
}
