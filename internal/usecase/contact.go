package usecase

import (
	"context"

	"gestionale/internal/domain"
)

type ContactUsecase struct {
	repo ContactRepository
}

func NewContactUsecase(repo ContactRepository) *ContactUsecase {
	return &ContactUsecase{repo: repo}
}

func (uc *ContactUsecase) CreateReferente(ctx context.Context, contact domain.Contact) (int64, error) {
	return uc.repo.CreateReferente(ctx, contact)
}

func (uc *ContactUsecase) UpdateReferente(ctx context.Context, id int64, nome string) error {
	return uc.repo.UpdateReferente(ctx, id, nome)
}

func (uc *ContactUsecase) DeleteReferente(ctx context.Context, id int64) error {
	return uc.repo.DeleteReferente(ctx, id)
}

func (uc *ContactUsecase) CreateAltroSoggetto(ctx context.Context, contact domain.Contact) (int64, error) {
	return uc.repo.CreateAltroSoggetto(ctx, contact)
}

func (uc *ContactUsecase) UpdateAltroSoggetto(ctx context.Context, id int64, nome string) error {
	return uc.repo.UpdateAltroSoggetto(ctx, id, nome)
}

func (uc *ContactUsecase) DeleteAltroSoggetto(ctx context.Context, id int64) error {
	return uc.repo.DeleteAltroSoggetto(ctx, id)
}

func (uc *ContactUsecase) ListPersone(ctx context.Context) ([]domain.Person, error) {
	return uc.repo.ListPersone(ctx)
}

func (uc *ContactUsecase) ListPersoneByAssociation(ctx context.Context, associationID int64) ([]domain.Person, error) {
	return uc.repo.ListPersoneByAssociation(ctx, associationID)
}
