package usecase

import (
	"context"

	"gestionale/internal/domain"
)

type AssociationUsecase struct {
	repo AssociationRepository
}

func NewAssociationUsecase(repo AssociationRepository) *AssociationUsecase {
	return &AssociationUsecase{repo: repo}
}

func (uc *AssociationUsecase) List(ctx context.Context) ([]domain.Association, error) {
	return uc.repo.List(ctx)
}

func (uc *AssociationUsecase) Create(ctx context.Context, assoc domain.Association) (int64, error) {
	return uc.repo.Create(ctx, assoc)
}

func (uc *AssociationUsecase) Update(ctx context.Context, assoc domain.Association) error {
	return uc.repo.Update(ctx, assoc)
}

func (uc *AssociationUsecase) Delete(ctx context.Context, id int64) error {
	return uc.repo.Delete(ctx, id)
}
