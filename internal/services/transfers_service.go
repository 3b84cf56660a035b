package services

import (
	"context"
	"errors"

	"ecodeli/internal/common"
	"ecodeli/internal/models"
	"ecodeli/internal/repositories"

	"github.com/google/uuid"
	pgx "github.com/jackc/pgx/v5"
)

// TransferQueryService is the read surface over transfers and their
// movement history.
type TransferQueryService interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.WarehouseTransfer, error)
	ListMovements(ctx context.Context, transferID uuid.UUID) ([]*models.PackageMovement, error)
}

type transferQueryService struct {
	transferRepo repositories.TransferRepository
}

func NewTransferQueryService(transferRepo repositories.TransferRepository) TransferQueryService {
	return &transferQueryService{transferRepo: transferRepo}
}

func (s *transferQueryService) GetByID(ctx context.Context, id uuid.UUID) (*models.WarehouseTransfer, error) {
	transfer, err := s.transferRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, err
	}
	return transfer, nil
}

func (s *transferQueryService) ListMovements(ctx context.Context, transferID uuid.UUID) ([]*models.PackageMovement, error) {
	if _, err := s.GetByID(ctx, transferID); err != nil {
		return nil, err
	}
	return s.transferRepo.ListMovements(ctx, transferID)
}
