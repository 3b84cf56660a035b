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

// WarehouseWithCapacity pairs a warehouse row with its computed snapshot
// for listing endpoints.
type WarehouseWithCapacity struct {
	Warehouse *models.Warehouse         `json:"warehouse"`
	Capacity  *models.WarehouseCapacity `json:"capacity"`
}

type WarehouseService interface {
	Create(ctx context.Context, warehouse *models.Warehouse) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Warehouse, error)
	Update(ctx context.Context, warehouse *models.Warehouse) error
	List(ctx context.Context, limit, offset int) ([]*models.Warehouse, error)
	ListWithCapacity(ctx context.Context) ([]*WarehouseWithCapacity, error)
}

type warehouseService struct {
	warehouseRepo   repositories.WarehouseRepository
	capacityService WarehouseCapacityService
}

func NewWarehouseService(warehouseRepo repositories.WarehouseRepository, capacityService WarehouseCapacityService) WarehouseService {
	return &warehouseService{
		warehouseRepo:   warehouseRepo,
		capacityService: capacityService,
	}
}

func (s *warehouseService) Create(ctx context.Context, warehouse *models.Warehouse) error {
	if warehouse.ID == uuid.Nil {
		warehouse.ID = uuid.New()
	}
	return s.warehouseRepo.Create(ctx, warehouse)
}

func (s *warehouseService) GetByID(ctx context.Context, id uuid.UUID) (*models.Warehouse, error) {
	warehouse, err := s.warehouseRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, err
	}
	return warehouse, nil
}

func (s *warehouseService) Update(ctx context.Context, warehouse *models.Warehouse) error {
	return s.warehouseRepo.Update(ctx, warehouse)
}

func (s *warehouseService) List(ctx context.Context, limit, offset int) ([]*models.Warehouse, error) {
	return s.warehouseRepo.List(ctx, limit, offset)
}

// ListWithCapacity returns every active warehouse with its computed
// capacity snapshot, the query surface consumed by the marketplace.
func (s *warehouseService) ListWithCapacity(ctx context.Context) ([]*WarehouseWithCapacity, error) {
	warehouses, err := s.warehouseRepo.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]*WarehouseWithCapacity, 0, len(warehouses))
	for _, warehouse := range warehouses {
		capacity, err := s.capacityService.CachedCapacityFor(ctx, warehouse)
		if err != nil {
			return nil, err
		}
		result = append(result, &WarehouseWithCapacity{Warehouse: warehouse, Capacity: capacity})
	}
	return result, nil
}
