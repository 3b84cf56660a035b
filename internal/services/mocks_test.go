package services

import (
	"context"
	"time"

	"ecodeli/internal/models"
	"ecodeli/internal/repositories"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// Mock repositories and services shared by the service tests.

type MockWarehouseRepository struct {
	mock.Mock
}

func (m *MockWarehouseRepository) Create(ctx context.Context, warehouse *models.Warehouse) error {
	args := m.Called(ctx, warehouse)
	return args.Error(0)
}

func (m *MockWarehouseRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Warehouse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Warehouse), args.Error(1)
}

func (m *MockWarehouseRepository) Update(ctx context.Context, warehouse *models.Warehouse) error {
	args := m.Called(ctx, warehouse)
	return args.Error(0)
}

func (m *MockWarehouseRepository) List(ctx context.Context, limit, offset int) ([]*models.Warehouse, error) {
	args := m.Called(ctx, limit, offset)
	return args.Get(0).([]*models.Warehouse), args.Error(1)
}

func (m *MockWarehouseRepository) ListActive(ctx context.Context) ([]*models.Warehouse, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*models.Warehouse), args.Error(1)
}

func (m *MockWarehouseRepository) LockForAllocation(ctx context.Context, q repositories.Querier, id uuid.UUID) error {
	args := m.Called(ctx, q, id)
	return args.Error(0)
}

type MockDeliveryRepository struct {
	mock.Mock
}

func (m *MockDeliveryRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Delivery, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Delivery), args.Error(1)
}

func (m *MockDeliveryRepository) ListForDelivererOnDate(ctx context.Context, delivererID uuid.UUID, date time.Time) ([]*models.Delivery, error) {
	args := m.Called(ctx, delivererID, date)
	return args.Get(0).([]*models.Delivery), args.Error(1)
}

type MockRouteRepository struct {
	mock.Mock
}

func (m *MockRouteRepository) Create(ctx context.Context, route *models.OptimizedRoute) error {
	args := m.Called(ctx, route)
	return args.Error(0)
}

func (m *MockRouteRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.OptimizedRoute, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.OptimizedRoute), args.Error(1)
}

func (m *MockRouteRepository) ListForDelivererOnDate(ctx context.Context, delivererID uuid.UUID, date time.Time) ([]*models.OptimizedRoute, error) {
	args := m.Called(ctx, delivererID, date)
	return args.Get(0).([]*models.OptimizedRoute), args.Error(1)
}

func (m *MockRouteRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

type MockTransferRepository struct {
	mock.Mock
}

func (m *MockTransferRepository) Create(ctx context.Context, q repositories.Querier, transfer *models.WarehouseTransfer) error {
	args := m.Called(ctx, q, transfer)
	return args.Error(0)
}

func (m *MockTransferRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.WarehouseTransfer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.WarehouseTransfer), args.Error(1)
}

func (m *MockTransferRepository) GetByTrackingNumber(ctx context.Context, trackingNumber string) (*models.WarehouseTransfer, error) {
	args := m.Called(ctx, trackingNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.WarehouseTransfer), args.Error(1)
}

func (m *MockTransferRepository) UpdateStatus(ctx context.Context, q repositories.Querier, id uuid.UUID, status string) error {
	args := m.Called(ctx, q, id, status)
	return args.Error(0)
}

func (m *MockTransferRepository) CreateMovement(ctx context.Context, q repositories.Querier, movement *models.PackageMovement) error {
	args := m.Called(ctx, q, movement)
	return args.Error(0)
}

func (m *MockTransferRepository) ListMovements(ctx context.Context, transferID uuid.UUID) ([]*models.PackageMovement, error) {
	args := m.Called(ctx, transferID)
	return args.Get(0).([]*models.PackageMovement), args.Error(1)
}

type MockPackageLocationRepository struct {
	mock.Mock
}

func (m *MockPackageLocationRepository) Insert(ctx context.Context, q repositories.Querier, location *models.PackageLocation) error {
	args := m.Called(ctx, q, location)
	return args.Error(0)
}

func (m *MockPackageLocationRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.PackageLocation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PackageLocation), args.Error(1)
}

func (m *MockPackageLocationRepository) GetActiveByDeliveryID(ctx context.Context, deliveryID uuid.UUID) (*models.PackageLocation, error) {
	args := m.Called(ctx, deliveryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PackageLocation), args.Error(1)
}

func (m *MockPackageLocationRepository) OccupiedTriples(ctx context.Context, q repositories.Querier, warehouseID uuid.UUID) (map[string]bool, error) {
	args := m.Called(ctx, q, warehouseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]bool), args.Error(1)
}

func (m *MockPackageLocationRepository) Occupancy(ctx context.Context, warehouseID uuid.UUID) (*repositories.WarehouseOccupancy, error) {
	args := m.Called(ctx, warehouseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repositories.WarehouseOccupancy), args.Error(1)
}

func (m *MockPackageLocationRepository) UpdateStatus(ctx context.Context, q repositories.Querier, id uuid.UUID, status string) error {
	args := m.Called(ctx, q, id, status)
	return args.Error(0)
}

func (m *MockPackageLocationRepository) MarkFeesSettled(ctx context.Context, q repositories.Querier, id uuid.UUID) error {
	args := m.Called(ctx, q, id)
	return args.Error(0)
}

func (m *MockPackageLocationRepository) ListByStatus(ctx context.Context, statuses []string) ([]*models.PackageLocation, error) {
	args := m.Called(ctx, statuses)
	return args.Get(0).([]*models.PackageLocation), args.Error(1)
}

type MockCacheService struct {
	mock.Mock
}

func (m *MockCacheService) GetWarehouseCapacity(ctx context.Context, warehouseID uuid.UUID) (*models.WarehouseCapacity, error) {
	args := m.Called(ctx, warehouseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.WarehouseCapacity), args.Error(1)
}

func (m *MockCacheService) SetWarehouseCapacity(ctx context.Context, capacity *models.WarehouseCapacity, ttl time.Duration) error {
	args := m.Called(ctx, capacity, ttl)
	return args.Error(0)
}

func (m *MockCacheService) DeleteWarehouseCapacity(ctx context.Context, warehouseID uuid.UUID) error {
	args := m.Called(ctx, warehouseID)
	return args.Error(0)
}

func (m *MockCacheService) GetRoute(ctx context.Context, routeID uuid.UUID) (*models.OptimizedRoute, error) {
	args := m.Called(ctx, routeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.OptimizedRoute), args.Error(1)
}

func (m *MockCacheService) SetRoute(ctx context.Context, route *models.OptimizedRoute, ttl time.Duration) error {
	args := m.Called(ctx, route, ttl)
	return args.Error(0)
}

func (m *MockCacheService) DeleteRoute(ctx context.Context, routeID uuid.UUID) error {
	args := m.Called(ctx, routeID)
	return args.Error(0)
}

func (m *MockCacheService) GetTracking(ctx context.Context, trackingNumber string) (*models.WarehouseTransfer, error) {
	args := m.Called(ctx, trackingNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.WarehouseTransfer), args.Error(1)
}

func (m *MockCacheService) SetTracking(ctx context.Context, transfer *models.WarehouseTransfer, ttl time.Duration) error {
	args := m.Called(ctx, transfer, ttl)
	return args.Error(0)
}

func (m *MockCacheService) DeleteTracking(ctx context.Context, trackingNumber string) error {
	args := m.Called(ctx, trackingNumber)
	return args.Error(0)
}

type MockWarehouseCapacityService struct {
	mock.Mock
}

func (m *MockWarehouseCapacityService) CapacityFor(ctx context.Context, warehouse *models.Warehouse) (*models.WarehouseCapacity, error) {
	args := m.Called(ctx, warehouse)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.WarehouseCapacity), args.Error(1)
}

func (m *MockWarehouseCapacityService) CachedCapacityFor(ctx context.Context, warehouse *models.Warehouse) (*models.WarehouseCapacity, error) {
	args := m.Called(ctx, warehouse)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.WarehouseCapacity), args.Error(1)
}

func (m *MockWarehouseCapacityService) Invalidate(ctx context.Context, warehouseID uuid.UUID) {
	m.Called(ctx, warehouseID)
}

type MockWarehouseSelector struct {
	mock.Mock
}

func (m *MockWarehouseSelector) SelectWarehouse(ctx context.Context, pickupLat, pickupLng, deliveryLat, deliveryLng, volumeM3, weightKg float64) (*WarehouseChoice, error) {
	args := m.Called(ctx, pickupLat, pickupLng, deliveryLat, deliveryLng, volumeM3, weightKg)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*WarehouseChoice), args.Error(1)
}
