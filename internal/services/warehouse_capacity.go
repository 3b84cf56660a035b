package services

import (
	"context"
	"log"
	"time"

	"ecodeli/internal/caching"
	"ecodeli/internal/models"
	"ecodeli/internal/repositories"

	"github.com/google/uuid"
)

// capacityCacheTTL keeps cached snapshots short-lived. Occupancy writes also
// invalidate them eagerly; the TTL only covers missed invalidations.
const capacityCacheTTL = 30 * time.Second

type WarehouseCapacityService interface {
	// CapacityFor recomputes the snapshot from the live package set.
	// Allocation decisions use this, never a cached copy.
	CapacityFor(ctx context.Context, warehouse *models.Warehouse) (*models.WarehouseCapacity, error)

	// CachedCapacityFor serves read-only listings; it tolerates a snapshot
	// up to capacityCacheTTL old.
	CachedCapacityFor(ctx context.Context, warehouse *models.Warehouse) (*models.WarehouseCapacity, error)

	// Invalidate drops the cached snapshot after an occupancy write.
	Invalidate(ctx context.Context, warehouseID uuid.UUID)
}

type warehouseCapacityService struct {
	locationRepo repositories.PackageLocationRepository
	cacheService caching.CacheService
}

func NewWarehouseCapacityService(locationRepo repositories.PackageLocationRepository, cacheService caching.CacheService) WarehouseCapacityService {
	return &warehouseCapacityService{
		locationRepo: locationRepo,
		cacheService: cacheService,
	}
}

func (s *warehouseCapacityService) CapacityFor(ctx context.Context, warehouse *models.Warehouse) (*models.WarehouseCapacity, error) {
	occupancy, err := s.locationRepo.Occupancy(ctx, warehouse.ID)
	if err != nil {
		return nil, err
	}

	totalSlots := SlotUniverse(warehouse)
	capacity := &models.WarehouseCapacity{
		WarehouseID:    warehouse.ID,
		TotalSlots:     totalSlots,
		OccupiedSlots:  occupancy.OccupiedSlots,
		AvailableSlots: totalSlots - occupancy.OccupiedSlots,
		VolumeCapacity: warehouse.MaxVolumeM3,
		CurrentVolume:  occupancy.VolumeM3,
		WeightCapacity: warehouse.MaxWeightKg,
		CurrentWeight:  occupancy.WeightKg,
	}

	if cacheErr := s.cacheService.SetWarehouseCapacity(ctx, capacity, capacityCacheTTL); cacheErr != nil {
		log.Printf("WARN: failed to cache capacity for warehouse %s: %v", warehouse.ID, cacheErr)
	}

	return capacity, nil
}

func (s *warehouseCapacityService) CachedCapacityFor(ctx context.Context, warehouse *models.Warehouse) (*models.WarehouseCapacity, error) {
	if cached, err := s.cacheService.GetWarehouseCapacity(ctx, warehouse.ID); cached != nil {
		return cached, nil
	} else if err != nil {
		log.Printf("WARN: capacity cache read for warehouse %s: %v", warehouse.ID, err)
	}
	return s.CapacityFor(ctx, warehouse)
}

func (s *warehouseCapacityService) Invalidate(ctx context.Context, warehouseID uuid.UUID) {
	if err := s.cacheService.DeleteWarehouseCapacity(ctx, warehouseID); err != nil {
		log.Printf("WARN: failed to invalidate capacity cache for warehouse %s: %v", warehouseID, err)
	}
}
