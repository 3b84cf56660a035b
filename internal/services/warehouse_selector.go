package services

import (
	"context"
	"strings"

	"ecodeli/internal/geo"
	"ecodeli/internal/models"
	"ecodeli/internal/repositories"
)

// Selector scoring: geography dominates capacity 80/20, and the distance
// score decays linearly to zero at 50 km average distance.
const (
	selectorDistanceWeight = 0.8
	selectorCapacityWeight = 0.2
	selectorDistanceCapKm  = 50.0
)

// WarehouseChoice is a scored candidate from a selection round.
type WarehouseChoice struct {
	Warehouse *models.Warehouse
	Capacity  *models.WarehouseCapacity
	Score     float64
}

type WarehouseSelector interface {
	// SelectWarehouse returns the best eligible warehouse for a package, or
	// nil when no active warehouse has room. A nil result is the normal
	// "no feasible warehouse" outcome, not an error.
	SelectWarehouse(ctx context.Context, pickupLat, pickupLng, deliveryLat, deliveryLng, volumeM3, weightKg float64) (*WarehouseChoice, error)
}

type warehouseSelector struct {
	warehouseRepo   repositories.WarehouseRepository
	capacityService WarehouseCapacityService
}

func NewWarehouseSelector(warehouseRepo repositories.WarehouseRepository, capacityService WarehouseCapacityService) WarehouseSelector {
	return &warehouseSelector{
		warehouseRepo:   warehouseRepo,
		capacityService: capacityService,
	}
}

func (s *warehouseSelector) SelectWarehouse(ctx context.Context, pickupLat, pickupLng, deliveryLat, deliveryLng, volumeM3, weightKg float64) (*WarehouseChoice, error) {
	warehouses, err := s.warehouseRepo.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	var best *WarehouseChoice
	for _, warehouse := range warehouses {
		capacity, err := s.capacityService.CapacityFor(ctx, warehouse)
		if err != nil {
			return nil, err
		}
		if !capacity.HasRoomFor(volumeM3, weightKg) {
			continue
		}

		pickupDist := geo.Haversine(pickupLat, pickupLng, warehouse.Lat, warehouse.Lng)
		deliveryDist := geo.Haversine(deliveryLat, deliveryLng, warehouse.Lat, warehouse.Lng)
		score := selectorDistanceWeight*distanceScore(pickupDist, deliveryDist) +
			selectorCapacityWeight*capacityScore(capacity)

		choice := &WarehouseChoice{Warehouse: warehouse, Capacity: capacity, Score: score}
		if best == nil || betterChoice(choice, best) {
			best = choice
		}
	}
	return best, nil
}

// betterChoice prefers the higher score; exact ties go to the lower
// warehouse UUID so selection is deterministic across runs.
func betterChoice(a, b *WarehouseChoice) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	return strings.Compare(a.Warehouse.ID.String(), b.Warehouse.ID.String()) < 0
}

func distanceScore(pickupDist, deliveryDist float64) float64 {
	avg := (pickupDist + deliveryDist) / 2
	score := 1 - avg/selectorDistanceCapKm
	if score < 0 {
		return 0
	}
	return score
}

func capacityScore(capacity *models.WarehouseCapacity) float64 {
	if capacity.TotalSlots == 0 {
		return 0
	}
	return float64(capacity.AvailableSlots) / float64(capacity.TotalSlots)
}
