package services

import (
	"context"
	"fmt"

	"ecodeli/internal/common"
	"ecodeli/internal/models"
	"ecodeli/internal/repositories"

	pgx "github.com/jackc/pgx/v5"
)

// Default slot layout when a warehouse row carries no dimensions:
// zones A-D, shelves 01-05, positions 01-10, a 200-slot universe.
const (
	defaultZoneCount         = 4
	defaultShelvesPerZone    = 5
	defaultPositionsPerShelf = 10
)

// FirstFreeSlot enumerates the warehouse's slot universe in nested lexical
// order (zone A first, A is the high-turnover zone) and returns the first
// triple absent from the occupied set. Occupied keys use the "A-01-01"
// label format. ok is false when every slot is taken.
func FirstFreeSlot(warehouse *models.Warehouse, occupied map[string]bool) (zone, shelf, position string, ok bool) {
	zones, shelves, positions := slotDimensions(warehouse)

	for z := 0; z < zones; z++ {
		zone = string(rune('A' + z))
		for s := 1; s <= shelves; s++ {
			shelf = fmt.Sprintf("%02d", s)
			for p := 1; p <= positions; p++ {
				position = fmt.Sprintf("%02d", p)
				if !occupied[zone+"-"+shelf+"-"+position] {
					return zone, shelf, position, true
				}
			}
		}
	}
	return "", "", "", false
}

// SlotUniverse returns the warehouse's total slot count with defaults
// applied.
func SlotUniverse(warehouse *models.Warehouse) int {
	zones, shelves, positions := slotDimensions(warehouse)
	return zones * shelves * positions
}

// reserveSlot picks the first free slot of a warehouse inside the caller's
// transaction. The warehouse row is locked first, so concurrent reservations
// against the same warehouse serialize and cannot hand out the same triple.
// Returns ErrCapacityExhausted when the slot universe is full.
func reserveSlot(ctx context.Context, tx pgx.Tx, warehouseRepo repositories.WarehouseRepository, locationRepo repositories.PackageLocationRepository, warehouse *models.Warehouse) (zone, shelf, position string, err error) {
	if err := warehouseRepo.LockForAllocation(ctx, tx, warehouse.ID); err != nil {
		return "", "", "", fmt.Errorf("lock warehouse %s: %w", warehouse.ID, err)
	}

	occupied, err := locationRepo.OccupiedTriples(ctx, tx, warehouse.ID)
	if err != nil {
		return "", "", "", fmt.Errorf("read occupancy for warehouse %s: %w", warehouse.ID, err)
	}

	zone, shelf, position, ok := FirstFreeSlot(warehouse, occupied)
	if !ok {
		return "", "", "", common.ErrCapacityExhausted
	}
	return zone, shelf, position, nil
}

func slotDimensions(warehouse *models.Warehouse) (zones, shelves, positions int) {
	zones, shelves, positions = warehouse.ZoneCount, warehouse.ShelvesPerZone, warehouse.PositionsPerShelf
	if zones <= 0 {
		zones = defaultZoneCount
	}
	if shelves <= 0 {
		shelves = defaultShelvesPerZone
	}
	if positions <= 0 {
		positions = defaultPositionsPerShelf
	}
	return zones, shelves, positions
}
