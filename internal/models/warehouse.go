package models

import (
	"time"

	"github.com/google/uuid"
)

// Warehouse is a storage facility with a parametrized slot layout. The slot
// universe is zones × shelves × positions; defaults give 4×5×10 = 200 slots.
type Warehouse struct {
	ID                uuid.UUID `json:"id" db:"id"`
	Name              string    `json:"name" db:"name"`
	Address           *string   `json:"address" db:"address"`
	Lat               float64   `json:"lat" db:"lat"`
	Lng               float64   `json:"lng" db:"lng"`
	ZoneCount         int       `json:"zone_count" db:"zone_count"`
	ShelvesPerZone    int       `json:"shelves_per_zone" db:"shelves_per_zone"`
	PositionsPerShelf int       `json:"positions_per_shelf" db:"positions_per_shelf"`
	MaxVolumeM3       float64   `json:"max_volume_m3" db:"max_volume_m3"`
	MaxWeightKg       float64   `json:"max_weight_kg" db:"max_weight_kg"`
	Active            bool      `json:"active" db:"active"`
	CreatedAt         time.Time `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time `json:"updated_at" db:"updated_at"`
}

// TotalSlots returns the size of the warehouse's slot universe.
func (w *Warehouse) TotalSlots() int {
	return w.ZoneCount * w.ShelvesPerZone * w.PositionsPerShelf
}

// WarehouseCapacity is a derived snapshot, always recomputed from the
// warehouse row plus its active package set. It is never persisted.
type WarehouseCapacity struct {
	WarehouseID    uuid.UUID `json:"warehouse_id"`
	TotalSlots     int       `json:"total_slots"`
	OccupiedSlots  int       `json:"occupied_slots"`
	AvailableSlots int       `json:"available_slots"`
	VolumeCapacity float64   `json:"volume_capacity_m3"`
	CurrentVolume  float64   `json:"current_volume_m3"`
	WeightCapacity float64   `json:"weight_capacity_kg"`
	CurrentWeight  float64   `json:"current_weight_kg"`
}

// HasRoomFor reports whether the snapshot leaves room for one more package
// of the given volume and weight.
func (c *WarehouseCapacity) HasRoomFor(volumeM3, weightKg float64) bool {
	if c.AvailableSlots <= 0 {
		return false
	}
	if c.CurrentVolume+volumeM3 > c.VolumeCapacity {
		return false
	}
	if c.CurrentWeight+weightKg > c.WeightCapacity {
		return false
	}
	return true
}
