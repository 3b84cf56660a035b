package models

import (
	"time"

	"github.com/google/uuid"
)

// Transfer kinds.
const (
	TransferIncoming       = "INCOMING"
	TransferOutgoing       = "OUTGOING"
	TransferInterWarehouse = "INTER_WAREHOUSE"
	TransferStorage        = "STORAGE"
)

// Package location lifecycle. DISPATCHED is terminal for a location row; an
// inter-warehouse move creates a fresh INCOMING location instead of
// resurrecting the old one.
const (
	LocationIncoming       = "INCOMING"
	LocationStored         = "STORED"
	LocationPreparing      = "PREPARING"
	LocationReadyForPickup = "READY_FOR_PICKUP"
	LocationDispatched     = "DISPATCHED"
)

// OccupyingStatuses are the location statuses that hold a physical slot.
// The (warehouse, zone, shelf, position) triple is unique among these.
var OccupyingStatuses = []string{
	LocationIncoming,
	LocationStored,
	LocationPreparing,
	LocationReadyForPickup,
}

// WarehouseTransfer records a package entering, leaving or moving between
// warehouses. A transfer owns exactly one current PackageLocation.
type WarehouseTransfer struct {
	ID               uuid.UUID  `json:"id" db:"id"`
	DeliveryID       uuid.UUID  `json:"delivery_id" db:"delivery_id"`
	FromWarehouseID  *uuid.UUID `json:"from_warehouse_id" db:"from_warehouse_id"`
	ToWarehouseID    uuid.UUID  `json:"to_warehouse_id" db:"to_warehouse_id"`
	Type             string     `json:"type" db:"type"`
	Priority         string     `json:"priority" db:"priority"`
	VolumeM3         float64    `json:"volume_m3" db:"volume_m3"`
	WeightKg         float64    `json:"weight_kg" db:"weight_kg"`
	EstimatedArrival *time.Time `json:"estimated_arrival" db:"estimated_arrival"`
	TrackingNumber   string     `json:"tracking_number" db:"tracking_number"`
	Status           string     `json:"status" db:"status"`
	Notes            *string    `json:"notes" db:"notes"`
	CreatedAt        time.Time  `json:"created_at" db:"created_at"`
}

// PackageLocation is one package's physical address inside a warehouse.
type PackageLocation struct {
	ID               uuid.UUID  `json:"id" db:"id"`
	TransferID       uuid.UUID  `json:"transfer_id" db:"transfer_id"`
	DeliveryID       uuid.UUID  `json:"delivery_id" db:"delivery_id"`
	WarehouseID      uuid.UUID  `json:"warehouse_id" db:"warehouse_id"`
	Zone             string     `json:"zone" db:"zone"`
	Shelf            string     `json:"shelf" db:"shelf"`
	Position         string     `json:"position" db:"position"`
	Status           string     `json:"status" db:"status"`
	ArrivedAt        time.Time  `json:"arrived_at" db:"arrived_at"`
	ExpectedPickupAt *time.Time `json:"expected_pickup_at" db:"expected_pickup_at"`
	FeesSettled      bool       `json:"fees_settled" db:"fees_settled"`
}

// SlotLabel renders the physical address as "A-02-07".
func (l *PackageLocation) SlotLabel() string {
	return l.Zone + "-" + l.Shelf + "-" + l.Position
}

// PackageMovement is the audit entry linking an old location to the new one
// after an inter-warehouse move.
type PackageMovement struct {
	ID              uuid.UUID `json:"id" db:"id"`
	TransferID      uuid.UUID `json:"transfer_id" db:"transfer_id"`
	FromWarehouseID uuid.UUID `json:"from_warehouse_id" db:"from_warehouse_id"`
	ToWarehouseID   uuid.UUID `json:"to_warehouse_id" db:"to_warehouse_id"`
	Reason          string    `json:"reason" db:"reason"`
	MovedAt         time.Time `json:"moved_at" db:"moved_at"`
}
