package models

import (
	"time"

	"github.com/google/uuid"
)

// Urgency levels assigned by the announcing client. Route building maps
// these onto numeric priorities (high=3, medium=2, low=1).
const (
	UrgencyLow    = "LOW"
	UrgencyMedium = "MEDIUM"
	UrgencyHigh   = "HIGH"
)

// Delivery is a single obligation (pickup + delivery pair) assigned to a
// deliverer for a given day. It is produced by the surrounding marketplace
// application; this engine only reads it.
type Delivery struct {
	ID              uuid.UUID  `json:"id" db:"id"`
	DelivererID     uuid.UUID  `json:"deliverer_id" db:"deliverer_id"`
	PickupAddress   string     `json:"pickup_address" db:"pickup_address"`
	PickupLat       float64    `json:"pickup_lat" db:"pickup_lat"`
	PickupLng       float64    `json:"pickup_lng" db:"pickup_lng"`
	DeliveryAddress string     `json:"delivery_address" db:"delivery_address"`
	DeliveryLat     float64    `json:"delivery_lat" db:"delivery_lat"`
	DeliveryLng     float64    `json:"delivery_lng" db:"delivery_lng"`
	WindowStart     *time.Time `json:"window_start" db:"window_start"`
	WindowEnd       *time.Time `json:"window_end" db:"window_end"`
	Urgency         string     `json:"urgency" db:"urgency"`
	Price           float64    `json:"price" db:"price"`
	VolumeM3        float64    `json:"volume_m3" db:"volume_m3"`
	WeightKg        float64    `json:"weight_kg" db:"weight_kg"`
	ScheduledDate   time.Time  `json:"scheduled_date" db:"scheduled_date"`
	CreatedAt       time.Time  `json:"created_at" db:"created_at"`
}

// PriorityFor maps an urgency label to the numeric priority used by the
// ordering heuristic. Unknown labels get the lowest priority.
func PriorityFor(urgency string) int {
	switch urgency {
	case UrgencyHigh:
		return 3
	case UrgencyMedium:
		return 2
	default:
		return 1
	}
}
