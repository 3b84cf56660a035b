package models

import (
	"time"

	"github.com/google/uuid"
)

// Route point kinds.
const (
	PointPickup   = "pickup"
	PointDelivery = "delivery"
	PointWaypoint = "waypoint"
)

// Route lifecycle. Routes are immutable once persisted as DRAFT; the
// delivery-tracking collaborator advances them through ACTIVE to COMPLETED.
const (
	RouteStatusDraft     = "DRAFT"
	RouteStatusActive    = "ACTIVE"
	RouteStatusCompleted = "COMPLETED"
)

// Vehicle classes used for travel-time, fuel and emission figures.
const (
	VehicleCar     = "CAR"
	VehicleScooter = "SCOOTER"
	VehicleBike    = "BIKE"
	VehicleWalking = "WALKING"
)

// RoutePoint is a single stop in a deliverer's route. A pickup point and its
// paired delivery point share the same DeliveryID.
type RoutePoint struct {
	ID             uuid.UUID  `json:"id" db:"id"`
	Kind           string     `json:"kind" db:"kind"`
	Address        string     `json:"address" db:"address"`
	Lat            float64    `json:"lat" db:"lat"`
	Lng            float64    `json:"lng" db:"lng"`
	WindowStart    *time.Time `json:"window_start" db:"window_start"`
	WindowEnd      *time.Time `json:"window_end" db:"window_end"`
	Priority       int        `json:"priority" db:"priority"`
	ServiceMinutes int        `json:"service_minutes" db:"service_minutes"`
	DeliveryID     uuid.UUID  `json:"delivery_id" db:"delivery_id"`
}

// OptimizedRoute is the persisted output of a route optimization request.
// Points are stored in visiting order; that order is significant.
type OptimizedRoute struct {
	ID              uuid.UUID    `json:"id" db:"id"`
	DelivererID     uuid.UUID    `json:"deliverer_id" db:"deliverer_id"`
	Points          []RoutePoint `json:"points"`
	TotalDistanceKm float64      `json:"total_distance_km" db:"total_distance_km"`
	TotalMinutes    float64      `json:"total_minutes" db:"total_minutes"`
	TotalEarnings   float64      `json:"total_earnings" db:"total_earnings"`
	EfficiencyScore float64      `json:"efficiency_score" db:"efficiency_score"`
	FuelCost        float64      `json:"fuel_cost" db:"fuel_cost"`
	CO2SavingsKg    float64      `json:"co2_savings_kg" db:"co2_savings_kg"`
	Status          string       `json:"status" db:"status"`
	CreatedAt       time.Time    `json:"created_at" db:"created_at"`
}

// RouteConstraints are read-only inputs to route ordering. A strict caller
// validates them before optimizing; the heuristic itself does not hard-fail
// on violations.
type RouteConstraints struct {
	WorkdayStart  *time.Time `json:"workday_start"`
	WorkdayEnd    *time.Time `json:"workday_end"`
	MaxDeliveries int        `json:"max_deliveries"`
	ZoneCenterLat float64    `json:"zone_center_lat"`
	ZoneCenterLng float64    `json:"zone_center_lng"`
	ZoneRadiusKm  float64    `json:"zone_radius_km"`
	MaxWeightKg   *float64   `json:"max_weight_kg"`
	MaxVolumeM3   *float64   `json:"max_volume_m3"`
}

// OptimizationOptions tune a single optimization request.
type OptimizationOptions struct {
	MaxDistanceKm      float64 `json:"max_distance_km"`
	MaxDurationMinutes float64 `json:"max_duration_minutes"`
	PrioritizeEarnings bool    `json:"prioritize_earnings"`
	VehicleType        string  `json:"vehicle_type"`
	FuelPricePerLiter  float64 `json:"fuel_price_per_liter"`
}
