// Package geo provides great-circle distance and travel-time estimation.
//
// Distances use the Haversine formula on a spherical Earth; travel times use
// flat per-vehicle average speeds. Good enough for route heuristics, not a
// substitute for a road-routing engine.
package geo

import (
	"math"

	"ecodeli/internal/models"
)

// EarthRadiusKm is the mean Earth radius used by the haversine formula.
const EarthRadiusKm = 6371.0

// Average speeds per vehicle class, km/h.
const (
	speedCar     = 30.0
	speedScooter = 25.0
	speedBike    = 15.0
	speedWalking = 5.0
)

// Haversine returns the great-circle distance in kilometers between two
// coordinate pairs. It is symmetric in its arguments.
func Haversine(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := degToRad(lat2 - lat1)
	dLng := degToRad(lng2 - lng1)

	sinLat := math.Sin(dLat / 2)
	sinLng := math.Sin(dLng / 2)

	a := sinLat*sinLat +
		math.Cos(degToRad(lat1))*math.Cos(degToRad(lat2))*sinLng*sinLng
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusKm * c
}

// SpeedFor returns the average speed in km/h for a vehicle class.
// Unknown classes fall back to car speed.
func SpeedFor(vehicleType string) float64 {
	switch vehicleType {
	case models.VehicleScooter:
		return speedScooter
	case models.VehicleBike:
		return speedBike
	case models.VehicleWalking:
		return speedWalking
	default:
		return speedCar
	}
}

// TravelMinutes estimates travel time in minutes for a distance and vehicle
// class.
func TravelMinutes(distanceKm float64, vehicleType string) float64 {
	return distanceKm / SpeedFor(vehicleType) * 60
}

func degToRad(deg float64) float64 {
	return deg * math.Pi / 180
}
