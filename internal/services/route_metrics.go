package services

import (
	"ecodeli/internal/geo"
	"ecodeli/internal/models"
)

// Fuel consumption per vehicle class, liters per 100 km.
const (
	fuelPer100KmCar     = 7.0
	fuelPer100KmScooter = 3.0
)

// CO2 savings baseline: one dedicated 10 km round trip per delivery, at
// 0.12 kg CO2 per km. A marketing estimate, not a certified figure.
const (
	co2BaselineKmPerDelivery = 10.0
	co2KgPerKm               = 0.12
)

// Normalization anchors for the efficiency score. A route earning 20/h and
// 2/km scores 100.
const (
	referenceEarningsPerHour = 20.0
	referenceEarningsPerKm   = 2.0
)

// RouteMetrics are the aggregate figures for an ordered point list.
type RouteMetrics struct {
	DistanceKm      float64
	DurationMinutes float64
	Earnings        float64
	EfficiencyScore float64
	FuelCost        float64
	CO2SavingsKg    float64
}

// ComputeRouteMetrics derives distance, duration, efficiency, fuel cost and
// CO2 savings from an ordered point list. Earnings are the sum of obligation
// prices and are passed in by the caller, since points do not carry money.
func ComputeRouteMetrics(points []models.RoutePoint, vehicleType string, fuelPricePerLiter, earnings float64) RouteMetrics {
	metrics := RouteMetrics{Earnings: earnings}

	metrics.DistanceKm = TotalEdgeDistance(points)
	metrics.DurationMinutes = geo.TravelMinutes(metrics.DistanceKm, vehicleType)
	deliveries := 0
	for _, point := range points {
		metrics.DurationMinutes += float64(point.ServiceMinutes)
		if point.Kind == models.PointDelivery {
			deliveries++
		}
	}

	metrics.EfficiencyScore = efficiencyScore(earnings, metrics.DurationMinutes, metrics.DistanceKm)
	metrics.FuelCost = metrics.DistanceKm / 100 * fuelConsumptionFor(vehicleType) * fuelPricePerLiter

	baseline := float64(deliveries) * co2BaselineKmPerDelivery
	if saved := baseline - metrics.DistanceKm; saved > 0 {
		metrics.CO2SavingsKg = saved * co2KgPerKm
	}

	return metrics
}

// efficiencyScore blends earnings per hour and earnings per km into a 0-100
// figure so deliverers can compare routes independent of absolute scale.
func efficiencyScore(earnings, durationMinutes, distanceKm float64) float64 {
	if earnings <= 0 {
		return 0
	}

	var score float64
	if durationMinutes > 0 {
		perHour := earnings / (durationMinutes / 60)
		score += perHour / referenceEarningsPerHour * 50
	}
	if distanceKm > 0 {
		perKm := earnings / distanceKm
		score += perKm / referenceEarningsPerKm * 50
	}
	if score > 100 {
		score = 100
	}
	return score
}

// Unknown vehicle classes fall back to car, the same default
// geo.SpeedFor applies when estimating travel time.
func fuelConsumptionFor(vehicleType string) float64 {
	switch vehicleType {
	case models.VehicleBike, models.VehicleWalking:
		return 0
	case models.VehicleScooter:
		return fuelPer100KmScooter
	default:
		return fuelPer100KmCar
	}
}
