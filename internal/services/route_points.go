package services

import (
	"ecodeli/internal/common"
	"ecodeli/internal/models"

	"github.com/google/uuid"
)

// On-site service durations in minutes. Pickups take longer because the
// deliverer verifies the package with the sender.
const (
	pickupServiceMinutes   = 10
	deliveryServiceMinutes = 5
)

// BuildRoutePoints expands delivery obligations into paired pickup and
// delivery stops. Each pair shares the obligation's DeliveryID; the pickup
// carries the time window so ordering can respect it.
func BuildRoutePoints(deliveries []*models.Delivery) ([]models.RoutePoint, error) {
	points := make([]models.RoutePoint, 0, len(deliveries)*2)
	for _, delivery := range deliveries {
		if err := validateCoordinate("pickup", delivery.PickupLat, delivery.PickupLng); err != nil {
			return nil, err
		}
		if err := validateCoordinate("delivery", delivery.DeliveryLat, delivery.DeliveryLng); err != nil {
			return nil, err
		}

		priority := models.PriorityFor(delivery.Urgency)

		points = append(points, models.RoutePoint{
			ID:             uuid.New(),
			Kind:           models.PointPickup,
			Address:        delivery.PickupAddress,
			Lat:            delivery.PickupLat,
			Lng:            delivery.PickupLng,
			WindowStart:    delivery.WindowStart,
			WindowEnd:      delivery.WindowEnd,
			Priority:       priority,
			ServiceMinutes: pickupServiceMinutes,
			DeliveryID:     delivery.ID,
		})
		points = append(points, models.RoutePoint{
			ID:             uuid.New(),
			Kind:           models.PointDelivery,
			Address:        delivery.DeliveryAddress,
			Lat:            delivery.DeliveryLat,
			Lng:            delivery.DeliveryLng,
			WindowStart:    delivery.WindowStart,
			WindowEnd:      delivery.WindowEnd,
			Priority:       priority,
			ServiceMinutes: deliveryServiceMinutes,
			DeliveryID:     delivery.ID,
		})
	}
	return points, nil
}

func validateCoordinate(field string, lat, lng float64) error {
	if lat < -90 || lat > 90 {
		return common.NewInvalidInput(field+"_lat", "must be between -90 and 90")
	}
	if lng < -180 || lng > 180 {
		return common.NewInvalidInput(field+"_lng", "must be between -180 and 180")
	}
	return nil
}
