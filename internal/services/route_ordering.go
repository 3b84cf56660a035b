package services

import (
	"sort"
	"time"

	"ecodeli/internal/geo"
	"ecodeli/internal/models"

	"github.com/google/uuid"
)

// maxTwoOptPasses bounds the local search so pathological inputs cannot spin.
// Each completed pass only ever shortens the route, so stopping early still
// returns an order no worse than the priority-sorted one.
const maxTwoOptPasses = 25

// OrderRoutePoints turns an arbitrarily interleaved point list into a
// visiting order: pickups sorted by priority (descending, earlier time window
// first on ties), each immediately followed by its paired delivery, then a
// bounded 2-opt pass over geographic distance. A delivery is never reordered
// ahead of its own pickup.
func OrderRoutePoints(points []models.RoutePoint) []models.RoutePoint {
	if len(points) <= 1 {
		return points
	}
	ordered := orderByPriority(points)
	return twoOptImprove(ordered)
}

// orderByPriority builds the naive paired order: pickups by descending
// priority (ties: ascending window start, untimed last, stable), each pickup
// immediately followed by its delivery. Unpaired points keep their input
// order at the end.
func orderByPriority(points []models.RoutePoint) []models.RoutePoint {
	var pickups []models.RoutePoint
	deliveriesByID := make(map[uuid.UUID]models.RoutePoint)
	var rest []models.RoutePoint

	for _, point := range points {
		switch point.Kind {
		case models.PointPickup:
			pickups = append(pickups, point)
		case models.PointDelivery:
			deliveriesByID[point.DeliveryID] = point
		default:
			rest = append(rest, point)
		}
	}

	sort.SliceStable(pickups, func(i, j int) bool {
		if pickups[i].Priority != pickups[j].Priority {
			return pickups[i].Priority > pickups[j].Priority
		}
		return windowStartBefore(pickups[i].WindowStart, pickups[j].WindowStart)
	})

	ordered := make([]models.RoutePoint, 0, len(points))
	for _, pickup := range pickups {
		ordered = append(ordered, pickup)
		if delivery, ok := deliveriesByID[pickup.DeliveryID]; ok {
			ordered = append(ordered, delivery)
			delete(deliveriesByID, pickup.DeliveryID)
		}
	}

	// Orphan deliveries and waypoints go last, input order preserved.
	for _, point := range points {
		if point.Kind == models.PointDelivery {
			if _, orphan := deliveriesByID[point.DeliveryID]; orphan {
				ordered = append(ordered, point)
				delete(deliveriesByID, point.DeliveryID)
			}
		}
	}
	ordered = append(ordered, rest...)

	return ordered
}

// windowStartBefore orders time-window starts ascending; points without a
// window sort after timed ones.
func windowStartBefore(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a != nil && b == nil
	}
	return a.Before(*b)
}

// twoOptImprove runs 2-opt segment reversals until a full pass finds no
// strictly improving reversal or the pass budget runs out. Reversals that
// would put a delivery before its own pickup are rejected.
func twoOptImprove(points []models.RoutePoint) []models.RoutePoint {
	if len(points) < 4 {
		return points
	}

	current := make([]models.RoutePoint, len(points))
	copy(current, points)

	for pass := 0; pass < maxTwoOptPasses; pass++ {
		improved := false
		for i := 1; i < len(current)-1; i++ {
			for j := i + 1; j < len(current); j++ {
				if reversalGain(current, i, j) <= 0 {
					continue
				}
				reverseSegment(current, i, j)
				if !pairingHolds(current) {
					reverseSegment(current, i, j) // undo
					continue
				}
				improved = true
			}
		}
		if !improved {
			break
		}
	}
	return current
}

// reversalGain returns the edge-distance saved by reversing current[i..j].
// Only the two boundary edges change; interior edges keep their length.
func reversalGain(points []models.RoutePoint, i, j int) float64 {
	before := pointDistance(points[i-1], points[i])
	after := pointDistance(points[i-1], points[j])
	if j < len(points)-1 {
		before += pointDistance(points[j], points[j+1])
		after += pointDistance(points[i], points[j+1])
	}
	return before - after
}

func reverseSegment(points []models.RoutePoint, i, j int) {
	for i < j {
		points[i], points[j] = points[j], points[i]
		i++
		j--
	}
}

// pairingHolds reports whether every pickup precedes its paired delivery.
func pairingHolds(points []models.RoutePoint) bool {
	pickupSeen := make(map[uuid.UUID]bool, len(points)/2)
	for _, point := range points {
		switch point.Kind {
		case models.PointPickup:
			pickupSeen[point.DeliveryID] = true
		case models.PointDelivery:
			if !pickupSeen[point.DeliveryID] {
				return false
			}
		}
	}
	return true
}

// TotalEdgeDistance sums the great-circle distance over consecutive points.
func TotalEdgeDistance(points []models.RoutePoint) float64 {
	var total float64
	for i := 1; i < len(points); i++ {
		total += pointDistance(points[i-1], points[i])
	}
	return total
}

func pointDistance(a, b models.RoutePoint) float64 {
	return geo.Haversine(a.Lat, a.Lng, b.Lat, b.Lng)
}
