package services

import (
	"testing"
	"time"

	"ecodeli/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildRoutePoints_PairsPerObligation(t *testing.T) {
	window := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	delivery := &models.Delivery{
		ID:              uuid.New(),
		PickupAddress:   "12 Rue de Rivoli, Paris",
		PickupLat:       48.8556,
		PickupLng:       2.3622,
		DeliveryAddress: "5 Avenue Foch, Paris",
		DeliveryLat:     48.8721,
		DeliveryLng:     2.2834,
		WindowStart:     &window,
		Urgency:         models.UrgencyHigh,
	}

	points, err := BuildRoutePoints([]*models.Delivery{delivery})

	require.NoError(t, err)
	require.Len(t, points, 2)

	pickup, drop := points[0], points[1]
	assert.Equal(t, models.PointPickup, pickup.Kind)
	assert.Equal(t, models.PointDelivery, drop.Kind)
	assert.Equal(t, delivery.ID, pickup.DeliveryID)
	assert.Equal(t, delivery.ID, drop.DeliveryID)
	assert.Equal(t, 3, pickup.Priority)
	assert.Equal(t, 10, pickup.ServiceMinutes)
	assert.Equal(t, 5, drop.ServiceMinutes)
	assert.Equal(t, &window, pickup.WindowStart)
}

func TestBuildRoutePoints_RejectsBadCoordinates(t *testing.T) {
	bad := &models.Delivery{ID: uuid.New(), PickupLat: 48.85, PickupLng: 200, DeliveryLat: 48.86, DeliveryLng: 2.36}

	_, err := BuildRoutePoints([]*models.Delivery{bad})

	assert.Error(t, err)
}

func TestPriorityFor(t *testing.T) {
	assert.Equal(t, 3, models.PriorityFor(models.UrgencyHigh))
	assert.Equal(t, 2, models.PriorityFor(models.UrgencyMedium))
	assert.Equal(t, 1, models.PriorityFor(models.UrgencyLow))
	assert.Equal(t, 1, models.PriorityFor("WHENEVER"))
}
