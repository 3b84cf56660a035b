package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"ecodeli/internal/caching"
	"ecodeli/internal/common"
	"ecodeli/internal/models"
	"ecodeli/internal/repositories"

	"github.com/google/uuid"
	pgx "github.com/jackc/pgx/v5"
)

// routeRank orders the route lifecycle; transitions are forward-only, same
// discipline as package locations.
var routeRank = map[string]int{
	models.RouteStatusDraft:     0,
	models.RouteStatusActive:    1,
	models.RouteStatusCompleted: 2,
}

type RouteOptimizerService interface {
	// Optimize builds, orders and measures a route over the deliverer's
	// obligations for the date, then persists it as DRAFT.
	Optimize(ctx context.Context, delivererID uuid.UUID, date time.Time, opts *models.OptimizationOptions) (*models.OptimizedRoute, error)
	GetRoute(ctx context.Context, routeID uuid.UUID) (*models.OptimizedRoute, error)
	ListRoutes(ctx context.Context, delivererID uuid.UUID, date time.Time) ([]*models.OptimizedRoute, error)
	UpdateStatus(ctx context.Context, routeID uuid.UUID, newStatus string) error
}

type routeOptimizerService struct {
	routeRepo    repositories.RouteRepository
	deliveryRepo repositories.DeliveryRepository
	cacheService caching.CacheService
}

func NewRouteOptimizerService(routeRepo repositories.RouteRepository, deliveryRepo repositories.DeliveryRepository, cacheService caching.CacheService) RouteOptimizerService {
	return &routeOptimizerService{
		routeRepo:    routeRepo,
		deliveryRepo: deliveryRepo,
		cacheService: cacheService,
	}
}

func (s *routeOptimizerService) Optimize(ctx context.Context, delivererID uuid.UUID, date time.Time, opts *models.OptimizationOptions) (*models.OptimizedRoute, error) {
	deliveries, err := s.deliveryRepo.ListForDelivererOnDate(ctx, delivererID, date)
	if err != nil {
		return nil, err
	}
	if len(deliveries) == 0 {
		return nil, common.ErrNotFound
	}

	points, err := BuildRoutePoints(deliveries)
	if err != nil {
		return nil, err
	}
	ordered := OrderRoutePoints(points)

	var earnings float64
	for _, delivery := range deliveries {
		earnings += delivery.Price
	}

	vehicleType := models.VehicleCar
	var fuelPrice float64
	if opts != nil {
		if opts.VehicleType != "" {
			vehicleType = opts.VehicleType
		}
		fuelPrice = opts.FuelPricePerLiter
	}

	metrics := ComputeRouteMetrics(ordered, vehicleType, fuelPrice, earnings)

	if opts != nil {
		if opts.MaxDistanceKm > 0 && metrics.DistanceKm > opts.MaxDistanceKm {
			log.Printf("WARN: route for deliverer %s exceeds max distance: %.1f > %.1f km", delivererID, metrics.DistanceKm, opts.MaxDistanceKm)
		}
		if opts.MaxDurationMinutes > 0 && metrics.DurationMinutes > opts.MaxDurationMinutes {
			log.Printf("WARN: route for deliverer %s exceeds max duration: %.0f > %.0f min", delivererID, metrics.DurationMinutes, opts.MaxDurationMinutes)
		}
	}

	route := &models.OptimizedRoute{
		ID:              uuid.New(),
		DelivererID:     delivererID,
		Points:          ordered,
		TotalDistanceKm: metrics.DistanceKm,
		TotalMinutes:    metrics.DurationMinutes,
		TotalEarnings:   metrics.Earnings,
		EfficiencyScore: metrics.EfficiencyScore,
		FuelCost:        metrics.FuelCost,
		CO2SavingsKg:    metrics.CO2SavingsKg,
		Status:          models.RouteStatusDraft,
	}

	if err := s.routeRepo.Create(ctx, route); err != nil {
		return nil, err
	}

	if cacheErr := s.cacheService.SetRoute(ctx, route, time.Hour); cacheErr != nil {
		log.Printf("WARN: failed to cache route %s: %v", route.ID, cacheErr)
	}

	return route, nil
}

func (s *routeOptimizerService) GetRoute(ctx context.Context, routeID uuid.UUID) (*models.OptimizedRoute, error) {
	if cached, cacheErr := s.cacheService.GetRoute(ctx, routeID); cached != nil {
		return cached, nil
	} else if cacheErr != nil {
		log.Printf("WARN: route cache read for %s: %v", routeID, cacheErr)
	}

	route, err := s.routeRepo.GetByID(ctx, routeID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, err
	}

	if cacheErr := s.cacheService.SetRoute(ctx, route, time.Hour); cacheErr != nil {
		log.Printf("WARN: failed to cache route %s: %v", routeID, cacheErr)
	}

	return route, nil
}

func (s *routeOptimizerService) ListRoutes(ctx context.Context, delivererID uuid.UUID, date time.Time) ([]*models.OptimizedRoute, error) {
	return s.routeRepo.ListForDelivererOnDate(ctx, delivererID, date)
}

func (s *routeOptimizerService) UpdateStatus(ctx context.Context, routeID uuid.UUID, newStatus string) error {
	route, err := s.GetRoute(ctx, routeID)
	if err != nil {
		return err
	}

	fromRank, fromOK := routeRank[route.Status]
	toRank, toOK := routeRank[newStatus]
	if !toOK {
		return common.NewInvalidInput("status", fmt.Sprintf("unknown route status %s", newStatus))
	}
	if !fromOK || toRank <= fromRank {
		return common.NewInvalidInput("status", fmt.Sprintf("cannot transition from %s to %s", route.Status, newStatus))
	}

	if err := s.routeRepo.UpdateStatus(ctx, routeID, newStatus); err != nil {
		return err
	}

	if cacheErr := s.cacheService.DeleteRoute(ctx, routeID); cacheErr != nil {
		log.Printf("WARN: failed to invalidate route cache %s: %v", routeID, cacheErr)
	}

	return nil
}
