package handlers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"ecodeli/internal/common"
	"ecodeli/internal/models"
	"ecodeli/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// RouteHandlers handles route optimization HTTP requests
type RouteHandlers struct {
	optimizerService services.RouteOptimizerService
}

func NewRouteHandlers(optimizerService services.RouteOptimizerService) *RouteHandlers {
	return &RouteHandlers{optimizerService: optimizerService}
}

// OptimizeRouteRequest is the payload for a route optimization request
type OptimizeRouteRequest struct {
	DelivererID        string  `json:"deliverer_id" validate:"required,uuid"`
	Date               string  `json:"date" validate:"required"`
	VehicleType        string  `json:"vehicle_type" validate:"omitempty,oneof=CAR SCOOTER BIKE WALKING"`
	MaxDistanceKm      float64 `json:"max_distance_km" validate:"gte=0"`
	MaxDurationMinutes float64 `json:"max_duration_minutes" validate:"gte=0"`
	PrioritizeEarnings bool    `json:"prioritize_earnings"`
	FuelPricePerLiter  float64 `json:"fuel_price_per_liter" validate:"gte=0"`
}

// OptimizeRoute computes and persists a DRAFT route for a deliverer's
// obligations on the given date
func (h *RouteHandlers) OptimizeRoute(c echo.Context) error {
	ctx := c.Request().Context()

	var req OptimizeRouteRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if err := c.Validate(&req); err != nil {
		return common.SendValidationError(c, "body", err.Error())
	}

	delivererID, err := uuid.Parse(req.DelivererID)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid deliverer ID format")
	}
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid date format, expected YYYY-MM-DD")
	}

	opts := &models.OptimizationOptions{
		MaxDistanceKm:      req.MaxDistanceKm,
		MaxDurationMinutes: req.MaxDurationMinutes,
		PrioritizeEarnings: req.PrioritizeEarnings,
		VehicleType:        req.VehicleType,
		FuelPricePerLiter:  req.FuelPricePerLiter,
	}

	route, err := h.optimizerService.Optimize(ctx, delivererID, date, opts)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return common.SendNotFound(c, "No deliveries found for this deliverer and date")
		}
		if common.IsInvalidInput(err) {
			return common.SendValidationError(c, "deliveries", err.Error())
		}
		log.Printf("Route optimization failed for deliverer %s: %v", delivererID, err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Route optimization failed")
	}

	return c.JSON(http.StatusCreated, route)
}

// GetRoute returns a persisted route with its ordered points
func (h *RouteHandlers) GetRoute(c echo.Context) error {
	ctx := c.Request().Context()

	routeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid route ID format")
	}

	route, err := h.optimizerService.GetRoute(ctx, routeID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return common.SendNotFound(c, "Route not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to get route")
	}

	return c.JSON(http.StatusOK, route)
}

// ListDelivererRoutes returns a deliverer's routes for a date
func (h *RouteHandlers) ListDelivererRoutes(c echo.Context) error {
	ctx := c.Request().Context()

	delivererID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid deliverer ID format")
	}

	dateStr := c.QueryParam("date")
	if dateStr == "" {
		dateStr = time.Now().Format("2006-01-02")
	}
	date, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid date format, expected YYYY-MM-DD")
	}

	routes, err := h.optimizerService.ListRoutes(ctx, delivererID, date)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to list routes")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"routes": routes,
		"date":   dateStr,
	})
}

// UpdateRouteStatusRequest advances a route's lifecycle
type UpdateRouteStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=ACTIVE COMPLETED"`
}

// UpdateRouteStatus moves a route forward (DRAFT to ACTIVE to COMPLETED)
func (h *RouteHandlers) UpdateRouteStatus(c echo.Context) error {
	ctx := c.Request().Context()

	routeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid route ID format")
	}

	var req UpdateRouteStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if err := c.Validate(&req); err != nil {
		return common.SendValidationError(c, "status", err.Error())
	}

	if err := h.optimizerService.UpdateStatus(ctx, routeID, req.Status); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return common.SendNotFound(c, "Route not found")
		}
		if common.IsInvalidInput(err) {
			return common.SendValidationError(c, "status", err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to update route status")
	}

	return c.JSON(http.StatusOK, map[string]string{
		"id":     routeID.String(),
		"status": req.Status,
	})
}
