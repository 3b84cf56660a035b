package handlers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"ecodeli/internal/common"
	"ecodeli/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// TransferHandlers handles storage allocation and package tracking requests
type TransferHandlers struct {
	allocatorService services.WarehouseAllocatorService
	trackingService  services.PackageTrackingService
	transferService  services.TransferQueryService
}

func NewTransferHandlers(allocatorService services.WarehouseAllocatorService, trackingService services.PackageTrackingService, transferService services.TransferQueryService) *TransferHandlers {
	return &TransferHandlers{
		allocatorService: allocatorService,
		trackingService:  trackingService,
		transferService:  transferService,
	}
}

// CreateTransferRequest announces a package needing temporary storage
type CreateTransferRequest struct {
	DeliveryID       string     `json:"delivery_id" validate:"required,uuid"`
	PickupLat        float64    `json:"pickup_lat" validate:"gte=-90,lte=90"`
	PickupLng        float64    `json:"pickup_lng" validate:"gte=-180,lte=180"`
	DeliveryLat      float64    `json:"delivery_lat" validate:"gte=-90,lte=90"`
	DeliveryLng      float64    `json:"delivery_lng" validate:"gte=-180,lte=180"`
	VolumeM3         float64    `json:"volume_m3" validate:"required,gt=0"`
	WeightKg         float64    `json:"weight_kg" validate:"required,gt=0"`
	Type             string     `json:"type" validate:"omitempty,oneof=INCOMING OUTGOING INTER_WAREHOUSE STORAGE"`
	Priority         string     `json:"priority" validate:"omitempty,oneof=LOW MEDIUM HIGH"`
	Notes            *string    `json:"notes"`
	EstimatedArrival *time.Time `json:"estimated_arrival"`
	ExpectedPickupAt *time.Time `json:"expected_pickup_at"`
}

// CreateTransfer allocates a warehouse slot and creates the transfer
func (h *TransferHandlers) CreateTransfer(c echo.Context) error {
	ctx := c.Request().Context()

	var req CreateTransferRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if err := c.Validate(&req); err != nil {
		return common.SendValidationError(c, "body", err.Error())
	}

	deliveryID, err := uuid.Parse(req.DeliveryID)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid delivery ID format")
	}

	result, err := h.allocatorService.AllocateStorage(ctx, &services.AllocationRequest{
		DeliveryID:       deliveryID,
		PickupLat:        req.PickupLat,
		PickupLng:        req.PickupLng,
		DeliveryLat:      req.DeliveryLat,
		DeliveryLng:      req.DeliveryLng,
		VolumeM3:         req.VolumeM3,
		WeightKg:         req.WeightKg,
		Type:             req.Type,
		Priority:         req.Priority,
		Notes:            req.Notes,
		EstimatedArrival: req.EstimatedArrival,
		ExpectedPickupAt: req.ExpectedPickupAt,
	})
	if err != nil {
		if errors.Is(err, common.ErrCapacityExhausted) {
			return common.SendCapacityExhausted(c, "No warehouse can take this package")
		}
		if errors.Is(err, common.ErrConcurrencyConflict) {
			return common.SendCapacityExhausted(c, "Slot reservation conflict, please retry")
		}
		if common.IsInvalidInput(err) {
			return common.SendValidationError(c, "body", err.Error())
		}
		log.Printf("Storage allocation failed for delivery %s: %v", deliveryID, err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Storage allocation failed")
	}

	return c.JSON(http.StatusCreated, result)
}

// ListMovements returns the inter-warehouse movement audit trail
func (h *TransferHandlers) ListMovements(c echo.Context) error {
	ctx := c.Request().Context()

	transferID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid transfer ID format")
	}

	movements, err := h.transferService.ListMovements(ctx, transferID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return common.SendNotFound(c, "Transfer not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to list movements")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"transfer_id": transferID,
		"movements":   movements,
	})
}

// TrackPackage serves the per-obligation tracking view: status, slot,
// fee to date and estimated pickup
func (h *TransferHandlers) TrackPackage(c echo.Context) error {
	ctx := c.Request().Context()

	deliveryID, err := uuid.Parse(c.Param("deliveryID"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid delivery ID format")
	}

	info, err := h.trackingService.Track(ctx, deliveryID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return common.SendNotFound(c, "No active package location for this delivery")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to track package")
	}

	return c.JSON(http.StatusOK, info)
}

// TrackByNumber resolves a tracking number to the same view TrackPackage
// serves
func (h *TransferHandlers) TrackByNumber(c echo.Context) error {
	ctx := c.Request().Context()

	trackingNumber := c.Param("trackingNumber")
	if trackingNumber == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Missing tracking number")
	}

	info, err := h.trackingService.TrackByNumber(ctx, trackingNumber)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return common.SendNotFound(c, "No package found for this tracking number")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to track package")
	}

	return c.JSON(http.StatusOK, info)
}

// UpdateLocationStatusRequest advances a package location's lifecycle
type UpdateLocationStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=STORED PREPARING READY_FOR_PICKUP DISPATCHED"`
}

// UpdateLocationStatus applies a forward state-machine transition
func (h *TransferHandlers) UpdateLocationStatus(c echo.Context) error {
	ctx := c.Request().Context()

	locationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid location ID format")
	}

	var req UpdateLocationStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if err := c.Validate(&req); err != nil {
		return common.SendValidationError(c, "status", err.Error())
	}

	location, err := h.trackingService.AdvanceStatus(ctx, locationID, req.Status)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return common.SendNotFound(c, "Package location not found")
		}
		if common.IsInvalidInput(err) {
			return common.SendValidationError(c, "status", err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to update location status")
	}

	return c.JSON(http.StatusOK, location)
}

// MovePackageRequest relocates a package to another warehouse
type MovePackageRequest struct {
	ToWarehouseID string `json:"to_warehouse_id" validate:"required,uuid"`
	Reason        string `json:"reason" validate:"required"`
}

// MovePackage performs an inter-warehouse move with an audit entry
func (h *TransferHandlers) MovePackage(c echo.Context) error {
	ctx := c.Request().Context()

	locationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid location ID format")
	}

	var req MovePackageRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if err := c.Validate(&req); err != nil {
		return common.SendValidationError(c, "body", err.Error())
	}

	toWarehouseID, err := uuid.Parse(req.ToWarehouseID)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid warehouse ID format")
	}

	location, err := h.trackingService.Move(ctx, locationID, toWarehouseID, req.Reason)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return common.SendNotFound(c, "Location or warehouse not found")
		}
		if errors.Is(err, common.ErrCapacityExhausted) {
			return common.SendCapacityExhausted(c, "Destination warehouse is full")
		}
		if common.IsInvalidInput(err) {
			return common.SendValidationError(c, "body", err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to move package")
	}

	return c.JSON(http.StatusOK, location)
}
