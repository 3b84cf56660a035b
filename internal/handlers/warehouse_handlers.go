package handlers

import (
	"errors"
	"net/http"

	"ecodeli/internal/common"
	"ecodeli/internal/models"
	"ecodeli/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// WarehouseHandlers handles warehouse management HTTP requests
type WarehouseHandlers struct {
	warehouseService services.WarehouseService
}

func NewWarehouseHandlers(warehouseService services.WarehouseService) *WarehouseHandlers {
	return &WarehouseHandlers{warehouseService: warehouseService}
}

// ListWarehouses returns every active warehouse with its computed capacity
func (h *WarehouseHandlers) ListWarehouses(c echo.Context) error {
	ctx := c.Request().Context()

	warehouses, err := h.warehouseService.ListWithCapacity(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to list warehouses")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"warehouses": warehouses,
	})
}

// CreateWarehouseRequest is the warehouse creation payload
type CreateWarehouseRequest struct {
	Name              string  `json:"name" validate:"required"`
	Address           *string `json:"address"`
	Lat               float64 `json:"lat" validate:"gte=-90,lte=90"`
	Lng               float64 `json:"lng" validate:"gte=-180,lte=180"`
	ZoneCount         int     `json:"zone_count" validate:"gte=0,lte=26"`
	ShelvesPerZone    int     `json:"shelves_per_zone" validate:"gte=0"`
	PositionsPerShelf int     `json:"positions_per_shelf" validate:"gte=0"`
	MaxVolumeM3       float64 `json:"max_volume_m3" validate:"required,gt=0"`
	MaxWeightKg       float64 `json:"max_weight_kg" validate:"required,gt=0"`
}

// CreateWarehouse registers a new storage facility. Zero layout dimensions
// fall back to the default 4x5x10 slot universe.
func (h *WarehouseHandlers) CreateWarehouse(c echo.Context) error {
	ctx := c.Request().Context()

	var req CreateWarehouseRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if err := c.Validate(&req); err != nil {
		return common.SendValidationError(c, "body", err.Error())
	}

	warehouse := &models.Warehouse{
		ID:                uuid.New(),
		Name:              req.Name,
		Address:           req.Address,
		Lat:               req.Lat,
		Lng:               req.Lng,
		ZoneCount:         req.ZoneCount,
		ShelvesPerZone:    req.ShelvesPerZone,
		PositionsPerShelf: req.PositionsPerShelf,
		MaxVolumeM3:       req.MaxVolumeM3,
		MaxWeightKg:       req.MaxWeightKg,
		Active:            true,
	}

	if err := h.warehouseService.Create(ctx, warehouse); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusCreated, warehouse)
}

// GetWarehouse returns warehouse details by ID
func (h *WarehouseHandlers) GetWarehouse(c echo.Context) error {
	ctx := c.Request().Context()

	warehouseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid warehouse ID format")
	}

	warehouse, err := h.warehouseService.GetByID(ctx, warehouseID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return common.SendNotFound(c, "Warehouse not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to get warehouse")
	}

	return c.JSON(http.StatusOK, warehouse)
}
