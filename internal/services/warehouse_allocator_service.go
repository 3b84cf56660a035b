package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"ecodeli/internal/common"
	"ecodeli/internal/models"
	"ecodeli/internal/repositories"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/labstack/gommon/random"
)

const uniqueViolationCode = "23505"

// AllocationRequest describes a package needing temporary storage between
// pickup and delivery.
type AllocationRequest struct {
	DeliveryID       uuid.UUID  `json:"delivery_id"`
	PickupLat        float64    `json:"pickup_lat"`
	PickupLng        float64    `json:"pickup_lng"`
	DeliveryLat      float64    `json:"delivery_lat"`
	DeliveryLng      float64    `json:"delivery_lng"`
	VolumeM3         float64    `json:"volume_m3"`
	WeightKg         float64    `json:"weight_kg"`
	Type             string     `json:"type"`
	Priority         string     `json:"priority"`
	Notes            *string    `json:"notes"`
	EstimatedArrival *time.Time `json:"estimated_arrival"`
	ExpectedPickupAt *time.Time `json:"expected_pickup_at"`
}

// AllocationResult is the transfer plus its reserved location.
type AllocationResult struct {
	Transfer *models.WarehouseTransfer `json:"transfer"`
	Location *models.PackageLocation   `json:"location"`
}

type WarehouseAllocatorService interface {
	// AllocateStorage selects the best warehouse, reserves a slot and
	// creates the transfer with a tracking number, all in one transaction.
	// Returns ErrCapacityExhausted when no warehouse can take the package.
	AllocateStorage(ctx context.Context, req *AllocationRequest) (*AllocationResult, error)
}

type warehouseAllocatorService struct {
	db              repositories.Database
	warehouseRepo   repositories.WarehouseRepository
	locationRepo    repositories.PackageLocationRepository
	transferRepo    repositories.TransferRepository
	selector        WarehouseSelector
	capacityService WarehouseCapacityService
}

func NewWarehouseAllocatorService(db repositories.Database, warehouseRepo repositories.WarehouseRepository, locationRepo repositories.PackageLocationRepository, transferRepo repositories.TransferRepository, selector WarehouseSelector, capacityService WarehouseCapacityService) WarehouseAllocatorService {
	return &warehouseAllocatorService{
		db:              db,
		warehouseRepo:   warehouseRepo,
		locationRepo:    locationRepo,
		transferRepo:    transferRepo,
		selector:        selector,
		capacityService: capacityService,
	}
}

func (s *warehouseAllocatorService) AllocateStorage(ctx context.Context, req *AllocationRequest) (*AllocationResult, error) {
	if err := validateAllocationRequest(req); err != nil {
		return nil, err
	}

	result, err := s.tryAllocate(ctx, req)
	if errors.Is(err, common.ErrConcurrencyConflict) {
		// Lost a reservation race; the snapshot moved under us. One retry
		// against fresh occupancy is enough, after that the caller decides.
		log.Printf("DEBUG: slot reservation conflict for delivery %s, retrying once", req.DeliveryID)
		result, err = s.tryAllocate(ctx, req)
	}
	return result, err
}

func (s *warehouseAllocatorService) tryAllocate(ctx context.Context, req *AllocationRequest) (*AllocationResult, error) {
	choice, err := s.selector.SelectWarehouse(ctx, req.PickupLat, req.PickupLng, req.DeliveryLat, req.DeliveryLng, req.VolumeM3, req.WeightKg)
	if err != nil {
		return nil, err
	}
	if choice == nil {
		return nil, common.ErrCapacityExhausted
	}
	warehouse := choice.Warehouse

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("allocate storage: begin: %w", err)
	}
	defer tx.Rollback(ctx)

	zone, shelf, position, err := reserveSlot(ctx, tx, s.warehouseRepo, s.locationRepo, warehouse)
	if err != nil {
		return nil, err
	}

	transferType := req.Type
	if transferType == "" {
		transferType = models.TransferStorage
	}

	transfer := &models.WarehouseTransfer{
		ID:               uuid.New(),
		DeliveryID:       req.DeliveryID,
		ToWarehouseID:    warehouse.ID,
		Type:             transferType,
		Priority:         req.Priority,
		VolumeM3:         req.VolumeM3,
		WeightKg:         req.WeightKg,
		EstimatedArrival: req.EstimatedArrival,
		TrackingNumber:   GenerateTrackingNumber(),
		Status:           models.LocationIncoming,
		Notes:            req.Notes,
	}
	location := &models.PackageLocation{
		ID:               uuid.New(),
		TransferID:       transfer.ID,
		DeliveryID:       req.DeliveryID,
		WarehouseID:      warehouse.ID,
		Zone:             zone,
		Shelf:            shelf,
		Position:         position,
		Status:           models.LocationIncoming,
		ExpectedPickupAt: req.ExpectedPickupAt,
	}

	if err := s.transferRepo.Create(ctx, tx, transfer); err != nil {
		return nil, err
	}
	if err := s.locationRepo.Insert(ctx, tx, location); err != nil {
		if isUniqueViolation(err) {
			return nil, common.ErrConcurrencyConflict
		}
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("allocate storage: commit: %w", err)
	}

	s.capacityService.Invalidate(ctx, warehouse.ID)

	return &AllocationResult{Transfer: transfer, Location: location}, nil
}

func validateAllocationRequest(req *AllocationRequest) error {
	if err := validateCoordinate("pickup", req.PickupLat, req.PickupLng); err != nil {
		return err
	}
	if err := validateCoordinate("delivery", req.DeliveryLat, req.DeliveryLng); err != nil {
		return err
	}
	if req.VolumeM3 <= 0 {
		return common.NewInvalidInput("volume_m3", "must be positive")
	}
	if req.WeightKg <= 0 {
		return common.NewInvalidInput("weight_kg", "must be positive")
	}
	if req.EstimatedArrival != nil && req.ExpectedPickupAt != nil && req.ExpectedPickupAt.Before(*req.EstimatedArrival) {
		return common.NewInvalidInput("expected_pickup_at", "must not precede estimated arrival")
	}
	return nil
}

// GenerateTrackingNumber builds a "WH" number from the base-36 millisecond
// timestamp plus six random base-36 characters, upper-cased.
func GenerateTrackingNumber() string {
	timestamp := strings.ToUpper(strconv.FormatInt(time.Now().UnixMilli(), 36))
	suffix := random.String(6, random.Uppercase+random.Numeric)
	return "WH" + timestamp + suffix
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}
