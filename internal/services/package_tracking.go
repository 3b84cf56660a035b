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

// locationRank orders the package lifecycle. Transitions may only move
// forward; DISPATCHED is terminal for a location row.
var locationRank = map[string]int{
	models.LocationIncoming:       0,
	models.LocationStored:         1,
	models.LocationPreparing:      2,
	models.LocationReadyForPickup: 3,
	models.LocationDispatched:     4,
}

// CanTransition reports whether a location may move from one status to the
// next. Only strictly forward steps are legal; there is no reversal and no
// self-transition.
func CanTransition(from, to string) bool {
	fromRank, fromOK := locationRank[from]
	toRank, toOK := locationRank[to]
	if !fromOK || !toOK {
		return false
	}
	return toRank > fromRank
}

// TrackingInfo is the per-obligation tracking view served to the rest of
// the system.
type TrackingInfo struct {
	Transfer        *models.WarehouseTransfer `json:"transfer"`
	Location        *models.PackageLocation   `json:"location"`
	FeeToDate       float64                   `json:"fee_to_date"`
	EstimatedPickup *time.Time                `json:"estimated_pickup"`
}

type PackageTrackingService interface {
	Track(ctx context.Context, deliveryID uuid.UUID) (*TrackingInfo, error)
	TrackByNumber(ctx context.Context, trackingNumber string) (*TrackingInfo, error)
	AdvanceStatus(ctx context.Context, locationID uuid.UUID, newStatus string) (*models.PackageLocation, error)
	Move(ctx context.Context, locationID, toWarehouseID uuid.UUID, reason string) (*models.PackageLocation, error)
}

type packageTrackingService struct {
	db              repositories.Database
	locationRepo    repositories.PackageLocationRepository
	transferRepo    repositories.TransferRepository
	warehouseRepo   repositories.WarehouseRepository
	capacityService WarehouseCapacityService
	cacheService    caching.CacheService
}

func NewPackageTrackingService(db repositories.Database, locationRepo repositories.PackageLocationRepository, transferRepo repositories.TransferRepository, warehouseRepo repositories.WarehouseRepository, capacityService WarehouseCapacityService, cacheService caching.CacheService) PackageTrackingService {
	return &packageTrackingService{
		db:              db,
		locationRepo:    locationRepo,
		transferRepo:    transferRepo,
		warehouseRepo:   warehouseRepo,
		capacityService: capacityService,
		cacheService:    cacheService,
	}
}

func (s *packageTrackingService) Track(ctx context.Context, deliveryID uuid.UUID) (*TrackingInfo, error) {
	location, err := s.locationRepo.GetActiveByDeliveryID(ctx, deliveryID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, err
	}
	return s.trackingView(ctx, location)
}

func (s *packageTrackingService) TrackByNumber(ctx context.Context, trackingNumber string) (*TrackingInfo, error) {
	if cached, cacheErr := s.cacheService.GetTracking(ctx, trackingNumber); cached != nil {
		return s.Track(ctx, cached.DeliveryID)
	} else if cacheErr != nil {
		log.Printf("WARN: tracking cache read for %s: %v", trackingNumber, cacheErr)
	}

	transfer, err := s.transferRepo.GetByTrackingNumber(ctx, trackingNumber)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, err
	}

	if cacheErr := s.cacheService.SetTracking(ctx, transfer, 10*time.Minute); cacheErr != nil {
		log.Printf("WARN: failed to cache tracking %s: %v", trackingNumber, cacheErr)
	}

	return s.Track(ctx, transfer.DeliveryID)
}

func (s *packageTrackingService) trackingView(ctx context.Context, location *models.PackageLocation) (*TrackingInfo, error) {
	transfer, err := s.transferRepo.GetByID(ctx, location.TransferID)
	if err != nil {
		return nil, err
	}
	return &TrackingInfo{
		Transfer:        transfer,
		Location:        location,
		FeeToDate:       StorageFeeSince(location.ArrivedAt, time.Now()),
		EstimatedPickup: location.ExpectedPickupAt,
	}, nil
}

// AdvanceStatus moves a location one or more steps forward in its
// lifecycle and keeps the owning transfer's status in step with it.
// Illegal transitions (backward, unknown, or out of a terminal state)
// fail as InvalidInput. Dispatching settles the accrued storage fees.
func (s *packageTrackingService) AdvanceStatus(ctx context.Context, locationID uuid.UUID, newStatus string) (*models.PackageLocation, error) {
	location, err := s.locationRepo.GetByID(ctx, locationID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, err
	}

	if !CanTransition(location.Status, newStatus) {
		return nil, common.NewInvalidInput("status", fmt.Sprintf("cannot transition from %s to %s", location.Status, newStatus))
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("advance status: begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := s.locationRepo.UpdateStatus(ctx, tx, locationID, newStatus); err != nil {
		return nil, err
	}
	if err := s.transferRepo.UpdateStatus(ctx, tx, location.TransferID, newStatus); err != nil {
		return nil, err
	}
	if newStatus == models.LocationDispatched {
		if err := s.locationRepo.MarkFeesSettled(ctx, tx, locationID); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("advance status: commit: %w", err)
	}
	location.Status = newStatus

	// DISPATCHED frees the slot, so the capacity snapshot is stale, and
	// the cached tracking entry still carries the pre-dispatch status.
	if newStatus == models.LocationDispatched {
		location.FeesSettled = true
		s.capacityService.Invalidate(ctx, location.WarehouseID)
		if transfer, transferErr := s.transferRepo.GetByID(ctx, location.TransferID); transferErr != nil {
			log.Printf("WARN: loading transfer %s after dispatch: %v", location.TransferID, transferErr)
		} else if cacheErr := s.cacheService.DeleteTracking(ctx, transfer.TrackingNumber); cacheErr != nil {
			log.Printf("WARN: dropping tracking cache %s: %v", transfer.TrackingNumber, cacheErr)
		}
	}

	return location, nil
}

// Move relocates a package to another warehouse: the old location is marked
// DISPATCHED, a fresh INCOMING location is reserved at the destination, and
// a PackageMovement audit row links the two. All in one transaction under
// the destination warehouse's allocation lock.
func (s *packageTrackingService) Move(ctx context.Context, locationID, toWarehouseID uuid.UUID, reason string) (*models.PackageLocation, error) {
	location, err := s.locationRepo.GetByID(ctx, locationID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, err
	}
	if location.Status == models.LocationDispatched {
		return nil, common.NewInvalidInput("location", "already dispatched")
	}
	if location.WarehouseID == toWarehouseID {
		return nil, common.NewInvalidInput("to_warehouse_id", "package is already in this warehouse")
	}

	destination, err := s.warehouseRepo.GetByID(ctx, toWarehouseID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, err
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("move package: begin: %w", err)
	}
	defer tx.Rollback(ctx)

	zone, shelf, position, err := reserveSlot(ctx, tx, s.warehouseRepo, s.locationRepo, destination)
	if err != nil {
		return nil, err
	}

	newLocation := &models.PackageLocation{
		ID:               uuid.New(),
		TransferID:       location.TransferID,
		DeliveryID:       location.DeliveryID,
		WarehouseID:      toWarehouseID,
		Zone:             zone,
		Shelf:            shelf,
		Position:         position,
		Status:           models.LocationIncoming,
		ExpectedPickupAt: location.ExpectedPickupAt,
	}

	if err := s.locationRepo.UpdateStatus(ctx, tx, location.ID, models.LocationDispatched); err != nil {
		return nil, err
	}
	// The old location's fees stop accruing once the package leaves it;
	// the transfer drops back to INCOMING for the destination leg.
	if err := s.locationRepo.MarkFeesSettled(ctx, tx, location.ID); err != nil {
		return nil, err
	}
	if err := s.transferRepo.UpdateStatus(ctx, tx, location.TransferID, models.LocationIncoming); err != nil {
		return nil, err
	}
	if err := s.locationRepo.Insert(ctx, tx, newLocation); err != nil {
		return nil, err
	}
	if err := s.transferRepo.CreateMovement(ctx, tx, &models.PackageMovement{
		ID:              uuid.New(),
		TransferID:      location.TransferID,
		FromWarehouseID: location.WarehouseID,
		ToWarehouseID:   toWarehouseID,
		Reason:          reason,
	}); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("move package: commit: %w", err)
	}

	s.capacityService.Invalidate(ctx, location.WarehouseID)
	s.capacityService.Invalidate(ctx, toWarehouseID)

	return newLocation, nil
}
