package jobs

import (
	"context"
	"log"
	"time"

	"ecodeli/internal/models"
	"ecodeli/internal/repositories"
	"ecodeli/internal/services"

	"github.com/google/uuid"
)

// StorageAlertService scans stored packages and flags the ones past their
// expected pickup or accruing fees beyond the grace period. It only
// computes and logs the alerts; notification delivery belongs to the
// surrounding application.
type StorageAlertService struct {
	locationRepo repositories.PackageLocationRepository
}

type StorageAlert struct {
	LocationID    uuid.UUID
	WarehouseID   uuid.UUID
	DeliveryID    uuid.UUID
	Slot          string
	DaysInStore   int
	FeeToDate     float64
	OverduePickup bool
}

func NewStorageAlertService(locationRepo repositories.PackageLocationRepository) *StorageAlertService {
	return &StorageAlertService{locationRepo: locationRepo}
}

// CheckStoredPackages builds the alert list for every occupying package
// that is either past its expected pickup or out of the fee grace period.
func (a *StorageAlertService) CheckStoredPackages(ctx context.Context) ([]StorageAlert, error) {
	locations, err := a.locationRepo.ListByStatus(ctx, models.OccupyingStatuses)
	if err != nil {
		log.Printf("Failed to list stored packages: %v", err)
		return nil, err
	}

	now := time.Now()
	var alerts []StorageAlert

	for _, location := range locations {
		days := int(now.Sub(location.ArrivedAt).Hours() / 24)
		fee := services.StorageFeeSince(location.ArrivedAt, now)
		overdue := location.ExpectedPickupAt != nil && now.After(*location.ExpectedPickupAt)

		if fee == 0 && !overdue {
			continue
		}

		alerts = append(alerts, StorageAlert{
			LocationID:    location.ID,
			WarehouseID:   location.WarehouseID,
			DeliveryID:    location.DeliveryID,
			Slot:          location.SlotLabel(),
			DaysInStore:   days,
			FeeToDate:     fee,
			OverduePickup: overdue,
		})
	}

	return alerts, nil
}

func (a *StorageAlertService) LogStorageAlerts(alerts []StorageAlert) {
	if len(alerts) == 0 {
		log.Println("No storage alerts to log")
		return
	}

	log.Printf("Storage alerts for %d packages:", len(alerts))
	for _, alert := range alerts {
		log.Printf("- Package %s at %s slot %s: %d days stored, fee to date %.2f, overdue pickup: %t",
			alert.DeliveryID.String(),
			alert.WarehouseID.String(),
			alert.Slot,
			alert.DaysInStore,
			alert.FeeToDate,
			alert.OverduePickup)
	}
}

// ScheduledStorageCheck is the entry point wired into the job scheduler.
func (a *StorageAlertService) ScheduledStorageCheck(ctx context.Context) error {
	log.Println("Starting scheduled storage check")

	alerts, err := a.CheckStoredPackages(ctx)
	if err != nil {
		log.Printf("Scheduled storage check failed: %v", err)
		return err
	}
	a.LogStorageAlerts(alerts)

	log.Println("Scheduled storage check completed successfully")
	return nil
}
