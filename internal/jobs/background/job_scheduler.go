package background

import (
	"context"
	"log"
	"sync"
	"time"

	"ecodeli/internal/jobs"
	"ecodeli/internal/repositories"
	"ecodeli/internal/services"

	"github.com/go-co-op/gocron/v2"
)

// JobScheduler manages the engine's background jobs.
type JobScheduler struct {
	scheduler       gocron.Scheduler
	alertService    *jobs.StorageAlertService
	capacityService services.WarehouseCapacityService
	warehouseRepo   repositories.WarehouseRepository
	registered      map[string]gocron.Job
	mu              sync.RWMutex
}

func NewJobScheduler(alertService *jobs.StorageAlertService, capacityService services.WarehouseCapacityService,
	warehouseRepo repositories.WarehouseRepository) *JobScheduler {

	scheduler, err := gocron.NewScheduler()
	if err != nil {
		log.Fatalf("Failed to create scheduler: %v", err)
	}

	js := &JobScheduler{
		scheduler:       scheduler,
		alertService:    alertService,
		capacityService: capacityService,
		warehouseRepo:   warehouseRepo,
		registered:      make(map[string]gocron.Job),
	}

	js.registerJobs()

	return js
}

func (js *JobScheduler) Start() error {
	log.Printf("Starting background job scheduler")
	js.scheduler.Start()
	return nil
}

func (js *JobScheduler) Stop() error {
	log.Printf("Stopping background job scheduler")
	return js.scheduler.Shutdown()
}

func (js *JobScheduler) registerJobs() {
	// Storage alerts - every 30 minutes
	alertsJob, err := js.scheduler.NewJob(
		gocron.DurationJob(30*time.Minute),
		gocron.NewTask(js.alertService.ScheduledStorageCheck, context.Background()),
		gocron.WithName("storage-alerts"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		log.Printf("Failed to create storage alerts job: %v", err)
	} else {
		js.registered["storage-alerts"] = alertsJob
	}

	// Capacity snapshot warmup - every 5 minutes
	capacityJob, err := js.scheduler.NewJob(
		gocron.DurationJob(5*time.Minute),
		gocron.NewTask(js.refreshCapacitySnapshots, context.Background()),
		gocron.WithName("capacity-refresh"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		log.Printf("Failed to create capacity refresh job: %v", err)
	} else {
		js.registered["capacity-refresh"] = capacityJob
	}

	log.Printf("Registered %d background jobs", len(js.registered))
}

// refreshCapacitySnapshots recomputes and re-caches capacity for every
// active warehouse so listing endpoints stay warm.
func (js *JobScheduler) refreshCapacitySnapshots(ctx context.Context) error {
	warehouses, err := js.warehouseRepo.ListActive(ctx)
	if err != nil {
		log.Printf("Failed to list warehouses for capacity refresh: %v", err)
		return err
	}

	for _, warehouse := range warehouses {
		if _, err := js.capacityService.CapacityFor(ctx, warehouse); err != nil {
			log.Printf("Failed to refresh capacity for warehouse %s: %v", warehouse.ID.String(), err)
		}
	}

	log.Printf("Refreshed capacity snapshots for %d warehouses", len(warehouses))
	return nil
}

// AddJob registers a custom job at runtime.
func (js *JobScheduler) AddJob(name string, interval time.Duration, taskFn interface{}, params ...interface{}) error {
	js.mu.Lock()
	defer js.mu.Unlock()

	job, err := js.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(taskFn, params...),
		gocron.WithName(name),
	)
	if err != nil {
		return err
	}

	js.registered[name] = job
	log.Printf("Added custom job: %s", name)
	return nil
}

// GetJobStatus returns the registered job names for health reporting.
func (js *JobScheduler) GetJobStatus() map[string]interface{} {
	js.mu.RLock()
	defer js.mu.RUnlock()

	names := make([]string, 0, len(js.registered))
	for name := range js.registered {
		names = append(names, name)
	}

	return map[string]interface{}{
		"total_jobs": len(js.registered),
		"jobs":       names,
	}
}
