package repositories

import (
	"context"

	"ecodeli/internal/models"

	"github.com/google/uuid"
)

type PackageLocationRepository interface {
	Insert(ctx context.Context, q Querier, location *models.PackageLocation) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.PackageLocation, error)
	GetActiveByDeliveryID(ctx context.Context, deliveryID uuid.UUID) (*models.PackageLocation, error)
	OccupiedTriples(ctx context.Context, q Querier, warehouseID uuid.UUID) (map[string]bool, error)
	Occupancy(ctx context.Context, warehouseID uuid.UUID) (*WarehouseOccupancy, error)
	UpdateStatus(ctx context.Context, q Querier, id uuid.UUID, status string) error
	MarkFeesSettled(ctx context.Context, q Querier, id uuid.UUID) error
	ListByStatus(ctx context.Context, statuses []string) ([]*models.PackageLocation, error)
}

// WarehouseOccupancy aggregates the load of a warehouse's occupying
// packages. Volume and weight come from the owning transfers.
type WarehouseOccupancy struct {
	OccupiedSlots int
	VolumeM3      float64
	WeightKg      float64
}

type packageLocationRepo struct {
	db Database
}

func NewPackageLocationRepository(db Database) PackageLocationRepository {
	return &packageLocationRepo{db: db}
}

const locationColumns = `id, transfer_id, delivery_id, warehouse_id, zone, shelf, position, status, arrived_at, expected_pickup_at, fees_settled`

func (r *packageLocationRepo) Insert(ctx context.Context, q Querier, location *models.PackageLocation) error {
	query := `
		INSERT INTO package_locations (id, transfer_id, delivery_id, warehouse_id, zone, shelf, position, status, arrived_at, expected_pickup_at, fees_settled)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), $9, false)
	`
	_, err := q.Exec(ctx, query,
		location.ID, location.TransferID, location.DeliveryID, location.WarehouseID,
		location.Zone, location.Shelf, location.Position, location.Status,
		location.ExpectedPickupAt)
	return err
}

func (r *packageLocationRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.PackageLocation, error) {
	location := &models.PackageLocation{}
	query := `
		SELECT ` + locationColumns + `
		FROM package_locations
		WHERE id = $1
	`
	err := r.db.QueryRow(ctx, query, id).Scan(
		&location.ID, &location.TransferID, &location.DeliveryID, &location.WarehouseID,
		&location.Zone, &location.Shelf, &location.Position, &location.Status,
		&location.ArrivedAt, &location.ExpectedPickupAt, &location.FeesSettled)
	if err != nil {
		return nil, err
	}
	return location, nil
}

// GetActiveByDeliveryID returns the delivery's current (non-dispatched)
// location. The newest row wins when a package has moved between warehouses.
func (r *packageLocationRepo) GetActiveByDeliveryID(ctx context.Context, deliveryID uuid.UUID) (*models.PackageLocation, error) {
	location := &models.PackageLocation{}
	query := `
		SELECT ` + locationColumns + `
		FROM package_locations
		WHERE delivery_id = $1 AND status = ANY($2)
		ORDER BY arrived_at DESC
		LIMIT 1
	`
	err := r.db.QueryRow(ctx, query, deliveryID, models.OccupyingStatuses).Scan(
		&location.ID, &location.TransferID, &location.DeliveryID, &location.WarehouseID,
		&location.Zone, &location.Shelf, &location.Position, &location.Status,
		&location.ArrivedAt, &location.ExpectedPickupAt, &location.FeesSettled)
	if err != nil {
		return nil, err
	}
	return location, nil
}

// OccupiedTriples returns the set of occupied "zone-shelf-position" labels
// for a warehouse. Called under the warehouse allocation lock.
func (r *packageLocationRepo) OccupiedTriples(ctx context.Context, q Querier, warehouseID uuid.UUID) (map[string]bool, error) {
	query := `
		SELECT zone, shelf, position
		FROM package_locations
		WHERE warehouse_id = $1 AND status = ANY($2)
	`
	rows, err := q.Query(ctx, query, warehouseID, models.OccupyingStatuses)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	occupied := make(map[string]bool)
	for rows.Next() {
		var zone, shelf, position string
		if err := rows.Scan(&zone, &shelf, &position); err != nil {
			return nil, err
		}
		occupied[zone+"-"+shelf+"-"+position] = true
	}
	return occupied, rows.Err()
}

// Occupancy recomputes the warehouse's slot count and volume/weight load
// from its occupying package set. Always fresh, never cached here.
func (r *packageLocationRepo) Occupancy(ctx context.Context, warehouseID uuid.UUID) (*WarehouseOccupancy, error) {
	occupancy := &WarehouseOccupancy{}
	query := `
		SELECT COUNT(pl.id), COALESCE(SUM(wt.volume_m3), 0), COALESCE(SUM(wt.weight_kg), 0)
		FROM package_locations pl
		JOIN warehouse_transfers wt ON wt.id = pl.transfer_id
		WHERE pl.warehouse_id = $1 AND pl.status = ANY($2)
	`
	err := r.db.QueryRow(ctx, query, warehouseID, models.OccupyingStatuses).Scan(
		&occupancy.OccupiedSlots, &occupancy.VolumeM3, &occupancy.WeightKg)
	if err != nil {
		return nil, err
	}
	return occupancy, nil
}

func (r *packageLocationRepo) UpdateStatus(ctx context.Context, q Querier, id uuid.UUID, status string) error {
	query := `UPDATE package_locations SET status = $1 WHERE id = $2`
	_, err := q.Exec(ctx, query, status, id)
	return err
}

func (r *packageLocationRepo) MarkFeesSettled(ctx context.Context, q Querier, id uuid.UUID) error {
	query := `UPDATE package_locations SET fees_settled = true WHERE id = $1`
	_, err := q.Exec(ctx, query, id)
	return err
}

// ListByStatus returns all locations currently in one of the given
// statuses, oldest arrivals first. Used by the storage alerts job.
func (r *packageLocationRepo) ListByStatus(ctx context.Context, statuses []string) ([]*models.PackageLocation, error) {
	query := `
		SELECT ` + locationColumns + `
		FROM package_locations
		WHERE status = ANY($1)
		ORDER BY arrived_at
	`
	rows, err := r.db.Query(ctx, query, statuses)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var locations []*models.PackageLocation
	for rows.Next() {
		location := &models.PackageLocation{}
		if err := rows.Scan(
			&location.ID, &location.TransferID, &location.DeliveryID, &location.WarehouseID,
			&location.Zone, &location.Shelf, &location.Position, &location.Status,
			&location.ArrivedAt, &location.ExpectedPickupAt, &location.FeesSettled); err != nil {
			return nil, err
		}
		locations = append(locations, location)
	}
	return locations, rows.Err()
}
