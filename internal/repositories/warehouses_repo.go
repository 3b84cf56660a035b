package repositories

import (
	"context"

	"ecodeli/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type WarehouseRepository interface {
	Create(ctx context.Context, warehouse *models.Warehouse) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Warehouse, error)
	Update(ctx context.Context, warehouse *models.Warehouse) error
	List(ctx context.Context, limit, offset int) ([]*models.Warehouse, error)
	ListActive(ctx context.Context) ([]*models.Warehouse, error)
	LockForAllocation(ctx context.Context, q Querier, id uuid.UUID) error
}

type warehouseRepo struct {
	db Database
}

func NewWarehouseRepository(db Database) WarehouseRepository {
	return &warehouseRepo{db: db}
}

const warehouseColumns = `id, name, address, lat, lng, zone_count, shelves_per_zone, positions_per_shelf, max_volume_m3, max_weight_kg, active, created_at, updated_at`

func (r *warehouseRepo) Create(ctx context.Context, warehouse *models.Warehouse) error {
	query := `
		INSERT INTO warehouses (id, name, address, lat, lng, zone_count, shelves_per_zone, positions_per_shelf, max_volume_m3, max_weight_kg, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query,
		warehouse.ID, warehouse.Name, warehouse.Address, warehouse.Lat, warehouse.Lng,
		warehouse.ZoneCount, warehouse.ShelvesPerZone, warehouse.PositionsPerShelf,
		warehouse.MaxVolumeM3, warehouse.MaxWeightKg, warehouse.Active)
	return err
}

func (r *warehouseRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Warehouse, error) {
	warehouse := &models.Warehouse{}
	query := `
		SELECT ` + warehouseColumns + `
		FROM warehouses
		WHERE id = $1
	`
	err := r.db.QueryRow(ctx, query, id).Scan(
		&warehouse.ID, &warehouse.Name, &warehouse.Address, &warehouse.Lat, &warehouse.Lng,
		&warehouse.ZoneCount, &warehouse.ShelvesPerZone, &warehouse.PositionsPerShelf,
		&warehouse.MaxVolumeM3, &warehouse.MaxWeightKg, &warehouse.Active,
		&warehouse.CreatedAt, &warehouse.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return warehouse, nil
}

func (r *warehouseRepo) Update(ctx context.Context, warehouse *models.Warehouse) error {
	query := `
		UPDATE warehouses
		SET name = $1, address = $2, lat = $3, lng = $4, zone_count = $5, shelves_per_zone = $6, positions_per_shelf = $7, max_volume_m3 = $8, max_weight_kg = $9, active = $10, updated_at = NOW()
		WHERE id = $11
	`
	_, err := r.db.Exec(ctx, query,
		warehouse.Name, warehouse.Address, warehouse.Lat, warehouse.Lng,
		warehouse.ZoneCount, warehouse.ShelvesPerZone, warehouse.PositionsPerShelf,
		warehouse.MaxVolumeM3, warehouse.MaxWeightKg, warehouse.Active, warehouse.ID)
	return err
}

func (r *warehouseRepo) List(ctx context.Context, limit, offset int) ([]*models.Warehouse, error) {
	query := `
		SELECT ` + warehouseColumns + `
		FROM warehouses
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanWarehouses(rows)
}

func (r *warehouseRepo) ListActive(ctx context.Context) ([]*models.Warehouse, error) {
	query := `
		SELECT ` + warehouseColumns + `
		FROM warehouses
		WHERE active = true
		ORDER BY id
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanWarehouses(rows)
}

// LockForAllocation takes a row lock on the warehouse so concurrent slot
// reservations against it serialize. Must run inside a transaction.
func (r *warehouseRepo) LockForAllocation(ctx context.Context, q Querier, id uuid.UUID) error {
	var locked uuid.UUID
	query := `SELECT id FROM warehouses WHERE id = $1 FOR UPDATE`
	return q.QueryRow(ctx, query, id).Scan(&locked)
}

func scanWarehouses(rows pgx.Rows) ([]*models.Warehouse, error) {
	var warehouses []*models.Warehouse
	for rows.Next() {
		warehouse := &models.Warehouse{}
		if err := rows.Scan(
			&warehouse.ID, &warehouse.Name, &warehouse.Address, &warehouse.Lat, &warehouse.Lng,
			&warehouse.ZoneCount, &warehouse.ShelvesPerZone, &warehouse.PositionsPerShelf,
			&warehouse.MaxVolumeM3, &warehouse.MaxWeightKg, &warehouse.Active,
			&warehouse.CreatedAt, &warehouse.UpdatedAt); err != nil {
			return nil, err
		}
		warehouses = append(warehouses, warehouse)
	}
	return warehouses, nil
}
