package repositories

import (
	"context"

	"ecodeli/internal/models"

	"github.com/google/uuid"
)

type TransferRepository interface {
	Create(ctx context.Context, q Querier, transfer *models.WarehouseTransfer) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.WarehouseTransfer, error)
	GetByTrackingNumber(ctx context.Context, trackingNumber string) (*models.WarehouseTransfer, error)
	UpdateStatus(ctx context.Context, q Querier, id uuid.UUID, status string) error
	CreateMovement(ctx context.Context, q Querier, movement *models.PackageMovement) error
	ListMovements(ctx context.Context, transferID uuid.UUID) ([]*models.PackageMovement, error)
}

type transferRepo struct {
	db Database
}

func NewTransferRepository(db Database) TransferRepository {
	return &transferRepo{db: db}
}

const transferColumns = `id, delivery_id, from_warehouse_id, to_warehouse_id, type, priority, volume_m3, weight_kg, estimated_arrival, tracking_number, status, notes, created_at`

func (r *transferRepo) Create(ctx context.Context, q Querier, transfer *models.WarehouseTransfer) error {
	query := `
		INSERT INTO warehouse_transfers (id, delivery_id, from_warehouse_id, to_warehouse_id, type, priority, volume_m3, weight_kg, estimated_arrival, tracking_number, status, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NOW())
	`
	_, err := q.Exec(ctx, query,
		transfer.ID, transfer.DeliveryID, transfer.FromWarehouseID, transfer.ToWarehouseID,
		transfer.Type, transfer.Priority, transfer.VolumeM3, transfer.WeightKg,
		transfer.EstimatedArrival, transfer.TrackingNumber, transfer.Status, transfer.Notes)
	return err
}

func (r *transferRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.WarehouseTransfer, error) {
	return r.getBy(ctx, `WHERE id = $1`, id)
}

func (r *transferRepo) GetByTrackingNumber(ctx context.Context, trackingNumber string) (*models.WarehouseTransfer, error) {
	return r.getBy(ctx, `WHERE tracking_number = $1`, trackingNumber)
}

func (r *transferRepo) getBy(ctx context.Context, where string, arg any) (*models.WarehouseTransfer, error) {
	transfer := &models.WarehouseTransfer{}
	query := `
		SELECT ` + transferColumns + `
		FROM warehouse_transfers
		` + where
	err := r.db.QueryRow(ctx, query, arg).Scan(
		&transfer.ID, &transfer.DeliveryID, &transfer.FromWarehouseID, &transfer.ToWarehouseID,
		&transfer.Type, &transfer.Priority, &transfer.VolumeM3, &transfer.WeightKg,
		&transfer.EstimatedArrival, &transfer.TrackingNumber, &transfer.Status, &transfer.Notes,
		&transfer.CreatedAt)
	if err != nil {
		return nil, err
	}
	return transfer, nil
}

func (r *transferRepo) UpdateStatus(ctx context.Context, q Querier, id uuid.UUID, status string) error {
	query := `UPDATE warehouse_transfers SET status = $1 WHERE id = $2`
	_, err := q.Exec(ctx, query, status, id)
	return err
}

func (r *transferRepo) CreateMovement(ctx context.Context, q Querier, movement *models.PackageMovement) error {
	query := `
		INSERT INTO package_movements (id, transfer_id, from_warehouse_id, to_warehouse_id, reason, moved_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
	`
	_, err := q.Exec(ctx, query,
		movement.ID, movement.TransferID, movement.FromWarehouseID, movement.ToWarehouseID, movement.Reason)
	return err
}

func (r *transferRepo) ListMovements(ctx context.Context, transferID uuid.UUID) ([]*models.PackageMovement, error) {
	query := `
		SELECT id, transfer_id, from_warehouse_id, to_warehouse_id, reason, moved_at
		FROM package_movements
		WHERE transfer_id = $1
		ORDER BY moved_at
	`
	rows, err := r.db.Query(ctx, query, transferID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var movements []*models.PackageMovement
	for rows.Next() {
		movement := &models.PackageMovement{}
		if err := rows.Scan(
			&movement.ID, &movement.TransferID, &movement.FromWarehouseID,
			&movement.ToWarehouseID, &movement.Reason, &movement.MovedAt); err != nil {
			return nil, err
		}
		movements = append(movements, movement)
	}
	return movements, rows.Err()
}
