package repositories

import (
	"context"
	"time"

	"ecodeli/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type DeliveryRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Delivery, error)
	ListForDelivererOnDate(ctx context.Context, delivererID uuid.UUID, date time.Time) ([]*models.Delivery, error)
}

type deliveryRepo struct {
	db Database
}

func NewDeliveryRepository(db Database) DeliveryRepository {
	return &deliveryRepo{db: db}
}

const deliveryColumns = `id, deliverer_id, pickup_address, pickup_lat, pickup_lng, delivery_address, delivery_lat, delivery_lng, window_start, window_end, urgency, price, volume_m3, weight_kg, scheduled_date, created_at`

func (r *deliveryRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Delivery, error) {
	delivery := &models.Delivery{}
	query := `
		SELECT ` + deliveryColumns + `
		FROM deliveries
		WHERE id = $1
	`
	err := r.db.QueryRow(ctx, query, id).Scan(
		&delivery.ID, &delivery.DelivererID,
		&delivery.PickupAddress, &delivery.PickupLat, &delivery.PickupLng,
		&delivery.DeliveryAddress, &delivery.DeliveryLat, &delivery.DeliveryLng,
		&delivery.WindowStart, &delivery.WindowEnd, &delivery.Urgency,
		&delivery.Price, &delivery.VolumeM3, &delivery.WeightKg,
		&delivery.ScheduledDate, &delivery.CreatedAt)
	if err != nil {
		return nil, err
	}
	return delivery, nil
}

func (r *deliveryRepo) ListForDelivererOnDate(ctx context.Context, delivererID uuid.UUID, date time.Time) ([]*models.Delivery, error) {
	query := `
		SELECT ` + deliveryColumns + `
		FROM deliveries
		WHERE deliverer_id = $1 AND scheduled_date = $2::date
		ORDER BY created_at
	`
	rows, err := r.db.Query(ctx, query, delivererID, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanDeliveries(rows)
}

func scanDeliveries(rows pgx.Rows) ([]*models.Delivery, error) {
	var deliveries []*models.Delivery
	for rows.Next() {
		delivery := &models.Delivery{}
		if err := rows.Scan(
			&delivery.ID, &delivery.DelivererID,
			&delivery.PickupAddress, &delivery.PickupLat, &delivery.PickupLng,
			&delivery.DeliveryAddress, &delivery.DeliveryLat, &delivery.DeliveryLng,
			&delivery.WindowStart, &delivery.WindowEnd, &delivery.Urgency,
			&delivery.Price, &delivery.VolumeM3, &delivery.WeightKg,
			&delivery.ScheduledDate, &delivery.CreatedAt); err != nil {
			return nil, err
		}
		deliveries = append(deliveries, delivery)
	}
	return deliveries, nil
}
