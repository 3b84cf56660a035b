package repositories

import (
	"context"
	"fmt"
	"time"

	"ecodeli/internal/models"

	"github.com/google/uuid"
)

type RouteRepository interface {
	Create(ctx context.Context, route *models.OptimizedRoute) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.OptimizedRoute, error)
	ListForDelivererOnDate(ctx context.Context, delivererID uuid.UUID, date time.Time) ([]*models.OptimizedRoute, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
}

type routeRepo struct {
	db Database
}

func NewRouteRepository(db Database) RouteRepository {
	return &routeRepo{db: db}
}

// Create persists the route header and its ordered points in one
// transaction. point_order preserves the visiting order.
func (r *routeRepo) Create(ctx context.Context, route *models.OptimizedRoute) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("create route: begin: %w", err)
	}
	defer tx.Rollback(ctx)

	routeQuery := `
		INSERT INTO optimized_routes (id, deliverer_id, total_distance_km, total_minutes, total_earnings, efficiency_score, fuel_cost, co2_savings_kg, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW())
	`
	_, err = tx.Exec(ctx, routeQuery,
		route.ID, route.DelivererID, route.TotalDistanceKm, route.TotalMinutes,
		route.TotalEarnings, route.EfficiencyScore, route.FuelCost, route.CO2SavingsKg, route.Status)
	if err != nil {
		return fmt.Errorf("create route: insert route: %w", err)
	}

	pointQuery := `
		INSERT INTO route_points (id, route_id, point_order, kind, address, lat, lng, window_start, window_end, priority, service_minutes, delivery_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	for i, point := range route.Points {
		_, err = tx.Exec(ctx, pointQuery,
			point.ID, route.ID, i, point.Kind, point.Address, point.Lat, point.Lng,
			point.WindowStart, point.WindowEnd, point.Priority, point.ServiceMinutes, point.DeliveryID)
		if err != nil {
			return fmt.Errorf("create route: insert point %d: %w", i, err)
		}
	}

	return tx.Commit(ctx)
}

func (r *routeRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.OptimizedRoute, error) {
	route := &models.OptimizedRoute{}
	query := `
		SELECT id, deliverer_id, total_distance_km, total_minutes, total_earnings, efficiency_score, fuel_cost, co2_savings_kg, status, created_at
		FROM optimized_routes
		WHERE id = $1
	`
	err := r.db.QueryRow(ctx, query, id).Scan(
		&route.ID, &route.DelivererID, &route.TotalDistanceKm, &route.TotalMinutes,
		&route.TotalEarnings, &route.EfficiencyScore, &route.FuelCost, &route.CO2SavingsKg,
		&route.Status, &route.CreatedAt)
	if err != nil {
		return nil, err
	}

	points, err := r.pointsForRoute(ctx, id)
	if err != nil {
		return nil, err
	}
	route.Points = points
	return route, nil
}

func (r *routeRepo) ListForDelivererOnDate(ctx context.Context, delivererID uuid.UUID, date time.Time) ([]*models.OptimizedRoute, error) {
	query := `
		SELECT id, deliverer_id, total_distance_km, total_minutes, total_earnings, efficiency_score, fuel_cost, co2_savings_kg, status, created_at
		FROM optimized_routes
		WHERE deliverer_id = $1 AND created_at::date = $2::date
		ORDER BY created_at DESC
	`
	rows, err := r.db.Query(ctx, query, delivererID, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var routes []*models.OptimizedRoute
	for rows.Next() {
		route := &models.OptimizedRoute{}
		if err := rows.Scan(
			&route.ID, &route.DelivererID, &route.TotalDistanceKm, &route.TotalMinutes,
			&route.TotalEarnings, &route.EfficiencyScore, &route.FuelCost, &route.CO2SavingsKg,
			&route.Status, &route.CreatedAt); err != nil {
			return nil, err
		}
		routes = append(routes, route)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}

	for _, route := range routes {
		points, err := r.pointsForRoute(ctx, route.ID)
		if err != nil {
			return nil, err
		}
		route.Points = points
	}
	return routes, nil
}

func (r *routeRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	query := `UPDATE optimized_routes SET status = $1 WHERE id = $2`
	tag, err := r.db.Exec(ctx, query, status, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update route status: route %s not found", id)
	}
	return nil
}

func (r *routeRepo) pointsForRoute(ctx context.Context, routeID uuid.UUID) ([]models.RoutePoint, error) {
	query := `
		SELECT id, kind, address, lat, lng, window_start, window_end, priority, service_minutes, delivery_id
		FROM route_points
		WHERE route_id = $1
		ORDER BY point_order
	`
	rows, err := r.db.Query(ctx, query, routeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var points []models.RoutePoint
	for rows.Next() {
		var point models.RoutePoint
		if err := rows.Scan(
			&point.ID, &point.Kind, &point.Address, &point.Lat, &point.Lng,
			&point.WindowStart, &point.WindowEnd, &point.Priority,
			&point.ServiceMinutes, &point.DeliveryID); err != nil {
			return nil, err
		}
		points = append(points, point)
	}
	return points, rows.Err()
}
