package caching

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"ecodeli/internal/models"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type CacheService interface {
	// Warehouse capacity caching
	GetWarehouseCapacity(ctx context.Context, warehouseID uuid.UUID) (*models.WarehouseCapacity, error)
	SetWarehouseCapacity(ctx context.Context, capacity *models.WarehouseCapacity, ttl time.Duration) error
	DeleteWarehouseCapacity(ctx context.Context, warehouseID uuid.UUID) error

	// Optimized route caching
	GetRoute(ctx context.Context, routeID uuid.UUID) (*models.OptimizedRoute, error)
	SetRoute(ctx context.Context, route *models.OptimizedRoute, ttl time.Duration) error
	DeleteRoute(ctx context.Context, routeID uuid.UUID) error

	// Tracking lookups
	GetTracking(ctx context.Context, trackingNumber string) (*models.WarehouseTransfer, error)
	SetTracking(ctx context.Context, transfer *models.WarehouseTransfer, ttl time.Duration) error
	DeleteTracking(ctx context.Context, trackingNumber string) error
}

type redisCacheService struct {
	client *redis.Client
}

func NewRedisCacheService(addr, password string, db int) CacheService {
	// Accept both host:port and redis:// URLs
	parsedAddr := addr
	if strings.HasPrefix(addr, "redis://") || strings.HasPrefix(addr, "rediss://") {
		if hostPort := strings.TrimPrefix(strings.TrimPrefix(addr, "redis://"), "rediss://"); hostPort != addr {
			parsedAddr = hostPort
		}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     parsedAddr,
		Password: password,
		DB:       db,
	})

	if pingErr := client.Ping(context.Background()).Err(); pingErr != nil {
		log.Printf("WARN: Redis ping failed on initialization: %v (address: %s)", pingErr, parsedAddr)
	} else {
		log.Printf("DEBUG: Redis connection established successfully")
	}

	return &redisCacheService{client: client}
}

func (r *redisCacheService) GetWarehouseCapacity(ctx context.Context, warehouseID uuid.UUID) (*models.WarehouseCapacity, error) {
	key := fmt.Sprintf("ecodeli:capacity:%s", warehouseID.String())
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // cache miss
		}
		return nil, err
	}

	var capacity models.WarehouseCapacity
	if err := json.Unmarshal(data, &capacity); err != nil {
		return nil, err
	}
	return &capacity, nil
}

func (r *redisCacheService) SetWarehouseCapacity(ctx context.Context, capacity *models.WarehouseCapacity, ttl time.Duration) error {
	key := fmt.Sprintf("ecodeli:capacity:%s", capacity.WarehouseID.String())
	data, err := json.Marshal(capacity)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, key, data, ttl).Err()
}

func (r *redisCacheService) DeleteWarehouseCapacity(ctx context.Context, warehouseID uuid.UUID) error {
	key := fmt.Sprintf("ecodeli:capacity:%s", warehouseID.String())
	return r.client.Del(ctx, key).Err()
}

func (r *redisCacheService) GetRoute(ctx context.Context, routeID uuid.UUID) (*models.OptimizedRoute, error) {
	key := fmt.Sprintf("ecodeli:route:%s", routeID.String())
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // cache miss
		}
		return nil, err
	}

	var route models.OptimizedRoute
	if err := json.Unmarshal(data, &route); err != nil {
		return nil, err
	}
	return &route, nil
}

func (r *redisCacheService) SetRoute(ctx context.Context, route *models.OptimizedRoute, ttl time.Duration) error {
	key := fmt.Sprintf("ecodeli:route:%s", route.ID.String())
	data, err := json.Marshal(route)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, key, data, ttl).Err()
}

func (r *redisCacheService) DeleteRoute(ctx context.Context, routeID uuid.UUID) error {
	key := fmt.Sprintf("ecodeli:route:%s", routeID.String())
	return r.client.Del(ctx, key).Err()
}

func (r *redisCacheService) GetTracking(ctx context.Context, trackingNumber string) (*models.WarehouseTransfer, error) {
	key := fmt.Sprintf("ecodeli:tracking:%s", trackingNumber)
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // cache miss
		}
		return nil, err
	}

	var transfer models.WarehouseTransfer
	if err := json.Unmarshal(data, &transfer); err != nil {
		return nil, err
	}
	return &transfer, nil
}

func (r *redisCacheService) SetTracking(ctx context.Context, transfer *models.WarehouseTransfer, ttl time.Duration) error {
	key := fmt.Sprintf("ecodeli:tracking:%s", transfer.TrackingNumber)
	data, err := json.Marshal(transfer)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, key, data, ttl).Err()
}

func (r *redisCacheService) DeleteTracking(ctx context.Context, trackingNumber string) error {
	key := fmt.Sprintf("ecodeli:tracking:%s", trackingNumber)
	return r.client.Del(ctx, key).Err()
}
