package services

import (
	"context"
	"testing"

	"ecodeli/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type WarehouseSelectorTestSuite struct {
	suite.Suite
	warehouseRepo   *MockWarehouseRepository
	capacityService *MockWarehouseCapacityService
	selector        WarehouseSelector
	ctx             context.Context
}

func (s *WarehouseSelectorTestSuite) SetupTest() {
	s.warehouseRepo = new(MockWarehouseRepository)
	s.capacityService = new(MockWarehouseCapacityService)
	s.selector = NewWarehouseSelector(s.warehouseRepo, s.capacityService)
	s.ctx = context.Background()
}

func (s *WarehouseSelectorTestSuite) roomyCapacity(w *models.Warehouse, available int) *models.WarehouseCapacity {
	return &models.WarehouseCapacity{
		WarehouseID:    w.ID,
		TotalSlots:     200,
		OccupiedSlots:  200 - available,
		AvailableSlots: available,
		VolumeCapacity: 1000,
		WeightCapacity: 10000,
	}
}

func (s *WarehouseSelectorTestSuite) TestSelectWarehouse_PrefersCloser() {
	near := &models.Warehouse{ID: uuid.New(), Name: "Paris Nord", Lat: 48.90, Lng: 2.35, Active: true}
	far := &models.Warehouse{ID: uuid.New(), Name: "Lyon", Lat: 45.76, Lng: 4.84, Active: true}

	s.warehouseRepo.On("ListActive", s.ctx).Return([]*models.Warehouse{far, near}, nil)
	s.capacityService.On("CapacityFor", s.ctx, near).Return(s.roomyCapacity(near, 100), nil)
	s.capacityService.On("CapacityFor", s.ctx, far).Return(s.roomyCapacity(far, 100), nil)

	choice, err := s.selector.SelectWarehouse(s.ctx, 48.85, 2.35, 48.88, 2.38, 0.5, 10)

	s.Require().NoError(err)
	s.Require().NotNil(choice)
	s.Equal(near.ID, choice.Warehouse.ID)
	s.Greater(choice.Score, 0.0)
}

func (s *WarehouseSelectorTestSuite) TestSelectWarehouse_CapacityBreaksGeographicTies() {
	// Same coordinates, so the 20% capacity share decides.
	emptier := &models.Warehouse{ID: uuid.New(), Lat: 48.90, Lng: 2.35, Active: true}
	fuller := &models.Warehouse{ID: uuid.New(), Lat: 48.90, Lng: 2.35, Active: true}

	s.warehouseRepo.On("ListActive", s.ctx).Return([]*models.Warehouse{fuller, emptier}, nil)
	s.capacityService.On("CapacityFor", s.ctx, emptier).Return(s.roomyCapacity(emptier, 150), nil)
	s.capacityService.On("CapacityFor", s.ctx, fuller).Return(s.roomyCapacity(fuller, 20), nil)

	choice, err := s.selector.SelectWarehouse(s.ctx, 48.85, 2.35, 48.88, 2.38, 0.5, 10)

	s.Require().NoError(err)
	s.Equal(emptier.ID, choice.Warehouse.ID)
}

func (s *WarehouseSelectorTestSuite) TestSelectWarehouse_ExactTieGoesToLowerUUID() {
	idA := uuid.MustParse("11111111-1111-1111-1111-111111111111")
	idB := uuid.MustParse("99999999-9999-9999-9999-999999999999")
	first := &models.Warehouse{ID: idB, Lat: 48.90, Lng: 2.35, Active: true}
	second := &models.Warehouse{ID: idA, Lat: 48.90, Lng: 2.35, Active: true}

	s.warehouseRepo.On("ListActive", s.ctx).Return([]*models.Warehouse{first, second}, nil)
	s.capacityService.On("CapacityFor", s.ctx, first).Return(s.roomyCapacity(first, 100), nil)
	s.capacityService.On("CapacityFor", s.ctx, second).Return(s.roomyCapacity(second, 100), nil)

	choice, err := s.selector.SelectWarehouse(s.ctx, 48.85, 2.35, 48.88, 2.38, 0.5, 10)

	s.Require().NoError(err)
	s.Equal(idA, choice.Warehouse.ID)
}

func (s *WarehouseSelectorTestSuite) TestSelectWarehouse_SkipsFullWarehouses() {
	full := &models.Warehouse{ID: uuid.New(), Lat: 48.86, Lng: 2.35, Active: true}
	open := &models.Warehouse{ID: uuid.New(), Lat: 45.76, Lng: 4.84, Active: true}

	s.warehouseRepo.On("ListActive", s.ctx).Return([]*models.Warehouse{full, open}, nil)
	s.capacityService.On("CapacityFor", s.ctx, full).Return(s.roomyCapacity(full, 0), nil)
	s.capacityService.On("CapacityFor", s.ctx, open).Return(s.roomyCapacity(open, 50), nil)

	choice, err := s.selector.SelectWarehouse(s.ctx, 48.85, 2.35, 48.88, 2.38, 0.5, 10)

	s.Require().NoError(err)
	s.Require().NotNil(choice)
	// The nearby warehouse is full, so the distant one wins by default.
	s.Equal(open.ID, choice.Warehouse.ID)
}

func (s *WarehouseSelectorTestSuite) TestSelectWarehouse_NoneFeasible() {
	full := &models.Warehouse{ID: uuid.New(), Lat: 48.86, Lng: 2.35, Active: true}

	s.warehouseRepo.On("ListActive", s.ctx).Return([]*models.Warehouse{full}, nil)
	s.capacityService.On("CapacityFor", s.ctx, full).Return(s.roomyCapacity(full, 0), nil)

	choice, err := s.selector.SelectWarehouse(s.ctx, 48.85, 2.35, 48.88, 2.38, 0.5, 10)

	s.Require().NoError(err)
	s.Nil(choice)
}

func (s *WarehouseSelectorTestSuite) TestSelectWarehouse_NoActiveWarehouses() {
	s.warehouseRepo.On("ListActive", s.ctx).Return([]*models.Warehouse{}, nil)

	choice, err := s.selector.SelectWarehouse(s.ctx, 48.85, 2.35, 48.88, 2.38, 0.5, 10)

	s.Require().NoError(err)
	s.Nil(choice)
}

func TestDistanceScore(t *testing.T) {
	// Zero average distance scores 1, 50 km and beyond score 0.
	assert.Equal(t, 1.0, distanceScore(0, 0))
	assert.Equal(t, 0.5, distanceScore(25, 25))
	assert.Equal(t, 0.0, distanceScore(80, 80))
}

func TestWarehouseSelectorTestSuite(t *testing.T) {
	suite.Run(t, new(WarehouseSelectorTestSuite))
}
