package services

import (
	"context"
	"testing"
	"time"

	"ecodeli/internal/common"
	"ecodeli/internal/models"

	"github.com/google/uuid"
	pgx "github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

func TestCanTransition_ForwardSteps(t *testing.T) {
	assert.True(t, CanTransition(models.LocationIncoming, models.LocationStored))
	assert.True(t, CanTransition(models.LocationStored, models.LocationPreparing))
	assert.True(t, CanTransition(models.LocationPreparing, models.LocationReadyForPickup))
	assert.True(t, CanTransition(models.LocationReadyForPickup, models.LocationDispatched))
	// Skipping intermediate states forward is legal.
	assert.True(t, CanTransition(models.LocationIncoming, models.LocationDispatched))
	assert.True(t, CanTransition(models.LocationStored, models.LocationReadyForPickup))
}

func TestCanTransition_Rejections(t *testing.T) {
	// Backward.
	assert.False(t, CanTransition(models.LocationStored, models.LocationIncoming))
	assert.False(t, CanTransition(models.LocationDispatched, models.LocationStored))
	// Self.
	assert.False(t, CanTransition(models.LocationStored, models.LocationStored))
	// Out of the terminal state.
	assert.False(t, CanTransition(models.LocationDispatched, models.LocationDispatched))
	// Unknown labels.
	assert.False(t, CanTransition("LOST", models.LocationStored))
	assert.False(t, CanTransition(models.LocationStored, "LOST"))
}

type PackageTrackingServiceTestSuite struct {
	suite.Suite
	mockPool        pgxmock.PgxPoolIface
	locationRepo    *MockPackageLocationRepository
	transferRepo    *MockTransferRepository
	warehouseRepo   *MockWarehouseRepository
	capacityService *MockWarehouseCapacityService
	cacheService    *MockCacheService
	service         PackageTrackingService
	ctx             context.Context
}

func (s *PackageTrackingServiceTestSuite) SetupTest() {
	mockPool, err := pgxmock.NewPool()
	s.Require().NoError(err)
	s.mockPool = mockPool
	s.locationRepo = new(MockPackageLocationRepository)
	s.transferRepo = new(MockTransferRepository)
	s.warehouseRepo = new(MockWarehouseRepository)
	s.capacityService = new(MockWarehouseCapacityService)
	s.cacheService = new(MockCacheService)
	s.service = NewPackageTrackingService(mockPool, s.locationRepo, s.transferRepo, s.warehouseRepo, s.capacityService, s.cacheService)
	s.ctx = context.Background()
}

func (s *PackageTrackingServiceTestSuite) TearDownTest() {
	s.mockPool.Close()
}

func (s *PackageTrackingServiceTestSuite) TestTrack_Success() {
	deliveryID := uuid.New()
	transferID := uuid.New()
	pickup := time.Now().Add(24 * time.Hour)
	location := &models.PackageLocation{
		ID:               uuid.New(),
		TransferID:       transferID,
		DeliveryID:       deliveryID,
		Status:           models.LocationStored,
		ArrivedAt:        time.Now().Add(-(10*24 + 1) * time.Hour),
		ExpectedPickupAt: &pickup,
	}
	transfer := &models.WarehouseTransfer{ID: transferID, DeliveryID: deliveryID}

	s.locationRepo.On("GetActiveByDeliveryID", s.ctx, deliveryID).Return(location, nil)
	s.transferRepo.On("GetByID", s.ctx, transferID).Return(transfer, nil)

	info, err := s.service.Track(s.ctx, deliveryID)

	s.Require().NoError(err)
	s.Equal(transfer, info.Transfer)
	s.Equal(location, info.Location)
	// Ten days stored: 10 base plus 3 days at 3/day.
	s.InDelta(19.0, info.FeeToDate, 0.01)
	s.Equal(&pickup, info.EstimatedPickup)
	s.locationRepo.AssertExpectations(s.T())
}

func (s *PackageTrackingServiceTestSuite) TestTrack_NotFound() {
	deliveryID := uuid.New()
	s.locationRepo.On("GetActiveByDeliveryID", s.ctx, deliveryID).Return(nil, pgx.ErrNoRows)

	_, err := s.service.Track(s.ctx, deliveryID)

	s.ErrorIs(err, common.ErrNotFound)
}

func (s *PackageTrackingServiceTestSuite) TestTrackByNumber_CacheMissThenStore() {
	deliveryID := uuid.New()
	transferID := uuid.New()
	trackingNumber := "WHABC123XYZ"
	transfer := &models.WarehouseTransfer{ID: transferID, DeliveryID: deliveryID, TrackingNumber: trackingNumber}
	location := &models.PackageLocation{
		ID:         uuid.New(),
		TransferID: transferID,
		DeliveryID: deliveryID,
		Status:     models.LocationStored,
		ArrivedAt:  time.Now(),
	}

	s.cacheService.On("GetTracking", s.ctx, trackingNumber).Return(nil, nil)
	s.transferRepo.On("GetByTrackingNumber", s.ctx, trackingNumber).Return(transfer, nil)
	s.cacheService.On("SetTracking", s.ctx, transfer, 10*time.Minute).Return(nil)
	s.locationRepo.On("GetActiveByDeliveryID", s.ctx, deliveryID).Return(location, nil)
	s.transferRepo.On("GetByID", s.ctx, transferID).Return(transfer, nil)

	info, err := s.service.TrackByNumber(s.ctx, trackingNumber)

	s.Require().NoError(err)
	s.Equal(location, info.Location)
	s.cacheService.AssertExpectations(s.T())
}

func (s *PackageTrackingServiceTestSuite) TestTrackByNumber_CacheHitSkipsLookup() {
	deliveryID := uuid.New()
	transferID := uuid.New()
	trackingNumber := "WHCACHED01"
	transfer := &models.WarehouseTransfer{ID: transferID, DeliveryID: deliveryID, TrackingNumber: trackingNumber}
	location := &models.PackageLocation{
		ID:         uuid.New(),
		TransferID: transferID,
		DeliveryID: deliveryID,
		ArrivedAt:  time.Now(),
	}

	s.cacheService.On("GetTracking", s.ctx, trackingNumber).Return(transfer, nil)
	s.locationRepo.On("GetActiveByDeliveryID", s.ctx, deliveryID).Return(location, nil)
	s.transferRepo.On("GetByID", s.ctx, transferID).Return(transfer, nil)

	_, err := s.service.TrackByNumber(s.ctx, trackingNumber)

	s.Require().NoError(err)
	s.transferRepo.AssertNotCalled(s.T(), "GetByTrackingNumber", mock.Anything, mock.Anything)
}

func (s *PackageTrackingServiceTestSuite) TestAdvanceStatus_Forward() {
	locationID := uuid.New()
	transferID := uuid.New()
	location := &models.PackageLocation{
		ID:          locationID,
		TransferID:  transferID,
		WarehouseID: uuid.New(),
		Status:      models.LocationIncoming,
	}

	s.mockPool.ExpectBegin()
	s.mockPool.ExpectCommit()
	s.mockPool.ExpectRollback()
	s.locationRepo.On("GetByID", s.ctx, locationID).Return(location, nil)
	s.locationRepo.On("UpdateStatus", s.ctx, mock.Anything, locationID, models.LocationStored).Return(nil)
	s.transferRepo.On("UpdateStatus", s.ctx, mock.Anything, transferID, models.LocationStored).Return(nil)

	updated, err := s.service.AdvanceStatus(s.ctx, locationID, models.LocationStored)

	s.Require().NoError(err)
	s.Equal(models.LocationStored, updated.Status)
	s.False(updated.FeesSettled)
	s.capacityService.AssertNotCalled(s.T(), "Invalidate", mock.Anything, mock.Anything)
	s.locationRepo.AssertNotCalled(s.T(), "MarkFeesSettled", mock.Anything, mock.Anything, mock.Anything)
	s.transferRepo.AssertExpectations(s.T())
}

func (s *PackageTrackingServiceTestSuite) TestAdvanceStatus_DispatchInvalidatesCapacity() {
	locationID := uuid.New()
	transferID := uuid.New()
	warehouseID := uuid.New()
	location := &models.PackageLocation{
		ID:          locationID,
		TransferID:  transferID,
		WarehouseID: warehouseID,
		Status:      models.LocationReadyForPickup,
	}
	transfer := &models.WarehouseTransfer{ID: transferID, TrackingNumber: "WHDISPATCH1"}

	s.mockPool.ExpectBegin()
	s.mockPool.ExpectCommit()
	s.mockPool.ExpectRollback()
	s.locationRepo.On("GetByID", s.ctx, locationID).Return(location, nil)
	s.locationRepo.On("UpdateStatus", s.ctx, mock.Anything, locationID, models.LocationDispatched).Return(nil)
	s.locationRepo.On("MarkFeesSettled", s.ctx, mock.Anything, locationID).Return(nil)
	s.transferRepo.On("UpdateStatus", s.ctx, mock.Anything, transferID, models.LocationDispatched).Return(nil)
	s.transferRepo.On("GetByID", s.ctx, transferID).Return(transfer, nil)
	s.cacheService.On("DeleteTracking", s.ctx, transfer.TrackingNumber).Return(nil)
	s.capacityService.On("Invalidate", s.ctx, warehouseID).Return()

	_, err := s.service.AdvanceStatus(s.ctx, locationID, models.LocationDispatched)

	s.Require().NoError(err)
	s.capacityService.AssertExpectations(s.T())
}

func (s *PackageTrackingServiceTestSuite) TestAdvanceStatus_DispatchSettlesFeesAndTransfer() {
	locationID := uuid.New()
	transferID := uuid.New()
	location := &models.PackageLocation{
		ID:          locationID,
		TransferID:  transferID,
		WarehouseID: uuid.New(),
		Status:      models.LocationReadyForPickup,
		ArrivedAt:   time.Now().Add(-(10*24 + 1) * time.Hour),
	}
	transfer := &models.WarehouseTransfer{ID: transferID, TrackingNumber: "WHSETTLE01", Status: models.LocationReadyForPickup}

	s.mockPool.ExpectBegin()
	s.mockPool.ExpectCommit()
	s.mockPool.ExpectRollback()
	s.locationRepo.On("GetByID", s.ctx, locationID).Return(location, nil)
	s.locationRepo.On("UpdateStatus", s.ctx, mock.Anything, locationID, models.LocationDispatched).Return(nil)
	s.locationRepo.On("MarkFeesSettled", s.ctx, mock.Anything, locationID).Return(nil)
	s.transferRepo.On("UpdateStatus", s.ctx, mock.Anything, transferID, models.LocationDispatched).Return(nil)
	s.transferRepo.On("GetByID", s.ctx, transferID).Return(transfer, nil)
	s.cacheService.On("DeleteTracking", s.ctx, transfer.TrackingNumber).Return(nil)
	s.capacityService.On("Invalidate", s.ctx, location.WarehouseID).Return()

	updated, err := s.service.AdvanceStatus(s.ctx, locationID, models.LocationDispatched)

	s.Require().NoError(err)
	s.True(updated.FeesSettled)
	s.locationRepo.AssertCalled(s.T(), "MarkFeesSettled", s.ctx, mock.Anything, locationID)
	s.transferRepo.AssertCalled(s.T(), "UpdateStatus", s.ctx, mock.Anything, transferID, models.LocationDispatched)
	s.cacheService.AssertCalled(s.T(), "DeleteTracking", s.ctx, transfer.TrackingNumber)
	s.Require().NoError(s.mockPool.ExpectationsWereMet())
}

func (s *PackageTrackingServiceTestSuite) TestAdvanceStatus_BackwardRejected() {
	locationID := uuid.New()
	location := &models.PackageLocation{ID: locationID, Status: models.LocationStored}

	s.locationRepo.On("GetByID", s.ctx, locationID).Return(location, nil)

	_, err := s.service.AdvanceStatus(s.ctx, locationID, models.LocationIncoming)

	s.Require().Error(err)
	s.True(common.IsInvalidInput(err))
	s.locationRepo.AssertNotCalled(s.T(), "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *PackageTrackingServiceTestSuite) TestMove_SettlesOldLocationFees() {
	locationID := uuid.New()
	transferID := uuid.New()
	fromWarehouseID := uuid.New()
	destination := &models.Warehouse{
		ID:                uuid.New(),
		Name:              "Lyon Sud",
		ZoneCount:         2,
		ShelvesPerZone:    2,
		PositionsPerShelf: 2,
	}
	location := &models.PackageLocation{
		ID:          locationID,
		TransferID:  transferID,
		DeliveryID:  uuid.New(),
		WarehouseID: fromWarehouseID,
		Status:      models.LocationStored,
	}

	s.mockPool.ExpectBegin()
	s.mockPool.ExpectCommit()
	s.mockPool.ExpectRollback()
	s.locationRepo.On("GetByID", s.ctx, locationID).Return(location, nil)
	s.warehouseRepo.On("GetByID", s.ctx, destination.ID).Return(destination, nil)
	s.warehouseRepo.On("LockForAllocation", s.ctx, mock.Anything, destination.ID).Return(nil)
	s.locationRepo.On("OccupiedTriples", s.ctx, mock.Anything, destination.ID).Return(map[string]bool{}, nil)
	s.locationRepo.On("UpdateStatus", s.ctx, mock.Anything, locationID, models.LocationDispatched).Return(nil)
	s.locationRepo.On("MarkFeesSettled", s.ctx, mock.Anything, locationID).Return(nil)
	s.transferRepo.On("UpdateStatus", s.ctx, mock.Anything, transferID, models.LocationIncoming).Return(nil)
	s.locationRepo.On("Insert", s.ctx, mock.Anything, mock.AnythingOfType("*models.PackageLocation")).Return(nil)
	s.transferRepo.On("CreateMovement", s.ctx, mock.Anything, mock.AnythingOfType("*models.PackageMovement")).Return(nil)
	s.capacityService.On("Invalidate", s.ctx, fromWarehouseID).Return()
	s.capacityService.On("Invalidate", s.ctx, destination.ID).Return()

	moved, err := s.service.Move(s.ctx, locationID, destination.ID, "rebalancing")

	s.Require().NoError(err)
	s.Equal(models.LocationIncoming, moved.Status)
	s.Equal(destination.ID, moved.WarehouseID)
	s.locationRepo.AssertCalled(s.T(), "MarkFeesSettled", s.ctx, mock.Anything, locationID)
	s.transferRepo.AssertCalled(s.T(), "UpdateStatus", s.ctx, mock.Anything, transferID, models.LocationIncoming)
	s.Require().NoError(s.mockPool.ExpectationsWereMet())
}

func (s *PackageTrackingServiceTestSuite) TestMove_AlreadyDispatched() {
	locationID := uuid.New()
	location := &models.PackageLocation{ID: locationID, Status: models.LocationDispatched, WarehouseID: uuid.New()}

	s.locationRepo.On("GetByID", s.ctx, locationID).Return(location, nil)

	_, err := s.service.Move(s.ctx, locationID, uuid.New(), "rebalancing")

	require.Error(s.T(), err)
	s.True(common.IsInvalidInput(err))
}

func (s *PackageTrackingServiceTestSuite) TestMove_SameWarehouseRejected() {
	locationID := uuid.New()
	warehouseID := uuid.New()
	location := &models.PackageLocation{ID: locationID, Status: models.LocationStored, WarehouseID: warehouseID}

	s.locationRepo.On("GetByID", s.ctx, locationID).Return(location, nil)

	_, err := s.service.Move(s.ctx, locationID, warehouseID, "rebalancing")

	s.Require().Error(err)
	s.True(common.IsInvalidInput(err))
	s.warehouseRepo.AssertNotCalled(s.T(), "GetByID", mock.Anything, mock.Anything)
}

func TestPackageTrackingServiceTestSuite(t *testing.T) {
	suite.Run(t, new(PackageTrackingServiceTestSuite))
}
