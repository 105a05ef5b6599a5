package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"stockledger/internal/models"
	"stockledger/internal/repositories"

	"github.com/google/uuid"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// MockProductResolver mocks the catalog resolver.
type MockProductResolver struct {
	mock.Mock
}

func (m *MockProductResolver) Resolve(ctx context.Context, ref string) (*models.Product, error) {
	args := m.Called(ctx, ref)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

// MockCacheService mocks the redis cache.
type MockCacheService struct {
	mock.Mock
}

func (m *MockCacheService) GetProduct(ctx context.Context, productID uuid.UUID) (*models.Product, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockCacheService) SetProduct(ctx context.Context, product *models.Product, ttl time.Duration) error {
	args := m.Called(ctx, product, ttl)
	return args.Error(0)
}

func (m *MockCacheService) DeleteProduct(ctx context.Context, productID uuid.UUID) error {
	args := m.Called(ctx, productID)
	return args.Error(0)
}

func (m *MockCacheService) GetStockLevels(ctx context.Context) ([]*models.StockLevel, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.StockLevel), args.Error(1)
}

func (m *MockCacheService) SetStockLevels(ctx context.Context, levels []*models.StockLevel, ttl time.Duration) error {
	args := m.Called(ctx, levels, ttl)
	return args.Error(0)
}

func (m *MockCacheService) InvalidateStockLevels(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockCacheService) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type MovementServiceTestSuite struct {
	suite.Suite
	mock       pgxmock.PgxPoolIface
	resolver   *MockProductResolver
	cache      *MockCacheService
	service    MovementService
	product    *models.Product
	locationL1 uuid.UUID
	locationL2 uuid.UUID
	ctx        context.Context
}

func (suite *MovementServiceTestSuite) SetupTest() {
	mockPool, err := pgxmock.NewPool()
	assert.NoError(suite.T(), err)
	suite.mock = mockPool

	suite.resolver = new(MockProductResolver)
	suite.cache = new(MockCacheService)

	txRunner := repositories.NewTxRunner(mockPool)
	movementRepo := repositories.NewMovementRepo(mockPool)
	stockRepo := repositories.NewStockItemRepo(mockPool)
	suite.service = NewMovementService(suite.resolver, txRunner, movementRepo, stockRepo, suite.cache)

	sku := "SKU-100"
	suite.product = &models.Product{ID: uuid.New(), Name: "Widget", SKU: &sku}
	suite.locationL1 = uuid.New()
	suite.locationL2 = uuid.New()
	suite.ctx = context.Background()
}

func (suite *MovementServiceTestSuite) TearDownTest() {
	suite.mock.Close()
}

func TestMovementServiceTestSuite(t *testing.T) {
	suite.Run(t, new(MovementServiceTestSuite))
}

func (suite *MovementServiceTestSuite) expectResolve() {
	suite.resolver.On("Resolve", mock.Anything, suite.product.ID.String()).Return(suite.product, nil)
}

func (suite *MovementServiceTestSuite) TestApplyMovement_InCreditsDestination() {
	suite.expectResolve()
	suite.cache.On("InvalidateStockLevels", mock.Anything).Return(nil)

	suite.mock.ExpectBegin()
	suite.mock.ExpectQuery(`INSERT INTO stock_movements`).
		WithArgs(pgxmock.AnyArg(), models.MovementIn, suite.product.ID, 50, (*uuid.UUID)(nil), &suite.locationL1, (*string)(nil), (*string)(nil)).
		WillReturnRows(pgxmock.NewRows([]string{"created_at"}).AddRow(time.Now()))
	suite.mock.ExpectExec(`INSERT INTO stock_items`).
		WithArgs(pgxmock.AnyArg(), suite.product.ID, suite.locationL1, 50).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	suite.mock.ExpectCommit()

	movement, err := suite.service.ApplyMovement(suite.ctx, &models.MovementRequest{
		Type:         models.MovementIn,
		ProductRef:   suite.product.ID.String(),
		Quantity:     50,
		ToLocationID: &suite.locationL1,
	})

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), models.MovementIn, movement.Type)
	assert.Equal(suite.T(), 50, movement.Quantity)
	assert.Equal(suite.T(), suite.locationL1, *movement.ToLocationID)
	assert.Nil(suite.T(), movement.FromLocationID)
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}

func (suite *MovementServiceTestSuite) TestApplyMovement_OutDebitsSource() {
	suite.expectResolve()
	suite.cache.On("InvalidateStockLevels", mock.Anything).Return(nil)

	suite.mock.ExpectBegin()
	suite.mock.ExpectExec(`UPDATE stock_items`).
		WithArgs(suite.product.ID, suite.locationL1, 30).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	suite.mock.ExpectQuery(`INSERT INTO stock_movements`).
		WithArgs(pgxmock.AnyArg(), models.MovementOut, suite.product.ID, 30, &suite.locationL1, (*uuid.UUID)(nil), (*string)(nil), (*string)(nil)).
		WillReturnRows(pgxmock.NewRows([]string{"created_at"}).AddRow(time.Now()))
	suite.mock.ExpectCommit()

	movement, err := suite.service.ApplyMovement(suite.ctx, &models.MovementRequest{
		Type:           models.MovementOut,
		ProductRef:     suite.product.ID.String(),
		Quantity:       30,
		FromLocationID: &suite.locationL1,
	})

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), suite.locationL1, *movement.FromLocationID)
	assert.Nil(suite.T(), movement.ToLocationID)
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}

func (suite *MovementServiceTestSuite) TestApplyMovement_OutInsufficientStockRollsBack() {
	suite.expectResolve()

	suite.mock.ExpectBegin()
	suite.mock.ExpectExec(`UPDATE stock_items`).
		WithArgs(suite.product.ID, suite.locationL1, 25).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	suite.mock.ExpectRollback()

	movement, err := suite.service.ApplyMovement(suite.ctx, &models.MovementRequest{
		Type:           models.MovementOut,
		ProductRef:     suite.product.ID.String(),
		Quantity:       25,
		FromLocationID: &suite.locationL1,
	})

	assert.ErrorIs(suite.T(), err, ErrInsufficientStock)
	assert.Nil(suite.T(), movement)
	// No ledger insert was expected: the debit failed first.
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
	suite.cache.AssertNotCalled(suite.T(), "InvalidateStockLevels", mock.Anything)
}

func (suite *MovementServiceTestSuite) TestApplyMovement_TransferMovesBetweenLocations() {
	suite.expectResolve()
	suite.cache.On("InvalidateStockLevels", mock.Anything).Return(nil)

	suite.mock.ExpectBegin()
	suite.mock.ExpectExec(`UPDATE stock_items`).
		WithArgs(suite.product.ID, suite.locationL1, 10).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	suite.mock.ExpectQuery(`INSERT INTO stock_movements`).
		WithArgs(pgxmock.AnyArg(), models.MovementTransfer, suite.product.ID, 10, &suite.locationL1, &suite.locationL2, (*string)(nil), (*string)(nil)).
		WillReturnRows(pgxmock.NewRows([]string{"created_at"}).AddRow(time.Now()))
	suite.mock.ExpectExec(`INSERT INTO stock_items`).
		WithArgs(pgxmock.AnyArg(), suite.product.ID, suite.locationL2, 10).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	suite.mock.ExpectCommit()

	movement, err := suite.service.ApplyMovement(suite.ctx, &models.MovementRequest{
		Type:           models.MovementTransfer,
		ProductRef:     suite.product.ID.String(),
		Quantity:       10,
		FromLocationID: &suite.locationL1,
		ToLocationID:   &suite.locationL2,
	})

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), suite.locationL1, *movement.FromLocationID)
	assert.Equal(suite.T(), suite.locationL2, *movement.ToLocationID)
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}

func (suite *MovementServiceTestSuite) TestApplyMovement_ShorthandFillsOutSource() {
	suite.expectResolve()

	suite.mock.ExpectBegin()
	suite.mock.ExpectExec(`UPDATE stock_items`).
		WithArgs(suite.product.ID, suite.locationL1, 5).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	suite.mock.ExpectRollback()

	// No explicit from_location_id: the shorthand must fill it before
	// validation, so the rejection is InsufficientStock, not MissingLocation.
	_, err := suite.service.ApplyMovement(suite.ctx, &models.MovementRequest{
		Type:       models.MovementOut,
		ProductRef: suite.product.ID.String(),
		Quantity:   5,
		LocationID: &suite.locationL1,
	})

	assert.ErrorIs(suite.T(), err, ErrInsufficientStock)
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}

func (suite *MovementServiceTestSuite) TestApplyMovement_ShorthandFillsInDestination() {
	suite.expectResolve()
	suite.cache.On("InvalidateStockLevels", mock.Anything).Return(nil)

	suite.mock.ExpectBegin()
	suite.mock.ExpectQuery(`INSERT INTO stock_movements`).
		WithArgs(pgxmock.AnyArg(), models.MovementIn, suite.product.ID, 7, (*uuid.UUID)(nil), &suite.locationL1, (*string)(nil), (*string)(nil)).
		WillReturnRows(pgxmock.NewRows([]string{"created_at"}).AddRow(time.Now()))
	suite.mock.ExpectExec(`INSERT INTO stock_items`).
		WithArgs(pgxmock.AnyArg(), suite.product.ID, suite.locationL1, 7).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	suite.mock.ExpectCommit()

	movement, err := suite.service.ApplyMovement(suite.ctx, &models.MovementRequest{
		Type:       models.MovementIn,
		ProductRef: suite.product.ID.String(),
		Quantity:   7,
		LocationID: &suite.locationL1,
	})

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), suite.locationL1, *movement.ToLocationID)
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}

func (suite *MovementServiceTestSuite) TestApplyMovement_RejectsInvalidType() {
	_, err := suite.service.ApplyMovement(suite.ctx, &models.MovementRequest{
		Type:         "ADJUST",
		ProductRef:   suite.product.ID.String(),
		Quantity:     1,
		ToLocationID: &suite.locationL1,
	})
	assert.ErrorIs(suite.T(), err, ErrInvalidType)
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}

func (suite *MovementServiceTestSuite) TestApplyMovement_RejectsNonPositiveQuantity() {
	for _, qty := range []int{0, -4} {
		_, err := suite.service.ApplyMovement(suite.ctx, &models.MovementRequest{
			Type:         models.MovementIn,
			ProductRef:   suite.product.ID.String(),
			Quantity:     qty,
			ToLocationID: &suite.locationL1,
		})
		assert.ErrorIs(suite.T(), err, ErrInvalidQuantity)
	}
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}

func (suite *MovementServiceTestSuite) TestApplyMovement_RejectsMissingLocations() {
	cases := []*models.MovementRequest{
		{Type: models.MovementIn, ProductRef: suite.product.ID.String(), Quantity: 1},
		{Type: models.MovementOut, ProductRef: suite.product.ID.String(), Quantity: 1},
		{Type: models.MovementTransfer, ProductRef: suite.product.ID.String(), Quantity: 1, FromLocationID: &suite.locationL1},
		// Transfer endpoints must be distinct.
		{Type: models.MovementTransfer, ProductRef: suite.product.ID.String(), Quantity: 1, FromLocationID: &suite.locationL1, ToLocationID: &suite.locationL1},
	}
	for _, req := range cases {
		_, err := suite.service.ApplyMovement(suite.ctx, req)
		assert.ErrorIs(suite.T(), err, ErrMissingLocation)
	}
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}

func (suite *MovementServiceTestSuite) TestApplyMovement_UnknownProduct() {
	suite.resolver.On("Resolve", mock.Anything, "no-such-sku").Return(nil, ErrProductNotFound)

	_, err := suite.service.ApplyMovement(suite.ctx, &models.MovementRequest{
		Type:         models.MovementIn,
		ProductRef:   "no-such-sku",
		Quantity:     3,
		ToLocationID: &suite.locationL1,
	})
	assert.ErrorIs(suite.T(), err, ErrProductNotFound)
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}

func (suite *MovementServiceTestSuite) TestApplyMovement_StorageFailureWrapped() {
	suite.expectResolve()

	suite.mock.ExpectBegin()
	suite.mock.ExpectQuery(`INSERT INTO stock_movements`).
		WithArgs(pgxmock.AnyArg(), models.MovementIn, suite.product.ID, 2, (*uuid.UUID)(nil), &suite.locationL1, (*string)(nil), (*string)(nil)).
		WillReturnError(errors.New("connection reset"))
	suite.mock.ExpectRollback()

	_, err := suite.service.ApplyMovement(suite.ctx, &models.MovementRequest{
		Type:         models.MovementIn,
		ProductRef:   suite.product.ID.String(),
		Quantity:     2,
		ToLocationID: &suite.locationL1,
	})
	assert.ErrorIs(suite.T(), err, ErrStorageUnavailable)
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}
