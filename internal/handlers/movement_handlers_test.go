package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"stockledger/internal/models"
	"stockledger/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockMovementService struct {
	mock.Mock
}

func (m *MockMovementService) ApplyMovement(ctx context.Context, req *models.MovementRequest) (*models.StockMovement, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.StockMovement), args.Error(1)
}

func (m *MockMovementService) ListRecentMovements(ctx context.Context, filter *models.MovementFilter) ([]*models.MovementDetail, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.MovementDetail), args.Error(1)
}

func (m *MockMovementService) ListStockLevels(ctx context.Context) ([]*models.StockLevel, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.StockLevel), args.Error(1)
}

func postMovement(t *testing.T, handler *MovementHandlers, body string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/movements", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	assert.NoError(t, handler.CreateMovement(c))
	return rec
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var payload struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	return payload.Error.Code
}

func TestCreateMovement_Committed(t *testing.T) {
	svc := new(MockMovementService)
	handler := NewMovementHandlers(svc)

	locationID := uuid.New()
	committed := &models.StockMovement{
		ID:           uuid.New(),
		Type:         models.MovementIn,
		ProductID:    uuid.New(),
		Quantity:     50,
		ToLocationID: &locationID,
	}
	svc.On("ApplyMovement", mock.Anything, mock.Anything).Return(committed, nil)

	rec := postMovement(t, handler, `{"type":"IN","product_id":"WID-42","quantity":50,"to_location_id":"`+locationID.String()+`"}`)

	assert.Equal(t, http.StatusCreated, rec.Code)
	var payload struct {
		Success  bool                 `json:"success"`
		Movement models.StockMovement `json:"movement"`
	}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.True(t, payload.Success)
	assert.Equal(t, committed.ID, payload.Movement.ID)
}

func TestCreateMovement_RejectionCodes(t *testing.T) {
	cases := []struct {
		err  error
		code string
	}{
		{services.ErrInvalidType, "INVALID_TYPE"},
		{services.ErrInvalidQuantity, "INVALID_QUANTITY"},
		{services.ErrMissingLocation, "MISSING_LOCATION"},
		{services.ErrProductNotFound, "PRODUCT_NOT_FOUND"},
		{services.ErrInsufficientStock, "INSUFFICIENT_STOCK"},
	}

	for _, tc := range cases {
		svc := new(MockMovementService)
		handler := NewMovementHandlers(svc)
		svc.On("ApplyMovement", mock.Anything, mock.Anything).Return(nil, tc.err)

		rec := postMovement(t, handler, `{"type":"IN","product_id":"x","quantity":1}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code, tc.code)
		assert.Equal(t, tc.code, errorCode(t, rec))
	}
}

func TestCreateMovement_StorageFailureIs503(t *testing.T) {
	svc := new(MockMovementService)
	handler := NewMovementHandlers(svc)
	svc.On("ApplyMovement", mock.Anything, mock.Anything).Return(nil, services.ErrStorageUnavailable)

	rec := postMovement(t, handler, `{"type":"IN","product_id":"x","quantity":1}`)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "STORAGE_UNAVAILABLE", errorCode(t, rec))
	// Internal detail must not leak.
	assert.NotContains(t, rec.Body.String(), "connection")
}

func TestListMovements_InvalidLocationFilter(t *testing.T) {
	svc := new(MockMovementService)
	handler := NewMovementHandlers(svc)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/movements?location_id=not-a-uuid", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	assert.NoError(t, handler.ListMovements(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	svc.AssertNotCalled(t, "ListRecentMovements", mock.Anything, mock.Anything)
}

func TestListMovements_PassesFilter(t *testing.T) {
	svc := new(MockMovementService)
	handler := NewMovementHandlers(svc)

	productID := uuid.New()
	svc.On("ListRecentMovements", mock.Anything, mock.MatchedBy(func(f *models.MovementFilter) bool {
		return f.ProductID != nil && *f.ProductID == productID && f.Limit == 5
	})).Return([]*models.MovementDetail{}, nil)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/movements?limit=5&product_id="+productID.String(), nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	assert.NoError(t, handler.ListMovements(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	svc.AssertExpectations(t)
}
