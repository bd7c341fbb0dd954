package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	server "orderservice/internal/adapters/in/http"
	"orderservice/internal/core/application/manager"
	"orderservice/internal/core/application/usecases/commands"
	"orderservice/internal/core/application/usecases/queries"
	"orderservice/internal/core/domain/model/kernel"
	"orderservice/internal/core/domain/model/order"
	"orderservice/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockOrderManager struct{ mock.Mock }

func (m *MockOrderManager) NewOrder(ctx context.Context, draft *order.Order) (*order.Order, manager.Outcome, error) {
	args := m.Called(ctx, draft)
	o, _ := args.Get(0).(*order.Order)
	return o, args.Get(1).(manager.Outcome), args.Error(2)
}

func (m *MockOrderManager) CancelOrder(ctx context.Context, id kernel.UUID) (manager.Outcome, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(manager.Outcome), args.Error(1)
}

func (m *MockOrderManager) PickUpOrder(ctx context.Context, id kernel.UUID) (manager.Outcome, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(manager.Outcome), args.Error(1)
}

type MockOrderReader struct{ mock.Mock }

func (m *MockOrderReader) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	o, _ := args.Get(0).(*order.Order)
	return o, args.Error(1)
}

type MockStalledOrdersHandler struct{ mock.Mock }

func (m *MockStalledOrdersHandler) Handle(
	ctx context.Context,
	query queries.GetStalledOrdersQuery,
) ([]queries.StalledOrderResponse, error) {
	args := m.Called(ctx, query)
	out, _ := args.Get(0).([]queries.StalledOrderResponse)
	return out, args.Error(1)
}

type fixture struct {
	echo    *echo.Echo
	manager *MockOrderManager
	reader  *MockOrderReader
	stalled *MockStalledOrdersHandler
}

func newFixture() fixture {
	f := fixture{
		echo:    echo.New(),
		manager: new(MockOrderManager),
		reader:  new(MockOrderReader),
		stalled: new(MockStalledOrdersHandler),
	}
	server.NewServer(
		commands.NewCreateOrderCommandHandler(f.manager),
		commands.NewCancelOrderCommandHandler(f.manager),
		commands.NewPickUpOrderCommandHandler(f.manager),
		queries.NewGetOrderQueryHandler(f.reader),
		f.stalled,
		zap.NewNop(),
	).Register(f.echo)
	return f
}

func (f fixture) do(method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	f.echo.ServeHTTP(rec, req)
	return rec
}

func savedOrder(t *testing.T, status order.Status) *order.Order {
	t.Helper()
	line, err := order.NewLine(kernel.NewUUID(), "0631234200036", 2)
	require.NoError(t, err)
	o, err := order.RestoreOrder(kernel.NewUUID(), "customer-7", status, []*order.Line{line}, 1)
	require.NoError(t, err)
	return o
}

func TestHealth(t *testing.T) {
	rec := newFixture().do(http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Healthy", rec.Body.String())
}

func TestCreateOrder(t *testing.T) {
	f := newFixture()
	created := savedOrder(t, order.ValidationPending)
	f.manager.On("NewOrder", mock.Anything, mock.MatchedBy(func(draft *order.Order) bool {
		lines := draft.Lines()
		return draft.CustomerRef() == "customer-7" &&
			len(lines) == 1 && lines[0].ProductCode() == "0631234200036" && lines[0].QuantityOrdered() == 2
	})).Return(created, manager.OutcomeSuccess, nil).Once()

	rec := f.do(http.MethodPost, "/api/v1/orders",
		`{"customerRef":"customer-7","lines":[{"productCode":"0631234200036","quantity":2}]}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	var body server.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, created.ID().Bytes(), body.ID)
	assert.Equal(t, "VALIDATION_PENDING", body.Status)
	require.Len(t, body.Lines, 1)
	assert.Equal(t, 2, body.Lines[0].QuantityOrdered)
	f.manager.AssertExpectations(t)
}

func TestCreateOrder_BadRequests(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{"lines":`},
		{"no lines", `{"customerRef":"c","lines":[]}`},
		{"zero quantity", `{"lines":[{"productCode":"p","quantity":0}]}`},
		{"missing product code", `{"lines":[{"quantity":1}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()

			rec := f.do(http.MethodPost, "/api/v1/orders", tt.body)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			f.manager.AssertNotCalled(t, "NewOrder", mock.Anything, mock.Anything)
		})
	}
}

func TestCreateOrder_ManagerFailure(t *testing.T) {
	f := newFixture()
	f.manager.On("NewOrder", mock.Anything, mock.Anything).
		Return(nil, manager.OutcomeSuccess, errors.New("db down")).Once()

	rec := f.do(http.MethodPost, "/api/v1/orders", `{"lines":[{"productCode":"p","quantity":1}]}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestGetOrder(t *testing.T) {
	f := newFixture()
	o := savedOrder(t, order.Allocated)
	f.reader.On("Get", mock.Anything, o.ID()).Return(o, nil).Once()

	rec := f.do(http.MethodGet, "/api/v1/orders/"+o.ID().String(), "")

	require.Equal(t, http.StatusOK, rec.Code)
	var body server.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ALLOCATED", body.Status)
	assert.Equal(t, "customer-7", body.CustomerRef)
	assert.Equal(t, 1, body.Version)
}

func TestGetOrder_Errors(t *testing.T) {
	t.Run("invalid id", func(t *testing.T) {
		rec := newFixture().do(http.MethodGet, "/api/v1/orders/not-a-uuid", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("not found", func(t *testing.T) {
		f := newFixture()
		id := kernel.NewUUID()
		f.reader.On("Get", mock.Anything, id).Return(nil, errs.NewObjectNotFoundError("order", id.String())).Once()

		rec := f.do(http.MethodGet, "/api/v1/orders/"+id.String(), "")

		assert.Equal(t, http.StatusNotFound, rec.Code)
		var body server.Error
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, http.StatusNotFound, body.Code)
	})

	t.Run("store failure", func(t *testing.T) {
		f := newFixture()
		id := kernel.NewUUID()
		f.reader.On("Get", mock.Anything, id).Return(nil, errors.New("timeout")).Once()

		rec := f.do(http.MethodGet, "/api/v1/orders/"+id.String(), "")

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestOrderCommands(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		method  string
		outcome manager.Outcome
		err     error
		want    int
	}{
		{"cancel succeeds", "cancel", "CancelOrder", manager.OutcomeSuccess, nil, http.StatusNoContent},
		{"cancel after sync timeout", "cancel", "CancelOrder", manager.OutcomeSyncTimeout, nil, http.StatusNoContent},
		{"cancel unknown order", "cancel", "CancelOrder", manager.OutcomeNotFound, nil, http.StatusNotFound},
		{"cancel picked-up order", "cancel", "CancelOrder", manager.OutcomeInvalidTransition, nil, http.StatusConflict},
		{"cancel store failure", "cancel", "CancelOrder", manager.OutcomeSuccess, errors.New("boom"), http.StatusInternalServerError},
		{"pickup succeeds", "pickup", "PickUpOrder", manager.OutcomeSuccess, nil, http.StatusNoContent},
		{"pickup unknown order", "pickup", "PickUpOrder", manager.OutcomeNotFound, nil, http.StatusNotFound},
		{"pickup unallocated order", "pickup", "PickUpOrder", manager.OutcomeInvalidTransition, nil, http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			id := kernel.NewUUID()
			f.manager.On(tt.method, mock.Anything, id).Return(tt.outcome, tt.err).Once()

			rec := f.do(http.MethodPut, "/api/v1/orders/"+id.String()+"/"+tt.path, "")

			assert.Equal(t, tt.want, rec.Code)
			f.manager.AssertExpectations(t)
		})
	}
}

func TestGetStalledOrders(t *testing.T) {
	f := newFixture()
	id := kernel.NewUUID()
	updatedAt := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	f.stalled.On("Handle", mock.Anything, mock.MatchedBy(func(q queries.GetStalledOrdersQuery) bool {
		return q.Threshold() == 10*time.Minute &&
			assert.ObjectsAreEqual([]order.Status{order.AllocationPending}, q.Statuses())
	})).Return([]queries.StalledOrderResponse{
		{ID: id, Status: order.AllocationPending, UpdatedAt: updatedAt},
	}, nil).Once()

	rec := f.do(http.MethodGet, "/api/v1/orders/stalled?statuses=ALLOCATION_PENDING&olderThan=10m", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var body []server.StalledOrder
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body, 1)
	assert.Equal(t, id.Bytes(), body[0].ID)
	assert.Equal(t, "ALLOCATION_PENDING", body[0].Status)
	assert.True(t, updatedAt.Equal(body[0].UpdatedAt))
}

func TestGetStalledOrders_Defaults(t *testing.T) {
	f := newFixture()
	f.stalled.On("Handle", mock.Anything, mock.MatchedBy(func(q queries.GetStalledOrdersQuery) bool {
		return q.Threshold() == server.DefaultStalledThreshold &&
			assert.ObjectsAreEqual(order.InFlight(), q.Statuses())
	})).Return([]queries.StalledOrderResponse{}, nil).Once()

	rec := f.do(http.MethodGet, "/api/v1/orders/stalled", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestGetStalledOrders_BadParameters(t *testing.T) {
	for _, target := range []string{
		"/api/v1/orders/stalled?statuses=SHIPPED",
		"/api/v1/orders/stalled?olderThan=soon",
		"/api/v1/orders/stalled?olderThan=-1m",
	} {
		t.Run(target, func(t *testing.T) {
			f := newFixture()

			rec := f.do(http.MethodGet, target, "")

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			f.stalled.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
		})
	}
}
