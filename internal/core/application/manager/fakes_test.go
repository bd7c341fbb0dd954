package manager_test

import (
	"context"
	"sync"

	"orderservice/internal/core/application/messages"
	"orderservice/internal/core/domain/model/kernel"
	"orderservice/internal/core/domain/model/order"
	"orderservice/internal/core/ports"
	"orderservice/internal/pkg/errs"

	"github.com/stretchr/testify/mock"
)

// memStore is an in-memory order store with version checks. Reads return copies
// so callers cannot mutate stored state without Update.
type memStore struct {
	mu      sync.Mutex
	orders  map[kernel.UUID]*order.Order
	updates int
}

func newMemStore() *memStore {
	return &memStore{orders: map[kernel.UUID]*order.Order{}}
}

func clone(o *order.Order) *order.Order {
	lines := make([]*order.Line, 0, len(o.Lines()))
	for _, l := range o.Lines() {
		line, err := order.RestoreLine(l.ID(), l.ProductCode(), l.QuantityOrdered(), l.QuantityAllocated())
		if err != nil {
			panic(err)
		}
		lines = append(lines, line)
	}
	c, err := order.RestoreOrder(o.ID(), o.CustomerRef(), o.Status(), lines, o.Version())
	if err != nil {
		panic(err)
	}
	return c
}

func (s *memStore) Create() ports.UnitOfWork { return s }

func (s *memStore) Begin(context.Context) error    { return nil }
func (s *memStore) Commit(context.Context) error   { return nil }
func (s *memStore) Rollback(context.Context) error { return nil }

func (s *memStore) OrderRepository() ports.OrderRepository { return s }

func (s *memStore) Add(_ context.Context, o *order.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders[o.ID()] = clone(o)
	return nil
}

func (s *memStore) Update(_ context.Context, o *order.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.orders[o.ID()]
	if !ok {
		return errs.NewObjectNotFoundError("order", o.ID().String())
	}
	if stored.Version() != o.Version() {
		return errs.NewVersionConflictError("order", o.ID().String(), o.Version())
	}
	o.SetVersion(o.Version() + 1)
	s.orders[o.ID()] = clone(o)
	s.updates++
	return nil
}

func (s *memStore) Get(_ context.Context, id kernel.UUID) (*order.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	if !ok {
		return nil, errs.NewObjectNotFoundError("order", id.String())
	}
	return clone(o), nil
}

func (s *memStore) updateCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updates
}

type MockPublisher struct{ mock.Mock }

func (m *MockPublisher) PublishValidateOrder(ctx context.Context, req messages.ValidateOrderRequest) error {
	return m.Called(ctx, req).Error(0)
}

func (m *MockPublisher) PublishAllocateOrder(ctx context.Context, req messages.AllocateOrderRequest) error {
	return m.Called(ctx, req).Error(0)
}

func (m *MockPublisher) PublishAllocationFailure(ctx context.Context, evt messages.AllocationFailureEvent) error {
	return m.Called(ctx, evt).Error(0)
}

func (m *MockPublisher) PublishDeallocateOrder(ctx context.Context, req messages.DeallocateOrderRequest) error {
	return m.Called(ctx, req).Error(0)
}

type MockOrderReader struct{ mock.Mock }

func (m *MockOrderReader) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	o, _ := args.Get(0).(*order.Order)
	return o, args.Error(1)
}

type stubAwaiter struct {
	err   error
	calls int
}

func (a *stubAwaiter) AwaitStatus(context.Context, kernel.UUID, order.Status) error {
	a.calls++
	return a.err
}
