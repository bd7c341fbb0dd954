package queries

import (
	"errors"
	"time"

	"orderservice/internal/core/domain/model/kernel"
	"orderservice/internal/core/domain/model/order"
	"orderservice/internal/pkg/guard"
)

var (
	ErrGetStalledOrdersQueryIsNotConstructed = errors.New(
		"GetStalledOrdersQuery must be created via NewGetStalledOrdersQuery constructor",
	)
	ErrStatusesAreRequired = errors.New("at least one status is required")
	ErrThresholdIsInvalid  = errors.New("threshold must be greater than 0")
)

// GetStalledOrdersQuery finds orders that have sat in one of the given statuses
// for longer than the threshold.
//
// Example:
//
//	query, _ := NewGetStalledOrdersQuery([]order.Status{order.ValidationPending}, 5*time.Minute)
//	stalled, err := handler.Handle(ctx, query)
type GetStalledOrdersQuery struct {
	statuses  []order.Status
	threshold time.Duration

	guard guard.ConstructorGuard
}

func NewGetStalledOrdersQuery(statuses []order.Status, threshold time.Duration) (GetStalledOrdersQuery, error) {
	if len(statuses) == 0 {
		return GetStalledOrdersQuery{}, ErrStatusesAreRequired
	}
	for _, s := range statuses {
		if err := s.Validate(); err != nil {
			return GetStalledOrdersQuery{}, err
		}
	}
	if threshold <= 0 {
		return GetStalledOrdersQuery{}, ErrThresholdIsInvalid
	}

	return GetStalledOrdersQuery{
		statuses:  append([]order.Status(nil), statuses...),
		threshold: threshold,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (q GetStalledOrdersQuery) Validate() error {
	return q.guard.Validate(ErrGetStalledOrdersQueryIsNotConstructed)
}

func (q GetStalledOrdersQuery) Statuses() []order.Status {
	return append([]order.Status(nil), q.statuses...)
}

func (q GetStalledOrdersQuery) Threshold() time.Duration {
	return q.threshold
}

// StalledOrderResponse identifies an order and when it last changed.
type StalledOrderResponse struct {
	ID        kernel.UUID
	Status    order.Status
	UpdatedAt time.Time
}
