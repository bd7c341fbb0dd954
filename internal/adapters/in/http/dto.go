package http

import (
	"time"

	"orderservice/internal/core/application/usecases/queries"
	"orderservice/internal/core/domain/model/order"

	"github.com/google/uuid"
)

// Error is the body of every non-2xx response.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// NewOrderLine is one requested line of POST /api/v1/orders.
type NewOrderLine struct {
	ProductCode string `json:"productCode"`
	Quantity    int    `json:"quantity"`
}

// NewOrder is the body of POST /api/v1/orders.
type NewOrder struct {
	CustomerRef string         `json:"customerRef"`
	Lines       []NewOrderLine `json:"lines"`
}

type OrderLine struct {
	ID                uuid.UUID `json:"id"`
	ProductCode       string    `json:"productCode"`
	QuantityOrdered   int       `json:"quantityOrdered"`
	QuantityAllocated int       `json:"quantityAllocated"`
}

type Order struct {
	ID          uuid.UUID   `json:"id"`
	CustomerRef string      `json:"customerRef,omitempty"`
	Status      string      `json:"status"`
	Version     int         `json:"version"`
	Lines       []OrderLine `json:"lines"`
}

// StalledOrder is an element of GET /api/v1/orders/stalled.
type StalledOrder struct {
	ID        uuid.UUID `json:"id"`
	Status    string    `json:"status"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func orderFromResponse(r queries.OrderResponse) Order {
	lines := make([]OrderLine, 0, len(r.Lines))
	for _, l := range r.Lines {
		lines = append(lines, OrderLine{
			ID:                l.ID.Bytes(),
			ProductCode:       l.ProductCode,
			QuantityOrdered:   l.QuantityOrdered,
			QuantityAllocated: l.QuantityAllocated,
		})
	}
	return Order{
		ID:          r.ID.Bytes(),
		CustomerRef: r.CustomerRef,
		Status:      r.Status,
		Version:     r.Version,
		Lines:       lines,
	}
}

func orderFromDomain(o *order.Order) Order {
	return orderFromResponse(queries.ToOrderResponse(o))
}
