package queries

import (
	"context"

	"orderservice/internal/core/domain/model/order"
	"orderservice/internal/core/ports"
)

// GetOrderQueryHandler reads an order through the store.
type GetOrderQueryHandler struct {
	reader ports.OrderReader
}

func NewGetOrderQueryHandler(reader ports.OrderReader) GetOrderQueryHandler {
	return GetOrderQueryHandler{reader: reader}
}

// Handle returns errs.ObjectNotFoundError for unknown ids.
func (h GetOrderQueryHandler) Handle(ctx context.Context, query GetOrderQuery) (OrderResponse, error) {
	if err := query.Validate(); err != nil {
		return OrderResponse{}, err
	}

	o, err := h.reader.Get(ctx, query.OrderID())
	if err != nil {
		return OrderResponse{}, err
	}
	return ToOrderResponse(o), nil
}

// ToOrderResponse builds the read model from an aggregate.
func ToOrderResponse(o *order.Order) OrderResponse {
	lines := make([]OrderLineResponse, 0, len(o.Lines()))
	for _, l := range o.Lines() {
		lines = append(lines, OrderLineResponse{
			ID:                l.ID(),
			ProductCode:       l.ProductCode(),
			QuantityOrdered:   l.QuantityOrdered(),
			QuantityAllocated: l.QuantityAllocated(),
		})
	}
	return OrderResponse{
		ID:          o.ID(),
		CustomerRef: o.CustomerRef(),
		Status:      o.Status().String(),
		Version:     o.Version(),
		Lines:       lines,
	}
}
