package queries

import (
	"context"
	"time"

	"orderservice/internal/core/domain/model/kernel"
	"orderservice/internal/core/domain/model/order"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetStalledOrdersQueryHandler reads stalled orders straight from the orders table.
type GetStalledOrdersQueryHandler struct {
	db *gorm.DB
}

func NewGetStalledOrdersQueryHandler(db *gorm.DB) GetStalledOrdersQueryHandler {
	return GetStalledOrdersQueryHandler{db: db}
}

// Handle returns stalled orders, oldest first.
func (h GetStalledOrdersQueryHandler) Handle(
	ctx context.Context,
	query GetStalledOrdersQuery,
) ([]StalledOrderResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	names := make([]string, 0, len(query.Statuses()))
	for _, s := range query.Statuses() {
		names = append(names, s.String())
	}
	cutoff := time.Now().Add(-query.Threshold())

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			status,
			updated_at
		FROM orders
		WHERE status IN ? AND updated_at < ?
		ORDER BY updated_at
	`, names, cutoff).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stalled := make([]StalledOrderResponse, 0)
	for rows.Next() {
		var (
			id        uuid.UUID
			status    string
			updatedAt time.Time
		)
		if err = rows.Scan(&id, &status, &updatedAt); err != nil {
			return nil, err
		}

		orderID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}
		parsed, statusErr := order.StatusFromString(status)
		if statusErr != nil {
			return nil, statusErr
		}

		stalled = append(stalled, StalledOrderResponse{ID: orderID, Status: parsed, UpdatedAt: updatedAt})
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return stalled, nil
}
