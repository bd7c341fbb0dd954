// Package orderrepo provides data transfer objects and mapping functions for order persistence.
// This package implements the repository pattern for the order aggregate, handling
// the conversion between domain entities and database representations.
package orderrepo

import (
	"fmt"
	"time"

	"orderservice/internal/core/domain/model/kernel"
	"orderservice/internal/core/domain/model/order"

	"github.com/google/uuid"
)

// OrderDTO represents the database structure for persisting order aggregates.
// Status is stored by name so the table stays readable from psql.
type OrderDTO struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey"`
	CustomerRef string         `gorm:"type:varchar(255)"`
	Status      string         `gorm:"type:varchar(32);not null;index"`
	Version     int            `gorm:"type:int;not null"`
	Lines       []OrderLineDTO `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time
	UpdatedAt   time.Time `gorm:"index"`
}

// TableName specifies the database table name for order entities.
func (OrderDTO) TableName() string {
	return "orders"
}

// OrderLineDTO represents one persisted order line. Position keeps the caller's line order.
type OrderLineDTO struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID           uuid.UUID `gorm:"type:uuid;not null;index"`
	Position          int       `gorm:"type:int;not null"`
	ProductCode       string    `gorm:"type:varchar(64);not null"`
	QuantityOrdered   int       `gorm:"type:int;not null"`
	QuantityAllocated int       `gorm:"type:int;not null"`
}

// TableName specifies the database table name for order line entities.
func (OrderLineDTO) TableName() string {
	return "order_lines"
}

// fromDomain converts an order aggregate to its database representation.
func fromDomain(o *order.Order) OrderDTO {
	orderID := o.ID().Bytes()
	lines := make([]OrderLineDTO, 0, len(o.Lines()))
	for i, l := range o.Lines() {
		lines = append(lines, OrderLineDTO{
			ID:                l.ID().Bytes(),
			OrderID:           orderID,
			Position:          i,
			ProductCode:       l.ProductCode(),
			QuantityOrdered:   l.QuantityOrdered(),
			QuantityAllocated: l.QuantityAllocated(),
		})
	}

	return OrderDTO{
		ID:          orderID,
		CustomerRef: o.CustomerRef(),
		Status:      o.Status().String(),
		Version:     o.Version(),
		Lines:       lines,
	}
}

// toDomain rebuilds the aggregate with RestoreOrder. Lines must already be sorted by Position.
func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	status, err := order.StatusFromString(dto.Status)
	if err != nil {
		return nil, fmt.Errorf("order %s: %w", id, err)
	}

	lines := make([]*order.Line, 0, len(dto.Lines))
	for _, l := range dto.Lines {
		lineID, lineErr := kernel.UUIDFromBytes(l.ID[:])
		if lineErr != nil {
			return nil, lineErr
		}
		line, lineErr := order.RestoreLine(lineID, l.ProductCode, l.QuantityOrdered, l.QuantityAllocated)
		if lineErr != nil {
			return nil, lineErr
		}
		lines = append(lines, line)
	}

	return order.RestoreOrder(id, dto.CustomerRef, status, lines, dto.Version)
}
