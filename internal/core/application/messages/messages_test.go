package messages_test

import (
	"encoding/json"
	"testing"

	"orderservice/internal/core/application/messages"
	"orderservice/internal/core/domain/model/kernel"
	"orderservice/internal/core/domain/model/order"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderFromDomain(t *testing.T) {
	line, err := order.RestoreLine(kernel.NewUUID(), "0631234200036", 4, 2)
	require.NoError(t, err)
	o, err := order.RestoreOrder(kernel.NewUUID(), "customer-1", order.Validated, []*order.Line{line}, 3)
	require.NoError(t, err)

	dto := messages.OrderFromDomain(o)

	assert.Equal(t, o.ID().Bytes(), dto.ID)
	assert.Equal(t, "customer-1", dto.CustomerRef)
	assert.Equal(t, "VALIDATED", dto.Status)
	require.Len(t, dto.Lines, 1)
	assert.Equal(t, line.ID().Bytes(), dto.Lines[0].ID)
	assert.Equal(t, 4, dto.Lines[0].QuantityOrdered)
	assert.Equal(t, 2, dto.Lines[0].QuantityAllocated)
}

func TestOrderDTO_Allocations(t *testing.T) {
	t.Run("should map every line", func(t *testing.T) {
		lineID := uuid.New()
		dto := messages.OrderDTO{
			ID:    uuid.New(),
			Lines: []messages.OrderLineDTO{{ID: lineID, QuantityAllocated: 7}},
		}

		allocations, err := dto.Allocations()

		require.NoError(t, err)
		require.Len(t, allocations, 1)
		assert.Equal(t, lineID, allocations[0].LineID.Bytes())
		assert.Equal(t, 7, allocations[0].QuantityAllocated)
	})

	t.Run("should reject nil line id", func(t *testing.T) {
		dto := messages.OrderDTO{Lines: []messages.OrderLineDTO{{QuantityAllocated: 1}}}

		_, err := dto.Allocations()

		require.Error(t, err)
		assert.Contains(t, err.Error(), "line 0")
	})
}

func TestOrderDTO_OrderID(t *testing.T) {
	_, err := messages.OrderDTO{}.OrderID()
	require.Error(t, err)

	id := uuid.New()
	parsed, err := messages.OrderDTO{ID: id}.OrderID()
	require.NoError(t, err)
	assert.Equal(t, id, parsed.Bytes())
}

func TestAllocateOrderResult_DecodesWireNames(t *testing.T) {
	payload := `{"order":{"id":"5b8c3f1e-7a42-4d1b-9f3e-2c6a8d9e0f11","orderStatus":"ALLOCATION_PENDING",
		"orderLines":[{"id":"0f8fad5b-d9cb-469f-a165-70867728950e","productCode":"x","orderQuantity":3,"quantityAllocated":1}]},
		"allocationError":false,"pendingInventory":true}`

	var result messages.AllocateOrderResult
	require.NoError(t, json.Unmarshal([]byte(payload), &result))

	assert.True(t, result.PendingInventory)
	assert.False(t, result.AllocationError)
	assert.Equal(t, "5b8c3f1e-7a42-4d1b-9f3e-2c6a8d9e0f11", result.Order.ID.String())
	require.Len(t, result.Order.Lines, 1)
	assert.Equal(t, 3, result.Order.Lines[0].QuantityOrdered)
	assert.Equal(t, 1, result.Order.Lines[0].QuantityAllocated)
}
