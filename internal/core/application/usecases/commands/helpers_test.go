package commands_test

import (
	"testing"
	"time"

	"orders/internal/core/domain/model/kernel"
	"orders/internal/core/domain/model/order"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func storedItem(t *testing.T, sku string, quantity int, unitPrice float64) order.Item {
	t.Helper()

	item, err := order.NewItem(kernel.NewUUID(), sku, "", quantity, decimal.NewFromFloat(unitPrice), nil)
	require.NoError(t, err)
	return item
}

// storedOrder builds an order as the repository would return it: already
// persisted, no pending audit entries.
func storedOrder(t *testing.T, id kernel.UUID, status order.Status, reservationID *kernel.UUID, items ...order.Item) *order.Order {
	t.Helper()

	now := time.Now().UTC()
	return order.RestoreOrder(
		id,
		order.Attributes{},
		status,
		items,
		order.CalculateTotals(items, order.ZeroPolicy{}),
		reservationID,
		1,
		false,
		now,
		now,
		order.ZeroPolicy{},
	)
}
