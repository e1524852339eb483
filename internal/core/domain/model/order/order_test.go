package order_test

import (
	"testing"
	"time"

	"orders/internal/core/domain/model/kernel"
	"orders/internal/core/domain/model/order"
	"orders/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPendingOrder(t *testing.T, items ...order.Item) *order.Order {
	t.Helper()

	o, err := order.NewOrder(kernel.NewUUID(), order.Attributes{}, items, false, order.ZeroPolicy{})
	require.NoError(t, err)
	o.FlushAuditEntries()
	return o
}

func advanceTo(t *testing.T, o *order.Order, target order.Status) {
	t.Helper()

	path := map[order.Status]order.TransitionDetails{
		order.Reserved:   {},
		order.Fulfilling: {WarehouseID: "wh-1"},
		order.Shipped:    {TrackingNumber: "TRK-1"},
		order.Completed:  {},
	}
	for _, next := range []order.Status{order.Reserved, order.Fulfilling, order.Shipped, order.Completed} {
		require.NoError(t, o.ChangeStatus(next, path[next]))
		if next == target {
			return
		}
	}
	t.Fatalf("unreachable target %s", target)
}

func TestNewOrder(t *testing.T) {
	items := []order.Item{
		mustItem(t, "A", 2, 10.0),
		mustItem(t, "B", 1, 5.0),
	}

	t.Run("should create pending order at version 1", func(t *testing.T) {
		id := kernel.NewUUID()
		attrs := order.Attributes{
			Reference:  "ORD-1001",
			CustomerID: "cust-1",
			Notes:      "leave at door",
		}

		o, err := order.NewOrder(id, attrs, items, false, order.ZeroPolicy{})

		require.NoError(t, err)
		assert.True(t, o.ID().IsEqual(id))
		assert.Equal(t, order.Pending, o.Status())
		assert.Equal(t, "ORD-1001", o.Reference())
		assert.Equal(t, int64(1), o.Version())
		assert.Nil(t, o.ReservationID())
		assert.False(t, o.IsDeleted())
		assert.True(t, o.Totals().Subtotal.Equal(decimal.NewFromFloat(25.0)))

		entries := o.PendingAuditEntries()
		require.Len(t, entries, 1)
		assert.Equal(t, order.ActionCreated, entries[0].Action)
		assert.Equal(t, order.ActorSystem, entries[0].Actor)
	})

	t.Run("should create reserved order with reservation id when reserving on place", func(t *testing.T) {
		o, err := order.NewOrder(kernel.NewUUID(), order.Attributes{}, items, true, order.ZeroPolicy{})

		require.NoError(t, err)
		assert.Equal(t, order.Reserved, o.Status())
		assert.NotNil(t, o.ReservationID())
		assert.Equal(t, int64(1), o.Version())

		entries := o.PendingAuditEntries()
		require.Len(t, entries, 2)
		assert.Equal(t, order.ActionCreated, entries[0].Action)
		assert.Equal(t, order.ActionReserved, entries[1].Action)
	})

	t.Run("should allow an empty item list with zero totals", func(t *testing.T) {
		o, err := order.NewOrder(kernel.NewUUID(), order.Attributes{}, nil, false, order.ZeroPolicy{})

		require.NoError(t, err)
		assert.True(t, o.Totals().GrandTotal.IsZero())
	})

	t.Run("should fail with zero value id", func(t *testing.T) {
		var id kernel.UUID

		_, err := order.NewOrder(id, order.Attributes{}, nil, false, order.ZeroPolicy{})

		require.Error(t, err)
	})
}

func TestOrder_ChangeStatus(t *testing.T) {
	t.Run("should walk the full lifecycle bumping version each step", func(t *testing.T) {
		o := newPendingOrder(t, mustItem(t, "A", 1, 10.0))

		require.NoError(t, o.ChangeStatus(order.Reserved, order.TransitionDetails{}))
		assert.Equal(t, int64(2), o.Version())
		assert.NotNil(t, o.ReservationID())

		require.NoError(t, o.ChangeStatus(order.Fulfilling, order.TransitionDetails{WarehouseID: "wh-1"}))
		assert.Equal(t, int64(3), o.Version())

		require.NoError(t, o.ChangeStatus(order.Shipped, order.TransitionDetails{TrackingNumber: "TRK-1"}))
		assert.Equal(t, int64(4), o.Version())

		require.NoError(t, o.ChangeStatus(order.Completed, order.TransitionDetails{}))
		assert.Equal(t, int64(5), o.Version())
		assert.Equal(t, order.Completed, o.Status())
		assert.NotNil(t, o.ReservationID())

		entries := o.PendingAuditEntries()
		require.Len(t, entries, 4)
		for _, entry := range entries {
			assert.Equal(t, order.ActionStatusChanged, entry.Action)
		}
	})

	t.Run("should append exactly one audit entry per transition", func(t *testing.T) {
		o := newPendingOrder(t)

		require.NoError(t, o.ChangeStatus(order.Reserved, order.TransitionDetails{}))

		entries := o.PendingAuditEntries()
		require.Len(t, entries, 1)
		assert.Equal(t, "PENDING", entries[0].Details["from"])
		assert.Equal(t, "RESERVED", entries[0].Details["to"])
	})

	t.Run("should reject every pair outside the table leaving state intact", func(t *testing.T) {
		for _, source := range order.AllStatuses() {
			for _, target := range order.AllStatuses() {
				if source.CanTransitionTo(target) {
					continue
				}

				o := restoreWithStatus(t, source)
				version := o.Version()

				err := o.ChangeStatus(target, order.TransitionDetails{
					WarehouseID:    "wh-1",
					TrackingNumber: "TRK-1",
				})

				require.Error(t, err, "%s -> %s", source, target)
				require.ErrorIs(t, err, errs.ErrInvalidTransition)
				assert.Equal(t, source, o.Status())
				assert.Equal(t, version, o.Version())
				assert.Empty(t, o.PendingAuditEntries())
			}
		}
	})

	t.Run("should fail with PreconditionFailed when warehouse id missing for FULFILLING", func(t *testing.T) {
		o := newPendingOrder(t)
		advanceTo(t, o, order.Reserved)
		version := o.Version()

		err := o.ChangeStatus(order.Fulfilling, order.TransitionDetails{})

		require.Error(t, err)
		require.ErrorIs(t, err, errs.ErrPreconditionFailed)
		assert.NotErrorIs(t, err, errs.ErrInvalidTransition)
		assert.Equal(t, order.Reserved, o.Status())
		assert.Equal(t, version, o.Version())
	})

	t.Run("should fail with PreconditionFailed when tracking number missing for SHIPPED", func(t *testing.T) {
		o := newPendingOrder(t)
		advanceTo(t, o, order.Fulfilling)

		err := o.ChangeStatus(order.Shipped, order.TransitionDetails{})

		require.Error(t, err)
		require.ErrorIs(t, err, errs.ErrPreconditionFailed)
		assert.Equal(t, order.Fulfilling, o.Status())
	})

	t.Run("should keep an existing reservation id when entering RESERVED", func(t *testing.T) {
		reservationID := kernel.NewUUID()
		o := restoreWithReservation(t, order.Pending, &reservationID)

		require.NoError(t, o.ChangeStatus(order.Reserved, order.TransitionDetails{}))

		require.NotNil(t, o.ReservationID())
		assert.True(t, o.ReservationID().IsEqual(reservationID))
	})

	t.Run("should clear reservation id when entering CANCELLED via status update", func(t *testing.T) {
		o := newPendingOrder(t)
		advanceTo(t, o, order.Reserved)
		require.NotNil(t, o.ReservationID())

		require.NoError(t, o.ChangeStatus(order.Cancelled, order.TransitionDetails{Reason: "customer request"}))

		assert.Nil(t, o.ReservationID())
		assert.Equal(t, order.Cancelled, o.Status())
	})

	t.Run("should reject unknown target status", func(t *testing.T) {
		o := newPendingOrder(t)

		err := o.ChangeStatus(order.Status("PACKED"), order.TransitionDetails{})

		require.Error(t, err)
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}

func TestOrder_Cancel(t *testing.T) {
	t.Run("should cancel from every non-terminal status and clear reservation", func(t *testing.T) {
		for _, source := range []order.Status{order.Draft, order.Pending, order.Reserved, order.Fulfilling, order.Shipped} {
			reservationID := kernel.NewUUID()
			o := restoreWithReservation(t, source, &reservationID)
			version := o.Version()

			err := o.Cancel("warehouse flooded")

			require.NoError(t, err, "%s", source)
			assert.Equal(t, order.Cancelled, o.Status())
			assert.Nil(t, o.ReservationID())
			assert.Equal(t, version+1, o.Version())

			entries := o.PendingAuditEntries()
			require.Len(t, entries, 1)
			assert.Equal(t, order.ActionCancelled, entries[0].Action)
			assert.Equal(t, source.String(), entries[0].Details["from"])
		}
	})

	t.Run("should fail with AlreadyTerminal on completed order", func(t *testing.T) {
		o := restoreWithStatus(t, order.Completed)
		version := o.Version()

		err := o.Cancel("")

		require.Error(t, err)
		require.ErrorIs(t, err, errs.ErrAlreadyTerminal)
		assert.Equal(t, order.Completed, o.Status())
		assert.Equal(t, version, o.Version())
	})

	t.Run("should fail with AlreadyTerminal on already cancelled order", func(t *testing.T) {
		o := restoreWithStatus(t, order.Cancelled)

		err := o.Cancel("")

		require.Error(t, err)
		require.ErrorIs(t, err, errs.ErrAlreadyTerminal)
	})
}

func TestOrder_AddItems(t *testing.T) {
	t.Run("should add items and recompute totals", func(t *testing.T) {
		o := newPendingOrder(t, mustItem(t, "A", 2, 10.0))
		version := o.Version()

		err := o.AddItems([]order.Item{mustItem(t, "B", 1, 5.0)})

		require.NoError(t, err)
		assert.Len(t, o.Items(), 2)
		assert.True(t, o.Totals().GrandTotal.Equal(decimal.NewFromFloat(25.0)))
		assert.Equal(t, version+1, o.Version())

		entries := o.PendingAuditEntries()
		require.Len(t, entries, 1)
		assert.Equal(t, order.ActionItemsAdded, entries[0].Action)
		assert.Equal(t, 1, entries[0].Details["added_count"])
	})

	t.Run("should fail with NotModifiable from RESERVED onward", func(t *testing.T) {
		for _, status := range []order.Status{order.Reserved, order.Fulfilling, order.Shipped, order.Completed, order.Cancelled} {
			o := restoreWithStatus(t, status)
			version := o.Version()

			err := o.AddItems([]order.Item{mustItem(t, "B", 1, 5.0)})

			require.Error(t, err, "%s", status)
			require.ErrorIs(t, err, errs.ErrNotModifiable)
			assert.Empty(t, o.Items())
			assert.Equal(t, version, o.Version())
		}
	})

	t.Run("should require at least one item", func(t *testing.T) {
		o := newPendingOrder(t)

		err := o.AddItems(nil)

		require.Error(t, err)
		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})
}

func TestOrder_UpdateItem(t *testing.T) {
	t.Run("should patch quantity and recompute totals", func(t *testing.T) {
		item := mustItem(t, "A", 2, 10.0)
		o := newPendingOrder(t, item)
		quantity := 5

		err := o.UpdateItem(item.ID(), order.ItemPatch{Quantity: &quantity})

		require.NoError(t, err)
		assert.Equal(t, 5, o.Items()[0].Quantity())
		assert.True(t, o.Totals().GrandTotal.Equal(decimal.NewFromFloat(50.0)))
		assert.Equal(t, int64(2), o.Version())
	})

	t.Run("should fail with NotFound for unknown item", func(t *testing.T) {
		o := newPendingOrder(t, mustItem(t, "A", 2, 10.0))
		quantity := 5

		err := o.UpdateItem(kernel.NewUUID(), order.ItemPatch{Quantity: &quantity})

		require.Error(t, err)
		require.ErrorIs(t, err, errs.ErrObjectNotFound)
	})

	t.Run("should fail with NotModifiable on reserved order", func(t *testing.T) {
		item := mustItem(t, "A", 2, 10.0)
		o := newPendingOrder(t, item)
		advanceTo(t, o, order.Reserved)
		quantity := 5

		err := o.UpdateItem(item.ID(), order.ItemPatch{Quantity: &quantity})

		require.Error(t, err)
		require.ErrorIs(t, err, errs.ErrNotModifiable)
		assert.Equal(t, 2, o.Items()[0].Quantity())
	})

	t.Run("should reject an invalid patch leaving totals unchanged", func(t *testing.T) {
		item := mustItem(t, "A", 2, 10.0)
		o := newPendingOrder(t, item)
		quantity := -1

		err := o.UpdateItem(item.ID(), order.ItemPatch{Quantity: &quantity})

		require.Error(t, err)
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
		assert.True(t, o.Totals().GrandTotal.Equal(decimal.NewFromFloat(20.0)))
	})
}

func TestOrder_RemoveItem(t *testing.T) {
	t.Run("should remove item and recompute totals", func(t *testing.T) {
		itemA := mustItem(t, "A", 2, 10.0)
		itemB := mustItem(t, "B", 1, 5.0)
		o := newPendingOrder(t, itemA, itemB)

		err := o.RemoveItem(itemA.ID())

		require.NoError(t, err)
		require.Len(t, o.Items(), 1)
		assert.Equal(t, "B", o.Items()[0].SKU())
		assert.True(t, o.Totals().GrandTotal.Equal(decimal.NewFromFloat(5.0)))
	})

	t.Run("should fail with NotFound for unknown item", func(t *testing.T) {
		o := newPendingOrder(t, mustItem(t, "A", 2, 10.0))

		err := o.RemoveItem(kernel.NewUUID())

		require.Error(t, err)
		require.ErrorIs(t, err, errs.ErrObjectNotFound)
	})
}

func TestOrder_ApplyPatch(t *testing.T) {
	t.Run("should apply sparse fields and report what changed", func(t *testing.T) {
		o := newPendingOrder(t)
		address := "1 Main St"
		notes := "ring twice"

		changed, err := o.ApplyPatch(order.Patch{ShippingAddress: &address, Notes: &notes})

		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"shipping_address", "notes"}, changed)
		assert.Equal(t, address, o.ShippingAddress())
		assert.Equal(t, notes, o.Notes())
		assert.Equal(t, int64(2), o.Version())

		entries := o.PendingAuditEntries()
		require.Len(t, entries, 1)
		assert.Equal(t, order.ActionPatched, entries[0].Action)
	})

	t.Run("should leave omitted fields untouched", func(t *testing.T) {
		o := newPendingOrder(t)
		notes := "ring twice"

		changed, err := o.ApplyPatch(order.Patch{Notes: &notes})

		require.NoError(t, err)
		assert.Equal(t, []string{"notes"}, changed)
		assert.Empty(t, o.ShippingAddress())
	})
}

func TestOrder_MarkDeleted(t *testing.T) {
	t.Run("should soft delete and bump version", func(t *testing.T) {
		o := newPendingOrder(t)

		err := o.MarkDeleted()

		require.NoError(t, err)
		assert.True(t, o.IsDeleted())
		assert.Equal(t, int64(2), o.Version())

		entries := o.PendingAuditEntries()
		require.Len(t, entries, 1)
		assert.Equal(t, order.ActionDeleted, entries[0].Action)
	})

	t.Run("should fail with NotFound when already deleted", func(t *testing.T) {
		o := newPendingOrder(t)
		require.NoError(t, o.MarkDeleted())

		err := o.MarkDeleted()

		require.Error(t, err)
		require.ErrorIs(t, err, errs.ErrObjectNotFound)
	})
}

func TestOrder_FlushAuditEntries(t *testing.T) {
	o := newPendingOrder(t)
	require.NoError(t, o.ChangeStatus(order.Reserved, order.TransitionDetails{}))
	require.Len(t, o.PendingAuditEntries(), 1)

	o.FlushAuditEntries()

	assert.Empty(t, o.PendingAuditEntries())
}

func restoreWithStatus(t *testing.T, status order.Status) *order.Order {
	t.Helper()
	return restoreWithReservation(t, status, nil)
}

func restoreWithReservation(t *testing.T, status order.Status, reservationID *kernel.UUID) *order.Order {
	t.Helper()

	now := time.Now().UTC()
	return order.RestoreOrder(
		kernel.NewUUID(),
		order.Attributes{},
		status,
		nil,
		order.Totals{
			Subtotal:   decimal.Zero,
			Tax:        decimal.Zero,
			Shipping:   decimal.Zero,
			Discounts:  decimal.Zero,
			GrandTotal: decimal.Zero,
		},
		reservationID,
		3,
		false,
		now,
		now,
		order.ZeroPolicy{},
	)
}
