package order

import (
	"time"

	"orders/internal/core/domain/model/kernel"
	"orders/internal/pkg/errs"
)

// Attributes are the client-supplied descriptive fields of an order. All of
// them are optional; totals and status are never among them.
type Attributes struct {
	Reference            string
	CustomerID           string
	SalesChannel         string
	ShippingAddress      string
	BillingInfo          string
	Notes                string
	PreferredWarehouseID string
}

// Patch is a sparse update to an order's mutable fields. Status, totals and
// items have their own operations and are deliberately absent here.
type Patch struct {
	ShippingAddress *string
	Notes           *string
}

// Order is the aggregate root of the order lifecycle. It is the sole owner
// of status, version, totals and the reservation id.
//
// Invariants:
//   - version increments by exactly 1 on every successful mutation
//   - status changes only through the transition table and entry guards
//   - reservationID is set on entry to RESERVED and cleared on CANCELLED
//   - items are mutable only in DRAFT or PENDING; every item mutation
//     recomputes totals in the same call
//
// Every mutation appends the audit entries describing it to an internal
// buffer; the caller persists and clears the buffer within the same
// transaction as the state change.
type Order struct {
	id                   kernel.UUID
	reference            string
	status               Status
	customerID           string
	salesChannel         string
	items                []Item
	totals               Totals
	shippingAddress      string
	billingInfo          string
	notes                string
	preferredWarehouseID string
	reservationID        *kernel.UUID
	version              int64
	deleted              bool
	createdAt            time.Time
	updatedAt            time.Time

	policy       TotalsPolicy
	pendingAudit []AuditEntry
}

// NewOrder creates a new order at version 1. With reserveOnPlace the order
// starts in RESERVED carrying a freshly generated reservation id and records
// both the created and reserved audit entries; otherwise it starts in
// PENDING with a single created entry.
func NewOrder(id kernel.UUID, attrs Attributes, items []Item, reserveOnPlace bool, policy TotalsPolicy) (*Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	order := &Order{
		id:                   id,
		reference:            attrs.Reference,
		status:               Pending,
		customerID:           attrs.CustomerID,
		salesChannel:         attrs.SalesChannel,
		items:                items,
		shippingAddress:      attrs.ShippingAddress,
		billingInfo:          attrs.BillingInfo,
		notes:                attrs.Notes,
		preferredWarehouseID: attrs.PreferredWarehouseID,
		version:              1,
		createdAt:            now,
		updatedAt:            now,
		policy:               policy,
	}
	order.totals = CalculateTotals(order.items, order.policy)

	if err := order.recordAudit(ActionCreated, map[string]any{
		"status":      order.status.String(),
		"item_count":  len(order.items),
		"grand_total": order.totals.GrandTotal.String(),
	}); err != nil {
		return nil, err
	}

	if reserveOnPlace {
		reservationID := kernel.NewUUID()
		order.status = Reserved
		order.reservationID = &reservationID

		if err := order.recordAudit(ActionReserved, map[string]any{
			"reservation_id": reservationID.String(),
		}); err != nil {
			return nil, err
		}
	}

	return order, nil
}

// RestoreOrder rehydrates an order from persistence without side effects.
func RestoreOrder(
	id kernel.UUID,
	attrs Attributes,
	status Status,
	items []Item,
	totals Totals,
	reservationID *kernel.UUID,
	version int64,
	deleted bool,
	createdAt, updatedAt time.Time,
	policy TotalsPolicy,
) *Order {
	return &Order{
		id:                   id,
		reference:            attrs.Reference,
		status:               status,
		customerID:           attrs.CustomerID,
		salesChannel:         attrs.SalesChannel,
		items:                items,
		totals:               totals,
		shippingAddress:      attrs.ShippingAddress,
		billingInfo:          attrs.BillingInfo,
		notes:                attrs.Notes,
		preferredWarehouseID: attrs.PreferredWarehouseID,
		reservationID:        reservationID,
		version:              version,
		deleted:              deleted,
		createdAt:            createdAt,
		updatedAt:            updatedAt,
		policy:               policy,
	}
}

// ID returns the order's unique identifier.
func (o *Order) ID() kernel.UUID {
	return o.id
}

// Reference returns the optional human-facing reference.
func (o *Order) Reference() string {
	return o.reference
}

// Status returns the current lifecycle status.
func (o *Order) Status() Status {
	return o.status
}

// CustomerID returns the optional customer identifier.
func (o *Order) CustomerID() string {
	return o.customerID
}

// SalesChannel returns the optional sales channel tag.
func (o *Order) SalesChannel() string {
	return o.salesChannel
}

// Items returns the current line items.
func (o *Order) Items() []Item {
	return o.items
}

// Totals returns the current monetary summary.
func (o *Order) Totals() Totals {
	return o.totals
}

// ShippingAddress returns the shipping address.
func (o *Order) ShippingAddress() string {
	return o.shippingAddress
}

// BillingInfo returns the billing information.
func (o *Order) BillingInfo() string {
	return o.billingInfo
}

// Notes returns the free-form notes.
func (o *Order) Notes() string {
	return o.notes
}

// PreferredWarehouseID returns the preferred warehouse, empty when unset.
func (o *Order) PreferredWarehouseID() string {
	return o.preferredWarehouseID
}

// ReservationID returns the active reservation id, nil when no stock is held.
func (o *Order) ReservationID() *kernel.UUID {
	return o.reservationID
}

// Version returns the optimistic-concurrency version counter.
func (o *Order) Version() int64 {
	return o.version
}

// IsDeleted reports whether the order is soft-deleted.
func (o *Order) IsDeleted() bool {
	return o.deleted
}

// CreatedAt returns the creation timestamp.
func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

// UpdatedAt returns the last mutation timestamp.
func (o *Order) UpdatedAt() time.Time {
	return o.updatedAt
}

// IsEqual compares two orders by identity.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

// PendingAuditEntries returns the audit entries recorded by mutations since
// the last flush. They must be persisted in the same transaction as the
// order itself.
func (o *Order) PendingAuditEntries() []AuditEntry {
	return o.pendingAudit
}

// FlushAuditEntries clears the pending audit buffer after persistence.
func (o *Order) FlushAuditEntries() {
	o.pendingAudit = nil
}

// ChangeStatus moves the order to target per the transition table. Targets
// not reachable from the current status fail with InvalidTransition; entry
// guards (warehouse id for FULFILLING, tracking number for SHIPPED) fail
// with PreconditionFailed. Entering RESERVED without a reservation id
// generates one; entering CANCELLED clears it.
func (o *Order) ChangeStatus(target Status, details TransitionDetails) error {
	if err := target.Validate(); err != nil {
		return err
	}
	if !o.status.CanTransitionTo(target) {
		return errs.NewInvalidTransitionError(o.status.String(), target.String(), o.status.allowedTargetStrings())
	}
	if err := target.ValidateEntry(details); err != nil {
		return err
	}

	from := o.status
	o.status = target

	auditDetails := map[string]any{
		"from": from.String(),
		"to":   target.String(),
	}
	if details.Reason != "" {
		auditDetails["reason"] = details.Reason
	}
	if details.WarehouseID != "" {
		auditDetails["warehouse_id"] = details.WarehouseID
	}
	if details.TrackingNumber != "" {
		auditDetails["tracking_number"] = details.TrackingNumber
	}

	switch target {
	case Reserved:
		if o.reservationID == nil {
			reservationID := kernel.NewUUID()
			o.reservationID = &reservationID
		}
		auditDetails["reservation_id"] = o.reservationID.String()
	case Cancelled:
		o.reservationID = nil
	}

	if err := o.recordAudit(ActionStatusChanged, auditDetails); err != nil {
		return err
	}

	o.touch()
	return nil
}

// Cancel moves the order to CANCELLED from any non-terminal status and
// releases the reservation id. Cancelling a terminal order fails with
// AlreadyTerminal.
func (o *Order) Cancel(reason string) error {
	if o.status.IsTerminal() {
		return errs.NewAlreadyTerminalError(o.status.String())
	}

	from := o.status
	o.status = Cancelled
	o.reservationID = nil

	auditDetails := map[string]any{
		"from": from.String(),
	}
	if reason != "" {
		auditDetails["reason"] = reason
	}
	if err := o.recordAudit(ActionCancelled, auditDetails); err != nil {
		return err
	}

	o.touch()
	return nil
}

// AddItems appends line items to a modifiable order and recomputes totals.
func (o *Order) AddItems(items []Item) error {
	if err := o.ensureModifiable(); err != nil {
		return err
	}
	if len(items) == 0 {
		return errs.NewValueIsRequiredError("items")
	}

	o.items = append(o.items, items...)
	o.totals = CalculateTotals(o.items, o.policy)

	if err := o.recordAudit(ActionItemsAdded, map[string]any{
		"added_count": len(items),
		"item_count":  len(o.items),
	}); err != nil {
		return err
	}

	o.touch()
	return nil
}

// UpdateItem applies a sparse patch to one item of a modifiable order and
// recomputes totals.
func (o *Order) UpdateItem(itemID kernel.UUID, patch ItemPatch) error {
	if err := o.ensureModifiable(); err != nil {
		return err
	}

	idx := o.findItem(itemID)
	if idx < 0 {
		return errs.NewObjectNotFoundError("item_id", itemID)
	}
	if err := o.items[idx].applyPatch(patch); err != nil {
		return err
	}
	o.totals = CalculateTotals(o.items, o.policy)

	if err := o.recordAudit(ActionItemUpdated, map[string]any{
		"item_id": itemID.String(),
	}); err != nil {
		return err
	}

	o.touch()
	return nil
}

// RemoveItem deletes one item from a modifiable order and recomputes totals.
func (o *Order) RemoveItem(itemID kernel.UUID) error {
	if err := o.ensureModifiable(); err != nil {
		return err
	}

	idx := o.findItem(itemID)
	if idx < 0 {
		return errs.NewObjectNotFoundError("item_id", itemID)
	}
	o.items = append(o.items[:idx], o.items[idx+1:]...)
	o.totals = CalculateTotals(o.items, o.policy)

	if err := o.recordAudit(ActionItemRemoved, map[string]any{
		"item_id": itemID.String(),
	}); err != nil {
		return err
	}

	o.touch()
	return nil
}

// ApplyPatch updates the order's patchable fields, returning the names of
// the fields that changed. The version increments even when the patch is a
// no-op so the caller's expected-version token stays authoritative.
func (o *Order) ApplyPatch(patch Patch) ([]string, error) {
	var changed []string
	if patch.ShippingAddress != nil && *patch.ShippingAddress != o.shippingAddress {
		o.shippingAddress = *patch.ShippingAddress
		changed = append(changed, "shipping_address")
	}
	if patch.Notes != nil && *patch.Notes != o.notes {
		o.notes = *patch.Notes
		changed = append(changed, "notes")
	}

	if err := o.recordAudit(ActionPatched, map[string]any{
		"fields": changed,
	}); err != nil {
		return nil, err
	}

	o.touch()
	return changed, nil
}

// MarkDeleted soft-deletes the order. The audit trail stays intact.
func (o *Order) MarkDeleted() error {
	if o.deleted {
		return errs.NewObjectNotFoundError("order_id", o.id)
	}

	o.deleted = true
	if err := o.recordAudit(ActionDeleted, nil); err != nil {
		return err
	}

	o.touch()
	return nil
}

func (o *Order) ensureModifiable() error {
	if o.status != Draft && o.status != Pending {
		return errs.NewNotModifiableError(o.status.String())
	}
	return nil
}

func (o *Order) findItem(itemID kernel.UUID) int {
	for i, item := range o.items {
		if item.ID().IsEqual(itemID) {
			return i
		}
	}
	return -1
}

func (o *Order) recordAudit(action Action, details map[string]any) error {
	entry, err := NewAuditEntry(o.id, action, ActorSystem, details)
	if err != nil {
		return err
	}
	o.pendingAudit = append(o.pendingAudit, entry)
	return nil
}

// touch advances the version counter and the updated timestamp. Exactly one
// touch happens per successful mutating operation.
func (o *Order) touch() {
	o.version++
	o.updatedAt = time.Now().UTC()
}
