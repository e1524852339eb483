package order

import (
	"orders/internal/pkg/errs"
)

// Status represents the lifecycle state of an order. It implements a state
// machine whose transitions are held in an explicit table, so the legal
// workflow can be tested by enumeration rather than hidden in control flow.
//
// State transitions:
//
//	DRAFT ──> PENDING ──> RESERVED ──> FULFILLING ──> SHIPPED ──> COMPLETED
//	  │          │            │             │
//	  └──────────┴────────────┴─────────────┴──> CANCELLED
//
// COMPLETED and CANCELLED are terminal.
type Status string

const (
	// Draft is an order still being assembled; items are freely mutable.
	Draft Status = "DRAFT"

	// Pending is a placed order awaiting reservation; items remain mutable.
	Pending Status = "PENDING"

	// Reserved means stock has been held for the order; from this point the
	// order carries a reservation id and items are frozen.
	Reserved Status = "RESERVED"

	// Fulfilling means a warehouse is picking the order.
	Fulfilling Status = "FULFILLING"

	// Shipped means the order left the warehouse with a tracking number.
	Shipped Status = "SHIPPED"

	// Completed is the terminal success state.
	Completed Status = "COMPLETED"

	// Cancelled is the terminal failure state; any held reservation is
	// released on entry.
	Cancelled Status = "CANCELLED"
)

// transitions is the authoritative source -> targets table for plain status
// updates. Cancellation has its own, wider rule: it is legal from every
// non-terminal status (see Order.Cancel).
func transitions() map[Status][]Status {
	return map[Status][]Status{
		Draft:      {Pending, Cancelled},
		Pending:    {Reserved, Cancelled},
		Reserved:   {Fulfilling, Cancelled},
		Fulfilling: {Shipped, Cancelled},
		Shipped:    {Completed},
		Completed:  {},
		Cancelled:  {},
	}
}

// AllStatuses returns every valid status, in lifecycle order.
func AllStatuses() []Status {
	return []Status{Draft, Pending, Reserved, Fulfilling, Shipped, Completed, Cancelled}
}

// StatusFromString parses a status supplied by an external caller.
func StatusFromString(s string) (Status, error) {
	status := Status(s)
	if err := status.Validate(); err != nil {
		return "", err
	}
	return status, nil
}

// Validate checks that the value is a member of the defined state set.
func (s Status) Validate() error {
	if _, ok := transitions()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status", errs.NewValueIsInvalidError(string(s)))
	}
	return nil
}

// String implements fmt.Stringer.
func (s Status) String() string {
	return string(s)
}

// IsTerminal reports whether no further transition is permitted.
func (s Status) IsTerminal() bool {
	return s == Completed || s == Cancelled
}

// AllowedTargets returns the legal targets from this status per the
// transition table.
func (s Status) AllowedTargets() []Status {
	return transitions()[s]
}

// CanTransitionTo reports whether the (s, target) pair is in the table.
func (s Status) CanTransitionTo(target Status) bool {
	for _, allowed := range transitions()[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// TransitionDetails carries the optional metadata accompanying a status
// update request. Entry guards require specific fields for specific targets.
type TransitionDetails struct {
	Reason         string
	WarehouseID    string
	TrackingNumber string
}

// ValidateEntry enforces per-target entry guards: FULFILLING requires a
// warehouse id and SHIPPED requires a tracking number. A missing field is a
// PreconditionFailed, distinct from InvalidTransition.
func (s Status) ValidateEntry(details TransitionDetails) error {
	switch s {
	case Fulfilling:
		if details.WarehouseID == "" {
			return errs.NewPreconditionFailedError("warehouse_id", s.String())
		}
	case Shipped:
		if details.TrackingNumber == "" {
			return errs.NewPreconditionFailedError("tracking_number", s.String())
		}
	}
	return nil
}

// allowedTargetStrings renders the allowed targets for error details.
func (s Status) allowedTargetStrings() []string {
	targets := s.AllowedTargets()
	out := make([]string, len(targets))
	for i, t := range targets {
		out[i] = t.String()
	}
	return out
}
