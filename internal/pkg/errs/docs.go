// Package errs provides the standardized error taxonomy for the order
// lifecycle service. It implements a consistent pattern for error creation,
// formatting, and unwrapping that is used throughout the application.
//
// The package defines one error type per caller-visible failure category:
//   - ObjectNotFoundError: the order/item is absent or soft-deleted
//   - VersionConflictError: stale expected-version on an optimistic update
//   - InvalidTransitionError: status change not in the transition table
//   - PreconditionFailedError: required field missing for a transition
//   - AlreadyTerminalError: cancel requested on a terminal order
//   - NotModifiableError: item mutation outside DRAFT/PENDING
//   - ValueIsInvalidError / ValueIsRequiredError: malformed input
//   - IdempotencyConflictError: duplicate idempotency key at the store
//   - UpstreamUnavailableError: inventory/catalog collaborator failure
//
// Each error type follows a consistent pattern:
//   - A sentinel error variable (e.g. ErrVersionConflict)
//   - A struct type with fields carrying structured detail
//   - Constructor functions, with and without cause where applicable
//   - Error() for formatting and Unwrap() targeting the sentinel
//
// Structured detail (conflicting version, allowed transitions, missing field
// name) is kept on the struct so the HTTP adapter can surface it to callers
// deciding whether to retry.
package errs
