package errs

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors used as wrap targets for the typed errors below.
// Callers classify failures with errors.Is against these values.
var (
	ErrObjectNotFound      = errors.New("object not found")
	ErrValueIsInvalid      = errors.New("value is invalid")
	ErrValueIsRequired     = errors.New("value is required")
	ErrVersionConflict     = errors.New("version conflict")
	ErrInvalidTransition   = errors.New("invalid status transition")
	ErrPreconditionFailed  = errors.New("precondition failed")
	ErrAlreadyTerminal     = errors.New("order is in a terminal status")
	ErrNotModifiable       = errors.New("order items are not modifiable")
	ErrIdempotencyConflict = errors.New("idempotency key is already bound")
	ErrUpstreamUnavailable = errors.New("upstream service unavailable")
)

// sanitize collapses newlines so multi-line values cannot break log lines.
func sanitize(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(s, "\r", " "), "\n", " ")
}

// ObjectNotFoundError indicates that an object could not be located,
// either because it never existed or because it was soft-deleted.
type ObjectNotFoundError struct {
	ParamName string
	ID        any
	Cause     error
}

func NewObjectNotFoundError(paramName string, id any) *ObjectNotFoundError {
	return &ObjectNotFoundError{ParamName: paramName, ID: id}
}

func NewObjectNotFoundErrorWithCause(paramName string, id any, cause error) *ObjectNotFoundError {
	return &ObjectNotFoundError{ParamName: paramName, ID: id, Cause: cause}
}

func (e *ObjectNotFoundError) Error() string {
	if e.Cause != nil {
		return sanitize(fmt.Sprintf("%s: param is: %s, ID is: %s (cause: %s)",
			ErrObjectNotFound, e.ParamName, e.ID, e.Cause))
	}
	return sanitize(fmt.Sprintf("%s: %s", ErrObjectNotFound, e.ID))
}

func (e *ObjectNotFoundError) Unwrap() error {
	return ErrObjectNotFound
}

// ValueIsInvalidError indicates that a supplied value failed validation.
type ValueIsInvalidError struct {
	ParamName string
	Cause     error
}

func NewValueIsInvalidError(paramName string) *ValueIsInvalidError {
	return &ValueIsInvalidError{ParamName: paramName}
}

func NewValueIsInvalidErrorWithCause(paramName string, cause error) *ValueIsInvalidError {
	return &ValueIsInvalidError{ParamName: paramName, Cause: cause}
}

func (e *ValueIsInvalidError) Error() string {
	if e.Cause != nil {
		return sanitize(fmt.Sprintf("%s: %s (cause: %s)", ErrValueIsInvalid, e.ParamName, e.Cause))
	}
	return sanitize(fmt.Sprintf("%s: %s", ErrValueIsInvalid, e.ParamName))
}

func (e *ValueIsInvalidError) Unwrap() error {
	return ErrValueIsInvalid
}

// ValueIsRequiredError indicates that a required value was not supplied.
type ValueIsRequiredError struct {
	ParamName string
	Cause     error
}

func NewValueIsRequiredError(paramName string) *ValueIsRequiredError {
	return &ValueIsRequiredError{ParamName: paramName}
}

func NewValueIsRequiredErrorWithCause(paramName string, cause error) *ValueIsRequiredError {
	return &ValueIsRequiredError{ParamName: paramName, Cause: cause}
}

func (e *ValueIsRequiredError) Error() string {
	if e.Cause != nil {
		return sanitize(fmt.Sprintf("%s: %s (cause: %s)", ErrValueIsRequired, e.ParamName, e.Cause))
	}
	return sanitize(fmt.Sprintf("%s: %s", ErrValueIsRequired, e.ParamName))
}

func (e *ValueIsRequiredError) Unwrap() error {
	return ErrValueIsRequired
}

// VersionConflictError indicates an optimistic-concurrency failure: the
// caller's expected version no longer matches the stored version.
type VersionConflictError struct {
	Expected int64
	Actual   int64
}

func NewVersionConflictError(expected, actual int64) *VersionConflictError {
	return &VersionConflictError{Expected: expected, Actual: actual}
}

func (e *VersionConflictError) Error() string {
	return fmt.Sprintf("%s: expected version %d, actual version %d",
		ErrVersionConflict, e.Expected, e.Actual)
}

func (e *VersionConflictError) Unwrap() error {
	return ErrVersionConflict
}

// InvalidTransitionError indicates a status change that is not present in
// the order transition table. Allowed lists the legal targets from the
// current status so callers can decide whether a retry makes sense.
type InvalidTransitionError struct {
	From    string
	To      string
	Allowed []string
}

func NewInvalidTransitionError(from, to string, allowed []string) *InvalidTransitionError {
	return &InvalidTransitionError{From: from, To: to, Allowed: allowed}
}

func (e *InvalidTransitionError) Error() string {
	return sanitize(fmt.Sprintf("%s: cannot transition %s -> %s (allowed: %s)",
		ErrInvalidTransition, e.From, e.To, strings.Join(e.Allowed, ", ")))
}

func (e *InvalidTransitionError) Unwrap() error {
	return ErrInvalidTransition
}

// PreconditionFailedError indicates a transition that is in the table but is
// missing a required field, e.g. a warehouse id when entering FULFILLING.
type PreconditionFailedError struct {
	ParamName string
	Target    string
}

func NewPreconditionFailedError(paramName, target string) *PreconditionFailedError {
	return &PreconditionFailedError{ParamName: paramName, Target: target}
}

func (e *PreconditionFailedError) Error() string {
	return sanitize(fmt.Sprintf("%s: %s is required to enter %s",
		ErrPreconditionFailed, e.ParamName, e.Target))
}

func (e *PreconditionFailedError) Unwrap() error {
	return ErrPreconditionFailed
}

// AlreadyTerminalError indicates a cancel request against an order that is
// already COMPLETED or CANCELLED.
type AlreadyTerminalError struct {
	Status string
}

func NewAlreadyTerminalError(status string) *AlreadyTerminalError {
	return &AlreadyTerminalError{Status: status}
}

func (e *AlreadyTerminalError) Error() string {
	return sanitize(fmt.Sprintf("%s: %s", ErrAlreadyTerminal, e.Status))
}

func (e *AlreadyTerminalError) Unwrap() error {
	return ErrAlreadyTerminal
}

// NotModifiableError indicates an item mutation against an order that has
// left the pre-reservation statuses (DRAFT, PENDING).
type NotModifiableError struct {
	Status string
}

func NewNotModifiableError(status string) *NotModifiableError {
	return &NotModifiableError{Status: status}
}

func (e *NotModifiableError) Error() string {
	return sanitize(fmt.Sprintf("%s: current status is %s", ErrNotModifiable, e.Status))
}

func (e *NotModifiableError) Unwrap() error {
	return ErrNotModifiable
}

// IdempotencyConflictError indicates that an idempotency key insert lost a
// race against a concurrent creation bearing the same key. Handlers translate
// this into a retry-read of the winner's order.
type IdempotencyConflictError struct {
	Key   string
	Cause error
}

func NewIdempotencyConflictError(key string, cause error) *IdempotencyConflictError {
	return &IdempotencyConflictError{Key: key, Cause: cause}
}

func (e *IdempotencyConflictError) Error() string {
	if e.Cause != nil {
		return sanitize(fmt.Sprintf("%s: %s (cause: %s)", ErrIdempotencyConflict, e.Key, e.Cause))
	}
	return sanitize(fmt.Sprintf("%s: %s", ErrIdempotencyConflict, e.Key))
}

func (e *IdempotencyConflictError) Unwrap() error {
	return ErrIdempotencyConflict
}

// UpstreamUnavailableError indicates a collaborator (inventory, catalog)
// failure that aborted the in-progress operation before any write.
type UpstreamUnavailableError struct {
	Upstream string
	Cause    error
}

func NewUpstreamUnavailableError(upstream string, cause error) *UpstreamUnavailableError {
	return &UpstreamUnavailableError{Upstream: upstream, Cause: cause}
}

func (e *UpstreamUnavailableError) Error() string {
	if e.Cause != nil {
		return sanitize(fmt.Sprintf("%s: %s (cause: %s)", ErrUpstreamUnavailable, e.Upstream, e.Cause))
	}
	return sanitize(fmt.Sprintf("%s: %s", ErrUpstreamUnavailable, e.Upstream))
}

func (e *UpstreamUnavailableError) Unwrap() error {
	return ErrUpstreamUnavailable
}
