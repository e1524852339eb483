// Package order contains the order aggregate and its supporting domain
// objects: the lifecycle status machine, line items, the totals calculator
// with its pluggable policy, and the audit trail records.
//
// The aggregate is the sole writer of status, version, totals and the
// reservation id. Mutations buffer the audit entries they produce so the
// application layer can persist state and audit atomically.
package order
