// Package kernel contains shared value objects used across the domain model.
//
// The kernel holds primitives that every aggregate depends on but that carry
// no business rules of their own, such as the UUID identity value object.
package kernel
