// Package kernel provides the shared domain primitives of the order service.
//
// UUID is the identifier value object used for orders and order lines. Its zero
// value is invalid, so an identifier that was never assigned is caught by Validate
// before it reaches persistence or a message payload.
package kernel
