// Package services provides domain services that operate on the order vocabulary
// without owning any state of their own.
//
// The package includes:
//   - OrderStateMachine: computes the next status for a (status, event) pair from the
//     transition table and runs the side effect attached to the edge
//   - Action: the side-effect contract implemented by the application layer
//
// The machine is rebuilt from the caller-supplied status on every call, so nothing
// here outlives a single dispatch.
package services
