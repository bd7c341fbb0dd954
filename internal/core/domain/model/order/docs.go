// Package order provides the order aggregate and the closed vocabulary that
// drives its lifecycle.
//
// The package includes:
//   - Order and Line: the aggregate root and its lines with ordered/allocated quantities
//   - Status: the closed set of lifecycle stages, with terminal stages marked
//   - Event: the closed set of signals that may advance an order
//   - Transition: the static (status, event) -> (status, action) table
//
// The table is pure data. Computing and applying a transition is the job of the
// state machine in the domain services package; this package only answers
// "which edge, if any, does this pair name".
package order
