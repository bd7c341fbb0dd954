// Package manager runs the order saga: it persists new orders, turns external
// replies into lifecycle events, and keeps the stored status in step with the
// state machine.
//
// Each dispatch reloads the order from the store, asks the state machine for the
// next status, and writes it back inside one unit of work. Nothing is cached
// between dispatches.
//
// Operations report an Outcome for expected conditions (missing order, rejected
// event, sync timeout) and reserve the error return for failures the transport
// should retry or dead-letter.
package manager
