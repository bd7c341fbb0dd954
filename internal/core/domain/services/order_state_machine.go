package services

import (
	"context"
	"errors"
	"fmt"

	"orderservice/internal/core/domain/model/kernel"
	"orderservice/internal/core/domain/model/order"

	"github.com/looplab/fsm"
)

// ErrInvalidTransition is returned when the table has no edge for a (status, event) pair.
var ErrInvalidTransition = errors.New("invalid transition")

// InvalidTransitionError carries the rejected pair.
type InvalidTransitionError struct {
	From  order.Status
	Event order.Event
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("%s: no edge from %s on %s", ErrInvalidTransition, e.From, e.Event)
}

func (e *InvalidTransitionError) Unwrap() error {
	return ErrInvalidTransition
}

// ActionContext describes the transition an Action is running for.
type ActionContext struct {
	OrderID kernel.UUID
	From    order.Status
	To      order.Status
	Event   order.Event
}

// Action is the side effect attached to a table edge.
type Action interface {
	Execute(ctx context.Context, ac ActionContext) error
}

// ActionFunc adapts a plain function to Action.
type ActionFunc func(ctx context.Context, ac ActionContext) error

func (f ActionFunc) Execute(ctx context.Context, ac ActionContext) error {
	return f(ctx, ac)
}

// OrderStateMachine drives the order lifecycle with github.com/looplab/fsm.
//
// Every Apply call seeds a fresh fsm.FSM with the caller's status, fires a single
// event and drops the instance. The only retained state is the immutable event
// table and the action registry, so one OrderStateMachine is safe for
// concurrent use.
//
// Example usage:
//
//	machine, err := services.NewOrderStateMachine(actions.Registry(repo, publisher, logger))
//	next, err := machine.Apply(ctx, o.Status(), order.ValidateOrder, o.ID())
//	if errors.Is(err, services.ErrInvalidTransition) {
//	    // next == o.Status()
//	}
type OrderStateMachine struct {
	events  fsm.Events
	actions map[order.ActionKind]Action
}

// NewOrderStateMachine checks that every action named by the transition table has a
// registered implementation.
func NewOrderStateMachine(actions map[order.ActionKind]Action) (*OrderStateMachine, error) {
	table := order.Transitions()

	registered := make(map[order.ActionKind]Action, len(actions))
	for kind, action := range actions {
		if action == nil {
			return nil, fmt.Errorf("action %s is nil", kind)
		}
		registered[kind] = action
	}

	events := make(fsm.Events, 0, len(table))
	for _, t := range table {
		if t.Action != order.NoAction {
			if _, ok := registered[t.Action]; !ok {
				return nil, fmt.Errorf("no action registered for %s (%s on %s)", t.Action, t.From, t.Event)
			}
		}
		events = append(events, fsm.EventDesc{
			Name: t.Event.String(),
			Src:  []string{t.From.String()},
			Dst:  t.To.String(),
		})
	}

	return &OrderStateMachine{events: events, actions: registered}, nil
}

// Apply fires event against current and returns the resulting status.
//
// An undefined pair returns current together with an *InvalidTransitionError. When
// the edge carries an action, the action runs before Apply returns; its error is
// returned alongside the target status and the caller must not persist it.
func (m *OrderStateMachine) Apply(
	ctx context.Context,
	current order.Status,
	event order.Event,
	orderID kernel.UUID,
) (order.Status, error) {
	machine := fsm.NewFSM(current.String(), m.events, fsm.Callbacks{})

	if err := machine.Event(ctx, event.String()); err != nil {
		var invalid fsm.InvalidEventError
		var unknown fsm.UnknownEventError
		if errors.As(err, &invalid) || errors.As(err, &unknown) {
			return current, &InvalidTransitionError{From: current, Event: event}
		}
		return current, fmt.Errorf("fire %s from %s: %w", event, current, err)
	}

	next, err := order.StatusFromString(machine.Current())
	if err != nil {
		return current, err
	}

	transition, ok := order.LookupTransition(current, event)
	if !ok {
		return current, &InvalidTransitionError{From: current, Event: event}
	}

	if transition.Action == order.NoAction {
		return next, nil
	}

	ac := ActionContext{OrderID: orderID, From: current, To: next, Event: event}
	if err := m.actions[transition.Action].Execute(ctx, ac); err != nil {
		return next, fmt.Errorf("action %s for order %s: %w", transition.Action, orderID, err)
	}

	return next, nil
}

// Can reports whether the table defines an edge for the pair.
func (m *OrderStateMachine) Can(current order.Status, event order.Event) bool {
	return fsm.NewFSM(current.String(), m.events, fsm.Callbacks{}).Can(event.String())
}
