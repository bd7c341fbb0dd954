package order

import (
	"fmt"

	"orderservice/internal/pkg/errs"
)

// Event is a signal that may advance an order's status.
type Event int

const (
	UnknownEvent Event = iota
	ValidateOrder
	ValidationPassed
	ValidationFailed
	AllocateOrder
	AllocationSuccess
	AllocationNoInventory
	AllocationFailed
	OrderPickedUp
	CancelOrder
)

func getEventStrings() map[Event]string {
	return map[Event]string{
		UnknownEvent:          "UNKNOWN_EVENT",
		ValidateOrder:         "VALIDATE_ORDER",
		ValidationPassed:      "VALIDATION_PASSED",
		ValidationFailed:      "VALIDATION_FAILED",
		AllocateOrder:         "ALLOCATE_ORDER",
		AllocationSuccess:     "ALLOCATION_SUCCESS",
		AllocationNoInventory: "ALLOCATION_NO_INVENTORY",
		AllocationFailed:      "ALLOCATION_FAILED",
		OrderPickedUp:         "ORDER_PICKED_UP",
		CancelOrder:           "CANCEL_ORDER",
	}
}

// Events returns every valid event in declaration order.
func Events() []Event {
	return []Event{
		ValidateOrder, ValidationPassed, ValidationFailed,
		AllocateOrder, AllocationSuccess, AllocationNoInventory, AllocationFailed,
		OrderPickedUp, CancelOrder,
	}
}

// EventFromString parses the upper-snake name produced by String.
func EventFromString(s string) (Event, error) {
	for event, name := range getEventStrings() {
		if event != UnknownEvent && name == s {
			return event, nil
		}
	}
	return UnknownEvent, errs.NewValueIsInvalidErrorWithCause("event", fmt.Errorf("%q is not a known event", s))
}

func (e Event) Validate() error {
	if e <= UnknownEvent || e > CancelOrder {
		return errs.NewValueIsInvalidErrorWithCause("event is invalid", fmt.Errorf("%d is not a valid event", e))
	}
	return nil
}

func (e Event) String() string {
	if str, ok := getEventStrings()[e]; ok {
		return str
	}
	return "UNKNOWN_EVENT"
}
