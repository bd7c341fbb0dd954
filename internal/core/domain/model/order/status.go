package order

import (
	"fmt"

	"orderservice/internal/pkg/errs"
)

// Status represents the lifecycle stage of an order.
//
//	NEW ─> VALIDATION_PENDING ─┬─> VALIDATED ─> ALLOCATION_PENDING ─┬─> ALLOCATED ─> PICKED_UP
//	                           └─> VALIDATION_EXCEPTION             ├─> PENDING_INVENTORY
//	                                                                └─> ALLOCATION_EXCEPTION
//
// VALIDATION_PENDING, VALIDATED, ALLOCATION_PENDING and ALLOCATED may also move to CANCELLED.
type Status int

const (
	// Unknown (0) catches uninitialized values read from storage or payloads.
	Unknown Status = iota
	New
	ValidationPending
	Validated
	ValidationException
	AllocationPending
	Allocated
	PendingInventory
	AllocationException
	PickedUp
	Cancelled
	Delivered
	DeliveryException
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:             "UNKNOWN",
		New:                 "NEW",
		ValidationPending:   "VALIDATION_PENDING",
		Validated:           "VALIDATED",
		ValidationException: "VALIDATION_EXCEPTION",
		AllocationPending:   "ALLOCATION_PENDING",
		Allocated:           "ALLOCATED",
		PendingInventory:    "PENDING_INVENTORY",
		AllocationException: "ALLOCATION_EXCEPTION",
		PickedUp:            "PICKED_UP",
		Cancelled:           "CANCELLED",
		Delivered:           "DELIVERED",
		DeliveryException:   "DELIVERY_EXCEPTION",
	}
}

// Statuses returns every valid status in declaration order.
func Statuses() []Status {
	return []Status{
		New, ValidationPending, Validated, ValidationException,
		AllocationPending, Allocated, PendingInventory, AllocationException,
		PickedUp, Cancelled, Delivered, DeliveryException,
	}
}

// InFlight returns the statuses an order holds while it waits for a reply or for
// the next event of the placement flow.
func InFlight() []Status {
	return []Status{New, ValidationPending, Validated, AllocationPending}
}

// StatusFromString parses the upper-snake name produced by String.
func StatusFromString(s string) (Status, error) {
	for status, name := range getStatusStrings() {
		if status != Unknown && name == s {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a known status", s))
}

// Validate rejects Unknown and out-of-range values.
func (s Status) Validate() error {
	if s <= Unknown || s > DeliveryException {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the upper-snake name, or "UNKNOWN" for invalid values.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "UNKNOWN"
}

// IsTerminal reports whether no further business progress is expected.
func (s Status) IsTerminal() bool {
	switch s {
	case PickedUp, Delivered, DeliveryException, ValidationException, AllocationException, Cancelled:
		return true
	case Unknown, New, ValidationPending, Validated, AllocationPending, Allocated, PendingInventory:
		return false
	}
	return false
}
