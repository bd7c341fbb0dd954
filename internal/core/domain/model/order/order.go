package order

import (
	"errors"
	"fmt"

	"orderservice/internal/core/domain/model/kernel"
	"orderservice/internal/pkg/errs"
)

var (
	// ErrOrderIsNotConstructed is returned for an Order that did not come from NewOrder or RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")
)

// Order is the aggregate root tracked through the validation and allocation saga.
//
// Invariants:
//   - the identifier never changes once assigned
//   - status is always a valid Status; it changes only through SetStatus, which the
//     order manager calls with the state machine's output
//   - allocated quantities change only through ApplyAllocation
//
// The persisted record is the source of truth. An *Order is a per-call copy and
// must not be cached across event dispatches.
type Order struct {
	id          kernel.UUID
	customerRef string
	status      Status
	lines       []*Line
	version     int

	isConstructed bool
}

// NewOrder creates an order in NEW status.
//
// Example:
//
//	line, _ := order.NewLine(kernel.NewUUID(), "0631234200036", 12)
//	o, err := order.NewOrder(kernel.NewUUID(), "customer-42", []*order.Line{line})
func NewOrder(id kernel.UUID, customerRef string, lines []*Line) (*Order, error) {
	return RestoreOrder(id, customerRef, New, lines, 0)
}

// RestoreOrder rebuilds an order from persisted state.
func RestoreOrder(id kernel.UUID, customerRef string, status Status, lines []*Line, version int) (*Order, error) {
	o := &Order{
		customerRef:   customerRef,
		version:       version,
		isConstructed: true,
	}

	if err := errors.Join(
		o.setID(id),
		o.SetStatus(status),
		o.setLines(lines),
	); err != nil {
		return nil, err
	}

	return o, nil
}

// Validate ensures the order was built by a constructor.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

// IsEqual compares orders by identifier.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

func (o *Order) ID() kernel.UUID {
	return o.id
}

func (o *Order) CustomerRef() string {
	return o.customerRef
}

func (o *Order) Status() Status {
	return o.status
}

// Version is the optimistic-locking token owned by the store.
func (o *Order) Version() int {
	return o.version
}

// SetVersion is called by the store after a successful write.
func (o *Order) SetVersion(version int) {
	o.version = version
}

// Lines returns a copy of the line slice; the lines themselves are shared.
func (o *Order) Lines() []*Line {
	out := make([]*Line, len(o.lines))
	copy(out, o.lines)
	return out
}

// SetStatus records a status computed by the state machine.
func (o *Order) SetStatus(status Status) error {
	if err := status.Validate(); err != nil {
		return err
	}
	o.status = status
	return nil
}

// ApplyAllocation copies allocated quantities onto the lines with matching ids.
// Allocations for unknown lines are ignored, and lines without an allocation keep
// their current value. A negative quantity, or one above the ordered quantity,
// rejects the whole reply before any line is touched. It reports whether any quantity changed, so replaying the
// same reply is a no-op.
func (o *Order) ApplyAllocation(allocations []LineAllocation) (bool, error) {
	for _, a := range allocations {
		if a.QuantityAllocated < 0 {
			return false, errs.NewValueIsInvalidErrorWithCause(
				"quantity allocated",
				fmt.Errorf("line %s reports %d", a.LineID, a.QuantityAllocated),
			)
		}
		for _, line := range o.lines {
			if line.id.IsEqual(a.LineID) && a.QuantityAllocated > line.quantityOrdered {
				return false, errs.NewValueIsInvalidErrorWithCause(
					"quantity allocated",
					fmt.Errorf("line %s reports %d of %d ordered", a.LineID, a.QuantityAllocated, line.quantityOrdered),
				)
			}
		}
	}

	changed := false
	for _, line := range o.lines {
		for _, a := range allocations {
			if !line.id.IsEqual(a.LineID) {
				continue
			}
			if line.quantityAllocated != a.QuantityAllocated {
				line.quantityAllocated = a.QuantityAllocated
				changed = true
			}
		}
	}
	return changed, nil
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setLines(lines []*Line) error {
	if len(lines) == 0 {
		return errs.NewValueIsRequiredError("order lines")
	}
	seen := make(map[kernel.UUID]struct{}, len(lines))
	for _, l := range lines {
		if l == nil {
			return errs.NewValueIsRequiredError("order line")
		}
		if _, dup := seen[l.id]; dup {
			return errs.NewValueIsInvalidErrorWithCause("order lines", fmt.Errorf("duplicate line %s", l.id))
		}
		seen[l.id] = struct{}{}
	}
	o.lines = append([]*Line(nil), lines...)
	return nil
}
