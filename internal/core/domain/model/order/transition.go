package order

// ActionKind names the side effect attached to a transition.
type ActionKind int

const (
	NoAction ActionKind = iota
	SendValidationRequest
	SendAllocationRequest
	SendAllocationFailure
	LogCompensation
	SendDeallocationRequest
)

func (k ActionKind) String() string {
	switch k {
	case NoAction:
		return "none"
	case SendValidationRequest:
		return "send_validation_request"
	case SendAllocationRequest:
		return "send_allocation_request"
	case SendAllocationFailure:
		return "send_allocation_failure"
	case LogCompensation:
		return "log_compensation"
	case SendDeallocationRequest:
		return "send_deallocation_request"
	}
	return "unknown"
}

// Transition is one edge of the order lifecycle.
type Transition struct {
	From   Status
	Event  Event
	To     Status
	Action ActionKind
}

var transitions = []Transition{
	{From: New, Event: ValidateOrder, To: ValidationPending, Action: SendValidationRequest},
	{From: ValidationPending, Event: ValidationPassed, To: Validated, Action: NoAction},
	{From: ValidationPending, Event: ValidationFailed, To: ValidationException, Action: LogCompensation},
	{From: ValidationPending, Event: CancelOrder, To: Cancelled, Action: NoAction},
	{From: Validated, Event: AllocateOrder, To: AllocationPending, Action: SendAllocationRequest},
	{From: Validated, Event: CancelOrder, To: Cancelled, Action: NoAction},
	{From: AllocationPending, Event: AllocationSuccess, To: Allocated, Action: NoAction},
	{From: AllocationPending, Event: AllocationNoInventory, To: PendingInventory, Action: NoAction},
	{From: AllocationPending, Event: AllocationFailed, To: AllocationException, Action: SendAllocationFailure},
	{From: AllocationPending, Event: CancelOrder, To: Cancelled, Action: NoAction},
	{From: Allocated, Event: OrderPickedUp, To: PickedUp, Action: NoAction},
	{From: Allocated, Event: CancelOrder, To: Cancelled, Action: SendDeallocationRequest},
}

// Transitions returns a copy of the closed transition table.
func Transitions() []Transition {
	out := make([]Transition, len(transitions))
	copy(out, transitions)
	return out
}

// LookupTransition returns the edge leaving from for event, if the table defines one.
func LookupTransition(from Status, event Event) (Transition, bool) {
	for _, t := range transitions {
		if t.From == from && t.Event == event {
			return t, true
		}
	}
	return Transition{}, false
}
