package order

import (
	"fmt"
	"strings"

	"tablesync/internal/core/domain/model/kernel"
	"tablesync/internal/pkg/errs"
)

// Status represents the lifecycle state of a sub-order.
//
// State transitions:
//
//	meals:   Pending ──> Ready ──> Delivered
//	            │          │ └─┐
//	            │          │   └ Ready (re-promotion, no-op)
//	            └──────────┴──> Cancelled
//
//	drinks:  Pending ──> Delivered
//	            └──────> Cancelled
type Status int

const (
	// Unknown helps catch uninitialized Status values.
	Unknown Status = iota

	// Pending is the initial status of a submitted sub-order.
	Pending

	// Ready means the kitchen finished a meals sub-order.
	Ready

	// Delivered is final: the waitress served the sub-order.
	Delivered

	// Cancelled is final and reachable from Pending or Ready.
	Cancelled
)

var statusNames = map[Status]string{
	Pending:   "pending",
	Ready:     "ready",
	Delivered: "delivered",
	Cancelled: "cancelled",
}

// ParseStatus converts a persisted or requested status name into a Status.
func ParseStatus(s string) (Status, error) {
	for status, name := range statusNames {
		if strings.EqualFold(name, strings.TrimSpace(s)) {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a valid status", s))
}

// OpenStatuses are the statuses the duplicate guard looks at.
func OpenStatuses() []Status {
	return []Status{Pending, Ready}
}

func (s Status) Validate() error {
	if _, ok := statusNames[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return "unknown"
}

// IsTerminal reports whether no further transitions are possible.
func (s Status) IsTerminal() bool {
	return s == Delivered || s == Cancelled
}

// IsOpen reports whether the sub-order is still being worked on.
func (s Status) IsOpen() bool {
	return s == Pending || s == Ready
}

// MarkReady transitions a meals sub-order to Ready. Re-promoting a Ready
// meals order is allowed and returns Ready.
func (s Status) MarkReady(kind kernel.Kind) (Status, error) {
	if kind != kernel.Meals || (s != Pending && s != Ready) {
		return s.reject(Ready, kind)
	}
	return Ready, nil
}

// Deliver transitions to Delivered: meals from Ready, drinks from Pending.
func (s Status) Deliver(kind kernel.Kind) (Status, error) {
	switch {
	case kind == kernel.Meals && s == Ready:
		return Delivered, nil
	case kind == kernel.Drinks && s == Pending:
		return Delivered, nil
	default:
		return s.reject(Delivered, kind)
	}
}

// Cancel transitions an open sub-order to Cancelled.
func (s Status) Cancel(kind kernel.Kind) (Status, error) {
	if !s.IsOpen() {
		return s.reject(Cancelled, kind)
	}
	return Cancelled, nil
}

// TransitionTo applies the transition named by target.
func (s Status) TransitionTo(target Status, kind kernel.Kind) (Status, error) {
	switch target {
	case Ready:
		return s.MarkReady(kind)
	case Delivered:
		return s.Deliver(kind)
	case Cancelled:
		return s.Cancel(kind)
	default:
		return s.reject(target, kind)
	}
}

func (s Status) reject(target Status, kind kernel.Kind) (Status, error) {
	return s, errs.NewInvalidTransitionError(s.String(), target.String(), kind.String())
}
