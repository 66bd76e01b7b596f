package errs

import (
	"errors"
	"fmt"
)

var (
	ErrDuplicateOrder         = errors.New("duplicate order")
	ErrInvalidTransition      = errors.New("invalid status transition")
	ErrRemoteStoreUnavailable = errors.New("remote store unavailable")
	ErrPrintExecution         = errors.New("print execution failed")
)

// DuplicateOrderError is returned when a waitress resubmits a sub-order of the
// same kind for a table that already has their open sub-order, without a comment.
// Adding a comment is the only way past it.
type DuplicateOrderError struct {
	Table           string
	Kind            string
	Waitress        string
	ExistingOrderID string
}

func NewDuplicateOrderError(table, kind, waitress, existingOrderID string) *DuplicateOrderError {
	return &DuplicateOrderError{
		Table:           table,
		Kind:            kind,
		Waitress:        waitress,
		ExistingOrderID: existingOrderID,
	}
}

func (e *DuplicateOrderError) Error() string {
	return fmt.Sprintf("%s: table %s already has open %s order %s by %s, add a comment to send another round",
		ErrDuplicateOrder, e.Table, e.Kind, e.ExistingOrderID, e.Waitress)
}

func (e *DuplicateOrderError) Unwrap() error {
	return ErrDuplicateOrder
}

// InvalidTransitionError is returned when a status change is not permitted
// from the current status for the sub-order kind.
type InvalidTransitionError struct {
	From string
	To   string
	Kind string
}

func NewInvalidTransitionError(from, to, kind string) *InvalidTransitionError {
	return &InvalidTransitionError{From: from, To: to, Kind: kind}
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("%s: %s -> %s is not allowed for %s", ErrInvalidTransition, e.From, e.To, e.Kind)
}

func (e *InvalidTransitionError) Unwrap() error {
	return ErrInvalidTransition
}

// RemoteStoreUnavailableError wraps a failure of the shared store.
// errors.Is matches both ErrRemoteStoreUnavailable and the cause.
type RemoteStoreUnavailableError struct {
	Operation string
	Cause     error
}

func NewRemoteStoreUnavailableError(operation string, cause error) *RemoteStoreUnavailableError {
	return &RemoteStoreUnavailableError{Operation: operation, Cause: cause}
}

func (e *RemoteStoreUnavailableError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", ErrRemoteStoreUnavailable, e.Operation, e.Cause)
	}
	return fmt.Sprintf("%s: %s", ErrRemoteStoreUnavailable, e.Operation)
}

func (e *RemoteStoreUnavailableError) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrRemoteStoreUnavailable}
	}
	return []error{ErrRemoteStoreUnavailable, e.Cause}
}

// PrintExecutionError is recorded against a single print job.
type PrintExecutionError struct {
	JobID string
	Cause error
}

func NewPrintExecutionError(jobID string, cause error) *PrintExecutionError {
	return &PrintExecutionError{JobID: jobID, Cause: cause}
}

func (e *PrintExecutionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: job %s (cause: %v)", ErrPrintExecution, e.JobID, e.Cause)
	}
	return fmt.Sprintf("%s: job %s", ErrPrintExecution, e.JobID)
}

func (e *PrintExecutionError) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrPrintExecution}
	}
	return []error{ErrPrintExecution, e.Cause}
}
