// Package errs provides standardized error types for the tablesync core.
// It implements a consistent pattern for error creation, formatting, and unwrapping
// that is used throughout the application.
//
// The package includes generic validation errors:
//   - ValueIsRequiredError: For when a required value is missing
//   - ValueIsInvalidError: For when a value is invalid
//   - ValueIsOutOfRangeError: For when a value falls outside its bounds
//   - ObjectNotFoundError: For when an object cannot be found
//
// and the error kinds of the order coordination domain:
//   - DuplicateOrderError: an un-commented resubmission for a table already served
//   - InvalidTransitionError: a status change the state machine does not allow
//   - RemoteStoreUnavailableError: the shared order store could not be reached
//   - PrintExecutionError: a ticket could not be handed to the printer
//
// Each error type follows a consistent pattern:
//   - A sentinel error variable (e.g., ErrValueIsRequired)
//   - A struct type with fields for error details
//   - Constructor functions with and without cause
//   - Error() method for formatting the error message
//   - Unwrap() method so errors.Is matches the sentinel
package errs
