// Package guard detects domain values that bypassed their constructor.
//
// Embed a ConstructorGuard in any struct whose zero value is not a valid
// instance, set it in the constructor, and check it in Validate:
//
//	type Cart struct {
//	    table string
//	    guard guard.ConstructorGuard
//	}
//
//	func (c Cart) Validate() error {
//	    return c.guard.Validate(ErrCartIsNotConstructed)
//	}
package guard

import "errors"

// ErrDefaultConstructorGuard is returned by Validate when no specific error is supplied.
var ErrDefaultConstructorGuard = errors.New("object must be created via its constructor")

// ConstructorGuard records whether its owner was built by a constructor.
type ConstructorGuard struct {
	isConstructed bool
}

// NewConstructorGuard returns a guard marked as constructed.
func NewConstructorGuard() ConstructorGuard {
	return ConstructorGuard{isConstructed: true}
}

// Validate returns validationError (or ErrDefaultConstructorGuard when it is nil)
// if the guard is a zero value.
func (g ConstructorGuard) Validate(validationError error) error {
	if g.isConstructed {
		return nil
	}
	if validationError == nil {
		return ErrDefaultConstructorGuard
	}
	return validationError
}
