package kernel

import (
	"fmt"
	"strings"

	"tablesync/internal/pkg/errs"
)

// Kind is the item class of a sub-order. A table submission splits into at
// most one sub-order per kind.
type Kind int

const (
	// UnknownKind is the zero value and never valid.
	UnknownKind Kind = iota

	// Drinks are poured at the bar and completed by the waitress.
	Drinks

	// Meals are cooked in the kitchen and promoted to ready by it.
	Meals
)

var kindNames = map[Kind]string{
	Drinks: "drinks",
	Meals:  "meals",
}

// Kinds lists the valid kinds in submission order.
func Kinds() []Kind {
	return []Kind{Drinks, Meals}
}

// ParseKind converts the persisted name back into a Kind.
func ParseKind(s string) (Kind, error) {
	for k, name := range kindNames {
		if strings.EqualFold(name, strings.TrimSpace(s)) {
			return k, nil
		}
	}
	return UnknownKind, errs.NewValueIsInvalidErrorWithCause("kind", fmt.Errorf("%q is not a valid kind", s))
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

func (k Kind) Validate() error {
	if _, ok := kindNames[k]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("kind", fmt.Errorf("%d is not a valid kind", k))
	}
	return nil
}
