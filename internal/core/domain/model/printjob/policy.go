package printjob

import (
	"fmt"
	"strings"

	"tablesync/internal/core/domain/model/kernel"
	"tablesync/internal/pkg/errs"
)

// Policy selects which newly observed sub-orders a device queues for printing.
type Policy string

const (
	PrintAll        Policy = "all"
	PrintMealsOnly  Policy = "meals"
	PrintDrinksOnly Policy = "drinks"
)

// DefaultPolicy applies until a device stores its own.
const DefaultPolicy = PrintAll

func ParsePolicy(s string) (Policy, error) {
	p := Policy(strings.ToLower(strings.TrimSpace(s)))
	if err := p.Validate(); err != nil {
		return "", err
	}
	return p, nil
}

func (p Policy) Validate() error {
	switch p {
	case PrintAll, PrintMealsOnly, PrintDrinksOnly:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("auto-print policy", fmt.Errorf("%q is not one of all, meals, drinks", string(p)))
	}
}

// Matches reports whether a sub-order of kind should be queued under p.
func (p Policy) Matches(kind kernel.Kind) bool {
	switch p {
	case PrintAll:
		return kind.Validate() == nil
	case PrintMealsOnly:
		return kind == kernel.Meals
	case PrintDrinksOnly:
		return kind == kernel.Drinks
	default:
		return false
	}
}
