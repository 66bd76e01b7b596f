package order

import (
	"errors"
	"strings"

	"tablesync/internal/core/domain/model/kernel"
	"tablesync/internal/pkg/errs"
	"tablesync/internal/pkg/guard"
)

var (
	ErrCartIsNotConstructed = errors.New("Cart must be created via NewCart constructor")
	ErrCartIsEmpty          = errs.NewValueIsRequiredError("cart must contain at least one line")
	ErrCartLineKindMismatch = errs.NewValueIsInvalidError("cart line is filed under the wrong kind")
)

// Table locates a submission on the floor.
type Table struct {
	Name    string
	Comment string // disambiguates two parties at the same table, also marks a legitimate second round
	Room    string
}

// Cart is one waitress submission before it is split into sub-orders.
type Cart struct { //nolint:recvcheck //using for validation
	table    Table
	waitress string
	drinks   []LineItem
	meals    []LineItem

	guard guard.ConstructorGuard
}

// NewCart validates a submission. Table and waitress are required, at least
// one line must be present, and lines must be filed under their own kind.
func NewCart(table Table, waitress string, drinks, meals []LineItem) (Cart, error) {
	table = Table{
		Name:    strings.TrimSpace(table.Name),
		Comment: strings.TrimSpace(table.Comment),
		Room:    strings.TrimSpace(table.Room),
	}
	waitress = strings.TrimSpace(waitress)

	var problems []error
	if table.Name == "" {
		problems = append(problems, errs.NewValueIsRequiredError("table"))
	}
	if waitress == "" {
		problems = append(problems, errs.NewValueIsRequiredError("waitress"))
	}
	if len(drinks)+len(meals) == 0 {
		problems = append(problems, ErrCartIsEmpty)
	}
	problems = append(problems, checkLines(drinks, kernel.Drinks), checkLines(meals, kernel.Meals))
	if err := errors.Join(problems...); err != nil {
		return Cart{}, err
	}

	return Cart{
		table:    table,
		waitress: waitress,
		drinks:   append([]LineItem(nil), drinks...),
		meals:    append([]LineItem(nil), meals...),
		guard:    guard.NewConstructorGuard(),
	}, nil
}

func checkLines(lines []LineItem, kind kernel.Kind) error {
	for _, l := range lines {
		if err := l.Validate(); err != nil {
			return err
		}
		if l.Kind() != kind {
			return ErrCartLineKindMismatch
		}
	}
	return nil
}

func (c Cart) Validate() error {
	return c.guard.Validate(ErrCartIsNotConstructed)
}

func (c Cart) Table() Table     { return c.table }
func (c Cart) Waitress() string { return c.waitress }

// HasComment reports whether the submission carries a table comment.
func (c Cart) HasComment() bool {
	return c.table.Comment != ""
}

// Lines returns the lines filed under kind.
func (c Cart) Lines(kind kernel.Kind) []LineItem {
	switch kind {
	case kernel.Drinks:
		return append([]LineItem(nil), c.drinks...)
	case kernel.Meals:
		return append([]LineItem(nil), c.meals...)
	default:
		return nil
	}
}

// Kinds returns the kinds that have at least one line, drinks first.
func (c Cart) Kinds() []kernel.Kind {
	kinds := make([]kernel.Kind, 0, 2)
	for _, k := range kernel.Kinds() {
		if len(c.Lines(k)) > 0 {
			kinds = append(kinds, k)
		}
	}
	return kinds
}
