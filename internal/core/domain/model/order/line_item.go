package order

import (
	"errors"
	"fmt"
	"strings"

	"tablesync/internal/core/domain/model/kernel"
	"tablesync/internal/pkg/errs"
	"tablesync/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var ErrLineItemIsNotConstructed = errors.New("LineItem must be created via NewLineItem constructor")

// LineItemOptions carries the optional parts of a cart line.
type LineItemOptions struct {
	CookingInstruction string
	Comment            string
	Variant            string
}

// LineItem is one line of a sub-order. It is immutable once built.
type LineItem struct { //nolint:recvcheck //using for validation
	id        string
	kind      kernel.Kind
	name      string
	unitPrice decimal.Decimal
	quantity  int
	options   LineItemOptions

	guard guard.ConstructorGuard
}

// NewLineItem validates and builds a line of the given kind. An empty id is
// replaced by a fresh UUID so every line stays addressable.
func NewLineItem(
	id string,
	kind kernel.Kind,
	name string,
	unitPrice decimal.Decimal,
	quantity int,
	options LineItemOptions,
) (LineItem, error) {
	if id == "" {
		id = kernel.NewUUID().String()
	}

	var problems []error
	if err := kind.Validate(); err != nil {
		problems = append(problems, err)
	}
	if strings.TrimSpace(name) == "" {
		problems = append(problems, errs.NewValueIsRequiredError("line item name"))
	}
	if quantity <= 0 {
		problems = append(problems, errs.NewValueIsInvalidErrorWithCause(
			"quantity", fmt.Errorf("%d is not greater than 0", quantity)))
	}
	if unitPrice.IsNegative() {
		problems = append(problems, errs.NewValueIsInvalidErrorWithCause(
			"unit price", fmt.Errorf("%s is negative", unitPrice)))
	}
	if err := errors.Join(problems...); err != nil {
		return LineItem{}, err
	}

	return LineItem{
		id:        id,
		kind:      kind,
		name:      strings.TrimSpace(name),
		unitPrice: unitPrice,
		quantity:  quantity,
		options: LineItemOptions{
			CookingInstruction: strings.TrimSpace(options.CookingInstruction),
			Comment:            strings.TrimSpace(options.Comment),
			Variant:            strings.TrimSpace(options.Variant),
		},
		guard: guard.NewConstructorGuard(),
	}, nil
}

func (l LineItem) Validate() error {
	return l.guard.Validate(ErrLineItemIsNotConstructed)
}

func (l LineItem) ID() string                 { return l.id }
func (l LineItem) Kind() kernel.Kind          { return l.kind }
func (l LineItem) Name() string               { return l.name }
func (l LineItem) UnitPrice() decimal.Decimal { return l.unitPrice }
func (l LineItem) Quantity() int              { return l.quantity }
func (l LineItem) CookingInstruction() string { return l.options.CookingInstruction }
func (l LineItem) Comment() string            { return l.options.Comment }
func (l LineItem) Variant() string            { return l.options.Variant }

// Subtotal is unit price times quantity.
func (l LineItem) Subtotal() decimal.Decimal {
	return l.unitPrice.Mul(decimal.NewFromInt(int64(l.quantity)))
}
