package order

import (
	"errors"
	"fmt"
	"time"

	"tablesync/internal/core/domain/model/kernel"
	"tablesync/internal/pkg/errs"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order was not created through
	// NewOrder or RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")

	// ErrMixedLineItems is returned when a sub-order would hold lines of another kind.
	ErrMixedLineItems = errs.NewValueIsInvalidError("line items must all match the sub-order kind")
)

// Order is a sub-order: the drinks-only or meals-only half of a table
// submission. It is the aggregate root for status changes.
//
// Order follows these invariants:
//   - Its ID encodes its kind, table and creation time
//   - All line items share the order kind
//   - Status transitions follow the rules of Status
type Order struct {
	id        kernel.OrderID
	table     Table
	waitress  string
	lineItems []LineItem
	status    Status
	createdAt time.Time
	updatedAt time.Time

	isConstructed bool
}

// NewOrder creates a Pending sub-order. The kind is taken from the ID.
//
// Example:
//
//	now := time.Now()
//	id := kernel.NewOrderID("12", kernel.Meals, now)
//	steak, _ := order.NewLineItem("", kernel.Meals, "Steak", price, 1,
//	    order.LineItemOptions{CookingInstruction: "medium"})
//	o, err := order.NewOrder(id, order.Table{Name: "12"}, "Audrey", []order.LineItem{steak}, now)
func NewOrder(id kernel.OrderID, table Table, waitress string, lineItems []LineItem, now time.Time) (*Order, error) {
	return RestoreOrder(id, table, waitress, lineItems, Pending, now, now)
}

// RestoreOrder rebuilds a sub-order from storage, running the same validation as NewOrder.
func RestoreOrder(
	id kernel.OrderID,
	table Table,
	waitress string,
	lineItems []LineItem,
	status Status,
	createdAt, updatedAt time.Time,
) (*Order, error) {
	o := &Order{
		table:         table,
		waitress:      waitress,
		createdAt:     createdAt,
		updatedAt:     updatedAt,
		isConstructed: true,
	}

	if err := errors.Join(
		o.setID(id),
		o.setWaitress(waitress),
		o.setLineItems(id.Kind(), lineItems),
		o.setStatus(status),
	); err != nil {
		return nil, err
	}

	return o, nil
}

// Validate ensures the Order instance was properly constructed.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

func (o *Order) ID() kernel.OrderID   { return o.id }
func (o *Order) Kind() kernel.Kind    { return o.id.Kind() }
func (o *Order) Table() Table         { return o.table }
func (o *Order) Waitress() string     { return o.waitress }
func (o *Order) Status() Status       { return o.status }
func (o *Order) CreatedAt() time.Time { return o.createdAt }
func (o *Order) UpdatedAt() time.Time { return o.updatedAt }

// LineItems returns a copy of the order lines.
func (o *Order) LineItems() []LineItem {
	return append([]LineItem(nil), o.lineItems...)
}

// KindStatus returns the per-kind status pair. Only the slot of the order's
// own kind is set; the other one is Unknown.
func (o *Order) KindStatus() (drinks, meals Status) {
	if o.Kind() == kernel.Drinks {
		return o.status, Unknown
	}
	return Unknown, o.status
}

// IsEqual compares orders by ID.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

// Promote moves the order to target following the Status state machine.
// On failure the order is left untouched and an *errs.InvalidTransitionError
// is returned. changed is false for the idempotent Ready -> Ready re-promotion.
func (o *Order) Promote(target Status, now time.Time) (changed bool, err error) {
	next, err := o.status.TransitionTo(target, o.Kind())
	if err != nil {
		return false, err
	}

	if next == o.status {
		return false, nil
	}

	o.status = next
	o.updatedAt = now
	return true, nil
}

func (o *Order) setID(id kernel.OrderID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setWaitress(waitress string) error {
	if waitress == "" {
		return errs.NewValueIsRequiredError("waitress")
	}
	o.waitress = waitress
	return nil
}

func (o *Order) setLineItems(kind kernel.Kind, lineItems []LineItem) error {
	if len(lineItems) == 0 {
		return errs.NewValueIsRequiredError("line items")
	}
	for i, l := range lineItems {
		if err := l.Validate(); err != nil {
			return err
		}
		if l.Kind() != kind {
			return fmt.Errorf("line %d (%s is %s): %w", i, l.Name(), l.Kind(), ErrMixedLineItems)
		}
	}
	o.lineItems = append([]LineItem(nil), lineItems...)
	return nil
}

func (o *Order) setStatus(status Status) error {
	if err := status.Validate(); err != nil {
		return err
	}
	o.status = status
	return nil
}
