package services

import (
	"time"

	"tablesync/internal/core/domain/model/kernel"
	"tablesync/internal/core/domain/model/order"
	"tablesync/internal/pkg/errs"
)

// OrderSplitter splits a cart into independently tracked sub-orders.
//
// Business rules:
//   - One sub-order per kind that has lines, drinks first
//   - Both sub-orders share table, waitress and creation time
//   - A waitress cannot open a second sub-order of the same kind at a table
//     where their previous one is still open, unless the cart carries a comment
//
// Example usage:
//
//	splitter := services.NewOrderSplitter()
//	if err := splitter.CheckDuplicate(cart, kernel.Meals, openMeals); err != nil {
//	    return err // *errs.DuplicateOrderError
//	}
//	orders, err := splitter.Split(cart, time.Now())
type OrderSplitter struct{}

func NewOrderSplitter() OrderSplitter {
	return OrderSplitter{}
}

// Split builds the pending sub-orders for cart.
//
// Returns:
//   - []*order.Order: one or two orders, drinks before meals
//   - error: the cart or a built order failed validation
func (OrderSplitter) Split(cart order.Cart, now time.Time) ([]*order.Order, error) {
	if err := cart.Validate(); err != nil {
		return nil, err
	}

	now = now.UTC()
	kinds := cart.Kinds()
	orders := make([]*order.Order, 0, len(kinds))
	for _, kind := range kinds {
		id := kernel.NewOrderID(cart.Table().Name, kind, now)
		o, err := order.NewOrder(id, cart.Table(), cart.Waitress(), cart.Lines(kind), now)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, nil
}

// CheckDuplicate inspects the open sub-orders of kind at the cart's table and
// rejects the submission when one of them belongs to the same waitress.
// Orders of other waitresses, closed orders and commented carts never match.
func (OrderSplitter) CheckDuplicate(cart order.Cart, kind kernel.Kind, open []*order.Order) error {
	if err := cart.Validate(); err != nil {
		return err
	}
	if cart.HasComment() {
		return nil
	}
	for _, o := range open {
		if o.Kind() != kind || !o.Status().IsOpen() {
			continue
		}
		if o.Table().Name != cart.Table().Name || o.Waitress() != cart.Waitress() {
			continue
		}
		return errs.NewDuplicateOrderError(cart.Table().Name, kind.String(), cart.Waitress(), o.ID().String())
	}
	return nil
}
