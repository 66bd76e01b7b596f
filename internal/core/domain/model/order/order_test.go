package order_test

import (
	"testing"
	"time"

	"tablesync/internal/core/domain/model/kernel"
	"tablesync/internal/core/domain/model/order"
	"tablesync/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 10, 14, 19, 0, 0, 0, time.UTC)

func line(t *testing.T, kind kernel.Kind, name string, qty int) order.LineItem {
	t.Helper()
	l, err := order.NewLineItem("", kind, name, decimal.RequireFromString("4.50"), qty, order.LineItemOptions{})
	require.NoError(t, err)
	return l
}

func newMeals(t *testing.T) *order.Order {
	t.Helper()
	id := kernel.NewOrderID("12", kernel.Meals, testNow)
	o, err := order.NewOrder(id, order.Table{Name: "12"}, "Audrey", []order.LineItem{line(t, kernel.Meals, "Steak", 1)}, testNow)
	require.NoError(t, err)
	return o
}

func TestNewOrder(t *testing.T) {
	t.Run("should start pending with kind from ID", func(t *testing.T) {
		o := newMeals(t)

		require.NoError(t, o.Validate())
		assert.Equal(t, order.Pending, o.Status())
		assert.Equal(t, kernel.Meals, o.Kind())
		assert.Equal(t, "Audrey", o.Waitress())
		assert.Len(t, o.LineItems(), 1)
		assert.Equal(t, testNow, o.CreatedAt())
	})

	t.Run("should reject mixed line items", func(t *testing.T) {
		id := kernel.NewOrderID("12", kernel.Meals, testNow)
		items := []order.LineItem{line(t, kernel.Meals, "Steak", 1), line(t, kernel.Drinks, "Coke", 2)}

		_, err := order.NewOrder(id, order.Table{Name: "12"}, "Audrey", items, testNow)

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
		assert.Contains(t, err.Error(), "Coke is drinks")
	})

	t.Run("should require lines waitress and ID", func(t *testing.T) {
		_, err := order.NewOrder(kernel.OrderID{}, order.Table{Name: "12"}, "", nil, testNow)

		require.ErrorIs(t, err, kernel.ErrOrderIDIsNotConstructed)
		require.ErrorIs(t, err, errs.ErrValueIsRequired)
		assert.Contains(t, err.Error(), "waitress")
		assert.Contains(t, err.Error(), "line items")
	})

	t.Run("zero value is not constructed", func(t *testing.T) {
		var o *order.Order
		assert.Equal(t, order.ErrOrderIsNotConstructed, o.Validate())
		assert.Equal(t, order.ErrOrderIsNotConstructed, (&order.Order{}).Validate())
	})
}

func TestRestoreOrder(t *testing.T) {
	id := kernel.NewOrderID("12", kernel.Drinks, testNow)

	o, err := order.RestoreOrder(id, order.Table{Name: "12", Comment: "window"}, "Audrey",
		[]order.LineItem{line(t, kernel.Drinks, "Coke", 2)}, order.Delivered, testNow, testNow.Add(time.Minute))

	require.NoError(t, err)
	assert.Equal(t, order.Delivered, o.Status())
	assert.Equal(t, "window", o.Table().Comment)
	assert.Equal(t, testNow.Add(time.Minute), o.UpdatedAt())

	_, err = order.RestoreOrder(id, order.Table{Name: "12"}, "Audrey",
		[]order.LineItem{line(t, kernel.Drinks, "Coke", 2)}, order.Unknown, testNow, testNow)
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
}

func TestOrder_Promote(t *testing.T) {
	t.Run("should follow meals lifecycle", func(t *testing.T) {
		o := newMeals(t)
		later := testNow.Add(5 * time.Minute)

		changed, err := o.Promote(order.Ready, later)
		require.NoError(t, err)
		assert.True(t, changed)
		assert.Equal(t, order.Ready, o.Status())
		assert.Equal(t, later, o.UpdatedAt())

		changed, err = o.Promote(order.Ready, later.Add(time.Minute))
		require.NoError(t, err)
		assert.False(t, changed, "re-promotion to ready is a no-op")
		assert.Equal(t, later, o.UpdatedAt())

		_, err = o.Promote(order.Delivered, later)
		require.NoError(t, err)
		assert.Equal(t, order.Delivered, o.Status())
	})

	t.Run("should leave state untouched on invalid transition", func(t *testing.T) {
		o := newMeals(t)
		_, err := o.Promote(order.Cancelled, testNow)
		require.NoError(t, err)

		_, err = o.Promote(order.Ready, testNow.Add(time.Hour))

		require.ErrorIs(t, err, errs.ErrInvalidTransition)
		assert.Equal(t, order.Cancelled, o.Status())
		assert.Equal(t, testNow, o.UpdatedAt())
	})
}

func TestOrder_KindStatus(t *testing.T) {
	meals := newMeals(t)
	drinksStatus, mealsStatus := meals.KindStatus()
	assert.Equal(t, order.Unknown, drinksStatus)
	assert.Equal(t, order.Pending, mealsStatus)

	id := kernel.NewOrderID("12", kernel.Drinks, testNow)
	drinks, err := order.NewOrder(id, order.Table{Name: "12"}, "Audrey", []order.LineItem{line(t, kernel.Drinks, "Coke", 2)}, testNow)
	require.NoError(t, err)
	_, err = drinks.Promote(order.Delivered, testNow)
	require.NoError(t, err)

	drinksStatus, mealsStatus = drinks.KindStatus()
	assert.Equal(t, order.Delivered, drinksStatus)
	assert.Equal(t, order.Unknown, mealsStatus)
}
