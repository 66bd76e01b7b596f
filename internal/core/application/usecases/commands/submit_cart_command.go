package commands

import (
	"errors"

	"tablesync/internal/core/domain/model/order"
	"tablesync/internal/pkg/guard"
)

var ErrSubmitCartCommandIsNotConstructed = errors.New(
	"SubmitCartCommand must be created via NewSubmitCartCommand constructor",
)

// SubmitCartCommand asks to split a cart into sub-orders and persist them.
//
// Example:
//
//	coke, _ := order.NewLineItem("", kernel.Drinks, "Coke", price, 2, order.LineItemOptions{})
//	cart, _ := order.NewCart(order.Table{Name: "12"}, "Audrey", []order.LineItem{coke}, nil)
//	cmd, err := NewSubmitCartCommand(cart)
//	if err != nil {
//	    return err
//	}
//	result, err := handler.Handle(ctx, cmd)
type SubmitCartCommand struct { //nolint:recvcheck //using for validation
	cart order.Cart

	guard guard.ConstructorGuard
}

func NewSubmitCartCommand(cart order.Cart) (SubmitCartCommand, error) {
	if err := cart.Validate(); err != nil {
		return SubmitCartCommand{}, err
	}
	return SubmitCartCommand{cart: cart, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the command was created through the constructor.
func (c SubmitCartCommand) Validate() error {
	return c.guard.Validate(ErrSubmitCartCommandIsNotConstructed)
}

func (c SubmitCartCommand) Cart() order.Cart {
	return c.cart
}
