package commands

import (
	"errors"

	"tablesync/internal/core/domain/model/kernel"
	"tablesync/internal/core/domain/model/order"
	"tablesync/internal/pkg/guard"
)

var ErrPromoteStatusCommandIsNotConstructed = errors.New(
	"PromoteStatusCommand must be created via NewPromoteStatusCommand constructor",
)

// PromoteStatusCommand moves one sub-order to a new status.
type PromoteStatusCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.OrderID
	status  order.Status

	guard guard.ConstructorGuard
}

// NewPromoteStatusCommand parses the raw order ID and target status.
func NewPromoteStatusCommand(orderID, status string) (PromoteStatusCommand, error) {
	cmd := PromoteStatusCommand{guard: guard.NewConstructorGuard()}
	if err := errors.Join(cmd.setOrderID(orderID), cmd.setStatus(status)); err != nil {
		return PromoteStatusCommand{}, err
	}
	return cmd, nil
}

func (c PromoteStatusCommand) Validate() error {
	return c.guard.Validate(ErrPromoteStatusCommandIsNotConstructed)
}

func (c PromoteStatusCommand) OrderID() kernel.OrderID { return c.orderID }
func (c PromoteStatusCommand) Status() order.Status    { return c.status }

func (c *PromoteStatusCommand) setOrderID(raw string) error {
	id, err := kernel.OrderIDFromString(raw)
	if err != nil {
		return err
	}
	c.orderID = id
	return nil
}

func (c *PromoteStatusCommand) setStatus(raw string) error {
	s, err := order.ParseStatus(raw)
	if err != nil {
		return err
	}
	c.status = s
	return nil
}
