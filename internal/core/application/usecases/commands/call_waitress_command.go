package commands

import (
	"errors"
	"strings"

	"tablesync/internal/pkg/errs"
	"tablesync/internal/pkg/guard"
)

var ErrCallWaitressCommandIsNotConstructed = errors.New(
	"CallWaitressCommand must be created via NewCallWaitressCommand constructor",
)

// CallWaitressCommand asks a waitress to come to the kitchen pass. An empty
// waitress calls everyone who owns an order.
type CallWaitressCommand struct { //nolint:recvcheck //using for validation
	table    string
	waitress string
	orderID  string

	guard guard.ConstructorGuard
}

func NewCallWaitressCommand(table, waitress, orderID string) (CallWaitressCommand, error) {
	table = strings.TrimSpace(table)
	if table == "" {
		return CallWaitressCommand{}, errs.NewValueIsRequiredError("table")
	}
	return CallWaitressCommand{
		table:    table,
		waitress: strings.TrimSpace(waitress),
		orderID:  strings.TrimSpace(orderID),
		guard:    guard.NewConstructorGuard(),
	}, nil
}

func (c CallWaitressCommand) Validate() error {
	return c.guard.Validate(ErrCallWaitressCommandIsNotConstructed)
}

func (c CallWaitressCommand) Table() string    { return c.table }
func (c CallWaitressCommand) Waitress() string { return c.waitress }
func (c CallWaitressCommand) OrderID() string  { return c.orderID }
