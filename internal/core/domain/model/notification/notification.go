// Package notification models the messages a waitress device surfaces to its
// user: "order ready" from the kitchen and "kitchen call" requests.
package notification

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"tablesync/internal/core/domain/model/kernel"
	"tablesync/internal/core/domain/model/order"
	"tablesync/internal/pkg/errs"
)

var ErrNotificationIsNotConstructed = errors.New("Notification must be created via a constructor")

// Type is what the notification announces.
type Type int

const (
	UnknownType Type = iota
	// OrderReady is created when the kitchen promotes a meals sub-order to ready.
	OrderReady
	// KitchenCall asks a waitress to come to the pass.
	KitchenCall
)

var typeNames = map[Type]string{
	OrderReady:  "ready",
	KitchenCall: "kitchen_call",
}

func ParseType(s string) (Type, error) {
	for t, name := range typeNames {
		if name == strings.TrimSpace(s) {
			return t, nil
		}
	}
	return UnknownType, errs.NewValueIsInvalidErrorWithCause("notification status", fmt.Errorf("%q is not valid", s))
}

func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return "unknown"
}

func (t Type) Validate() error {
	if _, ok := typeNames[t]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("notification status", fmt.Errorf("%d is not valid", t))
	}
	return nil
}

// Key identifies a notification for dedup purposes across the change feed
// and poll cycles. CreatedAt is in microseconds, the precision the remote
// store keeps.
type Key struct {
	OrderID   string
	CreatedAt int64
}

func (k Key) String() string {
	return fmt.Sprintf("%s@%d", k.OrderID, k.CreatedAt)
}

// Notification is addressed to exactly one waitress.
type Notification struct {
	id             kernel.UUID
	orderID        string
	targetWaitress string
	table          string
	kind           Type
	read           bool
	createdAt      time.Time

	isConstructed bool
}

// NewOrderReady announces that a sub-order is ready for its waitress.
func NewOrderReady(o *order.Order, now time.Time) (*Notification, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}
	return Restore(kernel.NewUUID(), o.ID().String(), o.Waitress(), o.Table().Name, OrderReady, false, now)
}

// NewKitchenCall asks waitress to come for table. orderID may be empty when
// the call concerns the table rather than one sub-order.
func NewKitchenCall(table, waitress, orderID string, now time.Time) (*Notification, error) {
	return Restore(kernel.NewUUID(), orderID, waitress, table, KitchenCall, false, now)
}

// Restore rebuilds a notification from storage. createdAt is truncated to
// microseconds so that a feed payload and a stored row yield the same Key.
func Restore(
	id kernel.UUID,
	orderID, targetWaitress, table string,
	kind Type,
	read bool,
	createdAt time.Time,
) (*Notification, error) {
	var problems []error
	if err := id.Validate(); err != nil {
		problems = append(problems, err)
	}
	if strings.TrimSpace(targetWaitress) == "" {
		problems = append(problems, errs.NewValueIsRequiredError("target waitress"))
	}
	if err := kind.Validate(); err != nil {
		problems = append(problems, err)
	}
	if kind == OrderReady && orderID == "" {
		problems = append(problems, errs.NewValueIsRequiredError("order ID"))
	}
	if err := errors.Join(problems...); err != nil {
		return nil, err
	}

	return &Notification{
		id:             id,
		orderID:        orderID,
		targetWaitress: strings.TrimSpace(targetWaitress),
		table:          table,
		kind:           kind,
		read:           read,
		createdAt:      createdAt.UTC().Truncate(time.Microsecond),
		isConstructed:  true,
	}, nil
}

func (n *Notification) Validate() error {
	if n == nil || !n.isConstructed {
		return ErrNotificationIsNotConstructed
	}
	return nil
}

func (n *Notification) ID() kernel.UUID        { return n.id }
func (n *Notification) OrderID() string        { return n.orderID }
func (n *Notification) TargetWaitress() string { return n.targetWaitress }
func (n *Notification) Table() string          { return n.table }
func (n *Notification) Type() Type             { return n.kind }
func (n *Notification) IsRead() bool           { return n.read }
func (n *Notification) CreatedAt() time.Time   { return n.createdAt }

// Key returns the dedup key (orderId, createdAt).
func (n *Notification) Key() Key {
	return Key{OrderID: n.orderID, CreatedAt: n.createdAt.UnixMicro()}
}

// IsFor reports whether the notification targets waitress.
func (n *Notification) IsFor(waitress string) bool {
	return waitress != "" && n.targetWaitress == waitress
}

// MarkRead acknowledges the notification. It reports whether anything changed.
func (n *Notification) MarkRead() bool {
	if n.read {
		return false
	}
	n.read = true
	return true
}
