package queries

import (
	"errors"
	"strings"
	"time"

	"tablesync/internal/pkg/errs"
	"tablesync/internal/pkg/guard"
)

var (
	ErrGetUnreadNotificationsQueryIsNotConstructed = errors.New(
		"GetUnreadNotificationsQuery must be created via NewGetUnreadNotificationsQuery constructor",
	)
)

// GetUnreadNotificationsQuery lists the unread notifications of one waitress.
type GetUnreadNotificationsQuery struct {
	waitress string

	guard guard.ConstructorGuard
}

func NewGetUnreadNotificationsQuery(waitress string) (GetUnreadNotificationsQuery, error) {
	waitress = strings.TrimSpace(waitress)
	if waitress == "" {
		return GetUnreadNotificationsQuery{}, errs.NewValueIsRequiredError("waitress")
	}
	return GetUnreadNotificationsQuery{waitress: waitress, guard: guard.NewConstructorGuard()}, nil
}

func (q GetUnreadNotificationsQuery) Validate() error {
	return q.guard.Validate(ErrGetUnreadNotificationsQueryIsNotConstructed)
}

type UnreadNotification struct {
	ID        string    `json:"id"`
	OrderID   string    `json:"orderId,omitempty"`
	Table     string    `json:"table"`
	Type      string    `json:"type"`
	CreatedAt time.Time `json:"createdAt"`
}
