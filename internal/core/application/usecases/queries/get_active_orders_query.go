package queries

import (
	"errors"
	"strings"
	"time"

	"tablesync/internal/core/domain/model/kernel"
	"tablesync/internal/core/domain/model/order"
	"tablesync/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var (
	ErrGetActiveOrdersQueryIsNotConstructed = errors.New(
		"GetActiveOrdersQuery must be created via NewGetActiveOrdersQuery constructor",
	)
)

// GetActiveOrdersQuery lists sub-orders for the kitchen and waitress views.
// Without statuses it returns the open ones (Pending and Ready).
//
// Example:
//
//	query, err := NewGetActiveOrdersQuery("12", "meals", nil)
//	if err != nil {
//	    return err
//	}
//	orders, err := handler.Handle(ctx, query)
type GetActiveOrdersQuery struct {
	table    string
	kind     kernel.Kind
	statuses []order.Status

	guard guard.ConstructorGuard
}

// NewGetActiveOrdersQuery parses the optional filters. Empty values mean
// "any".
func NewGetActiveOrdersQuery(table, kind string, statuses []string) (GetActiveOrdersQuery, error) {
	q := GetActiveOrdersQuery{table: strings.TrimSpace(table), guard: guard.NewConstructorGuard()}

	var problems []error
	if strings.TrimSpace(kind) != "" {
		k, err := kernel.ParseKind(kind)
		if err != nil {
			problems = append(problems, err)
		}
		q.kind = k
	}
	for _, s := range statuses {
		if strings.TrimSpace(s) == "" {
			continue
		}
		status, err := order.ParseStatus(s)
		if err != nil {
			problems = append(problems, err)
			continue
		}
		q.statuses = append(q.statuses, status)
	}
	if err := errors.Join(problems...); err != nil {
		return GetActiveOrdersQuery{}, err
	}

	if len(q.statuses) == 0 {
		q.statuses = order.OpenStatuses()
	}
	return q, nil
}

func (q GetActiveOrdersQuery) Validate() error {
	return q.guard.Validate(ErrGetActiveOrdersQueryIsNotConstructed)
}

func (q GetActiveOrdersQuery) Table() string     { return q.table }
func (q GetActiveOrdersQuery) Kind() kernel.Kind { return q.kind }
func (q GetActiveOrdersQuery) Statuses() []order.Status {
	return append([]order.Status(nil), q.statuses...)
}

// ActiveOrderLine is one line of an ActiveOrder.
type ActiveOrderLine struct {
	Name               string          `json:"name"`
	Quantity           int             `json:"quantity"`
	UnitPrice          decimal.Decimal `json:"unitPrice"`
	CookingInstruction string          `json:"cookingInstruction,omitempty"`
	Comment            string          `json:"freeTextComment,omitempty"`
	Variant            string          `json:"selectedVariant,omitempty"`
}

// ActiveOrder is the read model returned by GetActiveOrdersQueryHandler.
type ActiveOrder struct {
	ID           string            `json:"id"`
	Table        string            `json:"table"`
	TableComment string            `json:"tableComment,omitempty"`
	Room         string            `json:"room,omitempty"`
	Waitress     string            `json:"waitress"`
	Kind         string            `json:"kind"`
	Status       string            `json:"status"`
	CreatedAt    time.Time         `json:"createdAt"`
	LineItems    []ActiveOrderLine `json:"lineItems"`
	Total        decimal.Decimal   `json:"total"`
}
