package queries

import (
	"context"
	"encoding/json"

	"tablesync/internal/core/domain/model/kernel"
	"tablesync/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GetActiveOrdersQueryHandler reads sub-orders straight from the orders
// table, bypassing the aggregate.
type GetActiveOrdersQueryHandler struct {
	db *gorm.DB
}

func NewGetActiveOrdersQueryHandler(db *gorm.DB) GetActiveOrdersQueryHandler {
	return GetActiveOrdersQueryHandler{db: db}
}

// Handle returns the matching sub-orders, oldest first.
func (h GetActiveOrdersQueryHandler) Handle(ctx context.Context, query GetActiveOrdersQuery) ([]ActiveOrder, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	statuses := make([]string, 0, len(query.statuses))
	for _, s := range query.statuses {
		statuses = append(statuses, s.String())
	}

	sql := `
		SELECT id, table_name, table_comment, room, waitress, kind, status, created_at, line_items
		FROM orders
		WHERE status IN ?`
	args := []any{statuses}
	if query.table != "" {
		sql += " AND table_name = ?"
		args = append(args, query.table)
	}
	if query.kind != kernel.UnknownKind {
		sql += " AND kind = ?"
		args = append(args, query.kind.String())
	}
	sql += " ORDER BY created_at, id"

	rows, err := h.db.WithContext(ctx).Raw(sql, args...).Rows()
	if err != nil {
		return nil, errs.NewRemoteStoreUnavailableError("list active orders", err)
	}
	defer rows.Close()

	orders := make([]ActiveOrder, 0)
	for rows.Next() {
		var o ActiveOrder
		var comment, room *string
		var lineItems string
		if err = rows.Scan(&o.ID, &o.Table, &comment, &room, &o.Waitress, &o.Kind, &o.Status, &o.CreatedAt, &lineItems); err != nil {
			return nil, err
		}
		if comment != nil {
			o.TableComment = *comment
		}
		if room != nil {
			o.Room = *room
		}
		if err = json.Unmarshal([]byte(lineItems), &o.LineItems); err != nil {
			return nil, errs.NewValueIsInvalidErrorWithCause("line items of "+o.ID, err)
		}

		o.Total = decimal.Zero
		for _, l := range o.LineItems {
			o.Total = o.Total.Add(l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity))))
		}
		o.CreatedAt = o.CreatedAt.UTC()
		orders = append(orders, o)
	}

	if err = rows.Err(); err != nil {
		return nil, errs.NewRemoteStoreUnavailableError("list active orders", err)
	}
	return orders, nil
}
