package http

import (
	"time"

	"tablesync/internal/core/domain/model/kernel"
	"tablesync/internal/core/domain/model/order"
	"tablesync/internal/core/domain/model/printjob"

	"github.com/shopspring/decimal"
)

// Error is the body of every non-2xx response.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	// ExistingOrderID is set on 409 responses to a duplicate submission.
	ExistingOrderID string `json:"existingOrderId,omitempty"`
}

type TableRequest struct {
	Name    string `json:"name"`
	Comment string `json:"comment"`
	Room    string `json:"room"`
}

type LineItemRequest struct {
	ID                 string          `json:"id"`
	Name               string          `json:"name"`
	UnitPrice          decimal.Decimal `json:"unitPrice"`
	Quantity           int             `json:"quantity"`
	CookingInstruction string          `json:"cookingInstruction"`
	Comment            string          `json:"freeTextComment"`
	Variant            string          `json:"selectedVariant"`
}

// NewCart is the body of POST /api/v1/carts.
type NewCart struct {
	Table    TableRequest      `json:"table"`
	Waitress string            `json:"waitress"`
	Drinks   []LineItemRequest `json:"drinks"`
	Meals    []LineItemRequest `json:"meals"`
}

// ToDomain validates the request into a Cart.
func (r NewCart) ToDomain() (order.Cart, error) {
	drinks, err := lineItems(kernel.Drinks, r.Drinks)
	if err != nil {
		return order.Cart{}, err
	}
	meals, err := lineItems(kernel.Meals, r.Meals)
	if err != nil {
		return order.Cart{}, err
	}
	return order.NewCart(
		order.Table{Name: r.Table.Name, Comment: r.Table.Comment, Room: r.Table.Room},
		r.Waitress,
		drinks,
		meals,
	)
}

func lineItems(kind kernel.Kind, in []LineItemRequest) ([]order.LineItem, error) {
	out := make([]order.LineItem, 0, len(in))
	for _, l := range in {
		item, err := order.NewLineItem(l.ID, kind, l.Name, l.UnitPrice, l.Quantity, order.LineItemOptions{
			CookingInstruction: l.CookingInstruction,
			Comment:            l.Comment,
			Variant:            l.Variant,
		})
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}

type SubOrder struct {
	ID        string          `json:"id"`
	Kind      string          `json:"kind"`
	Status    string          `json:"status"`
	Total     decimal.Decimal `json:"total"`
	Persisted bool            `json:"persisted"`
}

// CartSubmitted answers POST /api/v1/carts.
type CartSubmitted struct {
	Orders  []SubOrder `json:"orders"`
	Warning string     `json:"warning,omitempty"`
}

func subOrder(o *order.Order, persisted bool) SubOrder {
	total := decimal.Zero
	for _, l := range o.LineItems() {
		total = total.Add(l.Subtotal())
	}
	return SubOrder{
		ID:        o.ID().String(),
		Kind:      o.Kind().String(),
		Status:    o.Status().String(),
		Total:     total,
		Persisted: persisted,
	}
}

type StatusChange struct {
	Status string `json:"status"`
}

type KitchenCall struct {
	Table    string `json:"table"`
	Waitress string `json:"waitress"`
	OrderID  string `json:"orderId"`
}

type KitchenCallPlaced struct {
	Notified []string `json:"notified"`
}

type PrintingDevice struct {
	Enabled bool `json:"enabled"`
}

type AutoPrintPolicy struct {
	Policy string `json:"policy"`
}

type Session struct {
	Waitress string `json:"waitress"`
}

type Acknowledged struct {
	Acknowledged int `json:"acknowledged"`
}

type Reset struct {
	Orders        int64 `json:"orders"`
	Notifications int64 `json:"notifications"`
}

type Cleared struct {
	Removed int64 `json:"removed"`
}

type PrintJobError struct {
	At      time.Time `json:"at"`
	Message string    `json:"message"`
}

type PrintJob struct {
	ID          string            `json:"id"`
	OrderID     string            `json:"orderId"`
	Kind        string            `json:"kind"`
	Table       string            `json:"table"`
	Owner       string            `json:"ownerDeviceId"`
	CreatedAt   time.Time         `json:"createdAt"`
	Processed   bool              `json:"processed"`
	ProcessedAt *time.Time        `json:"processedAt,omitempty"`
	Attempts    int               `json:"attempts"`
	ReprintOf   string            `json:"reprintOf,omitempty"`
	Total       decimal.Decimal   `json:"total"`
	Errors      []PrintJobError   `json:"errors"`
	Snapshot    printjob.Snapshot `json:"snapshot"`
}

func printJob(j *printjob.PrintJob) PrintJob {
	out := PrintJob{
		ID:          j.ID().String(),
		OrderID:     j.OrderID(),
		Kind:        j.Kind().String(),
		Table:       j.Snapshot().Table,
		Owner:       j.OwnerDeviceID(),
		CreatedAt:   j.CreatedAt(),
		Processed:   j.IsProcessed(),
		ProcessedAt: j.ProcessedAt(),
		Attempts:    j.Attempts(),
		Total:       j.Snapshot().Total(),
		Errors:      make([]PrintJobError, 0, len(j.Errors())),
		Snapshot:    j.Snapshot(),
	}
	if ref := j.ReprintOf(); ref != nil {
		out.ReprintOf = ref.String()
	}
	for _, e := range j.Errors() {
		out.Errors = append(out.Errors, PrintJobError{At: e.At, Message: e.Message})
	}
	return out
}

func printJobs(jobs []*printjob.PrintJob) []PrintJob {
	out := make([]PrintJob, len(jobs))
	for i, j := range jobs {
		out[i] = printJob(j)
	}
	return out
}
