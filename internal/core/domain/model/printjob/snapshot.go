package printjob

import (
	"time"

	"tablesync/internal/core/domain/model/order"

	"github.com/shopspring/decimal"
)

// Snapshot is the order as it looked when the job was queued. The live order
// may change or disappear before the ticket is printed.
type Snapshot struct {
	OrderID      string         `json:"id"`
	Kind         string         `json:"kind"`
	Table        string         `json:"table"`
	TableComment string         `json:"tableComment,omitempty"`
	Room         string         `json:"room,omitempty"`
	Waitress     string         `json:"waitress"`
	Status       string         `json:"status"`
	CreatedAt    time.Time      `json:"createdAt"`
	LineItems    []SnapshotLine `json:"lineItems"`
}

type SnapshotLine struct {
	ID                 string          `json:"id"`
	Name               string          `json:"name"`
	UnitPrice          decimal.Decimal `json:"unitPrice"`
	Quantity           int             `json:"quantity"`
	CookingInstruction string          `json:"cookingInstruction,omitempty"`
	Comment            string          `json:"freeTextComment,omitempty"`
	Variant            string          `json:"selectedVariant,omitempty"`
}

// SnapshotOf copies o into a Snapshot.
func SnapshotOf(o *order.Order) Snapshot {
	lines := o.LineItems()
	snap := Snapshot{
		OrderID:      o.ID().String(),
		Kind:         o.Kind().String(),
		Table:        o.Table().Name,
		TableComment: o.Table().Comment,
		Room:         o.Table().Room,
		Waitress:     o.Waitress(),
		Status:       o.Status().String(),
		CreatedAt:    o.CreatedAt().UTC(),
		LineItems:    make([]SnapshotLine, 0, len(lines)),
	}
	for _, l := range lines {
		snap.LineItems = append(snap.LineItems, SnapshotLine{
			ID:                 l.ID(),
			Name:               l.Name(),
			UnitPrice:          l.UnitPrice(),
			Quantity:           l.Quantity(),
			CookingInstruction: l.CookingInstruction(),
			Comment:            l.Comment(),
			Variant:            l.Variant(),
		})
	}
	return snap
}

// Total sums the line subtotals.
func (s Snapshot) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range s.LineItems {
		total = total.Add(l.Subtotal())
	}
	return total
}

func (l SnapshotLine) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}
