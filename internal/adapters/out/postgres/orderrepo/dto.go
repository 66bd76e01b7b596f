// Package orderrepo persists sub-orders in the remote store's orders table.
package orderrepo

import (
	"encoding/json"
	"fmt"
	"time"

	"tablesync/internal/core/domain/model/kernel"
	"tablesync/internal/core/domain/model/order"
	"tablesync/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// OrderDTO is a row of the orders table. Line items are stored as a JSON
// array; only the kind status column that matches the kind is set.
type OrderDTO struct {
	ID           string    `gorm:"primaryKey;size:96" json:"id"`
	Table        string    `gorm:"column:table_name;index;not null" json:"table"`
	TableComment string    `gorm:"column:table_comment" json:"tableComment,omitempty"`
	Room         string    `json:"room,omitempty"`
	Waitress     string    `gorm:"index;not null" json:"waitress"`
	Kind         string    `gorm:"index;size:16;not null" json:"kind"`
	Status       string    `gorm:"index;size:16;not null" json:"status"`
	DrinksStatus *string   `gorm:"size:16" json:"drinksStatus,omitempty"`
	MealsStatus  *string   `gorm:"size:16" json:"mealsStatus,omitempty"`
	LineItems    string    `gorm:"type:text;not null" json:"lineItems"`
	CreatedAt    time.Time `gorm:"index;autoCreateTime:false" json:"createdAt"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime:false" json:"updatedAt"`
}

// TableName specifies the database table name for sub-orders.
func (OrderDTO) TableName() string {
	return "orders"
}

// LineItemDTO is one element of OrderDTO.LineItems.
type LineItemDTO struct {
	ID                 string          `json:"id"`
	Name               string          `json:"name"`
	UnitPrice          decimal.Decimal `json:"unitPrice"`
	Quantity           int             `json:"quantity"`
	CookingInstruction string          `json:"cookingInstruction,omitempty"`
	Comment            string          `json:"freeTextComment,omitempty"`
	Variant            string          `json:"selectedVariant,omitempty"`
}

func fromDomain(o *order.Order) (OrderDTO, error) {
	lines := make([]LineItemDTO, 0, len(o.LineItems()))
	for _, l := range o.LineItems() {
		lines = append(lines, LineItemDTO{
			ID:                 l.ID(),
			Name:               l.Name(),
			UnitPrice:          l.UnitPrice(),
			Quantity:           l.Quantity(),
			CookingInstruction: l.CookingInstruction(),
			Comment:            l.Comment(),
			Variant:            l.Variant(),
		})
	}
	raw, err := json.Marshal(lines)
	if err != nil {
		return OrderDTO{}, err
	}

	drinks, meals := o.KindStatus()
	return OrderDTO{
		ID:           o.ID().String(),
		Table:        o.Table().Name,
		TableComment: o.Table().Comment,
		Room:         o.Table().Room,
		Waitress:     o.Waitress(),
		Kind:         o.Kind().String(),
		Status:       o.Status().String(),
		DrinksStatus: statusColumn(drinks),
		MealsStatus:  statusColumn(meals),
		LineItems:    string(raw),
		CreatedAt:    o.CreatedAt().UTC(),
		UpdatedAt:    o.UpdatedAt().UTC(),
	}, nil
}

func statusColumn(s order.Status) *string {
	if s == order.Unknown {
		return nil
	}
	v := s.String()
	return &v
}

// ToDomain rebuilds a sub-order from its row. A kind status that disagrees
// with the status is rejected.
func ToDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.OrderIDFromString(dto.ID)
	if err != nil {
		return nil, err
	}
	status, err := order.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}
	if err = checkKindStatus(dto, id.Kind()); err != nil {
		return nil, err
	}

	var lines []LineItemDTO
	if err = json.Unmarshal([]byte(dto.LineItems), &lines); err != nil {
		return nil, errs.NewValueIsInvalidErrorWithCause("line items", err)
	}
	items := make([]order.LineItem, 0, len(lines))
	for _, l := range lines {
		item, err := order.NewLineItem(l.ID, id.Kind(), l.Name, l.UnitPrice, l.Quantity, order.LineItemOptions{
			CookingInstruction: l.CookingInstruction,
			Comment:            l.Comment,
			Variant:            l.Variant,
		})
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	table := order.Table{Name: dto.Table, Comment: dto.TableComment, Room: dto.Room}
	return order.RestoreOrder(id, table, dto.Waitress, items, status, dto.CreatedAt, dto.UpdatedAt)
}

func checkKindStatus(dto OrderDTO, kind kernel.Kind) error {
	own, other := dto.MealsStatus, dto.DrinksStatus
	if kind == kernel.Drinks {
		own, other = dto.DrinksStatus, dto.MealsStatus
	}
	if other != nil || own == nil || *own != dto.Status {
		return errs.NewValueIsInvalidErrorWithCause("kind status",
			fmt.Errorf("order %s has status %q but kind status drinks=%v meals=%v",
				dto.ID, dto.Status, deref(dto.DrinksStatus), deref(dto.MealsStatus)))
	}
	return nil
}

func deref(s *string) string {
	if s == nil {
		return "<nil>"
	}
	return *s
}

// DecodePayload rebuilds a sub-order from a change feed payload.
func DecodePayload(payload []byte) (*order.Order, error) {
	var dto OrderDTO
	if err := json.Unmarshal(payload, &dto); err != nil {
		return nil, errs.NewValueIsInvalidErrorWithCause("order payload", err)
	}
	return ToDomain(dto)
}

func encodePayload(dto OrderDTO) ([]byte, error) {
	return json.Marshal(dto)
}
