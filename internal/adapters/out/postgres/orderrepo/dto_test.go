package orderrepo

import (
	"testing"
	"time"

	"tablesync/internal/core/domain/model/kernel"
	"tablesync/internal/core/domain/model/order"
	"tablesync/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMealsOrder(t *testing.T) *order.Order {
	t.Helper()
	now := time.Date(2025, 3, 14, 19, 30, 0, 0, time.UTC)
	steak, err := order.NewLineItem("", kernel.Meals, "Steak", decimal.RequireFromString("24.90"), 1,
		order.LineItemOptions{CookingInstruction: "medium-rare", Variant: "fries"})
	require.NoError(t, err)
	o, err := order.NewOrder(kernel.NewOrderID("12", kernel.Meals, now),
		order.Table{Name: "12", Comment: "window", Room: "Terrace"}, "Audrey", []order.LineItem{steak}, now)
	require.NoError(t, err)
	return o
}

func TestFromDomain_SetsOnlyOwnKindStatus(t *testing.T) {
	dto, err := fromDomain(newMealsOrder(t))

	require.NoError(t, err)
	assert.Nil(t, dto.DrinksStatus)
	require.NotNil(t, dto.MealsStatus)
	assert.Equal(t, order.Pending.String(), *dto.MealsStatus)
	assert.Equal(t, "12", dto.Table)
	assert.Equal(t, "window", dto.TableComment)
}

func TestDecodePayload_RebuildsOrder(t *testing.T) {
	original := newMealsOrder(t)
	dto, err := fromDomain(original)
	require.NoError(t, err)
	payload, err := encodePayload(dto)
	require.NoError(t, err)

	decoded, err := DecodePayload(payload)

	require.NoError(t, err)
	assert.True(t, original.ID().IsEqual(decoded.ID()))
	assert.Equal(t, original.Table(), decoded.Table())
	require.Len(t, decoded.LineItems(), 1)
	line := decoded.LineItems()[0]
	assert.Equal(t, "medium-rare", line.CookingInstruction())
	assert.Equal(t, "fries", line.Variant())
	assert.True(t, decimal.RequireFromString("24.90").Equal(line.UnitPrice()))
}

func TestToDomain_RejectsKindStatusMismatch(t *testing.T) {
	dto, err := fromDomain(newMealsOrder(t))
	require.NoError(t, err)

	ready := order.Ready.String()
	dto.MealsStatus = &ready
	_, err = ToDomain(dto)
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)

	pending := order.Pending.String()
	dto.MealsStatus = &pending
	dto.DrinksStatus = &pending
	_, err = ToDomain(dto)
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
}

func TestDecodePayload_RejectsGarbage(t *testing.T) {
	_, err := DecodePayload([]byte("{"))

	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
}
