package kernel

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"tablesync/internal/pkg/errs"
)

// orderIDTimeLayout is fixed width so that lexicographic order of IDs equals
// creation order.
const orderIDTimeLayout = "20060102T150405.000"

var (
	// ErrOrderIDIsNotConstructed is returned when validating a zero-value OrderID.
	ErrOrderIDIsNotConstructed = errs.NewValueIsRequiredError("order ID must be created via NewOrderID or OrderIDFromString")

	orderIDPattern = regexp.MustCompile(`^(\d{8}T\d{6}\.\d{3})Z-([a-z0-9_]+)-(drinks|meals)$`)
	tableSlugStrip = regexp.MustCompile(`[^a-z0-9]+`)
)

// OrderID identifies a sub-order. Its textual form is
//
//	<UTC timestamp with milliseconds>Z-<table slug>-<kind>
//
// for example "20261014T193045.120Z-12-meals". IDs sort by creation time,
// carry the table and kind for debugging, and do not collide for the same
// table and kind unless created within the same millisecond; OrderClock
// spaces the stamps of one process apart.
type OrderID struct {
	value     string
	table     string
	kind      Kind
	createdAt time.Time
}

// NewOrderID builds the ID of a sub-order created at now. It is a pure
// function of its inputs.
func NewOrderID(table string, kind Kind, now time.Time) OrderID {
	now = now.UTC().Truncate(time.Millisecond)
	slug := tableSlug(table)
	return OrderID{
		value:     fmt.Sprintf("%sZ-%s-%s", now.Format(orderIDTimeLayout), slug, kind),
		table:     slug,
		kind:      kind,
		createdAt: now,
	}
}

// OrderIDFromString parses an ID read back from storage or a request path.
func OrderIDFromString(s string) (OrderID, error) {
	m := orderIDPattern.FindStringSubmatch(s)
	if m == nil {
		return OrderID{}, errs.NewValueIsInvalidErrorWithCause("order ID", fmt.Errorf("%q is not a valid order ID", s))
	}

	createdAt, err := time.ParseInLocation(orderIDTimeLayout, m[1], time.UTC)
	if err != nil {
		return OrderID{}, errs.NewValueIsInvalidErrorWithCause("order ID", err)
	}

	kind, err := ParseKind(m[3])
	if err != nil {
		return OrderID{}, err
	}

	return OrderID{value: s, table: m[2], kind: kind, createdAt: createdAt}, nil
}

func (id OrderID) String() string {
	return id.value
}

// TableSlug returns the normalized table embedded in the ID.
func (id OrderID) TableSlug() string {
	return id.table
}

func (id OrderID) Kind() Kind {
	return id.kind
}

// CreatedAt returns the creation time encoded in the ID, at millisecond precision.
func (id OrderID) CreatedAt() time.Time {
	return id.createdAt
}

func (id OrderID) IsEqual(other OrderID) bool {
	return id.value == other.value
}

func (id OrderID) Validate() error {
	if id.value == "" {
		return ErrOrderIDIsNotConstructed
	}
	return nil
}

func tableSlug(table string) string {
	slug := tableSlugStrip.ReplaceAllString(strings.ToLower(strings.TrimSpace(table)), "_")
	if slug == "" {
		return "_"
	}
	return slug
}
