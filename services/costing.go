// Package services provides the budget costing engine and the helpers the
// handlers use to price, validate, format, import and export quotations.
package services

import (
	"math"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cast"
)

// Unit is the unit-of-measure tag of a line item.
type Unit string

const (
	UnitEach        Unit = "each"
	UnitMeter       Unit = "meter"
	UnitSquareMeter Unit = "square_meter"
	UnitCubicMeter  Unit = "cubic_meter"
	UnitKilogram    Unit = "kilogram"
	UnitLiter       Unit = "liter"
	UnitHour        Unit = "hour"
)

// DefaultUnit is assigned to items created without a unit.
const DefaultUnit = UnitEach

// LineItem is one priced row of a quotation. The Total*, ProfitMargin and
// ProfitPercentage fields are derived and must only be set by RecalcLineItem.
type LineItem struct {
	ID           string
	Reference    string
	Description  string
	Unit         Unit
	Quantity     float64
	CostPrice    float64
	SellingPrice float64

	TotalCost        float64
	TotalSelling     float64
	ProfitMargin     float64
	ProfitPercentage float64
}

// ItemInput is a partially filled line item as it arrives from a form or an
// import. Numeric fields accept anything cast can read; the rest become 0.
type ItemInput struct {
	ID           string
	Reference    string
	Description  string
	Unit         string
	Quantity     any
	CostPrice    any
	SellingPrice any
}

// NewLineItem returns the row a user gets when pressing "add item".
func NewLineItem() LineItem {
	return RecalcLineItem(LineItem{
		ID:       uuid.NewString(),
		Unit:     DefaultUnit,
		Quantity: 1,
	})
}

// CalcLineItem coerces a partial input into a fully populated LineItem.
func CalcLineItem(in ItemInput) LineItem {
	unit := Unit(strings.TrimSpace(in.Unit))
	if unit == "" {
		unit = DefaultUnit
	}
	return RecalcLineItem(LineItem{
		ID:           in.ID,
		Reference:    in.Reference,
		Description:  in.Description,
		Unit:         unit,
		Quantity:     CoerceNumber(in.Quantity),
		CostPrice:    CoerceNumber(in.CostPrice),
		SellingPrice: CoerceNumber(in.SellingPrice),
	})
}

// RecalcLineItem recomputes the derived fields from quantity, cost and price.
// Whatever the derived fields held before is ignored.
// Products that overflow float64 count as 0.
func RecalcLineItem(item LineItem) LineItem {
	item.TotalCost = finiteOrZero(item.Quantity * item.CostPrice)
	item.TotalSelling = finiteOrZero(item.Quantity * item.SellingPrice)
	item.ProfitMargin = finiteOrZero(item.TotalSelling - item.TotalCost)
	item.ProfitPercentage = percentOf(item.ProfitMargin, item.TotalCost)
	return item
}

// LineItemPatch carries the fields of a single edit. Nil means unchanged.
type LineItemPatch struct {
	Reference    *string
	Description  *string
	Unit         *Unit
	Quantity     *float64
	CostPrice    *float64
	SellingPrice *float64
}

// IsEmpty reports whether the patch changes nothing.
func (p LineItemPatch) IsEmpty() bool {
	return p.Reference == nil && p.Description == nil && p.Unit == nil &&
		p.Quantity == nil && p.CostPrice == nil && p.SellingPrice == nil
}

// ApplyLineItemPatch returns a copy of item with the patch applied and the
// derived fields recomputed.
func ApplyLineItemPatch(item LineItem, p LineItemPatch) LineItem {
	if p.Reference != nil {
		item.Reference = *p.Reference
	}
	if p.Description != nil {
		item.Description = *p.Description
	}
	if p.Unit != nil {
		item.Unit = *p.Unit
		if item.Unit == "" {
			item.Unit = DefaultUnit
		}
	}
	if p.Quantity != nil {
		item.Quantity = finiteOrZero(*p.Quantity)
	}
	if p.CostPrice != nil {
		item.CostPrice = finiteOrZero(*p.CostPrice)
	}
	if p.SellingPrice != nil {
		item.SellingPrice = finiteOrZero(*p.SellingPrice)
	}
	return RecalcLineItem(item)
}

// CoerceNumber converts v to a float64, yielding 0 for nil, booleans,
// unparsable, NaN or infinite values.
func CoerceNumber(v any) float64 {
	switch t := v.(type) {
	case bool:
		return 0
	case string:
		v = strings.TrimSpace(t)
	}
	f, err := cast.ToFloat64E(v)
	if err != nil {
		return 0
	}
	return finiteOrZero(f)
}

func finiteOrZero(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// percentOf returns part/base*100, or 0 when base is not positive or the
// result is not finite.
func percentOf(part, base float64) float64 {
	if base > 0 {
		return finiteOrZero(part / base * 100)
	}
	return 0
}
