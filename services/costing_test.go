package services

import (
	"math"
	"testing"
)

const tolerance = 0.0001

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) <= tolerance
}

func TestCalcLineItem(t *testing.T) {
	tests := []struct {
		name          string
		in            ItemInput
		expectCost    float64
		expectSelling float64
		expectMargin  float64
		expectPercent float64
	}{
		{"widget", ItemInput{Quantity: 10, CostPrice: 5.0, SellingPrice: 8.0}, 50, 80, 30, 60},
		{"zero quantity", ItemInput{Quantity: 0, CostPrice: 10, SellingPrice: 5}, 0, 0, 0, 0},
		{"zero cost non-zero price", ItemInput{Quantity: 3, CostPrice: 0, SellingPrice: 10}, 0, 30, 30, 0},
		{"loss", ItemInput{Quantity: 2, CostPrice: 100, SellingPrice: 75}, 200, 150, -50, -25},
		{"string inputs", ItemInput{Quantity: "4", CostPrice: " 2.5 ", SellingPrice: "3"}, 10, 12, 2, 20},
		{"int inputs", ItemInput{Quantity: 3, CostPrice: int64(2), SellingPrice: uint(4)}, 6, 12, 6, 100},
		{"garbage inputs", ItemInput{Quantity: "abc", CostPrice: "", SellingPrice: nil}, 0, 0, 0, 0},
		{"missing inputs", ItemInput{}, 0, 0, 0, 0},
		{"nan and inf", ItemInput{Quantity: math.NaN(), CostPrice: math.Inf(1), SellingPrice: 1}, 0, 0, 0, 0},
		{"negative quantity still computed", ItemInput{Quantity: -2, CostPrice: 10, SellingPrice: 15}, -20, -30, -10, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalcLineItem(tt.in)
			if !almostEqual(got.TotalCost, tt.expectCost) {
				t.Errorf("TotalCost = %v, want %v", got.TotalCost, tt.expectCost)
			}
			if !almostEqual(got.TotalSelling, tt.expectSelling) {
				t.Errorf("TotalSelling = %v, want %v", got.TotalSelling, tt.expectSelling)
			}
			if !almostEqual(got.ProfitMargin, tt.expectMargin) {
				t.Errorf("ProfitMargin = %v, want %v", got.ProfitMargin, tt.expectMargin)
			}
			if !almostEqual(got.ProfitPercentage, tt.expectPercent) {
				t.Errorf("ProfitPercentage = %v, want %v", got.ProfitPercentage, tt.expectPercent)
			}
			if math.IsNaN(got.ProfitPercentage) || math.IsInf(got.ProfitPercentage, 0) {
				t.Errorf("ProfitPercentage must be finite, got %v", got.ProfitPercentage)
			}
		})
	}
}

func TestCalcLineItem_Defaults(t *testing.T) {
	got := CalcLineItem(ItemInput{})
	if got.Unit != UnitEach {
		t.Errorf("Unit = %q, want %q", got.Unit, UnitEach)
	}
	if got.Reference != "" || got.Description != "" {
		t.Errorf("expected empty strings, got %q / %q", got.Reference, got.Description)
	}

	got = CalcLineItem(ItemInput{ID: "row-1", Reference: "SKU1", Description: "Widget", Unit: "hour"})
	if got.ID != "row-1" || got.Reference != "SKU1" || got.Description != "Widget" || got.Unit != UnitHour {
		t.Errorf("descriptive fields not carried over: %+v", got)
	}
}

func TestCalcLineItem_PropertyGrid(t *testing.T) {
	values := []float64{0, 0.01, 1, 2.5, 10, 99.99, 1234.56}
	for _, q := range values {
		for _, c := range values {
			for _, p := range values {
				got := CalcLineItem(ItemInput{Quantity: q, CostPrice: c, SellingPrice: p})
				if !almostEqual(got.TotalCost, q*c) || !almostEqual(got.TotalSelling, q*p) {
					t.Fatalf("q=%v c=%v p=%v: totals %v/%v", q, c, p, got.TotalCost, got.TotalSelling)
				}
				want := 0.0
				if q*c > 0 {
					want = (q*p - q*c) / (q * c) * 100
				}
				if !almostEqual(got.ProfitPercentage, want) {
					t.Fatalf("q=%v c=%v p=%v: percentage %v, want %v", q, c, p, got.ProfitPercentage, want)
				}
			}
		}
	}
}

func TestRecalcLineItem_Idempotent(t *testing.T) {
	first := CalcLineItem(ItemInput{Reference: "A", Description: "B", Quantity: 7, CostPrice: 3.3, SellingPrice: 4.4})

	// Corrupt the derived fields; recomputation must ignore them.
	tampered := first
	tampered.TotalCost = 999
	tampered.ProfitPercentage = -1

	second := RecalcLineItem(tampered)
	if second != first {
		t.Errorf("RecalcLineItem not idempotent:\n got %+v\nwant %+v", second, first)
	}
	if third := RecalcLineItem(second); third != first {
		t.Errorf("second recalculation drifted: %+v", third)
	}
}

func TestNewLineItem(t *testing.T) {
	a := NewLineItem()
	b := NewLineItem()
	if a.ID == "" || a.ID == b.ID {
		t.Errorf("expected distinct non-empty ids, got %q and %q", a.ID, b.ID)
	}
	if a.Quantity != 1 || a.CostPrice != 0 || a.SellingPrice != 0 || a.Unit != UnitEach {
		t.Errorf("unexpected defaults: %+v", a)
	}
}

func TestApplyLineItemPatch(t *testing.T) {
	base := CalcLineItem(ItemInput{ID: "x", Reference: "R", Description: "D", Quantity: 2, CostPrice: 10, SellingPrice: 12})

	qty := 5.0
	price := 20.0
	got := ApplyLineItemPatch(base, LineItemPatch{Quantity: &qty, SellingPrice: &price})
	if got.Quantity != 5 || got.SellingPrice != 20 || got.CostPrice != 10 {
		t.Fatalf("inputs not patched: %+v", got)
	}
	if !almostEqual(got.TotalCost, 50) || !almostEqual(got.TotalSelling, 100) || !almostEqual(got.ProfitPercentage, 100) {
		t.Errorf("derived fields not recomputed: %+v", got)
	}
	if base.Quantity != 2 {
		t.Error("patch must not mutate the original item")
	}

	desc := "New description"
	unit := Unit("")
	got = ApplyLineItemPatch(base, LineItemPatch{Description: &desc, Unit: &unit})
	if got.Description != desc || got.Reference != "R" || got.Unit != UnitEach {
		t.Errorf("descriptive patch wrong: %+v", got)
	}

	nan := math.NaN()
	got = ApplyLineItemPatch(base, LineItemPatch{CostPrice: &nan})
	if got.CostPrice != 0 {
		t.Errorf("NaN cost should coerce to 0, got %v", got.CostPrice)
	}

	if !(LineItemPatch{}).IsEmpty() {
		t.Error("zero patch should be empty")
	}
	if (LineItemPatch{Quantity: &qty}).IsEmpty() {
		t.Error("patch with quantity should not be empty")
	}
}

func TestCoerceNumber(t *testing.T) {
	tests := []struct {
		name   string
		input  any
		expect float64
	}{
		{"float", 1.5, 1.5},
		{"int", 3, 3},
		{"string", "42.25", 42.25},
		{"padded string", "  7 ", 7},
		{"empty string", "", 0},
		{"garbage", "12abc", 0},
		{"nil", nil, 0},
		{"nan string", "NaN", 0},
		{"overflow", "1e400", 0},
		{"bool true", true, 0},
		{"bool false", false, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CoerceNumber(tt.input); got != tt.expect {
				t.Errorf("CoerceNumber(%v) = %v, want %v", tt.input, got, tt.expect)
			}
		})
	}
}

func TestCalcLineItem_OverflowingProducts(t *testing.T) {
	item := CalcLineItem(ItemInput{Reference: "BIG", Quantity: 1e200, CostPrice: 1e200, SellingPrice: 1e200})

	for name, v := range map[string]float64{
		"TotalCost":        item.TotalCost,
		"TotalSelling":     item.TotalSelling,
		"ProfitMargin":     item.ProfitMargin,
		"ProfitPercentage": item.ProfitPercentage,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Errorf("%s = %v, want a finite value", name, v)
		}
	}
}
