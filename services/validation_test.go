package services

import (
	"reflect"
	"testing"
)

func TestValidateLineItem(t *testing.T) {
	tests := []struct {
		name   string
		item   LineItem
		expect []string
	}{
		{
			name:   "valid widget",
			item:   CalcLineItem(ItemInput{Reference: "SKU1", Description: "Widget", Quantity: 10, CostPrice: 5, SellingPrice: 8}),
			expect: []string{},
		},
		{
			name:   "zero quantity and price below cost",
			item:   CalcLineItem(ItemInput{Reference: "SKU2", Description: "Gadget", Quantity: 0, CostPrice: 10, SellingPrice: 5}),
			expect: []string{DiagQuantityNotPositive, DiagSellingBelowCost},
		},
		{
			name:   "blank text is trimmed",
			item:   CalcLineItem(ItemInput{Reference: "   ", Description: "\t", Quantity: 1, CostPrice: 1, SellingPrice: 1}),
			expect: []string{DiagReferenceRequired, DiagDescriptionRequired},
		},
		{
			name: "everything wrong",
			item: CalcLineItem(ItemInput{Quantity: -1, CostPrice: -2, SellingPrice: -3}),
			expect: []string{
				DiagReferenceRequired,
				DiagDescriptionRequired,
				DiagQuantityNotPositive,
				DiagNegativeCost,
				DiagNegativeSelling,
				DiagSellingBelowCost,
			},
		},
		{
			name:   "negative cost only",
			item:   CalcLineItem(ItemInput{Reference: "R", Description: "D", Quantity: 1, CostPrice: -1, SellingPrice: 0}),
			expect: []string{DiagNegativeCost},
		},
		{
			name:   "equal prices are fine",
			item:   CalcLineItem(ItemInput{Reference: "R", Description: "D", Quantity: 1, CostPrice: 4, SellingPrice: 4}),
			expect: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ValidateLineItem(tt.item)
			if got == nil {
				t.Fatal("ValidateLineItem returned nil, want a non-nil slice")
			}
			if !reflect.DeepEqual(got, tt.expect) {
				t.Errorf("ValidateLineItem() = %q, want %q", got, tt.expect)
			}
		})
	}
}

func TestValidateLineItem_DoesNotMutate(t *testing.T) {
	item := CalcLineItem(ItemInput{Reference: " R ", Description: "D", Quantity: 0, CostPrice: 2, SellingPrice: 1})
	before := item
	ValidateLineItem(item)
	if item != before {
		t.Errorf("item changed during validation: %+v", item)
	}
}

func TestIsWarningOnly(t *testing.T) {
	tests := []struct {
		name   string
		diags  []string
		expect bool
	}{
		{"none", nil, true},
		{"soft warning", []string{DiagSellingBelowCost}, true},
		{"hard error", []string{DiagReferenceRequired}, false},
		{"mixed", []string{DiagQuantityNotPositive, DiagSellingBelowCost}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsWarningOnly(tt.diags); got != tt.expect {
				t.Errorf("IsWarningOnly(%q) = %v, want %v", tt.diags, got, tt.expect)
			}
		})
	}
}
