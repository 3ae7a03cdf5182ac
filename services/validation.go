package services

import "strings"

// Line item diagnostics, in the order ValidateLineItem reports them.
const (
	DiagReferenceRequired   = "reference required"
	DiagDescriptionRequired = "description required"
	DiagQuantityNotPositive = "quantity must be greater than zero"
	DiagNegativeCost        = "cost price cannot be negative"
	DiagNegativeSelling     = "selling price cannot be negative"
	DiagSellingBelowCost    = "selling price is below cost price"
)

// ValidateLineItem reports every business rule the item breaks. Each check is
// independent, so several diagnostics can fire at once. Nothing is corrected.
func ValidateLineItem(item LineItem) []string {
	diags := []string{}

	if strings.TrimSpace(item.Reference) == "" {
		diags = append(diags, DiagReferenceRequired)
	}
	if strings.TrimSpace(item.Description) == "" {
		diags = append(diags, DiagDescriptionRequired)
	}
	if item.Quantity <= 0 {
		diags = append(diags, DiagQuantityNotPositive)
	}
	if item.CostPrice < 0 {
		diags = append(diags, DiagNegativeCost)
	}
	if item.SellingPrice < 0 {
		diags = append(diags, DiagNegativeSelling)
	}
	if item.SellingPrice < item.CostPrice {
		diags = append(diags, DiagSellingBelowCost)
	}

	return diags
}

// IsWarningOnly reports whether the diagnostics contain nothing but the soft
// selling-below-cost warning, which does not block saving.
func IsWarningOnly(diags []string) bool {
	for _, d := range diags {
		if d != DiagSellingBelowCost {
			return false
		}
	}
	return true
}
