package services

// QuotationTotals aggregates a list of line items. It is never stored on its
// own; the budget record keeps a copy that callers rewrite on every change.
type QuotationTotals struct {
	TotalCost        float64
	TotalSelling     float64
	ProfitMargin     float64
	ProfitPercentage float64
	ItemCount        int
}

// CalcQuotationTotals sums the items in list order. A sum that overflows
// float64 counts as 0.
func CalcQuotationTotals(items []LineItem) QuotationTotals {
	var totals QuotationTotals
	for _, item := range items {
		totals.TotalCost += item.TotalCost
		totals.TotalSelling += item.TotalSelling
	}
	totals.TotalCost = finiteOrZero(totals.TotalCost)
	totals.TotalSelling = finiteOrZero(totals.TotalSelling)
	totals.ProfitMargin = finiteOrZero(totals.TotalSelling - totals.TotalCost)
	totals.ProfitPercentage = percentOf(totals.ProfitMargin, totals.TotalCost)
	totals.ItemCount = len(items)
	return totals
}

// AveragePerItem divides total by count, returning 0 for an empty list.
func AveragePerItem(total float64, count int) float64 {
	if count > 0 {
		return finiteOrZero(total / float64(count))
	}
	return 0
}
