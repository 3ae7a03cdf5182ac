package services

import "github.com/shopspring/decimal"

// GrandTotal is the customer-facing amount of a quotation after discounts
// and shipping, rounded to cents.
type GrandTotal struct {
	Subtotal       float64 // total selling of the items
	DiscountAmount float64 // percentage discount plus the fixed discount
	Shipping       float64
	Total          float64
}

// CalcGrandTotal applies discountPercent (of the subtotal), then the fixed
// discountAmount, then adds shipping. Negative adjustments are ignored and
// the discount never takes the subtotal below zero.
func CalcGrandTotal(subtotal, discountPercent, discountAmount, shipping float64) GrandTotal {
	hundred := decimal.NewFromInt(100)
	sub := decimal.NewFromFloat(finiteOrZero(subtotal)).Round(2)

	pct := decimal.NewFromFloat(nonNegative(discountPercent))
	if pct.GreaterThan(hundred) {
		pct = hundred
	}
	discount := sub.Mul(pct).Div(hundred).Add(decimal.NewFromFloat(nonNegative(discountAmount))).Round(2)
	if sub.IsPositive() && discount.GreaterThan(sub) {
		discount = sub
	}
	if !sub.IsPositive() {
		discount = decimal.Zero
	}

	ship := decimal.NewFromFloat(nonNegative(shipping)).Round(2)
	total := sub.Sub(discount).Add(ship)

	return GrandTotal{
		Subtotal:       sub.InexactFloat64(),
		DiscountAmount: discount.InexactFloat64(),
		Shipping:       ship.InexactFloat64(),
		Total:          total.InexactFloat64(),
	}
}

// RoundMoney rounds an amount half away from zero to 2 decimal places.
func RoundMoney(amount float64) float64 {
	return decimal.NewFromFloat(finiteOrZero(amount)).Round(2).InexactFloat64()
}

func nonNegative(f float64) float64 {
	f = finiteOrZero(f)
	if f < 0 {
		return 0
	}
	return f
}
