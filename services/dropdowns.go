package services

import "strings"

// Option is a value/label pair rendered as a <select> option.
type Option struct {
	Value string
	Label string
}

// UnitOptions lists the units of measure offered on item rows.
var UnitOptions = []Option{
	{string(UnitEach), "un"},
	{string(UnitMeter), "m"},
	{string(UnitSquareMeter), "m²"},
	{string(UnitCubicMeter), "m³"},
	{string(UnitKilogram), "kg"},
	{string(UnitLiter), "L"},
	{string(UnitHour), "h"},
}

// UnitLabel returns the short label of a unit, or the unit itself if unknown.
func UnitLabel(u Unit) string {
	for _, o := range UnitOptions {
		if o.Value == string(u) {
			return o.Label
		}
	}
	return string(u)
}

// ParseUnit matches s against unit values and labels, ignoring case.
// Empty input yields DefaultUnit; ok is false for anything unrecognised.
func ParseUnit(s string) (Unit, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return DefaultUnit, true
	}
	for _, o := range UnitOptions {
		if strings.EqualFold(s, o.Value) || strings.EqualFold(s, o.Label) {
			return Unit(o.Value), true
		}
	}
	return DefaultUnit, false
}

// StatusOptions lists budget statuses for filters.
func StatusOptions() []Option {
	opts := make([]Option, len(BudgetStatuses))
	for i, s := range BudgetStatuses {
		opts[i] = Option{string(s), StatusLabel(s)}
	}
	return opts
}

// PaymentTermOptions lists payment terms for the budget form.
func PaymentTermOptions() []Option {
	opts := make([]Option, len(PaymentTerms))
	for i, t := range PaymentTerms {
		opts[i] = Option{t, PaymentTermLabel(t)}
	}
	return opts
}

// CustomerTypeOptions lists the customer kinds.
var CustomerTypeOptions = []Option{
	{"individual", "Individual"},
	{"company", "Company"},
}
