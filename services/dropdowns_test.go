package services

import "testing"

func TestUnitOptions(t *testing.T) {
	if len(UnitOptions) != 7 {
		t.Fatalf("expected 7 unit options, got %d", len(UnitOptions))
	}
	if UnitOptions[0].Value != string(DefaultUnit) {
		t.Errorf("expected first option to be the default unit, got %q", UnitOptions[0].Value)
	}
	for _, o := range UnitOptions {
		if o.Value == "" || o.Label == "" {
			t.Errorf("UnitOptions contains empty entry %+v", o)
		}
	}
}

func TestParseUnit(t *testing.T) {
	tests := []struct {
		input  string
		expect Unit
		ok     bool
	}{
		{"", UnitEach, true},
		{"meter", UnitMeter, true},
		{"M²", UnitSquareMeter, true},
		{" KG ", UnitKilogram, true},
		{"Hour", UnitHour, true},
		{"furlong", UnitEach, false},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseUnit(tt.input)
			if got != tt.expect || ok != tt.ok {
				t.Errorf("ParseUnit(%q) = (%q, %v), want (%q, %v)", tt.input, got, ok, tt.expect, tt.ok)
			}
		})
	}
}

func TestUnitLabel(t *testing.T) {
	if UnitLabel(UnitCubicMeter) != "m³" {
		t.Errorf("UnitLabel(cubic_meter) = %q", UnitLabel(UnitCubicMeter))
	}
	if UnitLabel("pallet") != "pallet" {
		t.Errorf("UnitLabel(pallet) = %q", UnitLabel("pallet"))
	}
}

func TestStatusAndPaymentOptions(t *testing.T) {
	if len(StatusOptions()) != len(BudgetStatuses) {
		t.Errorf("StatusOptions() has %d entries", len(StatusOptions()))
	}
	terms := PaymentTermOptions()
	if len(terms) != len(PaymentTerms) || terms[0].Value != "immediate" {
		t.Errorf("unexpected payment term options: %+v", terms)
	}
}
