package services

import "testing"

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to BudgetStatus
		expect   bool
	}{
		{StatusDraft, StatusSent, true},
		{StatusDraft, StatusApproved, false},
		{StatusDraft, StatusCancelled, true},
		{StatusSent, StatusApproved, true},
		{StatusSent, StatusRejected, true},
		{StatusSent, StatusDraft, true},
		{StatusRejected, StatusDraft, true},
		{StatusRejected, StatusApproved, false},
		{StatusApproved, StatusDraft, false},
		{StatusCancelled, StatusDraft, false},
		{StatusDraft, StatusDraft, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+"_to_"+string(tt.to), func(t *testing.T) {
			if got := CanTransition(tt.from, tt.to); got != tt.expect {
				t.Errorf("CanTransition(%s, %s) = %v, want %v", tt.from, tt.to, got, tt.expect)
			}
		})
	}
}

func TestValidateTransition(t *testing.T) {
	if err := ValidateTransition(StatusSent, StatusRejected, ""); err == nil {
		t.Error("expected error for rejection without reason")
	}
	if err := ValidateTransition(StatusSent, StatusRejected, "Too expensive"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := ValidateTransition(StatusDraft, "archived", ""); err == nil {
		t.Error("expected error for unknown status")
	}
	if err := ValidateTransition(StatusApproved, StatusDraft, ""); err == nil {
		t.Error("expected error for approved -> draft")
	}
}

func TestStatusHelpers(t *testing.T) {
	if StatusTimestampField(StatusSent) != "sent_at" || StatusTimestampField(StatusDraft) != "" {
		t.Error("unexpected timestamp fields")
	}
	if !IsEditable(StatusDraft) || IsEditable(StatusApproved) {
		t.Error("unexpected editability")
	}
	for _, s := range BudgetStatuses {
		if !IsValidStatus(s) {
			t.Errorf("status %q should be valid", s)
		}
		if StatusLabel(s) == string(s) {
			t.Errorf("status %q has no label", s)
		}
	}
	if PaymentTermLabel("30_days") != "30 days" {
		t.Errorf("PaymentTermLabel(30_days) = %q", PaymentTermLabel("30_days"))
	}
}
