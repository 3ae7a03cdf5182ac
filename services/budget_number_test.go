package services

import "testing"

func TestFormatBudgetNumber(t *testing.T) {
	tests := []struct {
		name     string
		number   int
		revision int
		expect   string
	}{
		{"first_revision", 42, 1, "#42"},
		{"zero_revision", 7, 0, "#7"},
		{"revised", 42, 3, "#42 rev. 3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatBudgetNumber(tt.number, tt.revision)
			if got != tt.expect {
				t.Errorf("FormatBudgetNumber(%d, %d) = %q, want %q", tt.number, tt.revision, got, tt.expect)
			}
		})
	}
}

func TestNextSequence(t *testing.T) {
	tests := []struct {
		max, expect int
	}{
		{0, 1},
		{-3, 1},
		{41, 42},
	}
	for _, tt := range tests {
		if got := nextSequence(tt.max); got != tt.expect {
			t.Errorf("nextSequence(%d) = %d, want %d", tt.max, got, tt.expect)
		}
	}
}
