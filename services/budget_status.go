package services

import (
	"errors"
	"fmt"
)

// BudgetStatus is the lifecycle state of a quotation.
type BudgetStatus string

const (
	StatusDraft     BudgetStatus = "draft"
	StatusSent      BudgetStatus = "sent"
	StatusApproved  BudgetStatus = "approved"
	StatusRejected  BudgetStatus = "rejected"
	StatusCancelled BudgetStatus = "cancelled"
)

// BudgetStatuses lists every status in display order.
var BudgetStatuses = []BudgetStatus{StatusDraft, StatusSent, StatusApproved, StatusRejected, StatusCancelled}

var statusTransitions = map[BudgetStatus][]BudgetStatus{
	StatusDraft:     {StatusSent, StatusCancelled},
	StatusSent:      {StatusApproved, StatusRejected, StatusDraft, StatusCancelled},
	StatusApproved:  nil,
	StatusRejected:  {StatusDraft},
	StatusCancelled: nil,
}

// StatusLabel returns the human label of a status.
func StatusLabel(s BudgetStatus) string {
	switch s {
	case StatusDraft:
		return "Draft"
	case StatusSent:
		return "Sent"
	case StatusApproved:
		return "Approved"
	case StatusRejected:
		return "Rejected"
	case StatusCancelled:
		return "Cancelled"
	}
	return string(s)
}

// IsValidStatus reports whether s is a known status.
func IsValidStatus(s BudgetStatus) bool {
	_, ok := statusTransitions[s]
	return ok
}

// AllowedTransitions returns the statuses a budget in from may move to.
func AllowedTransitions(from BudgetStatus) []BudgetStatus {
	return statusTransitions[from]
}

// CanTransition reports whether a budget may move from one status to another.
func CanTransition(from, to BudgetStatus) bool {
	for _, s := range statusTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// IsEditable reports whether items and header fields may still change.
// Only drafts and rejected budgets (which go back to draft) are editable.
func IsEditable(s BudgetStatus) bool {
	return s == StatusDraft || s == StatusRejected
}

// StatusTimestampField returns the record field stamped when entering s,
// or "" when the status has none.
func StatusTimestampField(s BudgetStatus) string {
	switch s {
	case StatusSent:
		return "sent_at"
	case StatusApproved:
		return "approved_at"
	case StatusRejected:
		return "rejected_at"
	}
	return ""
}

// ValidateTransition returns an error describing why from -> to is refused.
func ValidateTransition(from, to BudgetStatus, rejectionReason string) error {
	if !IsValidStatus(to) {
		return fmt.Errorf("unknown status %q", to)
	}
	if !CanTransition(from, to) {
		return fmt.Errorf("cannot change status from %s to %s", StatusLabel(from), StatusLabel(to))
	}
	if to == StatusRejected && rejectionReason == "" {
		return errors.New("a rejection reason is required")
	}
	return nil
}

// PaymentTerms are the selectable payment terms, in display order.
var PaymentTerms = []string{"immediate", "15_days", "30_days", "45_days", "60_days", "custom"}

// PaymentTermLabel returns the human label of a payment term.
func PaymentTermLabel(term string) string {
	switch term {
	case "immediate":
		return "Immediate"
	case "15_days":
		return "15 days"
	case "30_days":
		return "30 days"
	case "45_days":
		return "45 days"
	case "60_days":
		return "60 days"
	case "custom":
		return "Custom"
	}
	return term
}
