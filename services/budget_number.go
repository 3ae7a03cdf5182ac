package services

import (
	"fmt"

	"github.com/pocketbase/dbx"
	"github.com/pocketbase/pocketbase/core"
)

// FormatBudgetNumber renders a budget number the way it is shown to
// customers: "#42", or "#42 rev. 3" once the budget has been revised.
func FormatBudgetNumber(number, revision int) string {
	if revision > 1 {
		return fmt.Sprintf("#%d rev. %d", number, revision)
	}
	return fmt.Sprintf("#%d", number)
}

// nextSequence returns max+1, or 1 for an empty sequence.
func nextSequence(max int) int {
	if max < 0 {
		return 1
	}
	return max + 1
}

// NextBudgetNumber returns the number the next created budget should get:
// the highest existing budget_number plus one, starting at 1.
// Numbers are never reused while a higher budget exists.
func NextBudgetNumber(app core.App) (int, error) {
	var result struct {
		Max int `db:"max"`
	}
	err := app.DB().
		Select("COALESCE(MAX(budget_number), 0) AS max").
		From("budgets").
		One(&result)
	if err != nil {
		return 0, fmt.Errorf("next budget number: %w", err)
	}
	return nextSequence(result.Max), nil
}

// CountBudgetsForCustomer returns how many budgets reference the customer.
func CountBudgetsForCustomer(app core.App, customerID string) (int, error) {
	n, err := app.CountRecords("budgets", dbx.HashExp{"customer": customerID})
	if err != nil {
		return 0, fmt.Errorf("count budgets for customer %s: %w", customerID, err)
	}
	return int(n), nil
}
