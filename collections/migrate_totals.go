package collections

import (
	"fmt"
	"log"
	"math"

	"github.com/pocketbase/pocketbase/core"

	"budgetdesk/services"
)

// totalsEpsilon is the largest drift between stored and recomputed totals
// that is left alone.
const totalsEpsilon = 0.005

// MigrateBudgetTotals recomputes the denormalised totals of every budget
// from its items and saves the budgets whose stored values drifted.
// Safe to call on every startup -- returns early if nothing to migrate.
func MigrateBudgetTotals(app core.App) (int, error) {
	budgets, err := app.FindAllRecords("budgets")
	if err != nil {
		return 0, fmt.Errorf("migrate: could not query budgets: %w", err)
	}
	if len(budgets) == 0 {
		return 0, nil
	}

	updated := 0
	for _, budget := range budgets {
		items, _, err := services.LoadBudgetItems(app, budget.Id)
		if err != nil {
			log.Printf("migrate: skipping budget %s: %v\n", budget.Id, err)
			continue
		}

		before := storedTotals(budget)
		services.SetBudgetTotals(budget, items)
		if !totalsDrifted(before, storedTotals(budget)) {
			continue
		}

		if err := app.Save(budget); err != nil {
			log.Printf("migrate: failed to save totals of budget %s: %v\n", budget.Id, err)
			continue
		}
		updated++
		log.Printf("migrate: budget #%d totals recomputed\n", budget.GetInt("budget_number"))
	}

	if updated > 0 {
		log.Printf("migrate: recomputed totals of %d budget(s).\n", updated)
	}
	return updated, nil
}

func storedTotals(r *core.Record) [5]float64 {
	return [5]float64{
		r.GetFloat("total_cost"),
		r.GetFloat("total_selling"),
		r.GetFloat("profit_margin"),
		r.GetFloat("profit_percentage"),
		r.GetFloat("grand_total"),
	}
}

func totalsDrifted(a, b [5]float64) bool {
	for i := range a {
		if math.Abs(a[i]-b[i]) > totalsEpsilon {
			return true
		}
	}
	return false
}
