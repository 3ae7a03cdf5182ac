package handlers

import (
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

// HandleBudgetDelete returns a handler that deletes a budget; its items and
// history go with it through the cascading relations.
// Route: DELETE /budgets/{id}
func HandleBudgetDelete(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		id := e.Request.PathValue("id")
		budget, err := app.FindRecordById("budgets", id)
		if err != nil {
			return ErrorToast(e, http.StatusNotFound, "Budget not found")
		}

		if err := app.Delete(budget); err != nil {
			log.Printf("budget_delete: could not delete budget %s: %v", id, err)
			return ErrorToast(e, http.StatusInternalServerError, "Could not delete the budget")
		}

		SetToast(e, ToastSuccess, "Budget deleted")
		// From the list the row is swapped out; from the budget page go back
		// to the list.
		if e.Request.Header.Get("HX-Target") == "budget-"+id {
			return e.String(http.StatusOK, "")
		}
		return redirect(e, "/budgets")
	}
}
