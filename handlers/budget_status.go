package handlers

import (
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
	"github.com/pocketbase/pocketbase/tools/types"

	"budgetdesk/services"
)

// HandleBudgetStatus returns a handler that moves a budget to another
// status, stamping the matching timestamp and recording the change.
// Route: POST /budgets/{id}/status
func HandleBudgetStatus(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		id := e.Request.PathValue("id")
		budget, err := app.FindRecordById("budgets", id)
		if err != nil {
			return ErrorToast(e, http.StatusNotFound, "Budget not found")
		}
		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid form data")
		}

		from := services.BudgetStatus(budget.GetString("status"))
		to := services.BudgetStatus(strings.TrimSpace(e.Request.FormValue("status")))
		reason := strings.TrimSpace(e.Request.FormValue("reason"))

		if err := services.ValidateTransition(from, to, reason); err != nil {
			return ErrorToast(e, http.StatusUnprocessableEntity, err.Error())
		}

		uid := userID(e)
		err = app.RunInTransaction(func(txApp core.App) error {
			budget.Set("status", string(to))
			if field := services.StatusTimestampField(to); field != "" {
				budget.Set(field, types.NowDateTime())
			}
			if to == services.StatusRejected {
				budget.Set("rejection_reason", reason)
			}
			budget.Set("last_updated_by", uid)
			if err := txApp.Save(budget); err != nil {
				return fmt.Errorf("save budget %s: %w", id, err)
			}
			changes := map[string]any{"from": string(from), "to": string(to)}
			return services.AddBudgetHistory(txApp, id, "status_changed", to, uid, reason, changes)
		})
		if err != nil {
			log.Printf("budget_status: could not change status of %s: %v", id, err)
			return ErrorToast(e, http.StatusInternalServerError, "Could not change the status")
		}

		SetToast(e, ToastSuccess, "Status changed to "+services.StatusLabel(to))
		redirectURL := "/budgets/" + id
		return redirect(e, redirectURL)
	}
}
