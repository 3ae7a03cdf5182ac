package main

import (
	"log"
	"os"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"

	"budgetdesk/collections"
	"budgetdesk/config"
	"budgetdesk/handlers"
)

func main() {
	app := pocketbase.New()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	app.RootCmd.AddCommand(newRecalcTotalsCommand(app), newStatsCommand(app))

	// Create collections and seed data on startup
	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		collections.Setup(app)
		if cfg.Seed.Enabled {
			if err := collections.Seed(app); err != nil {
				log.Printf("Warning: seed data failed: %v", err)
			}
		}
		if err := collections.EnsureAdminUser(app, cfg.Seed.AdminEmail, cfg.Seed.AdminPassword); err != nil {
			log.Printf("Warning: admin user setup failed: %v", err)
		}
		if n, err := collections.MigrateBudgetTotals(app); err != nil {
			log.Printf("Warning: budget totals migration failed: %v", err)
		} else if n > 0 {
			log.Printf("Recomputed totals of %d budget(s)", n)
		}
		return se.Next()
	})

	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		// Serve static files from ./static
		se.Router.GET("/static/{path...}", apis.Static(os.DirFS("./static"), false))

		// Every page except /login, /static and the PocketBase API needs a signed-in user
		se.Router.BindFunc(handlers.RequireAuth(handlers.CookieIdentityProvider{App: app}))

		// ── Auth ─────────────────────────────────────────────────
		se.Router.GET("/login", handlers.HandleLoginPage(app))
		se.Router.POST("/login", handlers.HandleLogin(app))
		se.Router.POST("/logout", handlers.HandleLogout(app))

		// ── Dashboard ────────────────────────────────────────────
		se.Router.GET("/", handlers.HandleDashboard(app))

		// ── Customers ────────────────────────────────────────────
		se.Router.GET("/customers", handlers.HandleCustomerList(app))
		se.Router.GET("/customers/create", handlers.HandleCustomerCreate(app))
		se.Router.POST("/customers", handlers.HandleCustomerSave(app))
		se.Router.GET("/customers/{id}/edit", handlers.HandleCustomerEdit(app))
		se.Router.POST("/customers/{id}/save", handlers.HandleCustomerUpdate(app))
		se.Router.DELETE("/customers/{id}", handlers.HandleCustomerDelete(app))
		se.Router.GET("/customers/{id}", handlers.HandleCustomerView(app))

		// ── Draft item rows (HTMX) ───────────────────────────────
		se.Router.POST("/budgets/items/calc", handlers.HandleItemCalc(app))
		se.Router.GET("/budgets/items/new", handlers.HandleItemNew(app))
		se.Router.GET("/budgets/items/suggest", handlers.HandleItemSuggest(app, &cfg))
		se.Router.POST("/budgets/items/totals", handlers.HandleItemTotals(app))
		se.Router.POST("/budgets/items/import", handlers.HandleItemImport(app))
		se.Router.POST("/budgets/items/import/errors", handlers.HandleItemImportErrors(app))
		se.Router.GET("/budgets/items/template", handlers.HandleItemTemplate(app))

		// ── Budgets ──────────────────────────────────────────────
		se.Router.GET("/budgets", handlers.HandleBudgetList(app))
		se.Router.GET("/budgets/create", handlers.HandleBudgetCreate(app, &cfg))
		se.Router.POST("/budgets", handlers.HandleBudgetSave(app))
		se.Router.GET("/budgets/{id}/edit", handlers.HandleBudgetEdit(app, &cfg))
		se.Router.POST("/budgets/{id}/save", handlers.HandleBudgetUpdate(app))
		se.Router.POST("/budgets/{id}/status", handlers.HandleBudgetStatus(app))
		se.Router.GET("/budgets/{id}/export/excel", handlers.HandleBudgetExportExcel(app, &cfg))
		se.Router.GET("/budgets/{id}/export/pdf", handlers.HandleBudgetExportPDF(app, &cfg))

		// ── Stored items ─────────────────────────────────────────
		se.Router.PATCH("/budgets/{id}/items/{itemId}", handlers.HandleItemPatch(app))
		se.Router.DELETE("/budgets/{id}/items/{itemId}", handlers.HandleItemDelete(app))

		// Budget view and delete (after specific /budgets/{id}/* routes)
		se.Router.GET("/budgets/{id}", handlers.HandleBudgetView(app))
		se.Router.DELETE("/budgets/{id}", handlers.HandleBudgetDelete(app))

		return se.Next()
	})

	if err := app.Start(); err != nil {
		log.Fatal(err)
	}
}
