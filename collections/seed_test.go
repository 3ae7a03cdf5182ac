package collections_test

import (
	"testing"

	"budgetdesk/collections"
	"budgetdesk/services"
	"budgetdesk/testhelpers"
)

func TestSeed_CreatesData(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	if err := collections.Seed(app); err != nil {
		t.Fatalf("Seed() error: %v", err)
	}

	customers, err := app.FindAllRecords("customers")
	if err != nil {
		t.Fatalf("query customers error: %v", err)
	}
	if len(customers) != 3 {
		t.Fatalf("expected 3 customers, got %d", len(customers))
	}

	budgets, _ := app.FindAllRecords("budgets")
	if len(budgets) != 4 {
		t.Fatalf("expected 4 budgets, got %d", len(budgets))
	}

	for _, b := range budgets {
		items, _, err := services.LoadBudgetItems(app, b.Id)
		if err != nil {
			t.Fatalf("load items: %v", err)
		}
		if len(items) == 0 {
			t.Errorf("budget %s has no items", b.Id)
		}
		totals := services.CalcQuotationTotals(items)
		if diff := b.GetFloat("total_selling") - totals.TotalSelling; diff > 0.001 || diff < -0.001 {
			t.Errorf("budget %s total_selling = %v, want %v", b.Id, b.GetFloat("total_selling"), totals.TotalSelling)
		}
	}

	history, _ := app.FindAllRecords("budget_history")
	if len(history) != len(budgets) {
		t.Errorf("expected one history row per budget, got %d", len(history))
	}
}

func TestSeed_Idempotent(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	if err := collections.Seed(app); err != nil {
		t.Fatalf("first Seed() error: %v", err)
	}
	if err := collections.Seed(app); err != nil {
		t.Fatalf("second Seed() error: %v", err)
	}

	customers, _ := app.FindAllRecords("customers")
	if len(customers) != 3 {
		t.Errorf("expected 3 customers after re-seed, got %d", len(customers))
	}
}

func TestSeed_NextBudgetNumberContinues(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	if err := collections.Seed(app); err != nil {
		t.Fatalf("Seed() error: %v", err)
	}

	next, err := services.NextBudgetNumber(app)
	if err != nil {
		t.Fatalf("NextBudgetNumber() error: %v", err)
	}
	if next != 5 {
		t.Errorf("NextBudgetNumber() = %d, want 5", next)
	}
}

func TestEnsureAdminUser(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	if err := collections.EnsureAdminUser(app, "admin@example.pt", ""); err != nil {
		t.Fatalf("EnsureAdminUser() with empty password error: %v", err)
	}
	if n, _ := app.CountRecords("users"); n != 0 {
		t.Fatalf("expected no users without password, got %d", n)
	}

	if err := collections.EnsureAdminUser(app, "admin@example.pt", "s3cret-pass"); err != nil {
		t.Fatalf("EnsureAdminUser() error: %v", err)
	}
	if err := collections.EnsureAdminUser(app, "other@example.pt", "s3cret-pass"); err != nil {
		t.Fatalf("second EnsureAdminUser() error: %v", err)
	}

	user, err := app.FindAuthRecordByEmail("users", "admin@example.pt")
	if err != nil {
		t.Fatalf("admin user not found: %v", err)
	}
	if !user.ValidatePassword("s3cret-pass") {
		t.Error("admin password does not validate")
	}
	if n, _ := app.CountRecords("users"); n != 1 {
		t.Errorf("expected exactly 1 user, got %d", n)
	}
}
