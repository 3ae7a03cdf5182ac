// Package testhelpers provides utilities for testing PocketBase-based applications.
package testhelpers

import (
	"strings"
	"testing"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"budgetdesk/collections"
	"budgetdesk/services"
)

// TestPassword is the password of every user created by CreateTestUser.
const TestPassword = "correct-horse-42"

// NewTestApp creates a PocketBase instance backed by a temporary directory.
// It bootstraps the app and runs collections.Setup to create all tables.
// The temporary directory is cleaned up automatically when the test finishes.
func NewTestApp(t *testing.T) *pocketbase.PocketBase {
	t.Helper()

	tmpDir := t.TempDir()
	app := pocketbase.NewWithConfig(pocketbase.Config{
		DefaultDataDir: tmpDir,
	})

	if err := app.Bootstrap(); err != nil {
		t.Fatalf("failed to bootstrap test app: %v", err)
	}

	collections.Setup(app)

	return app
}

// CreateTestUser creates a verified user with TestPassword and returns it.
func CreateTestUser(t *testing.T, app core.App, email string) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("users")
	if err != nil {
		t.Fatalf("failed to find users collection: %v", err)
	}

	record := core.NewRecord(col)
	record.SetEmail(email)
	record.SetPassword(TestPassword)
	record.SetVerified(true)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test user: %v", err)
	}

	return record
}

// CreateTestCustomer creates an individual customer with the given name and returns it.
func CreateTestCustomer(t *testing.T, app core.App, name string) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("customers")
	if err != nil {
		t.Fatalf("failed to find customers collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("type", "individual")
	record.Set("name", name)
	record.Set("email", strings.ToLower(strings.ReplaceAll(name, " ", "."))+"@example.pt")
	record.Set("city", "Lisboa")
	record.Set("is_active", true)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test customer: %v", err)
	}

	return record
}

// CreateTestBudget creates a draft budget for the customer with the given
// items (priced and stored in order) and returns it with totals written.
func CreateTestBudget(t *testing.T, app core.App, customerID string, items ...services.LineItem) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("budgets")
	if err != nil {
		t.Fatalf("failed to find budgets collection: %v", err)
	}

	number, err := services.NextBudgetNumber(app)
	if err != nil {
		t.Fatalf("failed to get budget number: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("customer", customerID)
	record.Set("budget_number", number)
	record.Set("revision", 1)
	record.Set("status", string(services.StatusDraft))
	record.Set("payment_term", "immediate")
	record.Set("validity_days", 30)
	services.SetBudgetTotals(record, items)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test budget: %v", err)
	}
	if err := services.ReplaceBudgetItems(app, record.Id, items); err != nil {
		t.Fatalf("failed to save test budget items: %v", err)
	}

	return record
}

// TestItem returns a priced line item for use with CreateTestBudget.
func TestItem(reference string, quantity, cost, selling float64) services.LineItem {
	return services.CalcLineItem(services.ItemInput{
		Reference:    reference,
		Description:  "Item " + reference,
		Quantity:     quantity,
		CostPrice:    cost,
		SellingPrice: selling,
	})
}

// AssertHTMLContains checks that body contains all specified fragments.
func AssertHTMLContains(t *testing.T, body string, fragments ...string) {
	t.Helper()

	for _, frag := range fragments {
		if !strings.Contains(body, frag) {
			t.Errorf("expected HTML to contain %q, but it was not found\nbody (first 500 chars): %s",
				frag, truncate(body, 500))
		}
	}
}

// AssertHTMLNotContains checks that body contains none of the fragments.
func AssertHTMLNotContains(t *testing.T, body string, fragments ...string) {
	t.Helper()

	for _, frag := range fragments {
		if strings.Contains(body, frag) {
			t.Errorf("expected HTML not to contain %q\nbody (first 500 chars): %s",
				frag, truncate(body, 500))
		}
	}
}

// AssertHXRedirect checks that the response has an HX-Redirect header with the expected URL.
func AssertHXRedirect(t *testing.T, headerVal, expectedURL string) {
	t.Helper()

	if headerVal != expectedURL {
		t.Errorf("expected HX-Redirect %q, got %q", expectedURL, headerVal)
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
