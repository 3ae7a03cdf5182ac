package templates

import (
	"strings"
	"testing"

	"github.com/a-h/templ"

	"budgetdesk/services"
)

func TestOptions_MarksSelected(t *testing.T) {
	got := render(t, options([]services.Option{{Value: "a", Label: "A"}, {Value: "b", Label: "B"}}, "b"))
	want := `<option value="a">A</option><option value="b" selected>B</option>`
	if got != want {
		t.Errorf("got %s, want %s", got, want)
	}
}

func TestTextField_EscapesLabelAndValue(t *testing.T) {
	got := render(t, textField(formField{label: "<b>", name: "n", value: `"x" & y`, typ: "text"}, nil))
	want := `<div class="field"><label for="n">&lt;b&gt;</label> <input type="text" id="n" name="n" value="&#34;x&#34; &amp; y" class="input"></div>`
	if got != want {
		t.Errorf("got %s, want %s", got, want)
	}
}

func TestFieldError(t *testing.T) {
	errors := map[string]string{"name": "Name is required", "empty": ""}
	got := render(t, fieldError(errors, "name")) +
		render(t, fieldError(errors, "empty")) +
		render(t, fieldError(errors, "missing"))
	if got != `<p class="field-error">Name is required</p>` {
		t.Errorf("unexpected markup %s", got)
	}
}

func TestStatCard_EmptyValueShowsDash(t *testing.T) {
	got := render(t, statCard("Budgets", ""))
	want := `<div class="stat-card"><span class="stat-label">Budgets</span><strong class="stat-value">-</strong></div>`
	if got != want {
		t.Errorf("got %s, want %s", got, want)
	}
}

func TestIsActive(t *testing.T) {
	tests := []struct {
		href, path string
		want       bool
	}{
		{"/", "/", true},
		{"/", "/budgets", false},
		{"/budgets", "/budgets", true},
		{"/budgets", "/budgets/abc/edit", true},
		{"/budgets", "/budgetsx", false},
	}
	for _, tt := range tests {
		if got := isActive(tt.href, tt.path); got != tt.want {
			t.Errorf("isActive(%q, %q) = %v, want %v", tt.href, tt.path, got, tt.want)
		}
	}
}

func TestPage_Layout(t *testing.T) {
	got := render(t, Page("Budgets", HeaderData{UserEmail: "ana@example.pt", ActivePath: "/budgets/1"}, templ.Raw("<p>body</p>")))
	for _, want := range []string{
		"<!doctype html>",
		"<title>Budgets · Budget Desk</title>",
		`<a href="/budgets" class="nav-link active">Budgets</a>`,
		`<a href="/" class="nav-link">Dashboard</a>`,
		`<span class="user">ana@example.pt</span>`,
		`<main id="main-content"><p>body</p></main>`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("expected layout to contain %q", want)
		}
	}
}

func TestPage_SignedOutHasNoLogout(t *testing.T) {
	got := render(t, Page("Sign in", HeaderData{ActivePath: "/login"}, templ.NopComponent))
	if strings.Contains(got, `action="/logout"`) {
		t.Errorf("logout form rendered without a user: %s", got)
	}
}

func TestBandClass(t *testing.T) {
	seen := map[string]bool{}
	for _, band := range []services.MarginBand{
		services.MarginNegative, services.MarginLow, services.MarginMedium, services.MarginHealthy,
	} {
		cls := BandClass(band)
		if cls == "" || seen[cls] {
			t.Errorf("band %q should have its own class, got %q", band, cls)
		}
		seen[cls] = true
	}
}
