package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "budgetdesk.toml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadFrom_MissingFile(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if cfg != DefaultConfig() {
		t.Errorf("expected defaults, got %+v", cfg)
	}
}

func TestLoadFrom_PartialOverride(t *testing.T) {
	path := writeConfig(t, `
[company]
name = "Acme Lda"
tax_id = "PT500000000"

[pricing]
default_target_margin = 25.5
`)
	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if cfg.Company.Name != "Acme Lda" || cfg.Company.TaxID != "PT500000000" {
		t.Errorf("unexpected company: %+v", cfg.Company)
	}
	if cfg.Pricing.DefaultTargetMargin != 25.5 {
		t.Errorf("DefaultTargetMargin = %v, want 25.5", cfg.Pricing.DefaultTargetMargin)
	}
	if cfg.Budget.DefaultValidityDays != 30 || cfg.Budget.DefaultPaymentTerm != "immediate" {
		t.Errorf("budget defaults lost: %+v", cfg.Budget)
	}
}

func TestLoadFrom_Malformed(t *testing.T) {
	path := writeConfig(t, "[company\nname = ")
	if _, err := LoadFrom(path); err == nil {
		t.Error("expected error for malformed file")
	}
}

func TestLoadFrom_Invalid(t *testing.T) {
	path := writeConfig(t, "[pricing]\ndefault_target_margin = -5\n")
	if _, err := LoadFrom(path); err == nil {
		t.Error("expected error for negative margin")
	}
}

func TestPath_Env(t *testing.T) {
	t.Setenv(EnvPath, "/etc/budgetdesk.toml")
	if Path() != "/etc/budgetdesk.toml" {
		t.Errorf("Path() = %q", Path())
	}
	t.Setenv(EnvPath, "")
	if Path() != DefaultPath {
		t.Errorf("Path() = %q, want %q", Path(), DefaultPath)
	}
}
