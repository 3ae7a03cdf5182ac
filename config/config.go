// Package config loads the business settings of the budget desk from a TOML
// file. Server settings (data dir, listen address) stay on PocketBase flags.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// EnvPath names the environment variable that overrides the config path.
const EnvPath = "BUDGETDESK_CONFIG"

// DefaultPath is used when EnvPath is unset.
const DefaultPath = "budgetdesk.toml"

// Config holds all budget desk configuration.
type Config struct {
	Company CompanyConfig `toml:"company"`
	Pricing PricingConfig `toml:"pricing"`
	Budget  BudgetConfig  `toml:"budget"`
	Seed    SeedConfig    `toml:"seed"`
}

// CompanyConfig is the issuer printed on exported quotations.
type CompanyConfig struct {
	Name    string `toml:"name"`
	TaxID   string `toml:"tax_id,omitempty"`
	Address string `toml:"address,omitempty"`
	Email   string `toml:"email,omitempty"`
	Phone   string `toml:"phone,omitempty"`
}

// PricingConfig holds pricing defaults.
type PricingConfig struct {
	DefaultTargetMargin float64 `toml:"default_target_margin"`
}

// BudgetConfig holds defaults for new budgets.
type BudgetConfig struct {
	DefaultValidityDays int    `toml:"default_validity_days"`
	DefaultPaymentTerm  string `toml:"default_payment_term"`
	DefaultTerms        string `toml:"default_terms,omitempty"`
}

// SeedConfig controls the demo data inserted into an empty database.
type SeedConfig struct {
	Enabled       bool   `toml:"enabled"`
	AdminEmail    string `toml:"admin_email"`
	AdminPassword string `toml:"admin_password,omitempty"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Company: CompanyConfig{
			Name: "Budget Desk",
		},
		Pricing: PricingConfig{
			DefaultTargetMargin: 30,
		},
		Budget: BudgetConfig{
			DefaultValidityDays: 30,
			DefaultPaymentTerm:  "immediate",
		},
		Seed: SeedConfig{
			Enabled:    true,
			AdminEmail: "admin@budgetdesk.local",
		},
	}
}

// Path returns the config file path, honouring EnvPath.
func Path() string {
	if p := os.Getenv(EnvPath); p != "" {
		return p
	}
	return DefaultPath
}

// Load reads the config file at Path, returning defaults if it doesn't exist.
func Load() (Config, error) {
	return LoadFrom(Path())
}

// LoadFrom reads the config file at path, returning defaults if it doesn't
// exist. Keys missing from the file keep their default values.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate rejects settings the application cannot work with.
func (c Config) Validate() error {
	if c.Pricing.DefaultTargetMargin < 0 {
		return errors.New("pricing.default_target_margin must not be negative")
	}
	if c.Budget.DefaultValidityDays < 0 {
		return errors.New("budget.default_validity_days must not be negative")
	}
	return nil
}
