// Package config holds the engine's knobs and the journal configuration.
// Files load as YAML first with a JSON fallback; environment variables with
// the TREASURY_ prefix override file values.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Basis values accepted for annualization.
const (
	Basis360 = 360
	Basis365 = 365
)

// Settings are the calculation parameters shared by every component. The
// engine treats them as part of the computation key: identical
// (entities, as-of, settings) always produce identical results.
type Settings struct {
	// AnnualBasis is the day-count denominator for simple-interest accrual
	// and CFT annualization. 360 or 365.
	AnnualBasis int `json:"annual_basis" yaml:"annual_basis" mapstructure:"annual_basis"`
}

// Config is the complete CLI configuration.
type Config struct {
	Settings Settings      `json:"settings" yaml:"settings" mapstructure:"settings"`
	Journal  JournalConfig `json:"journal" yaml:"journal" mapstructure:"journal"`
}

// JournalConfig selects where computed result records are written.
type JournalConfig struct {
	Type         string `json:"type" yaml:"type" mapstructure:"type"` // "none", "csv" or "sqlite"
	DebtsFile    string `json:"debts_file,omitempty" yaml:"debts_file,omitempty" mapstructure:"debts_file"`
	HoldingsFile string `json:"holdings_file,omitempty" yaml:"holdings_file,omitempty" mapstructure:"holdings_file"`
	DBPath       string `json:"db_path,omitempty" yaml:"db_path,omitempty" mapstructure:"db_path"`
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Settings: Settings{AnnualBasis: Basis365},
		Journal:  JournalConfig{Type: "none"},
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if err := c.Settings.Validate(); err != nil {
		return err
	}
	switch c.Journal.Type {
	case "", "none":
	case "csv":
		if c.Journal.DebtsFile == "" || c.Journal.HoldingsFile == "" {
			return fmt.Errorf("journal debts_file and holdings_file required for CSV type")
		}
	case "sqlite":
		if c.Journal.DBPath == "" {
			return fmt.Errorf("journal db_path required for SQLite type")
		}
	default:
		return fmt.Errorf("journal.type must be 'none', 'csv' or 'sqlite'")
	}
	return nil
}

// Validate checks the calculation settings.
func (s Settings) Validate() error {
	if s.AnnualBasis != Basis360 && s.AnnualBasis != Basis365 {
		return fmt.Errorf("annual_basis must be 360 or 365, got %d", s.AnnualBasis)
	}
	return nil
}

// LoadFromFile loads configuration from a file (YAML with JSON fallback),
// then applies TREASURY_* environment overrides, e.g.
// TREASURY_SETTINGS_ANNUAL_BASIS=360. An empty path loads defaults plus
// environment only.
func LoadFromFile(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			if jerr := json.Unmarshal(data, cfg); jerr != nil {
				return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
			}
		}
	}

	v := viper.New()
	v.SetEnvPrefix("TREASURY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if basis := v.GetInt("settings_annual_basis"); basis != 0 {
		cfg.Settings.AnnualBasis = basis
	}
	if jt := v.GetString("journal_type"); jt != "" {
		cfg.Journal.Type = jt
	}
	if db := v.GetString("journal_db_path"); db != "" {
		cfg.Journal.DBPath = db
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// SaveToFile saves configuration to a file (YAML or JSON based on extension).
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error
	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}
