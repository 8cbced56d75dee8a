// Package config loads the dashboard configuration from a YAML file,
// an optional .env file and PROCURE_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/prisonproc/procurement/pkg/domain/entities"
)

// Environment variables that override the config file
const (
	EnvMode     = "PROCURE_MODE"
	EnvPrison   = "PROCURE_PRISON"
	EnvLocale   = "PROCURE_LOCALE"
	EnvScenario = "PROCURE_SCENARIO"
)

const (
	defaultPeriodStart  = "2024-12-01"
	defaultPeriodDays   = 24
	defaultOpeningFloor = 50
	defaultHorizon      = 14
	defaultFormat       = "text"
)

type Config struct {
	Mode     string         `yaml:"mode"`   // "central" or "local"
	Prison   string         `yaml:"prison"` // selected prison in local mode
	Locale   string         `yaml:"locale"` // BCP 47 tag used to sort text columns
	Scenario string         `yaml:"scenario"`
	Ledger   LedgerConfig   `yaml:"ledger"`
	Forecast ForecastConfig `yaml:"forecast"`
	Output   OutputConfig   `yaml:"output"`
}

type LedgerConfig struct {
	PeriodStart  string `yaml:"period_start"` // e.g. "2024-12-01"
	PeriodDays   int    `yaml:"period_days"`
	OpeningFloor *int64 `yaml:"opening_floor"`
}

// GetPeriodStart returns the first day of the synthesized ledgers
func (l *LedgerConfig) GetPeriodStart() time.Time {
	start, err := time.Parse(entities.DateLayout, l.PeriodStart)
	if err != nil {
		start, _ = time.Parse(entities.DateLayout, defaultPeriodStart)
	}
	return start
}

// GetPeriodDays returns the ledger length in days
func (l *LedgerConfig) GetPeriodDays() int {
	if l.PeriodDays <= 0 {
		return defaultPeriodDays
	}
	return l.PeriodDays
}

// GetOpeningFloor returns the minimum opening balance
func (l *LedgerConfig) GetOpeningFloor() entities.Quantity {
	if l.OpeningFloor == nil {
		return defaultOpeningFloor
	}
	return entities.Quantity(*l.OpeningFloor)
}

type ForecastConfig struct {
	Horizon int `yaml:"horizon"` // days
}

// GetHorizon returns the number of projected days
func (f *ForecastConfig) GetHorizon() int {
	if f.Horizon <= 0 {
		return defaultHorizon
	}
	return f.Horizon
}

type OutputConfig struct {
	Format string `yaml:"format"` // text, json, csv or xlsx
	Dir    string `yaml:"dir"`
}

// GetFormat returns the output format, "text" when unset
func (o *OutputConfig) GetFormat() string {
	if o.Format == "" {
		return defaultFormat
	}
	return strings.ToLower(o.Format)
}

// Default returns the configuration used when no file is given
func Default() *Config {
	return &Config{Mode: entities.ModeCentral.String(), Locale: "nl"}
}

// LoadConfig reads the configuration from a YAML file. An empty path
// yields the defaults.
func LoadConfig(configPath string) (*Config, error) {
	config := Default()
	if configPath == "" {
		return config, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", configPath, err)
	}

	return config, nil
}

// LoadEnvFile loads a .env file into the process environment. Variables
// that are already set win. A missing file is not an error.
func LoadEnvFile(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load env file %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overrides settings from the environment
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	for name, target := range map[string]*string{
		EnvMode:     &c.Mode,
		EnvPrison:   &c.Prison,
		EnvLocale:   &c.Locale,
		EnvScenario: &c.Scenario,
	} {
		if v, ok := lookup(name); ok && strings.TrimSpace(v) != "" {
			*target = strings.TrimSpace(v)
		}
	}
}

// OperatingMode parses the configured mode
func (c *Config) OperatingMode() (entities.OperatingMode, error) {
	return entities.ParseOperatingMode(c.Mode)
}

// Language returns the collation language, Dutch when unset
func (c *Config) Language() (language.Tag, error) {
	if c.Locale == "" {
		return language.Dutch, nil
	}
	tag, err := language.Parse(c.Locale)
	if err != nil {
		return language.Und, fmt.Errorf("invalid locale %q: %w", c.Locale, err)
	}
	return tag, nil
}

// Validate checks the settings that have no usable default
func (c *Config) Validate() error {
	mode, err := c.OperatingMode()
	if err != nil {
		return err
	}
	if mode == entities.ModeLocal && c.Prison == "" {
		return fmt.Errorf("local mode requires a prison (set prison or %s)", EnvPrison)
	}
	if _, err := c.Language(); err != nil {
		return err
	}
	if c.Ledger.PeriodStart != "" {
		if _, err := time.Parse(entities.DateLayout, c.Ledger.PeriodStart); err != nil {
			return fmt.Errorf("invalid ledger period_start: %s (expected YYYY-MM-DD)", c.Ledger.PeriodStart)
		}
	}
	if c.Ledger.OpeningFloor != nil && *c.Ledger.OpeningFloor < 0 {
		return fmt.Errorf("ledger opening_floor cannot be negative: %d", *c.Ledger.OpeningFloor)
	}
	switch c.Output.GetFormat() {
	case "text", "json", "csv", "xlsx":
	default:
		return fmt.Errorf("unknown output format: %s", c.Output.Format)
	}
	return nil
}
