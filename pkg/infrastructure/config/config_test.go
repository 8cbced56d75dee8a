package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"golang.org/x/text/language"

	"github.com/prisonproc/procurement/pkg/domain/entities"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write %s: %v", name, err)
	}
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	config, err := LoadConfig("")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if err := config.Validate(); err != nil {
		t.Errorf("Default config should validate, got %v", err)
	}

	wantStart := time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC)
	if got := config.Ledger.GetPeriodStart(); !got.Equal(wantStart) {
		t.Errorf("Expected period start %v, got %v", wantStart, got)
	}
	if got := config.Ledger.GetPeriodDays(); got != 24 {
		t.Errorf("Expected 24 days, got %d", got)
	}
	if got := config.Ledger.GetOpeningFloor(); got != 50 {
		t.Errorf("Expected opening floor 50, got %d", got)
	}
	if got := config.Forecast.GetHorizon(); got != 14 {
		t.Errorf("Expected horizon 14, got %d", got)
	}
	if got := config.Output.GetFormat(); got != "text" {
		t.Errorf("Expected text format, got %s", got)
	}
	if tag, _ := config.Language(); tag != language.Dutch {
		t.Errorf("Expected Dutch collation, got %v", tag)
	}
}

func TestLoadConfig_File(t *testing.T) {
	path := writeFile(t, "procure.yaml", `
mode: local
prison: gent
locale: fr
ledger:
  period_start: "2025-01-01"
  period_days: 10
  opening_floor: 0
forecast:
  horizon: 7
output:
  format: JSON
`)

	config, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if err := config.Validate(); err != nil {
		t.Fatalf("Expected valid config, got %v", err)
	}

	mode, _ := config.OperatingMode()
	if mode != entities.ModeLocal || config.Prison != "gent" {
		t.Errorf("Expected local mode for gent, got %v/%s", mode, config.Prison)
	}
	if got := config.Ledger.GetPeriodDays(); got != 10 {
		t.Errorf("Expected 10 days, got %d", got)
	}
	if got := config.Ledger.GetOpeningFloor(); got != 0 {
		t.Errorf("Expected explicit opening floor 0, got %d", got)
	}
	if got := config.Forecast.GetHorizon(); got != 7 {
		t.Errorf("Expected horizon 7, got %d", got)
	}
	if got := config.Output.GetFormat(); got != "json" {
		t.Errorf("Expected json format, got %s", got)
	}
	if tag, _ := config.Language(); tag != language.French {
		t.Errorf("Expected French collation, got %v", tag)
	}
}

func TestLoadConfig_Errors(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Expected error for missing file")
	}

	path := writeFile(t, "broken.yaml", "mode: [central\n")
	if _, err := LoadConfig(path); err == nil {
		t.Error("Expected error for invalid YAML")
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		EnvMode:     "local",
		EnvPrison:   " brugge ",
		EnvLocale:   "",
		EnvScenario: "/data/scenario",
	}
	lookup := func(name string) (string, bool) {
		v, ok := env[name]
		return v, ok
	}

	config := Default()
	config.Locale = "de"
	config.ApplyEnv(lookup)

	if config.Mode != "local" || config.Prison != "brugge" || config.Scenario != "/data/scenario" {
		t.Errorf("Unexpected overrides %+v", config)
	}
	if config.Locale != "de" {
		t.Errorf("Empty variable should not override locale, got %s", config.Locale)
	}
}

func TestLoadEnvFile(t *testing.T) {
	path := writeFile(t, ".env", "PROCURE_PRISON=leuven\nPROCURE_MODE=local\n")
	t.Setenv(EnvMode, "central")
	t.Setenv(EnvPrison, "")
	os.Unsetenv(EnvPrison)

	if err := LoadEnvFile(path); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if got := os.Getenv(EnvPrison); got != "leuven" {
		t.Errorf("Expected prison from .env, got %q", got)
	}
	if got := os.Getenv(EnvMode); got != "central" {
		t.Errorf("Existing variable should win over .env, got %q", got)
	}

	if err := LoadEnvFile(filepath.Join(t.TempDir(), ".env")); err != nil {
		t.Errorf("Missing .env should be ignored, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	negative := int64(-1)
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{"central", Config{Mode: "central"}, false},
		{"local_without_prison", Config{Mode: "local"}, true},
		{"local_with_prison", Config{Mode: "local", Prison: "gent"}, false},
		{"unknown_mode", Config{Mode: "regional"}, true},
		{"bad_locale", Config{Locale: "not a locale!"}, true},
		{"bad_period_start", Config{Ledger: LedgerConfig{PeriodStart: "01/12/2024"}}, true},
		{"negative_floor", Config{Ledger: LedgerConfig{OpeningFloor: &negative}}, true},
		{"bad_format", Config{Output: OutputConfig{Format: "pdf"}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Expected error=%v, got %v", tt.wantErr, err)
			}
		})
	}
}
