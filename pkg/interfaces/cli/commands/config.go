package commands

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/language"

	"github.com/prisonproc/procurement/pkg/application/services/scope"
	"github.com/prisonproc/procurement/pkg/domain/repositories"
	"github.com/prisonproc/procurement/pkg/domain/services"
	"github.com/prisonproc/procurement/pkg/infrastructure/config"
	"github.com/prisonproc/procurement/pkg/infrastructure/fixtures"
	"github.com/prisonproc/procurement/pkg/infrastructure/repositories/csv"
	"github.com/prisonproc/procurement/pkg/infrastructure/repositories/memory"
	"github.com/prisonproc/procurement/pkg/infrastructure/repositories/xlsx"
	"github.com/prisonproc/procurement/pkg/interfaces/cli/output"
)

// Config holds the flags shared by every subcommand. Empty values fall
// back to the config file and the PROCURE_* environment.
type Config struct {
	ConfigFile  string
	ScenarioDir string
	ImportXLSX  string
	Mode        string
	Prison      string
	Format      string
	OutputDir   string
	Verbose     bool
	Help        bool

	// Stdout and Stderr default to the process streams
	Stdout io.Writer
	Stderr io.Writer
	// Lookup reads environment variables; nil means os.LookupEnv
	Lookup func(string) (string, bool)
}

// RegisterFlags binds the shared flags to a flag set
func (c *Config) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.ConfigFile, "config", "", "Path to YAML configuration file")
	fs.StringVar(&c.ScenarioDir, "scenario", "", "Path to scenario directory containing CSV files (default: demo scenario)")
	fs.StringVar(&c.ImportXLSX, "import-xlsx", "", "Excel workbook with suppliers or articles to add to the scenario")
	fs.StringVar(&c.Mode, "mode", "", "Operating mode: central or local")
	fs.StringVar(&c.Prison, "prison", "", "Prison ID for local mode")
	fs.StringVar(&c.Format, "format", "", "Output format: text, json, csv, xlsx")
	fs.StringVar(&c.OutputDir, "output", "", "Output directory for results (optional)")
	fs.BoolVar(&c.Verbose, "verbose", false, "Enable verbose output")
	fs.BoolVar(&c.Help, "help", false, "Show help message")
}

func (c *Config) stdout() io.Writer {
	if c.Stdout == nil {
		return os.Stdout
	}
	return c.Stdout
}

func (c *Config) stderr() io.Writer {
	if c.Stderr == nil {
		return os.Stderr
	}
	return c.Stderr
}

func (c *Config) logf(format string, args ...any) {
	if c.Verbose {
		fmt.Fprintf(c.stdout(), format, args...)
	}
}

func (c *Config) warnf(format string, args ...any) {
	fmt.Fprintf(c.stderr(), "Warning: "+format, args...)
}

// settings resolves the effective configuration: file, then environment,
// then flags
func (c *Config) settings() (*config.Config, error) {
	settings, err := config.LoadConfig(c.ConfigFile)
	if err != nil {
		return nil, err
	}
	settings.ApplyEnv(c.Lookup)

	if c.Mode != "" {
		settings.Mode = c.Mode
	}
	if c.Prison != "" {
		settings.Prison = c.Prison
	}
	if c.ScenarioDir != "" {
		settings.Scenario = c.ScenarioDir
	}
	if c.Format != "" {
		settings.Output.Format = c.Format
	}
	if c.OutputDir != "" {
		settings.Output.Dir = c.OutputDir
	}

	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return settings, nil
}

func (c *Config) outputConfig(settings *config.Config) output.Config {
	return output.Config{
		Format:    settings.Output.GetFormat(),
		OutputDir: settings.Output.Dir,
		Verbose:   c.Verbose,
		Stdout:    c.stdout(),
	}
}

// workspace is a loaded, validated and scoped scenario
type workspace struct {
	settings   *config.Config
	scope      scope.Scope
	locale     language.Tag
	full       *repositories.Dataset
	dataset    *repositories.Dataset
	store      *memory.Store
	validation *services.ValidationResult
	imported   *xlsx.ImportReport
}

// load reads the scenario and narrows it to the configured scope. With
// strict set, a scenario that fails validation is an error.
func (c *Config) load(strict bool) (*workspace, error) {
	settings, err := c.settings()
	if err != nil {
		return nil, err
	}
	ws := &workspace{settings: settings}

	if ws.locale, err = settings.Language(); err != nil {
		return nil, err
	}

	if ws.full, err = c.loadDataset(settings.Scenario); err != nil {
		return nil, err
	}

	if c.ImportXLSX != "" {
		c.logf("📥 Importing %s...\n", c.ImportXLSX)
		report, err := xlsx.NewImporter().ImportFile(c.ImportXLSX, ws.full)
		if err != nil {
			return nil, fmt.Errorf("error importing workbook: %w", err)
		}
		ws.imported = report
		c.logf("✅ Imported %d %s (%d skipped, %d errors)\n", report.SuccessCount, report.Kind, report.SkippedCount, report.ErrorCount)
		for _, msg := range report.ErrorMessages {
			c.warnf("%s: %s\n", c.ImportXLSX, msg)
		}
	}

	c.logf("🔍 Validating scenario...\n")
	ws.validation = services.NewScenarioValidator().ValidateDataset(ws.full)
	if strict && !ws.validation.Valid() {
		return nil, fmt.Errorf("scenario validation failed: %s", strings.Join(ws.validation.Errors, "; "))
	}

	mode, err := settings.OperatingMode()
	if err != nil {
		return nil, err
	}
	if ws.scope, err = scope.New(mode, settings.Prison); err != nil {
		return nil, err
	}
	if ws.dataset, err = ws.scope.Apply(ws.full); err != nil {
		return nil, err
	}

	if strict {
		if ws.store, err = memory.NewStore(ws.dataset); err != nil {
			return nil, err
		}
	}

	c.logf("✅ Scenario loaded (%s):\n", ws.scope)
	for _, kc := range ws.dataset.Counts() {
		c.logf("  %s: %d\n", kc.Kind, kc.Count)
	}
	c.logf("\n")

	return ws, nil
}

// loadDataset reads a scenario directory, or the demo scenario when no
// directory is configured
func (c *Config) loadDataset(dir string) (*repositories.Dataset, error) {
	if dir == "" {
		c.logf("📂 Loading demo scenario...\n")
		ds, err := fixtures.Load()
		if err != nil {
			return nil, fmt.Errorf("error loading demo scenario: %w", err)
		}
		return ds, nil
	}

	c.logf("📂 Loading scenario from %s...\n", dir)
	loader, err := csv.NewDirLoader(dir)
	if err != nil {
		return nil, err
	}
	ds, err := loader.LoadDataset()
	if err != nil {
		return nil, fmt.Errorf("error loading scenario: %w", err)
	}
	return ds, nil
}

// StringList collects a repeatable flag
type StringList []string

func (s *StringList) String() string {
	return strings.Join(*s, ",")
}

// Set appends one flag value
func (s *StringList) Set(value string) error {
	*s = append(*s, value)
	return nil
}
