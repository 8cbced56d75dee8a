package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prisonproc/procurement/pkg/application/dto"
	"github.com/prisonproc/procurement/pkg/domain/entities"
	"github.com/prisonproc/procurement/pkg/domain/repositories"
	"github.com/prisonproc/procurement/pkg/infrastructure/repositories/csv"
	"github.com/prisonproc/procurement/pkg/infrastructure/repositories/xlsx"
)

func noEnv(string) (string, bool) { return "", false }

func envOf(vars map[string]string) func(string) (string, bool) {
	return func(name string) (string, bool) {
		v, ok := vars[name]
		return v, ok
	}
}

// testConfig returns a demo-scenario configuration isolated from the
// process environment
func testConfig(stdout, stderr *bytes.Buffer) Config {
	return Config{Stdout: stdout, Stderr: stderr, Lookup: noEnv}
}

func runList(t *testing.T, cfg ListConfig) *dto.ListResult {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cfg.Config.Stdout, cfg.Config.Stderr = &stdout, &stderr
	if cfg.Config.Lookup == nil {
		cfg.Config.Lookup = noEnv
	}
	cfg.Format = "json"

	if err := NewListCommand(cfg).Execute(context.Background()); err != nil {
		t.Fatalf("List failed: %v", err)
	}

	var result dto.ListResult
	if err := json.Unmarshal(stdout.Bytes(), &result); err != nil {
		t.Fatalf("List output is not JSON: %v\n%s", err, stdout.String())
	}
	return &result
}

func TestListCommand_Pages(t *testing.T) {
	tests := []struct {
		name     string
		cfg      ListConfig
		wantRows int
		first    string
	}{
		{"prisons_wallonia", ListConfig{Page: "prisons", Filters: []string{"region=wallonia"}}, 8, ""},
		{"prisons_by_capacity", ListConfig{Page: "prisons", Sort: "capacity:desc"}, 23, "HAR"},
		{"suppliers_all", ListConfig{Page: "suppliers"}, 20, ""},
		{"users_search", ListConfig{Page: "users", Search: "peeters"}, 1, ""},
		{"warehouses_all", ListConfig{Page: "warehouses"}, 12, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := runList(t, tt.cfg)
			if len(result.Rows) != tt.wantRows {
				t.Errorf("Expected %d rows, got %d", tt.wantRows, len(result.Rows))
			}
			if tt.first != "" && result.Rows[0][0] != tt.first {
				t.Errorf("Expected first row %s, got %s", tt.first, result.Rows[0][0])
			}
			if result.Scope != "central" {
				t.Errorf("Expected central scope, got %s", result.Scope)
			}
		})
	}
}

func TestListCommand_LocalScope(t *testing.T) {
	tests := []struct {
		name     string
		cfg      ListConfig
		wantRows int
		scope    string
	}{
		{"flags", ListConfig{Config: Config{Mode: "local", Prison: "antwerpen"}, Page: "warehouses"}, 5, "local (antwerpen)"},
		{"env", ListConfig{Config: Config{Lookup: envOf(map[string]string{"PROCURE_MODE": "local", "PROCURE_PRISON": "gent"})}, Page: "warehouses"}, 4, "local (gent)"},
		{"flag_overrides_env", ListConfig{Config: Config{Mode: "central", Lookup: envOf(map[string]string{"PROCURE_MODE": "local", "PROCURE_PRISON": "gent"})}, Page: "warehouses"}, 12, "central"},
		{"local_suppliers", ListConfig{Config: Config{Mode: "local", Prison: "antwerpen"}, Page: "suppliers"}, 11, "local (antwerpen)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := runList(t, tt.cfg)
			if len(result.Rows) != tt.wantRows {
				t.Errorf("Expected %d rows, got %d", tt.wantRows, len(result.Rows))
			}
			if result.Scope != tt.scope {
				t.Errorf("Expected scope %q, got %q", tt.scope, result.Scope)
			}
		})
	}
}

func TestListCommand_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "procure.yaml")
	if err := os.WriteFile(path, []byte("mode: local\nprison: brugge\n"), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	result := runList(t, ListConfig{Config: Config{ConfigFile: path}, Page: "warehouses"})
	if len(result.Rows) != 3 {
		t.Errorf("Expected 3 brugge warehouses, got %d", len(result.Rows))
	}
}

func TestListCommand_Errors(t *testing.T) {
	tests := []struct {
		name string
		cfg  ListConfig
	}{
		{"missing_page", ListConfig{}},
		{"unknown_page", ListConfig{Page: "orders"}},
		{"bad_filter", ListConfig{Page: "prisons", Filters: []string{"region"}}},
		{"unknown_filter", ListConfig{Page: "prisons", Filters: []string{"color=red"}}},
		{"bad_sort", ListConfig{Page: "prisons", Sort: "name:sideways"}},
		{"local_without_prison", ListConfig{Config: Config{Mode: "local"}, Page: "prisons"}},
		{"unknown_prison", ListConfig{Config: Config{Mode: "local", Prison: "alcatraz"}, Page: "prisons"}},
		{"missing_scenario", ListConfig{Config: Config{ScenarioDir: "/does/not/exist"}, Page: "prisons"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			cfg := tt.cfg
			cfg.Stdout, cfg.Stderr, cfg.Lookup = &stdout, &stderr, noEnv
			if err := NewListCommand(cfg).Execute(context.Background()); err == nil {
				t.Error("Expected error")
			}
		})
	}
}

func TestStockCommand_Text(t *testing.T) {
	var stdout, stderr bytes.Buffer
	cfg := StockConfig{Config: testConfig(&stdout, &stderr), ArticleID: "17", Horizon: 7}

	if err := NewStockCommand(cfg).Execute(context.Background()); err != nil {
		t.Fatalf("Stock failed: %v", err)
	}

	out := stdout.String()
	for _, want := range []string{"📦 ART-000017", "Beginvoorraad", "Forecast horizon: 7 days", "Articles: 1"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected output to contain %q, got:\n%s", want, out)
		}
	}
	if stderr.Len() != 0 {
		t.Errorf("Expected no warnings for the demo scenario, got %q", stderr.String())
	}
}

func TestStockCommand_Errors(t *testing.T) {
	tests := []struct {
		name string
		cfg  StockConfig
	}{
		{"bad_from", StockConfig{From: "01/12/2024"}},
		{"window_reversed", StockConfig{From: "2024-12-20", To: "2024-12-10"}},
		{"negative_horizon", StockConfig{Horizon: -1}},
		{"unknown_article", StockConfig{ArticleID: "999"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			cfg := tt.cfg
			cfg.Config = testConfig(&stdout, &stderr)
			if err := NewStockCommand(cfg).Execute(context.Background()); err == nil {
				t.Error("Expected error")
			}
		})
	}
}

func TestGenerateCommand_CSV(t *testing.T) {
	dir := t.TempDir()
	var stdout, stderr bytes.Buffer
	cfg := testConfig(&stdout, &stderr)
	cfg.OutputDir = dir

	if err := NewGenerateCommand(cfg).Execute(context.Background()); err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	loader, err := csv.NewDirLoader(dir)
	if err != nil {
		t.Fatalf("Failed to open output: %v", err)
	}
	ds, err := loader.LoadDataset()
	if err != nil {
		t.Fatalf("Generated scenario does not load: %v", err)
	}
	if len(ds.Suppliers) != 20 || len(ds.Prisons) != 23 || len(ds.Stock) != 8 {
		t.Errorf("Unexpected counts %v", ds.Counts())
	}

	movements, err := loader.LoadMovements(csv.MovementsFile)
	if err != nil {
		t.Fatalf("Failed to load movements: %v", err)
	}
	assertLedgersReconcile(t, ds, movements)
}

func TestGenerateCommand_XLSX(t *testing.T) {
	dir := t.TempDir()
	var stdout, stderr bytes.Buffer
	cfg := testConfig(&stdout, &stderr)
	cfg.OutputDir = dir
	cfg.Format = "xlsx"
	cfg.Mode, cfg.Prison = "local", "antwerpen"

	if err := NewGenerateCommand(cfg).Execute(context.Background()); err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	// the first sheet is the supplier list and imports again
	ds := &repositories.Dataset{}
	report, err := xlsx.NewImporter().ImportFile(filepath.Join(dir, WorkbookFile), ds)
	if err != nil {
		t.Fatalf("Failed to import generated workbook: %v", err)
	}
	if report.Kind != "suppliers" || report.SuccessCount != 11 || report.HasErrors() {
		t.Errorf("Unexpected import report %+v", report)
	}
}

func TestGenerateCommand_Errors(t *testing.T) {
	tests := []struct {
		name   string
		dir    bool
		format string
	}{
		{"missing_output", false, ""},
		{"json_format", true, "json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			cfg := testConfig(&stdout, &stderr)
			cfg.Format = tt.format
			if tt.dir {
				cfg.OutputDir = t.TempDir()
			}
			if err := NewGenerateCommand(cfg).Execute(context.Background()); err == nil {
				t.Error("Expected error")
			}
		})
	}
}

func TestValidateCommand(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if err := NewValidateCommand(testConfig(&stdout, &stderr)).Execute(context.Background()); err != nil {
		t.Fatalf("Demo scenario should validate: %v", err)
	}
	if !strings.Contains(stdout.String(), "✅ Scenario is valid") {
		t.Errorf("Expected valid message, got:\n%s", stdout.String())
	}
}

func TestValidateCommand_DanglingReferences(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, csv.PrisonsFile, "id,code,name,city,region,capacity,phone,blocked\n"+
		"antwerpen,ANT,Gevangenis Antwerpen,Antwerpen,flanders,440,,false\n")
	writeFile(t, dir, csv.WarehousesFile, "id,code,name,prison_id\n"+
		"wh-001,MAG-001,Hoofdmagazijn,antwerpen\n"+
		"wh-002,MAG-002,Keukenvoorraad,nowhere\n")

	var stdout, stderr bytes.Buffer
	cfg := testConfig(&stdout, &stderr)
	cfg.ScenarioDir = dir

	err := NewValidateCommand(cfg).Execute(context.Background())
	if err == nil {
		t.Fatal("Expected validation error")
	}
	if !strings.Contains(stdout.String(), `warehouse wh-002: prison "nowhere" does not exist`) {
		t.Errorf("Expected dangling reference in report, got:\n%s", stdout.String())
	}

	// the other commands refuse the scenario
	list := ListConfig{Config: cfg, Page: "warehouses"}
	if err := NewListCommand(list).Execute(context.Background()); err == nil {
		t.Error("Expected list to fail on an invalid scenario")
	}
}

func TestCommands_Help(t *testing.T) {
	var stdout, stderr bytes.Buffer
	cfg := testConfig(&stdout, &stderr)
	cfg.Help = true
	ctx := context.Background()

	commands := []interface{ Execute(context.Context) error }{
		NewListCommand(ListConfig{Config: cfg}),
		NewStockCommand(StockConfig{Config: cfg}),
		NewGenerateCommand(cfg),
		NewValidateCommand(cfg),
	}
	for _, c := range commands {
		stdout.Reset()
		if err := c.Execute(ctx); err != nil {
			t.Errorf("Help returned error: %v", err)
		}
		if !strings.Contains(stdout.String(), "USAGE:") {
			t.Errorf("Expected usage text, got:\n%s", stdout.String())
		}
	}
}

func TestStringList(t *testing.T) {
	var list StringList
	for _, v := range []string{"region=flanders", "blocked=false"} {
		if err := list.Set(v); err != nil {
			t.Fatalf("Set failed: %v", err)
		}
	}
	if list.String() != "region=flanders,blocked=false" {
		t.Errorf("Unexpected list %q", list.String())
	}
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", name, err)
	}
}

// assertLedgersReconcile checks that every stock position has a ledger
// ending at its declared stock
func assertLedgersReconcile(t *testing.T, ds *repositories.Dataset, movements []entities.StockMovement) {
	t.Helper()
	last := make(map[string]entities.Quantity)
	for _, m := range movements {
		last[m.ArticleID+"@"+m.WarehouseID] = m.RunningStock
	}

	if len(last) != len(ds.Stock) {
		t.Errorf("Expected ledgers for %d positions, got %d", len(ds.Stock), len(last))
	}
	for _, s := range ds.Stock {
		key := s.ArticleID + "@" + s.WarehouseID
		final, ok := last[key]
		if !ok {
			t.Errorf("No ledger for %s", key)
			continue
		}
		if final != s.CurrentStock {
			t.Errorf("Ledger of %s ends at %d, expected %d", key, final, s.CurrentStock)
		}
	}
}
