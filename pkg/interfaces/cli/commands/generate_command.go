package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/prisonproc/procurement/pkg/domain/entities"
	"github.com/prisonproc/procurement/pkg/domain/repositories"
	"github.com/prisonproc/procurement/pkg/infrastructure/repositories/csv"
	"github.com/prisonproc/procurement/pkg/infrastructure/repositories/xlsx"
)

// WorkbookFile is the file name of an XLSX scenario export
const WorkbookFile = "scenario.xlsx"

// GenerateCommand writes the scoped scenario plus the synthesized ledger
// of every stock position
type GenerateCommand struct {
	config Config
}

// NewGenerateCommand creates a new generate command
func NewGenerateCommand(config Config) *GenerateCommand {
	return &GenerateCommand{config: config}
}

// Execute runs the generate command
func (cmd *GenerateCommand) Execute(ctx context.Context) error {
	if cmd.config.Help {
		cmd.printHelp()
		return nil
	}

	ws, err := cmd.config.load(true)
	if err != nil {
		return err
	}
	if ws.settings.Output.Dir == "" {
		return fmt.Errorf("validation error: -output directory is required")
	}

	format := ws.settings.Output.GetFormat()
	if format == "text" {
		format = "csv"
	}
	if format != "csv" && format != "xlsx" {
		return fmt.Errorf("unsupported generate format: %s (expected csv or xlsx)", format)
	}

	service, err := newTimelineService(&cmd.config, ws)
	if err != nil {
		return err
	}

	cmd.config.logf("🔄 Synthesizing ledgers for %d stock positions...\n", len(ws.dataset.Stock))
	movements, err := service.GenerateMovements(ctx)
	if err != nil {
		return fmt.Errorf("failed to generate movements: %w", err)
	}

	if format == "xlsx" {
		err = cmd.writeWorkbook(ws.settings.Output.Dir, ws.dataset, movements)
	} else {
		err = cmd.writeCSV(ws.settings.Output.Dir, ws.dataset, movements)
	}
	if err != nil {
		return err
	}

	cmd.config.logf("✅ Scenario generated successfully in %s\n", ws.settings.Output.Dir)
	return nil
}

func (cmd *GenerateCommand) writeCSV(dir string, ds *repositories.Dataset, movements []entities.StockMovement) error {
	writer, err := csv.NewWriter(dir)
	if err != nil {
		return err
	}

	written, err := writer.WriteDataset(ds)
	if err != nil {
		return fmt.Errorf("failed to write scenario: %w", err)
	}
	for _, path := range written {
		cmd.config.logf("📦 %s\n", path)
	}

	path, err := writer.WriteMovements(csv.MovementsFile, movements)
	if err != nil {
		return fmt.Errorf("failed to write movements: %w", err)
	}
	cmd.config.logf("📦 %s (%d movements)\n", path, len(movements))
	return nil
}

func (cmd *GenerateCommand) writeWorkbook(dir string, ds *repositories.Dataset, movements []entities.StockMovement) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	movementRows := make([][]any, len(movements))
	for i, m := range movements {
		movementRows[i] = anyRow(csv.MovementRecord(m))
	}

	sheets := []xlsx.Sheet{
		sheet(csv.SuppliersFile, csv.SupplierHeader, ds.Suppliers, csv.SupplierRecord),
		sheet(csv.ArticlesFile, csv.ArticleHeader, ds.Articles, csv.ArticleRecord),
		sheet(csv.PrisonsFile, csv.PrisonHeader, ds.Prisons, csv.PrisonRecord),
		sheet(csv.UsersFile, csv.UserHeader, ds.Users, csv.UserRecord),
		sheet(csv.WarehousesFile, csv.WarehouseHeader, ds.Warehouses, csv.WarehouseRecord),
		sheet(csv.StockFile, csv.StockHeader, ds.Stock, csv.StockRecord),
		{Name: sheetTitle(csv.MovementsFile), Header: csv.MovementHeader, Rows: movementRows},
	}

	path := filepath.Join(dir, WorkbookFile)
	if err := xlsx.SaveWorkbook(path, sheets); err != nil {
		return err
	}
	cmd.config.logf("📦 %s (%d sheets, %d movements)\n", path, len(sheets), len(movements))
	return nil
}

// sheet lays out records the way the matching CSV file does, so the
// supplier and article sheets can be imported again
func sheet[T any](filename string, header []string, records []*T, format func(*T) []string) xlsx.Sheet {
	rows := make([][]any, len(records))
	for i, r := range records {
		rows[i] = anyRow(format(r))
	}
	return xlsx.Sheet{Name: sheetTitle(filename), Header: header, Rows: rows}
}

func sheetTitle(filename string) string {
	return strings.TrimSuffix(filename, filepath.Ext(filename))
}

func anyRow(record []string) []any {
	row := make([]any, len(record))
	for i, v := range record {
		row[i] = v
	}
	return row
}

// printHelp shows usage information
func (cmd *GenerateCommand) printHelp() {
	fmt.Fprintf(cmd.config.stdout(), `procure generate - Export the scenario with synthesized stock movements

USAGE:
    procure generate -output <dir> [options]

Writes suppliers, articles, prisons, users, warehouses and stock of the
selected scope plus movements.csv with the ledger of every stock position.
With -format xlsx everything goes into one workbook (%s) instead.

OPTIONS:
%s
EXAMPLES:
    procure generate -output ./demo_export
    procure generate -scenario ./my_scenario -format xlsx -output ./export --verbose
    procure generate -mode local -prison antwerpen -output ./antwerpen
`, WorkbookFile, sharedHelp)
}
