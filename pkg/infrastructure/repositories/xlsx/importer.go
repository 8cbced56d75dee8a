// Package xlsx imports supplier and article master data from spreadsheets
// and exports list pages and ledgers as workbooks.
package xlsx

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/prisonproc/procurement/pkg/domain/repositories"
	"github.com/prisonproc/procurement/pkg/infrastructure/repositories/csv"
)

// ErrUnknownSheet is returned when the header of the first sheet matches
// neither the supplier nor the article layout
var ErrUnknownSheet = errors.New("unrecognized sheet layout")

// ImportReport summarizes one spreadsheet import. Row errors do not stop
// the import; they are collected here.
type ImportReport struct {
	Sheet         string
	Kind          string
	TotalRows     int
	SuccessCount  int
	SkippedCount  int
	ErrorCount    int
	SkippedItems  []string
	ErrorMessages []string
}

// HasErrors reports whether any row was rejected
func (r *ImportReport) HasErrors() bool {
	return r.ErrorCount > 0
}

func (r *ImportReport) fail(rowNum int, format string, args ...any) {
	r.ErrorCount++
	r.ErrorMessages = append(r.ErrorMessages, fmt.Sprintf("Row %d: ", rowNum)+fmt.Sprintf(format, args...))
}

// Importer reads master data from the first sheet of a workbook
type Importer struct{}

// NewImporter creates a spreadsheet importer
func NewImporter() *Importer {
	return &Importer{}
}

// ImportFile imports a workbook from disk into the dataset
func (im *Importer) ImportFile(path string, into *repositories.Dataset) (*ImportReport, error) {
	lower := strings.ToLower(path)
	if !strings.HasSuffix(lower, ".xlsx") && !strings.HasSuffix(lower, ".xlsm") {
		return nil, fmt.Errorf("only Excel files (.xlsx, .xlsm) are supported: %s", path)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook %s: %w", path, err)
	}
	defer file.Close()

	return im.Import(file, into)
}

// Import reads the first sheet of a workbook. The header row selects the
// layout (supplier or article columns, as in the CSV scenario files).
// Valid rows are appended to the dataset; rows whose ID or code is already
// present are skipped.
func (im *Importer) Import(r io.Reader, into *repositories.Dataset) (*ImportReport, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read Excel file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("no sheets found in Excel file")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read rows of sheet %s: %w", sheets[0], err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("sheet %s must contain header and at least one data row", sheets[0])
	}

	report := &ImportReport{Sheet: sheets[0], TotalRows: len(rows) - 1}

	switch header := rows[0]; {
	case matchesHeader(header, csv.SupplierHeader):
		report.Kind = "suppliers"
		im.importSuppliers(rows[1:], into, report)
	case matchesHeader(header, csv.ArticleHeader):
		report.Kind = "articles"
		im.importArticles(rows[1:], into, report)
	default:
		return nil, fmt.Errorf("%w: sheet %s header %v", ErrUnknownSheet, sheets[0], header)
	}

	return report, nil
}

func (im *Importer) importSuppliers(rows [][]string, into *repositories.Dataset, report *ImportReport) {
	known := make(map[string]bool, len(into.Suppliers)*2)
	for _, s := range into.Suppliers {
		known["id:"+s.ID] = true
		known["code:"+s.Code] = true
	}

	for i, row := range rows {
		rowNum := i + 2
		if blankRow(row) {
			continue
		}

		supplier, err := csv.ParseSupplier(pad(row, len(csv.SupplierHeader)))
		if err != nil {
			report.fail(rowNum, "%v", err)
			continue
		}
		if known["id:"+supplier.ID] || known["code:"+supplier.Code] {
			report.SkippedCount++
			report.SkippedItems = append(report.SkippedItems, supplier.Code)
			continue
		}

		known["id:"+supplier.ID] = true
		known["code:"+supplier.Code] = true
		into.Suppliers = append(into.Suppliers, supplier)
		report.SuccessCount++
	}
}

func (im *Importer) importArticles(rows [][]string, into *repositories.Dataset, report *ImportReport) {
	known := make(map[string]bool, len(into.Articles)*2)
	for _, a := range into.Articles {
		known["id:"+a.ID] = true
		known["code:"+a.Code] = true
	}

	for i, row := range rows {
		rowNum := i + 2
		if blankRow(row) {
			continue
		}

		article, err := csv.ParseArticle(pad(row, len(csv.ArticleHeader)))
		if err != nil {
			report.fail(rowNum, "%v", err)
			continue
		}
		if known["id:"+article.ID] || known["code:"+article.Code] {
			report.SkippedCount++
			report.SkippedItems = append(report.SkippedItems, article.Code)
			continue
		}

		known["id:"+article.ID] = true
		known["code:"+article.Code] = true
		into.Articles = append(into.Articles, article)
		report.SuccessCount++
	}
}

func matchesHeader(actual, expected []string) bool {
	actual = trimTrailingEmpty(actual)
	if len(actual) != len(expected) {
		return false
	}
	for i, col := range expected {
		if strings.ToLower(strings.TrimSpace(actual[i])) != col {
			return false
		}
	}
	return true
}

func trimTrailingEmpty(row []string) []string {
	for len(row) > 0 && strings.TrimSpace(row[len(row)-1]) == "" {
		row = row[:len(row)-1]
	}
	return row
}

func blankRow(row []string) bool {
	return len(trimTrailingEmpty(row)) == 0
}

// pad extends a row whose trailing cells are empty; GetRows omits them
func pad(row []string, n int) []string {
	if len(row) >= n {
		return row[:n]
	}
	out := make([]string, n)
	copy(out, row)
	return out
}
