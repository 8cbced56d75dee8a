package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/prisonproc/procurement/pkg/application/dto"
	"github.com/prisonproc/procurement/pkg/domain/entities"
	"github.com/prisonproc/procurement/pkg/infrastructure/repositories/csv"
	"github.com/prisonproc/procurement/pkg/infrastructure/repositories/xlsx"
)

// Config holds configuration for output generation
type Config struct {
	Format    string
	OutputDir string
	Verbose   bool
	// Stdout receives text output and progress lines; nil means os.Stdout
	Stdout io.Writer
}

func (c Config) out() io.Writer {
	if c.Stdout == nil {
		return os.Stdout
	}
	return c.Stdout
}

func (c Config) saved(what, path string) {
	if c.Verbose {
		fmt.Fprintf(c.out(), "💾 %s saved to: %s\n", what, path)
	}
}

// GenerateList writes a rendered list page in the configured format
func GenerateList(result *dto.ListResult, config Config) error {
	switch config.Format {
	case "", "text":
		return generateListText(result, config)
	case "json":
		return writeJSON(result, result.Page+".json", config)
	case "csv":
		return generateListCSV(result, config)
	case "xlsx":
		return generateListXLSX(result, config)
	default:
		return fmt.Errorf("unsupported output format: %s", config.Format)
	}
}

// GenerateTimeline writes stock timelines in the configured format
func GenerateTimeline(result *dto.TimelineResult, config Config) error {
	switch config.Format {
	case "", "text":
		return generateTimelineText(result, config)
	case "json":
		return writeJSON(timelineJSON(result), "stock.json", config)
	case "csv":
		return generateTimelineCSV(result, config)
	case "xlsx":
		return generateTimelineXLSX(result, config)
	default:
		return fmt.Errorf("unsupported output format: %s", config.Format)
	}
}

func generateListText(result *dto.ListResult, config Config) error {
	w := config.out()
	title := pageTitle(result.Page)
	fmt.Fprintf(w, "📋 %s (%s)\n", title, result.Scope)
	fmt.Fprintf(w, "%s\n", strings.Repeat("=", utf8.RuneCountInString(title)+len(result.Scope)+6))

	if result.Search != "" {
		fmt.Fprintf(w, "Search: %s\n", result.Search)
	}
	if result.Sort != "" {
		fmt.Fprintf(w, "Sort: %s\n", result.Sort)
	}
	fmt.Fprintln(w)

	if len(result.Rows) > 0 {
		writeTable(w, result.Headers, result.Rows)
		fmt.Fprintln(w)
	}
	fmt.Fprintf(w, "%s\n", result.Summary)
	return nil
}

func generateListCSV(result *dto.ListResult, config Config) error {
	if config.OutputDir == "" {
		return fmt.Errorf("output directory required for CSV format")
	}
	writer, err := csv.NewWriter(config.OutputDir)
	if err != nil {
		return err
	}
	path, err := writer.WriteTable(result.Page+".csv", result.Headers, result.Rows)
	if err != nil {
		return err
	}
	config.saved("CSV list", path)
	return nil
}

func generateListXLSX(result *dto.ListResult, config Config) error {
	if config.OutputDir == "" {
		return fmt.Errorf("output directory required for XLSX format")
	}
	if err := os.MkdirAll(config.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	rows := make([][]any, len(result.Rows))
	for i, r := range result.Rows {
		rows[i] = cells(r)
	}
	path := filepath.Join(config.OutputDir, result.Page+".xlsx")
	sheet := xlsx.Sheet{Name: pageTitle(result.Page), Header: result.Headers, Rows: rows}
	if err := xlsx.SaveWorkbook(path, []xlsx.Sheet{sheet}); err != nil {
		return err
	}
	config.saved("Workbook", path)
	return nil
}

func generateTimelineText(result *dto.TimelineResult, config Config) error {
	w := config.out()
	fmt.Fprintf(w, "📊 Stock Overview (%s)\n", result.Scope)
	fmt.Fprintf(w, "=====================\n\n")
	fmt.Fprintf(w, "Period: %s to %s\n", result.PeriodStart.Format(entities.DateLayout), result.PeriodEnd.Format(entities.DateLayout))
	fmt.Fprintf(w, "Window: %s to %s\n", result.From.Format(entities.DateLayout), result.To.Format(entities.DateLayout))
	fmt.Fprintf(w, "Forecast horizon: %d days\n", result.Horizon)
	fmt.Fprintf(w, "Articles: %d\n\n", len(result.Articles))

	if config.OutputDir != "" {
		if err := os.MkdirAll(config.OutputDir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	for i := range result.Articles {
		a := &result.Articles[i]
		writeArticleText(w, a)

		if config.OutputDir != "" {
			path := filepath.Join(config.OutputDir, chartFileName(a.Stock))
			svg := NewStockChart(a).GenerateSVG(a)
			if err := os.WriteFile(path, []byte(svg), 0644); err != nil {
				return fmt.Errorf("failed to write chart: %w", err)
			}
			config.saved("Chart", path)
		}
	}

	if unreconciled := result.Unreconciled(); len(unreconciled) > 0 {
		fmt.Fprintf(w, "⚠️  %d ledger(s) do not end at the declared stock\n", len(unreconciled))
	}
	return nil
}

func writeArticleText(w io.Writer, a *dto.ArticleTimeline) {
	s := a.Stock
	status := "OK"
	if a.LowStock {
		status = "LOW"
	}

	fmt.Fprintf(w, "📦 %s %s [%s]\n", s.ArticleCode, s.ArticleName, s.WarehouseID)
	fmt.Fprintf(w, "Current stock: %d %s   Minimum: %d %s   Status: %s\n\n",
		s.CurrentStock, s.Unit, s.MinStock, s.Unit, status)

	if len(a.Window) == 0 {
		fmt.Fprintf(w, "No stock movements in this period\n")
	} else {
		rows := make([][]string, len(a.Window))
		for i, m := range a.Window {
			rows[i] = []string{
				m.Date.Format(entities.DateLayout),
				m.Type.String(),
				strconv.FormatInt(int64(m.Quantity), 10),
				m.Reference,
				strconv.FormatInt(int64(m.RunningStock), 10),
			}
		}
		writeTable(w, []string{"Date", "Type", "Qty", "Reference", "Balance"}, rows)
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Average consumption: %s %s/day\n", a.AverageConsumption.StringFixed(2), s.Unit)
	if a.BelowMinDay > 0 {
		fmt.Fprintf(w, "Below minimum: day %d (%s)\n", a.BelowMinDay, a.BelowMinDate.Format(entities.DateLayout))
	}
	if a.DepletionDay > 0 {
		fmt.Fprintf(w, "Depleted: day %d (%s)\n", a.DepletionDay, a.DepletionDate.Format(entities.DateLayout))
	}
	if s.Gap != 0 {
		fmt.Fprintf(w, "⚠️  Ledger differs from declared stock by %d %s\n", s.Gap, s.Unit)
	}
	fmt.Fprintln(w)
}

// SummaryHeader is the column order of the per-article summary table
var SummaryHeader = []string{
	"article_id", "article_code", "article_name", "warehouse_id", "unit",
	"current_stock", "min_stock", "low_stock", "gap", "avg_consumption",
	"below_min_day", "below_min_date", "depletion_day", "depletion_date",
}

// ForecastHeader is the column order of the chart series table
var ForecastHeader = []string{"article_id", "warehouse_id", "date", "actual", "forecast"}

func generateTimelineCSV(result *dto.TimelineResult, config Config) error {
	if config.OutputDir == "" {
		return fmt.Errorf("output directory required for CSV format")
	}
	writer, err := csv.NewWriter(config.OutputDir)
	if err != nil {
		return err
	}

	var movements []entities.StockMovement
	var summary, series [][]string
	for i := range result.Articles {
		a := &result.Articles[i]
		movements = append(movements, a.Window...)
		summary = append(summary, summaryRecord(a))
		series = append(series, seriesRecords(a)...)
	}

	path, err := writer.WriteMovements(csv.MovementsFile, movements)
	if err != nil {
		return err
	}
	config.saved("Movements", path)

	if path, err = writer.WriteTable("forecast.csv", ForecastHeader, series); err != nil {
		return err
	}
	config.saved("Forecast", path)

	if path, err = writer.WriteTable("summary.csv", SummaryHeader, summary); err != nil {
		return err
	}
	config.saved("Summary", path)
	return nil
}

func generateTimelineXLSX(result *dto.TimelineResult, config Config) error {
	if config.OutputDir == "" {
		return fmt.Errorf("output directory required for XLSX format")
	}
	if err := os.MkdirAll(config.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	summary := xlsx.Sheet{Name: "Summary", Header: SummaryHeader}
	sheets := []xlsx.Sheet{summary}
	for i := range result.Articles {
		a := &result.Articles[i]
		sheets[0].Rows = append(sheets[0].Rows, cells(summaryRecord(a)))

		sheet := xlsx.Sheet{
			Name:   a.Stock.ArticleCode + " " + a.Stock.WarehouseID,
			Header: []string{"Date", "Type", "Quantity", "Reference", "Balance"},
		}
		for _, m := range a.Window {
			sheet.Rows = append(sheet.Rows, []any{
				m.Date.Format(entities.DateLayout), m.Type.String(), int64(m.Quantity), m.Reference, int64(m.RunningStock),
			})
		}
		sheets = append(sheets, sheet)
	}

	path := filepath.Join(config.OutputDir, "stock.xlsx")
	if err := xlsx.SaveWorkbook(path, sheets); err != nil {
		return err
	}
	config.saved("Workbook", path)
	return nil
}

func summaryRecord(a *dto.ArticleTimeline) []string {
	s := a.Stock
	return []string{
		s.ArticleID, s.ArticleCode, s.ArticleName, s.WarehouseID, string(s.Unit),
		strconv.FormatInt(int64(s.CurrentStock), 10),
		strconv.FormatInt(int64(s.MinStock), 10),
		strconv.FormatBool(a.LowStock),
		strconv.FormatInt(int64(s.Gap), 10),
		a.AverageConsumption.StringFixed(2),
		optionalDay(a.BelowMinDay), optionalDate(a.BelowMinDay, a.BelowMinDate.Format(entities.DateLayout)),
		optionalDay(a.DepletionDay), optionalDate(a.DepletionDay, a.DepletionDate.Format(entities.DateLayout)),
	}
}

func seriesRecords(a *dto.ArticleTimeline) [][]string {
	rows := make([][]string, len(a.Series))
	for i, p := range a.Series {
		rows[i] = []string{
			a.Stock.ArticleID, a.Stock.WarehouseID, p.Date.Format(entities.DateLayout),
			optionalQuantity(p.Actual), optionalQuantity(p.Forecast),
		}
	}
	return rows
}

type movementJSON struct {
	ID           string `json:"id"`
	Date         string `json:"date"`
	Type         string `json:"type"`
	Quantity     int64  `json:"quantity"`
	Reference    string `json:"reference"`
	RunningStock int64  `json:"running_stock"`
}

type pointJSON struct {
	Date     string `json:"date"`
	Actual   *int64 `json:"actual,omitempty"`
	Forecast *int64 `json:"forecast,omitempty"`
}

type articleJSON struct {
	ArticleID          string         `json:"article_id"`
	ArticleCode        string         `json:"article_code"`
	ArticleName        string         `json:"article_name"`
	WarehouseID        string         `json:"warehouse_id"`
	Unit               string         `json:"unit"`
	CurrentStock       int64          `json:"current_stock"`
	MinStock           int64          `json:"min_stock"`
	LowStock           bool           `json:"low_stock"`
	Gap                int64          `json:"gap"`
	AverageConsumption string         `json:"average_consumption"`
	BelowMinDate       string         `json:"below_min_date,omitempty"`
	DepletionDate      string         `json:"depletion_date,omitempty"`
	Movements          []movementJSON `json:"movements"`
	Series             []pointJSON    `json:"series"`
}

type timelineDocument struct {
	Scope       string        `json:"scope"`
	PeriodStart string        `json:"period_start"`
	PeriodEnd   string        `json:"period_end"`
	From        string        `json:"from"`
	To          string        `json:"to"`
	Horizon     int           `json:"horizon"`
	Articles    []articleJSON `json:"articles"`
}

func timelineJSON(result *dto.TimelineResult) timelineDocument {
	doc := timelineDocument{
		Scope:       result.Scope,
		PeriodStart: result.PeriodStart.Format(entities.DateLayout),
		PeriodEnd:   result.PeriodEnd.Format(entities.DateLayout),
		From:        result.From.Format(entities.DateLayout),
		To:          result.To.Format(entities.DateLayout),
		Horizon:     result.Horizon,
		Articles:    make([]articleJSON, 0, len(result.Articles)),
	}

	for _, a := range result.Articles {
		s := a.Stock
		art := articleJSON{
			ArticleID:          s.ArticleID,
			ArticleCode:        s.ArticleCode,
			ArticleName:        s.ArticleName,
			WarehouseID:        s.WarehouseID,
			Unit:               string(s.Unit),
			CurrentStock:       int64(s.CurrentStock),
			MinStock:           int64(s.MinStock),
			LowStock:           a.LowStock,
			Gap:                int64(s.Gap),
			AverageConsumption: a.AverageConsumption.StringFixed(2),
			BelowMinDate:       optionalDate(a.BelowMinDay, a.BelowMinDate.Format(entities.DateLayout)),
			DepletionDate:      optionalDate(a.DepletionDay, a.DepletionDate.Format(entities.DateLayout)),
			Movements:          make([]movementJSON, len(a.Window)),
			Series:             make([]pointJSON, len(a.Series)),
		}
		for i, m := range a.Window {
			art.Movements[i] = movementJSON{
				ID:           m.ID,
				Date:         m.Date.Format(entities.DateLayout),
				Type:         m.Type.String(),
				Quantity:     int64(m.Quantity),
				Reference:    m.Reference,
				RunningStock: int64(m.RunningStock),
			}
		}
		for i, p := range a.Series {
			art.Series[i] = pointJSON{Date: p.Date.Format(entities.DateLayout)}
			if p.Actual != nil {
				v := int64(*p.Actual)
				art.Series[i].Actual = &v
			}
			if p.Forecast != nil {
				v := int64(*p.Forecast)
				art.Series[i].Forecast = &v
			}
		}
		doc.Articles = append(doc.Articles, art)
	}
	return doc
}

// writeJSON prints to stdout, or saves to filename when an output
// directory is set
func writeJSON(v any, filename string, config Config) error {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if config.OutputDir == "" {
		fmt.Fprintln(config.out(), string(jsonData))
		return nil
	}

	if err := os.MkdirAll(config.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	path := filepath.Join(config.OutputDir, filename)
	if err := os.WriteFile(path, jsonData, 0644); err != nil {
		return fmt.Errorf("failed to write JSON file: %w", err)
	}
	config.saved("JSON results", path)
	return nil
}

// writeTable prints left-aligned columns sized to their widest cell, with a
// dashed separator under the header
func writeTable(w io.Writer, header []string, rows [][]string) {
	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = utf8.RuneCountInString(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && utf8.RuneCountInString(cell) > widths[i] {
				widths[i] = utf8.RuneCountInString(cell)
			}
		}
	}

	line := func(cells []string) {
		parts := make([]string, len(widths))
		for i := range widths {
			cell := ""
			if i < len(cells) {
				cell = cells[i]
			}
			parts[i] = fmt.Sprintf("%-*s", widths[i], cell)
		}
		fmt.Fprintln(w, strings.TrimRight(strings.Join(parts, "  "), " "))
	}

	line(header)
	dashes := make([]string, len(widths))
	for i, n := range widths {
		dashes[i] = strings.Repeat("-", n)
	}
	line(dashes)
	for _, row := range rows {
		line(row)
	}
}

func pageTitle(page string) string {
	if page == "" {
		return "List"
	}
	return strings.ToUpper(page[:1]) + page[1:]
}

func chartFileName(s *entities.ArticleStock) string {
	return strings.ToLower(s.ArticleCode+"_"+s.WarehouseID) + ".svg"
}

func cells(row []string) []any {
	out := make([]any, len(row))
	for i, c := range row {
		out[i] = c
	}
	return out
}

func optionalDay(day int) string {
	if day == 0 {
		return ""
	}
	return strconv.Itoa(day)
}

func optionalDate(day int, date string) string {
	if day == 0 {
		return ""
	}
	return date
}

func optionalQuantity(q *entities.Quantity) string {
	if q == nil {
		return ""
	}
	return strconv.FormatInt(int64(*q), 10)
}
