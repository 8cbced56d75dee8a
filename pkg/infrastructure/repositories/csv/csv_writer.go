package csv

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/prisonproc/procurement/pkg/domain/entities"
	"github.com/prisonproc/procurement/pkg/domain/repositories"
)

// MovementsFile is the file name of synthesized ledgers
const MovementsFile = "movements.csv"

// MovementHeader is the column order of a ledger file
var MovementHeader = []string{"id", "article_id", "article_code", "article_name", "warehouse_id", "date", "type", "quantity", "reference", "running_stock"}

// Writer writes scenario data as CSV files into a directory
type Writer struct {
	dir string
}

// NewWriter creates the output directory and returns a writer for it
func NewWriter(dir string) (*Writer, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	return &Writer{dir: dir}, nil
}

// WriteDataset writes one file per non-empty dataset slice and returns the
// paths written
func (w *Writer) WriteDataset(ds *repositories.Dataset) ([]string, error) {
	tables := []struct {
		name   string
		header []string
		rows   [][]string
	}{
		{SuppliersFile, SupplierHeader, mapRows(ds.Suppliers, SupplierRecord)},
		{ArticlesFile, ArticleHeader, mapRows(ds.Articles, ArticleRecord)},
		{PrisonsFile, PrisonHeader, mapRows(ds.Prisons, PrisonRecord)},
		{UsersFile, UserHeader, mapRows(ds.Users, UserRecord)},
		{WarehousesFile, WarehouseHeader, mapRows(ds.Warehouses, WarehouseRecord)},
		{StockFile, StockHeader, mapRows(ds.Stock, StockRecord)},
	}

	var written []string
	for _, t := range tables {
		if len(t.rows) == 0 {
			continue
		}
		path, err := w.WriteTable(t.name, t.header, t.rows)
		if err != nil {
			return written, err
		}
		written = append(written, path)
	}
	return written, nil
}

// WriteMovements writes ledger movements to a file in the output directory
func (w *Writer) WriteMovements(filename string, movements []entities.StockMovement) (string, error) {
	rows := make([][]string, len(movements))
	for i, m := range movements {
		rows[i] = MovementRecord(m)
	}
	return w.WriteTable(filename, MovementHeader, rows)
}

// WriteTable writes a header and rows to a file in the output directory
func (w *Writer) WriteTable(filename string, header []string, rows [][]string) (string, error) {
	path := filepath.Join(w.dir, filename)
	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(header); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := writer.WriteAll(rows); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}

// LoadMovements loads a ledger file, for example one written by WriteMovements
func (l *Loader) LoadMovements(filename string) ([]entities.StockMovement, error) {
	rows, err := l.readRows(filename, "movements", MovementHeader)
	if err != nil {
		return nil, err
	}

	movements := make([]entities.StockMovement, 0, len(rows))
	for i, record := range rows {
		m, err := parseMovement(record)
		if err != nil {
			return nil, fmt.Errorf("movements CSV row %d: %w", i+2, err)
		}
		movements = append(movements, m)
	}
	return movements, nil
}

func parseMovement(record []string) (entities.StockMovement, error) {
	date, err := time.Parse(entities.DateLayout, strings.TrimSpace(record[5]))
	if err != nil {
		return entities.StockMovement{}, fmt.Errorf("invalid date format: %s (expected YYYY-MM-DD)", record[5])
	}
	kind, err := entities.ParseMovementType(strings.ToLower(strings.TrimSpace(record[6])))
	if err != nil {
		return entities.StockMovement{}, err
	}
	quantity, err := parseQuantity("quantity", record[7])
	if err != nil {
		return entities.StockMovement{}, err
	}
	running, err := parseQuantity("running_stock", record[9])
	if err != nil {
		return entities.StockMovement{}, err
	}

	return entities.StockMovement{
		ID:           record[0],
		ArticleID:    record[1],
		ArticleCode:  record[2],
		ArticleName:  record[3],
		WarehouseID:  record[4],
		Date:         date,
		Type:         kind,
		Quantity:     quantity,
		Reference:    record[8],
		RunningStock: running,
	}, nil
}

func mapRows[T any](records []*T, format func(*T) []string) [][]string {
	rows := make([][]string, len(records))
	for i, r := range records {
		rows[i] = format(r)
	}
	return rows
}

// SupplierRecord renders a supplier in SupplierHeader order
func SupplierRecord(s *entities.Supplier) []string {
	return []string{s.ID, s.Code, s.Name, s.Telephone, s.Email, string(s.Language), strconv.FormatBool(s.Published), strconv.FormatBool(s.ActiveForLocal)}
}

// ArticleRecord renders an article in ArticleHeader order
func ArticleRecord(a *entities.Article) []string {
	return []string{a.ID, a.Code, a.Description, a.Group, a.Subgroup, a.Packaging, string(a.Unit), a.Brand, a.EANCode, a.Intrastat, strconv.FormatBool(a.Blocked)}
}

// PrisonRecord renders a prison in PrisonHeader order
func PrisonRecord(p *entities.Prison) []string {
	return []string{p.ID, p.Code, p.Name, p.City, string(p.Region), strconv.Itoa(p.Capacity), p.Phone, strconv.FormatBool(p.Blocked)}
}

// UserRecord renders a user in UserHeader order
func UserRecord(u *entities.User) []string {
	lastLogin := ""
	if u.LastLogin != nil {
		lastLogin = u.LastLogin.Format(entities.DateLayout)
	}
	return []string{
		u.ID, u.Email, u.Name, string(u.AuthType), u.O365Group, strconv.FormatBool(u.Blocked),
		FormatRoles(u.Roles), strings.Join(u.AssignedPrisons, listSeparator), strings.Join(u.MenuRights, listSeparator),
		u.CreatedAt.Format(entities.DateLayout), lastLogin,
	}
}

// WarehouseRecord renders a warehouse in WarehouseHeader order
func WarehouseRecord(w *entities.Warehouse) []string {
	return []string{w.ID, w.Code, w.Name, w.PrisonID}
}

// StockRecord renders a stock position in StockHeader order
func StockRecord(t *entities.StockTarget) []string {
	return []string{t.ArticleID, t.WarehouseID, strconv.FormatInt(int64(t.CurrentStock), 10), strconv.FormatInt(int64(t.MinStock), 10)}
}

// MovementRecord renders a movement in MovementHeader order
func MovementRecord(m entities.StockMovement) []string {
	return []string{
		m.ID, m.ArticleID, m.ArticleCode, m.ArticleName, m.WarehouseID,
		m.Date.Format(entities.DateLayout), m.Type.String(),
		strconv.FormatInt(int64(m.Quantity), 10), m.Reference,
		strconv.FormatInt(int64(m.RunningStock), 10),
	}
}
