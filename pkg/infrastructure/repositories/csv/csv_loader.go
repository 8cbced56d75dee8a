package csv

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/prisonproc/procurement/pkg/domain/entities"
	"github.com/prisonproc/procurement/pkg/domain/repositories"
)

// Scenario file names
const (
	SuppliersFile  = "suppliers.csv"
	ArticlesFile   = "articles.csv"
	PrisonsFile    = "prisons.csv"
	UsersFile      = "users.csv"
	WarehousesFile = "warehouses.csv"
	StockFile      = "stock.csv"
)

// Expected headers, in column order
var (
	SupplierHeader  = []string{"id", "code", "name", "telephone", "email", "language", "published", "active_for_local"}
	ArticleHeader   = []string{"id", "code", "description", "group", "subgroup", "packaging", "unit", "brand", "ean_code", "intrastat", "blocked"}
	PrisonHeader    = []string{"id", "code", "name", "city", "region", "capacity", "phone", "blocked"}
	UserHeader      = []string{"id", "email", "name", "auth_type", "o365_group", "blocked", "roles", "assigned_prisons", "menu_rights", "created_at", "last_login"}
	WarehouseHeader = []string{"id", "code", "name", "prison_id"}
	StockHeader     = []string{"article_id", "warehouse_id", "current_stock", "min_stock"}
)

// listSeparator joins multi-valued cells such as assigned prisons
const listSeparator = "|"

// Loader handles loading scenario data from CSV files
type Loader struct {
	fsys fs.FS
}

// NewLoader creates a CSV loader reading from fsys
func NewLoader(fsys fs.FS) *Loader {
	return &Loader{fsys: fsys}
}

// NewDirLoader creates a CSV loader reading from a scenario directory
func NewDirLoader(dir string) (*Loader, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to open scenario directory %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("scenario path %s is not a directory", dir)
	}
	return NewLoader(os.DirFS(dir)), nil
}

// LoadDataset loads every scenario file. Missing files leave the
// corresponding slice empty.
func (l *Loader) LoadDataset() (*repositories.Dataset, error) {
	var (
		ds  repositories.Dataset
		err error
	)

	if ds.Suppliers, err = optional(l.LoadSuppliers(SuppliersFile)); err != nil {
		return nil, err
	}
	if ds.Articles, err = optional(l.LoadArticles(ArticlesFile)); err != nil {
		return nil, err
	}
	if ds.Prisons, err = optional(l.LoadPrisons(PrisonsFile)); err != nil {
		return nil, err
	}
	if ds.Users, err = optional(l.LoadUsers(UsersFile)); err != nil {
		return nil, err
	}
	if ds.Warehouses, err = optional(l.LoadWarehouses(WarehousesFile)); err != nil {
		return nil, err
	}
	if ds.Stock, err = optional(l.LoadStock(StockFile)); err != nil {
		return nil, err
	}

	return &ds, nil
}

func optional[T any](records []T, err error) ([]T, error) {
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	return records, err
}

// LoadSuppliers loads suppliers from a CSV file
func (l *Loader) LoadSuppliers(filename string) ([]*entities.Supplier, error) {
	rows, err := l.readRows(filename, "suppliers", SupplierHeader)
	if err != nil {
		return nil, err
	}

	suppliers := make([]*entities.Supplier, 0, len(rows))
	for i, record := range rows {
		supplier, err := ParseSupplier(record)
		if err != nil {
			return nil, fmt.Errorf("suppliers CSV row %d: %w", i+2, err)
		}
		suppliers = append(suppliers, supplier)
	}
	return suppliers, nil
}

// LoadArticles loads articles from a CSV file
func (l *Loader) LoadArticles(filename string) ([]*entities.Article, error) {
	rows, err := l.readRows(filename, "articles", ArticleHeader)
	if err != nil {
		return nil, err
	}

	articles := make([]*entities.Article, 0, len(rows))
	for i, record := range rows {
		article, err := ParseArticle(record)
		if err != nil {
			return nil, fmt.Errorf("articles CSV row %d: %w", i+2, err)
		}
		articles = append(articles, article)
	}
	return articles, nil
}

// LoadPrisons loads prisons from a CSV file
func (l *Loader) LoadPrisons(filename string) ([]*entities.Prison, error) {
	rows, err := l.readRows(filename, "prisons", PrisonHeader)
	if err != nil {
		return nil, err
	}

	prisons := make([]*entities.Prison, 0, len(rows))
	for i, record := range rows {
		prison, err := parsePrison(record)
		if err != nil {
			return nil, fmt.Errorf("prisons CSV row %d: %w", i+2, err)
		}
		prisons = append(prisons, prison)
	}
	return prisons, nil
}

// LoadUsers loads users from a CSV file
func (l *Loader) LoadUsers(filename string) ([]*entities.User, error) {
	rows, err := l.readRows(filename, "users", UserHeader)
	if err != nil {
		return nil, err
	}

	users := make([]*entities.User, 0, len(rows))
	for i, record := range rows {
		user, err := parseUser(record)
		if err != nil {
			return nil, fmt.Errorf("users CSV row %d: %w", i+2, err)
		}
		users = append(users, user)
	}
	return users, nil
}

// LoadWarehouses loads warehouses from a CSV file
func (l *Loader) LoadWarehouses(filename string) ([]*entities.Warehouse, error) {
	rows, err := l.readRows(filename, "warehouses", WarehouseHeader)
	if err != nil {
		return nil, err
	}

	warehouses := make([]*entities.Warehouse, 0, len(rows))
	for i, record := range rows {
		warehouse, err := entities.NewWarehouse(record[0], record[1], record[2], record[3])
		if err != nil {
			return nil, fmt.Errorf("warehouses CSV row %d: %w", i+2, err)
		}
		warehouses = append(warehouses, warehouse)
	}
	return warehouses, nil
}

// LoadStock loads declared stock positions from a CSV file
func (l *Loader) LoadStock(filename string) ([]*entities.StockTarget, error) {
	rows, err := l.readRows(filename, "stock", StockHeader)
	if err != nil {
		return nil, err
	}

	targets := make([]*entities.StockTarget, 0, len(rows))
	for i, record := range rows {
		current, err := parseQuantity("current_stock", record[2])
		if err != nil {
			return nil, fmt.Errorf("stock CSV row %d: %w", i+2, err)
		}
		minimum, err := parseQuantity("min_stock", record[3])
		if err != nil {
			return nil, fmt.Errorf("stock CSV row %d: %w", i+2, err)
		}

		target, err := entities.NewStockTarget(strings.TrimSpace(record[0]), strings.TrimSpace(record[1]), current, minimum)
		if err != nil {
			return nil, fmt.Errorf("stock CSV row %d: %w", i+2, err)
		}
		targets = append(targets, target)
	}
	return targets, nil
}

// readRows opens a file, validates its header and returns the data rows
func (l *Loader) readRows(filename, kind string, expectedHeader []string) ([][]string, error) {
	file, err := l.fsys.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s file %s: %w", kind, filename, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s CSV: %w", kind, err)
	}

	if len(records) < 1 {
		return nil, fmt.Errorf("%s CSV must have a header row", kind)
	}

	header := records[0]
	if !validateHeader(header, expectedHeader) {
		return nil, fmt.Errorf("%s CSV header mismatch. Expected: %v, Got: %v", kind, expectedHeader, header)
	}

	rows := records[1:]
	for i, record := range rows {
		if len(record) != len(expectedHeader) {
			return nil, fmt.Errorf("%s CSV row %d: expected %d columns, got %d", kind, i+2, len(expectedHeader), len(record))
		}
	}
	return rows, nil
}

// Helper functions for parsing CSV records

func validateHeader(actual, expected []string) bool {
	if len(actual) != len(expected) {
		return false
	}

	for i, col := range expected {
		name := strings.ToLower(strings.TrimSpace(actual[i]))
		if i == 0 {
			name = strings.TrimPrefix(name, "\ufeff")
		}
		if name != col {
			return false
		}
	}

	return true
}

// ParseSupplier builds a validated supplier from a record in SupplierHeader order
func ParseSupplier(record []string) (*entities.Supplier, error) {
	published, err := parseBool("published", record[6])
	if err != nil {
		return nil, err
	}
	activeForLocal, err := parseBool("active_for_local", record[7])
	if err != nil {
		return nil, err
	}
	return entities.NewSupplier(record[0], record[1], record[2], record[3], record[4], entities.Language(record[5]), published, activeForLocal)
}

// ParseArticle builds a validated article from a record in ArticleHeader order
func ParseArticle(record []string) (*entities.Article, error) {
	unit, err := entities.ParseUnit(record[6])
	if err != nil {
		return nil, err
	}
	blocked, err := parseBool("blocked", record[10])
	if err != nil {
		return nil, err
	}
	return entities.NewArticle(record[0], record[1], record[2], record[3], record[4], record[5], unit, record[7], record[8], record[9], blocked)
}

func parsePrison(record []string) (*entities.Prison, error) {
	capacity, err := strconv.Atoi(strings.TrimSpace(record[5]))
	if err != nil {
		return nil, fmt.Errorf("invalid capacity: %s", record[5])
	}
	blocked, err := parseBool("blocked", record[7])
	if err != nil {
		return nil, err
	}
	return entities.NewPrison(record[0], record[1], record[2], record[3], entities.Region(record[4]), capacity, record[6], blocked)
}

func parseUser(record []string) (*entities.User, error) {
	blocked, err := parseBool("blocked", record[5])
	if err != nil {
		return nil, err
	}

	roles, err := ParseRoles(record[6])
	if err != nil {
		return nil, err
	}

	createdAt, err := time.Parse(entities.DateLayout, strings.TrimSpace(record[9]))
	if err != nil {
		return nil, fmt.Errorf("invalid created_at format: %s (expected YYYY-MM-DD)", record[9])
	}

	var lastLogin *time.Time
	if s := strings.TrimSpace(record[10]); s != "" {
		t, err := time.Parse(entities.DateLayout, s)
		if err != nil {
			return nil, fmt.Errorf("invalid last_login format: %s (expected YYYY-MM-DD)", record[10])
		}
		lastLogin = &t
	}

	return entities.NewUser(entities.User{
		ID:              record[0],
		Email:           record[1],
		Name:            record[2],
		AuthType:        entities.AuthType(strings.ToLower(strings.TrimSpace(record[3]))),
		O365Group:       strings.TrimSpace(record[4]),
		Blocked:         blocked,
		Roles:           roles,
		AssignedPrisons: SplitList(record[7]),
		MenuRights:      SplitList(record[8]),
		CreatedAt:       createdAt,
		LastLogin:       lastLogin,
	})
}

// ParseRoles reads "system:role" pairs separated by "|"
func ParseRoles(s string) ([]entities.UserRole, error) {
	var roles []entities.UserRole
	for _, pair := range SplitList(s) {
		system, role, ok := strings.Cut(pair, ":")
		if !ok {
			return nil, fmt.Errorf("invalid role %q (expected system:role)", pair)
		}
		roles = append(roles, entities.UserRole{
			SystemID: strings.TrimSpace(system),
			Role:     entities.SystemRole(strings.TrimSpace(role)),
		})
	}
	return roles, nil
}

// FormatRoles is the inverse of ParseRoles
func FormatRoles(roles []entities.UserRole) string {
	parts := make([]string, len(roles))
	for i, r := range roles {
		parts[i] = r.SystemID + ":" + string(r.Role)
	}
	return strings.Join(parts, listSeparator)
}

// SplitList splits a multi-valued cell, dropping empty entries
func SplitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, listSeparator) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func parseBool(column, s string) (bool, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %s (expected true or false)", column, s)
	}
	return b, nil
}

func parseQuantity(column, s string) (entities.Quantity, error) {
	q, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %s", column, s)
	}
	return entities.Quantity(q), nil
}
