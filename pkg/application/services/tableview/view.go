// Package tableview derives the displayable projection of a record list:
// column filters, free-text search and a tri-state column sort.
//
// A View is configured once per page with the record's fields and the
// columns shown. Queries are pure: the input slice is never reordered and
// identical inputs always give identical rows.
package tableview

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

var (
	// ErrInvalidColumn is returned when a column configuration cannot be honoured
	ErrInvalidColumn = errors.New("invalid column")
	// ErrUnknownField is returned when a key or column refers to an undeclared field
	ErrUnknownField = errors.New("unknown field")
	// ErrDuplicateKey is returned when two records share the same identity
	ErrDuplicateKey = errors.New("duplicate record key")
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// FilterOption is one selectable value of a filterable column
type FilterOption struct {
	Value string `validate:"required"`
	Label string `validate:"required"`
}

// Column describes one displayed facet of a record
type Column struct {
	Key        string `validate:"required"`
	Header     string
	Sortable   bool
	Filterable bool
	Options    []FilterOption `validate:"dive"`
	// Format renders the field value for display; nil uses Stringify
	Format func(any) string
}

// Result is the outcome of a query
type Result[T any] struct {
	Rows    []T
	Total   int
	Visible int
}

// NoMatches reports whether a non-empty record set was filtered down to nothing
func (r Result[T]) NoMatches() bool {
	return r.Visible == 0 && r.Total > 0
}

// Empty reports whether there were no records to begin with
func (r Result[T]) Empty() bool {
	return r.Total == 0
}

// Summary renders the footer line of a list page
func (r Result[T]) Summary() string {
	if r.NoMatches() {
		return "No results found"
	}
	return fmt.Sprintf("Showing %d of %d results", r.Visible, r.Total)
}

type settings struct {
	locale language.Tag
}

// ViewOption configures a View
type ViewOption func(*settings)

// WithLocale sets the language used to collate string columns
func WithLocale(tag language.Tag) ViewOption {
	return func(s *settings) {
		s.locale = tag
	}
}

// View is the configured query engine for one record type
type View[T any] struct {
	keyField string
	fields   map[string]Field[T]
	order    []string
	columns  []Column
	locale   language.Tag
}

// New validates the field and column configuration and builds a View.
// Configuration mistakes are caller bugs and are reported here, never at
// query time.
func New[T any](keyField string, fields []Field[T], columns []Column, opts ...ViewOption) (*View[T], error) {
	s := settings{locale: language.Dutch}
	for _, opt := range opts {
		opt(&s)
	}

	v := &View[T]{
		keyField: keyField,
		fields:   make(map[string]Field[T], len(fields)),
		order:    make([]string, 0, len(fields)),
		columns:  make([]Column, len(columns)),
		locale:   s.locale,
	}

	for _, f := range fields {
		if f.Name == "" || f.get == nil {
			return nil, fmt.Errorf("%w: field declared without name or accessor", ErrInvalidColumn)
		}
		if _, exists := v.fields[f.Name]; exists {
			return nil, fmt.Errorf("%w: field %q declared twice", ErrInvalidColumn, f.Name)
		}
		v.fields[f.Name] = f
		v.order = append(v.order, f.Name)
	}

	if _, ok := v.fields[keyField]; !ok {
		return nil, fmt.Errorf("%w: key field %q", ErrUnknownField, keyField)
	}

	for i, col := range columns {
		if err := validateColumn(col, v.fields); err != nil {
			return nil, err
		}
		v.columns[i] = col
	}

	return v, nil
}

// MustNew is like New but panics on a configuration error. It is meant for
// column sets that are fixed at compile time.
func MustNew[T any](keyField string, fields []Field[T], columns []Column, opts ...ViewOption) *View[T] {
	v, err := New(keyField, fields, columns, opts...)
	if err != nil {
		panic(err)
	}
	return v
}

func validateColumn[T any](col Column, fields map[string]Field[T]) error {
	if err := validate.Struct(col); err != nil {
		return fmt.Errorf("%w: column %q: %v", ErrInvalidColumn, col.Key, err)
	}

	field, ok := fields[col.Key]
	if !ok {
		return fmt.Errorf("%w: column %q", ErrUnknownField, col.Key)
	}
	if col.Filterable && len(col.Options) == 0 {
		return fmt.Errorf("%w: column %q is filterable but has no options", ErrInvalidColumn, col.Key)
	}
	if col.Sortable && !field.Kind.Orderable() {
		return fmt.Errorf("%w: column %q is sortable but field kind %s has no order", ErrInvalidColumn, col.Key, field.Kind)
	}
	return nil
}

// Columns returns the configured columns in display order
func (v *View[T]) Columns() []Column {
	out := make([]Column, len(v.columns))
	copy(out, v.columns)
	return out
}

// Headers returns the column headers in display order
func (v *View[T]) Headers() []string {
	headers := make([]string, len(v.columns))
	for i, col := range v.columns {
		headers[i] = col.Header
		if headers[i] == "" {
			headers[i] = col.Key
		}
	}
	return headers
}

// FilterColumns returns the columns that offer a filter selection
func (v *View[T]) FilterColumns() []Column {
	var out []Column
	for _, col := range v.columns {
		if col.Filterable && len(col.Options) > 0 {
			out = append(out, col)
		}
	}
	return out
}

// Column looks up a configured column by key
func (v *View[T]) Column(key string) (Column, bool) {
	for _, col := range v.columns {
		if col.Key == key {
			return col, true
		}
	}
	return Column{}, false
}

// Key returns the identity of a record
func (v *View[T]) Key(record T) string {
	return Stringify(v.fields[v.keyField].Value(record))
}

// CheckKeys reports the first identity shared by two records
func (v *View[T]) CheckKeys(records []T) error {
	seen := make(map[string]int, len(records))
	for i, r := range records {
		key := v.Key(r)
		if first, ok := seen[key]; ok {
			return fmt.Errorf("%w: %q at rows %d and %d", ErrDuplicateKey, key, first+1, i+1)
		}
		seen[key] = i
	}
	return nil
}

// Cells renders a record's display values in column order
func (v *View[T]) Cells(record T) []string {
	cells := make([]string, len(v.columns))
	for i, col := range v.columns {
		value := v.fields[col.Key].Value(record)
		if col.Format != nil {
			cells[i] = col.Format(value)
		} else {
			cells[i] = Stringify(value)
		}
	}
	return cells
}

// CycleSort advances the sort state for a header click. Clicks on columns
// that are not sortable leave the state unchanged.
func (v *View[T]) CycleSort(current SortState, clicked string) SortState {
	col, ok := v.Column(clicked)
	if !ok || !col.Sortable {
		return current
	}
	return CycleSort(current, clicked)
}

// Query applies the column filters, then the search, then the sort. The
// records slice is left untouched.
func (v *View[T]) Query(records []T, filters FilterState, sortState SortState) Result[T] {
	rows := make([]T, 0, len(records))
	search := strings.ToLower(filters.Search)

	for _, r := range records {
		if !v.matchesFilters(r, filters.Values) {
			continue
		}
		if search != "" && !v.matchesSearch(r, search) {
			continue
		}
		rows = append(rows, r)
	}

	if field, ok := v.sortField(sortState); ok {
		coll := collate.New(v.locale)
		desc := sortState.Direction == SortDescending
		sort.SliceStable(rows, func(i, j int) bool {
			c := compareValues(coll, field.Value(rows[i]), field.Value(rows[j]))
			if desc {
				c = -c
			}
			return c < 0
		})
	}

	return Result[T]{
		Rows:    rows,
		Total:   len(records),
		Visible: len(rows),
	}
}

func (v *View[T]) sortField(s SortState) (Field[T], bool) {
	if !s.Active() {
		return Field[T]{}, false
	}
	field, ok := v.fields[s.Key]
	if !ok || !field.Kind.Orderable() {
		return Field[T]{}, false
	}
	return field, true
}

// matchesFilters applies every non-empty filter value; filters AND together
func (v *View[T]) matchesFilters(record T, values map[string]string) bool {
	for name, want := range values {
		if want == "" {
			continue
		}
		field, ok := v.fields[name]
		if !ok {
			return false
		}

		switch got := field.Value(record).(type) {
		case bool:
			if got != (want == "true") {
				return false
			}
		default:
			if strings.ToLower(Stringify(got)) != strings.ToLower(want) {
				return false
			}
		}
	}
	return true
}

// matchesSearch keeps records where any string field contains the
// lower-cased search text
func (v *View[T]) matchesSearch(record T, search string) bool {
	for _, name := range v.order {
		s, ok := v.fields[name].Value(record).(string)
		if ok && strings.Contains(strings.ToLower(s), search) {
			return true
		}
	}
	return false
}
