package services

import (
	"fmt"
	"sort"

	"github.com/prisonproc/procurement/pkg/domain/entities"
	"github.com/prisonproc/procurement/pkg/domain/repositories"
)

// ScenarioValidator checks the referential integrity of a loaded scenario
type ScenarioValidator struct{}

// NewScenarioValidator creates a new scenario validator
func NewScenarioValidator() *ScenarioValidator {
	return &ScenarioValidator{}
}

// DanglingReference is a record field pointing at a record that does not exist
type DanglingReference struct {
	Kind   string // kind of the referring record
	ID     string
	Field  string
	Target string
}

func (r DanglingReference) String() string {
	return fmt.Sprintf("%s %s: %s %q does not exist", r.Kind, r.ID, r.Field, r.Target)
}

// ValidationResult contains the results of scenario validation
type ValidationResult struct {
	DanglingReferences []DanglingReference
	DuplicateKeys      []string
	Errors             []string
}

// Valid reports whether no problem was found
func (r *ValidationResult) Valid() bool {
	return len(r.Errors) == 0
}

// ValidateDataset performs every cross-reference and uniqueness check
func (v *ScenarioValidator) ValidateDataset(ds *repositories.Dataset) *ValidationResult {
	result := &ValidationResult{
		DanglingReferences: make([]DanglingReference, 0),
		DuplicateKeys:      make([]string, 0),
		Errors:             make([]string, 0),
	}

	v.detectDuplicates(ds, result)

	prisons := keySet(ds.Prisons, func(p *entities.Prison) string { return p.ID })
	articles := keySet(ds.Articles, func(a *entities.Article) string { return a.ID })
	warehouses := keySet(ds.Warehouses, func(w *entities.Warehouse) string { return w.ID })

	for _, w := range ds.Warehouses {
		if !prisons[w.PrisonID] {
			result.DanglingReferences = append(result.DanglingReferences,
				DanglingReference{Kind: "warehouse", ID: w.ID, Field: "prison", Target: w.PrisonID})
		}
	}

	for _, s := range ds.Stock {
		id := s.ArticleID + "@" + s.WarehouseID
		if !articles[s.ArticleID] {
			result.DanglingReferences = append(result.DanglingReferences,
				DanglingReference{Kind: "stock", ID: id, Field: "article", Target: s.ArticleID})
		}
		if !warehouses[s.WarehouseID] {
			result.DanglingReferences = append(result.DanglingReferences,
				DanglingReference{Kind: "stock", ID: id, Field: "warehouse", Target: s.WarehouseID})
		}
	}

	for _, u := range ds.Users {
		for _, p := range u.AssignedPrisons {
			if !prisons[p] {
				result.DanglingReferences = append(result.DanglingReferences,
					DanglingReference{Kind: "user", ID: u.ID, Field: "assigned prison", Target: p})
			}
		}
	}

	for _, ref := range result.DanglingReferences {
		result.Errors = append(result.Errors, ref.String())
	}
	if len(result.DuplicateKeys) > 0 {
		result.Errors = append(result.Errors, fmt.Sprintf("Found %d duplicate keys: %v", len(result.DuplicateKeys), result.DuplicateKeys))
	}

	return result
}

// detectDuplicates finds IDs and codes that occur more than once per kind.
// Warehouse codes only need to be unique within their prison.
func (v *ScenarioValidator) detectDuplicates(ds *repositories.Dataset, result *ValidationResult) {
	add := func(kind string, keys []string) {
		for _, k := range duplicates(keys) {
			result.DuplicateKeys = append(result.DuplicateKeys, kind+" "+k)
		}
	}

	add("supplier id", collect(ds.Suppliers, func(s *entities.Supplier) string { return s.ID }))
	add("supplier code", collect(ds.Suppliers, func(s *entities.Supplier) string { return s.Code }))
	add("article id", collect(ds.Articles, func(a *entities.Article) string { return a.ID }))
	add("article code", collect(ds.Articles, func(a *entities.Article) string { return a.Code }))
	add("prison id", collect(ds.Prisons, func(p *entities.Prison) string { return p.ID }))
	add("user id", collect(ds.Users, func(u *entities.User) string { return u.ID }))
	add("user email", collect(ds.Users, func(u *entities.User) string { return u.Email }))
	add("warehouse id", collect(ds.Warehouses, func(w *entities.Warehouse) string { return w.ID }))
	add("warehouse code", collect(ds.Warehouses, func(w *entities.Warehouse) string { return w.PrisonID + "/" + w.Code }))
	add("stock position", collect(ds.Stock, func(s *entities.StockTarget) string { return s.ArticleID + "@" + s.WarehouseID }))
}

func collect[T any](records []*T, key func(*T) string) []string {
	keys := make([]string, len(records))
	for i, r := range records {
		keys[i] = key(r)
	}
	return keys
}

func keySet[T any](records []*T, key func(*T) string) map[string]bool {
	set := make(map[string]bool, len(records))
	for _, r := range records {
		set[key(r)] = true
	}
	return set
}

// duplicates returns every key seen more than once, sorted
func duplicates(keys []string) []string {
	seen := make(map[string]int, len(keys))
	for _, k := range keys {
		seen[k]++
	}

	var out []string
	for k, n := range seen {
		if n > 1 {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}
