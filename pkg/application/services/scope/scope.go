// Package scope narrows a scenario to what one operating mode may see.
// Central mode sees everything; local mode sees one prison, its
// warehouses and stock, the users assigned to it and the suppliers that
// are active for local procurement.
package scope

import (
	"errors"
	"fmt"

	"github.com/prisonproc/procurement/pkg/domain/entities"
	"github.com/prisonproc/procurement/pkg/domain/repositories"
)

var (
	// ErrMissingPrison is returned when local mode is selected without a prison
	ErrMissingPrison = errors.New("local mode requires a prison")
	// ErrUnknownPrison is returned when the selected prison is not in the scenario
	ErrUnknownPrison = errors.New("unknown prison")
)

// Scope is the tenant view of a scenario
type Scope struct {
	Mode     entities.OperatingMode
	PrisonID string
}

// New creates a scope. The prison is ignored in central mode.
func New(mode entities.OperatingMode, prisonID string) (Scope, error) {
	if mode != entities.ModeLocal {
		return Scope{Mode: entities.ModeCentral}, nil
	}
	if prisonID == "" {
		return Scope{}, ErrMissingPrison
	}
	return Scope{Mode: mode, PrisonID: prisonID}, nil
}

// Local reports whether the scope is restricted to one prison
func (s Scope) Local() bool {
	return s.Mode == entities.ModeLocal
}

func (s Scope) String() string {
	if s.Local() {
		return fmt.Sprintf("local (%s)", s.PrisonID)
	}
	return s.Mode.String()
}

// Apply returns the part of the dataset visible in this scope. The input
// is not modified; the records themselves are shared.
func (s Scope) Apply(ds *repositories.Dataset) (*repositories.Dataset, error) {
	if !s.Local() {
		out := *ds
		return &out, nil
	}

	prisons := filter(ds.Prisons, func(p *entities.Prison) bool { return p.ID == s.PrisonID })
	if len(prisons) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPrison, s.PrisonID)
	}

	warehouses := s.Warehouses(ds.Warehouses)

	return &repositories.Dataset{
		Suppliers:  s.Suppliers(ds.Suppliers),
		Articles:   ds.Articles,
		Prisons:    prisons,
		Users:      s.Users(ds.Users),
		Warehouses: warehouses,
		Stock:      s.Stock(ds.Stock, warehouses),
	}, nil
}

// Suppliers keeps the suppliers usable in this scope
func (s Scope) Suppliers(suppliers []*entities.Supplier) []*entities.Supplier {
	if !s.Local() {
		return suppliers
	}
	return filter(suppliers, func(sup *entities.Supplier) bool { return sup.ActiveForLocal })
}

// Warehouses keeps the warehouses of the selected prison
func (s Scope) Warehouses(warehouses []*entities.Warehouse) []*entities.Warehouse {
	if !s.Local() {
		return warehouses
	}
	return filter(warehouses, func(w *entities.Warehouse) bool { return w.PrisonID == s.PrisonID })
}

// Users keeps the users assigned to the selected prison
func (s Scope) Users(users []*entities.User) []*entities.User {
	if !s.Local() {
		return users
	}
	return filter(users, func(u *entities.User) bool { return u.AssignedTo(s.PrisonID) })
}

// Stock keeps the stock positions held in the given warehouses
func (s Scope) Stock(stock []*entities.StockTarget, warehouses []*entities.Warehouse) []*entities.StockTarget {
	if !s.Local() {
		return stock
	}
	visible := make(map[string]bool, len(warehouses))
	for _, w := range warehouses {
		if w.PrisonID == s.PrisonID {
			visible[w.ID] = true
		}
	}
	return filter(stock, func(t *entities.StockTarget) bool { return visible[t.WarehouseID] })
}

func filter[T any](records []*T, keep func(*T) bool) []*T {
	out := make([]*T, 0, len(records))
	for _, r := range records {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}
