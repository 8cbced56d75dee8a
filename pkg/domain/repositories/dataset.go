package repositories

import "github.com/prisonproc/procurement/pkg/domain/entities"

// Dataset is the complete content of a scenario as loaded from files
type Dataset struct {
	Suppliers  []*entities.Supplier
	Articles   []*entities.Article
	Prisons    []*entities.Prison
	Users      []*entities.User
	Warehouses []*entities.Warehouse
	Stock      []*entities.StockTarget
}

// KindCount is the number of records of one kind
type KindCount struct {
	Kind  string
	Count int
}

// Counts returns the number of records per kind in a fixed order
func (d *Dataset) Counts() []KindCount {
	return []KindCount{
		{"suppliers", len(d.Suppliers)},
		{"articles", len(d.Articles)},
		{"prisons", len(d.Prisons)},
		{"users", len(d.Users)},
		{"warehouses", len(d.Warehouses)},
		{"stock", len(d.Stock)},
	}
}
