package memory

import (
	"fmt"

	"github.com/prisonproc/procurement/pkg/domain/repositories"
)

// Store bundles the repositories of one loaded scenario
type Store struct {
	Suppliers  *SupplierRepository
	Articles   *ArticleRepository
	Prisons    *PrisonRepository
	Users      *UserRepository
	Warehouses *WarehouseRepository
	Stock      *StockRepository
}

// NewStore creates a store and loads the dataset into it
func NewStore(ds *repositories.Dataset) (*Store, error) {
	s := &Store{
		Suppliers:  NewSupplierRepository(len(ds.Suppliers)),
		Articles:   NewArticleRepository(len(ds.Articles)),
		Prisons:    NewPrisonRepository(len(ds.Prisons)),
		Users:      NewUserRepository(len(ds.Users)),
		Warehouses: NewWarehouseRepository(len(ds.Warehouses)),
		Stock:      NewStockRepository(len(ds.Stock)),
	}

	if err := s.Suppliers.LoadSuppliers(ds.Suppliers); err != nil {
		return nil, fmt.Errorf("failed to load suppliers: %w", err)
	}
	if err := s.Articles.LoadArticles(ds.Articles); err != nil {
		return nil, fmt.Errorf("failed to load articles: %w", err)
	}
	if err := s.Prisons.LoadPrisons(ds.Prisons); err != nil {
		return nil, fmt.Errorf("failed to load prisons: %w", err)
	}
	if err := s.Users.LoadUsers(ds.Users); err != nil {
		return nil, fmt.Errorf("failed to load users: %w", err)
	}
	if err := s.Warehouses.LoadWarehouses(ds.Warehouses); err != nil {
		return nil, fmt.Errorf("failed to load warehouses: %w", err)
	}
	if err := s.Stock.LoadTargets(ds.Stock); err != nil {
		return nil, fmt.Errorf("failed to load stock: %w", err)
	}

	return s, nil
}

// Dataset returns the current content of the store
func (s *Store) Dataset() *repositories.Dataset {
	suppliers, _ := s.Suppliers.GetAllSuppliers()
	articles, _ := s.Articles.GetAllArticles()
	prisons, _ := s.Prisons.GetAllPrisons()
	users, _ := s.Users.GetAllUsers()
	warehouses, _ := s.Warehouses.GetAllWarehouses()
	stock, _ := s.Stock.GetAllTargets()

	return &repositories.Dataset{
		Suppliers:  suppliers,
		Articles:   articles,
		Prisons:    prisons,
		Users:      users,
		Warehouses: warehouses,
		Stock:      stock,
	}
}
