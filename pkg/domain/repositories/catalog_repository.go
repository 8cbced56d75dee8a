package repositories

import (
	"errors"

	"github.com/prisonproc/procurement/pkg/domain/entities"
)

// ErrNotFound is returned when a record does not exist
var ErrNotFound = errors.New("not found")

// SupplierRepository provides access to supplier master data
type SupplierRepository interface {
	GetSupplier(id string) (*entities.Supplier, error)
	GetAllSuppliers() ([]*entities.Supplier, error)
	LoadSuppliers(suppliers []*entities.Supplier) error
}

// ArticleRepository provides access to the article catalog
type ArticleRepository interface {
	GetArticle(id string) (*entities.Article, error)
	GetAllArticles() ([]*entities.Article, error)
	LoadArticles(articles []*entities.Article) error
}

// PrisonRepository provides access to the prisons of the organisation
type PrisonRepository interface {
	GetPrison(id string) (*entities.Prison, error)
	GetAllPrisons() ([]*entities.Prison, error)
	LoadPrisons(prisons []*entities.Prison) error
}

// UserRepository provides access to dashboard accounts
type UserRepository interface {
	GetUser(id string) (*entities.User, error)
	GetAllUsers() ([]*entities.User, error)
	LoadUsers(users []*entities.User) error
}

// WarehouseRepository provides access to storage locations
type WarehouseRepository interface {
	GetWarehouse(id string) (*entities.Warehouse, error)
	GetAllWarehouses() ([]*entities.Warehouse, error)
	GetWarehousesByPrison(prisonID string) ([]*entities.Warehouse, error)
	LoadWarehouses(warehouses []*entities.Warehouse) error
}
