package memory

import (
	"github.com/prisonproc/procurement/pkg/domain/entities"
	"github.com/prisonproc/procurement/pkg/domain/repositories"
)

// SupplierRepository provides in-memory supplier storage
type SupplierRepository struct {
	suppliers *collection[entities.Supplier]
}

// NewSupplierRepository creates a new in-memory supplier repository
func NewSupplierRepository(expected int) *SupplierRepository {
	return &SupplierRepository{
		suppliers: newCollection("supplier", expected, func(s *entities.Supplier) string { return s.ID }),
	}
}

var _ repositories.SupplierRepository = (*SupplierRepository)(nil)

// LoadSuppliers loads suppliers into the repository
func (r *SupplierRepository) LoadSuppliers(suppliers []*entities.Supplier) error {
	return r.suppliers.load(suppliers)
}

// SaveSupplier adds a single supplier
func (r *SupplierRepository) SaveSupplier(supplier *entities.Supplier) error {
	return r.suppliers.add(*supplier)
}

// GetSupplier returns a supplier by ID
func (r *SupplierRepository) GetSupplier(id string) (*entities.Supplier, error) {
	return r.suppliers.get(id)
}

// GetAllSuppliers returns all suppliers in load order
func (r *SupplierRepository) GetAllSuppliers() ([]*entities.Supplier, error) {
	return r.suppliers.all(), nil
}

// ArticleRepository provides in-memory article storage
type ArticleRepository struct {
	articles *collection[entities.Article]
}

// NewArticleRepository creates a new in-memory article repository
func NewArticleRepository(expected int) *ArticleRepository {
	return &ArticleRepository{
		articles: newCollection("article", expected, func(a *entities.Article) string { return a.ID }),
	}
}

var _ repositories.ArticleRepository = (*ArticleRepository)(nil)

// LoadArticles loads articles into the repository
func (r *ArticleRepository) LoadArticles(articles []*entities.Article) error {
	return r.articles.load(articles)
}

// SaveArticle adds a single article
func (r *ArticleRepository) SaveArticle(article *entities.Article) error {
	return r.articles.add(*article)
}

// GetArticle returns an article by ID
func (r *ArticleRepository) GetArticle(id string) (*entities.Article, error) {
	return r.articles.get(id)
}

// GetAllArticles returns all articles in load order
func (r *ArticleRepository) GetAllArticles() ([]*entities.Article, error) {
	return r.articles.all(), nil
}

// PrisonRepository provides in-memory prison storage
type PrisonRepository struct {
	prisons *collection[entities.Prison]
}

// NewPrisonRepository creates a new in-memory prison repository
func NewPrisonRepository(expected int) *PrisonRepository {
	return &PrisonRepository{
		prisons: newCollection("prison", expected, func(p *entities.Prison) string { return p.ID }),
	}
}

var _ repositories.PrisonRepository = (*PrisonRepository)(nil)

// LoadPrisons loads prisons into the repository
func (r *PrisonRepository) LoadPrisons(prisons []*entities.Prison) error {
	return r.prisons.load(prisons)
}

// GetPrison returns a prison by ID
func (r *PrisonRepository) GetPrison(id string) (*entities.Prison, error) {
	return r.prisons.get(id)
}

// GetAllPrisons returns all prisons in load order
func (r *PrisonRepository) GetAllPrisons() ([]*entities.Prison, error) {
	return r.prisons.all(), nil
}

// UserRepository provides in-memory user storage
type UserRepository struct {
	users *collection[entities.User]
}

// NewUserRepository creates a new in-memory user repository
func NewUserRepository(expected int) *UserRepository {
	return &UserRepository{
		users: newCollection("user", expected, func(u *entities.User) string { return u.ID }),
	}
}

var _ repositories.UserRepository = (*UserRepository)(nil)

// LoadUsers loads users into the repository
func (r *UserRepository) LoadUsers(users []*entities.User) error {
	return r.users.load(users)
}

// GetUser returns a user by ID
func (r *UserRepository) GetUser(id string) (*entities.User, error) {
	return r.users.get(id)
}

// GetAllUsers returns all users in load order
func (r *UserRepository) GetAllUsers() ([]*entities.User, error) {
	return r.users.all(), nil
}

// WarehouseRepository provides in-memory warehouse storage
type WarehouseRepository struct {
	warehouses *collection[entities.Warehouse]
}

// NewWarehouseRepository creates a new in-memory warehouse repository
func NewWarehouseRepository(expected int) *WarehouseRepository {
	return &WarehouseRepository{
		warehouses: newCollection("warehouse", expected, func(w *entities.Warehouse) string { return w.ID }),
	}
}

var _ repositories.WarehouseRepository = (*WarehouseRepository)(nil)

// LoadWarehouses loads warehouses into the repository
func (r *WarehouseRepository) LoadWarehouses(warehouses []*entities.Warehouse) error {
	return r.warehouses.load(warehouses)
}

// GetWarehouse returns a warehouse by ID
func (r *WarehouseRepository) GetWarehouse(id string) (*entities.Warehouse, error) {
	return r.warehouses.get(id)
}

// GetAllWarehouses returns all warehouses in load order
func (r *WarehouseRepository) GetAllWarehouses() ([]*entities.Warehouse, error) {
	return r.warehouses.all(), nil
}

// GetWarehousesByPrison returns the warehouses of one prison
func (r *WarehouseRepository) GetWarehousesByPrison(prisonID string) ([]*entities.Warehouse, error) {
	return r.warehouses.filter(func(w *entities.Warehouse) bool {
		return w.PrisonID == prisonID
	}), nil
}
