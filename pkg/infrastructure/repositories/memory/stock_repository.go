package memory

import (
	"github.com/prisonproc/procurement/pkg/domain/entities"
	"github.com/prisonproc/procurement/pkg/domain/repositories"
)

// StockRepository provides in-memory storage of declared stock positions,
// keyed by article and warehouse
type StockRepository struct {
	targets *collection[entities.StockTarget]
}

// NewStockRepository creates a new in-memory stock repository
func NewStockRepository(expected int) *StockRepository {
	return &StockRepository{
		targets: newCollection("stock", expected, func(t *entities.StockTarget) string {
			return stockKey(t.ArticleID, t.WarehouseID)
		}),
	}
}

var _ repositories.StockRepository = (*StockRepository)(nil)

func stockKey(articleID, warehouseID string) string {
	return articleID + "@" + warehouseID
}

// LoadTargets loads stock positions into the repository
func (r *StockRepository) LoadTargets(targets []*entities.StockTarget) error {
	return r.targets.load(targets)
}

// GetTarget returns the stock position of an article in a warehouse
func (r *StockRepository) GetTarget(articleID, warehouseID string) (*entities.StockTarget, error) {
	return r.targets.get(stockKey(articleID, warehouseID))
}

// GetTargetsByArticle returns the positions of an article across warehouses
func (r *StockRepository) GetTargetsByArticle(articleID string) ([]*entities.StockTarget, error) {
	return r.targets.filter(func(t *entities.StockTarget) bool {
		return t.ArticleID == articleID
	}), nil
}

// GetAllTargets returns all stock positions in load order
func (r *StockRepository) GetAllTargets() ([]*entities.StockTarget, error) {
	return r.targets.all(), nil
}

// Len returns the number of stock positions
func (r *StockRepository) Len() int {
	return r.targets.count()
}
