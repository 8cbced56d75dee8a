package repositories

import "github.com/prisonproc/procurement/pkg/domain/entities"

// StockRepository provides access to the declared stock positions
type StockRepository interface {
	GetTarget(articleID, warehouseID string) (*entities.StockTarget, error)
	GetTargetsByArticle(articleID string) ([]*entities.StockTarget, error)
	GetAllTargets() ([]*entities.StockTarget, error)
	LoadTargets(targets []*entities.StockTarget) error
}
