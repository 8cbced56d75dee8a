package entities

import (
	"fmt"
	"time"
)

// DateLayout is the day-granularity layout used for movement dates
const DateLayout = "2006-01-02"

// MovementType represents the direction of a stock movement
type MovementType int

const (
	MovementIn MovementType = iota
	MovementOut
)

// String method for MovementType enum
func (t MovementType) String() string {
	switch t {
	case MovementIn:
		return "in"
	case MovementOut:
		return "out"
	default:
		return "unknown"
	}
}

// ParseMovementType converts "in"/"out" into a MovementType
func ParseMovementType(s string) (MovementType, error) {
	switch s {
	case "in":
		return MovementIn, nil
	case "out":
		return MovementOut, nil
	default:
		return MovementIn, fmt.Errorf("unknown movement type: %q", s)
	}
}

// StockMovement is one entry of an article's ledger. RunningStock is the
// balance after the movement is applied.
type StockMovement struct {
	ID           string
	ArticleID    string
	ArticleCode  string
	ArticleName  string
	WarehouseID  string
	Date         time.Time
	Type         MovementType
	Quantity     Quantity
	Reference    string
	RunningStock Quantity
}

// Apply returns the balance after applying the movement to the given
// balance. Outgoing movements floor the balance at zero.
func (m StockMovement) Apply(balance Quantity) Quantity {
	if m.Type == MovementIn {
		return balance + m.Quantity
	}
	if m.Quantity > balance {
		return 0
	}
	return balance - m.Quantity
}

// ArticleStock aggregates an article's declared balances and its ledger
type ArticleStock struct {
	ArticleID    string   `validate:"required"`
	ArticleCode  string   `validate:"required"`
	ArticleName  string   `validate:"required"`
	Unit         Unit     `validate:"oneof=st kg"`
	WarehouseID  string   `validate:"required"`
	CurrentStock Quantity `validate:"gte=0"`
	MinStock     Quantity `validate:"gte=0"`
	Movements    []StockMovement
	// Gap is the final ledger balance minus CurrentStock, zero when reconciled
	Gap Quantity
}

// NewArticleStock creates a validated ArticleStock without movements
func NewArticleStock(article Article, warehouseID string, current, minimum Quantity) (*ArticleStock, error) {
	stock := &ArticleStock{
		ArticleID:    article.ID,
		ArticleCode:  article.Code,
		ArticleName:  article.Description,
		Unit:         article.Unit,
		WarehouseID:  warehouseID,
		CurrentStock: current,
		MinStock:     minimum,
	}
	if err := Validate(stock); err != nil {
		return nil, fmt.Errorf("stock for article %q: %w", article.ID, err)
	}
	return stock, nil
}

// BelowMinimum reports whether the declared balance is under the threshold
func (s *ArticleStock) BelowMinimum() bool {
	return s.CurrentStock < s.MinStock
}

// LastBalance returns the running balance of the final ledger entry
func (s *ArticleStock) LastBalance() (Quantity, bool) {
	if len(s.Movements) == 0 {
		return 0, false
	}
	return s.Movements[len(s.Movements)-1].RunningStock, true
}

// Reconciled reports whether the ledger ends exactly at the declared balance
func (s *ArticleStock) Reconciled() bool {
	last, ok := s.LastBalance()
	return ok && last == s.CurrentStock
}

// StockTarget is the declared stock position of an article in a warehouse,
// the input from which a ledger is synthesized
type StockTarget struct {
	ArticleID    string   `validate:"required"`
	WarehouseID  string   `validate:"required"`
	CurrentStock Quantity `validate:"gte=0"`
	MinStock     Quantity `validate:"gte=0"`
}

// NewStockTarget creates a validated StockTarget
func NewStockTarget(articleID, warehouseID string, current, minimum Quantity) (*StockTarget, error) {
	target := &StockTarget{
		ArticleID:    articleID,
		WarehouseID:  warehouseID,
		CurrentStock: current,
		MinStock:     minimum,
	}
	if err := Validate(target); err != nil {
		return nil, fmt.Errorf("stock target %q/%q: %w", articleID, warehouseID, err)
	}
	return target, nil
}

// ForecastPoint is one point of a stock chart series. Actual is set for
// historical points, Forecast for projected ones; both only at the junction.
type ForecastPoint struct {
	Date     time.Time
	Actual   *Quantity
	Forecast *Quantity
}

// IsJunction reports whether the point joins history and projection
func (p ForecastPoint) IsJunction() bool {
	return p.Actual != nil && p.Forecast != nil
}

// IsProjected reports whether the point is strictly in the future
func (p ForecastPoint) IsProjected() bool {
	return p.Actual == nil && p.Forecast != nil
}
