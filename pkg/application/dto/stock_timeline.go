package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/prisonproc/procurement/pkg/domain/entities"
)

// TimelineResult contains the stock timelines of every article in scope
type TimelineResult struct {
	Scope       string
	PeriodStart time.Time
	PeriodEnd   time.Time
	From        time.Time
	To          time.Time
	Horizon     int
	Articles    []ArticleTimeline
	GeneratedAt time.Time
}

// Unreconciled returns the timelines whose ledger misses the declared stock
func (r *TimelineResult) Unreconciled() []ArticleTimeline {
	var out []ArticleTimeline
	for _, a := range r.Articles {
		if a.Stock.Gap != 0 {
			out = append(out, a)
		}
	}
	return out
}

// ArticleTimeline is the ledger, chart series and threshold crossings of
// one article in one warehouse
type ArticleTimeline struct {
	Stock              *entities.ArticleStock
	Window             []entities.StockMovement
	Series             []entities.ForecastPoint
	AverageConsumption decimal.Decimal
	LowStock           bool
	BelowMinDay        int
	BelowMinDate       time.Time
	DepletionDay       int
	DepletionDate      time.Time
}

// ProjectedBalance returns the last projected balance, if any
func (a *ArticleTimeline) ProjectedBalance() (entities.Quantity, bool) {
	for i := len(a.Series) - 1; i >= 0; i-- {
		if p := a.Series[i]; p.IsProjected() {
			return *p.Forecast, true
		}
	}
	return 0, false
}
