// Package forecast projects an article's stock balance forward from its
// ledger and reports when it crosses the minimum and reaches zero.
package forecast

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/prisonproc/procurement/pkg/domain/entities"
)

// DefaultHorizon is the number of days projected when no horizon is given
const DefaultHorizon = 14

// Forecast is the chart series of a ledger plus its threshold crossings.
// Day offsets are 1-indexed into the projected points; 0 means the
// threshold is not crossed within the horizon.
type Forecast struct {
	Series             []entities.ForecastPoint
	AverageConsumption decimal.Decimal
	BelowMinDay        int
	BelowMinDate       time.Time
	DepletionDay       int
	DepletionDate      time.Time
}

// HasProjection reports whether any future point was projected
func (f Forecast) HasProjection() bool {
	return len(f.Projection()) > 0
}

// Projection returns the strictly future points of the series
func (f Forecast) Projection() []entities.ForecastPoint {
	var out []entities.ForecastPoint
	for _, p := range f.Series {
		if p.IsProjected() {
			out = append(out, p)
		}
	}
	return out
}

// Historical returns the points backed by a ledger entry
func (f Forecast) Historical() []entities.ForecastPoint {
	var out []entities.ForecastPoint
	for _, p := range f.Series {
		if p.Actual != nil {
			out = append(out, p)
		}
	}
	return out
}

// AverageConsumption is the total outgoing quantity divided by the number
// of ledger entries, at least one
func AverageConsumption(ledger []entities.StockMovement) decimal.Decimal {
	outTotal, entries := consumption(ledger)
	return decimal.NewFromInt(outTotal).Div(decimal.NewFromInt(entries))
}

// consumption returns the outgoing total and the entry count the average
// is taken over
func consumption(ledger []entities.StockMovement) (outTotal, entries int64) {
	for _, m := range ledger {
		if m.Type == entities.MovementOut {
			outTotal += int64(m.Quantity)
		}
	}
	return outTotal, int64(max(1, len(ledger)))
}

// Project builds the chart series of ledger and extends it by up to
// horizon days of linear consumption, stopping after the first day the
// balance is exhausted. A horizon of zero or less uses DefaultHorizon.
// An empty ledger or a ledger without consumption yields no projection.
func Project(ledger []entities.StockMovement, minStock entities.Quantity, horizon int) Forecast {
	if horizon <= 0 {
		horizon = DefaultHorizon
	}

	result := Forecast{
		Series:             make([]entities.ForecastPoint, 0, len(ledger)+horizon),
		AverageConsumption: AverageConsumption(ledger),
	}
	for _, m := range ledger {
		result.Series = append(result.Series, entities.ForecastPoint{
			Date:   m.Date,
			Actual: quantityPtr(m.RunningStock),
		})
	}

	outTotal, entries := consumption(ledger)
	if len(ledger) == 0 || outTotal <= 0 {
		return result
	}

	last := ledger[len(ledger)-1]
	result.Series[len(result.Series)-1].Forecast = quantityPtr(last.RunningStock)

	// Balances are kept scaled by entries so the decay stays exact and
	// only the emitted value is rounded.
	scaled := int64(last.RunningStock) * entries
	for i := 1; i <= horizon; i++ {
		scaled = max(0, scaled-outTotal)
		balance := decimal.NewFromInt(scaled).Div(decimal.NewFromInt(entries))
		result.Series = append(result.Series, entities.ForecastPoint{
			Date:     last.Date.AddDate(0, 0, i),
			Forecast: quantityPtr(entities.Quantity(balance.Round(0).IntPart())),
		})
		if scaled == 0 {
			break
		}
	}

	result.detectThresholds(minStock)
	return result
}

func (f *Forecast) detectThresholds(minStock entities.Quantity) {
	for i, p := range f.Projection() {
		value := *p.Forecast
		if f.BelowMinDay == 0 && value < minStock {
			f.BelowMinDay = i + 1
			f.BelowMinDate = p.Date
		}
		if f.DepletionDay == 0 && value <= 0 {
			f.DepletionDay = i + 1
			f.DepletionDate = p.Date
		}
	}
}

// Window returns the ledger entries dated within [from, to]. A zero bound
// leaves that side open.
func Window(ledger []entities.StockMovement, from, to time.Time) []entities.StockMovement {
	out := make([]entities.StockMovement, 0, len(ledger))
	for _, m := range ledger {
		if !from.IsZero() && m.Date.Before(from) {
			continue
		}
		if !to.IsZero() && m.Date.After(to) {
			continue
		}
		out = append(out, m)
	}
	return out
}

// LowStock reports whether a balance is under its minimum
func LowStock(current, minStock entities.Quantity) bool {
	return current < minStock
}

func quantityPtr(q entities.Quantity) *entities.Quantity {
	return &q
}
