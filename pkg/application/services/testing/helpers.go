package testing

import (
	"time"

	"github.com/prisonproc/procurement/pkg/application/services/stockledger"
	"github.com/prisonproc/procurement/pkg/domain/entities"
)

// MustCreateSynthesizer is a helper for tests - panics on validation error
func MustCreateSynthesizer(start time.Time, days int, floor entities.Quantity) *stockledger.Synthesizer {
	s, err := stockledger.NewSynthesizer(stockledger.Config{
		PeriodStart:  start,
		PeriodDays:   days,
		OpeningFloor: floor,
	})
	if err != nil {
		panic(err)
	}
	return s
}

// MustCreateDefaultSynthesizer returns a synthesizer for the demo period
func MustCreateDefaultSynthesizer() *stockledger.Synthesizer {
	c := stockledger.DefaultConfig()
	return MustCreateSynthesizer(c.PeriodStart, c.PeriodDays, c.OpeningFloor)
}

// Day returns midnight UTC of a December 2024 day of the demo period
func Day(day int) time.Time {
	return time.Date(2024, time.December, day, 0, 0, 0, 0, time.UTC)
}

// Movement builds a ledger entry for forecast tests
func Movement(day int, kind entities.MovementType, quantity, running entities.Quantity) entities.StockMovement {
	return entities.StockMovement{
		ID:           "mov-test",
		ArticleID:    "test",
		Date:         Day(day),
		Type:         kind,
		Quantity:     quantity,
		RunningStock: running,
	}
}
