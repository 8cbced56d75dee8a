// Package stockledger synthesizes reproducible stock movement histories
// that end at a declared balance.
package stockledger

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/prisonproc/procurement/pkg/domain/entities"
)

var (
	// ErrInvalidPeriod is returned for a period shorter than one day or a negative opening floor
	ErrInvalidPeriod = errors.New("invalid ledger period")
	// ErrMissingArticle is returned when the article key used as seed is empty
	ErrMissingArticle = errors.New("missing article key")
)

const openingReference = "Beginvoorraad"

var (
	inboundReferences  = []string{"Levering SUP001", "Levering SUP002", "Levering SUP003", "Correctie +", "Retour"}
	outboundReferences = []string{"Keuken", "Afdeling A", "Afdeling B", "Afdeling C", "Correctie -", "Afval"}
)

// Config holds the period every ledger is generated for
type Config struct {
	PeriodStart  time.Time
	PeriodDays   int
	OpeningFloor entities.Quantity
}

// DefaultConfig returns the demo period: 24 days from 2024-12-01 with an
// opening floor of 50 units
func DefaultConfig() Config {
	return Config{
		PeriodStart:  time.Date(2024, time.December, 1, 0, 0, 0, 0, time.UTC),
		PeriodDays:   24,
		OpeningFloor: 50,
	}
}

// PeriodEnd returns the final day of the period
func (c Config) PeriodEnd() time.Time {
	return c.PeriodStart.AddDate(0, 0, c.PeriodDays-1)
}

// ArticleRef identifies the article a ledger is generated for. ArticleID
// is also the seed key.
type ArticleRef struct {
	ArticleID   string
	ArticleCode string
	ArticleName string
	WarehouseID string
}

// Ledger is a synthesized movement history
type Ledger struct {
	Movements []entities.StockMovement
	Opening   entities.Quantity
	Target    entities.Quantity
	// Gap is the final balance minus the target; non-zero only when the
	// adjustment could not reach the target
	Gap entities.Quantity
}

// Final returns the running balance of the last movement
func (l *Ledger) Final() entities.Quantity {
	if len(l.Movements) == 0 {
		return 0
	}
	return l.Movements[len(l.Movements)-1].RunningStock
}

// Reconciled reports whether the ledger ends exactly at the target
func (l *Ledger) Reconciled() bool {
	return l.Gap == 0
}

type plannedMovement struct {
	day       int
	kind      entities.MovementType
	quantity  entities.Quantity
	reference string
}

// Synthesizer generates ledgers for a fixed period
type Synthesizer struct {
	config Config
}

// NewSynthesizer validates the period and creates a Synthesizer
func NewSynthesizer(config Config) (*Synthesizer, error) {
	if config.PeriodDays < 1 {
		return nil, fmt.Errorf("%w: period must cover at least one day, got %d", ErrInvalidPeriod, config.PeriodDays)
	}
	if config.OpeningFloor < 0 {
		return nil, fmt.Errorf("%w: opening floor cannot be negative, got %d", ErrInvalidPeriod, config.OpeningFloor)
	}
	if config.PeriodStart.IsZero() {
		return nil, fmt.Errorf("%w: period start is required", ErrInvalidPeriod)
	}

	y, m, d := config.PeriodStart.Date()
	config.PeriodStart = time.Date(y, m, d, 0, 0, 0, 0, time.UTC)

	return &Synthesizer{config: config}, nil
}

// Config returns the normalized period configuration
func (s *Synthesizer) Config() Config {
	return s.config
}

// Synthesize generates the ledger of an article ending at target.
//
// Days 2..PeriodDays may carry one planned movement each. The opening
// balance on day 1 is chosen so the planned movements end at target,
// never below the opening floor. Outgoing movements floor the running
// balance at zero, and a single adjustment on the final day closes any
// remaining difference as far as the balance allows.
func (s *Synthesizer) Synthesize(ref ArticleRef, target entities.Quantity) (*Ledger, error) {
	key := strings.TrimSpace(ref.ArticleID)
	if key == "" {
		return nil, ErrMissingArticle
	}

	seed := SeedFromKey(key)
	planned := s.plan(seed)

	var net entities.Quantity
	for _, p := range planned {
		if p.kind == entities.MovementIn {
			net += p.quantity
		} else {
			net -= p.quantity
		}
	}

	opening := max(s.config.OpeningFloor, target-net)
	movements := make([]entities.StockMovement, 0, len(planned)+2)
	movements = append(movements, s.movement(ref, fmt.Sprintf("mov-%s-0", key), 1, entities.MovementIn, opening, openingReference, opening))

	running := opening
	for _, p := range planned {
		m := s.movement(ref, fmt.Sprintf("mov-%s-%d", key, p.day), p.day, p.kind, p.quantity, p.reference, 0)
		running = m.Apply(running)
		m.RunningStock = running
		movements = append(movements, m)
	}

	adjustmentID := fmt.Sprintf("mov-%s-%d-adj", key, s.config.PeriodDays)
	switch diff := target - running; {
	case diff > 0:
		running += diff
		movements = append(movements, s.movement(ref, adjustmentID, s.config.PeriodDays, entities.MovementIn, diff, inboundReferences[0], running))
	case diff < 0:
		quantity := min(-diff, running)
		running -= quantity
		movements = append(movements, s.movement(ref, adjustmentID, s.config.PeriodDays, entities.MovementOut, quantity, outboundReferences[1], running))
	}

	sort.SliceStable(movements, func(i, j int) bool {
		return movements[i].Date.Before(movements[j].Date)
	})

	return &Ledger{
		Movements: movements,
		Opening:   opening,
		Target:    target,
		Gap:       running - target,
	}, nil
}

// plan decides the movements of days 2..PeriodDays
func (s *Synthesizer) plan(seed int64) []plannedMovement {
	var planned []plannedMovement
	for day := 2; day <= s.config.PeriodDays; day++ {
		if Random(seed, day) <= 0.4 {
			continue
		}

		p := plannedMovement{day: day, kind: entities.MovementOut}
		labels := outboundReferences
		if Random(seed, day+100) > 0.6 {
			p.kind = entities.MovementIn
			labels = inboundReferences
			p.quantity = entities.Quantity(math.Floor(Random(seed, day+200)*40)) + 10
		} else {
			p.quantity = entities.Quantity(math.Floor(Random(seed, day+200)*15)) + 5
		}
		p.reference = labels[int(math.Floor(Random(seed, day+300)*float64(len(labels))))]

		planned = append(planned, p)
	}
	return planned
}

func (s *Synthesizer) movement(ref ArticleRef, id string, day int, kind entities.MovementType, quantity entities.Quantity, reference string, running entities.Quantity) entities.StockMovement {
	return entities.StockMovement{
		ID:           id,
		ArticleID:    ref.ArticleID,
		ArticleCode:  ref.ArticleCode,
		ArticleName:  ref.ArticleName,
		WarehouseID:  ref.WarehouseID,
		Date:         s.config.PeriodStart.AddDate(0, 0, day-1),
		Type:         kind,
		Quantity:     quantity,
		Reference:    reference,
		RunningStock: running,
	}
}

// SynthesizeLedger generates the movements of the article identified by
// key over days days from start, ending at target
func SynthesizeLedger(key string, target entities.Quantity, start time.Time, days int) ([]entities.StockMovement, error) {
	synth, err := NewSynthesizer(Config{PeriodStart: start, PeriodDays: days, OpeningFloor: DefaultConfig().OpeningFloor})
	if err != nil {
		return nil, err
	}
	ledger, err := synth.Synthesize(ArticleRef{ArticleID: key}, target)
	if err != nil {
		return nil, err
	}
	return ledger.Movements, nil
}
