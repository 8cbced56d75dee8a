package orchestration

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"sort"
	"time"

	"github.com/prisonproc/procurement/pkg/application/dto"
	"github.com/prisonproc/procurement/pkg/application/services/forecast"
	"github.com/prisonproc/procurement/pkg/application/services/stockledger"
	"github.com/prisonproc/procurement/pkg/domain/entities"
	"github.com/prisonproc/procurement/pkg/domain/repositories"
)

// StockTimelineService combines ledger synthesis and forecasting into the
// stock views of the dashboard
type StockTimelineService struct {
	synthesizer *stockledger.Synthesizer
	articleRepo repositories.ArticleRepository
	stockRepo   repositories.StockRepository
	logger      *log.Logger
}

// NewStockTimelineService creates a new stock timeline service. Warnings
// go to stderr unless a logger is set with SetLogger.
func NewStockTimelineService(
	synthesizer *stockledger.Synthesizer,
	articleRepo repositories.ArticleRepository,
	stockRepo repositories.StockRepository,
) *StockTimelineService {
	return &StockTimelineService{
		synthesizer: synthesizer,
		articleRepo: articleRepo,
		stockRepo:   stockRepo,
		logger:      log.New(os.Stderr, "", 0),
	}
}

// SetLogger replaces the warning logger; nil silences warnings
func (s *StockTimelineService) SetLogger(logger *log.Logger) {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	s.logger = logger
}

// TimelineRequest selects the articles and the window of a timeline run.
// Empty fields select everything; a zero From or To leaves that side open.
type TimelineRequest struct {
	ArticleID   string
	WarehouseID string
	From        time.Time
	To          time.Time
	Horizon     int
}

// BuildArticleStock synthesizes the ledger of one stock position and
// attaches it to the article's stock record
func (s *StockTimelineService) BuildArticleStock(target *entities.StockTarget) (*entities.ArticleStock, error) {
	article, err := s.articleRepo.GetArticle(target.ArticleID)
	if err != nil {
		return nil, fmt.Errorf("failed to get article %s: %w", target.ArticleID, err)
	}

	stock, err := entities.NewArticleStock(*article, target.WarehouseID, target.CurrentStock, target.MinStock)
	if err != nil {
		return nil, err
	}

	ledger, err := s.synthesizer.Synthesize(stockledger.ArticleRef{
		ArticleID:   article.ID,
		ArticleCode: article.Code,
		ArticleName: article.Description,
		WarehouseID: target.WarehouseID,
	}, target.CurrentStock)
	if err != nil {
		return nil, fmt.Errorf("failed to synthesize ledger for article %s: %w", article.ID, err)
	}

	stock.Movements = ledger.Movements
	stock.Gap = ledger.Gap
	if !ledger.Reconciled() {
		s.logger.Printf("Warning: ledger of article %s in %s ends at %d, declared stock is %d (gap %d)",
			article.Code, target.WarehouseID, ledger.Final(), target.CurrentStock, ledger.Gap)
	}

	return stock, nil
}

// BuildTimeline builds the timeline of one stock position
func (s *StockTimelineService) BuildTimeline(target *entities.StockTarget, from, to time.Time, horizon int) (*dto.ArticleTimeline, error) {
	stock, err := s.BuildArticleStock(target)
	if err != nil {
		return nil, err
	}

	window := forecast.Window(stock.Movements, from, to)
	fc := forecast.Project(window, stock.MinStock, horizon)

	return &dto.ArticleTimeline{
		Stock:              stock,
		Window:             window,
		Series:             fc.Series,
		AverageConsumption: fc.AverageConsumption,
		LowStock:           forecast.LowStock(stock.CurrentStock, stock.MinStock),
		BelowMinDay:        fc.BelowMinDay,
		BelowMinDate:       fc.BelowMinDate,
		DepletionDay:       fc.DepletionDay,
		DepletionDate:      fc.DepletionDate,
	}, nil
}

// BuildTimelines builds the timelines of every selected stock position,
// ordered by article code then warehouse
func (s *StockTimelineService) BuildTimelines(ctx context.Context, req TimelineRequest) (*dto.TimelineResult, error) {
	if !req.From.IsZero() && !req.To.IsZero() && req.To.Before(req.From) {
		return nil, fmt.Errorf("window end %s is before start %s",
			req.To.Format(entities.DateLayout), req.From.Format(entities.DateLayout))
	}

	targets, err := s.selectTargets(req)
	if err != nil {
		return nil, err
	}

	horizon := req.Horizon
	if horizon <= 0 {
		horizon = forecast.DefaultHorizon
	}

	config := s.synthesizer.Config()
	result := &dto.TimelineResult{
		PeriodStart: config.PeriodStart,
		PeriodEnd:   config.PeriodEnd(),
		From:        req.From,
		To:          req.To,
		Horizon:     horizon,
		Articles:    make([]dto.ArticleTimeline, 0, len(targets)),
		GeneratedAt: time.Now(),
	}

	for _, target := range targets {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		timeline, err := s.BuildTimeline(target, req.From, req.To, horizon)
		if err != nil {
			return nil, err
		}
		result.Articles = append(result.Articles, *timeline)
	}

	sort.SliceStable(result.Articles, func(i, j int) bool {
		a, b := result.Articles[i].Stock, result.Articles[j].Stock
		if a.ArticleCode != b.ArticleCode {
			return a.ArticleCode < b.ArticleCode
		}
		return a.WarehouseID < b.WarehouseID
	})

	return result, nil
}

// GenerateMovements synthesizes the ledgers of every stock position in
// one flat list, ordered by article code, warehouse and date
func (s *StockTimelineService) GenerateMovements(ctx context.Context) ([]entities.StockMovement, error) {
	result, err := s.BuildTimelines(ctx, TimelineRequest{})
	if err != nil {
		return nil, err
	}

	var movements []entities.StockMovement
	for _, a := range result.Articles {
		movements = append(movements, a.Stock.Movements...)
	}
	return movements, nil
}

func (s *StockTimelineService) selectTargets(req TimelineRequest) ([]*entities.StockTarget, error) {
	var (
		targets []*entities.StockTarget
		err     error
	)

	switch {
	case req.ArticleID != "" && req.WarehouseID != "":
		target, getErr := s.stockRepo.GetTarget(req.ArticleID, req.WarehouseID)
		if getErr != nil {
			return nil, fmt.Errorf("failed to get stock of article %s in %s: %w", req.ArticleID, req.WarehouseID, getErr)
		}
		targets = []*entities.StockTarget{target}
	case req.ArticleID != "":
		targets, err = s.stockRepo.GetTargetsByArticle(req.ArticleID)
		if err == nil && len(targets) == 0 {
			err = fmt.Errorf("no stock held for article %s: %w", req.ArticleID, repositories.ErrNotFound)
		}
	default:
		targets, err = s.stockRepo.GetAllTargets()
	}
	if err != nil {
		return nil, err
	}

	if req.WarehouseID != "" && req.ArticleID == "" {
		filtered := targets[:0:0]
		for _, t := range targets {
			if t.WarehouseID == req.WarehouseID {
				filtered = append(filtered, t)
			}
		}
		targets = filtered
	}

	return targets, nil
}
