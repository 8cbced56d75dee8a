package commands

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/prisonproc/procurement/pkg/application/services/orchestration"
	"github.com/prisonproc/procurement/pkg/application/services/stockledger"
	"github.com/prisonproc/procurement/pkg/domain/entities"
	"github.com/prisonproc/procurement/pkg/infrastructure/config"
	"github.com/prisonproc/procurement/pkg/interfaces/cli/output"
)

// StockConfig holds the flags of the stock command
type StockConfig struct {
	Config
	ArticleID   string
	WarehouseID string
	From        string
	To          string
	Horizon     int
}

// StockCommand shows the ledger, forecast and thresholds of stock articles
type StockCommand struct {
	config StockConfig
}

// NewStockCommand creates a new stock command with the given configuration
func NewStockCommand(config StockConfig) *StockCommand {
	return &StockCommand{config: config}
}

// Execute runs the stock command
func (c *StockCommand) Execute(ctx context.Context) error {
	if c.config.Help {
		c.showHelp()
		return nil
	}

	from, err := parseDate("from", c.config.From)
	if err != nil {
		return fmt.Errorf("validation error: %w", err)
	}
	to, err := parseDate("to", c.config.To)
	if err != nil {
		return fmt.Errorf("validation error: %w", err)
	}
	if c.config.Horizon < 0 {
		return fmt.Errorf("validation error: horizon cannot be negative: %d", c.config.Horizon)
	}

	ws, err := c.config.load(true)
	if err != nil {
		return err
	}

	service, err := newTimelineService(&c.config.Config, ws)
	if err != nil {
		return err
	}

	horizon := c.config.Horizon
	if horizon == 0 {
		horizon = ws.settings.Forecast.GetHorizon()
	}

	c.config.logf("🔄 Synthesizing ledgers and forecasts...\n")
	startTime := time.Now()
	result, err := service.BuildTimelines(ctx, orchestration.TimelineRequest{
		ArticleID:   c.config.ArticleID,
		WarehouseID: c.config.WarehouseID,
		From:        from,
		To:          to,
		Horizon:     horizon,
	})
	if err != nil {
		return fmt.Errorf("error building stock timelines: %w", err)
	}
	result.Scope = ws.scope.String()
	c.config.logf("✅ %d timeline(s) built in %v\n\n", len(result.Articles), time.Since(startTime))

	if err := output.GenerateTimeline(result, c.config.outputConfig(ws.settings)); err != nil {
		return fmt.Errorf("error generating output: %w", err)
	}
	return nil
}

// newTimelineService wires the configured ledger period into a timeline
// service over the workspace repositories
func newTimelineService(c *Config, ws *workspace) (*orchestration.StockTimelineService, error) {
	synthesizer, err := newSynthesizer(ws.settings)
	if err != nil {
		return nil, err
	}
	service := orchestration.NewStockTimelineService(synthesizer, ws.store.Articles, ws.store.Stock)
	service.SetLogger(log.New(c.stderr(), "", 0))
	return service, nil
}

func newSynthesizer(settings *config.Config) (*stockledger.Synthesizer, error) {
	synthesizer, err := stockledger.NewSynthesizer(stockledger.Config{
		PeriodStart:  settings.Ledger.GetPeriodStart(),
		PeriodDays:   settings.Ledger.GetPeriodDays(),
		OpeningFloor: settings.Ledger.GetOpeningFloor(),
	})
	if err != nil {
		return nil, fmt.Errorf("invalid ledger configuration: %w", err)
	}
	return synthesizer, nil
}

func parseDate(name, s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(entities.DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid -%s date: %s (expected YYYY-MM-DD)", name, s)
	}
	return t, nil
}

// showHelp displays the help message
func (c *StockCommand) showHelp() {
	fmt.Fprintf(c.config.stdout(), `procure stock - Stock ledgers, consumption forecast and minimum-stock warnings

USAGE:
    procure stock [options]

OPTIONS:
    -article <id>         Only this article
    -warehouse <id>       Only this warehouse
    -from <date>          First day of the ledger window (YYYY-MM-DD)
    -to <date>            Last day of the ledger window (YYYY-MM-DD)
    -horizon <days>       Number of projected days (default: 14)
%s
With -format text and -output, an SVG stock chart is written per article.

EXAMPLES:
    procure stock -article 17
    procure stock -from 2024-12-10 -to 2024-12-24 -horizon 7
    procure stock -format csv -output results/
`, sharedHelp)
}
