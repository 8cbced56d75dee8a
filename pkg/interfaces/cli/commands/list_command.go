package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/prisonproc/procurement/pkg/application/services/tableview"
	"github.com/prisonproc/procurement/pkg/application/views"
	"github.com/prisonproc/procurement/pkg/interfaces/cli/output"
)

// ListConfig holds the flags of the list command
type ListConfig struct {
	Config
	Page    string
	Search  string
	Filters []string
	Sort    string
}

// ListCommand renders one dashboard list page
type ListCommand struct {
	config ListConfig
}

// NewListCommand creates a new list command with the given configuration
func NewListCommand(config ListConfig) *ListCommand {
	return &ListCommand{config: config}
}

// Execute runs the list command
func (c *ListCommand) Execute(ctx context.Context) error {
	if c.config.Help {
		c.showHelp()
		return nil
	}

	if c.config.Page == "" {
		return fmt.Errorf("validation error: -page is required (one of %s)", strings.Join(views.Pages(), ", "))
	}

	filters, err := tableview.ParseFilters(c.config.Filters, c.config.Search)
	if err != nil {
		return fmt.Errorf("validation error: %w", err)
	}
	sortState, err := tableview.ParseSort(c.config.Sort)
	if err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	ws, err := c.config.load(true)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	result, err := views.Render(ws.dataset, views.Request{
		Page:    c.config.Page,
		Filters: filters,
		Sort:    sortState,
		Locale:  ws.locale,
		Scope:   ws.scope.String(),
	})
	if err != nil {
		return fmt.Errorf("error rendering %s: %w", c.config.Page, err)
	}

	if err := output.GenerateList(result, c.config.outputConfig(ws.settings)); err != nil {
		return fmt.Errorf("error generating output: %w", err)
	}
	return nil
}

// showHelp displays the help message
func (c *ListCommand) showHelp() {
	fmt.Fprintf(c.config.stdout(), `procure list - Filter, search and sort a dashboard list page

USAGE:
    procure list -page <page> [options]

OPTIONS:
    -page <page>          One of: %s
    -search <text>        Case-insensitive search across text columns
    -filter <key=value>   Column filter, repeatable (filters AND together)
    -sort <key[:desc]>    Sort column and direction (asc or desc)
%s
EXAMPLES:
    procure list -page prisons -filter region=wallonia -sort capacity:desc
    procure list -page suppliers -mode local -prison antwerpen
    procure list -page users -search peeters -format json
`, strings.Join(views.Pages(), ", "), sharedHelp)
}

const sharedHelp = `    -config <file>        YAML configuration file
    -scenario <dir>       Scenario directory with CSV files (default: demo scenario)
    -import-xlsx <file>   Add suppliers or articles from an Excel workbook
    -mode <mode>          central or local (env PROCURE_MODE)
    -prison <id>          Prison for local mode (env PROCURE_PRISON)
    -format <fmt>         Output format: text, json, csv, xlsx (default: text)
    -output <dir>         Output directory for results (optional)
    -verbose              Enable verbose output
    -help                 Show this help message
`
