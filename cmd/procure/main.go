package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/prisonproc/procurement/pkg/infrastructure/config"
	"github.com/prisonproc/procurement/pkg/interfaces/cli/commands"
)

type command interface {
	Execute(ctx context.Context) error
}

func main() {
	if err := config.LoadEnvFile(".env"); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	cmd, err := parse(os.Args[1], os.Args[2:])
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if cmd == nil {
		usage()
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := cmd.Execute(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// parse builds the subcommand from its flags. A nil command means the
// top-level help was requested.
func parse(name string, args []string) (command, error) {
	fs := flag.NewFlagSet("procure "+name, flag.ContinueOnError)
	var shared commands.Config
	shared.RegisterFlags(fs)

	switch name {
	case "list":
		cfg := commands.ListConfig{}
		var filters commands.StringList
		fs.StringVar(&cfg.Page, "page", "", "List page: suppliers, articles, prisons, users, warehouses")
		fs.StringVar(&cfg.Search, "search", "", "Search text")
		fs.Var(&filters, "filter", "Column filter key=value (repeatable)")
		fs.StringVar(&cfg.Sort, "sort", "", "Sort column, optionally :asc or :desc")
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		cfg.Config = shared
		cfg.Filters = filters
		return commands.NewListCommand(cfg), nil

	case "stock":
		cfg := commands.StockConfig{}
		fs.StringVar(&cfg.ArticleID, "article", "", "Article ID")
		fs.StringVar(&cfg.WarehouseID, "warehouse", "", "Warehouse ID")
		fs.StringVar(&cfg.From, "from", "", "Window start (YYYY-MM-DD)")
		fs.StringVar(&cfg.To, "to", "", "Window end (YYYY-MM-DD)")
		fs.IntVar(&cfg.Horizon, "horizon", 0, "Number of projected days (default from config, 14)")
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		cfg.Config = shared
		return commands.NewStockCommand(cfg), nil

	case "generate":
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		return commands.NewGenerateCommand(shared), nil

	case "validate":
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		return commands.NewValidateCommand(shared), nil

	case "help", "-help", "--help", "-h":
		return nil, nil

	default:
		return nil, fmt.Errorf("unknown command %q (run 'procure help')", name)
	}
}

func usage() {
	fmt.Printf(`procure - Procurement dashboard toolkit for prison administration

USAGE:
    procure <command> [options]

COMMANDS:
    list        Filter, search and sort a list page (suppliers, articles, prisons, users, warehouses)
    stock       Stock ledgers, consumption forecast and minimum-stock warnings
    generate    Export the scenario with synthesized stock movements
    validate    Check scenario references and keys
    help        Show this help message

Run 'procure <command> -help' for the options of a command.

CONFIGURATION:
    Settings come from -config <file.yaml>, then .env and PROCURE_MODE,
    PROCURE_PRISON, PROCURE_LOCALE, PROCURE_SCENARIO, then flags.

EXAMPLES:
    procure list -page prisons -filter region=wallonia -sort capacity:desc
    procure stock -article 17 -horizon 7
    procure generate -output ./export -format xlsx
    procure validate -scenario ./my_scenario
`)
}
