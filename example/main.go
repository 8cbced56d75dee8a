package main

import (
	"context"
	"fmt"

	"github.com/prisonproc/procurement/pkg/application/services/orchestration"
	"github.com/prisonproc/procurement/pkg/application/services/stockledger"
	"github.com/prisonproc/procurement/pkg/application/services/tableview"
	"github.com/prisonproc/procurement/pkg/application/views"
	"github.com/prisonproc/procurement/pkg/infrastructure/fixtures"
	"github.com/prisonproc/procurement/pkg/infrastructure/repositories/memory"
)

func main() {
	ctx := context.Background()

	// Load the demo scenario shipped with the dashboard
	ds, err := fixtures.Load()
	if err != nil {
		fmt.Printf("❌ Loading demo scenario failed: %v\n", err)
		return
	}

	// The Wallonian prisons, largest first
	sortState := tableview.SortState{}
	for i := 0; i < 2; i++ {
		// two header clicks: ascending, then descending
		sortState = tableview.CycleSort(sortState, "capacity")
	}
	filters := tableview.FilterState{}.With("region", "wallonia")

	page, err := views.Render(ds, views.Request{
		Page:    views.PagePrisons,
		Filters: filters,
		Sort:    sortState,
		Scope:   "central",
	})
	if err != nil {
		fmt.Printf("❌ Rendering prisons failed: %v\n", err)
		return
	}

	fmt.Println("🏛️  Prisons in Wallonia by capacity:")
	for _, row := range page.Rows {
		fmt.Printf("  %-4s %-28s %s\n", row[0], row[1], row[4])
	}
	fmt.Printf("  %s\n\n", page.Summary)

	// Stock ledger and forecast of one article
	store, err := memory.NewStore(ds)
	if err != nil {
		fmt.Printf("❌ Building store failed: %v\n", err)
		return
	}
	synthesizer, err := stockledger.NewSynthesizer(stockledger.DefaultConfig())
	if err != nil {
		fmt.Printf("❌ Creating synthesizer failed: %v\n", err)
		return
	}
	service := orchestration.NewStockTimelineService(synthesizer, store.Articles, store.Stock)

	result, err := service.BuildTimelines(ctx, orchestration.TimelineRequest{ArticleID: "5", Horizon: 14})
	if err != nil {
		fmt.Printf("❌ Building timeline failed: %v\n", err)
		return
	}

	for _, a := range result.Articles {
		s := a.Stock
		fmt.Printf("📦 %s %s in %s\n", s.ArticleCode, s.ArticleName, s.WarehouseID)
		fmt.Printf("  Current: %d %s, minimum: %d %s\n", s.CurrentStock, s.Unit, s.MinStock, s.Unit)
		fmt.Printf("  Movements: %d, average consumption %s %s/day\n",
			len(s.Movements), a.AverageConsumption.StringFixed(2), s.Unit)

		if a.LowStock {
			fmt.Println("  ⚠️  Below minimum stock")
		}
		if a.DepletionDay > 0 {
			fmt.Printf("  Projected to run out on %s\n", a.DepletionDate.Format("2006-01-02"))
		} else if projected, ok := a.ProjectedBalance(); ok {
			fmt.Printf("  Projected balance after %d days: %d %s\n", result.Horizon, projected, s.Unit)
		}
	}
}
