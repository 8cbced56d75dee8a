package memory

import (
	"errors"
	"testing"

	"github.com/prisonproc/procurement/pkg/domain/entities"
	"github.com/prisonproc/procurement/pkg/domain/repositories"
)

func TestStockRepository(t *testing.T) {
	repo := NewStockRepository(4)

	targets := []*entities.StockTarget{
		{ArticleID: "1", WarehouseID: "wh-001", CurrentStock: 48, MinStock: 24},
		{ArticleID: "4", WarehouseID: "wh-004", CurrentStock: 36, MinStock: 24},
		{ArticleID: "1", WarehouseID: "wh-006", CurrentStock: 12, MinStock: 24},
	}
	if err := repo.LoadTargets(targets); err != nil {
		t.Fatalf("Failed to load targets: %v", err)
	}
	if repo.Len() != 3 {
		t.Errorf("Expected 3 targets, got %d", repo.Len())
	}

	target, err := repo.GetTarget("1", "wh-006")
	if err != nil {
		t.Fatalf("Failed to get target: %v", err)
	}
	if target.CurrentStock != 12 {
		t.Errorf("Expected current stock 12, got %d", target.CurrentStock)
	}

	byArticle, _ := repo.GetTargetsByArticle("1")
	if len(byArticle) != 2 {
		t.Errorf("Expected 2 positions for article 1, got %d", len(byArticle))
	}

	if _, err := repo.GetTarget("4", "wh-001"); !errors.Is(err, repositories.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}

	if err := repo.LoadTargets([]*entities.StockTarget{{ArticleID: "4", WarehouseID: "wh-004"}}); err == nil {
		t.Error("Expected error when loading a duplicate position")
	}
}
