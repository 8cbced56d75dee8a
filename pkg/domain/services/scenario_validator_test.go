package services

import (
	"strings"
	"testing"

	"github.com/prisonproc/procurement/pkg/domain/entities"
	"github.com/prisonproc/procurement/pkg/domain/repositories"
)

func validDataset() *repositories.Dataset {
	return &repositories.Dataset{
		Suppliers: []*entities.Supplier{
			{ID: "1", Code: "SUP001", Name: "Colruyt"},
			{ID: "2", Code: "SUP002", Name: "Delhaize"},
		},
		Articles: []*entities.Article{
			{ID: "1", Code: "ART-000001", Description: "Coca-Cola"},
			{ID: "3", Code: "ART-000003", Description: "Wit Brood"},
		},
		Prisons: []*entities.Prison{
			{ID: "antwerpen", Code: "ANT", Name: "Gevangenis Antwerpen"},
			{ID: "brugge", Code: "BRU", Name: "Gevangenis Brugge"},
		},
		Users: []*entities.User{
			{ID: "user-001", Email: "jan@example.be", AssignedPrisons: []string{"antwerpen", "brugge"}},
		},
		Warehouses: []*entities.Warehouse{
			{ID: "wh-001", Code: "MAG-001", PrisonID: "antwerpen"},
			{ID: "wh-006", Code: "MAG-001", PrisonID: "brugge"},
		},
		Stock: []*entities.StockTarget{
			{ArticleID: "1", WarehouseID: "wh-001", CurrentStock: 48, MinStock: 24},
			{ArticleID: "3", WarehouseID: "wh-006", CurrentStock: 12, MinStock: 20},
		},
	}
}

func TestScenarioValidator_ValidDataset(t *testing.T) {
	result := NewScenarioValidator().ValidateDataset(validDataset())

	if !result.Valid() {
		t.Errorf("Expected valid dataset, got errors: %v", result.Errors)
	}
}

func TestScenarioValidator_DanglingReferences(t *testing.T) {
	ds := validDataset()
	ds.Warehouses = append(ds.Warehouses, &entities.Warehouse{ID: "wh-099", Code: "MAG-009", PrisonID: "nowhere"})
	ds.Stock = append(ds.Stock, &entities.StockTarget{ArticleID: "42", WarehouseID: "wh-404"})
	ds.Users[0].AssignedPrisons = append(ds.Users[0].AssignedPrisons, "haren")

	result := NewScenarioValidator().ValidateDataset(ds)

	if result.Valid() {
		t.Fatal("Expected validation errors")
	}
	if len(result.DanglingReferences) != 4 {
		t.Fatalf("Expected 4 dangling references, got %d: %v", len(result.DanglingReferences), result.DanglingReferences)
	}

	want := []string{
		`warehouse wh-099: prison "nowhere" does not exist`,
		`stock 42@wh-404: article "42" does not exist`,
		`stock 42@wh-404: warehouse "wh-404" does not exist`,
		`user user-001: assigned prison "haren" does not exist`,
	}
	for i, w := range want {
		if result.Errors[i] != w {
			t.Errorf("Error %d: expected %q, got %q", i, w, result.Errors[i])
		}
	}
}

func TestScenarioValidator_Duplicates(t *testing.T) {
	ds := validDataset()
	ds.Suppliers = append(ds.Suppliers, &entities.Supplier{ID: "3", Code: "SUP001", Name: "Copy"})
	ds.Warehouses = append(ds.Warehouses, &entities.Warehouse{ID: "wh-002", Code: "MAG-001", PrisonID: "antwerpen"})
	ds.Stock = append(ds.Stock, &entities.StockTarget{ArticleID: "1", WarehouseID: "wh-001"})

	result := NewScenarioValidator().ValidateDataset(ds)

	want := []string{"supplier code SUP001", "warehouse code antwerpen/MAG-001", "stock position 1@wh-001"}
	if len(result.DuplicateKeys) != len(want) {
		t.Fatalf("Expected %d duplicate keys, got %v", len(want), result.DuplicateKeys)
	}
	for i, w := range want {
		if result.DuplicateKeys[i] != w {
			t.Errorf("Duplicate %d: expected %q, got %q", i, w, result.DuplicateKeys[i])
		}
	}
	if len(result.Errors) != 1 || !strings.HasPrefix(result.Errors[0], "Found 3 duplicate keys") {
		t.Errorf("Unexpected errors %v", result.Errors)
	}
}

func TestScenarioValidator_EmptyDataset(t *testing.T) {
	result := NewScenarioValidator().ValidateDataset(&repositories.Dataset{})

	if !result.Valid() {
		t.Errorf("Expected empty dataset to be valid, got %v", result.Errors)
	}
}
