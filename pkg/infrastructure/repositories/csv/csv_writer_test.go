package csv

import (
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/prisonproc/procurement/pkg/domain/entities"
	"github.com/prisonproc/procurement/pkg/domain/repositories"
)

func TestWriter_DatasetCanBeReloaded(t *testing.T) {
	dir := t.TempDir()
	lastLogin := time.Date(2024, time.December, 23, 0, 0, 0, 0, time.UTC)

	ds := &repositories.Dataset{
		Suppliers: []*entities.Supplier{{ID: "3", Code: "SUP003", Name: "Metro Cash & Carry", Email: "info@metro.be", Language: entities.LanguageDutch, Published: true}},
		Users: []*entities.User{{
			ID: "user-001", Email: "jan.peeters@justitie.belgium.be", Name: "Jan Peeters",
			AuthType: entities.AuthO365, O365Group: "Prison-Central-Admins",
			Roles:           []entities.UserRole{{SystemID: "central", Role: entities.RoleCentralAdmin}, {SystemID: "local", Role: entities.RoleCentralAdmin}},
			AssignedPrisons: []string{"antwerpen", "brugge"},
			MenuRights:      []string{"dashboard"},
			CreatedAt:       time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC),
			LastLogin:       &lastLogin,
		}},
		Warehouses: []*entities.Warehouse{{ID: "wh-008", Code: "MAG-003", Name: "Hygiëne & Schoonmaak", PrisonID: "brugge"}},
	}

	writer, err := NewWriter(dir)
	if err != nil {
		t.Fatalf("Failed to create writer: %v", err)
	}
	written, err := writer.WriteDataset(ds)
	if err != nil {
		t.Fatalf("Failed to write dataset: %v", err)
	}
	if len(written) != 3 {
		t.Errorf("Expected 3 files for 3 non-empty tables, got %v", written)
	}

	loader, err := NewDirLoader(dir)
	if err != nil {
		t.Fatalf("Failed to open directory: %v", err)
	}
	loaded, err := loader.LoadDataset()
	if err != nil {
		t.Fatalf("Failed to reload dataset: %v", err)
	}

	if loaded.Suppliers[0].Name != "Metro Cash & Carry" {
		t.Errorf("Unexpected supplier %+v", loaded.Suppliers[0])
	}
	if !reflect.DeepEqual(loaded.Users[0].Roles, ds.Users[0].Roles) {
		t.Errorf("Expected roles %v, got %v", ds.Users[0].Roles, loaded.Users[0].Roles)
	}
	if loaded.Users[0].LastLogin == nil || !loaded.Users[0].LastLogin.Equal(lastLogin) {
		t.Errorf("Unexpected last login %v", loaded.Users[0].LastLogin)
	}
	if loaded.Warehouses[0].Name != "Hygiëne & Schoonmaak" {
		t.Errorf("Unexpected warehouse name %q", loaded.Warehouses[0].Name)
	}
}

func TestWriter_Movements(t *testing.T) {
	dir := t.TempDir()
	movements := []entities.StockMovement{
		{ID: "mov-17-0", ArticleID: "17", ArticleCode: "ART-000017", ArticleName: "Kopieerpapier A4 80g", WarehouseID: "wh-001",
			Date: time.Date(2024, time.December, 1, 0, 0, 0, 0, time.UTC), Type: entities.MovementIn, Quantity: 50, Reference: "Beginvoorraad", RunningStock: 50},
		{ID: "mov-17-3", ArticleID: "17", ArticleCode: "ART-000017", ArticleName: "Kopieerpapier A4 80g", WarehouseID: "wh-001",
			Date: time.Date(2024, time.December, 3, 0, 0, 0, 0, time.UTC), Type: entities.MovementOut, Quantity: 7, Reference: "Afdeling A", RunningStock: 43},
	}

	writer, err := NewWriter(dir)
	if err != nil {
		t.Fatalf("Failed to create writer: %v", err)
	}
	path, err := writer.WriteMovements(MovementsFile, movements)
	if err != nil {
		t.Fatalf("Failed to write movements: %v", err)
	}
	if path != filepath.Join(dir, MovementsFile) {
		t.Errorf("Unexpected path %s", path)
	}

	loader, _ := NewDirLoader(dir)
	loaded, err := loader.LoadMovements(MovementsFile)
	if err != nil {
		t.Fatalf("Failed to load movements: %v", err)
	}
	if !reflect.DeepEqual(loaded, movements) {
		t.Errorf("Expected %+v, got %+v", movements, loaded)
	}
}
