package scope

import (
	"errors"
	"testing"

	"github.com/prisonproc/procurement/pkg/domain/entities"
	"github.com/prisonproc/procurement/pkg/infrastructure/fixtures"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		mode    entities.OperatingMode
		prison  string
		want    Scope
		wantErr error
	}{
		{"central", entities.ModeCentral, "", Scope{Mode: entities.ModeCentral}, nil},
		{"central_ignores_prison", entities.ModeCentral, "gent", Scope{Mode: entities.ModeCentral}, nil},
		{"local", entities.ModeLocal, "gent", Scope{Mode: entities.ModeLocal, PrisonID: "gent"}, nil},
		{"local_without_prison", entities.ModeLocal, "", Scope{}, ErrMissingPrison},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := New(tt.mode, tt.prison)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Expected error %v, got %v", tt.wantErr, err)
			}
			if got != tt.want {
				t.Errorf("Expected %+v, got %+v", tt.want, got)
			}
		})
	}
}

func TestApply_Central(t *testing.T) {
	ds, err := fixtures.Load()
	if err != nil {
		t.Fatalf("Failed to load demo scenario: %v", err)
	}

	s, _ := New(entities.ModeCentral, "")
	scoped, err := s.Apply(ds)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	for i, c := range scoped.Counts() {
		if want := ds.Counts()[i]; c != want {
			t.Errorf("Expected %d %s in central mode, got %d", want.Count, c.Kind, c.Count)
		}
	}
}

func TestApply_Local(t *testing.T) {
	ds, err := fixtures.Load()
	if err != nil {
		t.Fatalf("Failed to load demo scenario: %v", err)
	}

	s, _ := New(entities.ModeLocal, "antwerpen")
	scoped, err := s.Apply(ds)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if len(scoped.Prisons) != 1 || scoped.Prisons[0].ID != "antwerpen" {
		t.Errorf("Expected only antwerpen, got %d prisons", len(scoped.Prisons))
	}
	if len(scoped.Warehouses) != 5 {
		t.Errorf("Expected 5 warehouses in antwerpen, got %d", len(scoped.Warehouses))
	}
	for _, w := range scoped.Warehouses {
		if w.PrisonID != "antwerpen" {
			t.Errorf("Warehouse %s belongs to %s", w.ID, w.PrisonID)
		}
	}
	if len(scoped.Suppliers) != 11 {
		t.Errorf("Expected 11 suppliers active for local, got %d", len(scoped.Suppliers))
	}
	for _, sup := range scoped.Suppliers {
		if !sup.ActiveForLocal {
			t.Errorf("Supplier %s is not active for local procurement", sup.Code)
		}
	}
	// user-001, user-002 and user-005 are assigned to antwerpen
	if len(scoped.Users) != 3 {
		t.Errorf("Expected 3 users, got %d", len(scoped.Users))
	}
	if len(scoped.Stock) != len(ds.Stock) {
		t.Errorf("Expected all %d demo stock positions in antwerpen, got %d", len(ds.Stock), len(scoped.Stock))
	}
	if len(scoped.Articles) != len(ds.Articles) {
		t.Errorf("Expected the full article catalog, got %d", len(scoped.Articles))
	}
}

func TestApply_LocalWithoutStock(t *testing.T) {
	ds, err := fixtures.Load()
	if err != nil {
		t.Fatalf("Failed to load demo scenario: %v", err)
	}

	s, _ := New(entities.ModeLocal, "gent")
	scoped, err := s.Apply(ds)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if len(scoped.Warehouses) != 4 {
		t.Errorf("Expected 4 warehouses in gent, got %d", len(scoped.Warehouses))
	}
	if len(scoped.Stock) != 0 {
		t.Errorf("Expected no stock positions in gent, got %d", len(scoped.Stock))
	}
}

func TestApply_UnknownPrison(t *testing.T) {
	ds, err := fixtures.Load()
	if err != nil {
		t.Fatalf("Failed to load demo scenario: %v", err)
	}

	s, _ := New(entities.ModeLocal, "atlantis")
	if _, err := s.Apply(ds); !errors.Is(err, ErrUnknownPrison) {
		t.Errorf("Expected ErrUnknownPrison, got %v", err)
	}
}

func TestString(t *testing.T) {
	central, _ := New(entities.ModeCentral, "")
	local, _ := New(entities.ModeLocal, "brugge")

	if central.String() != "central" {
		t.Errorf("Expected central, got %s", central.String())
	}
	if local.String() != "local (brugge)" {
		t.Errorf("Expected local (brugge), got %s", local.String())
	}
}
