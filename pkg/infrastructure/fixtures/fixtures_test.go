package fixtures

import "testing"

func TestLoad(t *testing.T) {
	ds, err := Load()
	if err != nil {
		t.Fatalf("Failed to load demo scenario: %v", err)
	}

	want := map[string]int{
		"suppliers":  20,
		"articles":   25,
		"prisons":    23,
		"users":      6,
		"warehouses": 12,
		"stock":      8,
	}
	for _, c := range ds.Counts() {
		if c.Count != want[c.Kind] {
			t.Errorf("Expected %d %s, got %d", want[c.Kind], c.Kind, c.Count)
		}
	}
}

func TestLoad_ReferencesResolve(t *testing.T) {
	ds, err := Load()
	if err != nil {
		t.Fatalf("Failed to load demo scenario: %v", err)
	}

	articles := map[string]bool{}
	for _, a := range ds.Articles {
		articles[a.ID] = true
	}
	prisons := map[string]bool{}
	for _, p := range ds.Prisons {
		prisons[p.ID] = true
	}
	warehouses := map[string]bool{}
	for _, w := range ds.Warehouses {
		warehouses[w.ID] = true
		if !prisons[w.PrisonID] {
			t.Errorf("Warehouse %s refers to unknown prison %s", w.ID, w.PrisonID)
		}
	}
	for _, s := range ds.Stock {
		if !articles[s.ArticleID] || !warehouses[s.WarehouseID] {
			t.Errorf("Stock position %s@%s does not resolve", s.ArticleID, s.WarehouseID)
		}
	}
	for _, u := range ds.Users {
		for _, p := range u.AssignedPrisons {
			if !prisons[p] {
				t.Errorf("User %s assigned to unknown prison %s", u.ID, p)
			}
		}
	}
}
