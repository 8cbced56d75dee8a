package testing

import (
	"github.com/prisonproc/procurement/pkg/domain/entities"
	"github.com/prisonproc/procurement/pkg/domain/repositories"
	"github.com/prisonproc/procurement/pkg/infrastructure/fixtures"
	"github.com/prisonproc/procurement/pkg/infrastructure/repositories/memory"
)

// BuildDemoStore loads the embedded demo scenario into a memory store
func BuildDemoStore() *memory.Store {
	ds, err := fixtures.Load()
	if err != nil {
		panic(err)
	}
	store, err := memory.NewStore(ds)
	if err != nil {
		panic(err)
	}
	return store
}

// BuildSmallDataset builds a two-prison scenario with three stock
// positions: one plain, one below its minimum and one with zero stock
func BuildSmallDataset() *repositories.Dataset {
	return &repositories.Dataset{
		Suppliers: []*entities.Supplier{
			mustSupplier("1", "SUP001", "Colruyt Group NV", entities.LanguageDutch, true),
			mustSupplier("5", "SUP005", "Sodexo Belgium", entities.LanguageFrench, false),
		},
		Articles: []*entities.Article{
			mustArticle("1", "ART-000001", "Coca-Cola Classic", "beverages", entities.UnitPiece),
			mustArticle("3", "ART-000003", "Wit Brood Gesneden", "food", entities.UnitPiece),
			mustArticle("17", "ART-000017", "Aardappelen", "food", entities.UnitKilogram),
		},
		Prisons: []*entities.Prison{
			mustPrison("antwerpen", "ANT", "Gevangenis Antwerpen", entities.RegionFlanders),
			mustPrison("lantin", "LAN", "Prison de Lantin", entities.RegionWallonia),
		},
		Users: []*entities.User{
			mustUser("user-001", "jan.peeters@justitie.belgium.be", "Jan Peeters", "antwerpen", "lantin"),
			mustUser("user-002", "marie.janssens@justitie.belgium.be", "Marie Janssens", "antwerpen"),
		},
		Warehouses: []*entities.Warehouse{
			mustWarehouse("wh-001", "MAG-001", "Hoofdmagazijn", "antwerpen"),
			mustWarehouse("wh-020", "MAG-001", "Magasin Central", "lantin"),
		},
		Stock: []*entities.StockTarget{
			mustTarget("1", "wh-001", 48, 24),
			mustTarget("3", "wh-001", 12, 20),
			mustTarget("17", "wh-020", 0, 10),
		},
	}
}

// BuildSmallStore loads BuildSmallDataset into a memory store
func BuildSmallStore() *memory.Store {
	store, err := memory.NewStore(BuildSmallDataset())
	if err != nil {
		panic(err)
	}
	return store
}

func mustSupplier(id, code, name string, lang entities.Language, activeForLocal bool) *entities.Supplier {
	s, err := entities.NewSupplier(id, code, name, "", "", lang, true, activeForLocal)
	if err != nil {
		panic(err)
	}
	return s
}

func mustArticle(id, code, description, group string, unit entities.Unit) *entities.Article {
	a, err := entities.NewArticle(id, code, description, group, "", "", unit, "", "", "", false)
	if err != nil {
		panic(err)
	}
	return a
}

func mustPrison(id, code, name string, region entities.Region) *entities.Prison {
	p, err := entities.NewPrison(id, code, name, "", region, 0, "", false)
	if err != nil {
		panic(err)
	}
	return p
}

func mustUser(id, email, name string, prisons ...string) *entities.User {
	u, err := entities.NewUser(entities.User{
		ID:              id,
		Email:           email,
		Name:            name,
		AuthType:        entities.AuthLocal,
		Roles:           []entities.UserRole{{SystemID: "local", Role: entities.RoleUser}},
		AssignedPrisons: prisons,
	})
	if err != nil {
		panic(err)
	}
	return u
}

func mustWarehouse(id, code, name, prisonID string) *entities.Warehouse {
	w, err := entities.NewWarehouse(id, code, name, prisonID)
	if err != nil {
		panic(err)
	}
	return w
}

func mustTarget(articleID, warehouseID string, current, minimum entities.Quantity) *entities.StockTarget {
	t, err := entities.NewStockTarget(articleID, warehouseID, current, minimum)
	if err != nil {
		panic(err)
	}
	return t
}
