package csv

import (
	"errors"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/prisonproc/procurement/pkg/domain/entities"
)

func mapFS(files map[string]string) fstest.MapFS {
	fsys := fstest.MapFS{}
	for name, content := range files {
		fsys[name] = &fstest.MapFile{Data: []byte(content)}
	}
	return fsys
}

func TestLoader_LoadDataset(t *testing.T) {
	loader := NewLoader(mapFS(map[string]string{
		SuppliersFile: "id,code,name,telephone,email,language,published,active_for_local\n" +
			"1,sup001,Colruyt Group NV,+32 2 363 55 45,info@colruytgroup.com,NL,true,true\n",
		ArticlesFile: "id,code,description,group,subgroup,packaging,unit,brand,ean_code,intrastat,blocked\n" +
			"5,ART-000005,Kippenfilet Vers,food,meat,5kg doos,kg,Volys,5400141987654,02071410,false\n",
		UsersFile: "id,email,name,auth_type,o365_group,blocked,roles,assigned_prisons,menu_rights,created_at,last_login\n" +
			"user-004,anna.claes@justitie.belgium.be,Anna Claes,local,,false,local:user,leuven,dashboard|stock,2024-04-05,\n",
		StockFile: "article_id,warehouse_id,current_stock,min_stock\n5,wh-004,8,15\n",
	}))

	ds, err := loader.LoadDataset()
	if err != nil {
		t.Fatalf("Failed to load dataset: %v", err)
	}

	if len(ds.Suppliers) != 1 || ds.Suppliers[0].Code != "SUP001" || !ds.Suppliers[0].ActiveForLocal {
		t.Errorf("Unexpected suppliers %+v", ds.Suppliers)
	}
	if len(ds.Articles) != 1 || ds.Articles[0].Unit != entities.UnitKilogram {
		t.Errorf("Unexpected articles %+v", ds.Articles)
	}
	if len(ds.Prisons) != 0 || len(ds.Warehouses) != 0 {
		t.Errorf("Expected missing files to load as empty")
	}

	user := ds.Users[0]
	if user.LastLogin != nil {
		t.Errorf("Expected no last login, got %v", user.LastLogin)
	}
	if !user.CreatedAt.Equal(time.Date(2024, time.April, 5, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Unexpected created_at %v", user.CreatedAt)
	}
	if role, ok := user.RoleIn("local"); !ok || role != entities.RoleUser {
		t.Errorf("Expected local user role, got %v", user.Roles)
	}
	if len(user.MenuRights) != 2 || user.MenuRights[1] != "stock" {
		t.Errorf("Unexpected menu rights %v", user.MenuRights)
	}

	if ds.Stock[0].CurrentStock != 8 || ds.Stock[0].MinStock != 15 {
		t.Errorf("Unexpected stock %+v", ds.Stock[0])
	}
}

func TestLoader_Errors(t *testing.T) {
	tests := []struct {
		name     string
		file     string
		content  string
		load     func(l *Loader, name string) error
		contains string
	}{
		{
			name:     "header mismatch",
			file:     WarehousesFile,
			content:  "id,code,name\nwh-001,MAG-001,Hoofdmagazijn\n",
			load:     func(l *Loader, n string) error { _, err := l.LoadWarehouses(n); return err },
			contains: "warehouses CSV header mismatch",
		},
		{
			name:     "column count",
			file:     WarehousesFile,
			content:  "id,code,name,prison_id\nwh-001,MAG-001,Hoofdmagazijn,antwerpen\nwh-002,MAG-002\n",
			load:     func(l *Loader, n string) error { _, err := l.LoadWarehouses(n); return err },
			contains: "warehouses CSV row 3: expected 4 columns, got 2",
		},
		{
			name:     "bad quantity",
			file:     StockFile,
			content:  "article_id,warehouse_id,current_stock,min_stock\n1,wh-001,many,24\n",
			load:     func(l *Loader, n string) error { _, err := l.LoadStock(n); return err },
			contains: "stock CSV row 2: invalid current_stock: many",
		},
		{
			name:     "bad region",
			file:     PrisonsFile,
			content:  "id,code,name,city,region,capacity,phone,blocked\nx,X,Gevangenis X,X,atlantis,10,,false\n",
			load:     func(l *Loader, n string) error { _, err := l.LoadPrisons(n); return err },
			contains: "prisons CSV row 2",
		},
		{
			name:     "bad bool",
			file:     ArticlesFile,
			content:  "id,code,description,group,subgroup,packaging,unit,brand,ean_code,intrastat,blocked\n1,A,d,g,,,st,,,,maybe\n",
			load:     func(l *Loader, n string) error { _, err := l.LoadArticles(n); return err },
			contains: "invalid blocked: maybe",
		},
		{
			name:     "bad role",
			file:     UsersFile,
			content:  "id,email,name,auth_type,o365_group,blocked,roles,assigned_prisons,menu_rights,created_at,last_login\nu,u@x.be,U,local,,false,admin,,,2024-01-01,\n",
			load:     func(l *Loader, n string) error { _, err := l.LoadUsers(n); return err },
			contains: "invalid role \"admin\"",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loader := NewLoader(mapFS(map[string]string{tt.file: tt.content}))
			err := tt.load(loader, tt.file)
			if err == nil {
				t.Fatal("Expected error, got none")
			}
			if !strings.Contains(err.Error(), tt.contains) {
				t.Errorf("Expected error containing %q, got %v", tt.contains, err)
			}
		})
	}
}

func TestLoader_InvalidEntityIsWrapped(t *testing.T) {
	loader := NewLoader(mapFS(map[string]string{
		SuppliersFile: "id,code,name,telephone,email,language,published,active_for_local\n1,SUP001,Colruyt,,not-an-email,NL,true,false\n",
	}))

	_, err := loader.LoadSuppliers(SuppliersFile)
	if !errors.Is(err, entities.ErrInvalidEntity) {
		t.Errorf("Expected ErrInvalidEntity, got %v", err)
	}
}

func TestLoader_BOMHeader(t *testing.T) {
	loader := NewLoader(mapFS(map[string]string{
		WarehousesFile: "\ufeffid,code,name,prison_id\nwh-001,MAG-001,Hoofdmagazijn,antwerpen\n",
	}))

	warehouses, err := loader.LoadWarehouses(WarehousesFile)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(warehouses) != 1 {
		t.Errorf("Expected 1 warehouse, got %d", len(warehouses))
	}
}

func TestNewDirLoader_Missing(t *testing.T) {
	if _, err := NewDirLoader("/does/not/exist"); err == nil {
		t.Error("Expected error for missing directory")
	}
}
