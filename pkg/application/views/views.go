// Package views declares the column sets of the dashboard list pages and
// renders a page query into a ListResult.
package views

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"golang.org/x/text/language"

	"github.com/prisonproc/procurement/pkg/application/dto"
	"github.com/prisonproc/procurement/pkg/application/services/tableview"
	"github.com/prisonproc/procurement/pkg/domain/entities"
	"github.com/prisonproc/procurement/pkg/domain/repositories"
)

// List page names
const (
	PageSuppliers  = "suppliers"
	PageArticles   = "articles"
	PagePrisons    = "prisons"
	PageUsers      = "users"
	PageWarehouses = "warehouses"
)

// ErrUnknownPage is returned for a page name that has no column set
var ErrUnknownPage = errors.New("unknown page")

// Pages lists the page names in menu order
func Pages() []string {
	return []string{PageSuppliers, PageArticles, PagePrisons, PageUsers, PageWarehouses}
}

var (
	statusOptions = []tableview.FilterOption{{Value: "false", Label: "Active"}, {Value: "true", Label: "Blocked"}}
	yesNoOptions  = []tableview.FilterOption{{Value: "true", Label: "Yes"}, {Value: "false", Label: "No"}}
)

func formatStatus(v any) string {
	if b, _ := v.(bool); b {
		return "Blocked"
	}
	return "Active"
}

func formatYesNo(v any) string {
	if b, _ := v.(bool); b {
		return "Yes"
	}
	return "No"
}

// Suppliers returns the supplier list columns
func Suppliers(opts ...tableview.ViewOption) *tableview.View[*entities.Supplier] {
	fields := []tableview.Field[*entities.Supplier]{
		tableview.String("id", func(s *entities.Supplier) string { return s.ID }),
		tableview.String("code", func(s *entities.Supplier) string { return s.Code }),
		tableview.String("name", func(s *entities.Supplier) string { return s.Name }),
		tableview.String("email", func(s *entities.Supplier) string { return s.Email }),
		tableview.String("telephone", func(s *entities.Supplier) string { return s.Telephone }),
		tableview.String("language", func(s *entities.Supplier) string { return string(s.Language) }),
		tableview.Bool("published", func(s *entities.Supplier) bool { return s.Published }),
		tableview.Bool("active_for_local", func(s *entities.Supplier) bool { return s.ActiveForLocal }),
	}
	columns := []tableview.Column{
		{Key: "code", Header: "Code", Sortable: true},
		{Key: "name", Header: "Name", Sortable: true},
		{Key: "email", Header: "Email"},
		{Key: "telephone", Header: "Phone"},
		{
			Key: "language", Header: "Language", Sortable: true, Filterable: true,
			Options: []tableview.FilterOption{
				{Value: "NL", Label: "Nederlands"},
				{Value: "FR", Label: "Français"},
				{Value: "DE", Label: "Deutsch"},
				{Value: "EN", Label: "English"},
			},
		},
		{Key: "published", Header: "Published", Sortable: true, Filterable: true, Options: yesNoOptions, Format: formatYesNo},
		{
			Key: "active_for_local", Header: "Local", Sortable: true, Filterable: true,
			Options: []tableview.FilterOption{{Value: "true", Label: "Active (local)"}, {Value: "false", Label: "Inactive (local)"}},
			Format: func(v any) string {
				if b, _ := v.(bool); b {
					return "Active (local)"
				}
				return "Inactive (local)"
			},
		},
	}
	return tableview.MustNew("id", fields, columns, opts...)
}

// Articles returns the article catalog columns
func Articles(opts ...tableview.ViewOption) *tableview.View[*entities.Article] {
	fields := []tableview.Field[*entities.Article]{
		tableview.String("id", func(a *entities.Article) string { return a.ID }),
		tableview.String("code", func(a *entities.Article) string { return a.Code }),
		tableview.String("description", func(a *entities.Article) string { return a.Description }),
		tableview.String("group", func(a *entities.Article) string { return a.Group }),
		tableview.String("subgroup", func(a *entities.Article) string { return a.Subgroup }),
		tableview.String("packaging", func(a *entities.Article) string { return a.Packaging }),
		tableview.String("unit", func(a *entities.Article) string { return string(a.Unit) }),
		tableview.String("brand", func(a *entities.Article) string { return a.Brand }),
		tableview.String("ean_code", func(a *entities.Article) string { return a.EANCode }),
		tableview.Bool("blocked", func(a *entities.Article) bool { return a.Blocked }),
	}
	columns := []tableview.Column{
		{Key: "code", Header: "Code", Sortable: true},
		{Key: "description", Header: "Description", Sortable: true},
		{
			Key: "group", Header: "Group", Sortable: true, Filterable: true,
			Options: []tableview.FilterOption{
				{Value: "beverages", Label: "Beverages"},
				{Value: "food", Label: "Food"},
				{Value: "hygiene", Label: "Hygiene"},
				{Value: "cleaning", Label: "Cleaning"},
				{Value: "office", Label: "Office"},
			},
		},
		{Key: "subgroup", Header: "Subgroup", Sortable: true},
		{Key: "packaging", Header: "Packaging"},
		{
			Key: "unit", Header: "Unit", Filterable: true,
			Options: []tableview.FilterOption{{Value: "st", Label: "Piece"}, {Value: "kg", Label: "Kilogram"}},
		},
		{Key: "brand", Header: "Brand", Sortable: true},
		{Key: "ean_code", Header: "EAN"},
		{Key: "blocked", Header: "Status", Sortable: true, Filterable: true, Options: statusOptions, Format: formatStatus},
	}
	return tableview.MustNew("id", fields, columns, opts...)
}

// Prisons returns the prison list columns
func Prisons(opts ...tableview.ViewOption) *tableview.View[*entities.Prison] {
	fields := []tableview.Field[*entities.Prison]{
		tableview.String("id", func(p *entities.Prison) string { return p.ID }),
		tableview.String("code", func(p *entities.Prison) string { return p.Code }),
		tableview.String("name", func(p *entities.Prison) string { return p.Name }),
		tableview.String("city", func(p *entities.Prison) string { return p.City }),
		tableview.String("region", func(p *entities.Prison) string { return string(p.Region) }),
		tableview.Int("capacity", func(p *entities.Prison) int { return p.Capacity }),
		tableview.String("phone", func(p *entities.Prison) string { return p.Phone }),
		tableview.Bool("blocked", func(p *entities.Prison) bool { return p.Blocked }),
	}
	columns := []tableview.Column{
		{Key: "code", Header: "Code", Sortable: true},
		{Key: "name", Header: "Name", Sortable: true},
		{Key: "city", Header: "City", Sortable: true},
		{
			Key: "region", Header: "Region", Sortable: true, Filterable: true,
			Options: []tableview.FilterOption{
				{Value: "flanders", Label: "Flanders"},
				{Value: "wallonia", Label: "Wallonia"},
				{Value: "brussels", Label: "Brussels"},
			},
		},
		{Key: "capacity", Header: "Capacity", Sortable: true},
		{Key: "phone", Header: "Phone"},
		{Key: "blocked", Header: "Status", Sortable: true, Filterable: true, Options: statusOptions, Format: formatStatus},
	}
	return tableview.MustNew("id", fields, columns, opts...)
}

// Users returns the user management columns
func Users(opts ...tableview.ViewOption) *tableview.View[*entities.User] {
	fields := []tableview.Field[*entities.User]{
		tableview.String("id", func(u *entities.User) string { return u.ID }),
		tableview.String("name", func(u *entities.User) string { return u.Name }),
		tableview.String("email", func(u *entities.User) string { return u.Email }),
		tableview.String("auth_type", func(u *entities.User) string { return string(u.AuthType) }),
		tableview.String("o365_group", func(u *entities.User) string { return u.O365Group }),
		tableview.Other("roles", func(u *entities.User) any { return u.Roles }),
		tableview.Other("assigned_prisons", func(u *entities.User) any { return u.AssignedPrisons }),
		tableview.Bool("blocked", func(u *entities.User) bool { return u.Blocked }),
		tableview.Date("last_login", func(u *entities.User) time.Time {
			if u.LastLogin == nil {
				return time.Time{}
			}
			return *u.LastLogin
		}),
	}
	columns := []tableview.Column{
		{Key: "name", Header: "Name", Sortable: true},
		{Key: "email", Header: "Email", Sortable: true},
		{
			Key: "auth_type", Header: "Auth", Filterable: true,
			Options: []tableview.FilterOption{{Value: "o365", Label: "Office 365"}, {Value: "local", Label: "Local"}},
		},
		{
			Key: "roles", Header: "Roles",
			Format: func(v any) string {
				roles, _ := v.([]entities.UserRole)
				parts := make([]string, len(roles))
				for i, r := range roles {
					parts[i] = r.SystemID + ": " + string(r.Role)
				}
				return strings.Join(parts, ", ")
			},
		},
		{
			Key: "assigned_prisons", Header: "Prisons",
			Format: func(v any) string {
				ids, _ := v.([]string)
				return strings.Join(ids, ", ")
			},
		},
		{Key: "blocked", Header: "Status", Sortable: true, Filterable: true, Options: statusOptions, Format: formatStatus},
		{Key: "last_login", Header: "Last login", Sortable: true},
	}
	return tableview.MustNew("id", fields, columns, opts...)
}

// Warehouses returns the warehouse listing columns. The prison filter
// offers the given prisons.
func Warehouses(prisons []*entities.Prison, opts ...tableview.ViewOption) (*tableview.View[*entities.Warehouse], error) {
	names := make(map[string]string, len(prisons))
	options := make([]tableview.FilterOption, 0, len(prisons))
	for _, p := range prisons {
		names[p.ID] = p.Name
		options = append(options, tableview.FilterOption{Value: p.ID, Label: p.Name})
	}
	sort.Slice(options, func(i, j int) bool { return options[i].Label < options[j].Label })

	fields := []tableview.Field[*entities.Warehouse]{
		tableview.String("id", func(w *entities.Warehouse) string { return w.ID }),
		tableview.String("code", func(w *entities.Warehouse) string { return w.Code }),
		tableview.String("name", func(w *entities.Warehouse) string { return w.Name }),
		tableview.String("prison_id", func(w *entities.Warehouse) string { return w.PrisonID }),
	}
	columns := []tableview.Column{
		{Key: "id", Header: "ID", Sortable: true},
		{Key: "code", Header: "Code", Sortable: true},
		{Key: "name", Header: "Name", Sortable: true},
		{
			Key: "prison_id", Header: "Prison", Sortable: true, Filterable: len(options) > 0, Options: options,
			Format: func(v any) string {
				id, _ := v.(string)
				if name, ok := names[id]; ok {
					return name
				}
				return id
			},
		},
	}
	return tableview.New("id", fields, columns, opts...)
}

// Request is one list page query
type Request struct {
	Page    string
	Filters tableview.FilterState
	Sort    tableview.SortState
	Locale  language.Tag
	Scope   string
}

// Render runs the query of a page against a dataset
func Render(ds *repositories.Dataset, req Request) (*dto.ListResult, error) {
	opts := []tableview.ViewOption{}
	if req.Locale != language.Und {
		opts = append(opts, tableview.WithLocale(req.Locale))
	}

	switch req.Page {
	case PageSuppliers:
		return render(Suppliers(opts...), ds.Suppliers, req)
	case PageArticles:
		return render(Articles(opts...), ds.Articles, req)
	case PagePrisons:
		return render(Prisons(opts...), ds.Prisons, req)
	case PageUsers:
		return render(Users(opts...), ds.Users, req)
	case PageWarehouses:
		v, err := Warehouses(ds.Prisons, opts...)
		if err != nil {
			return nil, err
		}
		return render(v, ds.Warehouses, req)
	default:
		return nil, fmt.Errorf("%w: %q (expected one of %s)", ErrUnknownPage, req.Page, strings.Join(Pages(), ", "))
	}
}

func render[T any](v *tableview.View[T], records []T, req Request) (*dto.ListResult, error) {
	for key, value := range req.Filters.Values {
		col, ok := v.Column(key)
		if !ok || !col.Filterable {
			return nil, fmt.Errorf("%w: %q is not a filter of the %s page", tableview.ErrUnknownField, key, req.Page)
		}
		if value != "" && !hasOption(col, value) {
			return nil, fmt.Errorf("invalid value %q for filter %s", value, key)
		}
	}
	if req.Sort.Active() {
		if col, ok := v.Column(req.Sort.Key); !ok || !col.Sortable {
			return nil, fmt.Errorf("%w: %q is not a sortable column of the %s page", tableview.ErrUnknownField, req.Sort.Key, req.Page)
		}
	}
	if err := v.CheckKeys(records); err != nil {
		return nil, err
	}

	result := v.Query(records, req.Filters, req.Sort)

	out := &dto.ListResult{
		Page:    req.Page,
		Scope:   req.Scope,
		Headers: v.Headers(),
		Keys:    make([]string, len(result.Rows)),
		Rows:    make([][]string, len(result.Rows)),
		Total:   result.Total,
		Visible: result.Visible,
		Summary: result.Summary(),
		Search:  req.Filters.Search,
		Filters: req.Filters.Values,
	}
	if req.Sort.Active() {
		out.Sort = req.Sort.Key + ":" + req.Sort.Direction.String()
	}
	for i, r := range result.Rows {
		out.Keys[i] = v.Key(r)
		out.Rows[i] = v.Cells(r)
	}
	return out, nil
}

func hasOption(col tableview.Column, value string) bool {
	for _, o := range col.Options {
		if strings.EqualFold(o.Value, value) {
			return true
		}
	}
	return false
}
