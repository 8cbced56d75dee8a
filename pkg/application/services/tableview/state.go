package tableview

import (
	"fmt"
	"strings"
)

// SortDirection is the tri-state direction of a column sort
type SortDirection int

const (
	SortNone SortDirection = iota
	SortAscending
	SortDescending
)

// String method for SortDirection enum
func (d SortDirection) String() string {
	switch d {
	case SortNone:
		return "none"
	case SortAscending:
		return "asc"
	case SortDescending:
		return "desc"
	default:
		return "unknown"
	}
}

// SortState holds at most one active sort key. Direction SortNone always
// comes with an empty key.
type SortState struct {
	Key       string
	Direction SortDirection
}

// Active reports whether the state orders the rows
func (s SortState) Active() bool {
	return s.Key != "" && s.Direction != SortNone
}

// ParseSort reads "field", "field:asc" or "field:desc"
func ParseSort(s string) (SortState, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return SortState{}, nil
	}

	key, dir, _ := strings.Cut(s, ":")
	key = strings.TrimSpace(key)
	if key == "" {
		return SortState{}, fmt.Errorf("sort key cannot be empty in %q", s)
	}

	switch strings.ToLower(strings.TrimSpace(dir)) {
	case "", "asc":
		return SortState{Key: key, Direction: SortAscending}, nil
	case "desc":
		return SortState{Key: key, Direction: SortDescending}, nil
	default:
		return SortState{}, fmt.Errorf("unknown sort direction %q (expected asc or desc)", dir)
	}
}

// CycleSort advances the sort state after a click on a column header:
// none → ascending → descending → none. A click on another column starts
// over at ascending.
func CycleSort(current SortState, clicked string) SortState {
	if clicked == "" {
		return current
	}
	if clicked != current.Key {
		return SortState{Key: clicked, Direction: SortAscending}
	}

	switch current.Direction {
	case SortAscending:
		return SortState{Key: clicked, Direction: SortDescending}
	case SortDescending:
		return SortState{}
	default:
		return SortState{Key: clicked, Direction: SortAscending}
	}
}

// FilterState holds one selected value per field plus a free-text search.
// A field that is absent or mapped to "" is not filtered.
type FilterState struct {
	Values map[string]string
	Search string
}

// With returns a copy of the state with the field set to value
func (f FilterState) With(field, value string) FilterState {
	values := make(map[string]string, len(f.Values)+1)
	for k, v := range f.Values {
		values[k] = v
	}
	values[field] = value
	return FilterState{Values: values, Search: f.Search}
}

// WithSearch returns a copy of the state with a new search string
func (f FilterState) WithSearch(search string) FilterState {
	return FilterState{Values: f.Values, Search: search}
}

// Value returns the selected value for a field, "" when none
func (f FilterState) Value(field string) string {
	return f.Values[field]
}

// Active reports whether any filter or the search narrows the rows
func (f FilterState) Active() bool {
	if f.Search != "" {
		return true
	}
	for _, v := range f.Values {
		if v != "" {
			return true
		}
	}
	return false
}

// Clear resets every filter and the search at once
func (f FilterState) Clear() FilterState {
	return FilterState{}
}

// ClearFilters returns the empty filter state
func ClearFilters(FilterState) FilterState {
	return FilterState{}
}

// ParseFilters reads "field=value" pairs
func ParseFilters(pairs []string, search string) (FilterState, error) {
	state := FilterState{Search: search}
	for _, pair := range pairs {
		field, value, ok := strings.Cut(pair, "=")
		field = strings.TrimSpace(field)
		if !ok || field == "" {
			return FilterState{}, fmt.Errorf("invalid filter %q (expected field=value)", pair)
		}
		state = state.With(field, strings.TrimSpace(value))
	}
	return state, nil
}
