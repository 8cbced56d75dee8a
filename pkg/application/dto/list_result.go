package dto

// ListResult is one rendered list page: the visible rows as display cells
// plus the state that produced them
type ListResult struct {
	Page    string            `json:"page"`
	Scope   string            `json:"scope"`
	Headers []string          `json:"headers"`
	Keys    []string          `json:"keys"`
	Rows    [][]string        `json:"rows"`
	Total   int               `json:"total"`
	Visible int               `json:"visible"`
	Summary string            `json:"summary"`
	Search  string            `json:"search,omitempty"`
	Filters map[string]string `json:"filters,omitempty"`
	Sort    string            `json:"sort,omitempty"`
}

// NoMatches reports whether every row was filtered out
func (r *ListResult) NoMatches() bool {
	return r.Visible == 0 && r.Total > 0
}
