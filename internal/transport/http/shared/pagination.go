package shared

import (
	"net/http"
	"strconv"
)

const (
	DefaultLimit = 10
	MaxLimit     = 100
)

// Page is the page/limit pair requested by a list endpoint.
type Page struct {
	Number int
	Limit  int
}

func (p Page) Offset() int {
	return (p.Number - 1) * p.Limit
}

// ParsePage reads page and limit, falling back to page 1 and defaultLimit on
// missing or invalid values.
func ParsePage(r *http.Request, defaultLimit, maxLimit int) Page {
	page := Page{Number: 1, Limit: defaultLimit}
	if raw := r.URL.Query().Get("page"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			page.Number = v
		}
	}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			page.Limit = v
		}
	}
	if maxLimit > 0 && page.Limit > maxLimit {
		page.Limit = maxLimit
	}
	return page
}

type Pagination struct {
	CurrentPage int  `json:"currentPage"`
	TotalPages  int  `json:"totalPages"`
	TotalCount  int  `json:"totalCount"`
	Limit       int  `json:"limit"`
	HasNext     bool `json:"hasNext"`
	HasPrev     bool `json:"hasPrev"`
}

func NewPagination(page Page, total int) Pagination {
	totalPages := 0
	if page.Limit > 0 {
		totalPages = (total + page.Limit - 1) / page.Limit
	}
	return Pagination{
		CurrentPage: page.Number,
		TotalPages:  totalPages,
		TotalCount:  total,
		Limit:       page.Limit,
		HasNext:     page.Number < totalPages,
		HasPrev:     page.Number > 1,
	}
}

// ListData is the data payload of a list endpoint: items under key plus the
// pagination block.
func ListData(key string, items any, page Page, total int) map[string]any {
	return map[string]any{
		key:          items,
		"pagination": NewPagination(page, total),
	}
}
