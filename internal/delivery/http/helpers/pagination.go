package helpers

import (
	"net/http"
	"strconv"

	"gatherly/internal/domain"
)

// Pagination query parameter defaults and limits.
const (
	DefaultPage     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// queryInt reads an integer query parameter, falling back when the value is
// missing, unparsable, or below min.
func queryInt(r *http.Request, key string, fallback, min int) int {
	s := r.URL.Query().Get(key)
	if s == "" {
		return fallback
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < min {
		return fallback
	}
	return v
}

// ParsePagination reads page and page_size from the query string and clamps
// them to valid ranges. Invalid or missing values fall back to defaults.
func ParsePagination(r *http.Request) domain.PaginationParams {
	page := queryInt(r, "page", DefaultPage, 1)
	pageSize := queryInt(r, "page_size", DefaultPageSize, 1)
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	return domain.PaginationParams{Page: page, PageSize: pageSize}
}

// PaginationMeta is the pagination block included in list responses.
// swagger:model PaginationMeta
type PaginationMeta struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// NewPaginationMeta builds PaginationMeta for the current page. TotalPages is
// ceiling(total / pageSize), or 0 when pageSize is 0.
func NewPaginationMeta(page, pageSize, total int) PaginationMeta {
	totalPages := 0
	if pageSize > 0 {
		totalPages = (total + pageSize - 1) / pageSize
	}
	return PaginationMeta{
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
	}
}
