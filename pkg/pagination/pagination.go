package pagination

import (
	"math"
	"slices"
	"strings"
)

// SortField names a field to order by and its direction.
type SortField struct {
	Field      string `json:"field"`
	Descending bool   `json:"descending,omitempty"`
}

// ParseSortFields parses a comma-separated sort expression such as "name,-created_at".
// A leading "-" marks a field as descending. Empty segments are skipped.
func ParseSortFields(s string) []SortField {
	if s == "" {
		return nil
	}

	var fields []SortField
	for part := range strings.SplitSeq(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if name, ok := strings.CutPrefix(part, "-"); ok {
			if name != "" {
				fields = append(fields, SortField{Field: name, Descending: true})
			}
			continue
		}
		fields = append(fields, SortField{Field: part})
	}
	return fields
}

// PageRequest represents a client request for a page of data with optional search and sorting.
type PageRequest struct {
	Page     int         `json:"page"`
	PageSize int         `json:"page_size"`
	Search   *string     `json:"search,omitempty"`
	Sort     []SortField `json:"sort,omitempty"`
}

// Normalize adjusts the request to ensure valid pagination values based on the config.
func (r *PageRequest) Normalize(cfg Config) {
	if r.Page < 1 {
		r.Page = 1
	}
	if r.PageSize < 1 {
		r.PageSize = cfg.DefaultPageSize
	}
	if r.PageSize > cfg.MaxPageSize {
		r.PageSize = cfg.MaxPageSize
	}
}

// Offset calculates the number of records to skip based on page and page size.
// Offsets that would overflow int saturate at math.MaxInt.
func (r *PageRequest) Offset() int {
	if r.Page <= 1 || r.PageSize < 1 {
		return 0
	}
	if r.Page-1 > math.MaxInt/r.PageSize {
		return math.MaxInt
	}
	return (r.Page - 1) * r.PageSize
}

// PageResult holds a page of data along with pagination metadata.
type PageResult[T any] struct {
	Data       []T `json:"data"`
	Total      int `json:"total"`
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalPages int `json:"total_pages"`
}

// NewPageResult creates a PageResult with calculated total pages.
func NewPageResult[T any](data []T, total, page, pageSize int) PageResult[T] {
	totalPages := total / pageSize
	if total%pageSize != 0 {
		totalPages++
	}
	if totalPages < 1 {
		totalPages = 1
	}

	if data == nil {
		data = []T{}
	}

	return PageResult[T]{
		Data:       data,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}
}

// Comparators maps sortable field names to comparison functions.
type Comparators[T any] map[string]func(a, b T) int

// Sort orders items in place by the requested fields, falling back to
// fallback when no requested field is known. Unknown field names are ignored.
func Sort[T any](items []T, fields []SortField, cmps Comparators[T], fallback SortField) {
	known := make([]SortField, 0, len(fields))
	for _, f := range fields {
		if _, ok := cmps[f.Field]; ok {
			known = append(known, f)
		}
	}
	if len(known) == 0 {
		if _, ok := cmps[fallback.Field]; !ok {
			return
		}
		known = append(known, fallback)
	}

	slices.SortStableFunc(items, func(a, b T) int {
		for _, f := range known {
			c := cmps[f.Field](a, b)
			if f.Descending {
				c = -c
			}
			if c != 0 {
				return c
			}
		}
		return 0
	})
}

// Paginate returns the page of items selected by req. The request is
// normalized against cfg first.
func Paginate[T any](items []T, req PageRequest, cfg Config) PageResult[T] {
	req.Normalize(cfg)

	total := len(items)
	start := min(req.Offset(), total)
	end := min(start+req.PageSize, total)

	page := make([]T, end-start)
	copy(page, items[start:end])

	return NewPageResult(page, total, req.Page, req.PageSize)
}
