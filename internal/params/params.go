package params

import (
	"math"
	"net/url"
	"strconv"
	"strings"
)

// PageSize is fixed by the upstream catalog: search responses always come in
// pages of ten.
const PageSize = 10

// Pagination holds the page controls rendered next to search results.
type Pagination struct {
	Page       int  `json:"page"`
	Total      int  `json:"total"`
	TotalPages int  `json:"total_pages"`
	HasNext    bool `json:"has_next"`
	HasPrev    bool `json:"has_prev"`
}

// ParsePage parses ?page=... safely. Anything missing, malformed or
// non-positive falls back to page 1.
func ParsePage(q url.Values) int {
	if pageStr := strings.TrimSpace(q.Get("page")); pageStr != "" {
		if page, err := strconv.Atoi(pageStr); err == nil && page > 0 {
			return page
		}
	}
	return 1
}

// Pages returns how many pages a result count spans: ceiling division by
// PageSize, with zero results giving zero pages. The caller is responsible
// for normalizing a malformed upstream count to 0 first.
func Pages(total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Ceil(float64(total) / float64(PageSize)))
}

// NewPagination computes page metadata after the upstream count is known.
func NewPagination(page, total int) Pagination {
	return Pagination{
		Page:       page,
		Total:      total,
		TotalPages: Pages(total),
		HasPrev:    page > 1,
		HasNext:    page*PageSize < total,
	}
}
