package pagination

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// Bounds are the process-wide page size limits from configuration.
type Bounds struct {
	Default int
	Max     int
}

type Params struct {
	Limit  int
	Offset int
}

// Clamp applies the bounds. Out-of-range values are corrected, never rejected.
func (b Bounds) Clamp(limit, offset int) Params {
	if limit < 1 {
		limit = b.Default
	}
	if limit > b.Max {
		limit = b.Max
	}
	if offset < 0 {
		offset = 0
	}
	return Params{Limit: limit, Offset: offset}
}

// maxPage keeps (page-1)*limit well inside int range.
const maxPage = 1 << 20

// FromQuery reads limit plus either offset or a 1-based page. Pages beyond
// maxPage are clamped to it.
func (b Bounds) FromQuery(c *gin.Context) Params {
	limit := atoiOr(c.Query("limit"), b.Default)

	if raw, ok := c.GetQuery("offset"); ok {
		return b.Clamp(limit, atoiOr(raw, 0))
	}

	p := b.Clamp(limit, 0)
	if page := atoiOr(c.Query("page"), 1); page > 1 {
		p.Offset = (min(page, maxPage) - 1) * p.Limit
	}
	return p
}

func atoiOr(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

type Page[T any] struct {
	Items   []T  `json:"items"`
	Total   int  `json:"total"`
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	HasMore bool `json:"has_more"`
}

func NewPage[T any](items []T, total int, p Params) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{
		Items:   items,
		Total:   total,
		Limit:   p.Limit,
		Offset:  p.Offset,
		HasMore: p.Offset+len(items) < total,
	}
}
