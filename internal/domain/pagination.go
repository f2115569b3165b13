package domain

import (
	"math"
	"time"
)

// MaxPageLimit caps every list endpoint
const MaxPageLimit = 100

// Page is a 1-based page request
type Page struct {
	Number int
	Limit  int
}

// NewPage normalises raw query values, falling back to page 1 and defaultLimit.
func NewPage(number, limit, defaultLimit int) Page {
	if number <= 0 {
		number = 1
	}
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	return Page{Number: number, Limit: limit}
}

// Skip is the number of documents to skip for this page
func (p Page) Skip() int64 {
	return int64((p.Number - 1) * p.Limit)
}

// Pagination is the envelope block returned with list responses
type Pagination struct {
	CurrentPage  int   `json:"currentPage"`
	TotalPages   int   `json:"totalPages"`
	TotalItems   int64 `json:"totalItems"`
	ItemsPerPage int   `json:"itemsPerPage"`
}

// NewPagination builds the envelope block for a page and the total match count
func NewPagination(p Page, total int64) Pagination {
	pages := 0
	if p.Limit > 0 {
		pages = int(math.Ceil(float64(total) / float64(p.Limit)))
	}
	return Pagination{
		CurrentPage:  p.Number,
		TotalPages:   pages,
		TotalItems:   total,
		ItemsPerPage: p.Limit,
	}
}

// DateRange is an optional inclusive time filter. Nil bounds are open.
type DateRange struct {
	From *time.Time
	To   *time.Time
}

// DailyCount is one bucket of a per-day count series, keyed YYYY-MM-DD
type DailyCount struct {
	Date  string `bson:"_id" json:"date"`
	Count int64  `bson:"count" json:"count"`
}
