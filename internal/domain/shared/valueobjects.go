// Package shared contains common domain types, errors and events that are used
// across all domain packages.
package shared

import (
	"fmt"
	"math"
)

// ═══════════════════════════════════════════════════════════════════════════
// Pagination Value Object
// ═══════════════════════════════════════════════════════════════════════════

// Pagination represents 1-based page/limit parameters.
type Pagination struct {
	Page     int
	PageSize int
}

const (
	DefaultPageSize = 10
	MaxPageSize     = 100

	// MaxPage keeps (page-1)*MaxPageSize within int.
	MaxPage = math.MaxInt / MaxPageSize
)

// Offset returns the offset for database queries. It saturates at
// math.MaxInt instead of overflowing.
func (p Pagination) Offset() int {
	if p.Page <= 0 {
		return 0
	}
	limit := p.Limit()
	if p.Page-1 > math.MaxInt/limit {
		return math.MaxInt
	}
	return (p.Page - 1) * limit
}

// Limit returns the limit for database queries.
func (p Pagination) Limit() int {
	if p.PageSize <= 0 {
		return DefaultPageSize
	}
	if p.PageSize > MaxPageSize {
		return MaxPageSize
	}
	return p.PageSize
}

// NewPagination validates page (1..MaxPage) and pageSize (1..MaxPageSize).
func NewPagination(page, pageSize int) (Pagination, error) {
	if page < 1 {
		return Pagination{}, WrapError("shared", "NewPagination", ErrValueOutOfRange,
			"page must be >= 1", fmt.Errorf("page=%d", page))
	}
	if page > MaxPage {
		return Pagination{}, WrapError("shared", "NewPagination", ErrValueOutOfRange,
			fmt.Sprintf("page must be <= %d", MaxPage), fmt.Errorf("page=%d", page))
	}
	if pageSize < 1 || pageSize > MaxPageSize {
		return Pagination{}, WrapError("shared", "NewPagination", ErrValueOutOfRange,
			fmt.Sprintf("limit must be between 1 and %d", MaxPageSize), fmt.Errorf("limit=%d", pageSize))
	}
	return Pagination{Page: page, PageSize: pageSize}, nil
}

// DefaultPagination returns the first page with the default size.
func DefaultPagination() Pagination {
	return Pagination{Page: 1, PageSize: DefaultPageSize}
}
