// Package page slices merged search results by offset and limit.
package page

import (
	"fmt"

	"github.com/jeffMauritius/ai-project-v1-sub000/internal/domain"
)

// Pagination defaults.
const (
	DefaultOffset = 0
	DefaultLimit  = 20
)

// Page is one window over a result list.
type Page[T any] struct {
	Items   []T
	Total   int
	HasMore bool
	Offset  int
	Limit   int
}

// Params is a validated offset/limit pair.
type Params struct {
	offset int
	limit  int
}

// Limits bounds client-supplied page sizes.
type Limits struct {
	Default int // used when limit is absent or zero; <= 0 means DefaultLimit
	Max     int // <= 0 disables the upper bound
}

// NewParams validates optional offset and limit with the package default page size.
func NewParams(offset, limit *int, maxLimit int) (Params, error) {
	return Limits{Default: DefaultLimit, Max: maxLimit}.Params(offset, limit)
}

// Params validates optional offset and limit. Absent values take the defaults.
func (l Limits) Params(offset, limit *int) (Params, error) {
	p := Params{offset: DefaultOffset, limit: l.Default}
	if p.limit <= 0 {
		p.limit = DefaultLimit
	}
	if offset != nil {
		if *offset < 0 {
			return Params{}, fmt.Errorf("%w: offset must not be negative", domain.ErrInvalidPagination)
		}
		p.offset = *offset
	}
	if limit != nil && *limit != 0 {
		if *limit < 0 {
			return Params{}, fmt.Errorf("%w: limit must be positive", domain.ErrInvalidPagination)
		}
		if l.Max > 0 && *limit > l.Max {
			return Params{}, fmt.Errorf("%w: limit must be between 1 and %d", domain.ErrInvalidPagination, l.Max)
		}
		p.limit = *limit
	}
	return p, nil
}

// Offset returns the first index of the window.
func (p Params) Offset() int { return p.offset }

// Limit returns the window size.
func (p Params) Limit() int { return p.limit }

// Paginate returns items[offset:offset+limit] clamped to the list bounds.
// HasMore is computed from the requested window, not the clamped one.
func Paginate[T any](items []T, p Params) Page[T] {
	total := len(items)

	start := min(p.offset, total)
	end := min(p.offset+p.limit, total)

	window := make([]T, end-start)
	copy(window, items[start:end])

	return Page[T]{
		Items:   window,
		Total:   total,
		HasMore: p.offset+p.limit < total,
		Offset:  p.offset,
		Limit:   p.limit,
	}
}
