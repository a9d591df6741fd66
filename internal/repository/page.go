package repository

import (
	"math"

	"github.com/tinoosan/fanbase/internal/filter"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// PageOptions selects a 1-indexed page.
type PageOptions struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// Normalize clamps page to >= 1 and limit to 1..MaxPageSize, defaulting to DefaultPageSize.
func (o PageOptions) Normalize() PageOptions {
	if o.Page < 1 {
		o.Page = 1
	}
	switch {
	case o.Limit <= 0:
		o.Limit = DefaultPageSize
	case o.Limit > MaxPageSize:
		o.Limit = MaxPageSize
	}
	return o
}

// Offset is the number of rows before the page. It saturates at math.MaxInt
// instead of wrapping for very large pages.
func (o PageOptions) Offset() int {
	n := o.Normalize()
	if n.Page-1 > math.MaxInt/n.Limit {
		return math.MaxInt
	}
	return (n.Page - 1) * n.Limit
}

// Beyond reports whether the page starts past the last of total rows.
func (o PageOptions) Beyond(total int64) bool {
	n := o.Normalize()
	pages := (total + int64(n.Limit) - 1) / int64(n.Limit)
	return int64(n.Page-1) >= pages
}

// Page is the paginated envelope returned by list operations.
type Page[T any] struct {
	Data       []T   `json:"data"`
	TotalCount int64 `json:"totalCount"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"totalPages"`
}

// NewPage wraps one page of rows. totalPages is ceil(total/limit).
func NewPage[T any](data []T, total int64, opts PageOptions) Page[T] {
	opts = opts.Normalize()
	if data == nil {
		data = []T{}
	}
	pages := int((total + int64(opts.Limit) - 1) / int64(opts.Limit))
	return Page[T]{Data: data, TotalCount: total, Page: opts.Page, Limit: opts.Limit, TotalPages: pages}
}

// Paginate slices an already ordered result set. Out-of-range pages are empty
// but keep the full total.
func Paginate[T any](all []T, opts PageOptions) Page[T] {
	opts = opts.Normalize()
	total := int64(len(all))
	if opts.Beyond(total) {
		return NewPage[T](nil, total, opts)
	}
	start := opts.Offset()
	end := start + opts.Limit
	if end > len(all) {
		end = len(all)
	}
	page := make([]T, end-start)
	copy(page, all[start:end])
	return NewPage(page, total, opts)
}

// FilterPage applies an advanced filter query to ordered rows and returns one page.
func FilterPage[T any](rows []T, q filter.Query, opts PageOptions) (Page[T], error) {
	matched, err := filter.Apply(rows, q)
	if err != nil {
		return Page[T]{}, err
	}
	return Paginate(matched, opts), nil
}
