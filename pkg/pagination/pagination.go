// Package pagination extracts and applies skip/limit paging for list
// endpoints.
package pagination

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

const (
	DefaultLimit = 10
	MaxLimit     = 100
)

// Params holds paging parameters extracted from a request.
type Params struct {
	Skip  int
	Limit int
}

// FromContext extracts skip/limit from the echo context, clamping them to
// sane bounds.
func FromContext(c echo.Context) Params {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	skip, _ := strconv.Atoi(c.QueryParam("skip"))
	if skip < 0 {
		skip = 0
	}

	return Params{Skip: skip, Limit: limit}
}

// HasNext reports whether more results exist after the current page.
func (p Params) HasNext(total int) bool {
	return p.Skip+p.Limit < total
}

// NextSkip returns the skip value for the next page.
func (p Params) NextSkip() int {
	return p.Skip + p.Limit
}

// PreviousSkip returns the skip value for the previous page, floored at 0.
func (p Params) PreviousSkip() int {
	prev := p.Skip - p.Limit
	if prev < 0 {
		return 0
	}
	return prev
}

// Page applies the parameters to an already loaded slice. Used by in-memory
// stores; SQL-backed stores push skip/limit into the query instead.
func Page[T any](items []T, p Params) []T {
	if p.Skip >= len(items) {
		return []T{}
	}
	items = items[p.Skip:]
	if p.Limit > 0 && p.Limit < len(items) {
		items = items[:p.Limit]
	}
	return items
}
