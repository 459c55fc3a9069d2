// Package pagination keeps client-side page state in step with the page
// counts reported by the backend.
package pagination

import (
	"net/url"
	"strconv"
)

// DefaultLimit is the page size the backend uses when none is requested.
const DefaultLimit = 30

// State is the page a client is looking at and what the server said about it.
type State struct {
	Page         int
	Limit        int
	TotalPages   int
	TotalRecords int
}

// New returns a State for the requested page. Page is clamped to 1 and a
// non-positive limit falls back to DefaultLimit.
func New(page, limit int) State {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	return State{Page: page, Limit: limit}
}

// Sync adopts the server's view of the result set. When the server reports
// fewer pages than the requested page (rows deleted, filter narrowed) the page
// moves to the last one that exists.
func (s *State) Sync(current, totalPages, totalRecords int) {
	if totalPages < 0 {
		totalPages = 0
	}
	if totalRecords < 0 {
		totalRecords = 0
	}
	s.TotalPages = totalPages
	s.TotalRecords = totalRecords

	if current >= 1 {
		s.Page = current
	}
	if s.TotalPages > 0 && s.Page > s.TotalPages {
		s.Page = s.TotalPages
	}
	if s.Page < 1 {
		s.Page = 1
	}
}

// HasPrev reports whether a previous page exists.
func (s State) HasPrev() bool {
	return s.Page > 1
}

// HasNext reports whether a next page exists.
func (s State) HasNext() bool {
	return s.Page < s.TotalPages
}

// Prev returns the previous page number, never below 1.
func (s State) Prev() int {
	if s.Page <= 1 {
		return 1
	}
	return s.Page - 1
}

// Next returns the next page number, never past the last page.
func (s State) Next() int {
	if s.Page >= s.TotalPages {
		if s.TotalPages < 1 {
			return 1
		}
		return s.TotalPages
	}
	return s.Page + 1
}

// Offset returns the number of rows before the current page.
func (s State) Offset() int {
	return (s.Page - 1) * s.Limit
}

// Query returns the page and limit as query parameters.
func (s State) Query() url.Values {
	q := url.Values{}
	q.Set("page", strconv.Itoa(s.Page))
	q.Set("limit", strconv.Itoa(s.Limit))
	return q
}
