// Package pagination slices ordered sequences into fixed-size pages.
// Out-of-range page numbers are clamped to the nearest valid page instead of
// being reported as errors.
package pagination

import (
	"errors"
	"strconv"
	"strings"
)

// Page is one slice of an ordered sequence plus the metadata needed to
// navigate to its neighbours.
type Page[T any] struct {
	Items      []T `json:"items"`
	Number     int `json:"current_page"`
	TotalPages int `json:"total_pages"`
	TotalItems int `json:"total_items"`
	PerPage    int `json:"per_page"`
}

// HasNext reports whether a page follows this one.
func (p Page[T]) HasNext() bool {
	return p.Number < p.TotalPages
}

// HasPrevious reports whether a page precedes this one.
func (p Page[T]) HasPrevious() bool {
	return p.Number > 1
}

// NextPageNumber returns the following page number, or nil on the last page.
func (p Page[T]) NextPageNumber() *int {
	if !p.HasNext() {
		return nil
	}
	n := p.Number + 1
	return &n
}

// PreviousPageNumber returns the preceding page number, or nil on page 1.
func (p Page[T]) PreviousPageNumber() *int {
	if !p.HasPrevious() {
		return nil
	}
	n := p.Number - 1
	return &n
}

// Paginator splits items into pages of PerPage.
type Paginator[T any] struct {
	items   []T
	perPage int
}

// New returns a paginator over items. perPage values below 1 are treated as 1.
func New[T any](items []T, perPage int) *Paginator[T] {
	if perPage < 1 {
		perPage = 1
	}
	return &Paginator[T]{items: items, perPage: perPage}
}

// Count is the number of items across all pages.
func (p *Paginator[T]) Count() int {
	return len(p.items)
}

// NumPages is ceil(Count/PerPage), and never less than 1 so an empty
// sequence still has a valid, empty first page.
func (p *Paginator[T]) NumPages() int {
	n := (len(p.items) + p.perPage - 1) / p.perPage
	if n < 1 {
		return 1
	}
	return n
}

// Clamp maps any requested number onto a valid page: values below 1 become
// 1 and values past the end become the last page.
func (p *Paginator[T]) Clamp(number int) int {
	if number < 1 {
		return 1
	}
	if last := p.NumPages(); number > last {
		return last
	}
	return number
}

// Page returns the clamped page for number.
func (p *Paginator[T]) Page(number int) Page[T] {
	number = p.Clamp(number)

	start := (number - 1) * p.perPage
	end := start + p.perPage
	if end > len(p.items) {
		end = len(p.items)
	}
	if start > end {
		start = end
	}

	return Page[T]{
		Items:      p.items[start:end],
		Number:     number,
		TotalPages: p.NumPages(),
		TotalItems: len(p.items),
		PerPage:    p.perPage,
	}
}

// GetPage parses a raw page parameter and returns the clamped page for it.
func (p *Paginator[T]) GetPage(raw string) Page[T] {
	return p.Page(ParsePageNumber(raw))
}

// ParsePageNumber reads a page query parameter. Anything that is not a
// base-10 integer yields 1; integers out of int range saturate. The caller
// clamps the result.
func ParsePageNumber(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if errors.Is(err, strconv.ErrRange) {
		return n
	}
	if err != nil {
		return 1
	}
	return n
}
