// ABOUTME: In-memory filtering and pagination for table views
// ABOUTME: Generic over the row type so every resource list shares it

package kost

import "strings"

// DefaultPageSize matches the rows shown per table page
const DefaultPageSize = 10

// Page is one slice of a longer list. Number is 1-based.
type Page[T any] struct {
	Items      []T
	Number     int
	Size       int
	TotalItems int
	TotalPages int
}

// HasPrev reports whether an earlier page exists
func (p Page[T]) HasPrev() bool { return p.Number > 1 }

// HasNext reports whether a later page exists
func (p Page[T]) HasNext() bool { return p.Number < p.TotalPages }

// Paginate returns page number (1-based) of items. Out-of-range pages are
// clamped; an empty list yields page 1 of 1 with no items.
func Paginate[T any](items []T, number, size int) Page[T] {
	if size <= 0 {
		size = DefaultPageSize
	}
	totalPages := (len(items) + size - 1) / size
	if totalPages == 0 {
		totalPages = 1
	}
	if number < 1 {
		number = 1
	}
	if number > totalPages {
		number = totalPages
	}

	start := (number - 1) * size
	end := start + size
	if start > len(items) {
		start = len(items)
	}
	if end > len(items) {
		end = len(items)
	}

	return Page[T]{
		Items:      items[start:end],
		Number:     number,
		Size:       size,
		TotalItems: len(items),
		TotalPages: totalPages,
	}
}

// Filter returns the items for which keep is true
func Filter[T any](items []T, keep func(T) bool) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if keep(it) {
			out = append(out, it)
		}
	}
	return out
}

// Matches reports whether any field contains query, ignoring case.
// An empty query matches everything.
func Matches(query string, fields ...string) bool {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return true
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), query) {
			return true
		}
	}
	return false
}
