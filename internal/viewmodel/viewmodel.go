// Package viewmodel derives the visible page of a section from its full dataset.
// Everything here is a pure function of its inputs.
package viewmodel

import (
	"admintui/internal/record"
	"admintui/internal/schema"
)

// PageSizes are the page sizes an operator can pick.
var PageSizes = []int{10, 25, 50, 100}

// DefaultPageSize is the page size a fresh view starts with.
const DefaultPageSize = 10

// Page is one page of a filtered dataset.
type Page struct {
	Items      []record.Record
	Page       int
	TotalPages int // 0 when TotalCount is 0
	StartIndex int // 1-based, 0 when TotalCount is 0
	EndIndex   int
	TotalCount int
}

// Filter keeps the records matching term under the descriptor's search predicate.
func Filter(dataset []record.Record, term string, d schema.Descriptor) []record.Record {
	if term == "" {
		out := make([]record.Record, len(dataset))
		copy(out, dataset)
		return out
	}
	out := make([]record.Record, 0, len(dataset))
	for _, r := range dataset {
		if d.Matches(r, term) {
			out = append(out, r)
		}
	}
	return out
}

// TotalPages is ceil(count/size), or 0 for an empty set.
func TotalPages(count, size int) int {
	if count <= 0 || size <= 0 {
		return 0
	}
	return (count + size - 1) / size
}

// Clamp moves page into [1, max(1, TotalPages(count, size))].
func Clamp(page, count, size int) int {
	last := max(1, TotalPages(count, size))
	return min(max(page, 1), last)
}

// Paginate slices filtered to the given page. page is expected to be clamped; an
// out-of-range page yields no items.
func Paginate(filtered []record.Record, page, size int) Page {
	total := len(filtered)
	p := Page{
		Page:       page,
		TotalPages: TotalPages(total, size),
		TotalCount: total,
	}
	if size <= 0 || page < 1 {
		return p
	}

	start := (page - 1) * size
	end := min(page*size, total)
	p.EndIndex = end
	if total > 0 {
		p.StartIndex = start + 1
	}
	if start < end {
		p.Items = filtered[start:end]
	}
	return p
}

// ValidPageSize reports whether size is one of PageSizes.
func ValidPageSize(size int) bool {
	for _, s := range PageSizes {
		if s == size {
			return true
		}
	}
	return false
}
