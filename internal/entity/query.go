package entity

import "strings"

// PageSize is fixed for every list query.
const PageSize = 10

// Page is one slice of a filtered collection plus metadata about the whole filtered set.
type Page[T any] struct {
	Data        []T `json:"data"`
	TotalCount  int `json:"totalCount"`
	CurrentPage int `json:"currentPage"`
	TotalPages  int `json:"totalPages"`
}

// CustomerQuery selects customers.
//
//   - Page: 1-based, zero or negative means 1.
//   - Search: case-insensitive substring of name or email; empty disables the filter.
type CustomerQuery struct {
	Page   int    `json:"page,omitempty"`
	Search string `json:"search,omitempty"`
}

func (q CustomerQuery) Matches(c Customer) bool {
	if q.Search == "" {
		return true
	}
	needle := strings.ToLower(q.Search)
	return strings.Contains(strings.ToLower(c.Name), needle) ||
		strings.Contains(strings.ToLower(c.Email), needle)
}

// LeadQuery selects leads.
//
//   - Page: as in CustomerQuery.
//   - Status: empty or LeadStatusAll disables the filter, otherwise exact match.
//   - CustomerID: empty disables the filter, otherwise exact match.
type LeadQuery struct {
	Page       int        `json:"page,omitempty"`
	Status     LeadStatus `json:"status,omitempty"`
	CustomerID string     `json:"customerId,omitempty"`
}

func (q LeadQuery) Matches(l Lead) bool {
	if q.Status != "" && q.Status != LeadStatusAll && l.Status != q.Status {
		return false
	}
	if q.CustomerID != "" && l.CustomerID != q.CustomerID {
		return false
	}
	return true
}

// NormalizePage maps absent or non-positive pages to the first page.
func NormalizePage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}

// TotalPages is ceil(total / PageSize).
func TotalPages(total int) int {
	return (total + PageSize - 1) / PageSize
}

// PageInRange reports whether page holds at least one of total records. It is
// checked before any offset arithmetic so huge pages cannot overflow.
func PageInRange(page, total int) bool {
	return page >= 1 && page <= TotalPages(total)
}

// Paginate slices an already-filtered collection. A page past the end yields an
// empty (non-nil) Data slice with the totals of the full collection.
func Paginate[T any](filtered []T, page int) Page[T] {
	page = NormalizePage(page)
	start := len(filtered)
	if PageInRange(page, len(filtered)) {
		start = (page - 1) * PageSize
	}
	end := min(start+PageSize, len(filtered))

	data := make([]T, end-start)
	copy(data, filtered[start:end])

	return Page[T]{
		Data:        data,
		TotalCount:  len(filtered),
		CurrentPage: page,
		TotalPages:  TotalPages(len(filtered)),
	}
}

// Filter keeps the items accepted by match, preserving order.
func Filter[T any](items []T, match func(T) bool) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if match(item) {
			out = append(out, item)
		}
	}
	return out
}
