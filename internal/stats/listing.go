package stats

import (
	"sort"

	"fintrack/internal/core"
)

// Page is one slice of a paginated expense list.
type Page struct {
	Items      []core.Expense `json:"items"`
	Page       int            `json:"page"`
	Size       int            `json:"size"`
	TotalItems int            `json:"total_items"`
	TotalPages int            `json:"total_pages"`
}

// SortByDateDesc returns a copy of expenses ordered newest first.
// Records with equal dates keep their relative order.
func SortByDateDesc(expenses []core.Expense) []core.Expense {
	out := append([]core.Expense(nil), expenses...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date)
	})
	return out
}

// Recent returns the n most recent expenses by date.
func Recent(expenses []core.Expense, n int) []core.Expense {
	sorted := SortByDateDesc(expenses)
	if n < 0 {
		n = 0
	}
	if n < len(sorted) {
		sorted = sorted[:n]
	}
	return sorted
}

// Paginate slices expenses into the requested 1-based page.
// Out of range pages are clamped to the nearest valid page.
func Paginate(expenses []core.Expense, page, size int) Page {
	if size < 1 {
		size = 1
	}
	total := len(expenses)
	pages := (total + size - 1) / size
	if pages == 0 {
		pages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > pages {
		page = pages
	}

	start := (page - 1) * size
	end := start + size
	if end > total {
		end = total
	}
	items := make([]core.Expense, 0, end-start)
	items = append(items, expenses[start:end]...)

	return Page{
		Items:      items,
		Page:       page,
		Size:       size,
		TotalItems: total,
		TotalPages: pages,
	}
}
