// Package stats aggregates expense snapshots and derives summary metrics.
//
// Every function here is a pure computation over a caller-supplied slice;
// nothing reads the wall clock or mutates its input.
package stats

import (
	"sort"
	"time"

	"fintrack/internal/core"
)

// Trailing windows in days. These approximate calendar periods.
const (
	Daily   = 1
	Weekly  = 7
	Monthly = 30
	Yearly  = 365
)

const day = 24 * time.Hour

// Window names a trailing range used for reporting.
type Window struct {
	Label string `json:"label"`
	Days  int    `json:"days"`
}

// WindowTotal is the sum of expenses inside a window.
type WindowTotal struct {
	Window
	Total core.Money `json:"total"`
	Count int        `json:"count"`
}

// CategoryTotal represents an amount aggregated by category name.
type CategoryTotal struct {
	Name   string     `json:"name"`
	Amount core.Money `json:"amount"`
}

// Windows returns the reporting windows in display order.
func Windows() []Window {
	return []Window{
		{Label: "Daily", Days: Daily},
		{Label: "Weekly", Days: Weekly},
		{Label: "Monthly", Days: Monthly},
		{Label: "Yearly", Days: Yearly},
	}
}

// WindowByName resolves a window from its label or a lowercase alias
// ("daily", "week", ...).
func WindowByName(name string) (Window, bool) {
	switch name {
	case "Daily", "daily", "day":
		return Window{Label: "Daily", Days: Daily}, true
	case "Weekly", "weekly", "week":
		return Window{Label: "Weekly", Days: Weekly}, true
	case "Monthly", "monthly", "month":
		return Window{Label: "Monthly", Days: Monthly}, true
	case "Yearly", "yearly", "year":
		return Window{Label: "Yearly", Days: Yearly}, true
	}
	return Window{}, false
}

// AggregateByCategory sums amounts per distinct category.
// The result is never nil; callers must not rely on map ordering.
func AggregateByCategory(expenses []core.Expense) map[string]core.Money {
	out := make(map[string]core.Money)
	for _, e := range expenses {
		out[e.Category] = out[e.Category].Add(e.Amount)
	}
	return out
}

// SortedCategories orders a category mapping by amount descending, then name.
func SortedCategories(m map[string]core.Money) []CategoryTotal {
	out := make([]CategoryTotal, 0, len(m))
	for name, amount := range m {
		out = append(out, CategoryTotal{Name: name, Amount: amount})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Amount.Cents != out[j].Amount.Cents {
			return out[i].Amount.Cents > out[j].Amount.Cents
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// FilterByWindow keeps records dated at or after now minus windowDays days.
// The lower edge is inclusive and records dated after now are kept.
func FilterByWindow(expenses []core.Expense, windowDays int, now time.Time) []core.Expense {
	cutoff := now.Add(-time.Duration(windowDays) * day)
	out := make([]core.Expense, 0, len(expenses))
	for _, e := range expenses {
		if !e.Date.Before(cutoff) {
			out = append(out, e)
		}
	}
	return out
}

// Before keeps records dated strictly before cutoff.
func Before(expenses []core.Expense, cutoff time.Time) []core.Expense {
	out := make([]core.Expense, 0, len(expenses))
	for _, e := range expenses {
		if e.Date.Before(cutoff) {
			out = append(out, e)
		}
	}
	return out
}

// WindowTotals sums the daily, weekly, monthly and yearly windows.
func WindowTotals(expenses []core.Expense, now time.Time) []WindowTotal {
	windows := Windows()
	out := make([]WindowTotal, 0, len(windows))
	for _, w := range windows {
		in := FilterByWindow(expenses, w.Days, now)
		out = append(out, WindowTotal{Window: w, Total: ComputeTotals(in), Count: len(in)})
	}
	return out
}
