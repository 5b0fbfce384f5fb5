package stats

import (
	"time"

	"fintrack/internal/core"
)

// Report is everything the dashboard renders for one snapshot.
type Report struct {
	GeneratedAt time.Time       `json:"generated_at"`
	Count       int             `json:"count"`
	Summary     Summary         `json:"summary"`
	Windows     []WindowTotal   `json:"windows"`
	ByCategory  []CategoryTotal `json:"by_category"`
	Daily       []CategoryTotal `json:"daily_by_category"`
	Weekly      []CategoryTotal `json:"weekly_by_category"`
	Budget      BudgetStatus    `json:"budget"`
}

// Baseline returns the records that existed one monthly window before now.
// Their total is what the summary compares against.
func Baseline(expenses []core.Expense, now time.Time) []core.Expense {
	return Before(expenses, now.Add(-Monthly*day))
}

// BuildReport aggregates a snapshot into a Report. previous is the baseline
// used for the summary changes.
func BuildReport(expenses, previous []core.Expense, budget Budget, now time.Time) Report {
	total := ComputeTotals(expenses)
	return Report{
		GeneratedAt: now,
		Count:       len(expenses),
		Summary:     Summarize(expenses, previous),
		Windows:     WindowTotals(expenses, now),
		ByCategory:  SortedCategories(AggregateByCategory(expenses)),
		Daily:       SortedCategories(AggregateByCategory(FilterByWindow(expenses, Daily, now))),
		Weekly:      SortedCategories(AggregateByCategory(FilterByWindow(expenses, Weekly, now))),
		Budget:      budget.Status(total),
	}
}
