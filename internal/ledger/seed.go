package ledger

import (
	"time"

	"fintrack/internal/core"
)

// DemoExpenses returns the sample records shown on first start.
func DemoExpenses() []core.Expense {
	at := func(s string) time.Time {
		t, _ := time.Parse(time.RFC3339, s)
		return t
	}
	return []core.Expense{
		{ID: 1, Description: "Advert", Category: core.Marketing, Amount: core.Money{Cents: 5000}, Date: at("2025-02-07T10:00:00Z")},
		{ID: 2, Description: "Salaries Paid", Category: core.Salary, Amount: core.Money{Cents: 200000}, Date: at("2025-02-01T10:00:00Z")},
		{ID: 3, Description: "Rent", Category: core.Rent, Amount: core.Money{Cents: 3000}, Date: at("2025-02-06T18:00:00Z")},
		{ID: 4, Description: "Dispatch", Category: core.Logistics, Amount: core.Money{Cents: 1500}, Date: at("2025-02-05T08:00:00Z")},
	}
}
