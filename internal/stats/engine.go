package stats

import (
	"encoding/json"
	"strconv"

	"github.com/shopspring/decimal"

	"fintrack/internal/core"
)

// NotAvailable is shown in place of a percentage when there is no baseline.
const NotAvailable = "N/A"

// spendRatio is the fixed share of the total reported as monthly expenses;
// the remainder is reported as savings.
var spendRatio = decimal.RequireFromString("0.8")

// Change is the percent change of a value against its baseline.
type Change struct {
	Percent     float64
	HasBaseline bool
}

// String renders the change with two decimals, or N/A without a baseline.
func (c Change) String() string {
	if !c.HasBaseline {
		return NotAvailable
	}
	return strconv.FormatFloat(c.Percent, 'f', 2, 64) + "%"
}

// MarshalJSON writes the percentage as a number, or the string "N/A".
func (c Change) MarshalJSON() ([]byte, error) {
	if !c.HasBaseline {
		return json.Marshal(NotAvailable)
	}
	return json.Marshal(c.Percent)
}

// Split is the estimated monthly expense/savings breakdown of a total.
type Split struct {
	Expenses core.Money `json:"expenses"`
	Savings  core.Money `json:"savings"`
}

// Card is one summary metric with its change against the baseline.
type Card struct {
	Label    string     `json:"label"`
	HelpText string     `json:"help_text"`
	Value    core.Money `json:"value"`
	Change   Change     `json:"change"`
}

// Summary holds the three headline metrics.
type Summary struct {
	TotalBalance    Card `json:"total_balance"`
	MonthlyExpenses Card `json:"monthly_expenses"`
	MonthlySavings  Card `json:"monthly_savings"`
}

// Cards returns the three cards in display order.
func (s Summary) Cards() []Card {
	return []Card{s.TotalBalance, s.MonthlyExpenses, s.MonthlySavings}
}

// ComputeTotals sums all amounts. An empty slice totals zero.
func ComputeTotals(expenses []core.Expense) core.Money {
	var total core.Money
	for _, e := range expenses {
		total = total.Add(e.Amount)
	}
	return total
}

// ComputeChange returns (current-previous)/previous*100, signed and unclamped.
// A zero previous value yields a change without baseline.
func ComputeChange(current, previous core.Money) Change {
	if previous.IsZero() {
		return Change{}
	}
	diff := decimal.NewFromInt(current.Cents).Sub(decimal.NewFromInt(previous.Cents))
	pct := diff.Div(decimal.NewFromInt(previous.Cents)).Mul(decimal.NewFromInt(100))
	return Change{Percent: pct.InexactFloat64(), HasBaseline: true}
}

// EstimateMonthlySplit splits total 80/20 into expenses and savings.
// Savings takes the rounding remainder so both parts add up to total.
func EstimateMonthlySplit(total core.Money) Split {
	spend := decimal.NewFromInt(total.Cents).Mul(spendRatio).Round(0).IntPart()
	return Split{
		Expenses: core.Money{Cents: spend},
		Savings:  core.Money{Cents: total.Cents - spend},
	}
}

// Summarize builds the headline cards for current against previous.
func Summarize(current, previous []core.Expense) Summary {
	total := ComputeTotals(current)
	prevTotal := ComputeTotals(previous)
	split := EstimateMonthlySplit(total)
	prevSplit := EstimateMonthlySplit(prevTotal)

	return Summary{
		TotalBalance: Card{
			Label:    "Total Balance",
			HelpText: "Sum of all expenses",
			Value:    total,
			Change:   ComputeChange(total, prevTotal),
		},
		MonthlyExpenses: Card{
			Label:    "Monthly Expenses",
			HelpText: "Estimated monthly expenses",
			Value:    split.Expenses,
			Change:   ComputeChange(split.Expenses, prevSplit.Expenses),
		},
		MonthlySavings: Card{
			Label:    "Monthly Savings",
			HelpText: "Estimated monthly savings",
			Value:    split.Savings,
			Change:   ComputeChange(split.Savings, prevSplit.Savings),
		},
	}
}

// Budget is a spending limit compared against the total of all expenses.
type Budget struct {
	Limit core.Money `json:"limit"`
}

// BudgetStatus reports how a total compares with the budget.
type BudgetStatus struct {
	Limit     core.Money `json:"limit"`
	Spent     core.Money `json:"spent"`
	Available core.Money `json:"available"`
	Exceeded  bool       `json:"exceeded"`
}

// Available returns the limit minus total. It is negative once exceeded.
func (b Budget) Available(total core.Money) core.Money {
	return core.Money{Cents: b.Limit.Cents - total.Cents}
}

// Exceeded reports whether total is above the limit.
func (b Budget) Exceeded(total core.Money) bool {
	return b.Available(total).Cents < 0
}

// Status evaluates the budget against total.
func (b Budget) Status(total core.Money) BudgetStatus {
	return BudgetStatus{
		Limit:     b.Limit,
		Spent:     total,
		Available: b.Available(total),
		Exceeded:  b.Exceeded(total),
	}
}
