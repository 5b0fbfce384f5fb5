package core

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"
)

// Predefined categories offered by the expense form. Others lets the user
// type a custom category instead.
const (
	Logistics     = "Logistics"
	Electricity   = "Electricity"
	Rent          = "Rent"
	Salary        = "Salary"
	Marketing     = "Marketing"
	Miscellaneous = "Miscellaneous"
	Subscriptions = "Subscriptions"
	Others        = "Others"
)

const maxDescriptionLen = 200

type (
	Money struct {
		Cents int64
	}

	Expense struct {
		ID          int64     `json:"id"`
		Description string    `json:"description"`
		Category    string    `json:"category"`
		Amount      Money     `json:"amount"`
		Date        time.Time `json:"date"`
	}
)

var (
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrEmptyDescription = errors.New("empty description")
	ErrEmptyCategory    = errors.New("empty category")
	ErrDescriptionLong  = errors.New("description too long (max 200 characters)")
	ErrZeroDate         = errors.New("date cannot be zero")
)

// Categories returns the fixed category set in display order.
func Categories() []string {
	return []string{Logistics, Electricity, Rent, Salary, Marketing, Miscellaneous, Subscriptions, Others}
}

// IsPredefined reports whether name belongs to the fixed category set.
func IsPredefined(name string) bool {
	for _, c := range Categories() {
		if c == name {
			return true
		}
	}
	return false
}

// ResolveCategory picks the category to store for a form submission.
// A non-blank custom value is used only when Others is selected.
func ResolveCategory(selected, custom string) (string, error) {
	selected = strings.TrimSpace(selected)
	custom = strings.TrimSpace(custom)
	if selected == Others && custom != "" {
		return custom, nil
	}
	if selected == "" {
		return "", ErrEmptyCategory
	}
	return selected, nil
}

func (m Money) Validate() error {
	if m.Cents <= 0 || m.Cents > MaxCents {
		return ErrInvalidAmount
	}
	return nil
}

// ValidateDescription checks the free-text label of an expense.
func ValidateDescription(desc string) error {
	if len(strings.TrimSpace(desc)) == 0 {
		return ErrEmptyDescription
	}
	if utf8.RuneCountInString(desc) > maxDescriptionLen {
		return ErrDescriptionLong
	}
	return nil
}

func (e Expense) Validate() error {
	if e.Date.IsZero() {
		return ErrZeroDate
	}
	if err := ValidateDescription(e.Description); err != nil {
		return err
	}
	if err := e.Amount.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(e.Category) == "" {
		return ErrEmptyCategory
	}
	return nil
}
