package edit

import (
	"errors"
	"strings"

	"fintrack/internal/core"
	"fintrack/internal/ledger"
)

// Validate turns a draft into a ledger patch. The amount must be numeric and
// positive; description and category must not be blank.
func Validate(d Draft) (ledger.Patch, error) {
	amount, err := core.ParseAmount(d.Amount)
	if err != nil {
		return ledger.Patch{}, err
	}
	if err := core.ValidateDescription(d.Description); err != nil {
		return ledger.Patch{}, err
	}
	if strings.TrimSpace(d.Category) == "" {
		return ledger.Patch{}, core.ErrEmptyCategory
	}
	desc := strings.TrimSpace(d.Description)
	cat := strings.TrimSpace(d.Category)
	return ledger.Patch{Amount: &amount, Description: &desc, Category: &cat}, nil
}

// Message is the user-facing text for a validation error.
func Message(err error) string {
	switch {
	case errors.Is(err, core.ErrInvalidAmount):
		return "Amount must be a positive number"
	case errors.Is(err, core.ErrEmptyDescription):
		return "Description is required"
	case errors.Is(err, core.ErrDescriptionLong):
		return "Description must be at most 200 characters"
	case errors.Is(err, core.ErrEmptyCategory):
		return "Category is required"
	case err != nil:
		return err.Error()
	}
	return ""
}

func isValidation(err error) bool {
	return errors.Is(err, core.ErrInvalidAmount) ||
		errors.Is(err, core.ErrEmptyDescription) ||
		errors.Is(err, core.ErrDescriptionLong) ||
		errors.Is(err, core.ErrEmptyCategory)
}
