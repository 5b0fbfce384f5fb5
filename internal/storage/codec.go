// Package storage persists the expense array as a single serialized value,
// either in a JSON file or in one row of a SQLite key/value table.
package storage

import (
	"encoding/json"
	"fmt"

	"fintrack/internal/core"
)

// DefaultKey is the storage key the expense array is written under.
const DefaultKey = "expenses"

func encode(expenses []core.Expense) ([]byte, error) {
	if expenses == nil {
		expenses = []core.Expense{}
	}
	data, err := json.Marshal(expenses)
	if err != nil {
		return nil, fmt.Errorf("encode expenses: %w", err)
	}
	return data, nil
}

// decode parses a stored array. Corrupt data is an error, never an empty list,
// so a bad file is not silently overwritten on the next save.
func decode(data []byte) ([]core.Expense, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var out []core.Expense
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("decode expenses: %w", err)
	}
	for i, e := range out {
		if err := e.Validate(); err != nil {
			return nil, fmt.Errorf("decode expenses: record %d (id %d): %w", i, e.ID, err)
		}
	}
	return out, nil
}
