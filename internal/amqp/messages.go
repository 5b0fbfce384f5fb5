package amqp

import (
	"encoding/json"
	"errors"
	"time"
)

// Ledger operations carried by LedgerEvent.
const (
	OpAdd    = "add"
	OpUpdate = "update"
	OpDelete = "delete"
	OpSeed   = "seed"
	OpBudget = "budget"
)

// LedgerEvent announces that the ledger changed. It carries no record data;
// consumers read the persisted snapshot themselves.
type LedgerEvent struct {
	Op        string    `json:"op"`
	ExpenseID int64     `json:"expense_id,omitempty"`
	Version   int64     `json:"version"`
	Timestamp time.Time `json:"timestamp"`
}

func NewLedgerEvent(op string, expenseID, version int64) *LedgerEvent {
	return &LedgerEvent{
		Op:        op,
		ExpenseID: expenseID,
		Version:   version,
		Timestamp: time.Now(),
	}
}

func (m *LedgerEvent) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// LedgerEventFromJSON decodes an event. Events without an op are rejected.
func LedgerEventFromJSON(data []byte) (*LedgerEvent, error) {
	var msg LedgerEvent
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if msg.Op == "" {
		return nil, errors.New("ledger event without op")
	}
	return &msg, nil
}
