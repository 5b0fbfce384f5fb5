// Package edit tracks per-row inline editing of expenses.
//
// Each row is in exactly one RowState: Viewing, Editing or Invalid. Rows are
// independent and never lock the ledger; saving goes through a Committer.
package edit

import (
	"context"
	"errors"
	"sync"

	"fintrack/internal/core"
	"fintrack/internal/ledger"
)

var ErrNotEditing = errors.New("row is not being edited")

// Draft is the working copy of an expense while it is edited.
type Draft struct {
	Amount      string `json:"amount"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

// RowState is one of Viewing, Editing or Invalid.
type RowState interface {
	Name() string
	isRowState()
}

type (
	Viewing struct{}

	Editing struct {
		Draft Draft
	}

	// Invalid is an Editing row whose last save failed validation.
	Invalid struct {
		Draft   Draft
		Message string
	}
)

func (Viewing) Name() string { return "viewing" }
func (Editing) Name() string { return "editing" }
func (Invalid) Name() string { return "invalid" }

func (Viewing) isRowState() {}
func (Editing) isRowState() {}
func (Invalid) isRowState() {}

// Committer applies a validated patch to the collection.
type Committer interface {
	Update(ctx context.Context, id int64, p ledger.Patch) (core.Expense, error)
}

// Session holds the edit state of every row.
type Session struct {
	mu   sync.Mutex
	rows map[int64]RowState
}

func NewSession() *Session {
	return &Session{rows: make(map[int64]RowState)}
}

// State returns the state of a row. Unknown rows are Viewing.
func (s *Session) State(id int64) RowState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked(id)
}

// Begin puts a row into Editing with a working copy of e.
// Beginning an already edited row keeps its current draft.
func (s *Session) Begin(e core.Expense) RowState {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st, ok := s.rows[e.ID]; ok {
		return st
	}
	st := Editing{Draft: Draft{
		Amount:      e.Amount.String(),
		Description: e.Description,
		Category:    e.Category,
	}}
	s.rows[e.ID] = st
	return st
}

// Change replaces the draft of a row being edited. An Invalid row goes back
// to Editing.
func (s *Session) Change(id int64, d Draft) (RowState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rows[id]; !ok {
		return Viewing{}, ErrNotEditing
	}
	st := Editing{Draft: d}
	s.rows[id] = st
	return st, nil
}

// Cancel discards the draft and returns the row to Viewing.
func (s *Session) Cancel(id int64) RowState {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rows, id)
	return Viewing{}
}

// Save validates the draft and commits it. On validation failure the row
// becomes Invalid and the collection is untouched. Errors from the committer
// other than validation keep the row in its current state.
func (s *Session) Save(ctx context.Context, id int64, c Committer) (RowState, core.Expense, error) {
	s.mu.Lock()
	st, ok := s.rows[id]
	s.mu.Unlock()
	if !ok {
		return Viewing{}, core.Expense{}, ErrNotEditing
	}

	d := draftOf(st)
	patch, err := Validate(d)
	if err != nil {
		inv := Invalid{Draft: d, Message: Message(err)}
		s.set(id, inv)
		return inv, core.Expense{}, err
	}

	e, err := c.Update(ctx, id, patch)
	switch {
	case err == nil, ledger.IsPersistError(err):
		s.clear(id)
		return Viewing{}, e, err
	case isValidation(err):
		inv := Invalid{Draft: d, Message: Message(err)}
		s.set(id, inv)
		return inv, core.Expense{}, err
	case errors.Is(err, ledger.ErrNotFound):
		s.clear(id)
		return Viewing{}, core.Expense{}, err
	default:
		return st, core.Expense{}, err
	}
}

// Active returns the ids of rows not in Viewing.
func (s *Session) Active() []int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]int64, 0, len(s.rows))
	for id := range s.rows {
		ids = append(ids, id)
	}
	return ids
}

func (s *Session) stateLocked(id int64) RowState {
	if st, ok := s.rows[id]; ok {
		return st
	}
	return Viewing{}
}

func (s *Session) set(id int64, st RowState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	// a concurrent Cancel wins over a late validation result
	if _, ok := s.rows[id]; ok {
		s.rows[id] = st
	}
}

func (s *Session) clear(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rows, id)
}

func draftOf(st RowState) Draft {
	switch v := st.(type) {
	case Editing:
		return v.Draft
	case Invalid:
		return v.Draft
	}
	return Draft{}
}
