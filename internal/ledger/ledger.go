// Package ledger owns the authoritative expense list.
//
// All mutation goes through Add, Update and Delete. After every mutation the
// whole list is written to the configured Persister under a single key.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/stats"
)

var ErrNotFound = errors.New("expense not found")

// Persister stores the full expense array. Save overwrites what was there.
type Persister interface {
	Load(ctx context.Context) ([]core.Expense, error)
	Save(ctx context.Context, expenses []core.Expense) error
}

// PersistError is returned when a mutation was applied in memory but the
// snapshot could not be written.
type PersistError struct {
	Op  string
	Err error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("persist after %s: %v", e.Op, e.Err)
}

func (e *PersistError) Unwrap() error { return e.Err }

// IsPersistError reports whether err carries a PersistError.
func IsPersistError(err error) bool {
	var pe *PersistError
	return errors.As(err, &pe)
}

// NewExpense is the input of Add. Date defaults to the ledger clock.
type NewExpense struct {
	Description string
	Category    string
	Amount      core.Money
	Date        time.Time
}

// Patch lists the fields Update may change. Nil fields are left alone.
type Patch struct {
	Amount      *core.Money
	Description *string
	Category    *string
}

type Ledger struct {
	mu      sync.RWMutex
	saveMu  sync.Mutex
	items   []core.Expense
	budget  stats.Budget
	version int64
	lastID  int64
	persist Persister
	now     func() time.Time
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithClock overrides the clock used for IDs and default dates.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

// WithBudget sets the initial budget limit.
func WithBudget(limit core.Money) Option {
	return func(l *Ledger) { l.budget = stats.Budget{Limit: limit} }
}

// New creates an empty ledger. A nil persister keeps everything in memory.
func New(p Persister, opts ...Option) *Ledger {
	l := &Ledger{persist: p, now: time.Now}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load replaces the in-memory list with the persisted one.
// It is meant to be called once at startup.
func (l *Ledger) Load(ctx context.Context) error {
	if l.persist == nil {
		return nil
	}
	items, err := l.persist.Load(ctx)
	if err != nil {
		return fmt.Errorf("load expenses: %w", err)
	}

	seen := make(map[int64]struct{}, len(items))
	var lastID int64
	for _, e := range items {
		if _, dup := seen[e.ID]; dup {
			return fmt.Errorf("load expenses: duplicate id %d", e.ID)
		}
		seen[e.ID] = struct{}{}
		if e.ID > lastID {
			lastID = e.ID
		}
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.items = items
	l.lastID = lastID
	l.version++
	slog.InfoContext(ctx, "Expenses loaded", "count", len(items))
	return nil
}

// Seed adds records only when the ledger is empty. It reports whether
// anything was added.
func (l *Ledger) Seed(ctx context.Context, seed []core.Expense) (bool, error) {
	l.mu.Lock()
	if len(l.items) > 0 {
		l.mu.Unlock()
		return false, nil
	}
	for _, e := range seed {
		if e.ID > l.lastID {
			l.lastID = e.ID
		}
	}
	l.items = append([]core.Expense(nil), seed...)
	l.version++
	return true, l.commitLocked(ctx, "seed")
}

// Add validates and prepends a new expense.
func (l *Ledger) Add(ctx context.Context, in NewExpense) (core.Expense, error) {
	l.mu.Lock()
	now := l.now()
	e := core.Expense{
		ID:          l.nextIDLocked(now),
		Description: strings.TrimSpace(in.Description),
		Category:    strings.TrimSpace(in.Category),
		Amount:      in.Amount,
		Date:        in.Date,
	}
	if e.Date.IsZero() {
		e.Date = now
	}
	if err := e.Validate(); err != nil {
		l.mu.Unlock()
		return core.Expense{}, err
	}
	l.items = append([]core.Expense{e}, l.items...)
	l.lastID = e.ID
	l.version++
	return e, l.commitLocked(ctx, "add")
}

// Update applies a patch to the expense with the given id.
func (l *Ledger) Update(ctx context.Context, id int64, p Patch) (core.Expense, error) {
	l.mu.Lock()
	idx := l.indexLocked(id)
	if idx < 0 {
		l.mu.Unlock()
		return core.Expense{}, ErrNotFound
	}
	e := l.items[idx]
	if p.Amount != nil {
		e.Amount = *p.Amount
	}
	if p.Description != nil {
		e.Description = strings.TrimSpace(*p.Description)
	}
	if p.Category != nil {
		e.Category = strings.TrimSpace(*p.Category)
	}
	if err := e.Validate(); err != nil {
		l.mu.Unlock()
		return core.Expense{}, err
	}
	l.items[idx] = e
	l.version++
	return e, l.commitLocked(ctx, "update")
}

// UpdateAmount changes only the amount of an expense.
func (l *Ledger) UpdateAmount(ctx context.Context, id int64, amount core.Money) (core.Expense, error) {
	return l.Update(ctx, id, Patch{Amount: &amount})
}

// Delete removes the expense with the given id.
func (l *Ledger) Delete(ctx context.Context, id int64) error {
	l.mu.Lock()
	idx := l.indexLocked(id)
	if idx < 0 {
		l.mu.Unlock()
		return ErrNotFound
	}
	l.items = append(l.items[:idx:idx], l.items[idx+1:]...)
	l.version++
	return l.commitLocked(ctx, "delete")
}

// Snapshot returns a copy of the current list, newest additions first.
func (l *Ledger) Snapshot() []core.Expense {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.snapshotLocked()
}

// State is the list, budget and version read under a single lock.
type State struct {
	Expenses []core.Expense
	Budget   stats.Budget
	Version  int64
}

// State returns a consistent view for callers that key derived data by
// version.
func (l *Ledger) State() State {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return State{Expenses: l.snapshotLocked(), Budget: l.budget, Version: l.version}
}

// Get returns a single expense.
func (l *Ledger) Get(id int64) (core.Expense, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	idx := l.indexLocked(id)
	if idx < 0 {
		return core.Expense{}, ErrNotFound
	}
	return l.items[idx], nil
}

// Len returns the number of expenses.
func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.items)
}

// Version increases on every change to the list or the budget.
func (l *Ledger) Version() int64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.version
}

// Budget returns the current budget.
func (l *Ledger) Budget() stats.Budget {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.budget
}

// SetBudget replaces the budget limit. Budgets live in memory only.
func (l *Ledger) SetBudget(limit core.Money) error {
	if err := limit.Validate(); err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.budget = stats.Budget{Limit: limit}
	l.version++
	return nil
}

// ClearBudget sets the budget limit to zero.
func (l *Ledger) ClearBudget() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.budget = stats.Budget{}
	l.version++
}

// commitLocked releases l.mu and writes the snapshot taken under it.
// saveMu is acquired before the release so writes land in mutation order.
func (l *Ledger) commitLocked(ctx context.Context, op string) error {
	if l.persist == nil {
		l.mu.Unlock()
		return nil
	}
	snapshot := l.snapshotLocked()
	l.saveMu.Lock()
	l.mu.Unlock()
	defer l.saveMu.Unlock()
	return l.save(ctx, op, snapshot)
}

func (l *Ledger) save(ctx context.Context, op string, snapshot []core.Expense) error {
	if err := l.persist.Save(ctx, snapshot); err != nil {
		slog.ErrorContext(ctx, "Failed to persist expenses", "operation", op, "count", len(snapshot), "error", err)
		return &PersistError{Op: op, Err: err}
	}
	return nil
}

func (l *Ledger) snapshotLocked() []core.Expense {
	return append(make([]core.Expense, 0, len(l.items)), l.items...)
}

func (l *Ledger) indexLocked(id int64) int {
	for i, e := range l.items {
		if e.ID == id {
			return i
		}
	}
	return -1
}

// nextIDLocked derives an id from the creation time in milliseconds,
// bumping past the last issued id on collision.
func (l *Ledger) nextIDLocked(now time.Time) int64 {
	id := now.UnixMilli()
	if id <= l.lastID {
		id = l.lastID + 1
	}
	return id
}
