package edit

import (
	"context"
	"errors"
	"testing"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/ledger"
)

func newLedger(t *testing.T) (*ledger.Ledger, core.Expense) {
	t.Helper()
	l := ledger.New(nil, ledger.WithClock(func() time.Time {
		return time.Date(2025, 2, 7, 10, 0, 0, 0, time.UTC)
	}))
	e, err := l.Add(context.Background(), ledger.NewExpense{Description: "Advert", Category: core.Marketing, Amount: core.Money{Cents: 5000}})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	return l, e
}

func TestBeginCapturesWorkingCopy(t *testing.T) {
	s := NewSession()
	_, e := newLedger(t)

	if _, ok := s.State(e.ID).(Viewing); !ok {
		t.Fatal("rows start in Viewing")
	}
	st, ok := s.Begin(e).(Editing)
	if !ok {
		t.Fatalf("Begin should enter Editing, got %T", st)
	}
	if st.Draft.Amount != "50.00" || st.Draft.Description != "Advert" || st.Draft.Category != core.Marketing {
		t.Fatalf("unexpected draft: %+v", st.Draft)
	}
}

func TestSaveCommitsValidDraft(t *testing.T) {
	s := NewSession()
	l, e := newLedger(t)
	ctx := context.Background()

	s.Begin(e)
	if _, err := s.Change(e.ID, Draft{Amount: "75,5", Description: "Billboard", Category: core.Marketing}); err != nil {
		t.Fatalf("change: %v", err)
	}
	st, saved, err := s.Save(ctx, e.ID, l)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, ok := st.(Viewing); !ok {
		t.Fatalf("save should return to Viewing, got %T", st)
	}
	if saved.Amount.Cents != 7550 || saved.Description != "Billboard" {
		t.Fatalf("unexpected saved expense: %+v", saved)
	}
	got, _ := l.Get(e.ID)
	if got.Amount.Cents != 7550 {
		t.Fatalf("ledger not updated: %+v", got)
	}
}

func TestSaveInvalidKeepsEditing(t *testing.T) {
	s := NewSession()
	l, e := newLedger(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		draft Draft
		want  string
	}{
		{name: "non-numeric", draft: Draft{Amount: "abc", Description: "x", Category: "c"}, want: "Amount must be a positive number"},
		{name: "empty amount", draft: Draft{Amount: "", Description: "x", Category: "c"}, want: "Amount must be a positive number"},
		{name: "negative", draft: Draft{Amount: "-3", Description: "x", Category: "c"}, want: "Amount must be a positive number"},
		{name: "zero", draft: Draft{Amount: "0", Description: "x", Category: "c"}, want: "Amount must be a positive number"},
		{name: "blank description", draft: Draft{Amount: "1", Description: " ", Category: "c"}, want: "Description is required"},
		{name: "blank category", draft: Draft{Amount: "1", Description: "x", Category: ""}, want: "Category is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s.Begin(e)
			if _, err := s.Change(e.ID, tt.draft); err != nil {
				t.Fatalf("change: %v", err)
			}
			st, _, err := s.Save(ctx, e.ID, l)
			if err == nil {
				t.Fatal("expected validation error")
			}
			inv, ok := st.(Invalid)
			if !ok {
				t.Fatalf("expected Invalid, got %T", st)
			}
			if inv.Message != tt.want || inv.Draft != tt.draft {
				t.Fatalf("invalid state = %+v", inv)
			}
			if _, ok := s.State(e.ID).(Invalid); !ok {
				t.Fatal("row should stay Invalid")
			}
			got, _ := l.Get(e.ID)
			if got.Amount.Cents != 5000 || got.Description != "Advert" {
				t.Fatalf("collection mutated by invalid save: %+v", got)
			}
		})
	}

	// correcting the draft returns to Editing
	st, err := s.Change(e.ID, Draft{Amount: "1", Description: "x", Category: "c"})
	if err != nil {
		t.Fatalf("change: %v", err)
	}
	if _, ok := st.(Editing); !ok {
		t.Fatalf("expected Editing after change, got %T", st)
	}
}

func TestCancelDiscardsDraft(t *testing.T) {
	s := NewSession()
	l, e := newLedger(t)

	s.Begin(e)
	_, _ = s.Change(e.ID, Draft{Amount: "999", Description: "x", Category: "c"})
	if _, ok := s.Cancel(e.ID).(Viewing); !ok {
		t.Fatal("cancel should return to Viewing")
	}
	got, _ := l.Get(e.ID)
	if got.Amount.Cents != 5000 {
		t.Fatal("cancel must not commit")
	}
	if _, _, err := s.Save(context.Background(), e.ID, l); !errors.Is(err, ErrNotEditing) {
		t.Fatalf("save after cancel: %v", err)
	}
	if _, err := s.Change(e.ID, Draft{}); !errors.Is(err, ErrNotEditing) {
		t.Fatalf("change after cancel: %v", err)
	}
}

func TestRowsAreIndependent(t *testing.T) {
	s := NewSession()
	l, a := newLedger(t)
	b, _ := l.Add(context.Background(), ledger.NewExpense{Description: "Rent", Category: core.Rent, Amount: core.Money{Cents: 3000}})

	s.Begin(a)
	s.Begin(b)
	_, _ = s.Change(a.ID, Draft{Amount: "bad", Description: "x", Category: "c"})
	_, _, _ = s.Save(context.Background(), a.ID, l)

	if _, ok := s.State(a.ID).(Invalid); !ok {
		t.Fatal("row a should be Invalid")
	}
	if _, ok := s.State(b.ID).(Editing); !ok {
		t.Fatal("row b should still be Editing")
	}
	if len(s.Active()) != 2 {
		t.Fatalf("active rows = %v", s.Active())
	}
}

type failingCommitter struct{ err error }

func (f failingCommitter) Update(context.Context, int64, ledger.Patch) (core.Expense, error) {
	return core.Expense{}, f.err
}

func TestSaveCommitterErrors(t *testing.T) {
	s := NewSession()
	e := core.Expense{ID: 9, Description: "x", Category: "c", Amount: core.Money{Cents: 100}}

	s.Begin(e)
	st, _, err := s.Save(context.Background(), e.ID, failingCommitter{err: errors.New("boom")})
	if err == nil {
		t.Fatal("expected error")
	}
	if _, ok := st.(Editing); !ok {
		t.Fatalf("unexpected failure should keep Editing, got %T", st)
	}

	st, _, err = s.Save(context.Background(), e.ID, failingCommitter{err: ledger.ErrNotFound})
	if !errors.Is(err, ledger.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, ok := st.(Viewing); !ok {
		t.Fatalf("deleted row should return to Viewing, got %T", st)
	}
}
