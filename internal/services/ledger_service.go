package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"fintrack/internal/amqp"
	"fintrack/internal/cache"
	"fintrack/internal/core"
	"fintrack/internal/ledger"
	applog "fintrack/internal/log"
	"fintrack/internal/stats"
)

var ErrUnknownWindow = errors.New("unknown window")

// EventPublisher announces ledger changes. *amqp.Client implements it.
type EventPublisher interface {
	PublishLedgerEvent(ctx context.Context, ev *amqp.LedgerEvent) error
}

// LedgerService orchestrates ledger mutations, change events and cached
// reports for the API.
type LedgerService struct {
	ledger    *ledger.Ledger
	publisher EventPublisher
	reports   *cache.LRUCache[stats.Report]
	log       *applog.StructuredLogger
	now       func() time.Time
}

type LedgerServiceOption func(*LedgerService)

// WithPublisher enables change events. Without it mutations are local only.
func WithPublisher(p EventPublisher) LedgerServiceOption {
	return func(s *LedgerService) { s.publisher = p }
}

// WithReportCache caches built reports by ledger version.
func WithReportCache(c *cache.LRUCache[stats.Report]) LedgerServiceOption {
	return func(s *LedgerService) { s.reports = c }
}

func WithServiceClock(now func() time.Time) LedgerServiceOption {
	return func(s *LedgerService) { s.now = now }
}

func WithLogger(l *applog.Logger) LedgerServiceOption {
	return func(s *LedgerService) { s.log = applog.NewStructuredLogger(l.WithComponent(applog.ComponentLedger)) }
}

func NewLedgerService(l *ledger.Ledger, opts ...LedgerServiceOption) *LedgerService {
	s := &LedgerService{
		ledger: l,
		now:    time.Now,
		log:    applog.NewStructuredLogger(applog.New(applog.DefaultConfig()).WithComponent(applog.ComponentLedger)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *LedgerService) Ledger() *ledger.Ledger { return s.ledger }

// Add creates an expense. A *ledger.PersistError means the expense exists
// in memory but was not written to storage.
func (s *LedgerService) Add(ctx context.Context, in ledger.NewExpense) (core.Expense, error) {
	e, err := s.ledger.Add(ctx, in)
	if err != nil && !ledger.IsPersistError(err) {
		return core.Expense{}, err
	}
	s.log.LogMutation(ctx, applog.OpAdd, applog.NewFields().WithExpense(e).WithVersion(s.ledger.Version()), err)
	s.publish(ctx, amqp.OpAdd, e.ID, err)
	return e, err
}

// Update satisfies edit.Committer.
func (s *LedgerService) Update(ctx context.Context, id int64, p ledger.Patch) (core.Expense, error) {
	e, err := s.ledger.Update(ctx, id, p)
	if err != nil && !ledger.IsPersistError(err) {
		return core.Expense{}, err
	}
	s.log.LogMutation(ctx, applog.OpUpdate, applog.NewFields().WithExpense(e).WithVersion(s.ledger.Version()), err)
	s.publish(ctx, amqp.OpUpdate, e.ID, err)
	return e, err
}

func (s *LedgerService) UpdateAmount(ctx context.Context, id int64, amount core.Money) (core.Expense, error) {
	return s.Update(ctx, id, ledger.Patch{Amount: &amount})
}

func (s *LedgerService) Delete(ctx context.Context, id int64) error {
	err := s.ledger.Delete(ctx, id)
	if err != nil && !ledger.IsPersistError(err) {
		return err
	}
	fields := applog.NewFields().WithVersion(s.ledger.Version())
	fields[applog.FieldExpenseID] = id
	s.log.LogMutation(ctx, applog.OpDelete, fields, err)
	s.publish(ctx, amqp.OpDelete, id, err)
	return err
}

// Seed loads the demo records into an empty ledger.
func (s *LedgerService) Seed(ctx context.Context) (bool, error) {
	added, err := s.ledger.Seed(ctx, ledger.DemoExpenses())
	if !added {
		return false, nil
	}
	s.log.LogMutation(ctx, applog.OpSeed, applog.NewFields().WithVersion(s.ledger.Version()), err)
	s.publish(ctx, amqp.OpSeed, 0, err)
	return true, err
}

func (s *LedgerService) SetBudget(ctx context.Context, limit core.Money) (stats.Budget, error) {
	if err := s.ledger.SetBudget(limit); err != nil {
		return stats.Budget{}, err
	}
	fields := applog.NewFields().WithVersion(s.ledger.Version())
	fields[applog.FieldAmountCents] = limit.Cents
	s.log.LogMutation(ctx, applog.OpBudget, fields, nil)
	s.publish(ctx, amqp.OpBudget, 0, nil)
	return s.ledger.Budget(), nil
}

func (s *LedgerService) ClearBudget(ctx context.Context) stats.Budget {
	s.ledger.ClearBudget()
	s.log.LogMutation(ctx, applog.OpBudget, applog.NewFields().WithVersion(s.ledger.Version()), nil)
	s.publish(ctx, amqp.OpBudget, 0, nil)
	return s.ledger.Budget()
}

// Report builds the dashboard report for the current snapshot. Reports are
// cached per ledger version for the cache TTL, so window edges may lag by
// at most that TTL.
func (s *LedgerService) Report(ctx context.Context) (stats.Report, error) {
	state := s.ledger.State()
	if s.reports == nil {
		return s.buildReport(state), nil
	}
	key := "report:" + strconv.FormatInt(state.Version, 10)
	r, err := s.reports.GetOrLoad(key, func() (stats.Report, error) {
		return s.buildReport(state), nil
	})
	if err != nil {
		return stats.Report{}, fmt.Errorf("build report: %w", err)
	}
	return r, nil
}

// WindowTotal returns the total and records of a single window.
func (s *LedgerService) WindowTotal(name string) (stats.WindowTotal, []core.Expense, error) {
	w, ok := stats.WindowByName(name)
	if !ok {
		return stats.WindowTotal{}, nil, fmt.Errorf("%w %q", ErrUnknownWindow, name)
	}
	in := stats.FilterByWindow(s.ledger.Snapshot(), w.Days, s.now())
	return stats.WindowTotal{Window: w, Total: stats.ComputeTotals(in), Count: len(in)}, in, nil
}

func (s *LedgerService) buildReport(state ledger.State) stats.Report {
	now := s.now()
	return stats.BuildReport(state.Expenses, stats.Baseline(state.Expenses, now), state.Budget, now)
}

// publish sends a change event unless the change failed to persist, since
// consumers read the persisted snapshot. Publish failures are logged only.
func (s *LedgerService) publish(ctx context.Context, op string, id int64, mutationErr error) {
	if s.publisher == nil || mutationErr != nil {
		return
	}
	ev := amqp.NewLedgerEvent(op, id, s.ledger.Version())
	if err := s.publisher.PublishLedgerEvent(ctx, ev); err != nil {
		fields := applog.NewFields().WithVersion(ev.Version)
		s.log.LogError(ctx, "Failed to publish ledger event", err, applog.ComponentAMQP, op, fields)
	}
}

// Close releases the publisher if it has a Close method.
func (s *LedgerService) Close() error {
	if c, ok := s.publisher.(interface{ Close() error }); ok {
		if err := c.Close(); err != nil {
			return fmt.Errorf("close publisher: %w", err)
		}
	}
	return nil
}
