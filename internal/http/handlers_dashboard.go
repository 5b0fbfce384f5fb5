package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"fintrack/internal/core"
	applog "fintrack/internal/log"
	"fintrack/internal/stats"
)

type statsView struct {
	Summary stats.Summary       `json:"summary"`
	Cards   []stats.Card        `json:"cards"`
	Windows []stats.WindowTotal `json:"windows"`
}

type windowView struct {
	stats.WindowTotal
	Expenses   []core.Expense        `json:"expenses"`
	ByCategory []stats.CategoryTotal `json:"by_category"`
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	report, err := s.svc.Report(r.Context())
	if err != nil {
		s.writeError(w, r, applog.OpList, err)
		return
	}
	NewJSONResponse().Data(report).Write(w)
}

// handleStats serves the headline cards and window totals only.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	report, err := s.svc.Report(r.Context())
	if err != nil {
		s.writeError(w, r, applog.OpList, err)
		return
	}
	NewJSONResponse().Data(statsView{
		Summary: report.Summary,
		Cards:   report.Summary.Cards(),
		Windows: report.Windows,
	}).Write(w)
}

func (s *Server) handleWindow(w http.ResponseWriter, r *http.Request) {
	total, expenses, err := s.svc.WindowTotal(chi.URLParam(r, "window"))
	if err != nil {
		s.writeError(w, r, applog.OpList, err)
		return
	}
	NewJSONResponse().Data(windowView{
		WindowTotal: total,
		Expenses:    stats.SortByDateDesc(expenses),
		ByCategory:  stats.SortedCategories(stats.AggregateByCategory(expenses)),
	}).Write(w)
}

func (s *Server) handleGetBudget(w http.ResponseWriter, r *http.Request) {
	total := stats.ComputeTotals(s.svc.Ledger().Snapshot())
	NewJSONResponse().Data(s.svc.Ledger().Budget().Status(total)).Write(w)
}

func (s *Server) handleSetBudget(w http.ResponseWriter, r *http.Request) {
	p, ok := parseBody(w, r)
	if !ok {
		return
	}
	limit, err := ParseBudget(p)
	if err != nil {
		s.writeError(w, r, applog.OpBudget, err)
		return
	}
	budget, err := s.svc.SetBudget(r.Context(), limit)
	if err != nil {
		s.writeError(w, r, applog.OpBudget, err)
		return
	}
	total := stats.ComputeTotals(s.svc.Ledger().Snapshot())
	NewJSONResponse().Data(budget.Status(total)).Write(w)
}

func (s *Server) handleClearBudget(w http.ResponseWriter, r *http.Request) {
	budget := s.svc.ClearBudget(r.Context())
	total := stats.ComputeTotals(s.svc.Ledger().Snapshot())
	NewJSONResponse().Data(budget.Status(total)).Write(w)
}
