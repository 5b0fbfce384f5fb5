package http

import (
	"net/http"
	"strconv"

	"fintrack/internal/core"
	"fintrack/internal/ledger"
	applog "fintrack/internal/log"
	"fintrack/internal/stats"
)

// categoryView lists the form choices. Others enables custom_category.
type categoryView struct {
	Categories []string `json:"categories"`
	Custom     string   `json:"custom"`
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	NewJSONResponse().Data(categoryView{
		Categories: core.Categories(),
		Custom:     core.Others,
	}).Write(w)
}

// handleListExpenses pages through the ledger in its own order, most
// recently added first.
func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	params := ParsePageParams(r.URL.Query(), s.cfg.PageSize)
	page := stats.Paginate(s.svc.Ledger().Snapshot(), params.Page, params.Size)
	NewJSONResponse().Data(page).Write(w)
}

func (s *Server) handleRecentExpenses(w http.ResponseWriter, r *http.Request) {
	NewJSONResponse().Data(stats.Recent(s.svc.Ledger().Snapshot(), s.cfg.RecentLimit)).Write(w)
}

func (s *Server) handleGetExpense(w http.ResponseWriter, r *http.Request) {
	id, err := expenseID(r)
	if err != nil {
		s.writeError(w, r, applog.OpRead, err)
		return
	}
	e, err := s.svc.Ledger().Get(id)
	if err != nil {
		s.writeError(w, r, applog.OpRead, err)
		return
	}
	NewJSONResponse().Data(e).Write(w)
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	p, ok := parseBody(w, r)
	if !ok {
		return
	}
	in, err := ParseNewExpense(p)
	if err != nil {
		s.writeError(w, r, applog.OpAdd, err)
		return
	}

	e, err := s.svc.Add(r.Context(), in)
	if err != nil && !ledger.IsPersistError(err) {
		s.writeError(w, r, applog.OpAdd, err)
		return
	}
	NewJSONResponse().
		Status(http.StatusCreated).
		Header("Location", "/api/expenses/"+strconv.FormatInt(e.ID, 10)).
		Data(e).
		PersistWarningIf(err).
		Write(w)
}

func (s *Server) handleUpdateExpense(w http.ResponseWriter, r *http.Request) {
	id, err := expenseID(r)
	if err != nil {
		s.writeError(w, r, applog.OpUpdate, err)
		return
	}
	p, ok := parseBody(w, r)
	if !ok {
		return
	}
	patch, err := ParsePatch(p)
	if err != nil {
		s.writeError(w, r, applog.OpUpdate, err)
		return
	}

	e, err := s.svc.Update(r.Context(), id, patch)
	if err != nil && !ledger.IsPersistError(err) {
		s.writeError(w, r, applog.OpUpdate, err)
		return
	}
	NewJSONResponse().Data(e).PersistWarningIf(err).Write(w)
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	id, err := expenseID(r)
	if err != nil {
		s.writeError(w, r, applog.OpDelete, err)
		return
	}

	err = s.svc.Delete(r.Context(), id)
	switch {
	case err == nil:
		s.session.Cancel(id)
		NewJSONResponse().Status(http.StatusNoContent).Write(w)
	case ledger.IsPersistError(err):
		s.session.Cancel(id)
		NewJSONResponse().Data(map[string]int64{"id": id}).PersistWarningIf(err).Write(w)
	default:
		s.writeError(w, r, applog.OpDelete, err)
	}
}
