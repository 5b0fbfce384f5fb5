package http

import (
	"errors"
	"net/http"

	"fintrack/internal/edit"
	"fintrack/internal/ledger"
	applog "fintrack/internal/log"
)

func (s *Server) handleEditState(w http.ResponseWriter, r *http.Request) {
	id, err := expenseID(r)
	if err != nil {
		s.writeError(w, r, applog.OpRead, err)
		return
	}
	if _, err := s.svc.Ledger().Get(id); err != nil {
		s.writeError(w, r, applog.OpRead, err)
		return
	}
	NewJSONResponse().Data(viewRowState(id, s.session.State(id))).Write(w)
}

// handleBeginEdit puts a row into Editing with a copy of the stored values.
func (s *Server) handleBeginEdit(w http.ResponseWriter, r *http.Request) {
	id, err := expenseID(r)
	if err != nil {
		s.writeError(w, r, applog.OpUpdate, err)
		return
	}
	e, err := s.svc.Ledger().Get(id)
	if err != nil {
		s.writeError(w, r, applog.OpUpdate, err)
		return
	}
	NewJSONResponse().Data(viewRowState(id, s.session.Begin(e))).Write(w)
}

func (s *Server) handleChangeDraft(w http.ResponseWriter, r *http.Request) {
	id, err := expenseID(r)
	if err != nil {
		s.writeError(w, r, applog.OpUpdate, err)
		return
	}
	p, ok := parseBody(w, r)
	if !ok {
		return
	}
	st, err := s.session.Change(id, ParseDraft(p))
	if err != nil {
		s.writeError(w, r, applog.OpUpdate, err)
		return
	}
	NewJSONResponse().Data(viewRowState(id, st)).Write(w)
}

func (s *Server) handleCancelEdit(w http.ResponseWriter, r *http.Request) {
	id, err := expenseID(r)
	if err != nil {
		s.writeError(w, r, applog.OpUpdate, err)
		return
	}
	NewJSONResponse().Data(viewRowState(id, s.session.Cancel(id))).Write(w)
}

// saveView is the result of a save: the row state plus the stored expense
// when the save went through.
type saveView struct {
	rowStateView
	Expense any `json:"expense,omitempty"`
}

// handleSaveEdit validates and commits the draft. A failed validation
// answers 422 with the Invalid row so the client can show the message.
func (s *Server) handleSaveEdit(w http.ResponseWriter, r *http.Request) {
	id, err := expenseID(r)
	if err != nil {
		s.writeError(w, r, applog.OpUpdate, err)
		return
	}

	st, e, err := s.session.Save(r.Context(), id, s.svc)
	view := saveView{rowStateView: viewRowState(id, st)}

	var invalid edit.Invalid
	switch {
	case err == nil, ledger.IsPersistError(err):
		view.Expense = e
		NewJSONResponse().Data(view).PersistWarningIf(err).Write(w)
	case asInvalid(st, &invalid):
		UnprocessableEntityError(invalid.Message).Details(view).Write(w)
	case errors.Is(err, ledger.ErrNotFound):
		NotFoundError("Expense not found").Details(view).Write(w)
	default:
		s.writeError(w, r, applog.OpUpdate, err)
	}
}

func asInvalid(st edit.RowState, out *edit.Invalid) bool {
	inv, ok := st.(edit.Invalid)
	if ok {
		*out = inv
	}
	return ok
}
