package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	applog "fintrack/internal/log"
)

const readyTimeout = 2 * time.Second

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	NewJSONResponse().Data(map[string]string{"status": "ok"}).Write(w)
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.cfg.Ready != nil {
		ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
		defer cancel()
		if err := s.cfg.Ready(ctx); err != nil {
			applog.FromContext(r.Context()).Warn("Readiness check failed", applog.FieldError, err.Error())
			ServiceUnavailableError("storage unavailable").Write(w)
			return
		}
	}
	NewJSONResponse().Data(map[string]any{
		"status":  "ready",
		"version": s.svc.Ledger().Version(),
	}).Write(w)
}

// expenseID reads the {id} URL parameter.
func expenseID(r *http.Request) (int64, error) {
	return parseID(chi.URLParam(r, "id"))
}

// parseBody reads and parses the request body, writing a 400 on failure.
func parseBody(w http.ResponseWriter, r *http.Request) (*RequestBodyParser, bool) {
	p := NewRequestBodyParser(r)
	if err := p.Parse(); err != nil {
		ErrorFor(err).Write(w)
		return nil, false
	}
	return p, true
}

// writeError maps err to a response and logs unexpected failures.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, op string, err error) {
	resp := ErrorFor(err)
	if resp.statusCode >= http.StatusInternalServerError {
		applog.NewStructuredLogger(applog.FromContext(r.Context())).
			LogError(r.Context(), "Request failed", err, applog.ComponentHTTP, op, nil)
	}
	resp.Write(w)
}
