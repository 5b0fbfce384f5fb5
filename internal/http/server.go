package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"fintrack/internal/edit"
	applog "fintrack/internal/log"
	"fintrack/internal/middleware/ratelimit"
	"fintrack/internal/middleware/security"
	"fintrack/internal/middleware/trace"
	"fintrack/internal/services"
)

// Config holds the server settings taken from the application config.
type Config struct {
	Addr           string
	RecentLimit    int
	PageSize       int
	WriteRateLimit int

	// Ready reports whether storage is reachable. Nil means always ready.
	Ready func(context.Context) error

	Logger *applog.Logger
}

type Server struct {
	http.Server
	svc     *services.LedgerService
	session *edit.Session
	cfg     Config
	logger  *applog.Logger

	limiter  *ratelimit.Limiter
	detector *security.Detector
	tracer   *trace.Middleware

	shutdownOnce sync.Once
}

// NewServer wires the JSON API around svc. session tracks inline edits and
// may be shared with other front ends.
func NewServer(cfg Config, svc *services.LedgerService, session *edit.Session) *Server {
	if cfg.Logger == nil {
		cfg.Logger = applog.New(applog.DefaultConfig())
	}
	if cfg.RecentLimit <= 0 {
		cfg.RecentLimit = 3
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = 20
	}
	if session == nil {
		session = edit.NewSession()
	}

	s := &Server{
		svc:      svc,
		session:  session,
		cfg:      cfg,
		logger:   cfg.Logger.WithComponent(applog.ComponentHTTP),
		detector: security.NewDetector(),
		limiter:  ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: cfg.WriteRateLimit}),
	}
	s.tracer = trace.NewMiddleware(s.logger, s.detector.ExtractClientIP)

	s.Server = http.Server{
		Addr:              cfg.Addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()

	r.Use(applog.Middleware(s.logger))
	r.Use(s.tracer.Middleware)
	r.Use(middleware.Recoverer)
	r.Use(s.detector.Middleware)
	r.Use(security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		NotFoundError("Not found").Write(w)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		ErrorResponse(http.StatusMethodNotAllowed, "Method not allowed").Write(w)
	})

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)

	r.Route("/api", func(r chi.Router) {
		r.Use(s.limiter.Middleware(s.detector.ExtractClientIP, func(w http.ResponseWriter, r *http.Request) {
			TooManyRequestsError().Write(w)
		}))

		r.Get("/categories", s.handleCategories)
		r.Get("/report", s.handleReport)
		r.Get("/stats", s.handleStats)
		r.Get("/windows/{window}", s.handleWindow)
		r.Get("/budget", s.handleGetBudget)
		r.Put("/budget", s.handleSetBudget)
		r.Delete("/budget", s.handleClearBudget)

		r.Route("/expenses", func(r chi.Router) {
			r.Get("/", s.handleListExpenses)
			r.Post("/", s.handleCreateExpense)
			r.Get("/recent", s.handleRecentExpenses)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetExpense)
				r.Patch("/", s.handleUpdateExpense)
				r.Delete("/", s.handleDeleteExpense)

				r.Route("/edit", func(r chi.Router) {
					r.Get("/", s.handleEditState)
					r.Post("/", s.handleBeginEdit)
					r.Put("/", s.handleChangeDraft)
					r.Delete("/", s.handleCancelEdit)
					r.Post("/save", s.handleSaveEdit)
				})
			})
		})
	})

	return r
}

// Shutdown stops background helpers and drains the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.shutdownOnce.Do(s.limiter.Stop)
	return s.Server.Shutdown(ctx)
}

// Metrics exposes request counters for diagnostics.
func (s *Server) Metrics() trace.Metrics {
	return s.tracer.GetMetrics()
}
