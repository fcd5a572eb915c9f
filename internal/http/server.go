// Package http exposes the ledger as a local JSON API.
package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"fintrack/internal/cache"
	"fintrack/internal/core"
	"fintrack/internal/ledger"
	applog "fintrack/internal/log"
	"fintrack/internal/report"
	"fintrack/internal/sheets"
)

// Ledger is the subset of *ledger.Store the handlers use.
type Ledger interface {
	cache.Source
	AddTransaction(ctx context.Context, d *ledger.Draft) (core.Transaction, bool, error)
	SetGoal(ctx context.Context, category, valueText string) error
	AddCategory(ctx context.Context, name string) error
	ReplaceTransactions(ctx context.Context, txns []core.Transaction) error
}

var _ Ledger = (*ledger.Store)(nil)

type Server struct {
	http.Server
	ledger     Ledger
	dashboards *cache.Dashboards
	formatter  report.Formatter
	exporter   sheets.RowWriter
	logger     *applog.Logger
}

type Option func(*Server)

func WithDashboards(d *cache.Dashboards) Option {
	return func(s *Server) { s.dashboards = d }
}

func WithFormatter(f report.Formatter) Option {
	return func(s *Server) { s.formatter = f }
}

// WithExporter enables POST /api/export/sheets.
func WithExporter(w sheets.RowWriter) Option {
	return func(s *Server) { s.exporter = w }
}

func WithLogger(l *applog.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// NewServer wires routes and middleware, returning a ready-to-run server.
func NewServer(addr string, l Ledger, opts ...Option) *Server {
	s := &Server{ledger: l}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = applog.Discard()
	}
	if s.dashboards == nil {
		s.dashboards = cache.NewDashboards(l, 100, 5*time.Minute)
	}

	s.Server = http.Server{
		Addr:              addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(applog.Middleware(s.logger.WithComponent(applog.ComponentHTTP)))
	r.Use(applog.AccessLog)
	r.Use(middleware.Recoverer)
	r.Use(SecurityHeaders(DefaultHeadersConfig()))

	r.Get("/healthz", handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/state", s.handleState)
		r.Get("/dashboard", s.handleDashboard)

		r.Post("/transactions", s.handleAddTransaction)
		r.Put("/transactions", s.handleReplaceTransactions)
		r.Post("/categories", s.handleAddCategory)
		r.Put("/goals/{category}", s.handleSetGoal)

		r.Get("/export.csv", s.handleExportCSV)
		if s.exporter != nil {
			r.Post("/export/sheets", s.handleExportSheets)
		}
	})

	return r
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
