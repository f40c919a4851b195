// Package server exposes the expense tracker over HTTP: account handling,
// receipt processing, and expense CRUD plus XLSX export.
package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"expense-tracker/internal/auth"
	"expense-tracker/internal/config"
	"expense-tracker/internal/export"
	"expense-tracker/internal/pipeline"
	"expense-tracker/internal/repository"
)

type Server struct {
	cfg          *config.Config
	logger       *slog.Logger
	auth         *auth.Manager
	users        repository.UserRepository
	expenses     repository.ExpenseRepository
	orchestrator *pipeline.Orchestrator
	strategies   *pipeline.StrategyFactory
	exporter     *export.Service

	router chi.Router
}

type Deps struct {
	Auth         *auth.Manager
	Users        repository.UserRepository
	Expenses     repository.ExpenseRepository
	Orchestrator *pipeline.Orchestrator
	Strategies   *pipeline.StrategyFactory
	Exporter     *export.Service
}

func New(cfg *config.Config, deps Deps, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		cfg:          cfg,
		logger:       logger,
		auth:         deps.Auth,
		users:        deps.Users,
		expenses:     deps.Expenses,
		orchestrator: deps.Orchestrator,
		strategies:   deps.Strategies,
		exporter:     deps.Exporter,
	}
	s.router = s.routes()
	return s
}

func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	}))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/register", s.handleRegister)
		r.Post("/auth/login", s.handleLogin)

		r.Group(func(r chi.Router) {
			r.Use(s.requireAuth)

			r.Post("/receipts/process", s.handleProcessReceipt)

			r.Route("/expenses", func(r chi.Router) {
				r.Post("/", s.handleCreateExpense)
				r.Get("/", s.handleListExpenses)
				r.Get("/export", s.handleExportExpenses)
				r.Get("/{id}", s.handleGetExpense)
				r.Put("/{id}", s.handleUpdateExpense)
				r.Delete("/{id}", s.handleDeleteExpense)
			})
		})
	})

	return r
}
