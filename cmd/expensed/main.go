package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"

	"github.com/joho/godotenv"

	"expense-tracker/internal/auth"
	"expense-tracker/internal/config"
	"expense-tracker/internal/export"
	"expense-tracker/internal/extract"
	"expense-tracker/internal/pipeline"
	"expense-tracker/internal/repository"
	"expense-tracker/internal/server"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	_ = godotenv.Load()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	db, err := repository.Open(ctx, cfg.DB.Path, logger)
	if err != nil {
		logger.Error("open db", "path", cfg.DB.Path, "error", err)
		os.Exit(1)
	}
	defer func() { _ = db.Close() }()

	users := repository.NewUserRepository(db, logger)
	expenses := repository.NewExpenseRepository(db, logger)

	extractor := extract.NewExtractor(extract.Config{
		Tesseract:     cfg.OCR.Tesseract,
		TesseractLang: cfg.OCR.TesseractLang,
		TmpDir:        cfg.OCR.TmpDir,
	}, logger)

	srv := server.New(cfg, server.Deps{
		Auth:         auth.NewManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL),
		Users:        users,
		Expenses:     expenses,
		Orchestrator: pipeline.NewOrchestrator(logger),
		Strategies:   pipeline.NewStrategyFactory(extractor, logger),
		Exporter:     export.NewService(expenses, logger),
	}, logger)

	httpServer := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: srv.Handler(),
	}

	go func() {
		logger.Info("http serving", "addr", cfg.Server.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http serve", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", "error", err)
	}
	logger.Info("stopped")
}
