// Command extract runs the field-extraction pipeline against a single
// receipt file and prints the outcome as JSON. Handy for tuning the
// heuristics without standing up the server.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"expense-tracker/constants"
	"expense-tracker/internal/config"
	"expense-tracker/internal/entity"
	"expense-tracker/internal/extract"
	"expense-tracker/internal/pipeline"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	slog.SetDefault(logger)

	strategy := flag.String("strategy", constants.StrategyBuiltin, "extraction strategy: builtin, openai, gemini, claude, openrouter")
	model := flag.String("model", "", "cloud model override")
	credential := flag.String("credential", "", "cloud API key (or set EXTRACT_CREDENTIAL)")
	timeout := flag.Duration("timeout", 2*time.Minute, "overall timeout")
	flag.Parse()

	if flag.NArg() != 1 {
		logger.Error("usage: extract [flags] <receipt-file>")
		os.Exit(2)
	}
	path := flag.Arg(0)

	_ = godotenv.Load()
	if *credential == "" {
		*credential = os.Getenv("EXTRACT_CREDENTIAL")
	}

	content, err := os.ReadFile(path)
	if err != nil {
		logger.Error("read file", "path", path, "error", err)
		os.Exit(1)
	}
	mediaType := constants.MapExtToMediaType(strings.ToLower(filepath.Ext(path)))
	if mediaType == "" {
		logger.Error("unrecognized file extension", "path", path)
		os.Exit(2)
	}

	cfg := config.Load()
	extractor := extract.NewExtractor(extract.Config{
		Tesseract:     cfg.OCR.Tesseract,
		TesseractLang: cfg.OCR.TesseractLang,
		TmpDir:        cfg.OCR.TmpDir,
	}, logger)

	factory := pipeline.NewStrategyFactory(extractor, logger)
	strat, err := factory.New(pipeline.Selector{
		Strategy:   *strategy,
		Model:      *model,
		Credential: *credential,
	})
	if err != nil {
		logger.Error("build strategy", "strategy", *strategy, "error", err)
		os.Exit(2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	outcome := pipeline.NewOrchestrator(logger).Extract(ctx, entity.RawDocument{
		Content:   content,
		MediaType: mediaType,
	}, strat)

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(outcome); err != nil {
		logger.Error("encode outcome", "error", err)
		os.Exit(1)
	}
}
