// Package main is the entry point for the prescriptions API server.
// It wires together configuration, logging, the formulary data store,
// the analysis pipeline, and the HTTP server, then runs until a
// shutdown signal arrives.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/giygas/prescriptions-api/analysis"
	"github.com/giygas/prescriptions-api/config"
	"github.com/giygas/prescriptions-api/data"
	"github.com/giygas/prescriptions-api/formulary"
	"github.com/giygas/prescriptions-api/handlers"
	"github.com/giygas/prescriptions-api/health"
	"github.com/giygas/prescriptions-api/logging"
	"github.com/giygas/prescriptions-api/scheduler"
	"github.com/giygas/prescriptions-api/server"
	"github.com/giygas/prescriptions-api/textextract"
	"github.com/giygas/prescriptions-api/validation"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env if present; environment variables win either way
	if err := godotenv.Load(); err != nil {
		logging.Info("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		logging.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logging.InitLoggerWithRetention(cfg.LogDir, cfg.LogRetentionWeeks)

	// Data store and initial formulary load
	dataContainer := data.NewDataContainer()
	dataContainer.SetServerStartTime(time.Now())

	parser := formulary.NewParser(cfg.DataDir)
	sched := scheduler.NewScheduler(dataContainer, parser)
	if err := sched.Start(); err != nil {
		// Missing relations degrade to empty; a scheduler failure here
		// means the cron wiring itself broke.
		logging.Error("Failed to start scheduler", "error", err)
		os.Exit(1)
	}
	defer sched.Stop()

	// Clinical policy: defaults, then config knobs, then rule overrides
	policy := analysis.DefaultPolicy()
	policy.SafetyThreshold = cfg.SafetyThreshold
	policy.ElderlyDoseFactor = cfg.ElderlyDoseFactor
	if err := policy.Validate(); err != nil {
		logging.Error("Invalid analysis policy", "error", err)
		os.Exit(1)
	}

	rulesPath := ""
	if cfg.DataDir != "" {
		rulesPath = filepath.Join(cfg.DataDir, "rules.json")
	}
	rules, err := analysis.LoadRuleSet(rulesPath)
	if err != nil {
		logging.Warn("Failed to load rule overrides, using defaults", "error", err)
	}

	analyzer := analysis.NewAnalyzer(dataContainer, policy, rules)

	handler := handlers.NewHTTPHandler(
		dataContainer,
		analyzer,
		textextract.NewExtractor(),
		validation.NewValidator(),
		health.NewHealthChecker(dataContainer),
	)

	srv := server.NewServer(cfg, handler)

	// Channel to listen for interrupt signals
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	// Start the server in a goroutine
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Block until a signal is received
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logging.Error("Shutdown error", "error", err)
		os.Exit(1)
	}
}
