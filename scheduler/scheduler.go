// Package scheduler provides automated formulary reload scheduling and health
// monitoring for the prescriptions API. It handles cron-based relation reloads
// and coordinates refresh operations with the data container using dependency
// injection.
package scheduler

import (
	"fmt"
	"time"

	"github.com/giygas/prescriptions-api/interfaces"
	"github.com/giygas/prescriptions-api/logging"
	"github.com/go-co-op/gocron"
)

// Compile-time check to ensure Scheduler implements Scheduler interface
var _ interfaces.Scheduler = (*Scheduler)(nil)

// Scheduler handles formulary reloads and health monitoring using dependency injection
type Scheduler struct {
	dataStore interfaces.DataStore
	parser    interfaces.Parser
	scheduler *gocron.Scheduler
}

// NewScheduler creates a new scheduler instance with injected dependencies
func NewScheduler(dataStore interfaces.DataStore, parser interfaces.Parser) *Scheduler {
	return &Scheduler{
		dataStore: dataStore,
		parser:    parser,
		scheduler: gocron.NewScheduler(time.Local),
	}
}

// Start performs the initial formulary load and schedules reloads
func (s *Scheduler) Start() error {
	// Initial load
	if err := s.reloadData(); err != nil {
		logging.Error("Failed to perform initial formulary load", "error", err)
		return fmt.Errorf("initial formulary load failed: %w", err)
	}

	// Schedule reloads at 06:00 and 18:00 daily
	_, err := s.scheduler.Every(1).Days().At("06:00;18:00").Do(func() {
		if err := s.reloadData(); err != nil {
			logging.Error("Failed to reload formulary", "error", err)
		}
	})

	if err != nil {
		logging.Error("Failed to schedule reloads", "error", err)
		return fmt.Errorf("failed to schedule reloads: %w", err)
	}

	s.scheduler.StartAsync()

	// Start health monitoring
	s.startHealthMonitoring()

	return nil
}

// Stop stops the scheduler
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

// reloadData performs a complete formulary reload using injected dependencies
func (s *Scheduler) reloadData() error {
	// Prevent concurrent reloads
	if !s.dataStore.BeginUpdate() {
		logging.Info("Reload already in progress, skipping...")
		return nil
	}
	defer s.dataStore.EndUpdate()

	logging.Info(fmt.Sprintf("Starting formulary reload at: %s", time.Now().Format(time.RFC3339)))
	start := time.Now()

	interactions, dosages, alternatives, err := s.parser.ParseAll()
	if err != nil {
		logging.Error("Failed to parse formulary relations", "error", err)
		return fmt.Errorf("failed to parse formulary relations: %w", err)
	}

	if len(interactions) == 0 {
		logging.Warn("Interaction relation is empty after reload")
	}
	if len(dosages) == 0 {
		logging.Warn("Dosage relation is empty after reload")
	}
	if len(alternatives) == 0 {
		logging.Warn("Alternative relation is empty after reload")
	}

	// Atomic swap using injected data store
	s.dataStore.UpdateData(interactions, dosages, alternatives)

	elapsed := time.Since(start)
	logging.Info("Formulary reload completed",
		"duration", elapsed.String(),
		"interactions", len(interactions),
		"dosages", len(dosages),
		"alternatives", len(alternatives))

	return nil
}

// startHealthMonitoring monitors the freshness of the formulary data
func (s *Scheduler) startHealthMonitoring() {
	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()

		for range ticker.C {
			lastUpdate := s.dataStore.GetLastUpdated()
			if time.Since(lastUpdate) > 25*time.Hour {
				logging.Warn("Formulary hasn't been reloaded in over 25 hours")
			}
		}
	}()
}
