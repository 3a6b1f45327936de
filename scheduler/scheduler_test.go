package scheduler

import (
	"fmt"
	"testing"

	"github.com/giygas/prescriptions-api/data"
	"github.com/giygas/prescriptions-api/formulary"
	"github.com/giygas/prescriptions-api/formulary/entities"
)

// stubParser returns canned relations or an error.
type stubParser struct {
	interactions map[string]entities.InteractionRecord
	fail         bool
}

func (p *stubParser) ParseAll() (map[string]entities.InteractionRecord,
	map[string]entities.DosageRecord,
	map[string][]entities.AlternativeRecord, error) {

	if p.fail {
		return nil, nil, nil, fmt.Errorf("parse failed")
	}
	return p.interactions,
		map[string]entities.DosageRecord{},
		map[string][]entities.AlternativeRecord{},
		nil
}

func TestStartPerformsInitialLoad(t *testing.T) {
	dc := data.NewDataContainer()
	parser := &stubParser{
		interactions: map[string]entities.InteractionRecord{
			formulary.PairKey("warfarin", "aspirin"): {Drug1: "warfarin", Drug2: "aspirin", Severity: entities.SeveritySevere},
		},
	}

	sched := NewScheduler(dc, parser)
	if err := sched.Start(); err != nil {
		t.Fatalf("Expected scheduler to start, got %v", err)
	}
	defer sched.Stop()

	if len(dc.GetInteractions()) != 1 {
		t.Errorf("Expected initial load to populate store, got %d interactions", len(dc.GetInteractions()))
	}
	if dc.GetLastUpdated().IsZero() {
		t.Error("Expected last updated to be set after initial load")
	}
}

func TestStartFailsWhenInitialLoadFails(t *testing.T) {
	dc := data.NewDataContainer()
	sched := NewScheduler(dc, &stubParser{fail: true})

	if err := sched.Start(); err == nil {
		sched.Stop()
		t.Fatal("Expected Start to fail when the initial load fails")
	}
}

func TestReloadSkippedWhileUpdating(t *testing.T) {
	dc := data.NewDataContainer()
	parser := &stubParser{
		interactions: map[string]entities.InteractionRecord{
			formulary.PairKey("a", "b"): {Drug1: "a", Drug2: "b", Severity: entities.SeverityMild},
		},
	}
	sched := NewScheduler(dc, parser)

	// Simulate a reload already in flight.
	if !dc.BeginUpdate() {
		t.Fatal("Expected BeginUpdate to succeed")
	}
	defer dc.EndUpdate()

	if err := sched.reloadData(); err != nil {
		t.Fatalf("Expected skipped reload to return nil, got %v", err)
	}
	if len(dc.GetInteractions()) != 0 {
		t.Error("Expected skipped reload to leave store untouched")
	}
}
