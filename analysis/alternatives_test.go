package analysis

import (
	"testing"
)

func TestFindUnionsThreeSources(t *testing.T) {
	finder := NewFinder(defaultStore(t), DefaultRuleSet())

	alternatives := finder.Find([]string{"warfarin"}, Patient{
		Age:        30,
		Conditions: []string{"pregnancy"},
	}, nil)

	// Formulary: rivaroxaban. Equivalents: rivaroxaban, apixaban,
	// dabigatran. Condition substitution for pregnancy: heparin.
	if len(alternatives) != 5 {
		t.Fatalf("Expected 5 alternatives, got %d: %+v", len(alternatives), alternatives)
	}

	// Insertion order is preserved and sources are not deduplicated:
	// rivaroxaban legitimately appears twice for two distinct reasons.
	if alternatives[0].Reason != "Monitoring burden" {
		t.Errorf("Expected formulary record first, got reason %q", alternatives[0].Reason)
	}
	if alternatives[1].Reason != "Therapeutic equivalent" || alternatives[1].AlternativeDrug != "rivaroxaban" {
		t.Errorf("Expected duplicate rivaroxaban as therapeutic equivalent, got %+v", alternatives[1])
	}
	last := alternatives[len(alternatives)-1]
	if last.AlternativeDrug != "heparin" || last.Reason != "Safer in pregnancy" {
		t.Errorf("Expected condition substitution last, got %+v", last)
	}
}

func TestFindNoConditionsNoSubstitutions(t *testing.T) {
	finder := NewFinder(defaultStore(t), DefaultRuleSet())

	alternatives := finder.Find([]string{"aspirin"}, Patient{Age: 30}, nil)

	// Formulary: clopidogrel. Equivalents: clopidogrel, ticagrelor.
	if len(alternatives) != 3 {
		t.Fatalf("Expected 3 alternatives, got %d", len(alternatives))
	}
	for _, alternative := range alternatives {
		if alternative.OriginalDrug != "aspirin" {
			t.Errorf("Expected original drug aspirin, got %s", alternative.OriginalDrug)
		}
	}
}

func TestFindUnknownDrug(t *testing.T) {
	finder := NewFinder(defaultStore(t), DefaultRuleSet())

	alternatives := finder.Find([]string{"unknown_drug"}, Patient{Age: 30}, nil)
	if len(alternatives) != 0 {
		t.Errorf("Expected no alternatives, got %d", len(alternatives))
	}
}

func TestRankBySafetyKeywords(t *testing.T) {
	finder := NewFinder(defaultStore(t), DefaultRuleSet())

	alternatives := []Alternative{
		{AlternativeDrug: "a", SafetyProfile: "Similar efficacy"},
		{AlternativeDrug: "b", SafetyProfile: "Safer and better tolerated with reduced risk"},
		{AlternativeDrug: "c", SafetyProfile: "Better GI tolerance"},
	}

	ranked := finder.Rank(alternatives, Patient{Age: 30})

	if ranked[0].AlternativeDrug != "b" {
		t.Errorf("Expected b first (3 keywords), got %s", ranked[0].AlternativeDrug)
	}
	if ranked[1].AlternativeDrug != "c" {
		t.Errorf("Expected c second (1 keyword), got %s", ranked[1].AlternativeDrug)
	}
	if ranked[2].AlternativeDrug != "a" {
		t.Errorf("Expected a last (0 keywords), got %s", ranked[2].AlternativeDrug)
	}
}

func TestRankIsStable(t *testing.T) {
	finder := NewFinder(defaultStore(t), DefaultRuleSet())

	// Equal scores keep input order.
	alternatives := []Alternative{
		{AlternativeDrug: "first", SafetyProfile: "safer option"},
		{AlternativeDrug: "second", SafetyProfile: "a safer choice"},
		{AlternativeDrug: "third", SafetyProfile: "nothing notable"},
		{AlternativeDrug: "fourth", SafetyProfile: "no keywords here"},
	}

	ranked := finder.Rank(alternatives, Patient{Age: 30})

	if ranked[0].AlternativeDrug != "first" || ranked[1].AlternativeDrug != "second" {
		t.Errorf("Equal-score alternatives reordered: %+v", ranked[:2])
	}
	if ranked[2].AlternativeDrug != "third" || ranked[3].AlternativeDrug != "fourth" {
		t.Errorf("Equal-score alternatives reordered: %+v", ranked[2:])
	}
}

func TestRankDoesNotMutateInput(t *testing.T) {
	finder := NewFinder(defaultStore(t), DefaultRuleSet())

	alternatives := []Alternative{
		{AlternativeDrug: "a", SafetyProfile: "nothing"},
		{AlternativeDrug: "b", SafetyProfile: "safer"},
	}

	finder.Rank(alternatives, Patient{Age: 30})

	if alternatives[0].AlternativeDrug != "a" {
		t.Error("Rank mutated its input slice")
	}
}
