package voices

import (
	"errors"
	"testing"
	"time"

	"briefcast/internal/config"
	"briefcast/internal/failure"
)

func testPools() ([]config.Voice, []config.Voice) {
	poolA := []config.Voice{
		{Name: "Brian", ID: "id-brian"},
		{Name: "Daniel", ID: "id-daniel"},
		{Name: "Drew", ID: "id-drew"},
	}
	poolB := []config.Voice{
		{Name: "Alice", ID: "id-alice"},
		{Name: "Sarah", ID: "id-sarah"},
	}
	return poolA, poolB
}

func TestAssignIsDeterministicForDate(t *testing.T) {
	poolA, poolB := testPools()
	date := time.Date(2026, 9, 1, 6, 30, 0, 0, time.UTC)

	first, err := Assign(date, poolA, poolB, config.VoicePins{})
	if err != nil {
		t.Fatalf("Assign failed: %v", err)
	}
	// A rerun later the same day must land on the same pair.
	later := date.Add(9 * time.Hour)
	second, err := Assign(later, poolA, poolB, config.VoicePins{})
	if err != nil {
		t.Fatalf("Assign failed: %v", err)
	}
	if first != second {
		t.Fatalf("same-day assignments differ: %#v vs %#v", first, second)
	}
}

func TestAssignVariesAcrossDates(t *testing.T) {
	poolA, poolB := testPools()
	start := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	seen := make(map[string]bool)
	for i := 0; i < 30; i++ {
		assignment, err := Assign(start.AddDate(0, 0, i), poolA, poolB, config.VoicePins{})
		if err != nil {
			t.Fatalf("Assign failed: %v", err)
		}
		seen[assignment.HostA.ID+"/"+assignment.HostB.ID] = true
	}
	if len(seen) < 2 {
		t.Fatal("expected rotation to produce more than one pairing over a month")
	}
}

func TestAssignHostsAreDistinct(t *testing.T) {
	// Overlapping pools force the collision path.
	shared := []config.Voice{
		{Name: "Brian", ID: "id-brian"},
		{Name: "Alice", ID: "id-alice"},
	}
	start := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 30; i++ {
		assignment, err := Assign(start.AddDate(0, 0, i), shared, shared, config.VoicePins{})
		if err != nil {
			t.Fatalf("Assign failed: %v", err)
		}
		if assignment.HostA.ID == assignment.HostB.ID {
			t.Fatalf("day %d: both hosts got %s", i, assignment.HostA.ID)
		}
	}
}

func TestAssignPinsBypassRotation(t *testing.T) {
	poolA, poolB := testPools()
	date := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	pins := config.VoicePins{HostA: "id-drew", HostB: "custom-voice"}
	assignment, err := Assign(date, poolA, poolB, pins)
	if err != nil {
		t.Fatalf("Assign failed: %v", err)
	}
	if !assignment.PinnedA || assignment.HostA.ID != "id-drew" || assignment.HostA.Name != "Drew" {
		t.Fatalf("pin did not resolve against pool: %#v", assignment.HostA)
	}
	if !assignment.PinnedB || assignment.HostB.ID != "custom-voice" {
		t.Fatalf("unknown pin should be honored verbatim: %#v", assignment.HostB)
	}
}

func TestAssignPinnedSlotIgnoresEmptyPool(t *testing.T) {
	date := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	pins := config.VoicePins{HostA: "v1", HostB: "v2"}
	if _, err := Assign(date, nil, nil, pins); err != nil {
		t.Fatalf("fully pinned assignment should not need pools: %v", err)
	}
}

func TestAssignEmptyPoolFails(t *testing.T) {
	_, poolB := testPools()
	date := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	_, err := Assign(date, nil, poolB, config.VoicePins{})
	if !errors.Is(err, failure.ErrInsufficientVoicePool) {
		t.Fatalf("expected insufficient voice pool error, got %v", err)
	}
}

func TestAssignSingleSharedVoiceFails(t *testing.T) {
	only := []config.Voice{{Name: "Brian", ID: "id-brian"}}
	date := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	_, err := Assign(date, only, only, config.VoicePins{})
	if !errors.Is(err, failure.ErrInsufficientVoicePool) {
		t.Fatalf("expected insufficient voice pool error, got %v", err)
	}
}
