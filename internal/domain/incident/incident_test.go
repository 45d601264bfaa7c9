package incident

import (
	"errors"
	"testing"
	"time"

	"github.com/khanhnv2901/csf-cli/internal/domain/threat"
	sharedErrors "github.com/khanhnv2901/csf-cli/internal/shared/errors"
)

func TestNewRecordStatus(t *testing.T) {
	open, err := NewRecord("data_breach", threat.SeverityHigh, []string{"db"}, false)
	if err != nil {
		t.Fatalf("NewRecord failed: %v", err)
	}
	if open.Status() != StatusOpen {
		t.Errorf("expected open status, got %s", open.Status())
	}

	contained, err := NewRecord("data_breach", threat.SeverityHigh, []string{"db"}, true)
	if err != nil {
		t.Fatalf("NewRecord failed: %v", err)
	}
	if contained.Status() != StatusContained {
		t.Errorf("expected contained status, got %s", contained.Status())
	}

	if open.ID() == contained.ID() {
		t.Error("expected distinct incident IDs")
	}
}

func TestNewRecordValidation(t *testing.T) {
	if _, err := NewRecord("", threat.SeverityHigh, nil, false); !errors.Is(err, sharedErrors.ErrEmptyThreatType) {
		t.Errorf("expected ErrEmptyThreatType, got %v", err)
	}
	if _, err := NewRecord("ddos", "volcanic", nil, false); !errors.Is(err, sharedErrors.ErrInvalidSeverity) {
		t.Errorf("expected ErrInvalidSeverity, got %v", err)
	}
}

func TestStatusTransitions(t *testing.T) {
	rec, _ := NewRecord("malware", threat.SeverityMedium, []string{"web"}, false)

	if err := rec.Contain(); err != nil {
		t.Fatalf("Contain from open failed: %v", err)
	}
	if rec.Status() != StatusContained {
		t.Fatalf("expected contained, got %s", rec.Status())
	}

	// Contain is only valid from open.
	if err := rec.Contain(); !errors.Is(err, sharedErrors.ErrInvalidIncidentStatus) {
		t.Errorf("expected ErrInvalidIncidentStatus on double contain, got %v", err)
	}

	if err := rec.Resolve(); err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if err := rec.Resolve(); !errors.Is(err, sharedErrors.ErrInvalidIncidentStatus) {
		t.Errorf("expected ErrInvalidIncidentStatus on double resolve, got %v", err)
	}
}

func TestResolveFromOpen(t *testing.T) {
	rec, _ := NewRecord("phishing", threat.SeverityLow, nil, false)
	if err := rec.Resolve(); err != nil {
		t.Fatalf("Resolve from open failed: %v", err)
	}
	if rec.Status() != StatusResolved {
		t.Errorf("expected resolved, got %s", rec.Status())
	}
}

func TestAffectedAssetsReturnsCopy(t *testing.T) {
	rec, _ := NewRecord("malware", threat.SeverityMedium, []string{"web", "db"}, true)
	assets := rec.AffectedAssets()
	assets[0] = "mutated"
	if rec.AffectedAssets()[0] == "mutated" {
		t.Error("AffectedAssets should return a defensive copy")
	}
}

func TestNewRecoveryStatus(t *testing.T) {
	status, err := NewRecoveryStatus("inc-1", map[string]RecoveryState{
		"web": RecoveryStateRestored,
		"db":  RecoveryStateRestored,
	}, 45*time.Minute)
	if err != nil {
		t.Fatalf("NewRecoveryStatus failed: %v", err)
	}
	if !status.FullyRestored() {
		t.Error("expected fully restored")
	}

	status.AssetStates["db"] = RecoveryStateDegraded
	if status.FullyRestored() {
		t.Error("degraded asset should not count as fully restored")
	}

	if _, err := NewRecoveryStatus("", nil, 0); !errors.Is(err, sharedErrors.ErrInvalidData) {
		t.Errorf("expected ErrInvalidData for empty incident ID, got %v", err)
	}
}
