package audit

import (
	"errors"
	"testing"
	"time"

	"github.com/khanhnv2901/csf-cli/internal/domain/run"
	sharedErrors "github.com/khanhnv2901/csf-cli/internal/shared/errors"
)

func TestNewTrailRequiresRunID(t *testing.T) {
	if _, err := NewTrail(""); !errors.Is(err, sharedErrors.ErrInvalidData) {
		t.Errorf("expected ErrInvalidData, got %v", err)
	}
}

func TestAppendEntry(t *testing.T) {
	trail, err := NewTrail("run-1")
	if err != nil {
		t.Fatalf("NewTrail failed: %v", err)
	}

	entry := NewEntry("run-1", run.StageIdentify, OutcomeOK, "alice")
	if err := trail.AppendEntry(entry); err != nil {
		t.Fatalf("AppendEntry failed: %v", err)
	}
	if len(trail.Entries()) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(trail.Entries()))
	}
}

func TestAppendEntryRejections(t *testing.T) {
	trail, _ := NewTrail("run-1")

	if err := trail.AppendEntry(nil); !errors.Is(err, sharedErrors.ErrInvalidData) {
		t.Errorf("nil entry: expected ErrInvalidData, got %v", err)
	}
	if err := trail.AppendEntry(NewEntry("run-other", run.StageIdentify, OutcomeOK, "alice")); !errors.Is(err, sharedErrors.ErrInvalidData) {
		t.Errorf("mismatched run ID: expected ErrInvalidData, got %v", err)
	}
	if err := trail.AppendEntry(NewEntry("run-1", "teleport", OutcomeOK, "alice")); !errors.Is(err, sharedErrors.ErrInvalidData) {
		t.Errorf("invalid stage: expected ErrInvalidData, got %v", err)
	}
}

func TestSealAndVerify(t *testing.T) {
	trail, _ := NewTrail("run-1")
	_ = trail.AppendEntry(NewEntry("run-1", run.StageIdentify, OutcomeOK, "alice"))

	if err := trail.Seal("abc123", "sha256"); err != nil {
		t.Fatalf("Seal failed: %v", err)
	}
	if !trail.IsSealed() {
		t.Fatal("expected trail to be sealed")
	}
	if !trail.VerifyIntegrity("abc123") {
		t.Error("expected matching hash to verify")
	}
	if trail.VerifyIntegrity("tampered") {
		t.Error("expected mismatched hash to fail verification")
	}

	// Sealed trails are append-only no more.
	if err := trail.AppendEntry(NewEntry("run-1", run.StageProtect, OutcomeOK, "alice")); !errors.Is(err, sharedErrors.ErrAuditTrailSealed) {
		t.Errorf("expected ErrAuditTrailSealed, got %v", err)
	}
	if err := trail.Seal("def456", "sha256"); !errors.Is(err, sharedErrors.ErrAuditTrailSealed) {
		t.Errorf("expected ErrAuditTrailSealed on double seal, got %v", err)
	}
}

func TestSealValidation(t *testing.T) {
	trail, _ := NewTrail("run-1")

	if err := trail.Seal("", "sha256"); !errors.Is(err, sharedErrors.ErrEmptyHash) {
		t.Errorf("expected ErrEmptyHash, got %v", err)
	}
	if err := trail.Seal("abc", "md5"); !errors.Is(err, sharedErrors.ErrInvalidHashAlgorithm) {
		t.Errorf("expected ErrInvalidHashAlgorithm, got %v", err)
	}
}

func TestVerifyIntegrityUnsealed(t *testing.T) {
	trail, _ := NewTrail("run-1")
	if trail.VerifyIntegrity("anything") {
		t.Error("unsealed trail should never verify")
	}
}

func TestReconstruct(t *testing.T) {
	entries := []*Entry{NewEntry("run-1", run.StageIdentify, OutcomeOK, "alice")}
	trail := Reconstruct("run-1", entries, "abc", "sha256", time.Now(), true)

	if trail.RunID() != "run-1" {
		t.Errorf("expected run-1, got %s", trail.RunID())
	}
	if !trail.IsSealed() {
		t.Error("expected reconstructed trail to be sealed")
	}
	if trail.Hash() != "abc" || trail.HashAlgorithm() != "sha256" {
		t.Errorf("hash metadata mismatch: %s/%s", trail.Hash(), trail.HashAlgorithm())
	}
}
