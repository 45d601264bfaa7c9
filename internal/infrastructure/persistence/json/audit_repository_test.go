package json

import (
	"context"
	"encoding/csv"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/khanhnv2901/csf-cli/internal/domain/audit"
	"github.com/khanhnv2901/csf-cli/internal/domain/run"
	sharedErrors "github.com/khanhnv2901/csf-cli/internal/shared/errors"
)

func newAuditRepo(t *testing.T) *AuditRepository {
	t.Helper()
	repo, err := NewAuditRepository(t.TempDir())
	if err != nil {
		t.Fatalf("NewAuditRepository failed: %v", err)
	}
	return repo
}

func sampleEntry(runID string, stage run.Stage) *audit.Entry {
	entry := audit.NewEntry(runID, stage, audit.OutcomeOK, "alice")
	entry.Notes = "assets=3 scored=3"
	entry.DurationSeconds = 0.042
	return entry
}

func TestNewAuditRepositoryRequiresDir(t *testing.T) {
	if _, err := NewAuditRepository(""); err == nil {
		t.Error("expected error for empty results directory")
	}
}

func TestAppendEntryAndFindByRunID(t *testing.T) {
	repo := newAuditRepo(t)
	ctx := context.Background()

	for _, stage := range run.Stages() {
		if err := repo.AppendEntry(ctx, "run-1", sampleEntry("run-1", stage)); err != nil {
			t.Fatalf("AppendEntry(%s) failed: %v", stage, err)
		}
	}

	trail, err := repo.FindByRunID(ctx, "run-1")
	if err != nil {
		t.Fatalf("FindByRunID failed: %v", err)
	}

	entries := trail.Entries()
	if len(entries) != 5 {
		t.Fatalf("expected 5 entries, got %d", len(entries))
	}
	for i, stage := range run.Stages() {
		if entries[i].Stage != stage {
			t.Errorf("entry %d: expected stage %s, got %s", i, stage, entries[i].Stage)
		}
	}
	if entries[0].Notes != "assets=3 scored=3" {
		t.Errorf("notes not round-tripped: %q", entries[0].Notes)
	}
	if entries[0].Operator != "alice" {
		t.Errorf("operator not round-tripped: %q", entries[0].Operator)
	}
}

func TestFindByRunIDNotFound(t *testing.T) {
	repo := newAuditRepo(t)
	if _, err := repo.FindByRunID(context.Background(), "missing"); !errors.Is(err, sharedErrors.ErrAuditTrailNotFound) {
		t.Errorf("expected ErrAuditTrailNotFound, got %v", err)
	}
}

func TestSealAndVerifyIntegrity(t *testing.T) {
	repo := newAuditRepo(t)
	ctx := context.Background()

	if err := repo.AppendEntry(ctx, "run-1", sampleEntry("run-1", run.StageIdentify)); err != nil {
		t.Fatalf("AppendEntry failed: %v", err)
	}

	hash, err := repo.ComputeHash(ctx, "run-1", "sha256")
	if err != nil {
		t.Fatalf("ComputeHash failed: %v", err)
	}
	if hash == "" {
		t.Fatal("expected non-empty hash")
	}

	trail, err := repo.FindByRunID(ctx, "run-1")
	if err != nil {
		t.Fatalf("FindByRunID failed: %v", err)
	}
	if err := trail.Seal(hash, "sha256"); err != nil {
		t.Fatalf("Seal failed: %v", err)
	}
	if err := repo.Save(ctx, trail); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	ok, err := repo.VerifyIntegrity(ctx, "run-1")
	if err != nil {
		t.Fatalf("VerifyIntegrity failed: %v", err)
	}
	if !ok {
		t.Error("expected sealed trail to verify")
	}

	// The sealed trail must survive a reload with its metadata intact.
	reloaded, err := repo.FindByRunID(ctx, "run-1")
	if err != nil {
		t.Fatalf("FindByRunID after seal failed: %v", err)
	}
	if !reloaded.IsSealed() {
		t.Error("expected reloaded trail to be sealed")
	}
	if reloaded.Hash() != hash {
		t.Errorf("expected hash %s, got %s", hash, reloaded.Hash())
	}
}

func TestAppendEntryRejectedAfterSeal(t *testing.T) {
	repo := newAuditRepo(t)
	ctx := context.Background()

	if err := repo.AppendEntry(ctx, "run-1", sampleEntry("run-1", run.StageIdentify)); err != nil {
		t.Fatalf("AppendEntry failed: %v", err)
	}
	hash, err := repo.ComputeHash(ctx, "run-1", "sha256")
	if err != nil {
		t.Fatalf("ComputeHash failed: %v", err)
	}
	trail, _ := repo.FindByRunID(ctx, "run-1")
	if err := trail.Seal(hash, "sha256"); err != nil {
		t.Fatalf("Seal failed: %v", err)
	}
	if err := repo.Save(ctx, trail); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	err = repo.AppendEntry(ctx, "run-1", sampleEntry("run-1", run.StageProtect))
	if !errors.Is(err, sharedErrors.ErrAuditTrailSealed) {
		t.Errorf("expected ErrAuditTrailSealed, got %v", err)
	}
}

func TestVerifyIntegrityUnsealed(t *testing.T) {
	repo := newAuditRepo(t)
	ctx := context.Background()

	if err := repo.AppendEntry(ctx, "run-1", sampleEntry("run-1", run.StageIdentify)); err != nil {
		t.Fatalf("AppendEntry failed: %v", err)
	}

	if _, err := repo.VerifyIntegrity(ctx, "run-1"); !errors.Is(err, sharedErrors.ErrAuditTrailNotSealed) {
		t.Errorf("expected ErrAuditTrailNotSealed, got %v", err)
	}
}

func TestVerifyIntegrityDetectsTampering(t *testing.T) {
	repo := newAuditRepo(t)
	ctx := context.Background()

	if err := repo.AppendEntry(ctx, "run-1", sampleEntry("run-1", run.StageIdentify)); err != nil {
		t.Fatalf("AppendEntry failed: %v", err)
	}
	hash, _ := repo.ComputeHash(ctx, "run-1", "sha256")
	trail, _ := repo.FindByRunID(ctx, "run-1")
	_ = trail.Seal(hash, "sha256")
	if err := repo.Save(ctx, trail); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	// Tamper by appending directly to the file, bypassing the seal check.
	filePath, err := repo.auditPath("run-1")
	if err != nil {
		t.Fatalf("auditPath failed: %v", err)
	}
	tampered := sampleEntry("run-1", run.StageRecover)
	tampered.Timestamp = time.Now().UTC()
	appendRaw(t, filePath, entryToRecord(tampered))

	ok, err := repo.VerifyIntegrity(ctx, "run-1")
	if err != nil {
		t.Fatalf("VerifyIntegrity failed: %v", err)
	}
	if ok {
		t.Error("expected tampered trail to fail verification")
	}
}

func appendRaw(t *testing.T, filePath string, record []string) {
	t.Helper()
	f, err := os.OpenFile(filePath, os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		t.Fatalf("open audit file: %v", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(record); err != nil {
		t.Fatalf("write record: %v", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		t.Fatalf("flush record: %v", err)
	}
}

func TestComputeHashRejectsUnknownAlgorithm(t *testing.T) {
	repo := newAuditRepo(t)
	ctx := context.Background()

	if err := repo.AppendEntry(ctx, "run-1", sampleEntry("run-1", run.StageIdentify)); err != nil {
		t.Fatalf("AppendEntry failed: %v", err)
	}
	if _, err := repo.ComputeHash(ctx, "run-1", "md5"); !errors.Is(err, sharedErrors.ErrInvalidHashAlgorithm) {
		t.Errorf("expected ErrInvalidHashAlgorithm, got %v", err)
	}
}

func TestAuditPathRejectsTraversal(t *testing.T) {
	repo := newAuditRepo(t)
	if err := repo.AppendEntry(context.Background(), "../escape", sampleEntry("../escape", run.StageIdentify)); err == nil {
		t.Error("expected traversal run ID to be rejected")
	}
}
