package json

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/khanhnv2901/csf-cli/internal/domain/run"
	sharedErrors "github.com/khanhnv2901/csf-cli/internal/shared/errors"
)

func newRunRepo(t *testing.T) *RunRepository {
	t.Helper()
	repo, err := NewRunRepository(t.TempDir())
	if err != nil {
		t.Fatalf("NewRunRepository failed: %v", err)
	}
	return repo
}

func completedSummary(t *testing.T, jurisdiction string) *run.Summary {
	t.Helper()
	summary, err := run.NewSummary(jurisdiction, "alice")
	if err != nil {
		t.Fatalf("NewSummary failed: %v", err)
	}
	for _, stage := range run.Stages() {
		if err := summary.RecordStage(run.StageResult{
			Stage:           stage,
			Outcome:         "ok",
			DurationSeconds: 0.01,
			Notes:           "done",
		}); err != nil {
			t.Fatalf("RecordStage failed: %v", err)
		}
	}
	summary.SetCounters(run.Counters{Assets: 3, Threats: 1, IncidentsOpened: 1, IncidentsResolved: 1})
	if err := summary.Complete(); err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	return summary
}

func TestSaveAndFindByID(t *testing.T) {
	repo := newRunRepo(t)
	ctx := context.Background()
	summary := completedSummary(t, "us")

	if err := repo.Save(ctx, summary); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := repo.FindByID(ctx, summary.ID())
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}

	if loaded.ID() != summary.ID() {
		t.Errorf("ID mismatch: %s vs %s", loaded.ID(), summary.ID())
	}
	if loaded.Jurisdiction() != "us" {
		t.Errorf("expected jurisdiction us, got %s", loaded.Jurisdiction())
	}
	if loaded.Status() != run.RunStatusCompleted {
		t.Errorf("expected completed, got %s", loaded.Status())
	}
	if len(loaded.Stages()) != 5 {
		t.Errorf("expected 5 stage results, got %d", len(loaded.Stages()))
	}
	if loaded.Counters() != summary.Counters() {
		t.Errorf("counters mismatch: %+v vs %+v", loaded.Counters(), summary.Counters())
	}
}

func TestFindByIDNotFound(t *testing.T) {
	repo := newRunRepo(t)
	if _, err := repo.FindByID(context.Background(), "missing"); !errors.Is(err, sharedErrors.ErrRunNotFound) {
		t.Errorf("expected ErrRunNotFound, got %v", err)
	}
}

func TestSaveFailedRunKeepsFailedStage(t *testing.T) {
	repo := newRunRepo(t)
	ctx := context.Background()

	summary, _ := run.NewSummary("china", "bob")
	_ = summary.RecordStage(run.StageResult{Stage: run.StageIdentify, Outcome: "ok"})
	_ = summary.RecordStage(run.StageResult{Stage: run.StageProtect, Outcome: "failed", Error: "enforcement timeout"})
	if err := summary.Fail(run.StageProtect); err != nil {
		t.Fatalf("Fail failed: %v", err)
	}

	if err := repo.Save(ctx, summary); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := repo.FindByID(ctx, summary.ID())
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	if loaded.Status() != run.RunStatusFailed {
		t.Errorf("expected failed, got %s", loaded.Status())
	}
	if loaded.FailedStage() != run.StageProtect {
		t.Errorf("expected failed stage protect, got %s", loaded.FailedStage())
	}
	stages := loaded.Stages()
	if len(stages) != 2 || stages[1].Error != "enforcement timeout" {
		t.Errorf("stage errors not round-tripped: %+v", stages)
	}
}

func TestListNewestFirst(t *testing.T) {
	repo := newRunRepo(t)
	ctx := context.Background()

	older := completedSummary(t, "us")
	time.Sleep(5 * time.Millisecond)
	newer := completedSummary(t, "china")

	if err := repo.Save(ctx, older); err != nil {
		t.Fatalf("Save older failed: %v", err)
	}
	if err := repo.Save(ctx, newer); err != nil {
		t.Fatalf("Save newer failed: %v", err)
	}

	summaries, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(summaries) != 2 {
		t.Fatalf("expected 2 summaries, got %d", len(summaries))
	}
	if summaries[0].ID() != newer.ID() {
		t.Errorf("expected newest run first, got %s", summaries[0].ID())
	}
}

func TestListEmpty(t *testing.T) {
	repo := newRunRepo(t)
	summaries, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(summaries) != 0 {
		t.Errorf("expected no summaries, got %d", len(summaries))
	}
}
