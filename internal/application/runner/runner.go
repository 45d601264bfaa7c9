// Package runner sequences the five CSF lifecycle stages against a
// compliance adapter, threading each stage's output into the next and
// appending one audit entry per stage.
package runner

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/khanhnv2901/csf-cli/internal/compliance"
	"github.com/khanhnv2901/csf-cli/internal/domain/asset"
	"github.com/khanhnv2901/csf-cli/internal/domain/audit"
	"github.com/khanhnv2901/csf-cli/internal/domain/incident"
	"github.com/khanhnv2901/csf-cli/internal/domain/run"
	"github.com/khanhnv2901/csf-cli/internal/domain/threat"
	sharedErrors "github.com/khanhnv2901/csf-cli/internal/shared/errors"
)

// StageRunner executes the lifecycle strictly in order. Each stage's
// automation step must complete before its change-management step, and each
// stage must complete before the next begins. Any adapter error aborts the
// run wrapped in a StageFailure; no partial run is reported as successful.
type StageRunner struct {
	auditRepo audit.Repository
	runRepo   run.Repository
	logger    *zap.SugaredLogger
}

// NewStageRunner creates a stage runner over the given repositories.
func NewStageRunner(auditRepo audit.Repository, runRepo run.Repository, logger *zap.SugaredLogger) *StageRunner {
	return &StageRunner{
		auditRepo: auditRepo,
		runRepo:   runRepo,
		logger:    logger,
	}
}

// runState carries the artifacts threaded from one stage to the next.
type runState struct {
	assets     []asset.Record
	scores     asset.RiskScore
	threats    []threat.Record
	incidents  []*incident.Record
	recoveries []*incident.RecoveryStatus
}

// Run drives the full lifecycle for one adapter. The returned summary is
// always non-nil once the run has started, so callers can report the audit
// trail even for failed runs.
func (r *StageRunner) Run(ctx context.Context, adapter compliance.Adapter, operator string) (*run.Summary, error) {
	summary, err := run.NewSummary(adapter.Jurisdiction(), operator)
	if err != nil {
		return nil, fmt.Errorf("start run: %w", err)
	}

	r.logger.Infow("lifecycle run started", "run", summary.ID(), "jurisdiction", summary.Jurisdiction(), "operator", operator)

	state := &runState{}
	stageFns := map[run.Stage]func(context.Context) (string, error){
		run.StageIdentify: func(ctx context.Context) (string, error) { return r.identify(ctx, adapter, state) },
		run.StageProtect:  func(ctx context.Context) (string, error) { return r.protect(ctx, adapter, state) },
		run.StageDetect:   func(ctx context.Context) (string, error) { return r.detect(ctx, adapter, state) },
		run.StageRespond:  func(ctx context.Context) (string, error) { return r.respond(ctx, adapter, state) },
		run.StageRecover:  func(ctx context.Context) (string, error) { return r.recover(ctx, adapter, state) },
	}

	for _, stage := range run.Stages() {
		started := time.Now()

		notes, err := stageFns[stage](ctx)
		if err == nil {
			// Automation succeeded; run the change-management step.
			err = adapter.ManageChange(ctx, stage)
		}
		elapsed := time.Since(started).Seconds()

		if err != nil {
			failure := sharedErrors.NewStageFailure(stage.String(), err)
			r.logger.Errorw("stage failed", "run", summary.ID(), "stage", stage, "error", err)

			if auditErr := r.appendEntry(ctx, summary, stage, audit.OutcomeFailed, notes, err.Error(), elapsed); auditErr != nil {
				r.logger.Errorw("audit entry append failed", "run", summary.ID(), "stage", stage, "error", auditErr)
			}
			_ = summary.RecordStage(run.StageResult{
				Stage:           stage,
				Outcome:         audit.OutcomeFailed,
				DurationSeconds: elapsed,
				Notes:           notes,
				Error:           err.Error(),
			})
			if failErr := summary.Fail(stage); failErr != nil {
				r.logger.Errorw("run state transition failed", "run", summary.ID(), "error", failErr)
			}
			state.fillCounters(summary)
			if saveErr := r.runRepo.Save(ctx, summary); saveErr != nil {
				r.logger.Errorw("run summary save failed", "run", summary.ID(), "error", saveErr)
			}
			return summary, failure
		}

		if auditErr := r.appendEntry(ctx, summary, stage, audit.OutcomeOK, notes, "", elapsed); auditErr != nil {
			return summary, fmt.Errorf("record audit entry for %s: %w", stage, auditErr)
		}
		if recErr := summary.RecordStage(run.StageResult{
			Stage:           stage,
			Outcome:         audit.OutcomeOK,
			DurationSeconds: elapsed,
			Notes:           notes,
		}); recErr != nil {
			return summary, fmt.Errorf("record stage result for %s: %w", stage, recErr)
		}

		r.logger.Infow("stage completed", "run", summary.ID(), "stage", stage, "notes", notes)
	}

	state.fillCounters(summary)
	if err := summary.Complete(); err != nil {
		return summary, fmt.Errorf("complete run: %w", err)
	}
	if err := r.runRepo.Save(ctx, summary); err != nil {
		return summary, fmt.Errorf("save run summary: %w", err)
	}

	r.logger.Infow("lifecycle run completed", "run", summary.ID(), "duration", summary.Duration())
	return summary, nil
}

func (r *StageRunner) appendEntry(ctx context.Context, summary *run.Summary, stage run.Stage, outcome, notes, errMsg string, elapsed float64) error {
	entry := audit.NewEntry(summary.ID(), stage, outcome, summary.Operator())
	entry.Notes = notes
	entry.Error = errMsg
	entry.DurationSeconds = elapsed
	return r.auditRepo.AppendEntry(ctx, summary.ID(), entry)
}

// identify catalogs assets and scores them; the score mapping must carry
// exactly one in-range score per asset before the run may proceed.
func (r *StageRunner) identify(ctx context.Context, adapter compliance.Adapter, state *runState) (string, error) {
	assets, err := adapter.IdentifyAssets(ctx)
	if err != nil {
		return "", err
	}

	seen := make(map[string]struct{}, len(assets))
	for _, rec := range assets {
		if _, dup := seen[rec.ID]; dup {
			return "", sharedErrors.NewAdapterError(run.StageIdentify.String(), "inventory returned duplicate asset", fmt.Errorf("%w: %s", sharedErrors.ErrDuplicateAsset, rec.ID))
		}
		seen[rec.ID] = struct{}{}
	}

	scores, err := adapter.ScoreRisk(ctx, assets)
	if err != nil {
		return "", err
	}
	if err := scores.Validate(assets); err != nil {
		return "", sharedErrors.NewAdapterError(run.StageIdentify.String(), "risk scores invalid", err)
	}

	state.assets = assets
	state.scores = scores
	return fmt.Sprintf("assets=%d scored=%d", len(assets), len(scores)), nil
}

func (r *StageRunner) protect(ctx context.Context, adapter compliance.Adapter, state *runState) (string, error) {
	if err := adapter.ApplyProtections(ctx, state.assets, state.scores); err != nil {
		return "", err
	}
	return fmt.Sprintf("protected=%d", len(state.assets)), nil
}

func (r *StageRunner) detect(ctx context.Context, adapter compliance.Adapter, state *runState) (string, error) {
	threats, err := adapter.DetectThreats(ctx)
	if err != nil {
		return "", err
	}
	state.threats = threats
	return fmt.Sprintf("threats=%d", len(threats)), nil
}

func (r *StageRunner) respond(ctx context.Context, adapter compliance.Adapter, state *runState) (string, error) {
	incidents := make([]*incident.Record, 0, len(state.threats))
	for _, t := range state.threats {
		rec, err := adapter.Respond(ctx, t)
		if err != nil {
			return fmt.Sprintf("incidents=%d", len(incidents)), err
		}
		if rec.Status() != incident.StatusOpen && rec.Status() != incident.StatusContained {
			return fmt.Sprintf("incidents=%d", len(incidents)),
				sharedErrors.NewAdapterError(run.StageRespond.String(), "incident in unexpected state "+string(rec.Status()), sharedErrors.ErrInvalidIncidentStatus)
		}
		incidents = append(incidents, rec)
	}
	state.incidents = incidents
	return fmt.Sprintf("incidents=%d", len(incidents)), nil
}

func (r *StageRunner) recover(ctx context.Context, adapter compliance.Adapter, state *runState) (string, error) {
	recoveries := make([]*incident.RecoveryStatus, 0, len(state.incidents))
	for _, rec := range state.incidents {
		status, err := adapter.Recover(ctx, rec)
		if err != nil {
			return fmt.Sprintf("resolved=%d", len(recoveries)), err
		}
		if status.IncidentID != rec.ID() {
			return fmt.Sprintf("resolved=%d", len(recoveries)),
				sharedErrors.NewAdapterError(run.StageRecover.String(), "recovery status references wrong incident", sharedErrors.ErrInvalidData)
		}
		recoveries = append(recoveries, status)
	}
	state.recoveries = recoveries
	return fmt.Sprintf("resolved=%d", len(recoveries)), nil
}

func (s *runState) fillCounters(summary *run.Summary) {
	resolved := 0
	for _, rec := range s.incidents {
		if rec.Status() == incident.StatusResolved {
			resolved++
		}
	}
	summary.SetCounters(run.Counters{
		Assets:            len(s.assets),
		Threats:           len(s.threats),
		IncidentsOpened:   len(s.incidents),
		IncidentsResolved: resolved,
	})
}
