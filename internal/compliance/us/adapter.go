// Package us implements the compliance adapter for United States
// deployments: SP 800-53/CMMC-aligned inventory and scoring, zero-trust
// protection enforcement, SOAR-style containment on response, and
// cloud-based disaster recovery.
package us

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"github.com/khanhnv2901/csf-cli/internal/collaborator"
	"github.com/khanhnv2901/csf-cli/internal/compliance"
	"github.com/khanhnv2901/csf-cli/internal/domain/asset"
	"github.com/khanhnv2901/csf-cli/internal/domain/incident"
	"github.com/khanhnv2901/csf-cli/internal/domain/run"
	"github.com/khanhnv2901/csf-cli/internal/domain/threat"
	sharedErrors "github.com/khanhnv2901/csf-cli/internal/shared/errors"
)

// Adapter wires the US collaborator set behind the capability contract.
type Adapter struct {
	inventory collaborator.AssetInventory
	scorer    collaborator.RiskScorer
	enforcer  collaborator.PolicyEnforcer
	monitor   collaborator.ThreatMonitor
	reporter  collaborator.IncidentReporter
	recovery  collaborator.RecoveryProvider
	feedback  collaborator.FeedbackChannel
	logger    *zap.SugaredLogger
}

// NewAdapter builds the US adapter over the given collaborators.
func NewAdapter(
	inventory collaborator.AssetInventory,
	scorer collaborator.RiskScorer,
	enforcer collaborator.PolicyEnforcer,
	monitor collaborator.ThreatMonitor,
	reporter collaborator.IncidentReporter,
	recovery collaborator.RecoveryProvider,
	feedback collaborator.FeedbackChannel,
	logger *zap.SugaredLogger,
) *Adapter {
	return &Adapter{
		inventory: inventory,
		scorer:    scorer,
		enforcer:  enforcer,
		monitor:   monitor,
		reporter:  reporter,
		recovery:  recovery,
		feedback:  feedback,
		logger:    logger,
	}
}

// Jurisdiction returns the registry ID of this adapter.
func (a *Adapter) Jurisdiction() string {
	return compliance.JurisdictionUS
}

// IdentifyAssets catalogs assets from the discovery source.
func (a *Adapter) IdentifyAssets(ctx context.Context) ([]asset.Record, error) {
	assets, err := a.inventory.Discover(ctx)
	if err != nil {
		return nil, sharedErrors.NewAdapterError(run.StageIdentify.String(), "asset discovery failed", err)
	}
	a.logger.Infow("asset inventory cataloged", "count", len(assets))
	return assets, nil
}

// ScoreRisk assigns risk scores to the identified assets.
func (a *Adapter) ScoreRisk(ctx context.Context, assets []asset.Record) (asset.RiskScore, error) {
	scores, err := a.scorer.Score(ctx, assets)
	if err != nil {
		return nil, sharedErrors.NewAdapterError(run.StageIdentify.String(), "risk scoring failed", err)
	}
	return scores, nil
}

// ApplyProtections enforces zero-trust protections, highest risk first.
func (a *Adapter) ApplyProtections(ctx context.Context, assets []asset.Record, scores asset.RiskScore) error {
	prioritized := make([]asset.Record, len(assets))
	copy(prioritized, assets)
	sort.SliceStable(prioritized, func(i, j int) bool {
		return scores[prioritized[i].ID] > scores[prioritized[j].ID]
	})

	for _, rec := range prioritized {
		if err := a.enforcer.Apply(ctx, rec, scores[rec.ID]); err != nil {
			return sharedErrors.NewAdapterError(run.StageProtect.String(), "protection enforcement failed for "+rec.ID, err)
		}
	}
	a.logger.Infow("protections applied", "assets", len(prioritized))
	return nil
}

// DetectThreats polls the monitoring feed.
func (a *Adapter) DetectThreats(ctx context.Context) ([]threat.Record, error) {
	threats, err := a.monitor.Poll(ctx)
	if err != nil {
		return nil, sharedErrors.NewAdapterError(run.StageDetect.String(), "threat monitoring failed", err)
	}
	if len(threats) > 0 {
		a.logger.Warnw("threats detected", "count", len(threats))
	}
	return threats, nil
}

// Respond runs SOAR-style containment: the playbook isolates affected
// systems immediately, so incidents open in the contained state. High and
// critical incidents are additionally reported to the authority.
func (a *Adapter) Respond(ctx context.Context, t threat.Record) (*incident.Record, error) {
	rec, err := incident.NewRecord(t.Type, t.Severity, t.AffectedAssets, true)
	if err != nil {
		return nil, sharedErrors.NewAdapterError(run.StageRespond.String(), "incident creation failed", err)
	}

	if t.Severity.Rank() >= threat.SeverityHigh.Rank() {
		if err := a.reporter.Notify(ctx, rec); err != nil {
			return nil, sharedErrors.NewAdapterError(run.StageRespond.String(), "authority notification failed", err)
		}
	}

	a.logger.Warnw("incident contained", "incident", rec.ID(), "type", rec.Type(), "severity", rec.Severity())
	return rec, nil
}

// Recover restores affected assets via cloud disaster recovery and resolves
// the incident.
func (a *Adapter) Recover(ctx context.Context, rec *incident.Record) (*incident.RecoveryStatus, error) {
	states, downtime, err := a.recovery.Restore(ctx, rec)
	if err != nil {
		return nil, sharedErrors.NewAdapterError(run.StageRecover.String(), "recovery failed for incident "+rec.ID(), err)
	}

	if err := rec.Resolve(); err != nil {
		return nil, sharedErrors.NewAdapterError(run.StageRecover.String(), "incident resolution failed", err)
	}

	status, err := incident.NewRecoveryStatus(rec.ID(), states, downtime)
	if err != nil {
		return nil, sharedErrors.NewAdapterError(run.StageRecover.String(), "recovery status invalid", err)
	}

	a.logger.Infow("incident recovered", "incident", rec.ID(), "downtime", downtime)
	return status, nil
}

// ManageChange distributes stage material to stakeholders: risk workshops
// after Identify, upskilling after Protect, exercise reports after Detect
// and Respond, post-incident reviews after Recover.
func (a *Adapter) ManageChange(ctx context.Context, stage run.Stage) error {
	if err := a.feedback.Distribute(ctx, stage); err != nil {
		return sharedErrors.NewAdapterError(stage.String(), "change management distribution failed", err)
	}
	return nil
}
