// Package china implements the compliance adapter for China deployments:
// data-localization-aware inventory, MLPS 2.0 protection levels, mandatory
// CAC incident notification before containment, and recovery from localized
// backups.
package china

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

// Adapter wires the China collaborator set behind the capability contract.
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

// NewAdapter builds the China adapter over the given collaborators.
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
	return compliance.JurisdictionChina
}

// IdentifyAssets catalogs assets under data-localization rules; every
// record must carry an owner and a protection classification before the
// run proceeds.
func (a *Adapter) IdentifyAssets(ctx context.Context) ([]asset.Record, error) {
	assets, err := a.inventory.Discover(ctx)
	if err != nil {
		return nil, sharedErrors.NewAdapterError(run.StageIdentify.String(), "localized asset scan failed", err)
	}

	for _, rec := range assets {
		if !rec.Classification.Valid() {
			return nil, sharedErrors.NewAdapterError(run.StageIdentify.String(), "asset missing protection level: "+rec.ID, sharedErrors.ErrInvalidData)
		}
	}

	a.logger.Infow("localized assets cataloged", "count", len(assets))
	return assets, nil
}

// ScoreRisk assigns risk scores aligned with MLPS protection levels.
func (a *Adapter) ScoreRisk(ctx context.Context, assets []asset.Record) (asset.RiskScore, error) {
	scores, err := a.scorer.Score(ctx, assets)
	if err != nil {
		return nil, sharedErrors.NewAdapterError(run.StageIdentify.String(), "risk scoring failed", err)
	}
	return scores, nil
}

// ApplyProtections enforces hierarchical access controls and encryption,
// highest protection tier first.
func (a *Adapter) ApplyProtections(ctx context.Context, assets []asset.Record, scores asset.RiskScore) error {
	prioritized := make([]asset.Record, len(assets))
	copy(prioritized, assets)
	sort.SliceStable(prioritized, func(i, j int) bool {
		return scores[prioritized[i].ID] > scores[prioritized[j].ID]
	})

	for _, rec := range prioritized {
		if err := a.enforcer.Apply(ctx, rec, scores[rec.ID]); err != nil {
			return sharedErrors.NewAdapterError(run.StageProtect.String(), "hierarchical control enforcement failed for "+rec.ID, err)
		}
	}
	a.logger.Infow("hierarchical protections applied", "assets", len(prioritized))
	return nil
}

// DetectThreats polls the approved monitoring feed.
func (a *Adapter) DetectThreats(ctx context.Context) ([]threat.Record, error) {
	threats, err := a.monitor.Poll(ctx)
	if err != nil {
		return nil, sharedErrors.NewAdapterError(run.StageDetect.String(), "approved monitoring failed", err)
	}
	if len(threats) > 0 {
		a.logger.Warnw("threats detected", "count", len(threats))
	}
	return threats, nil
}

// Respond notifies the authority about every incident before any local
// action; containment follows once the notification is accepted. Incidents
// therefore open in the open state and are contained afterwards.
func (a *Adapter) Respond(ctx context.Context, t threat.Record) (*incident.Record, error) {
	rec, err := incident.NewRecord(t.Type, t.Severity, t.AffectedAssets, false)
	if err != nil {
		return nil, sharedErrors.NewAdapterError(run.StageRespond.String(), "incident creation failed", err)
	}

	// Notification is mandatory regardless of severity.
	if err := a.reporter.Notify(ctx, rec); err != nil {
		return nil, sharedErrors.NewAdapterError(run.StageRespond.String(), "authority notification failed", err)
	}

	if err := rec.Contain(); err != nil {
		return nil, sharedErrors.NewAdapterError(run.StageRespond.String(), "containment failed", err)
	}

	a.logger.Warnw("incident reported and contained", "incident", rec.ID(), "type", rec.Type(), "severity", rec.Severity())
	return rec, nil
}

// Recover restores affected assets from localized backups and resolves the
// incident.
func (a *Adapter) Recover(ctx context.Context, rec *incident.Record) (*incident.RecoveryStatus, error) {
	states, downtime, err := a.recovery.Restore(ctx, rec)
	if err != nil {
		return nil, sharedErrors.NewAdapterError(run.StageRecover.String(), "localized restore failed for incident "+rec.ID(), err)
	}

	if err := rec.Resolve(); err != nil {
		return nil, sharedErrors.NewAdapterError(run.StageRecover.String(), "incident resolution failed", err)
	}

	status, err := incident.NewRecoveryStatus(rec.ID(), states, downtime)
	if err != nil {
		return nil, sharedErrors.NewAdapterError(run.StageRecover.String(), "recovery status invalid", err)
	}

	a.logger.Infow("incident recovered from localized backup", "incident", rec.ID(), "downtime", downtime)
	return status, nil
}

// ManageChange distributes stage material through the configured channel
// and gathers stakeholder acknowledgements.
func (a *Adapter) ManageChange(ctx context.Context, stage run.Stage) error {
	if err := a.feedback.Distribute(ctx, stage); err != nil {
		return sharedErrors.NewAdapterError(stage.String(), "change management distribution failed", err)
	}
	return nil
}
