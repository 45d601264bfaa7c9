// Package compliance defines the jurisdiction-agnostic capability contract
// the stage runner drives, plus the registry of supported jurisdictions.
// Concrete adapters live in subpackages and are injected at process start;
// the runner never imports them.
package compliance

import (
	"context"

	"github.com/khanhnv2901/csf-cli/internal/domain/asset"
	"github.com/khanhnv2901/csf-cli/internal/domain/incident"
	"github.com/khanhnv2901/csf-cli/internal/domain/run"
	"github.com/khanhnv2901/csf-cli/internal/domain/threat"
)

// Adapter is the capability set a jurisdiction implementation must satisfy.
// Every method reports inability to complete as an *errors.AdapterError;
// the runner treats that as fatal for the run.
type Adapter interface {
	// Jurisdiction returns the registry ID of this adapter.
	Jurisdiction() string

	// IdentifyAssets catalogs the assets in scope for the run.
	IdentifyAssets(ctx context.Context) ([]asset.Record, error)

	// ScoreRisk assigns one risk score in [0,100] per identified asset.
	ScoreRisk(ctx context.Context, assets []asset.Record) (asset.RiskScore, error)

	// ApplyProtections enforces protections over the identified assets,
	// prioritized by risk score.
	ApplyProtections(ctx context.Context, assets []asset.Record, scores asset.RiskScore) error

	// DetectThreats polls the monitoring feed for active threats.
	DetectThreats(ctx context.Context) ([]threat.Record, error)

	// Respond turns a detected threat into an incident record.
	Respond(ctx context.Context, t threat.Record) (*incident.Record, error)

	// Recover restores the assets an incident affected, resolves the
	// incident, and reports the recovery outcome.
	Recover(ctx context.Context, rec *incident.Record) (*incident.RecoveryStatus, error)

	// ManageChange runs the change-management step for a stage after its
	// automation step has completed.
	ManageChange(ctx context.Context, stage run.Stage) error
}
