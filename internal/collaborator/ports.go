// Package collaborator defines the ports for the external systems a
// jurisdiction adapter delegates to: asset discovery, risk scoring, policy
// enforcement, threat monitoring, regulator notification, backup recovery,
// and the stakeholder feedback channel. Their wire protocols are opaque to
// this tool; adapters only see these interfaces.
package collaborator

import (
	"context"
	"time"

	"github.com/khanhnv2901/csf-cli/internal/domain/asset"
	"github.com/khanhnv2901/csf-cli/internal/domain/incident"
	"github.com/khanhnv2901/csf-cli/internal/domain/run"
	"github.com/khanhnv2901/csf-cli/internal/domain/threat"
)

// AssetInventory discovers the assets in scope for a run.
type AssetInventory interface {
	Discover(ctx context.Context) ([]asset.Record, error)
}

// RiskScorer assigns a risk score in [0,100] to each identified asset.
type RiskScorer interface {
	Score(ctx context.Context, assets []asset.Record) (asset.RiskScore, error)
}

// PolicyEnforcer applies protections (patching, encryption, access control)
// to a single asset, prioritized by its risk score.
type PolicyEnforcer interface {
	Apply(ctx context.Context, record asset.Record, score int) error
}

// ThreatMonitor polls the monitoring feed for active threats.
type ThreatMonitor interface {
	Poll(ctx context.Context) ([]threat.Record, error)
}

// IncidentReporter notifies the jurisdiction's authority of an incident.
type IncidentReporter interface {
	Notify(ctx context.Context, rec *incident.Record) error
}

// RecoveryProvider restores the assets affected by an incident and reports
// per-asset recovery states plus the observed downtime.
type RecoveryProvider interface {
	Restore(ctx context.Context, rec *incident.Record) (map[string]incident.RecoveryState, time.Duration, error)
}

// FeedbackChannel carries the change-management half of each stage:
// distributing training or policy material and collecting stakeholder
// feedback.
type FeedbackChannel interface {
	Distribute(ctx context.Context, stage run.Stage) error
	Collect(ctx context.Context) ([]string, error)
}
