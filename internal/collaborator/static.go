package collaborator

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/khanhnv2901/csf-cli/internal/domain/asset"
	"github.com/khanhnv2901/csf-cli/internal/domain/incident"
	"github.com/khanhnv2901/csf-cli/internal/domain/run"
	"github.com/khanhnv2901/csf-cli/internal/domain/threat"
)

// StaticInventory serves a fixed asset list, typically loaded from the
// config file. It stands in for whatever discovery system the deployment
// actually uses.
type StaticInventory struct {
	assets []asset.Record
}

// NewStaticInventory builds an inventory over the given records.
func NewStaticInventory(assets []asset.Record) *StaticInventory {
	copied := make([]asset.Record, len(assets))
	copy(copied, assets)
	return &StaticInventory{assets: copied}
}

// Discover returns the configured assets.
func (s *StaticInventory) Discover(ctx context.Context) ([]asset.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]asset.Record, len(s.assets))
	copy(out, s.assets)
	return out, nil
}

// StaticMonitor serves a fixed threat feed, typically loaded from config.
type StaticMonitor struct {
	threats []threat.Record
}

// NewStaticMonitor builds a monitor over the given threat records.
func NewStaticMonitor(threats []threat.Record) *StaticMonitor {
	copied := make([]threat.Record, len(threats))
	copy(copied, threats)
	return &StaticMonitor{threats: copied}
}

// Poll returns the configured threats.
func (s *StaticMonitor) Poll(ctx context.Context) ([]threat.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]threat.Record, len(s.threats))
	copy(out, s.threats)
	return out, nil
}

// RecordingEnforcer records the protection actions it was asked to apply
// under a named policy profile (e.g. "zero-trust", "mlps-l3"). The actual
// enforcement system is external; what matters for the run is the ordered
// intent log.
type RecordingEnforcer struct {
	profile string

	mu      sync.Mutex
	applied []string
}

// NewRecordingEnforcer builds an enforcer for the given policy profile.
func NewRecordingEnforcer(profile string) *RecordingEnforcer {
	return &RecordingEnforcer{profile: profile}
}

// Apply records the protection intent for one asset.
func (e *RecordingEnforcer) Apply(ctx context.Context, record asset.Record, score int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.applied = append(e.applied, fmt.Sprintf("%s profile=%s score=%d", record.ID, e.profile, score))
	return nil
}

// Applied returns the ordered record of protection actions.
func (e *RecordingEnforcer) Applied() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]string, len(e.applied))
	copy(out, e.applied)
	return out
}

// LocalRecovery restores every asset affected by an incident from the
// configured backup location and reports a fixed downtime window.
type LocalRecovery struct {
	backupLocation string
	downtime       time.Duration
}

// NewLocalRecovery builds a recovery provider for the given backup location.
func NewLocalRecovery(backupLocation string, downtime time.Duration) *LocalRecovery {
	return &LocalRecovery{backupLocation: backupLocation, downtime: downtime}
}

// Restore marks every affected asset restored.
func (r *LocalRecovery) Restore(ctx context.Context, rec *incident.Record) (map[string]incident.RecoveryState, time.Duration, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}
	states := make(map[string]incident.RecoveryState)
	for _, id := range rec.AffectedAssets() {
		states[id] = incident.RecoveryStateRestored
	}
	return states, r.downtime, nil
}

// BackupLocation returns where restores are sourced from.
func (r *LocalRecovery) BackupLocation() string {
	return r.backupLocation
}

// ChannelFeedback tracks training-material distribution per stage and hands
// back collected stakeholder notes. The channel name identifies the actual
// medium (workshops, messaging platform) without binding to it.
type ChannelFeedback struct {
	channel string

	mu          sync.Mutex
	distributed []run.Stage
	collected   []string
}

// NewChannelFeedback builds a feedback channel with the given name.
func NewChannelFeedback(channel string) *ChannelFeedback {
	return &ChannelFeedback{channel: channel}
}

// Distribute records that change-management material went out for a stage.
func (f *ChannelFeedback) Distribute(ctx context.Context, stage run.Stage) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.distributed = append(f.distributed, stage)
	f.collected = append(f.collected, fmt.Sprintf("%s review acknowledged via %s", stage, f.channel))
	return nil
}

// Collect returns the stakeholder notes gathered so far.
func (f *ChannelFeedback) Collect(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.collected))
	copy(out, f.collected)
	return out, nil
}

// Distributed returns the stages material was distributed for, in order.
func (f *ChannelFeedback) Distributed() []run.Stage {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]run.Stage, len(f.distributed))
	copy(out, f.distributed)
	return out
}
