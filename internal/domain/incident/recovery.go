package incident

import (
	"time"

	sharedErrors "github.com/khanhnv2901/csf-cli/internal/shared/errors"
)

// RecoveryState is the per-asset outcome of the Recover stage.
type RecoveryState string

const (
	RecoveryStateRestored RecoveryState = "restored"
	RecoveryStateDegraded RecoveryState = "degraded"
	RecoveryStateFailed   RecoveryState = "failed"
)

// RecoveryStatus is the terminal artifact of a run for one incident: which
// assets came back, and how long they were down.
type RecoveryStatus struct {
	IncidentID  string
	AssetStates map[string]RecoveryState
	Downtime    time.Duration
	CompletedAt time.Time
}

// NewRecoveryStatus builds the recovery outcome for an incident.
func NewRecoveryStatus(incidentID string, states map[string]RecoveryState, downtime time.Duration) (*RecoveryStatus, error) {
	if incidentID == "" {
		return nil, sharedErrors.ErrInvalidData
	}

	copied := make(map[string]RecoveryState, len(states))
	for id, st := range states {
		copied[id] = st
	}

	return &RecoveryStatus{
		IncidentID:  incidentID,
		AssetStates: copied,
		Downtime:    downtime,
		CompletedAt: time.Now().UTC(),
	}, nil
}

// FullyRestored reports whether every tracked asset recovered cleanly.
func (rs *RecoveryStatus) FullyRestored() bool {
	for _, st := range rs.AssetStates {
		if st != RecoveryStateRestored {
			return false
		}
	}
	return true
}
