package incident

import (
	"time"

	"github.com/google/uuid"
	"github.com/khanhnv2901/csf-cli/internal/domain/threat"
	sharedErrors "github.com/khanhnv2901/csf-cli/internal/shared/errors"
)

// Status is the lifecycle state of an incident. Transitions only move
// forward: open -> contained -> resolved. Incidents are never deleted;
// they remain in the run record for the audit trail.
type Status string

const (
	StatusOpen      Status = "open"
	StatusContained Status = "contained"
	StatusResolved  Status = "resolved"
)

// Valid reports whether the status is one of the known states.
func (s Status) Valid() bool {
	switch s {
	case StatusOpen, StatusContained, StatusResolved:
		return true
	}
	return false
}

// Record represents an incident created by the Respond stage. It is the
// aggregate the Recover stage transitions to resolved.
type Record struct {
	id             string
	incidentType   string
	severity       threat.Severity
	openedAt       time.Time
	status         Status
	affectedAssets []string
}

// NewRecord opens an incident for a detected threat. contained indicates the
// response playbook already isolated the affected systems.
func NewRecord(incidentType string, severity threat.Severity, affectedAssets []string, contained bool) (*Record, error) {
	if incidentType == "" {
		return nil, sharedErrors.ErrEmptyThreatType
	}
	if !severity.Valid() {
		return nil, sharedErrors.ErrInvalidSeverity
	}

	status := StatusOpen
	if contained {
		status = StatusContained
	}

	assets := make([]string, len(affectedAssets))
	copy(assets, affectedAssets)

	return &Record{
		id:             uuid.NewString(),
		incidentType:   incidentType,
		severity:       severity,
		openedAt:       time.Now().UTC(),
		status:         status,
		affectedAssets: assets,
	}, nil
}

// Reconstruct creates an incident record from persisted data.
func Reconstruct(id, incidentType string, severity threat.Severity, openedAt time.Time, status Status, affectedAssets []string) *Record {
	return &Record{
		id:             id,
		incidentType:   incidentType,
		severity:       severity,
		openedAt:       openedAt,
		status:         status,
		affectedAssets: affectedAssets,
	}
}

// Business methods

// Contain marks an open incident as contained.
func (r *Record) Contain() error {
	if r.status != StatusOpen {
		return sharedErrors.ErrInvalidIncidentStatus
	}
	r.status = StatusContained
	return nil
}

// Resolve closes out an open or contained incident after recovery.
func (r *Record) Resolve() error {
	if r.status == StatusResolved {
		return sharedErrors.ErrInvalidIncidentStatus
	}
	r.status = StatusResolved
	return nil
}

// Getters

func (r *Record) ID() string {
	return r.id
}

func (r *Record) Type() string {
	return r.incidentType
}

func (r *Record) Severity() threat.Severity {
	return r.severity
}

func (r *Record) OpenedAt() time.Time {
	return r.openedAt
}

func (r *Record) Status() Status {
	return r.status
}

func (r *Record) AffectedAssets() []string {
	assets := make([]string, len(r.affectedAssets))
	copy(assets, r.affectedAssets)
	return assets
}
