package errors

import (
	"errors"
	"fmt"
)

// Domain errors
var (
	// Run errors
	ErrRunNotFound         = errors.New("run not found")
	ErrRunAlreadyEnded     = errors.New("run already ended")
	ErrRunNotStarted       = errors.New("run not started")
	ErrEmptyOperator       = errors.New("operator cannot be empty")
	ErrEmptyJurisdiction   = errors.New("jurisdiction cannot be empty")
	ErrUnknownJurisdiction = errors.New("unknown jurisdiction")

	// Asset / scoring errors
	ErrEmptyAssetID      = errors.New("asset ID cannot be empty")
	ErrEmptyOwner        = errors.New("asset owner cannot be empty")
	ErrDuplicateAsset    = errors.New("duplicate asset ID")
	ErrScoreOutOfRange   = errors.New("risk score out of range [0,100]")
	ErrScoreMissing      = errors.New("asset has no risk score")
	ErrScoreUnknownAsset = errors.New("risk score for unknown asset")

	// Threat / incident errors
	ErrEmptyThreatType       = errors.New("threat type cannot be empty")
	ErrInvalidSeverity       = errors.New("invalid severity")
	ErrInvalidIncidentStatus = errors.New("invalid incident status transition")

	// Audit errors
	ErrAuditTrailNotFound   = errors.New("audit trail not found")
	ErrAuditTrailSealed     = errors.New("audit trail is sealed")
	ErrAuditTrailNotSealed  = errors.New("audit trail is not sealed")
	ErrAuditIntegrityFailed = errors.New("audit integrity verification failed")
	ErrEmptyHash            = errors.New("hash cannot be empty")
	ErrInvalidHashAlgorithm = errors.New("unsupported hash algorithm")

	// Repository errors
	ErrRepositoryOperation = errors.New("repository operation failed")
	ErrInvalidData         = errors.New("invalid data")
)

// AdapterError reports a compliance adapter capability that could not
// complete: a collaborator call failed or returned invalid data. Stage names
// the lifecycle phase the capability serves.
type AdapterError struct {
	Stage  string
	Reason string
	Err    error
}

func (e *AdapterError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("adapter error at %s: %s: %v", e.Stage, e.Reason, e.Err)
	}
	return fmt.Sprintf("adapter error at %s: %s", e.Stage, e.Reason)
}

func (e *AdapterError) Unwrap() error {
	return e.Err
}

// NewAdapterError wraps a collaborator failure for a given stage.
func NewAdapterError(stage, reason string, err error) *AdapterError {
	return &AdapterError{Stage: stage, Reason: reason, Err: err}
}

// StageFailure marks the stage at which a lifecycle run was aborted.
// The cause is surfaced unmodified; no partial run is reported as successful.
type StageFailure struct {
	Stage string
	Cause error
}

func (e *StageFailure) Error() string {
	return fmt.Sprintf("stage %s failed: %v", e.Stage, e.Cause)
}

func (e *StageFailure) Unwrap() error {
	return e.Cause
}

// NewStageFailure records the failing stage and its cause.
func NewStageFailure(stage string, cause error) *StageFailure {
	return &StageFailure{Stage: stage, Cause: cause}
}
