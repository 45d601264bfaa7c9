package run

import (
	"time"

	"github.com/google/uuid"
	sharedErrors "github.com/khanhnv2901/csf-cli/internal/shared/errors"
)

// RunStatus is the overall state of a lifecycle run.
type RunStatus string

const (
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

// StageResult captures the outcome of one executed stage.
type StageResult struct {
	Stage           Stage
	Outcome         string // "ok" or "failed"
	DurationSeconds float64
	Notes           string
	Error           string
}

// Counters aggregates what the run produced, for summaries and reports.
type Counters struct {
	Assets            int
	Threats           int
	IncidentsOpened   int
	IncidentsResolved int
}

// Summary is the aggregate root for a single lifecycle run. It owns the
// per-stage results and the terminal status; the audit trail for the run is
// keyed by its ID.
type Summary struct {
	id           string
	jurisdiction string
	operator     string
	startedAt    time.Time
	completedAt  time.Time
	status       RunStatus
	failedStage  Stage
	stages       []StageResult
	counters     Counters
}

// NewSummary starts tracking a run for the given jurisdiction and operator.
func NewSummary(jurisdiction, operator string) (*Summary, error) {
	if jurisdiction == "" {
		return nil, sharedErrors.ErrEmptyJurisdiction
	}
	if operator == "" {
		return nil, sharedErrors.ErrEmptyOperator
	}

	return &Summary{
		id:           uuid.NewString(),
		jurisdiction: jurisdiction,
		operator:     operator,
		startedAt:    time.Now().UTC(),
		status:       RunStatusRunning,
		stages:       make([]StageResult, 0, len(Stages())),
	}, nil
}

// Reconstruct creates a run summary from persisted data.
func Reconstruct(id, jurisdiction, operator string, startedAt, completedAt time.Time,
	status RunStatus, failedStage Stage, stages []StageResult, counters Counters) *Summary {
	return &Summary{
		id:           id,
		jurisdiction: jurisdiction,
		operator:     operator,
		startedAt:    startedAt,
		completedAt:  completedAt,
		status:       status,
		failedStage:  failedStage,
		stages:       stages,
		counters:     counters,
	}
}

// Business methods

// RecordStage appends the result of an executed stage.
func (s *Summary) RecordStage(result StageResult) error {
	if s.status != RunStatusRunning {
		return sharedErrors.ErrRunAlreadyEnded
	}
	if !result.Stage.Valid() {
		return sharedErrors.ErrInvalidData
	}
	s.stages = append(s.stages, result)
	return nil
}

// Complete marks the run as successfully finished.
func (s *Summary) Complete() error {
	if s.status != RunStatusRunning {
		return sharedErrors.ErrRunAlreadyEnded
	}
	s.status = RunStatusCompleted
	s.completedAt = time.Now().UTC()
	return nil
}

// Fail marks the run as aborted at the given stage.
func (s *Summary) Fail(stage Stage) error {
	if s.status != RunStatusRunning {
		return sharedErrors.ErrRunAlreadyEnded
	}
	s.status = RunStatusFailed
	s.failedStage = stage
	s.completedAt = time.Now().UTC()
	return nil
}

// SetCounters records what the run produced.
func (s *Summary) SetCounters(c Counters) {
	s.counters = c
}

// Getters

func (s *Summary) ID() string {
	return s.id
}

func (s *Summary) Jurisdiction() string {
	return s.jurisdiction
}

func (s *Summary) Operator() string {
	return s.operator
}

func (s *Summary) StartedAt() time.Time {
	return s.startedAt
}

func (s *Summary) CompletedAt() time.Time {
	return s.completedAt
}

func (s *Summary) Status() RunStatus {
	return s.status
}

func (s *Summary) FailedStage() Stage {
	return s.failedStage
}

func (s *Summary) Stages() []StageResult {
	// Return a copy to prevent external modification
	stagesCopy := make([]StageResult, len(s.stages))
	copy(stagesCopy, s.stages)
	return stagesCopy
}

func (s *Summary) Counters() Counters {
	return s.counters
}

// Duration reports wall-clock time for a finished run.
func (s *Summary) Duration() time.Duration {
	if s.completedAt.IsZero() {
		return 0
	}
	return s.completedAt.Sub(s.startedAt)
}
