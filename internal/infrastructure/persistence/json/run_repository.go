package json

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/khanhnv2901/csf-cli/internal/domain/run"
	"github.com/khanhnv2901/csf-cli/internal/shared/constants"
	sharedErrors "github.com/khanhnv2901/csf-cli/internal/shared/errors"
	"github.com/khanhnv2901/csf-cli/internal/shared/security"
)

const runFileName = "run.json"

// runSummaryDTO is the data transfer object for JSON serialization
type runSummaryDTO struct {
	ID           string           `json:"id"`
	Jurisdiction string           `json:"jurisdiction"`
	Operator     string           `json:"operator"`
	StartedAt    time.Time        `json:"started_at"`
	CompletedAt  time.Time        `json:"completed_at,omitempty"`
	Status       string           `json:"status"`
	FailedStage  string           `json:"failed_stage,omitempty"`
	Stages       []stageResultDTO `json:"stages"`
	Counters     countersDTO      `json:"counters"`
}

type stageResultDTO struct {
	Stage           string  `json:"stage"`
	Outcome         string  `json:"outcome"`
	DurationSeconds float64 `json:"duration_seconds"`
	Notes           string  `json:"notes,omitempty"`
	Error           string  `json:"error,omitempty"`
}

type countersDTO struct {
	Assets            int `json:"assets"`
	Threats           int `json:"threats"`
	IncidentsOpened   int `json:"incidents_opened"`
	IncidentsResolved int `json:"incidents_resolved"`
}

// RunRepository implements the run.Repository interface using JSON file
// storage under results/<run-id>/run.json.
type RunRepository struct {
	resultsDir string
	mu         sync.RWMutex
}

// NewRunRepository creates a new JSON-based run summary repository
func NewRunRepository(resultsDir string) (*RunRepository, error) {
	if resultsDir == "" {
		return nil, fmt.Errorf("results directory cannot be empty")
	}

	if err := os.MkdirAll(resultsDir, constants.DefaultDirPerm); err != nil {
		return nil, fmt.Errorf("failed to create results directory: %w", err)
	}

	return &RunRepository{
		resultsDir: resultsDir,
	}, nil
}

// Save persists a run summary
func (r *RunRepository) Save(ctx context.Context, summary *run.Summary) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	filePath, err := security.ResolveWithin(r.resultsDir, summary.ID(), runFileName)
	if err != nil {
		return fmt.Errorf("resolve run path: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(filePath), constants.DefaultDirPerm); err != nil {
		return fmt.Errorf("failed to create run directory: %w", err)
	}

	data, err := json.MarshalIndent(toDTO(summary), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal run summary: %w", err)
	}

	if err := os.WriteFile(filePath, data, constants.DefaultFilePerm); err != nil {
		return fmt.Errorf("failed to save run summary: %w", err)
	}

	return nil
}

// FindByID retrieves a run summary by its run ID
func (r *RunRepository) FindByID(ctx context.Context, id string) (*run.Summary, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	filePath, err := security.ResolveWithin(r.resultsDir, id, runFileName)
	if err != nil {
		return nil, fmt.Errorf("resolve run path: %w", err)
	}
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return nil, sharedErrors.ErrRunNotFound
	}

	return loadSummary(filePath)
}

// List retrieves all persisted run summaries, newest first
func (r *RunRepository) List(ctx context.Context) ([]*run.Summary, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries, err := os.ReadDir(r.resultsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read results directory: %w", err)
	}

	var summaries []*run.Summary
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		filePath := filepath.Join(r.resultsDir, entry.Name(), runFileName)
		summary, err := loadSummary(filePath)
		if err != nil {
			continue
		}
		summaries = append(summaries, summary)
	}

	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].StartedAt().After(summaries[j].StartedAt())
	})

	return summaries, nil
}

func loadSummary(filePath string) (*run.Summary, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read run summary: %w", err)
	}

	var dto runSummaryDTO
	if err := json.Unmarshal(data, &dto); err != nil {
		return nil, fmt.Errorf("%w: %v", sharedErrors.ErrInvalidData, err)
	}

	return fromDTO(dto), nil
}

func toDTO(summary *run.Summary) runSummaryDTO {
	stages := summary.Stages()
	stageDTOs := make([]stageResultDTO, len(stages))
	for i, st := range stages {
		stageDTOs[i] = stageResultDTO{
			Stage:           st.Stage.String(),
			Outcome:         st.Outcome,
			DurationSeconds: st.DurationSeconds,
			Notes:           st.Notes,
			Error:           st.Error,
		}
	}

	counters := summary.Counters()
	return runSummaryDTO{
		ID:           summary.ID(),
		Jurisdiction: summary.Jurisdiction(),
		Operator:     summary.Operator(),
		StartedAt:    summary.StartedAt(),
		CompletedAt:  summary.CompletedAt(),
		Status:       string(summary.Status()),
		FailedStage:  summary.FailedStage().String(),
		Stages:       stageDTOs,
		Counters: countersDTO{
			Assets:            counters.Assets,
			Threats:           counters.Threats,
			IncidentsOpened:   counters.IncidentsOpened,
			IncidentsResolved: counters.IncidentsResolved,
		},
	}
}

func fromDTO(dto runSummaryDTO) *run.Summary {
	stages := make([]run.StageResult, len(dto.Stages))
	for i, st := range dto.Stages {
		stages[i] = run.StageResult{
			Stage:           run.Stage(st.Stage),
			Outcome:         st.Outcome,
			DurationSeconds: st.DurationSeconds,
			Notes:           st.Notes,
			Error:           st.Error,
		}
	}

	return run.Reconstruct(
		dto.ID,
		dto.Jurisdiction,
		dto.Operator,
		dto.StartedAt,
		dto.CompletedAt,
		run.RunStatus(dto.Status),
		run.Stage(dto.FailedStage),
		stages,
		run.Counters{
			Assets:            dto.Counters.Assets,
			Threats:           dto.Counters.Threats,
			IncidentsOpened:   dto.Counters.IncidentsOpened,
			IncidentsResolved: dto.Counters.IncidentsResolved,
		},
	)
}
