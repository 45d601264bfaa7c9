package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/khanhnv2901/csf-cli/internal/domain/run"
	consts "github.com/khanhnv2901/csf-cli/internal/shared/constants"
)

type telemetryRecord struct {
	Timestamp         time.Time `json:"timestamp"`
	RunID             string    `json:"run_id"`
	Jurisdiction      string    `json:"jurisdiction"`
	Status            string    `json:"status"`
	FailedStage       string    `json:"failed_stage,omitempty"`
	StagesCompleted   int       `json:"stages_completed"`
	Assets            int       `json:"assets"`
	Threats           int       `json:"threats"`
	IncidentsOpened   int       `json:"incidents_opened"`
	IncidentsResolved int       `json:"incidents_resolved"`
	DurationSeconds   float64   `json:"duration_seconds"`
}

func recordTelemetry(resultsDir string, summary *run.Summary, duration time.Duration) error {
	completed := 0
	for _, st := range summary.Stages() {
		if st.Outcome == "ok" {
			completed++
		}
	}

	c := summary.Counters()
	record := telemetryRecord{
		Timestamp:         time.Now().UTC(),
		RunID:             summary.ID(),
		Jurisdiction:      summary.Jurisdiction(),
		Status:            string(summary.Status()),
		FailedStage:       summary.FailedStage().String(),
		StagesCompleted:   completed,
		Assets:            c.Assets,
		Threats:           c.Threats,
		IncidentsOpened:   c.IncidentsOpened,
		IncidentsResolved: c.IncidentsResolved,
		DurationSeconds:   duration.Seconds(),
	}

	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal telemetry: %w", err)
	}

	telemetryPath := filepath.Join(resultsDir, "telemetry.jsonl")
	f, err := os.OpenFile(telemetryPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, consts.DefaultFilePerm)
	if err != nil {
		return fmt.Errorf("open telemetry file: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("write telemetry: %w", err)
	}

	return nil
}
