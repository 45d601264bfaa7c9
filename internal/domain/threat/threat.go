package threat

import (
	"sort"
	"time"

	sharedErrors "github.com/khanhnv2901/csf-cli/internal/shared/errors"
)

// Severity grades a threat or incident.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Valid reports whether the severity is one of the known grades.
func (s Severity) Valid() bool {
	switch s {
	case SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical:
		return true
	}
	return false
}

// Rank orders severities for prioritization; higher is worse.
func (s Severity) Rank() int {
	switch s {
	case SeverityLow:
		return 1
	case SeverityMedium:
		return 2
	case SeverityHigh:
		return 3
	case SeverityCritical:
		return 4
	}
	return 0
}

// Record is a threat surfaced by the Detect stage. AffectedAssets is kept
// deduplicated and sorted so the record behaves as a set.
type Record struct {
	Type           string
	Severity       Severity
	DetectedAt     time.Time
	AffectedAssets []string
}

// NewRecord validates and builds a threat record.
func NewRecord(threatType string, severity Severity, detectedAt time.Time, affectedAssets []string) (Record, error) {
	if threatType == "" {
		return Record{}, sharedErrors.ErrEmptyThreatType
	}
	if !severity.Valid() {
		return Record{}, sharedErrors.ErrInvalidSeverity
	}
	if detectedAt.IsZero() {
		detectedAt = time.Now().UTC()
	}

	seen := make(map[string]struct{}, len(affectedAssets))
	assets := make([]string, 0, len(affectedAssets))
	for _, id := range affectedAssets {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		assets = append(assets, id)
	}
	sort.Strings(assets)

	return Record{
		Type:           threatType,
		Severity:       severity,
		DetectedAt:     detectedAt,
		AffectedAssets: assets,
	}, nil
}
