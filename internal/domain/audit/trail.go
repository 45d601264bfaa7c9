package audit

import (
	"time"

	"github.com/khanhnv2901/csf-cli/internal/domain/run"
	sharedErrors "github.com/khanhnv2901/csf-cli/internal/shared/errors"
)

// Entry outcomes.
const (
	OutcomeOK     = "ok"
	OutcomeFailed = "failed"
)

// Trail is the append-only record of stage executions for a single run.
// Entries are never mutated after append; once sealed, the trail rejects
// further entries and its hash can be verified against the stored file.
type Trail struct {
	runID         string
	entries       []*Entry
	hash          string
	hashAlgorithm string
	createdAt     time.Time
	sealed        bool
}

// Entry records one stage transition: which stage ran, how it ended, and who
// drove the run.
type Entry struct {
	Timestamp       time.Time
	RunID           string
	Stage           run.Stage
	Outcome         string
	Operator        string
	Notes           string
	Error           string
	DurationSeconds float64
}

// NewTrail creates an empty audit trail for a run.
func NewTrail(runID string) (*Trail, error) {
	if runID == "" {
		return nil, sharedErrors.ErrInvalidData
	}

	return &Trail{
		runID:     runID,
		entries:   make([]*Entry, 0),
		createdAt: time.Now().UTC(),
	}, nil
}

// Reconstruct creates an audit trail from persisted data.
func Reconstruct(runID string, entries []*Entry, hash, hashAlgorithm string, createdAt time.Time, sealed bool) *Trail {
	return &Trail{
		runID:         runID,
		entries:       entries,
		hash:          hash,
		hashAlgorithm: hashAlgorithm,
		createdAt:     createdAt,
		sealed:        sealed,
	}
}

// Business methods

// AppendEntry adds a stage entry to the trail.
func (t *Trail) AppendEntry(entry *Entry) error {
	if t.sealed {
		return sharedErrors.ErrAuditTrailSealed
	}
	if entry == nil {
		return sharedErrors.ErrInvalidData
	}
	if entry.RunID != t.runID {
		return sharedErrors.ErrInvalidData
	}
	if !entry.Stage.Valid() {
		return sharedErrors.ErrInvalidData
	}

	t.entries = append(t.entries, entry)
	return nil
}

// Seal finalizes the trail with the hash of its stored form.
func (t *Trail) Seal(hash, algorithm string) error {
	if t.sealed {
		return sharedErrors.ErrAuditTrailSealed
	}
	if hash == "" {
		return sharedErrors.ErrEmptyHash
	}
	if algorithm != "sha256" && algorithm != "sha512" {
		return sharedErrors.ErrInvalidHashAlgorithm
	}

	t.hash = hash
	t.hashAlgorithm = algorithm
	t.sealed = true
	return nil
}

// VerifyIntegrity checks a freshly computed hash against the sealed hash.
func (t *Trail) VerifyIntegrity(computedHash string) bool {
	return t.sealed && t.hash == computedHash
}

// IsSealed reports whether the trail is sealed.
func (t *Trail) IsSealed() bool {
	return t.sealed
}

// Getters

func (t *Trail) RunID() string {
	return t.runID
}

func (t *Trail) Entries() []*Entry {
	// Return a copy to prevent external modification
	entriesCopy := make([]*Entry, len(t.entries))
	copy(entriesCopy, t.entries)
	return entriesCopy
}

func (t *Trail) Hash() string {
	return t.hash
}

func (t *Trail) HashAlgorithm() string {
	return t.hashAlgorithm
}

func (t *Trail) CreatedAt() time.Time {
	return t.createdAt
}

// NewEntry creates a stage entry with the timestamp set to now.
func NewEntry(runID string, stage run.Stage, outcome, operator string) *Entry {
	return &Entry{
		Timestamp: time.Now().UTC(),
		RunID:     runID,
		Stage:     stage,
		Outcome:   outcome,
		Operator:  operator,
	}
}
