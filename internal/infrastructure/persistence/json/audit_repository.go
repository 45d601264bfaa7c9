package json

import (
	"context"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/csv"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/khanhnv2901/csf-cli/internal/domain/audit"
	"github.com/khanhnv2901/csf-cli/internal/domain/run"
	"github.com/khanhnv2901/csf-cli/internal/shared/constants"
	sharedErrors "github.com/khanhnv2901/csf-cli/internal/shared/errors"
	"github.com/khanhnv2901/csf-cli/internal/shared/security"
)

const auditFileName = "audit.csv"

var auditHeader = []string{
	"timestamp",
	"run_id",
	"stage",
	"outcome",
	"operator",
	"notes",
	"error",
	"duration_seconds",
}

// AuditRepository implements the audit.Repository interface using CSV file
// storage under results/<run-id>/audit.csv. Sealed trails carry a hash
// companion file (audit.csv.sha256 or .sha512).
type AuditRepository struct {
	resultsDir string
	mu         sync.RWMutex
}

// NewAuditRepository creates a new CSV-based audit repository
func NewAuditRepository(resultsDir string) (*AuditRepository, error) {
	if resultsDir == "" {
		return nil, fmt.Errorf("results directory cannot be empty")
	}

	if err := os.MkdirAll(resultsDir, constants.DefaultDirPerm); err != nil {
		return nil, fmt.Errorf("failed to create results directory: %w", err)
	}

	return &AuditRepository{
		resultsDir: resultsDir,
	}, nil
}

func (r *AuditRepository) auditPath(runID string) (string, error) {
	// Run IDs arrive from command-line input; never let them walk out of
	// the results directory.
	return security.ResolveWithin(r.resultsDir, runID, auditFileName)
}

// Save persists an audit trail, rewriting the file from the trail's entries.
func (r *AuditRepository) Save(ctx context.Context, trail *audit.Trail) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	filePath, err := r.auditPath(trail.RunID())
	if err != nil {
		return fmt.Errorf("resolve audit path: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(filePath), constants.DefaultDirPerm); err != nil {
		return fmt.Errorf("failed to create run directory: %w", err)
	}

	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create audit file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write(auditHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for _, entry := range trail.Entries() {
		if err := writer.Write(entryToRecord(entry)); err != nil {
			return fmt.Errorf("failed to write entry: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush audit file: %w", err)
	}

	if trail.IsSealed() {
		hashFilePath := filePath + "." + trail.HashAlgorithm()
		hashContent := fmt.Sprintf("%s  %s\n", trail.Hash(), filepath.Base(filePath))
		if err := os.WriteFile(hashFilePath, []byte(hashContent), constants.DefaultFilePerm); err != nil {
			return fmt.Errorf("failed to write hash file: %w", err)
		}
	}

	return nil
}

// FindByRunID retrieves the audit trail for a run
func (r *AuditRepository) FindByRunID(ctx context.Context, runID string) (*audit.Trail, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	filePath, err := r.auditPath(runID)
	if err != nil {
		return nil, fmt.Errorf("resolve audit path: %w", err)
	}
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return nil, sharedErrors.ErrAuditTrailNotFound
	}

	return r.loadFromFile(filePath, runID)
}

// AppendEntry appends a single entry to a run's audit trail. Appending to a
// sealed trail is rejected.
func (r *AuditRepository) AppendEntry(ctx context.Context, runID string, entry *audit.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	filePath, err := r.auditPath(runID)
	if err != nil {
		return fmt.Errorf("resolve audit path: %w", err)
	}

	if _, sealed := r.sealInfo(filePath); sealed {
		return sharedErrors.ErrAuditTrailSealed
	}

	if err := os.MkdirAll(filepath.Dir(filePath), constants.DefaultDirPerm); err != nil {
		return fmt.Errorf("failed to create run directory: %w", err)
	}

	exists := true
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		exists = false
	}

	f, err := os.OpenFile(filePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, constants.DefaultFilePerm)
	if err != nil {
		return fmt.Errorf("failed to open audit file: %w", err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	if !exists {
		if err := writer.Write(auditHeader); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
	}
	if err := writer.Write(entryToRecord(entry)); err != nil {
		return fmt.Errorf("failed to write entry: %w", err)
	}
	writer.Flush()

	return writer.Error()
}

// ComputeHash calculates the hash of the stored audit trail
func (r *AuditRepository) ComputeHash(ctx context.Context, runID, algorithm string) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	filePath, err := r.auditPath(runID)
	if err != nil {
		return "", fmt.Errorf("resolve audit path: %w", err)
	}

	return computeFileHash(filePath, algorithm)
}

// VerifyIntegrity verifies a sealed audit trail against its stored hash
func (r *AuditRepository) VerifyIntegrity(ctx context.Context, runID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	filePath, err := r.auditPath(runID)
	if err != nil {
		return false, fmt.Errorf("resolve audit path: %w", err)
	}

	algorithm, sealed := r.sealInfo(filePath)
	if !sealed {
		return false, sharedErrors.ErrAuditTrailNotSealed
	}

	stored, err := readStoredHash(filePath + "." + algorithm)
	if err != nil {
		return false, err
	}

	computed, err := computeFileHash(filePath, algorithm)
	if err != nil {
		return false, err
	}

	return stored == computed, nil
}

// sealInfo reports whether a hash companion file exists and for which algorithm.
func (r *AuditRepository) sealInfo(filePath string) (string, bool) {
	for _, algorithm := range []string{"sha256", "sha512"} {
		if _, err := os.Stat(filePath + "." + algorithm); err == nil {
			return algorithm, true
		}
	}
	return "", false
}

func (r *AuditRepository) loadFromFile(filePath, runID string) (*audit.Trail, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open audit file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read audit file: %w", err)
	}

	entries := make([]*audit.Entry, 0, len(records))
	for i, record := range records {
		if i == 0 {
			continue // header
		}
		entry, err := recordToEntry(record)
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: %v", sharedErrors.ErrInvalidData, i, err)
		}
		entries = append(entries, entry)
	}

	hashValue := ""
	algorithm, sealed := r.sealInfo(filePath)
	if sealed {
		if hashValue, err = readStoredHash(filePath + "." + algorithm); err != nil {
			return nil, err
		}
	}

	info, err := os.Stat(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat audit file: %w", err)
	}

	return audit.Reconstruct(runID, entries, hashValue, algorithm, info.ModTime().UTC(), sealed), nil
}

func entryToRecord(entry *audit.Entry) []string {
	return []string{
		entry.Timestamp.Format(time.RFC3339Nano),
		entry.RunID,
		entry.Stage.String(),
		entry.Outcome,
		entry.Operator,
		entry.Notes,
		entry.Error,
		fmt.Sprintf("%.3f", entry.DurationSeconds),
	}
}

func recordToEntry(record []string) (*audit.Entry, error) {
	if len(record) != len(auditHeader) {
		return nil, fmt.Errorf("expected %d columns, got %d", len(auditHeader), len(record))
	}

	ts, err := time.Parse(time.RFC3339Nano, record[0])
	if err != nil {
		return nil, fmt.Errorf("parse timestamp: %w", err)
	}
	duration, err := strconv.ParseFloat(record[7], 64)
	if err != nil {
		return nil, fmt.Errorf("parse duration: %w", err)
	}

	return &audit.Entry{
		Timestamp:       ts,
		RunID:           record[1],
		Stage:           run.Stage(record[2]),
		Outcome:         record[3],
		Operator:        record[4],
		Notes:           record[5],
		Error:           record[6],
		DurationSeconds: duration,
	}, nil
}

func computeFileHash(filePath, algorithm string) (string, error) {
	var h hash.Hash
	switch algorithm {
	case "sha256":
		h = sha256.New()
	case "sha512":
		h = sha512.New()
	default:
		return "", sharedErrors.ErrInvalidHashAlgorithm
	}

	f, err := os.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to open audit file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("failed to hash audit file: %w", err)
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}

func readStoredHash(hashFilePath string) (string, error) {
	data, err := os.ReadFile(hashFilePath)
	if err != nil {
		return "", fmt.Errorf("failed to read hash file: %w", err)
	}

	fields := strings.Fields(string(data))
	if len(fields) == 0 {
		return "", sharedErrors.ErrEmptyHash
	}
	return fields[0], nil
}
