package audit

import "context"

// Repository defines the interface for audit trail persistence
type Repository interface {
	// Save persists an audit trail
	Save(ctx context.Context, trail *Trail) error

	// FindByRunID retrieves the audit trail for a run
	FindByRunID(ctx context.Context, runID string) (*Trail, error)

	// AppendEntry appends a single entry to a run's audit trail
	AppendEntry(ctx context.Context, runID string, entry *Entry) error

	// ComputeHash calculates the hash of the stored audit trail
	ComputeHash(ctx context.Context, runID, algorithm string) (string, error)

	// VerifyIntegrity verifies a sealed audit trail against its stored hash
	VerifyIntegrity(ctx context.Context, runID string) (bool, error)
}
