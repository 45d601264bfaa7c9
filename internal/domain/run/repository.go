package run

import "context"

// Repository defines the interface for run summary persistence
type Repository interface {
	// Save persists a run summary
	Save(ctx context.Context, summary *Summary) error

	// FindByID retrieves a run summary by its run ID
	FindByID(ctx context.Context, id string) (*Summary, error)

	// List retrieves all persisted run summaries, newest first
	List(ctx context.Context) ([]*Summary, error)
}
