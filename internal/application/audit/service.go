package audit

import (
	"context"
	"fmt"

	"github.com/khanhnv2901/csf-cli/internal/domain/audit"
)

// Service provides application-level audit trail operations
type Service struct {
	repo audit.Repository
}

// NewService creates a new audit service
func NewService(repo audit.Repository) *Service {
	return &Service{
		repo: repo,
	}
}

// GetTrail retrieves the audit trail for a run
func (s *Service) GetTrail(ctx context.Context, runID string) (*audit.Trail, error) {
	trail, err := s.repo.FindByRunID(ctx, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to get audit trail: %w", err)
	}

	return trail, nil
}

// SealTrail seals a run's audit trail with a cryptographic hash and returns
// the hash. A sealed trail rejects further entries.
func (s *Service) SealTrail(ctx context.Context, runID, hashAlgorithm string) (string, error) {
	hash, err := s.repo.ComputeHash(ctx, runID, hashAlgorithm)
	if err != nil {
		return "", fmt.Errorf("failed to compute hash: %w", err)
	}

	trail, err := s.repo.FindByRunID(ctx, runID)
	if err != nil {
		return "", fmt.Errorf("failed to get audit trail: %w", err)
	}

	if err := trail.Seal(hash, hashAlgorithm); err != nil {
		return "", fmt.Errorf("failed to seal audit trail: %w", err)
	}

	if err := s.repo.Save(ctx, trail); err != nil {
		return "", fmt.Errorf("failed to save audit trail: %w", err)
	}

	return hash, nil
}

// VerifyIntegrity verifies a sealed audit trail against its stored hash
func (s *Service) VerifyIntegrity(ctx context.Context, runID string) (bool, error) {
	valid, err := s.repo.VerifyIntegrity(ctx, runID)
	if err != nil {
		return false, fmt.Errorf("failed to verify integrity: %w", err)
	}

	return valid, nil
}
