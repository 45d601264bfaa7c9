package asset

import (
	"fmt"

	sharedErrors "github.com/khanhnv2901/csf-cli/internal/shared/errors"
)

// RiskScore maps asset IDs to numeric risk in [0,100]. A run carries at most
// one score per asset.
type RiskScore map[string]int

// Validate checks the mapping against the identified assets: exactly one
// score per asset, every score in range, no scores for unknown assets.
func (rs RiskScore) Validate(assets []Record) error {
	known := make(map[string]struct{}, len(assets))
	for _, a := range assets {
		known[a.ID] = struct{}{}
	}

	for id, score := range rs {
		if _, ok := known[id]; !ok {
			return fmt.Errorf("%w: %s", sharedErrors.ErrScoreUnknownAsset, id)
		}
		if score < 0 || score > 100 {
			return fmt.Errorf("%w: %s=%d", sharedErrors.ErrScoreOutOfRange, id, score)
		}
	}

	for _, a := range assets {
		if _, ok := rs[a.ID]; !ok {
			return fmt.Errorf("%w: %s", sharedErrors.ErrScoreMissing, a.ID)
		}
	}

	return nil
}
