package collaborator

import (
	"context"

	"github.com/khanhnv2901/csf-cli/internal/domain/asset"
)

// WeightedScorer is a deterministic risk scorer: a base score per
// classification tier plus an exposure term, clamped to [0,100]. It is a
// pure function of its input, so repeated runs over the same inventory
// produce identical scores.
type WeightedScorer struct{}

// NewWeightedScorer builds the default scorer.
func NewWeightedScorer() *WeightedScorer {
	return &WeightedScorer{}
}

var classificationBase = map[asset.Classification]int{
	asset.ClassificationPublic:       10,
	asset.ClassificationInternal:     30,
	asset.ClassificationConfidential: 55,
	asset.ClassificationRestricted:   75,
}

var exposureBonus = map[asset.Exposure]int{
	asset.ExposureInternal:  0,
	asset.ExposurePerimeter: 10,
	asset.ExposureInternet:  25,
}

// Score assigns exactly one score per asset.
func (s *WeightedScorer) Score(ctx context.Context, assets []asset.Record) (asset.RiskScore, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	scores := make(asset.RiskScore, len(assets))
	for _, a := range assets {
		score := classificationBase[a.Classification] + exposureBonus[a.Exposure]
		if score > 100 {
			score = 100
		}
		if score < 0 {
			score = 0
		}
		scores[a.ID] = score
	}
	return scores, nil
}
