package asset

import (
	sharedErrors "github.com/khanhnv2901/csf-cli/internal/shared/errors"
)

// Classification is the protection tier assigned to an asset during Identify.
type Classification string

const (
	ClassificationPublic       Classification = "public"
	ClassificationInternal     Classification = "internal"
	ClassificationConfidential Classification = "confidential"
	ClassificationRestricted   Classification = "restricted"
)

// Valid reports whether the classification is one of the known tiers.
func (c Classification) Valid() bool {
	switch c {
	case ClassificationPublic, ClassificationInternal, ClassificationConfidential, ClassificationRestricted:
		return true
	}
	return false
}

// Exposure describes how reachable an asset is from outside the organization.
type Exposure string

const (
	ExposureInternal  Exposure = "internal"
	ExposurePerimeter Exposure = "perimeter"
	ExposureInternet  Exposure = "internet"
)

// Valid reports whether the exposure is one of the known levels.
func (e Exposure) Valid() bool {
	switch e {
	case ExposureInternal, ExposurePerimeter, ExposureInternet:
		return true
	}
	return false
}

// Record is a single inventoried asset. Records are created during Identify
// and never mutated for the remainder of the run.
type Record struct {
	ID             string
	Classification Classification
	Owner          string
	Exposure       Exposure
}

// NewRecord validates and builds an asset record.
func NewRecord(id string, classification Classification, owner string, exposure Exposure) (Record, error) {
	if id == "" {
		return Record{}, sharedErrors.ErrEmptyAssetID
	}
	if owner == "" {
		return Record{}, sharedErrors.ErrEmptyOwner
	}
	if !classification.Valid() {
		return Record{}, sharedErrors.ErrInvalidData
	}
	if exposure == "" {
		exposure = ExposureInternal
	}
	if !exposure.Valid() {
		return Record{}, sharedErrors.ErrInvalidData
	}

	return Record{
		ID:             id,
		Classification: classification,
		Owner:          owner,
		Exposure:       exposure,
	}, nil
}
