package compliance

import (
	"fmt"

	sharedErrors "github.com/khanhnv2901/csf-cli/internal/shared/errors"
)

// Jurisdiction IDs accepted by the --jurisdiction flag.
const (
	JurisdictionUS    = "us"
	JurisdictionChina = "china"
)

// Info describes a supported jurisdiction and the defaults its adapter is
// wired with when the config file does not override them.
type Info struct {
	ID             string   // Registry identifier (e.g. "us", "china")
	Name           string   // Display name
	Authority      string   // Incident notification endpoint
	Frameworks     []string // Regulatory frameworks the adapter aligns with
	PolicyProfile  string   // Default protection policy profile
	FeedbackVia    string   // Default change-management channel
	BackupLocation string   // Default recovery source
}

// SupportedJurisdictions returns all jurisdictions this tool can run.
func SupportedJurisdictions() []Info {
	return []Info{
		{
			ID:             JurisdictionUS,
			Name:           "United States",
			Authority:      "CISA Incident Reporting",
			Frameworks:     []string{"NIST SP 800-53", "CMMC 2.0"},
			PolicyProfile:  "zero-trust",
			FeedbackVia:    "workshops",
			BackupLocation: "cloud-dr",
		},
		{
			ID:             JurisdictionChina,
			Name:           "China",
			Authority:      "CAC Incident Reporting",
			Frameworks:     []string{"Cybersecurity Law", "MLPS 2.0", "GB/T 22239-2019"},
			PolicyProfile:  "mlps-hierarchical",
			FeedbackVia:    "messaging",
			BackupLocation: "localized-backup",
		},
	}
}

// Lookup resolves a jurisdiction ID against the registry.
func Lookup(id string) (Info, error) {
	for _, info := range SupportedJurisdictions() {
		if info.ID == id {
			return info, nil
		}
	}
	return Info{}, fmt.Errorf("%w: %q", sharedErrors.ErrUnknownJurisdiction, id)
}
