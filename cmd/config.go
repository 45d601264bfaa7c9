package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/khanhnv2901/csf-cli/internal/application"
	"github.com/khanhnv2901/csf-cli/internal/domain/asset"
	"github.com/khanhnv2901/csf-cli/internal/domain/threat"
)

const (
	defaultNotifyRatePerMinute  = 6
	defaultNotifyBurst          = 2
	defaultRecoveryDowntimeMins = 45
)

// inventoryEntry mirrors one asset in the config file.
type inventoryEntry struct {
	ID             string `mapstructure:"id"`
	Classification string `mapstructure:"classification"`
	Owner          string `mapstructure:"owner"`
	Exposure       string `mapstructure:"exposure"`
}

// threatEntry mirrors one threat-feed item in the config file.
type threatEntry struct {
	Type     string   `mapstructure:"type"`
	Severity string   `mapstructure:"severity"`
	Assets   []string `mapstructure:"assets"`
}

// defaultInventory is used when the config file defines no inventory, so a
// bare `csf run` still exercises the full lifecycle.
func defaultInventory() []inventoryEntry {
	return []inventoryEntry{
		{ID: "erp-database", Classification: "restricted", Owner: "platform", Exposure: "internal"},
		{ID: "payments-gateway", Classification: "confidential", Owner: "payments", Exposure: "internet"},
		{ID: "intranet-portal", Classification: "internal", Owner: "it-ops", Exposure: "perimeter"},
	}
}

// loadRunnerConfig builds the container config from viper state. Inventory
// and threat feed come from the config file; rates and downtime have
// conservative defaults.
func loadRunnerConfig() (application.Config, error) {
	cfg := application.Config{
		ResultsDir:          resultsDir,
		NotifyRatePerMinute: viper.GetInt("notify_rate_per_minute"),
		NotifyBurst:         viper.GetInt("notify_burst"),
	}

	if cfg.NotifyRatePerMinute <= 0 {
		cfg.NotifyRatePerMinute = defaultNotifyRatePerMinute
	}
	if cfg.NotifyBurst <= 0 {
		cfg.NotifyBurst = defaultNotifyBurst
	}

	downtimeMins := viper.GetInt("recovery_downtime_minutes")
	if downtimeMins <= 0 {
		downtimeMins = defaultRecoveryDowntimeMins
	}
	cfg.RecoveryDowntime = time.Duration(downtimeMins) * time.Minute

	var entries []inventoryEntry
	if err := viper.UnmarshalKey("inventory", &entries); err != nil {
		return application.Config{}, fmt.Errorf("parse inventory config: %w", err)
	}
	if len(entries) == 0 {
		entries = defaultInventory()
	}

	for _, e := range entries {
		rec, err := asset.NewRecord(e.ID, asset.Classification(e.Classification), e.Owner, asset.Exposure(e.Exposure))
		if err != nil {
			return application.Config{}, fmt.Errorf("invalid inventory entry %q: %w", e.ID, err)
		}
		cfg.Assets = append(cfg.Assets, rec)
	}

	var feed []threatEntry
	if err := viper.UnmarshalKey("threats", &feed); err != nil {
		return application.Config{}, fmt.Errorf("parse threat feed config: %w", err)
	}
	for _, e := range feed {
		rec, err := threat.NewRecord(e.Type, threat.Severity(e.Severity), time.Time{}, e.Assets)
		if err != nil {
			return application.Config{}, fmt.Errorf("invalid threat feed entry %q: %w", e.Type, err)
		}
		cfg.Threats = append(cfg.Threats, rec)
	}

	return cfg, nil
}
