package application

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/khanhnv2901/csf-cli/internal/application/runner"
	"github.com/khanhnv2901/csf-cli/internal/collaborator"
	"github.com/khanhnv2901/csf-cli/internal/compliance"
	"github.com/khanhnv2901/csf-cli/internal/compliance/china"
	"github.com/khanhnv2901/csf-cli/internal/compliance/us"
	"github.com/khanhnv2901/csf-cli/internal/domain/asset"
	"github.com/khanhnv2901/csf-cli/internal/domain/audit"
	"github.com/khanhnv2901/csf-cli/internal/domain/run"
	"github.com/khanhnv2901/csf-cli/internal/domain/threat"
	"github.com/khanhnv2901/csf-cli/internal/infrastructure/persistence/json"
	"github.com/khanhnv2901/csf-cli/internal/shared/constants"
	sharedErrors "github.com/khanhnv2901/csf-cli/internal/shared/errors"
)

// Config carries the runtime inputs the container needs: where results go
// and what the in-process collaborators serve.
type Config struct {
	ResultsDir          string
	Assets              []asset.Record
	Threats             []threat.Record
	NotifyRatePerMinute int
	NotifyBurst         int
	RecoveryDowntime    time.Duration
}

// Container holds repositories, the stage runner, and the constructed
// jurisdiction adapters. This is a simple dependency injection container:
// which adapter runs is decided once, at process start.
type Container struct {
	AuditRepo audit.Repository
	RunRepo   run.Repository
	Runner    *runner.StageRunner

	adapters map[string]compliance.Adapter
}

// NewContainer creates the application container for the given config.
func NewContainer(cfg Config, logger *zap.SugaredLogger) (*Container, error) {
	auditRepo, err := json.NewAuditRepository(cfg.ResultsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to create audit repository: %w", err)
	}

	runRepo, err := json.NewRunRepository(cfg.ResultsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to create run repository: %w", err)
	}

	notifyRate := cfg.NotifyRatePerMinute
	if notifyRate <= 0 {
		notifyRate = constants.NotifyRatePerMinute
	}
	notifyBurst := cfg.NotifyBurst
	if notifyBurst <= 0 {
		notifyBurst = constants.NotifyBurst
	}

	inventory := collaborator.NewStaticInventory(cfg.Assets)
	scorer := collaborator.NewWeightedScorer()
	monitor := collaborator.NewStaticMonitor(cfg.Threats)

	adapters := make(map[string]compliance.Adapter)
	for _, info := range compliance.SupportedJurisdictions() {
		enforcer := collaborator.NewRecordingEnforcer(info.PolicyProfile)
		reporter := collaborator.NewPacedReporter(info.Authority, notifyRate, notifyBurst)
		recovery := collaborator.NewLocalRecovery(info.BackupLocation, cfg.RecoveryDowntime)
		feedback := collaborator.NewChannelFeedback(info.FeedbackVia)

		switch info.ID {
		case compliance.JurisdictionUS:
			adapters[info.ID] = us.NewAdapter(inventory, scorer, enforcer, monitor, reporter, recovery, feedback, logger)
		case compliance.JurisdictionChina:
			adapters[info.ID] = china.NewAdapter(inventory, scorer, enforcer, monitor, reporter, recovery, feedback, logger)
		}
	}

	return &Container{
		AuditRepo: auditRepo,
		RunRepo:   runRepo,
		Runner:    runner.NewStageRunner(auditRepo, runRepo, logger),
		adapters:  adapters,
	}, nil
}

// Adapter returns the constructed adapter for a jurisdiction ID.
func (c *Container) Adapter(jurisdiction string) (compliance.Adapter, error) {
	adapter, ok := c.adapters[jurisdiction]
	if !ok {
		return nil, fmt.Errorf("%w: %q", sharedErrors.ErrUnknownJurisdiction, jurisdiction)
	}
	return adapter, nil
}
