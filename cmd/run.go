package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/khanhnv2901/csf-cli/internal/application"
	auditapp "github.com/khanhnv2901/csf-cli/internal/application/audit"
	"github.com/khanhnv2901/csf-cli/internal/compliance"
	"github.com/khanhnv2901/csf-cli/internal/domain/run"
	"github.com/khanhnv2901/csf-cli/internal/domain/threat"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Execute the five-stage CSF lifecycle for a jurisdiction",
	Long: `Execute Identify, Protect, Detect, Respond and Recover in order against
the selected jurisdiction's compliance adapter. Each stage appends an entry
to the run's audit trail; any stage failure aborts the run and exits
non-zero.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		jurisdiction, _ := cmd.Flags().GetString("jurisdiction")
		if jurisdiction == "" {
			jurisdiction = viper.GetString("jurisdiction")
		}
		if jurisdiction == "" {
			jurisdiction = compliance.JurisdictionUS
		}

		if _, err := compliance.Lookup(jurisdiction); err != nil {
			return err
		}

		cfg, err := loadRunnerConfig()
		if err != nil {
			return err
		}

		if simulate, _ := cmd.Flags().GetBool("simulate-incident"); simulate {
			affected := make([]string, 0, len(cfg.Assets))
			for _, a := range cfg.Assets {
				affected = append(affected, a.ID)
			}
			drill, err := threat.NewRecord("data_breach", threat.SeverityHigh, time.Now().UTC(), affected)
			if err != nil {
				return fmt.Errorf("build drill threat: %w", err)
			}
			cfg.Threats = append(cfg.Threats, drill)
		}

		container, err := application.NewContainer(cfg, logger)
		if err != nil {
			return fmt.Errorf("failed to build application container: %w", err)
		}

		adapter, err := container.Adapter(jurisdiction)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		started := time.Now()
		summary, runErr := container.Runner.Run(ctx, adapter, operator)
		elapsed := time.Since(started)

		if summary != nil {
			printRunSummary(summary)

			if telemetryEnabled, _ := cmd.Flags().GetBool("telemetry"); telemetryEnabled {
				if err := recordTelemetry(resultsDir, summary, elapsed); err != nil {
					logger.Warnf("telemetry write failed: %v", err)
				}
			}

			if seal, _ := cmd.Flags().GetBool("seal"); seal && runErr == nil {
				algorithm, _ := cmd.Flags().GetString("hash")
				auditService := auditapp.NewService(container.AuditRepo)
				hash, err := auditService.SealTrail(ctx, summary.ID(), algorithm)
				if err != nil {
					return fmt.Errorf("failed to seal audit trail: %w", err)
				}
				fmt.Printf("%s audit trail sealed (%s: %s)\n", colorSuccess("OK"), algorithm, hash)
			}
		}

		if runErr != nil {
			return fmt.Errorf("lifecycle run failed: %w", runErr)
		}

		fmt.Printf("%s run %s completed in %s\n", colorSuccess("OK"), summary.ID(), elapsed.Round(time.Millisecond))
		return nil
	},
}

// printRunSummary renders the per-stage outcome table for a finished or
// failed run.
func printRunSummary(summary *run.Summary) {
	fmt.Printf("Run:          %s\n", summary.ID())
	fmt.Printf("Jurisdiction: %s\n", summary.Jurisdiction())
	fmt.Printf("Operator:     %s\n", summary.Operator())
	fmt.Printf("Status:       %s\n", formatStatusWithColor(string(summary.Status())))
	if summary.Status() == run.RunStatusFailed {
		fmt.Printf("Failed stage: %s\n", colorError(summary.FailedStage().String()))
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "STAGE\tOUTCOME\tDURATION\tNOTES")
	for _, st := range summary.Stages() {
		notes := st.Notes
		if st.Error != "" {
			notes = st.Error
		}
		fmt.Fprintf(w, "%s\t%s\t%.3fs\t%s\n", st.Stage, formatStatusWithColor(st.Outcome), st.DurationSeconds, notes)
	}
	w.Flush()

	c := summary.Counters()
	fmt.Printf("Assets: %d  Threats: %d  Incidents: %d opened / %d resolved\n",
		c.Assets, c.Threats, c.IncidentsOpened, c.IncidentsResolved)
}

func init() {
	runCmd.Flags().StringP("jurisdiction", "j", "", "jurisdiction adapter to run (us|china; default from config)")
	runCmd.Flags().Bool("simulate-incident", false, "inject a high-severity data_breach drill into the threat feed")
	runCmd.Flags().Bool("seal", false, "seal the audit trail with a hash after a successful run")
	runCmd.Flags().String("hash", "sha256", "hash algorithm for --seal (sha256|sha512)")
	runCmd.Flags().Bool("telemetry", false, "append a telemetry record for this run")
}
