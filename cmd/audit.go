package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/khanhnv2901/csf-cli/internal/application"
	auditapp "github.com/khanhnv2901/csf-cli/internal/application/audit"
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Inspect, seal and verify run audit trails",
}

func newAuditService() (*auditapp.Service, error) {
	cfg, err := loadRunnerConfig()
	if err != nil {
		return nil, err
	}
	container, err := application.NewContainer(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to build application container: %w", err)
	}
	return auditapp.NewService(container.AuditRepo), nil
}

var auditShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Print the audit trail for a run",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		service, err := newAuditService()
		if err != nil {
			return err
		}

		trail, err := service.GetTrail(ctx, args[0])
		if err != nil {
			return err
		}

		sealed := "no"
		if trail.IsSealed() {
			sealed = fmt.Sprintf("yes (%s %s)", trail.HashAlgorithm(), trail.Hash())
		}
		fmt.Printf("Run:    %s\n", trail.RunID())
		fmt.Printf("Sealed: %s\n", sealed)

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "TIMESTAMP\tSTAGE\tOUTCOME\tOPERATOR\tNOTES\tERROR")
		for _, entry := range trail.Entries() {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
				entry.Timestamp.Format(time.RFC3339),
				entry.Stage,
				formatStatusWithColor(entry.Outcome),
				entry.Operator,
				entry.Notes,
				entry.Error,
			)
		}
		w.Flush()
		return nil
	},
}

var auditSealCmd = &cobra.Command{
	Use:   "seal <run-id>",
	Short: "Seal a run's audit trail with a cryptographic hash",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		service, err := newAuditService()
		if err != nil {
			return err
		}

		algorithm, _ := cmd.Flags().GetString("hash")
		hash, err := service.SealTrail(ctx, args[0], algorithm)
		if err != nil {
			return fmt.Errorf("failed to seal audit trail: %w", err)
		}

		fmt.Printf("%s audit trail sealed (%s: %s)\n", colorSuccess("OK"), algorithm, hash)
		return nil
	},
}

var auditVerifyCmd = &cobra.Command{
	Use:   "verify <run-id>",
	Short: "Verify a sealed audit trail against its stored hash",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		service, err := newAuditService()
		if err != nil {
			return err
		}

		valid, err := service.VerifyIntegrity(ctx, args[0])
		if err != nil {
			return fmt.Errorf("failed to verify audit trail: %w", err)
		}

		if !valid {
			fmt.Printf("%s audit trail hash mismatch for run %s\n", colorError("FAIL"), args[0])
			return fmt.Errorf("audit trail integrity verification failed")
		}

		fmt.Printf("%s audit trail verified for run %s\n", colorSuccess("OK"), args[0])
		return nil
	},
}

func init() {
	auditSealCmd.Flags().String("hash", "sha256", "hash algorithm (sha256|sha512)")

	auditCmd.AddCommand(auditShowCmd)
	auditCmd.AddCommand(auditSealCmd)
	auditCmd.AddCommand(auditVerifyCmd)
}
