package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/spf13/cobra"

	"github.com/khanhnv2901/csf-cli/internal/application"
	"github.com/khanhnv2901/csf-cli/internal/domain/run"
	sharedErrors "github.com/khanhnv2901/csf-cli/internal/shared/errors"
)

var reportCmd = &cobra.Command{
	Use:   "report [run-id]",
	Short: "Render a lifecycle run report (text, optionally PDF)",
	Long: `Render a report for a lifecycle run. Without a run ID the most recent
run is reported. Use --pdf to additionally export the report as a PDF
document.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		cfg, err := loadRunnerConfig()
		if err != nil {
			return err
		}
		container, err := application.NewContainer(cfg, logger)
		if err != nil {
			return fmt.Errorf("failed to build application container: %w", err)
		}

		var summary *run.Summary
		if len(args) == 1 {
			summary, err = container.RunRepo.FindByID(ctx, args[0])
			if err != nil {
				return err
			}
		} else {
			summaries, err := container.RunRepo.List(ctx)
			if err != nil {
				return err
			}
			if len(summaries) == 0 {
				return sharedErrors.ErrRunNotFound
			}
			summary = summaries[0]
		}

		renderTextReport(summary)

		if pdfPath, _ := cmd.Flags().GetString("pdf"); pdfPath != "" {
			if err := writePDFReport(summary, pdfPath); err != nil {
				return fmt.Errorf("failed to write PDF report: %w", err)
			}
			fmt.Printf("%s PDF report written to %s\n", colorSuccess("OK"), pdfPath)
		}

		return nil
	},
}

func renderTextReport(summary *run.Summary) {
	fmt.Println("CSF Lifecycle Run Report")
	fmt.Println("========================")
	fmt.Printf("Run:          %s\n", summary.ID())
	fmt.Printf("Jurisdiction: %s\n", summary.Jurisdiction())
	fmt.Printf("Operator:     %s\n", summary.Operator())
	fmt.Printf("Started:      %s\n", summary.StartedAt().Format(time.RFC3339))
	if !summary.CompletedAt().IsZero() {
		fmt.Printf("Completed:    %s (%s)\n", summary.CompletedAt().Format(time.RFC3339), summary.Duration().Round(time.Millisecond))
	}
	fmt.Printf("Status:       %s\n", formatStatusWithColor(string(summary.Status())))
	if summary.Status() == run.RunStatusFailed {
		fmt.Printf("Failed stage: %s\n", colorError(summary.FailedStage().String()))
	}
	fmt.Println()

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
	fmt.Printf("\nAssets: %d  Threats: %d  Incidents: %d opened / %d resolved\n",
		c.Assets, c.Threats, c.IncidentsOpened, c.IncidentsResolved)
}

func writePDFReport(summary *run.Summary, path string) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, "CSF Lifecycle Run Report")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 11)
	meta := [][2]string{
		{"Run", summary.ID()},
		{"Jurisdiction", summary.Jurisdiction()},
		{"Operator", summary.Operator()},
		{"Started", summary.StartedAt().Format(time.RFC3339)},
		{"Status", string(summary.Status())},
	}
	if summary.Status() == run.RunStatusFailed {
		meta = append(meta, [2]string{"Failed stage", summary.FailedStage().String()})
	}
	for _, row := range meta {
		pdf.CellFormat(40, 7, row[0], "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 7, row[1], "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(35, 8, "Stage", "1", 0, "L", false, 0, "")
	pdf.CellFormat(25, 8, "Outcome", "1", 0, "L", false, 0, "")
	pdf.CellFormat(30, 8, "Duration", "1", 0, "L", false, 0, "")
	pdf.CellFormat(0, 8, "Notes", "1", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	for _, st := range summary.Stages() {
		notes := st.Notes
		if st.Error != "" {
			notes = st.Error
		}
		pdf.CellFormat(35, 7, st.Stage.String(), "1", 0, "L", false, 0, "")
		pdf.CellFormat(25, 7, st.Outcome, "1", 0, "L", false, 0, "")
		pdf.CellFormat(30, 7, fmt.Sprintf("%.3fs", st.DurationSeconds), "1", 0, "L", false, 0, "")
		pdf.CellFormat(0, 7, notes, "1", 1, "L", false, 0, "")
	}
	pdf.Ln(6)

	c := summary.Counters()
	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 7, fmt.Sprintf("Assets: %d   Threats: %d   Incidents: %d opened / %d resolved",
		c.Assets, c.Threats, c.IncidentsOpened, c.IncidentsResolved))

	return pdf.OutputFileAndClose(path)
}

func init() {
	reportCmd.Flags().String("pdf", "", "also export the report as a PDF to the given path")
}
