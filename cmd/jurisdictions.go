package cmd

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/khanhnv2901/csf-cli/internal/compliance"
)

var jurisdictionsCmd = &cobra.Command{
	Use:   "jurisdictions",
	Short: "List supported jurisdictions and their adapter defaults",
	Run: func(cmd *cobra.Command, args []string) {
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tAUTHORITY\tFRAMEWORKS")
		for _, info := range compliance.SupportedJurisdictions() {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
				info.ID, info.Name, info.Authority, strings.Join(info.Frameworks, ", "))
		}
		w.Flush()
	},
}
