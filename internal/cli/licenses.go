package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/pendergraft/verifactor/internal/licenses"
)

func createLicensesCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "licenses",
		Short: "List explorer license codes",
		Long: `List the license codes the explorer accepts and the SPDX
identifiers they map to. 'verifactor verify' detects the license from
the source's SPDX line automatically; --license overrides it.

EXAMPLES:
  verifactor licenses
  verifactor licenses --json
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLicenses(jsonOutput)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output as JSON")

	return cmd
}

func runLicenses(jsonOutput bool) error {
	all := licenses.All()

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(all)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "CODE\tSPDX\tNAME")
	for _, l := range all {
		fmt.Fprintf(w, "%d\t%s\t%s\n", l.Code, l.SPDX, l.Name)
	}
	return w.Flush()
}
