package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/pendergraft/verifactor/internal/chains"
	"github.com/pendergraft/verifactor/pkg/client"
)

func createHistoryCmd() *cobra.Command {
	var relayURL string
	var chain string
	var status string
	var limit int
	var cursor string
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List past submissions from a relay server",
		Long: `List verification submissions recorded by a verifactor relay server.

The relay keeps a history of every verification it forwarded to the
explorer. This command needs a running verifactor-server; direct
submissions made with 'verifactor verify' are not recorded.

EXAMPLES:
  # List recent submissions
  verifactor history --relay http://localhost:8080

  # Only failed submissions on Sepolia
  verifactor history --relay http://localhost:8080 --chain sepolia --status failed

  # Output as JSON
  verifactor history --relay http://localhost:8080 --json
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(relayURL, chain, status, limit, cursor, jsonOutput)
		},
	}

	cmd.Flags().StringVar(&relayURL, "relay", "", "relay server URL (or VERIFACTOR_RELAY)")
	cmd.Flags().StringVar(&chain, "chain", "", "filter by chain (ID or alias)")
	cmd.Flags().StringVar(&status, "status", "", "filter by status (pending, verified, failed, timeout)")
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum results")
	cmd.Flags().StringVar(&cursor, "cursor", "", "pagination cursor from a previous page")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output as JSON")

	return cmd
}

func runHistory(relayURL, chain, status string, limit int, cursor string, jsonOutput bool) error {
	if relayURL == "" {
		relayURL = os.Getenv("VERIFACTOR_RELAY")
	}
	if relayURL == "" {
		if config := loadProjectConfigSilent(); config != nil {
			relayURL = config.Relay
		}
	}
	if relayURL == "" {
		return fmt.Errorf("no relay server configured (use --relay or VERIFACTOR_RELAY)")
	}

	filter := client.ListFilter{
		Status: status,
		Limit:  limit,
		Cursor: cursor,
	}
	if chain != "" {
		network, err := resolveChain(chain)
		if err != nil {
			return err
		}
		filter.ChainID = network.ID
	}

	c := client.New(relayURL)
	resp, err := c.ListVerifications(context.Background(), filter)
	if err != nil {
		return fmt.Errorf("listing submissions: %w", err)
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	}

	if len(resp.Data) == 0 {
		fmt.Println("No submissions found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCHAIN\tADDRESS\tCONTRACT\tSTATUS\tCREATED")
	for _, s := range resp.Data {
		chainName := fmt.Sprintf("%d", s.ChainID)
		if n, ok := chains.ByID(s.ChainID); ok {
			chainName = n.Alias
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			shortID(s.ID), chainName, s.Address, s.ContractName, s.Status, s.CreatedAt)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if resp.Pagination.HasMore {
		fmt.Printf("\nMore results available: --cursor %s\n", resp.Pagination.NextCursor)
	}

	return nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
