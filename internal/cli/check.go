package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pendergraft/verifactor/internal/verify"
)

func createCheckCmd() *cobra.Command {
	var chain string
	var wait bool

	cmd := &cobra.Command{
		Use:   "check <guid>",
		Short: "Check the status of a submitted verification",
		Long: `Check the status of a verification by its tracking guid.

By default a single status check is performed. With --wait the command
polls on the standard cadence until the verification finishes.

EXAMPLES:
  # One-shot status check
  verifactor check --chain 1 ezq878u486pzijkvvmerl6a9mzwhv6sefgvqi5tkwceejc7tvn

  # Poll until a terminal result
  verifactor check --chain sepolia --wait ezq878u486pz...
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(chain, args[0], wait)
		},
	}

	cmd.Flags().StringVar(&chain, "chain", "", "chain ID or alias (required)")
	cmd.Flags().BoolVar(&wait, "wait", false, "poll until the verification finishes")
	_ = cmd.MarkFlagRequired("chain")

	return cmd
}

func runCheck(chain, guid string, wait bool) error {
	network, err := resolveChain(chain)
	if err != nil {
		return err
	}

	svc := newVerifyService()
	ctx := context.Background()

	var result *verify.Result
	if wait {
		fmt.Printf("⏳ Polling %s (checks every %s, up to %d attempts)\n",
			guid, verify.PollInterval, verify.MaxPollAttempts)
		result, err = svc.Poll(ctx, network.ID, guid)
	} else {
		result, err = svc.CheckOnce(ctx, network.ID, guid)
	}
	if err != nil {
		return err
	}

	printResult(result, chain)
	return nil
}
