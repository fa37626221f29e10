package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pendergraft/verifactor/internal/abiargs"
)

func createEncodeArgsCmd() *cobra.Command {
	var abiFile string

	cmd := &cobra.Command{
		Use:   "encode-args [values...]",
		Short: "ABI-encode constructor arguments",
		Long: `ABI-encode constructor arguments against a contract's ABI.

The output is the hex string (without 0x prefix) that the explorer
expects for the constructor arguments field. The same encoding runs
inside 'verifactor verify --abi'.

EXAMPLES:
  # Encode a string, a uint256 and an address
  verifactor encode-args --abi Token.abi.json Gold 1000000 0x5AAe...eAed

  # A constructor with no arguments encodes to nothing
  verifactor encode-args --abi Simple.abi.json
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEncodeArgs(abiFile, args)
		},
	}

	cmd.Flags().StringVar(&abiFile, "abi", "", "contract ABI file (required)")
	_ = cmd.MarkFlagRequired("abi")

	return cmd
}

func runEncodeArgs(abiFile string, args []string) error {
	abiJSON, err := os.ReadFile(abiFile)
	if err != nil {
		return fmt.Errorf("reading ABI file: %w", err)
	}

	encoded, err := abiargs.Encode(abiJSON, args)
	if err != nil {
		return err
	}

	fmt.Println(encoded)
	return nil
}
