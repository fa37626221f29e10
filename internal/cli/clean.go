package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pendergraft/verifactor/internal/source"
)

func createCleanCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "clean <file>",
		Short: "Clean a flattened source file",
		Long: `Clean a flattened Solidity source without submitting it.

Strips flattener banner comments and collapses duplicate SPDX license
identifiers and solidity pragma lines to the first occurrence. This is
the same transformation 'verifactor verify' applies before submitting.

EXAMPLES:
  # Print the cleaned source
  verifactor clean Token.flat.sol

  # Write to a file
  verifactor clean Token.flat.sol -o Token.clean.sol
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClean(args[0], output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write cleaned source to file (default: stdout)")

	return cmd
}

func runClean(path, output string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading source file: %w", err)
	}

	cleaned := source.Clean(string(data))

	if output == "" {
		fmt.Print(cleaned)
		return nil
	}

	if err := os.WriteFile(output, []byte(cleaned), 0644); err != nil {
		return fmt.Errorf("writing cleaned source: %w", err)
	}

	fmt.Printf("✨ Cleaned source written to %s (%d -> %d bytes)\n", output, len(data), len(cleaned))
	return nil
}
