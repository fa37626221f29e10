package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pendergraft/verifactor/internal/abiargs"
	"github.com/pendergraft/verifactor/internal/explorer"
	"github.com/pendergraft/verifactor/internal/licenses"
	"github.com/pendergraft/verifactor/internal/verify"
)

func createVerifyCmd() *cobra.Command {
	var file string
	var chain string
	var address string
	var contract string
	var compiler string
	var optimizerRuns int
	var constructorArgs string
	var abiFile string
	var args []string
	var evmVersion string
	var license string
	var noWait bool

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Submit a contract source for verification",
		Long: `Submit a flattened Solidity source to the explorer and poll until
the verification finishes.

The source is cleaned first: flattener banners are stripped and
duplicate SPDX and pragma lines are collapsed to one.

EXAMPLES:
  # Verify a contract on mainnet
  verifactor verify \
    --file Token.flat.sol \
    --chain 1 \
    --address 0x1234... \
    --contract Token \
    --compiler v0.8.21+commit.d9974bed

  # Chain by alias, optimizer enabled, pre-encoded constructor args
  verifactor verify \
    --file Token.flat.sol \
    --chain sepolia \
    --address 0x1234... \
    --contract Token \
    --compiler v0.8.21+commit.d9974bed \
    --optimizer-runs 200 \
    --constructor-args 0x0000...0001

  # Encode constructor args from the ABI
  verifactor verify \
    --file Token.flat.sol \
    --chain 1 \
    --address 0x1234... \
    --contract Token \
    --compiler v0.8.21+commit.d9974bed \
    --abi Token.abi.json \
    --arg Gold --arg 1000000 --arg 0x5AAe...eAed

  # Submit without waiting for the result
  verifactor verify ... --no-wait
`,
		RunE: func(cmd *cobra.Command, cmdArgs []string) error {
			return runVerify(verifyOptions{
				file:            file,
				chain:           chain,
				address:         address,
				contract:        contract,
				compiler:        compiler,
				optimizerRuns:   optimizerRuns,
				constructorArgs: constructorArgs,
				abiFile:         abiFile,
				args:            args,
				evmVersion:      evmVersion,
				license:         license,
				noWait:          noWait,
			})
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "flattened source file (required)")
	cmd.Flags().StringVar(&chain, "chain", "", "chain ID or alias, e.g. 1 or sepolia (required)")
	cmd.Flags().StringVar(&address, "address", "", "contract address (required)")
	cmd.Flags().StringVar(&contract, "contract", "", "contract name (default: from file name)")
	cmd.Flags().StringVar(&compiler, "compiler", "", "solc version, e.g. v0.8.21+commit.d9974bed (required)")
	cmd.Flags().IntVar(&optimizerRuns, "optimizer-runs", 0, "optimizer runs (0 = optimizer disabled)")
	cmd.Flags().StringVar(&constructorArgs, "constructor-args", "", "ABI-encoded constructor arguments (hex)")
	cmd.Flags().StringVar(&abiFile, "abi", "", "contract ABI file, encodes --arg values")
	cmd.Flags().StringArrayVar(&args, "arg", nil, "constructor argument (repeatable, requires --abi)")
	cmd.Flags().StringVar(&evmVersion, "evm-version", "", "EVM version, e.g. paris (default: compiler default)")
	cmd.Flags().StringVar(&license, "license", "", "license SPDX identifier, e.g. MIT (default: detect from source)")
	cmd.Flags().BoolVar(&noWait, "no-wait", false, "submit and print the guid without polling")
	_ = cmd.MarkFlagRequired("file")
	_ = cmd.MarkFlagRequired("chain")
	_ = cmd.MarkFlagRequired("address")
	_ = cmd.MarkFlagRequired("compiler")

	return cmd
}

type verifyOptions struct {
	file            string
	chain           string
	address         string
	contract        string
	compiler        string
	optimizerRuns   int
	constructorArgs string
	abiFile         string
	args            []string
	evmVersion      string
	license         string
	noWait          bool
}

func runVerify(opts verifyOptions) error {
	source, err := os.ReadFile(opts.file)
	if err != nil {
		return fmt.Errorf("reading source file: %w", err)
	}

	network, err := resolveChain(opts.chain)
	if err != nil {
		return err
	}

	contract := opts.contract
	if contract == "" {
		// Token.flat.sol -> Token
		base := filepath.Base(opts.file)
		contract = strings.SplitN(base, ".", 2)[0]
	}

	constructorArgs := opts.constructorArgs
	if opts.abiFile != "" {
		if constructorArgs != "" {
			return fmt.Errorf("--abi and --constructor-args are mutually exclusive")
		}
		abiJSON, err := os.ReadFile(opts.abiFile)
		if err != nil {
			return fmt.Errorf("reading ABI file: %w", err)
		}
		constructorArgs, err = abiargs.Encode(abiJSON, opts.args)
		if err != nil {
			return fmt.Errorf("encoding constructor arguments: %w", err)
		}
	} else if len(opts.args) > 0 {
		return fmt.Errorf("--arg requires --abi")
	}

	licenseCode := 0
	if opts.license != "" {
		lic, ok := licenses.BySPDX(opts.license)
		if !ok {
			return fmt.Errorf("unknown license %q (run 'verifactor licenses' for the list)", opts.license)
		}
		licenseCode = lic.Code
	}

	svc := newVerifyService()
	req := verify.Request{
		ChainID:          network.ID,
		Address:          opts.address,
		Source:           string(source),
		ContractName:     contract,
		CompilerVersion:  opts.compiler,
		OptimizationRuns: opts.optimizerRuns,
		ConstructorArgs:  constructorArgs,
		EVMVersion:       opts.evmVersion,
		LicenseCode:      licenseCode,
	}

	fmt.Printf("🚀 Submitting %s for verification\n", contract)
	fmt.Printf("   Chain:    %s (%d)\n", network.Name, network.ID)
	fmt.Printf("   Address:  %s\n", opts.address)
	fmt.Printf("   Compiler: %s\n", opts.compiler)

	ctx := context.Background()
	guid, err := svc.Submit(ctx, req)
	if err != nil {
		return err
	}

	fmt.Printf("📨 Submitted (guid: %s)\n", guid)

	if opts.noWait {
		fmt.Printf("\nCheck later with:\n  verifactor check --chain %s %s\n", opts.chain, guid)
		return nil
	}

	fmt.Printf("⏳ Waiting for result (checks every %s, up to %d attempts)\n",
		verify.PollInterval, verify.MaxPollAttempts)

	result, err := svc.Poll(ctx, network.ID, guid)
	if err != nil {
		return err
	}

	printResult(result, opts.chain)
	return nil
}

func printResult(result *verify.Result, chain string) {
	fmt.Println()
	switch result.Status {
	case verify.StatusVerified:
		fmt.Println("✅ VERIFIED")
		fmt.Printf("   Confirmed after %d check(s)\n", result.Attempts)
	case verify.StatusFailed:
		fmt.Println("❌ FAILED")
		fmt.Printf("   %s\n", result.Detail)
	case verify.StatusTimedOut:
		fmt.Println("⏰ TIMED OUT")
		fmt.Println("   The explorer is still processing the submission.")
		fmt.Printf("   Check later with:\n     verifactor check --chain %s %s\n", chain, result.GUID)
	default:
		fmt.Printf("⏳ PENDING: %s\n", result.Detail)
	}
}

// newVerifyService builds a verification service against the configured
// explorer. Service logs go to stderr at warn level; the command output
// itself is the progress report.
func newVerifyService() *verify.Service {
	exp := explorer.New(getExplorerURL(), getAPIKey())
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	return verify.NewService(exp, logger)
}
