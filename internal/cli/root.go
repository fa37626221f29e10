// Package cli implements the verifactor command line interface.
package cli

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	cfgFile     string
	explorerURL string
	apiKey      string
)

// Execute runs the CLI
func Execute(version string) error {
	rootCmd := &cobra.Command{
		Use:     "verifactor",
		Short:   "Smart contract verification CLI",
		Long:    `Verifactor submits flattened Solidity sources to an Etherscan-compatible explorer and tracks the verification outcome.`,
		Version: version,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: verifactor.toml)")
	rootCmd.PersistentFlags().StringVar(&explorerURL, "explorer", "", "explorer API URL (default from config)")
	rootCmd.PersistentFlags().StringVar(&apiKey, "api-key", "", "explorer API key")

	// Add subcommands
	rootCmd.AddCommand(createVerifyCmd())
	rootCmd.AddCommand(createCheckCmd())
	rootCmd.AddCommand(createCleanCmd())
	rootCmd.AddCommand(createChainsCmd())
	rootCmd.AddCommand(createLicensesCmd())
	rootCmd.AddCommand(createEncodeArgsCmd())
	rootCmd.AddCommand(createHistoryCmd())
	rootCmd.AddCommand(createAuthCmd())
	rootCmd.AddCommand(createConfigCmd())

	return rootCmd.Execute()
}

// getExplorerURL returns the explorer URL from flag, env, config file, or default
func getExplorerURL() string {
	// 1. Command line flag
	if explorerURL != "" {
		return explorerURL
	}

	// 2. Environment variable
	if env := os.Getenv("VERIFACTOR_EXPLORER"); env != "" {
		return env
	}

	// 3. Project config file (TOML)
	if config := loadProjectConfigSilent(); config != nil && config.Explorer != "" {
		return config.Explorer
	}

	// 4. Default (Etherscan v2 multichain endpoint)
	return "https://api.etherscan.io/v2/api"
}

// getAPIKey returns the API key from flag, env, config, or credentials file
func getAPIKey() string {
	// 1. Command line flag
	if apiKey != "" {
		return apiKey
	}

	// 2. Environment variable
	if env := os.Getenv("VERIFACTOR_API_KEY"); env != "" {
		return env
	}

	// 3. Credentials file (keyed by explorer URL)
	url := getExplorerURL()
	if cred := getCredential(url); cred != "" {
		return cred
	}

	return ""
}
