package cli

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"
)

// projectConfigFiles is the search order for project config files
var projectConfigFiles = []string{"verifactor.toml"}

// ProjectConfig is the project-level TOML configuration
type ProjectConfig struct {
	Explorer string `toml:"explorer"`
	Chain    string `toml:"chain,omitempty"`
	Compiler string `toml:"compiler,omitempty"`
	Relay    string `toml:"relay,omitempty"`
}

func createConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration commands",
	}

	cmd.AddCommand(createConfigInitCmd())
	cmd.AddCommand(createConfigShowCmd())

	return cmd
}

func createConfigInitCmd() *cobra.Command {
	var explorer string
	var chain string
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create config file",
		Long: `Create a verifactor.toml configuration file in the current directory.

This file stores project-level defaults like the explorer URL and
target chain, so they don't need repeating on every command.

EXAMPLES:
  # Create config with the default explorer
  verifactor config init

  # Create config pinned to Sepolia
  verifactor config init --chain sepolia

  # Overwrite existing config
  verifactor config init --force
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigInit(explorer, chain, force)
		},
	}

	cmd.Flags().StringVar(&explorer, "explorer", "https://api.etherscan.io/v2/api", "explorer API URL")
	cmd.Flags().StringVar(&chain, "chain", "mainnet", "default chain (ID or alias)")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite existing config")

	return cmd
}

func createConfigShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Display current config",
		Long: `Display the current configuration and where each value comes from.

EXAMPLES:
  verifactor config show
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigShow()
		},
	}

	return cmd
}

func runConfigInit(explorer, chain string, force bool) error {
	configPath := "verifactor.toml"

	for _, name := range projectConfigFiles {
		if _, err := os.Stat(name); err == nil && !force {
			return fmt.Errorf("config file already exists at %s (use --force to overwrite)", name)
		}
	}

	if _, err := resolveChain(chain); err != nil {
		return err
	}

	content := fmt.Sprintf(`# Verifactor project configuration

explorer = "%s"
chain = "%s"

# Default compiler version for 'verifactor verify'
# compiler = "v0.8.24+commit.e11b9ed9"

# Relay server for 'verifactor history'
# relay = "http://localhost:8080"
`, explorer, chain)

	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	fmt.Printf("Created %s\n", configPath)
	fmt.Println()
	fmt.Println("Configuration:")
	fmt.Printf("  Explorer: %s\n", explorer)
	fmt.Printf("  Chain:    %s\n", chain)
	fmt.Println()
	fmt.Println("Next steps:")
	fmt.Printf("  1. Edit %s to customize settings\n", configPath)
	fmt.Println("  2. Run 'verifactor auth login' to save an API key")
	fmt.Println("  3. Run 'verifactor verify --file Token.flat.sol ...' to verify")

	return nil
}

func runConfigShow() error {
	fmt.Println("Configuration sources (in order of precedence):")
	fmt.Println()

	// 1. Command line flags
	fmt.Println("1. Command line flags")
	fmt.Println("   --explorer, --api-key, --config")
	fmt.Println()

	// 2. Environment variables
	fmt.Println("2. Environment variables")
	explorerEnv := os.Getenv("VERIFACTOR_EXPLORER")
	keyEnv := os.Getenv("VERIFACTOR_API_KEY")
	if explorerEnv != "" {
		fmt.Printf("   VERIFACTOR_EXPLORER=%s\n", explorerEnv)
	} else {
		fmt.Println("   VERIFACTOR_EXPLORER=(not set)")
	}
	if keyEnv != "" {
		fmt.Printf("   VERIFACTOR_API_KEY=%s\n", maskAPIKey(keyEnv))
	} else {
		fmt.Println("   VERIFACTOR_API_KEY=(not set)")
	}
	fmt.Println()

	// 3. Local project config
	fmt.Println("3. Local project config (verifactor.toml)")
	projectConfig, configPath, err := loadProjectConfig()
	if err != nil {
		if os.IsNotExist(err) {
			fmt.Println("   (not found)")
		} else {
			fmt.Printf("   Error: %v\n", err)
		}
	} else {
		fmt.Printf("   Loaded from: %s\n", configPath)
		if projectConfig.Explorer != "" {
			fmt.Printf("   explorer: %s\n", projectConfig.Explorer)
		}
		if projectConfig.Chain != "" {
			fmt.Printf("   chain: %s\n", projectConfig.Chain)
		}
		if projectConfig.Compiler != "" {
			fmt.Printf("   compiler: %s\n", projectConfig.Compiler)
		}
		if projectConfig.Relay != "" {
			fmt.Printf("   relay: %s\n", projectConfig.Relay)
		}
	}
	fmt.Println()

	// 4. Credentials
	fmt.Println("4. Credentials (~/.verifactor/credentials)")
	creds, err := loadCredentials()
	if err != nil {
		if os.IsNotExist(err) {
			fmt.Println("   (not found)")
		} else {
			fmt.Printf("   Error: %v\n", err)
		}
	} else {
		if len(creds.Explorers) == 0 {
			fmt.Println("   (no credentials stored)")
		} else {
			for explorer, cred := range creds.Explorers {
				fmt.Printf("   %s: %s\n", explorer, maskAPIKey(cred.APIKey))
			}
		}
	}
	fmt.Println()

	// Effective config
	fmt.Println("Effective configuration:")
	fmt.Printf("   Explorer: %s\n", getExplorerURL())
	if key := getAPIKey(); key != "" {
		fmt.Printf("   API Key:  %s\n", maskAPIKey(key))
	} else {
		fmt.Println("   API Key:  (not set)")
	}

	return nil
}

// loadProjectConfig loads the project config from the first matching config file.
// Returns the config, the path it was loaded from, and an error.
func loadProjectConfig() (*ProjectConfig, string, error) {
	// If --config flag was provided, use that directly
	if cfgFile != "" {
		config, err := loadProjectConfigFromPath(cfgFile)
		if err != nil {
			return nil, cfgFile, err
		}
		return config, cfgFile, nil
	}

	for _, name := range projectConfigFiles {
		if _, err := os.Stat(name); err == nil {
			config, err := loadProjectConfigFromPath(name)
			if err != nil {
				return nil, name, err
			}
			return config, name, nil
		}
	}
	return nil, "", os.ErrNotExist
}

// loadProjectConfigFromPath loads a project config from a specific path
func loadProjectConfigFromPath(path string) (*ProjectConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var config ProjectConfig
	if _, err := toml.Decode(string(data), &config); err != nil {
		return nil, fmt.Errorf("parsing TOML: %w", err)
	}

	return &config, nil
}

// loadProjectConfigSilent loads the project config without returning errors for missing files.
// Returns nil if the file doesn't exist, but reports parse failures.
func loadProjectConfigSilent() *ProjectConfig {
	config, _, err := loadProjectConfig()
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		fmt.Fprintf(os.Stderr, "Warning: failed to load project config: %v\n", err)
		return nil
	}
	return config
}
