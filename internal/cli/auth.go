package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"
)

// Credentials stores API keys per explorer endpoint
type Credentials struct {
	Explorers map[string]ExplorerCredential `yaml:"explorers"`
}

// ExplorerCredential stores credentials for a single explorer
type ExplorerCredential struct {
	APIKey string `yaml:"api_key"`
	Name   string `yaml:"name,omitempty"` // Optional name/description
}

func createAuthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Authentication commands",
	}

	cmd.AddCommand(createAuthLoginCmd())
	cmd.AddCommand(createAuthLogoutCmd())
	cmd.AddCommand(createAuthStatusCmd())

	return cmd
}

func createAuthLoginCmd() *cobra.Command {
	var explorerFlag string
	var apiKeyFlag string
	var skipValidate bool

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Save explorer API key",
		Long: `Save an API key for an explorer endpoint.

The API key is stored in ~/.verifactor/credentials with secure file
permissions, keyed by explorer URL.

EXAMPLES:
  # Interactive login (prompts for API key)
  verifactor auth login

  # Login to a specific explorer
  verifactor auth login --explorer https://api.etherscan.io/v2/api

  # Non-interactive login (for CI)
  verifactor auth login --api-key $ETHERSCAN_API_KEY
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAuthLogin(explorerFlag, apiKeyFlag, skipValidate)
		},
	}

	cmd.Flags().StringVar(&explorerFlag, "explorer", "", "explorer URL (default from config)")
	cmd.Flags().StringVar(&apiKeyFlag, "api-key", "", "API key (prompts if not provided)")
	cmd.Flags().BoolVar(&skipValidate, "no-validate", false, "skip validating the key against the explorer")

	return cmd
}

func createAuthLogoutCmd() *cobra.Command {
	var explorerFlag string
	var allFlag bool

	cmd := &cobra.Command{
		Use:   "logout",
		Short: "Clear credentials",
		Long: `Remove saved credentials for an explorer.

EXAMPLES:
  # Logout from the default explorer
  verifactor auth logout

  # Logout from a specific explorer
  verifactor auth logout --explorer https://api.etherscan.io/v2/api

  # Clear all credentials
  verifactor auth logout --all
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAuthLogout(explorerFlag, allFlag)
		},
	}

	cmd.Flags().StringVar(&explorerFlag, "explorer", "", "explorer URL (default from config)")
	cmd.Flags().BoolVar(&allFlag, "all", false, "clear all credentials")

	return cmd
}

func createAuthStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show authentication status",
		Long: `Show saved credentials for all configured explorers.

EXAMPLES:
  verifactor auth status
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAuthStatus()
		},
	}

	return cmd
}

func runAuthLogin(explorer, apiKeyInput string, skipValidate bool) error {
	if explorer == "" {
		explorer = getExplorerURL()
	}

	key := apiKeyInput
	if key == "" {
		fmt.Printf("Enter API key for %s: ", explorer)

		// Read without echo when attached to a terminal
		stdinFd := int(os.Stdin.Fd())
		if term.IsTerminal(stdinFd) {
			byteKey, err := term.ReadPassword(stdinFd)
			fmt.Println()
			if err != nil {
				return fmt.Errorf("reading API key: %w", err)
			}
			key = string(byteKey)
		} else {
			reader := bufio.NewReader(os.Stdin)
			line, err := reader.ReadString('\n')
			if err != nil && err != io.EOF {
				return fmt.Errorf("reading API key: %w", err)
			}
			key = strings.TrimSpace(line)
		}
	}

	if key == "" {
		return fmt.Errorf("API key cannot be empty")
	}

	if !skipValidate {
		fmt.Printf("Validating key with %s...\n", explorer)
		valid, err := validateAPIKey(explorer, key)
		if err != nil {
			return fmt.Errorf("validating key: %w", err)
		}
		if !valid {
			return fmt.Errorf("explorer rejected the API key")
		}
	}

	if err := saveCredential(explorer, key); err != nil {
		return fmt.Errorf("saving credentials: %w", err)
	}

	masked := maskAPIKey(key)
	fmt.Printf("✅ Key saved for %s (key: %s)\n", explorer, masked)
	fmt.Printf("   Credentials stored in %s\n", credentialsFilePath())

	return nil
}

func runAuthLogout(explorer string, all bool) error {
	if all {
		path := credentialsFilePath()
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("removing credentials: %w", err)
		}
		fmt.Println("✅ All credentials cleared")
		return nil
	}

	if explorer == "" {
		explorer = getExplorerURL()
	}

	creds, err := loadCredentials()
	if err != nil {
		if os.IsNotExist(err) {
			fmt.Printf("No credentials found for %s\n", explorer)
			return nil
		}
		return fmt.Errorf("loading credentials: %w", err)
	}

	if _, exists := creds.Explorers[explorer]; !exists {
		fmt.Printf("No credentials found for %s\n", explorer)
		return nil
	}

	delete(creds.Explorers, explorer)

	if err := writeCredentials(creds); err != nil {
		return fmt.Errorf("saving credentials: %w", err)
	}

	fmt.Printf("✅ Removed key for %s\n", explorer)
	return nil
}

func runAuthStatus() error {
	creds, err := loadCredentials()
	if err != nil {
		if os.IsNotExist(err) {
			fmt.Println("No explorer keys saved")
			fmt.Println("\nRun 'verifactor auth login' to save one")
			return nil
		}
		return fmt.Errorf("loading credentials: %w", err)
	}

	if len(creds.Explorers) == 0 {
		fmt.Println("No explorer keys saved")
		fmt.Println("\nRun 'verifactor auth login' to save one")
		return nil
	}

	fmt.Println("Saved explorer keys:")
	for explorer, cred := range creds.Explorers {
		masked := maskAPIKey(cred.APIKey)
		if cred.Name != "" {
			fmt.Printf("  • %s (%s, key: %s)\n", explorer, cred.Name, masked)
		} else {
			fmt.Printf("  • %s (key: %s)\n", explorer, masked)
		}
	}

	return nil
}

// Credential file helpers

func credentialsDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".verifactor"
	}
	return filepath.Join(home, ".verifactor")
}

func credentialsFilePath() string {
	return filepath.Join(credentialsDir(), "credentials")
}

func loadCredentials() (*Credentials, error) {
	path := credentialsFilePath()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var creds Credentials
	if err := yaml.Unmarshal(data, &creds); err != nil {
		return nil, err
	}

	if creds.Explorers == nil {
		creds.Explorers = make(map[string]ExplorerCredential)
	}

	return &creds, nil
}

func writeCredentials(creds *Credentials) error {
	dir := credentialsDir()
	if err := os.MkdirAll(dir, 0700); err != nil {
		return err
	}

	data, err := yaml.Marshal(creds)
	if err != nil {
		return err
	}

	path := credentialsFilePath()
	return os.WriteFile(path, data, 0600) // Secure permissions
}

func saveCredential(explorer, apiKey string) error {
	creds, err := loadCredentials()
	if err != nil {
		if os.IsNotExist(err) {
			creds = &Credentials{Explorers: make(map[string]ExplorerCredential)}
		} else {
			return err
		}
	}

	creds.Explorers[explorer] = ExplorerCredential{APIKey: apiKey}
	return writeCredentials(creds)
}

func getCredential(explorer string) string {
	creds, err := loadCredentials()
	if err != nil {
		return ""
	}
	if cred, ok := creds.Explorers[explorer]; ok {
		return cred.APIKey
	}
	return ""
}

// validateAPIKey issues a cheap status request. An unknown guid still
// authenticates; only a key rejection counts as invalid.
func validateAPIKey(explorer, apiKey string) (bool, error) {
	q := url.Values{}
	q.Set("chainid", "1")
	q.Set("apikey", apiKey)
	q.Set("module", "contract")
	q.Set("action", "checkverifystatus")
	q.Set("guid", "verifactor-key-check")

	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, explorer+"?"+q.Encode(), nil)
	if err != nil {
		return false, err
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return false, err
	}

	var envelope struct {
		Status  string `json:"status"`
		Message string `json:"message"`
		Result  string `json:"result"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return false, fmt.Errorf("unexpected explorer response: %w", err)
	}

	if envelope.Status == "0" && strings.Contains(envelope.Result, "Invalid API Key") {
		return false, nil
	}

	return true, nil
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:8] + "..." + key[len(key)-4:]
}
