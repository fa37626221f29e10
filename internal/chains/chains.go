// Package chains holds the table of networks reachable through the
// multichain explorer endpoint.
package chains

import "strings"

// Network describes one explorer-supported network.
type Network struct {
	ID      int    `json:"chainId"`
	Name    string `json:"name"`
	Alias   string `json:"alias"` // short CLI name, e.g. "sepolia"
	Testnet bool   `json:"testnet,omitempty"`
}

// The table is documentation and CLI selection only. Unknown chain ids
// are passed through to the explorer, which is the authority on what
// it routes.
var networks = []Network{
	{ID: 1, Name: "Ethereum Mainnet", Alias: "mainnet"},
	{ID: 11155111, Name: "Sepolia", Alias: "sepolia", Testnet: true},
	{ID: 17000, Name: "Holesky", Alias: "holesky", Testnet: true},
	{ID: 56, Name: "BNB Smart Chain", Alias: "bsc"},
	{ID: 97, Name: "BNB Smart Chain Testnet", Alias: "bsc-testnet", Testnet: true},
	{ID: 137, Name: "Polygon", Alias: "polygon"},
	{ID: 80002, Name: "Polygon Amoy", Alias: "amoy", Testnet: true},
	{ID: 42161, Name: "Arbitrum One", Alias: "arbitrum"},
	{ID: 421614, Name: "Arbitrum Sepolia", Alias: "arbitrum-sepolia", Testnet: true},
	{ID: 10, Name: "OP Mainnet", Alias: "optimism"},
	{ID: 11155420, Name: "OP Sepolia", Alias: "optimism-sepolia", Testnet: true},
	{ID: 8453, Name: "Base", Alias: "base"},
	{ID: 84532, Name: "Base Sepolia", Alias: "base-sepolia", Testnet: true},
	{ID: 43114, Name: "Avalanche C-Chain", Alias: "avalanche"},
	{ID: 250, Name: "Fantom Opera", Alias: "fantom"},
	{ID: 59144, Name: "Linea", Alias: "linea"},
	{ID: 534352, Name: "Scroll", Alias: "scroll"},
	{ID: 100, Name: "Gnosis", Alias: "gnosis"},
}

// All returns the network table in display order.
func All() []Network {
	out := make([]Network, len(networks))
	copy(out, networks)
	return out
}

// ByID looks up a network by chain id.
func ByID(id int) (Network, bool) {
	for _, n := range networks {
		if n.ID == id {
			return n, true
		}
	}
	return Network{}, false
}

// ByAlias looks up a network by its short CLI name,
// case-insensitively.
func ByAlias(alias string) (Network, bool) {
	alias = strings.ToLower(strings.TrimSpace(alias))
	for _, n := range networks {
		if n.Alias == alias {
			return n, true
		}
	}
	return Network{}, false
}
