package chains

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestByID(t *testing.T) {
	n, ok := ByID(1)
	require.True(t, ok)
	assert.Equal(t, "Ethereum Mainnet", n.Name)
	assert.False(t, n.Testnet)

	_, ok = ByID(999999999)
	assert.False(t, ok)
}

func TestByAlias(t *testing.T) {
	n, ok := ByAlias("sepolia")
	require.True(t, ok)
	assert.Equal(t, 11155111, n.ID)
	assert.True(t, n.Testnet)

	// Case and whitespace insensitive
	n, ok = ByAlias("  Base ")
	require.True(t, ok)
	assert.Equal(t, 8453, n.ID)

	_, ok = ByAlias("no-such-network")
	assert.False(t, ok)
}

func TestAll_UniqueIDsAndAliases(t *testing.T) {
	ids := map[int]bool{}
	aliases := map[string]bool{}
	for _, n := range All() {
		assert.False(t, ids[n.ID], "duplicate chain id %d", n.ID)
		assert.False(t, aliases[n.Alias], "duplicate alias %s", n.Alias)
		ids[n.ID] = true
		aliases[n.Alias] = true
	}
}
