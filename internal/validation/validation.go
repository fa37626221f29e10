// Package validation provides input validation for verifactor.
package validation

import (
	"errors"
	"strings"

	"golang.org/x/mod/semver"
)

// ValidateAddress validates an EVM contract address.
func ValidateAddress(addr string) error {
	if len(addr) != 42 {
		return errors.New("invalid address length: must be 42 characters (0x + 40 hex)")
	}
	if !strings.HasPrefix(addr, "0x") {
		return errors.New("invalid address: must start with 0x")
	}
	if !isHex(addr[2:]) {
		return errors.New("invalid address: contains non-hex characters")
	}
	return nil
}

// ValidateChainID validates a chain ID.
func ValidateChainID(chainID int) error {
	if chainID <= 0 {
		return errors.New("chain ID must be positive")
	}
	return nil
}

// ValidateCompilerVersion validates a solc release tag as the explorer
// expects it: "v0.8.21+commit.d9974bed". The commit suffix is required;
// verification against a bare version number fails server-side with a
// compiler-not-found error, so it is cheaper to reject it here.
func ValidateCompilerVersion(v string) error {
	if v == "" {
		return errors.New("compiler version cannot be empty")
	}
	if !strings.HasPrefix(v, "v") {
		return errors.New("invalid compiler version: must start with 'v' (e.g. v0.8.21+commit.d9974bed)")
	}

	core, commit, found := strings.Cut(v, "+")
	if !found || !strings.HasPrefix(commit, "commit.") || len(commit) <= len("commit.") {
		return errors.New("invalid compiler version: missing +commit.<hash> suffix")
	}

	if !semver.IsValid(core) || strings.Count(core, ".") != 2 {
		return errors.New("invalid compiler version: expected vX.Y.Z+commit.<hash>")
	}
	return nil
}

// ValidateConstructorArgs validates ABI-encoded constructor arguments:
// hex, whole 32-byte words, optional 0x prefix. Empty is valid (no
// constructor arguments).
func ValidateConstructorArgs(args string) error {
	args = strings.TrimPrefix(args, "0x")
	if args == "" {
		return nil
	}
	if len(args)%64 != 0 {
		return errors.New("invalid constructor arguments: length must be a multiple of 64 hex characters (32-byte words)")
	}
	if !isHex(args) {
		return errors.New("invalid constructor arguments: contains non-hex characters")
	}
	return nil
}

func isHex(s string) bool {
	for _, c := range s {
		isDigit := c >= '0' && c <= '9'
		isLowerHex := c >= 'a' && c <= 'f'
		isUpperHex := c >= 'A' && c <= 'F'
		if !isDigit && !isLowerHex && !isUpperHex {
			return false
		}
	}
	return len(s) > 0
}
