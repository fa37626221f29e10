// Package source cleans flattened Solidity source files before submission.
package source

import (
	"regexp"
	"strings"
)

// Flattener diagnostic banners prepended by common tools
// (hardhat flatten, truffle-flattener, poa solidity-flattener).
var bannerRegex = regexp.MustCompile(`^// Sources flattened with|^// Dependency file:|^// File generated by`)

// License identifier lines (SPDX-License-Identifier: MIT etc.)
var spdxRegex = regexp.MustCompile(`^\s*//\s*SPDX-License-Identifier:\s*(\S+)`)

// Compiler version pragma lines (pragma solidity ^0.8.0;)
var pragmaRegex = regexp.MustCompile(`^\s*pragma\s+solidity\s`)

// Clean sanitizes a flattened source blob for explorer submission:
// the flattener banner is removed, and only the first SPDX license
// line and the first solidity version pragma are kept. Every other
// line passes through in order. Running Clean on its own output is a
// no-op.
func Clean(src string) string {
	lines := strings.Split(src, "\n")
	out := make([]string, 0, len(lines))

	var seenSPDX, seenPragma, pastBanner, sawBanner bool
	for _, line := range lines {
		// The banner only appears at the top, before any real code.
		// Blank lines are dropped there only when they trail a removed
		// banner, so banner-free input passes through untouched.
		if !pastBanner {
			trimmed := strings.TrimSpace(line)
			if bannerRegex.MatchString(trimmed) {
				sawBanner = true
				continue
			}
			if trimmed == "" {
				if sawBanner {
					continue
				}
				out = append(out, line)
				continue
			}
			pastBanner = true
		}

		if spdxRegex.MatchString(line) {
			if seenSPDX {
				continue
			}
			seenSPDX = true
		}

		if pragmaRegex.MatchString(line) {
			if seenPragma {
				continue
			}
			seenPragma = true
		}

		out = append(out, line)
	}

	return strings.Join(out, "\n")
}

// SPDXIdentifier returns the license identifier from the first SPDX
// line in the source, or "" if none is present.
func SPDXIdentifier(src string) string {
	for _, line := range strings.Split(src, "\n") {
		if m := spdxRegex.FindStringSubmatch(line); m != nil {
			return m[1]
		}
	}
	return ""
}
