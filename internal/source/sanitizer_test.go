package source

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

const flattened = `// Sources flattened with hardhat v2.22.5 https://hardhat.org

// SPDX-License-Identifier: MIT
pragma solidity ^0.8.21;

contract A {}

// SPDX-License-Identifier: MIT
pragma solidity ^0.8.21;

contract B is A {}
`

func TestClean_RemovesBanner(t *testing.T) {
	out := Clean(flattened)

	assert.NotContains(t, out, "Sources flattened with")
	assert.True(t, strings.HasPrefix(out, "// SPDX-License-Identifier: MIT"))
}

func TestClean_DeduplicatesSPDXAndPragma(t *testing.T) {
	out := Clean(flattened)

	assert.Equal(t, 1, strings.Count(out, "SPDX-License-Identifier"))
	assert.Equal(t, 1, strings.Count(out, "pragma solidity"))
	// Contract bodies survive in order
	assert.Less(t, strings.Index(out, "contract A"), strings.Index(out, "contract B"))
}

func TestClean_ManyDuplicates(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 7; i++ {
		b.WriteString("// SPDX-License-Identifier: GPL-3.0\n")
		b.WriteString("pragma solidity >=0.7.0 <0.9.0;\n")
		b.WriteString("contract C {}\n")
	}

	out := Clean(b.String())
	assert.Equal(t, 1, strings.Count(out, "SPDX-License-Identifier"))
	assert.Equal(t, 1, strings.Count(out, "pragma solidity"))
	assert.Equal(t, 7, strings.Count(out, "contract C"))
}

func TestClean_NoBannerIsPassthrough(t *testing.T) {
	src := "// SPDX-License-Identifier: MIT\npragma solidity ^0.8.0;\n\ncontract Token {}\n"
	assert.Equal(t, src, Clean(src))
}

func TestClean_NoLicenseOrPragma(t *testing.T) {
	src := "contract Bare {}\n"
	assert.Equal(t, src, Clean(src))
}

func TestClean_Idempotent(t *testing.T) {
	once := Clean(flattened)
	assert.Equal(t, once, Clean(once))
}

func TestClean_OtherPragmasUntouched(t *testing.T) {
	src := "pragma solidity ^0.8.0;\npragma abicoder v2;\npragma experimental SMTChecker;\npragma solidity ^0.8.0;\n"
	out := Clean(src)

	assert.Equal(t, 1, strings.Count(out, "pragma solidity"))
	assert.Contains(t, out, "pragma abicoder v2;")
	assert.Contains(t, out, "pragma experimental SMTChecker;")
}

func TestSPDXIdentifier(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"mit", "// SPDX-License-Identifier: MIT\ncontract A {}", "MIT"},
		{"gpl with indent", "  // SPDX-License-Identifier: GPL-3.0\n", "GPL-3.0"},
		{"missing", "contract A {}", ""},
		{"first of many", "// SPDX-License-Identifier: MIT\n// SPDX-License-Identifier: Apache-2.0\n", "MIT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SPDXIdentifier(tt.src))
		})
	}
}
