// Package licenses maps explorer license codes to SPDX identifiers.
package licenses

import (
	"strings"

	"github.com/pendergraft/verifactor/internal/source"
)

// License is one row of the explorer's license table. The explorer
// identifies licenses by small integer codes, not SPDX strings.
type License struct {
	Code int    `json:"code"`
	SPDX string `json:"spdx"`
	Name string `json:"name"`
}

// CodeNone is submitted when the source carries no recognizable
// license.
const CodeNone = 1

var table = []License{
	{Code: 1, SPDX: "None", Name: "No License"},
	{Code: 2, SPDX: "Unlicense", Name: "The Unlicense"},
	{Code: 3, SPDX: "MIT", Name: "MIT License"},
	{Code: 4, SPDX: "GPL-2.0", Name: "GNU GPLv2"},
	{Code: 5, SPDX: "GPL-3.0", Name: "GNU GPLv3"},
	{Code: 6, SPDX: "LGPL-2.1", Name: "GNU LGPLv2.1"},
	{Code: 7, SPDX: "LGPL-3.0", Name: "GNU LGPLv3"},
	{Code: 8, SPDX: "BSD-2-Clause", Name: "BSD 2-Clause"},
	{Code: 9, SPDX: "BSD-3-Clause", Name: "BSD 3-Clause"},
	{Code: 10, SPDX: "MPL-2.0", Name: "Mozilla Public License 2.0"},
	{Code: 11, SPDX: "OSL-3.0", Name: "Open Software License 3.0"},
	{Code: 12, SPDX: "Apache-2.0", Name: "Apache 2.0"},
	{Code: 13, SPDX: "AGPL-3.0", Name: "GNU AGPLv3"},
	{Code: 14, SPDX: "BUSL-1.1", Name: "Business Source License 1.1"},
}

// All returns the license table in code order.
func All() []License {
	out := make([]License, len(table))
	copy(out, table)
	return out
}

// ByCode looks up a license by explorer code.
func ByCode(code int) (License, bool) {
	for _, l := range table {
		if l.Code == code {
			return l, true
		}
	}
	return License{}, false
}

// BySPDX looks up a license by SPDX identifier, ignoring case and any
// "-only"/"-or-later" qualifier (the explorer table doesn't
// distinguish them).
func BySPDX(id string) (License, bool) {
	id = strings.TrimSpace(id)
	id = strings.TrimSuffix(id, "-only")
	id = strings.TrimSuffix(id, "-or-later")
	for _, l := range table {
		if strings.EqualFold(l.SPDX, id) {
			return l, true
		}
	}
	return License{}, false
}

// DetectCode returns the explorer license code for the first SPDX
// identifier found in src, or CodeNone when the source has no SPDX
// line or an identifier outside the explorer's table.
func DetectCode(src string) int {
	id := source.SPDXIdentifier(src)
	if id == "" {
		return CodeNone
	}
	if l, ok := BySPDX(id); ok {
		return l.Code
	}
	return CodeNone
}
