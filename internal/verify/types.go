// Package verify contains the business logic for submitting a
// flattened contract source to a block explorer and polling the
// verification outcome.
package verify

import "strings"

// Status is the state of a verification, terminal except for
// StatusPending.
type Status int

const (
	StatusPending Status = iota
	StatusVerified
	StatusFailed
	StatusTimedOut
)

// String returns the wire/storage name of the status.
func (s Status) String() string {
	switch s {
	case StatusVerified:
		return "verified"
	case StatusFailed:
		return "failed"
	case StatusTimedOut:
		return "timeout"
	default:
		return "pending"
	}
}

// StatusFromString parses a stored status name. Unknown strings map to
// StatusPending.
func StatusFromString(s string) Status {
	switch s {
	case "verified":
		return StatusVerified
	case "failed":
		return StatusFailed
	case "timeout":
		return StatusTimedOut
	default:
		return StatusPending
	}
}

// Terminal reports whether the status is final.
func (s Status) Terminal() bool {
	return s != StatusPending
}

// Result is the outcome of a verification run.
type Result struct {
	Status   Status
	Detail   string // explorer text, verbatim, for failed/pending states
	GUID     string // tracking identifier from the submit call
	Attempts int    // status checks consumed
}

// Request describes one contract verification.
type Request struct {
	ChainID          int
	Address          string
	Source           string
	ContractName     string
	CompilerVersion  string
	OptimizationRuns int // 0 disables the optimizer
	ConstructorArgs  string
	EVMVersion       string
	LicenseCode      int // 0 means detect from the source's SPDX line
}

// Classify maps the explorer's free-text verification status to a
// Status. An exact "Pass" prefix is verified; any "Fail" substring is
// a failure; everything else (e.g. "Pending in queue") is pending.
func Classify(result string) (Status, string) {
	if strings.HasPrefix(result, "Pass") {
		return StatusVerified, ""
	}
	if strings.Contains(result, "Fail") {
		return StatusFailed, result
	}
	return StatusPending, result
}
