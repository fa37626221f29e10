// Package explorer implements a client for Etherscan-compatible
// block-explorer verification APIs.
package explorer

// SubmitRequest carries everything the explorer needs to compile and
// compare a flattened source file against on-chain bytecode.
//
// The routing chain id is deliberately absent: the explorer silently
// misroutes requests that carry it in the form body, so the client
// only ever accepts it as a typed argument and places it in the URL
// query string.
type SubmitRequest struct {
	ContractAddress  string
	SourceCode       string
	ContractName     string
	CompilerVersion  string // e.g. "v0.8.21+commit.d9974bed"
	OptimizationUsed bool
	Runs             int
	ConstructorArgs  string // ABI-encoded hex, no 0x prefix
	EVMVersion       string // "" lets the compiler default apply
	LicenseType      int    // explorer license code, see internal/licenses
}

// apiResponse is the explorer's uniform response envelope.
// status "1" means OK and result carries the payload; status "0"
// means rejection and result (or message) carries the reason.
type apiResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Result  string `json:"result"`
}

const (
	moduleContract    = "contract"
	actionVerify      = "verifysourcecode"
	actionCheckStatus = "checkverifystatus"

	// Single flattened file; standard-json input is not supported here.
	codeFormatSingleFile = "solidity-single-file"
)
