// Package transport provides HTTP request/response types for the
// submissions domain.
package transport

import "github.com/pendergraft/verifactor/internal/submissions/domain"

// CreateRequest is the HTTP request body for submitting a verification.
type CreateRequest struct {
	ChainID          int    `json:"chainId"`
	Address          string `json:"address"`
	Source           string `json:"source"`
	ContractName     string `json:"contractName"`
	CompilerVersion  string `json:"compilerVersion"`
	OptimizationRuns int    `json:"optimizationRuns,omitempty"`
	ConstructorArgs  string `json:"constructorArgs,omitempty"`
	EVMVersion       string `json:"evmVersion,omitempty"`
	LicenseCode      int    `json:"licenseCode,omitempty"`
}

// ToDomain converts CreateRequest to domain.CreateRequest.
func (r CreateRequest) ToDomain() domain.CreateRequest {
	return domain.CreateRequest{
		ChainID:          r.ChainID,
		Address:          r.Address,
		Source:           r.Source,
		ContractName:     r.ContractName,
		CompilerVersion:  r.CompilerVersion,
		OptimizationRuns: r.OptimizationRuns,
		ConstructorArgs:  r.ConstructorArgs,
		EVMVersion:       r.EVMVersion,
		LicenseCode:      r.LicenseCode,
	}
}

// SubmissionListResponse is the response for listing submissions.
type SubmissionListResponse struct {
	Data       []domain.Submission `json:"data"`
	Pagination Pagination          `json:"pagination"`
}

// Pagination provides pagination metadata.
type Pagination struct {
	Limit      int    `json:"limit"`
	HasMore    bool   `json:"hasMore"`
	NextCursor string `json:"nextCursor,omitempty"`
}

// ErrorResponse is the standard error response format.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
