package domain

import "time"

// Submission is a relayed verification request and its current state.
type Submission struct {
	ID              string    `json:"id"`
	ChainID         int       `json:"chainId"`
	Address         string    `json:"address"`
	ContractName    string    `json:"contractName"`
	CompilerVersion string    `json:"compilerVersion"`
	GUID            string    `json:"guid"`
	Status          string    `json:"status"`
	Detail          string    `json:"detail,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// CreateRequest describes a new verification submission.
type CreateRequest struct {
	ChainID          int
	Address          string
	Source           string
	ContractName     string
	CompilerVersion  string
	OptimizationRuns int
	ConstructorArgs  string
	EVMVersion       string
	LicenseCode      int
}

// ListFilter contains filter options for listing submissions.
type ListFilter struct {
	ChainID int
	Address string
	Status  string
}

// PaginationParams contains pagination options.
type PaginationParams struct {
	Limit  int
	Cursor string
}

// ListResult contains a page of submissions.
type ListResult struct {
	Submissions []Submission
	HasMore     bool
	NextCursor  string
}
