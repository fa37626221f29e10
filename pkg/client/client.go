// Package client provides a Go client for the Verifactor relay API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Client is a Verifactor relay API client
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client
func WithHTTPClient(c *http.Client) Option {
	return func(client *Client) {
		client.httpClient = c
	}
}

// New creates a new relay client
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Submission is a relayed verification and its current state
type Submission struct {
	ID              string `json:"id"`
	ChainID         int    `json:"chainId"`
	Address         string `json:"address"`
	ContractName    string `json:"contractName"`
	CompilerVersion string `json:"compilerVersion"`
	GUID            string `json:"guid"`
	Status          string `json:"status"`
	Detail          string `json:"detail,omitempty"`
	CreatedAt       string `json:"createdAt,omitempty"`
	UpdatedAt       string `json:"updatedAt,omitempty"`
}

// VerificationRequest is the request for submitting a verification
type VerificationRequest struct {
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

// ListFilter narrows ListVerifications results
type ListFilter struct {
	ChainID int
	Address string
	Status  string
	Limit   int
	Cursor  string
}

// ListVerificationsResponse is the response for listing verifications
type ListVerificationsResponse struct {
	Data       []Submission `json:"data"`
	Pagination Pagination   `json:"pagination"`
}

// Pagination contains pagination info
type Pagination struct {
	Limit      int    `json:"limit"`
	HasMore    bool   `json:"hasMore"`
	NextCursor string `json:"nextCursor,omitempty"`
}

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// SubmitVerification relays a verification request through the server
func (c *Client) SubmitVerification(ctx context.Context, req VerificationRequest) (*Submission, error) {
	var resp Submission
	if err := c.post(ctx, "/api/v1/verifications", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetVerification gets a submission by ID
func (c *Client) GetVerification(ctx context.Context, id string) (*Submission, error) {
	var resp Submission
	if err := c.get(ctx, "/api/v1/verifications/"+url.PathEscape(id), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ListVerifications lists submissions
func (c *Client) ListVerifications(ctx context.Context, filter ListFilter) (*ListVerificationsResponse, error) {
	q := url.Values{}
	if filter.ChainID != 0 {
		q.Set("chain_id", strconv.Itoa(filter.ChainID))
	}
	if filter.Address != "" {
		q.Set("address", filter.Address)
	}
	if filter.Status != "" {
		q.Set("status", filter.Status)
	}
	if filter.Limit != 0 {
		q.Set("limit", strconv.Itoa(filter.Limit))
	}
	if filter.Cursor != "" {
		q.Set("cursor", filter.Cursor)
	}

	path := "/api/v1/verifications"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var resp ListVerificationsResponse
	if err := c.get(ctx, path, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) get(ctx context.Context, path string, result any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}

	return c.do(req, result)
}

func (c *Client) post(ctx context.Context, path string, body, result any) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, result)
}

func (c *Client) do(req *http.Request, result any) error {
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return c.parseError(resp)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}

	return nil
}

func (c *Client) parseError(resp *http.Response) error {
	var errResp struct {
		Error APIError `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&errResp); err != nil {
		return fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
	}
	return &errResp.Error
}
