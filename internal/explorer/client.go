package explorer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// DefaultBaseURL is the Etherscan v2 multichain endpoint. One URL
// serves every supported network; the chainid query parameter routes
// the request.
const DefaultBaseURL = "https://api.etherscan.io/v2/api"

// ErrRejected is returned when the explorer refuses a submission
// (malformed request, duplicate verification, bad API key). The
// wrapped message is the service's text, verbatim.
var ErrRejected = errors.New("submission rejected")

// Client talks to an Etherscan-compatible verification API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(client *Client) {
		client.httpClient = c
	}
}

// WithRateLimit overrides the client-side request pacing.
func WithRateLimit(rps float64, burst int) Option {
	return func(client *Client) {
		client.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// New creates a client for the given explorer endpoint. Requests are
// paced at 5/s by default, matching the explorer's free-tier limit.
func New(baseURL, apiKey string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	c := &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		limiter: rate.NewLimiter(rate.Limit(5), 5),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// SubmitSource submits a cleaned, flattened source file for
// verification and returns the tracking guid. A status "0" response
// is surfaced as ErrRejected with the service message; it is not
// retried.
func (c *Client) SubmitSource(ctx context.Context, chainID int, req SubmitRequest) (string, error) {
	form := buildSubmitForm(req)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(chainID), strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("building submit request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.do(httpReq)
	if err != nil {
		return "", err
	}

	if resp.Status != "1" {
		return "", fmt.Errorf("%w: %s", ErrRejected, rejectionText(resp))
	}
	return resp.Result, nil
}

// CheckStatus fetches the current verification state for a tracking
// guid. The returned string is the explorer's raw result text, e.g.
// "Pass - Verified", "Fail - Unable to verify", "Pending in queue".
func (c *Client) CheckStatus(ctx context.Context, chainID int, guid string) (string, error) {
	u := c.endpoint(chainID) +
		"&module=" + moduleContract +
		"&action=" + actionCheckStatus +
		"&guid=" + url.QueryEscape(guid)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return "", fmt.Errorf("building status request: %w", err)
	}

	resp, err := c.do(httpReq)
	if err != nil {
		return "", err
	}

	// The status flag mirrors the result text here ("0" while pending
	// or failed, "1" once verified), so the caller classifies on the
	// result string alone.
	return resp.Result, nil
}

// endpoint builds the base URL with the routing parameters that must
// live in the query string.
func (c *Client) endpoint(chainID int) string {
	return c.baseURL + "?chainid=" + strconv.Itoa(chainID) + "&apikey=" + url.QueryEscape(c.apiKey)
}

// buildSubmitForm encodes the form body for a submission. Routing
// parameters (chainid, apikey) live in the query string and have no
// form field here.
func buildSubmitForm(req SubmitRequest) url.Values {
	optimization := "0"
	if req.OptimizationUsed {
		optimization = "1"
	}

	form := url.Values{}
	form.Set("module", moduleContract)
	form.Set("action", actionVerify)
	form.Set("codeformat", codeFormatSingleFile)
	form.Set("contractaddress", req.ContractAddress)
	form.Set("sourceCode", req.SourceCode)
	form.Set("contractname", req.ContractName)
	form.Set("compilerversion", req.CompilerVersion)
	form.Set("optimizationUsed", optimization)
	form.Set("runs", strconv.Itoa(req.Runs))
	// The misspelling is the API's own field name.
	form.Set("constructorArguements", req.ConstructorArgs)
	if req.EVMVersion != "" {
		form.Set("evmversion", req.EVMVersion)
	}
	if req.LicenseType > 0 {
		form.Set("licenseType", strconv.Itoa(req.LicenseType))
	}
	return form
}

func (c *Client) do(req *http.Request) (*apiResponse, error) {
	if err := c.limiter.Wait(req.Context()); err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling explorer: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("explorer returned HTTP %d", resp.StatusCode)
	}

	var parsed apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decoding explorer response: %w", err)
	}
	return &parsed, nil
}

// rejectionText prefers the result field (detailed reason) over the
// generic message ("NOTOK").
func rejectionText(resp *apiResponse) string {
	if resp.Result != "" {
		return resp.Result
	}
	return resp.Message
}
