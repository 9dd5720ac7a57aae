package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	nethttp "net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/jtdman/CashRegister/internal/config"
	"github.com/jtdman/CashRegister/internal/constants"
	"github.com/jtdman/CashRegister/internal/http"
	"github.com/jtdman/CashRegister/internal/models"
)

// Client represents the cash register API client
type Client struct {
	httpClient *nethttp.Client
	baseURL    string
}

// NewClient creates a new API client
func NewClient(cfg *config.Config) (*Client, error) {
	if strings.TrimSpace(cfg.API.BaseURL) == "" {
		return nil, fmt.Errorf("API base URL is empty")
	}

	// Wrap the shared transport with retryablehttp for its connection
	// handling. RetryMax is zero: every request gets exactly one attempt,
	// failures are terminal for the invocation.
	retryClient := retryablehttp.NewClient()
	retryClient.HTTPClient = http.NewClient()
	retryClient.RetryMax = 0
	retryClient.Logger = nil

	return &Client{
		httpClient: retryClient.StandardClient(),
		baseURL:    strings.TrimSuffix(cfg.API.BaseURL, "/"),
	}, nil
}

// BaseURL returns the server base URL this client talks to
func (c *Client) BaseURL() string {
	return c.baseURL
}

// doRequest performs an HTTP request against the server
func (c *Client) doRequest(ctx context.Context, method, path string, query url.Values, contentType string, body io.Reader) (*nethttp.Response, error) {
	requestURL := c.baseURL + path
	if len(query) > 0 {
		requestURL += "?" + query.Encode()
	}

	req, err := nethttp.NewRequestWithContext(ctx, method, requestURL, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}

	return resp, nil
}

// CheckHealth reports whether the API server is reachable and healthy.
// Any network failure or non-200 response counts as unavailable; no error
// escapes so callers can branch on the boolean alone.
func (c *Client) CheckHealth(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, constants.HealthCheckTimeout)
	defer cancel()

	resp, err := c.doRequest(ctx, "GET", "/health", nil, "", nil)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	return resp.StatusCode == nethttp.StatusOK
}

// ProcessTransactions submits raw transaction text to the server.
// Options are encoded as query parameters, included only when set: a nil
// Divisor produces no divisor parameter, false flags produce nothing.
// The body is the text exactly as read from the input file.
func (c *Client) ProcessTransactions(ctx context.Context, text string, opts models.ProcessOptions) (*models.ProcessResult, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.ProcessTimeout)
	defer cancel()

	query := url.Values{}
	if opts.Divisor != nil {
		query.Set("divisor", strconv.Itoa(*opts.Divisor))
	}
	if opts.NoPennies {
		query.Set("noPennies", "true")
	}
	if opts.HalfDollars {
		query.Set("halfDollars", "true")
	}

	resp, err := c.doRequest(ctx, "POST", "/process", query, "text/plain", strings.NewReader(text))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != nethttp.StatusOK {
		return nil, newServerError(resp)
	}

	var result models.ProcessResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode process response: %w", err)
	}

	return &result, nil
}
