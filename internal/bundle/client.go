package bundle

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/Jose-Tepaz/epicareplans-marketplace-sub001/internal/types"
)

// DefaultTimeout is the hard timeout on the carrier bundle call. A call
// exceeding it fails with a TimeoutError rather than hanging.
const DefaultTimeout = 60 * time.Second

// maxErrorBodyBytes caps how much of an opaque error body is retained.
const maxErrorBodyBytes = 4096

// ClientConfig configures the bundle client.
type ClientConfig struct {
	BundleURL string
	Username  string
	Password  string
	Timeout   time.Duration // defaults to DefaultTimeout
}

// Client performs the HTTP exchange with the carrier's ApplicationBundle
// endpoint and classifies outcomes. It never retries: retries are a caller
// policy, and a replay is only safe when the prior attempt is confirmed
// not-accepted.
type Client struct {
	url        string
	username   string
	password   string
	httpClient *http.Client
}

// NewClient creates a bundle client.
func NewClient(cfg ClientConfig) (*Client, error) {
	if cfg.BundleURL == "" {
		return nil, fmt.Errorf("bundle URL is required")
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		url:        cfg.BundleURL,
		username:   cfg.Username,
		password:   cfg.Password,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

// FetchBundle posts the request and returns the parsed applications.
// Failures are returned as one of the typed errors in this package:
// TimeoutError, TransportError, CarrierError, OpaqueError, ContractError.
func (c *Client) FetchBundle(ctx context.Context, req *types.BundleRequest) (*types.BundleResponse, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode bundle request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create bundle request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.SetBasicAuth(c.username, c.password)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if isTimeout(err) {
			return nil, &TimeoutError{URL: c.url, Cause: err}
		}
		return nil, &TransportError{URL: c.url, Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		if isTimeout(err) {
			return nil, &TimeoutError{URL: c.url, Cause: err}
		}
		return nil, &TransportError{URL: c.url, Cause: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, ClassifyErrorBody(resp.StatusCode, body)
	}

	if err := validateBundleShape(body); err != nil {
		return nil, err
	}

	var out types.BundleResponse
	if err := json.Unmarshal(body, &out); err != nil {
		// The schema passed but decoding still failed (e.g. an unknown
		// answer type variant): still contract drift.
		return nil, &ContractError{Message: "response body failed decoding", Cause: err}
	}
	return &out, nil
}

// ClassifyErrorBody turns a non-2xx carrier body into a CarrierError when it
// parses as the structured error array, or an OpaqueError otherwise. Shared
// with the enrollment submitter, which speaks the same error dialect.
func ClassifyErrorBody(statusCode int, body []byte) error {
	var details []types.CarrierErrorDetail
	if err := json.Unmarshal(body, &details); err == nil && len(details) > 0 {
		return &CarrierError{StatusCode: statusCode, Details: details}
	}
	if len(body) > maxErrorBodyBytes {
		body = body[:maxErrorBodyBytes]
	}
	return &OpaqueError{StatusCode: statusCode, Body: string(body)}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
