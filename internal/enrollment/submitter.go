package enrollment

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

	"github.com/Jose-Tepaz/epicareplans-marketplace-sub001/internal/bundle"
)

// DefaultTimeout bounds the enrollment submission call.
const DefaultTimeout = 60 * time.Second

// SubmitterConfig configures the enrollment submitter.
type SubmitterConfig struct {
	EnrollmentURL string
	Username      string
	Password      string
	Timeout       time.Duration
}

// Submitter posts enrollment requests to the carrier Enrollment endpoint.
// It speaks the same error dialect as the bundle endpoint, so failures are
// classified with the bundle taxonomy.
type Submitter struct {
	url        string
	username   string
	password   string
	httpClient *http.Client
}

// NewSubmitter creates a submitter.
func NewSubmitter(cfg SubmitterConfig) (*Submitter, error) {
	if cfg.EnrollmentURL == "" {
		return nil, fmt.Errorf("enrollment URL is required")
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	return &Submitter{
		url:        cfg.EnrollmentURL,
		username:   cfg.Username,
		password:   cfg.Password,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

// Submit posts the enrollment and returns the carrier's acceptance record.
func (s *Submitter) Submit(ctx context.Context, req *Request) (*Result, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode enrollment request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create enrollment request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.SetBasicAuth(s.username, s.password)

	resp, err := s.httpClient.Do(httpReq)
	if err != nil {
		if isTimeout(err) {
			return nil, &bundle.TimeoutError{URL: s.url, Cause: err}
		}
		return nil, &bundle.TransportError{URL: s.url, Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &bundle.TransportError{URL: s.url, Cause: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, bundle.ClassifyErrorBody(resp.StatusCode, body)
	}

	var result Result
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, &bundle.ContractError{Message: "enrollment response failed decoding", Cause: err}
	}
	if result.ConfirmationNumber == "" {
		return nil, &bundle.ContractError{Message: "enrollment response missing confirmation number"}
	}
	return &result, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
