package quotes

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/sync/errgroup"

	"github.com/Jose-Tepaz/epicareplans-marketplace-sub001/internal/types"
)

// DefaultQuoteTimeout bounds each carrier quote call.
const DefaultQuoteTimeout = 30 * time.Second

// QuoteRequest is the applicant/scope snapshot quotes are computed for.
type QuoteRequest struct {
	State         string               `json:"state" validate:"required,len=2,alpha"`
	ZipCode       string               `json:"zip_code" validate:"required,len=5,numeric"`
	EffectiveDate string               `json:"effective_date" validate:"required"`
	Facts         types.ApplicantFacts `json:"facts"`
}

// Validate checks the request using the validator.
func (r *QuoteRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// CarrierEndpoint is one carrier's quote endpoint with its credentials.
type CarrierEndpoint struct {
	Slug     types.CarrierSlug
	QuoteURL string
	Username string
	Password string
}

// carrierQuoteResponse is the wire shape of a carrier quote body.
type carrierQuoteResponse struct {
	Plans []types.InsurancePlan `json:"plans"`
}

// Service fans a quote request out to every configured carrier concurrently
// and merges the normalized plans. Per-carrier failures are tolerated as
// long as at least one carrier answers; a fully failed fan-out is an error.
type Service struct {
	endpoints  []CarrierEndpoint
	httpClient *http.Client
	cache      *Cache
	logger     *log.Logger
}

// NewService creates a quote service. A nil cache disables caching; a nil
// logger uses the standard logger.
func NewService(endpoints []CarrierEndpoint, cache *Cache, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.Default()
	}
	return &Service{
		endpoints:  endpoints,
		httpClient: &http.Client{Timeout: DefaultQuoteTimeout},
		cache:      cache,
		logger:     logger,
	}
}

// Quotes returns the merged plan list for a request, serving from the cache
// when the same applicant snapshot was quoted within the TTL.
func (s *Service) Quotes(ctx context.Context, req QuoteRequest) ([]types.InsurancePlan, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("invalid quote request: %w", err)
	}
	if len(s.endpoints) == 0 {
		return nil, errors.New("no carrier endpoints configured")
	}

	key := Fingerprint(req)
	if s.cache != nil {
		if plans, ok := s.cache.Get(key); ok {
			return plans, nil
		}
	}

	results := make([][]types.InsurancePlan, len(s.endpoints))
	failures := make([]error, len(s.endpoints))

	g, ctx := errgroup.WithContext(ctx)
	for i, ep := range s.endpoints {
		g.Go(func() error {
			plans, err := s.fetchCarrier(ctx, ep, req)
			if err != nil {
				// A single carrier being down must not sink the whole
				// marketplace; record and continue.
				s.logger.Printf("quotes: carrier %s failed: %v", ep.Slug, err)
				failures[i] = err
				return nil
			}
			results[i] = plans
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var merged []types.InsurancePlan
	anySuccess := false
	for i := range s.endpoints {
		if failures[i] == nil {
			anySuccess = true
			merged = append(merged, results[i]...)
		}
	}
	if !anySuccess {
		return nil, fmt.Errorf("all carriers failed: %w", errors.Join(failures...))
	}

	if s.cache != nil {
		s.cache.Put(key, merged)
	}
	return merged, nil
}

func (s *Service) fetchCarrier(ctx context.Context, ep CarrierEndpoint, req QuoteRequest) ([]types.InsurancePlan, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode quote request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, ep.QuoteURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create quote request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.SetBasicAuth(ep.Username, ep.Password)

	resp, err := s.httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("carrier %s returned HTTP %d", ep.Slug, resp.StatusCode)
	}

	var out carrierQuoteResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("carrier %s returned unparseable quote body: %w", ep.Slug, err)
	}

	// Stamp the carrier slug: upstream responses are inconsistent about
	// including it.
	for i := range out.Plans {
		if out.Plans[i].Carrier == "" {
			out.Plans[i].Carrier = ep.Slug
		}
	}
	return out.Plans, nil
}
