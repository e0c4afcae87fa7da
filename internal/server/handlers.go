package server

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/Jose-Tepaz/epicareplans-marketplace-sub001/internal/attribution"
	"github.com/Jose-Tepaz/epicareplans-marketplace-sub001/internal/bundle"
	"github.com/Jose-Tepaz/epicareplans-marketplace-sub001/internal/db"
	"github.com/Jose-Tepaz/epicareplans-marketplace-sub001/internal/enrollment"
	"github.com/Jose-Tepaz/epicareplans-marketplace-sub001/internal/questions"
	"github.com/Jose-Tepaz/epicareplans-marketplace-sub001/internal/quotes"
	"github.com/Jose-Tepaz/epicareplans-marketplace-sub001/internal/types"
)

// handleQuotes runs the multi-carrier quote fan-out for an applicant snapshot.
func (s *Server) handleQuotes(w http.ResponseWriter, r *http.Request) {
	var req quotes.QuoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.jsonResponse(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
		return
	}
	if err := req.Validate(); err != nil {
		s.jsonResponse(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	plans, err := s.quoteService.Quotes(r.Context(), req)
	if err != nil {
		// Every carrier failed; nothing to quote from.
		s.jsonResponse(w, http.StatusBadGateway, map[string]string{
			"error":    err.Error(),
			"guidance": "We couldn't fetch quotes right now. Please try again.",
		})
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{"plans": plans})
}

// bundleResponseBody pairs the built carrier request with the carrier's
// answer so the client can drive the dynamic form and later enroll against
// the same form number.
type bundleResponseBody struct {
	Request  *types.BundleRequest  `json:"request"`
	Response *types.BundleResponse `json:"response"`
}

// handleBundle builds a bundle request from the cart and applicant facts,
// fetches the eligibility questions from the carrier and returns both.
func (s *Server) handleBundle(w http.ResponseWriter, r *http.Request) {
	if err := requireJSON(r); err != nil {
		s.jsonResponse(w, http.StatusUnsupportedMediaType, map[string]string{"error": err.Error()})
		return
	}

	var in bundle.BuildInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		s.jsonResponse(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
		return
	}

	// A referral link or cookie overrides the configured writing agent.
	if agentID, ok := attribution.AgentFromRequest(r); ok {
		in.AgentID = agentID
	} else if in.AgentID == 0 {
		in.AgentID = s.cfg.AgentID
	}

	req, err := s.builder.Build(in)
	if err != nil {
		s.classifiedError(w, err)
		return
	}

	resp, err := s.bundleClient.FetchBundle(r.Context(), req)
	if err != nil {
		s.classifiedError(w, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, bundleResponseBody{Request: req, Response: resp})
}

// validateRequestBody is a client-side state snapshot to validate.
type validateRequestBody struct {
	Questions []types.EligibilityQuestion `json:"questions"`
	Responses types.ResponseSet           `json:"responses"`
}

// handleValidate validates a response set against its questions without any
// carrier round-trip. Every question counts as attempted, so missing answers
// are reported alongside knockouts.
func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	var body validateRequestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.jsonResponse(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
		return
	}

	interaction := questions.NewInteraction()
	for _, q := range questions.VisibleQuestions(body.Questions, body.Responses) {
		interaction.Attempt(q.QuestionID)
	}

	validation := questions.Validate(body.Questions, body.Responses, interaction)
	s.jsonResponse(w, http.StatusOK, validation)
}

// enrollRequestBody carries everything needed to submit an application: the
// bundle request it answers, the applicant block and the question state.
type enrollRequestBody struct {
	BundleRequest *types.BundleRequest        `json:"bundle_request"`
	Applicant     enrollment.Applicant        `json:"applicant"`
	Questions     []types.EligibilityQuestion `json:"questions"`
	Responses     types.ResponseSet           `json:"responses"`
}

// handleEnroll validates the final response set, submits the enrollment to
// the carrier and persists the accepted application.
func (s *Server) handleEnroll(w http.ResponseWriter, r *http.Request) {
	if err := requireJSON(r); err != nil {
		s.jsonResponse(w, http.StatusUnsupportedMediaType, map[string]string{"error": err.Error()})
		return
	}

	var body enrollRequestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.jsonResponse(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
		return
	}
	if body.BundleRequest == nil {
		s.jsonResponse(w, http.StatusBadRequest, map[string]string{"error": "bundle_request is required"})
		return
	}

	// Refuse to submit anything incomplete or knocked out.
	interaction := questions.NewInteraction()
	for _, q := range questions.VisibleQuestions(body.Questions, body.Responses) {
		interaction.Attempt(q.QuestionID)
	}
	validation := questions.Validate(body.Questions, body.Responses, interaction)
	if !validation.IsValid {
		s.jsonResponse(w, http.StatusBadRequest, map[string]any{
			"error":      "responses are not valid for submission",
			"validation": validation,
		})
		return
	}

	// A live referral wins; otherwise fall back to the attribution stored
	// for this session, which outlives the referral cookie.
	if agentID, ok := attribution.AgentFromRequest(r); ok {
		body.BundleRequest.AgentID = agentID
	} else if s.store != nil {
		if sessionID, ok := attribution.SessionFromRequest(r); ok {
			if agentID, err := s.store.GetAttribution(r.Context(), sessionID); err == nil && agentID > 0 {
				body.BundleRequest.AgentID = agentID
			}
		}
	}

	answers := enrollment.AnswersFromResponses(body.Questions, body.Responses)
	req := enrollment.FromBundle(body.BundleRequest, body.Applicant, answers)

	result, err := s.submitter.Submit(r.Context(), req)
	if err != nil {
		s.classifiedError(w, err)
		return
	}

	if s.store != nil {
		if _, err := s.store.SaveApplication(r.Context(), req, result); err != nil {
			// The carrier accepted; a local persistence failure must not
			// turn the enrollment into an error for the applicant.
			log.Printf("failed to persist application %s: %v", req.ApplicationFormNumber, err)
		}
	}

	s.jsonResponse(w, http.StatusCreated, result)
}

// handleListApplications returns recent submitted applications, newest
// first.
func (s *Server) handleListApplications(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.jsonResponse(w, http.StatusServiceUnavailable, map[string]string{"error": "persistence is not configured"})
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			s.jsonResponse(w, http.StatusBadRequest, map[string]string{"error": "limit must be a non-negative integer"})
			return
		}
		limit = n
	}

	apps, err := s.store.ListApplications(r.Context(), limit)
	if err != nil {
		log.Printf("failed to list applications: %v", err)
		s.jsonResponse(w, http.StatusInternalServerError, map[string]string{"error": "failed to list applications"})
		return
	}
	if apps == nil {
		apps = []db.SubmittedApplication{}
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"applications": apps})
}

// handleGetApplication looks up one submitted application by its carrier
// form number.
func (s *Server) handleGetApplication(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.jsonResponse(w, http.StatusServiceUnavailable, map[string]string{"error": "persistence is not configured"})
		return
	}

	app, err := s.store.GetApplicationByFormNumber(r.Context(), r.PathValue("formNumber"))
	if err != nil {
		log.Printf("failed to get application: %v", err)
		s.jsonResponse(w, http.StatusInternalServerError, map[string]string{"error": "failed to get application"})
		return
	}
	if app == nil {
		s.jsonResponse(w, http.StatusNotFound, map[string]string{"error": "application not found"})
		return
	}
	s.jsonResponse(w, http.StatusOK, app)
}

// requireJSON guards against unexpected content types on write endpoints.
func requireJSON(r *http.Request) error {
	ct := r.Header.Get("Content-Type")
	if ct != "" && ct != "application/json" && ct != "application/json; charset=utf-8" {
		return fmt.Errorf("unsupported content type %q", ct)
	}
	return nil
}
