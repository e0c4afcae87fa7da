// Package enrollment maps validated question responses into the carrier
// enrollment submission payload and posts it.
package enrollment

import (
	"github.com/Jose-Tepaz/epicareplans-marketplace-sub001/internal/questions"
	"github.com/Jose-Tepaz/epicareplans-marketplace-sub001/internal/types"
)

// Applicant is the demographic block of the enrollment payload.
type Applicant struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	DateOfBirth string `json:"dateOfBirth"`
	Email       string `json:"email,omitempty"`
	Phone       string `json:"phone,omitempty"`
	Address1    string `json:"address1"`
	Address2    string `json:"address2,omitempty"`
	City        string `json:"city"`
	State       string `json:"state"`
	ZipCode     string `json:"zipCode"`
}

// Request is the enrollment submission payload. It carries the same
// application form number as the bundle request it answers, so the carrier
// can correlate the two.
type Request struct {
	ApplicationFormNumber string                   `json:"applicationFormNumber"`
	State                 string                   `json:"state"`
	EffectiveDate         string                   `json:"effectiveDate"`
	PlanIDs               []string                 `json:"planIds"`
	PlanKeys              []string                 `json:"planKeys"`
	AgentID               int                      `json:"agentId"`
	RateTier              types.RateTier           `json:"rateTier"`
	Applicant             Applicant                `json:"applicant"`
	Answers               []types.EnrollmentAnswer `json:"answers"`
}

// Result is the carrier's acceptance record.
type Result struct {
	ConfirmationNumber string `json:"confirmationNumber"`
	Status             string `json:"status"`
}

// AnswersFromResponses maps the validated response set into the enrollment
// answer list. Only currently visible questions contribute: a hidden
// question's pruned answer must never reach the carrier. Order follows the
// question sequence. The mapping is an identity-ish passthrough; DataKey is
// populated for question types the carrier files under a named field.
func AnswersFromResponses(qs []types.EligibilityQuestion, responses types.ResponseSet) []types.EnrollmentAnswer {
	visible := questions.VisibleQuestions(qs, responses)
	out := make([]types.EnrollmentAnswer, 0, len(visible))
	for _, q := range visible {
		response, ok := responses[q.QuestionID]
		if !ok {
			continue
		}
		out = append(out, types.EnrollmentAnswer{
			QuestionID: q.QuestionID,
			Response:   response,
			DataKey:    dataKeyFor(q.QuestionType),
		})
	}
	return out
}

// dataKeyFor returns the carrier field name certain question types are
// filed under in the enrollment payload; most ride along unnamed.
func dataKeyFor(t types.QuestionType) string {
	switch t {
	case types.QuestionTypePriorInsurance:
		return "priorInsurance"
	case types.QuestionTypeCreditable:
		return "creditableCoverage"
	default:
		return ""
	}
}

// FromBundle assembles an enrollment request from the original bundle
// request, the applicant block and the validated answers.
func FromBundle(bundleReq *types.BundleRequest, applicant Applicant, answers []types.EnrollmentAnswer) *Request {
	return &Request{
		ApplicationFormNumber: bundleReq.ApplicationFormNumber,
		State:                 bundleReq.State,
		EffectiveDate:         bundleReq.EffectiveDate,
		PlanIDs:               bundleReq.PlanIDs,
		PlanKeys:              bundleReq.PlanKeys,
		AgentID:               bundleReq.AgentID,
		RateTier:              bundleReq.RateTier,
		Applicant:             applicant,
		Answers:               answers,
	}
}
