package enrollment

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Jose-Tepaz/epicareplans-marketplace-sub001/internal/bundle"
	"github.com/Jose-Tepaz/epicareplans-marketplace-sub001/internal/types"
)

func yesNo() []types.PossibleAnswer {
	return []types.PossibleAnswer{
		{ID: 1, AnswerText: "No", AnswerType: types.AnswerTypeRadio},
		{ID: 2, AnswerText: "Yes", AnswerType: types.AnswerTypeRadio},
	}
}

func TestAnswersFromResponses_PassthroughInSequenceOrder(t *testing.T) {
	qs := []types.EligibilityQuestion{
		{QuestionID: 12, SequenceNumber: 2, QuestionType: types.QuestionTypeEligibility, PossibleAnswers: yesNo()},
		{QuestionID: 5, SequenceNumber: 1, QuestionType: types.QuestionTypePriorInsurance, PossibleAnswers: yesNo()},
	}
	responses := types.ResponseSet{5: "1", 12: "2"}

	answers := AnswersFromResponses(qs, responses)
	require.Len(t, answers, 2)

	// Input question order is preserved (the flattened list is already
	// sequence-sorted upstream).
	assert.Equal(t, 12, answers[0].QuestionID)
	assert.Equal(t, "2", answers[0].Response)
	assert.Empty(t, answers[0].DataKey)

	assert.Equal(t, 5, answers[1].QuestionID)
	assert.Equal(t, "priorInsurance", answers[1].DataKey)
}

func TestAnswersFromResponses_HiddenQuestionsExcluded(t *testing.T) {
	qs := []types.EligibilityQuestion{
		{QuestionID: 5, SequenceNumber: 1, PossibleAnswers: yesNo()},
		{QuestionID: 7, SequenceNumber: 2, PossibleAnswers: yesNo(),
			Condition: &types.QuestionCondition{QuestionID: 5, AnswerID: 2}},
	}

	// Question 7 has a stale stored response but its condition no longer
	// holds: it must not reach the carrier.
	responses := types.ResponseSet{5: "1", 7: "2"}

	answers := AnswersFromResponses(qs, responses)
	require.Len(t, answers, 1)
	assert.Equal(t, 5, answers[0].QuestionID)
}

func TestFromBundle_CarriesFormNumber(t *testing.T) {
	bundleReq := &types.BundleRequest{
		State:                 "CA",
		PlanIDs:               []string{"21673"},
		PlanKeys:              []string{"Life 25000"},
		EffectiveDate:         "2026-07-01",
		AgentID:               42,
		RateTier:              types.RateTierPreferred,
		ApplicationFormNumber: "EPC-abc",
	}

	req := FromBundle(bundleReq, Applicant{FirstName: "Ana", LastName: "Reyes"}, nil)
	assert.Equal(t, "EPC-abc", req.ApplicationFormNumber)
	assert.Equal(t, []string{"21673"}, req.PlanIDs)
	assert.Equal(t, types.RateTierPreferred, req.RateTier)
}

func TestSubmit_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		_, _ = w.Write([]byte(`{"confirmationNumber": "CONF-123", "status": "Accepted"}`))
	}))
	defer srv.Close()

	s, err := NewSubmitter(SubmitterConfig{EnrollmentURL: srv.URL})
	require.NoError(t, err)

	result, err := s.Submit(context.Background(), &Request{ApplicationFormNumber: "EPC-abc"})
	require.NoError(t, err)
	assert.Equal(t, "CONF-123", result.ConfirmationNumber)
}

func TestSubmit_CarrierRejectionUsesBundleTaxonomy(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`[{"errorCode": "RateMismatch", "errorDetail": "tier changed"}]`))
	}))
	defer srv.Close()

	s, err := NewSubmitter(SubmitterConfig{EnrollmentURL: srv.URL})
	require.NoError(t, err)

	_, err = s.Submit(context.Background(), &Request{})
	var carrierErr *bundle.CarrierError
	require.ErrorAs(t, err, &carrierErr)
	assert.Contains(t, carrierErr.Guidance(), "refresh your quote")
}

func TestSubmit_MissingConfirmationIsContractDrift(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	s, err := NewSubmitter(SubmitterConfig{EnrollmentURL: srv.URL})
	require.NoError(t, err)

	_, err = s.Submit(context.Background(), &Request{})
	var drift *bundle.ContractError
	require.ErrorAs(t, err, &drift)
}
