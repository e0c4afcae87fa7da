package types

import (
	"encoding/json"
	"fmt"
)

// BundleRequest is the carrier wire payload for the ApplicationBundle
// endpoint. It is constructed fresh per enrollment attempt and never
// persisted; the plan id/key lists are deduplicated sets in first-seen order
// because carriers key underwriting by product, not by cart line.
type BundleRequest struct {
	State                 string                 `json:"state"`
	PlanIDs               []string               `json:"planIds"`
	PlanKeys              []string               `json:"planKeys"`
	EffectiveDate         string                 `json:"effectiveDate"`
	DateOfBirth           string                 `json:"dateOfBirth,omitempty"`
	AgentID               int                    `json:"agentId"`
	Fulfillment           bool                   `json:"fulfillment"`
	EFulfillment          bool                   `json:"eFulfillment"`
	RateTier              RateTier               `json:"rateTier"`
	MedSuppEnrollmentType *MedSuppEnrollmentType `json:"medSuppEnrollmentType,omitempty"`
	ApplicationFormNumber string                 `json:"applicationFormNumber"`
}

// QuestionType tags the carrier's classification of an eligibility question.
type QuestionType string

// Question types returned by the carrier bundle endpoint.
const (
	QuestionTypeEligibility     QuestionType = "Eligibility"
	QuestionTypeAuthorization   QuestionType = "Authorization"
	QuestionTypePreEx           QuestionType = "PreEx"
	QuestionTypeHRF             QuestionType = "HRF"
	QuestionTypeGeneralQuestion QuestionType = "GeneralQuestion"
	QuestionTypePriorInsurance  QuestionType = "PriorInsurance"
	QuestionTypeCreditable      QuestionType = "Creditable"
	QuestionTypeHidden          QuestionType = "Hidden"
)

// AnswerType is a closed variant over the carrier's answer input kinds.
// Unknown wire values fail to parse rather than silently coercing.
type AnswerType string

// Answer input kinds.
const (
	AnswerTypeRadio         AnswerType = "Radio"
	AnswerTypeCheckbox      AnswerType = "Checkbox"
	AnswerTypeFreeText      AnswerType = "FreeText"
	AnswerTypeDate          AnswerType = "Date"
	AnswerTypeMonthYearDate AnswerType = "MonthYearDate"
	AnswerTypeTextArea      AnswerType = "TextArea"
)

// UnmarshalJSON enforces the closed variant set on the wire.
func (a *AnswerType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch AnswerType(s) {
	case AnswerTypeRadio, AnswerTypeCheckbox, AnswerTypeFreeText,
		AnswerTypeDate, AnswerTypeMonthYearDate, AnswerTypeTextArea:
		*a = AnswerType(s)
		return nil
	}
	return fmt.Errorf("unknown answer type %q", s)
}

// PossibleAnswer is one selectable answer for an eligibility question. The
// id is scoped to its parent question. A knockout answer disqualifies the
// applicant; ErrorMessage carries the carrier-supplied wording.
type PossibleAnswer struct {
	ID           int        `json:"id"`
	AnswerText   string     `json:"answerText"`
	AnswerType   AnswerType `json:"answerType"`
	IsKnockOut   bool       `json:"isKnockOut,omitempty"`
	ErrorMessage string     `json:"errorMessage,omitempty"`
}

// QuestionCondition makes a question visible only when the referenced
// question's selected answer equals AnswerID.
type QuestionCondition struct {
	QuestionID int `json:"questionId"`
	AnswerID   int `json:"answerId"`
}

// EligibilityQuestion is a single conditional question from the carrier's
// application bundle. QuestionIDs are carrier-assigned and not necessarily
// contiguous or ordered; SequenceNumber gives the default display order.
// Questions are immutable for the lifetime of one enrollment session.
type EligibilityQuestion struct {
	QuestionID      int                `json:"questionId"`
	QuestionText    string             `json:"questionText"` // HTML fragment
	QuestionType    QuestionType       `json:"questionType"`
	SequenceNumber  int                `json:"sequenceNumber"`
	PossibleAnswers []PossibleAnswer   `json:"possibleAnswers"`
	Condition       *QuestionCondition `json:"condition,omitempty"`
}

// Application is one carrier application section with its flat question list.
type Application struct {
	ApplicationID int                   `json:"applicationId"`
	PlanKey       string                `json:"planKey,omitempty"`
	Questions     []EligibilityQuestion `json:"questions"`
}

// CarrierErrorDetail is one entry of the carrier's structured error array.
type CarrierErrorDetail struct {
	ErrorCode   string `json:"errorCode"`
	ErrorDetail string `json:"errorDetail"`
}

// BundleResponse is the success body of the ApplicationBundle endpoint.
type BundleResponse struct {
	Applications     []Application        `json:"applications"`
	ValidationErrors []CarrierErrorDetail `json:"validationErrors,omitempty"`
}
