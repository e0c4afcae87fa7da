package types

// ResponseSet maps questionId -> response value. For Radio/Checkbox answers
// the value is the stringified selected answer id; for the other variants it
// is the raw text/date string. The map shape guarantees at most one response
// per question: a newer response for the same id replaces, not appends.
type ResponseSet map[int]string

// Clone returns an independent copy of the response set.
func (r ResponseSet) Clone() ResponseSet {
	out := make(ResponseSet, len(r))
	for id, v := range r {
		out[id] = v
	}
	return out
}

// QuestionValidation is a derived, recomputed value. It is a pure function
// of the visible question set, the current responses and the interaction
// state; it is never stored.
//
// IsValid always reflects true completeness and gates next-step navigation.
// DisplayErrors is the subset safe to render right now: missing-required
// messages are withheld until the user has attempted the specific question.
type QuestionValidation struct {
	IsValid         bool     `json:"is_valid"`
	Errors          []string `json:"errors"`
	DisplayErrors   []string `json:"display_errors"`
	KnockoutAnswers []int    `json:"knockout_answers"`
	MissingIDs      []int    `json:"missing_ids"`
	InvalidIDs      []int    `json:"invalid_ids"`
}

// HasKnockout reports whether any visible answered question hit a knockout.
func (v QuestionValidation) HasKnockout() bool {
	return len(v.KnockoutAnswers) > 0
}

// EnrollmentAnswer is the wire shape a validated response takes inside the
// enrollment submission payload.
type EnrollmentAnswer struct {
	QuestionID int    `json:"questionId"`
	Response   string `json:"response"`
	DataKey    string `json:"dataKey,omitempty"`
}
