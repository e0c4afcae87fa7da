package questions

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Jose-Tepaz/epicareplans-marketplace-sub001/internal/types"
)

// Interaction tracks what the user has actually done with the form, so
// missing-required errors aren't shown on questions never reached.
type Interaction struct {
	Touched   bool         // user has interacted with the form at all
	Attempted map[int]bool // question ids the user specifically attempted
}

// NewInteraction returns an empty interaction state.
func NewInteraction() Interaction {
	return Interaction{Attempted: make(map[int]bool)}
}

// Attempt records that the user attempted a question.
func (i *Interaction) Attempt(questionID int) {
	i.Touched = true
	if i.Attempted == nil {
		i.Attempted = make(map[int]bool)
	}
	i.Attempted[questionID] = true
}

// Validate walks the visible-question set against the current responses and
// computes completeness, knockouts, malformed typed input and the errors safe
// to display. A response that selects a predefined answer needs no type
// check; anything else must satisfy the question's answer type.
//
// IsValid always reflects true completeness (it gates next-step navigation);
// DisplayErrors suppresses missing-required messages for questions the user
// hasn't attempted yet. The function is pure: identical inputs yield
// identical output, which upstream uses to gate re-render logic.
func Validate(questions []types.EligibilityQuestion, responses types.ResponseSet, interaction Interaction) types.QuestionValidation {
	v := types.QuestionValidation{
		Errors:          []string{},
		DisplayErrors:   []string{},
		KnockoutAnswers: []int{},
		MissingIDs:      []int{},
		InvalidIDs:      []int{},
	}

	for _, q := range VisibleQuestions(questions, responses) {
		response, ok := responses[q.QuestionID]
		if !ok || strings.TrimSpace(response) == "" {
			v.MissingIDs = append(v.MissingIDs, q.QuestionID)
			msg := missingMessage(q)
			v.Errors = append(v.Errors, msg)
			if interaction.Touched && interaction.Attempted[q.QuestionID] {
				v.DisplayErrors = append(v.DisplayErrors, msg)
			}
			continue
		}

		if answer := matchAnswer(q, response); answer != nil {
			if answer.IsKnockOut {
				v.KnockoutAnswers = append(v.KnockoutAnswers, q.QuestionID)
				msg := answer.ErrorMessage
				if msg == "" {
					msg = fmt.Sprintf("Your answer to %q disqualifies this application.", QuestionPlainText(q))
				}
				v.Errors = append(v.Errors, msg)
				v.DisplayErrors = append(v.DisplayErrors, msg)
			}
			continue
		}

		// The response selects no predefined answer, so it is free-typed
		// input. Check the value against the question's input kind.
		if len(q.PossibleAnswers) > 0 {
			if err := ValidateResponseForType(q.PossibleAnswers[0].AnswerType, response); err != nil {
				v.InvalidIDs = append(v.InvalidIDs, q.QuestionID)
				msg := err.Error()
				v.Errors = append(v.Errors, msg)
				if interaction.Touched && interaction.Attempted[q.QuestionID] {
					v.DisplayErrors = append(v.DisplayErrors, msg)
				}
			}
		}
	}

	v.IsValid = len(v.MissingIDs) == 0 && len(v.KnockoutAnswers) == 0 && len(v.InvalidIDs) == 0
	return v
}

// KnockoutMessages returns the carrier messaging for every knockout answer
// currently selected on a visible question, in question order.
func KnockoutMessages(qs []types.EligibilityQuestion, responses types.ResponseSet) []string {
	var out []string
	for _, q := range VisibleQuestions(qs, responses) {
		response, ok := responses[q.QuestionID]
		if !ok {
			continue
		}
		if answer := matchAnswer(q, response); answer != nil && answer.IsKnockOut {
			msg := answer.ErrorMessage
			if msg == "" {
				msg = fmt.Sprintf("Your answer to %q disqualifies this application.", QuestionPlainText(q))
			}
			out = append(out, msg)
		}
	}
	return out
}

// matchAnswer finds the possible answer a response selects, matching by
// stringified answer id or by answer text. Free-form responses that match
// neither return nil.
func matchAnswer(q types.EligibilityQuestion, response string) *types.PossibleAnswer {
	for i := range q.PossibleAnswers {
		a := &q.PossibleAnswers[i]
		if response == strconv.Itoa(a.ID) || response == a.AnswerText {
			return a
		}
	}
	return nil
}

func missingMessage(q types.EligibilityQuestion) string {
	return fmt.Sprintf("Question %d requires an answer.", q.QuestionID)
}

// ValidateResponseForType checks a raw response value against the closed
// answer-type variant set. The switch is exhaustive over the variants so a
// new answer type fails loudly here instead of validating as free text.
func ValidateResponseForType(t types.AnswerType, response string) error {
	trimmed := strings.TrimSpace(response)
	switch t {
	case types.AnswerTypeRadio, types.AnswerTypeCheckbox:
		if _, err := strconv.Atoi(trimmed); err != nil {
			return fmt.Errorf("%s response must be a numeric answer id, got %q", t, response)
		}
		return nil
	case types.AnswerTypeDate:
		if !dateRe.MatchString(trimmed) {
			return fmt.Errorf("Date response must be YYYY-MM-DD, got %q", response)
		}
		return nil
	case types.AnswerTypeMonthYearDate:
		if !monthYearRe.MatchString(trimmed) {
			return fmt.Errorf("MonthYearDate response must be YYYY-MM, got %q", response)
		}
		return nil
	case types.AnswerTypeFreeText, types.AnswerTypeTextArea:
		if trimmed == "" {
			return fmt.Errorf("%s response must not be empty", t)
		}
		return nil
	}
	return fmt.Errorf("unhandled answer type %q", t)
}
