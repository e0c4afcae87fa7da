package questions

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Jose-Tepaz/epicareplans-marketplace-sub001/internal/types"
)

func yesNo() []types.PossibleAnswer {
	return []types.PossibleAnswer{
		{ID: 1, AnswerText: "No", AnswerType: types.AnswerTypeRadio},
		{ID: 2, AnswerText: "Yes", AnswerType: types.AnswerTypeRadio},
	}
}

// question 5 is unconditional; question 7 depends on 5 == 2; question 9
// depends on 7 == 2.
func chainQuestions() []types.EligibilityQuestion {
	return []types.EligibilityQuestion{
		{QuestionID: 5, QuestionText: "Do you use tobacco?", SequenceNumber: 1, PossibleAnswers: yesNo()},
		{QuestionID: 7, QuestionText: "Do you smoke daily?", SequenceNumber: 2, PossibleAnswers: yesNo(),
			Condition: &types.QuestionCondition{QuestionID: 5, AnswerID: 2}},
		{QuestionID: 9, QuestionText: "Have you tried quitting?", SequenceNumber: 3, PossibleAnswers: yesNo(),
			Condition: &types.QuestionCondition{QuestionID: 7, AnswerID: 2}},
	}
}

func TestIsVisible_NoConditionAlwaysVisible(t *testing.T) {
	q := chainQuestions()[0]
	assert.True(t, IsVisible(q, types.ResponseSet{}))
	assert.True(t, IsVisible(q, nil))
}

func TestIsVisible_RequiresExplicitMatchingAnswer(t *testing.T) {
	dependent := chainQuestions()[1]

	// No response for the controlling question: NOT visible.
	assert.False(t, IsVisible(dependent, types.ResponseSet{}))

	// Matching response: visible.
	assert.True(t, IsVisible(dependent, types.ResponseSet{5: "2"}))

	// Non-matching response: not visible.
	assert.False(t, IsVisible(dependent, types.ResponseSet{5: "3"}))
	assert.False(t, IsVisible(dependent, types.ResponseSet{5: "1"}))
}

func TestVisibleQuestions_PreservesSequenceOrder(t *testing.T) {
	qs := chainQuestions()

	visible := VisibleQuestions(qs, types.ResponseSet{5: "2", 7: "2"})
	require.Len(t, visible, 3)
	assert.Equal(t, []int{5, 7, 9}, []int{visible[0].QuestionID, visible[1].QuestionID, visible[2].QuestionID})

	visible = VisibleQuestions(qs, types.ResponseSet{5: "1"})
	require.Len(t, visible, 1)
	assert.Equal(t, 5, visible[0].QuestionID)
}

func TestVisibleQuestions_Deterministic(t *testing.T) {
	qs := chainQuestions()
	responses := types.ResponseSet{5: "2"}

	first := VisibleQuestions(qs, responses)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, VisibleQuestions(qs, responses))
	}
}

func TestDependentsOf_TransitiveClosure(t *testing.T) {
	deps := DependentsOf(5, chainQuestions())
	assert.ElementsMatch(t, []int{7, 9}, deps)

	deps = DependentsOf(7, chainQuestions())
	assert.ElementsMatch(t, []int{9}, deps)

	assert.Empty(t, DependentsOf(9, chainQuestions()))
}

func TestDependentsOf_TerminatesOnCycle(t *testing.T) {
	// Malformed carrier data: 1 -> 2 -> 1. The walk must terminate.
	qs := []types.EligibilityQuestion{
		{QuestionID: 1, PossibleAnswers: yesNo(), Condition: &types.QuestionCondition{QuestionID: 2, AnswerID: 1}},
		{QuestionID: 2, PossibleAnswers: yesNo(), Condition: &types.QuestionCondition{QuestionID: 1, AnswerID: 1}},
	}

	deps := DependentsOf(1, qs)
	assert.ElementsMatch(t, []int{2}, deps)
}

func TestFlatten_SortsBySequenceAcrossApplications(t *testing.T) {
	apps := []types.Application{
		{ApplicationID: 1, Questions: []types.EligibilityQuestion{
			{QuestionID: 20, SequenceNumber: 4},
			{QuestionID: 10, SequenceNumber: 1},
		}},
		{ApplicationID: 2, Questions: []types.EligibilityQuestion{
			{QuestionID: 30, SequenceNumber: 2},
		}},
	}

	flat := Flatten(apps)
	require.Len(t, flat, 3)
	assert.Equal(t, []int{10, 30, 20}, []int{flat[0].QuestionID, flat[1].QuestionID, flat[2].QuestionID})
}
