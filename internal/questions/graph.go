// Package questions implements the dynamic eligibility-question engine:
// visibility over the conditional question tree, response validation and
// knockout detection.
package questions

import (
	"sort"
	"strconv"

	"github.com/Jose-Tepaz/epicareplans-marketplace-sub001/internal/types"
)

// Flatten collects the questions of all returned carrier applications into
// one list sorted by sequence number. Carrier question ids are preserved
// as-is; they are not necessarily contiguous or ordered.
func Flatten(apps []types.Application) []types.EligibilityQuestion {
	var out []types.EligibilityQuestion
	for _, app := range apps {
		out = append(out, app.Questions...)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].SequenceNumber < out[j].SequenceNumber
	})
	return out
}

// IsVisible reports whether a question is currently visible. A question with
// no condition is always visible. A conditioned question is visible only
// when the controlling question has a response that stringwise-equals the
// required answer id: no response means NOT visible, absence is not
// inference of visibility.
func IsVisible(q types.EligibilityQuestion, responses types.ResponseSet) bool {
	if q.Condition == nil {
		return true
	}
	response, ok := responses[q.Condition.QuestionID]
	if !ok {
		return false
	}
	return response == strconv.Itoa(q.Condition.AnswerID)
}

// VisibleQuestions filters to the currently visible questions, preserving
// the input order. Same input always yields the same visible set.
func VisibleQuestions(questions []types.EligibilityQuestion, responses types.ResponseSet) []types.EligibilityQuestion {
	out := make([]types.EligibilityQuestion, 0, len(questions))
	for _, q := range questions {
		if IsVisible(q, responses) {
			out = append(out, q)
		}
	}
	return out
}

// DependentsOf returns the ids of all questions whose visibility condition
// chains back, directly or transitively, to questionID. The carrier contract
// promises an acyclic condition graph, but the walk keeps a visited set so
// it terminates even on a malformed cycle.
func DependentsOf(questionID int, all []types.EligibilityQuestion) []int {
	children := make(map[int][]int, len(all))
	for _, q := range all {
		if q.Condition != nil {
			children[q.Condition.QuestionID] = append(children[q.Condition.QuestionID], q.QuestionID)
		}
	}

	visited := map[int]bool{questionID: true}
	var out []int
	queue := []int{questionID}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, child := range children[current] {
			if visited[child] {
				continue
			}
			visited[child] = true
			out = append(out, child)
			queue = append(queue, child)
		}
	}
	return out
}
