// Package form provides the stateful controller that orchestrates the
// dynamic question engine across one enrollment session.
package form

import (
	"fmt"
	"sort"

	"github.com/Jose-Tepaz/epicareplans-marketplace-sub001/internal/questions"
	"github.com/Jose-Tepaz/epicareplans-marketplace-sub001/internal/types"
)

// State is the controller's position in the enrollment session lifecycle.
type State string

// Controller states. There are no backward transitions except Reset, which
// external navigation calls when the plan set changes.
const (
	StateIdle          State = "idle"
	StateBundleLoading State = "bundle_loading"
	StateBundleLoaded  State = "bundle_loaded"
	StateBundleError   State = "bundle_error"
	StateAnswering     State = "answering"
	StateValid         State = "valid"
)

// Notifier receives UI notifications from the controller. OnChange fires on
// every response mutation; OnKnockoutChange only when the knockout set
// changes by value; OnValidityChange only when the can-proceed gate flips.
type Notifier interface {
	OnChange(responses types.ResponseSet, validation types.QuestionValidation)
	OnKnockoutChange(hasKnockout bool, errors []string)
	OnValidityChange(isValid bool, errors []string)
}

// Controller owns the DynamicFormState for exactly one enrollment attempt.
// It must not be reused across a plan-set change without Reset and a full
// bundle re-fetch. All methods are single-goroutine: the engine is
// UI-event-driven, not concurrent.
type Controller struct {
	state       State
	generation  int
	loadErr     error
	questions   []types.EligibilityQuestion
	responses   types.ResponseSet
	interaction questions.Interaction
	validation  types.QuestionValidation

	lastKnockouts []int
	lastIsValid   bool

	notifier Notifier
}

// NewController creates an idle controller. A nil notifier is allowed and
// discards notifications.
func NewController(notifier Notifier) *Controller {
	if notifier == nil {
		notifier = noopNotifier{}
	}
	return &Controller{
		state:    StateIdle,
		notifier: notifier,
	}
}

// State returns the current lifecycle state.
func (c *Controller) State() State { return c.state }

// Err returns the bundle load error, if the controller is in BundleError.
func (c *Controller) Err() error { return c.loadErr }

// Responses returns a copy of the current response set.
func (c *Controller) Responses() types.ResponseSet { return c.responses.Clone() }

// Questions returns the flattened question list.
func (c *Controller) Questions() []types.EligibilityQuestion { return c.questions }

// Validation returns the last computed validation.
func (c *Controller) Validation() types.QuestionValidation { return c.validation }

// BeginLoad transitions to BundleLoading and returns a generation token.
// A later BeginLoad invalidates earlier tokens: completions carrying a stale
// token are discarded, giving last-request-wins semantics for plan changes
// racing an in-flight fetch.
func (c *Controller) BeginLoad() int {
	c.generation++
	c.state = StateBundleLoading
	c.loadErr = nil
	return c.generation
}

// CompleteLoad installs the fetched applications for the given generation.
// It returns false when the token is stale and the result was discarded.
// No response pruning runs here: cleanup never fires on the first render
// after a bundle load.
func (c *Controller) CompleteLoad(generation int, apps []types.Application) bool {
	if generation != c.generation || c.state != StateBundleLoading {
		return false
	}
	c.questions = questions.Flatten(apps)
	c.responses = make(types.ResponseSet)
	c.interaction = questions.NewInteraction()
	c.validation = questions.Validate(c.questions, c.responses, c.interaction)
	c.lastKnockouts = nil
	c.lastIsValid = c.validation.IsValid
	c.state = StateBundleLoaded
	return true
}

// FailLoad records a bundle fetch failure for the given generation.
// BundleError is terminal for this attempt; the caller may Reset and retry.
func (c *Controller) FailLoad(generation int, err error) bool {
	if generation != c.generation || c.state != StateBundleLoading {
		return false
	}
	c.loadErr = err
	c.state = StateBundleError
	return true
}

// Reset discards the form state entirely, e.g. when the selected plans
// change and the bundle must be rebuilt.
func (c *Controller) Reset() {
	c.generation++
	c.state = StateIdle
	c.loadErr = nil
	c.questions = nil
	c.responses = nil
	c.interaction = questions.Interaction{}
	c.validation = types.QuestionValidation{}
	c.lastKnockouts = nil
	c.lastIsValid = false
}

// SetResponse records a response and runs the full recompute cycle, in
// order: mark attempted, recompute visibility, prune responses and
// attempted-markers of hidden questions, revalidate, notify. A hidden
// question's prior answer must never leak into validation or the final
// submission, so pruning cascades transitively before validation runs.
func (c *Controller) SetResponse(questionID int, value string) (types.QuestionValidation, error) {
	switch c.state {
	case StateBundleLoaded, StateAnswering, StateValid:
	default:
		return types.QuestionValidation{}, fmt.Errorf("no bundle loaded (state %s)", c.state)
	}

	c.interaction.Attempt(questionID)
	c.responses[questionID] = value

	c.pruneHidden()

	c.validation = questions.Validate(c.questions, c.responses, c.interaction)
	if c.validation.IsValid {
		c.state = StateValid
	} else {
		c.state = StateAnswering
	}

	c.notify()
	return c.validation, nil
}

// pruneHidden removes stored responses and attempted-markers for questions
// that are no longer visible, iterating to a fixpoint because removing one
// response can hide further dependents.
func (c *Controller) pruneHidden() {
	for {
		visible := make(map[int]bool)
		for _, q := range questions.VisibleQuestions(c.questions, c.responses) {
			visible[q.QuestionID] = true
		}

		pruned := false
		for _, q := range c.questions {
			if visible[q.QuestionID] {
				continue
			}
			if _, ok := c.responses[q.QuestionID]; ok {
				delete(c.responses, q.QuestionID)
				pruned = true
			}
			delete(c.interaction.Attempted, q.QuestionID)
		}
		if !pruned {
			return
		}
	}
}

// notify emits the UI notification tuples. The knockout notification is
// one-time per change: it compares the knockout set by value so an unchanged
// set never re-fires.
func (c *Controller) notify() {
	c.notifier.OnChange(c.responses.Clone(), c.validation)

	if !equalIDSets(c.lastKnockouts, c.validation.KnockoutAnswers) {
		c.lastKnockouts = append([]int(nil), c.validation.KnockoutAnswers...)
		c.notifier.OnKnockoutChange(c.validation.HasKnockout(),
			questions.KnockoutMessages(c.questions, c.responses))
	}

	if c.validation.IsValid != c.lastIsValid {
		c.lastIsValid = c.validation.IsValid
		c.notifier.OnValidityChange(c.validation.IsValid, c.validation.DisplayErrors)
	}
}

func equalIDSets(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	as := append([]int(nil), a...)
	bs := append([]int(nil), b...)
	sort.Ints(as)
	sort.Ints(bs)
	for i := range as {
		if as[i] != bs[i] {
			return false
		}
	}
	return true
}

type noopNotifier struct{}

func (noopNotifier) OnChange(types.ResponseSet, types.QuestionValidation) {}
func (noopNotifier) OnKnockoutChange(bool, []string)                      {}
func (noopNotifier) OnValidityChange(bool, []string)                      {}
