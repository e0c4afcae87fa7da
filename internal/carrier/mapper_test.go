package carrier

import (
	"bytes"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Jose-Tepaz/epicareplans-marketplace-sub001/internal/types"
)

func newTestResolver() (*Resolver, *bytes.Buffer) {
	var buf bytes.Buffer
	return NewResolver(nil, log.New(&buf, "", 0)), &buf
}

func TestResolve_ManualOverrideWins(t *testing.T) {
	r, logged := newTestResolver()

	// Override table beats the plan's own product code.
	plan := types.SelectedPlan{
		ID:          "2144",
		Name:        "Accident Fixed-Benefit",
		ProductCode: "99999",
		PlanKey:     "Some Other Key",
	}
	ids, err := r.Resolve(plan)
	require.NoError(t, err)
	assert.Equal(t, "21673", ids.PlanID)
	assert.Equal(t, "Life 25000", ids.PlanKey)
	assert.Empty(t, logged.String())
}

func TestResolve_ProductCodeAndPlanKeyUsed(t *testing.T) {
	r, logged := newTestResolver()

	plan := types.SelectedPlan{
		ID:          "5001",
		Name:        "Dental Complete",
		ProductCode: "D-100",
		PlanKey:     "Dental 1000",
	}
	ids, err := r.Resolve(plan)
	require.NoError(t, err)
	assert.Equal(t, "D-100", ids.PlanID)
	assert.Equal(t, "Dental 1000", ids.PlanKey)
	assert.Empty(t, logged.String())
}

func TestResolve_FallbackToIDAndNameIsLogged(t *testing.T) {
	r, logged := newTestResolver()

	plan := types.SelectedPlan{ID: "5002", Name: "Vision Basic"}
	ids, err := r.Resolve(plan)
	require.NoError(t, err)
	assert.Equal(t, "5002", ids.PlanID)
	assert.Equal(t, "Vision Basic", ids.PlanKey)

	// Both fallback paths flag catalog drift.
	assert.Contains(t, logged.String(), "falling back to catalog id")
	assert.Contains(t, logged.String(), "falling back to display name")
}

func TestResolve_UnresolvablePlanIsAnError(t *testing.T) {
	r, _ := newTestResolver()

	_, err := r.Resolve(types.SelectedPlan{ID: "  ", Name: ""})
	require.Error(t, err)
	var unresolvable *ErrUnresolvablePlan
	require.ErrorAs(t, err, &unresolvable)
	assert.Equal(t, "planId and planKey", unresolvable.Missing)
}

func TestResolve_WhitespaceOnlyKeyIsAnError(t *testing.T) {
	r, _ := newTestResolver()

	_, err := r.Resolve(types.SelectedPlan{ID: "5003", Name: "   "})
	require.Error(t, err)
	var unresolvable *ErrUnresolvablePlan
	require.ErrorAs(t, err, &unresolvable)
	assert.Equal(t, "planKey", unresolvable.Missing)
}
