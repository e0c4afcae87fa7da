package carrier

import (
	"fmt"
	"log"
	"strings"

	"github.com/Jose-Tepaz/epicareplans-marketplace-sub001/internal/types"
)

// ErrUnresolvablePlan indicates a plan whose carrier identifiers could not be
// resolved by any resolution step. The plan must be excluded from the bundle
// request and surfaced as a per-plan validation error, never defaulted to a
// placeholder.
type ErrUnresolvablePlan struct {
	PlanID   string
	PlanName string
	Missing  string // which component was empty: "planId", "planKey" or both
}

func (e *ErrUnresolvablePlan) Error() string {
	return fmt.Sprintf("plan %q (%s) has no resolvable carrier %s", e.PlanName, e.PlanID, e.Missing)
}

// Resolver resolves a SelectedPlan to the identifier pair a carrier expects.
type Resolver struct {
	overrides Overrides
	logger    *log.Logger
}

// NewResolver creates a resolver over the given override table. A nil table
// uses the compiled-in defaults; a nil logger uses the standard logger.
func NewResolver(overrides Overrides, logger *log.Logger) *Resolver {
	if overrides == nil {
		overrides = DefaultOverrides()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Resolver{overrides: overrides, logger: logger}
}

// Resolve resolves carrier identifiers for a plan. Resolution order:
//
//  1. the manual override table keyed by (id, name), required because some
//     catalog entries lack carrier codes entirely;
//  2. the plan's own ProductCode/PlanKey when present;
//  3. fallback to ID/Name.
//
// Fallback paths are logged so operators can detect catalog drift: step 3 in
// production traffic means the catalog is missing carrier codes it should
// have. If either component is still empty or whitespace after all three
// steps, the plan is unresolvable.
func (r *Resolver) Resolve(plan types.SelectedPlan) (PlanIdentifiers, error) {
	if ids, ok := r.overrides[OverrideKey{PlanID: plan.ID, PlanName: plan.Name}]; ok {
		return ids, nil
	}

	planID := strings.TrimSpace(plan.ProductCode)
	planKey := strings.TrimSpace(plan.PlanKey)

	if planID == "" {
		planID = strings.TrimSpace(plan.ID)
		if planID != "" {
			r.logger.Printf("carrier: plan %q (%s): no product code, falling back to catalog id", plan.Name, plan.ID)
		}
	}
	if planKey == "" {
		planKey = strings.TrimSpace(plan.Name)
		if planKey != "" {
			r.logger.Printf("carrier: plan %q (%s): no plan key, falling back to display name", plan.Name, plan.ID)
		}
	}

	if planID == "" || planKey == "" {
		missing := "planId and planKey"
		switch {
		case planID == "" && planKey != "":
			missing = "planId"
		case planKey == "" && planID != "":
			missing = "planKey"
		}
		return PlanIdentifiers{}, &ErrUnresolvablePlan{
			PlanID:   plan.ID,
			PlanName: plan.Name,
			Missing:  missing,
		}
	}

	return PlanIdentifiers{PlanID: planID, PlanKey: planKey}, nil
}
