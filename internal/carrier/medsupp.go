package carrier

import (
	"strings"
	"time"

	"github.com/Jose-Tepaz/epicareplans-marketplace-sub001/internal/types"
)

// DetermineMedSuppEnrollmentType derives the Medicare-supplement enrollment
// type for the selection. It returns nil unless at least one selected plan's
// name contains "med" or "medicare" (case-insensitive); non-Medicare carts
// omit the field entirely.
func DetermineMedSuppEnrollmentType(plans []types.SelectedPlan, facts types.ApplicantFacts) *types.MedSuppEnrollmentType {
	return DetermineMedSuppEnrollmentTypeAt(time.Now(), plans, facts)
}

// DetermineMedSuppEnrollmentTypeAt is DetermineMedSuppEnrollmentType with an
// explicit evaluation time (the calendar month decides open enrollment).
func DetermineMedSuppEnrollmentTypeAt(now time.Time, plans []types.SelectedPlan, facts types.ApplicantFacts) *types.MedSuppEnrollmentType {
	if !hasMedSuppPlan(plans) {
		return nil
	}

	t := types.MedSuppUnknown
	if facts.HasMedicare {
		switch {
		case facts.HasPriorCoverage:
			t = types.MedSuppGI
		case now.Month() >= time.October:
			t = types.MedSuppOpenEnrollment
		default:
			t = types.MedSuppNoSpecialCircumstances
		}
	}
	return &t
}

func hasMedSuppPlan(plans []types.SelectedPlan) bool {
	for _, p := range plans {
		name := strings.ToLower(p.Name)
		if strings.Contains(name, "med") {
			return true
		}
	}
	return false
}
