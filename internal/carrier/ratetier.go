package carrier

import (
	"time"

	"github.com/Jose-Tepaz/epicareplans-marketplace-sub001/internal/types"
)

// dateLayout is the ISO date layout used for applicant dates of birth.
const dateLayout = "2006-01-02"

// CalculateRateTier derives the underwriting rate tier from applicant facts.
// It is a pure decision table: smokers are always Tobacco; otherwise age and
// BMI gates decide between PreferredSelect, Preferred and Standard. Missing
// or unparseable dates of birth classify as Standard.
func CalculateRateTier(facts types.ApplicantFacts) types.RateTier {
	return CalculateRateTierAt(time.Now(), facts)
}

// CalculateRateTierAt is CalculateRateTier with an explicit evaluation time.
func CalculateRateTierAt(now time.Time, facts types.ApplicantFacts) types.RateTier {
	if facts.IsSmoker {
		return types.RateTierTobacco
	}

	dob, err := time.Parse(dateLayout, facts.DateOfBirth)
	if err != nil {
		return types.RateTierStandard
	}
	age := ageAt(now, dob)

	// BMI is unknown when weight or either height component is missing;
	// unknown BMI passes the BMI gate.
	bmi, bmiKnown := bodyMassIndex(facts.WeightPounds, facts.HeightFeet, facts.HeightInches)
	inRange := func(lo, hi float64) bool {
		return !bmiKnown || (bmi >= lo && bmi <= hi)
	}

	switch {
	case age >= 18 && age <= 40 && !facts.HasHealthConditions && inRange(18.5, 25):
		return types.RateTierPreferredSelect
	case age >= 18 && age <= 40 && !facts.HasHealthConditions && inRange(18.5, 30):
		return types.RateTierPreferred
	case age >= 41 && age <= 55 && !facts.HasHealthConditions && inRange(18.5, 27):
		return types.RateTierPreferred
	}
	return types.RateTierStandard
}

// ageAt computes calendar-aware age: one year is subtracted when the
// birthday has not yet occurred this year.
func ageAt(now, dob time.Time) int {
	age := now.Year() - dob.Year()
	if now.Month() < dob.Month() || (now.Month() == dob.Month() && now.Day() < dob.Day()) {
		age--
	}
	return age
}

// bodyMassIndex returns BMI = weight(lb) / height(in)^2 * 703 and whether it
// could be computed from the given facts.
func bodyMassIndex(weightPounds, heightFeet, heightInches int) (float64, bool) {
	if weightPounds <= 0 || heightFeet <= 0 || heightInches < 0 {
		return 0, false
	}
	totalInches := heightFeet*12 + heightInches
	if totalInches <= 0 {
		return 0, false
	}
	return float64(weightPounds) / float64(totalInches*totalInches) * 703, true
}
