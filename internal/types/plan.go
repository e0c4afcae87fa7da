// Package types provides type definitions for structured data used throughout the marketplace system.
package types

// CarrierSlug identifies a supported insurance carrier.
type CarrierSlug string

// Supported carriers.
const (
	CarrierAllstate      CarrierSlug = "allstate"
	CarrierManhattanLife CarrierSlug = "manhattanlife"
)

// InsurancePlan is the carrier-agnostic plan representation returned by the
// quote layer and rendered in the marketplace UI.
type InsurancePlan struct {
	ID          string      `json:"id"`
	ProductCode string      `json:"product_code,omitempty"`
	PlanKey     string      `json:"plan_key,omitempty"`
	Name        string      `json:"name"`
	Description string      `json:"description,omitempty"`
	Premium     float64     `json:"premium"`
	Carrier     CarrierSlug `json:"carrier"`
}

// SelectedPlan is a cart entry. ProductCode and PlanKey are optional because
// upstream carrier responses are inconsistent about including them; the
// carrier mapper resolves the gaps before any bundle request is built.
type SelectedPlan struct {
	ID          string      `json:"id"`
	ProductCode string      `json:"product_code,omitempty"`
	PlanKey     string      `json:"plan_key,omitempty"`
	Name        string      `json:"name"`
	Price       float64     `json:"price"`
	Carrier     CarrierSlug `json:"carrier"`
}

// RateTier is the underwriting rate classification derived from applicant facts.
type RateTier string

// Rate tiers accepted by the carrier bundle endpoint.
const (
	RateTierStandard        RateTier = "Standard"
	RateTierPreferred       RateTier = "Preferred"
	RateTierPreferredSelect RateTier = "PreferredSelect"
	RateTierTobacco         RateTier = "Tobacco"
)

// MedSuppEnrollmentType classifies a Medicare-supplement enrollment.
type MedSuppEnrollmentType string

// Medicare-supplement enrollment types.
const (
	MedSuppUnknown                MedSuppEnrollmentType = "Unknown"
	MedSuppOpenEnrollment         MedSuppEnrollmentType = "OpenEnrollment"
	MedSuppGI                     MedSuppEnrollmentType = "GI"
	MedSuppNoSpecialCircumstances MedSuppEnrollmentType = "NoSpecialCircumstances"
)

// ApplicantFacts is the demographic/health snapshot captured from the profile
// at bundle-build time. The engine treats it as read-only input.
type ApplicantFacts struct {
	DateOfBirth         string `json:"date_of_birth,omitempty"` // ISO date (2006-01-02)
	IsSmoker            bool   `json:"is_smoker"`
	HasHealthConditions bool   `json:"has_health_conditions"`
	HasPriorCoverage    bool   `json:"has_prior_coverage"`
	HasMedicare         bool   `json:"has_medicare"`
	WeightPounds        int    `json:"weight_pounds,omitempty"`
	HeightFeet          int    `json:"height_feet,omitempty"`
	HeightInches        int    `json:"height_inches,omitempty"`
}
