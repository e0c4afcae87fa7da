package bundle

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/Jose-Tepaz/epicareplans-marketplace-sub001/internal/carrier"
	"github.com/Jose-Tepaz/epicareplans-marketplace-sub001/internal/types"
)

const dateLayout = "2006-01-02"

// BuildInput is everything a bundle request is derived from: the cart
// snapshot plus the applicant snapshot, captured at build time.
type BuildInput struct {
	Plans         []types.SelectedPlan `json:"plans" validate:"required,min=1"`
	State         string               `json:"state" validate:"required,len=2,alpha"`
	EffectiveDate string               `json:"effective_date" validate:"required"`
	Facts         types.ApplicantFacts `json:"facts"`
	AgentID       int                  `json:"agent_id"`
	Fulfillment   bool                 `json:"fulfillment"`
	EFulfillment  bool                 `json:"e_fulfillment"`
}

// Builder produces well-formed bundle requests from selected plans and an
// applicant snapshot. Build is a pure transform; all network I/O lives in
// the Client.
type Builder struct {
	resolver *carrier.Resolver
	validate *validator.Validate
	nowFn    func() time.Time
}

// NewBuilder creates a builder using the given identifier resolver. A nil
// resolver uses the compiled-in override table and standard logger.
func NewBuilder(resolver *carrier.Resolver) *Builder {
	if resolver == nil {
		resolver = carrier.NewResolver(nil, log.Default())
	}
	return &Builder{
		resolver: resolver,
		validate: validator.New(),
		nowFn:    time.Now,
	}
}

// Build validates the input and assembles the carrier wire payload. It
// returns ValidationErrors when any precondition or per-plan resolution
// fails; nothing is silently coerced or defaulted.
func (b *Builder) Build(in BuildInput) (*types.BundleRequest, error) {
	var errs ValidationErrors

	if err := b.validate.Struct(in); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return nil, fmt.Errorf("failed to validate build input: %w", err)
		}
		for _, fe := range fieldErrs {
			errs = append(errs, FieldError{Field: fe.Field(), Message: messageFor(fe)})
		}
	}

	now := b.nowFn()
	if in.EffectiveDate != "" {
		eff, err := time.ParseInLocation(dateLayout, in.EffectiveDate, now.Location())
		if err != nil {
			errs = append(errs, FieldError{Field: "EffectiveDate", Message: "must be an ISO date (YYYY-MM-DD)"})
		} else {
			today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
			if eff.Before(today) {
				errs = append(errs, FieldError{Field: "EffectiveDate", Message: "must be today or later"})
			}
		}
	}

	// Resolve identifiers per plan; collect into ordered-unique lists.
	// Uniqueness is by value, not plan index: two cart lines resolving to
	// the same carrier product collapse to one entry because the bundle
	// endpoint is keyed by product.
	var planIDs, planKeys []string
	for i, plan := range in.Plans {
		ids, err := b.resolver.Resolve(plan)
		if err != nil {
			errs = append(errs, FieldError{
				Field:   fmt.Sprintf("Plans[%d]", i),
				Message: err.Error(),
			})
			continue
		}
		planIDs = appendUnique(planIDs, ids.PlanID)
		planKeys = appendUnique(planKeys, ids.PlanKey)
	}

	if len(errs) > 0 {
		return nil, errs
	}

	req := &types.BundleRequest{
		State:                 in.State,
		PlanIDs:               planIDs,
		PlanKeys:              planKeys,
		EffectiveDate:         in.EffectiveDate,
		DateOfBirth:           in.Facts.DateOfBirth,
		AgentID:               in.AgentID,
		Fulfillment:           in.Fulfillment,
		EFulfillment:          in.EFulfillment,
		RateTier:              carrier.CalculateRateTierAt(now, in.Facts),
		MedSuppEnrollmentType: carrier.DetermineMedSuppEnrollmentTypeAt(now, in.Plans, in.Facts),
		ApplicationFormNumber: newApplicationFormNumber(),
	}
	return req, nil
}

// newApplicationFormNumber generates a unique form number per build call.
// Retries of the same logical submission must reuse the original request
// rather than rebuilding, so a replay carries the same number.
func newApplicationFormNumber() string {
	return "EPC-" + uuid.NewString()
}

func appendUnique(list []string, value string) []string {
	for _, v := range list {
		if v == value {
			return list
		}
	}
	return append(list, value)
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return "must not be empty"
	case "len":
		return "must be exactly " + fe.Param() + " characters"
	case "alpha":
		return "must contain only letters"
	default:
		return "is invalid"
	}
}
