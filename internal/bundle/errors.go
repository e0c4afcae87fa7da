// Package bundle builds carrier application-bundle requests and performs the
// network exchange with the carrier's bundle endpoint.
package bundle

import (
	"fmt"
	"strings"

	"github.com/Jose-Tepaz/epicareplans-marketplace-sub001/internal/types"
)

// FieldError is a single per-field validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors is the structured failure of a bundle build. Every failed
// precondition and every unresolvable plan contributes one entry.
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	var sb strings.Builder
	sb.WriteString("bundle validation failed:")
	for _, fe := range v {
		sb.WriteString(fmt.Sprintf(" %s: %s;", fe.Field, fe.Message))
	}
	return sb.String()
}

// TimeoutError indicates the carrier call exceeded the hard timeout. It is
// distinguishable from other transport failures so the UI can say so.
type TimeoutError struct {
	URL   string
	Cause error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("carrier request to %s timed out: %v", e.URL, e.Cause)
}

func (e *TimeoutError) Unwrap() error { return e.Cause }

// TransportError indicates a network-level failure before any HTTP status
// was received.
type TransportError struct {
	URL   string
	Cause error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("carrier request to %s failed: %v", e.URL, e.Cause)
}

func (e *TransportError) Unwrap() error { return e.Cause }

// CarrierError is a non-2xx response carrying the carrier's structured
// error-code/detail array.
type CarrierError struct {
	StatusCode int
	Details    []types.CarrierErrorDetail
}

func (e *CarrierError) Error() string {
	codes := make([]string, 0, len(e.Details))
	for _, d := range e.Details {
		codes = append(codes, d.ErrorCode)
	}
	return fmt.Sprintf("carrier rejected request (HTTP %d): %s", e.StatusCode, strings.Join(codes, ", "))
}

// Known carrier error codes with dedicated user guidance.
const (
	CodeNoPlansAvailable = "NoPlansAvailable"
	CodeRateMismatch     = "RateMismatch"
	CodeInvalidState     = "InvalidState"
)

// Guidance returns carrier-specific user-facing guidance for the first
// recognized error code, or a generic retry message.
func (e *CarrierError) Guidance() string {
	for _, d := range e.Details {
		switch d.ErrorCode {
		case CodeNoPlansAvailable:
			return "The selected plans are not available in your state."
		case CodeRateMismatch:
			return "Plan rates have changed since your quote. Please refresh your quote and try again."
		case CodeInvalidState:
			return "We couldn't verify your state of residence. Please check your address."
		}
	}
	return genericGuidance
}

// OpaqueError is a non-2xx response whose body could not be parsed as the
// carrier's structured error array.
type OpaqueError struct {
	StatusCode int
	Body       string
}

func (e *OpaqueError) Error() string {
	return fmt.Sprintf("opaque carrier failure (HTTP %d)", e.StatusCode)
}

// ContractError is a 2xx response whose body fails the expected bundle
// shape. It marks contract drift on the carrier side and must never be
// coerced into an empty valid state.
type ContractError struct {
	Message string
	Cause   error
}

func (e *ContractError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("carrier contract drift: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("carrier contract drift: %s", e.Message)
}

func (e *ContractError) Unwrap() error { return e.Cause }

const genericGuidance = "We couldn't load your eligibility questions. Please try again."

// Guidance maps any bundle-layer error to the user-facing message the UI
// should show. Raw carrier payloads are never exposed.
func Guidance(err error) string {
	switch e := err.(type) {
	case *CarrierError:
		return e.Guidance()
	case *TimeoutError:
		return "The carrier is taking too long to respond. Please try again in a few minutes."
	default:
		return genericGuidance
	}
}
