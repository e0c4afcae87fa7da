// Package server provides the HTTP REST API for the insurance marketplace.
package server

import (
	"errors"
	"net/http"

	"github.com/Jose-Tepaz/epicareplans-marketplace-sub001/internal/bundle"
	"github.com/Jose-Tepaz/epicareplans-marketplace-sub001/internal/carrier"
)

// HTTPStatus returns the appropriate HTTP status code for an error from the
// bundle or enrollment layers.
func HTTPStatus(err error) int {
	var validationErrs bundle.ValidationErrors
	if errors.As(err, &validationErrs) {
		return http.StatusBadRequest
	}
	var unresolvable *carrier.ErrUnresolvablePlan
	if errors.As(err, &unresolvable) {
		return http.StatusUnprocessableEntity
	}
	var carrierErr *bundle.CarrierError
	if errors.As(err, &carrierErr) {
		return http.StatusUnprocessableEntity
	}
	var timeoutErr *bundle.TimeoutError
	if errors.As(err, &timeoutErr) {
		return http.StatusGatewayTimeout
	}
	var transportErr *bundle.TransportError
	if errors.As(err, &transportErr) {
		return http.StatusBadGateway
	}
	var opaqueErr *bundle.OpaqueError
	if errors.As(err, &opaqueErr) {
		return http.StatusBadGateway
	}
	var contractErr *bundle.ContractError
	if errors.As(err, &contractErr) {
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// errorBody builds the JSON error payload for a classified error. Raw
// carrier payloads are never exposed; the guidance string is what the UI
// shows.
func errorBody(err error) map[string]any {
	body := map[string]any{
		"error":    err.Error(),
		"guidance": bundle.Guidance(err),
	}

	var validationErrs bundle.ValidationErrors
	if errors.As(err, &validationErrs) {
		body["fields"] = validationErrs
		body["guidance"] = "Please correct the highlighted fields and try again."
	}
	var carrierErr *bundle.CarrierError
	if errors.As(err, &carrierErr) {
		body["guidance"] = carrierErr.Guidance()
	}
	return body
}
