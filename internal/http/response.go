package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/fjod/go_pizza/internal/auth"
	"github.com/fjod/go_pizza/internal/cart"
	"github.com/fjod/go_pizza/internal/catalog"
	"github.com/fjod/go_pizza/internal/checkout"
	"github.com/fjod/go_pizza/internal/customizer"
	"github.com/fjod/go_pizza/internal/domain"
	"github.com/fjod/go_pizza/internal/ledger"
	"github.com/fjod/go_pizza/internal/promo"
	"github.com/fjod/go_pizza/internal/session"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
)

const maxBodySize = 1 << 20

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{Error: message, Code: code})
}

// decodeAndValidate reads a JSON body into dst and runs its validate tags.
// It writes the error response itself and reports whether to continue.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, v *validator.Validate, dst interface{}) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		respondJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "invalid JSON body",
			Code:    "invalid_request",
			Details: err.Error(),
		})
		return false
	}
	if v == nil {
		return true
	}
	if err := v.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			log.Error().Err(err).Msg("unexpected validation error")
			respondError(w, http.StatusInternalServerError, "internal_error", "internal validation error")
			return false
		}
		respondJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation failed",
			Code:    "validation_failed",
			Details: formatValidationErrors(verrs),
		})
		return false
	}
	return true
}

func formatValidationErrors(verrs validator.ValidationErrors) string {
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Param() != "" {
			parts = append(parts, fmt.Sprintf("%s: failed %s=%s", fe.Field(), fe.Tag(), fe.Param()))
		} else {
			parts = append(parts, fmt.Sprintf("%s: failed %s", fe.Field(), fe.Tag()))
		}
	}
	return strings.Join(parts, "; ")
}

// mapErrorToStatus translates domain errors into an HTTP status and a
// machine-readable code.
func mapErrorToStatus(err error) (int, string) {
	switch {
	case errors.Is(err, catalog.ErrItemNotFound),
		errors.Is(err, cart.ErrLineNotFound),
		errors.Is(err, ledger.ErrOrderNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, domain.ErrUnknownCategory):
		return http.StatusBadRequest, "unknown_category"
	case errors.Is(err, cart.ErrInvalidQuantity):
		return http.StatusBadRequest, "invalid_quantity"
	case errors.Is(err, customizer.ErrUnknownSize),
		errors.Is(err, customizer.ErrUnknownDough):
		return http.StatusBadRequest, "invalid_argument"
	case errors.Is(err, promo.ErrUnknownCode):
		return http.StatusUnprocessableEntity, "invalid_promo_code"
	case errors.Is(err, session.ErrEmptySelection):
		return http.StatusUnprocessableEntity, "empty_selection"
	case errors.Is(err, session.ErrEmptyCart):
		return http.StatusUnprocessableEntity, "empty_cart"
	case errors.Is(err, session.ErrBuilderClosed):
		return http.StatusConflict, "constructor_closed"
	case errors.Is(err, session.ErrNotSignedIn):
		return http.StatusUnauthorized, "unauthenticated"
	case errors.Is(err, auth.ErrInvalidPhone):
		return http.StatusUnprocessableEntity, "invalid_phone"
	case errors.Is(err, auth.ErrInvalidCode):
		return http.StatusUnprocessableEntity, "invalid_code"
	case errors.Is(err, auth.ErrEmptyName):
		return http.StatusUnprocessableEntity, "invalid_name"
	case errors.Is(err, auth.ErrWrongStep):
		return http.StatusConflict, "wrong_auth_step"
	case errors.Is(err, checkout.ErrAddressRequired),
		errors.Is(err, checkout.ErrScheduledTimeRequired),
		errors.Is(err, checkout.ErrInvalidScheduledTime),
		errors.Is(err, checkout.ErrInvalidDetails):
		return http.StatusUnprocessableEntity, "invalid_delivery_details"
	case errors.Is(err, ledger.ErrIllegalTransition):
		return http.StatusConflict, "illegal_transition"
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "timeout"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

func handleError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := mapErrorToStatus(err)
	if status >= http.StatusInternalServerError {
		log.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		respondError(w, status, code, "internal server error")
		return
	}
	respondError(w, status, code, err.Error())
}
