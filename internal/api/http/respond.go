package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"givecycle-backend/internal/logger"
	"givecycle-backend/internal/repository"
	"givecycle-backend/internal/service"
)

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			logger.Error("Failed to encode response", "error", err)
		}
	}
}

func respondError(w http.ResponseWriter, err error) {
	respondJSON(w, statusFor(err), map[string]string{"error": err.Error()})
}

// statusFor maps the service error taxonomy onto HTTP statuses: validation
// and eligibility failures are client errors, conflicts are 409, everything
// else is a server-side failure the caller may retry.
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrInvalidAmount),
		errors.Is(err, service.ErrInsufficientBalance),
		errors.Is(err, service.ErrSelfDonation),
		errors.Is(err, service.ErrRecipientInactive):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrRecipientNotFound),
		errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrNoEligibleRecipient),
		errors.Is(err, service.ErrRecipientIneligible):
		return http.StatusUnprocessableEntity
	case errors.Is(err, service.ErrAlreadyProcessed),
		errors.Is(err, service.ErrMatchNotPending),
		errors.Is(err, service.ErrPendingCycleExists):
		return http.StatusConflict
	case errors.Is(err, service.ErrNotYourMatch),
		errors.Is(err, service.ErrNotYourReceipt):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}
