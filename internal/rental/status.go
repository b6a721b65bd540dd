package rental

import (
	"errors"
	"net/http"
)

// StatusCode maps a ledger error to the HTTP status it is reported with.
func StatusCode(err error) int {
	switch {
	case errors.Is(err, ErrInvalidMetadata), errors.Is(err, ErrInvalidTerms), errors.Is(err, ErrBelowMinimumInvestment):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrNoOpenPlan):
		return http.StatusNotFound
	case errors.Is(err, ErrInsufficientSupply), errors.Is(err, ErrAlreadyHasOpenPlan), errors.Is(err, ErrNoRentToDistribute):
		return http.StatusConflict
	case errors.Is(err, ErrInsufficientBalance):
		return http.StatusPaymentRequired
	case errors.Is(err, ErrMintingPaused):
		return http.StatusLocked
	case errors.Is(err, ErrUnauthorized):
		return http.StatusForbidden
	}
	return http.StatusInternalServerError
}
