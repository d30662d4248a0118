package httpx

import (
	"errors"
	"net/http"

	"github.com/tripledger/tripledger/internal/pricing"
	"github.com/tripledger/tripledger/internal/pricing/fx"
	"github.com/tripledger/tripledger/internal/pricing/rooms"
)

// Sentinel errors for the transport layer.
var (
	ErrNotFound  = errors.New("resource not found")
	ErrDuplicate = errors.New("duplicate entry")
	ErrBadInput  = errors.New("invalid request")
)

// RespondError maps domain errors to HTTP responses using RFC7807. Pricing
// failures are deterministic input-rejection errors, so their message goes to
// the caller verbatim: the operator has to see what to fix in the plan.
func RespondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		Problem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, ErrDuplicate):
		Problem(w, http.StatusConflict, "Duplicate", err.Error())
	case errors.Is(err, ErrBadInput),
		errors.Is(err, pricing.ErrValidation),
		errors.Is(err, rooms.ErrValidation),
		errors.Is(err, fx.ErrInvalidRate):
		Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
	case errors.Is(err, rooms.ErrConfiguration),
		errors.Is(err, rooms.ErrInfeasible),
		errors.Is(err, fx.ErrUnknownCurrency):
		Problem(w, http.StatusUnprocessableEntity, "Unprocessable Plan", err.Error())
	default:
		Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}
