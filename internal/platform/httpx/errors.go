package httpx

import (
	"errors"
	"net/http"
)

// Sentinel errors shared by the domain services. Each service wraps these with
// a decision-specific message; handlers map them to status codes here.
var (
	// ErrNotFound covers missing roles, resources, bookmarks and likes.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate covers identity-uniqueness violations on the create paths.
	ErrDuplicate = errors.New("duplicate entry")
	// ErrValidation covers malformed request bodies.
	ErrValidation = errors.New("validation failed")
	// ErrUnprocessable covers well-formed requests carrying unknown role
	// names, categories, types or out-of-shape fields.
	ErrUnprocessable = errors.New("unprocessable entity")
	// ErrForbidden covers policy and ownership denials, and the disabled
	// self-assignment feature flag.
	ErrForbidden = errors.New("forbidden")
)

// RespondError maps domain errors to RFC7807 problem responses.
func RespondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		Problem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, ErrDuplicate):
		Problem(w, http.StatusConflict, "Duplicate", err.Error())
	case errors.Is(err, ErrValidation):
		Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
	case errors.Is(err, ErrUnprocessable):
		Problem(w, http.StatusUnprocessableEntity, "Unprocessable Entity", err.Error())
	case errors.Is(err, ErrForbidden):
		Problem(w, http.StatusForbidden, "Forbidden", err.Error())
	default:
		Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}
