package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrValidation is returned when a required field is missing or blank.
	ErrValidation = errors.New("All fields are required")
	// ErrEmailTaken is returned when registering an email that already exists.
	ErrEmailTaken = errors.New("User with email already exists")
	// ErrInvalidCredentials is returned for unknown email and wrong password
	// alike. The two cases must stay indistinguishable to callers.
	ErrInvalidCredentials = errors.New("Invalid email or password")
	// ErrUnauthorized is returned when a handler requires an identity and none
	// is attached to the request.
	ErrUnauthorized = errors.New("Authentication required")
	// ErrForbidden is returned when the caller is authenticated but not
	// permitted to act on the target record.
	ErrForbidden = errors.New("You are not authorized to perform this action")
	// ErrUserNotFound is returned when a user id does not resolve.
	ErrUserNotFound = errors.New("User not found")
	// ErrRecipeNotFound is returned when a recipe id does not resolve.
	ErrRecipeNotFound = errors.New("Recipe not found")
	// ErrInvalidReference is returned when a CSV row names a user that does
	// not exist.
	ErrInvalidReference = errors.New("Invalid user in createdBy")
	// ErrInvalidCookingTime is returned when cooking time is not a positive
	// number of minutes.
	ErrInvalidCookingTime = errors.New("Cooking time must be a positive number of minutes")
	// ErrInvalidRecipeType is returned when the cuisine tag is not one of the
	// known values.
	ErrInvalidRecipeType = errors.New("Unknown recipe type")
)

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors. Anything outside the
// taxonomy collapses to a generic 500 so internals never leak to callers.
func MapErrorToHTTP(err error) *HTTPError {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}

	switch {
	case errors.Is(err, ErrValidation),
		errors.Is(err, ErrInvalidCookingTime),
		errors.Is(err, ErrInvalidRecipeType):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "VALIDATION_ERROR")
	case errors.Is(err, ErrEmailTaken):
		return NewHTTPError(http.StatusConflict, err.Error(), "CONFLICT")
	case errors.Is(err, ErrInvalidCredentials), errors.Is(err, ErrUnauthorized):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "UNAUTHORIZED")
	case errors.Is(err, ErrForbidden):
		return NewHTTPError(http.StatusForbidden, err.Error(), "FORBIDDEN")
	case errors.Is(err, ErrUserNotFound), errors.Is(err, ErrRecipeNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "NOT_FOUND")
	case errors.Is(err, ErrInvalidReference):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INVALID_REFERENCE")
	default:
		return NewHTTPError(http.StatusInternalServerError, "Internal server error", "INTERNAL_ERROR")
	}
}
