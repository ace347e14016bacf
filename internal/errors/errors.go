package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrUserExists is returned when registering with an email or mobile already taken.
	ErrUserExists = errors.New("a user with this email or mobile already exists")
	// ErrUserNotFound is returned when the login email matches no record.
	ErrUserNotFound = errors.New("User does not exist")
	// ErrInvalidCredentials is returned when the password comparison fails on login.
	ErrInvalidCredentials = errors.New("Incorrect email or password")
	// ErrWrongPassword is returned when the current-password check fails on password change.
	ErrWrongPassword = errors.New("Current password is incorrect")
	// ErrNoRefreshToken is returned when the refresh cookie is absent.
	ErrNoRefreshToken = errors.New("No refresh token provided")
	// ErrInvalidRefreshToken is returned on refresh-token verification failure or replay.
	ErrInvalidRefreshToken = errors.New("Invalid refresh token")
	// ErrTokenExpired is returned when a token's expiry has passed.
	ErrTokenExpired = errors.New("token has expired")
	// ErrTokenInvalid is returned when a token fails the signature or claims check.
	ErrTokenInvalid = errors.New("token is invalid")
	// ErrOrderNotFound is returned when an order id resolves to no record.
	ErrOrderNotFound = errors.New("order not found")
	// ErrProductNotFound is returned when an order references a missing product.
	ErrProductNotFound = errors.New("product not found")
	// ErrSignatureMismatch is returned when the gateway signature check fails.
	ErrSignatureMismatch = errors.New("Payment verification failed")
	// ErrUserInactive is returned when a deactivated account presents a valid token.
	ErrUserInactive = errors.New("this account has been deactivated")
)

// ErrorResponse is the JSON error body sent to clients.
type ErrorResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Errors  interface{} `json:"errors,omitempty"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Errors     interface{}
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Success: false,
		Message: e.Message,
		Errors:  e.Errors,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors.
func MapErrorToHTTP(err error) *HTTPError {
	switch {
	case errors.Is(err, ErrUserExists):
		return NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, ErrUserNotFound),
		errors.Is(err, ErrInvalidCredentials),
		errors.Is(err, ErrWrongPassword),
		errors.Is(err, ErrNoRefreshToken),
		errors.Is(err, ErrUserInactive):
		return NewHTTPError(http.StatusUnauthorized, err.Error())
	case errors.Is(err, ErrInvalidRefreshToken):
		return NewHTTPError(http.StatusForbidden, err.Error())
	case errors.Is(err, ErrTokenExpired), errors.Is(err, ErrTokenInvalid):
		return NewHTTPError(http.StatusUnauthorized, err.Error())
	case errors.Is(err, ErrOrderNotFound), errors.Is(err, ErrProductNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, ErrSignatureMismatch):
		return NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error")
	}
}
