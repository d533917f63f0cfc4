package apperrors

import (
	"errors"
	"strings"
)

// Resource errors
var (
	ErrResourceNotFound      = errors.New("resource not found")
	ErrResourceAlreadyExists = errors.New("resource already exists")
	ErrConflict              = errors.New("conflict")
)

// Authentication errors
var (
	ErrInvalidCredentials     = errors.New("invalid credentials")
	ErrTokenExpired           = errors.New("token expired")
	ErrTokenInvalid           = errors.New("invalid token")
	ErrTokenNotFound          = errors.New("token not found")
	ErrTokenRevoked           = errors.New("token revoked")
	ErrAccountPendingApproval = errors.New("your account is pending approval")
)

// Authorization errors
var (
	ErrPermissionDenied = errors.New("permission denied")
)

// Validation errors
var (
	ErrValidationFailed = errors.New("validation failed")
	ErrInvalidEmail     = errors.New("invalid email")
	ErrInvalidPassword  = errors.New("invalid password")
	ErrBadRequest       = errors.New("bad request")
)

// User errors
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailAlreadyExists = errors.New("email already registered")
)

// Job errors
var (
	ErrJobNotFound    = errors.New("job not found")
	ErrJobClosed      = errors.New("job posting is closed")
	ErrAlreadyApplied = errors.New("you have already applied for this job")
)

// Event errors
var (
	ErrEventNotFound      = errors.New("event not found")
	ErrAlreadyRegistered  = errors.New("you are already registered for this event")
	ErrEventFull          = errors.New("event is full")
	ErrEventClosed        = errors.New("event registration is closed")
	ErrRegistrationAbsent = errors.New("registration not found")
)

// Story and donation errors
var (
	ErrStoryNotFound    = errors.New("story not found")
	ErrDonationNotFound = errors.New("donation not found")
)

// NewResourceNotFoundError creates a new custom error for resource not found with a message
func NewResourceNotFoundError(message string) error {
	return &CustomError{
		Err:     ErrResourceNotFound,
		Message: message,
	}
}

// NewConflictError creates a new custom error for conflict situations with a message
func NewConflictError(message string) error {
	return &CustomError{
		Err:     ErrConflict,
		Message: message,
	}
}

// NewForbiddenError creates a new custom error for permission denied with a message
func NewForbiddenError(message string) error {
	return &CustomError{
		Err:     ErrPermissionDenied,
		Message: message,
	}
}

// NewBadRequestError creates a new custom error for bad request with a message
func NewBadRequestError(message string) error {
	return &CustomError{
		Err:     ErrBadRequest,
		Message: message,
	}
}

// Is reports whether err matches target or any of errList
func Is(err, target error, errList ...error) bool {
	if errors.Is(err, target) {
		return true
	}

	for _, e := range errList {
		if errors.Is(err, e) {
			return true
		}
	}

	return false
}

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err     error
	Message string
	Code    string
	Details map[string]interface{}
}

// Error implements error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap interface
func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewCustomError creates a CustomError with underlying error
func NewCustomError(err error, message string) *CustomError {
	return &CustomError{
		Err:     err,
		Message: message,
	}
}

// WithDetails adds context details to the error
func (e *CustomError) WithDetails(details map[string]interface{}) *CustomError {
	e.Details = details
	return e
}

// WithCode adds an error code
func (e *CustomError) WithCode(code string) *CustomError {
	e.Code = code
	return e
}

// UserMessage returns the message suitable for showing to an end user.
// Wrapped sentinels are rendered with the sentinel text only.
func UserMessage(err error) string {
	var custom *CustomError
	if errors.As(err, &custom) && custom.Message != "" {
		return custom.Message
	}
	for _, sentinel := range []error{
		ErrAccountPendingApproval, ErrEmailAlreadyExists, ErrAlreadyRegistered, ErrAlreadyApplied,
		ErrEventFull, ErrEventClosed, ErrJobClosed, ErrInvalidCredentials, ErrPermissionDenied,
		ErrJobNotFound, ErrEventNotFound, ErrStoryNotFound, ErrUserNotFound, ErrDonationNotFound,
		ErrRegistrationAbsent,
	} {
		if errors.Is(err, sentinel) {
			return sentinel.Error()
		}
	}
	if errors.Is(err, ErrValidationFailed) {
		return strings.TrimPrefix(err.Error(), ErrValidationFailed.Error()+": ")
	}
	if errors.Is(err, ErrBadRequest) {
		return strings.TrimPrefix(err.Error(), ErrBadRequest.Error()+": ")
	}
	return "An unexpected error occurred."
}
