package apperrors

import "errors"

// Common errors
var (
	// Resource errors
	ErrResourceNotFound      = errors.New("resource not found")
	ErrResourceAlreadyExists = errors.New("resource already exists")
	ErrConflict              = errors.New("conflict")

	// Authentication errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("invalid token")
	ErrTokenNotFound      = errors.New("token not found")
	ErrTokenRevoked       = errors.New("token revoked")
	ErrAccountDisabled    = errors.New("account is disabled")

	// Authorization errors
	ErrPermissionDenied = errors.New("permission denied")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")
	ErrInvalidEmail     = errors.New("invalid email")
	ErrInvalidPassword  = errors.New("invalid password")
	ErrBadRequest       = errors.New("bad request")

	// Profile errors
	ErrProfileNotFound      = errors.New("profile not found")
	ErrEmailAlreadyExists   = errors.New("email already exists")
	ErrUsernameAlreadyTaken = errors.New("username already taken")
)

// Invite code errors
var (
	ErrInviteCodeNotFound = errors.New("invite code not found")
	ErrInviteCodeInvalid  = errors.New("invite code invalid, expired or already used")
	// ErrInviteCodeClaimed signals the validate/claim race: the code was valid
	// moments ago but someone else claimed it first.
	ErrInviteCodeClaimed = errors.New("invite code was claimed by someone else")
	// ErrInviteCodeCollision signals a generated code collided with an
	// existing one. The generator retries.
	ErrInviteCodeCollision = errors.New("invite code collision")
)

// Work errors
var (
	ErrWorkNotFound     = errors.New("work not found")
	ErrWorkNotPending   = errors.New("work is not pending review")
	ErrNoImagesUploaded = errors.New("no images could be uploaded")
)

// Moderation errors
var (
	ErrRejectionNoteTooShort = errors.New("rejection note too short")
)

// Comment errors
var (
	ErrCommentTooShort     = errors.New("comment content too short")
	ErrCommentNoCategories = errors.New("comment needs at least one feedback category")
)

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err     error
	Message string
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
