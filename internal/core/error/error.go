package errx

import (
	"errors"
	"fmt"
	"net/http"
)

const (
	// SystemErrorMessage is a user-facing fallback when internal errors occur.
	SystemErrorMessage = "internal server error"
	// RedisErrorMessage describes Redis related failures.
	RedisErrorMessage = "redis operation failed"
	// RedisNotFoundMessage describes a missing Redis key.
	RedisNotFoundMessage = "redis key not found"
	// PersistenceErrorMessage describes subscriber/session store failures.
	PersistenceErrorMessage = "persistence unavailable"
	// GenerationErrorMessage describes a failed or timed out text generation call.
	GenerationErrorMessage = "text generation failed"
)

// Sentinels for the failure classes the bot distinguishes. None of them may
// prevent a reply from being produced.
var (
	ErrMissingData            = errors.New("missing data")
	ErrPersistenceUnavailable = errors.New("persistence unavailable")
	ErrGeneration             = errors.New("generation error")
	ErrMalformedInput         = errors.New("malformed input")
)

// AppError wraps an underlying error with an HTTP status and safe message.
type AppError struct {
	Err     error
	Status  int
	Message string
	kind    error
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

// Unwrap exposes the underlying error for errors.Is / errors.As support.
func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError with the provided information.
func New(err error, status int, message string) *AppError {
	return &AppError{
		Err:     err,
		Status:  status,
		Message: message,
	}
}

// Is reports whether the target is the error class of e or matches the
// underlying error.
func (e *AppError) Is(target error) bool {
	if e.kind != nil && target == e.kind {
		return true
	}
	return errors.Is(e.Err, target)
}

// As allows casting to AppError or the wrapped error in a chain.
func (e *AppError) As(target any) bool {
	if t, ok := target.(**AppError); ok {
		*t = e
		return true
	}
	return errors.As(e.Err, target)
}

// WrapPersistence marks err as a store failure. Callers treat it as empty state.
func WrapPersistence(err error) error {
	if err == nil {
		return nil
	}
	return &AppError{
		Err:     err,
		Status:  http.StatusServiceUnavailable,
		Message: PersistenceErrorMessage,
		kind:    ErrPersistenceUnavailable,
	}
}

// WrapGeneration marks err as a failed generation call.
func WrapGeneration(err error) error {
	if err == nil {
		return nil
	}
	return &AppError{
		Err:     err,
		Status:  http.StatusBadGateway,
		Message: GenerationErrorMessage,
		kind:    ErrGeneration,
	}
}

// Invalid reports bad caller input, e.g. an empty broadcast message.
func Invalid(message string) error {
	return &AppError{
		Status:  http.StatusBadRequest,
		Message: message,
		kind:    ErrMalformedInput,
	}
}

// Missing reports absent data the caller asked to act on.
func Missing(message string) error {
	return &AppError{
		Status:  http.StatusNotFound,
		Message: message,
		kind:    ErrMissingData,
	}
}

// StatusOf returns the HTTP status carried by err, or 500.
func StatusOf(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Status != 0 {
		return appErr.Status
	}
	return http.StatusInternalServerError
}

// MessageOf returns the client-safe message carried by err.
func MessageOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Message != "" {
		return appErr.Message
	}
	return SystemErrorMessage
}
