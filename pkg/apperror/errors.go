package apperror

import (
	"errors"
	"net/http"
)

// Kind classifies an application error independently of its message
type Kind string

const (
	KindValidation   Kind = "validation"
	KindConflict     Kind = "conflict"
	KindNotFound     Kind = "not_found"
	KindBadRequest   Kind = "bad_request"
	KindUnauthorized Kind = "unauthorized"
	KindInternal     Kind = "internal"
)

// AppError represents an application error with HTTP status code
type AppError struct {
	Code    int               `json:"code"`
	Kind    Kind              `json:"kind"`
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors,omitempty"`
	cause   error
}

func (e *AppError) Error() string {
	if e.cause != nil {
		return e.Message + ": " + e.cause.Error()
	}
	return e.Message
}

// Unwrap exposes the underlying cause of internal errors
func (e *AppError) Unwrap() error {
	return e.cause
}

// Is matches any AppError of the same kind, so callers can write
// errors.Is(err, apperror.ErrNotFound).
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// Common errors
var (
	ErrValidation   = &AppError{Code: http.StatusBadRequest, Kind: KindValidation, Message: "Erreurs de validation"}
	ErrConflict     = &AppError{Code: http.StatusConflict, Kind: KindConflict, Message: "La ressource existe déjà"}
	ErrNotFound     = &AppError{Code: http.StatusNotFound, Kind: KindNotFound, Message: "Ressource non trouvée"}
	ErrBadRequest   = &AppError{Code: http.StatusBadRequest, Kind: KindBadRequest, Message: "Requête invalide"}
	ErrUnauthorized = &AppError{Code: http.StatusUnauthorized, Kind: KindUnauthorized, Message: "Non autorisé"}
	ErrInternal     = &AppError{Code: http.StatusInternalServerError, Kind: KindInternal, Message: "Une erreur interne s'est produite"}
)

// NewValidationError creates a validation error carrying one message per field
func NewValidationError(fieldErrors map[string]string) *AppError {
	return &AppError{
		Code:    http.StatusBadRequest,
		Kind:    KindValidation,
		Message: ErrValidation.Message,
		Errors:  fieldErrors,
	}
}

// NewNotFoundError creates a not found error with a custom message
func NewNotFoundError(message string) *AppError {
	return &AppError{
		Code:    http.StatusNotFound,
		Kind:    KindNotFound,
		Message: message,
	}
}

// NewConflictError creates a conflict error with a custom message
func NewConflictError(message string) *AppError {
	return &AppError{
		Code:    http.StatusConflict,
		Kind:    KindConflict,
		Message: message,
	}
}

// NewBadRequestError creates a bad request error with a custom message
func NewBadRequestError(message string) *AppError {
	return &AppError{
		Code:    http.StatusBadRequest,
		Kind:    KindBadRequest,
		Message: message,
	}
}

// NewUnauthorizedError creates an unauthorized error with a custom message
func NewUnauthorizedError(message string) *AppError {
	return &AppError{
		Code:    http.StatusUnauthorized,
		Kind:    KindUnauthorized,
		Message: message,
	}
}

// NewInternalError wraps an unexpected failure. The cause is kept for logs
// and never rendered to clients.
func NewInternalError(cause error) *AppError {
	return &AppError{
		Code:    http.StatusInternalServerError,
		Kind:    KindInternal,
		Message: ErrInternal.Message,
		cause:   cause,
	}
}

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError converts an error to AppError if possible
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return NewInternalError(err)
}
