package apperror

import (
	"errors"
	"net/http"
)

// AppError represents an application error with HTTP status code
type AppError struct {
	Code    int          `json:"code"`
	Message string       `json:"message"`
	Errors  []FieldError `json:"errors,omitempty"`
}

// FieldError represents a validation error for a specific field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *AppError) Error() string {
	return e.Message
}

// StatusCoder is implemented by domain errors that know their HTTP status
type StatusCoder interface {
	HTTPStatus() int
}

// FieldErrorer is implemented by domain errors that carry per-field details
type FieldErrorer interface {
	FieldErrors() []FieldError
}

// NewValidationError creates a new validation error
func NewValidationError(fieldErrors []FieldError) *AppError {
	return &AppError{
		Code:    http.StatusUnprocessableEntity,
		Message: "Validation failed",
		Errors:  fieldErrors,
	}
}

// NewNotFoundError creates a not found error with a custom message
func NewNotFoundError(resource string) *AppError {
	return &AppError{
		Code:    http.StatusNotFound,
		Message: resource + " not found",
	}
}

// NewBadRequestError creates a bad request error with a custom message
func NewBadRequestError(message string) *AppError {
	return &AppError{
		Code:    http.StatusBadRequest,
		Message: message,
	}
}

// GetAppError converts an error to AppError. Errors implementing StatusCoder
// keep their status and message; anything else becomes a 500.
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	var coder StatusCoder
	if errors.As(err, &coder) {
		out := &AppError{Code: coder.HTTPStatus(), Message: err.Error()}
		var fe FieldErrorer
		if errors.As(err, &fe) {
			out.Errors = fe.FieldErrors()
		}
		return out
	}

	return &AppError{
		Code:    http.StatusInternalServerError,
		Message: err.Error(),
	}
}
