package utils

import (
	"fmt"
	"net/http"
)

// ServiceError represents a service-level error with context
type ServiceError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"statusCode,omitempty"`
	Details    string `json:"details,omitempty"`
	Cause      error  `json:"-"` // Original error, not exposed in JSON
}

func (e ServiceError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e ServiceError) Unwrap() error {
	return e.Cause
}

func NewServiceError(code, message string) error {
	return ServiceError{
		Code:       code,
		Message:    message,
		StatusCode: http.StatusInternalServerError,
	}
}

func NewServiceErrorWithStatus(code, message string, statusCode int) error {
	return ServiceError{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
	}
}

func NewValidationError(message string) error {
	return ServiceError{
		Code:       "VALIDATION_ERROR",
		Message:    message,
		StatusCode: http.StatusBadRequest,
	}
}

func NewNotFoundError(resource string) error {
	return ServiceError{
		Code:       "NOT_FOUND",
		Message:    resource + " not found",
		StatusCode: http.StatusNotFound,
	}
}

func NewConflictError(message string) error {
	return ServiceError{
		Code:       "CONFLICT",
		Message:    message,
		StatusCode: http.StatusConflict,
	}
}

// PermissionError is a denial from the data layer. It carries the document
// path and the operation that was refused so the denial can be logged with
// enough context to reproduce it.
type PermissionError struct {
	Path      string `json:"path"`
	Operation string `json:"operation"` // get, list, create, update, delete
	Message   string `json:"message"`
}

func (e PermissionError) Error() string {
	return fmt.Sprintf("permission denied: %s on %s: %s", e.Operation, e.Path, e.Message)
}

func NewPermissionError(path, operation, message string) error {
	return PermissionError{
		Path:      path,
		Operation: operation,
		Message:   message,
	}
}

func IsPermissionError(err error) bool {
	_, ok := err.(PermissionError)
	return ok
}

func IsServiceError(err error) bool {
	_, ok := err.(ServiceError)
	return ok
}

func GetServiceError(err error) (ServiceError, bool) {
	if serviceErr, ok := err.(ServiceError); ok {
		return serviceErr, true
	}
	return ServiceError{}, false
}
