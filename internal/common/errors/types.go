package errors

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrorType represents the type of error
type ErrorType string

const (
	// ErrTypeInvalidInvocation is returned when an operation is called without usable arguments
	ErrTypeInvalidInvocation ErrorType = "invalid_invocation"
	// ErrTypeCannotRedirect is returned when the response can no longer be redirected
	ErrTypeCannotRedirect ErrorType = "cannot_redirect"
	// ErrTypeRedirectIO represents transport failures while sending a redirect
	ErrTypeRedirectIO ErrorType = "redirect_io"
	// ErrTypeNoMapping is returned when no reverse URL mapping matches
	ErrTypeNoMapping ErrorType = "no_mapping"
	// ErrTypeConfig represents configuration errors
	ErrTypeConfig ErrorType = "config"
	// ErrTypeConnection represents connection-related errors
	ErrTypeConnection ErrorType = "connection"
	// ErrTypeInternal represents internal system errors
	ErrTypeInternal ErrorType = "internal"
)

// AppError represents a structured application error
type AppError struct {
	Type    ErrorType              `json:"type"`
	Message string                 `json:"message"`
	Code    string                 `json:"code,omitempty"`
	Cause   error                  `json:"-"`
	Context map[string]interface{} `json:"context,omitempty"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	parts := []string{string(e.Type), e.Message}

	if e.Code != "" {
		parts = append(parts, fmt.Sprintf("code=%s", e.Code))
	}

	if e.Cause != nil {
		parts = append(parts, fmt.Sprintf("cause=%v", e.Cause))
	}

	if len(e.Context) > 0 {
		keys := make([]string, 0, len(e.Context))
		for k := range e.Context {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		contextParts := make([]string, 0, len(keys))
		for _, k := range keys {
			contextParts = append(contextParts, fmt.Sprintf("%s=%v", k, e.Context[k]))
		}
		parts = append(parts, fmt.Sprintf("context={%s}", strings.Join(contextParts, ", ")))
	}

	return strings.Join(parts, ": ")
}

// Unwrap returns the underlying cause
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithContext adds context to the error
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// WithCode adds an error code
func (e *AppError) WithCode(code string) *AppError {
	e.Code = code
	return e
}

// InvalidInvocationError creates an error for an operation invoked without arguments
func InvalidInvocationError(operation string) *AppError {
	return &AppError{
		Type:    ErrTypeInvalidInvocation,
		Message: fmt.Sprintf("no arguments supplied to %s", operation),
	}
}

// CannotRedirectError creates an error for a redirect that is no longer allowed
func CannotRedirectError(msg string) *AppError {
	return &AppError{
		Type:    ErrTypeCannotRedirect,
		Message: msg,
	}
}

// RedirectIOError wraps a transport failure while sending a redirect
func RedirectIOError(location string, cause error) *AppError {
	return &AppError{
		Type:    ErrTypeRedirectIO,
		Message: fmt.Sprintf("error redirecting request for url [%s]", location),
		Cause:   cause,
	}
}

// NoMappingError creates an error for a failed reverse URL lookup
func NoMappingError(controller, action string) *AppError {
	return &AppError{
		Type:    ErrTypeNoMapping,
		Message: fmt.Sprintf("no URL mapping found for controller [%s] and action [%s]", controller, action),
	}
}

// ConfigError creates a new configuration error
func ConfigError(msg string) *AppError {
	return &AppError{
		Type:    ErrTypeConfig,
		Message: msg,
	}
}

// ConnectionError creates a new connection error
func ConnectionError(msg string, cause error) *AppError {
	return &AppError{
		Type:    ErrTypeConnection,
		Message: msg,
		Cause:   cause,
	}
}

// InternalError creates a new internal error
func InternalError(msg string, cause error) *AppError {
	return &AppError{
		Type:    ErrTypeInternal,
		Message: msg,
		Cause:   cause,
	}
}

// IsType checks if an error, or any error it wraps, is an AppError of a specific type
func IsType(err error, errType ErrorType) bool {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return false
	}
	return appErr.Type == errType
}

// GetType returns the error type if it's an AppError, otherwise returns ErrTypeInternal
func GetType(err error) ErrorType {
	if err == nil {
		return ""
	}

	var appErr *AppError
	if !errors.As(err, &appErr) {
		return ErrTypeInternal
	}

	return appErr.Type
}
