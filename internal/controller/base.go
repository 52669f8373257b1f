// Package controller provides the pieces every application controller
// embeds: redirecting and mapping errors to responses.
package controller

import (
	"encoding/json"
	"errors"
	"net/http"

	apperrors "mvc-redirect/internal/common/errors"
	"mvc-redirect/internal/common/logging"
	"mvc-redirect/internal/common/validation"
	"mvc-redirect/internal/redirect"
)

// Base is embedded by controllers. Controllers are shared between requests,
// so validation errors are kept on the request, not on the controller.
type Base struct {
	self       any
	redirector *redirect.Redirector
	logger     logging.Logger
}

// NewBase creates a Base for the controller self. self is used to resolve
// func action references and the controller's logical name.
func NewBase(self any, redirector *redirect.Redirector, logger logging.Logger) Base {
	if logger == nil {
		logger = logging.Component("controller")
	}
	return Base{self: self, redirector: redirector, logger: logger}
}

// Redirect issues a redirect for the current request
func (b *Base) Redirect(r *http.Request, req redirect.Request) error {
	rc, ok := redirect.FromRequest(r)
	if !ok {
		return apperrors.InternalError("redirect middleware is not installed", nil)
	}
	return b.redirector.Redirect(rc, b.self, req)
}

// RedirectArgs is Redirect with the argument map form
func (b *Base) RedirectArgs(r *http.Request, args map[string]any) error {
	rc, ok := redirect.FromRequest(r)
	if !ok {
		return apperrors.InternalError("redirect middleware is not installed", nil)
	}
	return b.redirector.RedirectArgs(rc, b.self, args)
}

// Errors returns the validation errors recorded for r, nil if none
func (b *Base) Errors(r *http.Request) *validation.Validator {
	rc, ok := redirect.FromRequest(r)
	if !ok {
		return nil
	}
	return rc.Errors()
}

// ErrorResponse is the JSON body written by RespondError
type ErrorResponse struct {
	Error   string                 `json:"error"`
	Type    apperrors.ErrorType    `json:"type,omitempty"`
	Context map[string]interface{} `json:"context,omitempty"`
}

// RespondError writes err as JSON unless the response is already committed,
// in which case it is only logged.
func (b *Base) RespondError(w http.ResponseWriter, r *http.Request, err error) {
	logger := b.logger.WithContext(r.Context())

	if rc, ok := redirect.FromRequest(r); ok && rc.Committed() {
		logger.Error("Error after response was committed", err)
		return
	}

	status := StatusFor(err)
	if status >= http.StatusInternalServerError {
		logger.Error("Request failed", err, logging.String("path", r.URL.Path))
	} else {
		logger.Warn("Request rejected", logging.Err(err), logging.String("path", r.URL.Path))
	}

	body := ErrorResponse{Error: err.Error(), Type: apperrors.GetType(err)}
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		body.Error = appErr.Message
		body.Context = appErr.Context
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// StatusFor maps an error to an HTTP status code
func StatusFor(err error) int {
	switch apperrors.GetType(err) {
	case apperrors.ErrTypeInvalidInvocation:
		return http.StatusBadRequest
	case apperrors.ErrTypeNoMapping:
		return http.StatusNotFound
	case apperrors.ErrTypeCannotRedirect:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
