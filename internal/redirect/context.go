package redirect

import (
	"context"
	"net/http"

	"mvc-redirect/internal/common/validation"
	"mvc-redirect/internal/web"
)

// Transport is the request/response pair a redirect is issued on.
// *web.Exchange implements it.
type Transport interface {
	ApplicationURI() string
	ControllerName() string
	CharacterEncoding() string
	Committed() bool
	EncodeRedirectURL(location string) string
	SendRedirect(location string) error
}

// ErrorsHolder is implemented by targets that keep their own validation
// errors. Errors handed to a redirect are merged into it.
type ErrorsHolder interface {
	Errors() *validation.Validator
	SetErrors(errs *validation.Validator)
}

// RequestContext is the per-request redirect state. It is created once per
// request, before any handler runs.
type RequestContext struct {
	Transport

	ctx    context.Context
	errors *validation.Validator
	issued bool
}

// NewRequestContext creates the redirect state for one request
func NewRequestContext(ctx context.Context, transport Transport) *RequestContext {
	if ctx == nil {
		ctx = context.Background()
	}
	return &RequestContext{Transport: transport, ctx: ctx}
}

// Context returns the request's context
func (rc *RequestContext) Context() context.Context {
	return rc.ctx
}

// Errors returns the request-level validation errors, nil if none were set
func (rc *RequestContext) Errors() *validation.Validator {
	return rc.errors
}

// SetErrors replaces the request-level validation errors
func (rc *RequestContext) SetErrors(errs *validation.Validator) {
	rc.errors = errs
}

type requestContextKey struct{}

// FromContext returns the RequestContext installed by Middleware
func FromContext(ctx context.Context) (*RequestContext, bool) {
	rc, ok := ctx.Value(requestContextKey{}).(*RequestContext)
	return rc, ok
}

// FromRequest is FromContext(r.Context())
func FromRequest(r *http.Request) (*RequestContext, bool) {
	return FromContext(r.Context())
}

// Middleware creates the RequestContext for every request. It must run
// after web.Middleware.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ex, ok := web.ExchangeFromContext(r.Context())
		if !ok {
			http.Error(w, "redirect middleware requires web.Middleware", http.StatusInternalServerError)
			return
		}

		rc := NewRequestContext(r.Context(), ex)
		r = r.WithContext(context.WithValue(r.Context(), requestContextKey{}, rc))
		rc.ctx = r.Context()
		ex.Request = r
		next.ServeHTTP(w, r)
	})
}
