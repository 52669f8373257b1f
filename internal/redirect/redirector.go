// Package redirect implements the controller redirect operation: resolving a
// navigation target into a URL and sending it as an HTTP redirect, at most
// once per request.
//
// The flow for one call is:
//
//  1. reject empty requests (invalid_invocation)
//  2. guard: reject if a redirect was issued or the response is committed
//     (cannot_redirect)
//  3. merge the request's validation errors into the controller
//  4. resolve: uri, then url, then controller/action through the reverse
//     URL mapping (no_mapping)
//  5. dispatch: optional session-id encoding, send, mark the request,
//     notify listeners (redirect_io on send failure)
package redirect

import (
	apperrors "mvc-redirect/internal/common/errors"
	"mvc-redirect/internal/common/logging"
	"mvc-redirect/internal/mapping"
)

// Options configures a Redirector
type Options struct {
	// UseSessionID embeds the session id into redirect URLs for clients
	// without the session cookie
	UseSessionID bool
	Listeners    []Listener
}

// Redirector is the entry point controllers call. It is safe for concurrent
// use once configured.
type Redirector struct {
	resolver   *Resolver
	dispatcher *Dispatcher
	logger     logging.Logger
}

// New creates a Redirector resolving controller actions through holder
func New(holder mapping.Holder, opts Options, logger logging.Logger) *Redirector {
	if logger == nil {
		logger = logging.Component("redirect")
	}
	return &Redirector{
		resolver:   NewResolver(holder, logger),
		dispatcher: NewDispatcher(opts.UseSessionID, opts.Listeners, logger),
		logger:     logger,
	}
}

// SetListeners replaces the redirect listeners. Only call it during setup.
func (r *Redirector) SetListeners(listeners []Listener) {
	r.dispatcher = NewDispatcher(r.dispatcher.useSessionID, listeners, r.logger)
}

// SetUseSessionID toggles session-id URL encoding. Only call it during setup.
func (r *Redirector) SetUseSessionID(use bool) {
	r.dispatcher = NewDispatcher(use, r.dispatcher.listeners, r.logger)
}

// Redirect issues a redirect for req on the request described by rc. target
// is the controller making the call; it is used to resolve func action
// references and, when it implements ErrorsHolder, receives req's errors.
func (r *Redirector) Redirect(rc *RequestContext, target any, req Request) error {
	if rc == nil {
		return apperrors.InternalError("redirect called outside of a request", nil)
	}
	if isEmpty(req) {
		return apperrors.InvalidInvocationError("redirect")
	}

	if err := CheckAndReserve(rc); err != nil {
		return err
	}

	location, err := r.resolver.Resolve(rc, target, req)
	if err != nil {
		return err
	}

	return r.dispatcher.Dispatch(rc, location)
}

// RedirectArgs is Redirect for the loosely typed argument map form
func (r *Redirector) RedirectArgs(rc *RequestContext, target any, args map[string]any) error {
	req, err := FromArgs(args)
	if err != nil {
		return err
	}
	return r.Redirect(rc, target, req)
}
