package redirect

import (
	"fmt"

	apperrors "mvc-redirect/internal/common/errors"
	"mvc-redirect/internal/common/logging"
)

// Dispatcher sends resolved redirects and notifies listeners.
type Dispatcher struct {
	useSessionID bool
	listeners    []Listener
	logger       logging.Logger
}

// NewDispatcher creates a dispatcher. The listener slice is copied; it is
// read without locking while requests are served.
func NewDispatcher(useSessionID bool, listeners []Listener, logger logging.Logger) *Dispatcher {
	if logger == nil {
		logger = logging.Component("redirect")
	}
	return &Dispatcher{
		useSessionID: useSessionID,
		listeners:    append([]Listener(nil), listeners...),
		logger:       logger,
	}
}

// Dispatch redirects the response to location. Once the redirect is sent the
// request is marked so that later attempts fail the guard, and listeners
// are told the final URL in registration order. The first listener error
// is returned.
func (d *Dispatcher) Dispatch(rc *RequestContext, location string) error {
	logger := d.logger.WithContext(rc.Context())

	redirectURL := location
	if d.useSessionID {
		redirectURL = rc.EncodeRedirectURL(location)
	}

	logger.Debug("Dynamic method [redirect] forwarding request",
		logging.Any("url", redirectURL),
	)

	if err := rc.SendRedirect(redirectURL); err != nil {
		return apperrors.RedirectIOError(location, err)
	}
	markIssued(rc)

	for i, l := range d.listeners {
		if err := l.ResponseRedirected(rc.Context(), redirectURL); err != nil {
			logger.Error("Redirect listener failed", err,
				logging.Any("listener", i),
				logging.Any("url", redirectURL),
			)
			return fmt.Errorf("redirect listener %d: %w", i, err)
		}
	}
	return nil
}
