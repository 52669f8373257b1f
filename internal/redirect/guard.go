package redirect

import apperrors "mvc-redirect/internal/common/errors"

// CheckAndReserve fails with a cannot_redirect error when a redirect was
// already issued on this request or the response is committed. It does not
// mark the request; the dispatcher does that after a successful send.
func CheckAndReserve(rc *RequestContext) error {
	if rc.issued {
		return apperrors.CannotRedirectError("Cannot issue a redirect(..) here. A previous call to redirect(..) has already redirected the response.")
	}
	if rc.Committed() {
		return apperrors.CannotRedirectError("Cannot issue a redirect(..) here. The response has already been committed either by another redirect or by directly writing to the response.")
	}
	return nil
}

// markIssued is never undone for the lifetime of the request.
func markIssued(rc *RequestContext) {
	rc.issued = true
}
