package redirect

import (
	apperrors "mvc-redirect/internal/common/errors"
	"mvc-redirect/internal/common/logging"
	"mvc-redirect/internal/mapping"
)

// Resolver turns a Request into the URL to redirect to.
type Resolver struct {
	holder mapping.Holder
	logger logging.Logger
}

// NewResolver creates a resolver that looks controller actions up in holder
func NewResolver(holder mapping.Holder, logger logging.Logger) *Resolver {
	if logger == nil {
		logger = logging.Component("redirect")
	}
	return &Resolver{holder: holder, logger: logger}
}

// Resolve returns the redirect location for req. Validation errors carried
// by req are merged into target (or into rc when target keeps no errors)
// before the location is computed.
func (r *Resolver) Resolve(rc *RequestContext, target any, req Request) (string, error) {
	if isEmpty(req) {
		return "", apperrors.InvalidInvocationError("redirect")
	}

	mergeErrors(rc, target, req)

	switch v := req.(type) {
	case ByURI:
		return rc.ApplicationURI() + v.URI, nil
	case ByURL:
		return v.URL, nil
	case ByAction:
		return r.resolveAction(rc, target, v)
	default:
		return "", apperrors.InvalidInvocationError("redirect").WithContext("request", req)
	}
}

func (r *Resolver) resolveAction(rc *RequestContext, target any, req ByAction) (string, error) {
	action, _ := ActionName(req.Action, target)

	controller := req.Controller
	if controller == "" {
		controller = rc.ControllerName()
	}
	if controller == "" {
		controller = LogicalControllerName(target)
	}

	params := req.Params
	if params == nil {
		params = make(map[string]any)
	}

	r.logger.WithContext(rc.Context()).Debug("Dynamic method [redirect] looking up URL mapping",
		logging.Any("controller", controller),
		logging.Any("action", action),
		logging.Any("params", params),
	)

	if req.ID != nil {
		previous, hadID := params[ArgID]
		params[ArgID] = req.ID
		defer func() {
			if hadID {
				params[ArgID] = previous
			} else {
				delete(params, ArgID)
			}
		}()
	}

	creator, ok := r.holder.ReverseMapping(controller, action, params)
	if !ok {
		r.logger.WithContext(rc.Context()).Debug("Dynamic method [redirect] no URL mapping found",
			logging.Any("params", params),
		)
		return "", apperrors.NoMappingError(controller, action)
	}

	location, err := creator.CreateURL(controller, action, params, rc.CharacterEncoding(), req.Fragment)
	if err != nil {
		appErr := apperrors.NoMappingError(controller, action)
		appErr.Cause = err
		return "", appErr
	}

	r.logger.WithContext(rc.Context()).Debug("Dynamic method [redirect] mapped to URL",
		logging.Any("url", location),
	)
	return location, nil
}

func mergeErrors(rc *RequestContext, target any, req Request) {
	errs := req.validationErrors()
	if errs == nil {
		return
	}

	var holder ErrorsHolder = rc
	if h, ok := target.(ErrorsHolder); ok {
		holder = h
	}

	if existing := holder.Errors(); existing != nil {
		if existing != errs {
			existing.Merge(errs)
		}
		return
	}
	holder.SetErrors(errs)
}
