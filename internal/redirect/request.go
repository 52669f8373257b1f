package redirect

import (
	"fmt"

	apperrors "mvc-redirect/internal/common/errors"
	"mvc-redirect/internal/common/validation"
)

// Argument names accepted by FromArgs
const (
	ArgURI        = "uri"
	ArgURL        = "url"
	ArgController = "controller"
	ArgAction     = "action"
	ArgID         = "id"
	ArgParams     = "params"
	ArgFragment   = "fragment"
	ArgErrors     = "errors"
)

// Request describes where to redirect to. It is one of ByURI, ByURL or
// ByAction.
type Request interface {
	validationErrors() *validation.Validator
	isEmpty() bool
}

// ByURI redirects to a path below the application's base URI. An empty URI
// names the base URI itself.
type ByURI struct {
	URI    string
	Errors *validation.Validator
}

// ByURL redirects to URL verbatim.
type ByURL struct {
	URL    string
	Errors *validation.Validator
}

// ByAction redirects to the URL mapped for a controller action.
type ByAction struct {
	// Controller defaults to the controller handling the current request
	Controller string
	// Action is a name (string or fmt.Stringer) or a func value held by the
	// target controller. Empty selects the controller's default mapping.
	Action any
	// ID is added to Params as "id" while the URL is built
	ID any
	// Params fills route variables; the rest becomes the query string
	Params   map[string]any
	Fragment string
	Errors   *validation.Validator
}

func (r ByURI) validationErrors() *validation.Validator    { return r.Errors }
func (r ByURL) validationErrors() *validation.Validator    { return r.Errors }
func (r ByAction) validationErrors() *validation.Validator { return r.Errors }

func (r ByURI) isEmpty() bool { return false }
func (r ByURL) isEmpty() bool { return r.URL == "" && r.Errors == nil }

func (r ByAction) isEmpty() bool {
	return r.Controller == "" && r.Action == nil && r.ID == nil &&
		r.Params == nil && r.Fragment == "" && r.Errors == nil
}

func isEmpty(req Request) bool {
	return req == nil || req.isEmpty()
}

// FromArgs converts a loosely typed argument map into a Request. "uri" wins
// over "url", which wins over the controller/action form. A non-nil "uri"
// counts even when it is empty.
func FromArgs(args map[string]any) (Request, error) {
	if len(args) == 0 {
		return nil, apperrors.InvalidInvocationError("redirect")
	}

	var errs *validation.Validator
	if v, ok := args[ArgErrors]; ok && v != nil {
		e, ok := v.(*validation.Validator)
		if !ok {
			return nil, invalidArg(ArgErrors, v)
		}
		errs = e
	}

	if v := args[ArgURI]; v != nil {
		return ByURI{URI: fmt.Sprint(v), Errors: errs}, nil
	}
	if v := args[ArgURL]; v != nil {
		return ByURL{URL: fmt.Sprint(v), Errors: errs}, nil
	}

	req := ByAction{
		Action: args[ArgAction],
		ID:     args[ArgID],
		Errors: errs,
	}
	if v := args[ArgController]; v != nil {
		req.Controller = fmt.Sprint(v)
	}
	if v := args[ArgFragment]; v != nil {
		req.Fragment = fmt.Sprint(v)
	}

	switch p := args[ArgParams].(type) {
	case nil:
	case map[string]any:
		req.Params = p
	case map[string]string:
		req.Params = make(map[string]any, len(p))
		for k, v := range p {
			req.Params[k] = v
		}
	default:
		return nil, invalidArg(ArgParams, p)
	}

	return req, nil
}

func invalidArg(name string, value any) error {
	return apperrors.InvalidInvocationError("redirect").
		WithContext("argument", name).
		WithContext("type", fmt.Sprintf("%T", value))
}
