// Package web holds the per-request state shared by controllers: the tracked
// response writer, the current controller and action, character encoding and
// session-id URL encoding.
package web

import (
	"context"
	"fmt"
	"mime"
	"net/http"
	"net/url"
	"strings"

	"github.com/gorilla/mux"

	"mvc-redirect/internal/mapping"
)

// Options configures how exchanges are built
type Options struct {
	// ApplicationURI is the base path the application is served under
	ApplicationURI string
	// DefaultCharacterEncoding applies when the request names no charset
	DefaultCharacterEncoding string
	// SessionCookieName is the cookie (and path parameter, lower-cased)
	// carrying the session id
	SessionCookieName string
}

// Exchange is one request/response pair
type Exchange struct {
	Request  *http.Request
	Response *ResponseWriter

	opts       Options
	controller string
	action     string
}

type exchangeKey struct{}

// NewExchange wraps w and r. The controller and action names come from the
// matched mux route: either its name ("controller.action") or, for the
// default routes, the {controller} and {action} variables.
func NewExchange(w http.ResponseWriter, r *http.Request, opts Options) *Exchange {
	ex := &Exchange{
		Request:  r,
		Response: NewResponseWriter(w),
		opts:     opts,
	}

	if route := mux.CurrentRoute(r); route != nil {
		ex.controller, ex.action = mapping.ParseRouteName(route.GetName())
	}
	vars := mux.Vars(r)
	if ex.controller == "" {
		ex.controller = vars[mapping.ControllerVar]
	}
	if ex.action == "" {
		ex.action = vars[mapping.ActionVar]
	}

	return ex
}

// WithExchange stores ex in ctx
func WithExchange(ctx context.Context, ex *Exchange) context.Context {
	return context.WithValue(ctx, exchangeKey{}, ex)
}

// ExchangeFromContext returns the exchange stored by WithExchange
func ExchangeFromContext(ctx context.Context) (*Exchange, bool) {
	ex, ok := ctx.Value(exchangeKey{}).(*Exchange)
	return ex, ok
}

// ApplicationURI returns the base path of the application
func (ex *Exchange) ApplicationURI() string {
	return ex.opts.ApplicationURI
}

// ControllerName returns the controller handling this request
func (ex *Exchange) ControllerName() string {
	return ex.controller
}

// ActionName returns the action handling this request
func (ex *Exchange) ActionName() string {
	return ex.action
}

// CharacterEncoding returns the charset of the request body, falling back to
// the configured default
func (ex *Exchange) CharacterEncoding() string {
	if ct := ex.Request.Header.Get("Content-Type"); ct != "" {
		if _, params, err := mime.ParseMediaType(ct); err == nil && params["charset"] != "" {
			return params["charset"]
		}
	}
	if ex.opts.DefaultCharacterEncoding == "" {
		return "UTF-8"
	}
	return ex.opts.DefaultCharacterEncoding
}

// Committed reports whether the response has been committed
func (ex *Exchange) Committed() bool {
	return ex.Response.Committed()
}

// SessionID returns the session id sent by the client and whether it
// arrived in a cookie
func (ex *Exchange) SessionID() (id string, fromCookie bool) {
	name := ex.sessionCookieName()
	if c, err := ex.Request.Cookie(name); err == nil && c.Value != "" {
		return c.Value, true
	}
	return pathParameter(ex.Request.URL.EscapedPath(), strings.ToLower(name)), false
}

// EncodeRedirectURL embeds the session id into location when the client is
// not sending the session cookie. URLs pointing at another host are left
// alone.
func (ex *Exchange) EncodeRedirectURL(location string) string {
	id, fromCookie := ex.SessionID()
	if id == "" || fromCookie {
		return location
	}

	u, err := url.Parse(location)
	if err != nil {
		return location
	}
	if u.Host != "" && !strings.EqualFold(u.Host, ex.Request.Host) {
		return location
	}

	// Insert before the query and fragment
	end := len(location)
	if i := strings.IndexAny(location, "?#"); i >= 0 {
		end = i
	}
	param := ";" + strings.ToLower(ex.sessionCookieName()) + "="
	if strings.Contains(location[:end], param) {
		return location
	}
	return location[:end] + param + id + location[end:]
}

// SendRedirect sends a 302 to location, resolving relative references
// against the request path
func (ex *Exchange) SendRedirect(location string) error {
	if ex.Response.Committed() {
		return fmt.Errorf("response already committed")
	}

	target := location
	if u, err := url.Parse(location); err == nil && u.Scheme == "" && u.Host == "" && !strings.HasPrefix(location, "/") {
		target = ex.Request.URL.ResolveReference(u).String()
	}

	ex.Response.Header().Set("Location", target)
	ex.Response.WriteHeader(http.StatusFound)

	// Body only for GET, like http.Redirect
	if ex.Request.Method != http.MethodGet {
		return nil
	}
	if _, err := fmt.Fprintf(ex.Response, "<a href=\"%s\">Found</a>.\n", htmlEscaper.Replace(target)); err != nil {
		return err
	}
	return nil
}

func (ex *Exchange) sessionCookieName() string {
	if ex.opts.SessionCookieName == "" {
		return "JSESSIONID"
	}
	return ex.opts.SessionCookieName
}

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&#34;",
	"'", "&#39;",
)

// pathParameter extracts ";name=value" from the last path segment.
func pathParameter(path, name string) string {
	prefix := ";" + name + "="
	i := strings.LastIndex(strings.ToLower(path), prefix)
	if i < 0 {
		return ""
	}
	value := path[i+len(prefix):]
	if j := strings.IndexAny(value, ";/"); j >= 0 {
		value = value[:j]
	}
	return value
}
