// Package mapping resolves controller/action/params tuples back into URLs.
//
// The reverse mapping table is the application's gorilla/mux router: every
// route that should be reachable by a redirect is registered under a name of
// the form "controller.action" (or just "controller" for the controller's
// default action). RegisterDefaults adds the conventional
// /{controller}/{action}/{id} routes used when no named route exists.
//
// Example usage:
//
//	router := mux.NewRouter()
//	router.HandleFunc("/orders/{id:[0-9]+}", show).Name(mapping.RouteName("orders", "show"))
//	mapping.RegisterDefaults(router, fallback)
//
//	holder := mapping.NewMuxHolder(router, 5*time.Minute, logger)
//	creator, ok := holder.ReverseMapping("orders", "show", map[string]any{"id": 42})
//	if ok {
//		url, err := creator.CreateURL("orders", "show", params, "UTF-8", "")
//		// url == "/orders/42"
//	}
package mapping

import "strings"

// URLCreator builds the URL for a matched reverse mapping.
type URLCreator interface {
	// CreateURL renders the URL. Params not consumed by the route's path
	// variables become query parameters; values are encoded in the given
	// character encoding and a non-empty fragment is appended.
	CreateURL(controller, action string, params map[string]any, encoding, fragment string) (string, error)
}

// Holder looks up the reverse mapping for a controller/action/params tuple.
// Implementations must be safe for concurrent use.
type Holder interface {
	// ReverseMapping returns the creator for the first matching mapping, or
	// false when nothing matches.
	ReverseMapping(controller, action string, params map[string]any) (URLCreator, bool)
}

const (
	// ControllerVar is the route variable holding the controller name
	ControllerVar = "controller"
	// ActionVar is the route variable holding the action name
	ActionVar = "action"
	// IDVar is the route variable holding the resource id
	IDVar = "id"

	// DefaultRouteName names the /{controller}/{action}/{id} route
	DefaultRouteName = "_default"
	// DefaultActionRouteName names the /{controller}/{action} route
	DefaultActionRouteName = "_default_action"
	// DefaultControllerRouteName names the /{controller} route
	DefaultControllerRouteName = "_default_controller"
)

// RouteName returns the route name under which a controller action is mapped.
func RouteName(controller, action string) string {
	if action == "" {
		return controller
	}
	return controller + "." + action
}

// ParseRouteName splits a route name produced by RouteName. Reserved names
// (leading underscore) and empty names yield empty strings.
func ParseRouteName(name string) (controller, action string) {
	if name == "" || strings.HasPrefix(name, "_") {
		return "", ""
	}
	controller, action, _ = strings.Cut(name, ".")
	return controller, action
}
