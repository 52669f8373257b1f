package mapping

import (
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/gorilla/mux"
	gocache "github.com/patrickmn/go-cache"

	"mvc-redirect/internal/common/logging"
)

// MuxHolder is a Holder backed by the named routes of a gorilla/mux router.
// Lookups are cached by controller, action and the set of param keys. Param
// values are only checked against the route patterns when the URL is built,
// so a lookup keeps every candidate whose variables are present.
type MuxHolder struct {
	router *mux.Router
	cache  *gocache.Cache
	logger logging.Logger
}

// candidate is a named route together with its template variables.
type candidate struct {
	route *mux.Route
	vars  []string
}

// cachedLookup lets a miss be cached alongside hits.
type cachedLookup struct {
	candidates []candidate
}

// NewMuxHolder creates a holder over router. A non-positive cacheTTL disables
// the lookup cache.
func NewMuxHolder(router *mux.Router, cacheTTL time.Duration, logger logging.Logger) *MuxHolder {
	if logger == nil {
		logger = logging.Component("mapping")
	}

	h := &MuxHolder{
		router: router,
		logger: logger,
	}
	if cacheTTL > 0 {
		h.cache = gocache.New(cacheTTL, 2*cacheTTL)
	}
	return h
}

// RegisterDefaults adds the conventional controller/action/id routes to
// router. Register them after every named route so that incoming requests
// prefer the explicit mappings.
func RegisterDefaults(router *mux.Router, handler http.Handler) {
	router.Handle("/{controller}/{action}/{id}", handler).Name(DefaultRouteName)
	router.Handle("/{controller}/{action}", handler).Name(DefaultActionRouteName)
	router.Handle("/{controller}", handler).Name(DefaultControllerRouteName)
}

// ReverseMapping implements Holder.
func (h *MuxHolder) ReverseMapping(controller, action string, params map[string]any) (URLCreator, bool) {
	key := cacheKey(controller, action, params)

	if h.cache != nil {
		if cached, found := h.cache.Get(key); found {
			return cached.(*cachedLookup).creator()
		}
	}

	lookup := h.lookup(controller, action, params)
	if h.cache != nil {
		h.cache.SetDefault(key, lookup)
	}

	if len(lookup.candidates) == 0 {
		h.logger.Debug("No reverse mapping matched",
			logging.Field{Key: "controller", Value: controller},
			logging.Field{Key: "action", Value: action},
			logging.Field{Key: "params", Value: paramKeys(params)},
		)
	}
	return lookup.creator()
}

// Invalidate drops every cached lookup. Call it after changing the router.
func (h *MuxHolder) Invalidate() {
	if h.cache != nil {
		h.cache.Flush()
	}
}

func (h *MuxHolder) lookup(controller, action string, params map[string]any) *cachedLookup {
	found := &cachedLookup{}
	for _, name := range candidateNames(controller, action) {
		route := h.router.Get(name)
		if route == nil {
			continue
		}

		vars, err := route.GetVarNames()
		if err != nil {
			h.logger.Warn("Skipping route with unreadable template",
				logging.Field{Key: "route", Value: name},
				logging.Field{Key: "error", Value: err.Error()},
			)
			continue
		}

		if satisfies(vars, action, params) {
			found.candidates = append(found.candidates, candidate{route: route, vars: vars})
		}
	}
	return found
}

func (c *cachedLookup) creator() (URLCreator, bool) {
	if len(c.candidates) == 0 {
		return nil, false
	}
	return &routeCreator{candidates: c.candidates}, true
}

// candidateNames lists route names in match priority order.
func candidateNames(controller, action string) []string {
	if action == "" {
		return []string{RouteName(controller, ""), DefaultControllerRouteName}
	}
	return []string{RouteName(controller, action), DefaultRouteName, DefaultActionRouteName}
}

func satisfies(vars []string, action string, params map[string]any) bool {
	for _, name := range vars {
		switch name {
		case ControllerVar:
			continue
		case ActionVar:
			if action == "" {
				return false
			}
		default:
			if v, ok := params[name]; !ok || v == nil {
				return false
			}
		}
	}
	return true
}

func cacheKey(controller, action string, params map[string]any) string {
	return controller + "|" + action + "|" + strings.Join(paramKeys(params), ",")
}

func paramKeys(params map[string]any) []string {
	keys := make([]string, 0, len(params))
	for k, v := range params {
		if v != nil {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}
