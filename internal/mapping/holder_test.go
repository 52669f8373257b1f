package mapping

import (
	"net/http"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mvc-redirect/internal/common/logging"
)

func noop(w http.ResponseWriter, r *http.Request) {}

func newTestRouter(withDefaults bool) *mux.Router {
	router := mux.NewRouter()
	router.HandleFunc("/orders", noop).Name(RouteName("orders", ""))
	router.HandleFunc("/orders/{id:[0-9]+}", noop).Name(RouteName("orders", "show"))
	router.HandleFunc("/shop/{category}/items", noop).Name(RouteName("catalog", "list"))

	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/reports/{year}", noop).Name(RouteName("reports", "year"))

	if withDefaults {
		RegisterDefaults(router, http.HandlerFunc(noop))
	}
	return router
}

func createURL(t *testing.T, h Holder, controller, action string, params map[string]any, charset, fragment string) string {
	t.Helper()
	creator, ok := h.ReverseMapping(controller, action, params)
	require.True(t, ok, "expected a mapping for %s.%s", controller, action)

	url, err := creator.CreateURL(controller, action, params, charset, fragment)
	require.NoError(t, err)
	return url
}

func TestRouteNames(t *testing.T) {
	assert.Equal(t, "orders.show", RouteName("orders", "show"))
	assert.Equal(t, "orders", RouteName("orders", ""))

	c, a := ParseRouteName("orders.show")
	assert.Equal(t, "orders", c)
	assert.Equal(t, "show", a)

	c, a = ParseRouteName("orders")
	assert.Equal(t, "orders", c)
	assert.Equal(t, "", a)

	c, a = ParseRouteName(DefaultRouteName)
	assert.Empty(t, c)
	assert.Empty(t, a)
}

func TestMuxHolder_NamedRoutes(t *testing.T) {
	h := NewMuxHolder(newTestRouter(true), time.Minute, logging.NewNopLogger())

	tests := []struct {
		name       string
		controller string
		action     string
		params     map[string]any
		fragment   string
		want       string
	}{
		{"path variable from params", "orders", "show", map[string]any{"id": 42}, "", "/orders/42"},
		{"extra params go to the query", "orders", "show", map[string]any{"id": 42, "format": "json", "page": 2}, "", "/orders/42?format=json&page=2"},
		{"fragment is appended", "orders", "show", map[string]any{"id": 7}, "items", "/orders/7#items"},
		{"controller default route", "orders", "", nil, "", "/orders"},
		{"controller default with query", "orders", "", map[string]any{"sort": "date"}, "", "/orders?sort=date"},
		{"subrouter prefix is kept", "reports", "year", map[string]any{"year": 2024}, "", "/api/reports/2024"},
		{"query values are escaped", "orders", "", map[string]any{"q": "a b&c"}, "", "/orders?q=a+b%26c"},
		{"slices become repeated params", "orders", "", map[string]any{"tag": []string{"x", "y"}}, "", "/orders?tag=x&tag=y"},
		{"nil params are dropped", "orders", "", map[string]any{"skip": nil}, "", "/orders"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := createURL(t, h, tt.controller, tt.action, tt.params, "UTF-8", tt.fragment)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMuxHolder_DefaultRoutes(t *testing.T) {
	h := NewMuxHolder(newTestRouter(true), time.Minute, logging.NewNopLogger())

	t.Run("controller action and id", func(t *testing.T) {
		assert.Equal(t, "/books/edit/7", createURL(t, h, "books", "edit", map[string]any{"id": 7}, "", ""))
	})

	t.Run("controller and action", func(t *testing.T) {
		assert.Equal(t, "/books/list?max=10", createURL(t, h, "books", "list", map[string]any{"max": 10}, "", ""))
	})

	t.Run("controller only", func(t *testing.T) {
		assert.Equal(t, "/books", createURL(t, h, "books", "", nil, "", ""))
	})

	t.Run("named route missing its variable falls back", func(t *testing.T) {
		assert.Equal(t, "/orders/show", createURL(t, h, "orders", "show", map[string]any{}, "", ""))
	})
}

func TestMuxHolder_NoMatch(t *testing.T) {
	h := NewMuxHolder(newTestRouter(false), time.Minute, logging.NewNopLogger())

	creator, ok := h.ReverseMapping("books", "edit", map[string]any{"id": 1})
	assert.False(t, ok)
	assert.Nil(t, creator)

	_, ok = h.ReverseMapping("orders", "show", map[string]any{})
	assert.False(t, ok, "orders.show requires an id")
}

func TestMuxHolder_ConstraintViolation(t *testing.T) {
	h := NewMuxHolder(newTestRouter(false), time.Minute, logging.NewNopLogger())

	params := map[string]any{"id": "abc"}
	creator, ok := h.ReverseMapping("orders", "show", params)
	require.True(t, ok)

	_, err := creator.CreateURL("orders", "show", params, "UTF-8", "")
	assert.Error(t, err)
}

func TestMuxHolder_ConstraintFallsThrough(t *testing.T) {
	h := NewMuxHolder(newTestRouter(true), time.Minute, logging.NewNopLogger())

	assert.Equal(t, "/orders/show/abc", createURL(t, h, "orders", "show", map[string]any{"id": "abc"}, "", ""))

	// Same key shape, served from the cache, still prefers the named route.
	assert.Equal(t, "/orders/12", createURL(t, h, "orders", "show", map[string]any{"id": 12}, "", ""))
}

func TestMuxHolder_CharacterEncoding(t *testing.T) {
	h := NewMuxHolder(newTestRouter(false), time.Minute, logging.NewNopLogger())
	params := map[string]any{"category": "café", "q": "crème"}

	tests := []struct {
		charset string
		want    string
	}{
		{"UTF-8", "/shop/caf%C3%A9/items?q=cr%C3%A8me"},
		{"", "/shop/caf%C3%A9/items?q=cr%C3%A8me"},
		{"ISO-8859-1", "/shop/caf%E9/items?q=cr%E8me"},
		{"no-such-charset", "/shop/caf%C3%A9/items?q=cr%C3%A8me"},
	}

	for _, tt := range tests {
		t.Run(tt.charset, func(t *testing.T) {
			assert.Equal(t, tt.want, createURL(t, h, "catalog", "list", params, tt.charset, ""))
		})
	}
}

func TestMuxHolder_Cache(t *testing.T) {
	router := newTestRouter(false)
	h := NewMuxHolder(router, time.Minute, logging.NewNopLogger())

	_, ok := h.ReverseMapping("orders", "show", map[string]any{"id": 1})
	require.True(t, ok)
	_, ok = h.ReverseMapping("orders", "show", map[string]any{"id": 2})
	require.True(t, ok)
	_, ok = h.ReverseMapping("books", "", nil)
	require.False(t, ok)

	assert.Equal(t, 2, h.cache.ItemCount(), "hits and misses are cached by key shape")

	// A cached miss stays a miss until the cache is invalidated.
	router.HandleFunc("/books", noop).Name("books")
	_, ok = h.ReverseMapping("books", "", nil)
	assert.False(t, ok)

	h.Invalidate()
	_, ok = h.ReverseMapping("books", "", nil)
	assert.True(t, ok)
}

func TestMuxHolder_CacheDisabled(t *testing.T) {
	h := NewMuxHolder(newTestRouter(false), 0, logging.NewNopLogger())
	assert.Nil(t, h.cache)

	_, ok := h.ReverseMapping("orders", "", nil)
	assert.True(t, ok)
	h.Invalidate()
}
