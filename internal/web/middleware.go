package web

import "net/http"

// Middleware builds an Exchange for every request and hands the tracked
// response writer to the rest of the chain. Install it with
// (*mux.Router).Use so that the matched route is visible.
func Middleware(opts Options) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ex := NewExchange(w, r, opts)
			r = r.WithContext(WithExchange(r.Context(), ex))
			ex.Request = r
			next.ServeHTTP(ex.Response, r)
		})
	}
}
