package middleware

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mvc-redirect/internal/common/logging"
	"mvc-redirect/internal/web"
)

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()

	var buf bytes.Buffer
	logger, err := logging.NewZapLogger(logging.LogConfig{Level: logging.DebugLevel, Output: &buf})
	require.NoError(t, err)

	previous := logging.GetGlobalLogger()
	logging.SetGlobalLogger(logger)
	t.Cleanup(func() { logging.SetGlobalLogger(previous) })
	return &buf
}

func TestRequestID(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = logging.RequestIDFromContext(r.Context())
	}))

	t.Run("generated", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Len(t, seen, 36)
		assert.Equal(t, seen, rec.Header().Get(RequestIDHeader))
	})

	t.Run("propagated", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(RequestIDHeader, "abc-123")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, "abc-123", seen)
		assert.Equal(t, "abc-123", rec.Header().Get(RequestIDHeader))
	})
}

func TestLoggingMiddleware_LogsRedirectLocation(t *testing.T) {
	buf := captureLogs(t)

	h := RequestID(LoggingMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/orders/1", http.StatusFound)
	})))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/orders?x=1", nil))

	out := buf.String()
	assert.Contains(t, out, "302")
	assert.Contains(t, out, "/orders/1")
	assert.Contains(t, out, "x=1")
	assert.Contains(t, out, rec.Header().Get(RequestIDHeader))
}

func TestLoggingMiddleware_ErrorStatus(t *testing.T) {
	buf := captureLogs(t)

	h := LoggingMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Contains(t, buf.String(), "ERROR")
}

func TestLoggingMiddleware_Flush(t *testing.T) {
	captureLogs(t)

	h := LoggingMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("data: 1\n\n"))
		flusher, ok := w.(http.Flusher)
		require.True(t, ok)
		flusher.Flush()
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/stream", nil))

	assert.True(t, rec.Flushed)
}

func TestLoggingMiddleware_SharesTrackedWriter(t *testing.T) {
	captureLogs(t)

	var inner *web.ResponseWriter
	h := LoggingMiddleware(web.Middleware(web.Options{})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ex, ok := web.ExchangeFromContext(r.Context())
		require.True(t, ok)
		inner = ex.Response
		assert.Same(t, inner, w)
		w.WriteHeader(http.StatusNoContent)
	})))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.NotNil(t, inner)
	assert.Equal(t, http.StatusNoContent, inner.StatusCode())
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

type failingWriter struct {
	*httptest.ResponseRecorder
}

func (f failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("connection reset")
}

func TestLoggingMiddleware_WriteError(t *testing.T) {
	buf := captureLogs(t)

	h := LoggingMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("body"))
	}))
	h.ServeHTTP(failingWriter{httptest.NewRecorder()}, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Contains(t, buf.String(), "Response write failed")
	assert.Contains(t, buf.String(), "connection reset")
}
