package web

import (
	"bufio"
	"errors"
	"net"
	"net/http"
)

// ResponseWriter wraps http.ResponseWriter and records when the response is
// committed, i.e. when the status line and headers can no longer change.
type ResponseWriter struct {
	http.ResponseWriter
	statusCode int
	committed  bool
	writeErr   error
}

// NewResponseWriter wraps w. Wrapping an already wrapped writer returns it.
func NewResponseWriter(w http.ResponseWriter) *ResponseWriter {
	if rw, ok := w.(*ResponseWriter); ok {
		return rw
	}
	return &ResponseWriter{ResponseWriter: w, statusCode: http.StatusOK}
}

// WriteHeader commits the response
func (rw *ResponseWriter) WriteHeader(code int) {
	if rw.committed {
		return
	}
	rw.statusCode = code
	rw.committed = true
	rw.ResponseWriter.WriteHeader(code)
}

// Write commits the response and records the first write failure
func (rw *ResponseWriter) Write(b []byte) (int, error) {
	rw.committed = true
	n, err := rw.ResponseWriter.Write(b)
	if err != nil && rw.writeErr == nil {
		rw.writeErr = err
	}
	return n, err
}

// Flush commits the response and flushes it to the client when supported
func (rw *ResponseWriter) Flush() {
	rw.committed = true
	if f, ok := rw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Hijack lets websocket-style handlers take over the connection
func (rw *ResponseWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := rw.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("underlying ResponseWriter does not support hijacking")
	}
	rw.committed = true
	return h.Hijack()
}

// Unwrap exposes the wrapped writer to http.ResponseController
func (rw *ResponseWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}

// StatusCode returns the status written so far (200 if none)
func (rw *ResponseWriter) StatusCode() int {
	return rw.statusCode
}

// Committed reports whether output has begun flowing to the client
func (rw *ResponseWriter) Committed() bool {
	return rw.committed
}

// WriteErr returns the first error returned by the underlying writer
func (rw *ResponseWriter) WriteErr() error {
	return rw.writeErr
}
