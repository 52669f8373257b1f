package redirect

import (
	"context"

	"mvc-redirect/internal/common/logging"
)

// Listener is notified after a redirect has been sent.
type Listener interface {
	ResponseRedirected(ctx context.Context, location string) error
}

// ListenerFunc adapts a function to Listener
type ListenerFunc func(ctx context.Context, location string) error

// ResponseRedirected calls f
func (f ListenerFunc) ResponseRedirected(ctx context.Context, location string) error {
	return f(ctx, location)
}

// LogListener logs every redirect at info level
type LogListener struct {
	logger logging.Logger
}

// NewLogListener creates a listener writing to logger
func NewLogListener(logger logging.Logger) *LogListener {
	if logger == nil {
		logger = logging.Component("redirect")
	}
	return &LogListener{logger: logger}
}

// ResponseRedirected implements Listener
func (l *LogListener) ResponseRedirected(ctx context.Context, location string) error {
	l.logger.WithContext(ctx).Info("Response redirected", logging.Any("location", location))
	return nil
}
