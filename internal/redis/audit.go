package redis

import (
	"context"
	"time"

	"mvc-redirect/internal/circuitbreaker"
	"mvc-redirect/internal/common/logging"
	"mvc-redirect/internal/web"
)

// AuditListener records every redirect in Redis. Recording failures are
// logged and never fail the request; after repeated failures the breaker
// opens and recording is skipped until Redis recovers.
type AuditListener struct {
	client  *Client
	breaker *circuitbreaker.GoBreakerAdapter
	logger  logging.Logger
}

func NewAuditListener(client *Client, logger logging.Logger) *AuditListener {
	if logger == nil {
		logger = logging.Component("redis-audit")
	}
	return &AuditListener{
		client:  client,
		breaker: circuitbreaker.NewGoBreaker("redirect-audit", circuitbreaker.AuditConfig, logger),
		logger:  logger,
	}
}

// ResponseRedirected records location
func (l *AuditListener) ResponseRedirected(ctx context.Context, location string) error {
	rec := RedirectRecord{
		Location:  location,
		Timestamp: time.Now().UTC(),
	}
	if id, ok := logging.RequestIDFromContext(ctx); ok {
		rec.RequestID = id
	}
	if ex, ok := web.ExchangeFromContext(ctx); ok {
		rec.Path = ex.Request.URL.Path
	}

	err := l.breaker.Execute(ctx, func() error {
		return l.client.RecordRedirect(ctx, rec)
	})
	if err != nil {
		l.logger.WithContext(ctx).Warn("Failed to audit redirect",
			logging.Field{Key: "error", Value: err.Error()},
			logging.Field{Key: "location", Value: location},
		)
	}
	return nil
}

// Suspended reports whether recording is skipped because the breaker is open
func (l *AuditListener) Suspended() bool {
	return l.breaker.IsOpen()
}

// BreakerStats reports the audit circuit breaker state
func (l *AuditListener) BreakerStats() circuitbreaker.Stats {
	return l.breaker.Stats()
}
