// Package redis keeps an audit trail of issued redirects in Redis.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	apperrors "mvc-redirect/internal/common/errors"
)

const (
	recentKey  = "redirects:recent"
	countKey   = "redirects:count"
	eventsChan = "redirects:events"
)

type Client struct {
	rdb    *redis.Client
	config *Config
}

type Config struct {
	Address  string `json:"address"`
	Password string `json:"password"`
	DB       int    `json:"db"`
	PoolSize int    `json:"pool_size"`
	// AuditSize is the number of recent redirects kept
	AuditSize int `json:"audit_size"`
}

// RedirectRecord is one audited redirect
type RedirectRecord struct {
	Location  string    `json:"location"`
	Path      string    `json:"path,omitempty"`
	RequestID string    `json:"request_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

func NewClient(config *Config) (*Client, error) {
	if config == nil {
		return nil, apperrors.ConfigError("redis config is required")
	}

	if config.Address == "" {
		config.Address = "localhost:6379"
	}
	if config.PoolSize == 0 {
		config.PoolSize = 10
	}
	if config.AuditSize <= 0 {
		config.AuditSize = 100
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     config.Address,
		Password: config.Password,
		DB:       config.DB,
		PoolSize: config.PoolSize,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, apperrors.ConnectionError("failed to connect to Redis", err).
			WithContext("address", config.Address)
	}

	return &Client{
		rdb:    rdb,
		config: config,
	}, nil
}

func (c *Client) Close() error {
	return c.rdb.Close()
}

func (c *Client) Health() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return c.rdb.Ping(ctx).Err()
}

// RecordRedirect stores rec in the capped recent list, bumps the counter and
// publishes it for subscribers
func (c *Client) RecordRedirect(ctx context.Context, rec RedirectRecord) error {
	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now().UTC()
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal redirect record: %w", err)
	}

	pipe := c.rdb.TxPipeline()
	pipe.Incr(ctx, countKey)
	pipe.LPush(ctx, recentKey, data)
	pipe.LTrim(ctx, recentKey, 0, int64(c.config.AuditSize-1))
	pipe.Publish(ctx, eventsChan, data)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to record redirect: %w", err)
	}
	return nil
}

// RecentRedirects returns up to limit records, newest first
func (c *Client) RecentRedirects(ctx context.Context, limit int) ([]RedirectRecord, error) {
	if limit <= 0 || limit > c.config.AuditSize {
		limit = c.config.AuditSize
	}

	items, err := c.rdb.LRange(ctx, recentKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read recent redirects: %w", err)
	}

	records := make([]RedirectRecord, 0, len(items))
	for _, item := range items {
		var rec RedirectRecord
		if err := json.Unmarshal([]byte(item), &rec); err != nil {
			return nil, fmt.Errorf("failed to unmarshal redirect record: %w", err)
		}
		records = append(records, rec)
	}
	return records, nil
}

// RedirectCount returns the number of redirects recorded so far
func (c *Client) RedirectCount(ctx context.Context) (int64, error) {
	n, err := c.rdb.Get(ctx, countKey).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	return n, err
}

// SubscribeRedirects streams newly recorded redirects
func (c *Client) SubscribeRedirects(ctx context.Context) *redis.PubSub {
	return c.rdb.Subscribe(ctx, eventsChan)
}
