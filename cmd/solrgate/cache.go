package main

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/solrdex/internal/config"
	"github.com/kailas-cloud/solrdex/internal/metrics"
)

// searchCache caches rendered search responses in Redis. A nil cache is
// valid and caches nothing, so handlers need no enabled checks.
type searchCache struct {
	client rueidis.Client
	ttl    time.Duration
	prefix string
}

func newSearchCache(cfg config.CacheConfig) (*searchCache, error) {
	client, err := rueidis.NewClient(rueidis.ClientOption{
		InitAddress:  cfg.Addrs,
		Username:     cfg.Username,
		Password:     cfg.Password,
		DisableCache: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create cache client: %w", err)
	}

	return &searchCache{
		client: client,
		ttl:    time.Duration(cfg.TTLSec) * time.Second,
		prefix: cfg.KeyPrefix,
	}, nil
}

// Ping checks connectivity.
func (c *searchCache) Ping(ctx context.Context) error {
	cmd := c.client.B().Ping().Build()
	if err := c.client.Do(ctx, cmd).Error(); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Close shuts down the client.
func (c *searchCache) Close() {
	c.client.Close()
}

// Get returns the cached response for a query, if any.
func (c *searchCache) Get(ctx context.Context, query string) ([]byte, bool) {
	if c == nil {
		return nil, false
	}

	cmd := c.client.B().Get().Key(c.key(query)).Build()
	data, err := c.client.Do(ctx, cmd).AsBytes()
	if err != nil {
		metrics.CacheMiss()
		return nil, false
	}
	metrics.CacheHit()
	return data, true
}

// Set stores a rendered response with the configured TTL. Failures are
// ignored, the next request just goes to Solr again.
func (c *searchCache) Set(ctx context.Context, query string, payload []byte) {
	if c == nil {
		return
	}

	cmd := c.client.B().Set().Key(c.key(query)).Value(string(payload)).Ex(c.ttl).Build()
	_ = c.client.Do(ctx, cmd).Error()
}

// key hashes the encoded query to keep cache keys short and uniform.
func (c *searchCache) key(query string) string {
	sum := sha256.Sum256([]byte(query))
	return c.prefix + "search:" + hex.EncodeToString(sum[:16])
}
