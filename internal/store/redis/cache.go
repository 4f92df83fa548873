// Package redis is a read-through Redis cache in front of any bar store,
// guarded by a circuit breaker so a Redis outage degrades to direct store
// reads instead of failing requests.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	goredis "github.com/go-redis/redis/v8"

	"markets-engine/internal/logger"
	"markets-engine/internal/metrics"
	"markets-engine/internal/model"
)

// errMiss is returned by kv.Get for an absent key.
var errMiss = errors.New("cache miss")

// kv is the subset of Redis the cache needs.
type kv interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Ping(ctx context.Context) error
	Close() error
}

type redisKV struct {
	client *goredis.Client
}

func (r redisKV) Get(ctx context.Context, key string) ([]byte, error) {
	b, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, errMiss
	}
	return b, err
}

func (r redisKV) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return r.client.Set(ctx, key, value, ttl).Err()
}

func (r redisKV) Ping(ctx context.Context) error { return r.client.Ping(ctx).Err() }

func (r redisKV) Close() error { return r.client.Close() }

// Config configures the bar cache.
type Config struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// BarCache caches QueryBars results as JSON under a key derived from the
// query. Empty results and errors are never cached.
type BarCache struct {
	store   model.BarStore
	kv      kv
	cb      *CircuitBreaker
	ttl     time.Duration
	metrics *metrics.Metrics
}

var _ model.BarStore = (*BarCache)(nil)

// NewBarCache connects to Redis and wraps store. m may be nil.
func NewBarCache(cfg Config, store model.BarStore, m *metrics.Metrics) (*BarCache, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	slog.Info("redis bar cache connected", "addr", cfg.Addr, "ttl", cfg.TTL)
	return newBarCache(redisKV{client: client}, store, cfg.TTL, m), nil
}

func newBarCache(kv kv, store model.BarStore, ttl time.Duration, m *metrics.Metrics) *BarCache {
	cb := NewCircuitBreaker(5, 10*time.Second)
	cb.OnStateChange = func(from, to State) {
		slog.Warn("redis circuit breaker transition", "from", from.String(), "to", to.String())
		if m != nil {
			m.CacheCircuitBreakerState.Set(float64(to))
			if to == StateOpen {
				m.CacheCircuitBreakerTrips.Inc()
			}
		}
	}
	return &BarCache{store: store, kv: kv, cb: cb, ttl: ttl, metrics: m}
}

// Breaker exposes the circuit breaker for health reporting.
func (c *BarCache) Breaker() *CircuitBreaker { return c.cb }

// Ping checks Redis directly, bypassing the breaker.
func (c *BarCache) Ping(ctx context.Context) error { return c.kv.Ping(ctx) }

// Close closes the Redis client. The wrapped store is not closed.
func (c *BarCache) Close() error { return c.kv.Close() }

func barKey(q model.BarQuery) string {
	bound := func(t *time.Time) string {
		if t == nil {
			return "_"
		}
		return t.Format(model.DateLayout)
	}
	return fmt.Sprintf("bars:%s:%s:%s:%s:%d", q.Index, q.Ticker, bound(q.Start), bound(q.End), q.Limit)
}

// QueryBars serves q from Redis when possible and fills the cache from the
// store otherwise.
func (c *BarCache) QueryBars(ctx context.Context, q model.BarQuery) ([]model.Bar, error) {
	key := barKey(q)

	var cached []byte
	err := c.cb.Execute(func() error {
		b, err := c.kv.Get(ctx, key)
		if errors.Is(err, errMiss) {
			return nil
		}
		cached = b
		return err
	})
	switch {
	case err == nil && cached != nil:
		var bars []model.Bar
		if jerr := json.Unmarshal(cached, &bars); jerr == nil {
			c.count(func(m *metrics.Metrics) { m.CacheHitsTotal.Inc() })
			return bars, nil
		}
		slog.Warn("discarding undecodable cache entry", append(logger.LogWithTrace(ctx), "key", key)...)
	case errors.Is(err, ErrCircuitOpen):
		// bypass
	case err != nil:
		c.count(func(m *metrics.Metrics) { m.CacheErrorsTotal.Inc() })
		slog.Warn("redis get failed", append(logger.LogWithTrace(ctx), "key", key, "error", err)...)
	}
	c.count(func(m *metrics.Metrics) { m.CacheMissesTotal.Inc() })

	bars, err := c.store.QueryBars(ctx, q)
	if err != nil || len(bars) == 0 {
		return bars, err
	}

	payload, err := json.Marshal(bars)
	if err != nil {
		return bars, nil
	}
	err = c.cb.Execute(func() error { return c.kv.Set(ctx, key, payload, c.ttl) })
	if err != nil && !errors.Is(err, ErrCircuitOpen) {
		c.count(func(m *metrics.Metrics) { m.CacheErrorsTotal.Inc() })
		slog.Warn("redis set failed", append(logger.LogWithTrace(ctx), "key", key, "error", err)...)
	}
	return bars, nil
}

func (c *BarCache) count(f func(m *metrics.Metrics)) {
	if c.metrics != nil {
		f(c.metrics)
	}
}

// cachedStore routes bar reads through a BarCache and everything else to
// the underlying store.
type cachedStore struct {
	model.Store
	cache *BarCache
}

// WithCache returns store with QueryBars served through cache. Close
// closes both.
func WithCache(store model.Store, cache *BarCache) model.Store {
	return &cachedStore{Store: store, cache: cache}
}

func (s *cachedStore) QueryBars(ctx context.Context, q model.BarQuery) ([]model.Bar, error) {
	return s.cache.QueryBars(ctx, q)
}

func (s *cachedStore) Close() error {
	return errors.Join(s.cache.Close(), s.Store.Close())
}
