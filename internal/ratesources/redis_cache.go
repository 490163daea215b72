package ratesources

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

const tableKeyPrefix = "rates:table:"

// CachedProvider shares one provider's latest table between instances through
// Redis. Redis failures fall through to the wrapped provider.
type CachedProvider struct {
	inner  RateProvider
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

var (
	_ RateProvider = (*CachedProvider)(nil)
	_ Invalidator  = (*CachedProvider)(nil)
)

// NewCachedProvider wraps inner with a Redis table cache of the given ttl.
func NewCachedProvider(inner RateProvider, client *redis.Client, ttl time.Duration, logger *slog.Logger) *CachedProvider {
	if logger == nil {
		logger = slog.Default()
	}
	return &CachedProvider{inner: inner, client: client, ttl: ttl, logger: logger}
}

func (p *CachedProvider) Name() string { return p.inner.Name() }

func (p *CachedProvider) key() string { return tableKeyPrefix + p.inner.Name() }

// Invalidate removes the shared table for this provider.
func (p *CachedProvider) Invalidate(ctx context.Context) error {
	if err := p.client.Del(ctx, p.key()).Err(); err != nil {
		return fmt.Errorf("failed to drop cached rate table: %w", err)
	}
	return nil
}

func (p *CachedProvider) Fetch(ctx context.Context) (map[string]decimal.Decimal, error) {
	key := p.key()

	raw, err := p.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		if rates, decodeErr := decodeTable(raw); decodeErr == nil {
			return rates, nil
		}
		p.logger.WarnContext(ctx, "Discarding unreadable cached rate table", "provider", p.inner.Name())
	case errors.Is(err, redis.Nil):
	default:
		p.logger.WarnContext(ctx, "Rate table cache read failed", "provider", p.inner.Name(), "error", err)
	}

	rates, err := p.inner.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	if encoded, encErr := encodeTable(rates); encErr == nil {
		if setErr := p.client.Set(ctx, key, encoded, p.ttl).Err(); setErr != nil {
			p.logger.WarnContext(ctx, "Rate table cache write failed", "provider", p.inner.Name(), "error", setErr)
		}
	}
	return rates, nil
}

// Tables are stored as code -> decimal string to keep full precision.
func encodeTable(rates map[string]decimal.Decimal) ([]byte, error) {
	m := make(map[string]string, len(rates))
	for code, v := range rates {
		m[code] = v.String()
	}
	return json.Marshal(m)
}

func decodeTable(raw []byte) (map[string]decimal.Decimal, error) {
	var m map[string]string
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	out := make(map[string]decimal.Decimal, len(m))
	for code, s := range m {
		v, err := decimal.NewFromString(s)
		if err != nil {
			return nil, err
		}
		out[code] = v
	}
	return out, nil
}
