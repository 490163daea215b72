package ratesources

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCachedProviderFallsThroughWhenRedisIsDown(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	inner := &stubProvider{name: "fiat", rates: map[string]decimal.Decimal{"EUR": dec("1.1")}}
	p := NewCachedProvider(inner, client, time.Minute, nil)

	rates, err := p.Fetch(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "fiat", p.Name())
	assert.Equal(t, 1, inner.calls)
	assert.True(t, dec("1.1").Equal(rates["EUR"]))
}

func TestTableEncodingKeepsPrecision(t *testing.T) {
	in := map[string]decimal.Decimal{"BTC": dec("0.0000157123456789012345")}

	raw, err := encodeTable(in)
	require.NoError(t, err)
	out, err := decodeTable(raw)
	require.NoError(t, err)

	assert.True(t, in["BTC"].Equal(out["BTC"]))
}

func newMiniRedisClient(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestCachedProviderServesSharedTable(t *testing.T) {
	mr, client := newMiniRedisClient(t)
	inner := &stubProvider{name: "fiat", rates: map[string]decimal.Decimal{"EUR": dec("1.1")}}
	p := NewCachedProvider(inner, client, 15*time.Minute, nil)
	ctx := context.Background()

	_, err := p.Fetch(ctx)
	require.NoError(t, err)
	inner.rates = map[string]decimal.Decimal{"EUR": dec("1.2")}
	rates, err := p.Fetch(ctx)
	require.NoError(t, err)

	assert.Equal(t, 1, inner.calls)
	assert.True(t, dec("1.1").Equal(rates["EUR"]))
	assert.True(t, mr.Exists(tableKeyPrefix+"fiat"))
	assert.Equal(t, 15*time.Minute, mr.TTL(tableKeyPrefix+"fiat"))

	mr.FastForward(16 * time.Minute)
	rates, err = p.Fetch(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, inner.calls)
	assert.True(t, dec("1.2").Equal(rates["EUR"]))
}

func TestCachedProviderInvalidateReachesUpstream(t *testing.T) {
	mr, client := newMiniRedisClient(t)
	inner := &stubProvider{name: "fiat", rates: map[string]decimal.Decimal{"EUR": dec("1.1")}}
	p := NewCachedProvider(inner, client, 15*time.Minute, nil)
	ctx := context.Background()

	_, err := p.Fetch(ctx)
	require.NoError(t, err)
	inner.rates = map[string]decimal.Decimal{"EUR": dec("1.2")}

	require.NoError(t, p.Invalidate(ctx))
	assert.False(t, mr.Exists(tableKeyPrefix+"fiat"))

	rates, err := p.Fetch(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, inner.calls)
	assert.True(t, dec("1.2").Equal(rates["EUR"]))
}

func TestCachedProviderDiscardsUnreadableTable(t *testing.T) {
	mr, client := newMiniRedisClient(t)
	require.NoError(t, mr.Set(tableKeyPrefix+"fiat", "not json"))
	inner := &stubProvider{name: "fiat", rates: map[string]decimal.Decimal{"EUR": dec("1.1")}}

	rates, err := NewCachedProvider(inner, client, time.Minute, nil).Fetch(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, inner.calls)
	assert.True(t, dec("1.1").Equal(rates["EUR"]))
}

func TestChainInvalidateOnlyTouchesCachingProviders(t *testing.T) {
	mr, client := newMiniRedisClient(t)
	plain := &stubProvider{name: "plain", rates: map[string]decimal.Decimal{"BTC": dec("60000")}}
	cached := NewCachedProvider(&stubProvider{name: "fiat", rates: map[string]decimal.Decimal{"EUR": dec("1.1")}}, client, time.Minute, nil)
	chain := NewChain(testGroups([]RateProvider{cached}, []RateProvider{plain}, nil))
	ctx := context.Background()

	chain.Resolve(ctx, []string{"EUR"})
	require.True(t, mr.Exists(tableKeyPrefix+"fiat"))

	require.NoError(t, chain.Invalidate(ctx))
	assert.False(t, mr.Exists(tableKeyPrefix+"fiat"))
}

func TestChainInvalidateReportsRedisFailure(t *testing.T) {
	mr, client := newMiniRedisClient(t)
	cached := NewCachedProvider(&stubProvider{name: "fiat"}, client, time.Minute, nil)
	mr.Close()

	err := NewChain(testGroups([]RateProvider{cached}, nil, nil)).Invalidate(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "fiat: failed to drop cached rate table")
}
