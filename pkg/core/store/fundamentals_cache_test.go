package store

import (
	"context"
	"testing"
	"time"

	"pro_valuation/pkg/models"
)

func snapshot(ticker string, fetchedAt time.Time) *models.CompanyFundamentals {
	return &models.CompanyFundamentals{
		Ticker:            ticker,
		Revenue:           1000,
		SharesOutstanding: 500,
		CurrentPrice:      20,
		FetchedAt:         fetchedAt,
	}
}

func TestCacheHit(t *testing.T) {
	ctx := context.Background()
	cache := NewFundamentalsCache(nil, time.Hour)

	now := time.Date(2027, 3, 1, 12, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return now }

	cache.Put(ctx, "UBER", snapshot("UBER", now))

	got, ok := cache.Get(ctx, "UBER")
	if !ok {
		t.Fatal("expected a cache hit")
	}
	if got.Ticker != "UBER" || got.Revenue != 1000 {
		t.Errorf("wrong entry returned: %+v", got)
	}
}

func TestCacheMiss(t *testing.T) {
	cache := NewFundamentalsCache(nil, time.Hour)
	if _, ok := cache.Get(context.Background(), "NVDA"); ok {
		t.Fatal("expected a miss for an unknown ticker")
	}
}

func TestCacheExpiry(t *testing.T) {
	ctx := context.Background()
	cache := NewFundamentalsCache(nil, time.Hour)

	now := time.Date(2027, 3, 1, 12, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return now }
	cache.Put(ctx, "UBER", snapshot("UBER", now))

	// 59 minutes later: still fresh
	now = now.Add(59 * time.Minute)
	if _, ok := cache.Get(ctx, "UBER"); !ok {
		t.Fatal("entry must still be fresh inside the TTL")
	}

	// 61 minutes after the fetch: expired and evicted
	now = now.Add(2 * time.Minute)
	if _, ok := cache.Get(ctx, "UBER"); ok {
		t.Fatal("entry must expire after the TTL")
	}
	if cache.Len() != 0 {
		t.Errorf("expired entry must be evicted, %d left", cache.Len())
	}
}

func TestCacheInvalidate(t *testing.T) {
	ctx := context.Background()
	cache := NewFundamentalsCache(nil, time.Hour)
	cache.Put(ctx, "UBER", snapshot("UBER", time.Now()))

	cache.Invalidate(ctx, "UBER")
	if _, ok := cache.Get(ctx, "UBER"); ok {
		t.Fatal("invalidated entry must be gone")
	}
}

func TestCacheDefaultTTL(t *testing.T) {
	cache := NewFundamentalsCache(nil, 0)
	if cache.ttl != DefaultFundamentalsTTL {
		t.Errorf("expected default TTL %v, got %v", DefaultFundamentalsTTL, cache.ttl)
	}
}
