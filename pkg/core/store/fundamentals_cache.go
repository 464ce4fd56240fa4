package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"pro_valuation/pkg/models"
)

// DefaultFundamentalsTTL bounds how stale a cached fundamentals snapshot may
// be. Statement data moves on a quarterly cadence; an hour mainly caps call
// volume to the provider within a session.
const DefaultFundamentalsTTL = time.Hour

// FundamentalsCache is a TTL cache keyed by uppercase ticker.
// Memory is primary; when a pool is provided, entries are written through to
// Postgres so a restart starts warm. A nil pool is a valid configuration.
//
// Concurrent requests for the same ticker may both miss and both fetch;
// fetches are idempotent and results interchangeable, so only the map itself
// is guarded.
type FundamentalsCache struct {
	pool *pgxpool.Pool
	ttl  time.Duration

	mu      sync.RWMutex
	entries map[string]*models.CompanyFundamentals

	// now is injectable for expiry tests.
	now func() time.Time
}

// NewFundamentalsCache creates a cache. pool may be nil (memory-only);
// ttl <= 0 selects DefaultFundamentalsTTL.
func NewFundamentalsCache(pool *pgxpool.Pool, ttl time.Duration) *FundamentalsCache {
	if ttl <= 0 {
		ttl = DefaultFundamentalsTTL
	}
	return &FundamentalsCache{
		pool:    pool,
		ttl:     ttl,
		entries: make(map[string]*models.CompanyFundamentals),
		now:     time.Now,
	}
}

// Get returns the cached fundamentals for a ticker if present and fresh.
func (c *FundamentalsCache) Get(ctx context.Context, ticker string) (*models.CompanyFundamentals, bool) {
	// 1. Memory
	c.mu.RLock()
	entry, ok := c.entries[ticker]
	c.mu.RUnlock()
	if ok {
		if c.fresh(entry) {
			return entry, true
		}
		c.mu.Lock()
		delete(c.entries, ticker)
		c.mu.Unlock()
	}

	// 2. Database tier
	if c.pool == nil {
		return nil, false
	}
	query := `
		SELECT data
		FROM fundamentals_cache
		WHERE ticker = $1
		LIMIT 1
	`
	var dataJSON []byte
	if err := c.pool.QueryRow(ctx, query, ticker).Scan(&dataJSON); err != nil {
		return nil, false // Cache miss
	}
	var f models.CompanyFundamentals
	if err := json.Unmarshal(dataJSON, &f); err != nil {
		fmt.Printf("[CACHE] Discarding unreadable db entry for %s: %v\n", ticker, err)
		return nil, false
	}
	if !c.fresh(&f) {
		return nil, false
	}

	// Hydrate memory for the rest of the session
	c.mu.Lock()
	c.entries[ticker] = &f
	c.mu.Unlock()
	return &f, true
}

// Put stores fundamentals under the ticker, writing through to the database
// tier when configured.
func (c *FundamentalsCache) Put(ctx context.Context, ticker string, f *models.CompanyFundamentals) {
	c.mu.Lock()
	c.entries[ticker] = f
	c.mu.Unlock()

	if c.pool == nil {
		return
	}
	dataJSON, err := json.Marshal(f)
	if err != nil {
		fmt.Printf("[CACHE] Failed to marshal fundamentals for %s: %v\n", ticker, err)
		return
	}
	query := `
		INSERT INTO fundamentals_cache (ticker, data, fetched_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (ticker)
		DO UPDATE SET
			data = EXCLUDED.data,
			fetched_at = EXCLUDED.fetched_at
	`
	if _, err := c.pool.Exec(ctx, query, ticker, dataJSON, f.FetchedAt); err != nil {
		// Write-through is best effort; memory already holds the entry.
		fmt.Printf("[CACHE] DB write-through failed for %s: %v\n", ticker, err)
	}
}

// Invalidate drops a ticker from both tiers.
func (c *FundamentalsCache) Invalidate(ctx context.Context, ticker string) {
	c.mu.Lock()
	delete(c.entries, ticker)
	c.mu.Unlock()

	if c.pool != nil {
		if _, err := c.pool.Exec(ctx, `DELETE FROM fundamentals_cache WHERE ticker = $1`, ticker); err != nil {
			fmt.Printf("[CACHE] DB invalidate failed for %s: %v\n", ticker, err)
		}
	}
}

// Len returns the number of in-memory entries, fresh or not.
func (c *FundamentalsCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *FundamentalsCache) fresh(f *models.CompanyFundamentals) bool {
	return c.now().Sub(f.FetchedAt) < c.ttl
}
