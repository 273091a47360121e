package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/use-agent/minhash/models"
)

// Entry is a cached signature together with the number of tokens that
// produced it.
type Entry struct {
	Signature []byte
	Tokens    int
	createdAt time.Time
}

// Cache is a bounded in-memory memo of signatures keyed by input and
// parameters. It is safe for concurrent use.
type Cache struct {
	mu         sync.RWMutex
	store      map[string]*Entry
	maxEntries int
	ttl        time.Duration
	now        func() time.Time

	hits   atomic.Int64
	misses atomic.Int64
	done   chan struct{}
}

// New creates a new Cache holding at most maxEntries signatures, each valid
// for ttl. A background goroutine evicts expired entries every ttl/12
// (at least once a minute) until Close is called.
func New(maxEntries int, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = time.Hour
	}
	c := &Cache{
		store:      make(map[string]*Entry),
		maxEntries: maxEntries,
		ttl:        ttl,
		now:        time.Now,
		done:       make(chan struct{}),
	}

	go c.cleanupLoop()
	return c
}

// Key generates a cache key from the text and every parameter that changes
// the resulting signature. p must already have defaults applied.
func Key(text string, p *models.SignatureParams) string {
	var seed uint32
	if p.Seed != nil {
		seed = *p.Seed
	}
	h := sha256.New()
	h.Write([]byte(text))
	fmt.Fprintf(h, "|%s|%t|%d|%s|%s|%s|%s|%d|%d|%d|%d",
		p.Tokenizer, p.Lowercase, p.Shingle,
		p.HTMLMode, p.CSSSelector, strings.Join(p.ExcludeSelectors, "\x00"), p.SourceURL,
		p.DOMShingle, p.HashBit, seed, p.NumFuncs,
	)
	return hex.EncodeToString(h.Sum(nil))
}

// Get retrieves a cached signature if it exists and has not expired.
func (c *Cache) Get(key string) (*Entry, bool) {
	c.mu.RLock()
	e, ok := c.store[key]
	c.mu.RUnlock()

	if !ok || c.now().Sub(e.createdAt) > c.ttl {
		c.misses.Add(1)
		return nil, false
	}
	c.hits.Add(1)
	return e, true
}

// Set stores a signature. If the cache is at capacity, a random entry is
// evicted to make room. A non-positive capacity disables storage.
func (c *Cache) Set(key string, sig []byte, tokens int) {
	if c.maxEntries <= 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// Evict one random entry if at capacity (map iteration is random in Go).
	if _, exists := c.store[key]; !exists && len(c.store) >= c.maxEntries {
		for k := range c.store {
			delete(c.store, k)
			break
		}
	}

	c.store[key] = &Entry{
		Signature: sig,
		Tokens:    tokens,
		createdAt: c.now(),
	}
}

// Len returns the number of stored entries, expired or not.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.store)
}

// Stats reports size and hit counters.
func (c *Cache) Stats() models.CacheStats {
	return models.CacheStats{
		Enabled:    true,
		Entries:    c.Len(),
		MaxEntries: c.maxEntries,
		Hits:       c.hits.Load(),
		Misses:     c.misses.Load(),
	}
}

// Close stops the cleanup goroutine.
func (c *Cache) Close() {
	select {
	case <-c.done:
	default:
		close(c.done)
	}
}

func (c *Cache) evictExpired() {
	cutoff := c.now().Add(-c.ttl)
	c.mu.Lock()
	for k, e := range c.store {
		if e.createdAt.Before(cutoff) {
			delete(c.store, k)
		}
	}
	c.mu.Unlock()
}

func (c *Cache) cleanupLoop() {
	interval := min(max(c.ttl/12, time.Second), time.Minute)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			c.evictExpired()
		case <-c.done:
			return
		}
	}
}
