package cache

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/use-agent/minhash/models"
)

func params(seed uint32) *models.SignatureParams {
	return &models.SignatureParams{Tokenizer: "whitespace", HashBit: 1, Seed: &seed, NumFuncs: 128}
}

func TestKey(t *testing.T) {
	base := Key("hello world", params(0))
	assert.Len(t, base, 64)
	assert.Equal(t, base, Key("hello world", params(0)))

	assert.NotEqual(t, base, Key("hello world!", params(0)))
	assert.NotEqual(t, base, Key("hello world", params(1)))

	p := params(0)
	p.Lowercase = true
	assert.NotEqual(t, base, Key("hello world", p))

	p = params(0)
	p.NumFuncs = 64
	assert.NotEqual(t, base, Key("hello world", p))

	p = params(0)
	p.ExcludeSelectors = []string{"nav", "footer"}
	q := params(0)
	q.ExcludeSelectors = []string{"nav,footer"}
	assert.NotEqual(t, Key("x", p), Key("x", q))
}

func TestGetSet(t *testing.T) {
	c := New(10, time.Hour)
	defer c.Close()

	_, ok := c.Get("missing")
	assert.False(t, ok)

	c.Set("k", []byte{0x01, 0x02}, 3)
	e, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, []byte{0x01, 0x02}, e.Signature)
	assert.Equal(t, 3, e.Tokens)

	stats := c.Stats()
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)
	assert.Equal(t, 1, stats.Entries)
}

func TestExpiry(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	// No cleanup goroutine, so the clock can be swapped freely.
	c := &Cache{
		store:      make(map[string]*Entry),
		maxEntries: 10,
		ttl:        time.Minute,
		now:        func() time.Time { return now },
		done:       make(chan struct{}),
	}

	c.Set("k", []byte{0xff}, 1)
	now = now.Add(30 * time.Second)
	_, ok := c.Get("k")
	assert.True(t, ok)

	now = now.Add(31 * time.Second)
	_, ok = c.Get("k")
	assert.False(t, ok)

	c.evictExpired()
	assert.Equal(t, 0, c.Len())
}

func TestCapacityBound(t *testing.T) {
	c := New(3, time.Hour)
	defer c.Close()

	for i := range 10 {
		c.Set(fmt.Sprintf("k%d", i), []byte{byte(i)}, i)
	}
	assert.Equal(t, 3, c.Len())

	_, ok := c.Get("k9")
	assert.True(t, ok, "most recent insert must survive eviction")
}

func TestZeroCapacityDisablesStorage(t *testing.T) {
	c := New(0, time.Hour)
	defer c.Close()

	c.Set("k", []byte{0x01}, 1)
	assert.Equal(t, 0, c.Len())
}

func TestCloseIdempotent(t *testing.T) {
	c := New(1, time.Hour)
	c.Close()
	c.Close()
}
