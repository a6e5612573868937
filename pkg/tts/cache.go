package tts

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Cache defaults. Entries live for an hour; the entry count is bounded so
// a burst of distinct texts cannot grow memory without limit.
const (
	DefaultCacheTTL        = time.Hour
	DefaultCacheMaxEntries = 256
)

type cacheEntry struct {
	audio    *AudioResult
	storedAt time.Time
}

// Cache is a thread-safe TTL cache for synthesized audio, keyed by
// (voice, text). Expired entries are dropped on read as well as write, so
// a hit never returns audio older than the TTL. When the cache is full the
// oldest entry is evicted.
type Cache struct {
	mu      sync.Mutex
	entries map[string]cacheEntry
	ttl     time.Duration
	max     int

	// now is swappable for tests.
	now func() time.Time
}

// NewCache creates a cache with the given TTL and entry bound.
// Zero values select the defaults.
func NewCache(ttl time.Duration, maxEntries int) *Cache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	if maxEntries <= 0 {
		maxEntries = DefaultCacheMaxEntries
	}
	return &Cache{
		entries: make(map[string]cacheEntry),
		ttl:     ttl,
		max:     maxEntries,
		now:     time.Now,
	}
}

// cacheKey is the literal concatenation of voice and text. Text must
// already be truncated so the key matches the synthesized audio.
func cacheKey(voice, text string) string {
	return voice + "\x00" + text
}

// Get returns the cached audio for (voice, text), or nil on miss.
// An expired entry counts as a miss and is removed.
func (c *Cache) Get(voice, text string) *AudioResult {
	key := cacheKey(voice, text)

	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return nil
	}
	if c.now().Sub(entry.storedAt) > c.ttl {
		delete(c.entries, key)
		return nil
	}
	return entry.audio
}

// Put stores audio under (voice, text), evicting expired entries and, if
// still full, the oldest entry.
func (c *Cache) Put(voice, text string, audio *AudioResult) {
	key := cacheKey(voice, text)
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()

	for k, e := range c.entries {
		if now.Sub(e.storedAt) > c.ttl {
			delete(c.entries, k)
		}
	}

	if len(c.entries) >= c.max {
		var oldestKey string
		var oldest time.Time
		for k, e := range c.entries {
			if oldestKey == "" || e.storedAt.Before(oldest) {
				oldestKey = k
				oldest = e.storedAt
			}
		}
		delete(c.entries, oldestKey)
	}

	c.entries[key] = cacheEntry{audio: audio, storedAt: now}
}

// Len returns the number of cached entries, including any not yet swept.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// CachingProvider wraps a Provider with the audio cache. The cache key
// uses the truncated text and the post-fallback voice, so requests that
// normalize to the same synthesis share an entry.
type CachingProvider struct {
	provider Provider
	cache    *Cache
	logger   *slog.Logger
}

// NewCachingProvider wraps provider with cache. A nil cache gets defaults.
func NewCachingProvider(provider Provider, cache *Cache) *CachingProvider {
	if cache == nil {
		cache = NewCache(0, 0)
	}
	return &CachingProvider{
		provider: provider,
		cache:    cache,
		logger:   slog.Default().With("component", "tts.cache"),
	}
}

// Synthesize returns cached audio when available, otherwise synthesizes
// and stores the result.
func (p *CachingProvider) Synthesize(ctx context.Context, text, voice string) (*AudioResult, error) {
	text = Truncate(text)

	if hit := p.cache.Get(voice, text); hit != nil {
		p.logger.Debug("cache hit", "voice", voice, "chars", len(text))
		return hit, nil
	}

	result, err := p.provider.Synthesize(ctx, text, voice)
	if err != nil {
		return nil, err
	}

	// Key on the requested voice: a later request naming the same unknown
	// voice resolves to the same audio without re-synthesizing.
	p.cache.Put(voice, text, result)
	return result, nil
}

// Health delegates to the wrapped provider.
func (p *CachingProvider) Health(ctx context.Context) error {
	return p.provider.Health(ctx)
}

// Close delegates to the wrapped provider.
func (p *CachingProvider) Close() error {
	return p.provider.Close()
}

// Verify CachingProvider implements Provider at compile time.
var _ Provider = (*CachingProvider)(nil)
