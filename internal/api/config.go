package api

import (
	"time"

	"github.com/FocuswithJustin/seqconvert/internal/cache"
)

const (
	// DefaultMaxBodyBytes bounds the size of uploaded sources.
	DefaultMaxBodyBytes = 32 << 20
	// DefaultCacheSize is the number of memoized conversion results.
	DefaultCacheSize = 64
)

// Config holds server configuration.
type Config struct {
	Port           int
	MaxBodyBytes   int64    // Largest accepted request body (0 = DefaultMaxBodyBytes)
	AllowedOrigins []string // CORS and WebSocket allowed origins (empty = allow all)
	Version        string   // Reported by /health

	CacheSize int           // Memoized results (0 = DefaultCacheSize, negative = disabled)
	CacheTTL  time.Duration // Lifetime of a memoized result (0 = no expiry)
}

func (c Config) maxBody() int64 {
	if c.MaxBodyBytes <= 0 {
		return DefaultMaxBodyBytes
	}
	return c.MaxBodyBytes
}

// cacheConfig returns the result cache settings, or false when the cache
// is disabled.
func (c Config) cacheConfig() (cache.Config, bool) {
	switch {
	case c.CacheSize < 0:
		return cache.Config{}, false
	case c.CacheSize == 0:
		return cache.Config{MaxSize: DefaultCacheSize, TTL: c.CacheTTL}, true
	}
	return cache.Config{MaxSize: c.CacheSize, TTL: c.CacheTTL}, true
}
