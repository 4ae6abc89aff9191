package config

import "time"

// CacheConfig controls the Redis response cache placed in front of the
// read-only transaction history endpoints.  Active stay listings are never
// cached because every listing read reconciles room statuses.
type CacheConfig struct {
    Enabled      bool
    TTL          time.Duration
    Prefix       string
    MaxBodyBytes int
}

// LoadCacheConfig reads CACHE_* variables.
func LoadCacheConfig() CacheConfig {
    c := CacheConfig{
        Enabled:      envBool("CACHE_ENABLED", true),
        TTL:          envDur("CACHE_TTL", 30*time.Second),
        Prefix:       getenv("CACHE_PREFIX", "frontdesk:cache"),
        MaxBodyBytes: envInt("CACHE_MAX_BODY_BYTES", 1<<20),
    }
    if c.MaxBodyBytes < 0 {
        c.MaxBodyBytes = 0
    }
    return c
}
