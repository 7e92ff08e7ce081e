package config

import (
	"strings"
	"time"
)

// CacheConfig tunes the Redis response cache.  Only the show listing
// is cached; seat maps are always computed fresh because their
// effective statuses fold hold expiry at read time.  Methods holds
// the HTTP methods eligible for caching, upper-cased.
type CacheConfig struct {
	Enabled      bool
	Methods      map[string]bool
	TTL          time.Duration
	KeyStrategy  string
	Prefix       string
	MaxBodyBytes int // responses larger than this are not cached
}

// LoadCacheConfig reads CACHE_* variables with defaults suited to the
// show listing: a short 30s TTL keeps the listing fresh while still
// absorbing most of the read load during an on-sale spike.
func LoadCacheConfig() CacheConfig {
	return CacheConfig{
		Enabled:      envBool("CACHE_ENABLED", true),
		Methods:      parseMethods(envStr("CACHE_METHODS", "GET")),
		TTL:          envDur("CACHE_TTL", 30*time.Second),
		KeyStrategy:  envStr("CACHE_KEY_STRATEGY", "route_query"),
		Prefix:       envStr("CACHE_PREFIX", "cache"),
		MaxBodyBytes: envInt("CACHE_MAX_BODY_BYTES", 1<<20),
	}
}

func parseMethods(s string) map[string]bool {
	m := make(map[string]bool)
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(strings.ToUpper(p)); p != "" {
			m[p] = true
		}
	}
	return m
}
