package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/nigelhorne/Genealogy-Obituary-Parser/internal/model"
)

// Cache stores resolved places between extractions.
// Implementations must be safe for concurrent use.
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

const geocodeKeyPrefix = "obituary:geo:v1:"

// GeocodeKey derives the cache key for a place string.
// The place is used exactly as written, apart from surrounding space.
func GeocodeKey(place string) string {
	hash := sha256.Sum256([]byte(strings.TrimSpace(place)))
	return geocodeKeyPrefix + hex.EncodeToString(hash[:])
}

// New builds the backend named by cfg.Backend.
// A disabled cache returns nil, nil.
func New(cfg model.CacheConfig) (Cache, error) {
	if !cfg.Enabled {
		return nil, nil
	}

	switch cfg.Backend {
	case "", "memory":
		return NewMemoryCache(cfg.TTL), nil
	case "disk":
		return NewDiskCache(cfg.Dir, cfg.TTL), nil
	case "layered":
		return NewLayeredCache(NewMemoryCache(cfg.TTL), NewDiskCache(cfg.Dir, cfg.TTL)), nil
	case "redis":
		rc, err := NewRedisCache(cfg.RedisURL, cfg.TTL)
		if err != nil {
			return nil, err
		}
		if rc == nil {
			return nil, fmt.Errorf("redis cache selected but cache.redis_url is empty")
		}
		return NewLayeredCache(NewMemoryCache(cfg.TTL), rc), nil
	}
	return nil, fmt.Errorf("unknown cache backend %q", cfg.Backend)
}
