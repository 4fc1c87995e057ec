// Package cache stores fetched pages and coordinate lookups between runs.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/ppiankov/fossilmap/internal/model"
)

// Namespaces keep page bodies and coordinate lookups apart
const (
	NamespacePage   = "page"
	NamespaceCoords = "coords"
)

// Cache defines the interface for caching
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key builds a cache key for id within a namespace
func Key(namespace, id string) string {
	hash := sha256.Sum256([]byte(id))
	return "fossilmap:v1:" + namespace + ":" + hex.EncodeToString(hash[:])
}

// New builds the cache described by cfg; a disabled cache never hits
func New(cfg model.CacheConfig) Cache {
	if !cfg.Enabled {
		return Nop{}
	}
	return NewLayeredCache(cfg.MemoryTTL, cfg.Dir, cfg.DiskTTL)
}

// GetJSON decodes a cached JSON value into v
func GetJSON(c Cache, key string, v any) bool {
	data, ok := c.Get(key)
	if !ok {
		return false
	}
	return json.Unmarshal(data, v) == nil
}

// SetJSON encodes v as JSON and stores it
func SetJSON(c Cache, key string, v any, ttl time.Duration) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.Set(key, data, ttl)
}

// Nop is a cache that stores nothing
type Nop struct{}

func (Nop) Get(string) ([]byte, bool) {
	return nil, false
}

func (Nop) Set(string, []byte, time.Duration) error {
	return nil
}

func (Nop) Delete(string) error {
	return nil
}

func (Nop) Clear() error {
	return nil
}
