package optimization

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

// Cache memoizes optimizer results for a symbol universe. Keys combine the
// sorted symbol set, the objective, and a coarse time bucket, so repeated
// calls within a bucket reuse the stored result and naturally roll over
// afterwards. Callers pass the cache in explicitly; there is no
// process-wide instance.
type Cache struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]cacheEntry
}

type cacheEntry struct {
	payload   []byte
	expiresAt time.Time
}

// NewCache creates a cache whose entries expire after ttl. The same ttl is
// used as the key's time-bucket width.
func NewCache(ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &Cache{ttl: ttl, entries: make(map[string]cacheEntry)}
}

// key hashes the sorted symbol set so ordering never splits the cache, then
// appends the objective and the current time bucket.
func (c *Cache) key(symbols []string, objective Objective, now time.Time) string {
	sorted := make([]string, len(symbols))
	copy(sorted, symbols)
	sort.Strings(sorted)

	h := sha256.Sum256([]byte(strings.Join(sorted, ",")))
	bucket := now.UnixNano() / int64(c.ttl)
	return fmt.Sprintf("%s:%s:%d", hex.EncodeToString(h[:16]), objective, bucket)
}

func (c *Cache) get(key string, now time.Time) (*OptimizationResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if now.After(entry.expiresAt) {
		delete(c.entries, key)
		return nil, false
	}

	var result OptimizationResult
	if err := msgpack.Unmarshal(entry.payload, &result); err != nil {
		delete(c.entries, key)
		return nil, false
	}
	return &result, true
}

func (c *Cache) set(key string, result *OptimizationResult, now time.Time) {
	payload, err := msgpack.Marshal(result)
	if err != nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cacheEntry{payload: payload, expiresAt: now.Add(c.ttl)}
}

// Len reports the number of stored entries, expired or not.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
