package aiplan

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/hammamikhairi/fatfit/internal/logger"
)

// DefaultPlanTTL matches how long a generated plan stays fresh for a user.
const DefaultPlanTTL = time.Hour

// PlanCache is a thread-safe in-memory TTL cache of generated plans. The key
// is username + ":" + sha256(request), so a changed profile misses until the
// new plan is stored.
type PlanCache struct {
	mu      sync.RWMutex
	entries map[string]planEntry
	ttl     time.Duration
	now     func() time.Time
	log     *logger.Logger
	hits    int64
	misses  int64
}

type planEntry struct {
	plan      json.RawMessage
	expiresAt time.Time
}

// NewPlanCache creates a cache. A non-positive ttl disables caching.
func NewPlanCache(ttl time.Duration, log *logger.Logger) *PlanCache {
	return &PlanCache{
		entries: make(map[string]planEntry),
		ttl:     ttl,
		now:     time.Now,
		log:     log,
	}
}

// Get returns a fresh plan for the user and request, if any.
func (c *PlanCache) Get(username string, req any) (json.RawMessage, bool) {
	key := c.key(username, req)

	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if ok && c.now().Before(e.expiresAt) {
		c.hits++
		c.log.Debug("plan cache hit: %s", username)
		return e.plan, true
	}
	if ok {
		delete(c.entries, key)
	}
	c.misses++
	return nil, false
}

// Put stores a plan for the user and request.
func (c *PlanCache) Put(username string, req any, plan json.RawMessage) {
	if c.ttl <= 0 {
		return
	}
	key := c.key(username, req)

	c.mu.Lock()
	c.entries[key] = planEntry{plan: plan, expiresAt: c.now().Add(c.ttl)}
	size := len(c.entries)
	c.mu.Unlock()

	c.log.Debug("plan cache store: %s (%d bytes, %d entries)", username, len(plan), size)
}

// Invalidate drops every plan cached for the user.
func (c *PlanCache) Invalidate(username string) {
	prefix := username + ":"

	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.entries {
		if strings.HasPrefix(k, prefix) {
			delete(c.entries, k)
		}
	}
}

// Len returns the number of cached entries, fresh or not.
func (c *PlanCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Stats returns hit and miss counts.
func (c *PlanCache) Stats() (hits, misses int64) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hits, c.misses
}

func (c *PlanCache) key(username string, req any) string {
	data, err := json.Marshal(req)
	if err != nil {
		c.log.Warn("plan cache: cannot fingerprint request for %s: %v", username, err)
	}
	h := sha256.Sum256(data)
	return username + ":" + hex.EncodeToString(h[:])
}
