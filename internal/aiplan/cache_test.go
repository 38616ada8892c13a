package aiplan

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hammamikhairi/fatfit/internal/domain"
	"github.com/hammamikhairi/fatfit/internal/logger"
)

func TestPlanCache(t *testing.T) {
	now := time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC)
	cache := NewPlanCache(time.Hour, logger.Nop())
	cache.now = func() time.Time { return now }

	req := domain.MealPlanRequest{Age: 30, Goal: domain.GoalLose}
	plan := json.RawMessage(`{"meal_plan":[]}`)

	_, ok := cache.Get("ana", req)
	require.False(t, ok)

	cache.Put("ana", req, plan)
	got, ok := cache.Get("ana", req)
	require.True(t, ok)
	assert.JSONEq(t, string(plan), string(got))

	// A different profile is a different entry.
	changed := req
	changed.Goal = domain.GoalGain
	_, ok = cache.Get("ana", changed)
	assert.False(t, ok)

	// Other users never see it.
	_, ok = cache.Get("bob", req)
	assert.False(t, ok)

	hits, misses := cache.Stats()
	assert.EqualValues(t, 1, hits)
	assert.EqualValues(t, 3, misses)

	// Expired entries are dropped on read.
	now = now.Add(time.Hour)
	_, ok = cache.Get("ana", req)
	assert.False(t, ok)
	assert.Equal(t, 0, cache.Len())
}

func TestPlanCacheInvalidate(t *testing.T) {
	cache := NewPlanCache(time.Hour, logger.Nop())
	cache.Put("ana", 1, json.RawMessage(`{}`))
	cache.Put("ana", 2, json.RawMessage(`{}`))
	cache.Put("anabel", 1, json.RawMessage(`{}`))

	cache.Invalidate("ana")
	assert.Equal(t, 1, cache.Len())
	_, ok := cache.Get("anabel", 1)
	assert.True(t, ok)
}

func TestPlanCacheDisabled(t *testing.T) {
	cache := NewPlanCache(0, logger.Nop())
	cache.Put("ana", 1, json.RawMessage(`{}`))
	_, ok := cache.Get("ana", 1)
	assert.False(t, ok)
}
