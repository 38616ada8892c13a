package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hammamikhairi/fatfit/internal/domain"
	"github.com/hammamikhairi/fatfit/internal/logger"
)

func TestMemoryUsersCRUD(t *testing.T) {
	store := NewMemory(logger.Nop()).Users
	ctx := context.Background()

	user := &domain.User{FullName: "Ana Pop", Username: "ana", Email: "ana@example.com", PasswordHash: "h1"}
	require.NoError(t, store.Create(ctx, user))
	assert.NotEmpty(t, user.ID)

	// Duplicate username or email.
	assert.ErrorIs(t, store.Create(ctx, &domain.User{Username: "ana", Email: "x@example.com"}), domain.ErrAlreadyExists)
	assert.ErrorIs(t, store.Create(ctx, &domain.User{Username: "other", Email: "ana@example.com"}), domain.ErrAlreadyExists)

	loaded, err := store.FindByUsername(ctx, "ana")
	require.NoError(t, err)
	assert.Equal(t, user.ID, loaded.ID)

	byEmail, err := store.FindByEmail(ctx, "ana@example.com")
	require.NoError(t, err)
	assert.Equal(t, "ana", byEmail.Username)

	_, err = store.FindByUsername(ctx, "nonexistent")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	exists, err := store.Exists(ctx, "", "ana@example.com")
	require.NoError(t, err)
	assert.True(t, exists)
	exists, err = store.Exists(ctx, "nobody", "")
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, store.Rename(ctx, "ana", "ana2"))
	_, err = store.FindByUsername(ctx, "ana")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, store.SetPassword(ctx, "ana@example.com", "h2"))
	loaded, err = store.FindByUsername(ctx, "ana2")
	require.NoError(t, err)
	assert.Equal(t, "h2", loaded.PasswordHash)

	assert.ErrorIs(t, store.SetPassword(ctx, "none@example.com", "h"), domain.ErrNotFound)

	require.NoError(t, store.Delete(ctx, "ana2"))
	assert.ErrorIs(t, store.Delete(ctx, "ana2"), domain.ErrNotFound)
}

func TestMemoryUsersReturnsCopies(t *testing.T) {
	store := NewMemory(logger.Nop()).Users
	ctx := context.Background()

	require.NoError(t, store.Create(ctx, &domain.User{Username: "ana", Email: "a@x"}))
	u, err := store.FindByUsername(ctx, "ana")
	require.NoError(t, err)
	u.Email = "mutated"

	again, err := store.FindByUsername(ctx, "ana")
	require.NoError(t, err)
	assert.Equal(t, "a@x", again.Email)
}

func TestMemoryAnswersLatest(t *testing.T) {
	store := NewMemory(logger.Nop()).Answers
	ctx := context.Background()

	_, err := store.Latest(ctx, "ana")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, store.Save(ctx, domain.AnswerSet{Username: "ana", Answers: domain.Answers{"v": 2}, SubmittedAt: base.Add(time.Hour)}))
	require.NoError(t, store.Save(ctx, domain.AnswerSet{Username: "ana", Answers: domain.Answers{"v": 1}, SubmittedAt: base}))

	latest, err := store.Latest(ctx, "ana")
	require.NoError(t, err)
	assert.Equal(t, 2, latest.Answers["v"])

	require.NoError(t, store.Rename(ctx, "ana", "bob"))
	_, err = store.Latest(ctx, "ana")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	latest, err = store.Latest(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, "bob", latest.Username)

	require.NoError(t, store.DeleteAll(ctx, "bob"))
	_, err = store.Latest(ctx, "bob")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestMemoryFoodLog(t *testing.T) {
	store := NewMemory(logger.Nop()).FoodLog
	ctx := context.Background()

	day1 := time.Date(2024, 3, 1, 9, 30, 0, 0, time.Local)
	day2 := day1.Add(24 * time.Hour)

	require.NoError(t, store.Append(ctx, "ana", domain.MealBreakfast, day2, []domain.FoodItem{{Name: "oats", Calories: 150}}))
	require.NoError(t, store.Append(ctx, "ana", domain.MealBreakfast, day1, []domain.FoodItem{{Name: "egg", Calories: 70}}))
	// Same day, later hour: same record.
	require.NoError(t, store.Append(ctx, "ana", domain.MealBreakfast, day1.Add(2*time.Hour), []domain.FoodItem{{Name: "oats", Calories: 150}}))
	require.NoError(t, store.Append(ctx, "ana", domain.MealLunch, day1, []domain.FoodItem{{Name: "soup", Calories: 200}}))

	foods, err := store.List(ctx, "ana", domain.MealBreakfast)
	require.NoError(t, err)
	require.Len(t, foods, 3)
	assert.Equal(t, "egg", foods[0].Name)
	assert.Equal(t, "oats", foods[2].Name)

	n, err := store.Remove(ctx, "ana", domain.MealBreakfast, "oats")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	foods, err = store.List(ctx, "ana", domain.MealBreakfast)
	require.NoError(t, err)
	require.Len(t, foods, 1)
	assert.Equal(t, "egg", foods[0].Name)

	lunch, err := store.List(ctx, "ana", domain.MealLunch)
	require.NoError(t, err)
	assert.Len(t, lunch, 1)

	empty, err := store.List(ctx, "bob", domain.MealDinner)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestMemoryFoodLogSameDayAcrossLocations(t *testing.T) {
	mem := NewMemory(logger.Nop())
	store := mem.FoodLog
	ctx := context.Background()

	// Same zone rules, distinct *Location values.
	a := time.FixedZone("UTC+2", 2*60*60)
	b := time.FixedZone("UTC+2", 2*60*60)
	require.NoError(t, store.Append(ctx, "ana", domain.MealDinner, time.Date(2024, 3, 1, 19, 0, 0, 0, a), []domain.FoodItem{{Name: "rice", Calories: 200}}))
	require.NoError(t, store.Append(ctx, "ana", domain.MealDinner, time.Date(2024, 3, 1, 20, 0, 0, 0, b), []domain.FoodItem{{Name: "fish", Calories: 250}}))

	assert.Len(t, mem.FoodLog.records, 1)
	foods, err := store.List(ctx, "ana", domain.MealDinner)
	require.NoError(t, err)
	require.Len(t, foods, 2)
	assert.Equal(t, "rice", foods[0].Name)
	assert.Equal(t, "fish", foods[1].Name)
}

func TestMemoryTotals(t *testing.T) {
	store := NewMemory(logger.Nop()).Totals
	ctx := context.Background()

	total, err := store.Get(ctx, "ana")
	require.NoError(t, err)
	assert.Zero(t, total)

	require.NoError(t, store.Set(ctx, "ana", 1200))
	require.NoError(t, store.Set(ctx, "bob", 800))
	total, err = store.Get(ctx, "ana")
	require.NoError(t, err)
	assert.Equal(t, 1200.0, total)

	n, err := store.Reset(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	total, err = store.Get(ctx, "bob")
	require.NoError(t, err)
	assert.Zero(t, total)
}
