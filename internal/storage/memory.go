// Package storage provides persistence implementations for accounts, quiz
// answers, the food diary and daily calorie totals.
package storage

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hammamikhairi/fatfit/internal/domain"
	"github.com/hammamikhairi/fatfit/internal/logger"
)

// Compile-time interface checks.
var (
	_ domain.UserStore    = (*MemoryUsers)(nil)
	_ domain.AnswerStore  = (*MemoryAnswers)(nil)
	_ domain.FoodLogStore = (*MemoryFoodLog)(nil)
	_ domain.TotalStore   = (*MemoryTotals)(nil)
)

// Memory bundles the in-memory stores. Used in development and tests.
type Memory struct {
	Users   *MemoryUsers
	Answers *MemoryAnswers
	FoodLog *MemoryFoodLog
	Totals  *MemoryTotals
}

// NewMemory creates empty in-memory stores.
func NewMemory(log *logger.Logger) *Memory {
	return &Memory{
		Users:   &MemoryUsers{users: make(map[string]*domain.User), log: log},
		Answers: &MemoryAnswers{sets: make(map[string][]domain.AnswerSet), log: log},
		FoodLog: &MemoryFoodLog{records: make(map[foodKey][]domain.FoodItem), log: log},
		Totals:  &MemoryTotals{totals: make(map[string]float64), log: log},
	}
}

// ── users ────────────────────────────────────────────────────────

// MemoryUsers is an in-memory UserStore. Safe for concurrent access.
type MemoryUsers struct {
	mu    sync.RWMutex
	users map[string]*domain.User // by username
	log   *logger.Logger
}

// Create stores a new user, assigning an ID if it has none.
func (s *MemoryUsers) Create(ctx context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[user.Username]; ok {
		return domain.ErrAlreadyExists
	}
	for _, u := range s.users {
		if u.Email == user.Email {
			return domain.ErrAlreadyExists
		}
	}
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	cp := *user
	s.users[user.Username] = &cp
	s.log.Debug("created user %s (id=%s)", user.Username, user.ID)
	return nil
}

// FindByUsername returns a copy of the user.
func (s *MemoryUsers) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[username]
	if !ok {
		s.log.Debug("user not found: %s", username)
		return nil, domain.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

// FindByEmail returns a copy of the user with the given email.
func (s *MemoryUsers) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

// Exists reports whether the username or email is taken.
func (s *MemoryUsers) Exists(ctx context.Context, username, email string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if username != "" {
		if _, ok := s.users[username]; ok {
			return true, nil
		}
	}
	if email != "" {
		for _, u := range s.users {
			if u.Email == email {
				return true, nil
			}
		}
	}
	return false, nil
}

// Rename moves a user to a new username.
func (s *MemoryUsers) Rename(ctx context.Context, username, newUsername string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[username]
	if !ok {
		return domain.ErrNotFound
	}
	if _, taken := s.users[newUsername]; taken {
		return domain.ErrAlreadyExists
	}
	delete(s.users, username)
	u.Username = newUsername
	s.users[newUsername] = u
	s.log.Debug("renamed user %s -> %s", username, newUsername)
	return nil
}

// SetPassword replaces the hash of the user with the given email.
func (s *MemoryUsers) SetPassword(ctx context.Context, email, passwordHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Email == email {
			u.PasswordHash = passwordHash
			return nil
		}
	}
	return domain.ErrNotFound
}

// Delete removes a user.
func (s *MemoryUsers) Delete(ctx context.Context, username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[username]; !ok {
		return domain.ErrNotFound
	}
	delete(s.users, username)
	s.log.Debug("deleted user %s", username)
	return nil
}

// ── answers ──────────────────────────────────────────────────────

// MemoryAnswers is an in-memory AnswerStore.
type MemoryAnswers struct {
	mu   sync.RWMutex
	sets map[string][]domain.AnswerSet
	log  *logger.Logger
}

// Save appends a submission.
func (s *MemoryAnswers) Save(ctx context.Context, set domain.AnswerSet) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if set.SubmittedAt.IsZero() {
		set.SubmittedAt = time.Now()
	}
	s.sets[set.Username] = append(s.sets[set.Username], set)
	s.log.Debug("saved %d answers for %s", len(set.Answers), set.Username)
	return nil
}

// Latest returns the newest submission.
func (s *MemoryAnswers) Latest(ctx context.Context, username string) (*domain.AnswerSet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sets := s.sets[username]
	if len(sets) == 0 {
		return nil, domain.ErrNotFound
	}
	latest := sets[0]
	for _, set := range sets[1:] {
		if !set.SubmittedAt.Before(latest.SubmittedAt) {
			latest = set
		}
	}
	return &latest, nil
}

// Rename moves submissions to a new username.
func (s *MemoryAnswers) Rename(ctx context.Context, username, newUsername string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sets, ok := s.sets[username]
	if !ok {
		return nil
	}
	for i := range sets {
		sets[i].Username = newUsername
	}
	delete(s.sets, username)
	s.sets[newUsername] = append(s.sets[newUsername], sets...)
	return nil
}

// DeleteAll removes every submission of the user.
func (s *MemoryAnswers) DeleteAll(ctx context.Context, username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sets, username)
	return nil
}

// ── food log ─────────────────────────────────────────────────────

// foodKey.day is the calendar date in DateOnly form; time.Time keys would
// also compare their Location pointers.
type foodKey struct {
	username string
	meal     domain.MealType
	day      string
}

// MemoryFoodLog is an in-memory FoodLogStore.
type MemoryFoodLog struct {
	mu      sync.RWMutex
	records map[foodKey][]domain.FoodItem
	log     *logger.Logger
}

// Append adds foods to the (username, meal, day) record.
func (s *MemoryFoodLog) Append(ctx context.Context, username string, meal domain.MealType, day time.Time, foods []domain.FoodItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := foodKey{username: username, meal: meal, day: domain.DayOf(day).Format(time.DateOnly)}
	s.records[key] = append(s.records[key], foods...)
	s.log.Debug("appended %d foods to %s/%s/%s", len(foods), username, meal, key.day)
	return nil
}

// List returns every food of the meal across days, oldest day first.
func (s *MemoryFoodLog) List(ctx context.Context, username string, meal domain.MealType) ([]domain.FoodItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var keys []foodKey
	for k := range s.records {
		if k.username == username && k.meal == meal {
			keys = append(keys, k)
		}
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].day < keys[j].day })

	out := []domain.FoodItem{}
	for _, k := range keys {
		out = append(out, s.records[k]...)
	}
	return out, nil
}

// Remove deletes foods by name from every record of the meal.
func (s *MemoryFoodLog) Remove(ctx context.Context, username string, meal domain.MealType, name string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	changed := 0
	for k, foods := range s.records {
		if k.username != username || k.meal != meal {
			continue
		}
		kept := foods[:0]
		for _, f := range foods {
			if f.Name != name {
				kept = append(kept, f)
			}
		}
		if len(kept) != len(foods) {
			s.records[k] = kept
			changed++
		}
	}
	return changed, nil
}

// ── totals ───────────────────────────────────────────────────────

// MemoryTotals is an in-memory TotalStore.
type MemoryTotals struct {
	mu     sync.RWMutex
	totals map[string]float64
	log    *logger.Logger
}

// Get returns the user's total, 0 when none is stored.
func (s *MemoryTotals) Get(ctx context.Context, username string) (float64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.totals[username], nil
}

// Set upserts the user's total.
func (s *MemoryTotals) Set(ctx context.Context, username string, total float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.totals[username] = total
	return nil
}

// Reset clears all totals.
func (s *MemoryTotals) Reset(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(s.totals)
	s.totals = make(map[string]float64)
	s.log.Debug("reset %d calorie totals", n)
	return n, nil
}
