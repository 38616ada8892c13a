// Package tracker implements the FatFit use cases: accounts, quiz profile,
// food diary, daily totals, food search and AI plans. It depends only on
// domain ports and is fully testable with in-memory stores and fakes.
package tracker

import (
	"errors"
	"time"

	"github.com/hammamikhairi/fatfit/internal/aiplan"
	"github.com/hammamikhairi/fatfit/internal/calorie"
	"github.com/hammamikhairi/fatfit/internal/domain"
	"github.com/hammamikhairi/fatfit/internal/logger"
)

// ErrNotConfigured is returned when an optional collaborator (food search,
// plan generation, token issuing) was not wired in.
var ErrNotConfigured = errors.New("feature not configured")

// DefaultPlanWeeks is the duration_weeks sent with every meal plan request.
const DefaultPlanWeeks = 4

// Stores groups the persistence ports.
type Stores struct {
	Users   domain.UserStore
	Answers domain.AnswerStore
	FoodLog domain.FoodLogStore
	Totals  domain.TotalStore
}

// TokenIssuer signs session tokens on login.
type TokenIssuer interface {
	Issue(user *domain.User) (string, error)
}

// Option configures the service.
type Option func(*Service)

// WithSearch wires the food and recipe provider.
func WithSearch(s domain.FoodSearcher) Option {
	return func(svc *Service) {
		svc.search = s
	}
}

// WithPlans wires the AI plan generator and an optional meal plan cache.
func WithPlans(p domain.PlanGenerator, cache *aiplan.PlanCache) Option {
	return func(svc *Service) {
		svc.plans = p
		svc.planCache = cache
	}
}

// WithTokens wires the session token issuer used by Login.
func WithTokens(t TokenIssuer) Option {
	return func(svc *Service) {
		svc.tokens = t
	}
}

// WithClock replaces time.Now for diary day keys.
func WithClock(now func() time.Time) Option {
	return func(svc *Service) {
		svc.now = now
	}
}

// WithPlanWeeks sets the meal plan duration.
func WithPlanWeeks(n int) Option {
	return func(svc *Service) {
		svc.planWeeks = n
	}
}

// Service holds the use cases. All methods are safe for concurrent use as
// long as the wired ports are.
type Service struct {
	users   domain.UserStore
	answers domain.AnswerStore
	foodLog domain.FoodLogStore
	totals  domain.TotalStore

	search    domain.FoodSearcher
	plans     domain.PlanGenerator
	planCache *aiplan.PlanCache
	tokens    TokenIssuer

	calc      *calorie.Calculator
	log       *logger.Logger
	now       func() time.Time
	planWeeks int
}

// New creates a service over the given stores.
func New(stores Stores, log *logger.Logger, opts ...Option) *Service {
	s := &Service{
		users:     stores.Users,
		answers:   stores.Answers,
		foodLog:   stores.FoodLog,
		totals:    stores.Totals,
		calc:      calorie.NewCalculator(log),
		log:       log,
		now:       time.Now,
		planWeeks: DefaultPlanWeeks,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}
