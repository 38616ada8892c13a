package tracker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hammamikhairi/fatfit/internal/domain"
	"github.com/hammamikhairi/fatfit/internal/quiz"
)

// SearchFoods proxies a food search and returns normalized rows.
func (s *Service) SearchFoods(ctx context.Context, query string) ([]domain.Food, error) {
	if query == "" {
		return nil, fmt.Errorf("%w: missing search query", domain.ErrInvalidInput)
	}
	if s.search == nil {
		return nil, ErrNotConfigured
	}
	return s.search.SearchFoods(ctx, query)
}

// SearchRecipes proxies a recipe search.
func (s *Service) SearchRecipes(ctx context.Context, query string, opts domain.RecipeQuery) ([]json.RawMessage, error) {
	if s.search == nil {
		return nil, ErrNotConfigured
	}
	return s.search.SearchRecipes(ctx, query, opts)
}

// MealPlan returns an AI nutrition plan for the user's latest profile.
// Successful plans are cached per user and profile.
func (s *Service) MealPlan(ctx context.Context, username string) (json.RawMessage, error) {
	if s.plans == nil {
		return nil, ErrNotConfigured
	}
	answers, err := s.planAnswers(ctx, username)
	if err != nil {
		return nil, err
	}

	base, err := s.planProfile(answers)
	if err != nil {
		return nil, err
	}
	req := domain.MealPlanRequest{
		Weight:             base.Weight,
		Height:             base.Height,
		Age:                base.Age,
		Sex:                base.Sex,
		Goal:               base.Goal,
		DietaryPreferences: quiz.DietaryPreferences(answers),
		FoodIntolerances:   quiz.FoodIntolerances(answers),
		DurationWeeks:      s.planWeeks,
	}

	if s.planCache != nil {
		if plan, ok := s.planCache.Get(username, req); ok {
			return plan, nil
		}
	}

	s.log.Info("generating meal plan for %s", username)
	plan, err := s.plans.MealPlan(ctx, req)
	if err != nil {
		return nil, err
	}
	if s.planCache != nil {
		s.planCache.Put(username, req, plan)
	}
	return plan, nil
}

// WorkoutPlan returns an AI workout plan for the user's latest profile.
func (s *Service) WorkoutPlan(ctx context.Context, username string) (json.RawMessage, error) {
	if s.plans == nil {
		return nil, ErrNotConfigured
	}
	answers, err := s.planAnswers(ctx, username)
	if err != nil {
		return nil, err
	}

	base, err := s.planProfile(answers)
	if err != nil {
		return nil, err
	}
	req := domain.WorkoutPlanRequest{
		Weight:          base.Weight,
		Height:          base.Height,
		Age:             base.Age,
		Sex:             base.Sex,
		Goal:            base.Goal,
		WorkoutsPerWeek: quiz.WorkoutsPerWeek(answers),
	}

	s.log.Info("generating workout plan for %s (%d/week)", username, req.WorkoutsPerWeek)
	return s.plans.WorkoutPlan(ctx, req)
}

func (s *Service) planAnswers(ctx context.Context, username string) (domain.Answers, error) {
	if username == "" || username == "undefined" || username == "null" {
		return nil, fmt.Errorf("%w: username is required", domain.ErrInvalidInput)
	}
	if _, err := s.users.FindByUsername(ctx, username); err != nil {
		return nil, fmt.Errorf("loading user: %w", err)
	}
	set, err := s.answers.Latest(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("no quiz answers found for this user: %w", err)
	}
	return set.Answers, nil
}

type planBase struct {
	Weight float64
	Height float64
	Age    int
	Sex    string
	Goal   domain.Goal
}

// planProfile extracts the shared request fields. A non-numeric profile
// cannot be sent upstream.
func (s *Service) planProfile(a domain.Answers) (planBase, error) {
	ex := quiz.Extract(a)
	if !ex.Profile.Numeric() {
		return planBase{}, fmt.Errorf("%w: age, weight and height must be numeric", domain.ErrInvalidInput)
	}
	return planBase{
		Weight: ex.Profile.WeightKg,
		Height: ex.Profile.HeightCm,
		Age:    int(ex.Profile.Age),
		Sex:    quiz.Gender(a),
		Goal:   s.calc.Goal(ex.RawGoal),
	}, nil
}
