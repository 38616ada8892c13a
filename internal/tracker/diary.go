package tracker

import (
	"context"
	"fmt"

	"github.com/hammamikhairi/fatfit/internal/domain"
)

// FoodEntry is one food as submitted by the client. Pointers distinguish a
// missing number from zero.
type FoodEntry struct {
	Name     string   `json:"name"`
	Calories *float64 `json:"calories"`
	Protein  *float64 `json:"protein"`
	Carbs    *float64 `json:"carbs"`
	Fat      *float64 `json:"fat"`
}

// AddFoods logs foods with full macros to today's record of the meal.
func (s *Service) AddFoods(ctx context.Context, username, meal string, foods []FoodEntry) (int, error) {
	return s.addFoods(ctx, username, meal, foods, true)
}

// AddRecipeFoods logs recipe entries, which only need a name and calories.
func (s *Service) AddRecipeFoods(ctx context.Context, username, meal string, foods []FoodEntry) (int, error) {
	return s.addFoods(ctx, username, meal, foods, false)
}

func (s *Service) addFoods(ctx context.Context, username, meal string, foods []FoodEntry, macros bool) (int, error) {
	mt, ok := domain.ParseMealType(meal)
	if username == "" || foods == nil || !ok {
		return 0, fmt.Errorf("%w: missing or incorrect username, foods, or mealType", domain.ErrInvalidInput)
	}

	items := make([]domain.FoodItem, 0, len(foods))
	for _, f := range foods {
		if f.Name == "" || f.Calories == nil {
			return 0, fmt.Errorf("%w: each food must have name and calories", domain.ErrInvalidInput)
		}
		if macros && (f.Protein == nil || f.Carbs == nil || f.Fat == nil) {
			return 0, fmt.Errorf("%w: each food must have name, calories, protein, carbs, and fat", domain.ErrInvalidInput)
		}
		item := domain.FoodItem{Name: f.Name, Calories: *f.Calories}
		if macros {
			item.Protein, item.Carbs, item.Fat = f.Protein, f.Carbs, f.Fat
		}
		items = append(items, item)
	}

	if err := s.foodLog.Append(ctx, username, mt, s.now(), items); err != nil {
		return 0, fmt.Errorf("logging foods: %w", err)
	}
	s.log.Debug("logged %d foods to %s for %s", len(items), mt, username)
	return len(items), nil
}

// MealFoods returns every food logged for the meal, across all days.
func (s *Service) MealFoods(ctx context.Context, username, meal string) ([]domain.FoodItem, error) {
	mt, ok := domain.ParseMealType(meal)
	if username == "" || !ok {
		return nil, fmt.Errorf("%w: unknown meal type %q", domain.ErrInvalidInput, meal)
	}
	return s.foodLog.List(ctx, username, mt)
}

// DeleteFood removes the named food from every record of the meal.
func (s *Service) DeleteFood(ctx context.Context, username, meal, name string) error {
	mt, ok := domain.ParseMealType(meal)
	if username == "" || name == "" || !ok {
		return fmt.Errorf("%w: username, mealType, and foodName are required", domain.ErrInvalidInput)
	}

	n, err := s.foodLog.Remove(ctx, username, mt, name)
	if err != nil {
		return fmt.Errorf("removing food: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: food item not found for this user and mealType", domain.ErrNotFound)
	}
	return nil
}

// Total returns the user's running calorie total for today.
func (s *Service) Total(ctx context.Context, username string) (float64, error) {
	if username == "" {
		return 0, fmt.Errorf("%w: username is required", domain.ErrInvalidInput)
	}
	return s.totals.Get(ctx, username)
}

// SetTotal overwrites the user's running total.
func (s *Service) SetTotal(ctx context.Context, username string, total float64) error {
	if username == "" {
		return fmt.Errorf("%w: username is required", domain.ErrInvalidInput)
	}
	return s.totals.Set(ctx, username, total)
}

// ResetTotals clears every user's running total.
func (s *Service) ResetTotals(ctx context.Context) (int, error) {
	return s.totals.Reset(ctx)
}
