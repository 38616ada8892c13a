package domain

import (
	"context"
	"encoding/json"
	"time"
)

// UserStore persists accounts. Implementations can be in-memory or MongoDB.
type UserStore interface {
	Create(ctx context.Context, user *User) error
	FindByUsername(ctx context.Context, username string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	// Exists reports whether any user has the given username or email.
	// Empty arguments are ignored.
	Exists(ctx context.Context, username, email string) (bool, error)
	Rename(ctx context.Context, username, newUsername string) error
	SetPassword(ctx context.Context, email, passwordHash string) error
	Delete(ctx context.Context, username string) error
}

// AnswerStore persists quiz submissions.
type AnswerStore interface {
	Save(ctx context.Context, set AnswerSet) error
	// Latest returns the most recent submission or ErrNotFound.
	Latest(ctx context.Context, username string) (*AnswerSet, error)
	Rename(ctx context.Context, username, newUsername string) error
	DeleteAll(ctx context.Context, username string) error
}

// FoodLogStore persists per-day, per-meal diary records.
type FoodLogStore interface {
	// Append adds foods to the record keyed by (username, meal, day),
	// creating it if absent.
	Append(ctx context.Context, username string, meal MealType, day time.Time, foods []FoodItem) error
	// List returns every food logged for the meal, across all days.
	List(ctx context.Context, username string, meal MealType) ([]FoodItem, error)
	// Remove deletes foods with the given name from every record of the meal
	// and returns how many records changed.
	Remove(ctx context.Context, username string, meal MealType, name string) (int, error)
}

// TotalStore persists the running daily calorie total per user.
type TotalStore interface {
	Get(ctx context.Context, username string) (float64, error)
	Set(ctx context.Context, username string, total float64) error
	// Reset clears every total and returns how many were removed.
	Reset(ctx context.Context) (int, error)
}

// TokenSource hands out a bearer token for the nutrition provider.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// FoodSearcher proxies the nutrition/recipe provider.
type FoodSearcher interface {
	SearchFoods(ctx context.Context, query string) ([]Food, error)
	SearchRecipes(ctx context.Context, query string, opts RecipeQuery) ([]json.RawMessage, error)
}

// RecipeQuery narrows a recipe search.
type RecipeQuery struct {
	MaxResults          int
	PageNumber          int
	MustHaveImages      bool
	RecipeTypes         string
	RecipeTypesMatchAll *bool
}

// PlanGenerator produces AI meal and workout plans.
type PlanGenerator interface {
	MealPlan(ctx context.Context, req MealPlanRequest) (json.RawMessage, error)
	WorkoutPlan(ctx context.Context, req WorkoutPlanRequest) (json.RawMessage, error)
}

// MealPlanRequest is the profile sent to the AI nutrition planner.
type MealPlanRequest struct {
	Weight             float64  `json:"weight"`
	Height             float64  `json:"height"`
	Age                int      `json:"age"`
	Sex                string   `json:"sex"`
	Goal               Goal     `json:"goal"`
	DietaryPreferences []string `json:"dietary_preferences"`
	FoodIntolerances   []string `json:"food_intolerances"`
	DurationWeeks      int      `json:"duration_weeks"`
}

// WorkoutPlanRequest is the profile sent to the AI workout planner.
type WorkoutPlanRequest struct {
	Weight          float64 `json:"weight"`
	Height          float64 `json:"height"`
	Age             int     `json:"age"`
	Sex             string  `json:"sex"`
	Goal            Goal    `json:"goal"`
	WorkoutsPerWeek int     `json:"workouts_per_week"`
}
