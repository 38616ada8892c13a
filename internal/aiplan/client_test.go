package aiplan

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hammamikhairi/fatfit/internal/domain"
	"github.com/hammamikhairi/fatfit/internal/logger"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := NewClient(srv.URL, "key-1", logger.Nop(), WithHTTPClient(srv.Client()))
	require.NoError(t, err)
	return c
}

func TestNewClientRequiresKey(t *testing.T) {
	_, err := NewClient("", "", logger.Nop())
	var ce *domain.ConfigurationError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, []string{"FITNESS_TRIBE_API_KEY"}, ce.Fields)
}

func TestMealPlan(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/nutrition-plans/generate", r.URL.Path)
		assert.Equal(t, "Bearer key-1", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		body, _ := io.ReadAll(r.Body)
		var got map[string]any
		assert.NoError(t, json.Unmarshal(body, &got))
		assert.Equal(t, "lose", got["goal"])
		assert.Equal(t, "male", got["sex"])
		assert.EqualValues(t, 4, got["duration_weeks"])
		assert.Equal(t, []any{"Vegan"}, got["dietary_preferences"])

		_, _ = w.Write([]byte(`{"meal_plan":[{"day":1}],"total_calories":1800}`))
	})

	plan, err := client.MealPlan(context.Background(), domain.MealPlanRequest{
		Weight: 80, Height: 180, Age: 30, Sex: "male", Goal: domain.GoalLose,
		DietaryPreferences: []string{"Vegan"}, FoodIntolerances: []string{}, DurationWeeks: 4,
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"meal_plan":[{"day":1}],"total_calories":1800}`, string(plan))
}

func TestMealPlanFailures(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantStatus int
		wantBody   string
	}{
		{"detail field", http.StatusOK, `{"detail":"Invalid goal"}`, 200, "Invalid goal"},
		{"no meal_plan", http.StatusOK, `{"something":"else"}`, 0, "something"},
		{"upstream 500", http.StatusInternalServerError, `oops`, 500, "oops"},
		{"validation 422", http.StatusUnprocessableEntity, `{"detail":[{"loc":["body","age"]}]}`, 422, "loc"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := client.MealPlan(context.Background(), domain.MealPlanRequest{})
			var pe *domain.ProviderError
			require.True(t, errors.As(err, &pe), "got %v", err)
			assert.Equal(t, tt.wantStatus, pe.StatusCode)
			assert.Contains(t, pe.Body, tt.wantBody)
		})
	}
}

func TestWorkoutPlan(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/workout-plans/generate", r.URL.Path)
		var got map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		assert.EqualValues(t, 5, got["workouts_per_week"])
		_, _ = w.Write([]byte(`{"workout_sessions":[]}`))
	})

	plan, err := client.WorkoutPlan(context.Background(), domain.WorkoutPlanRequest{WorkoutsPerWeek: 5})
	require.NoError(t, err)
	assert.JSONEq(t, `{"workout_sessions":[]}`, string(plan))
}

func TestWorkoutPlanEmptyBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})

	_, err := client.WorkoutPlan(context.Background(), domain.WorkoutPlanRequest{})
	var pe *domain.ProviderError
	require.True(t, errors.As(err, &pe))
	assert.Contains(t, pe.Error(), "empty response")
}

func TestTruncateKeepsRunesWhole(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcdefg...", truncate("abcdefghijklmnop", 10))

	// "é" is two bytes; byte 7 falls inside the fourth one.
	out := truncate("ééééééé", 10)
	assert.True(t, utf8.ValidString(out))
	assert.Equal(t, "ééé...", out)
}
