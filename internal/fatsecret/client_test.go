package fatsecret

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hammamikhairi/fatfit/internal/domain"
	"github.com/hammamikhairi/fatfit/internal/logger"
)

type staticTokens struct {
	token string
	err   error
}

func (s staticTokens) Token(context.Context) (string, error) { return s.token, s.err }

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(staticTokens{token: "bearer-1"}, logger.Nop(), WithBaseURL(srv.URL), WithHTTPClient(srv.Client()))
}

func TestSearchFoods(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/rest/server.api", r.URL.Path)
		assert.Equal(t, "Bearer bearer-1", r.Header.Get("Authorization"))
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "foods.search", r.PostForm.Get("method"))
		assert.Equal(t, "greek yogurt", r.PostForm.Get("search_expression"))
		assert.Equal(t, "json", r.PostForm.Get("format"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(foodsPayload))
	})

	foods, err := client.SearchFoods(context.Background(), "greek yogurt")
	require.NoError(t, err)
	require.Len(t, foods, 2)
	assert.Equal(t, "Apple", foods[0].Name)
}

func TestSearchRecipes(t *testing.T) {
	matchAll := true
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/rest/recipes/search/v3", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "salad", q.Get("search_expression"))
		assert.Equal(t, "20", q.Get("max_results"))
		assert.Equal(t, "0", q.Get("page_number"))
		assert.Equal(t, "true", q.Get("must_have_images"))
		assert.Equal(t, "Main Dish", q.Get("recipe_types"))
		assert.Equal(t, "true", q.Get("recipe_types_matchall"))

		_, _ = w.Write([]byte(`{"recipes":{"recipe":[{"recipe_id":"1"},{"recipe_id":"2"}],"total_results":"2"}}`))
	})

	recipes, err := client.SearchRecipes(context.Background(), "salad", domain.RecipeQuery{
		MustHaveImages:      true,
		RecipeTypes:         "Main Dish",
		RecipeTypesMatchAll: &matchAll,
	})
	require.NoError(t, err)
	require.Len(t, recipes, 2)
	assert.JSONEq(t, `{"recipe_id":"1"}`, string(recipes[0]))
}

func TestSearchRecipesEmpty(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.URL.Query().Get("recipe_types"))
		assert.Empty(t, r.URL.Query().Get("recipe_types_matchall"))
		_, _ = w.Write([]byte(`{"recipes":{"total_results":"0"}}`))
	})

	recipes, err := client.SearchRecipes(context.Background(), "zzz", domain.RecipeQuery{MaxResults: 5})
	require.NoError(t, err)
	assert.NotNil(t, recipes)
	assert.Empty(t, recipes)
}

func TestSearchUpstreamFailures(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantStatus int
		wantBody   string
	}{
		{"non-2xx", http.StatusInternalServerError, "boom", 500, "boom"},
		{"error object", http.StatusOK, `{"error":{"code":21,"message":"Invalid IP address detected"}}`, 200, "Invalid IP"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := client.SearchFoods(context.Background(), "apple")
			var pe *domain.ProviderError
			require.True(t, errors.As(err, &pe))
			assert.Equal(t, tt.wantStatus, pe.StatusCode)
			assert.Contains(t, pe.Body, tt.wantBody)
		})
	}
}

func TestSearchPropagatesTokenError(t *testing.T) {
	tokenErr := &domain.ProviderError{Provider: providerOAuth, StatusCode: 401}
	client := NewClient(staticTokens{err: tokenErr}, logger.Nop(), WithBaseURL("http://127.0.0.1:1"))

	_, err := client.SearchFoods(context.Background(), "apple")
	assert.ErrorIs(t, err, tokenErr)
}
