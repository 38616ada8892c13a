// Package aiplan provides a client for the Fitness Tribe AI service, which
// generates nutrition and workout plans from a user profile.
package aiplan

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/hammamikhairi/fatfit/internal/domain"
	"github.com/hammamikhairi/fatfit/internal/logger"
)

// DefaultBaseURL is the public Fitness Tribe AI deployment.
const DefaultBaseURL = "https://fitness-tribe-ai.onrender.com"

const (
	provider         = "fitness tribe"
	mealPlanPath     = "/nutrition-plans/generate"
	workoutPlanPath  = "/workout-plans/generate"
	defaultTimeout   = 90 * time.Second
	logPreviewLength = 160
)

// Compile-time interface check.
var _ domain.PlanGenerator = (*Client)(nil)

// ClientOption configures the Client.
type ClientOption func(*Client)

// WithHTTPTimeout sets the HTTP client timeout. Plan generation is slow, so
// the default is generous.
func WithHTTPTimeout(d time.Duration) ClientOption {
	return func(c *Client) { c.http.Timeout = d }
}

// WithHTTPClient replaces the HTTP client entirely.
func WithHTTPClient(h *http.Client) ClientOption {
	return func(c *Client) { c.http = h }
}

// Client talks to the plan-generation endpoints with a bearer API key.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	log     *logger.Logger
}

// NewClient creates a plan client. An empty apiKey is a configuration error.
func NewClient(baseURL, apiKey string, log *logger.Logger, opts ...ClientOption) (*Client, error) {
	if apiKey == "" {
		return nil, &domain.ConfigurationError{Fields: []string{"FITNESS_TRIBE_API_KEY"}}
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    &http.Client{Timeout: defaultTimeout},
		log:     log,
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

// MealPlan requests a nutrition plan. A response without a meal_plan field is
// treated as an upstream failure.
func (c *Client) MealPlan(ctx context.Context, req domain.MealPlanRequest) (json.RawMessage, error) {
	plan, err := c.post(ctx, mealPlanPath, req)
	if err != nil {
		return nil, err
	}

	var probe struct {
		MealPlan json.RawMessage `json:"meal_plan"`
	}
	if err := json.Unmarshal(plan, &probe); err != nil || len(probe.MealPlan) == 0 || string(probe.MealPlan) == "null" {
		c.log.Error("aiplan: response has no meal_plan: %s", truncate(string(plan), logPreviewLength))
		return nil, &domain.ProviderError{Provider: provider, Body: string(plan), Err: errors.New("could not generate nutrition plan")}
	}
	return plan, nil
}

// WorkoutPlan requests a workout plan.
func (c *Client) WorkoutPlan(ctx context.Context, req domain.WorkoutPlanRequest) (json.RawMessage, error) {
	return c.post(ctx, workoutPlanPath, req)
}

// post sends the profile and returns the raw plan. Non-2xx statuses and
// bodies carrying a "detail" field become *domain.ProviderError.
func (c *Client) post(ctx context.Context, path string, body any) (json.RawMessage, error) {
	jsonData, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("aiplan: marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("aiplan: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	c.log.Debug("aiplan: POST %s (%d bytes)", path, len(jsonData))

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Error("aiplan: POST %s: %v", path, err)
		return nil, &domain.ProviderError{Provider: provider, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &domain.ProviderError{Provider: provider, StatusCode: resp.StatusCode, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.log.Error("aiplan: POST %s returned %s: %s", path, resp.Status, truncate(string(respBody), logPreviewLength))
		return nil, &domain.ProviderError{Provider: provider, StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	if len(bytes.TrimSpace(respBody)) == 0 {
		return nil, &domain.ProviderError{Provider: provider, StatusCode: resp.StatusCode, Err: errors.New("empty response")}
	}

	var probe struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(respBody, &probe); err != nil {
		return nil, &domain.ProviderError{Provider: provider, StatusCode: resp.StatusCode, Body: string(respBody), Err: fmt.Errorf("decode response: %w", err)}
	}
	if len(probe.Detail) > 0 && string(probe.Detail) != "null" {
		c.log.Warn("aiplan: POST %s returned detail: %s", path, truncate(string(probe.Detail), logPreviewLength))
		return nil, &domain.ProviderError{Provider: provider, StatusCode: resp.StatusCode, Body: string(probe.Detail)}
	}

	c.log.Debug("aiplan: plan received (%d bytes)", len(respBody))
	return json.RawMessage(respBody), nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	cut := n - 3
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
