package fatsecret

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/hammamikhairi/fatfit/internal/domain"
	"github.com/hammamikhairi/fatfit/internal/logger"
)

// DefaultBaseURL is the FatSecret Platform REST root.
const DefaultBaseURL = "https://platform.fatsecret.com"

const (
	providerAPI       = "fatsecret"
	defaultMaxResults = 20
)

// Compile-time interface check.
var _ domain.FoodSearcher = (*Client)(nil)

// ClientOption configures the Client.
type ClientOption func(*Client)

// WithBaseURL points the client at another host (tests, proxies).
func WithBaseURL(u string) ClientOption {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(h *http.Client) ClientOption {
	return func(c *Client) { c.http = h }
}

// Client calls the FatSecret search endpoints with a bearer token.
type Client struct {
	tokens  domain.TokenSource
	baseURL string
	http    *http.Client
	log     *logger.Logger
}

// NewClient creates a search client.
func NewClient(tokens domain.TokenSource, log *logger.Logger, opts ...ClientOption) *Client {
	c := &Client{
		tokens:  tokens,
		baseURL: DefaultBaseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
		log:     log,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// SearchFoods runs foods.search and returns the normalized results.
func (c *Client) SearchFoods(ctx context.Context, query string) ([]domain.Food, error) {
	form := url.Values{
		"method":            {"foods.search"},
		"search_expression": {query},
		"format":            {"json"},
	}

	raw, err := c.do(ctx, http.MethodPost, "/rest/server.api", strings.NewReader(form.Encode()), "application/x-www-form-urlencoded")
	if err != nil {
		return nil, err
	}
	return FilterFoods(raw, c.log), nil
}

// SearchRecipes runs recipes.search.v3 and returns the raw recipe records.
func (c *Client) SearchRecipes(ctx context.Context, query string, opts domain.RecipeQuery) ([]json.RawMessage, error) {
	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}

	params := url.Values{
		"search_expression": {query},
		"max_results":       {strconv.Itoa(maxResults)},
		"page_number":       {strconv.Itoa(max(opts.PageNumber, 0))},
		"must_have_images":  {strconv.FormatBool(opts.MustHaveImages)},
		"format":            {"json"},
	}
	if opts.RecipeTypes != "" {
		params.Set("recipe_types", opts.RecipeTypes)
	}
	if opts.RecipeTypesMatchAll != nil {
		params.Set("recipe_types_matchall", strconv.FormatBool(*opts.RecipeTypesMatchAll))
	}

	raw, err := c.do(ctx, http.MethodGet, "/rest/recipes/search/v3?"+params.Encode(), nil, "")
	if err != nil {
		return nil, err
	}
	return extractRecipes(raw, c.log), nil
}

// do sends an authenticated request and returns the body of a 2xx response.
func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string) ([]byte, error) {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("fatsecret: create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	c.log.Debug("fatsecret: %s %s", method, path)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &domain.ProviderError{Provider: providerAPI, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &domain.ProviderError{Provider: providerAPI, StatusCode: resp.StatusCode, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.log.Error("fatsecret: %s %s returned %s", method, path, resp.Status)
		return nil, &domain.ProviderError{Provider: providerAPI, StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	// FatSecret reports some failures as 200 with an error object.
	if apiErr := errorObject(respBody); apiErr != "" {
		c.log.Error("fatsecret: %s %s returned error body: %s", method, path, apiErr)
		return nil, &domain.ProviderError{Provider: providerAPI, StatusCode: resp.StatusCode, Body: apiErr}
	}
	return respBody, nil
}

func errorObject(body []byte) string {
	var env struct {
		Error *struct {
			Code    json.Number `json:"code"`
			Message string      `json:"message"`
		} `json:"error"`
	}
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(&env); err != nil || env.Error == nil {
		return ""
	}
	return fmt.Sprintf("code %s: %s", env.Error.Code, env.Error.Message)
}

func extractRecipes(raw []byte, log *logger.Logger) []json.RawMessage {
	var env struct {
		Recipes struct {
			Recipe json.RawMessage `json:"recipe"`
		} `json:"recipes"`
	}
	if err := json.Unmarshal(raw, &env); err != nil {
		log.Warn("fatsecret: recipe payload not an object: %v", err)
		return []json.RawMessage{}
	}

	var recipes []json.RawMessage
	if len(env.Recipes.Recipe) == 0 || json.Unmarshal(env.Recipes.Recipe, &recipes) != nil || recipes == nil {
		log.Debug("fatsecret: no recipe list in payload")
		return []json.RawMessage{}
	}
	return recipes
}
