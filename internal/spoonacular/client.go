// Package spoonacular is the gateway to the Spoonacular meal-planning API.
package spoonacular

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
)

// ErrUpstreamUnavailable is returned once a request has failed for good.
var ErrUpstreamUnavailable = errors.New("upstream unavailable")

type Config struct {
	APIKey          string
	BaseURL         string
	Timeout         time.Duration
	MaxRetries      int
	InitialInterval time.Duration
}

// Client is safe for concurrent use; construct one per process.
type Client struct {
	apiKey          string
	baseURL         string
	maxRetries      int
	initialInterval time.Duration
	http            *http.Client
	logger          *zap.Logger
}

func NewClient(cfg Config, logger *zap.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.spoonacular.com"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.InitialInterval <= 0 {
		cfg.InitialInterval = 250 * time.Millisecond
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		apiKey:          cfg.APIKey,
		baseURL:         cfg.BaseURL,
		maxRetries:      cfg.MaxRetries,
		initialInterval: cfg.InitialInterval,
		http:            &http.Client{Timeout: cfg.Timeout},
		logger:          logger.Named("spoonacular"),
	}
}

type statusError struct {
	Path   string
	Status int
	Body   string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("spoonacular %s returned %d: %s", e.Path, e.Status, e.Body)
}

// FetchPlan generates a plan for the given timeframe and calorie target.
func (c *Client) FetchPlan(ctx context.Context, tf Timeframe, targetCalories int) (*Plan, error) {
	params := url.Values{}
	params.Set("timeFrame", string(tf))
	params.Set("targetCalories", strconv.Itoa(targetCalories))

	var payload planPayload
	if err := c.get(ctx, "/mealplanner/generate", params, &payload); err != nil {
		return nil, err
	}
	return payload.normalize(tf), nil
}

func (c *Client) FetchNutrition(ctx context.Context, recipeID int64) (*Nutrition, error) {
	var n Nutrition
	if err := c.get(ctx, fmt.Sprintf("/recipes/%d/nutritionWidget.json", recipeID), nil, &n); err != nil {
		return nil, err
	}
	return &n, nil
}

func (c *Client) FetchDetails(ctx context.Context, recipeID int64) (*RecipeDetails, error) {
	var payload detailsPayload
	if err := c.get(ctx, fmt.Sprintf("/recipes/%d/information", recipeID), nil, &payload); err != nil {
		return nil, err
	}

	details := &RecipeDetails{Ingredients: make([]string, 0, len(payload.ExtendedIngredients))}
	if payload.Instructions != nil {
		details.Instructions = *payload.Instructions
	}
	for _, ing := range payload.ExtendedIngredients {
		details.Ingredients = append(details.Ingredients, ing.Original)
	}
	return details, nil
}

func (c *Client) SearchRecipes(ctx context.Context, q SearchQuery) ([]RecipeSummary, error) {
	params := url.Values{}
	params.Set("number", strconv.Itoa(q.Number))
	params.Set("type", q.Type)
	params.Set("minCalories", strconv.Itoa(q.MinCalories))
	params.Set("maxCalories", strconv.Itoa(q.MaxCalories))
	params.Set("addRecipeInformation", "true")
	if q.Sort != "" {
		params.Set("sort", q.Sort)
	}

	var payload searchPayload
	if err := c.get(ctx, "/recipes/complexSearch", params, &payload); err != nil {
		return nil, err
	}

	results := make([]RecipeSummary, 0, len(payload.Results))
	for _, r := range payload.Results {
		results = append(results, RecipeSummary{
			ID:          r.ID,
			Title:       r.Title,
			ImageURL:    r.Image,
			PrepMinutes: r.PreparationMinutes.Int(),
			CookMinutes: r.CookingMinutes.Int(),
		})
	}
	return results, nil
}

// get retries transport failures, 429 and 5xx with jittered exponential
// backoff. Any other non-2xx status fails immediately.
func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	if params == nil {
		params = url.Values{}
	}
	params.Set("apiKey", c.apiKey)
	endpoint := c.baseURL + path + "?" + params.Encode()

	var body []byte
	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("build request for %s: %w", path, err))
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.http.Do(req)
		if err != nil {
			// The URL carries the api key, keep it out of errors and logs.
			var uerr *url.Error
			if errors.As(err, &uerr) {
				err = uerr.Err
			}
			return fmt.Errorf("call %s: %w", path, err)
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("read %s response: %w", path, err)
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			serr := &statusError{Path: path, Status: resp.StatusCode, Body: truncate(string(data), 200)}
			if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
				return serr
			}
			return backoff.Permanent(serr)
		}

		body = data
		return nil
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = c.initialInterval
	policy.RandomizationFactor = 0.5
	policy.Multiplier = 2
	retry := backoff.WithContext(backoff.WithMaxRetries(policy, uint64(c.maxRetries)), ctx)

	notify := func(err error, wait time.Duration) {
		c.logger.Warn("retrying spoonacular request",
			zap.String("path", path),
			zap.Duration("wait", wait),
			zap.Error(err),
		)
	}

	if err := backoff.RetryNotify(operation, retry, notify); err != nil {
		c.logger.Error("spoonacular request failed", zap.String("path", path), zap.Error(err))
		return fmt.Errorf("%w: %w", ErrUpstreamUnavailable, err)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: decode %s: %w", ErrUpstreamUnavailable, path, err)
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
