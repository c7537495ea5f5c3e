// Package openweather fetches current conditions from the OpenWeatherMap
// current weather API. A circuit breaker shields the warm-up pool from a
// flapping upstream; when the breaker is open, callers fall back to the
// simulated climate model.
package openweather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sony/gobreaker"

	"github.com/leo-marida/l-cast-smart-tourism-platform/internal/domain"
)

const defaultBaseURL = "https://api.openweathermap.org/data/2.5/weather"

// Client calls the OpenWeatherMap current weather endpoint.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
	logger     *slog.Logger
}

// NewClient creates a weather client with the given request timeout.
func NewClient(apiKey string, timeout time.Duration, logger *slog.Logger) *Client {
	c := &Client{
		apiKey:     apiKey,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
	c.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "openweather",
		MaxRequests: 5,
		Interval:    time.Minute,
		Timeout:     2 * time.Minute,
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("weather breaker state change",
				"breaker", name, "from", from.String(), "to", to.String())
		},
	})
	return c
}

// WithBaseURL overrides the API endpoint, for tests.
func (c *Client) WithBaseURL(base string) *Client {
	c.baseURL = base
	return c
}

type currentResponse struct {
	Weather []struct {
		Main string `json:"main"`
	} `json:"weather"`
	Main struct {
		Temp float64 `json:"temp"`
	} `json:"main"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
}

// Current fetches the observation for a coordinate through the breaker.
func (c *Client) Current(ctx context.Context, lat, lon float64) (domain.Observation, error) {
	out, err := c.breaker.Execute(func() (any, error) {
		return c.fetch(ctx, lat, lon)
	})
	if err != nil {
		return domain.Observation{}, fmt.Errorf("openweather current: %w", err)
	}
	return out.(domain.Observation), nil
}

func (c *Client) fetch(ctx context.Context, lat, lon float64) (domain.Observation, error) {
	q := url.Values{}
	q.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
	q.Set("appid", c.apiKey)
	q.Set("units", "metric")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return domain.Observation{}, fmt.Errorf("build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.Observation{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return domain.Observation{}, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, body)
	}

	var payload currentResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return domain.Observation{}, fmt.Errorf("decode response: %w", err)
	}
	if len(payload.Weather) == 0 {
		return domain.Observation{}, fmt.Errorf("response has no weather block")
	}

	return domain.Observation{
		Condition:   domain.Condition(payload.Weather[0].Main),
		TempC:       payload.Main.Temp,
		WindSpeedMS: payload.Wind.Speed,
	}, nil
}
