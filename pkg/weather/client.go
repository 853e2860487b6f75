// Package weather looks up current conditions from a wttr.in style
// endpoint and renders them as agent-facing reports.
package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/jllopis/agora/pkg/errors"
)

// Observation is a single current-conditions reading for a city.
type Observation struct {
	City        string    `json:"city"`
	TempC       int       `json:"temp_c"`
	Description string    `json:"description"`
	ObservedAt  time.Time `json:"observed_at"`
}

// Source provides current weather observations.
type Source interface {
	Current(ctx context.Context, city string) (Observation, error)
}

// Client fetches observations from a wttr.in compatible endpoint using
// the j1 JSON format.
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient creates a weather client. An empty baseURL defaults to the
// public wttr.in service.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = "https://wttr.in"
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

type wttrResponse struct {
	CurrentCondition []struct {
		TempC       string `json:"temp_C"`
		WeatherDesc []struct {
			Value string `json:"value"`
		} `json:"weatherDesc"`
	} `json:"current_condition"`
}

// Current fetches the current conditions for a city. Failures come back
// as recoverable errors.CodeWeatherUpstream so callers can retry.
func (c *Client) Current(ctx context.Context, city string) (Observation, error) {
	endpoint := c.baseURL + "/" + url.PathEscape(city) + "?format=j1"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Observation{}, errors.New(errors.CodeWeatherUpstream, "failed to create weather request", err).
			WithContext("city", city)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return Observation{}, errors.New(errors.CodeWeatherUpstream, "weather api call failed", err).
			WithContext("city", city).
			WithRecoverable(true)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Observation{}, errors.New(errors.CodeWeatherUpstream,
			fmt.Sprintf("weather api returned status %d", resp.StatusCode), nil).
			WithContext("city", city).
			WithContext("status", resp.StatusCode).
			WithRecoverable(resp.StatusCode >= 500)
	}

	var payload wttrResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return Observation{}, errors.New(errors.CodeWeatherUpstream, "failed to decode weather response", err).
			WithContext("city", city).
			WithRecoverable(true)
	}
	if len(payload.CurrentCondition) == 0 {
		return Observation{}, errors.New(errors.CodeWeatherUpstream, "weather response has no current condition", nil).
			WithContext("city", city).
			WithRecoverable(true)
	}

	condition := payload.CurrentCondition[0]
	temp, err := strconv.Atoi(condition.TempC)
	if err != nil {
		return Observation{}, errors.New(errors.CodeWeatherUpstream, "weather response has malformed temperature", err).
			WithContext("city", city).
			WithContext("temp_c", condition.TempC)
	}

	description := ""
	if len(condition.WeatherDesc) > 0 {
		description = condition.WeatherDesc[0].Value
	}

	return Observation{
		City:        city,
		TempC:       temp,
		Description: description,
		ObservedAt:  time.Now().UTC(),
	}, nil
}

var _ Source = (*Client)(nil)
