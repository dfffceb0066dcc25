package forecast

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	"weatherdash/models"
)

const defaultBaseURL = "https://api.open-meteo.com/v1/forecast"

// forecastDays is the fixed forecast window requested from the service.
const forecastDays = 7

// Source fetches raw forecast data for a coordinate pair. Unlike the
// directory lookups, a failed fetch propagates to the caller: without it
// there is nothing to display.
type Source interface {
	Fetch(ctx context.Context, latitude, longitude float64) (models.ForecastResponse, error)
}

// Client fetches current, hourly and daily forecast data from the
// Open-Meteo forecast API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a forecast client with the default endpoint.
func NewClient(logger *zap.Logger) *Client {
	return &Client{
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger: logger,
	}
}

// Fetch requests a 7-day forecast for the given coordinates with a fixed
// variable set. Timezone resolution is delegated to the service. No retry:
// a failed fetch requires a new explicit selection to try again.
func (c *Client) Fetch(ctx context.Context, latitude, longitude float64) (models.ForecastResponse, error) {
	params := url.Values{}
	params.Add("latitude", strconv.FormatFloat(latitude, 'f', -1, 64))
	params.Add("longitude", strconv.FormatFloat(longitude, 'f', -1, 64))
	params.Add("current", "temperature_2m,relative_humidity_2m,apparent_temperature,weather_code,wind_speed_10m")
	params.Add("hourly", "temperature_2m,precipitation_probability,weather_code")
	params.Add("daily", "weather_code,temperature_2m_max,temperature_2m_min")
	params.Add("timezone", "auto")
	params.Add("forecast_days", strconv.Itoa(forecastDays))

	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return models.ForecastResponse{}, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return models.ForecastResponse{}, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return models.ForecastResponse{}, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return models.ForecastResponse{}, fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(body))
	}

	var response models.ForecastResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return models.ForecastResponse{}, fmt.Errorf("failed to parse response: %w", err)
	}

	c.logger.Debug("forecast fetched",
		zap.Float64("latitude", latitude),
		zap.Float64("longitude", longitude),
		zap.Int("hourly", len(response.Hourly.Time)),
		zap.Int("daily", len(response.Daily.Time)))

	return response, nil
}

// Ensure Client implements the Source interface
var _ Source = (*Client)(nil)
