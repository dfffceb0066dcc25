package geocode

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"weatherdash/models"
)

const (
	defaultSearchURL  = "https://geocoding-api.open-meteo.com/v1/search"
	defaultReverseURL = "https://api.bigdatacloud.net/data/reverse-geocode-client"

	// Candidates returned per search; matches the count requested from the
	// directory service.
	maxCandidates = 5

	minQueryRunes = 2
)

// Directory resolves user input to City records. Both operations degrade
// rather than fail: lookup errors are logged and swallowed so that a flaky
// directory service never blocks the dashboard.
type Directory interface {
	// SearchCities performs a name-based city search. It returns at most
	// five candidates in the order the directory service ranked them, or an
	// empty result on any failure.
	SearchCities(ctx context.Context, query string) []models.City

	// ReverseGeocode resolves coordinates to a named City. It never fails
	// outward: on error it returns a placeholder city carrying the
	// requested coordinates, still usable for a forecast fetch.
	ReverseGeocode(ctx context.Context, latitude, longitude float64) models.City
}

// Client talks to the city directory services: Open-Meteo geocoding for
// name search and BigDataCloud for reverse geocoding.
type Client struct {
	searchURL  string
	reverseURL string
	httpClient *http.Client
	logger     *zap.Logger
	now        func() time.Time
}

// NewClient creates a directory client with default endpoints.
func NewClient(logger *zap.Logger) *Client {
	return &Client{
		searchURL:  defaultSearchURL,
		reverseURL: defaultReverseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger: logger,
		now:    time.Now,
	}
}

// SearchCities performs a name-based city search against the directory
// service. Queries shorter than two runes return immediately without a
// network call to avoid noisy lookups on partial input. Search failures are
// non-fatal: they are logged and degrade to "no results".
func (c *Client) SearchCities(ctx context.Context, query string) []models.City {
	if utf8.RuneCountInString(query) < minQueryRunes {
		return nil
	}

	params := url.Values{}
	params.Add("name", query)
	params.Add("count", strconv.Itoa(maxCandidates))
	params.Add("language", "en")
	params.Add("format", "json")

	req, err := http.NewRequestWithContext(ctx, "GET", c.searchURL+"?"+params.Encode(), nil)
	if err != nil {
		c.logger.Warn("city search failed", zap.String("query", query), zap.Error(err))
		return nil
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("city search failed", zap.String("query", query), zap.Error(err))
		return nil
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.logger.Warn("city search failed", zap.String("query", query), zap.Error(err))
		return nil
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("city search failed",
			zap.String("query", query),
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", body))
		return nil
	}

	var response struct {
		Results []models.City `json:"results"`
	}
	if err := json.Unmarshal(body, &response); err != nil {
		c.logger.Warn("city search returned unparseable body", zap.String("query", query), zap.Error(err))
		return nil
	}

	// The service honors count, but cap defensively so callers never see
	// more than the candidate budget.
	if len(response.Results) > maxCandidates {
		response.Results = response.Results[:maxCandidates]
	}
	return response.Results
}

// ReverseGeocode resolves coordinates to a named City. On success the
// locality name prefers city, then locality, then "Unknown Location"; the ID
// is synthesized from the current timestamp since the service provides no
// stable identifier. On any failure it returns a degraded "Current Location"
// city so that geolocation-on-load never blocks the dashboard.
func (c *Client) ReverseGeocode(ctx context.Context, latitude, longitude float64) models.City {
	params := url.Values{}
	params.Add("latitude", strconv.FormatFloat(latitude, 'f', -1, 64))
	params.Add("longitude", strconv.FormatFloat(longitude, 'f', -1, 64))
	params.Add("localityLanguage", "en")

	req, err := http.NewRequestWithContext(ctx, "GET", c.reverseURL+"?"+params.Encode(), nil)
	if err != nil {
		c.logger.Warn("reverse geocode failed", zap.Error(err))
		return c.fallbackCity(latitude, longitude)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("reverse geocode failed", zap.Error(err))
		return c.fallbackCity(latitude, longitude)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.logger.Warn("reverse geocode failed", zap.Error(err))
		return c.fallbackCity(latitude, longitude)
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("reverse geocode failed",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", body))
		return c.fallbackCity(latitude, longitude)
	}

	var response struct {
		City                 string `json:"city"`
		Locality             string `json:"locality"`
		CountryName          string `json:"countryName"`
		PrincipalSubdivision string `json:"principalSubdivision"`
	}
	if err := json.Unmarshal(body, &response); err != nil {
		c.logger.Warn("reverse geocode returned unparseable body", zap.Error(err))
		return c.fallbackCity(latitude, longitude)
	}

	name := response.City
	if name == "" {
		name = response.Locality
	}
	if name == "" {
		name = "Unknown Location"
	}

	return models.City{
		ID:        c.now().UnixMilli(),
		Name:      name,
		Latitude:  latitude,
		Longitude: longitude,
		Country:   response.CountryName,
		Admin1:    response.PrincipalSubdivision,
	}
}

// fallbackCity is the degraded result when reverse geocoding fails. The
// requested coordinates are preserved so a forecast fetch still works.
func (c *Client) fallbackCity(latitude, longitude float64) models.City {
	return models.City{
		ID:        c.now().UnixMilli(),
		Name:      "Current Location",
		Latitude:  latitude,
		Longitude: longitude,
		Country:   "",
	}
}

// Ensure Client implements the Directory interface
var _ Directory = (*Client)(nil)
