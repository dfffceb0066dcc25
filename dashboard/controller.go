// Package dashboard wires the directory client, forecast source and
// application state into the event flow the UI drives: debounced search,
// city selection, and geolocation-on-load.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"weatherdash/forecast"
	"weatherdash/geocode"
	"weatherdash/models"
	"weatherdash/presenter"
	"weatherdash/state"
)

// Geolocation failures are user-visible and kept distinct from each other
// and from forecast errors: "not supported" means the platform has no
// location source at all, "unavailable" covers denial and lookup failure.
var (
	ErrGeolocationUnsupported = errors.New("geolocation is not supported")
	ErrGeolocationUnavailable = errors.New("unable to retrieve your location")

	// ErrSuperseded reports that a newer selection was made while this
	// one's forecast fetch was in flight. The result was discarded.
	ErrSuperseded = errors.New("selection superseded by a newer one")
)

// Locator provides the device position. Implementations may wrap a platform
// location service or fixed configured coordinates.
type Locator interface {
	Locate(ctx context.Context) (latitude, longitude float64, err error)
}

// FixedLocator always reports the same coordinates.
type FixedLocator struct {
	Latitude  float64
	Longitude float64
}

// Locate returns the configured coordinates.
func (l FixedLocator) Locate(ctx context.Context) (float64, float64, error) {
	return l.Latitude, l.Longitude, nil
}

const defaultDebounce = 300 * time.Millisecond

// Controller orchestrates the acquisition pipeline in response to discrete
// user events. It owns no forecast data itself; results land in the
// application state behind its stale-completion guard.
type Controller struct {
	directory geocode.Directory
	source    forecast.Source
	app       *state.App
	locator   Locator
	logger    *zap.Logger
	debounce  time.Duration

	mu          sync.Mutex
	searchTimer *time.Timer
}

// New creates a controller. locator may be nil when the platform has no
// location source; Geolocate then reports ErrGeolocationUnsupported.
func New(directory geocode.Directory, source forecast.Source, app *state.App, locator Locator, logger *zap.Logger) *Controller {
	return &Controller{
		directory: directory,
		source:    source,
		app:       app,
		locator:   locator,
		logger:    logger,
		debounce:  defaultDebounce,
	}
}

// SetDebounce changes the search debounce interval.
func (c *Controller) SetDebounce(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.debounce = d
}

// SearchInput registers a change to the search box. The directory call
// fires only after the debounce interval passes with no further input, so
// only the final query of a burst reaches the network. Results are
// delivered to deliver; search failures degrade to an empty result inside
// the directory client and never reach the caller as errors.
func (c *Controller) SearchInput(ctx context.Context, query string, deliver func(query string, results []models.City)) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.searchTimer != nil {
		c.searchTimer.Stop()
	}
	c.searchTimer = time.AfterFunc(c.debounce, func() {
		deliver(query, c.directory.SearchCities(ctx, query))
	})
}

// Select makes city the current selection and fetches, normalizes and
// installs its forecast. A fetch or normalization failure is surfaced to
// the caller; ErrSuperseded reports that a newer selection won while this
// one was in flight and its result was dropped.
func (c *Controller) Select(ctx context.Context, city models.City) (*presenter.Snapshot, error) {
	token := c.app.BeginSelection(city)

	raw, err := c.source.Fetch(ctx, city.Latitude, city.Longitude)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch weather for %s: %w", city.Name, err)
	}

	snap, err := presenter.Normalize(raw)
	if err != nil {
		return nil, err
	}

	if !c.app.CompleteSelection(token, snap) {
		c.logger.Debug("discarding stale forecast", zap.String("city", city.Name))
		return nil, ErrSuperseded
	}
	return &snap, nil
}

// Geolocate resolves the device position to a City via reverse geocoding.
// Reverse geocoding never fails, so the only error sources are the locator
// itself and a missing one.
func (c *Controller) Geolocate(ctx context.Context) (models.City, error) {
	if c.locator == nil {
		return models.City{}, ErrGeolocationUnsupported
	}

	lat, lon, err := c.locator.Locate(ctx)
	if err != nil {
		return models.City{}, fmt.Errorf("%w: %v", ErrGeolocationUnavailable, err)
	}

	return c.directory.ReverseGeocode(ctx, lat, lon), nil
}
