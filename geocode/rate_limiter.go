package geocode

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"weatherdash/models"
)

// RateLimitedDirectory wraps a Directory with rate limiting. It keeps the
// directory's degrade-don't-fail contract: a limiter wait that is canceled
// produces the same degraded results as a failed lookup.
type RateLimitedDirectory struct {
	dir     Directory
	limiter *rate.Limiter
	logger  *zap.Logger
}

// NewRateLimitedDirectory creates a rate limited wrapper around a directory.
// rps is the maximum requests per second allowed (can be fractional for less
// than 1 request per second), burst is the maximum burst size allowed.
func NewRateLimitedDirectory(dir Directory, rps float64, burst int, logger *zap.Logger) *RateLimitedDirectory {
	return &RateLimitedDirectory{
		dir:     dir,
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
		logger:  logger,
	}
}

// SearchCities searches for cities, respecting rate limits.
func (r *RateLimitedDirectory) SearchCities(ctx context.Context, query string) []models.City {
	if err := r.limiter.Wait(ctx); err != nil {
		r.logger.Warn("rate limit wait canceled", zap.String("query", query), zap.Error(err))
		return nil
	}
	return r.dir.SearchCities(ctx, query)
}

// ReverseGeocode resolves coordinates, respecting rate limits.
func (r *RateLimitedDirectory) ReverseGeocode(ctx context.Context, latitude, longitude float64) models.City {
	if err := r.limiter.Wait(ctx); err != nil {
		r.logger.Warn("rate limit wait canceled", zap.Error(err))
		return models.City{
			ID:        time.Now().UnixMilli(),
			Name:      "Current Location",
			Latitude:  latitude,
			Longitude: longitude,
		}
	}
	return r.dir.ReverseGeocode(ctx, latitude, longitude)
}

// Ensure RateLimitedDirectory implements the Directory interface
var _ Directory = (*RateLimitedDirectory)(nil)
