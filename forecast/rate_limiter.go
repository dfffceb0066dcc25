package forecast

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"

	"weatherdash/models"
)

// RateLimitedSource wraps a Source with rate limiting.
type RateLimitedSource struct {
	source  Source
	limiter *rate.Limiter
}

// NewRateLimitedSource creates a rate limited wrapper around a forecast
// source. rps is the maximum requests per second allowed, burst is the
// maximum burst size allowed.
func NewRateLimitedSource(source Source, rps float64, burst int) *RateLimitedSource {
	return &RateLimitedSource{
		source:  source,
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
	}
}

// Fetch fetches forecast data, respecting rate limits.
func (r *RateLimitedSource) Fetch(ctx context.Context, latitude, longitude float64) (models.ForecastResponse, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return models.ForecastResponse{}, fmt.Errorf("rate limit wait canceled: %w", err)
	}
	return r.source.Fetch(ctx, latitude, longitude)
}

// Ensure RateLimitedSource implements the Source interface
var _ Source = (*RateLimitedSource)(nil)
