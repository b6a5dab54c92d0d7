package services

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/tbourn/go-audience-insights/internal/youtube"
)

// RetryConfig controls backoff for upstream retrieval calls.
type RetryConfig struct {
	MaxRetries  int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// DefaultRetryConfig is suitable for quota-metered API calls.
var DefaultRetryConfig = RetryConfig{
	MaxRetries:  3,
	InitialWait: 500 * time.Millisecond,
	MaxWait:     10 * time.Second,
	Multiplier:  2.0,
}

// retryDo retries fn with exponential backoff. Only transient and rate-limit
// errors are retried; not-found and validation failures return immediately. A
// provider retry-after hint overrides the computed wait when it is longer.
func retryDo[T any](ctx context.Context, rc RetryConfig, fn func() (T, error)) (T, error) {
	var zero T
	var lastErr error

	for attempt := 0; attempt <= rc.MaxRetries; attempt++ {
		if ctx.Err() != nil {
			return zero, ctx.Err()
		}

		result, err := fn()
		if err == nil {
			return result, nil
		}
		lastErr = err

		if !isRetryable(err) {
			return zero, err
		}

		if attempt < rc.MaxRetries {
			wait := time.Duration(float64(rc.InitialWait) * math.Pow(rc.Multiplier, float64(attempt)))
			if wait > rc.MaxWait {
				wait = rc.MaxWait
			}
			var rle *youtube.RateLimitedError
			if errors.As(err, &rle) && rle.RetryAfter > wait {
				wait = rle.RetryAfter
			}
			log.Debug().Int("attempt", attempt+1).Dur("wait", wait).Err(err).Msg("retrying upstream call")
			select {
			case <-time.After(wait):
			case <-ctx.Done():
				return zero, ctx.Err()
			}
		}
	}
	return zero, lastErr
}

// isRetryable reports whether the retrieval error is worth another attempt.
func isRetryable(err error) bool {
	var rle *youtube.RateLimitedError
	if errors.As(err, &rle) {
		return true
	}
	var te *youtube.TransientError
	return errors.As(err, &te)
}
