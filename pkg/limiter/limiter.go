package limiter

import (
	"context"

	"golang.org/x/time/rate"
)

type Limiter interface {
	limiterSetup()
}

// New returns a limiter allowing limit calls per second, or nil when limit is not positive.
func New(limit int) *rate.Limiter {
	if limit <= 0 {
		return nil
	}

	return rate.NewLimiter(rate.Limit(limit), limit)
}

func wait(ctx context.Context, l *rate.Limiter) error {
	if l == nil {
		return nil
	}

	return l.Wait(ctx)
}
