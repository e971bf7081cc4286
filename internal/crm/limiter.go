package crm

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Limiter spaces outbound calls. One Limiter lives for the whole process and is
// shared by every request, so unrelated requests throttle each other.
type Limiter struct {
	limiter *rate.Limiter
	spacing time.Duration
}

// NewLimiter returns a limiter allowing one call per spacing. A zero spacing
// disables throttling.
func NewLimiter(spacing time.Duration) *Limiter {
	l := &Limiter{spacing: spacing}
	if spacing > 0 {
		l.limiter = rate.NewLimiter(rate.Every(spacing), 1)
	} else {
		l.limiter = rate.NewLimiter(rate.Inf, 1)
	}
	return l
}

// Acquire blocks until the next call may start or ctx is done
func (l *Limiter) Acquire(ctx context.Context) error {
	return l.limiter.Wait(ctx)
}

// Spacing returns the configured minimum interval
func (l *Limiter) Spacing() time.Duration {
	return l.spacing
}
