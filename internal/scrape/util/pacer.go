package util

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Pacer enforces the fixed delay between requests: at most one request per
// interval, single token so there is never a burst. A zero or negative delay
// disables pacing.
type Pacer struct {
	lim *rate.Limiter
}

func NewPacer(delay time.Duration) *Pacer {
	if delay <= 0 {
		return &Pacer{lim: rate.NewLimiter(rate.Inf, 1)}
	}
	return &Pacer{lim: rate.NewLimiter(rate.Every(delay), 1)}
}

func (p *Pacer) Wait(ctx context.Context) error {
	return p.lim.Wait(ctx)
}
