package usecase

import (
	"context"
	"time"

	"golang.org/x/time/rate"

	"SeoForge/internal/ports"
)

// Pacer spaces consecutive batch items at least interval apart. It is a
// token bucket of size one, so the first Wait returns immediately.
type Pacer struct {
	limiter *rate.Limiter
}

var _ ports.Pacer = (*Pacer)(nil)

// NewPacer returns a pacer for interval; a non-positive interval never waits.
func NewPacer(interval time.Duration) *Pacer {
	if interval <= 0 {
		return &Pacer{}
	}
	return &Pacer{limiter: rate.NewLimiter(rate.Every(interval), 1)}
}

// Wait blocks until the next item may start or ctx is done.
func (p *Pacer) Wait(ctx context.Context) error {
	if p == nil || p.limiter == nil {
		return ctx.Err()
	}
	return p.limiter.Wait(ctx)
}

func newPacer(interval time.Duration) ports.Pacer {
	return NewPacer(interval)
}
