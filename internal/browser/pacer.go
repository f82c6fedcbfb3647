package browser

import (
	"context"
	"math/rand"
	"time"

	"golang.org/x/time/rate"
)

// Pacer throttles driver actions to a human-plausible rhythm. A token
// bucket caps the sustained action rate while a jittered delay breaks up
// the interval between consecutive actions.
type Pacer struct {
	limiter  *rate.Limiter
	minDelay time.Duration
	maxDelay time.Duration
}

// NewPacer builds a pacer allowing roughly actionsPerMinute sustained actions
func NewPacer(actionsPerMinute int, minDelay, maxDelay time.Duration) *Pacer {
	if actionsPerMinute <= 0 {
		actionsPerMinute = 30
	}
	if maxDelay < minDelay {
		maxDelay = minDelay
	}
	return &Pacer{
		limiter:  rate.NewLimiter(rate.Limit(float64(actionsPerMinute)/60.0), 1),
		minDelay: minDelay,
		maxDelay: maxDelay,
	}
}

// Wait blocks until the next action is allowed or the context is cancelled
func (p *Pacer) Wait(ctx context.Context) error {
	if err := p.limiter.Wait(ctx); err != nil {
		return err
	}

	delay := p.minDelay
	if span := p.maxDelay - p.minDelay; span > 0 {
		delay += time.Duration(rand.Int63n(int64(span)))
	}
	if delay <= 0 {
		return nil
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(delay):
		return nil
	}
}
