// Package ratelimit paces harvest requests to respect external service
// rate limits. The policy is a fixed pause between consecutive requests,
// optionally stretched for one interval when the service sends a
// Retry-After hint.
package ratelimit

import (
	"context"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
)

// Prometheus metrics for request pacing.
var (
	harvestWaitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "harvest_rate_limit_waits_total",
		Help: "Total number of inter-request pauses",
	})

	harvestWaitSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "harvest_rate_limit_wait_seconds",
		Help:    "Duration of inter-request pauses",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
	})

	harvestBackoffsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "harvest_rate_limit_backoffs_total",
		Help: "Total number of waits stretched by a Retry-After hint",
	})
)

// Limiter enforces the fixed inter-request delay. It is in-memory and
// owned by a single harvest run; there is no shared state to coordinate.
type Limiter struct {
	interval time.Duration
	logger   zerolog.Logger

	mu    sync.Mutex
	extra time.Duration // one-shot stretch from a Retry-After hint
}

// NewLimiter creates a limiter with the given inter-request interval.
// An interval of 0 disables pausing entirely.
func NewLimiter(interval time.Duration, logger zerolog.Logger) *Limiter {
	return &Limiter{
		interval: interval,
		logger:   logger,
	}
}

// Wait pauses for the configured interval, plus any pending Retry-After
// stretch. The pause is the cancellation boundary of a harvest: a context
// cancelled mid-wait returns immediately with ctx.Err() and no further
// request is issued.
func (l *Limiter) Wait(ctx context.Context) error {
	l.mu.Lock()
	d := l.interval + l.extra
	l.extra = 0
	l.mu.Unlock()

	if d <= 0 {
		return ctx.Err()
	}

	harvestWaitsTotal.Inc()
	harvestWaitSeconds.Observe(d.Seconds())

	l.logger.Debug().
		Dur("wait", d).
		Msg("Pausing before next page")

	select {
	case <-ctx.Done():
		l.logger.Warn().
			Dur("wait", d).
			Msg("Context cancelled during inter-request pause")
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}

// Backoff records a Retry-After hint from the service. Only the next wait
// is stretched, and only if the hint exceeds what is already pending.
func (l *Limiter) Backoff(hint time.Duration) {
	if hint <= 0 {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if hint > l.extra {
		l.extra = hint
		harvestBackoffsTotal.Inc()

		l.logger.Warn().
			Dur("retry_after", hint).
			Msg("Service asked to slow down - stretching next pause")
	}
}
