package dispatch

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/EuricoCruz/shodan_enrichment/internal/domain/entity"
	"github.com/EuricoCruz/shodan_enrichment/internal/domain/repository"
)

const breakerDuration = 30 * time.Second

// FallbackGate prefers a shared gate (Redis) and falls back to a local one while the
// shared gate is failing. A failure opens a breaker for 30s before the shared gate is tried again.
type FallbackGate struct {
	primary  repository.DispatchGate
	fallback repository.DispatchGate
	nowFn    func() time.Time
	log      logrus.FieldLogger

	mu           sync.Mutex
	breakerUntil time.Time
}

// NewFallbackGate constructs a FallbackGate with default dependencies when nil
func NewFallbackGate(primary, fallback repository.DispatchGate, log logrus.FieldLogger) *FallbackGate {
	if fallback == nil {
		fallback = NewMemoryGate()
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &FallbackGate{
		primary:  primary,
		fallback: fallback,
		nowFn:    time.Now,
		log:      log,
	}
}

// CheckAndConsume implements repository.DispatchGate
func (g *FallbackGate) CheckAndConsume(
	ctx context.Context,
	key entity.LimiterKey,
	limit int,
	window time.Duration,
) (*repository.CheckResult, error) {
	now := g.nowFn()
	if g.primary != nil && !g.isBreakerActive(now) {
		result, err := g.primary.CheckAndConsume(ctx, key, limit, window)
		if err == nil {
			return result, nil
		}
		if ctx.Err() != nil {
			return nil, err
		}
		g.tripBreaker(err, now)
	}
	return g.fallback.CheckAndConsume(ctx, key, limit, window)
}

// Close implements repository.DispatchGate
func (g *FallbackGate) Close() error {
	if g.primary == nil {
		return g.fallback.Close()
	}
	return g.primary.Close()
}

func (g *FallbackGate) isBreakerActive(now time.Time) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.breakerUntil.IsZero() {
		return false
	}
	if now.Before(g.breakerUntil) {
		return true
	}
	g.breakerUntil = time.Time{}
	return false
}

func (g *FallbackGate) tripBreaker(err error, now time.Time) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.breakerUntil.IsZero() && now.Before(g.breakerUntil) {
		return
	}
	g.breakerUntil = now.Add(breakerDuration)
	g.log.WithError(err).Warn("dispatch gate: shared gate unavailable, falling back to memory")
}
