package dispatch

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/EuricoCruz/shodan_enrichment/internal/domain/entity"
	"github.com/EuricoCruz/shodan_enrichment/internal/domain/repository"
)

// MemoryGate is an in-process token bucket per lane
type MemoryGate struct {
	mu      sync.Mutex
	buckets map[string]*entity.RateLimit
	nowFn   func() time.Time
}

// NewMemoryGate creates an empty MemoryGate
func NewMemoryGate() *MemoryGate {
	return &MemoryGate{
		buckets: make(map[string]*entity.RateLimit),
		nowFn:   time.Now,
	}
}

// CheckAndConsume implements repository.DispatchGate
func (g *MemoryGate) CheckAndConsume(
	_ context.Context,
	key entity.LimiterKey,
	limit int,
	window time.Duration,
) (*repository.CheckResult, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be positive, got: %d", limit)
	}
	if window <= 0 {
		return nil, fmt.Errorf("window must be positive, got: %v", window)
	}

	now := g.nowFn()
	lane := key.String()

	g.mu.Lock()
	defer g.mu.Unlock()

	bucket, ok := g.buckets[lane]
	if !ok || bucket.Limit != limit || bucket.Window != window {
		bucket = entity.NewRateLimit(key, limit, window, now)
		g.buckets[lane] = bucket
	}

	bucket.RefillTokens(now)
	if err := bucket.ConsumeToken(); err != nil {
		return &repository.CheckResult{Allowed: false, RetryAfter: bucket.RetryAfter()}, nil
	}
	return &repository.CheckResult{Allowed: true}, nil
}

// Close implements repository.DispatchGate
func (g *MemoryGate) Close() error {
	return nil
}
