// Package dispatch serializes and paces outbound Shodan requests per API key.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/EuricoCruz/shodan_enrichment/internal/domain/entity"
	"github.com/EuricoCruz/shodan_enrichment/internal/domain/repository"
)

var (
	// ErrJobDropped is returned when the lane already holds HighWater pending jobs
	ErrJobDropped = repository.ErrJobDropped
	// ErrLimiterClosed is returned for jobs submitted after the lane was torn down
	ErrLimiterClosed = errors.New("limiter closed")
)

// minRetryDelay guards against gates that deny without a usable RetryAfter
const minRetryDelay = 10 * time.Millisecond

// Policy configures every lane created by a Registry
type Policy struct {
	MinTime   time.Duration // minimum spacing between two dispatches
	HighWater int           // pending jobs accepted before new ones are dropped
}

// DefaultPolicy returns the pacing Shodan tolerates for one API key
func DefaultPolicy() Policy {
	return Policy{
		MinTime:   1050 * time.Millisecond,
		HighWater: 15,
	}
}

type job struct {
	ctx  context.Context
	fn   func(context.Context) error
	done chan error
}

// Limiter is one dispatch lane: a single worker runs jobs one at a time, at least
// MinTime apart, and holds at most HighWater jobs waiting for their turn.
type Limiter struct {
	key    entity.LimiterKey
	policy Policy
	gate   repository.DispatchGate
	log    logrus.FieldLogger

	mu      sync.Mutex
	closed  bool
	queue   chan job
	stopped chan struct{}
}

func newLimiter(key entity.LimiterKey, policy Policy, gate repository.DispatchGate, log logrus.FieldLogger) *Limiter {
	l := &Limiter{
		key:     key,
		policy:  policy,
		gate:    gate,
		log:     log,
		queue:   make(chan job, policy.HighWater),
		stopped: make(chan struct{}),
	}
	go l.run()
	return l
}

// Do enqueues fn and waits for it to run. It never blocks on a full queue:
// ErrJobDropped is returned immediately instead.
func (l *Limiter) Do(ctx context.Context, fn func(context.Context) error) error {
	j := job{ctx: ctx, fn: fn, done: make(chan error, 1)}

	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return ErrLimiterClosed
	}
	select {
	case l.queue <- j:
	default:
		l.mu.Unlock()
		l.log.WithField("lane", l.key.String()).Debug("Limiter queue full, dropping job")
		return ErrJobDropped
	}
	l.mu.Unlock()

	select {
	case err := <-j.done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Pending returns the number of jobs waiting for the worker
func (l *Limiter) Pending() int {
	return len(l.queue)
}

// Close stops accepting jobs. Jobs already queued still run.
func (l *Limiter) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return
	}
	l.closed = true
	close(l.queue)
}

// Stopped is closed once the worker has drained the queue after Close
func (l *Limiter) Stopped() <-chan struct{} {
	return l.stopped
}

func (l *Limiter) run() {
	defer close(l.stopped)
	for j := range l.queue {
		if err := j.ctx.Err(); err != nil {
			j.done <- err
			continue
		}
		if err := l.waitTurn(j.ctx); err != nil {
			j.done <- err
			continue
		}
		j.done <- j.fn(j.ctx)
	}
}

// waitTurn blocks until the gate hands out a token for this lane
func (l *Limiter) waitTurn(ctx context.Context) error {
	for {
		result, err := l.gate.CheckAndConsume(ctx, l.key, 1, l.policy.MinTime)
		if err != nil {
			return fmt.Errorf("dispatch gate for %s: %w", l.key.String(), err)
		}
		if result.Allowed {
			return nil
		}

		delay := result.RetryAfter
		if delay < minRetryDelay {
			delay = minRetryDelay
		}
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}
