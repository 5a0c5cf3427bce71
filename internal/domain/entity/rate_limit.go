package entity

import (
	"errors"
	"math"
	"time"
)

var ErrRateLimitExceeded = errors.New("rate limit exceeded")

// tokenEpsilon absorbs float drift from refilling over windows like 1050ms
const tokenEpsilon = 1e-9

// RateLimit is the token bucket that paces dispatches on one lane
type RateLimit struct {
	Key           LimiterKey
	Limit         int           // Dispatches allowed per window
	Window        time.Duration // Time window (e.g., 1050ms)
	CurrentTokens float64       // Available tokens in bucket
	LastRefill    time.Time     // Last token refill
}

// NewRateLimit creates a new RateLimit instance with a full bucket
func NewRateLimit(key LimiterKey, limit int, window time.Duration, now time.Time) *RateLimit {
	return &RateLimit{
		Key:           key,
		Limit:         limit,
		Window:        window,
		CurrentTokens: float64(limit),
		LastRefill:    now,
	}
}

// CanConsume verifies if can consume one token
func (r *RateLimit) CanConsume() bool {
	return r.CurrentTokens >= 1-tokenEpsilon
}

// ConsumeToken consumes one token from the bucket
func (r *RateLimit) ConsumeToken() error {
	if !r.CanConsume() {
		return ErrRateLimitExceeded
	}
	r.CurrentTokens = math.Max(0, r.CurrentTokens-1)
	return nil
}

// RefillTokens adds tokens based on elapsed time without exceeding the bucket capacity.
//
// Example:
//
//	RateLimit{Limit: 1, Window: 1050*time.Millisecond, CurrentTokens: 0, LastRefill: now-525ms}
//	RefillTokens(now) leaves 0.5 tokens in the bucket
func (r *RateLimit) RefillTokens(now time.Time) {
	elapsed := now.Sub(r.LastRefill).Seconds()
	if elapsed < 0 {
		elapsed = 0
	}
	refillRate := float64(r.Limit) / r.Window.Seconds()
	r.CurrentTokens = math.Min(float64(r.Limit), r.CurrentTokens+elapsed*refillRate)
	r.LastRefill = now
}

// RetryAfter returns how long until the next whole token is available.
// Zero means a token can be consumed right now.
func (r *RateLimit) RetryAfter() time.Duration {
	if r.CanConsume() {
		return 0
	}
	missing := 1 - r.CurrentTokens
	perToken := float64(r.Window) / float64(r.Limit)
	return time.Duration(math.Ceil(missing * perToken))
}
