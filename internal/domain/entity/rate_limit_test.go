package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestConsumeToken_SuccessDecrementsTokens(t *testing.T) {
	rateLimit := &RateLimit{CurrentTokens: 1.0}

	err := rateLimit.ConsumeToken()

	assert.NoError(t, err)
	assert.Equal(t, 0.0, rateLimit.CurrentTokens)
}

func TestConsumeToken_FailsWhenNoTokens(t *testing.T) {
	rateLimit := &RateLimit{CurrentTokens: 0.4}

	err := rateLimit.ConsumeToken()

	assert.ErrorIs(t, err, ErrRateLimitExceeded)
	assert.Equal(t, 0.4, rateLimit.CurrentTokens)
}

func TestRefillTokens_AddsTokensBasedOnElapsedTime(t *testing.T) {
	now := time.Now()
	rateLimit := &RateLimit{
		Limit:         1,
		Window:        1000 * time.Millisecond,
		CurrentTokens: 0.0,
		LastRefill:    now.Add(-500 * time.Millisecond),
	}

	rateLimit.RefillTokens(now)

	assert.InDelta(t, 0.5, rateLimit.CurrentTokens, 1e-9)
	assert.Equal(t, now, rateLimit.LastRefill)
}

func TestRefillTokens_DoesNotExceedCapacity(t *testing.T) {
	now := time.Now()
	rateLimit := &RateLimit{
		Limit:         1,
		Window:        1050 * time.Millisecond,
		CurrentTokens: 0.9,
		LastRefill:    now.Add(-time.Hour),
	}

	rateLimit.RefillTokens(now)

	assert.Equal(t, 1.0, rateLimit.CurrentTokens)
}

func TestRetryAfter_ReportsTimeUntilNextToken(t *testing.T) {
	rateLimit := &RateLimit{
		Limit:         1,
		Window:        1000 * time.Millisecond,
		CurrentTokens: 0.25,
	}

	assert.Equal(t, 750*time.Millisecond, rateLimit.RetryAfter())
}

func TestRetryAfter_ZeroWhenTokenAvailable(t *testing.T) {
	rateLimit := NewRateLimit(NewAPIKey("abc123"), 1, 1050*time.Millisecond, time.Now())

	assert.Equal(t, time.Duration(0), rateLimit.RetryAfter())
	assert.Equal(t, 1.0, rateLimit.CurrentTokens)
}
