package repository

import (
	"context"
	"time"

	"github.com/EuricoCruz/shodan_enrichment/internal/domain/entity"
)

// DispatchGate defines the contract for the pacing backend consulted before every outbound request.
// Implementations decide whether a lane may dispatch now and, if not, how long to wait.
type DispatchGate interface {
	// CheckAndConsume verifies if the lane has a token and consumes it atomically.
	// limit tokens are refilled evenly over window.
	CheckAndConsume(
		ctx context.Context,
		key entity.LimiterKey,
		limit int,
		window time.Duration,
	) (*CheckResult, error)

	// Close releases any connections used by the gate.
	Close() error
}

// CheckResult contains the result of a gate check
type CheckResult struct {
	Allowed    bool          // Whether the dispatch may proceed
	RetryAfter time.Duration // How long until a token is available (meaningful only when denied)
}
