package repository

import (
	"context"
	"errors"

	"github.com/EuricoCruz/shodan_enrichment/internal/domain/entity"
)

// ErrJobDropped is returned by a Dispatcher when the lane for the API key is saturated.
// It is a local limit, not an upstream failure.
var ErrJobDropped = errors.New("job dropped by limiter: queue is full")

// HostSource fetches the Shodan record for one entity.
// A nil record with a nil error means Shodan has no data for the entity.
type HostSource interface {
	Fetch(ctx context.Context, e entity.Entity, apiKey string) (*entity.HostRecord, error)
}

// Dispatcher runs fn on the lane owned by apiKey, after any job queued before it
type Dispatcher interface {
	Dispatch(ctx context.Context, apiKey string, fn func(context.Context) error) error
}
