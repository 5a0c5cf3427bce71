package lookup_entities

import (
	"context"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/EuricoCruz/shodan_enrichment/internal/domain/entity"
	"github.com/EuricoCruz/shodan_enrichment/internal/domain/repository"
)

// UseCase implements the batch lookup pipeline
type UseCase struct {
	source     repository.HostSource
	dispatcher repository.Dispatcher
	log        logrus.FieldLogger
}

// NewUseCase creates a new instance using dependency injection
func NewUseCase(source repository.HostSource, dispatcher repository.Dispatcher, log logrus.FieldLogger) *UseCase {
	return &UseCase{
		source:     source,
		dispatcher: dispatcher,
		log:        log,
	}
}

// Execute looks up every eligible entity of the batch and returns once all of them resolved.
//
// The execution flow:
// 1. Validate options
// 2. Filter out private and ignored addresses
// 3. Queue one Shodan request per entity on the lane of the API key
// 4. Join every task, then aggregate (first error fails the batch)
func (uc *UseCase) Execute(ctx context.Context, input Input) (*Output, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	eligible := input.Eligible()
	if len(eligible) == 0 {
		return &Output{Results: []entity.LookupResult{}}, nil
	}

	uc.log.WithField("entities", len(eligible)).Debug("Looking up entities")

	outcomes := make([]Outcome, len(eligible))
	var g errgroup.Group
	for i, e := range eligible {
		i, e := i, e
		g.Go(func() error {
			outcomes[i] = uc.lookup(ctx, e, input.Options.APIKey)
			return nil
		})
	}
	_ = g.Wait()

	results, err := Aggregate(outcomes)
	if err != nil {
		uc.log.WithError(err).Error("Batch lookup failed")
		return nil, err
	}

	return &Output{Results: results}, nil
}

func (uc *UseCase) lookup(ctx context.Context, e entity.Entity, apiKey string) Outcome {
	var record *entity.HostRecord
	err := uc.dispatcher.Dispatch(ctx, apiKey, func(ctx context.Context) error {
		rec, err := uc.source.Fetch(ctx, e, apiKey)
		record = rec
		return err
	})
	if err != nil {
		// record may still be written by a job that outlived ctx
		return Outcome{Entity: e, Err: err}
	}
	return Outcome{Entity: e, Record: record}
}
