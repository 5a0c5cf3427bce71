package retry_entity

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/EuricoCruz/shodan_enrichment/internal/domain/entity"
	"github.com/EuricoCruz/shodan_enrichment/internal/usecase/lookup_entities"
)

// Looker runs a batch lookup. It is satisfied by *lookup_entities.UseCase.
type Looker interface {
	Execute(ctx context.Context, input lookup_entities.Input) (*lookup_entities.Output, error)
}

// UseCase re-runs the lookup for an entity whose previous result was a placeholder
type UseCase struct {
	lookup Looker
	log    logrus.FieldLogger
}

// NewUseCase creates a new instance using dependency injection
func NewUseCase(lookup Looker, log logrus.FieldLogger) *UseCase {
	return &UseCase{lookup: lookup, log: log}
}

// Execute looks the entity up again as a batch of one.
// While the limiter keeps dropping the job an *entity.LimitNotice is returned.
func (uc *UseCase) Execute(ctx context.Context, input Input) (*Output, error) {
	output, err := uc.lookup.Execute(ctx, lookup_entities.Input{
		Entities: []entity.Entity{input.Previous.Entity},
		Options:  input.Options,
	})
	if err != nil {
		return nil, err
	}

	if len(output.Results) == 0 {
		return newNoResultsOutput(), nil
	}

	result := output.Results[0]
	if result.Data == nil || result.Data.Details == nil {
		return newNoResultsOutput(), nil
	}
	if result.IsLimitReached() {
		return nil, entity.NewLimitNotice()
	}

	uc.log.WithField("entity", result.Entity.Value).Trace("Retry result")
	return newDataOutput(result.Data), nil
}
