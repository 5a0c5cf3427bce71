package lookup_entities

import (
	"errors"

	"github.com/EuricoCruz/shodan_enrichment/internal/domain/entity"
	"github.com/EuricoCruz/shodan_enrichment/internal/domain/repository"
	"github.com/EuricoCruz/shodan_enrichment/internal/domain/summary"
)

// Outcome is what one per-entity task resolved to
type Outcome struct {
	Entity entity.Entity
	Record *entity.HostRecord
	Err    error
}

// Aggregate folds the per-entity outcomes into the batch result.
//
// The first failed outcome, in input order, fails the whole batch and no partial
// results are returned. A job dropped by the limiter is not a failure: it becomes
// a volatile limit-reached placeholder the caller can retry later.
func Aggregate(outcomes []Outcome) ([]entity.LookupResult, error) {
	for _, o := range outcomes {
		if o.Err != nil && !errors.Is(o.Err, repository.ErrJobDropped) {
			return nil, asLookupError(o.Err)
		}
	}

	results := make([]entity.LookupResult, 0, len(outcomes))
	for _, o := range outcomes {
		results = append(results, toResult(o))
	}
	return results, nil
}

func toResult(o Outcome) entity.LookupResult {
	switch {
	case o.Err != nil:
		return entity.NewLimitReachedResult(o.Entity)
	case o.Record == nil:
		return entity.LookupResult{Entity: o.Entity}
	case o.Record.Variant == entity.VariantEmptyNetwork:
		return entity.LookupResult{Entity: o.Entity, Data: entity.NewNoResultsData()}
	}

	return entity.LookupResult{
		Entity: o.Entity,
		Data: &entity.ResultData{
			Summary: summary.Tags(o.Record),
			Details: o.Record.Details,
		},
	}
}

// asLookupError keeps LookupErrors as they are and reports anything else
// (cancellation, gate failures) as a failed request
func asLookupError(err error) *entity.LookupError {
	var lookupErr *entity.LookupError
	if errors.As(err, &lookupErr) {
		return lookupErr
	}
	return &entity.LookupError{Detail: entity.DetailRequestFailed, Err: err}
}
