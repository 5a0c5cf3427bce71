package lookup_entities

import (
	"errors"

	"github.com/EuricoCruz/shodan_enrichment/internal/domain/entity"
)

// ErrMissingAPIKey is returned when a batch is submitted without credentials
var ErrMissingAPIKey = errors.New("missing Shodan API key")

// Options are the per-user integration options sent with every batch
type Options struct {
	APIKey string `json:"apiKey"`
}

// Validate checks the options before any request is queued
func (o Options) Validate() error {
	if o.APIKey == "" {
		return ErrMissingAPIKey
	}
	return nil
}

// Input represents the input data for a batch lookup (DTO - Data Transfer Object)
type Input struct {
	Entities []entity.Entity
	Options  Options
}

// Validate validates the input data
func (i Input) Validate() error {
	return i.Options.Validate()
}

// Eligible returns the entities that are sent to Shodan, in input order.
// Private and ignored addresses are dropped and never appear in the results.
func (i Input) Eligible() []entity.Entity {
	eligible := make([]entity.Entity, 0, len(i.Entities))
	for _, e := range i.Entities {
		if e.IsEligible() {
			eligible = append(eligible, e)
		}
	}
	return eligible
}
