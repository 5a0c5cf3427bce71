package retry_entity

import (
	"github.com/EuricoCruz/shodan_enrichment/internal/domain/entity"
	"github.com/EuricoCruz/shodan_enrichment/internal/usecase/lookup_entities"
)

// Input carries the result the user asked to retry and the options of the first batch
type Input struct {
	Previous entity.LookupResult
	Options  lookup_entities.Options
}
