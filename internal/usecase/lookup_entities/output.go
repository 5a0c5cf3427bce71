package lookup_entities

import "github.com/EuricoCruz/shodan_enrichment/internal/domain/entity"

// Output represents the result of a batch lookup
type Output struct {
	// Results holds one entry per eligible entity, in input order.
	// Entities that were filtered out have no entry.
	Results []entity.LookupResult
}
