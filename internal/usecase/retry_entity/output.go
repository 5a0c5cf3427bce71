package retry_entity

import "github.com/EuricoCruz/shodan_enrichment/internal/domain/entity"

// Output is either the refreshed {summary, details} payload or the no-results marker
type Output struct {
	Summary        []string       `json:"summary,omitempty"`
	Details        map[string]any `json:"details,omitempty"`
	NoResultsFound bool           `json:"noResultsFound,omitempty"`
	Tags           []string       `json:"tags,omitempty"`
}

func newDataOutput(data *entity.ResultData) *Output {
	return &Output{Summary: data.Summary, Details: data.Details}
}

func newNoResultsOutput() *Output {
	return &Output{NoResultsFound: true, Tags: []string{entity.NoResultsFoundTag}}
}
