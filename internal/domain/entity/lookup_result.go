package entity

const (
	// SearchLimitReachedTag is shown for entities dropped by the local limiter
	SearchLimitReachedTag = "Search Limit Reached"
	// NoResultsFoundTag is shown for empty network searches and empty retries
	NoResultsFoundTag = "No Results Found"
)

// ResultData is the {summary, details} payload rendered by the notification UI
type ResultData struct {
	Summary []string       `json:"summary"`
	Details map[string]any `json:"details"`
}

// LookupResult is the normalized outcome returned for one entity.
// A nil Data means the entity was looked up and Shodan had nothing for it.
type LookupResult struct {
	Entity     Entity      `json:"entity"`
	IsVolatile bool        `json:"isVolatile,omitempty"`
	Data       *ResultData `json:"data"`
}

// IsLimitReached reports whether the result is a rate limit placeholder
func (r LookupResult) IsLimitReached() bool {
	if r.Data == nil || r.Data.Details == nil {
		return false
	}
	reached, _ := r.Data.Details["limitReached"].(bool)
	return reached
}

// NewLimitReachedResult builds the volatile placeholder used when the limiter drops a job
func NewLimitReachedResult(e Entity) LookupResult {
	return LookupResult{
		Entity:     e,
		IsVolatile: true,
		Data: &ResultData{
			Summary: []string{SearchLimitReachedTag},
			Details: map[string]any{
				"limitReached": true,
				"tags":         []string{SearchLimitReachedTag},
			},
		},
	}
}

// NewNoResultsData builds the payload for a network search that matched nothing
func NewNoResultsData() *ResultData {
	return &ResultData{
		Summary: []string{NoResultsFoundTag},
		Details: map[string]any{"tags": []string{NoResultsFoundTag}},
	}
}
