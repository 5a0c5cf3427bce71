package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/EuricoCruz/shodan_enrichment/internal/adapter/http/middleware"
	"github.com/EuricoCruz/shodan_enrichment/internal/domain/entity"
	"github.com/EuricoCruz/shodan_enrichment/internal/integration"
	"github.com/EuricoCruz/shodan_enrichment/internal/usecase/lookup_entities"
)

// lookupRequest is the body of POST /lookup.
// Entities sent without a type are classified from their value.
type lookupRequest struct {
	Entities []entity.Entity         `json:"entities"`
	Options  lookup_entities.Options `json:"options"`
}

func (l *lookupRequest) Bind(r *http.Request) error {
	if l.Entities == nil {
		return errors.New("entities is required")
	}
	for i, e := range l.Entities {
		if e.Type == "" {
			parsed, err := entity.ParseEntity(e.Value)
			if err != nil {
				return fmt.Errorf("entities[%d]: %w", i, err)
			}
			l.Entities[i] = parsed
			continue
		}
		if !e.IsValid() {
			return fmt.Errorf("entities[%d]: unsupported entity %q of type %q", i, e.Value, e.Type)
		}
	}
	applyHeaderAPIKey(r, &l.Options)
	return nil
}

// retryRequest is the body of POST /retry
type retryRequest struct {
	Result  entity.LookupResult     `json:"result"`
	Options lookup_entities.Options `json:"options"`
}

func (rr *retryRequest) Bind(r *http.Request) error {
	if !rr.Result.Entity.IsValid() {
		return errors.New("result.entity is required")
	}
	applyHeaderAPIKey(r, &rr.Options)
	return nil
}

// validateRequest is the body of POST /validate-options
type validateRequest struct {
	Options map[string]integration.UserOption `json:"options"`
}

func (v *validateRequest) Bind(r *http.Request) error {
	if v.Options == nil {
		v.Options = map[string]integration.UserOption{}
	}
	return nil
}

// applyHeaderAPIKey fills the key from the API_KEY header when the body has none
func applyHeaderAPIKey(r *http.Request, options *lookup_entities.Options) {
	if options.APIKey != "" {
		return
	}
	if apiKey, ok := middleware.APIKeyFromContext(r.Context()); ok {
		options.APIKey = apiKey
	}
}
