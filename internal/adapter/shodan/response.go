package shodan

import (
	"errors"
	"fmt"

	jsoniter "github.com/json-iterator/go"

	"github.com/EuricoCruz/shodan_enrichment/internal/domain/entity"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ErrUnrecognizedResponse is returned when a 200 body matches none of the known response shapes
var ErrUnrecognizedResponse = errors.New("unrecognized shodan response")

// hostResponse holds the fields of /shodan/host/{ip} used for summaries
type hostResponse struct {
	IPStr string   `json:"ip_str"`
	Ports []int    `json:"ports"`
	Port  *int     `json:"port"`
	Tags  []string `json:"tags"`
}

// searchResponse is the /shodan/host/search body
type searchResponse struct {
	Total   *int                     `json:"total"`
	Matches []map[string]any         `json:"matches"`
	Facets  map[string][]facetBucket `json:"facets"`
}

// facetBucket is one aggregate entry, e.g. {"count": 12, "value": 443}
type facetBucket struct {
	Count int `json:"count"`
	Value any `json:"value"`
}

func parseHost(body []byte) (*entity.HostRecord, error) {
	var details map[string]any
	if err := json.Unmarshal(body, &details); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnrecognizedResponse, err)
	}
	if ipStr, ok := details["ip_str"].(string); !ok || ipStr == "" {
		return nil, fmt.Errorf("%w: host response without ip_str", ErrUnrecognizedResponse)
	}

	var host hostResponse
	if err := json.Unmarshal(body, &host); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnrecognizedResponse, err)
	}

	ports := host.Ports
	if len(ports) == 0 && host.Port != nil {
		ports = []int{*host.Port}
	}

	return &entity.HostRecord{
		Variant: entity.VariantHost,
		Ports:   ports,
		Tags:    host.Tags,
		Details: details,
	}, nil
}

func parseSearch(body []byte) (*searchResponse, error) {
	var search searchResponse
	if err := json.Unmarshal(body, &search); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnrecognizedResponse, err)
	}
	if search.Total == nil {
		return nil, fmt.Errorf("%w: search response without total", ErrUnrecognizedResponse)
	}
	if *search.Total > 0 && search.Matches == nil && search.Facets == nil {
		return nil, fmt.Errorf("%w: search response without matches or facets", ErrUnrecognizedResponse)
	}
	return &search, nil
}

// toPort converts a decoded JSON number to a port
func toPort(v any) (int, bool) {
	switch n := v.(type) {
	case float64:
		if n < 0 || n > 65535 || n != float64(int(n)) {
			return 0, false
		}
		return int(n), true
	case int:
		return n, n >= 0 && n <= 65535
	}
	return 0, false
}
