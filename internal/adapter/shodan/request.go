package shodan

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/EuricoCruz/shodan_enrichment/internal/domain/entity"
)

const (
	// maxHostResponseSize bounds single-address lookups
	maxHostResponseSize int64 = 2_000_000
	// maxSearchResponseSize bounds CIDR searches, which carry every match record
	maxSearchResponseSize int64 = 10_000_000
	// maxFacetResults caps every facet returned by a CIDR search
	maxFacetResults = 50
)

// networkFacets are requested for every CIDR search
var networkFacets = []string{"vuln", "port", "ip", "org", "product"}

type request struct {
	url             string
	maxResponseSize int64
}

func (c *Client) buildRequest(e entity.Entity, apiKey string) request {
	if e.IsCIDR() {
		params := url.Values{}
		params.Set("key", apiKey)
		params.Set("query", "net:"+e.Value)
		params.Set("facets", facetsParam())
		return request{
			url:             c.baseURL + "/shodan/host/search?" + params.Encode(),
			maxResponseSize: maxSearchResponseSize,
		}
	}

	params := url.Values{}
	params.Set("key", apiKey)
	return request{
		url:             c.baseURL + "/shodan/host/" + url.PathEscape(e.Value) + "?" + params.Encode(),
		maxResponseSize: maxHostResponseSize,
	}
}

func facetsParam() string {
	parts := make([]string, len(networkFacets))
	for i, f := range networkFacets {
		parts[i] = fmt.Sprintf("%s:%d", f, maxFacetResults)
	}
	return strings.Join(parts, ",")
}

// redactedURL is safe to log
func (r request) redactedURL() string {
	u, err := url.Parse(r.url)
	if err != nil {
		return ""
	}
	q := u.Query()
	if q.Has("key") {
		q.Set("key", "REDACTED")
	}
	u.RawQuery = q.Encode()
	return u.String()
}
