package shodan

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EuricoCruz/shodan_enrichment/internal/domain/entity"
)

const hostBody = `{
  "ip_str": "8.8.8.8",
  "ports": [443, 53],
  "tags": ["cloud"],
  "hostnames": ["dns.google"],
  "org": "Google LLC",
  "city": "Mountain View"
}`

const searchBody = `{
  "total": 2,
  "matches": [
    {"ip_str": "8.8.8.8", "port": 53, "hostnames": ["dns.google"], "domains": ["dns.google"],
     "location": {"city": "Mountain View", "country_code": "US"}, "data": "\nRecursion: enabled"},
    {"ip_str": "8.8.8.8", "port": 443, "hostnames": ["dns.google"], "tags": ["cdn"],
     "location": {"city": "Elsewhere", "country_code": "US"}, "data": "HTTP/1.1 200 OK"},
    {"ip_str": "8.8.4.4", "port": 53, "hostnames": ["dns.google"],
     "location": {"city": "Elsewhere", "country_code": "US"}, "data": "\nRecursion: enabled"}
  ],
  "facets": {
    "vuln": [{"count": 2, "value": "CVE-2023-0001"}, {"count": 1, "value": "CVE-2023-0002"}],
    "port": [{"count": 2, "value": 53}, {"count": 1, "value": 443}]
  }
}`

func newTestLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.Client(), srv.URL, newTestLogger())
}

func ipv4(value string) entity.Entity {
	return entity.Entity{Value: value, Type: entity.EntityTypeIPv4}
}

func cidr(value string) entity.Entity {
	return entity.Entity{Value: value, Type: entity.EntityTypeIPv4CIDR}
}

func TestFetch_HostLookup_ParsesRecord(t *testing.T) {
	// Arrange
	var gotPath, gotKey string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.URL.Query().Get("key")
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, hostBody)
	})

	// Act
	record, err := client.Fetch(context.Background(), ipv4("8.8.8.8"), "abc123")

	// Assert
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, "/shodan/host/8.8.8.8", gotPath)
	assert.Equal(t, "abc123", gotKey)
	assert.Equal(t, entity.VariantHost, record.Variant)
	assert.Equal(t, []int{443, 53}, record.Ports)
	assert.Equal(t, []string{"cloud"}, record.Tags)
	assert.Equal(t, "Google LLC", record.Details["org"])
	assert.Nil(t, record.TotalVuln)
}

func TestFetch_HostLookup_FallsBackToSinglePort(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"ip_str": "1.1.1.1", "port": 80}`)
	})

	record, err := client.Fetch(context.Background(), ipv4("1.1.1.1"), "abc123")

	require.NoError(t, err)
	assert.Equal(t, []int{80}, record.Ports)
}

func TestFetch_CIDRSearch_BuildsSearchRequestAndAssembles(t *testing.T) {
	// Arrange
	var query, facets, path string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		query = r.URL.Query().Get("query")
		facets = r.URL.Query().Get("facets")
		io.WriteString(w, searchBody)
	})

	// Act
	record, err := client.Fetch(context.Background(), cidr("8.8.8.0/24"), "abc123")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "/shodan/host/search", path)
	assert.Equal(t, "net:8.8.8.0/24", query)
	assert.Equal(t, "vuln:50,port:50,ip:50,org:50,product:50", facets)
	assert.Equal(t, entity.VariantNetwork, record.Variant)
	assert.Equal(t, []int{53, 443}, record.Ports)
	require.NotNil(t, record.TotalVuln)
	assert.Equal(t, 2, *record.TotalVuln)
}

func TestFetch_CIDRSearch_ZeroTotalIsEmptyNetwork(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"total": 0, "matches": []}`)
	})

	record, err := client.Fetch(context.Background(), cidr("203.0.113.0/24"), "abc123")

	require.NoError(t, err)
	assert.Equal(t, entity.VariantEmptyNetwork, record.Variant)
}

func TestFetch_NotFound_ReturnsNilRecord(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		io.WriteString(w, `{"error": "No information available for that IP."}`)
	})

	record, err := client.Fetch(context.Background(), ipv4("8.8.8.8"), "abc123")

	assert.NoError(t, err)
	assert.Nil(t, record)
}

func TestFetch_StatusMapping(t *testing.T) {
	cases := []struct {
		status int
		detail string
	}{
		{http.StatusUnauthorized, "Unauthorized: The provided API key is invalid."},
		{http.StatusServiceUnavailable, "Search Limit Reached"},
		{http.StatusInternalServerError, "Unexpected HTTP Status Received"},
		{http.StatusTeapot, "Unexpected HTTP Status Received"},
	}

	for _, c := range cases {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(c.status)
			io.WriteString(w, `{"error": "boom"}`)
		})

		record, err := client.Fetch(context.Background(), ipv4("8.8.8.8"), "abc123")

		assert.Nil(t, record)
		var lookupErr *entity.LookupError
		require.True(t, errors.As(err, &lookupErr), "status %d", c.status)
		assert.Equal(t, c.detail, lookupErr.Detail)
		assert.Equal(t, c.status, lookupErr.Status)
	}
}

func TestFetch_UnexpectedStatus_AttachesBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		io.WriteString(w, "upstream exploded")
	})

	_, err := client.Fetch(context.Background(), ipv4("8.8.8.8"), "abc123")

	var lookupErr *entity.LookupError
	require.True(t, errors.As(err, &lookupErr))
	assert.Equal(t, "upstream exploded", lookupErr.Body)
}

func TestFetch_OversizedResponse_NamesEntity(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"ip_str": "8.8.8.8", "junk": "`)
		io.WriteString(w, strings.Repeat("a", int(maxHostResponseSize)))
		io.WriteString(w, `"}`)
	})

	record, err := client.Fetch(context.Background(), ipv4("8.8.8.8"), "abc123")

	assert.Nil(t, record)
	var lookupErr *entity.LookupError
	require.True(t, errors.As(err, &lookupErr))
	assert.Contains(t, lookupErr.Detail, "too large")
	assert.Contains(t, lookupErr.Detail, "8.8.8.8")
	assert.ErrorIs(t, err, errResponseTooLarge)
}

func TestFetch_UnrecognizedShape_FailsLoudly(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"something": "else"}`)
	})

	_, err := client.Fetch(context.Background(), ipv4("8.8.8.8"), "abc123")

	var lookupErr *entity.LookupError
	require.True(t, errors.As(err, &lookupErr))
	assert.Equal(t, entity.DetailUnrecognized, lookupErr.Detail)
	assert.ErrorIs(t, err, ErrUnrecognizedResponse)
}

func TestFetch_TransportFailure_RedactsAPIKey(t *testing.T) {
	// Arrange
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	baseURL := srv.URL
	srv.Close()
	client := NewClient(http.DefaultClient, baseURL, newTestLogger())

	// Act
	record, err := client.Fetch(context.Background(), ipv4("8.8.8.8"), "secret-key")

	// Assert
	assert.Nil(t, record)
	var lookupErr *entity.LookupError
	require.True(t, errors.As(err, &lookupErr))
	assert.Equal(t, entity.DetailRequestFailed, lookupErr.Detail)
	assert.NotContains(t, err.Error(), "secret-key")
}

func TestRedactedURL_HidesKey(t *testing.T) {
	client := NewClient(nil, "https://api.shodan.io", newTestLogger())

	r := client.buildRequest(ipv4("8.8.8.8"), "secret-key")

	assert.Contains(t, r.url, "key=secret-key")
	assert.NotContains(t, r.redactedURL(), "secret-key")
	assert.Equal(t, maxHostResponseSize, r.maxResponseSize)
	assert.Equal(t, maxSearchResponseSize, client.buildRequest(cidr("8.8.8.0/24"), "k").maxResponseSize)
}
