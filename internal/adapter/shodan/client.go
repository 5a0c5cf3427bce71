// Package shodan talks to the Shodan REST API and normalizes its responses into
// entity.HostRecord values.
package shodan

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"

	"github.com/EuricoCruz/shodan_enrichment/internal/domain/entity"
)

// DefaultBaseURL is the public Shodan REST endpoint
const DefaultBaseURL = "https://api.shodan.io"

var errResponseTooLarge = errors.New("maximum response size reached")

// Client performs one Shodan request per entity
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        logrus.Ext1FieldLogger
}

// NewClient creates a new Client using dependency injection
func NewClient(httpClient *http.Client, baseURL string, log logrus.Ext1FieldLogger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		log:        log,
	}
}

// Fetch looks up one entity. A nil record with a nil error means Shodan has no data for it (404).
// Every failure is returned as *entity.LookupError.
func (c *Client) Fetch(ctx context.Context, e entity.Entity, apiKey string) (*entity.HostRecord, error) {
	r := c.buildRequest(e, apiKey)
	c.log.WithFields(logrus.Fields{
		"entity":          e.Value,
		"uri":             r.redactedURL(),
		"maxResponseSize": r.maxResponseSize,
	}).Trace("Request Options")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.url, nil)
	if err != nil {
		return nil, &entity.LookupError{Detail: entity.DetailRequestFailed, Err: redactError(err, apiKey)}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		err = redactError(err, apiKey)
		c.log.WithError(err).WithField("entity", e.Value).Error("HTTP Request Failed")
		return nil, &entity.LookupError{Detail: entity.DetailRequestFailed, Err: err}
	}
	defer resp.Body.Close()

	body, err := readLimited(resp, r.maxResponseSize)
	if err != nil {
		c.log.WithError(err).WithField("entity", e.Value).Error("HTTP Request Failed")
		detail := entity.DetailRequestFailed
		if errors.Is(err, errResponseTooLarge) {
			detail = fmt.Sprintf("Shodan response payload is too large (> %s) for %s.  Results cannot be displayed",
				humanize.Bytes(uint64(r.maxResponseSize)), e.Value)
		}
		return nil, &entity.LookupError{Detail: detail, Err: err}
	}

	c.log.WithFields(logrus.Fields{"entity": e.Value, "status": resp.StatusCode, "bytes": len(body)}).Trace("Result of Lookup")

	switch resp.StatusCode {
	case http.StatusOK:
		record, err := c.parse(e, body)
		if err != nil {
			c.log.WithError(err).WithField("entity", e.Value).Error("Failed to parse Shodan response")
			return nil, &entity.LookupError{Detail: entity.DetailUnrecognized, Err: err}
		}
		return record, nil
	case http.StatusNotFound:
		return nil, nil
	case http.StatusUnauthorized:
		return nil, &entity.LookupError{Detail: entity.DetailUnauthorized, Status: resp.StatusCode}
	case http.StatusServiceUnavailable:
		return nil, &entity.LookupError{Detail: entity.DetailSearchLimitReached, Status: resp.StatusCode}
	default:
		return nil, &entity.LookupError{
			Detail: entity.DetailUnexpectedStatus,
			Status: resp.StatusCode,
			Body:   string(body),
		}
	}
}

func (c *Client) parse(e entity.Entity, body []byte) (*entity.HostRecord, error) {
	if e.IsCIDR() {
		search, err := parseSearch(body)
		if err != nil {
			return nil, err
		}
		return assembleNetwork(search), nil
	}
	return parseHost(body)
}

// readLimited reads at most limit bytes of the body and fails when the payload is larger
func readLimited(resp *http.Response, limit int64) ([]byte, error) {
	if resp.ContentLength > limit {
		return nil, errResponseTooLarge
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if int64(len(body)) > limit {
		return nil, errResponseTooLarge
	}
	return body, nil
}

// redactError strips the API key from errors that embed the request URL
func redactError(err error, apiKey string) error {
	var urlErr *url.Error
	if apiKey == "" || !errors.As(err, &urlErr) {
		return err
	}
	return &url.Error{
		Op:  urlErr.Op,
		URL: strings.ReplaceAll(urlErr.URL, url.QueryEscape(apiKey), "REDACTED"),
		Err: urlErr.Err,
	}
}
