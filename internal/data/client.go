package data

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"caiso-reports/internal/metrics"
	"caiso-reports/internal/model"
	"caiso-reports/internal/oasis"
	"caiso-reports/internal/tz"
)

// DefaultRenewablesBaseURL hosts the Daily Renewables Watch text reports.
const DefaultRenewablesBaseURL = "http://content.caiso.com/green/renewrpt"

const userAgent = "caiso-reports/1.0"

// Client fetches CAISO reports over HTTP.
type Client struct {
	RenewablesBaseURL string
	OASISBaseURL      string
	Client            *http.Client
}

// NewClient creates a CAISO report client.
// Empty base URLs select the public endpoints. A zero timeout waits
// indefinitely.
func NewClient(renewablesBaseURL, oasisBaseURL string, timeout time.Duration) *Client {
	if renewablesBaseURL == "" {
		renewablesBaseURL = DefaultRenewablesBaseURL
	}
	if oasisBaseURL == "" {
		oasisBaseURL = oasis.DefaultBaseURL
	}
	return &Client{
		RenewablesBaseURL: renewablesBaseURL,
		OASISBaseURL:      oasisBaseURL,
		Client: &http.Client{
			Timeout: timeout,
		},
	}
}

// CAISOError represents a non-2xx response from a CAISO endpoint.
type CAISOError struct {
	StatusCode int
	Code       string
	Message    string
	URL        string
}

func (e *CAISOError) Error() string {
	return e.Message
}

// OASISParams selects one OASIS SingleZip request.
type OASISParams struct {
	Query  oasis.Query
	Node   string
	Window tz.Window
}

// RenewablesURL returns the report URL for a calendar day,
// e.g. .../renewrpt/20190205_DailyRenewablesWatch.txt.
func (c *Client) RenewablesURL(day time.Time) string {
	return fmt.Sprintf("%s/%s_DailyRenewablesWatch.txt", strings.TrimRight(c.RenewablesBaseURL, "/"), day.Format("20060102"))
}

// FetchDailyRenewables downloads the Daily Renewables Watch text for day.
func (c *Client) FetchDailyRenewables(ctx context.Context, day time.Time) (*model.RawPeriodReport, error) {
	u := c.RenewablesURL(day)
	body, err := c.get(ctx, "renewables", u, "text/plain")
	if err != nil {
		return nil, err
	}
	return &model.RawPeriodReport{Period: day, URL: u, Body: body}, nil
}

// FetchOASIS downloads one zipped SingleZip response.
func (c *Client) FetchOASIS(ctx context.Context, p OASISParams) (*model.RawPeriodReport, error) {
	if p.Query.Name == "" {
		return nil, fmt.Errorf("queryname is required")
	}
	if !p.Query.Ancillary() && p.Node == "" {
		return nil, fmt.Errorf("node is required for %s", p.Query.Name)
	}
	if !p.Window.Start.Before(p.Window.End) {
		return nil, fmt.Errorf("startdatetime must be before enddatetime")
	}
	u := oasis.SingleZipURL(c.OASISBaseURL, p.Query, p.Node, p.Window)
	body, err := c.get(ctx, "oasis", u, "application/zip")
	if err != nil {
		return nil, err
	}
	return &model.RawPeriodReport{Period: p.Window.Start, URL: u, Body: body}, nil
}

func (c *Client) get(ctx context.Context, source, u, accept string) ([]byte, error) {
	log.Printf("[CAISO] Request: GET %s", u)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", accept)

	startTime := time.Now()
	resp, err := c.Client.Do(req)
	duration := time.Since(startTime)
	if err != nil {
		log.Printf("[CAISO] Request failed: %v (duration: %v)", err, duration)
		metrics.ObserveFetch(source, metrics.ResultError, duration)
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	log.Printf("[CAISO] Response: %s (duration: %v, source=%s)", resp.Status, duration, source)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		metrics.ObserveFetch(source, metrics.ResultError, duration)
		code := "HTTP_ERROR"
		switch resp.StatusCode {
		case http.StatusNotFound:
			code = "REPORT_NOT_FOUND"
		case http.StatusTooManyRequests:
			code = "RATE_LIMIT_EXCEEDED"
		}
		return nil, &CAISOError{
			StatusCode: resp.StatusCode,
			Code:       code,
			Message:    fmt.Sprintf("CAISO returned status %d: %s", resp.StatusCode, resp.Status),
			URL:        u,
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.ObserveFetch(source, metrics.ResultError, time.Since(startTime))
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	metrics.ObserveFetch(source, metrics.ResultSuccess, time.Since(startTime))
	log.Printf("[CAISO] Success: Received %d bytes (source=%s)", len(body), source)
	return body, nil
}
