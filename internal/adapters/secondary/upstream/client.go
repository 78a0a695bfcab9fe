// Package upstream is the client for the backend analytics API that the
// admin dashboard reads from.
package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/lorrc/ventsite/internal/core/domain"
	"github.com/lorrc/ventsite/internal/core/ports"
)

const (
	endpointTotals      = "stats"
	endpointPageViews   = "pageviews"
	endpointDevices     = "devices"
	endpointBrowsers    = "browsers"
	endpointDevicePages = "device-pages"
	endpointHourly      = "hourly"
	endpointDaily       = "daily"
	endpointOrders      = "orders"
	endpointConversion  = "conversion"
)

var paths = map[string]string{
	endpointTotals:      "/analytics/stats",
	endpointPageViews:   "/analytics/stats/pageviews",
	endpointDevices:     "/analytics/stats/devices",
	endpointBrowsers:    "/analytics/stats/browsers",
	endpointDevicePages: "/analytics/stats/device-pages",
	endpointHourly:      "/analytics/stats/hourly",
	endpointDaily:       "/analytics/stats/daily",
	endpointOrders:      "/analytics/stats/orders",
	endpointConversion:  "/analytics/stats/orders/conversion",
}

// maxResponseBytes bounds how much of a response body is decoded.
const maxResponseBytes = 8 << 20

// Observer is told about every upstream call.
type Observer interface {
	ObserveUpstream(endpoint string, err error)
}

// Config holds client settings.
type Config struct {
	BaseURL           string
	Token             string
	Timeout           time.Duration
	RequestsPerSecond float64
	Burst             int
}

// StatusError is returned when the API answers with a non-2xx status.
type StatusError struct {
	Endpoint   string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("upstream %s: status %d", e.Endpoint, e.StatusCode)
}

// Client is a bearer-token client for the analytics API. It is safe for
// concurrent use; all calls share one rate limiter.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	limiter    *rate.Limiter
	observer   Observer
	logger     *slog.Logger
}

var _ ports.AnalyticsSource = (*Client)(nil)

// NewClient creates a client. observer may be nil.
func NewClient(cfg Config, observer Observer, logger *slog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}
	burst := cfg.Burst
	if burst < 1 {
		burst = 1
	}

	return &Client{
		baseURL:    cfg.BaseURL,
		token:      cfg.Token,
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(limit, burst),
		observer:   observer,
		logger:     logger.With("component", "upstream"),
	}
}

func (c *Client) FetchTotals(ctx context.Context, r domain.TimeRange) (domain.TrafficTotals, error) {
	var body totalsWire
	if err := c.get(ctx, endpointTotals, r, &body); err != nil {
		return domain.TrafficTotals{}, err
	}
	return body.toDomain(), nil
}

func (c *Client) FetchPageViews(ctx context.Context, r domain.TimeRange) ([]domain.PageViewStat, error) {
	var body []pageViewWire
	if err := c.get(ctx, endpointPageViews, r, &body); err != nil {
		return nil, err
	}
	out := make([]domain.PageViewStat, 0, len(body))
	for _, w := range body {
		out = append(out, domain.PageViewStat{Page: w.Page, Count: w.Count.ID.int()})
	}
	return out, nil
}

func (c *Client) FetchDevices(ctx context.Context, r domain.TimeRange) ([]domain.DeviceStat, error) {
	var body []deviceWire
	if err := c.get(ctx, endpointDevices, r, &body); err != nil {
		return nil, err
	}
	out := make([]domain.DeviceStat, 0, len(body))
	for _, w := range body {
		out = append(out, domain.DeviceStat{Device: w.Device, Count: w.Count.ID.int()})
	}
	return out, nil
}

func (c *Client) FetchBrowsers(ctx context.Context, r domain.TimeRange) ([]domain.BrowserStat, error) {
	var body []browserWire
	if err := c.get(ctx, endpointBrowsers, r, &body); err != nil {
		return nil, err
	}
	out := make([]domain.BrowserStat, 0, len(body))
	for _, w := range body {
		out = append(out, domain.BrowserStat{Browser: w.Browser, Count: w.Count.ID.int()})
	}
	return out, nil
}

func (c *Client) FetchDevicePages(ctx context.Context, r domain.TimeRange) ([]domain.DevicePages, error) {
	var body []devicePagesWire
	if err := c.get(ctx, endpointDevicePages, r, &body); err != nil {
		return nil, err
	}
	out := make([]domain.DevicePages, 0, len(body))
	for _, w := range body {
		out = append(out, domain.DevicePages{Device: w.Device, Pages: w.Pages, TotalViews: w.TotalViews.int()})
	}
	return out, nil
}

// FetchHourly resolves each hour string once, here, so nothing downstream
// inspects the raw encoding.
func (c *Client) FetchHourly(ctx context.Context, r domain.TimeRange) ([]domain.HourlyCount, error) {
	var body []hourlyWire
	if err := c.get(ctx, endpointHourly, r, &body); err != nil {
		return nil, err
	}
	out := make([]domain.HourlyCount, 0, len(body))
	for _, w := range body {
		out = append(out, domain.HourlyCount{Stamp: domain.ParseHourStamp(w.Hour), Count: w.Count.int()})
	}
	return out, nil
}

func (c *Client) FetchDaily(ctx context.Context, r domain.TimeRange) ([]domain.DailyVisit, error) {
	var body []dailyWire
	if err := c.get(ctx, endpointDaily, r, &body); err != nil {
		return nil, err
	}
	out := make([]domain.DailyVisit, 0, len(body))
	for _, w := range body {
		out = append(out, domain.DailyVisit{Date: w.Date, Count: w.Count.int()})
	}
	return out, nil
}

func (c *Client) FetchOrderStats(ctx context.Context, r domain.TimeRange) (domain.OrderStats, error) {
	var body orderStatsWire
	if err := c.get(ctx, endpointOrders, r, &body); err != nil {
		return domain.OrderStats{}, err
	}
	return body.toDomain(), nil
}

func (c *Client) FetchConversion(ctx context.Context) (domain.ConversionStats, error) {
	var body conversionWire
	if err := c.get(ctx, endpointConversion, "", &body); err != nil {
		return domain.ConversionStats{}, err
	}
	return body.toDomain(), nil
}

// Ping reports whether the API answers. It uses the conversion endpoint
// because it takes no parameters.
func (c *Client) Ping(ctx context.Context) error {
	var body conversionWire
	return c.get(ctx, endpointConversion, "", &body)
}

// get fetches one endpoint and decodes the "data" member of the envelope
// into dst. An empty range sends no timeRange parameter.
func (c *Client) get(ctx context.Context, endpoint string, r domain.TimeRange, dst any) (err error) {
	start := time.Now()
	defer func() {
		if c.observer != nil {
			c.observer.ObserveUpstream(endpoint, err)
		}
		if err != nil {
			c.logger.WarnContext(ctx, "upstream request failed",
				"endpoint", endpoint,
				"time_range", r,
				"duration_ms", time.Since(start).Milliseconds(),
				"error", err,
			)
		}
	}()

	u, err := url.Parse(c.baseURL + paths[endpoint])
	if err != nil {
		return fmt.Errorf("upstream %s: build url: %w", endpoint, err)
	}
	if r != "" {
		q := u.Query()
		q.Set("timeRange", r.String())
		u.RawQuery = q.Encode()
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("upstream %s: %w", endpoint, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return fmt.Errorf("upstream %s: %w", endpoint, err)
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("upstream %s: %w", endpoint, err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &StatusError{Endpoint: endpoint, StatusCode: resp.StatusCode}
	}

	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&envelope); err != nil {
		return fmt.Errorf("upstream %s: decode envelope: %w", endpoint, err)
	}
	if len(envelope.Data) == 0 {
		return fmt.Errorf("upstream %s: %w", endpoint, errMissingData)
	}
	if err := json.Unmarshal(envelope.Data, dst); err != nil {
		return fmt.Errorf("upstream %s: decode data: %w", endpoint, err)
	}
	return nil
}

var errMissingData = errors.New("response has no data")
