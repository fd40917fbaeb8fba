package dwd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/couchcryptid/dwd-weather-api/internal/domain"
)

// maxBodyBytes caps a single upstream document. MOSMIX_L KMZ files are a few
// hundred kilobytes; the station catalog is under one megabyte.
const maxBodyBytes = 32 << 20

// stationIDWidth is the width of POI report station identifiers.
const stationIDWidth = 5

// Retry policy for transient upstream failures: transport errors and 5xx.
const (
	defaultRetries = 2
	initialBackoff = 200 * time.Millisecond
	maxBackoff     = 2 * time.Second
)

// Client fetches raw documents from the DWD open-data server.
// It implements pipeline.Fetcher.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	stationsURL string
	retries     int
	logger      *slog.Logger
}

// NewClient creates a DWD open-data client. baseURL is the open-data root;
// stationsURL locates the MOSMIX station catalog.
func NewClient(baseURL, stationsURL string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL:     strings.TrimRight(baseURL, "/"),
		stationsURL: stationsURL,
		retries:     defaultRetries,
		logger:      logger,
	}
}

// FetchStationCatalog returns the station catalog text.
func (c *Client) FetchStationCatalog(ctx context.Context) (string, error) {
	body, err := c.get(ctx, c.stationsURL)
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrNoStationListing, err)
	}
	return string(body), nil
}

// FetchForecast returns the latest MOSMIX_L KMZ archive for a station.
func (c *Client) FetchForecast(ctx context.Context, station string) ([]byte, error) {
	id := url.PathEscape(station)
	u := fmt.Sprintf("%s/weather/local_forecasts/mos/MOSMIX_L/single_stations/%s/kml/MOSMIX_L_LATEST_%s.kmz", c.baseURL, id, id)
	body, err := c.get(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrNoForecast, err)
	}
	return body, nil
}

// FetchReport returns the POI observation CSV for a station.
func (c *Client) FetchReport(ctx context.Context, station string) ([]byte, error) {
	u := fmt.Sprintf("%s/weather/weather_reports/poi/%s-BEOB.csv", c.baseURL, url.PathEscape(PadStationID(station)))
	body, err := c.get(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrNoReport, err)
	}
	return body, nil
}

// PadStationID right-pads identifiers shorter than five characters with
// underscores, the naming used for POI report files.
func PadStationID(station string) string {
	if n := len([]rune(station)); n < stationIDWidth {
		return station + strings.Repeat("_", stationIDWidth-n)
	}
	return station
}

// get fetches fullURL, retrying transient failures with exponential backoff.
func (c *Client) get(ctx context.Context, fullURL string) ([]byte, error) {
	backoff := initialBackoff
	for attempt := 0; ; attempt++ {
		body, retryable, err := c.getOnce(ctx, fullURL)
		if err == nil || !retryable || attempt >= c.retries || ctx.Err() != nil {
			return body, err
		}
		c.logger.Debug("retrying dwd request", "url", fullURL, "attempt", attempt+1, "backoff", backoff, "error", err)
		if !sleepWithContext(ctx, backoff) {
			return nil, fmt.Errorf("%w (retry aborted: %w)", err, ctx.Err())
		}
		backoff = nextBackoff(backoff, maxBackoff)
	}
}

func (c *Client) getOnce(ctx context.Context, fullURL string) ([]byte, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, false, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("dwd request failed", "url", fullURL, "error", err)
		return nil, true, fmt.Errorf("request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))
		c.logger.Warn("dwd request rejected", "url", fullURL, "status", resp.StatusCode)
		return nil, resp.StatusCode >= 500, fmt.Errorf("dwd open-data: status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes+1))
	if err != nil {
		return nil, true, fmt.Errorf("read body: %w", err)
	}
	if len(body) > maxBodyBytes {
		return nil, false, fmt.Errorf("body exceeds %d bytes", maxBodyBytes)
	}
	return body, false, nil
}

func nextBackoff(current, limit time.Duration) time.Duration {
	next := current * 2
	if next > limit {
		return limit
	}
	return next
}

func sleepWithContext(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
