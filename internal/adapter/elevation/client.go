// Package elevation looks up terrain elevation through an
// Open-Elevation-compatible endpoint.
package elevation

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"time"

	"github.com/couchcryptid/georisk-console/internal/observability"
)

// Client implements domain.ElevationProvider against an
// Open-Elevation-compatible lookup endpoint.
type Client struct {
	httpClient *http.Client
	baseURL    string
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates an elevation lookup client for the given endpoint.
func NewClient(baseURL string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: baseURL,
		metrics: metrics,
		logger:  logger,
	}
}

// ElevationAt returns the elevation in whole meters at the given coordinates.
func (c *Client) ElevationAt(ctx context.Context, lat, lng float64) (int, error) {
	params := url.Values{
		"locations": {fmt.Sprintf("%.6f,%.6f", lat, lng)},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	c.metrics.ProviderDuration.WithLabelValues("elevation").Observe(time.Since(start).Seconds())
	if err != nil {
		return 0, fmt.Errorf("elevation request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return 0, fmt.Errorf("elevation API error: status %d: %s", resp.StatusCode, body)
	}

	var elevResp response
	if err := json.NewDecoder(resp.Body).Decode(&elevResp); err != nil {
		return 0, fmt.Errorf("decode response: %w", err)
	}

	if len(elevResp.Results) == 0 {
		return 0, fmt.Errorf("elevation API returned no results for %.6f,%.6f", lat, lng)
	}
	return int(math.Round(elevResp.Results[0].Elevation)), nil
}

type response struct {
	Results []result `json:"results"`
}

type result struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Elevation float64 `json:"elevation"`
}
