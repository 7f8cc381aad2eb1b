// Package riskapi is the typed client for the remote scoring backend. All
// communication is JSON over HTTP against an injected base URL; backend
// errors arrive as a non-2xx status with a {"detail": "..."} body.
package riskapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"time"

	"github.com/couchcryptid/georisk-console/internal/domain"
	"github.com/couchcryptid/georisk-console/internal/observability"
)

// APIError is a transport-level failure: a network error has err wrapped
// elsewhere, while a non-2xx backend response carries the decoded detail.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("risk API: status %d: %s", e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("risk API: status %d", e.StatusCode)
}

// Client talks to the scoring backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a scoring-backend client for the given base URL.
func NewClient(baseURL string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		metrics: metrics,
		logger:  logger,
	}
}

// Health probes the backend liveness endpoint.
func (c *Client) Health(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodGet, "/api/health", nil, nil)
}

// SubmitHFactor posts raw hazard-driver observations and returns the
// generated identifiers.
func (c *Client) SubmitHFactor(ctx context.Context, sub HFactorSubmission) (HFactorReceipt, error) {
	var receipt HFactorReceipt
	err := c.doJSON(ctx, http.MethodPost, "/api/h-factor", sub, &receipt)
	return receipt, err
}

// SubmitVFactor posts vulnerability observations.
func (c *Client) SubmitVFactor(ctx context.Context, sub VFactorSubmission) (VFactorReceipt, error) {
	var receipt VFactorReceipt
	err := c.doJSON(ctx, http.MethodPost, "/api/v-factor", sub, &receipt)
	return receipt, err
}

// SubmitLoreStory posts one historical-evidence story.
func (c *Client) SubmitLoreStory(ctx context.Context, sub LoreStorySubmission) (LoreStoryReceipt, error) {
	var receipt LoreStoryReceipt
	err := c.doJSON(ctx, http.MethodPost, "/api/l-factor-story", sub, &receipt)
	return receipt, err
}

// ListLoreStories returns all stored stories.
func (c *Client) ListLoreStories(ctx context.Context) ([]LoreStory, error) {
	var list loreStoryList
	if err := c.doJSON(ctx, http.MethodGet, "/api/l-factor-stories", nil, &list); err != nil {
		return nil, err
	}
	return list.Events, nil
}

// UpdateLoreStory replaces a stored story.
func (c *Client) UpdateLoreStory(ctx context.Context, id string, sub LoreStorySubmission) error {
	return c.doJSON(ctx, http.MethodPut, "/api/l-factor-stories/"+url.PathEscape(id), sub, nil)
}

// DeleteLoreStory removes a stored story.
func (c *Client) DeleteLoreStory(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/api/l-factor-stories/"+url.PathEscape(id), nil, nil)
}

// CalculateRisk submits factor inputs for scoring and returns the
// normalized, validated result. Inputs are clamped defensively before
// submission; the client does not trust callers to respect store bounds.
// No retry, no deduplication: concurrent calls are the caller's concern.
func (c *Client) CalculateRisk(ctx context.Context, in domain.RiskFactorInputs) (domain.RiskCalculationResult, error) {
	in = in.Clamped()

	req := calculateRequest{
		SlopeDeg:          in.SlopeDeg,
		Curvature:         in.Curvature,
		LithClass:         in.LithClass,
		RainExceed:        in.RainExceed,
		LoreSignal:        in.LoreSignal,
		Exposure:          in.Exposure,
		Fragility:         in.Fragility,
		CriticalityWeight: in.CriticalityWeight,
		HazardType:        in.HazardType,
		DateObserved:      in.DateObserved,
	}
	if in.Location != nil {
		req.LocationLat = &in.Location.Lat
		req.LocationLng = &in.Location.Lng
	}

	start := time.Now()
	var resp calculateResponse
	err := c.doJSON(ctx, http.MethodPost, "/api/calculate-risk", req, &resp)
	c.metrics.ProviderDuration.WithLabelValues("risk_api").Observe(time.Since(start).Seconds())
	if err != nil {
		return domain.RiskCalculationResult{}, err
	}

	if resp.Data == nil {
		return domain.RiskCalculationResult{}, fmt.Errorf("calculate risk: response carries no result data")
	}
	if err := resp.Data.Validate(); err != nil {
		return domain.RiskCalculationResult{}, fmt.Errorf("calculate risk: malformed result: %w", err)
	}
	return *resp.Data, nil
}

// Upload streams a terrain raster to the backend as multipart form data.
func (c *Client) Upload(ctx context.Context, itemID, filename string, content io.Reader) (UploadReceipt, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return UploadReceipt{}, fmt.Errorf("create multipart: %w", err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return UploadReceipt{}, fmt.Errorf("copy upload content: %w", err)
	}
	if err := mw.Close(); err != nil {
		return UploadReceipt{}, fmt.Errorf("finalize multipart: %w", err)
	}

	path := "/api/upload"
	if itemID != "" {
		path += "?item_id=" + url.QueryEscape(itemID)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &body)
	if err != nil {
		return UploadReceipt{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return UploadReceipt{}, fmt.Errorf("upload request: %w", err)
	}
	defer resp.Body.Close()

	var receipt UploadReceipt
	if err := decodeResponse(resp, &receipt); err != nil {
		return UploadReceipt{}, err
	}
	return receipt, nil
}

// ProcessDEM triggers terrain extraction for an uploaded raster.
func (c *Client) ProcessDEM(ctx context.Context, itemID string, req ProcessDEMRequest) (ProcessDEMReceipt, error) {
	var receipt ProcessDEMReceipt
	err := c.doJSON(ctx, http.MethodPost, "/api/process-dem/"+url.PathEscape(itemID), req, &receipt)
	return receipt, err
}

// doJSON performs one request with an optional JSON body and decodes the
// response into out when out is non-nil.
func (c *Client) doJSON(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	return decodeResponse(resp, out)
}

// decodeResponse turns a non-2xx status into an APIError carrying the
// backend's detail message, and otherwise decodes the body into out.
func decodeResponse(resp *http.Response, out any) error {
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode}

		var detail struct {
			Detail string `json:"detail"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&detail); err == nil {
			apiErr.Detail = detail.Detail
		}
		return apiErr
	}

	if out == nil {
		io.Copy(io.Discard, resp.Body) //nolint:errcheck // drain for keep-alive
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
