package riskapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/couchcryptid/georisk-console/internal/domain"
	"github.com/couchcryptid/georisk-console/internal/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 5 * time.Second},
		metrics:    observability.NewMetricsForTesting(),
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func validBackendResult() domain.RiskCalculationResult {
	return domain.RiskCalculationResult{
		HScore:       0.72,
		LScore:       0.31,
		VScore:       0.55,
		RScore:       0.47,
		RStd:         0.04,
		RP05:         0.40,
		RP95:         0.55,
		HSensitivity: 0.50,
		LSensitivity: 0.20,
		VSensitivity: 0.30,
		RiskLevel:    "medium",
		GatePassed:   true,
	}
}

func TestClient_Health(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/health", r.URL.Path)
		_, _ = w.Write([]byte(`{"status":"healthy"}`))
	}))
	defer srv.Close()

	require.NoError(t, testClient(srv.URL).Health(context.Background()))
}

func TestClient_CalculateRisk_Success(t *testing.T) {
	result := validBackendResult()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/calculate-risk", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req calculateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, 35.0, req.SlopeDeg)
		assert.Equal(t, 3, req.LithClass)
		require.NotNil(t, req.LocationLat)
		assert.Equal(t, 60.39, *req.LocationLat)

		require.NoError(t, json.NewEncoder(w).Encode(calculateResponse{
			Success: true,
			Message: "ok",
			Data:    &result,
		}))
	}))
	defer srv.Close()

	got, err := testClient(srv.URL).CalculateRisk(context.Background(), domain.RiskFactorInputs{
		SlopeDeg:          35,
		Curvature:         0.4,
		LithClass:         3,
		RainExceed:        0.6,
		LoreSignal:        0.2,
		Exposure:          0.5,
		Fragility:         0.4,
		CriticalityWeight: 0.7,
		HazardType:        "landslide",
		Location:          &domain.LatLng{Lat: 60.39, Lng: 5.32},
	})
	require.NoError(t, err)
	assert.Equal(t, result, got)
}

func TestClient_CalculateRisk_ClampsInputs(t *testing.T) {
	result := validBackendResult()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req calculateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, 90.0, req.SlopeDeg, "slope must be clamped before submission")
		assert.Equal(t, 1.0, req.Exposure)
		require.NoError(t, json.NewEncoder(w).Encode(calculateResponse{Success: true, Data: &result}))
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).CalculateRisk(context.Background(), domain.RiskFactorInputs{
		SlopeDeg:  200,
		LithClass: 3,
		Exposure:  4,
	})
	require.NoError(t, err)
}

func TestClient_CalculateRisk_BackendDetailError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"detail":"lith_class must be between 1 and 5"}`))
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).CalculateRisk(context.Background(), domain.RiskFactorInputs{LithClass: 3})
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnprocessableEntity, apiErr.StatusCode)
	assert.Equal(t, "lith_class must be between 1 and 5", apiErr.Detail)
}

func TestClient_CalculateRisk_ErrorWithoutDetail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("not json"))
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).CalculateRisk(context.Background(), domain.RiskFactorInputs{LithClass: 3})
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
	assert.Empty(t, apiErr.Detail)
	assert.Contains(t, apiErr.Error(), "500")
}

func TestClient_CalculateRisk_MissingData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		require.NoError(t, json.NewEncoder(w).Encode(calculateResponse{Success: true, Message: "ok"}))
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).CalculateRisk(context.Background(), domain.RiskFactorInputs{LithClass: 3})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no result data")
}

func TestClient_CalculateRisk_RejectsMalformedResult(t *testing.T) {
	bad := validBackendResult()
	bad.RScore = 3.5
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		require.NoError(t, json.NewEncoder(w).Encode(calculateResponse{Success: true, Data: &bad}))
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).CalculateRisk(context.Background(), domain.RiskFactorInputs{LithClass: 3})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "malformed result")
}

func TestClient_SubmitHFactor(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/h-factor", r.URL.Path)

		var sub HFactorSubmission
		require.NoError(t, json.NewDecoder(r.Body).Decode(&sub))
		assert.Equal(t, "Stegastein", sub.LocationName)

		require.NoError(t, json.NewEncoder(w).Encode(HFactorReceipt{
			Success:    true,
			LocationID: 7,
			EventID:    12,
		}))
	}))
	defer srv.Close()

	slope := 41.0
	receipt, err := testClient(srv.URL).SubmitHFactor(context.Background(), HFactorSubmission{
		LocationName: "Stegastein",
		Latitude:     60.90,
		Longitude:    7.20,
		HazardType:   "rockfall",
		DateObserved: "2026-08-30",
		SlopeAngle:   &slope,
	})
	require.NoError(t, err)
	assert.True(t, receipt.Success)
	assert.Equal(t, 7, receipt.LocationID)
	assert.Equal(t, 12, receipt.EventID)
}

func TestClient_LoreStories_CRUD(t *testing.T) {
	var gotMethod, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath = r.Method, r.URL.Path
		switch {
		case r.Method == http.MethodGet:
			require.NoError(t, json.NewEncoder(w).Encode(loreStoryList{
				Count: 1,
				Events: []LoreStory{
					{ID: "lore-1", EventType: "flood", Recency: 30, Location: "Flåm"},
				},
			}))
		case r.Method == http.MethodPost:
			require.NoError(t, json.NewEncoder(w).Encode(LoreStoryReceipt{Success: true, LoreID: 4}))
		default:
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"success":true}`))
		}
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	ctx := context.Background()

	stories, err := c.ListLoreStories(ctx)
	require.NoError(t, err)
	require.Len(t, stories, 1)
	assert.Equal(t, "lore-1", stories[0].ID)
	assert.Equal(t, "/api/l-factor-stories", gotPath)

	receipt, err := c.SubmitLoreStory(ctx, LoreStorySubmission{
		LocationName:    "Flåm",
		Title:           "The 1996 flood",
		Story:           "The river took the old bridge.",
		LocationPlace:   "Flåm valley",
		Credibility:     "eyewitness",
		SpatialAccuracy: "approximate",
	})
	require.NoError(t, err)
	assert.Equal(t, 4, receipt.LoreID)
	assert.Equal(t, "/api/l-factor-story", gotPath)

	require.NoError(t, c.UpdateLoreStory(ctx, "lore-1", LoreStorySubmission{Title: "Updated"}))
	assert.Equal(t, http.MethodPut, gotMethod)
	assert.Equal(t, "/api/l-factor-stories/lore-1", gotPath)

	require.NoError(t, c.DeleteLoreStory(ctx, "lore-1"))
	assert.Equal(t, http.MethodDelete, gotMethod)
	assert.Equal(t, "/api/l-factor-stories/lore-1", gotPath)
}

func TestClient_DeleteLoreStory_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"detail":"event not found"}`))
	}))
	defer srv.Close()

	err := testClient(srv.URL).DeleteLoreStory(context.Background(), "missing")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, "event not found", apiErr.Detail)
}

func TestClient_Upload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/upload", r.URL.Path)
		assert.Equal(t, "dem-42", r.URL.Query().Get("item_id"))

		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "terrain.tif", header.Filename)

		content, err := io.ReadAll(file)
		require.NoError(t, err)
		assert.Equal(t, "raster-bytes", string(content))

		require.NoError(t, json.NewEncoder(w).Encode(UploadReceipt{
			Message:  "stored",
			Filename: "terrain.tif",
			FileSize: int64(len(content)),
			Checksum: "abc123",
			ItemID:   "dem-42",
		}))
	}))
	defer srv.Close()

	receipt, err := testClient(srv.URL).Upload(context.Background(), "dem-42", "terrain.tif", strings.NewReader("raster-bytes"))
	require.NoError(t, err)
	assert.Equal(t, "terrain.tif", receipt.Filename)
	assert.Equal(t, "dem-42", receipt.ItemID)
}

func TestClient_ProcessDEM(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/process-dem/dem-42", r.URL.Path)

		var req ProcessDEMRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, 60.39, req.CenterLat)

		require.NoError(t, json.NewEncoder(w).Encode(ProcessDEMReceipt{
			Success:       true,
			CellsInserted: 900,
		}))
	}))
	defer srv.Close()

	receipt, err := testClient(srv.URL).ProcessDEM(context.Background(), "dem-42", ProcessDEMRequest{
		CenterLat: 60.39,
		CenterLon: 5.32,
		ExtentKM:  2,
		Rows:      30,
		Cols:      30,
	})
	require.NoError(t, err)
	assert.True(t, receipt.Success)
	assert.Equal(t, 900, receipt.CellsInserted)
}

func TestClient_NetworkErrorIsNotAPIError(t *testing.T) {
	c := testClient("http://127.0.0.1:1")

	err := c.Health(context.Background())
	require.Error(t, err)

	var apiErr *APIError
	assert.False(t, errors.As(err, &apiErr), "a transport failure carries no backend status")
}
