package riskapi

import "github.com/couchcryptid/georisk-console/internal/domain"

// HFactorSubmission carries raw hazard-driver observations: the assessed
// location plus terrain and rainfall-trigger fields.
type HFactorSubmission struct {
	LocationName        string  `json:"location_name"`
	Latitude            float64 `json:"latitude"`
	Longitude           float64 `json:"longitude"`
	LocationDescription string  `json:"location_description,omitempty"`
	Region              string  `json:"region,omitempty"`

	HazardType   string `json:"hazard_type"`
	DateObserved string `json:"date_observed"`

	SlopeAngle      *float64 `json:"slope_angle,omitempty"`
	CurvatureNumber *float64 `json:"curvature_number,omitempty"`
	LithologyType   string   `json:"lithology_type,omitempty"`
	LithologyLevel  *int     `json:"lithology_level,omitempty"`

	RainfallIntensityMMHr *float64 `json:"rainfall_intensity_mm_hr,omitempty"`
	RainfallDurationHrs   *float64 `json:"rainfall_duration_hrs,omitempty"`
	RainfallExceedance    *float64 `json:"rainfall_exceedance,omitempty"`
}

// HFactorReceipt returns the identifiers generated for an H-factor submission.
type HFactorReceipt struct {
	Success    bool   `json:"success"`
	Message    string `json:"message"`
	LocationID int    `json:"location_id"`
	EventID    int    `json:"event_id"`
	TriggerID  *int   `json:"trigger_id"`
}

// VFactorSubmission carries vulnerability observations for a location.
type VFactorSubmission struct {
	LocationName        string  `json:"location_name"`
	Latitude            float64 `json:"latitude"`
	Longitude           float64 `json:"longitude"`
	LocationDescription string  `json:"location_description,omitempty"`
	Region              string  `json:"region,omitempty"`

	ExposureScore     float64  `json:"exposure_score"`
	FragilityScore    float64  `json:"fragility_score"`
	CriticalityScore  *float64 `json:"criticality_score,omitempty"`
	PopulationDensity *float64 `json:"population_density,omitempty"`
}

// VFactorReceipt returns the identifiers generated for a V-factor submission.
type VFactorReceipt struct {
	Success         bool   `json:"success"`
	Message         string `json:"message"`
	LocationID      int    `json:"location_id"`
	VulnerabilityID int    `json:"vulnerability_id"`
}

// LoreStorySubmission carries one historical-evidence story for a location.
type LoreStorySubmission struct {
	LocationName        string  `json:"location_name"`
	Latitude            float64 `json:"latitude"`
	Longitude           float64 `json:"longitude"`
	LocationDescription string  `json:"location_description,omitempty"`
	Region              string  `json:"region,omitempty"`

	Title         string `json:"title"`
	Story         string `json:"story"`
	LocationPlace string `json:"location_place"`
	YearsAgo      *int   `json:"years_ago,omitempty"`

	// Credibility is one of: eyewitness, instrumented, oral-tradition,
	// newspaper, expert.
	Credibility string `json:"credibility"`

	// SpatialAccuracy is one of: exact, approximate, general-area.
	SpatialAccuracy string `json:"spatial_accuracy"`
}

// LoreStoryReceipt returns the identifiers generated for a lore submission.
type LoreStoryReceipt struct {
	Success    bool   `json:"success"`
	Message    string `json:"message"`
	LocationID int    `json:"location_id"`
	LoreID     int    `json:"lore_id"`
}

// LoreStory is one stored story as returned by the listing endpoint.
type LoreStory struct {
	ID              string `json:"id"`
	EventType       string `json:"eventType"`
	Recency         int    `json:"recency"` // years ago
	Location        string `json:"location"`
	Description     string `json:"description"`
	Source          string `json:"source"`
	Credibility     string `json:"credibility"`
	SpatialAccuracy string `json:"spatialAccuracy"`
	CreatedAt       string `json:"created_at"`
}

type loreStoryList struct {
	Count  int         `json:"count"`
	Events []LoreStory `json:"events"`
}

// calculateRequest is the wire form of a risk calculation call.
type calculateRequest struct {
	SlopeDeg   float64 `json:"slope_deg"`
	Curvature  float64 `json:"curvature"`
	LithClass  int     `json:"lith_class"`
	RainExceed float64 `json:"rain_exceed"`

	LoreSignal float64 `json:"lore_signal"`

	Exposure          float64 `json:"exposure"`
	Fragility         float64 `json:"fragility"`
	CriticalityWeight float64 `json:"criticality_weight"`

	HazardType   string   `json:"hazard_type,omitempty"`
	LocationLat  *float64 `json:"location_lat,omitempty"`
	LocationLng  *float64 `json:"location_lng,omitempty"`
	DateObserved string   `json:"date_observed,omitempty"`
}

// calculateResponse is the backend envelope around a calculation result.
type calculateResponse struct {
	Success bool                          `json:"success"`
	Message string                        `json:"message"`
	Data    *domain.RiskCalculationResult `json:"data"`
}

// UploadReceipt describes a stored terrain raster upload.
type UploadReceipt struct {
	Message  string `json:"message"`
	Filename string `json:"filename"`
	FileSize int64  `json:"file_size"`
	Checksum string `json:"checksum"`
	FilePath string `json:"file_path"`
	ItemID   string `json:"item_id,omitempty"`
	Version  int    `json:"version,omitempty"`
}

// ProcessDEMRequest selects the grid to extract from an uploaded DEM.
type ProcessDEMRequest struct {
	CenterLat float64 `json:"center_lat"`
	CenterLon float64 `json:"center_lon"`
	ExtentKM  float64 `json:"extent_km,omitempty"`
	Rows      int     `json:"rows,omitempty"`
	Cols      int     `json:"cols,omitempty"`
}

// ProcessDEMReceipt summarizes a completed DEM extraction run.
type ProcessDEMReceipt struct {
	Success       bool   `json:"success"`
	Message       string `json:"message"`
	CellsInserted int    `json:"cells_inserted"`
}
