package domain

import (
	"fmt"
	"math"
)

// Risk tier thresholds applied to a composite score in [0, 1].
const (
	tierSevere = 0.8
	tierHigh   = 0.6
	tierMedium = 0.3
)

// SensitivityTolerance is the accepted deviation of the three sensitivity
// values from summing to exactly one. The backend derives them from
// Monte-Carlo variance decomposition, so a small float drift is expected.
const SensitivityTolerance = 0.05

// RiskFactorInputs carries the raw H, L, and V factor observations
// submitted to the scoring backend.
type RiskFactorInputs struct {
	// H factor: terrain and trigger data.
	SlopeDeg   float64 `json:"slope_deg"`
	Curvature  float64 `json:"curvature"`
	LithClass  int     `json:"lith_class"` // 1 hardest … 5 most erodible
	RainExceed float64 `json:"rain_exceed"`

	// L factor: aggregated lore signal, zero when no lore was submitted.
	LoreSignal float64 `json:"lore_signal"`

	// V factor.
	Exposure          float64 `json:"exposure"`
	Fragility         float64 `json:"fragility"`
	CriticalityWeight float64 `json:"criticality_weight"`

	HazardType   string   `json:"hazard_type,omitempty"`
	Location     *LatLng  `json:"location,omitempty"`
	DateObserved string   `json:"date_observed,omitempty"`
}

// Clamped returns the inputs with every bounded field forced into its valid
// range. The parameter store already enforces bounds, but callers outside
// the store are not trusted to respect them.
func (in RiskFactorInputs) Clamped() RiskFactorInputs {
	in.SlopeDeg = clamp(in.SlopeDeg, 0, 90)
	in.Curvature = clamp(in.Curvature, -2, 2)
	if in.LithClass < 1 {
		in.LithClass = 1
	}
	if in.LithClass > 5 {
		in.LithClass = 5
	}
	in.RainExceed = clamp(in.RainExceed, 0, 1)
	in.LoreSignal = clamp(in.LoreSignal, 0, 1)
	in.Exposure = clamp(in.Exposure, 0, 1)
	in.Fragility = clamp(in.Fragility, 0, 1)
	in.CriticalityWeight = clamp(in.CriticalityWeight, 0, 1)
	return in
}

// RiskCalculationResult is the normalized scoring-backend response. Field
// names follow the backend's JSON contract.
type RiskCalculationResult struct {
	HScore float64 `json:"H_score"`
	LScore float64 `json:"L_score"`
	VScore float64 `json:"V_score"`
	RScore float64 `json:"R_score"`

	RStd float64 `json:"R_std"`
	RP05 float64 `json:"R_p05"`
	RP95 float64 `json:"R_p95"`

	HSensitivity float64 `json:"H_sensitivity"`
	LSensitivity float64 `json:"L_sensitivity"`
	VSensitivity float64 `json:"V_sensitivity"`

	RiskLevel string `json:"risk_level"`

	// GatePassed is false when the result fell below the backend's
	// minimum-confidence gate. A failed gate qualifies the result; it does
	// not invalidate it.
	GatePassed bool `json:"gate_passed"`
}

// Validate checks the result against the scoring contract: every score and
// bound in [0, 1], a known risk level, and sensitivities summing to
// approximately one. An all-zero sensitivity triple is accepted as
// "uncertainty not computed".
func (r RiskCalculationResult) Validate() error {
	scores := map[string]float64{
		"H_score":       r.HScore,
		"L_score":       r.LScore,
		"V_score":       r.VScore,
		"R_score":       r.RScore,
		"R_std":         r.RStd,
		"R_p05":         r.RP05,
		"R_p95":         r.RP95,
		"H_sensitivity": r.HSensitivity,
		"L_sensitivity": r.LSensitivity,
		"V_sensitivity": r.VSensitivity,
	}
	for name, v := range scores {
		if v < 0 || v > 1 {
			return fmt.Errorf("%s %.4f outside [0,1]", name, v)
		}
	}

	switch r.RiskLevel {
	case "low", "medium", "high", "severe":
	default:
		return fmt.Errorf("unknown risk_level %q", r.RiskLevel)
	}

	sum := r.HSensitivity + r.LSensitivity + r.VSensitivity
	if sum != 0 && math.Abs(sum-1) > SensitivityTolerance {
		return fmt.Errorf("sensitivities sum to %.4f, expected 1±%.2f", sum, SensitivityTolerance)
	}
	return nil
}

// CompositeScore combines three known factor scores into the display score
// using the normalized Euclidean formula R = sqrt(H²+L²+V²)/sqrt(3).
func CompositeScore(h, l, v float64) float64 {
	return math.Sqrt(h*h+l*l+v*v) / math.Sqrt(3)
}

// DisplayScore rounds a score to two decimals for presentation.
func DisplayScore(r float64) float64 {
	return math.Round(r*100) / 100
}

// RiskLevelFor maps a composite score to its display tier.
func RiskLevelFor(r float64) string {
	switch {
	case r >= tierSevere:
		return "severe"
	case r >= tierHigh:
		return "high"
	case r >= tierMedium:
		return "medium"
	default:
		return "low"
	}
}
