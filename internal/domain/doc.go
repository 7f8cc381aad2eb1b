// Package domain models the interactive geo-hazard assessment session.
//
// # Risk Model
//
// Overall risk is assembled from three factor scores, each normalized to
// [0, 1]:
//
//	H — hazard drivers: terrain slope, curvature, lithology erodibility,
//	    and rainfall exceedance probability.
//	L — local lore: an aggregated historical-evidence signal. Defaults to
//	    zero when no lore has been submitted for the assessed area.
//	V — vulnerability: exposure of assets, fragility, and a criticality
//	    weight.
//
// The scoring backend combines the factors with a threshold gate and
// Monte-Carlo uncertainty sampling and returns a [RiskCalculationResult].
// Its three sensitivity values are Sobol-style fractional variance
// contributions and sum to approximately one. A result with GatePassed set
// to false fell below the minimum-confidence gate; it is a qualified
// result, not an error.
//
// When the three factor scores are known directly, the composite display
// score is the normalized Euclidean combination
//
//	R = sqrt(H² + L² + V²) / sqrt(3)
//
// which stays in [0, 1] for factor scores in [0, 1]. See [CompositeScore].
//
// # Risk Tiers
//
// Scores map to four display tiers:
//
//	R ≥ 0.8  severe
//	R ≥ 0.6  high
//	R ≥ 0.3  medium
//	else     low
//
// # Area Selection
//
// Map clicks are interpreted by [AreaSelection], a small state machine with
// three modes: idle, center-point capture (one click), and four-vertex
// polygon capture (four clicks, insertion order defines winding). A
// completed capture reverts the mode to idle; the captured result persists
// until a new capture replaces it.
package domain
