package domain

import "fmt"

// Layer names one toggleable map overlay.
type Layer string

const (
	LayerRiskOverlay       Layer = "riskOverlay"
	LayerInfrastructure    Layer = "infrastructure"
	LayerPopulationDensity Layer = "populationDensity"
)

// LayerVisibility is the set of overlay visibility flags consumed by the
// rendering collaborator. Layers are independent of each other.
type LayerVisibility struct {
	RiskOverlay       bool `json:"riskOverlay"`
	Infrastructure    bool `json:"infrastructure"`
	PopulationDensity bool `json:"populationDensity"`
}

// DefaultLayerVisibility returns the initial layer set: only the risk
// overlay enabled.
func DefaultLayerVisibility() LayerVisibility {
	return LayerVisibility{RiskOverlay: true}
}

// Toggle flips exactly the named layer, leaving the other two untouched.
func (v LayerVisibility) Toggle(layer Layer) (LayerVisibility, error) {
	switch layer {
	case LayerRiskOverlay:
		v.RiskOverlay = !v.RiskOverlay
	case LayerInfrastructure:
		v.Infrastructure = !v.Infrastructure
	case LayerPopulationDensity:
		v.PopulationDensity = !v.PopulationDensity
	default:
		return v, fmt.Errorf("unknown layer %q", layer)
	}
	return v, nil
}
