package domain

import "fmt"

// ScenarioField names one bounded scenario-modeling input.
type ScenarioField string

const (
	FieldRainfallMM           ScenarioField = "rainfall_mm"
	FieldTemperatureDeltaC    ScenarioField = "temperature_delta_c"
	FieldWindKMH              ScenarioField = "wind_kmh"
	FieldSoilDepthCM          ScenarioField = "soil_depth_cm"
	FieldSeismicMagnitude     ScenarioField = "seismic_magnitude"
	FieldSeismicFreqPerWeek   ScenarioField = "seismic_frequency_per_week"
)

// FieldBounds declares the valid range and UI step for a scenario field.
type FieldBounds struct {
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
	Step float64 `json:"step"`
}

var scenarioBounds = map[ScenarioField]FieldBounds{
	FieldRainfallMM:         {Min: 0, Max: 200, Step: 1},
	FieldTemperatureDeltaC:  {Min: -50, Max: 50, Step: 1},
	FieldWindKMH:            {Min: 0, Max: 252, Step: 1},
	FieldSoilDepthCM:        {Min: 0, Max: 500, Step: 1},
	FieldSeismicMagnitude:   {Min: 0, Max: 10, Step: 0.1},
	FieldSeismicFreqPerWeek: {Min: 0, Max: 50, Step: 1},
}

// BoundsFor returns the declared bounds for a field.
func BoundsFor(field ScenarioField) (FieldBounds, error) {
	b, ok := scenarioBounds[field]
	if !ok {
		return FieldBounds{}, fmt.Errorf("unknown scenario field %q", field)
	}
	return b, nil
}

// ScenarioParameters holds the six bounded scenario-modeling inputs. Fields
// are independent: setting one never affects another.
type ScenarioParameters struct {
	RainfallMM           float64 `json:"rainfall_mm"`
	TemperatureDeltaC    float64 `json:"temperature_delta_c"`
	WindKMH              float64 `json:"wind_kmh"`
	SoilDepthCM          float64 `json:"soil_depth_cm"`
	SeismicMagnitude     float64 `json:"seismic_magnitude"`
	SeismicFreqPerWeek   float64 `json:"seismic_frequency_per_week"`
}

// DefaultScenarioParameters returns the initial parameter values.
func DefaultScenarioParameters() ScenarioParameters {
	return ScenarioParameters{TemperatureDeltaC: 22}
}

// Set clamps value to the field's declared range and stores it. It has no
// other side effects and no persistence.
func (p ScenarioParameters) Set(field ScenarioField, value float64) (ScenarioParameters, error) {
	b, err := BoundsFor(field)
	if err != nil {
		return p, err
	}
	value = clamp(value, b.Min, b.Max)

	switch field {
	case FieldRainfallMM:
		p.RainfallMM = value
	case FieldTemperatureDeltaC:
		p.TemperatureDeltaC = value
	case FieldWindKMH:
		p.WindKMH = value
	case FieldSoilDepthCM:
		p.SoilDepthCM = value
	case FieldSeismicMagnitude:
		p.SeismicMagnitude = value
	case FieldSeismicFreqPerWeek:
		p.SeismicFreqPerWeek = value
	}
	return p, nil
}

// Get returns the current value of a field.
func (p ScenarioParameters) Get(field ScenarioField) (float64, error) {
	switch field {
	case FieldRainfallMM:
		return p.RainfallMM, nil
	case FieldTemperatureDeltaC:
		return p.TemperatureDeltaC, nil
	case FieldWindKMH:
		return p.WindKMH, nil
	case FieldSoilDepthCM:
		return p.SoilDepthCM, nil
	case FieldSeismicMagnitude:
		return p.SeismicMagnitude, nil
	case FieldSeismicFreqPerWeek:
		return p.SeismicFreqPerWeek, nil
	default:
		return 0, fmt.Errorf("unknown scenario field %q", field)
	}
}

func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
