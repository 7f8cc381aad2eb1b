package domain

import "fmt"

// SelectionMode controls how the next map click is interpreted.
type SelectionMode string

const (
	ModeNone         SelectionMode = "none"
	ModeCenterPoint  SelectionMode = "centerPoint"
	ModeFourVertices SelectionMode = "fourVertices"
)

// maxVertices is the fixed size of a complete vertex polygon.
const maxVertices = 4

// ParseSelectionMode validates a mode string from the rendering collaborator.
func ParseSelectionMode(value string) (SelectionMode, error) {
	switch SelectionMode(value) {
	case ModeNone, ModeCenterPoint, ModeFourVertices:
		return SelectionMode(value), nil
	default:
		return "", fmt.Errorf("unknown selection mode %q", value)
	}
}

// AreaSelection is the map area-selection state machine. The zero value is
// idle with no captured selection. Transitions are value-in, value-out so
// the state can be snapshotted and tested without any rendering layer.
type AreaSelection struct {
	Mode SelectionMode `json:"mode"`

	// CenterPoint is the last captured center-point selection, nil until
	// the first capture. It survives mode changes; only a new capture
	// replaces it.
	CenterPoint *LatLng `json:"center_point,omitempty"`

	// Vertices is the polygon under construction or, once four entries
	// long, the completed capture. Order is drawing order and defines the
	// polygon winding.
	Vertices []LatLng `json:"vertices,omitempty"`
}

// NewAreaSelection returns an idle selection with no captured results.
func NewAreaSelection() AreaSelection {
	return AreaSelection{Mode: ModeNone}
}

// SetMode transitions unconditionally to the given mode. Entering either
// capture mode discards the polygon so drawing restarts fresh; a captured
// center point is never cleared by a mode change.
func (s AreaSelection) SetMode(mode SelectionMode) AreaSelection {
	s.Mode = mode
	if mode == ModeCenterPoint || mode == ModeFourVertices {
		s.Vertices = nil
	}
	return s
}

// HandleMapClick consumes one click from the rendering collaborator. Clicks
// while idle are ignored. A center-point click captures the coordinate and
// reverts to idle immediately. A vertex click appends to the polygon; the
// fourth vertex completes the capture and reverts to idle. The machine is
// never left armed after a completed capture.
func (s AreaSelection) HandleMapClick(lat, lng float64) AreaSelection {
	switch s.Mode {
	case ModeCenterPoint:
		s.CenterPoint = &LatLng{Lat: lat, Lng: lng}
		s.Mode = ModeNone
	case ModeFourVertices:
		s.Vertices = append(append([]LatLng(nil), s.Vertices...), LatLng{Lat: lat, Lng: lng})
		if len(s.Vertices) >= maxVertices {
			s.Mode = ModeNone
		}
	}
	return s
}

// PolygonComplete reports whether a full four-vertex polygon has been captured.
func (s AreaSelection) PolygonComplete() bool {
	return len(s.Vertices) == maxVertices
}
