package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/couchcryptid/georisk-console/internal/adapter/riskapi"
	"github.com/couchcryptid/georisk-console/internal/domain"
)

func (s *Server) handleState(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.session.Snapshot())
}

func (s *Server) handleMode(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Mode string `json:"mode"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := s.session.SetMode(body.Mode); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, s.session.Snapshot())
}

func (s *Server) handleClick(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Lat float64 `json:"lat"`
		Lng float64 `json:"lng"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	s.session.HandleMapClick(body.Lat, body.Lng)
	writeJSON(w, http.StatusOK, s.session.Snapshot())
}

func (s *Server) handleLocation(w http.ResponseWriter, r *http.Request) {
	var loc domain.MapLocation
	if err := json.NewDecoder(r.Body).Decode(&loc); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if loc.Zoom < 0 {
		writeError(w, http.StatusBadRequest, "zoom must be non-negative")
		return
	}
	s.session.SetLocation(loc)
	writeJSON(w, http.StatusOK, s.session.Snapshot())
}

func (s *Server) handleParams(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Field string  `json:"field"`
		Value float64 `json:"value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := s.session.SetParameter(body.Field, body.Value); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, s.session.Snapshot())
}

func (s *Server) handleToggleLayer(w http.ResponseWriter, r *http.Request) {
	if err := s.session.ToggleLayer(r.PathValue("name")); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, s.session.Snapshot())
}

func (s *Server) handleCalculate(w http.ResponseWriter, r *http.Request) {
	var inputs domain.RiskFactorInputs
	if err := json.NewDecoder(r.Body).Decode(&inputs); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := s.session.Calculate(r.Context(), inputs)
	if err != nil {
		// The risk panel degrades; the view as a whole stays up.
		var apiErr *riskapi.APIError
		if errors.As(err, &apiErr) {
			writeError(w, http.StatusBadGateway, apiErr.Error())
			return
		}
		writeError(w, http.StatusBadGateway, "risk calculation unavailable")
		return
	}
	writeJSON(w, http.StatusOK, result)
}
