package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/couchcryptid/georisk-console/internal/adapter/riskapi"
)

// LoreService is the slice of the scoring-backend client used by the lore
// passthrough routes.
type LoreService interface {
	SubmitLoreStory(ctx context.Context, sub riskapi.LoreStorySubmission) (riskapi.LoreStoryReceipt, error)
	ListLoreStories(ctx context.Context) ([]riskapi.LoreStory, error)
	UpdateLoreStory(ctx context.Context, id string, sub riskapi.LoreStorySubmission) error
	DeleteLoreStory(ctx context.Context, id string) error
}

func (s *Server) handleListLore(w http.ResponseWriter, r *http.Request) {
	stories, err := s.lore.ListLoreStories(r.Context())
	if err != nil {
		writeBackendError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"count":  len(stories),
		"events": stories,
	})
}

func (s *Server) handleSubmitLore(w http.ResponseWriter, r *http.Request) {
	var sub riskapi.LoreStorySubmission
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	receipt, err := s.lore.SubmitLoreStory(r.Context(), sub)
	if err != nil {
		writeBackendError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, receipt)
}

func (s *Server) handleUpdateLore(w http.ResponseWriter, r *http.Request) {
	var sub riskapi.LoreStorySubmission
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := s.lore.UpdateLoreStory(r.Context(), r.PathValue("id"), sub); err != nil {
		writeBackendError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) handleDeleteLore(w http.ResponseWriter, r *http.Request) {
	if err := s.lore.DeleteLoreStory(r.Context(), r.PathValue("id")); err != nil {
		writeBackendError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// writeBackendError maps a scoring-backend failure onto this surface,
// preserving the backend's detail text when it exists.
func writeBackendError(w http.ResponseWriter, err error) {
	var apiErr *riskapi.APIError
	if errors.As(err, &apiErr) {
		status := http.StatusBadGateway
		if apiErr.StatusCode == http.StatusNotFound {
			status = http.StatusNotFound
		}
		writeError(w, status, apiErr.Error())
		return
	}
	writeError(w, http.StatusBadGateway, "scoring backend unavailable")
}
