package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"studyplanner/internal/models"
	"studyplanner/internal/service"
	"studyplanner/internal/validation"
)

// ProgressHandler serves the per-session progress endpoints
type ProgressHandler struct {
	progressService *service.ProgressService
}

// NewProgressHandler creates a new progress handler
func NewProgressHandler(progressService *service.ProgressService) *ProgressHandler {
	return &ProgressHandler{progressService: progressService}
}

func sessionIndex(r *http.Request) (int, error) {
	return strconv.Atoi(r.PathValue("index"))
}

func respondProgressError(w http.ResponseWriter, err error) {
	var vErr validation.ValidationError
	switch {
	case errors.As(err, &vErr):
		respondWithError(w, http.StatusBadRequest, vErr.Message, nil)
	case errors.Is(err, service.ErrPlanNotFound):
		respondWithError(w, http.StatusNotFound, "Plan not found", nil)
	case errors.Is(err, service.ErrSessionNotFound):
		respondWithError(w, http.StatusNotFound, "Session not found", nil)
	case errors.Is(err, service.ErrSessionCompleted):
		respondWithError(w, http.StatusConflict, "Session is already completed", nil)
	case errors.Is(err, service.ErrSessionNotActive):
		respondWithError(w, http.StatusConflict, "Session is not active", nil)
	default:
		respondWithError(w, http.StatusInternalServerError, "Failed to update session", err)
	}
}

// PlanHistory handles GET /api/plans/{planID}/events
func (h *ProgressHandler) PlanHistory(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		respondWithError(w, http.StatusUnauthorized, "Authentication required", nil)
		return
	}

	events, err := h.progressService.PlanHistory(user.ID, r.PathValue("planID"))
	if err != nil {
		respondProgressError(w, err)
		return
	}
	if events == nil {
		events = []models.ProgressEvent{}
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"events": events})
}

// StartSession handles POST /api/plans/{planID}/sessions/{index}/start
func (h *ProgressHandler) StartSession(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		respondWithError(w, http.StatusUnauthorized, "Authentication required", nil)
		return
	}

	index, err := sessionIndex(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid session index", nil)
		return
	}

	if err := h.progressService.StartSession(user.ID, r.PathValue("planID"), index); err != nil {
		respondProgressError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "active"})
}

// PauseSession handles POST /api/plans/{planID}/sessions/{index}/pause
func (h *ProgressHandler) PauseSession(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		respondWithError(w, http.StatusUnauthorized, "Authentication required", nil)
		return
	}

	index, err := sessionIndex(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid session index", nil)
		return
	}

	var req struct {
		ElapsedSeconds int `json:"elapsed_seconds"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.progressService.PauseSession(user.ID, r.PathValue("planID"), index, req.ElapsedSeconds); err != nil {
		respondProgressError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "pending"})
}

// Tick handles POST /api/plans/{planID}/sessions/{index}/tick
func (h *ProgressHandler) Tick(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		respondWithError(w, http.StatusUnauthorized, "Authentication required", nil)
		return
	}

	index, err := sessionIndex(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid session index", nil)
		return
	}

	var req struct {
		ElapsedSeconds int `json:"elapsed_seconds"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	completed, err := h.progressService.Tick(user.ID, r.PathValue("planID"), index, req.ElapsedSeconds)
	if err != nil {
		respondProgressError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]bool{"completed": completed})
}

// RecordProgress handles POST /api/plans/{planID}/sessions/{index}/progress
func (h *ProgressHandler) RecordProgress(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		respondWithError(w, http.StatusUnauthorized, "Authentication required", nil)
		return
	}

	index, err := sessionIndex(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid session index", nil)
		return
	}

	var req struct {
		Completed      bool `json:"completed"`
		ElapsedSeconds int  `json:"elapsed_seconds"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.progressService.RecordProgress(user.ID, r.PathValue("planID"), index, req.Completed, req.ElapsedSeconds); err != nil {
		respondProgressError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Progress recorded"})
}
