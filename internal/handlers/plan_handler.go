package handlers

import (
	"errors"
	"net/http"

	"studyplanner/internal/models"
	"studyplanner/internal/planner"
	"studyplanner/internal/service"
	"studyplanner/internal/validation"
)

// PlanHandler serves study plan generation and retrieval
type PlanHandler struct {
	planService *service.PlanService
}

// NewPlanHandler creates a new plan handler
func NewPlanHandler(planService *service.PlanService) *PlanHandler {
	return &PlanHandler{planService: planService}
}

// CreatePlan handles POST /api/plans
func (h *PlanHandler) CreatePlan(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		respondWithError(w, http.StatusUnauthorized, "Authentication required", nil)
		return
	}

	var req struct {
		StudentName string         `json:"student_name"`
		ExamDate    string         `json:"exam_date"`
		DailyHours  float64        `json:"daily_hours"`
		Topics      []models.Topic `json:"topics"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.StudentName == "" {
		req.StudentName = user.Name
	}

	plan, meta, err := h.planService.GenerateSchedule(user.ID, req.StudentName, req.ExamDate, req.DailyHours, req.Topics)
	if err != nil {
		var vErr validation.ValidationError
		switch {
		case errors.As(err, &vErr):
			respondWithError(w, http.StatusBadRequest, vErr.Message, nil)
		case errors.Is(err, planner.ErrTooManySessions):
			respondWithError(w, http.StatusBadRequest, "The requested schedule is too large", nil)
		default:
			respondWithError(w, http.StatusInternalServerError, "Failed to generate plan", err)
		}
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"plan": plan,
		"meta": meta,
	})
}

// ListPlans handles GET /api/plans
func (h *PlanHandler) ListPlans(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		respondWithError(w, http.StatusUnauthorized, "Authentication required", nil)
		return
	}

	plans, err := h.planService.ListPlans(user.ID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to list plans", err)
		return
	}
	if plans == nil {
		plans = []models.StudyPlan{}
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"plans": plans})
}

// GetPlan handles GET /api/plans/{planID}
func (h *PlanHandler) GetPlan(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		respondWithError(w, http.StatusUnauthorized, "Authentication required", nil)
		return
	}

	plan, err := h.planService.GetPlan(user.ID, r.PathValue("planID"))
	if err != nil {
		if errors.Is(err, service.ErrPlanNotFound) {
			respondWithError(w, http.StatusNotFound, "Plan not found", nil)
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Failed to load plan", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"plan": plan})
}

// DeletePlan handles DELETE /api/plans/{planID}
func (h *PlanHandler) DeletePlan(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		respondWithError(w, http.StatusUnauthorized, "Authentication required", nil)
		return
	}

	if err := h.planService.DeletePlan(user.ID, r.PathValue("planID")); err != nil {
		if errors.Is(err, service.ErrPlanNotFound) {
			respondWithError(w, http.StatusNotFound, "Plan not found", nil)
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Failed to delete plan", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Plan deleted"})
}
