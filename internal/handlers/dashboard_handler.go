package handlers

import (
	"net/http"

	"studyplanner/internal/service"
)

// DashboardHandler serves the aggregated per-user dashboard
type DashboardHandler struct {
	dashboardService *service.DashboardService
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(dashboardService *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// GetDashboard handles GET /api/dashboard
func (h *DashboardHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		respondWithError(w, http.StatusUnauthorized, "Authentication required", nil)
		return
	}

	stats, err := h.dashboardService.GetDashboard(user.ID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to load dashboard", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"user":           user,
		"stats":          stats,
		"recent_plans":   stats.RecentPlans,
		"daily_activity": stats.DailyActivity,
	})
}
