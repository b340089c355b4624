package handlers

import (
	"net/http"
	"time"

	"studyplanner/internal/database"
)

// HealthHandler serves the liveness endpoint
type HealthHandler struct {
	db *database.DB
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(db *database.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

// Health handles GET /api/health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	code := http.StatusOK
	if err := h.db.Ping(); err != nil {
		status = "degraded"
		code = http.StatusServiceUnavailable
	}

	respondJSON(w, code, map[string]interface{}{
		"status":    status,
		"database":  h.db.GetDialect().DriverName(),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
