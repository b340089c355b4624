package repository

import (
	"fmt"
	"time"

	"studyplanner/internal/database"
	"studyplanner/internal/models"
)

// ProgressRepository handles the append-only progress event log
type ProgressRepository struct {
	db *database.DB
}

// NewProgressRepository creates a new progress repository
func NewProgressRepository(db *database.DB) *ProgressRepository {
	return &ProgressRepository{db: db}
}

// AppendEvent records a tracker transition. Events are never updated or
// deleted individually.
func (r *ProgressRepository) AppendEvent(planID string, sessionIndex int, event models.ProgressEventType, elapsedSeconds int) error {
	query := `
		INSERT INTO progress_events (plan_id, session_index, event, elapsed_seconds, created_at)
		VALUES (?, ?, ?, ?, ?)
	`
	if _, err := r.db.Exec(query, planID, sessionIndex, string(event), elapsedSeconds, time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to append progress event: %w", err)
	}
	return nil
}

// ListEventsForUser returns a user's progress events recorded at or
// after since, oldest first
func (r *ProgressRepository) ListEventsForUser(userID int64, since time.Time) ([]models.ProgressEvent, error) {
	query := `
		SELECT e.id, e.plan_id, e.session_index, e.event, e.elapsed_seconds, e.created_at
		FROM progress_events e
		JOIN study_plans p ON p.plan_id = e.plan_id
		WHERE p.user_id = ? AND e.created_at >= ?
		ORDER BY e.created_at ASC, e.id ASC
	`
	rows, err := r.db.Query(query, userID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to list progress events: %w", err)
	}
	defer rows.Close()

	var events []models.ProgressEvent
	for rows.Next() {
		var e models.ProgressEvent
		err := rows.Scan(&e.ID, &e.PlanID, &e.SessionIndex, &e.Event, &e.ElapsedSeconds, &e.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan progress event: %w", err)
		}
		events = append(events, e)
	}

	return events, rows.Err()
}

// ListEventsForPlan returns every event recorded for one plan, oldest first
func (r *ProgressRepository) ListEventsForPlan(planID string) ([]models.ProgressEvent, error) {
	query := `
		SELECT id, plan_id, session_index, event, elapsed_seconds, created_at
		FROM progress_events
		WHERE plan_id = ?
		ORDER BY created_at ASC, id ASC
	`
	rows, err := r.db.Query(query, planID)
	if err != nil {
		return nil, fmt.Errorf("failed to list plan events: %w", err)
	}
	defer rows.Close()

	var events []models.ProgressEvent
	for rows.Next() {
		var e models.ProgressEvent
		err := rows.Scan(&e.ID, &e.PlanID, &e.SessionIndex, &e.Event, &e.ElapsedSeconds, &e.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan progress event: %w", err)
		}
		events = append(events, e)
	}

	return events, rows.Err()
}
