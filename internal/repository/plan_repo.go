package repository

import (
	"database/sql"
	"fmt"

	"studyplanner/internal/database"
	"studyplanner/internal/models"
)

// PlanRepository handles database operations for study plans and their
// session sequences
type PlanRepository struct {
	db *database.DB
}

// NewPlanRepository creates a new plan repository
func NewPlanRepository(db *database.DB) *PlanRepository {
	return &PlanRepository{db: db}
}

// CreatePlan persists a plan and its full session sequence in one
// transaction. No partially written plan is ever visible.
func (r *PlanRepository) CreatePlan(plan *models.StudyPlan) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	planQuery := `
		INSERT INTO study_plans (plan_id, user_id, student_name, exam_date, daily_hours, summary, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	id, err := tx.ExecReturningID(planQuery,
		plan.PlanID, plan.UserID, plan.StudentName, plan.ExamDate, plan.DailyHours, plan.Summary, plan.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert plan: %w", err)
	}
	plan.ID = id

	sessionQuery := `
		INSERT INTO plan_sessions (plan_id, position, day, course, topic, difficulty,
			suggested_minutes, part, break_after_minutes, hint, state, completed, time_spent_seconds)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	for i := range plan.Sessions {
		s := &plan.Sessions[i]
		_, err := tx.Exec(sessionQuery,
			plan.PlanID, i, s.Day, s.Course, s.Topic, string(s.Difficulty),
			s.SuggestedMinutes, nullableInt(s.Part), nullableInt(s.BreakAfterMinutes),
			s.Hint, string(s.State), s.Completed, s.TimeSpentSeconds)
		if err != nil {
			return fmt.Errorf("failed to insert session %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit plan: %w", err)
	}
	return nil
}

// GetPlanByPlanID retrieves one plan with its ordered sessions
func (r *PlanRepository) GetPlanByPlanID(planID string) (*models.StudyPlan, error) {
	query := `
		SELECT id, plan_id, user_id, student_name, exam_date, daily_hours, summary, created_at
		FROM study_plans
		WHERE plan_id = ?
	`
	plan := &models.StudyPlan{}
	err := r.db.QueryRow(query, planID).Scan(
		&plan.ID,
		&plan.PlanID,
		&plan.UserID,
		&plan.StudentName,
		&plan.ExamDate,
		&plan.DailyHours,
		&plan.Summary,
		&plan.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get plan: %w", err)
	}

	sessions, err := r.getPlanSessions(planID)
	if err != nil {
		return nil, err
	}
	plan.Sessions = sessions

	return plan, nil
}

// ListPlansByUser retrieves a user's plans, newest first, each with its
// ordered sessions
func (r *PlanRepository) ListPlansByUser(userID int64) ([]models.StudyPlan, error) {
	query := `
		SELECT id, plan_id, user_id, student_name, exam_date, daily_hours, summary, created_at
		FROM study_plans
		WHERE user_id = ?
		ORDER BY created_at DESC, id DESC
	`
	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list plans: %w", err)
	}
	defer rows.Close()

	var plans []models.StudyPlan
	for rows.Next() {
		var plan models.StudyPlan
		err := rows.Scan(
			&plan.ID,
			&plan.PlanID,
			&plan.UserID,
			&plan.StudentName,
			&plan.ExamDate,
			&plan.DailyHours,
			&plan.Summary,
			&plan.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan plan: %w", err)
		}
		plans = append(plans, plan)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate plans: %w", err)
	}

	for i := range plans {
		sessions, err := r.getPlanSessions(plans[i].PlanID)
		if err != nil {
			return nil, err
		}
		plans[i].Sessions = sessions
	}

	return plans, nil
}

// getPlanSessions loads a plan's sessions in creation order
func (r *PlanRepository) getPlanSessions(planID string) ([]models.SessionItem, error) {
	query := `
		SELECT day, course, topic, difficulty, suggested_minutes, part,
		       break_after_minutes, hint, state, completed, time_spent_seconds
		FROM plan_sessions
		WHERE plan_id = ?
		ORDER BY position ASC
	`
	rows, err := r.db.Query(query, planID)
	if err != nil {
		return nil, fmt.Errorf("failed to get plan sessions: %w", err)
	}
	defer rows.Close()

	var sessions []models.SessionItem
	for rows.Next() {
		var s models.SessionItem
		var part, breakAfter sql.NullInt64
		err := rows.Scan(
			&s.Day,
			&s.Course,
			&s.Topic,
			&s.Difficulty,
			&s.SuggestedMinutes,
			&part,
			&breakAfter,
			&s.Hint,
			&s.State,
			&s.Completed,
			&s.TimeSpentSeconds,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		if part.Valid {
			v := int(part.Int64)
			s.Part = &v
		}
		if breakAfter.Valid {
			v := int(breakAfter.Int64)
			s.BreakAfterMinutes = &v
		}
		sessions = append(sessions, s)
	}

	return sessions, rows.Err()
}

// UpdateSessionProgress writes back a session's mutable progress fields.
// The session sequence itself is immutable once generated.
func (r *PlanRepository) UpdateSessionProgress(planID string, position int, state models.SessionState, completed bool, timeSpentSeconds int) error {
	query := `
		UPDATE plan_sessions
		SET state = ?, completed = ?, time_spent_seconds = ?
		WHERE plan_id = ? AND position = ?
	`
	result, err := r.db.Exec(query, string(state), completed, timeSpentSeconds, planID, position)
	if err != nil {
		return fmt.Errorf("failed to update session progress: %w", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// DeletePlan removes a plan, its sessions and its progress events. The
// delete is scoped to the owning user.
func (r *PlanRepository) DeletePlan(planID string, userID int64) (bool, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.Exec("DELETE FROM study_plans WHERE plan_id = ? AND user_id = ?", planID, userID)
	if err != nil {
		return false, fmt.Errorf("failed to delete plan: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return false, nil
	}

	// Cascades cover dialects with enforced foreign keys; delete
	// explicitly so sqlite databases without the pragma stay consistent.
	if _, err := tx.Exec("DELETE FROM plan_sessions WHERE plan_id = ?", planID); err != nil {
		return false, fmt.Errorf("failed to delete plan sessions: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM progress_events WHERE plan_id = ?", planID); err != nil {
		return false, fmt.Errorf("failed to delete progress events: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit delete: %w", err)
	}
	return true, nil
}

// nullableInt converts an optional int to a driver-friendly value
func nullableInt(v *int) interface{} {
	if v == nil {
		return nil
	}
	return *v
}
