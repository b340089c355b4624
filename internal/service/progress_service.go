package service

import (
	"errors"
	"fmt"

	"studyplanner/internal/models"
	"studyplanner/internal/validation"
)

var (
	ErrSessionNotFound  = errors.New("session not found")
	ErrSessionCompleted = errors.New("session already completed")
	ErrSessionNotActive = errors.New("session is not active")
)

// ProgressService drives the per-session state machine:
// Pending -> Active -> Completed, with Active -> Pending via pause.
// Every transition appends to the progress event log.
type ProgressService struct {
	plans  PlanStore
	events ProgressStore
}

// NewProgressService creates a new progress service
func NewProgressService(plans PlanStore, events ProgressStore) *ProgressService {
	return &ProgressService{
		plans:  plans,
		events: events,
	}
}

// loadSession fetches the plan (owner-scoped) and the addressed session
func (s *ProgressService) loadSession(userID int64, planID string, index int) (*models.StudyPlan, *models.SessionItem, error) {
	plan, err := s.plans.GetPlanByPlanID(planID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load plan: %w", err)
	}
	if plan == nil || plan.UserID != userID {
		return nil, nil, ErrPlanNotFound
	}
	if index < 0 || index >= len(plan.Sessions) {
		return nil, nil, ErrSessionNotFound
	}
	return plan, &plan.Sessions[index], nil
}

// StartSession moves a pending session to active. A completed session
// cannot be restarted. Only one session per plan is active at a time:
// starting one pauses any currently active sibling, keeping its time.
func (s *ProgressService) StartSession(userID int64, planID string, index int) error {
	plan, session, err := s.loadSession(userID, planID, index)
	if err != nil {
		return err
	}

	if session.State == models.SessionCompleted {
		return ErrSessionCompleted
	}
	if session.State == models.SessionActive {
		return nil
	}

	for i := range plan.Sessions {
		sibling := &plan.Sessions[i]
		if i == index || sibling.State != models.SessionActive {
			continue
		}
		if err := s.plans.UpdateSessionProgress(planID, i, models.SessionPending, sibling.Completed, sibling.TimeSpentSeconds); err != nil {
			return fmt.Errorf("failed to pause active session %d: %w", i, err)
		}
		if err := s.events.AppendEvent(planID, i, models.EventPause, 0); err != nil {
			return fmt.Errorf("failed to log pause event: %w", err)
		}
	}

	if err := s.plans.UpdateSessionProgress(planID, index, models.SessionActive, false, session.TimeSpentSeconds); err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	if err := s.events.AppendEvent(planID, index, models.EventStart, 0); err != nil {
		return fmt.Errorf("failed to log start event: %w", err)
	}
	return nil
}

// PauseSession moves an active session back to pending, banking the
// elapsed seconds accumulated since the last transition
func (s *ProgressService) PauseSession(userID int64, planID string, index, elapsedSeconds int) error {
	if elapsedSeconds < 0 {
		return validation.ValidationError{Field: "elapsed_seconds", Message: "elapsed seconds cannot be negative"}
	}

	_, session, err := s.loadSession(userID, planID, index)
	if err != nil {
		return err
	}
	if session.State != models.SessionActive {
		return ErrSessionNotActive
	}

	timeSpent := session.TimeSpentSeconds + elapsedSeconds
	if err := s.plans.UpdateSessionProgress(planID, index, models.SessionPending, session.Completed, timeSpent); err != nil {
		return fmt.Errorf("failed to pause session: %w", err)
	}
	if err := s.events.AppendEvent(planID, index, models.EventPause, elapsedSeconds); err != nil {
		return fmt.Errorf("failed to log pause event: %w", err)
	}
	return nil
}

// Tick adds elapsed seconds to an active session's counter. Crossing the
// session's suggested duration auto-completes it and logs the complete
// event; ticks below the threshold log nothing.
func (s *ProgressService) Tick(userID int64, planID string, index, elapsedSeconds int) (bool, error) {
	if elapsedSeconds < 0 {
		return false, validation.ValidationError{Field: "elapsed_seconds", Message: "elapsed seconds cannot be negative"}
	}

	_, session, err := s.loadSession(userID, planID, index)
	if err != nil {
		return false, err
	}
	if session.State != models.SessionActive {
		return false, ErrSessionNotActive
	}

	timeSpent := session.TimeSpentSeconds + elapsedSeconds
	if timeSpent >= session.TargetSeconds() {
		if err := s.plans.UpdateSessionProgress(planID, index, models.SessionCompleted, true, timeSpent); err != nil {
			return false, fmt.Errorf("failed to complete session: %w", err)
		}
		if err := s.events.AppendEvent(planID, index, models.EventComplete, elapsedSeconds); err != nil {
			return false, fmt.Errorf("failed to log complete event: %w", err)
		}
		return true, nil
	}

	if err := s.plans.UpdateSessionProgress(planID, index, models.SessionActive, false, timeSpent); err != nil {
		return false, fmt.Errorf("failed to record tick: %w", err)
	}
	return false, nil
}

// PlanHistory returns the full event log of one of the user's plans,
// oldest first
func (s *ProgressService) PlanHistory(userID int64, planID string) ([]models.ProgressEvent, error) {
	plan, err := s.plans.GetPlanByPlanID(planID)
	if err != nil {
		return nil, fmt.Errorf("failed to load plan: %w", err)
	}
	if plan == nil || plan.UserID != userID {
		return nil, ErrPlanNotFound
	}

	events, err := s.events.ListEventsForPlan(planID)
	if err != nil {
		return nil, fmt.Errorf("failed to load plan events: %w", err)
	}
	return events, nil
}

// RecordProgress is the explicit write path used by clients that manage
// their own timer: it adds the elapsed delta and sets the completed flag
// directly. Setting completed=false on a finished session re-opens it to
// pending while keeping the time already spent.
func (s *ProgressService) RecordProgress(userID int64, planID string, index int, completed bool, elapsedSeconds int) error {
	if elapsedSeconds < 0 {
		return validation.ValidationError{Field: "elapsed_seconds", Message: "elapsed seconds cannot be negative"}
	}

	_, session, err := s.loadSession(userID, planID, index)
	if err != nil {
		return err
	}

	timeSpent := session.TimeSpentSeconds + elapsedSeconds

	state := models.SessionPending
	event := models.EventPause
	if completed {
		state = models.SessionCompleted
		event = models.EventComplete
	}

	if err := s.plans.UpdateSessionProgress(planID, index, state, completed, timeSpent); err != nil {
		return fmt.Errorf("failed to record progress: %w", err)
	}
	if err := s.events.AppendEvent(planID, index, event, elapsedSeconds); err != nil {
		return fmt.Errorf("failed to log progress event: %w", err)
	}
	return nil
}
