package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"studyplanner/internal/models"
	"studyplanner/internal/planner"
	"studyplanner/internal/validation"
)

// ErrPlanNotFound is returned for unknown plan IDs and for plans owned
// by a different user
var ErrPlanNotFound = errors.New("plan not found")

// PlanService generates and manages study plans
type PlanService struct {
	plans PlanStore
	now   func() time.Time
}

// NewPlanService creates a new plan service
func NewPlanService(plans PlanStore) *PlanService {
	return &PlanService{
		plans: plans,
		now:   time.Now,
	}
}

// GenerateSchedule validates the request, allocates the day-partitioned
// session sequence, annotates it with hints, and persists the plan
// atomically. The returned meta block carries the deterministic summary
// and tips shown alongside the fresh plan.
func (s *PlanService) GenerateSchedule(userID int64, studentName, examDate string, dailyHours float64, topics []models.Topic) (*models.StudyPlan, *models.PlanMeta, error) {
	if err := validation.ValidateDailyHours(dailyHours); err != nil {
		return nil, nil, err
	}
	if err := validation.ValidateExamDate(examDate); err != nil {
		return nil, nil, err
	}
	if err := validation.ValidateName(studentName); err != nil {
		return nil, nil, err
	}

	normalized, err := normalizeTopics(topics)
	if err != nil {
		return nil, nil, err
	}

	sessions, err := planner.Allocate(normalized, dailyHours)
	if err != nil {
		return nil, nil, err
	}

	planner.NewHintGenerator().Annotate(sessions)

	now := s.now()
	plan := &models.StudyPlan{
		PlanID:      uuid.New().String(),
		UserID:      userID,
		StudentName: strings.TrimSpace(studentName),
		ExamDate:    strings.TrimSpace(examDate),
		DailyHours:  dailyHours,
		Summary:     planner.Summarize(strings.TrimSpace(studentName), len(normalized), sessions),
		CreatedAt:   now,
		Sessions:    sessions,
	}

	if err := s.plans.CreatePlan(plan); err != nil {
		return nil, nil, fmt.Errorf("failed to persist plan: %w", err)
	}

	meta := &models.PlanMeta{
		Model:       "smart-study-planner",
		Summary:     plan.Summary,
		Tips:        planner.PlanTips(),
		TotalTopics: len(normalized),
		TotalDays:   plan.TotalDays(),
	}

	// The exam date never blocks generation; a schedule that outruns it
	// only earns a warning for the caller to surface.
	if daysLeft := planner.DaysUntil(plan.ExamDate, now); daysLeft >= 0 && plan.TotalDays() > daysLeft {
		meta.Warning = fmt.Sprintf("the schedule needs %d days but only %d remain before the exam", plan.TotalDays(), daysLeft)
	}

	return plan, meta, nil
}

// GetPlan retrieves one of the user's plans
func (s *PlanService) GetPlan(userID int64, planID string) (*models.StudyPlan, error) {
	plan, err := s.plans.GetPlanByPlanID(planID)
	if err != nil {
		return nil, fmt.Errorf("failed to load plan: %w", err)
	}
	if plan == nil || plan.UserID != userID {
		return nil, ErrPlanNotFound
	}
	return plan, nil
}

// ListPlans retrieves all of the user's plans, newest first
func (s *PlanService) ListPlans(userID int64) ([]models.StudyPlan, error) {
	plans, err := s.plans.ListPlansByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list plans: %w", err)
	}
	return plans, nil
}

// DeletePlan removes one of the user's plans together with its sessions
// and progress events
func (s *PlanService) DeletePlan(userID int64, planID string) error {
	deleted, err := s.plans.DeletePlan(planID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete plan: %w", err)
	}
	if !deleted {
		return ErrPlanNotFound
	}
	return nil
}

// normalizeTopics trims fields, fills defaults and drops entries with no
// topic text, mirroring how the planner treats sloppy form input
func normalizeTopics(topics []models.Topic) ([]models.Topic, error) {
	var normalized []models.Topic
	for i, t := range topics {
		topicText := strings.TrimSpace(t.Topic)
		if topicText == "" {
			continue
		}

		course := strings.TrimSpace(t.Course)
		if course == "" {
			course = fmt.Sprintf("Subject %d", i+1)
		}

		difficulty := models.Difficulty(strings.ToLower(strings.TrimSpace(string(t.Difficulty))))
		if difficulty == "" {
			difficulty = models.DifficultyMedium
		}
		if err := validation.ValidateDifficulty(string(difficulty)); err != nil {
			return nil, err
		}

		normalized = append(normalized, models.Topic{
			Course:     course,
			Topic:      topicText,
			Difficulty: difficulty,
		})
	}

	if len(normalized) == 0 {
		return nil, validation.ValidationError{Field: "topics", Message: "at least one topic is required"}
	}
	return normalized, nil
}
