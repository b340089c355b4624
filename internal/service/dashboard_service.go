package service

import (
	"fmt"
	"math"
	"time"

	"studyplanner/internal/models"
)

// recentPlanLimit caps the dashboard's recent-plans list
const recentPlanLimit = 5

// DashboardService recomputes the per-user dashboard from persisted
// plans and the progress event log on every read. There are no cached
// counters; the result is always consistent with the latest writes.
type DashboardService struct {
	plans  PlanStore
	events ProgressStore
	now    func() time.Time
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(plans PlanStore, events ProgressStore) *DashboardService {
	return &DashboardService{
		plans:  plans,
		events: events,
		now:    time.Now,
	}
}

// GetDashboard computes the user's dashboard statistics
func (s *DashboardService) GetDashboard(userID int64) (*models.DashboardStats, error) {
	plans, err := s.plans.ListPlansByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load plans: %w", err)
	}

	stats := &models.DashboardStats{
		TotalPlans:  len(plans),
		RecentPlans: []models.RecentPlan{},
	}

	totalSeconds := 0
	for i := range plans {
		plan := &plans[i]
		active := false
		for j := range plan.Sessions {
			session := &plan.Sessions[j]
			totalSeconds += session.TimeSpentSeconds
			stats.TotalSessions++
			if session.Completed {
				stats.CompletedTopics++
			} else {
				active = true
			}
		}
		if active {
			stats.ActivePlans++
		}
	}

	stats.TotalStudyTime = totalSeconds / 60
	if stats.TotalSessions > 0 {
		rate := float64(stats.CompletedTopics) / float64(stats.TotalSessions) * 100
		stats.CompletionRate = math.Round(rate*10) / 10
	}

	activity, err := s.dailyActivity(userID)
	if err != nil {
		return nil, err
	}
	stats.DailyActivity = activity

	for i := range plans {
		if i >= recentPlanLimit {
			break
		}
		plan := &plans[i]
		progress := 0
		if plan.TotalSessions() > 0 {
			progress = int(math.Round(float64(plan.CompletedSessions()) / float64(plan.TotalSessions()) * 100))
		}
		stats.RecentPlans = append(stats.RecentPlans, models.RecentPlan{
			PlanID:            plan.PlanID,
			StudentName:       plan.StudentName,
			DailyHours:        plan.DailyHours,
			CreatedAt:         plan.CreatedAt,
			Progress:          progress,
			TotalSessions:     plan.TotalSessions(),
			CompletedSessions: plan.CompletedSessions(),
		})
	}

	return stats, nil
}

// dailyActivity sums event-logged study seconds into the last seven UTC
// calendar days, oldest first. Days with no events report zero.
func (s *DashboardService) dailyActivity(userID int64) ([]models.DailyActivity, error) {
	today := s.now().UTC().Truncate(24 * time.Hour)
	windowStart := today.AddDate(0, 0, -6)

	events, err := s.events.ListEventsForUser(userID, windowStart)
	if err != nil {
		return nil, fmt.Errorf("failed to load progress events: %w", err)
	}

	perDay := make(map[string]int)
	for _, e := range events {
		day := e.CreatedAt.UTC().Format("2006-01-02")
		perDay[day] += e.ElapsedSeconds
	}

	activity := make([]models.DailyActivity, 0, 7)
	for i := 0; i < 7; i++ {
		day := windowStart.AddDate(0, 0, i)
		key := day.Format("2006-01-02")
		activity = append(activity, models.DailyActivity{
			Date:      key,
			Day:       day.Weekday().String()[:3],
			StudyTime: perDay[key] / 60,
		})
	}

	return activity, nil
}
