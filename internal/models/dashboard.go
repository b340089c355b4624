package models

import "time"

// DashboardStats is the derived per-user summary. It is recomputed from
// persisted plans and progress events on every read, never stored.
type DashboardStats struct {
	TotalStudyTime  int             `json:"total_study_time"` // minutes
	CompletedTopics int             `json:"completed_topics"`
	TotalPlans      int             `json:"total_plans"`
	ActivePlans     int             `json:"active_plans"`
	TotalSessions   int             `json:"total_sessions"`
	CompletionRate  float64         `json:"completion_rate"` // percent, one decimal
	DailyActivity   []DailyActivity `json:"daily_activity"`
	RecentPlans     []RecentPlan    `json:"recent_plans"`
}

// DailyActivity is one bucket of the last-seven-days activity chart
type DailyActivity struct {
	Date      string `json:"date"` // YYYY-MM-DD
	Day       string `json:"day"`  // weekday label, e.g. "Mon"
	StudyTime int    `json:"study_time"` // minutes
}

// RecentPlan is a plan annotated with its own completion progress for
// the dashboard's recent-plans list
type RecentPlan struct {
	PlanID            string    `json:"plan_id"`
	StudentName       string    `json:"student_name"`
	DailyHours        float64   `json:"daily_hours"`
	CreatedAt         time.Time `json:"created_at"`
	Progress          int       `json:"progress"` // percent, nearest integer
	TotalSessions     int       `json:"total_sessions"`
	CompletedSessions int       `json:"completed_sessions"`
}
