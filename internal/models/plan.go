package models

import "time"

// Difficulty rates how demanding a topic is to study
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// SessionState tracks where a study session is in its lifecycle
type SessionState string

const (
	SessionPending   SessionState = "pending"
	SessionActive    SessionState = "active"
	SessionCompleted SessionState = "completed"
)

// Topic is one subject/topic pair a student wants to study.
// Topics are input only; they are not persisted independently.
type Topic struct {
	Course     string     `json:"course"`
	Topic      string     `json:"topic"`
	Difficulty Difficulty `json:"difficulty"`
}

// SessionItem is one scheduled, time-boxed study block for a topic or
// one part of a topic that was split across days.
type SessionItem struct {
	Day               int          `json:"day"`
	Course            string       `json:"course"`
	Topic             string       `json:"topic"`
	Difficulty        Difficulty   `json:"difficulty"`
	SuggestedMinutes  int          `json:"suggested_minutes"`
	Part              *int         `json:"part,omitempty"`
	BreakAfterMinutes *int         `json:"break_after_minutes,omitempty"`
	Hint              string       `json:"hint"`
	State             SessionState `json:"state"`
	Completed         bool         `json:"completed"`
	TimeSpentSeconds  int          `json:"time_spent_seconds"`
}

// TargetSeconds returns the number of seconds the session aims for
func (s *SessionItem) TargetSeconds() int {
	return s.SuggestedMinutes * 60
}

// StudyPlan is the complete ordered session sequence produced for one
// scheduling request. The sequence is immutable once generated; only
// per-session progress fields mutate afterwards.
type StudyPlan struct {
	ID          int64         `json:"-"`
	PlanID      string        `json:"plan_id"`
	UserID      int64         `json:"user_id"`
	StudentName string        `json:"student_name"`
	ExamDate    string        `json:"exam_date,omitempty"`
	DailyHours  float64       `json:"daily_hours"`
	Summary     string        `json:"summary"`
	CreatedAt   time.Time     `json:"created_at"`
	Sessions    []SessionItem `json:"sessions"`
}

// TotalSessions returns the number of sessions in the plan
func (p *StudyPlan) TotalSessions() int {
	return len(p.Sessions)
}

// CompletedSessions counts sessions marked completed
func (p *StudyPlan) CompletedSessions() int {
	count := 0
	for i := range p.Sessions {
		if p.Sessions[i].Completed {
			count++
		}
	}
	return count
}

// IsFinished reports whether every session in the plan is completed
func (p *StudyPlan) IsFinished() bool {
	return len(p.Sessions) > 0 && p.CompletedSessions() == len(p.Sessions)
}

// TotalDays returns the highest day label in the plan
func (p *StudyPlan) TotalDays() int {
	days := 0
	for i := range p.Sessions {
		if p.Sessions[i].Day > days {
			days = p.Sessions[i].Day
		}
	}
	return days
}

// PlanMeta is the deterministic "AI" annotation returned alongside a
// freshly generated plan: a summary, study tips and schedule counts.
type PlanMeta struct {
	Model       string   `json:"model"`
	Summary     string   `json:"summary"`
	Tips        []string `json:"tips"`
	TotalTopics int      `json:"total_topics"`
	TotalDays   int      `json:"total_days"`
	Warning     string   `json:"warning,omitempty"`
}
