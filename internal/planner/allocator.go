package planner

import (
	"errors"
	"math"
	"time"

	"studyplanner/internal/models"
	"studyplanner/internal/validation"
)

const (
	// MaxSessionMinutes caps a single time-boxed session regardless of
	// the remaining daily budget
	MaxSessionMinutes = 90

	// BreakMinutes is inserted after a topic's final session when more
	// topics follow on the same day
	BreakMinutes = 10

	// MaxPlanSessions guards against a misconfigured estimator producing
	// a runaway schedule
	MaxPlanSessions = 500
)

// ErrTooManySessions is returned when allocation exceeds MaxPlanSessions
var ErrTooManySessions = errors.New("schedule exceeds maximum session count")

// Allocate bin-packs topics into day buckets bounded by the daily time
// budget. Topics are scheduled strictly in input order; a topic whose
// estimate does not fit the remaining day is split into ordered parts,
// with the remainder spilling to the next day. Within a day the summed
// minutes never exceed dailyHours*60.
func Allocate(topics []models.Topic, dailyHours float64) ([]models.SessionItem, error) {
	if dailyHours <= 0 {
		return nil, validation.ValidationError{Field: "daily_hours", Message: "daily hours must be greater than zero"}
	}
	if len(topics) == 0 {
		return nil, validation.ValidationError{Field: "topics", Message: "no topics provided"}
	}

	budgetMinutes := int(math.Round(dailyHours * 60))
	if budgetMinutes <= 0 {
		return nil, validation.ValidationError{Field: "daily_hours", Message: "daily budget rounds to zero minutes"}
	}

	var sessions []models.SessionItem
	day := 1
	usedToday := 0

	for topicIdx, topic := range topics {
		remaining := Estimate(topic.Difficulty)
		partIndex := 0

		for remaining > 0 {
			if len(sessions) >= MaxPlanSessions {
				return nil, ErrTooManySessions
			}

			available := budgetMinutes - usedToday
			if available <= 0 {
				day++
				usedToday = 0
				available = budgetMinutes
			}

			chunk := remaining
			if chunk > available {
				chunk = available
			}
			if chunk > MaxSessionMinutes {
				chunk = MaxSessionMinutes
			}

			item := models.SessionItem{
				Day:              day,
				Course:           topic.Course,
				Topic:            topic.Topic,
				Difficulty:       topic.Difficulty,
				SuggestedMinutes: chunk,
				State:            models.SessionPending,
			}

			// Once a topic splits, every one of its chunks carries the
			// next contiguous part index.
			if chunk < remaining || partIndex > 0 {
				partIndex++
				part := partIndex
				item.Part = &part
			}

			sessions = append(sessions, item)
			usedToday += chunk
			remaining -= chunk
		}

		// A short break after each topic, unless it was the last topic
		// or its final chunk filled the day exactly (implicit boundary).
		if topicIdx < len(topics)-1 && usedToday < budgetMinutes {
			breakAfter := BreakMinutes
			sessions[len(sessions)-1].BreakAfterMinutes = &breakAfter
		}
	}

	return sessions, nil
}

// DaysUntil returns the whole days between from and the exam date, or
// -1 when examDate is empty or malformed. Used only to warn the caller;
// the allocator itself never rejects a schedule that outruns the exam.
func DaysUntil(examDate string, from time.Time) int {
	if examDate == "" {
		return -1
	}
	exam, err := time.Parse("2006-01-02", examDate)
	if err != nil {
		return -1
	}
	start := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	return int(exam.Sub(start).Hours() / 24)
}
