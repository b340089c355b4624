package planner

import (
	"fmt"

	"studyplanner/internal/models"
)

// hint pools per difficulty tier. Selection rotates through each pool so
// consecutive sessions of the same difficulty never repeat a hint.
var hintPools = map[models.Difficulty][]string{
	models.DifficultyEasy: {
		"Quick win - build confidence with this topic",
		"Warm up with a short recap before diving in",
		"Finish with a one-minute self-quiz",
	},
	models.DifficultyMedium: {
		"Steady pace - focus on the core concepts",
		"Work one example end to end before moving on",
		"Summarise the topic in your own words afterwards",
	},
	models.DifficultyHard: {
		"Deep focus - break the topic into smaller parts",
		"Start with the hardest sub-problem while fresh",
		"Re-derive the key results instead of re-reading them",
	},
}

var defaultHint = "Stay focused and take regular breaks"

// planTips is the fixed advice list attached to every generated plan
var planTips = []string{
	"Start with easier topics to build confidence",
	"Take 5-minute breaks every 25 minutes",
	"Review previous topics regularly",
}

// HintGenerator hands out per-session tips. It is a pure template
// lookup with a rotating index per difficulty tier; given the same
// session sequence it always produces the same hints.
type HintGenerator struct {
	counters map[models.Difficulty]int
}

// NewHintGenerator creates a hint generator with all rotations at zero
func NewHintGenerator() *HintGenerator {
	return &HintGenerator{counters: make(map[models.Difficulty]int)}
}

// Next returns the next hint for the given difficulty and advances the
// tier's rotation
func (g *HintGenerator) Next(difficulty models.Difficulty) string {
	pool, ok := hintPools[difficulty]
	if !ok || len(pool) == 0 {
		return defaultHint
	}
	hint := pool[g.counters[difficulty]%len(pool)]
	g.counters[difficulty]++
	return hint
}

// Annotate fills the Hint field of every session in order
func (g *HintGenerator) Annotate(sessions []models.SessionItem) {
	for i := range sessions {
		sessions[i].Hint = g.Next(sessions[i].Difficulty)
	}
}

// Summarize composes the plan-level summary string from the allocated
// schedule
func Summarize(studentName string, topicCount int, sessions []models.SessionItem) string {
	days := 0
	totalMinutes := 0
	for i := range sessions {
		if sessions[i].Day > days {
			days = sessions[i].Day
		}
		totalMinutes += sessions[i].SuggestedMinutes
	}

	return fmt.Sprintf("Personalized study plan for %s: %d topics across %d days, about %.1f hours of study in total",
		studentName, topicCount, days, float64(totalMinutes)/60)
}

// PlanTips returns the fixed plan-level tips list
func PlanTips() []string {
	tips := make([]string, len(planTips))
	copy(tips, planTips)
	return tips
}
