package planner

import (
	"math"

	"studyplanner/internal/models"
)

const (
	// BaseSessionMinutes is the session length for a medium topic
	BaseSessionMinutes = 45

	// MinSessionMinutes and MaxEstimateMinutes clamp the estimator output
	MinSessionMinutes  = 20
	MaxEstimateMinutes = 120
)

// difficulty multipliers applied to the base session length
var difficultyMultipliers = map[models.Difficulty]float64{
	models.DifficultyEasy:   0.75,
	models.DifficultyMedium: 1.0,
	models.DifficultyHard:   1.5,
}

// Estimate returns the suggested total study minutes for a topic of the
// given difficulty. Unknown difficulties fall back to medium. The result
// is rounded to the nearest minute and clamped to [20, 120].
func Estimate(difficulty models.Difficulty) int {
	multiplier, ok := difficultyMultipliers[difficulty]
	if !ok {
		multiplier = 1.0
	}

	minutes := int(math.Round(BaseSessionMinutes * multiplier))

	if minutes < MinSessionMinutes {
		return MinSessionMinutes
	}
	if minutes > MaxEstimateMinutes {
		return MaxEstimateMinutes
	}
	return minutes
}
