// Package stage classifies an artist's career stage from the self-assessment.
package stage

import "stagehand/internal/models"

const (
	minScore = 1
	maxScore = 5
)

// Average returns the arithmetic mean of the six scores after clamping each into [1,5].
func Average(scores models.StageScores) float64 {
	values := scores.Values()
	sum := 0
	for _, v := range values {
		sum += clamp(v)
	}
	return float64(sum) / float64(len(values))
}

// FromScores maps the assessment to a stage. Boundaries belong to the higher bracket.
func FromScores(scores models.StageScores) models.Stage {
	avg := Average(scores)
	switch {
	case avg < 2:
		return models.StageEmerging
	case avg < 3:
		return models.StageDeveloping
	case avg < 4:
		return models.StageEstablished
	default:
		return models.StageBreakout
	}
}

// Describe returns a one-line focus for the stage.
func Describe(s models.Stage) string {
	switch s {
	case models.StageEmerging:
		return "Build the catalog and play small rooms where you can fill the space."
	case models.StageDeveloping:
		return "Grow a repeat local draw and start routing regional runs."
	case models.StageEstablished:
		return "Invest in a team and bigger releases; mid-size rooms and festivals are in reach."
	case models.StageBreakout:
		return "Protect margins while scaling into theaters and arenas."
	default:
		return ""
	}
}

func clamp(v int) int {
	if v < minScore {
		return minScore
	}
	if v > maxScore {
		return maxScore
	}
	return v
}
