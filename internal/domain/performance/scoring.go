package performance

import "math"

// ComputeScore is the percentage of target reached. target must be positive.
func ComputeScore(target, actual float64) float64 {
	return actual / target * 100
}

// ComputeAchievement weights a score by the assessment weight, as a
// percentage of the full score.
func ComputeAchievement(weight, score float64) float64 {
	return weight / 100 * score
}

// Round2 rounds half away from zero to two decimals.
func Round2(value float64) float64 {
	return math.Round(value*100) / 100
}
