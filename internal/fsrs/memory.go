package fsrs

import "math"

// Decay is the fixed exponent of the forgetting curve.
const Decay = -0.5

// Factor is derived from Decay at load time rather than hard-coded, so the
// two constants cannot drift apart.
var Factor = math.Pow(0.9, 1.0/Decay) - 1.0

// initialDifficultyEasy is the hard-coded initial difficulty for an "easy"
// first rating. It also serves as the mean-reversion target for
// nextDifficulty.
const initialDifficultyEasy = 3.2245015893713678

// minStability is the floor applied to stability so that it never reaches
// zero, which would make retrievability and the power-law formulas above it
// undefined.
const minStability = 0.001

// initialStability is a fixed 4-entry table, not derived from the
// Scheduler's parameter vector: a custom parameter vector does not change
// initial stability. The table happens to match the first four default
// weights, but it is the table that is authoritative.
func initialStability(r Rating) float64 {
	switch r {
	case Again:
		return 0.40255
	case Hard:
		return 1.18385
	case Good:
		return 3.173
	case Easy:
		return 15.69105
	default:
		return 0.40255
	}
}

// initialDifficulty is likewise a fixed table, derived from but not
// recomputed against the default parameter vector.
func initialDifficulty(r Rating) float64 {
	switch r {
	case Again:
		return 7.1949
	case Hard:
		return 6.488305268471453
	case Good:
		return 5.282434422319005
	case Easy:
		return initialDifficultyEasy
	default:
		return 7.1949
	}
}

func clampDifficulty(d float64) float64 {
	return math.Min(10.0, math.Max(1.0, d))
}

func clampStability(s float64) float64 {
	return math.Max(s, minStability)
}

// retrievability is the probability the card is still recallable after
// elapsedDays days, given the current stability.
func retrievability(elapsedDays, stability float64) float64 {
	return math.Pow(1.0+Factor*elapsedDays/stability, Decay)
}

// nextDifficulty computes the post-review difficulty from the prior
// difficulty d (1.0 if it was absent) and the rating g.
func nextDifficulty(w []float64, d float64, g Rating) float64 {
	delta := -w[6] * (float64(g) - 3.0)
	damped := (10.0 - d) * delta / 9.0
	dPrime := d + damped
	meanReverted := w[7]*initialDifficultyEasy + (1.0-w[7])*dPrime
	return clampDifficulty(meanReverted)
}

// shortTermStability applies when less than a full day has elapsed since the
// last review.
func shortTermStability(w []float64, s float64, g Rating) float64 {
	return clampStability(s * math.Exp(w[17]*((float64(g)-3.0)+w[18])))
}

// nextStabilityRecall applies for ratings Hard, Good, and Easy.
func nextStabilityRecall(w []float64, d, s, r float64, g Rating) float64 {
	hardPenalty := 1.0
	if g == Hard {
		hardPenalty = w[15]
	}
	easyBonus := 1.0
	if g == Easy {
		easyBonus = w[16]
	}
	increase := math.Exp(w[8]) * (11.0 - d) * math.Pow(s, -w[9]) *
		(math.Exp((1.0-r)*w[10]) - 1.0) * hardPenalty * easyBonus
	return clampStability(s * (1.0 + increase))
}

// nextStabilityForget applies for rating Again: the minimum of the
// long-term forgetting curve and a short-term floor.
func nextStabilityForget(w []float64, d, s, r float64) float64 {
	longTerm := w[11] * math.Pow(d, -w[12]) * (math.Pow(s+1.0, w[13]) - 1.0) * math.Exp((1.0-r)*w[14])
	shortTerm := s / math.Exp(w[17]*w[18])
	return clampStability(math.Min(longTerm, shortTerm))
}

// nextStability dispatches to the recall or forget formula by rating.
func nextStability(w []float64, d, s, r float64, g Rating) float64 {
	if g == Again {
		return nextStabilityForget(w, d, s, r)
	}
	return nextStabilityRecall(w, d, s, r, g)
}

// intervalForStabilityDays is the raw next interval in whole days, clamped
// to [1, maximumInterval].
func intervalForStabilityDays(desiredRetention float64, maximumInterval int, stability float64) int {
	days := (stability / Factor) * (math.Pow(desiredRetention, 1.0/Decay) - 1.0)
	rounded := int(math.Round(days))
	if rounded < 1 {
		rounded = 1
	}
	if rounded > maximumInterval {
		rounded = maximumInterval
	}
	return rounded
}
