package fsrs

import "math"

type fuzzRange struct {
	start, end, factor float64
}

// fuzzRanges are the banded fuzz factors, in days. The last range is
// open-ended (math.Inf(1)). The matching range's factor is applied to the
// whole interval, not accumulated across the ranges it spans.
var fuzzRanges = []fuzzRange{
	{2.5, 7.0, 0.15},
	{7.0, 20.0, 0.10},
	{20.0, math.Inf(1), 0.05},
}

// fuzzIntervalDays applies banded uniform jitter to a whole-day interval.
// Intervals under 2.5 days are returned unchanged. The result is clamped to
// [2, maximumInterval] before rounding to the nearest day.
func fuzzIntervalDays(rand RandSource, maximumInterval int, intervalDays int) int {
	days := float64(intervalDays)
	if days < 2.5 {
		return intervalDays
	}

	factor := fuzzRanges[len(fuzzRanges)-1].factor
	for _, rg := range fuzzRanges {
		if days < rg.end {
			factor = rg.factor
			break
		}
	}
	delta := math.Round(factor * days)

	minDays := math.Max(2, days-delta)
	maxDays := math.Min(float64(maximumInterval), days+delta)
	if minDays > maxDays {
		minDays = maxDays
	}

	fuzzed := minDays + (maxDays-minDays)*rand.Float64()
	return int(math.Round(fuzzed))
}
