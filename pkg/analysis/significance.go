package analysis

import "synthoct/internal/models"

// intervalsOverlap reports whether [l1,h1] and [l2,h2] intersect. The
// bound is inclusive: touching intervals count as overlapping, so a shared
// edge never promotes a verdict.
func intervalsOverlap(l1, h1, l2, h2 float64) bool {
	lo := l1
	if l2 > lo {
		lo = l2
	}
	hi := h1
	if h2 < hi {
		hi = h2
	}
	return lo <= hi
}

// Classify grades how separated a candidate distribution is from the
// baseline. The three tiers are ascending and each is a precondition for
// the next:
//
//  1. the empirical percentile intervals do not overlap -> Significant
//  2. the full [min, max] ranges do not overlap -> HighlySignificant
//  3. the gap between the nearest range edges exceeds the sum of both
//     standard deviations -> RobustlySeparated
//
// This is a distribution-free surrogate for a significance test: no
// parametric assumptions, no multiple-comparison correction. It trades
// formal rigor for interpretability and robustness to the heavy-tailed
// score distributions some metrics produce.
func Classify(baseline, candidate Stats) models.Verdict {
	if baseline.N == 0 || candidate.N == 0 {
		return models.VerdictNone
	}

	if intervalsOverlap(baseline.IntervalLow, baseline.IntervalHigh, candidate.IntervalLow, candidate.IntervalHigh) {
		return models.VerdictNone
	}

	if intervalsOverlap(baseline.Min, baseline.Max, candidate.Min, candidate.Max) {
		return models.VerdictSignificant
	}

	var gap float64
	if baseline.Min > candidate.Max {
		gap = baseline.Min - candidate.Max
	} else {
		gap = candidate.Min - baseline.Max
	}

	if gap > baseline.Std+candidate.Std {
		return models.VerdictRobustlySeparated
	}
	return models.VerdictHighlySignificant
}
