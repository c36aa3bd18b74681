package analysis

import (
	"fmt"

	"github.com/montanaflynn/stats"
)

// Stats summarizes one score distribution: sample count, moments, full
// range and the empirical percentile interval used by the significance
// tiers.
type Stats struct {
	// N is the number of scored samples
	N int

	// Mean is the arithmetic mean of the samples
	Mean float64

	// Std is the population standard deviation
	Std float64

	// Min and Max bound the full observed range
	Min float64
	Max float64

	// IntervalLow and IntervalHigh are the empirical percentile interval
	// bounds (2.5th and 97.5th percentile in the reference configuration)
	IntervalLow  float64
	IntervalHigh float64
}

// Summarize computes distribution statistics over a score multiset.
// Empty distributions return an error so degenerate statistics (NaN means)
// never reach the summary output.
func Summarize(values []float64, percentileLow, percentileHigh float64) (Stats, error) {
	if len(values) == 0 {
		return Stats{}, fmt.Errorf("empty distribution")
	}

	var s Stats
	s.N = len(values)

	var err error
	if s.Mean, err = stats.Mean(values); err != nil {
		return Stats{}, err
	}
	if s.Std, err = stats.StandardDeviation(values); err != nil {
		return Stats{}, err
	}
	if s.Min, err = stats.Min(values); err != nil {
		return Stats{}, err
	}
	if s.Max, err = stats.Max(values); err != nil {
		return Stats{}, err
	}
	if s.IntervalLow, err = stats.Percentile(values, percentileLow); err != nil {
		return Stats{}, err
	}
	if s.IntervalHigh, err = stats.Percentile(values, percentileHigh); err != nil {
		return Stats{}, err
	}

	return s, nil
}
