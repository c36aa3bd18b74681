package models

// Verdict is the ordinal significance level assigned to a candidate
// distribution relative to the reference baseline. Each level implies all
// lower levels: RobustlySeparated distributions are also HighlySignificant
// and Significant.
type Verdict int

const (
	// VerdictNone means the empirical 95% intervals overlap
	VerdictNone Verdict = iota

	// VerdictSignificant means the [2.5, 97.5] percentile intervals of the
	// two distributions do not overlap
	VerdictSignificant

	// VerdictHighlySignificant additionally requires the full [min, max]
	// ranges not to overlap
	VerdictHighlySignificant

	// VerdictRobustlySeparated additionally requires the gap between the
	// nearest range edges to exceed the sum of both standard deviations
	VerdictRobustlySeparated
)

// String returns the tier name used in the summary table
func (v Verdict) String() string {
	switch v {
	case VerdictNone:
		return "None"
	case VerdictSignificant:
		return "Significant"
	case VerdictHighlySignificant:
		return "HighlySignificant"
	case VerdictRobustlySeparated:
		return "RobustlySeparated"
	}
	return "Unknown"
}

// Stars returns the publication-style star label for plot annotations:
// "(*)", "(**)", "(***)" or "" for no separation.
func (v Verdict) Stars() string {
	switch v {
	case VerdictSignificant:
		return "(*)"
	case VerdictHighlySignificant:
		return "(**)"
	case VerdictRobustlySeparated:
		return "(***)"
	}
	return ""
}
