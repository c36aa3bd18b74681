package models

import "fmt"

// ComparisonType classifies a pair of image-set folders.
type ComparisonType int

const (
	// Intra compares a set against itself
	Intra ComparisonType = iota

	// Inter compares the designated reference set against another set
	Inter

	// Cross compares two sets, neither of which is the reference set
	Cross
)

// String returns the comparison type name used in report tables
func (c ComparisonType) String() string {
	switch c {
	case Intra:
		return "Intra"
	case Inter:
		return "Inter"
	case Cross:
		return "Cross"
	}
	return "Unknown"
}

// ComparisonTag labels one (folder A, folder B) comparison. Exactly one tag
// exists per folder pair: equal folders are Intra, pairs touching the
// reference set are Inter, everything else is Cross.
type ComparisonTag struct {
	// Type is the Intra/Inter/Cross classification
	Type ComparisonType

	// Label is the display name, e.g. "Intra_Dens_200000" or
	// "Cross_Macro_Thin_vs_Macro_Thick"
	Label string
}

// ClassifyPair derives the comparison tag for a folder pair given the
// configured reference set name.
func ClassifyPair(folderA, folderB, referenceSet string) ComparisonTag {
	switch {
	case folderA == folderB:
		return ComparisonTag{Type: Intra, Label: "Intra_" + folderA}
	case folderA == referenceSet:
		return ComparisonTag{Type: Inter, Label: "Inter_" + folderB}
	case folderB == referenceSet:
		return ComparisonTag{Type: Inter, Label: "Inter_" + folderA}
	default:
		return ComparisonTag{Type: Cross, Label: fmt.Sprintf("Cross_%s_vs_%s", folderA, folderB)}
	}
}
