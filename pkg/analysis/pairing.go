// Package analysis turns folders of derived maps into pairwise similarity
// distributions and classifies each candidate distribution against the
// reference set's intra-class baseline with a tiered empirical
// significance ladder.
package analysis

import "synthoct/internal/models"

// PairIndices returns the comparison partner indices for source index i
// under the neighbor-depth pairing policy. The policy bounds the number of
// comparisons per source image instead of taking the full cross product.
//
// Intra comparisons walk the upper-triangular neighbor band within the
// same sequence: i+1 .. min(i+depth, lenA-1), so no pair is scored twice
// and no image is compared with itself. Inter and Cross comparisons take a
// symmetric band in the other sequence, max(0, i-depth) .. min(lenB-1,
// i+depth), excluding the index-equal pair: folders sharing a physical
// indexing scheme would otherwise contribute spurious zero-distance
// scores.
func PairIndices(tagType models.ComparisonType, i, lenA, lenB, depth int) []int {
	var partners []int

	if tagType == models.Intra {
		end := i + depth
		if end > lenA-1 {
			end = lenA - 1
		}
		for j := i + 1; j <= end; j++ {
			partners = append(partners, j)
		}
		return partners
	}

	start := i - depth
	if start < 0 {
		start = 0
	}
	end := i + depth
	if end > lenB-1 {
		end = lenB - 1
	}
	for j := start; j <= end; j++ {
		if j == i {
			continue
		}
		partners = append(partners, j)
	}
	return partners
}
