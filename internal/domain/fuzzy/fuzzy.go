// Package fuzzy provides the similarity score used by every
// reconciliation decision.
//
// The score is a longest-common-subsequence ratio in [0, 1]:
//
//	similarity = 2 * lcs(a, b) / (len(a) + len(b))
//
// Identical strings score 1.0, disjoint strings approach 0, and the
// score is symmetric in its arguments. Comparison is case-insensitive.
package fuzzy

import "strings"

// Similarity returns the normalized similarity between two strings.
func Similarity(a, b string) float64 {
	ra := []rune(strings.ToLower(a))
	rb := []rune(strings.ToLower(b))

	if len(ra)+len(rb) == 0 {
		return 1.0
	}

	return 2.0 * float64(lcsLength(ra, rb)) / float64(len(ra)+len(rb))
}

// lcsLength computes the longest-common-subsequence length with a
// two-row dynamic program.
func lcsLength(a, b []rune) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)

	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				curr[j] = prev[j-1] + 1
			} else if prev[j] >= curr[j-1] {
				curr[j] = prev[j]
			} else {
				curr[j] = curr[j-1]
			}
		}
		prev, curr = curr, prev
	}

	return prev[len(b)]
}
