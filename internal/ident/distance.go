package ident

// Levenshtein computes the edit distance between two strings: the
// minimum number of single-character insertions, deletions, or
// substitutions transforming one into the other.
//
// Space complexity: O(min(len(a), len(b))).
func Levenshtein(a, b string) int {
	if a == b {
		return 0
	}

	if len(a) == 0 {
		return len(b)
	}

	if len(b) == 0 {
		return len(a)
	}

	// Ensure a is the shorter string for space optimization
	if len(a) > len(b) {
		a, b = b, a
	}

	prev := make([]int, len(a)+1)
	curr := make([]int, len(a)+1)

	for i := range prev {
		prev[i] = i
	}

	for j := 1; j <= len(b); j++ {
		curr[0] = j

		for i := 1; i <= len(a); i++ {
			cost := 0
			if a[i-1] != b[j-1] {
				cost = 1
			}

			curr[i] = min3(
				prev[i]+1,      // deletion
				curr[i-1]+1,    // insertion
				prev[i-1]+cost, // substitution
			)
		}

		prev, curr = curr, prev
	}

	return prev[len(a)]
}

// Closest returns the candidate with the smallest normalized edit
// distance to name, provided that distance does not exceed maxDist.
// Candidates are compared in normalized form so that case and separator
// differences do not count against them.
func Closest(name string, candidates []string, maxDist int) (string, bool) {
	norm := Normalize(name)

	best := ""
	bestDist := maxDist + 1

	for _, c := range candidates {
		d := Levenshtein(norm, Normalize(c))
		if d < bestDist {
			best = c
			bestDist = d
		}
	}

	return best, bestDist <= maxDist
}

func min3(a, b, c int) int {
	if a < b {
		if a < c {
			return a
		}

		return c
	}

	if b < c {
		return b
	}

	return c
}
