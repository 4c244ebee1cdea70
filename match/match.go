// Package match recovers near-miss enum values through fuzzy string
// matching, turning what would be hard errors on select and radio fields
// into corrected values or soft warnings.
package match

import "strings"

// MaxDistance is the largest edit distance still considered a match.
const MaxDistance = 3

// ClosestOption finds the valid option closest to input, trying in order:
//
//  1. case-insensitive exact match, before and after normalizing the
//     input (lowercase, spaces to hyphens)
//  2. substring containment in either direction
//  3. Levenshtein distance at most MaxDistance, picking the minimum
//
// The second return is false when no option qualifies; callers surface
// that as a warning rather than dropping the value.
func ClosestOption(input string, options []string) (string, bool) {
	in := strings.ToLower(strings.TrimSpace(input))
	if in == "" || len(options) == 0 {
		return "", false
	}
	hyphenated := strings.ReplaceAll(in, " ", "-")

	for _, opt := range options {
		lower := strings.ToLower(opt)
		if lower == in || lower == hyphenated {
			return opt, true
		}
	}

	for _, opt := range options {
		lower := strings.ToLower(opt)
		if strings.Contains(lower, in) || strings.Contains(in, lower) {
			return opt, true
		}
	}

	best := ""
	bestDist := MaxDistance + 1
	for _, opt := range options {
		if d := Levenshtein(in, strings.ToLower(opt)); d < bestDist {
			bestDist = d
			best = opt
		}
	}
	if bestDist <= MaxDistance {
		return best, true
	}
	return "", false
}

// Levenshtein computes the edit distance between two strings using a
// single-row dynamic program.
func Levenshtein(a, b string) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr := make([]int, len(b)+1)
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			ins := curr[j-1] + 1
			del := prev[j] + 1
			sub := prev[j-1] + cost
			curr[j] = min(ins, del, sub)
		}
		prev = curr
	}
	return prev[len(b)]
}
