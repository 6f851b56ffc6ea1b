// Package stringutil contains small string helpers.
package stringutil

import (
	"sort"
	"strings"
)

// LevenshteinDistance returns the edit distance between a and b, counted in
// runes.
func LevenshteinDistance(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}

// FindClosestMatches returns up to limit candidates within maxDistance edits of
// target, closest first. Ties keep candidate order. Comparison ignores case.
func FindClosestMatches(target string, candidates []string, limit, maxDistance int) []string {
	type scored struct {
		value    string
		distance int
	}

	lowered := strings.ToLower(target)
	var matches []scored
	for _, c := range candidates {
		d := LevenshteinDistance(lowered, strings.ToLower(c))
		if d == 0 && c == target {
			continue
		}
		if d <= maxDistance {
			matches = append(matches, scored{value: c, distance: d})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].distance < matches[j].distance
	})

	result := make([]string, 0, min(limit, len(matches)))
	for _, m := range matches {
		if len(result) == limit {
			break
		}
		result = append(result, m.value)
	}
	return result
}
