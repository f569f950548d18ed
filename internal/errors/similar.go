package errors

import "sort"

// SimilarNames returns the candidates within edit distance 2 of target, sorted
func SimilarNames(target string, candidates []string) []string {
	var similar []string
	seen := make(map[string]bool)
	for _, candidate := range candidates {
		if candidate == target || seen[candidate] || len(candidate) <= 1 {
			continue
		}
		if levenshteinDistance(target, candidate) <= 2 {
			similar = append(similar, candidate)
			seen[candidate] = true
		}
	}
	sort.Strings(similar)
	return similar
}

func levenshteinDistance(a, b string) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}
	if len(a) > len(b) {
		a, b = b, a
	}

	previous := make([]int, len(a)+1)
	for i := range previous {
		previous[i] = i
	}

	for i := 0; i < len(b); i++ {
		current := make([]int, len(a)+1)
		current[0] = i + 1
		for j := 0; j < len(a); j++ {
			cost := 1
			if a[j] == b[i] {
				cost = 0
			}
			current[j+1] = min(current[j]+1, previous[j+1]+1, previous[j]+cost)
		}
		previous = current
	}

	return previous[len(a)]
}
