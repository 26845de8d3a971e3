package usecase

import (
	"sort"
	"strings"

	"github.com/zypric/backend/internal/domain"
)

// DefaultSuggestionLimit caps "did you mean" answers for a search with no hits
const DefaultSuggestionLimit = 3

// SuggestNames returns up to limit product names that are within a few edits
// of query, closest first. The query is compared with the whole name and with
// each word of it, ignoring case. Ties keep catalog order.
func SuggestNames(products []domain.Product, query string, limit int) []string {
	needle := strings.ToLower(strings.TrimSpace(query))
	if needle == "" || limit <= 0 {
		return []string{}
	}

	threshold := max(1, len([]rune(needle))/3)

	type candidate struct {
		name     string
		distance int
		order    int
	}

	var candidates []candidate
	seen := make(map[string]bool)
	for i, p := range products {
		if !p.HasName() || seen[p.Name] {
			continue
		}

		distance := closestDistance(needle, strings.ToLower(p.Name))
		if distance > threshold {
			continue
		}
		seen[p.Name] = true
		candidates = append(candidates, candidate{name: p.Name, distance: distance, order: i})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].distance < candidates[j].distance
	})

	names := make([]string, 0, min(limit, len(candidates)))
	for _, c := range candidates {
		if len(names) == limit {
			break
		}
		names = append(names, c.name)
	}
	return names
}

// closestDistance is the smallest edit distance between needle and name or any word of name
func closestDistance(needle, name string) int {
	best := levenshteinDistance(needle, name)
	for _, word := range strings.Fields(name) {
		// lengths too far apart cannot beat best
		if abs(len(word)-len(needle)) >= best {
			continue
		}
		if d := levenshteinDistance(needle, word); d < best {
			best = d
		}
	}
	return best
}

// levenshteinDistance calculates the edit distance between two strings
func levenshteinDistance(s1, s2 string) int {
	if len(s1) == 0 {
		return len([]rune(s2))
	}
	if len(s2) == 0 {
		return len([]rune(s1))
	}

	r1 := []rune(s1)
	r2 := []rune(s2)
	m := len(r1)
	n := len(r2)

	// Two rows instead of full matrix
	prev := make([]int, n+1)
	curr := make([]int, n+1)

	for j := 0; j <= n; j++ {
		prev[j] = j
	}

	for i := 1; i <= m; i++ {
		curr[0] = i
		for j := 1; j <= n; j++ {
			cost := 0
			if r1[i-1] != r2[j-1] {
				cost = 1
			}
			curr[j] = min(
				prev[j]+1,      // deletion
				curr[j-1]+1,    // insertion
				prev[j-1]+cost, // substitution
			)
		}
		prev, curr = curr, prev
	}

	return prev[n]
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
