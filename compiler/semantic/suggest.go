package semantic

import (
	"github.com/agnivade/levenshtein"
)

// suggest returns the candidate closest to name by edit distance, or "" if
// none is close enough to be a plausible typo.
func suggest(name string, candidates []string) string {
	limit := len(name) / 3
	if limit < 1 {
		limit = 1
	}
	var best string
	bestDist := limit + 1
	for _, c := range candidates {
		if c == name {
			continue
		}
		if d := levenshtein.ComputeDistance(name, c); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}
