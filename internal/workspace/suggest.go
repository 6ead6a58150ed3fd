package workspace

import (
	"github.com/agnivade/levenshtein"
)

// maxSuggestDistance bounds how different a suggestion may be from the input.
const maxSuggestDistance = 3

// Suggest returns the candidate closest to name, or "" when nothing is close.
func Suggest(name string, candidates []string) string {
	best, bestDist := "", maxSuggestDistance+1
	for _, c := range candidates {
		d := levenshtein.ComputeDistance(name, c)
		if d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}

// Unknown returns the names that are not units of the catalog.
func (c *Catalog) Unknown(names []string) []string {
	var out []string
	for _, n := range names {
		if _, ok := c.Unit(n); !ok {
			out = append(out, n)
		}
	}
	return out
}
