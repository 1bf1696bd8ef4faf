package validate

import (
	"sort"

	"github.com/agnivade/levenshtein"
)

// maxSuggestDistance bounds which candidates are offered as "did you
// mean?" hints (spec §4.6, "within distance 3").
const maxSuggestDistance = 3

// suggest returns every candidate within edit distance 3 of name, sorted
// by ascending distance then lexically, excluding exact matches (spec
// §4.6, "Did-you-mean"). Exact matches are excluded because an exact
// match means the reference wasn't actually unknown.
func suggest(name string, candidates []string) []string {
	type scored struct {
		name string
		dist int
	}
	var hits []scored
	for _, c := range candidates {
		if c == name {
			continue
		}
		d := levenshtein.ComputeDistance(name, c)
		if d <= maxSuggestDistance {
			hits = append(hits, scored{c, d})
		}
	}
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].dist != hits[j].dist {
			return hits[i].dist < hits[j].dist
		}
		return hits[i].name < hits[j].name
	})
	out := make([]string, len(hits))
	for i, h := range hits {
		out[i] = h.name
	}
	return out
}
