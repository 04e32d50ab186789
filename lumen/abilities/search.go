package abilities

import (
	"strings"

	"github.com/sahilm/fuzzy"
)

// abilitySource implements fuzzy.Source over the catalog.
type abilitySource []Ability

func (s abilitySource) Len() int            { return len(s) }
func (s abilitySource) String(i int) string { return strings.ToLower(s[i].Name) }

// Search fuzzy-matches the catalog by ability name, best matches
// first. An empty query returns the whole catalog in order.
func Search(query string) []Ability {
	if query == "" {
		return append([]Ability(nil), Catalog...)
	}

	matches := fuzzy.FindFrom(strings.ToLower(query), abilitySource(Catalog))
	results := make([]Ability, len(matches))
	for i, m := range matches {
		results[i] = Catalog[m.Index]
	}
	return results
}
