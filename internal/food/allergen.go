package food

import (
	"sort"
	"strings"
)

// Canonical allergen tags as stored in the catalog.
const (
	AllergenWheat     = "밀"
	AllergenSoy       = "콩"
	AllergenEgg       = "달걀"
	AllergenFish      = "생선"
	AllergenShellfish = "갑각류"
)

// KnownAllergens is the fixed list offered to users, in display order.
var KnownAllergens = []string{AllergenWheat, AllergenSoy, AllergenEgg, AllergenFish, AllergenShellfish}

var allergenAliases = map[string]string{
	"wheat":      AllergenWheat,
	"gluten":     AllergenWheat,
	"soy":        AllergenSoy,
	"soybean":    AllergenSoy,
	"egg":        AllergenEgg,
	"eggs":       AllergenEgg,
	"계란":         AllergenEgg,
	"fish":       AllergenFish,
	"shellfish":  AllergenShellfish,
	"crustacean": AllergenShellfish,
}

// AllergenSet is a set of canonical allergen tags.
type AllergenSet map[string]struct{}

// NewAllergenSet normalizes tags into a set.
func NewAllergenSet(tags ...string) AllergenSet {
	set := make(AllergenSet, len(tags))
	for _, t := range tags {
		if t = NormalizeAllergen(t); t != "" {
			set[t] = struct{}{}
		}
	}
	return set
}

// ParseAllergens splits a comma separated list such as "egg, 콩".
func ParseAllergens(s string) AllergenSet {
	return NewAllergenSet(strings.Split(s, ",")...)
}

// NormalizeAllergen trims the tag and maps English aliases to catalog tags.
func NormalizeAllergen(tag string) string {
	tag = strings.TrimSpace(tag)
	if canonical, ok := allergenAliases[strings.ToLower(tag)]; ok {
		return canonical
	}
	return tag
}

// NormalizeAllergens maps item tags to catalog tags, dropping blanks and
// repeats. Order of first occurrence is kept.
func NormalizeAllergens(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(AllergenSet, len(tags))
	for _, t := range tags {
		t = NormalizeAllergen(t)
		if t == "" || seen.Contains(t) {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

// Contains reports whether tag is in the set.
func (s AllergenSet) Contains(tag string) bool {
	_, ok := s[tag]
	return ok
}

// Slice returns the tags sorted.
func (s AllergenSet) Slice() []string {
	out := make([]string, 0, len(s))
	for t := range s {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}
