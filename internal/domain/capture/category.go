package capture

import (
	"fmt"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// Category is the closed set of spending categories a record can carry.
type Category string

const (
	CategoryFood          Category = "food"
	CategoryTransport     Category = "transport"
	CategoryEntertainment Category = "entertainment"
	CategoryShopping      Category = "shopping"
	CategoryUtility       Category = "utility"
	CategoryOther         Category = "other"
)

// Categories returns the vocabulary in declaration order.
func Categories() []Category {
	return []Category{
		CategoryFood,
		CategoryTransport,
		CategoryEntertainment,
		CategoryShopping,
		CategoryUtility,
		CategoryOther,
	}
}

// IsValid reports whether c belongs to the vocabulary.
func (c Category) IsValid() bool {
	for _, known := range Categories() {
		if c == known {
			return true
		}
	}
	return false
}

// ParseCategory does an exact, case-insensitive vocabulary lookup.
func ParseCategory(name string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(name)))
	if !c.IsValid() {
		return "", fmt.Errorf("unknown category %q", name)
	}
	return c, nil
}

// LookupCategory resolves a loosely typed category query ("ent", "Transp")
// against the vocabulary. Exact matches win, then the closest fuzzy match.
func LookupCategory(query string) (Category, bool) {
	if c, err := ParseCategory(query); err == nil {
		return c, true
	}

	query = strings.TrimSpace(query)
	if query == "" {
		return "", false
	}

	targets := make([]string, 0, len(Categories()))
	for _, c := range Categories() {
		targets = append(targets, string(c))
	}

	ranks := fuzzy.RankFindNormalizedFold(query, targets)
	if len(ranks) == 0 {
		return "", false
	}
	sort.Sort(ranks)

	return Category(ranks[0].Target), true
}
