package capture

import (
	"regexp"

	"github.com/shopspring/decimal"
)

// AmountSignal collects every amount-related reading of one clause. The
// families are evaluated independently; Resolve decides which one is used.
type AmountSignal struct {
	Quantity      *decimal.Decimal
	UnitPrice     *decimal.Decimal
	ExplicitTotal *decimal.Decimal
	BareAmounts   []decimal.Decimal
}

// Amount resolution rule names, in precedence order.
const (
	RuleExplicitTotal      = "explicit-total"
	RuleQuantityUnitPrice  = "quantity-times-unit-price"
	RuleQuantitySingleBare = "quantity-times-single-amount"
	RuleQuantityFirstBare  = "first-amount-with-quantity"
	RuleFirstBare          = "first-amount"
	RuleNone               = "none"
)

var amountRules = []rule[AmountSignal, decimal.Decimal]{
	{
		name: RuleExplicitTotal,
		match: func(s AmountSignal) (decimal.Decimal, bool) {
			if s.ExplicitTotal == nil {
				return decimal.Zero, false
			}
			return *s.ExplicitTotal, true
		},
	},
	{
		name: RuleQuantityUnitPrice,
		match: func(s AmountSignal) (decimal.Decimal, bool) {
			if s.Quantity == nil || s.UnitPrice == nil {
				return decimal.Zero, false
			}
			return s.Quantity.Mul(*s.UnitPrice), true
		},
	},
	{
		name: RuleQuantitySingleBare,
		match: func(s AmountSignal) (decimal.Decimal, bool) {
			if s.Quantity == nil || len(s.BareAmounts) != 1 {
				return decimal.Zero, false
			}
			return s.Quantity.Mul(s.BareAmounts[0]), true
		},
	},
	{
		// With several bare amounts the first is taken as the amount as-is and
		// the quantity is not applied.
		name: RuleQuantityFirstBare,
		match: func(s AmountSignal) (decimal.Decimal, bool) {
			if s.Quantity == nil || len(s.BareAmounts) == 0 {
				return decimal.Zero, false
			}
			return s.BareAmounts[0], true
		},
	},
	{
		name: RuleFirstBare,
		match: func(s AmountSignal) (decimal.Decimal, bool) {
			if len(s.BareAmounts) == 0 {
				return decimal.Zero, false
			}
			return s.BareAmounts[0], true
		},
	},
}

// Resolve applies the precedence chain and names the rule that decided.
// A signal with nothing in it resolves to zero.
func (s AmountSignal) Resolve() (decimal.Decimal, string) {
	v, name, ok := firstMatch(amountRules, s)
	if !ok {
		return decimal.Zero, RuleNone
	}
	return v, name
}

// quantityMatch is a parsed quantity and the byte range it occupied.
type quantityMatch struct {
	value decimal.Decimal
	span  [2]int
}

var quantityRules = []rule[string, quantityMatch]{
	{name: "multiplier-prefix", match: submatchQuantity(patterns.multiplierBefore)},
	{name: "multiplier-suffix", match: submatchQuantity(patterns.multiplierAfter)},
	{name: "counter-word", match: submatchQuantity(patterns.counter)},
}

// submatchQuantity expects group 1 to cover the token and group 2 the number.
func submatchQuantity(re *regexp.Regexp) func(string) (quantityMatch, bool) {
	return func(s string) (quantityMatch, bool) {
		for _, loc := range re.FindAllStringSubmatchIndex(s, -1) {
			if loc[4] < 0 {
				continue
			}
			v, ok := parseNumeral(s[loc[4]:loc[5]])
			if !ok {
				continue
			}
			return quantityMatch{value: v, span: [2]int{loc[2], loc[3]}}, true
		}
		return quantityMatch{}, false
	}
}

// firstNumberGroup returns the first match of re whose group 1 parses.
func firstNumberGroup(re *regexp.Regexp) func(string) (decimal.Decimal, bool) {
	return func(s string) (decimal.Decimal, bool) {
		for _, m := range re.FindAllStringSubmatch(s, -1) {
			if v, ok := parseNumber(m[1]); ok {
				return v, true
			}
		}
		return decimal.Zero, false
	}
}

// totalMatches returns the submatch indices of total phrases, skipping those
// whose number is itself a quantity ("共3杯").
func totalMatches(s string) [][]int {
	var out [][]int
	for _, loc := range patterns.total.FindAllStringSubmatchIndex(s, -1) {
		if patterns.counterAhead.MatchString(s[loc[3]:]) {
			continue
		}
		out = append(out, loc)
	}
	return out
}

func totalRule(s string) (decimal.Decimal, bool) {
	for _, loc := range totalMatches(s) {
		if v, ok := parseNumber(s[loc[2]:loc[3]]); ok {
			return v, true
		}
	}
	return decimal.Zero, false
}

var (
	unitPrimaryRule = firstNumberGroup(patterns.unitPrimary)

	// Tried only when a quantity was found.
	unitFallbackRules = []rule[string, decimal.Decimal]{
		{name: "trailing-unit-marker", match: firstNumberGroup(patterns.unitTrailing)},
		{name: "unit-price-label", match: firstNumberGroup(patterns.unitLabel)},
	}
)

// scanText hides the parts of a clause that look numeric but are not amounts:
// protected names, date literals and weekday phrases.
func scanText(clause string) string {
	s := maskPattern(clause, patterns.protected)
	s = maskPattern(s, patterns.dateLiteral)
	return maskPattern(s, patterns.lastWeek)
}

// ExtractAmount runs every amount pattern family over one clause.
func ExtractAmount(clause string) AmountSignal {
	var sig AmountSignal
	scan := scanText(clause)

	if v, ok := totalRule(scan); ok {
		sig.ExplicitTotal = &v
	}

	qty, _, hasQty := firstMatch(quantityRules, scan)
	if hasQty {
		v := qty.value
		sig.Quantity = &v
	}

	if v, ok := unitPrimaryRule(scan); ok {
		sig.UnitPrice = &v
	} else if hasQty {
		if v, _, ok := firstMatch(unitFallbackRules, scan); ok {
			sig.UnitPrice = &v
		}
	}

	bare := scan
	if hasQty {
		bare = maskSpans(scan, [][2]int{qty.span})
	}
	for _, m := range patterns.amountToken.FindAllStringSubmatch(bare, -1) {
		v, ok := parseNumber(m[1])
		if !ok {
			continue
		}
		sig.BareAmounts = append(sig.BareAmounts, v)
	}

	return sig
}
