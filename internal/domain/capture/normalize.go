package capture

import (
	"regexp"
	"strings"
	"unicode"
)

// Stripping order: date expressions, total and unit-price phrases (which carry
// their own currency markers), currency amounts, quantity notation, then
// whatever plain numbers are left.
var stripOrder = []*regexp.Regexp{
	patterns.dateLiteral,
	patterns.lastWeek,
	patterns.total,
	patterns.unitPrimary,
	patterns.unitTrailing,
	patterns.unitLabel,
	patterns.prefixedAmount,
	patterns.suffixedAmount,
	patterns.multiplierBefore,
	patterns.multiplierAfter,
	patterns.counter,
	patterns.plainNumber,
}

// placeholder runes come from the private use area so no pattern touches them.
const placeholderBase = '\ue000'

// NormalizeDescription turns a clause into a short label. It never returns an
// empty string for a non-empty clause: if stripping leaves nothing, the clause
// is returned untouched.
func NormalizeDescription(clause string) string {
	return describe(clause, stripClause(clause))
}

// describe falls back to the clause when stripping left no letters or digits.
func describe(clause, stripped string) string {
	if hasContent(stripped) {
		return stripped
	}
	return clause
}

// stripClause removes amount, quantity, date and filler tokens. The result may
// be empty.
func stripClause(clause string) string {
	s, restore := protect(clause)

	for _, re := range stripOrder {
		s = replaceToken(re, s)
	}

	s = patterns.latinConnector.ReplaceAllString(s, " ")
	s = patterns.cjkConnector.ReplaceAllString(s, " ")
	s = patterns.relativeWord.ReplaceAllString(s, " ")
	s = patterns.latinFiller.ReplaceAllString(s, " ")
	s = collapse(s)

	// A leading filler can surface only after punctuation in front of it
	// collapses, so strip until nothing changes.
	for {
		next := collapse(patterns.cjkLeadingFiller.ReplaceAllString(s, " "))
		if next == s {
			break
		}
		s = next
	}
	s = repairCompounds(s)

	return restore(s)
}

// replaceToken removes matches of re. Total phrases go through the same filter
// the extractor uses, and multiplier patterns only lose group 1 so the
// boundary character around it survives.
func replaceToken(re *regexp.Regexp, s string) string {
	var spans [][2]int
	switch re {
	case patterns.total:
		for _, loc := range totalMatches(s) {
			spans = append(spans, [2]int{loc[0], loc[1]})
		}
	case patterns.multiplierBefore, patterns.multiplierAfter:
		for _, loc := range re.FindAllStringSubmatchIndex(s, -1) {
			spans = append(spans, [2]int{loc[2], loc[3]})
		}
	default:
		return re.ReplaceAllString(s, " ")
	}
	return maskSpans(s, spans)
}

// protect swaps protected names, and any private use runes, for placeholder
// runes and returns a function that puts them back.
func protect(s string) (string, func(string) string) {
	var saved []string
	// Private use runes already in the input are saved too, so restore never
	// mistakes them for placeholders.
	s = patterns.placeholderSafe.ReplaceAllStringFunc(s, func(m string) string {
		saved = append(saved, m)
		return string(rune(placeholderBase + len(saved) - 1))
	})
	if len(saved) == 0 {
		return s, func(out string) string { return out }
	}

	return s, func(out string) string {
		var b strings.Builder
		for _, r := range out {
			idx := int(r - placeholderBase)
			if idx >= 0 && idx < len(saved) {
				b.WriteString(saved[idx])
				continue
			}
			b.WriteRune(r)
		}
		return b.String()
	}
}

func collapse(s string) string {
	return strings.TrimSpace(patterns.collapse.ReplaceAllString(s, " "))
}

func repairCompounds(s string) string {
	for _, rp := range compoundRepairs {
		s = strings.ReplaceAll(s, rp.fragment, rp.whole)
	}
	return s
}

// hasContent reports whether s holds any letter or digit.
func hasContent(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsNumber(r) {
			return true
		}
	}
	return false
}
