package capture

import (
	"regexp"
)

// patternSet holds every compiled expression the parser uses. It is built once
// from the keyword tables and never mutated, so it is safe for concurrent use.
type patternSet struct {
	amountToken    *regexp.Regexp
	prefixedAmount *regexp.Regexp
	suffixedAmount *regexp.Regexp
	plainNumber    *regexp.Regexp

	total        *regexp.Regexp
	counterAhead *regexp.Regexp

	multiplierBefore *regexp.Regexp
	multiplierAfter  *regexp.Regexp
	counter          *regexp.Regexp

	unitPrimary  *regexp.Regexp
	unitTrailing *regexp.Regexp
	unitLabel    *regexp.Regexp

	dateLiteral  *regexp.Regexp
	relativeDay  *regexp.Regexp
	lastWeek     *regexp.Regexp
	relativeWord *regexp.Regexp

	latinConnector  *regexp.Regexp
	cjkConnector    *regexp.Regexp
	amountConnector *regexp.Regexp
	continuation    *regexp.Regexp

	latinFiller      *regexp.Regexp
	cjkLeadingFiller *regexp.Regexp
	protected        *regexp.Regexp
	placeholderSafe  *regexp.Regexp
	collapse         *regexp.Regexp
}

var patterns = compilePatterns()

func compilePatterns() *patternSet {
	prefix := `(?:` + alternation(currencyPrefixes) + `)`
	suffix := `(?:` + mixedAlternation(currencySuffixes) + `)`
	number := `(?:` + numberPattern + `)`
	latinCounter := `(?:` + alternation(latinCounters) + `)\b`
	cjkCounter := `(?:` + alternation(cjkCounters) + `)`
	counter := `(?:` + latinCounter + `|` + cjkCounter + `)`
	numeral := `(?:` + simpleNumber + `|` + cjkNumeral + `|` + wordAlternation(keys(englishNumerals)) + `)`

	var latinWeekdays []string
	for name := range weekdayNumbers {
		if isLatin(name) {
			latinWeekdays = append(latinWeekdays, name)
		}
	}

	var relativeWords []string
	relativeGroups := ""
	for i, rd := range relativeDays {
		if i > 0 {
			relativeGroups += `|`
		}
		relativeGroups += `(` + mixedAlternation(rd.words) + `)`
		relativeWords = append(relativeWords, rd.words...)
	}

	continuationMarkers := append(append(append([]string(nil), unitPriceMarkers...), totalMarkers...), unitPriceLabels...)

	return &patternSet{
		amountToken:    regexp.MustCompile(`(?i)(?:` + prefix + `\s*)?(` + numberPattern + `)(?:\s*` + suffix + `)?`),
		prefixedAmount: regexp.MustCompile(`(?i)` + prefix + `\s*` + number),
		suffixedAmount: regexp.MustCompile(`(?i)` + number + `\s*` + suffix),
		plainNumber:    regexp.MustCompile(number),

		// An optional quantity may sit between the marker and the amount (共3杯120).
		total: regexp.MustCompile(`(?i)(?:` + mixedAlternation(totalMarkers) + `)\s*(?:[:：=]|\bis\b|\bof\b)?\s*(?:` +
			numeral + `\s*` + counter + `\s*)?(?:` + prefix + `\s*)?(` + numberPattern + `)(?:\s*` + suffix + `)?`),
		counterAhead: regexp.MustCompile(`(?i)^\s*` + counter),

		multiplierBefore: regexp.MustCompile(`(?i)(?:^|[^a-z0-9.])([x×]\s*(` + simpleNumber + `))`),
		multiplierAfter:  regexp.MustCompile(`(?i)((` + simpleNumber + `)\s*[x×])(?:[^a-z]|$)`),
		counter:          regexp.MustCompile(`(?i)((` + numeral + `)\s*` + counter + `)`),

		unitPrimary: regexp.MustCompile(`(?i)(?:` + mixedAlternation(unitPriceMarkers) + `)\s*` + counter + `?\s*[:：]?\s*(?:` +
			prefix + `\s*)?(` + numberPattern + `)(?:\s*` + suffix + `)?`),
		unitTrailing: regexp.MustCompile(`(?i)(` + numberPattern + `)(?:\s*` + suffix + `)?\s*(?:` +
			wordAlternation(trailingUnitMarkers) + `|\bper\s+` + latinCounter + `|/\s*` + counter + `|[一每]` + cjkCounter + `)`),
		unitLabel: regexp.MustCompile(`(?i)(?:` + mixedAlternation(unitPriceLabels) + `)\s*[:：]?\s*(?:` +
			prefix + `\s*)?(` + numberPattern + `)(?:\s*` + suffix + `)?`),

		dateLiteral: regexp.MustCompile(`\b(\d{4})-(\d{2})-(\d{2})\b`),
		relativeDay: regexp.MustCompile(`(?i)` + relativeGroups),
		lastWeek: regexp.MustCompile(`(?i)(?:` + wordAlternation(latinWeekPrefixes) + `)\s*(?:on\s+)?(` +
			wordAlternation(latinWeekdays) + `)|(?:` + alternation(cjkWeekPrefixes) + `)\s*([一二三四五六日天])`),
		relativeWord: regexp.MustCompile(`(?i)` + mixedAlternation(relativeWords)),

		latinConnector:  regexp.MustCompile(`(?i)` + wordAlternation(latinConnectors)),
		cjkConnector:    regexp.MustCompile(alternation(cjkConnectors)),
		amountConnector: regexp.MustCompile(`(\d|元|塊|块)\s*(?:` + alternation(cjkAmountConnectors) + `)`),
		continuation:    regexp.MustCompile(`(?i)^\s*(?:` + mixedAlternation(continuationMarkers) + `)`),

		latinFiller:      regexp.MustCompile(`(?i)` + wordAlternation(latinFillers)),
		cjkLeadingFiller: regexp.MustCompile(`^(?:\s*(?:` + alternation(cjkLeadingFillers) + `))+`),
		protected:        regexp.MustCompile(`(?i)` + alternation(protectedTerms)),
		placeholderSafe:  regexp.MustCompile(`(?i)` + alternation(protectedTerms) + `|[\x{E000}-\x{F8FF}]`),
		collapse:         regexp.MustCompile(`[\s,，.。;；:：!！?？、~～_/|=@＄$]+`),
	}
}

// maskSpans blanks out the given byte ranges with ASCII spaces. Offsets of the
// remaining text stay valid, which lets later scans report positions into the
// original clause.
func maskSpans(s string, spans [][2]int) string {
	if len(spans) == 0 {
		return s
	}
	b := []byte(s)
	for _, sp := range spans {
		for i := sp[0]; i < sp[1] && i < len(b); i++ {
			b[i] = ' '
		}
	}
	return string(b)
}

// maskPattern blanks every match of re.
func maskPattern(s string, re *regexp.Regexp) string {
	var spans [][2]int
	for _, loc := range re.FindAllStringIndex(s, -1) {
		spans = append(spans, [2]int{loc[0], loc[1]})
	}
	return maskSpans(s, spans)
}
