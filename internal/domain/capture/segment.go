package capture

import (
	"strings"
	"unicode"
)

const canonicalSeparator = "|"

type piece struct {
	text string
	// soft is set when the piece followed a comma rather than a hard separator.
	soft bool
}

// Segment splits raw input into clauses, one per expense mention, in input
// order. Blank input yields no clauses. When splitting produces a single piece
// the whole input is kept as one clause.
func Segment(raw string) []string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil
	}

	var clauses []string
	for _, p := range splitPieces(replaceConnectors(raw)) {
		text := strings.TrimSpace(p.text)
		if text == "" {
			continue
		}
		// "3 cups coffee, each 55" stays one clause.
		if p.soft && len(clauses) > 0 && patterns.continuation.MatchString(text) {
			clauses[len(clauses)-1] += ", " + text
			continue
		}
		clauses = append(clauses, text)
	}

	if len(clauses) <= 1 {
		return []string{trimmed}
	}
	return clauses
}

func replaceConnectors(s string) string {
	s, restore := protect(s)
	s = patterns.latinConnector.ReplaceAllString(s, canonicalSeparator)
	s = patterns.cjkConnector.ReplaceAllString(s, canonicalSeparator)
	s = patterns.amountConnector.ReplaceAllString(s, "${1}"+canonicalSeparator)
	return restore(s)
}

// splitPieces cuts on hard separators everywhere and on commas unless the
// comma sits between two digits (a thousands separator).
func splitPieces(s string) []piece {
	runes := []rune(s)
	var (
		pieces []piece
		cur    strings.Builder
		soft   bool
	)

	flush := func(nextSoft bool) {
		pieces = append(pieces, piece{text: cur.String(), soft: soft})
		cur.Reset()
		soft = nextSoft
	}

	for i, r := range runes {
		switch {
		case strings.ContainsRune(hardSeparators, r):
			flush(false)
		case strings.ContainsRune(softSeparators, r):
			if i > 0 && i+1 < len(runes) && unicode.IsDigit(runes[i-1]) && unicode.IsDigit(runes[i+1]) {
				cur.WriteRune(r)
				continue
			}
			flush(true)
		default:
			cur.WriteRune(r)
		}
	}
	flush(false)

	return pieces
}
