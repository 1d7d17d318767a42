package capture

import (
	"strings"

	"github.com/shopspring/decimal"
)

var cjkDigits = map[rune]int64{
	'零': 0, '一': 1, '二': 2, '兩': 2, '两': 2, '三': 3, '四': 4,
	'五': 5, '六': 6, '七': 7, '八': 8, '九': 9,
}

// parseCJKNumeral converts 零 through 九十九 and 半 (one half).
func parseCJKNumeral(s string) (decimal.Decimal, bool) {
	if s == "半" {
		return decimal.New(5, -1), true
	}

	runes := []rune(s)
	switch len(runes) {
	case 1:
		if runes[0] == '十' {
			return decimal.NewFromInt(10), true
		}
		d, ok := cjkDigits[runes[0]]
		return decimal.NewFromInt(d), ok
	case 2:
		// 十五 or 二十
		if runes[0] == '十' {
			d, ok := cjkDigits[runes[1]]
			return decimal.NewFromInt(10 + d), ok && d > 0
		}
		if runes[1] == '十' {
			d, ok := cjkDigits[runes[0]]
			return decimal.NewFromInt(d * 10), ok && d > 0
		}
	case 3:
		// 二十五
		if runes[1] != '十' {
			return decimal.Zero, false
		}
		tens, ok1 := cjkDigits[runes[0]]
		ones, ok2 := cjkDigits[runes[2]]
		if !ok1 || !ok2 || tens == 0 || ones == 0 {
			return decimal.Zero, false
		}
		return decimal.NewFromInt(tens*10 + ones), true
	}
	return decimal.Zero, false
}

// parseNumeral accepts an Arabic number, a CJK numeral or an English number
// word. Malformed input reports false.
func parseNumeral(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(s)
	if v, ok := englishNumerals[strings.ToLower(s)]; ok {
		s = v
	}
	if d, ok := parseCJKNumeral(s); ok {
		return d, true
	}
	return parseNumber(s)
}

// parseNumber parses a decimal token after removing thousands separators.
func parseNumber(s string) (decimal.Decimal, bool) {
	d, err := decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(s), ",", ""))
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}
