package capture

import (
	"regexp"
	"sort"
	"strings"
)

// Keyword tables shared by detection and stripping. The extractor, the date
// resolver and the description normalizer all compile their patterns from
// these lists so that whatever counts as an amount token when reading a clause
// is exactly what gets removed when building its description.
var (
	latinConnectors = []string{"as well as", "and", "also", "plus", "then"}
	// Multi-character CJK connectors split anywhere.
	cjkConnectors = []string{"還有", "以及", "另外", "然後", "加上"}
	// Single-character CJK connectors only split right after an amount, since
	// they also occur inside ordinary words (和牛, 跟團).
	cjkAmountConnectors = []string{"和", "跟", "與", "与"}

	hardSeparators = "\n;；、。|"
	softSeparators = ",，"

	currencyPrefixes = []string{"NT$", "US$", "NTD", "TWD", "USD", "$", "＄"}
	currencySuffixes = []string{"元", "塊", "块", "dollars", "dollar", "bucks", "NTD", "TWD"}

	totalMarkers = []string{"in total", "total", "altogether", "combined", "sum", "總共", "一共", "總計", "合計", "共"}

	latinCounters = []string{
		"pieces", "piece", "bottles", "bottle", "cups", "cup", "portions", "portion",
		"packs", "pack", "boxes", "box", "sets", "set", "cans", "can", "items", "item",
	}
	cjkCounters = []string{"個", "个", "件", "瓶", "杯", "份", "包", "盒", "組", "组", "罐"}

	unitPriceMarkers = []string{"each", "per", "@", "每"}
	// Markers that follow the price they qualify ("30 each").
	trailingUnitMarkers = []string{"each", "apiece", "a piece"}
	unitPriceLabels     = []string{"unit price", "單價", "单价"}

	englishNumerals = map[string]string{
		"one": "1", "two": "2", "three": "3", "four": "4", "five": "5", "six": "6",
		"seven": "7", "eight": "8", "nine": "9", "ten": "10", "eleven": "11",
		"twelve": "12", "half": "0.5",
	}

	relativeDays = []relativeDay{
		{words: []string{"day before yesterday", "前天"}, offset: -2},
		{words: []string{"yesterday", "昨天", "昨日"}, offset: -1},
		{words: []string{"today", "今天", "今日"}, offset: 0},
	}

	latinWeekPrefixes = []string{"last week"}
	cjkWeekPrefixes   = []string{"上禮拜", "上礼拜", "上星期", "上週", "上周"}

	// Weekday numbering follows Sunday=1 ... Saturday=7.
	weekdayNumbers = map[string]int{
		"sunday": 1, "sun": 1, "monday": 2, "mon": 2, "tuesday": 3, "tue": 3,
		"wednesday": 4, "wed": 4, "thursday": 5, "thu": 5, "friday": 6, "fri": 6,
		"saturday": 7, "sat": 7,
		"日": 1, "天": 1, "一": 2, "二": 3, "三": 4, "四": 5, "五": 6, "六": 7,
	}

	latinFillers = []string{"bought", "buy", "paid", "spent", "for", "of"}
	// CJK fillers are only stripped at the start of a clause; 花 and 買 are
	// common inside nouns too (花生, 買氣).
	cjkLeadingFillers = []string{"買了", "买了", "花了", "買", "买"}

	// Terms that contain digits or numeral+counter sequences but are names.
	protectedTerms = []string{"7-11", "7-eleven", "85度c", "三杯雞", "三杯鸡", "三明治", "一卡通", "五十嵐"}

	// Voice transcription spaces out CJK compounds; these are reglued after
	// stripping.
	compoundRepairs = []compoundRepair{
		{fragment: "悠遊 卡", whole: "悠遊卡"},
		{fragment: "一卡 通", whole: "一卡通"},
		{fragment: "儲 值", whole: "儲值"},
		{fragment: "加 值", whole: "加值"},
		{fragment: "月 票", whole: "月票"},
	}
)

type relativeDay struct {
	words  []string
	offset int
}

type compoundRepair struct {
	fragment string
	whole    string
}

const (
	// numberPattern matches 1200, 1,200, 12.5 and 1,200.50.
	numberPattern = `\d{1,3}(?:,\d{3})+(?:\.\d+)?|\d+(?:\.\d+)?`
	simpleNumber  = `\d+(?:\.\d+)?`
	cjkNumeral    = `[零一二兩两三四五六七八九十]+|半`
)

// alternation quotes words and joins them longest first so that the
// leftmost-first semantics of RE2 alternation prefer "in total" over "total".
// Spaces inside a phrase also match hyphens ("day-before-yesterday").
func alternation(words []string) string {
	sorted := append([]string(nil), words...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return len(sorted[i]) > len(sorted[j])
	})

	quoted := make([]string, len(sorted))
	for i, w := range sorted {
		quoted[i] = strings.ReplaceAll(regexp.QuoteMeta(w), " ", `[\s-]+`)
	}
	return strings.Join(quoted, "|")
}

// wordAlternation is alternation with ASCII word boundaries on both sides,
// for Latin words that must not match inside longer words.
func wordAlternation(words []string) string {
	return `\b(?:` + alternation(words) + `)\b`
}

func keys(m map[string]string) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

func isLatin(word string) bool {
	for _, r := range word {
		if r > 0x7f {
			return false
		}
	}
	return true
}

// mixedAlternation bounds the Latin words and leaves CJK words bare.
func mixedAlternation(words []string) string {
	var latin, other []string
	for _, w := range words {
		if isLatin(w) && regexp.MustCompile(`^[A-Za-z ]+$`).MatchString(w) {
			latin = append(latin, w)
		} else {
			other = append(other, w)
		}
	}

	switch {
	case len(latin) == 0:
		return alternation(other)
	case len(other) == 0:
		return wordAlternation(latin)
	default:
		return wordAlternation(latin) + `|` + alternation(other)
	}
}
