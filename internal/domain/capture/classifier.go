package capture

import (
	"strings"

	"github.com/cloudflare/ahocorasick"
)

// CategoryKeywords pairs a category with the substrings that select it.
type CategoryKeywords struct {
	Category Category
	Keywords []string
}

// DefaultCategoryTable is the built-in keyword table. Order is precedence.
func DefaultCategoryTable() []CategoryKeywords {
	return []CategoryKeywords{
		{
			Category: CategoryFood,
			Keywords: []string{
				"coffee", "latte", "tea", "cake", "bread", "breakfast", "brunch", "lunch", "dinner",
				"meal", "snack", "milk", "juice", "pizza", "burger", "noodle", "restaurant", "beer",
				"fruit", "drink", "咖啡", "拿鐵", "茶", "蛋糕", "麵包", "早餐", "午餐", "晚餐", "宵夜",
				"便當", "飯", "麵", "牛奶", "飲料", "珍奶", "點心", "水果", "餐", "三明治", "三杯雞", "五十嵐",
			},
		},
		{
			Category: CategoryTransport,
			Keywords: []string{
				"mrt", "bus", "taxi", "uber", "train", "metro", "hsr", "parking", "fuel", "petrol",
				"捷運", "公車", "計程車", "高鐵", "台鐵", "火車", "加油", "停車", "悠遊卡", "一卡通", "機票",
			},
		},
		{
			Category: CategoryEntertainment,
			Keywords: []string{
				"movie", "cinema", "film", "netflix", "spotify", "game", "concert", "ktv", "karaoke",
				"電影", "遊戲", "唱歌", "演唱會", "門票", "展覽",
			},
		},
		{
			Category: CategoryShopping,
			Keywords: []string{
				"clothes", "shirt", "shoes", "book", "amazon", "shopee", "uniqlo", "convenience store",
				"7-11", "衣服", "鞋", "包包", "書", "購物", "日用品", "蝦皮", "全家", "超商",
			},
		},
		{
			Category: CategoryUtility,
			Keywords: []string{
				"electricity", "electric bill", "water bill", "internet", "phone bill", "rent", "wifi",
				"電費", "水費", "瓦斯", "網路", "電話費", "房租", "手機費",
			},
		},
	}
}

// Classifier maps clause text to a category with one pass over the text. It is
// safe for concurrent use.
type Classifier struct {
	matcher *ahocorasick.Matcher
	// rank[i] is the table position of the category owning keyword i.
	rank  []int
	table []CategoryKeywords
}

// NewClassifier builds the keyword automaton for table.
func NewClassifier(table []CategoryKeywords) *Classifier {
	c := &Classifier{table: table}

	var keywords []string
	seen := make(map[string]bool)
	for pos, entry := range table {
		for _, kw := range entry.Keywords {
			kw = strings.ToLower(strings.TrimSpace(kw))
			// A repeated keyword keeps its first, highest-precedence owner.
			if kw == "" || seen[kw] {
				continue
			}
			seen[kw] = true
			keywords = append(keywords, kw)
			c.rank = append(c.rank, pos)
		}
	}

	if len(keywords) > 0 {
		c.matcher = ahocorasick.NewStringMatcher(keywords)
	}
	return c
}

// Classify returns the earliest table entry with a keyword contained in text,
// compared case-insensitively, or CategoryOther.
func (c *Classifier) Classify(text string) Category {
	if c.matcher == nil {
		return CategoryOther
	}

	hits := c.matcher.MatchThreadSafe([]byte(strings.ToLower(text)))
	best := -1
	for _, idx := range hits {
		if idx < 0 || idx >= len(c.rank) {
			continue
		}
		if best == -1 || c.rank[idx] < best {
			best = c.rank[idx]
		}
	}

	if best == -1 {
		return CategoryOther
	}
	return c.table[best].Category
}
