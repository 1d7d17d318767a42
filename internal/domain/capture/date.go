package capture

import (
	"strings"
	"time"

	"cloud.google.com/go/civil"
)

// Date resolution rule names, in precedence order.
const (
	DateRuleLiteral  = "literal"
	DateRuleRelative = "relative-day"
	DateRuleLastWeek = "last-week-weekday"
	DateRuleDefault  = "default"
)

// dateInput is one clause together with the shared anchor date.
type dateInput struct {
	clause string
	today  civil.Date
}

var dateRules = []rule[dateInput, civil.Date]{
	{name: DateRuleLiteral, match: literalDate},
	{name: DateRuleRelative, match: relativeDate},
	{name: DateRuleLastWeek, match: lastWeekDate},
}

// ResolveDate picks a calendar date for a clause. Exactly one rule applies;
// when none matches the anchor date is returned.
func ResolveDate(clause string, today civil.Date) (civil.Date, string) {
	d, name, ok := firstMatch(dateRules, dateInput{clause: clause, today: today})
	if !ok {
		return today, DateRuleDefault
	}
	return d, name
}

// literalDate accepts YYYY-MM-DD tokens that name a real calendar day.
func literalDate(in dateInput) (civil.Date, bool) {
	for _, m := range patterns.dateLiteral.FindAllString(in.clause, -1) {
		d, err := civil.ParseDate(m)
		if err != nil || !d.IsValid() {
			continue
		}
		return d, true
	}
	return civil.Date{}, false
}

func relativeDate(in dateInput) (civil.Date, bool) {
	loc := patterns.relativeDay.FindStringSubmatchIndex(in.clause)
	if loc == nil {
		return civil.Date{}, false
	}
	for i, rd := range relativeDays {
		if loc[2+2*i] >= 0 {
			return in.today.AddDays(rd.offset), true
		}
	}
	return civil.Date{}, false
}

// lastWeekDate resolves "last week <weekday>" inside the previous Monday-based
// week.
func lastWeekDate(in dateInput) (civil.Date, bool) {
	m := patterns.lastWeek.FindStringSubmatch(in.clause)
	if m == nil {
		return civil.Date{}, false
	}

	token := m[1]
	if token == "" {
		token = m[2]
	}
	weekday, ok := weekdayNumbers[strings.ToLower(token)]
	if !ok {
		return civil.Date{}, false
	}

	return previousWeekDay(in.today, weekday), true
}

// previousWeekDay returns the day numbered weekday (Sunday=1 ... Saturday=7)
// within the week before the one containing today. Weeks run Monday to Sunday.
func previousWeekDay(today civil.Date, weekday int) civil.Date {
	sinceMonday := (int(today.In(time.UTC).Weekday()) + 6) % 7
	startOfWeek := today.AddDays(-sinceMonday)
	startOfLastWeek := startOfWeek.AddDays(-7)

	offset := (weekday + 5) % 7
	return startOfLastWeek.AddDays(offset)
}
