// Package capture turns short free-form purchase phrases ("coffee 55 and cake
// 120", "昨天買三瓶牛奶每瓶30") into structured expense records using keyword
// tables and pattern rules only.
package capture

import (
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Record is one parsed expense.
type Record struct {
	ID          uuid.UUID       `json:"id"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Date        civil.Date      `json:"date"`
	Category    Category        `json:"category"`
}

// Options configure a Parser. Zero values fall back to UTC, time.Now and
// uuid.New.
type Options struct {
	// Location anchors "today" and every relative date.
	Location *time.Location
	Now      func() time.Time
	NewID    func() uuid.UUID
	// Categories overrides the keyword table; nil uses DefaultCategoryTable.
	Categories []CategoryKeywords
}

// Parser is safe for concurrent use; it keeps no state between calls.
type Parser struct {
	loc        *time.Location
	now        func() time.Time
	newID      func() uuid.UUID
	classifier *Classifier
}

// NewParser builds a parser from opts.
func NewParser(opts Options) *Parser {
	p := &Parser{
		loc:   opts.Location,
		now:   opts.Now,
		newID: opts.NewID,
	}
	if p.loc == nil {
		p.loc = time.UTC
	}
	if p.now == nil {
		p.now = time.Now
	}
	if p.newID == nil {
		p.newID = uuid.New
	}

	table := opts.Categories
	if table == nil {
		table = DefaultCategoryTable()
	}
	p.classifier = NewClassifier(table)

	return p
}

// Today samples the clock once and returns the current date in the parser's
// location.
func (p *Parser) Today() civil.Date {
	return civil.DateOf(p.now().In(p.loc))
}

// Parse converts raw text into records. The clock is read once per call.
func (p *Parser) Parse(raw string) []Record {
	return p.ParseAt(raw, p.Today())
}

// ParseAt is Parse with an explicit anchor date. Blank input yields no records;
// any other input yields at least one.
func (p *Parser) ParseAt(raw string, today civil.Date) []Record {
	clauses := Segment(raw)
	if len(clauses) == 0 {
		return nil
	}

	records := make([]Record, 0, len(clauses))
	for _, clause := range clauses {
		rec, degenerate := p.parseClause(clause, today)
		if degenerate {
			continue
		}
		records = append(records, rec)
	}

	if len(records) == 0 {
		date, _ := ResolveDate(strings.TrimSpace(raw), today)
		return []Record{{
			ID:          p.newID(),
			Description: raw,
			Amount:      decimal.Zero,
			Date:        date,
			Category:    CategoryOther,
		}}
	}
	return records
}

// parseClause assembles one record. A clause with no readable words left and a
// zero amount is reported as degenerate.
func (p *Parser) parseClause(clause string, today civil.Date) (Record, bool) {
	amount, _ := ExtractAmount(clause).Resolve()
	date, _ := ResolveDate(clause, today)
	category := p.classifier.Classify(clause)

	stripped := stripClause(clause)
	if !hasContent(stripped) && amount.IsZero() {
		return Record{}, true
	}

	return Record{
		ID:          p.newID(),
		Description: describe(clause, stripped),
		Amount:      amount,
		Date:        date,
		Category:    category,
	}, false
}
