package capture

import (
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sequentialIDs returns an ID generator producing 00000000-0000-0000-0000-000000000001, ...
func sequentialIDs() func() uuid.UUID {
	var n byte
	return func() uuid.UUID {
		n++
		var id uuid.UUID
		id[15] = n
		return id
	}
}

func newTestParser() *Parser {
	return NewParser(Options{
		Now:   func() time.Time { return time.Date(2025, 6, 18, 10, 0, 0, 0, time.UTC) },
		NewID: sequentialIDs(),
	})
}

func TestParser_Parse(t *testing.T) {
	p := newTestParser()

	records := p.Parse("coffee 55 and cake 120")
	require.Len(t, records, 2)

	assert.Equal(t, "coffee", records[0].Description)
	assert.True(t, dec("55").Equal(records[0].Amount))
	assert.Equal(t, CategoryFood, records[0].Category)
	assert.Equal(t, anchor, records[0].Date)

	assert.Equal(t, "cake", records[1].Description)
	assert.True(t, dec("120").Equal(records[1].Amount))
	assert.Equal(t, CategoryFood, records[1].Category)

	assert.NotEqual(t, records[0].ID, records[1].ID)
}

func TestParser_ParseAt(t *testing.T) {
	p := newTestParser()
	d := civil.Date{Year: 2024, Month: 2, Day: 29}

	records := p.ParseAt("yesterday bought cake 500", d)
	require.Len(t, records, 1)
	assert.Equal(t, civil.Date{Year: 2024, Month: 2, Day: 28}, records[0].Date)
	assert.Equal(t, "cake", records[0].Description)
	assert.True(t, dec("500").Equal(records[0].Amount))
}

func TestParser_MixedInput(t *testing.T) {
	p := newTestParser()

	records := p.Parse("昨天買三瓶牛奶每瓶30，搭捷運 25")
	require.Len(t, records, 2)

	assert.Equal(t, "牛奶", records[0].Description)
	assert.True(t, dec("90").Equal(records[0].Amount))
	assert.Equal(t, civil.Date{Year: 2025, Month: 6, Day: 17}, records[0].Date)
	assert.Equal(t, CategoryFood, records[0].Category)

	assert.Equal(t, "搭捷運", records[1].Description)
	assert.True(t, dec("25").Equal(records[1].Amount))
	assert.Equal(t, anchor, records[1].Date)
	assert.Equal(t, CategoryTransport, records[1].Category)
}

func TestParser_Blank(t *testing.T) {
	p := newTestParser()

	for _, in := range []string{"", "   ", "\n\t"} {
		assert.Empty(t, p.Parse(in), "%q", in)
	}
}

func TestParser_DegenerateClauses(t *testing.T) {
	p := newTestParser()

	t.Run("dropped between real clauses", func(t *testing.T) {
		records := p.Parse("coffee 55; ~~; cake 120")
		require.Len(t, records, 2)
		assert.Equal(t, "coffee", records[0].Description)
		assert.Equal(t, "cake", records[1].Description)
	})

	t.Run("all degenerate falls back to raw text", func(t *testing.T) {
		records := p.Parse("!!!")
		require.Len(t, records, 1)
		assert.Equal(t, "!!!", records[0].Description)
		assert.True(t, records[0].Amount.IsZero())
		assert.Equal(t, CategoryOther, records[0].Category)
		assert.Equal(t, anchor, records[0].Date)
	})

	t.Run("fallback keeps the resolved date", func(t *testing.T) {
		records := p.Parse("昨天")
		require.Len(t, records, 1)
		assert.Equal(t, "昨天", records[0].Description)
		assert.Equal(t, civil.Date{Year: 2025, Month: 6, Day: 17}, records[0].Date)
		assert.True(t, records[0].Amount.IsZero())
	})

	t.Run("description without amount is kept", func(t *testing.T) {
		records := p.Parse("just a note")
		require.Len(t, records, 1)
		assert.Equal(t, "just a note", records[0].Description)
		assert.True(t, records[0].Amount.IsZero())
	})
}

func TestParser_Location(t *testing.T) {
	taipei := time.FixedZone("UTC+8", 8*60*60)
	p := NewParser(Options{
		Location: taipei,
		Now:      func() time.Time { return time.Date(2025, 6, 18, 20, 0, 0, 0, time.UTC) },
	})

	assert.Equal(t, civil.Date{Year: 2025, Month: 6, Day: 19}, p.Today())

	records := p.Parse("yesterday lunch 120")
	require.Len(t, records, 1)
	assert.Equal(t, civil.Date{Year: 2025, Month: 6, Day: 18}, records[0].Date)
}

func TestParser_CustomCategories(t *testing.T) {
	p := NewParser(Options{
		Categories: []CategoryKeywords{{Category: CategoryUtility, Keywords: []string{"coffee"}}},
	})

	records := p.Parse("coffee 55")
	require.Len(t, records, 1)
	assert.Equal(t, CategoryUtility, records[0].Category)
}

func TestParser_RandomInput(t *testing.T) {
	p := newTestParser()
	faker := gofakeit.New(42)

	for i := 0; i < 200; i++ {
		var parts []string
		n := faker.Number(1, 4)
		for j := 0; j < n; j++ {
			parts = append(parts, fmt.Sprintf("%s %d", faker.Word(), faker.Number(1, 2000)))
		}
		input := strings.Join(parts, faker.RandomString([]string{" and ", ", ", "; ", "還有"}))
		if faker.Bool() {
			input = faker.Sentence(faker.Number(1, 8))
		}

		records := p.Parse(input)
		require.NotEmpty(t, records, "input %q", input)
		for _, r := range records {
			assert.NotEmpty(t, r.Description, "input %q", input)
			assert.False(t, r.Amount.IsNegative(), "input %q", input)
			assert.True(t, r.Category.IsValid(), "input %q", input)
		}
	}
}

func TestParser_ConcurrentParse(t *testing.T) {
	p := NewParser(Options{
		Now: func() time.Time { return time.Date(2025, 6, 18, 10, 0, 0, 0, time.UTC) },
	})

	inputs := []string{"coffee 55 and MRT 25", "movie 300; bus 15", "昨天買三瓶牛奶每瓶30"}
	want := make([][]Record, len(inputs))
	for i, in := range inputs {
		want[i] = p.Parse(in)
	}

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				idx := (g + i) % len(inputs)
				got := p.Parse(inputs[idx])
				if !assert.Len(t, got, len(want[idx])) {
					return
				}
				for j := range got {
					assert.Equal(t, want[idx][j].Description, got[j].Description)
					assert.Equal(t, want[idx][j].Category, got[j].Category)
					assert.True(t, want[idx][j].Amount.Equal(got[j].Amount))
				}
			}
		}(g)
	}
	wg.Wait()
}
