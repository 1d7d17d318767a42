package export

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/eric1207cvb/expense-capture/internal/domain/capture"
	"github.com/eric1207cvb/expense-capture/pkg/money"
)

func sampleRecords() []capture.Record {
	date := civil.Date{Year: 2025, Month: 6, Day: 18}
	return []capture.Record{
		{
			ID:          uuid.MustParse("00000000-0000-0000-0000-000000000001"),
			Description: "coffee",
			Amount:      decimal.NewFromInt(55),
			Date:        date,
			Category:    capture.CategoryFood,
		},
		{
			ID:          uuid.MustParse("00000000-0000-0000-0000-000000000002"),
			Description: "bus, then MRT",
			Amount:      decimal.RequireFromString("32.5"),
			Date:        date.AddDays(-1),
			Category:    capture.CategoryTransport,
		},
	}
}

func TestParseFormat(t *testing.T) {
	for _, in := range []string{"json", "CSV", " xlsx "} {
		_, err := ParseFormat(in)
		assert.NoError(t, err, in)
	}
	_, err := ParseFormat("pdf")
	assert.Error(t, err)
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatJSON, sampleRecords(), money.USD))

	var got []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "coffee", got[0]["description"])
	assert.Equal(t, "55", got[0]["amount"])
	assert.Equal(t, "2025-06-17", got[1]["date"])
	assert.Equal(t, "transport", got[1]["category"])
}

func TestWriteJSON_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, nil))
	assert.Equal(t, "[]", strings.TrimSpace(buf.String()))
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatCSV, sampleRecords(), money.USD))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "id,date,category,description,amount,display", lines[0])
	assert.Equal(t, "00000000-0000-0000-0000-000000000001,2025-06-18,food,coffee,55,$55.00", lines[1])
	assert.Contains(t, lines[2], `"bus, then MRT"`)
	assert.Contains(t, lines[2], "32.5")
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatXLSX, sampleRecords(), money.USD))

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(rows), 4)

	assert.Equal(t, []string{"ID", "Date", "Category", "Description", "Amount", "Display"}, rows[0])
	assert.Equal(t, "2025-06-18", rows[1][1])
	assert.Equal(t, "coffee", rows[1][3])
	assert.Equal(t, "bus, then MRT", rows[2][3])
	assert.Equal(t, "Total", rows[3][3])

	formula, err := f.GetCellFormula(sheetName, "E4")
	require.NoError(t, err)
	assert.Equal(t, "SUM(E2:E3)", formula)

	display, err := f.GetCellValue(sheetName, "F4")
	require.NoError(t, err)
	assert.Equal(t, "$87.50", display)
}

func TestTotal(t *testing.T) {
	assert.Equal(t, "87.5", Total(sampleRecords(), money.USD).String())
	assert.Equal(t, "0", Total(nil, money.USD).String())
}

func TestRows_RoundsToMinorUnit(t *testing.T) {
	rec := sampleRecords()[0]
	rec.Amount = decimal.RequireFromString("12.345")

	rows := Rows([]capture.Record{rec}, money.USD)
	require.Len(t, rows, 1)
	assert.Equal(t, "12.35", rows[0].Amount)
	assert.Equal(t, "$12.35", rows[0].Display)
}

func TestRows_UnknownCurrencyFallsBack(t *testing.T) {
	rows := Rows(sampleRecords()[:1], "XXX")
	require.Len(t, rows, 1)
	assert.Equal(t, money.NewFromDecimal(decimal.NewFromInt(55), money.TWD).Display(), rows[0].Display)
}
