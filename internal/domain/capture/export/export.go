// Package export writes captured records as JSON, CSV or XLSX.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/eric1207cvb/expense-capture/internal/domain/capture"
	"github.com/eric1207cvb/expense-capture/pkg/money"
)

// Format names an output encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatJSON, FormatCSV, FormatXLSX:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported format %q", s)
	}
}

// Row is the flat shape shared by the CSV and XLSX writers.
type Row struct {
	ID          string `csv:"id"`
	Date        string `csv:"date"`
	Category    string `csv:"category"`
	Description string `csv:"description"`
	Amount      string `csv:"amount"`
	Display     string `csv:"display"`
}

// Rows flattens records, rounding and formatting amounts in currency.
func Rows(records []capture.Record, currency string) []*Row {
	rows := make([]*Row, 0, len(records))
	for _, r := range records {
		m := money.NewFromDecimal(r.Amount, currency)
		rows = append(rows, &Row{
			ID:          r.ID.String(),
			Date:        r.Date.String(),
			Category:    string(r.Category),
			Description: r.Description,
			Amount:      m.String(),
			Display:     m.Display(),
		})
	}
	return rows
}

// Write encodes records to w in the given format.
func Write(w io.Writer, format Format, records []capture.Record, currency string) error {
	switch format {
	case FormatJSON:
		return WriteJSON(w, records)
	case FormatCSV:
		return WriteCSV(w, records, currency)
	case FormatXLSX:
		return WriteXLSX(w, records, currency)
	default:
		return fmt.Errorf("unsupported format %q", format)
	}
}

// WriteJSON writes records as an indented JSON array.
func WriteJSON(w io.Writer, records []capture.Record) error {
	if records == nil {
		records = []capture.Record{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("failed to encode json: %w", err)
	}
	return nil
}

// WriteCSV writes a header line followed by one line per record.
func WriteCSV(w io.Writer, records []capture.Record, currency string) error {
	if err := gocsv.Marshal(Rows(records, currency), w); err != nil {
		return fmt.Errorf("failed to encode csv: %w", err)
	}
	return nil
}

// Total adds the record amounts in currency.
func Total(records []capture.Record, currency string) *money.Money {
	amounts := make([]decimal.Decimal, len(records))
	for i, r := range records {
		amounts[i] = r.Amount
	}
	return money.Sum(currency, amounts...)
}

const sheetName = "Expenses"

var xlsxHeader = []interface{}{"ID", "Date", "Category", "Description", "Amount", "Display"}

// WriteXLSX writes a single-sheet workbook with numeric amount cells and a
// total row.
func WriteXLSX(w io.Writer, records []capture.Record, currency string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}
	if err := f.SetSheetRow(sheetName, "A1", &xlsxHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, row := range Rows(records, currency) {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		amount, _ := money.NewFromDecimal(records[i].Amount, currency).ToDecimal().Float64()
		values := []interface{}{row.ID, row.Date, row.Category, row.Description, amount, row.Display}
		if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}

	if len(records) > 0 {
		totalRow := len(records) + 2
		labelCell, _ := excelize.CoordinatesToCellName(4, totalRow)
		sumCell, _ := excelize.CoordinatesToCellName(5, totalRow)
		displayCell, _ := excelize.CoordinatesToCellName(6, totalRow)
		if err := f.SetCellValue(sheetName, labelCell, "Total"); err != nil {
			return err
		}
		if err := f.SetCellFormula(sheetName, sumCell, fmt.Sprintf("SUM(E2:E%d)", totalRow-1)); err != nil {
			return err
		}
		if err := f.SetCellValue(sheetName, displayCell, Total(records, currency).Display()); err != nil {
			return err
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}
