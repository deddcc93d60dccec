// Package export writes the quote summary list to an XLSX workbook for
// offline bookkeeping.
package export

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/threedq/threedq/internal/quotes"
)

const sheetName = "Quotes"

// QuoteListExcel returns an XLSX workbook listing the given quote
// headers, one row per quote, newest first as provided.
func QuoteListExcel(list []quotes.Quote, currency string) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	defaultSheet := f.GetSheetName(0)
	if err := f.SetSheetName(defaultSheet, sheetName); err != nil {
		return nil, fmt.Errorf("set sheet name: %w", err)
	}

	widths := map[string]float64{"A": 12, "B": 30, "C": 24, "D": 12, "E": 10, "F": 10, "G": 8, "H": 14}
	for col, width := range widths {
		if err := f.SetColWidth(sheetName, col, col, width); err != nil {
			return nil, fmt.Errorf("set col width %s: %w", col, err)
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	headers := []any{"Number", "Title", "Customer", "Date", "Markup %", "Discount %", "Qty", "Total (" + currency + ")"}
	if err := f.SetSheetRow(sheetName, "A1", &headers); err != nil {
		return nil, fmt.Errorf("write header row: %w", err)
	}
	if err := f.SetCellStyle(sheetName, "A1", "H1", headerStyle); err != nil {
		return nil, fmt.Errorf("style header row: %w", err)
	}

	for i, q := range list {
		cell := fmt.Sprintf("A%d", i+2)
		values := []any{
			q.QuoteNumber, q.Title, q.CustomerName, q.Date,
			q.MarkupPercent, q.DiscountPercent, q.Quantity, q.TotalCost,
		}
		if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
			return nil, fmt.Errorf("write quote row %d: %w", i+2, err)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
