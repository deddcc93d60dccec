// Package invoice renders a priced quote as a printable PDF. It only
// formats: every cost on the document is a value the store or the
// pricing calculator already produced.
package invoice

import (
	"fmt"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/threedq/threedq/internal/pricing"
	"github.com/threedq/threedq/internal/quotes"
)

// Document is the fully resolved input of the renderer: the stored
// quote, its computed breakdown and the display currency.
type Document struct {
	Quote     quotes.Quote
	Breakdown pricing.Breakdown
	Total     float64
	Currency  string
}

// Render produces the invoice PDF bytes for doc.
func Render(doc Document) ([]byte, error) {
	cfg := config.NewBuilder().
		WithOrientation(orientation.Vertical).
		WithPageSize(pagesize.A4).
		WithLeftMargin(12).
		WithTopMargin(12).
		WithRightMargin(12).
		Build()

	m := maroto.New(cfg)

	addHeader(m, doc)
	addLineItems(m, doc)
	addTotals(m, doc)

	generated, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("generate invoice pdf: %w", err)
	}
	return generated.GetBytes(), nil
}

func money(amount float64, currency string) string {
	return fmt.Sprintf("%.2f %s", amount, currency)
}

func addHeader(m core.Maroto, doc Document) {
	q := doc.Quote

	m.AddRows(
		row.New(10).Add(
			col.New(6).Add(
				text.New("INVOICE", props.Text{Size: 16, Style: fontstyle.Bold}),
			),
			col.New(6).Add(
				text.New(q.QuoteNumber, props.Text{Size: 16, Style: fontstyle.Bold, Align: align.Right}),
			),
		),
		row.New(6).Add(
			col.New(6).Add(text.New("Customer: "+q.CustomerName, props.Text{Size: 10})),
			col.New(6).Add(text.New("Date: "+q.Date, props.Text{Size: 10, Align: align.Right})),
		),
	)

	if q.Title != "" {
		m.AddRows(row.New(6).Add(
			col.New(12).Add(text.New(q.Title, props.Text{Size: 10, Style: fontstyle.Italic})),
		))
	}

	m.AddRows(row.New(3))
}

func lineItemRow(label, detail, amount string) core.Row {
	return row.New(5).Add(
		col.New(5).Add(text.New(label, props.Text{Size: 9})),
		col.New(4).Add(text.New(detail, props.Text{Size: 9})),
		col.New(3).Add(text.New(amount, props.Text{Size: 9, Align: align.Right})),
	)
}

func addLineItems(m core.Maroto, doc Document) {
	q := doc.Quote

	m.AddRows(row.New(6).Add(
		col.New(12).Add(text.New("Materials", props.Text{Size: 10, Style: fontstyle.Bold})),
	))

	for _, fl := range q.Filaments {
		m.AddRows(lineItemRow(
			fl.FilamentName,
			fmt.Sprintf("%.1f g", fl.GramsUsed),
			money(fl.TotalCost, doc.Currency),
		))
	}
	for _, hw := range q.Hardware {
		m.AddRows(lineItemRow(
			hw.HardwareName,
			fmt.Sprintf("%.0f x %s", hw.Quantity, money(hw.UnitPrice, doc.Currency)),
			money(hw.TotalCost, doc.Currency),
		))
	}
	if q.Print != nil {
		m.AddRows(
			lineItemRow(q.Print.PrinterName+" electricity",
				fmt.Sprintf("%.0f min", q.Print.PrintTime),
				money(q.Print.PowerCost, doc.Currency)),
			lineItemRow(q.Print.PrinterName+" depreciation", "",
				money(q.Print.DepreciationCost, doc.Currency)),
		)
	}

	if q.Labour != nil {
		minutes := q.Labour.DesignMinutes + q.Labour.PreparationMinutes +
			q.Labour.PostProcessingMinutes + q.Labour.OtherMinutes
		m.AddRows(
			row.New(6).Add(
				col.New(12).Add(text.New("Services", props.Text{Size: 10, Style: fontstyle.Bold})),
			),
			lineItemRow("Labour",
				fmt.Sprintf("%.0f min @ %s/h", minutes, money(q.Labour.LabourRatePerHour, doc.Currency)),
				money(q.Labour.TotalCost, doc.Currency)),
		)
	}
}

func totalsRow(label, amount string, bold bool) core.Row {
	style := fontstyle.Normal
	if bold {
		style = fontstyle.Bold
	}
	return row.New(5).Add(
		col.New(9).Add(text.New(label, props.Text{Size: 9, Style: style, Align: align.Right})),
		col.New(3).Add(text.New(amount, props.Text{Size: 9, Style: style, Align: align.Right})),
	)
}

func addTotals(m core.Maroto, doc Document) {
	b := doc.Breakdown
	q := doc.Quote

	m.AddRows(row.New(3))
	m.AddRows(totalsRow("Subtotal", money(b.Subtotal, doc.Currency), false))

	if q.MarkupPercent > 0 {
		m.AddRows(totalsRow(
			fmt.Sprintf("Markup (%.0f%%)", q.MarkupPercent),
			money(b.MarkupAmount, doc.Currency), false))
	}
	if q.DiscountPercent > 0 {
		m.AddRows(totalsRow(
			fmt.Sprintf("Discount (%.0f%%)", q.DiscountPercent),
			"-"+money(b.DiscountAmount, doc.Currency), false))
	}
	if b.TaxAmount > 0 {
		m.AddRows(totalsRow("Tax", money(b.TaxAmount, doc.Currency), false))
	}

	m.AddRows(totalsRow("Total", money(doc.Total, doc.Currency), true))

	if q.Notes != "" {
		m.AddRows(
			row.New(8),
			row.New(5).Add(col.New(12).Add(text.New("Notes: "+q.Notes, props.Text{Size: 8}))),
		)
	}
}
