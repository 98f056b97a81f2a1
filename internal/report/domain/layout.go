// Package domain describes the invoice page geometry and the paginated
// document shape the renderer consumes. All layout distances are in
// PostScript points on a portrait Letter page.
package domain

import billingdomain "github.com/andeslabs/facturador/internal/billing/domain"

// PtToMM converts layout points to the millimetres the PDF engine works in.
const PtToMM = 25.4 / 72.0

// Layout is the fixed invoice page geometry.
type Layout struct {
	PageWidth  float64
	PageHeight float64
	Margin     float64
	// RowHeight is the height of one table row, header row included.
	RowHeight float64
	// HeaderHeight is the vertical space reserved above the table on the
	// first page for the company and location panels.
	HeaderHeight float64
	// ContinuationTop is the space reserved above the table on
	// continuation pages, which carry no panels.
	ContinuationTop float64
	// TotalsHeight is the space the totals block needs, and TotalsGap the
	// clearance between the last table row and the block.
	TotalsHeight float64
	TotalsGap    float64
	// FooterSpace is the zone at the bottom of every page kept free for
	// the page footer.
	FooterSpace float64
}

func DefaultLayout() Layout {
	return Layout{
		PageWidth:       612,
		PageHeight:      792,
		Margin:          40,
		RowHeight:       28,
		HeaderHeight:    90,
		ContinuationTop: 30,
		TotalsHeight:    140,
		TotalsGap:       40,
		FooterSpace:     80,
	}
}

// UsableWidth is the horizontal span available to the table.
func (l Layout) UsableWidth() float64 {
	return l.PageWidth - 2*l.Margin
}

// Column is one table column with its nominal width. Nominal widths are
// rescaled uniformly to the usable page width at render time.
type Column struct {
	Title string
	Width float64
}

// TableColumns is the invoice detail table: one line per machine.
func TableColumns() []Column {
	return []Column{
		{Title: "Serial", Width: 130},
		{Title: "NUC", Width: 120},
		{Title: "Marca", Width: 160},
		{Title: "Ventas Netas", Width: 120},
	}
}

// GridSpans distributes the columns' nominal widths across a fixed integer
// grid by largest remainder, so the spans always sum to the grid total.
func GridSpans(columns []Column, grid int) []int {
	total := 0.0
	for _, c := range columns {
		total += c.Width
	}
	spans := make([]int, len(columns))
	remainders := make([]float64, len(columns))
	used := 0
	for i, c := range columns {
		exact := c.Width / total * float64(grid)
		spans[i] = int(exact)
		remainders[i] = exact - float64(spans[i])
		used += spans[i]
	}
	for used < grid {
		best := 0
		for i := 1; i < len(remainders); i++ {
			if remainders[i] > remainders[best] {
				best = i
			}
		}
		spans[best]++
		remainders[best] = -1
		used++
	}
	return spans
}

// Page is one laid-out invoice page. A page can carry rows, the totals
// block, or both; a totals-only page occurs when the block does not fit
// under the last table row.
type Page struct {
	Rows         []billingdomain.BillingRecord
	Continuation bool
	Totals       bool
}

// Totals is the invoice's financial footer. TaxTwelve is computed on the
// exact net-sales sum and rounded once; the administration fee is one
// percent of the rounded tax.
type Totals struct {
	NetSales  int64
	TaxTwelve int64
	AdminFee  int64
	Payable   int64
}

// Location is the per-establishment identity shown on the invoice header,
// taken from the location's first billing row.
type Location struct {
	JoinKey        string
	Code           string
	Name           string
	Municipality   string
	Department     string
	InventoryCount int
}

// Document is one location's fully laid-out invoice, ready to render.
type Document struct {
	Location Location
	Pages    []Page
	Totals   Totals
	// ParseWarnings counts net-sales cells that could not be interpreted
	// and contributed zero to the totals.
	ParseWarnings int
}
