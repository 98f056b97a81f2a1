package service

import (
	"fmt"

	"github.com/shopspring/decimal"

	billingdomain "github.com/andeslabs/facturador/internal/billing/domain"
	"github.com/andeslabs/facturador/internal/report/domain"
)

var (
	taxRate      = decimal.NewFromFloat(0.12)
	adminFeeRate = decimal.NewFromFloat(0.01)
)

// Paginate lays out one location's invoice. It is a pure function of the
// layout and the rows: the renderer draws exactly the pages produced here
// and never breaks pages on its own.
func Paginate(layout domain.Layout, location domain.Location, rows []billingdomain.BillingRecord) (domain.Document, error) {
	if len(rows) == 0 {
		return domain.Document{}, fmt.Errorf("%w: %s", billingdomain.ErrEmptyLocation, location.JoinKey)
	}

	totals, warnings := computeTotals(rows)

	var pages []domain.Page
	remaining := rows
	first := true
	for len(remaining) > 0 {
		top := layout.PageHeight - layout.HeaderHeight
		if !first {
			top = layout.PageHeight - layout.ContinuationTop
		}
		// Every page spends one row height on the table header.
		cursor := top - layout.RowHeight

		count := 0
		for count < len(remaining) && cursor-layout.RowHeight >= layout.FooterSpace {
			cursor -= layout.RowHeight
			count++
		}
		if count == 0 {
			count = 1
			cursor -= layout.RowHeight
		}

		page := domain.Page{Rows: remaining[:count], Continuation: !first}
		remaining = remaining[count:]
		if len(remaining) == 0 && cursor-layout.TotalsGap-layout.TotalsHeight >= layout.FooterSpace {
			page.Totals = true
		}
		pages = append(pages, page)
		first = false
	}

	if !pages[len(pages)-1].Totals {
		pages = append(pages, domain.Page{Continuation: true, Totals: true})
	}

	return domain.Document{
		Location:      location,
		Pages:         pages,
		Totals:        totals,
		ParseWarnings: warnings,
	}, nil
}

// computeTotals derives the invoice footer from the location's rows. The
// twelve-percent tax is computed on the exact net-sales sum and rounded
// once; the administration fee is one percent of the rounded tax.
func computeTotals(rows []billingdomain.BillingRecord) (domain.Totals, int) {
	netSales := decimal.Zero
	warnings := 0
	for _, rec := range rows {
		amount, ok := billingdomain.ParseAmount(rec.NetSalesValue)
		if !ok {
			warnings++
		}
		netSales = netSales.Add(amount)
	}

	tax := netSales.Mul(taxRate).Round(0)
	fee := tax.Mul(adminFeeRate).Round(0)
	return domain.Totals{
		NetSales:  netSales.Round(0).IntPart(),
		TaxTwelve: tax.IntPart(),
		AdminFee:  fee.IntPart(),
		Payable:   tax.Add(fee).IntPart(),
	}, warnings
}

// LocationFromRows builds the invoice header identity from a location's
// first billing row and the aggregation's inventory counts.
func LocationFromRows(key string, rows []billingdomain.BillingRecord, inventoryCount int) domain.Location {
	loc := domain.Location{JoinKey: key, InventoryCount: inventoryCount}
	if len(rows) > 0 {
		loc.Code = rows[0].LocationCode
		loc.Name = rows[0].LocationName
		loc.Municipality = rows[0].Municipality
		loc.Department = rows[0].Department
	}
	return loc
}
