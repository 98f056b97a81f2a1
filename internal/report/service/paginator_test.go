package service

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	billingdomain "github.com/andeslabs/facturador/internal/billing/domain"
	"github.com/andeslabs/facturador/internal/report/domain"
)

func makeRows(n int) []billingdomain.BillingRecord {
	rows := make([]billingdomain.BillingRecord, n)
	for i := range rows {
		rows[i] = billingdomain.BillingRecord{
			Serial:        fmt.Sprintf("SR-%03d", i),
			LocationCode:  "100",
			LocationName:  "CASINO RIO",
			NetSalesValue: "1000",
		}
	}
	return rows
}

func TestPaginateEmptyLocation(t *testing.T) {
	_, err := Paginate(domain.DefaultLayout(), domain.Location{JoinKey: "100 CASINO RIO"}, nil)
	assert.ErrorIs(t, err, billingdomain.ErrEmptyLocation)
	assert.Contains(t, err.Error(), "100 CASINO RIO")
}

func TestPaginateSinglePageWithTotals(t *testing.T) {
	doc, err := Paginate(domain.DefaultLayout(), domain.Location{}, makeRows(14))
	require.NoError(t, err)

	require.Len(t, doc.Pages, 1)
	assert.Len(t, doc.Pages[0].Rows, 14)
	assert.False(t, doc.Pages[0].Continuation)
	assert.True(t, doc.Pages[0].Totals)
}

func TestPaginateTotalsSpillToOwnPage(t *testing.T) {
	// Fifteen rows still fit on the first page, but the totals block no
	// longer does.
	doc, err := Paginate(domain.DefaultLayout(), domain.Location{}, makeRows(15))
	require.NoError(t, err)

	require.Len(t, doc.Pages, 2)
	assert.Len(t, doc.Pages[0].Rows, 15)
	assert.False(t, doc.Pages[0].Totals)
	assert.Empty(t, doc.Pages[1].Rows)
	assert.True(t, doc.Pages[1].Continuation)
	assert.True(t, doc.Pages[1].Totals)
}

func TestPaginatePageCapacities(t *testing.T) {
	doc, err := Paginate(domain.DefaultLayout(), domain.Location{}, makeRows(30))
	require.NoError(t, err)

	require.Len(t, doc.Pages, 2)
	assert.Len(t, doc.Pages[0].Rows, 21, "first page loses header panel space")
	assert.Len(t, doc.Pages[1].Rows, 9)
	assert.True(t, doc.Pages[1].Totals)

	// No row is lost or duplicated across the break.
	assert.Equal(t, "SR-020", doc.Pages[0].Rows[20].Serial)
	assert.Equal(t, "SR-021", doc.Pages[1].Rows[0].Serial)
}

func TestPaginateContinuationCapacity(t *testing.T) {
	doc, err := Paginate(domain.DefaultLayout(), domain.Location{}, makeRows(44))
	require.NoError(t, err)

	require.Len(t, doc.Pages, 3)
	assert.Len(t, doc.Pages[0].Rows, 21)
	assert.Len(t, doc.Pages[1].Rows, 23, "continuation pages fit more rows")
	assert.Empty(t, doc.Pages[2].Rows)
	assert.True(t, doc.Pages[2].Totals)
}

func TestComputeTotals(t *testing.T) {
	rows := []billingdomain.BillingRecord{
		{NetSalesValue: "1500000"},
		{NetSalesValue: "$ 500,000"},
		{NetSalesValue: billingdomain.Placeholder},
	}

	totals, warnings := computeTotals(rows)
	assert.Zero(t, warnings)
	assert.Equal(t, int64(2000000), totals.NetSales)
	assert.Equal(t, int64(240000), totals.TaxTwelve)
	assert.Equal(t, int64(2400), totals.AdminFee)
	assert.Equal(t, int64(242400), totals.Payable)
}

func TestComputeTotalsRoundsOnExactSum(t *testing.T) {
	// 1000.5 rounds half away from zero; the tax is computed before the
	// net-sales sum is rounded.
	totals, warnings := computeTotals([]billingdomain.BillingRecord{
		{NetSalesValue: "500.25"},
		{NetSalesValue: "500.25"},
	})
	assert.Zero(t, warnings)
	assert.Equal(t, int64(1001), totals.NetSales)
	assert.Equal(t, int64(120), totals.TaxTwelve, "0.12 * 1000.5 = 120.06")
	assert.Equal(t, int64(1), totals.AdminFee)
	assert.Equal(t, int64(121), totals.Payable)
}

func TestComputeTotalsWarnsOnUnparseable(t *testing.T) {
	totals, warnings := computeTotals([]billingdomain.BillingRecord{
		{NetSalesValue: "1000"},
		{NetSalesValue: "ilegible"},
	})
	assert.Equal(t, 1, warnings)
	assert.Equal(t, int64(1000), totals.NetSales)
}

func TestGridSpansSumToGrid(t *testing.T) {
	spans := domain.GridSpans(domain.TableColumns(), 12)
	require.Len(t, spans, 4)

	sum := 0
	for _, s := range spans {
		sum += s
	}
	assert.Equal(t, 12, sum)
}

func TestLocationFromRows(t *testing.T) {
	rows := []billingdomain.BillingRecord{
		{LocationCode: "100", LocationName: "CASINO RIO", Municipality: "CALI", Department: "VALLE"},
		{LocationCode: "100", LocationName: "CASINO RIO", Municipality: "OTRA", Department: "OTRO"},
	}

	loc := LocationFromRows("100 CASINO RIO", rows, 7)
	assert.Equal(t, "CASINO RIO", loc.Name)
	assert.Equal(t, "CALI", loc.Municipality, "identity comes from the first row")
	assert.Equal(t, 7, loc.InventoryCount)
}
