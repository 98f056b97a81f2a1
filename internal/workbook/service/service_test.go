package service

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	billingdomain "github.com/andeslabs/facturador/internal/billing/domain"
)

func buildWorkbook(t *testing.T) *excelize.File {
	t.Helper()
	svc := NewService(zap.NewNop())

	table := []billingdomain.BillingRecord{
		{Serial: "SR-1", Brand: "IGT", LocationCode: "100", LocationName: "CASINO RIO",
			NetSalesValue: "1000", ExploitationRights: "120"},
		{Serial: "SR-2", Brand: "IGT", LocationCode: "200", LocationName: "BINGO NORTE",
			NetSalesValue: "500", ExploitationRights: "60"},
	}
	agg := billingdomain.Aggregation{
		Summaries: []billingdomain.LocationSummary{
			{JoinKey: "100 CASINO RIO", SumExploitationRights: 120, AdjustedTotal: 121},
			{JoinKey: "200 BINGO NORTE", SumExploitationRights: 60, AdjustedTotal: 61},
		},
		GrandTotal: 182,
		InventoryCounts: map[string]int{
			"100 CASINO RIO":  3,
			"200 BINGO NORTE": 2,
		},
	}

	data, err := svc.Build(table, agg)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })
	return f
}

func TestBuildSheets(t *testing.T) {
	f := buildWorkbook(t)

	sheets := f.GetSheetList()
	assert.Contains(t, sheets, BillingSheet)
	assert.Contains(t, sheets, SummarySheet)
	assert.NotContains(t, sheets, "Sheet1")
}

func TestBuildBillingSheet(t *testing.T) {
	f := buildWorkbook(t)

	rows, err := f.GetRows(BillingSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "Serial", rows[0][0])
	assert.Equal(t, "Locales concatenados Anexo", rows[0][13])
	assert.Equal(t, "SR-1", rows[1][0])
	assert.Equal(t, "100 CASINO RIO", rows[1][13], "join key column is materialized")
}

func TestBuildSummarySheet(t *testing.T) {
	f := buildWorkbook(t)

	rows, err := f.GetRows(SummarySheet)
	require.NoError(t, err)
	require.Len(t, rows, 4)

	assert.Equal(t, []string{"Locales Anexo", "Total a Pagar",
		"Locales Concatenados Inventario", "Cantidad Inventario"}, rows[0])
	assert.Equal(t, "100 CASINO RIO", rows[1][0])
	assert.Equal(t, "121", rows[1][1])

	total := rows[3]
	assert.Equal(t, "TOTAL GENERAL", total[0])
	assert.Equal(t, "182", total[1])
}

func TestBuildInventoryBlock(t *testing.T) {
	f := buildWorkbook(t)

	rows, err := f.GetRows(SummarySheet)
	require.NoError(t, err)

	assert.Equal(t, "100 CASINO RIO", rows[1][2])
	assert.Equal(t, "3", rows[1][3])
	assert.Equal(t, "200 BINGO NORTE", rows[2][2])
	assert.Equal(t, "2", rows[2][3])
	assert.Equal(t, "Total Inventario", rows[3][2])
	assert.Equal(t, "5", rows[3][3])
}

func TestBuildInventoryOnlyLocationCrossReferenced(t *testing.T) {
	svc := NewService(zap.NewNop())

	table := []billingdomain.BillingRecord{
		{Serial: "SR-1", LocationCode: "100", LocationName: "CASINO RIO",
			NetSalesValue: "1000", ExploitationRights: "120"},
	}
	agg := billingdomain.Aggregation{
		Summaries: []billingdomain.LocationSummary{
			{JoinKey: "100 CASINO RIO", SumExploitationRights: 120, AdjustedTotal: 121},
		},
		GrandTotal: 121,
		InventoryCounts: map[string]int{
			"100 CASINO RIO":  2,
			"900 SALON PLAYA": 3,
		},
	}

	data, err := svc.Build(table, agg)
	require.NoError(t, err)
	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })

	rows, err := f.GetRows(SummarySheet)
	require.NoError(t, err)
	require.Len(t, rows, 4)

	// Summary column stops at the single billed location.
	assert.Equal(t, "100 CASINO RIO", rows[1][0])
	assert.Equal(t, "TOTAL GENERAL", rows[2][0])

	// The unbilled location still shows up in the cross-reference block.
	assert.Equal(t, "900 SALON PLAYA", rows[2][2])
	assert.Equal(t, "3", rows[2][3])
	assert.Equal(t, "Total Inventario", rows[3][2])
	assert.Equal(t, "5", rows[3][3])
}
