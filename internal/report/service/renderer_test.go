package service

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	billingdomain "github.com/andeslabs/facturador/internal/billing/domain"
	companydomain "github.com/andeslabs/facturador/internal/company/domain"
	"github.com/andeslabs/facturador/internal/report/domain"
)

func TestNetSalesCellFormatsWholePesos(t *testing.T) {
	cases := []struct {
		raw  string
		want string
	}{
		{"1500000", "$ 1.500.000"},
		{"$ 1,500,000", "$ 1.500.000"},
		{"240000.49", "$ 240.000"},
		{"500", "$ 500"},
		{"", "$ 0"},
		{"N/A", "N/A"},
		{"no es numero", "$ 0"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, netSalesCell(tc.raw), "raw %q", tc.raw)
	}
}

func TestRenderProducesPDF(t *testing.T) {
	r := NewRenderer(zap.NewNop())

	rows := []billingdomain.BillingRecord{
		{Serial: "SER-1", NetworkUnitCode: "NUC-1", Brand: "IGT", NetSalesValue: "1500000",
			LocationCode: "100", LocationName: "CASINO RIO", Municipality: "CALI", Department: "VALLE"},
	}
	doc, err := Paginate(domain.DefaultLayout(), LocationFromRows("100 CASINO RIO", rows, 3), rows)
	require.NoError(t, err)

	pdf, err := r.Render(doc, companydomain.Company{Name: "ODESSA SAS", TaxID: "901.011.779-4"}, "C2099")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF")))
}
