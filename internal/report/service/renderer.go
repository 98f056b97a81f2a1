package service

import (
	"fmt"
	"strings"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/page"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"go.uber.org/zap"

	billingdomain "github.com/andeslabs/facturador/internal/billing/domain"
	companydomain "github.com/andeslabs/facturador/internal/company/domain"
	"github.com/andeslabs/facturador/internal/report/domain"
)

// gridColumns is the PDF engine's fixed horizontal grid.
const gridColumns = 12

// Renderer draws one paginated invoice document into a PDF. Page breaks
// are decided by the paginator; the renderer emits exactly one PDF page
// per laid-out page.
type Renderer interface {
	Render(doc domain.Document, company companydomain.Company, contract string) ([]byte, error)
}

type renderer struct {
	layout domain.Layout
	logger *zap.Logger
}

func NewRenderer(logger *zap.Logger) Renderer {
	return &renderer{
		layout: domain.DefaultLayout(),
		logger: logger.Named("report.renderer"),
	}
}

func (r *renderer) Render(doc domain.Document, company companydomain.Company, contract string) ([]byte, error) {
	margin := r.layout.Margin * domain.PtToMM

	cfg := config.NewBuilder().
		WithPageSize(pagesize.Letter).
		WithLeftMargin(margin).
		WithRightMargin(margin).
		WithTopMargin(margin).
		Build()
	m := maroto.New(cfg)

	if err := m.RegisterFooter(r.footer(company, contract)); err != nil {
		return nil, fmt.Errorf("register footer: %w", err)
	}

	for _, p := range doc.Pages {
		m.AddPages(r.buildPage(doc, company, contract, p))
	}

	generated, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("generate invoice for %s: %w", doc.Location.JoinKey, err)
	}

	r.logger.Debug("invoice rendered",
		zap.String("location", doc.Location.JoinKey),
		zap.Int("pages", len(doc.Pages)))
	return generated.GetBytes(), nil
}

func (r *renderer) buildPage(doc domain.Document, company companydomain.Company, contract string, p domain.Page) core.Page {
	rowH := r.layout.RowHeight * domain.PtToMM

	pg := page.New()
	if !p.Continuation {
		pg.Add(r.headerRows(doc.Location, company, contract)...)
	}
	if len(p.Rows) > 0 {
		pg.Add(r.tableHeader(rowH))
		spans := domain.GridSpans(domain.TableColumns(), gridColumns)
		for _, rec := range p.Rows {
			pg.Add(r.tableRow(rec, spans, rowH))
		}
	}
	if p.Totals {
		pg.Add(r.totalsRows(doc.Totals)...)
	}
	return pg
}

func (r *renderer) headerRows(loc domain.Location, company companydomain.Company, contract string) []core.Row {
	label := props.Text{Size: 8, Style: fontstyle.Bold}
	value := props.Text{Size: 8}

	return []core.Row{
		row.New(8).Add(
			text.NewCol(8, company.Name, props.Text{Size: 12, Style: fontstyle.Bold}),
			text.NewCol(4, "INFORME DE FACTURACIÓN", props.Text{Size: 10, Style: fontstyle.Bold, Align: align.Right}),
		),
		row.New(5).Add(
			text.NewCol(8, fmt.Sprintf("NIT %s", company.TaxID), value),
			text.NewCol(4, fmt.Sprintf("Contrato %s", contract), props.Text{Size: 8, Align: align.Right}),
		),
		line.NewRow(3),
		row.New(5).Add(
			text.NewCol(2, "Establecimiento:", label),
			text.NewCol(6, loc.Name, value),
			text.NewCol(2, "Código:", props.Text{Size: 8, Style: fontstyle.Bold, Align: align.Right}),
			text.NewCol(2, loc.Code, props.Text{Size: 8, Align: align.Right}),
		),
		row.New(5).Add(
			text.NewCol(2, "Municipio:", label),
			text.NewCol(6, loc.Municipality, value),
			text.NewCol(2, "Elementos:", props.Text{Size: 8, Style: fontstyle.Bold, Align: align.Right}),
			text.NewCol(2, fmt.Sprintf("%d", loc.InventoryCount), props.Text{Size: 8, Align: align.Right}),
		),
		row.New(6).Add(
			text.NewCol(2, "Departamento:", label),
			text.NewCol(10, loc.Department, value),
		),
	}
}

func (r *renderer) tableHeader(rowH float64) core.Row {
	spans := domain.GridSpans(domain.TableColumns(), gridColumns)
	header := row.New(rowH)
	for i, column := range domain.TableColumns() {
		header.Add(text.NewCol(spans[i], column.Title,
			props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Center, Top: 2}))
	}
	return header
}

// netSalesCell formats the net-sales column as whole pesos. The placeholder
// passes through untouched; everything else parses the way the aggregator
// parses it, so an unparseable cell prints as zero.
func netSalesCell(raw string) string {
	if strings.TrimSpace(raw) == billingdomain.Placeholder {
		return billingdomain.Placeholder
	}
	amount, _ := billingdomain.ParseAmount(raw)
	return billingdomain.FormatCOP(amount.Round(0).IntPart())
}

func (r *renderer) tableRow(rec billingdomain.BillingRecord, spans []int, rowH float64) core.Row {
	cells := []string{rec.Serial, rec.NetworkUnitCode, rec.Brand, netSalesCell(rec.NetSalesValue)}
	tr := row.New(rowH)
	for i, cell := range cells {
		alignment := align.Center
		if i == len(cells)-1 {
			alignment = align.Right
		}
		tr.Add(text.NewCol(spans[i], cell, props.Text{Size: 8, Align: alignment, Top: 2}))
	}
	return tr
}

func (r *renderer) totalsRows(totals domain.Totals) []core.Row {
	gap := r.layout.TotalsGap * domain.PtToMM

	amountRow := func(label string, amount int64, bold bool) core.Row {
		style := fontstyle.Normal
		if bold {
			style = fontstyle.Bold
		}
		return row.New(6).Add(
			col.New(5),
			text.NewCol(4, label, props.Text{Size: 9, Style: style, Align: align.Right}),
			text.NewCol(3, billingdomain.FormatCOP(amount), props.Text{Size: 9, Style: style, Align: align.Right}),
		)
	}

	return []core.Row{
		row.New(gap),
		line.NewRow(3),
		amountRow("Total Ventas Netas", totals.NetSales, false),
		amountRow("Derechos de Explotación (12%)", totals.TaxTwelve, false),
		amountRow("Gastos de Administración (1%)", totals.AdminFee, false),
		amountRow("Total a Pagar", totals.Payable, true),
	}
}

func (r *renderer) footer(company companydomain.Company, contract string) core.Row {
	return row.New(8).Add(
		text.NewCol(12, fmt.Sprintf("%s · NIT %s · Contrato %s", company.Name, company.TaxID, contract),
			props.Text{Size: 7, Align: align.Center, Top: 3}),
	)
}
