// Package service writes the reviewer-facing workbook: the assembled
// billing table plus the per-location summary with its inventory
// cross-reference.
package service

import (
	"fmt"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	billingdomain "github.com/andeslabs/facturador/internal/billing/domain"
)

const (
	BillingSheet = "Facturación"
	SummarySheet = "ResumenVentasPorLocal"

	grandTotalLabel     = "TOTAL GENERAL"
	inventoryTotalLabel = "Total Inventario"
)

var billingHeaders = []string{
	"Serial", "Marca", "NUC", "Código de Apuesta", "Establecimiento",
	"Municipio", "Departamento", "Valor Ventas Netas", "Tarifa 12%",
	"Tarifa Fija", "Derechos de explotación", "Tipo tarifa",
	"Codigo de establecimiento", "Locales concatenados Anexo",
}

var billingWidths = []float64{31, 42, 14, 17, 36, 29, 18, 20, 16, 10, 23, 10, 23, 35}

// Service builds the billing workbook for one run.
type Service interface {
	Build(table []billingdomain.BillingRecord, agg billingdomain.Aggregation) ([]byte, error)
}

type service struct {
	logger *zap.Logger
}

func NewService(logger *zap.Logger) Service {
	return &service{logger: logger.Named("workbook.service")}
}

func (s *service) Build(table []billingdomain.BillingRecord, agg billingdomain.Aggregation) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := s.writeBillingSheet(f, table); err != nil {
		return nil, err
	}
	if err := s.writeSummarySheet(f, agg); err != nil {
		return nil, err
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("drop default sheet: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("serialize workbook: %w", err)
	}

	s.logger.Info("workbook built",
		zap.Int("billing_rows", len(table)),
		zap.Int("summary_rows", len(agg.Summaries)))
	return buf.Bytes(), nil
}

func (s *service) writeBillingSheet(f *excelize.File, table []billingdomain.BillingRecord) error {
	if _, err := f.NewSheet(BillingSheet); err != nil {
		return fmt.Errorf("create %s: %w", BillingSheet, err)
	}

	headerStyle, err := headerStyle(f)
	if err != nil {
		return err
	}

	for i, width := range billingWidths {
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(BillingSheet, name, name, width); err != nil {
			return err
		}
	}

	header := make([]any, len(billingHeaders))
	for i, h := range billingHeaders {
		header[i] = h
	}
	if err := f.SetSheetRow(BillingSheet, "A1", &header); err != nil {
		return err
	}
	lastCol, _ := excelize.ColumnNumberToName(len(billingHeaders))
	if err := f.SetCellStyle(BillingSheet, "A1", lastCol+"1", headerStyle); err != nil {
		return err
	}

	for i, rec := range table {
		key := rec.Key()
		if key == "" {
			key = billingdomain.DegenerateJoinKey
		}
		cells := []any{
			rec.Serial, rec.Brand, rec.NetworkUnitCode, rec.BetCode,
			rec.LocationName, rec.Municipality, rec.Department,
			rec.NetSalesValue, rec.RateTwelvePercent, rec.FixedRate,
			rec.ExploitationRights, rec.RateType, rec.LocationCode, key,
		}
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(BillingSheet, cell, &cells); err != nil {
			return err
		}
	}
	return nil
}

func (s *service) writeSummarySheet(f *excelize.File, agg billingdomain.Aggregation) error {
	if _, err := f.NewSheet(SummarySheet); err != nil {
		return fmt.Errorf("create %s: %w", SummarySheet, err)
	}

	hdrStyle, err := headerStyle(f)
	if err != nil {
		return err
	}
	moneyStyle, err := currencyStyle(f)
	if err != nil {
		return err
	}

	if err := f.SetColWidth(SummarySheet, "A", "A", 40); err != nil {
		return err
	}
	if err := f.SetColWidth(SummarySheet, "B", "B", 20); err != nil {
		return err
	}
	if err := f.SetColWidth(SummarySheet, "C", "D", 35); err != nil {
		return err
	}

	if err := f.SetSheetRow(SummarySheet, "A1", &[]any{"Locales Anexo", "Total a Pagar"}); err != nil {
		return err
	}
	if err := f.SetCellStyle(SummarySheet, "A1", "B1", hdrStyle); err != nil {
		return err
	}

	row := 2
	for _, summary := range agg.Summaries {
		cell := fmt.Sprintf("A%d", row)
		if err := f.SetSheetRow(SummarySheet, cell, &[]any{summary.JoinKey, summary.AdjustedTotal}); err != nil {
			return err
		}
		if err := f.SetCellStyle(SummarySheet, fmt.Sprintf("B%d", row), fmt.Sprintf("B%d", row), moneyStyle); err != nil {
			return err
		}
		row++
	}

	cell := fmt.Sprintf("A%d", row)
	if err := f.SetSheetRow(SummarySheet, cell, &[]any{grandTotalLabel, agg.GrandTotal}); err != nil {
		return err
	}
	if err := f.SetCellStyle(SummarySheet, cell, fmt.Sprintf("B%d", row), hdrStyle); err != nil {
		return err
	}

	return s.writeInventoryBlock(f, agg, hdrStyle)
}

// writeInventoryBlock appends the inventory occurrence cross-reference in
// the two columns to the right of the summary, so a reviewer can compare
// billed locations against the declared inventory side by side.
func (s *service) writeInventoryBlock(f *excelize.File, agg billingdomain.Aggregation, hdrStyle int) error {
	if err := f.SetSheetRow(SummarySheet, "C1",
		&[]any{"Locales Concatenados Inventario", "Cantidad Inventario"}); err != nil {
		return err
	}
	if err := f.SetCellStyle(SummarySheet, "C1", "D1", hdrStyle); err != nil {
		return err
	}

	keys := sortedCountKeys(agg.InventoryCounts)
	row := 2
	total := 0
	for _, key := range keys {
		cell := fmt.Sprintf("C%d", row)
		if err := f.SetSheetRow(SummarySheet, cell, &[]any{key, agg.InventoryCounts[key]}); err != nil {
			return err
		}
		total += agg.InventoryCounts[key]
		row++
	}

	cell := fmt.Sprintf("C%d", row)
	if err := f.SetSheetRow(SummarySheet, cell, &[]any{inventoryTotalLabel, total}); err != nil {
		return err
	}
	return f.SetCellStyle(SummarySheet, cell, fmt.Sprintf("D%d", row), hdrStyle)
}

func sortedCountKeys(counts map[string]int) []string {
	keys := make([]string, 0, len(counts))
	for key := range counts {
		keys = append(keys, key)
	}
	billingdomain.SortSpanish(keys)
	return keys
}

func headerStyle(f *excelize.File) (int, error) {
	return f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF", Size: 12},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"0070C0"}},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
}

func currencyStyle(f *excelize.File) (int, error) {
	format := `"$"#,##0`
	return f.NewStyle(&excelize.Style{
		CustomNumFmt: &format,
		Alignment:    &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
}
