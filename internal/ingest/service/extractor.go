package service

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	billingdomain "github.com/andeslabs/facturador/internal/billing/domain"
	"github.com/andeslabs/facturador/internal/ingest/domain"
)

// Extractor turns an uploaded spreadsheet into a rectangular raw table with
// merged ranges flattened and title rows discarded.
type Extractor interface {
	ExtractSheet(r io.Reader, sheet string, skipRows int) (domain.RawTable, error)
	ExtractFirstSheet(r io.Reader, skipRows int) (domain.RawTable, error)
}

type extractor struct {
	logger *zap.Logger
}

func NewExtractor(logger *zap.Logger) Extractor {
	return &extractor{logger: logger.Named("ingest.extractor")}
}

func (e *extractor) ExtractSheet(r io.Reader, sheet string, skipRows int) (domain.RawTable, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return domain.RawTable{}, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	if idx, err := f.GetSheetIndex(sheet); err != nil || idx == -1 {
		return domain.RawTable{}, fmt.Errorf("%w: %s", billingdomain.ErrMissingSheet, sheet)
	}
	return e.extract(f, sheet, skipRows)
}

func (e *extractor) ExtractFirstSheet(r io.Reader, skipRows int) (domain.RawTable, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return domain.RawTable{}, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return domain.RawTable{}, billingdomain.ErrMissingSheet
	}
	return e.extract(f, sheets[0], skipRows)
}

func (e *extractor) extract(f *excelize.File, sheet string, skipRows int) (domain.RawTable, error) {
	if err := flattenMergedCells(f, sheet); err != nil {
		return domain.RawTable{}, err
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return domain.RawTable{}, fmt.Errorf("read rows from %q: %w", sheet, err)
	}
	if skipRows > len(rows) {
		skipRows = len(rows)
	}
	rows = rows[skipRows:]
	rows = trimTrailingBlank(rows, 0)

	e.logger.Debug("extracted sheet",
		zap.String("sheet", sheet),
		zap.Int("skipped_rows", skipRows),
		zap.Int("data_rows", len(rows)))

	return domain.RawTable{Rows: rows}, nil
}

// flattenMergedCells replaces every merged range with its anchor value
// copied into each covered cell, so downstream column maps see the same
// value in both halves of a merged pair.
func flattenMergedCells(f *excelize.File, sheet string) error {
	merged, err := f.GetMergeCells(sheet)
	if err != nil {
		return fmt.Errorf("list merged cells in %q: %w", sheet, err)
	}
	for _, mc := range merged {
		value := mc.GetCellValue()
		start, end := mc.GetStartAxis(), mc.GetEndAxis()
		if err := f.UnmergeCell(sheet, start, end); err != nil {
			return fmt.Errorf("unmerge %s:%s in %q: %w", start, end, sheet, err)
		}
		startCol, startRow, err := excelize.CellNameToCoordinates(start)
		if err != nil {
			return err
		}
		endCol, endRow, err := excelize.CellNameToCoordinates(end)
		if err != nil {
			return err
		}
		for row := startRow; row <= endRow; row++ {
			for col := startCol; col <= endCol; col++ {
				cell, err := excelize.CoordinatesToCellName(col, row)
				if err != nil {
					return err
				}
				if err := f.SetCellValue(sheet, cell, value); err != nil {
					return fmt.Errorf("fill unmerged cell %s in %q: %w", cell, sheet, err)
				}
			}
		}
	}
	return nil
}

// trimTrailingBlank drops rows from the tail whose reference column is
// empty. Blank rows in the middle of the data are kept.
func trimTrailingBlank(rows [][]string, refCol int) [][]string {
	end := len(rows)
	for end > 0 {
		row := rows[end-1]
		if refCol < len(row) && strings.TrimSpace(row[refCol]) != "" {
			break
		}
		end--
	}
	return rows[:end]
}
