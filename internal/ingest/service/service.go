package service

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	billingdomain "github.com/andeslabs/facturador/internal/billing/domain"
	"github.com/andeslabs/facturador/internal/ingest/domain"
)

// Service reads the three operator exports into normalized records.
type Service interface {
	ReadDeclaration(r io.Reader) ([]billingdomain.BillingRecord, error)
	ReadInventory(r io.Reader) ([]billingdomain.InventoryRecord, error)
	ReadBingoSupplement(r io.Reader, filename string) ([]billingdomain.BingoSupplementRecord, error)
}

type service struct {
	extractor Extractor
	logger    *zap.Logger
}

func NewService(extractor Extractor, logger *zap.Logger) Service {
	return &service{
		extractor: extractor,
		logger:    logger.Named("ingest.service"),
	}
}

// ReadDeclaration parses the declared-sales export. The sheet carries ten
// title rows and one legacy header row before the data begins.
func (s *service) ReadDeclaration(r io.Reader) ([]billingdomain.BillingRecord, error) {
	table, err := s.extractor.ExtractSheet(r, domain.DeclarationSheet, domain.DeclarationTitleRows)
	if err != nil {
		return nil, err
	}
	if len(table.Rows) > 0 {
		table.Rows = table.Rows[1:]
	}
	if len(table.Rows) == 0 {
		return nil, fmt.Errorf("%w: %s", billingdomain.ErrNoData, domain.DeclarationSheet)
	}

	records := make([]billingdomain.BillingRecord, 0, len(table.Rows))
	for _, row := range table.Rows {
		fields := NormalizeRow(row, domain.DeclarationFieldMap())
		records = append(records, billingdomain.BillingRecord{
			Serial:             fields[domain.FieldSerial],
			Brand:              fields[domain.FieldBrand],
			NetworkUnitCode:    fields[domain.FieldNetworkUnitCode],
			BetCode:            fields[domain.FieldBetCode],
			LocationName:       fields[domain.FieldLocationName],
			Municipality:       fields[domain.FieldMunicipality],
			Department:         fields[domain.FieldDepartment],
			NetSalesValue:      fields[domain.FieldNetSalesValue],
			RateTwelvePercent:  fields[domain.FieldRateTwelvePercent],
			FixedRate:          fields[domain.FieldFixedRate],
			ExploitationRights: fields[domain.FieldExploitationRights],
			RateType:           fields[domain.FieldRateType],
			LocationCode:       fields[domain.FieldLocationCode],
		})
	}
	s.logger.Info("declaration parsed", zap.Int("records", len(records)))
	return records, nil
}

// ReadInventory parses the asset-inventory export. Columns are addressed by
// header name on the first sheet's first row.
func (s *service) ReadInventory(r io.Reader) ([]billingdomain.InventoryRecord, error) {
	table, err := s.extractor.ExtractFirstSheet(r, 0)
	if err != nil {
		return nil, err
	}
	if len(table.Rows) == 0 {
		return nil, fmt.Errorf("%w: inventory", billingdomain.ErrNoData)
	}

	cols, err := headerIndex(table.Rows[0],
		domain.InventoryColLocationCode,
		domain.InventoryColLocationName,
		domain.InventoryColBetType)
	if err != nil {
		return nil, err
	}

	records := make([]billingdomain.InventoryRecord, 0, len(table.Rows)-1)
	for _, row := range table.Rows[1:] {
		rec := billingdomain.InventoryRecord{
			LocationCode: cellAt(row, cols[domain.InventoryColLocationCode]),
			LocationName: cellAt(row, cols[domain.InventoryColLocationName]),
			BetType:      cellAt(row, cols[domain.InventoryColBetType]),
		}
		if rec.LocationCode == "" && rec.LocationName == "" {
			continue
		}
		records = append(records, rec)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: inventory", billingdomain.ErrNoData)
	}
	s.logger.Info("inventory parsed", zap.Int("records", len(records)))
	return records, nil
}

// ReadBingoSupplement parses the optional bingo annex. The upload is
// rejected up front when its extension is outside the allow-list.
func (s *service) ReadBingoSupplement(r io.Reader, filename string) ([]billingdomain.BingoSupplementRecord, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedBingoExtension(ext) {
		return nil, fmt.Errorf("%w: %s", billingdomain.ErrUnsupportedFormat, ext)
	}

	table, err := s.extractor.ExtractFirstSheet(r, domain.BingoTitleRows)
	if err != nil {
		return nil, err
	}
	if len(table.Rows) == 0 {
		return nil, fmt.Errorf("%w: bingo supplement", billingdomain.ErrNoData)
	}

	cols, err := headerIndex(table.Rows[0],
		domain.BingoColLocationCode,
		domain.BingoColLocationName,
		domain.BingoColExploitationVal)
	if err != nil {
		return nil, err
	}

	records := make([]billingdomain.BingoSupplementRecord, 0, len(table.Rows)-1)
	for _, row := range table.Rows[1:] {
		rec := billingdomain.BingoSupplementRecord{
			LocationCode:       cellAt(row, cols[domain.BingoColLocationCode]),
			LocationName:       cellAt(row, cols[domain.BingoColLocationName]),
			ExploitationRights: cellAt(row, cols[domain.BingoColExploitationVal]),
		}
		if rec.LocationCode == "" && rec.LocationName == "" {
			continue
		}
		records = append(records, rec)
	}
	s.logger.Info("bingo supplement parsed", zap.Int("records", len(records)))
	return records, nil
}

func allowedBingoExtension(ext string) bool {
	for _, allowed := range domain.BingoAllowedExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}

// headerIndex locates each wanted header in the header row by trimmed
// comparison and returns a name-to-column index.
func headerIndex(header []string, wanted ...string) (map[string]int, error) {
	index := make(map[string]int, len(wanted))
	for i, cell := range header {
		index[strings.TrimSpace(cell)] = i
	}
	out := make(map[string]int, len(wanted))
	for _, name := range wanted {
		col, ok := index[name]
		if !ok {
			return nil, fmt.Errorf("%w: %s", billingdomain.ErrMissingColumn, name)
		}
		out[name] = col
	}
	return out, nil
}

func cellAt(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[col])
}
