package service

import (
	"strings"

	"github.com/andeslabs/facturador/internal/ingest/domain"
)

// NormalizeRow applies a field map to one raw row. Multi-column rules join
// the cell values with a single space; consecutive equal values collapse to
// one occurrence, which is what a flattened merged pair produces. A rule
// whose columns are all blank or out of range yields its default.
func NormalizeRow(row []string, fields domain.FieldMap) domain.Fields {
	out := make(domain.Fields, len(fields))
	for _, rule := range fields {
		out[rule.Target] = normalizeField(row, rule)
	}
	return out
}

func normalizeField(row []string, rule domain.FieldRule) string {
	parts := make([]string, 0, len(rule.Columns))
	for _, col := range rule.Columns {
		if col < 0 || col >= len(row) {
			continue
		}
		v := strings.TrimSpace(row[col])
		if v == "" {
			continue
		}
		if len(parts) > 0 && parts[len(parts)-1] == v {
			continue
		}
		parts = append(parts, v)
	}
	if len(parts) == 0 {
		return rule.Default
	}
	return strings.Join(parts, " ")
}

// NormalizeTable applies a field map to every row of a raw table.
func NormalizeTable(table domain.RawTable, fields domain.FieldMap) []domain.Fields {
	out := make([]domain.Fields, 0, len(table.Rows))
	for _, row := range table.Rows {
		out = append(out, NormalizeRow(row, fields))
	}
	return out
}
