package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/andeslabs/facturador/internal/ingest/domain"
)

func TestNormalizeRowMergedPairCollapses(t *testing.T) {
	rule := domain.FieldRule{Target: "serial", Columns: []int{0, 1}, Default: "N/A"}

	fields := NormalizeRow([]string{"ABC-1", "ABC-1"}, domain.FieldMap{rule})
	assert.Equal(t, "ABC-1", fields["serial"])
}

func TestNormalizeRowDistinctColumnsJoinWithSingleSpace(t *testing.T) {
	rule := domain.FieldRule{Target: "department", Columns: []int{0, 1}, Default: "N/A"}

	fields := NormalizeRow([]string{"VALLE", "DEL CAUCA"}, domain.FieldMap{rule})
	assert.Equal(t, "VALLE DEL CAUCA", fields["department"])
}

func TestNormalizeRowBlankYieldsDefault(t *testing.T) {
	rules := domain.FieldMap{
		{Target: "brand", Columns: []int{0}, Default: "N/A"},
		{Target: "nuc", Columns: []int{1}, Default: "N/A"},
		{Target: "code", Columns: []int{9}, Default: "N/A"},
	}

	fields := NormalizeRow([]string{"   ", "0"}, rules)
	assert.Equal(t, "N/A", fields["brand"], "whitespace-only counts as blank")
	assert.Equal(t, "0", fields["nuc"], "a literal zero is a value, not a blank")
	assert.Equal(t, "N/A", fields["code"], "out-of-range column falls back to the default")
}

func TestNormalizeRowPartialMergedPair(t *testing.T) {
	rule := domain.FieldRule{Target: "bet_code", Columns: []int{0, 1}, Default: "N/A"}

	fields := NormalizeRow([]string{"", "777"}, domain.FieldMap{rule})
	assert.Equal(t, "777", fields["bet_code"])
}

func TestNormalizeTableEveryTargetPresent(t *testing.T) {
	table := domain.RawTable{Rows: [][]string{{"a"}, {""}}}
	rules := domain.FieldMap{
		{Target: "one", Columns: []int{0}, Default: "N/A"},
		{Target: "two", Columns: []int{5}, Default: "N/A"},
	}

	rows := NormalizeTable(table, rules)
	assert.Len(t, rows, 2)
	assert.Equal(t, domain.Fields{"one": "a", "two": "N/A"}, rows[0])
	assert.Equal(t, domain.Fields{"one": "N/A", "two": "N/A"}, rows[1])
}

func TestTrimTrailingBlank(t *testing.T) {
	rows := [][]string{
		{"1", "x"},
		{"", "middle blank stays"},
		{"2", "y"},
		{"   "},
		{},
		{"", "no reference value"},
	}

	trimmed := trimTrailingBlank(rows, 0)
	assert.Len(t, trimmed, 3)
	assert.Equal(t, "2", trimmed[2][0])
}
