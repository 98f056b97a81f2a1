// Package domain describes the shapes the ingestion stage works with: the
// flat table produced by the extractor and the per-source field mappings
// applied by the normalizer.
package domain

// RawTable is an ordered sequence of spreadsheet rows after unmerging and
// offset trimming. Rows may be ragged; consumers must bounds-check.
type RawTable struct {
	Rows [][]string
}

// FieldRule maps one or more source columns onto a named target field.
// When several columns are listed their trimmed values are joined with a
// single space; consecutive duplicate values collapse to one, which is the
// shape an unmerged cell pair produces.
type FieldRule struct {
	Target  string
	Columns []int
	// Default replaces a blank extracted value. Blank means null,
	// missing, empty or whitespace-only; a legitimate "0" is kept.
	Default string
}

// FieldMap is the ordered mapping for one input source. Columns not listed
// are dropped.
type FieldMap []FieldRule

// Fields is one normalized record keyed by target field name. Every target
// named by the FieldMap is present, defaulted if necessary.
type Fields map[string]string
