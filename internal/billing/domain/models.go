// Package domain holds the normalized record types shared by the
// ingestion, reconciliation and aggregation stages.
package domain

import "strings"

// Placeholder is the display default written into any cell that arrives
// blank from the operator's spreadsheets.
const Placeholder = "N/A"

// DegenerateJoinKey is the join key produced when a row carries neither a
// location code nor a location name. Rows under this key are still
// aggregated, but the resulting summary is flagged so the output never
// silently merges unrelated blank rows.
const DegenerateJoinKey = Placeholder + " " + Placeholder

// BingoBetTypeMarker is the bet-type cell value that identifies a
// bingo-class contract in the inventory export.
const BingoBetTypeMarker = "<=250"

// JoinKey derives the composite key used to correlate rows across the
// independently sourced spreadsheets. Both components are trimmed first so
// that the key is byte-identical regardless of which source produced it.
func JoinKey(locationCode, locationName string) string {
	return strings.TrimSpace(strings.TrimSpace(locationCode) + " " + strings.TrimSpace(locationName))
}

// BillingRecord is one physical machine's declared-sales line for a period.
// Cell values are kept as strings exactly as normalized (placeholders
// included); numeric interpretation happens at aggregation time.
type BillingRecord struct {
	Serial             string
	Brand              string
	NetworkUnitCode    string
	BetCode            string
	LocationName       string
	Municipality       string
	Department         string
	NetSalesValue      string
	RateTwelvePercent  string
	FixedRate          string
	ExploitationRights string
	RateType           string
	LocationCode       string
}

// Key returns the record's derived join key. A record defaulted on both
// location fields yields DegenerateJoinKey.
func (r BillingRecord) Key() string {
	return JoinKey(r.LocationCode, r.LocationName)
}

// BingoSupplementRecord is one location's supplemental exploitation-rights
// line from the optional bingo annex. It is appended to the billing table,
// never merged into an existing row.
type BingoSupplementRecord struct {
	LocationCode       string
	LocationName       string
	ExploitationRights string
}

func (r BingoSupplementRecord) Key() string {
	return JoinKey(r.LocationCode, r.LocationName)
}

// AsBillingRecord widens a bingo row to the full billing shape with every
// unused field defaulted, so downstream grouping has no per-source branch.
func (r BingoSupplementRecord) AsBillingRecord() BillingRecord {
	return BillingRecord{
		Serial:             Placeholder,
		Brand:              Placeholder,
		NetworkUnitCode:    Placeholder,
		BetCode:            Placeholder,
		LocationName:       r.LocationName,
		Municipality:       Placeholder,
		Department:         Placeholder,
		NetSalesValue:      Placeholder,
		RateTwelvePercent:  Placeholder,
		FixedRate:          Placeholder,
		ExploitationRights: r.ExploitationRights,
		RateType:           Placeholder,
		LocationCode:       r.LocationCode,
	}
}

// InventoryRecord is one machine from the operator's asset inventory. It
// never feeds the tax computation; it only drives occurrence counts.
type InventoryRecord struct {
	LocationCode string
	LocationName string
	BetType      string
}

func (r InventoryRecord) Key() string {
	return JoinKey(r.LocationCode, r.LocationName)
}

// IsBingoContract reports whether the row marks a bingo-class contract.
func (r InventoryRecord) IsBingoContract() bool {
	return strings.TrimSpace(r.BetType) == BingoBetTypeMarker
}

// LocationSummary is the aggregated financial total for one join key.
// AdjustedTotal carries the fixed 1% administrative surcharge, rounded once
// after the surcharge is applied.
type LocationSummary struct {
	JoinKey               string
	SumExploitationRights int64
	AdjustedTotal         int64
	InventoryCount        int
	// Degenerate marks the placeholder group formed by rows whose
	// location fields were both blank.
	Degenerate bool
}

// Aggregation is the full output of the aggregation stage for one run.
type Aggregation struct {
	Summaries       []LocationSummary
	GrandTotal      int64
	InventoryCounts map[string]int
	// ParseWarnings counts exploitation-rights cells that could not be
	// interpreted numerically and contributed zero to their group.
	ParseWarnings int
}
