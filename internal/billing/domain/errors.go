package domain

import "errors"

var (
	// ErrMissingSheet is returned when a workbook does not contain the
	// sheet a source layout requires. Surfaced to the caller as an input
	// error, never retried.
	ErrMissingSheet = errors.New("required sheet not found")

	// ErrUnsupportedFormat is returned when an uploaded file's extension
	// is outside the spreadsheet allow-list.
	ErrUnsupportedFormat = errors.New("unsupported spreadsheet format")

	// ErrMissingColumn is returned when an otherwise well-formed sheet
	// lacks a required column.
	ErrMissingColumn = errors.New("required column not found")

	// ErrEmptyLocation is returned by the paginator when asked to lay out
	// a location with zero billing rows.
	ErrEmptyLocation = errors.New("location has no billing rows")

	// ErrNoRenderableLocations is returned by the archive assembler when
	// every location failed to render.
	ErrNoRenderableLocations = errors.New("no location produced a document")

	// ErrNoData is returned when a required input yields zero usable rows.
	ErrNoData = errors.New("input contains no data rows")
)
