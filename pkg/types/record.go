// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "strings"

// Default field values applied to records whose source row had no
// title or description column.
const (
	DefaultTitle       = "Unknown Title"
	DefaultDescription = "No Description"
)

// ConversionStatus indicates the outcome of converting one PDF.
type ConversionStatus string

const (
	ConversionDone   ConversionStatus = "converted"
	ConversionEmpty  ConversionStatus = "empty"
	ConversionFailed ConversionStatus = "failed"
)

// Record is one structured product row extracted from a price list.
// Field order is the JSON key order of the output files.
type Record struct {
	// ID is the catalog/part number, or nil when no identifier column matched.
	ID *string `json:"ID" yaml:"id"`

	// Title defaults to DefaultTitle.
	Title string `json:"title" yaml:"title"`

	// Description defaults to DefaultDescription.
	Description string `json:"description" yaml:"description"`

	// Price is the normalized numeric price, or nil when absent or unparseable.
	Price *float64 `json:"price" yaml:"price"`

	// Attributes holds every unclassified column keyed by its header label.
	// A nil value means the cell was empty.
	Attributes map[string]*string `json:"attributes" yaml:"attributes"`
}

// Table is a ruled table lifted from a PDF page. The first grid row
// becomes Header; an empty label or cell means the value was absent.
type Table struct {
	Page   int
	Header []string
	Rows   [][]string
}

// NewTable splits a raw cell grid into header and body rows.
func NewTable(page int, grid [][]string) Table {
	t := Table{Page: page}
	if len(grid) == 0 {
		return t
	}
	t.Header = grid[0]
	t.Rows = grid[1:]
	return t
}

// ColumnCount returns the width of the widest row, header included.
func (t Table) ColumnCount() int {
	n := len(t.Header)
	for _, r := range t.Rows {
		if len(r) > n {
			n = len(r)
		}
	}
	return n
}

// IsBlankRow reports whether every cell in row is empty or whitespace.
func IsBlankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
