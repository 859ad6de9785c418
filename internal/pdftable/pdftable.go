// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pdftable reads PDF price lists page by page and returns the ruled
// tables found on each page as grids of cell text.
package pdftable

import (
	"context"
	"fmt"
	"sort"

	"github.com/tsawler/tabula/reader"

	"github.com/pdiddy/pricelist-engine/pkg/types"
)

// PageResult is the outcome of table extraction on one page. Err is set when
// the page could not be read or analysed; the remaining pages are still
// returned.
type PageResult struct {
	// Number is the 1-based page number.
	Number int

	// Tables holds each table as rows of cell text, header row first.
	Tables [][][]string

	Err error
}

// Extractor returns the ruled tables of every page of a PDF. An error is
// returned only when the document as a whole cannot be read.
type Extractor interface {
	Extract(ctx context.Context, pdfPath string) ([]PageResult, error)
}

// grid is one detected table before it is reduced to plain text rows.
type grid struct {
	top, left float64
	cells     int
	rows      [][]string
}

// detector finds ruled tables in the content of one page.
type detector interface {
	detect(pc pageContent) ([]grid, error)
}

// TabulaExtractor extracts ruled tables using the tabula PDF reader.
type TabulaExtractor struct {
	detector  detector
	allTables bool
}

// NewTabulaExtractor returns an extractor that rebuilds tables from page
// rulings with the tolerances in cfg.Lattice.
func NewTabulaExtractor(cfg types.ExtractionConfig) *TabulaExtractor {
	return &TabulaExtractor{
		detector:  latticeDetector{cfg: cfg.Lattice},
		allTables: cfg.AllTables,
	}
}

// Extract opens pdfPath and extracts tables page by page, in page order.
// The reader is closed before Extract returns. Cancelling ctx stops
// extraction between pages and returns the pages done so far with ctx's
// error.
func (e *TabulaExtractor) Extract(ctx context.Context, pdfPath string) ([]PageResult, error) {
	r, err := reader.Open(pdfPath)
	if err != nil {
		return nil, fmt.Errorf("opening pdf: %w", err)
	}
	defer r.Close()

	n, err := r.PageCount()
	if err != nil {
		return nil, fmt.Errorf("counting pages: %w", err)
	}

	results := make([]PageResult, 0, n)
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		res := PageResult{Number: i + 1}
		res.Tables, res.Err = e.extractPage(r, i)
		results = append(results, res)
	}
	return results, nil
}

// extractPage runs detection on page idx. The PDF parser may panic on
// malformed content, so panics are turned into a page error.
func (e *TabulaExtractor) extractPage(r *reader.Reader, idx int) (tables [][][]string, err error) {
	defer func() {
		if p := recover(); p != nil {
			tables, err = nil, fmt.Errorf("page %d: parser panic: %v", idx+1, p)
		}
	}()

	page, err := r.GetPage(idx)
	if err != nil {
		return nil, fmt.Errorf("page %d: %w", idx+1, err)
	}
	pc, err := readPage(r, page)
	if err != nil {
		return nil, fmt.Errorf("page %d: %w", idx+1, err)
	}
	found, err := e.detector.detect(pc)
	if err != nil {
		return nil, fmt.Errorf("page %d: detecting tables: %w", idx+1, err)
	}
	return selectTables(found, e.allTables), nil
}

// selectTables orders grids top to bottom, left to right, and returns
// either all of them or only the one with the most cells. Ties go to the
// topmost table.
func selectTables(found []grid, all bool) [][][]string {
	if len(found) == 0 {
		return nil
	}
	sorted := append([]grid(nil), found...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].top != sorted[j].top {
			return sorted[i].top > sorted[j].top
		}
		return sorted[i].left < sorted[j].left
	})

	if !all {
		best := sorted[0]
		for _, g := range sorted[1:] {
			if g.cells > best.cells {
				best = g
			}
		}
		return [][][]string{best.rows}
	}

	out := make([][][]string, len(sorted))
	for i, g := range sorted {
		out[i] = g.rows
	}
	return out
}
