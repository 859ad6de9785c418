// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert drives batch conversion of PDF price lists into JSON
// record files, one <stem>_data.json per input PDF.
package convert

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/pdiddy/pricelist-engine/internal/mapper"
	"github.com/pdiddy/pricelist-engine/internal/pdftable"
	"github.com/pdiddy/pricelist-engine/pkg/types"
)

const (
	// OutputSuffix is appended to the input file stem to name its output.
	OutputSuffix = "_data.json"

	// DefaultIndent is the JSON indentation width used when none is set.
	DefaultIndent = 4
)

// Options controls where and how output files are written.
type Options struct {
	OutputDir string

	// Indent is the number of spaces per JSON nesting level. Zero uses
	// DefaultIndent.
	Indent int
}

// FileResult is the outcome of converting one PDF.
type FileResult struct {
	Path        string
	Status      types.ConversionStatus
	Output      string // written file, set only when Status is ConversionDone
	Records     int
	PagesFailed int
	Err         error
}

// BatchResult holds the outcome of a batch conversion run.
type BatchResult struct {
	Converted   int
	Empty       int
	Failed      int
	Records     int
	PagesFailed int
	Files       []FileResult
}

// Total returns the total number of PDFs processed.
func (r BatchResult) Total() int {
	return r.Converted + r.Empty + r.Failed
}

// HasFailures reports whether any PDF could not be converted.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

func (r *BatchResult) add(fr FileResult) {
	switch fr.Status {
	case types.ConversionDone:
		r.Converted++
	case types.ConversionEmpty:
		r.Empty++
	case types.ConversionFailed:
		r.Failed++
	}
	r.Records += fr.Records
	r.PagesFailed += fr.PagesFailed
	r.Files = append(r.Files, fr)
}

// ListPDFs returns the PDF files directly inside dir, sorted by name. The
// extension match is case-insensitive; subdirectories are not searched.
func ListPDFs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading input directory: %w", err)
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".pdf") {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	return paths, nil
}

// OutputPath returns the JSON file path for pdfPath inside outputDir.
func OutputPath(outputDir, pdfPath string) string {
	base := filepath.Base(pdfPath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(outputDir, stem+OutputSuffix)
}

// ExtractRecords extracts every ruled table from pdfPath and maps its rows
// to records, in page then table then row order. Pages that fail are
// logged and counted but do not stop extraction.
func ExtractRecords(ctx context.Context, ex pdftable.Extractor, m *mapper.Mapper, pdfPath string, log logrus.FieldLogger) ([]types.Record, int, error) {
	pages, err := ex.Extract(ctx, pdfPath)
	if err != nil {
		return nil, 0, err
	}

	var (
		records []types.Record
		failed  int
	)
	for _, page := range pages {
		plog := log.WithField("page", page.Number)
		if page.Err != nil {
			plog.WithError(page.Err).Error("skipping page")
			failed++
			continue
		}
		for i, grid := range page.Tables {
			t := types.NewTable(page.Number, grid)
			if !m.Accepts(t) {
				plog.WithFields(logrus.Fields{
					"table":   i + 1,
					"columns": t.ColumnCount(),
				}).Debug("discarding narrow table")
				continue
			}
			mapped := m.MapTable(t)
			plog.WithFields(logrus.Fields{
				"table":   i + 1,
				"rows":    len(t.Rows),
				"records": len(mapped),
			}).Debug("mapped table")
			records = append(records, mapped...)
		}
	}
	return records, failed, nil
}

// ConvertFile converts one PDF and writes its records to
// OutputPath(opts.OutputDir, pdfPath). A PDF that yields no records
// produces no output file.
func ConvertFile(ctx context.Context, ex pdftable.Extractor, m *mapper.Mapper, pdfPath string, opts Options, log logrus.FieldLogger) FileResult {
	flog := log.WithField("file", filepath.Base(pdfPath))
	res := FileResult{Path: pdfPath}

	records, pagesFailed, err := ExtractRecords(ctx, ex, m, pdfPath, flog)
	res.PagesFailed = pagesFailed
	if err != nil {
		flog.WithError(err).Error("failed to process file")
		res.Status, res.Err = types.ConversionFailed, err
		return res
	}

	if len(records) == 0 {
		flog.Info("no data found")
		res.Status = types.ConversionEmpty
		return res
	}

	out := OutputPath(opts.OutputDir, pdfPath)
	if err := WriteRecords(out, records, opts.Indent); err != nil {
		flog.WithError(err).Error("failed to write output")
		res.Status, res.Err = types.ConversionFailed, err
		return res
	}

	res.Status, res.Output, res.Records = types.ConversionDone, out, len(records)
	flog.WithFields(logrus.Fields{
		"records": len(records),
		"output":  out,
	}).Info("converted")
	return res
}

// ConvertBatch converts pdfPaths in order. A file that fails is logged
// and counted, and the batch moves on. The returned error is non-nil only
// when the output directory cannot be created or ctx is cancelled; the
// result then covers the files finished so far.
func ConvertBatch(ctx context.Context, ex pdftable.Extractor, m *mapper.Mapper, pdfPaths []string, opts Options, log logrus.FieldLogger) (BatchResult, error) {
	var result BatchResult
	log = log.WithField("run_id", uuid.NewString())

	if err := os.MkdirAll(opts.OutputDir, 0o755); err != nil {
		return result, fmt.Errorf("creating output directory: %w", err)
	}

	for _, p := range pdfPaths {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		fr := ConvertFile(ctx, ex, m, p, opts, log)
		if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(fr.Err, ctxErr) {
			return result, ctxErr
		}
		result.add(fr)
	}

	log.WithFields(logrus.Fields{
		"converted":    result.Converted,
		"empty":        result.Empty,
		"failed":       result.Failed,
		"records":      result.Records,
		"pages_failed": result.PagesFailed,
		"total":        result.Total(),
	}).Info("batch summary")
	return result, nil
}
