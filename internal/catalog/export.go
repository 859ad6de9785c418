// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/xuri/excelize/v2"
	"go.yaml.in/yaml/v3"
)

// Format is an export file format.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
	FormatXLSX Format = "xlsx"
)

// Formats lists the supported export formats.
var Formats = []Format{FormatYAML, FormatJSON, FormatXLSX}

// productsSheet is the worksheet name used for xlsx exports.
const productsSheet = "Products"

// Export writes the products matching q to export.<format> in the export
// directory and returns the written path. The query's result limit is
// ignored; every match is exported.
func (s *Store) Export(ctx context.Context, format Format, q Query) (string, error) {
	q.MaxResults = -1
	products, err := s.Search(ctx, q)
	if err != nil {
		return "", fmt.Errorf("querying for export: %w", err)
	}

	if err := os.MkdirAll(s.exportDir, 0o755); err != nil {
		return "", fmt.Errorf("creating export directory: %w", err)
	}
	path := filepath.Join(s.exportDir, "export."+string(format))

	switch format {
	case FormatYAML:
		data, err := yaml.Marshal(products)
		if err != nil {
			return "", fmt.Errorf("marshaling YAML: %w", err)
		}
		return path, os.WriteFile(path, data, 0o644)
	case FormatJSON:
		data, err := json.MarshalIndent(products, "", "  ")
		if err != nil {
			return "", fmt.Errorf("marshaling JSON: %w", err)
		}
		return path, os.WriteFile(path, data, 0o644)
	case FormatXLSX:
		return path, writeXLSX(path, products)
	default:
		return "", fmt.Errorf("unknown export format %q", format)
	}
}

// writeXLSX writes one row per product. Attribute columns follow the
// fixed columns, one per distinct attribute name in sorted order.
func writeXLSX(path string, products []Product) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", productsSheet); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}

	attrSet := make(map[string]bool)
	for _, p := range products {
		for k := range p.Attributes {
			attrSet[k] = true
		}
	}
	attrs := make([]string, 0, len(attrSet))
	for k := range attrSet {
		attrs = append(attrs, k)
	}
	sort.Strings(attrs)

	header := []any{"source", "position", "ID", "title", "description", "price"}
	for _, a := range attrs {
		header = append(header, a)
	}
	if err := f.SetSheetRow(productsSheet, "A1", &header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, p := range products {
		row := []any{p.Source, p.Position, deref(p.ID), p.Title, p.Description, nil}
		if p.Price != nil {
			row[5] = *p.Price
		}
		for _, a := range attrs {
			row = append(row, deref(p.Attributes[a]))
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(productsSheet, cell, &row); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("saving workbook: %w", err)
	}
	return nil
}

func deref(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}
