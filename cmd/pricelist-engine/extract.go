// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/pdiddy/pricelist-engine/internal/convert"
	"github.com/pdiddy/pricelist-engine/internal/mapper"
	"github.com/pdiddy/pricelist-engine/internal/pdftable"
	"github.com/pdiddy/pricelist-engine/internal/vocab"
)

var extractCmd = &cobra.Command{
	Use:   "extract [pdfs...]",
	Short: "Convert PDF price lists into JSON product records",
	Long: `Extract reads each PDF page by page, detects ruled tables, maps their
rows to product records and writes <name>_data.json into the output
directory. With no arguments every .pdf file directly inside the input
directory is processed, in name order.

A page or file that cannot be read is logged and skipped. The command
exits non-zero only when at least one file failed.`,
	RunE: runExtract,
}

func init() {
	extractCmd.Flags().String("input-dir", "Data/Pricelist", "directory scanned for PDF files")
	extractCmd.Flags().Bool("all-tables", false, "map every ruled table on a page instead of only the largest")
	extractCmd.Flags().Bool("keep-shadowed", false, "keep columns that lost a role to an earlier column as attributes")
	extractCmd.Flags().Int("min-columns", 3, "discard tables with fewer columns")

	bindFlag("input_dir", extractCmd.Flags().Lookup("input-dir"))
	bindFlag("extraction.all_tables", extractCmd.Flags().Lookup("all-tables"))
	bindFlag("extraction.keep_shadowed_columns", extractCmd.Flags().Lookup("keep-shadowed"))
	bindFlag("extraction.min_columns", extractCmd.Flags().Lookup("min-columns"))

	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	// Progress goes to stdout; extract prints nothing else there.
	logger.SetOutput(cmd.OutOrStdout())

	v, err := vocab.Load(cfg.VocabularyFile)
	if err != nil {
		return err
	}
	ex := pdftable.NewTabulaExtractor(cfg.Extraction)
	m := mapper.New(v, mapper.Options{
		MinColumns:   cfg.Extraction.MinColumns,
		KeepShadowed: cfg.Extraction.KeepShadowedColumns,
	})

	paths := args
	if len(paths) == 0 {
		if paths, err = convert.ListPDFs(cfg.InputDir); err != nil {
			return err
		}
	}
	if len(paths) == 0 {
		logger.WithField("input_dir", cfg.InputDir).Warn("no PDF files found")
		return nil
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	opts := convert.Options{OutputDir: cfg.OutputDir, Indent: cfg.Extraction.Indent}
	result, err := convert.ConvertBatch(ctx, ex, m, paths, opts, logger)
	if err != nil {
		return err
	}
	if result.HasFailures() {
		return fmt.Errorf("%d file(s) failed conversion", result.Failed)
	}
	return nil
}
