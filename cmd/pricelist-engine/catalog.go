// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/pricelist-engine/internal/catalog"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Index, search and export extracted records (store, search, export, stats)",
	Long: `Catalog manages a local SQLite index built from the <name>_data.json
files in the output directory. Use subcommands to index the files, search
them, export them, or summarise their prices.`,
}

// --- store subcommand ---

var catalogStoreCmd = &cobra.Command{
	Use:   "store",
	Short: "Ingest extracted JSON files into the catalog",
	Long: `Store reads every <name>_data.json file in the output directory into the
catalog database and writes export.yaml. Unchanged files are skipped on
subsequent runs; changed files replace their previous records.`,
	Args: cobra.NoArgs,
	RunE: runCatalogStore,
}

func runCatalogStore(cmd *cobra.Command, args []string) error {
	store, err := catalog.Open(cfg.Catalog, cfg.OutputDir)
	if err != nil {
		return err
	}
	defer store.Close()

	summary, err := store.Ingest(cmd.Context(), logger)
	if err != nil {
		return err
	}
	if summary.Failed > 0 {
		return fmt.Errorf("%d file(s) failed indexing", summary.Failed)
	}
	return nil
}

// --- search subcommand ---

var catalogSearchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search indexed products by text, source and price",
	Long: `Search matches the query case-insensitively against product IDs, titles
and descriptions, optionally restricted to one source or a price range.`,
	RunE: runCatalogSearch,
}

func runCatalogSearch(cmd *cobra.Command, args []string) error {
	q, err := queryFromFlags(cmd, args)
	if err != nil {
		return err
	}

	store, err := catalog.Open(cfg.Catalog, cfg.OutputDir)
	if err != nil {
		return err
	}
	defer store.Close()

	products, err := store.Search(cmd.Context(), q)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatSearchOutput(cmd.OutOrStdout(), products, jsonOutput)
}

func formatSearchOutput(w io.Writer, products []catalog.Product, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(products)
	}

	if len(products) == 0 {
		fmt.Fprintln(w, "No results found.")
		return nil
	}

	fmt.Fprintf(w, "%-20s  %-15s  %-40s  %12s\n", "Source", "ID", "Title", "Price")
	fmt.Fprintln(w, strings.Repeat("-", 93))
	for _, p := range products {
		id := "-"
		if p.ID != nil {
			id = truncate(*p.ID, 15)
		}
		price := "-"
		if p.Price != nil {
			price = strconv.FormatFloat(*p.Price, 'f', 2, 64)
		}
		fmt.Fprintf(w, "%-20s  %-15s  %-40s  %12s\n",
			truncate(p.Source, 20), id, truncate(p.Title, 40), price)
	}
	fmt.Fprintf(w, "\n%d results\n", len(products))
	return nil
}

// truncate shortens s to at most n runes, marking the cut with "...".
func truncate(s string, n int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// --- export subcommand ---

var catalogExportCmd = &cobra.Command{
	Use:   "export [query]",
	Short: "Export the catalog to YAML, JSON or XLSX",
	Long: `Export writes every indexed product (or a filtered subset) to
export.yaml, export.json or export.xlsx in the catalog export directory.
Supports the same filter flags as search.`,
	RunE: runCatalogExport,
}

func runCatalogExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	q, err := queryFromFlags(cmd, args)
	if err != nil {
		return err
	}

	store, err := catalog.Open(cfg.Catalog, cfg.OutputDir)
	if err != nil {
		return err
	}
	defer store.Close()

	path, err := store.Export(cmd.Context(), catalog.Format(format), q)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Exported to %s\n", path)
	return nil
}

// --- stats subcommand ---

var catalogStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarise product counts and prices per source",
	Args:  cobra.NoArgs,
	RunE:  runCatalogStats,
}

func runCatalogStats(cmd *cobra.Command, args []string) error {
	store, err := catalog.Open(cfg.Catalog, cfg.OutputDir)
	if err != nil {
		return err
	}
	defer store.Close()

	summaries, err := store.Stats(cmd.Context())
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(summaries)
	}

	fmt.Fprintf(w, "%-30s  %8s  %8s  %12s  %12s  %12s  %12s\n",
		"Source", "Products", "Priced", "Min", "Median", "Mean", "Max")
	fmt.Fprintln(w, strings.Repeat("-", 110))
	for _, s := range summaries {
		fmt.Fprintf(w, "%-30s  %8d  %8d  %12.2f  %12.2f  %12.2f  %12.2f\n",
			truncate(s.Source, 30), s.Products, s.Priced, s.Min, s.Median, s.Mean, s.Max)
	}
	return nil
}

// --- shared helpers ---

func queryFromFlags(cmd *cobra.Command, args []string) (catalog.Query, error) {
	text, _ := cmd.Flags().GetString("query")
	if text == "" && len(args) > 0 {
		text = strings.Join(args, " ")
	}
	source, _ := cmd.Flags().GetString("source")
	limit, _ := cmd.Flags().GetInt("limit")

	q := catalog.Query{Text: text, Source: source, MaxResults: limit}
	if limit == 0 {
		q.MaxResults = cfg.Catalog.MaxResults
	}
	if cmd.Flags().Changed("min-price") {
		v, _ := cmd.Flags().GetFloat64("min-price")
		q.MinPrice = &v
	}
	if cmd.Flags().Changed("max-price") {
		v, _ := cmd.Flags().GetFloat64("max-price")
		q.MaxPrice = &v
	}
	if q.MinPrice != nil && q.MaxPrice != nil && *q.MinPrice > *q.MaxPrice {
		return q, fmt.Errorf("--min-price %.2f is greater than --max-price %.2f", *q.MinPrice, *q.MaxPrice)
	}
	return q, nil
}

func init() {
	catalogCmd.PersistentFlags().String("db", "Data/catalog.db", "catalog SQLite database file")
	catalogCmd.PersistentFlags().String("export-dir", "Data/Export", "directory receiving export files")
	bindFlag("catalog.db_path", catalogCmd.PersistentFlags().Lookup("db"))
	bindFlag("catalog.export_dir", catalogCmd.PersistentFlags().Lookup("export-dir"))

	// Filter flags shared by search and export.
	for _, c := range []*cobra.Command{catalogSearchCmd, catalogExportCmd} {
		c.Flags().String("query", "", "text matched against ID, title and description")
		c.Flags().String("source", "", "restrict to one source (PDF name without extension)")
		c.Flags().Float64("min-price", 0, "minimum price, inclusive")
		c.Flags().Float64("max-price", 0, "maximum price, inclusive")
	}

	catalogSearchCmd.Flags().Int("limit", 0, "maximum results (0 = use catalog.max_results)")
	catalogSearchCmd.Flags().Bool("json", false, "output results as JSON")

	catalogExportCmd.Flags().String("format", "yaml", "export format: yaml, json or xlsx")

	catalogStatsCmd.Flags().Bool("json", false, "output statistics as JSON")

	catalogCmd.AddCommand(catalogStoreCmd)
	catalogCmd.AddCommand(catalogSearchCmd)
	catalogCmd.AddCommand(catalogExportCmd)
	catalogCmd.AddCommand(catalogStatsCmd)

	rootCmd.AddCommand(catalogCmd)
}
