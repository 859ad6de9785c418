// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/pricelist-engine/internal/convert"
	"github.com/pdiddy/pricelist-engine/pkg/types"
)

func strPtr(s string) *string   { return &s }
func numPtr(f float64) *float64 { return &f }

func record(id, title string, price *float64, attrs map[string]*string) types.Record {
	return types.Record{
		ID:          strPtr(id),
		Title:       title,
		Description: types.DefaultDescription,
		Price:       price,
		Attributes:  attrs,
	}
}

var (
	motors = []types.Record{
		record("M1", "Induction Motor", numPtr(1500), map[string]*string{"kW": strPtr("1.5")}),
		record("M2", "Heavy Duty Bracket", numPtr(250.5), map[string]*string{"kW": nil}),
		record("M3", "Motor 100% copper", nil, map[string]*string{}),
	}
	chains = []types.Record{
		record("C1", "Roller Chain", numPtr(100), map[string]*string{"Pitch": strPtr("12.7")}),
		record("C2", "Leaf Chain", numPtr(300), nil),
		record("C3", "Bush Chain", numPtr(200), nil),
	}
)

type fixture struct {
	store   *Store
	dataDir string
	export  string
}

func setup(t *testing.T) fixture {
	t.Helper()
	dir := t.TempDir()
	dataDir := filepath.Join(dir, "Extracted_Data")
	require.NoError(t, os.MkdirAll(dataDir, 0o755))

	cfg := types.CatalogConfig{
		DBPath:     filepath.Join(dir, "index", "catalog.db"),
		ExportDir:  filepath.Join(dir, "export"),
		MaxResults: 20,
	}
	store, err := Open(cfg, dataDir)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	return fixture{store: store, dataDir: dataDir, export: cfg.ExportDir}
}

func (f fixture) write(t *testing.T, name string, records []types.Record) string {
	t.Helper()
	path := filepath.Join(f.dataDir, name+convert.OutputSuffix)
	require.NoError(t, convert.WriteRecords(path, records, 4))
	return path
}

func (f fixture) ingest(t *testing.T) IngestSummary {
	t.Helper()
	logger, _ := test.NewNullLogger()
	summary, err := f.store.Ingest(context.Background(), logger)
	require.NoError(t, err)
	return summary
}

func TestOpenCreatesSchema(t *testing.T) {
	f := setup(t)

	var tables []string
	require.NoError(t, f.store.db.Select(&tables,
		`SELECT name FROM sqlite_master WHERE type='table' AND name IN ('sources','products') ORDER BY name`))
	assert.Equal(t, []string{"products", "sources"}, tables)
}

func TestOpenRequiresPath(t *testing.T) {
	_, err := Open(types.CatalogConfig{}, t.TempDir())
	assert.Error(t, err)
}

func TestSourceName(t *testing.T) {
	assert.Equal(t, "Motors 2024", SourceName("/out/Motors 2024_data.json"))
}

func TestIngest(t *testing.T) {
	f := setup(t)
	f.write(t, "motors", motors)
	f.write(t, "chains", chains)
	require.NoError(t, os.WriteFile(filepath.Join(f.dataDir, "notes.txt"), []byte("x"), 0o644))

	summary := f.ingest(t)

	assert.Equal(t, IngestSummary{Indexed: 2}, summary)
	assert.Equal(t, 2, summary.Total())

	sources, err := f.store.Sources(context.Background())
	require.NoError(t, err)
	require.Len(t, sources, 2)
	assert.Equal(t, "chains", sources[0].Name)
	assert.Equal(t, 3, sources[0].RecordCount)

	assert.FileExists(t, filepath.Join(f.export, "export.yaml"))
}

func TestIngestRoundTripsRecords(t *testing.T) {
	f := setup(t)
	f.write(t, "motors", motors)
	f.ingest(t)

	got, err := f.store.Search(context.Background(), Query{Source: "motors"})

	require.NoError(t, err)
	require.Len(t, got, 3)
	for i, p := range got {
		assert.Equal(t, "motors", p.Source)
		assert.Equal(t, i+1, p.Position)
		assert.Equal(t, motors[i], p.Record)
	}
}

func TestIngestSkipsUnchanged(t *testing.T) {
	f := setup(t)
	f.write(t, "motors", motors)
	f.ingest(t)

	summary := f.ingest(t)

	assert.Equal(t, IngestSummary{Skipped: 1}, summary)
}

func TestIngestUpdatesChanged(t *testing.T) {
	f := setup(t)
	path := f.write(t, "motors", motors)
	f.ingest(t)

	f.write(t, "motors", motors[:1])
	later := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes(path, later, later))

	summary := f.ingest(t)

	assert.Equal(t, IngestSummary{Updated: 1}, summary)
	got, err := f.store.Search(context.Background(), Query{})
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestIngestCountsBadFiles(t *testing.T) {
	f := setup(t)
	require.NoError(t, os.WriteFile(filepath.Join(f.dataDir, "broken"+convert.OutputSuffix), []byte("{not json"), 0o644))
	f.write(t, "chains", chains)
	logger, hook := test.NewNullLogger()

	summary, err := f.store.Ingest(context.Background(), logger)

	require.NoError(t, err)
	assert.Equal(t, IngestSummary{Indexed: 1, Failed: 1}, summary)
	var failed bool
	for _, e := range hook.AllEntries() {
		if e.Message == "failed to read records" {
			failed = true
			assert.Equal(t, "broken", e.Data["source"])
		}
	}
	assert.True(t, failed)
}

func TestIngestRemovesDeletedSources(t *testing.T) {
	f := setup(t)
	motorsPath := f.write(t, "motors", motors)
	f.write(t, "chains", chains)
	f.ingest(t)
	require.NoError(t, os.Remove(motorsPath))
	logger, hook := test.NewNullLogger()

	summary, err := f.store.Ingest(context.Background(), logger)

	require.NoError(t, err)
	assert.Equal(t, IngestSummary{Skipped: 1, Removed: 1}, summary)
	assert.Equal(t, 1, summary.Total())

	sources, err := f.store.Sources(context.Background())
	require.NoError(t, err)
	require.Len(t, sources, 1)
	assert.Equal(t, "chains", sources[0].Name)

	got, err := f.store.Search(context.Background(), Query{MaxResults: -1})
	require.NoError(t, err)
	assert.Len(t, got, len(chains))
	for _, p := range got {
		assert.Equal(t, "chains", p.Source)
	}

	var orphans int
	require.NoError(t, f.store.db.Get(&orphans, `SELECT COUNT(*) FROM products WHERE source = 'motors'`))
	assert.Zero(t, orphans)

	var removed bool
	for _, e := range hook.AllEntries() {
		if e.Message == "removed source" {
			removed = true
			assert.Equal(t, "motors", e.Data["source"])
		}
	}
	assert.True(t, removed)
}

func TestIngestKeepsSourceWithUnreadableFile(t *testing.T) {
	f := setup(t)
	path := f.write(t, "motors", motors)
	f.ingest(t)

	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))
	later := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes(path, later, later))

	summary := f.ingest(t)

	assert.Equal(t, IngestSummary{Failed: 1}, summary)
	got, err := f.store.Search(context.Background(), Query{Source: "motors"})
	require.NoError(t, err)
	assert.Len(t, got, len(motors))
}

func TestIngestMissingDataDir(t *testing.T) {
	f := setup(t)
	require.NoError(t, os.RemoveAll(f.dataDir))
	logger, _ := test.NewNullLogger()

	_, err := f.store.Ingest(context.Background(), logger)

	assert.ErrorContains(t, err, "reading data directory")
}

func TestSearch(t *testing.T) {
	f := setup(t)
	f.write(t, "motors", motors)
	f.write(t, "chains", chains)
	f.ingest(t)

	ids := func(ps []Product) []string {
		out := make([]string, len(ps))
		for i, p := range ps {
			out[i] = *p.ID
		}
		return out
	}

	tests := []struct {
		name string
		q    Query
		want []string
	}{
		{name: "everything in source order", q: Query{}, want: []string{"C1", "C2", "C3", "M1", "M2", "M3"}},
		{name: "text is case-insensitive", q: Query{Text: "CHAIN"}, want: []string{"C1", "C2", "C3"}},
		{name: "text matches id", q: Query{Text: "m2"}, want: []string{"M2"}},
		{name: "text matches description", q: Query{Text: "no desc"}, want: []string{"C1", "C2", "C3", "M1", "M2", "M3"}},
		{name: "percent is literal", q: Query{Text: "100%"}, want: []string{"M3"}},
		{name: "underscore is literal", q: Query{Text: "_"}, want: []string{}},
		{name: "source filter", q: Query{Source: "motors"}, want: []string{"M1", "M2", "M3"}},
		{name: "min price", q: Query{MinPrice: numPtr(250.5)}, want: []string{"C2", "M1", "M2"}},
		{name: "price range", q: Query{MinPrice: numPtr(150), MaxPrice: numPtr(300)}, want: []string{"C2", "C3", "M2"}},
		{name: "limit", q: Query{MaxResults: 2}, want: []string{"C1", "C2"}},
		{name: "combined", q: Query{Text: "motor", MaxPrice: numPtr(2000)}, want: []string{"M1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := f.store.Search(context.Background(), tt.q)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestSearchDefaultLimit(t *testing.T) {
	f := setup(t)
	f.store.maxResults = 4
	f.write(t, "motors", motors)
	f.write(t, "chains", chains)
	f.ingest(t)

	got, err := f.store.Search(context.Background(), Query{})

	require.NoError(t, err)
	assert.Len(t, got, 4)
}

func TestExportYAML(t *testing.T) {
	f := setup(t)
	f.write(t, "motors", motors)
	f.ingest(t)

	path, err := f.store.Export(context.Background(), FormatYAML, Query{})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(f.export, "export.yaml"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var got []map[string]any
	require.NoError(t, yaml.Unmarshal(data, &got))
	require.Len(t, got, 3)
	assert.Equal(t, "motors", got[0]["source"])
	assert.Equal(t, "M1", got[0]["id"])
	assert.Equal(t, "Induction Motor", got[0]["title"])
}

func TestExportJSONIgnoresLimit(t *testing.T) {
	f := setup(t)
	f.store.maxResults = 1
	f.write(t, "chains", chains)
	f.ingest(t)

	path, err := f.store.Export(context.Background(), FormatJSON, Query{Text: "chain", MaxResults: 1})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var got []map[string]any
	require.NoError(t, json.Unmarshal(data, &got))
	require.Len(t, got, 3)
	assert.Equal(t, "C1", got[0]["ID"])
	assert.Equal(t, "chains", got[0]["source"])
	assert.Equal(t, map[string]any{"Pitch": "12.7"}, got[0]["attributes"])
}

func TestExportXLSX(t *testing.T) {
	f := setup(t)
	f.write(t, "motors", motors)
	f.ingest(t)

	path, err := f.store.Export(context.Background(), FormatXLSX, Query{})
	require.NoError(t, err)

	wb, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer wb.Close()

	rows, err := wb.GetRows(productsSheet)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, []string{"source", "position", "ID", "title", "description", "price", "kW"}, rows[0])
	assert.Equal(t, []string{"motors", "1", "M1", "Induction Motor", types.DefaultDescription, "1500", "1.5"}, rows[1])
	assert.Equal(t, "Heavy Duty Bracket", rows[2][3])
}

func TestExportUnknownFormat(t *testing.T) {
	f := setup(t)

	_, err := f.store.Export(context.Background(), Format("csv"), Query{})

	assert.ErrorContains(t, err, "unknown export format")
}

func TestStats(t *testing.T) {
	f := setup(t)
	f.write(t, "motors", []types.Record{record("M1", "Motor", nil, nil)})
	f.write(t, "chains", chains)
	f.ingest(t)

	got, err := f.store.Stats(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []SourceStats{
		{Source: "chains", Products: 3, Priced: 3, Min: 100, Max: 300, Mean: 200, Median: 200},
		{Source: "motors", Products: 1},
	}, got)
}
