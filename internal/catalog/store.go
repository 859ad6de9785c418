// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package catalog indexes extracted price-list records in SQLite so they
// can be searched, summarised and exported across all converted PDFs.
// The index mirrors the JSON output files; it never merges or
// deduplicates records from different sources.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"

	"github.com/pdiddy/pricelist-engine/internal/convert"
	"github.com/pdiddy/pricelist-engine/pkg/types"
)

// DefaultMaxResults limits search results when neither the query nor the
// configuration sets a limit.
const DefaultMaxResults = 20

// Store manages the catalog SQLite database.
type Store struct {
	db         *sqlx.DB
	dataDir    string
	exportDir  string
	maxResults int
}

// Open opens or creates the catalog database at cfg.DBPath and creates
// the schema if needed. dataDir is the directory holding the
// *_data.json files to ingest.
func Open(cfg types.CatalogConfig, dataDir string) (*Store, error) {
	if cfg.DBPath == "" {
		return nil, errors.New("catalog database path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	db, err := sqlx.Open("sqlite3", cfg.DBPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}
	exportDir := cfg.ExportDir
	if exportDir == "" {
		exportDir = filepath.Dir(cfg.DBPath)
	}

	s := &Store{
		db:         db,
		dataDir:    dataDir,
		exportDir:  exportDir,
		maxResults: maxResults,
	}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS sources (
			name TEXT PRIMARY KEY,
			path TEXT NOT NULL,
			file_mod_time TEXT NOT NULL,
			record_count INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS products (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			source TEXT NOT NULL REFERENCES sources(name) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			product_id TEXT,
			title TEXT NOT NULL,
			description TEXT NOT NULL,
			price REAL,
			attributes TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_products_source ON products(source, position)`,
		`CREATE INDEX IF NOT EXISTS idx_products_product_id ON products(product_id)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Source is one ingested output file.
type Source struct {
	Name        string `db:"name" json:"name" yaml:"name"`
	Path        string `db:"path" json:"path" yaml:"path"`
	FileModTime string `db:"file_mod_time" json:"file_mod_time" yaml:"file_mod_time"`
	RecordCount int    `db:"record_count" json:"record_count" yaml:"record_count"`
}

// productRow is the database shape of a product.
type productRow struct {
	Source      string   `db:"source"`
	Position    int      `db:"position"`
	ProductID   *string  `db:"product_id"`
	Title       string   `db:"title"`
	Description string   `db:"description"`
	Price       *float64 `db:"price"`
	Attributes  string   `db:"attributes"`
}

// IngestSummary holds counts from a catalog ingestion run.
type IngestSummary struct {
	Indexed int
	Updated int
	Skipped int
	Failed  int

	// Removed counts sources dropped because their file no longer exists.
	Removed int
}

// Total returns the number of files processed. Removed sources are not
// files and are not counted.
func (s IngestSummary) Total() int {
	return s.Indexed + s.Updated + s.Skipped + s.Failed
}

// SourceName returns the catalog source name for an output file path:
// its base name without the _data.json suffix.
func SourceName(path string) string {
	return strings.TrimSuffix(filepath.Base(path), convert.OutputSuffix)
}

// Ingest loads every *_data.json file in the data directory. Files whose
// modification time matches the last ingestion are skipped; changed
// files replace their previous records in a single transaction. Sources
// whose file is gone from the data directory are removed with their
// products. When anything changed, export.yaml is rewritten.
func (s *Store) Ingest(ctx context.Context, log logrus.FieldLogger) (IngestSummary, error) {
	entries, err := os.ReadDir(s.dataDir)
	if err != nil {
		return IngestSummary{}, fmt.Errorf("reading data directory %s: %w", s.dataDir, err)
	}

	var summary IngestSummary
	present := make(map[string]bool)
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), convert.OutputSuffix) {
			continue
		}
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		path := filepath.Join(s.dataDir, entry.Name())
		name := SourceName(path)
		present[name] = true
		slog := log.WithField("source", name)

		info, err := entry.Info()
		if err != nil {
			slog.WithError(err).Error("failed to stat file")
			summary.Failed++
			continue
		}
		modTime := info.ModTime().UTC().Format(time.RFC3339Nano)

		var stored string
		err = s.db.GetContext(ctx, &stored, `SELECT file_mod_time FROM sources WHERE name = ?`, name)
		if err == nil && stored == modTime {
			slog.Debug("skipped unchanged source")
			summary.Skipped++
			continue
		}
		isUpdate := err == nil

		records, err := readRecords(path)
		if err != nil {
			slog.WithError(err).Error("failed to read records")
			summary.Failed++
			continue
		}

		if err := s.ingestSource(ctx, Source{Name: name, Path: path, FileModTime: modTime, RecordCount: len(records)}, records); err != nil {
			slog.WithError(err).Error("failed to index source")
			summary.Failed++
			continue
		}

		slog = slog.WithField("records", len(records))
		if isUpdate {
			slog.Info("updated source")
			summary.Updated++
		} else {
			slog.Info("indexed source")
			summary.Indexed++
		}
	}

	removed, err := s.pruneSources(ctx, present, log)
	if err != nil {
		return summary, err
	}
	summary.Removed = removed

	log.WithFields(logrus.Fields{
		"indexed": summary.Indexed,
		"updated": summary.Updated,
		"skipped": summary.Skipped,
		"failed":  summary.Failed,
		"removed": summary.Removed,
	}).Info("catalog ingest summary")

	if summary.Indexed > 0 || summary.Updated > 0 || summary.Removed > 0 {
		if _, err := s.Export(ctx, FormatYAML, Query{}); err != nil {
			log.WithError(err).Warn("export.yaml write failed")
		}
	}
	return summary, nil
}

func readRecords(path string) ([]types.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var records []types.Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", filepath.Base(path), err)
	}
	return records, nil
}

func (s *Store) ingestSource(ctx context.Context, src Source, records []types.Record) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM products WHERE source = ?`, src.Name); err != nil {
		return fmt.Errorf("deleting old products: %w", err)
	}

	_, err = tx.NamedExecContext(ctx,
		`INSERT INTO sources (name, path, file_mod_time, record_count)
		 VALUES (:name, :path, :file_mod_time, :record_count)
		 ON CONFLICT(name) DO UPDATE SET
			path=excluded.path, file_mod_time=excluded.file_mod_time,
			record_count=excluded.record_count`, src)
	if err != nil {
		return fmt.Errorf("upserting source: %w", err)
	}

	stmt, err := tx.PrepareNamedContext(ctx,
		`INSERT INTO products (source, position, product_id, title, description, price, attributes)
		 VALUES (:source, :position, :product_id, :title, :description, :price, :attributes)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i, rec := range records {
		attrs, err := json.Marshal(rec.Attributes)
		if err != nil {
			return fmt.Errorf("encoding attributes of record %d: %w", i+1, err)
		}
		row := productRow{
			Source:      src.Name,
			Position:    i + 1,
			ProductID:   rec.ID,
			Title:       rec.Title,
			Description: rec.Description,
			Price:       rec.Price,
			Attributes:  string(attrs),
		}
		if _, err := stmt.ExecContext(ctx, row); err != nil {
			return fmt.Errorf("inserting record %d: %w", i+1, err)
		}
	}

	return tx.Commit()
}

// pruneSources deletes every source not in present, with its products.
func (s *Store) pruneSources(ctx context.Context, present map[string]bool, log logrus.FieldLogger) (int, error) {
	var names []string
	if err := s.db.SelectContext(ctx, &names, `SELECT name FROM sources ORDER BY name`); err != nil {
		return 0, fmt.Errorf("listing sources: %w", err)
	}

	removed := 0
	for _, name := range names {
		if present[name] {
			continue
		}
		if err := s.removeSource(ctx, name); err != nil {
			return removed, err
		}
		log.WithField("source", name).Info("removed source")
		removed++
	}
	return removed, nil
}

func (s *Store) removeSource(ctx context.Context, name string) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM products WHERE source = ?`, name); err != nil {
		return fmt.Errorf("deleting products of %s: %w", name, err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM sources WHERE name = ?`, name); err != nil {
		return fmt.Errorf("deleting source %s: %w", name, err)
	}
	return tx.Commit()
}

// Sources lists the ingested sources by name.
func (s *Store) Sources(ctx context.Context) ([]Source, error) {
	var sources []Source
	if err := s.db.SelectContext(ctx, &sources,
		`SELECT name, path, file_mod_time, record_count FROM sources ORDER BY name`); err != nil {
		return nil, fmt.Errorf("listing sources: %w", err)
	}
	return sources, nil
}
