// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package index persists FileRecords in a SQLite database and exposes
// full-text search over previews. The index is derived state: it can be
// rebuilt from the graphs directory at any time.
package index

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/signalgraph/intelligence/pkg/types"
)

const dbFile = "intelligence.db"

// Store manages the record index SQLite database.
type Store struct {
	db         *sql.DB
	indexDir   string
	maxResults int
}

// NewStore opens or creates the index database at cfg.IndexDir/intelligence.db,
// creating the schema if it does not exist.
func NewStore(cfg types.IndexConfig) (*Store, error) {
	if err := os.MkdirAll(cfg.IndexDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}

	dbPath := filepath.Join(cfg.IndexDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 20
	}

	s := &Store{
		db:         db,
		indexDir:   cfg.IndexDir,
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
		`CREATE TABLE IF NOT EXISTS records (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			file TEXT NOT NULL,
			preview TEXT,
			source TEXT NOT NULL,
			checksum TEXT,
			ingest_id TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_records_file ON records(file)`,
		`CREATE TABLE IF NOT EXISTS indexing_status (
			graph_file TEXT PRIMARY KEY,
			file_mod_time TEXT
		)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	// FTS5 virtual table over previews with triggers for sync.
	var ftsExists int
	if err := s.db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name='records_fts'`,
	).Scan(&ftsExists); err != nil {
		return fmt.Errorf("checking FTS table: %w", err)
	}

	if ftsExists == 0 {
		ftsStatements := []string{
			`CREATE VIRTUAL TABLE records_fts USING fts5(preview, content=records, content_rowid=rowid)`,
			`CREATE TRIGGER records_ai AFTER INSERT ON records BEGIN
				INSERT INTO records_fts(rowid, preview) VALUES (new.rowid, new.preview);
			END`,
			`CREATE TRIGGER records_ad AFTER DELETE ON records BEGIN
				INSERT INTO records_fts(records_fts, rowid, preview) VALUES('delete', old.rowid, old.preview);
			END`,
			`CREATE TRIGGER records_au AFTER UPDATE ON records BEGIN
				INSERT INTO records_fts(records_fts, rowid, preview) VALUES('delete', old.rowid, old.preview);
				INSERT INTO records_fts(rowid, preview) VALUES (new.rowid, new.preview);
			END`,
		}
		for _, stmt := range ftsStatements {
			if _, err := s.db.Exec(stmt); err != nil {
				return fmt.Errorf("creating FTS infrastructure: %w", err)
			}
		}
	}

	return nil
}

// IngestSummary holds counts from an index ingestion run.
type IngestSummary struct {
	Indexed int
	Updated int
	Skipped int
	Failed  int
}

// Total returns the number of graph files processed.
func (s IngestSummary) Total() int {
	return s.Indexed + s.Updated + s.Skipped + s.Failed
}

// Ingest reads record JSON files from graphsDir and populates the index.
// Unchanged files (by modification time) are skipped so repeated runs are
// incremental. Per-file failures are counted, not fatal.
func (s *Store) Ingest(ctx context.Context, graphsDir string, w io.Writer) (IngestSummary, error) {
	entries, err := os.ReadDir(graphsDir)
	if err != nil {
		return IngestSummary{}, fmt.Errorf("reading graphs directory %s: %w", graphsDir, err)
	}

	var summary IngestSummary

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		select {
		case <-ctx.Done():
			return summary, ctx.Err()
		default:
		}

		name := entry.Name()
		graphPath := filepath.Join(graphsDir, name)

		info, err := entry.Info()
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", name, err)
			summary.Failed++
			continue
		}
		modTime := info.ModTime().UTC().Format(time.RFC3339Nano)

		var storedModTime string
		err = s.db.QueryRowContext(ctx,
			`SELECT file_mod_time FROM indexing_status WHERE graph_file = ?`, name,
		).Scan(&storedModTime)

		if err == nil && storedModTime == modTime {
			fmt.Fprintf(w, "skipped %s\n", name)
			summary.Skipped++
			continue
		}
		isUpdate := err == nil

		data, err := os.ReadFile(graphPath)
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", name, err)
			summary.Failed++
			continue
		}

		var rs types.ResultSet
		if err := json.Unmarshal(data, &rs); err != nil {
			fmt.Fprintf(w, "failed  %s: parse error: %v\n", name, err)
			summary.Failed++
			continue
		}

		if err := s.ingestResultSet(ctx, name, &rs, modTime); err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", name, err)
			summary.Failed++
			continue
		}

		if isUpdate {
			fmt.Fprintf(w, "updated %s (%d records)\n", name, len(rs.Files))
			summary.Updated++
		} else {
			fmt.Fprintf(w, "indexed %s (%d records)\n", name, len(rs.Files))
			summary.Indexed++
		}
	}

	fmt.Fprintf(w, "\nindexed: %d, updated: %d, skipped: %d, failed: %d\n",
		summary.Indexed, summary.Updated, summary.Skipped, summary.Failed)

	return summary, nil
}

func (s *Store) ingestResultSet(ctx context.Context, graphFile string, rs *types.ResultSet, modTime string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO records (id, file, preview, source, checksum, ingest_id)
		 VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, rec := range rs.Files {
		id := recordID(rec)

		// Delete explicitly so the records_fts delete trigger fires.
		// INSERT OR REPLACE removes the conflicting row without firing
		// it, leaving an orphaned entry in the external-content FTS table.
		if _, err := tx.ExecContext(ctx, `DELETE FROM records WHERE id = ?`, id); err != nil {
			return fmt.Errorf("deleting old record %s: %w", id, err)
		}

		_, err := stmt.ExecContext(ctx,
			id, rec.File, rec.Preview,
			rec.Provenance.Source, rec.Provenance.Checksum, rec.Provenance.IngestID,
		)
		if err != nil {
			return fmt.Errorf("inserting record for %s: %w", rec.File, err)
		}
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO indexing_status (graph_file, file_mod_time) VALUES (?, ?)
		 ON CONFLICT(graph_file) DO UPDATE SET file_mod_time=excluded.file_mod_time`,
		graphFile, modTime,
	)
	if err != nil {
		return fmt.Errorf("updating indexing status: %w", err)
	}

	return tx.Commit()
}

// recordID keys a record in the index. Records carrying an ingest ID use
// it directly; records produced without the ingest stage fall back to a
// digest of the source path, so re-indexing stays idempotent either way.
func recordID(rec types.FileRecord) string {
	if rec.Provenance.IngestID != "" {
		return rec.Provenance.IngestID
	}
	h := sha256.Sum256([]byte(rec.Provenance.Source))
	return fmt.Sprintf("%x", h)[:12]
}
