// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package index

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/signalgraph/intelligence/pkg/types"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(types.IndexConfig{
		IndexDir: filepath.Join(t.TempDir(), "index"),
	})
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func writeGraph(t *testing.T, dir, name string, records ...types.FileRecord) string {
	t.Helper()
	rs := types.ResultSet{Files: records}
	data, err := json.MarshalIndent(rs, "", "  ")
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func record(file, preview, ingestID string) types.FileRecord {
	return types.FileRecord{
		File:      file,
		Preview:   preview,
		Entities:  []types.Entity{},
		Relations: []types.Relation{},
		Provenance: types.Provenance{
			Source:   file,
			Checksum: "deadbeef",
			IngestID: ingestID,
		},
	}
}

func TestIngestAndQuery(t *testing.T) {
	store := testStore(t)
	graphsDir := t.TempDir()
	writeGraph(t, graphsDir, "one.json", record("data/a.txt", "alpha signal in the noise", "id-a"))
	writeGraph(t, graphsDir, "two.json", record("data/b.txt", "beta channel report", "id-b"))

	var buf strings.Builder
	summary, err := store.Ingest(context.Background(), graphsDir, &buf)
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if summary.Indexed != 2 {
		t.Fatalf("Indexed = %d, want 2", summary.Indexed)
	}

	results, err := store.Query(context.Background(), QueryOptions{Query: "alpha"})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}
	r := results[0]
	if r.File != "data/a.txt" {
		t.Errorf("File = %q, want %q", r.File, "data/a.txt")
	}
	if r.IngestID != "id-a" {
		t.Errorf("IngestID = %q, want %q", r.IngestID, "id-a")
	}
	if r.Checksum != "deadbeef" {
		t.Errorf("Checksum = %q, want %q", r.Checksum, "deadbeef")
	}
}

func TestIngestSkipsUnchanged(t *testing.T) {
	store := testStore(t)
	graphsDir := t.TempDir()
	writeGraph(t, graphsDir, "one.json", record("data/a.txt", "stable content", "id-a"))

	ctx := context.Background()
	var buf strings.Builder
	if _, err := store.Ingest(ctx, graphsDir, &buf); err != nil {
		t.Fatalf("first Ingest: %v", err)
	}

	buf.Reset()
	summary, err := store.Ingest(ctx, graphsDir, &buf)
	if err != nil {
		t.Fatalf("second Ingest: %v", err)
	}
	if summary.Skipped != 1 {
		t.Errorf("Skipped = %d, want 1", summary.Skipped)
	}
	if summary.Indexed != 0 {
		t.Errorf("Indexed = %d, want 0", summary.Indexed)
	}
	if !strings.Contains(buf.String(), "skipped") {
		t.Errorf("output should report the skip: %s", buf.String())
	}
}

func TestIngestUpdatesChanged(t *testing.T) {
	store := testStore(t)
	graphsDir := t.TempDir()
	path := writeGraph(t, graphsDir, "one.json", record("data/a.txt", "first version", "id-a"))

	ctx := context.Background()
	var buf strings.Builder
	if _, err := store.Ingest(ctx, graphsDir, &buf); err != nil {
		t.Fatalf("first Ingest: %v", err)
	}

	writeGraph(t, graphsDir, "one.json", record("data/a.txt", "second version", "id-a"))
	future := time.Now().Add(time.Hour)
	if err := os.Chtimes(path, future, future); err != nil {
		t.Fatal(err)
	}

	summary, err := store.Ingest(ctx, graphsDir, &buf)
	if err != nil {
		t.Fatalf("second Ingest: %v", err)
	}
	if summary.Updated != 1 {
		t.Fatalf("Updated = %d, want 1", summary.Updated)
	}

	results, err := store.Query(ctx, QueryOptions{File: "data/a.txt"})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1 (update must replace, not duplicate)", len(results))
	}
	if results[0].Preview != "second version" {
		t.Errorf("Preview = %q, want %q", results[0].Preview, "second version")
	}
}

func TestIngestUpdateKeepsFTSInSync(t *testing.T) {
	store := testStore(t)
	graphsDir := t.TempDir()
	path := writeGraph(t, graphsDir, "one.json", record("data/a.txt", "first version", "id-a"))

	ctx := context.Background()
	var buf strings.Builder
	if _, err := store.Ingest(ctx, graphsDir, &buf); err != nil {
		t.Fatalf("first Ingest: %v", err)
	}

	writeGraph(t, graphsDir, "one.json", record("data/a.txt", "second version", "id-a"))
	future := time.Now().Add(time.Hour)
	if err := os.Chtimes(path, future, future); err != nil {
		t.Fatal(err)
	}
	if _, err := store.Ingest(ctx, graphsDir, &buf); err != nil {
		t.Fatalf("second Ingest: %v", err)
	}

	// The external-content shadow table must stay in sync through an
	// update; the integrity check fails if a replaced row left an
	// orphaned entry behind.
	if _, err := store.db.Exec(
		`INSERT INTO records_fts(records_fts, rank) VALUES('integrity-check', 1)`,
	); err != nil {
		t.Fatalf("FTS index out of sync after update: %v", err)
	}

	// The old preview must no longer be searchable; the new one must be.
	stale, err := store.Query(ctx, QueryOptions{Query: "first"})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(stale) != 0 {
		t.Errorf("got %d results for the replaced preview, want 0", len(stale))
	}
	fresh, err := store.Query(ctx, QueryOptions{Query: "second"})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(fresh) != 1 {
		t.Errorf("got %d results for the updated preview, want 1", len(fresh))
	}
}

func TestIngestMalformedJSONCountedFailed(t *testing.T) {
	store := testStore(t)
	graphsDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(graphsDir, "broken.json"), []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	writeGraph(t, graphsDir, "good.json", record("data/a.txt", "fine", "id-a"))

	var buf strings.Builder
	summary, err := store.Ingest(context.Background(), graphsDir, &buf)
	if err != nil {
		t.Fatalf("Ingest should not abort on a malformed file: %v", err)
	}
	if summary.Failed != 1 {
		t.Errorf("Failed = %d, want 1", summary.Failed)
	}
	if summary.Indexed != 1 {
		t.Errorf("Indexed = %d, want 1", summary.Indexed)
	}
}

func TestIngestIgnoresNonJSON(t *testing.T) {
	store := testStore(t)
	graphsDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(graphsDir, "manifest.yaml"), []byte("created_at: now"), 0o644); err != nil {
		t.Fatal(err)
	}

	var buf strings.Builder
	summary, err := store.Ingest(context.Background(), graphsDir, &buf)
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if summary.Total() != 0 {
		t.Errorf("Total() = %d, want 0", summary.Total())
	}
}

func TestQueryFileFilter(t *testing.T) {
	store := testStore(t)
	graphsDir := t.TempDir()
	writeGraph(t, graphsDir, "one.json",
		record("data/a.txt", "shared term", "id-a"),
		record("data/b.txt", "shared term", "id-b"),
	)

	ctx := context.Background()
	var buf strings.Builder
	if _, err := store.Ingest(ctx, graphsDir, &buf); err != nil {
		t.Fatalf("Ingest: %v", err)
	}

	results, err := store.Query(ctx, QueryOptions{Query: "shared", File: "data/b.txt"})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(results) != 1 || results[0].File != "data/b.txt" {
		t.Errorf("results = %+v, want only data/b.txt", results)
	}
}

func TestQueryOptionsIsEmpty(t *testing.T) {
	if !(QueryOptions{}).IsEmpty() {
		t.Error("zero options should be empty")
	}
	if (QueryOptions{Query: "x"}).IsEmpty() {
		t.Error("query options should not be empty")
	}
	if (QueryOptions{File: "a"}).IsEmpty() {
		t.Error("file filter options should not be empty")
	}
}

func TestRecordIDFallback(t *testing.T) {
	withID := record("data/a.txt", "p", "explicit-id")
	if recordID(withID) != "explicit-id" {
		t.Errorf("recordID should prefer the ingest ID")
	}

	without := record("data/a.txt", "p", "")
	id1 := recordID(without)
	id2 := recordID(without)
	if id1 != id2 {
		t.Errorf("fallback ID not deterministic: %s vs %s", id1, id2)
	}
	if len(id1) != 12 {
		t.Errorf("fallback ID length = %d, want 12", len(id1))
	}
}

func TestExportYAML(t *testing.T) {
	store := testStore(t)
	graphsDir := t.TempDir()
	writeGraph(t, graphsDir, "one.json", record("data/a.txt", "exported preview", "id-a"))

	ctx := context.Background()
	var buf strings.Builder
	if _, err := store.Ingest(ctx, graphsDir, &buf); err != nil {
		t.Fatalf("Ingest: %v", err)
	}

	if err := store.ExportYAML(ctx, QueryOptions{}); err != nil {
		t.Fatalf("ExportYAML: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(store.indexDir, "export.yaml"))
	if err != nil {
		t.Fatalf("reading export: %v", err)
	}
	if !strings.Contains(string(data), "exported preview") {
		t.Errorf("export missing record preview:\n%s", data)
	}
}
