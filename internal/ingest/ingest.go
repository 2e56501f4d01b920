// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ingest turns a data directory into per-file record JSON plus an
// audit manifest. Each ingested file gets a SHA-256 checksum and a
// deterministic ingest ID so repeated runs over unchanged inputs produce
// identical artifacts.
package ingest

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/signalgraph/intelligence/internal/discover"
	"github.com/signalgraph/intelligence/internal/pipeline"
	"github.com/signalgraph/intelligence/pkg/types"
)

// manifestFile is the manifest filename within the graphs directory.
const manifestFile = "manifest.yaml"

// Summary holds counts from an ingest run.
type Summary struct {
	Ingested int
	Skipped  int
	Failed   int
}

// Total returns the number of files considered.
func (s Summary) Total() int {
	return s.Ingested + s.Skipped + s.Failed
}

// HasFailures reports whether any file failed ingestion.
func (s Summary) HasFailures() bool {
	return s.Failed > 0
}

// Checksum returns the SHA-256 hex digest of the file at path.
func Checksum(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("hashing %s: %w", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// ID derives the deterministic ingest identifier for a file from its path
// and checksum. The same file content at the same path always maps to the
// same ID, so re-ingesting overwrites rather than duplicates.
func ID(path, checksum string) string {
	return uuid.NewMD5(uuid.NameSpaceURL, []byte(path+checksum)).String()
}

// Run discovers cfg.DataDir, ingests each text file into cfg.GraphsDir, and
// writes the run manifest. Per-file failures are recorded and counted but
// never abort the run. Progress lines go to w.
func Run(ctx context.Context, cfg types.IngestConfig, w io.Writer) (Summary, error) {
	if err := os.MkdirAll(cfg.GraphsDir, 0o755); err != nil {
		return Summary{}, fmt.Errorf("creating graphs directory: %w", err)
	}

	files, err := discover.List(cfg.DataDir)
	if err != nil {
		return Summary{}, err
	}
	fmt.Fprintf(w, "discovered %d files in %s\n", len(files), cfg.DataDir)

	manifest := Manifest{
		CreatedAt: time.Now().UTC(),
		DataDir:   cfg.DataDir,
	}

	var summary Summary
	for _, path := range files {
		select {
		case <-ctx.Done():
			return summary, ctx.Err()
		default:
		}

		entry, status := File(path, cfg)
		manifest.Entries = append(manifest.Entries, entry)

		switch status {
		case StatusIngested:
			fmt.Fprintf(w, "ingested %s -> %s\n", path, entry.Output)
			summary.Ingested++
		case StatusSkipped:
			fmt.Fprintf(w, "skipped %s (non-text)\n", path)
			summary.Skipped++
		case StatusFailed:
			fmt.Fprintf(w, "failed  %s: %s\n", path, entry.Error)
			summary.Failed++
		}
	}

	manifest.Ingested = summary.Ingested
	manifest.Skipped = summary.Skipped
	manifest.Failed = summary.Failed

	manifestPath := filepath.Join(cfg.GraphsDir, manifestFile)
	if err := WriteManifest(manifestPath, manifest); err != nil {
		return summary, err
	}

	fmt.Fprintf(w, "\ningested: %d, skipped: %d, failed: %d\n",
		summary.Ingested, summary.Skipped, summary.Failed)
	return summary, nil
}

// File ingests a single file: checksum, ingest ID, record construction,
// and a record JSON written to cfg.GraphsDir. The returned entry always
// identifies the file; the status tells the caller what happened.
func File(path string, cfg types.IngestConfig) (Entry, Status) {
	entry := Entry{File: path}

	extensions := cfg.Extensions
	if len(extensions) == 0 {
		extensions = types.DefaultTextExtensions
	}
	if !discover.IsText(path, extensions) {
		entry.Status = StatusSkipped
		return entry, StatusSkipped
	}

	checksum, err := Checksum(path)
	if err != nil {
		entry.Status = StatusFailed
		entry.Error = err.Error()
		return entry, StatusFailed
	}
	entry.Checksum = checksum
	entry.IngestID = ID(path, checksum)

	rec := pipeline.ProcessFile(path, pipeline.Options{PreviewLength: cfg.PreviewLength})
	rec.Provenance.Checksum = checksum
	rec.Provenance.IngestID = entry.IngestID

	outPath := filepath.Join(cfg.GraphsDir, entry.IngestID+".json")
	out, err := os.Create(outPath)
	if err != nil {
		entry.Status = StatusFailed
		entry.Error = err.Error()
		return entry, StatusFailed
	}
	defer out.Close()

	rs := types.ResultSet{Files: []types.FileRecord{rec}}
	if err := pipeline.WriteJSON(out, rs); err != nil {
		entry.Status = StatusFailed
		entry.Error = err.Error()
		return entry, StatusFailed
	}

	entry.Status = StatusIngested
	entry.Output = outPath
	return entry, StatusIngested
}
