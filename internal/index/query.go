// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package index

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"
)

// QueryOptions holds parameters for index queries.
type QueryOptions struct {
	// Query is the FTS5 full-text search string over previews.
	Query string

	// File filters by source file path.
	File string

	// MaxResults limits result count. Zero uses the store default.
	MaxResults int
}

// IsEmpty reports whether the query has no search terms or filters.
func (q QueryOptions) IsEmpty() bool {
	return q.Query == "" && q.File == ""
}

// QueryResult is one indexed record.
type QueryResult struct {
	ID       string `json:"id" yaml:"id"`
	File     string `json:"file" yaml:"file"`
	Preview  string `json:"preview" yaml:"preview"`
	Source   string `json:"source" yaml:"source"`
	Checksum string `json:"checksum,omitempty" yaml:"checksum,omitempty"`
	IngestID string `json:"ingest_id,omitempty" yaml:"ingest_id,omitempty"`
}

// Query searches the index. Full-text queries are ranked by relevance;
// filter-only queries are sorted by file path.
func (s *Store) Query(ctx context.Context, opts QueryOptions) ([]QueryResult, error) {
	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = s.maxResults
	}

	var (
		qb     strings.Builder
		args   []any
		useFTS = opts.Query != ""
	)

	if useFTS {
		qb.WriteString(
			`SELECT r.id, r.file, r.preview, r.source, r.checksum, r.ingest_id
			FROM records_fts
			JOIN records r ON r.rowid = records_fts.rowid
			WHERE records_fts MATCH ?`)
		args = append(args, opts.Query)
	} else {
		qb.WriteString(
			`SELECT r.id, r.file, r.preview, r.source, r.checksum, r.ingest_id
			FROM records r
			WHERE 1=1`)
	}

	if opts.File != "" {
		qb.WriteString(` AND r.file = ?`)
		args = append(args, opts.File)
	}

	if useFTS {
		qb.WriteString(` ORDER BY records_fts.rank`)
	} else {
		qb.WriteString(` ORDER BY r.file`)
	}

	qb.WriteString(` LIMIT ?`)
	args = append(args, maxResults)

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying index: %w", err)
	}
	defer rows.Close()

	var results []QueryResult
	for rows.Next() {
		var (
			qr       QueryResult
			checksum sql.NullString
			ingestID sql.NullString
		)
		if err := rows.Scan(&qr.ID, &qr.File, &qr.Preview, &qr.Source, &checksum, &ingestID); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		if checksum.Valid {
			qr.Checksum = checksum.String
		}
		if ingestID.Valid {
			qr.IngestID = ingestID.String
		}
		results = append(results, qr)
	}

	return results, rows.Err()
}

// ExportYAML writes the full index (or a filtered subset) to
// indexDir/export.yaml.
func (s *Store) ExportYAML(ctx context.Context, opts QueryOptions) error {
	if opts.MaxResults <= 0 {
		opts.MaxResults = 1 << 30
	}
	results, err := s.Query(ctx, opts)
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(results)
	if err != nil {
		return fmt.Errorf("marshaling export: %w", err)
	}
	return os.WriteFile(filepath.Join(s.indexDir, "export.yaml"), data, 0o644)
}
