// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline builds FileRecords and aggregates them into a ResultSet.
// Record construction is a pure, stateless transform: one failing preview
// degrades only that record's preview field and never aborts the batch.
package pipeline

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/signalgraph/intelligence/internal/preview"
	"github.com/signalgraph/intelligence/pkg/types"
)

// Options controls record construction.
type Options struct {
	// PreviewLength bounds previews in decoded characters.
	// Zero means preview.DefaultLength.
	PreviewLength int
}

// ProcessFile builds the record for a single file. Entities and relations
// are empty slices, never nil, so they serialize as [] and downstream
// consumers see a stable schema.
func ProcessFile(path string, opts Options) types.FileRecord {
	p := preview.Extract(path, opts.PreviewLength)

	return types.FileRecord{
		File:      path,
		Preview:   p.Text(),
		Entities:  []types.Entity{},
		Relations: []types.Relation{},
		Provenance: types.Provenance{
			Source: path,
		},
	}
}

// ProcessFiles maps record construction over paths in order, with no
// deduplication and no error short-circuiting.
func ProcessFiles(paths []string, opts Options) types.ResultSet {
	rs := types.ResultSet{Files: []types.FileRecord{}}
	for _, path := range paths {
		rs.Files = append(rs.Files, ProcessFile(path, opts))
	}
	return rs
}

// WriteJSON serializes the ResultSet as pretty-printed JSON with two-space
// indentation and a trailing newline. Key order follows the struct field
// order, which is part of the output contract.
func WriteJSON(w io.Writer, rs types.ResultSet) error {
	if rs.Files == nil {
		rs.Files = []types.FileRecord{}
	}
	data, err := json.MarshalIndent(rs, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling result set: %w", err)
	}
	data = append(data, '\n')
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("writing result set: %w", err)
	}
	return nil
}
