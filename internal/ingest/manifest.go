// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ingest

import (
	"fmt"
	"os"
	"time"

	"go.yaml.in/yaml/v3"
)

// Status records the outcome of ingesting one file.
type Status string

const (
	StatusIngested Status = "ingested"
	StatusSkipped  Status = "skipped"
	StatusFailed   Status = "failed"
)

// Entry is one file's row in the run manifest.
type Entry struct {
	// File is the source path as discovered.
	File string `yaml:"file"`

	// Checksum is the SHA-256 hex digest of the file bytes. Empty when the
	// file was skipped or could not be read.
	Checksum string `yaml:"checksum,omitempty"`

	// IngestID is the deterministic identifier derived from path and checksum.
	IngestID string `yaml:"ingest_id,omitempty"`

	// Status is the ingest outcome for this file.
	Status Status `yaml:"status"`

	// Output is the record JSON path, set when Status is "ingested".
	Output string `yaml:"output,omitempty"`

	// Error holds the failure description when Status is "failed".
	Error string `yaml:"error,omitempty"`
}

// Manifest is the on-disk audit trail of one ingest run. A reviewer can
// trace every graph JSON back to its source file and checksum without
// re-reading the inputs.
type Manifest struct {
	CreatedAt time.Time `yaml:"created_at"`
	DataDir   string    `yaml:"data_dir"`
	Entries   []Entry   `yaml:"entries"`
	Ingested  int       `yaml:"ingested"`
	Skipped   int       `yaml:"skipped"`
	Failed    int       `yaml:"failed"`
}

// WriteManifest saves the manifest as YAML.
func WriteManifest(path string, m Manifest) error {
	data, err := yaml.Marshal(&m)
	if err != nil {
		return fmt.Errorf("marshaling manifest: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadManifest loads a previously written manifest.
func ReadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing manifest: %w", err)
	}
	return &m, nil
}
