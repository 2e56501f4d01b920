package types

import "time"

// DefaultPreviewLength bounds record previews when no override is given.
const DefaultPreviewLength = 200

// DefaultTextExtensions lists the file extensions the ingest and watch
// stages treat as text input. Discovery itself is extension-agnostic;
// filtering happens at the ingest boundary.
var DefaultTextExtensions = []string{".txt", ".md", ".text"}

// ProcessConfig holds settings for the core processing stage.
type ProcessConfig struct {
	// DataDir is the directory to discover when no single file is named.
	DataDir string `json:"data_dir" yaml:"data_dir"`

	// PreviewLength bounds the preview in decoded characters (default 200).
	PreviewLength int `json:"preview_length" yaml:"preview_length"`
}

// IngestConfig holds settings for the ingest stage.
type IngestConfig struct {
	// DataDir is the directory to discover and ingest.
	DataDir string `json:"data_dir" yaml:"data_dir"`

	// GraphsDir is where per-file record JSON and the run manifest are
	// written (default "data/graphs").
	GraphsDir string `json:"graphs_dir" yaml:"graphs_dir"`

	// PreviewLength bounds record previews (default 200).
	PreviewLength int `json:"preview_length" yaml:"preview_length"`

	// Extensions lists the file extensions accepted as text input.
	// Empty means DefaultTextExtensions.
	Extensions []string `json:"extensions" yaml:"extensions"`
}

// WatchConfig holds settings for the continuous ingest stage.
type WatchConfig struct {
	IngestConfig `yaml:",inline"`

	// Settle is how long a file must be quiet after a write event before
	// it is ingested, so partially written files are not picked up.
	Settle time.Duration `json:"settle" yaml:"settle"`
}

// IndexConfig holds settings for the record index.
type IndexConfig struct {
	// IndexDir is the directory holding the SQLite database
	// (default "data/index").
	IndexDir string `json:"index_dir" yaml:"index_dir"`

	// GraphsDir is the directory of record JSON files to index.
	GraphsDir string `json:"graphs_dir" yaml:"graphs_dir"`

	// MaxResults is the default maximum number of query results (default 20).
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// PipelineConfig groups all stage configurations.
type PipelineConfig struct {
	Process ProcessConfig `json:"process" yaml:"process"`
	Ingest  IngestConfig  `json:"ingest" yaml:"ingest"`
	Watch   WatchConfig   `json:"watch" yaml:"watch"`
	Index   IndexConfig   `json:"index" yaml:"index"`
}
