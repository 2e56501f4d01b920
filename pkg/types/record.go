// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// EntitySpan is a [start, end) character offset pair into the source text.
type EntitySpan [2]int

// Entity is a named entity extracted from a file. The shape is reserved:
// extraction rules do not populate it yet, but every field a rule will need
// (surface text, type label, span, rule provenance, confidence) is declared
// here so downstream consumers stay schema-stable as rules land.
type Entity struct {
	// Text is the surface form as it appears in the source.
	Text string `json:"text" yaml:"text"`

	// Type is the entity type label (e.g. "PERSON", "ORG").
	Type string `json:"type" yaml:"type"`

	// Span is the [start, end) character offset of Text in the decoded file.
	Span EntitySpan `json:"span" yaml:"span"`

	// RuleID identifies the extraction rule that produced this entity.
	RuleID string `json:"rule_id" yaml:"rule_id"`

	// Confidence is a float between 0.0 and 1.0.
	Confidence float64 `json:"confidence" yaml:"confidence"`
}

// Relation is a typed link between two extracted entities, addressed by
// index into the owning record's Entities slice. Reserved shape; not
// populated in this version.
type Relation struct {
	// Type is the relation type label (e.g. "WORKS_FOR").
	Type string `json:"type" yaml:"type"`

	// Head is the index of the source entity in the record's Entities slice.
	Head int `json:"head" yaml:"head"`

	// Tail is the index of the target entity in the record's Entities slice.
	Tail int `json:"tail" yaml:"tail"`

	// RuleID identifies the extraction rule that produced this relation.
	RuleID string `json:"rule_id" yaml:"rule_id"`

	// Confidence is a float between 0.0 and 1.0.
	Confidence float64 `json:"confidence" yaml:"confidence"`
}

// Provenance traces a record back to its source file. Source is always
// present; checksum and ingest ID are added by the ingest stage. Future
// fields extend this struct without removing Source.
type Provenance struct {
	// Source is the originating file path, as given to the pipeline.
	Source string `json:"source" yaml:"source"`

	// Checksum is the SHA-256 hex digest of the file bytes at ingest time.
	Checksum string `json:"checksum,omitempty" yaml:"checksum,omitempty"`

	// IngestID is the deterministic ingest identifier derived from the
	// source path and checksum.
	IngestID string `json:"ingest_id,omitempty" yaml:"ingest_id,omitempty"`
}

// FileRecord is the structured representation of one processed file.
// JSON field order is part of the output contract.
type FileRecord struct {
	// File is the source path, absolute or as given.
	File string `json:"file" yaml:"file"`

	// Preview is a bounded single-line excerpt of the decoded content, or a
	// bracketed diagnostic when the file could not be read.
	Preview string `json:"preview" yaml:"preview"`

	// Entities holds extraction results. Always present, possibly empty.
	Entities []Entity `json:"entities" yaml:"entities"`

	// Relations holds extraction results. Always present, possibly empty.
	Relations []Relation `json:"relations" yaml:"relations"`

	// Provenance records where this record came from.
	Provenance Provenance `json:"provenance" yaml:"provenance"`
}

// ResultSet is the top-level output of a processing run. Files are ordered
// by discovery order (lexicographic by filename), or hold exactly one
// element in single-file mode.
type ResultSet struct {
	Files []FileRecord `json:"files" yaml:"files"`
}
