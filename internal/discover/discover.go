// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package discover enumerates input files deterministically. Given the same
// directory contents, List always returns the same ordering, so every
// downstream stage (processing, ingest, indexing) is reproducible.
package discover

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// List returns the regular files directly contained in dir, sorted bytewise
// by filename. Subdirectories and non-regular entries are excluded. A
// missing directory is not an error: List returns an empty slice so a run
// over an absent data directory degrades to an empty result.
func List(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading data directory %s: %w", dir, err)
	}

	// os.ReadDir sorts by filename; byte order, not locale order.
	var files []string
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}
	return files, nil
}

// IsText reports whether path has one of the accepted text extensions.
// The comparison is case-insensitive. An empty extensions list means
// every extension is accepted.
func IsText(path string, extensions []string) bool {
	if len(extensions) == 0 {
		return true
	}
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range extensions {
		if ext == strings.ToLower(e) {
			return true
		}
	}
	return false
}
