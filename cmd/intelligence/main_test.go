// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/signalgraph/intelligence/internal/pipeline"
	"github.com/signalgraph/intelligence/pkg/types"
)

func TestBuildResultsMissingFileIsFatal(t *testing.T) {
	cfg := types.ProcessConfig{DataDir: t.TempDir()}
	missing := filepath.Join(t.TempDir(), "missing.txt")

	var log strings.Builder
	_, err := buildResults(cfg, missing, &log)
	if err == nil {
		t.Fatal("expected error for missing --file target")
	}
	// The sentinel is what maps to exit status 2 in runProcess.
	if !errors.Is(err, errFileNotFound) {
		t.Errorf("error = %v, want errFileNotFound", err)
	}
	if !strings.Contains(err.Error(), missing) {
		t.Errorf("error should name the missing path: %v", err)
	}
}

func TestBuildResultsSingleFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "one.txt")
	if err := os.WriteFile(path, []byte("hello\nworld"), 0o644); err != nil {
		t.Fatal(err)
	}

	var log strings.Builder
	rs, err := buildResults(types.ProcessConfig{DataDir: dir}, path, &log)
	if err != nil {
		t.Fatalf("buildResults: %v", err)
	}
	if len(rs.Files) != 1 {
		t.Fatalf("got %d records, want 1", len(rs.Files))
	}
	if rs.Files[0].Preview != "hello world" {
		t.Errorf("Preview = %q, want %q", rs.Files[0].Preview, "hello world")
	}
	if !strings.Contains(log.String(), "processing single file") {
		t.Errorf("log should announce single-file mode: %s", log.String())
	}
}

func TestBuildResultsMissingDataDirEmitsEmptySet(t *testing.T) {
	cfg := types.ProcessConfig{DataDir: filepath.Join(t.TempDir(), "nonexistent")}

	var log strings.Builder
	rs, err := buildResults(cfg, "", &log)
	if err != nil {
		t.Fatalf("missing data dir must not be fatal: %v", err)
	}
	if len(rs.Files) != 0 {
		t.Fatalf("got %d records, want 0", len(rs.Files))
	}
	if !strings.Contains(log.String(), "discovered 0 files") {
		t.Errorf("log should report zero discovered files: %s", log.String())
	}

	var out strings.Builder
	if err := pipeline.WriteJSON(&out, rs); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	if want := "{\n  \"files\": []\n}\n"; out.String() != want {
		t.Errorf("output = %q, want %q", out.String(), want)
	}
}

func TestBuildResultsDirectoryOrder(t *testing.T) {
	dir := t.TempDir()
	for name, content := range map[string]string{
		"b.txt": "hello\nworld",
		"a.txt": "xy",
	} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	var log strings.Builder
	rs, err := buildResults(types.ProcessConfig{DataDir: dir}, "", &log)
	if err != nil {
		t.Fatalf("buildResults: %v", err)
	}
	if len(rs.Files) != 2 {
		t.Fatalf("got %d records, want 2", len(rs.Files))
	}
	if filepath.Base(rs.Files[0].File) != "a.txt" || filepath.Base(rs.Files[1].File) != "b.txt" {
		t.Errorf("records out of discovery order: %q, %q", rs.Files[0].File, rs.Files[1].File)
	}
	if rs.Files[0].Preview != "xy" || rs.Files[1].Preview != "hello world" {
		t.Errorf("previews = %q, %q", rs.Files[0].Preview, rs.Files[1].Preview)
	}
}
