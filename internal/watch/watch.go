// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package watch ingests files continuously as they appear in the data
// directory. Create and write events for text files trigger a single-file
// ingest into the graphs directory.
package watch

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/signalgraph/intelligence/internal/discover"
	"github.com/signalgraph/intelligence/internal/ingest"
	"github.com/signalgraph/intelligence/pkg/types"
)

// DefaultSettle is how long a file must be quiet after its last write
// before it is ingested.
const DefaultSettle = 200 * time.Millisecond

// Run watches cfg.DataDir and ingests each created or modified text file
// until ctx is cancelled. Progress lines go to w. Run returns nil on
// context cancellation.
func Run(ctx context.Context, cfg types.WatchConfig, w io.Writer) error {
	if err := os.MkdirAll(cfg.GraphsDir, 0o755); err != nil {
		return fmt.Errorf("creating graphs directory: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(cfg.DataDir); err != nil {
		return fmt.Errorf("watching %s: %w", cfg.DataDir, err)
	}

	settle := cfg.Settle
	if settle <= 0 {
		settle = DefaultSettle
	}
	extensions := cfg.Extensions
	if len(extensions) == 0 {
		extensions = types.DefaultTextExtensions
	}

	fmt.Fprintf(w, "watching %s\n", cfg.DataDir)

	// Pending files and their last event time; a file is ingested once it
	// has been quiet for the settle window.
	pending := make(map[string]time.Time)
	ticker := time.NewTicker(settle / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Write) {
				continue
			}
			if !discover.IsText(event.Name, extensions) {
				continue
			}
			pending[event.Name] = time.Now()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(w, "watch error: %v\n", err)

		case now := <-ticker.C:
			for path, last := range pending {
				if now.Sub(last) < settle {
					continue
				}
				delete(pending, path)

				entry, status := ingest.File(path, cfg.IngestConfig)
				switch status {
				case ingest.StatusIngested:
					fmt.Fprintf(w, "ingested %s -> %s\n", path, entry.Output)
				case ingest.StatusFailed:
					fmt.Fprintf(w, "failed  %s: %s\n", path, entry.Error)
				}
			}
		}
	}
}
