// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/signalgraph/intelligence/internal/watch"
	"github.com/signalgraph/intelligence/pkg/types"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Continuously ingest files as they appear in the data directory",
	Long: `Watch monitors the data directory and ingests each created or
modified text file into the graphs directory, exactly as a one-shot
ingest would. Stops on SIGINT or SIGTERM.`,
	RunE: runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	settle, _ := cmd.Flags().GetDuration("settle")

	cfg := types.WatchConfig{
		IngestConfig: ingestConfig(cmd),
		Settle:       settle,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return watch.Run(ctx, cfg, os.Stdout)
}

func init() {
	watchCmd.Flags().String("graphs-dir", "data/graphs", "directory for record JSON and the run manifest")
	watchCmd.Flags().Duration("settle", 200*time.Millisecond, "quiet period before a changed file is ingested")

	rootCmd.AddCommand(watchCmd)
}
