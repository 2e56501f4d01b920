// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/signalgraph/intelligence/internal/ingest"
	"github.com/signalgraph/intelligence/pkg/types"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Ingest the data directory into checksummed record files",
	Long: `Ingest discovers the data directory, writes one record JSON per text
file into the graphs directory (named by a deterministic ingest ID derived
from path and checksum), and records the run in manifest.yaml. Non-text
files are skipped; per-file failures never abort the run.`,
	RunE: runIngest,
}

func runIngest(cmd *cobra.Command, args []string) error {
	cfg := ingestConfig(cmd)

	summary, err := ingest.Run(context.Background(), cfg, os.Stdout)
	if err != nil {
		return err
	}
	if summary.HasFailures() {
		return fmt.Errorf("%d file(s) failed ingestion", summary.Failed)
	}
	return nil
}

// ingestConfig assembles the ingest configuration from flags with config
// file fallbacks. Shared with the watch command.
func ingestConfig(cmd *cobra.Command) types.IngestConfig {
	dataDir, _ := cmd.Flags().GetString("data-dir")
	graphsDir, _ := cmd.Flags().GetString("graphs-dir")
	previewLen, _ := cmd.Flags().GetInt("preview-length")

	if !cmd.Flags().Changed("graphs-dir") && viper.IsSet("ingest.graphs_dir") {
		graphsDir = viper.GetString("ingest.graphs_dir")
	}

	return types.IngestConfig{
		DataDir:       dataDir,
		GraphsDir:     graphsDir,
		PreviewLength: previewLen,
	}
}

func init() {
	ingestCmd.Flags().String("graphs-dir", "data/graphs", "directory for record JSON and the run manifest")

	rootCmd.AddCommand(ingestCmd)
}
