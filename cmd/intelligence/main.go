// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the intelligence CLI, the
// SignalGraph layer that turns raw text files into structured records
// with provenance. Extraction rules land behind the same record schema
// later; today the CLI covers discovery, preview, ingest, and indexing.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/signalgraph/intelligence/internal/discover"
	"github.com/signalgraph/intelligence/internal/pipeline"
	"github.com/signalgraph/intelligence/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command. Invoked without a subcommand it runs the
// core processing stage: discover, preview, and emit the record JSON.
var rootCmd = &cobra.Command{
	Use:   "intelligence",
	Short: "SignalGraph intelligence layer for text files",
	Long: `intelligence processes text files into structured records: a bounded
single-line preview, reserved entity/relation slots, and a provenance
pointer back to the source. Discovery is deterministic, so the same
directory contents always produce the same output.

Run without a subcommand to process a directory (or one file with --file)
and emit the result JSON. Use ingest for checksummed per-file outputs
with an audit manifest, watch for continuous ingestion, and index for
the searchable record store.`,
	RunE: runProcess,
}

// errFileNotFound marks a missing explicit --file target, which is fatal
// and maps to exit status 2, unlike a missing data directory which
// degrades to an empty result.
var errFileNotFound = errors.New("file not found")

// processConfig assembles the processing configuration from flags with
// config file fallbacks.
func processConfig(cmd *cobra.Command) types.ProcessConfig {
	dataDir, _ := cmd.Flags().GetString("data-dir")
	previewLen, _ := cmd.Flags().GetInt("preview-length")

	if !cmd.Flags().Changed("data-dir") && viper.IsSet("process.data_dir") {
		dataDir = viper.GetString("process.data_dir")
	}
	if !cmd.Flags().Changed("preview-length") && viper.IsSet("process.preview_length") {
		previewLen = viper.GetInt("process.preview_length")
	}

	return types.ProcessConfig{
		DataDir:       dataDir,
		PreviewLength: previewLen,
	}
}

// buildResults produces the ResultSet for one invocation: the named single
// file, or the discovered data directory. Log lines go to log.
func buildResults(cfg types.ProcessConfig, singleFile string, log io.Writer) (types.ResultSet, error) {
	opts := pipeline.Options{PreviewLength: cfg.PreviewLength}

	if singleFile != "" {
		if _, err := os.Stat(singleFile); err != nil {
			return types.ResultSet{}, fmt.Errorf("%w: %s", errFileNotFound, singleFile)
		}
		fmt.Fprintf(log, "processing single file: %s\n", singleFile)
		return pipeline.ProcessFiles([]string{singleFile}, opts), nil
	}

	files, err := discover.List(cfg.DataDir)
	if err != nil {
		return types.ResultSet{}, err
	}
	fmt.Fprintf(log, "discovered %d files in %s\n", len(files), cfg.DataDir)
	return pipeline.ProcessFiles(files, opts), nil
}

func runProcess(cmd *cobra.Command, args []string) error {
	singleFile, _ := cmd.Flags().GetString("file")
	output, _ := cmd.Flags().GetString("output")

	rs, err := buildResults(processConfig(cmd), singleFile, os.Stderr)
	if err != nil {
		if errors.Is(err, errFileNotFound) {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(2)
		}
		return err
	}

	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer f.Close()
		if err := pipeline.WriteJSON(f, rs); err != nil {
			return err
		}
		fmt.Printf("wrote output to %s\n", output)
		return nil
	}

	return pipeline.WriteJSON(os.Stdout, rs)
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./intelligence.yaml or ~/.config/intelligence/config.yaml)")
	rootCmd.PersistentFlags().String("data-dir", "data/", "directory of input files")
	rootCmd.PersistentFlags().Int("preview-length", types.DefaultPreviewLength, "preview bound in characters")

	rootCmd.Flags().String("file", "", "process exactly one file instead of a directory")
	rootCmd.Flags().String("output", "", "write JSON output to this path instead of stdout")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("intelligence")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "intelligence"))
		}
	}

	viper.SetEnvPrefix("INTELLIGENCE")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
