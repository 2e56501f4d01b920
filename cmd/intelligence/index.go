// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/signalgraph/intelligence/internal/index"
	"github.com/signalgraph/intelligence/pkg/types"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Manage the record index (store, query, export)",
	Long: `Index manages a local SQLite index built from the graphs directory.
Use subcommands to ingest record files, search previews, or export.`,
}

// --- store subcommand ---

var indexStoreCmd = &cobra.Command{
	Use:   "store",
	Short: "Ingest record JSON files into the index",
	Long: `Store reads record JSON from the graphs directory and ingests it
into a SQLite database with FTS5 indexing over previews. Unchanged files
are skipped on subsequent runs.`,
	RunE: runIndexStore,
}

func runIndexStore(cmd *cobra.Command, args []string) error {
	cfg, graphsDir := indexConfig(cmd)

	store, err := index.NewStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	summary, err := store.Ingest(context.Background(), graphsDir, os.Stdout)
	if err != nil {
		return err
	}
	if summary.Failed > 0 {
		return fmt.Errorf("%d file(s) failed indexing", summary.Failed)
	}
	return nil
}

// --- query subcommand ---

var indexQueryCmd = &cobra.Command{
	Use:   "query [terms]",
	Short: "Search indexed previews with full-text search",
	Long: `Query searches record previews using FTS5 full-text search, a file
filter, or both. Results carry the provenance needed to locate the source.`,
	RunE: runIndexQuery,
}

func runIndexQuery(cmd *cobra.Command, args []string) error {
	cfg, _ := indexConfig(cmd)

	store, err := index.NewStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	opts := queryOptsFromFlags(cmd, args)
	if opts.IsEmpty() {
		return fmt.Errorf("query or filter required: provide search terms or --source-file")
	}

	results, err := store.Query(context.Background(), opts)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatQueryOutput(results, jsonOutput)
}

func formatQueryOutput(results []index.QueryResult, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	if len(results) == 0 {
		fmt.Println("No results found.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-4s  %-36s  %-30s  %s\n", "Rank", "Ingest ID", "File", "Preview")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 110))

	for i, r := range results {
		preview := r.Preview
		if len(preview) > 60 {
			preview = preview[:57] + "..."
		}
		file := r.File
		if len(file) > 30 {
			file = file[:27] + "..."
		}
		fmt.Fprintf(os.Stdout, "%-4d  %-36s  %-30s  %s\n", i+1, r.IngestID, file, preview)
	}

	fmt.Fprintf(os.Stdout, "\n%d results\n", len(results))
	return nil
}

// --- export subcommand ---

var indexExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the index to YAML",
	Long: `Export writes the full index (or a filtered subset) to
export.yaml in the index directory. Supports the same filter flags
as query for partial exports.`,
	RunE: runIndexExport,
}

func runIndexExport(cmd *cobra.Command, args []string) error {
	cfg, _ := indexConfig(cmd)

	store, err := index.NewStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.ExportYAML(context.Background(), queryOptsFromFlags(cmd, args)); err != nil {
		return err
	}
	fmt.Printf("Exported to %s/export.yaml\n", cfg.IndexDir)
	return nil
}

// --- shared helpers ---

func indexConfig(cmd *cobra.Command) (types.IndexConfig, string) {
	indexDir, _ := cmd.Flags().GetString("index-dir")
	graphsDir, _ := cmd.Flags().GetString("graphs-dir")
	maxResults, _ := cmd.Flags().GetInt("max-results")

	cfg := types.IndexConfig{
		IndexDir:   indexDir,
		GraphsDir:  graphsDir,
		MaxResults: maxResults,
	}
	return cfg, graphsDir
}

func queryOptsFromFlags(cmd *cobra.Command, args []string) index.QueryOptions {
	queryText, _ := cmd.Flags().GetString("query")
	if queryText == "" && len(args) > 0 {
		queryText = strings.Join(args, " ")
	}

	sourceFile, _ := cmd.Flags().GetString("source-file")
	limit, _ := cmd.Flags().GetInt("limit")

	return index.QueryOptions{
		Query:      queryText,
		File:       sourceFile,
		MaxResults: limit,
	}
}

func init() {
	// Shared flags on the parent command, inherited by subcommands.
	indexCmd.PersistentFlags().String("index-dir", "data/index", "directory for the index database")
	indexCmd.PersistentFlags().String("graphs-dir", "data/graphs", "directory of record JSON files")
	indexCmd.PersistentFlags().Int("max-results", 20, "maximum number of query results")

	// Query flags.
	indexQueryCmd.Flags().String("query", "", "full-text search over previews")
	indexQueryCmd.Flags().String("source-file", "", "filter by source file path")
	indexQueryCmd.Flags().Int("limit", 0, "maximum results (0 = use default)")
	indexQueryCmd.Flags().Bool("json", false, "output results as JSON")

	// Export flags.
	indexExportCmd.Flags().String("query", "", "full-text search filter for partial export")
	indexExportCmd.Flags().String("source-file", "", "filter by source file path for partial export")
	indexExportCmd.Flags().Int("limit", 0, "maximum records to export (0 = all)")

	indexCmd.AddCommand(indexStoreCmd)
	indexCmd.AddCommand(indexQueryCmd)
	indexCmd.AddCommand(indexExportCmd)

	rootCmd.AddCommand(indexCmd)
}
