package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	bm25engine "github.com/jinterlante/bm25engine"
	"github.com/spf13/cobra"
)

var (
	queryDBPath string
	queryText   string
	queryK      int
)

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Run one query against a persisted index and print the top-k matches as JSON",
	RunE:  runQuery,
}

func init() {
	queryCmd.Flags().StringVar(&queryDBPath, "db", "", "persisted index directory (required)")
	queryCmd.Flags().StringVar(&queryText, "q", "", "query text (required)")
	queryCmd.Flags().IntVar(&queryK, "k", 10, "number of results to return")
	_ = queryCmd.MarkFlagRequired("db")
	_ = queryCmd.MarkFlagRequired("q")
	rootCmd.AddCommand(queryCmd)
}

func runQuery(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	idx, err := bm25engine.Open(ctx, queryDBPath)
	if err != nil {
		return fmt.Errorf("bm25engine: opening %s: %w", queryDBPath, err)
	}
	defer idx.Close()

	records, err := idx.GetTopK(ctx, queryText, queryK)
	if err != nil {
		return fmt.Errorf("bm25engine: query failed: %w", err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(records)
}
