package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"runtime"

	bm25engine "github.com/jinterlante/bm25engine"
	"github.com/jinterlante/bm25engine/internal/config"
	"github.com/jinterlante/bm25engine/internal/progress"
	"github.com/spf13/cobra"
)

var (
	buildConfigPath string
	buildDBPath     string
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Ingest a corpus and write a persisted index",
	RunE:  runBuild,
}

func init() {
	buildCmd.Flags().StringVar(&buildConfigPath, "config", "", "path to a YAML build config (required)")
	buildCmd.Flags().StringVar(&buildDBPath, "db", "", "output directory for the persisted index (required)")
	_ = buildCmd.MarkFlagRequired("config")
	_ = buildCmd.MarkFlagRequired("db")
	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(buildConfigPath, runtime.NumCPU())
	if err != nil {
		return err
	}

	rep := progress.New(os.Stdout, cfg.NumPartitions)
	idx, err := bm25engine.Build(context.Background(), cfg, bm25engine.WithProgress(rep))
	if err != nil {
		return fmt.Errorf("bm25engine: build failed: %w", err)
	}
	defer idx.Close()

	if err := idx.Persist(buildDBPath); err != nil {
		return fmt.Errorf("bm25engine: persisting index: %w", err)
	}

	slog.Info("index built", slog.Uint64("num_docs", idx.NumDocs()), slog.String("db", buildDBPath))
	return nil
}
