package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

var otelStdout bool

var rootCmd = &cobra.Command{
	Use:           "bm25engine",
	Short:         "Build, query, and serve a partitioned BM25 full-text index",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setupTracing()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&otelStdout, "otel-stdout", false,
		"export trace spans to stdout instead of the no-op default")
}

// setupTracing installs a stdout span exporter when --otel-stdout is
// passed; otherwise otel's default no-op tracer provider is left in
// place.
func setupTracing() error {
	if !otelStdout {
		return nil
	}
	exp, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
	if err != nil {
		return fmt.Errorf("bm25engine: setting up stdout trace exporter: %w", err)
	}
	tp := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exp))
	otel.SetTracerProvider(tp)
	rootCmd.PersistentPostRunE = func(cmd *cobra.Command, args []string) error {
		return tp.Shutdown(context.Background())
	}
	return nil
}
