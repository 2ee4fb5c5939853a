// Command bm25engine builds, queries, and serves a partitioned BM25
// full-text index over CSV, newline-delimited JSON, or in-memory corpora.
//
// Usage:
//
//	bm25engine build --config config.yaml --db ./index
//	bm25engine query --db ./index --q "quick fox" --k 10
//	bm25engine serve --db ./index --addr :8080
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
