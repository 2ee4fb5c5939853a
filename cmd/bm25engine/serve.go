package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	bm25engine "github.com/jinterlante/bm25engine"
	"github.com/spf13/cobra"
)

var (
	serveDBPath string
	serveAddr   string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve a persisted index over HTTP",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveDBPath, "db", "", "persisted index directory (required)")
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "listen address")
	_ = serveCmd.MarkFlagRequired("db")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	idx, err := bm25engine.Open(ctx, serveDBPath)
	if err != nil {
		return err
	}
	defer idx.Close()

	mux := http.NewServeMux()
	mux.HandleFunc("/query", queryHandler(idx))

	slog.Info("bm25engine: serving", slog.String("addr", serveAddr), slog.String("db", serveDBPath))
	return http.ListenAndServe(serveAddr, mux)
}

// queryHandler answers GET /query?q=...&k=... with the top-k reconstructed
// records as JSON. This is a thin scripting convenience, not a general
// web API: no auth, no rate limiting, no middleware stack.
func queryHandler(idx *bm25engine.Index) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		q := r.URL.Query().Get("q")
		if q == "" {
			http.Error(w, "missing q parameter", http.StatusBadRequest)
			return
		}
		k := 10
		if ks := r.URL.Query().Get("k"); ks != "" {
			parsed, err := strconv.Atoi(ks)
			if err != nil || parsed < 1 {
				http.Error(w, "invalid k parameter", http.StatusBadRequest)
				return
			}
			k = parsed
		}

		records, err := idx.GetTopK(r.Context(), q, k)
		if err != nil {
			slog.Error("bm25engine: query failed", slog.String("error", err.Error()))
			http.Error(w, "query failed", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(records); err != nil {
			slog.Error("bm25engine: encoding response failed", slog.String("error", err.Error()))
		}
	}
}
