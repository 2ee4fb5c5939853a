package ingest

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jinterlante/bm25engine/internal/config"
)

func writeTempFile(t *testing.T, name, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
	return path
}

func baseConfig() config.Config {
	return config.Config{
		MinDF:         1,
		MaxDF:         1.0,
		K1:            1.2,
		B:             0.75,
		NumPartitions: 2,
	}
}

func TestBuild_InMemory(t *testing.T) {
	cfg := baseConfig()
	cfg.Documents = []string{
		"the quick brown fox",
		"the lazy dog sleeps",
		"quick foxes jump high",
	}

	res, err := Build(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.NumDocs != 3 {
		t.Errorf("NumDocs = %d, want 3", res.NumDocs)
	}

	var foundQuick bool
	for _, p := range res.Partitions {
		if _, ok := p.Lookup("QUICK"); ok {
			foundQuick = true
		}
	}
	if !foundQuick {
		t.Error("expected QUICK to be indexed in some partition")
	}
}

func TestBuild_CSV(t *testing.T) {
	csv := "id,body\n" +
		"1,the quick brown fox\n" +
		"2,the lazy dog sleeps\n" +
		"3,quick foxes jump high\n" +
		"4,nothing relevant here\n"
	path := writeTempFile(t, "corpus.csv", csv)

	cfg := baseConfig()
	cfg.Filename = path
	cfg.SearchCol = "body"

	res, err := Build(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.NumDocs != 4 {
		t.Errorf("NumDocs = %d, want 4", res.NumDocs)
	}
}

func TestBuild_CSV_MissingSearchColumn(t *testing.T) {
	path := writeTempFile(t, "corpus.csv", "id,body\n1,hello\n")
	cfg := baseConfig()
	cfg.Filename = path
	cfg.SearchCol = "nonexistent"

	if _, err := Build(context.Background(), cfg, nil); err == nil {
		t.Error("expected error for missing search column")
	}
}

func TestBuild_JSON(t *testing.T) {
	ndjson := `{"id": 1, "body": "the quick brown fox"}` + "\n" +
		`{"id": 2, "body": "the lazy dog sleeps"}` + "\n" +
		`{"id": 3, "body": "quick foxes jump high"}` + "\n"
	path := writeTempFile(t, "corpus.ndjson", ndjson)

	cfg := baseConfig()
	cfg.Filename = path
	cfg.SearchCol = "body"

	res, err := Build(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.NumDocs != 3 {
		t.Errorf("NumDocs = %d, want 3", res.NumDocs)
	}
}

func TestBuild_JSON_MissingKey(t *testing.T) {
	path := writeTempFile(t, "corpus.ndjson", `{"id": 1, "text": "hello"}`+"\n")
	cfg := baseConfig()
	cfg.Filename = path
	cfg.SearchCol = "body"

	if _, err := Build(context.Background(), cfg, nil); err == nil {
		t.Error("expected error for missing JSON key")
	}
}

func TestBuild_CSV_LineTooLong(t *testing.T) {
	huge := strings.Repeat("A", maxLineLen+1024)
	path := writeTempFile(t, "corpus.csv", "id,body\n1,"+huge+"\n")

	cfg := baseConfig()
	cfg.Filename = path
	cfg.SearchCol = "body"
	cfg.NumPartitions = 1

	_, err := Build(context.Background(), cfg, nil)
	if err == nil {
		t.Fatal("expected ErrLineTooLong")
	}
}

func TestResolveMaxDF_FractionAndAbsolute(t *testing.T) {
	if got := resolveMaxDF(0.5, 100); got != 50 {
		t.Errorf("resolveMaxDF(0.5, 100) = %d, want 50", got)
	}
	if got := resolveMaxDF(10, 100); got != 10 {
		t.Errorf("resolveMaxDF(10, 100) = %d, want 10", got)
	}
}

func TestBuild_SinglePartitionMatchesMultiPartitionDocCount(t *testing.T) {
	csv := "id,body\n"
	for i := 0; i < 200; i++ {
		csv += "x,word" + strings.Repeat("y", i%5) + "\n"
	}
	path := writeTempFile(t, "corpus.csv", csv)

	for _, n := range []int{1, 3, 7} {
		cfg := baseConfig()
		cfg.Filename = path
		cfg.SearchCol = "body"
		cfg.NumPartitions = n

		res, err := Build(context.Background(), cfg, nil)
		if err != nil {
			t.Fatalf("partitions=%d: unexpected error: %v", n, err)
		}
		if res.NumDocs != 200 {
			t.Errorf("partitions=%d: NumDocs = %d, want 200", n, res.NumDocs)
		}
	}
}
