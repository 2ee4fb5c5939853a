package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDefault_Values(t *testing.T) {
	cfg := Default(4)
	if cfg.K1 != 1.2 || cfg.B != 0.75 || cfg.MinDF != 1 || cfg.MaxDF != 1.0 {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if cfg.NumPartitions != 4 {
		t.Errorf("NumPartitions = %d, want 4", cfg.NumPartitions)
	}
}

func TestDefault_ClampsNumCPU(t *testing.T) {
	cfg := Default(0)
	if cfg.NumPartitions != 1 {
		t.Errorf("NumPartitions = %d, want 1", cfg.NumPartitions)
	}
}

func TestValidate_RejectsNeitherFilenameNorDocuments(t *testing.T) {
	cfg := Default(1)
	if err := cfg.Validate(); err == nil {
		t.Error("expected error when neither filename nor documents is set")
	}
}

func TestValidate_RejectsBothFilenameAndDocuments(t *testing.T) {
	cfg := Default(1)
	cfg.Filename = "corpus.csv"
	cfg.SearchCol = "body"
	cfg.Documents = []string{"a"}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error when both filename and documents are set")
	}
}

func TestValidate_RequiresSearchColForFiles(t *testing.T) {
	cfg := Default(1)
	cfg.Filename = "corpus.csv"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error when search_col is missing for a file corpus")
	}
}

func TestValidate_AcceptsInMemoryWithoutSearchCol(t *testing.T) {
	cfg := Default(1)
	cfg.Documents = []string{"a", "b"}
	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestFileType_ResolvesExtensions(t *testing.T) {
	cases := map[string]FileType{
		"corpus.csv":   FileTypeCSV,
		"corpus.json":  FileTypeJSON,
		"corpus.ndjson": FileTypeJSON,
	}
	for name, want := range cases {
		cfg := Config{Filename: name}
		got, err := cfg.FileType()
		if err != nil {
			t.Errorf("%s: unexpected error: %v", name, err)
		}
		if got != want {
			t.Errorf("%s: FileType() = %v, want %v", name, got, want)
		}
	}
}

func TestFileType_InMemoryWhenNoFilename(t *testing.T) {
	cfg := Config{Documents: []string{"a"}}
	got, err := cfg.FileType()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != FileTypeInMemory {
		t.Errorf("FileType() = %v, want FileTypeInMemory", got)
	}
}

func TestFileType_RejectsUnsupportedExtension(t *testing.T) {
	cfg := Config{Filename: "corpus.txt"}
	if _, err := cfg.FileType(); !errors.Is(err, ErrUnsupportedFileType) {
		t.Errorf("got err=%v, want ErrUnsupportedFileType", err)
	}
}

func TestStopWordSet_Uppercases(t *testing.T) {
	cfg := Config{StopWords: []string{"the", "AND", "a"}}
	set := cfg.StopWordSet()
	for _, w := range []string{"THE", "AND", "A"} {
		if !set[w] {
			t.Errorf("expected %q in stop word set", w)
		}
	}
}

func TestLoad_ParsesYAMLAndValidates(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := `
filename: corpus.csv
search_col: body
min_df: 2
max_df: 0.5
k1: 1.5
b: 0.8
num_partitions: 8
stop_words: [the, a]
`
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := Load(path, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Filename != "corpus.csv" || cfg.SearchCol != "body" {
		t.Errorf("unexpected cfg: %+v", cfg)
	}
	if cfg.MinDF != 2 || cfg.MaxDF != 0.5 || cfg.NumPartitions != 8 {
		t.Errorf("unexpected numeric fields: %+v", cfg)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/path/config.yaml", 1); err == nil {
		t.Error("expected error for missing config file")
	}
}
