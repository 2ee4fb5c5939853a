// Package config defines the build-time configuration for an index:
// corpus location, search column, BM25 tuning, and partitioning. It
// loads from a YAML file (gopkg.in/yaml.v3) and validates with
// go-playground/validator/v10.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// FileType identifies the corpus format.
type FileType int

const (
	// FileTypeInMemory indicates the corpus is a caller-supplied slice of
	// strings rather than a file on disk.
	FileTypeInMemory FileType = iota
	FileTypeCSV
	FileTypeJSON
)

func (f FileType) String() string {
	switch f {
	case FileTypeCSV:
		return "csv"
	case FileTypeJSON:
		return "json"
	case FileTypeInMemory:
		return "in_memory"
	default:
		return "unknown"
	}
}

// Config is the full set of build-time parameters an Index needs.
type Config struct {
	// Filename is the source corpus path. Empty when Documents is set
	// (in-memory mode).
	Filename string `yaml:"filename"`

	// Documents is an in-memory corpus: one string per document. Mutually
	// exclusive with Filename. Not loaded from YAML — set programmatically
	// by callers using in-memory mode.
	Documents []string `yaml:"-"`

	// SearchCol is the column (CSV) or key (JSON) to index. Ignored in
	// in-memory mode, where every document IS the searchable text.
	SearchCol string `yaml:"search_col"`

	// MinDF: terms with lower document frequency are invisible to queries.
	MinDF int `yaml:"min_df" validate:"min=0"`

	// MaxDF: if < 2, interpreted as a fraction of num_docs; otherwise an
	// absolute document-frequency threshold. The fraction is always
	// resolved against num_docs (not file size), for both CSV and JSON
	// corpora.
	MaxDF float64 `yaml:"max_df" validate:"gt=0"`

	// K1, B are the BM25 tuning parameters.
	K1 float64 `yaml:"k1" validate:"gt=0"`
	B  float64 `yaml:"b" validate:"min=0,max=1"`

	// NumPartitions is the ingestion/query worker count.
	NumPartitions int `yaml:"num_partitions" validate:"min=1"`

	// StopWords holds uppercase strings dropped pre-indexing.
	StopWords []string `yaml:"stop_words"`

	// ColumnBoosts multiplies a column's BM25 contribution when more than
	// one searchable column is configured. Unset entries default to a 1.0
	// multiplier.
	ColumnBoosts map[string]float64 `yaml:"column_boosts"`
}

// Default returns a Config with standard BM25 defaults: k1=1.2, b=0.75,
// min_df=1, max_df=1.0 (a fraction resolving to num_docs, so only a term
// present in every document reaches it and is evicted), one partition
// per logical CPU.
func Default(numCPU int) Config {
	if numCPU < 1 {
		numCPU = 1
	}
	return Config{
		MinDF:         1,
		MaxDF:         1.0,
		K1:            1.2,
		B:             0.75,
		NumPartitions: numCPU,
	}
}

// Load reads a YAML config file, layering it over Default(numCPU), and
// validates the result.
func Load(path string, numCPU int) (Config, error) {
	cfg := Default(numCPU)

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: reading %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks struct tags and the filename/documents mutual-exclusion
// rule that validator tags alone cannot express cleanly.
func (c Config) Validate() error {
	v := validator.New()
	if err := v.Struct(c); err != nil {
		return err
	}
	if c.Filename == "" && len(c.Documents) == 0 {
		return fmt.Errorf("%w: either filename or documents must be set", ErrInvalidConfig)
	}
	if c.Filename != "" && len(c.Documents) > 0 {
		return fmt.Errorf("%w: filename and documents are mutually exclusive", ErrInvalidConfig)
	}
	if c.Filename != "" && c.SearchCol == "" {
		return fmt.Errorf("%w: search_col is required for file-backed corpora", ErrInvalidConfig)
	}
	return nil
}

// FileType resolves the configured source to a FileType. An unsupported
// file extension is a fatal configuration error.
func (c Config) FileType() (FileType, error) {
	if c.Filename == "" {
		return FileTypeInMemory, nil
	}
	switch strings.ToLower(filepath.Ext(c.Filename)) {
	case ".csv":
		return FileTypeCSV, nil
	case ".json", ".ndjson", ".jsonl":
		return FileTypeJSON, nil
	default:
		return 0, fmt.Errorf("%w: %s", ErrUnsupportedFileType, c.Filename)
	}
}

// StopWordSet returns StopWords as a set keyed by uppercase form, matching
// how stop-word membership is tested during tokenization.
func (c Config) StopWordSet() map[string]bool {
	set := make(map[string]bool, len(c.StopWords))
	for _, w := range c.StopWords {
		set[strings.ToUpper(w)] = true
	}
	return set
}
