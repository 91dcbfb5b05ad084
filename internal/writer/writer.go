// Package writer dumps generated records to local files for the CLI's
// one-shot generate command.
package writer

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/specmint/syndata/pkg/model"
)

// Format is the on-disk output format.
type Format string

const (
	FormatJSON  Format = "json"
	FormatJSONL Format = "jsonl"
)

// Writer writes a generation result to a directory.
type Writer struct {
	dir    string
	format Format
}

// New creates a Writer, ensuring dir exists.
func New(dir string, format Format) (*Writer, error) {
	if format != FormatJSON {
		format = FormatJSONL
	}
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	return &Writer{dir: dir, format: format}, nil
}

// WriteRecords writes records in the configured format.
func (w *Writer) WriteRecords(records []model.Record) error {
	if w.format == FormatJSON {
		return w.writeJSON(records)
	}
	return w.writeJSONL(records)
}

// WriteManifest writes a generation manifest (metadata, timings,
// routing decision) alongside the dataset.
func (w *Writer) WriteManifest(manifest map[string]interface{}) error {
	path := filepath.Join(w.dir, "manifest.json")
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create manifest file: %w", err)
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(manifest); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	return nil
}

func (w *Writer) writeJSON(records []model.Record) error {
	path := filepath.Join(w.dir, "dataset.json")
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("failed to write JSON: %w", err)
	}
	return nil
}

func (w *Writer) writeJSONL(records []model.Record) error {
	path := filepath.Join(w.dir, "dataset.jsonl")
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	for _, record := range records {
		if err := enc.Encode(record); err != nil {
			return fmt.Errorf("failed to write record: %w", err)
		}
	}
	return nil
}

// OutputPath returns the path records were (or will be) written to.
func (w *Writer) OutputPath() string {
	if w.format == FormatJSON {
		return filepath.Join(w.dir, "dataset.json")
	}
	return filepath.Join(w.dir, "dataset.jsonl")
}
