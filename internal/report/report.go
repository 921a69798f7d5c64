// Package report exports conversion reports as JSON or YAML.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/FocuswithJustin/seqconvert/core/convert"
	"github.com/FocuswithJustin/seqconvert/core/errors"
)

// Format is a report encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat accepts "json", "yaml" and "yml", case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return "", errors.Wrapf(errors.ErrInvalidInput, "unknown report format %q", s)
}

// FormatForPath picks YAML for .yaml and .yml files and JSON otherwise.
func FormatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	}
	return FormatJSON
}

// Batch is the exported form of a conversion: a run identifier, if the run
// was journaled, and every file report.
type Batch struct {
	RunID  string            `json:"run_id,omitempty" yaml:"run_id,omitempty"`
	Files  []*convert.Report `json:"files" yaml:"files"`
	Failed int               `json:"failed" yaml:"failed"`
}

// FromBatch wraps a directory conversion result.
func FromBatch(runID string, b *convert.BatchReport) *Batch {
	return &Batch{RunID: runID, Files: b.Files, Failed: b.Failed}
}

// FromReport wraps a single-file conversion result.
func FromReport(runID string, r *convert.Report) *Batch {
	b := &Batch{RunID: runID, Files: []*convert.Report{r}}
	if r.Error != "" {
		b.Failed = 1
	}
	return b
}

// Encode writes v to w in the given format.
func Encode(w io.Writer, v any, format Format) error {
	switch format {
	case FormatYAML:
		data, err := yaml.Marshal(v)
		if err != nil {
			return fmt.Errorf("report: encode yaml: %w", err)
		}
		_, err = w.Write(data)
		return err
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	return errors.Wrapf(errors.ErrInvalidInput, "unknown report format %q", string(format))
}

// WriteFile writes v to path, choosing the format from the extension.
func WriteFile(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.NewIO("create", path, err)
	}
	if err := Encode(f, v, FormatForPath(path)); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return errors.NewIO("write", path, err)
	}
	return nil
}

// Decode reads a Batch in the given format.
func Decode(r io.Reader, format Format) (*Batch, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	var b Batch
	switch format {
	case FormatYAML:
		err = yaml.Unmarshal(data, &b)
	default:
		err = json.Unmarshal(data, &b)
	}
	if err != nil {
		return nil, fmt.Errorf("report: decode %s: %w", format, err)
	}
	return &b, nil
}
