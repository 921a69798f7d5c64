// Package tab provides the tab-separated table formats, with and without a
// header row.
package tab

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/cases"

	"github.com/FocuswithJustin/seqconvert/core/diag"
	"github.com/FocuswithJustin/seqconvert/core/errors"
	"github.com/FocuswithJustin/seqconvert/core/formats"
	"github.com/FocuswithJustin/seqconvert/core/record"
	"github.com/FocuswithJustin/seqconvert/internal/formats/base"
)

// Handler reads and writes tab files whose first row names the fields.
type Handler struct{}

// Descriptor returns the registry entry of the tab format.
func (Handler) Descriptor() formats.Descriptor {
	return formats.Descriptor{
		Name:        "tab",
		Extensions:  []string{".tab", ".txt", ".tsv"},
		Description: "tab-separated table with a header row naming the fields",
		CanRead:     true,
		CanWrite:    true,
	}
}

// Register registers both tab formats.
func Register() {
	formats.Register(Handler{})
	formats.Register(NoHeaderHandler{})
}

func init() {
	Register()
}

// Read parses the header row and returns the records of the following rows.
// Header names are case-folded. Without a "sequence" column one is chosen:
// the single column whose name contains "sequence", else the first of
// several such columns, else the last column.
func (Handler) Read(src io.Reader, s *formats.Session) (record.FieldList, formats.Records, error) {
	lines := base.NewLineReader(src)
	header, err := lines.Next()
	if err != nil && err != io.EOF {
		return nil, nil, err
	}

	fold := cases.Fold()
	fields := record.FieldList(strings.Split(header, "\t"))
	for i, f := range fields {
		fields[i] = fold.String(f)
	}
	if len(fields) < 2 {
		return nil, nil, errors.NewParse("tab", 1, "the header names fewer than two columns")
	}

	if !fields.Contains(record.FieldSeqID) {
		s.Warnings.Add(diag.CodeMissingSeqID, "The column 'seqid' is missing. Conversion will proceed, but please check the converted file for correctness.")
	}
	if !fields.Contains(record.FieldSequence) {
		guessSequenceColumn(fields, s.Warnings)
	}

	next := func() (*record.Record, error) {
		line, err := lines.NextNonBlank()
		if err != nil {
			return nil, err
		}
		values := strings.Split(line, "\t")
		m := make(map[string]string, len(fields))
		for i, f := range fields {
			if i < len(values) {
				m[f] = values[i]
			} else {
				m[f] = ""
			}
		}
		return record.New(m)
	}
	return fields, formats.NewIterator(next), nil
}

func guessSequenceColumn(fields record.FieldList, w *diag.Warnings) {
	var candidates []int
	for i, f := range fields {
		if strings.Contains(f, record.FieldSequence) {
			candidates = append(candidates, i)
		}
	}
	switch {
	case len(candidates) == 1:
		w.Add(diag.CodeColumnGuess, "The column 'sequence' is missing, but another column header containing the same term was found and is interpreted as containing the sequences. Conversion will proceed, but please check the converted file for correctness")
		fields[candidates[0]] = record.FieldSequence
	case len(candidates) > 1:
		i := candidates[0]
		w.Add(diag.CodeColumnGuess, fmt.Sprintf("The column 'sequence' is missing, the column '%s' is interpreted as containing the sequences. Conversion will proceed, but please check the converted file for correctness", fields[i]))
		fields[i] = record.FieldSequence
	default:
		last := len(fields) - 1
		w.Add(diag.CodeColumnGuess, fmt.Sprintf("The column 'sequence' is missing, the last column '%s' is interpreted as containing the sequences. Conversion will proceed, but please check the converted file for correctness", fields[last]))
		fields[last] = record.FieldSequence
	}
}

// Write emits the header row, then one row per record with seqid made
// unique.
func (Handler) Write(dst io.Writer, fields record.FieldList, s *formats.Session) (*formats.WriterHandle, error) {
	if !fields.Contains(record.FieldSeqID) {
		return nil, errors.NewMissingField(record.FieldSeqID, "tab writer")
	}
	out := base.NewOutput(dst)
	unique := s.Unicifier(true)

	return formats.NewWriterHandle(formats.WriterFuncs{
		BeginFn: func() error {
			out.Line(strings.Join(fields, "\t"))
			return out.Err()
		},
		RecordFn: func(r *record.Record) error {
			r.Set(record.FieldSeqID, unique.Unique(r.SeqID()))
			out.Line(row(r, fields))
			return out.Err()
		},
		EndFn: func() error {
			s.ReportRenames(unique)
			return out.Flush()
		},
	}), nil
}

func row(r *record.Record, fields record.FieldList) string {
	values := make([]string, len(fields))
	for i, f := range fields {
		values[i] = r.Value(f)
	}
	return strings.Join(values, "\t")
}
