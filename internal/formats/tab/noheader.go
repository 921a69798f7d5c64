package tab

import (
	"io"
	"strings"

	"github.com/FocuswithJustin/seqconvert/core/diag"
	"github.com/FocuswithJustin/seqconvert/core/formats"
	"github.com/FocuswithJustin/seqconvert/core/record"
	"github.com/FocuswithJustin/seqconvert/core/sequtil"
	"github.com/FocuswithJustin/seqconvert/internal/formats/base"
)

// NoHeaderHandler reads and writes tab files without a header row. It has
// no extension of its own and is only reachable by name.
type NoHeaderHandler struct{}

func (NoHeaderHandler) Descriptor() formats.Descriptor {
	return formats.Descriptor{
		Name:        "tab_noheaders",
		Description: "tab-separated table without header; the sequence is the last (or first) column",
		CanRead:     true,
		CanWrite:    true,
	}
}

// Read takes the last non-empty column of each row as the sequence, or the
// first one when the first row's last column is not nucleotide data but its
// first column is. The remaining values, sanitized and joined with
// underscores, form the seqid.
func (NoHeaderHandler) Read(src io.Reader, s *formats.Session) (record.FieldList, formats.Records, error) {
	lines := base.NewLineReader(src)
	first := true
	seqFirst := false

	next := func() (*record.Record, error) {
		for {
			line, err := lines.NextNonBlank()
			if err != nil {
				return nil, err
			}
			var values []string
			for _, v := range strings.Split(line, "\t") {
				if v != "" {
					values = append(values, v)
				}
			}
			if len(values) == 0 {
				continue
			}

			if first {
				first = false
				if !sequtil.IsNucleotide(values[len(values)-1]) && sequtil.IsNucleotide(values[0]) {
					seqFirst = true
					s.Warnings.Add(diag.CodeColumnGuess, "The last column contains non-standard DNA characters. The first column is assumed to be the sequence column")
				}
			}

			var sequence string
			if seqFirst {
				sequence, values = values[0], values[1:]
			} else {
				sequence, values = values[len(values)-1], values[:len(values)-1]
			}
			parts := make([]string, len(values))
			for i, v := range values {
				parts[i] = sequtil.Sanitize(v)
			}
			return record.New(map[string]string{
				record.FieldSeqID:    strings.Join(parts, "_"),
				record.FieldSequence: sequence,
			})
		}
	}
	return record.Standard(), formats.NewIterator(next), nil
}

// Write emits every field of every record, in field list order, without a
// header.
func (NoHeaderHandler) Write(dst io.Writer, fields record.FieldList, s *formats.Session) (*formats.WriterHandle, error) {
	out := base.NewOutput(dst)
	return formats.NewWriterHandle(formats.WriterFuncs{
		RecordFn: func(r *record.Record) error {
			out.Line(row(r, fields))
			return out.Err()
		},
		EndFn: out.Flush,
	}), nil
}
