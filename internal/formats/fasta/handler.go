// Package fasta provides the FASTA family: plain FASTA, the Hapview
// variant, Genbank-export FASTA and the ALI alignment format.
package fasta

import (
	"io"
	"strings"

	"github.com/FocuswithJustin/seqconvert/core/errors"
	"github.com/FocuswithJustin/seqconvert/core/formats"
	"github.com/FocuswithJustin/seqconvert/core/record"
	"github.com/FocuswithJustin/seqconvert/internal/formats/base"
)

// Handler reads and writes plain FASTA.
type Handler struct{}

func (Handler) Descriptor() formats.Descriptor {
	return formats.Descriptor{
		Name:        "fasta",
		Extensions:  []string{".fas", ".fna", ".fasta"},
		Description: "FASTA; the identifier line is built from all metadata fields",
		CanRead:     true,
		CanWrite:    true,
	}
}

// Register registers every format of the family.
func Register() {
	formats.Register(Handler{})
	formats.Register(HapviewHandler{formats.WriteOnly{Format: "fasta_hapview"}})
	formats.Register(GBExportHandler{})
	formats.Register(AliHandler{})
}

func init() {
	Register()
}

// entry is one raw FASTA block.
type entry struct {
	header   string
	sequence string
}

// scanner splits FASTA-like input into header and sequence blocks. Lines
// for which skip returns true are ignored everywhere.
type scanner struct {
	lines  *base.LineReader
	format string
	skip   func(line string) bool
}

func newScanner(src io.Reader, format string, skip func(string) bool) *scanner {
	if skip == nil {
		skip = func(string) bool { return false }
	}
	return &scanner{lines: base.NewLineReader(src), format: format, skip: skip}
}

// next returns the next block, or io.EOF.
func (sc *scanner) next() (*entry, error) {
	var line string
	for {
		l, err := sc.lines.NextNonBlank()
		if err != nil {
			return nil, err
		}
		if !sc.skip(l) {
			line = l
			break
		}
	}
	if !strings.HasPrefix(line, ">") {
		return nil, errors.NewParse(sc.format, sc.lines.Line(), "expected a '>' header line")
	}

	e := &entry{header: strings.TrimSpace(line[1:])}
	var seq strings.Builder
	for {
		l, err := sc.lines.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if sc.skip(l) {
			continue
		}
		if strings.HasPrefix(l, ">") {
			sc.lines.Unread(l)
			break
		}
		seq.WriteString(strings.TrimSpace(l))
	}
	e.sequence = seq.String()
	return e, nil
}

// Read returns one record per header line; the whole header is the seqid
// and the sequence lines are concatenated.
func (Handler) Read(src io.Reader, s *formats.Session) (record.FieldList, formats.Records, error) {
	sc := newScanner(src, "fasta", nil)
	next := func() (*record.Record, error) {
		e, err := sc.next()
		if err != nil {
			return nil, err
		}
		return record.New(map[string]string{
			record.FieldSeqID:    e.header,
			record.FieldSequence: e.sequence,
		})
	}
	return record.Standard(), formats.NewIterator(next), nil
}

// Write emits ">name" and the sequence on one line per record.
func (Handler) Write(dst io.Writer, fields record.FieldList, s *formats.Session) (*formats.WriterHandle, error) {
	out := base.NewOutput(dst)
	namer := s.NameAssembler(fields)
	unique := s.Unicifier(false)
	return formats.NewWriterHandle(formats.WriterFuncs{
		RecordFn: func(r *record.Record) error {
			out.Line(">", formats.Unique(unique, namer.Name(r)))
			out.Line(r.Sequence())
			return out.Err()
		},
		EndFn: func() error {
			s.ReportRenames(unique)
			return out.Flush()
		},
	}), nil
}
