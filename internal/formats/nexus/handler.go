// Package nexus provides the Nexus format. Only character blocks declaring
// a sequence datatype surface as records.
package nexus

import (
	"fmt"
	"io"
	"regexp"
	"unicode/utf8"

	"github.com/FocuswithJustin/seqconvert/core/diag"
	"github.com/FocuswithJustin/seqconvert/core/encoding"
	"github.com/FocuswithJustin/seqconvert/core/errors"
	"github.com/FocuswithJustin/seqconvert/core/formats"
	"github.com/FocuswithJustin/seqconvert/core/nexus"
	"github.com/FocuswithJustin/seqconvert/core/record"
	"github.com/FocuswithJustin/seqconvert/core/sequtil"
	"github.com/FocuswithJustin/seqconvert/internal/formats/base"
)

// sequenceDatatype matches the datatypes whose matrix is read. Protein is
// accepted along with the nucleotide types.
var sequenceDatatype = regexp.MustCompile(`(?i)^(dna|rna|nucleotide|protein)$`)

var proteinDatatype = regexp.MustCompile(`(?i)^protein$`)

// Handler reads and writes Nexus.
type Handler struct{}

func (Handler) Descriptor() formats.Descriptor {
	return formats.Descriptor{
		Name:        "nexus",
		Extensions:  []string{".nex", ".nexus"},
		Description: "Nexus data block with an interleave-free matrix",
		CanRead:     true,
		CanWrite:    true,
	}
}

// Register registers this format.
func Register() {
	formats.Register(Handler{})
}

func init() {
	Register()
}

type readState int

const (
	awaitingFormat readState = iota
	matrixArmed
)

// reader walks the commands of a Nexus file and pairs matrix arguments
// into records while a sequence datatype is armed.
type reader struct {
	p        *nexus.Parser
	warnings *diag.Warnings
	state    readState
	inMatrix bool
}

func (rd *reader) next() (*record.Record, error) {
	for {
		if rd.inMatrix {
			r, err := rd.pair()
			if err != io.EOF {
				return r, err
			}
			rd.inMatrix = false
		}

		cmd, err := rd.p.Next()
		if err != nil {
			return nil, err
		}
		switch cmd {
		case "format":
			args, err := rd.p.Args()
			if err != nil {
				return nil, err
			}
			if dt, ok := nexus.Value(args, "datatype"); ok && sequenceDatatype.MatchString(dt) {
				rd.state = matrixArmed
				if proteinDatatype.MatchString(dt) {
					rd.warnings.Once(diag.CodeDatatype, "The file contains a block with datatype=Protein; its sequences are converted as they are")
				}
			}
		case "matrix":
			if rd.state == matrixArmed {
				rd.inMatrix = true
			}
		case "end", "endblock":
			rd.state = awaitingFormat
		}
	}
}

// pair reads one name and its sequence from the current matrix command.
func (rd *reader) pair() (*record.Record, error) {
	name, err := rd.p.Arg()
	if err != nil {
		return nil, err
	}
	seq, err := rd.p.Arg()
	if err == io.EOF {
		return nil, errors.NewParse("nexus", rd.p.Line(), fmt.Sprintf("taxon %q has no sequence", name.Text))
	}
	if err != nil {
		return nil, err
	}
	return record.New(map[string]string{
		record.FieldSeqID:    name.Text,
		record.FieldSequence: seq.Text,
	})
}

func (Handler) Read(src io.Reader, s *formats.Session) (record.FieldList, formats.Records, error) {
	p, err := nexus.NewParser(src)
	if err != nil {
		return nil, nil, err
	}
	rd := &reader{p: p, warnings: s.Warnings}
	return record.Standard(), formats.NewIterator(rd.next), nil
}

// Write buffers the records, then emits a data block whose names are
// unique and padded to a common width and whose sequences are padded to a
// common length.
func (Handler) Write(dst io.Writer, fields record.FieldList, s *formats.Session) (*formats.WriterHandle, error) {
	namer := s.NameAssembler(fields)
	unique := s.Unicifier(true)
	width := sequtil.NewFold(0, func(acc int, r *record.Record) int {
		return max(acc, utf8.RuneCountInString(r.SeqID()))
	})

	tp := formats.NewTwoPass(func(tp *formats.TwoPass) error {
		out := base.NewOutput(dst)
		align := sequtil.Aligner(tp.Stats.Max.Value, tp.Stats.MinOrZero(), s.Warnings)

		out.Line("#NEXUS")
		out.Line("begin data;")
		out.Printf("\tdimensions ntax=%d nchar=%d;\n", tp.Stats.Count.Value, tp.Stats.Max.Value)
		out.Line("\tformat datatype=DNA missing=N gap=-;")
		out.Line("\tmatrix")
		for _, r := range tp.Records {
			out.Printf("\t%-*s %s\n", width.Value, r.SeqID(), align(r.Sequence()))
		}
		out.Line("\t;")
		out.Line("end;")
		s.ReportRenames(unique)
		return out.Flush()
	}, width)

	// names are fixed before the aggregator sees the record
	return formats.NewWriterHandle(renamer{TwoPass: tp, rename: func(r *record.Record) {
		r.Set(record.FieldSeqID, encoding.QuoteNexus(unique.Unique(namer.Name(r))))
	}}), nil
}

// renamer rewrites each record's seqid before buffering it.
type renamer struct {
	*formats.TwoPass
	rename func(r *record.Record)
}

func (w renamer) WriteRecord(r *record.Record) error {
	w.rename(r)
	return w.TwoPass.WriteRecord(r)
}
