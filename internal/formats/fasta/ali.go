package fasta

import (
	"io"
	"strings"

	"github.com/FocuswithJustin/seqconvert/core/formats"
	"github.com/FocuswithJustin/seqconvert/core/record"
	"github.com/FocuswithJustin/seqconvert/internal/formats/base"
)

// AliGap is the gap symbol of ALI files.
const AliGap = "*"

// aliComment is the line written at the top of every ALI file.
const aliComment = "#written by seqconvert"

// AliHandler reads and writes ALI alignments: FASTA with '#' comment lines
// and '*' as the gap symbol.
type AliHandler struct{}

func (AliHandler) Descriptor() formats.Descriptor {
	return formats.Descriptor{
		Name:        "ali_fasta",
		Extensions:  []string{".ali"},
		Description: "ALI alignment; FASTA with '#' comments and '*' gaps",
		CanRead:     true,
		CanWrite:    true,
	}
}

func isComment(line string) bool {
	return strings.HasPrefix(line, "#")
}

func (AliHandler) Read(src io.Reader, s *formats.Session) (record.FieldList, formats.Records, error) {
	sc := newScanner(src, "ali_fasta", isComment)
	next := func() (*record.Record, error) {
		e, err := sc.next()
		if err != nil {
			return nil, err
		}
		return record.New(map[string]string{
			record.FieldSeqID:    e.header,
			record.FieldSequence: strings.ReplaceAll(e.sequence, AliGap, "-"),
		})
	}
	return record.Standard(), formats.NewIterator(next), nil
}

func (AliHandler) Write(dst io.Writer, fields record.FieldList, s *formats.Session) (*formats.WriterHandle, error) {
	out := base.NewOutput(dst)
	namer := s.NameAssembler(fields)
	unique := s.Unicifier(false)
	return formats.NewWriterHandle(formats.WriterFuncs{
		BeginFn: func() error {
			out.Line(aliComment)
			return out.Err()
		},
		RecordFn: func(r *record.Record) error {
			out.Line(">", formats.Unique(unique, namer.Name(r)))
			out.Line(strings.ReplaceAll(r.Sequence(), "-", AliGap))
			return out.Err()
		},
		EndFn: func() error {
			s.ReportRenames(unique)
			return out.Flush()
		},
	}), nil
}
