// Package fastq provides the FastQ format: four lines per record carrying
// the identifier, the sequence and the quality scores.
package fastq

import (
	"io"
	"strings"

	"github.com/FocuswithJustin/seqconvert/core/errors"
	"github.com/FocuswithJustin/seqconvert/core/formats"
	"github.com/FocuswithJustin/seqconvert/core/record"
	"github.com/FocuswithJustin/seqconvert/internal/formats/base"
)

// Field names of the quality lines.
const (
	FieldQualityID = "quality_score_identifier"
	FieldQuality   = "quality_score"
)

// Fields is the field list of FastQ records.
var Fields = record.FieldList{record.FieldSeqID, record.FieldSequence, FieldQualityID, FieldQuality}

// Handler reads and writes FastQ.
type Handler struct{}

func (Handler) Descriptor() formats.Descriptor {
	return formats.Descriptor{
		Name:        "fastq",
		Extensions:  []string{".fastq", ".fq", ".fastq.gz", ".fq.gz", ".gz"},
		Description: "FastQ; '@' identifier, sequence, '+' line and quality scores",
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

// frame is one four-line record with the markers removed.
type frame struct {
	id, sequence, qualityID, quality string
}

type reader struct {
	lines *base.LineReader
}

func (r *reader) next() (*frame, error) {
	head, err := r.lines.NextNonBlank()
	if err != nil {
		return nil, err
	}
	if !strings.HasPrefix(head, "@") {
		return nil, errors.NewParse("fastq", r.lines.Line(), "expected an '@' identifier line")
	}
	var rest [3]string
	for i := range rest {
		rest[i], err = r.lines.Next()
		if err == io.EOF {
			return nil, errors.NewParse("fastq", r.lines.Line(), "truncated record")
		}
		if err != nil {
			return nil, err
		}
	}
	if !strings.HasPrefix(rest[1], "+") {
		return nil, errors.NewParse("fastq", r.lines.Line()-1, "expected a '+' line")
	}
	return &frame{id: head[1:], sequence: rest[0], qualityID: rest[1][1:], quality: rest[2]}, nil
}

func (Handler) Read(src io.Reader, s *formats.Session) (record.FieldList, formats.Records, error) {
	rd := &reader{lines: base.NewLineReader(src)}
	next := func() (*record.Record, error) {
		f, err := rd.next()
		if err != nil {
			return nil, err
		}
		return record.New(map[string]string{
			record.FieldSeqID:    f.id,
			record.FieldSequence: f.sequence,
			FieldQualityID:       f.qualityID,
			FieldQuality:         f.quality,
		})
	}
	return Fields.Clone(), formats.NewIterator(next), nil
}

// Write requires all four FastQ fields in the field list.
func (Handler) Write(dst io.Writer, fields record.FieldList, s *formats.Session) (*formats.WriterHandle, error) {
	for _, f := range Fields {
		if !fields.Contains(f) {
			return nil, errors.NewMissingField(f, "fastq writer")
		}
	}
	out := base.NewOutput(dst)
	return formats.NewWriterHandle(formats.WriterFuncs{
		RecordFn: func(r *record.Record) error {
			out.Line("@", r.SeqID())
			out.Line(r.Sequence())
			out.Line("+", r.Value(FieldQualityID))
			out.Line(r.Value(FieldQuality))
			return out.Err()
		},
		EndFn: out.Flush,
	}), nil
}

// Shortcut converts FastQ to plain FASTA by reframing lines, without
// building records or applying record policies.
func (Handler) Shortcut(to formats.Descriptor) (formats.ShortcutFunc, bool) {
	if to.Name != "fasta" {
		return nil, false
	}
	return toFasta, true
}

func toFasta(src io.Reader, dst io.Writer, s *formats.Session) (int, error) {
	rd := &reader{lines: base.NewLineReader(src)}
	out := base.NewOutput(dst)
	n := 0
	for {
		f, err := rd.next()
		if err == io.EOF {
			break
		}
		if err != nil {
			out.Flush()
			return n, err
		}
		out.Line(">", f.id)
		out.Line(f.sequence)
		n++
	}
	return n, out.Flush()
}
