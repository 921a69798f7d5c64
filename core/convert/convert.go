// Package convert runs conversions: one reader feeding one writer, with the
// record-level policies of formats.Options applied in between.
package convert

import (
	"fmt"
	"io"
	"strings"

	"github.com/FocuswithJustin/seqconvert/core/cas"
	"github.com/FocuswithJustin/seqconvert/core/diag"
	"github.com/FocuswithJustin/seqconvert/core/formats"
	"github.com/FocuswithJustin/seqconvert/core/record"
)

// EmptySkippedWarning is reported once when records without a sequence
// were left out.
const EmptySkippedWarning = "%d records did not contain a sequence and are therefore not included in the converted file"

// Report summarizes one conversion. It is filled in even when the
// conversion fails.
type Report struct {
	Source         string         `json:"source,omitempty" yaml:"source,omitempty"`
	Destination    string         `json:"destination,omitempty" yaml:"destination,omitempty"`
	InFormat       string         `json:"in_format" yaml:"in_format"`
	OutFormat      string         `json:"out_format" yaml:"out_format"`
	RecordsRead    int            `json:"records_read" yaml:"records_read"`
	RecordsWritten int            `json:"records_written" yaml:"records_written"`
	Skipped        int            `json:"skipped" yaml:"skipped"`
	Shortcut       bool           `json:"shortcut,omitempty" yaml:"shortcut,omitempty"`
	Warnings       []diag.Warning `json:"warnings" yaml:"warnings"`
	Digest         string         `json:"digest,omitempty" yaml:"digest,omitempty"`
	Bytes          int64          `json:"bytes" yaml:"bytes"`
	Error          string         `json:"error,omitempty" yaml:"error,omitempty"`
}

// Stream converts src, encoded with in, into dst encoded with out.
func Stream(src io.Reader, dst io.Writer, in, out formats.Handler, opts formats.Options) (rep *Report, err error) {
	s := formats.NewSession(opts)
	hasher := cas.NewHasher(dst)
	rep = &Report{
		InFormat:  in.Descriptor().Name,
		OutFormat: out.Descriptor().Name,
	}
	defer func() {
		rep.Warnings = s.Warnings.List()
		rep.Digest = hasher.Sum()
		rep.Bytes = hasher.Size()
		if err != nil {
			rep.Error = err.Error()
		}
	}()

	if sc, ok := in.(formats.Shortcut); ok {
		if fn, ok := sc.Shortcut(out.Descriptor()); ok {
			rep.Shortcut = true
			n, err := fn(src, hasher, s)
			rep.RecordsRead, rep.RecordsWritten = n, n
			return rep, err
		}
	}

	fields, records, err := in.Read(src, s)
	if err != nil {
		return rep, err
	}
	handle, err := out.Write(hasher, fields, s)
	if err != nil {
		return rep, err
	}
	if err := handle.Init(); err != nil {
		return rep, err
	}

	for records.Next() {
		r := records.Record()
		rep.RecordsRead++
		if !opts.PreserveSpaces {
			r.Set(record.FieldSequence, strings.ReplaceAll(r.Sequence(), " ", ""))
		}
		if r.Sequence() == "" && !opts.AllowEmptySequences {
			rep.Skipped++
			continue
		}
		if err := handle.Accept(r); err != nil {
			return rep, err
		}
		rep.RecordsWritten++
	}
	if err := records.Err(); err != nil {
		return rep, err
	}
	if err := handle.Close(); err != nil {
		return rep, err
	}

	if rep.Skipped > 0 {
		s.Warnings.Add(diag.CodeEmptySkipped, fmt.Sprintf(EmptySkippedWarning, rep.Skipped))
	}
	return rep, nil
}
