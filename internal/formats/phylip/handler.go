// Package phylip provides sequential Phylip, with fixed-width names, and
// relaxed Phylip, with space-delimited names.
package phylip

import (
	"fmt"
	"io"
	"strings"

	"github.com/FocuswithJustin/seqconvert/core/formats"
	"github.com/FocuswithJustin/seqconvert/core/record"
	"github.com/FocuswithJustin/seqconvert/core/sequtil"
	"github.com/FocuswithJustin/seqconvert/internal/formats/base"
)

// NameWidth is the width of the name column of classic Phylip.
const NameWidth = 10

// Handler reads and writes classic Phylip.
type Handler struct{}

func (Handler) Descriptor() formats.Descriptor {
	return formats.Descriptor{
		Name:        "phylip",
		Extensions:  []string{".phy"},
		Description: "sequential Phylip with names in a 10-character column",
		CanRead:     true,
		CanWrite:    true,
	}
}

// RelaxedHandler reads and writes relaxed Phylip.
type RelaxedHandler struct{}

func (RelaxedHandler) Descriptor() formats.Descriptor {
	return formats.Descriptor{
		Name:        "relaxed_phylip",
		Extensions:  []string{".rel.phy"},
		Description: "relaxed Phylip; names of any length separated from the sequence by a space",
		CanRead:     true,
		CanWrite:    true,
	}
}

// Register registers both Phylip variants.
func Register() {
	formats.Register(Handler{})
	formats.Register(RelaxedHandler{})
}

func init() {
	Register()
}

// read skips the "count length" line and hands every other non-blank line
// to split, which reports false for lines without a sequence.
func read(src io.Reader, split func(line string) (name, seq string, ok bool)) formats.Records {
	lines := base.NewLineReader(src)
	started := false
	return formats.NewIterator(func() (*record.Record, error) {
		if !started {
			started = true
			if _, err := lines.Next(); err != nil {
				return nil, err
			}
		}
		for {
			line, err := lines.NextNonBlank()
			if err != nil {
				return nil, err
			}
			name, seq, ok := split(line)
			if !ok {
				continue
			}
			return record.New(map[string]string{
				record.FieldSeqID:    name,
				record.FieldSequence: seq,
			})
		}
	})
}

// Read takes the first ten characters of a line as the name.
func (Handler) Read(src io.Reader, s *formats.Session) (record.FieldList, formats.Records, error) {
	return record.Standard(), read(src, func(line string) (string, string, bool) {
		runes := []rune(line)
		if len(runes) < NameWidth {
			return "", "", false
		}
		name := strings.TrimRight(string(runes[:NameWidth]), " ")
		return name, strings.TrimSpace(string(runes[NameWidth:])), true
	}), nil
}

// Read splits each line at its first space.
func (RelaxedHandler) Read(src io.Reader, s *formats.Session) (record.FieldList, formats.Records, error) {
	return record.Standard(), read(src, func(line string) (string, string, bool) {
		name, seq, _ := strings.Cut(line, " ")
		seq = strings.TrimSpace(seq)
		return name, seq, seq != ""
	}), nil
}

// write buffers the records and emits the "count length" header followed by
// one padded line per record; format renders a name and a sequence.
func write(dst io.Writer, fields record.FieldList, s *formats.Session, unique *sequtil.Unicifier, format func(name, seq string) string) *formats.WriterHandle {
	namer := s.NameAssembler(fields)
	return formats.NewWriterHandle(formats.NewTwoPass(func(tp *formats.TwoPass) error {
		out := base.NewOutput(dst)
		align := sequtil.Aligner(tp.Stats.Max.Value, tp.Stats.MinOrZero(), s.Warnings)
		out.Printf("%d %d\n", tp.Stats.Count.Value, tp.Stats.Max.Value)
		for _, r := range tp.Records {
			out.Line(format(unique.Unique(namer.Name(r)), align(r.Sequence())))
		}
		s.ReportRenames(unique)
		return out.Flush()
	}))
}

// Write pads names to the name column after making them unique within it.
func (Handler) Write(dst io.Writer, fields record.FieldList, s *formats.Session) (*formats.WriterHandle, error) {
	return write(dst, fields, s, sequtil.NewBoundedUnicifier(NameWidth), func(name, seq string) string {
		return fmt.Sprintf("%-*s%s", NameWidth, name, seq)
	}), nil
}

func (RelaxedHandler) Write(dst io.Writer, fields record.FieldList, s *formats.Session) (*formats.WriterHandle, error) {
	return write(dst, fields, s, s.Unicifier(true), func(name, seq string) string {
		return name + " " + seq
	}), nil
}
