// Package formats defines the contract every sequence format implements and
// the registry resolving formats by name or file extension.
//
// A Handler reads a source stream into a field list and a lazy, one-shot
// record iterator, and writes records through a WriterHandle whose states
// are Created, Initialized, Receiving and Closed. Formats that need global
// knowledge of the stream buffer records in the handle and produce their
// output on Close.
package formats

import (
	"io"

	"github.com/FocuswithJustin/seqconvert/core/diag"
	"github.com/FocuswithJustin/seqconvert/core/errors"
	"github.com/FocuswithJustin/seqconvert/core/record"
	"github.com/FocuswithJustin/seqconvert/core/sequtil"
)

// Options control record-level policies of one conversion.
type Options struct {
	// AllowEmptySequences passes records with an empty sequence to the writer.
	AllowEmptySequences bool `json:"allow_empty_sequences" yaml:"allow_empty_sequences"`
	// AutomaticRenaming lets writers build identifiers from metadata fields.
	AutomaticRenaming bool `json:"automatic_renaming" yaml:"automatic_renaming"`
	// PreserveSpaces keeps space characters inside sequences.
	PreserveSpaces bool `json:"preserve_spaces" yaml:"preserve_spaces"`
}

// DefaultOptions returns the options used when the caller sets none.
func DefaultOptions() Options {
	return Options{AutomaticRenaming: true}
}

// Session carries the options and the warning collector of one conversion
// to the reader and the writer.
type Session struct {
	Options  Options
	Warnings *diag.Warnings
}

// NewSession returns a session with an empty warning collector.
func NewSession(opts Options) *Session {
	return &Session{Options: opts, Warnings: &diag.Warnings{}}
}

// Descriptor describes a registered format.
type Descriptor struct {
	Name        string   `json:"name"`
	Extensions  []string `json:"extensions"`
	Description string   `json:"description"`
	CanRead     bool     `json:"can_read"`
	CanWrite    bool     `json:"can_write"`
}

// Records is a lazy, finite, single-use record sequence bound to the cursor
// of its source stream. It cannot be restarted.
type Records interface {
	// Next advances to the next record, returning false at the end or on error.
	Next() bool
	// Record returns the current record.
	Record() *record.Record
	// Err returns the error that stopped iteration, if any.
	Err() error
}

// Handler is implemented by every format.
type Handler interface {
	Descriptor() Descriptor
	// Read returns the field list and the records of src. Structural
	// problems detected before the first record fail immediately.
	Read(src io.Reader, s *Session) (record.FieldList, Records, error)
	// Write returns a handle in the Created state writing to dst.
	Write(dst io.Writer, fields record.FieldList, s *Session) (*WriterHandle, error)
}

// ShortcutFunc converts src straight into dst and returns the number of
// records it converted.
type ShortcutFunc func(src io.Reader, dst io.Writer, s *Session) (int, error)

// Shortcut is implemented by readers that convert directly into a specific
// target format without materializing records.
type Shortcut interface {
	Shortcut(to Descriptor) (ShortcutFunc, bool)
}

// ReadOnly can be embedded by handlers that cannot write.
type ReadOnly struct{ Format string }

func (r ReadOnly) Write(io.Writer, record.FieldList, *Session) (*WriterHandle, error) {
	return nil, errors.NewUnsupported(r.Format, "write")
}

// WriteOnly can be embedded by handlers that cannot read.
type WriteOnly struct{ Format string }

func (w WriteOnly) Read(io.Reader, *Session) (record.FieldList, Records, error) {
	return nil, nil, errors.NewUnsupported(w.Format, "read")
}

// NameAssembler returns the identifier builder for fields, honouring
// Options.AutomaticRenaming.
func (s *Session) NameAssembler(fields record.FieldList) *sequtil.NameAssembler {
	if !s.Options.AutomaticRenaming {
		return sequtil.NewNameAssembler(record.Standard())
	}
	return sequtil.NewNameAssembler(fields)
}

// Unicifier returns an unbounded Unicifier, or nil when the writer should only
// make names unique under automatic renaming and renaming is off.
func (s *Session) Unicifier(always bool) *sequtil.Unicifier {
	if !always && !s.Options.AutomaticRenaming {
		return nil
	}
	return sequtil.NewUnicifier()
}

// ReportRenames records one aggregate warning if u altered any identifier.
func (s *Session) ReportRenames(u *sequtil.Unicifier) {
	if u == nil || u.Renamed() == 0 {
		return
	}
	s.Warnings.Addf(diag.CodeRenamed, "%d sequence names were changed to make them unique", u.Renamed())
}

// Unique passes name through u when u is non-nil.
func Unique(u *sequtil.Unicifier, name string) string {
	if u == nil {
		return name
	}
	return u.Unique(name)
}
