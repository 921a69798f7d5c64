package sequtil

import (
	"strings"

	"github.com/FocuswithJustin/seqconvert/core/record"
)

func isAlnum(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
}

// Sanitize replaces every run of characters other than ASCII letters and
// digits with a single underscore and drops leading and trailing runs.
func Sanitize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	pending := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !isAlnum(c) {
			pending = b.Len() > 0
			continue
		}
		if pending {
			b.WriteByte('_')
			pending = false
		}
		b.WriteByte(c)
	}
	return b.String()
}

// NameAssembler builds a display identifier for records of one field list.
//
// The metadata fields are the fields preceding "sequence" in the list,
// excluding "seqid". When there are none the assembler returns the record's
// seqid unchanged; otherwise it joins the sanitized non-empty metadata values
// with underscores.
type NameAssembler struct {
	fields record.FieldList
}

// NewNameAssembler prepares an assembler for the given field list.
func NewNameAssembler(fields record.FieldList) *NameAssembler {
	meta := fields.Without(record.FieldSeqID)
	if i := meta.Index(record.FieldSequence); i >= 0 {
		meta = meta[:i]
	}
	return &NameAssembler{fields: meta}
}

// Simple reports whether the assembler passes seqid through unchanged.
func (a *NameAssembler) Simple() bool {
	return len(a.fields) == 0
}

// Name returns the identifier for r.
func (a *NameAssembler) Name(r *record.Record) string {
	if a.Simple() {
		return r.SeqID()
	}
	parts := make([]string, 0, len(a.fields))
	for _, f := range a.fields {
		v := r.Value(f)
		if v == "" {
			continue
		}
		if s := Sanitize(v); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, "_")
}
