// Package record defines the atomic unit of a conversion: a sequence entry
// keyed by field name.
package record

import (
	"sort"

	"github.com/FocuswithJustin/seqconvert/core/errors"
)

// Conventional field names.
const (
	FieldSeqID    = "seqid"
	FieldSequence = "sequence"
)

// Record maps field names to values. A Record always holds a sequence and
// at least one other field.
type Record struct {
	fields map[string]string
}

// New creates a record from the given fields. The map is copied.
// It fails with errors.ErrMissingField when fewer than two fields are given
// or the sequence field is absent.
func New(fields map[string]string) (*Record, error) {
	if _, ok := fields[FieldSequence]; !ok {
		return nil, errors.NewMissingField(FieldSequence, "record")
	}
	if len(fields) < 2 {
		return nil, &errors.MissingFieldError{Field: FieldSeqID, Context: "record has less than 2 fields"}
	}
	r := &Record{fields: make(map[string]string, len(fields))}
	for k, v := range fields {
		r.fields[k] = v
	}
	return r, nil
}

// Get returns the value of field, or an error wrapping errors.ErrNotFound.
func (r *Record) Get(field string) (string, error) {
	v, ok := r.fields[field]
	if !ok {
		return "", errors.Wrapf(errors.ErrNotFound, "field '%s'", field)
	}
	return v, nil
}

// Value returns the value of field, or "" when it is absent.
func (r *Record) Value(field string) string {
	return r.fields[field]
}

// Has reports whether field is present.
func (r *Record) Has(field string) bool {
	_, ok := r.fields[field]
	return ok
}

// Set assigns value to field, adding it if absent.
func (r *Record) Set(field, value string) {
	r.fields[field] = value
}

// SeqID returns the identifier field.
func (r *Record) SeqID() string { return r.fields[FieldSeqID] }

// Sequence returns the sequence field.
func (r *Record) Sequence() string { return r.fields[FieldSequence] }

// Names returns the record's field names in sorted order.
func (r *Record) Names() []string {
	names := make([]string, 0, len(r.fields))
	for k := range r.fields {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of fields.
func (r *Record) Len() int { return len(r.fields) }
