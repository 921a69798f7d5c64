// Package diag collects the non-fatal diagnostics of one conversion.
//
// Readers, writers and the pipeline report per-record anomalies here instead
// of aborting; the caller receives the full list once the conversion has
// completed or failed. A Warnings value belongs to exactly one conversion.
package diag

import "fmt"

// Code classifies a warning.
type Code string

const (
	CodeEmptySkipped    Code = "empty_sequences_skipped"
	CodePadded          Code = "sequences_padded"
	CodeColumnGuess     Code = "column_guess"
	CodeMissingSeqID    Code = "seqid_column_missing"
	CodeRecordSkipped   Code = "record_skipped"
	CodeRenamed         Code = "identifiers_renamed"
	CodeShortSequence   Code = "short_sequence"
	CodeGapCharacters   Code = "gap_characters"
	CodeNoSpecies       Code = "species_field_missing"
	CodeDatatype        Code = "datatype_ignored"
	CodeHeaderFallback  Code = "header_unparsed"
	CodeTruncatedRecord Code = "record_truncated"
)

// Warning is one diagnostic.
type Warning struct {
	Code    Code   `json:"code" yaml:"code"`
	Message string `json:"message" yaml:"message"`
}

func (w Warning) String() string {
	return w.Message
}

// Warnings is an ordered warning collector. The zero value is ready to use
// and a nil *Warnings discards everything.
type Warnings struct {
	items []Warning
}

// Add records a warning.
func (w *Warnings) Add(code Code, message string) {
	if w == nil {
		return
	}
	w.items = append(w.items, Warning{Code: code, Message: message})
}

// Addf records a formatted warning.
func (w *Warnings) Addf(code Code, format string, args ...any) {
	w.Add(code, fmt.Sprintf(format, args...))
}

// Once records a warning unless one with the same code is already present.
// It reports whether the warning was added.
func (w *Warnings) Once(code Code, message string) bool {
	if w == nil || w.Has(code) {
		return false
	}
	w.Add(code, message)
	return true
}

// Has reports whether a warning with code was recorded.
func (w *Warnings) Has(code Code) bool {
	return w.Count(code) > 0
}

// Count returns the number of warnings with code.
func (w *Warnings) Count(code Code) int {
	if w == nil {
		return 0
	}
	n := 0
	for _, it := range w.items {
		if it.Code == code {
			n++
		}
	}
	return n
}

// Len returns the number of recorded warnings.
func (w *Warnings) Len() int {
	if w == nil {
		return 0
	}
	return len(w.items)
}

// List returns a copy of the recorded warnings in order.
func (w *Warnings) List() []Warning {
	if w == nil {
		return nil
	}
	return append([]Warning(nil), w.items...)
}
