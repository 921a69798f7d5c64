// Package sequtil holds the format-agnostic helpers shared by several
// writers: identifier assembly and sanitizing, uniqueness enforcement,
// whole-stream statistics and gap padding.
//
// Every stateful helper (Unicifier, Aggregator, the function returned by
// Aligner) is scoped to a single conversion and must not be shared between
// concurrent conversions.
package sequtil
