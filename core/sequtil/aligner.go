package sequtil

import (
	"strings"
	"unicode/utf8"

	"github.com/FocuswithJustin/seqconvert/core/diag"
)

// PaddingWarning is reported the first time a sequence is padded.
const PaddingWarning = "The requested output format requires all sequences to be of equal length " +
	"which is not the case in your input file. Probably your sequences are unaligned. " +
	"To complete the conversion, dash-signs have been added at the end of the shorter sequences " +
	"to adjust their length, but this may impede proper analysis - please check."

// Gap is the gap character used for padding.
const Gap = '-'

// Aligner returns a function bringing sequences to maxLen by appending gaps.
// When maxLen equals minLen the identity function is returned. Otherwise the
// first sequence that actually needs padding records one warning in w.
func Aligner(maxLen, minLen int, w *diag.Warnings) func(string) string {
	if maxLen == minLen {
		return func(s string) string { return s }
	}
	return func(s string) string {
		n := utf8.RuneCountInString(s)
		if n >= maxLen {
			return s
		}
		w.Once(diag.CodePadded, PaddingWarning)
		return s + strings.Repeat(string(Gap), maxLen-n)
	}
}
