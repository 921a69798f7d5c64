package sequtil

import (
	"strings"
	"testing"

	"github.com/FocuswithJustin/seqconvert/core/diag"
	"github.com/FocuswithJustin/seqconvert/core/record"
)

func TestLengthStats(t *testing.T) {
	s := NewLengthStats()
	if s.MinOrZero() != 0 || s.Max.Value != 0 {
		t.Fatal("Expected zero stats before any record")
	}
	for _, seq := range []string{"ACGT", "A", "ACGTACGT"} {
		s.Send(mustRecord(t, map[string]string{"seqid": "x", "sequence": seq}))
	}
	if s.Max.Value != 8 || s.Min.Value != 1 || s.Count.Value != 3 {
		t.Errorf("unexpected stats max=%d min=%d count=%d", s.Max.Value, s.Min.Value, s.Count.Value)
	}
}

func TestAggregatorCustomFold(t *testing.T) {
	sp := Species("species")
	total := NewFold(0, func(acc int, r *record.Record) int { return acc + len(r.Sequence()) })
	a := NewAggregator(sp, total)
	for _, f := range []map[string]string{
		{"species": "b", "sequence": "AA"},
		{"species": "a", "sequence": "A"},
		{"species": "b", "sequence": "AAA"},
	} {
		a.Send(mustRecord(t, f))
	}
	if strings.Join(sp.Value, ",") != "b,a" {
		t.Errorf("Expected species in first-seen order, got %v", sp.Value)
	}
	if total.Value != 6 {
		t.Errorf("Expected total length 6, got %d", total.Value)
	}
}

func TestAlignerEqualLengths(t *testing.T) {
	var w diag.Warnings
	align := Aligner(4, 4, &w)
	for _, s := range []string{"ACGT", "TTTT"} {
		if got := align(s); got != s {
			t.Errorf("Expected %q unchanged, got %q", s, got)
		}
	}
	if w.Len() != 0 {
		t.Errorf("Expected no warnings, got %v", w.List())
	}
}

func TestAlignerPads(t *testing.T) {
	var w diag.Warnings
	align := Aligner(6, 2, &w)
	for _, s := range []string{"AC", "ACG", "ACGTAC", "A"} {
		got := align(s)
		if len(got) != 6 {
			t.Errorf("Expected length 6 for %q, got %q", s, got)
		}
		if !strings.HasPrefix(got, s) {
			t.Errorf("Expected %q to keep its prefix, got %q", s, got)
		}
	}
	if got := align("AC"); got != "AC----" {
		t.Errorf("Expected AC----, got %q", got)
	}
	if w.Count(diag.CodePadded) != 1 || w.Len() != 1 {
		t.Errorf("Expected exactly one padding warning, got %v", w.List())
	}
}
