package sequtil

import (
	"unicode/utf8"

	"github.com/FocuswithJustin/seqconvert/core/record"
)

// Reducer folds one record into an accumulated value.
type Reducer interface {
	Reduce(r *record.Record)
}

// Fold is a Reducer built from an initial value and a pure step function.
type Fold[T any] struct {
	Value T
	Step  func(acc T, r *record.Record) T
}

// NewFold returns a Fold starting at initial.
func NewFold[T any](initial T, step func(T, *record.Record) T) *Fold[T] {
	return &Fold[T]{Value: initial, Step: step}
}

func (f *Fold[T]) Reduce(r *record.Record) {
	f.Value = f.Step(f.Value, r)
}

// Aggregator feeds every record of a stream to a set of reducers.
type Aggregator struct {
	reducers []Reducer
}

// NewAggregator returns an Aggregator over the given reducers.
func NewAggregator(reducers ...Reducer) *Aggregator {
	return &Aggregator{reducers: reducers}
}

// Send folds r into every reducer.
func (a *Aggregator) Send(r *record.Record) {
	for _, red := range a.reducers {
		red.Reduce(r)
	}
}

// SequenceLength returns the length of a record's sequence in characters.
func SequenceLength(r *record.Record) int {
	return utf8.RuneCountInString(r.Sequence())
}

// MaxLength tracks the longest sequence.
func MaxLength() *Fold[int] {
	return NewFold(0, func(acc int, r *record.Record) int {
		return max(acc, SequenceLength(r))
	})
}

// MinLength tracks the shortest sequence; it stays -1 until a record is seen.
func MinLength() *Fold[int] {
	return NewFold(-1, func(acc int, r *record.Record) int {
		l := SequenceLength(r)
		if acc < 0 {
			return l
		}
		return min(acc, l)
	})
}

// Species collects the distinct values of field in first-seen order.
func Species(field string) *Fold[[]string] {
	seen := make(map[string]struct{})
	return NewFold([]string(nil), func(acc []string, r *record.Record) []string {
		v := r.Value(field)
		if _, ok := seen[v]; ok {
			return acc
		}
		seen[v] = struct{}{}
		return append(acc, v)
	})
}

// LengthStats is the aggregator used by every two-pass writer.
type LengthStats struct {
	*Aggregator
	Max   *Fold[int]
	Min   *Fold[int]
	Count *Fold[int]
}

// NewLengthStats returns an aggregator tracking maximum and minimum sequence
// length and the record count, plus any extra reducers.
func NewLengthStats(extra ...Reducer) *LengthStats {
	s := &LengthStats{
		Max:   MaxLength(),
		Min:   MinLength(),
		Count: NewFold(0, func(acc int, _ *record.Record) int { return acc + 1 }),
	}
	s.Aggregator = NewAggregator(append([]Reducer{s.Max, s.Min, s.Count}, extra...)...)
	return s
}

// MinOrZero returns the minimum length, or 0 when no record was seen.
func (s *LengthStats) MinOrZero() int {
	return max(s.Min.Value, 0)
}
