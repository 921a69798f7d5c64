package formats

import (
	"errors"
	"fmt"

	"github.com/FocuswithJustin/seqconvert/core/record"
	"github.com/FocuswithJustin/seqconvert/core/sequtil"
)

// State is the lifecycle state of a WriterHandle.
type State int

const (
	StateCreated State = iota
	StateInitialized
	StateReceiving
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateInitialized:
		return "initialized"
	case StateReceiving:
		return "receiving"
	case StateClosed:
		return "closed"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Usage errors of a WriterHandle.
var (
	ErrHandleClosed      = errors.New("writer handle is closed")
	ErrHandleNotReady    = errors.New("writer handle is not initialized")
	ErrHandleInitialized = errors.New("writer handle is already initialized")
)

// RecordWriter is the format-specific part of a writer.
type RecordWriter interface {
	// Begin emits the header, if any.
	Begin() error
	// WriteRecord consumes one record.
	WriteRecord(r *record.Record) error
	// End flushes buffered output and emits the trailer, if any.
	End() error
}

// WriterHandle drives a RecordWriter through its lifecycle.
type WriterHandle struct {
	state State
	w     RecordWriter
}

// NewWriterHandle returns a handle in the Created state.
func NewWriterHandle(w RecordWriter) *WriterHandle {
	return &WriterHandle{w: w}
}

// State returns the current state.
func (h *WriterHandle) State() State { return h.state }

// Init moves the handle to Initialized, emitting the header.
func (h *WriterHandle) Init() error {
	switch h.state {
	case StateClosed:
		return ErrHandleClosed
	case StateInitialized, StateReceiving:
		return ErrHandleInitialized
	}
	if err := h.w.Begin(); err != nil {
		return err
	}
	h.state = StateInitialized
	return nil
}

// Accept hands one record to the writer.
func (h *WriterHandle) Accept(r *record.Record) error {
	switch h.state {
	case StateClosed:
		return ErrHandleClosed
	case StateCreated:
		return ErrHandleNotReady
	}
	h.state = StateReceiving
	return h.w.WriteRecord(r)
}

// Close finalizes the output. A handle that was never initialized is
// initialized first so that header and trailer are both written.
func (h *WriterHandle) Close() error {
	if h.state == StateClosed {
		return ErrHandleClosed
	}
	if h.state == StateCreated {
		if err := h.Init(); err != nil {
			h.state = StateClosed
			return err
		}
	}
	h.state = StateClosed
	return h.w.End()
}

// WriterFuncs builds a RecordWriter from functions; nil functions are no-ops.
type WriterFuncs struct {
	BeginFn  func() error
	RecordFn func(r *record.Record) error
	EndFn    func() error
}

func (f WriterFuncs) Begin() error {
	if f.BeginFn == nil {
		return nil
	}
	return f.BeginFn()
}

func (f WriterFuncs) WriteRecord(r *record.Record) error {
	if f.RecordFn == nil {
		return nil
	}
	return f.RecordFn(r)
}

func (f WriterFuncs) End() error {
	if f.EndFn == nil {
		return nil
	}
	return f.EndFn()
}

// TwoPass buffers every record and the length statistics of the stream and
// hands them to a flush function on End.
type TwoPass struct {
	Records []*record.Record
	Stats   *sequtil.LengthStats
	flush   func(tp *TwoPass) error
}

// NewTwoPass returns a buffering RecordWriter. Extra reducers are fed every
// record alongside the length statistics.
func NewTwoPass(flush func(tp *TwoPass) error, extra ...sequtil.Reducer) *TwoPass {
	return &TwoPass{Stats: sequtil.NewLengthStats(extra...), flush: flush}
}

func (tp *TwoPass) Begin() error { return nil }

func (tp *TwoPass) WriteRecord(r *record.Record) error {
	tp.Stats.Send(r)
	tp.Records = append(tp.Records, r)
	return nil
}

func (tp *TwoPass) End() error {
	return tp.flush(tp)
}
