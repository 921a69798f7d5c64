package formats

import (
	"errors"
	"io"
	"strings"
	"testing"

	serrors "github.com/FocuswithJustin/seqconvert/core/errors"
	"github.com/FocuswithJustin/seqconvert/core/record"
)

type stubHandler struct {
	ReadOnly
	desc Descriptor
}

func (s stubHandler) Descriptor() Descriptor { return s.desc }

func (s stubHandler) Read(io.Reader, *Session) (record.FieldList, Records, error) {
	return record.Standard(), NewIterator(func() (*record.Record, error) { return nil, io.EOF }), nil
}

func init() {
	Register(stubHandler{ReadOnly{"stub_one"}, Descriptor{Name: "stub_one", Extensions: []string{".stb"}, CanRead: true}})
	Register(stubHandler{ReadOnly{"stub_two"}, Descriptor{Name: "stub_two", Extensions: []string{".rel.stb"}, CanRead: true}})
	Register(stubHandler{ReadOnly{"stub_gz"}, Descriptor{Name: "stub_gz", Extensions: []string{".stq", ".stq.gz", ".gz"}, CanRead: true}})
}

func TestSplitExt(t *testing.T) {
	tests := []struct {
		path    string
		twoPart string
		onePart string
	}{
		{"abc.fas.gb.gz", ".gb.gz", ".gz"},
		{"dir/aln.rel.phy", ".rel.phy", ".phy"},
		{"plain.fas", ".fas", ".fas"},
		{"noext", "", ""},
		{".hidden", "", ""},
		{".hidden.fas", ".fas", ".fas"},
	}
	for _, tt := range tests {
		two, one := SplitExt(tt.path)
		if two != tt.twoPart || one != tt.onePart {
			t.Errorf("SplitExt(%q): expected (%q, %q), got (%q, %q)", tt.path, tt.twoPart, tt.onePart, two, one)
		}
	}
}

func TestForPath(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"x.stb", "stub_one"},
		{"x.rel.stb", "stub_two"},
		{"x.REL.STB", "stub_two"},
		{"x.other.stb", "stub_one"},
		{"x.stq.gz", "stub_gz"},
		{"x.rel.stb.gz", "stub_two"},
		{"x.stb.xz", "stub_one"},
		{"x.unknown.gz", "stub_gz"},
	}
	for _, tt := range tests {
		h, err := ForPath(tt.path)
		if err != nil {
			t.Errorf("ForPath(%q) failed: %v", tt.path, err)
			continue
		}
		if got := h.Descriptor().Name; got != tt.want {
			t.Errorf("ForPath(%q): expected %s, got %s", tt.path, tt.want, got)
		}
	}

	if _, err := ForPath("x.nothing"); !errors.Is(err, serrors.ErrFormatUnknown) {
		t.Errorf("Expected ErrFormatUnknown, got %v", err)
	}
}

func TestLookup(t *testing.T) {
	h, err := Lookup("STUB_ONE")
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if h.Descriptor().Name != "stub_one" {
		t.Errorf("Expected stub_one, got %s", h.Descriptor().Name)
	}
	if _, err := Lookup("nope"); !errors.Is(err, serrors.ErrFormatUnknown) {
		t.Errorf("Expected ErrFormatUnknown, got %v", err)
	}

	h, err = Resolve("", "a.rel.stb")
	if err != nil || h.Descriptor().Name != "stub_two" {
		t.Errorf("Resolve by path: got %v, %v", h, err)
	}
	h, err = Resolve("stub_one", "a.rel.stb")
	if err != nil || h.Descriptor().Name != "stub_one" {
		t.Errorf("Resolve by name should win: got %v, %v", h, err)
	}
	if _, err := Resolve("", ""); err == nil {
		t.Error("Expected error when neither name nor path is given")
	}
}

func TestRegisterDuplicatePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Expected panic on duplicate extension")
		}
	}()
	Register(stubHandler{ReadOnly{"stub_dup"}, Descriptor{Name: "stub_dup", Extensions: []string{".stb"}}})
}

func TestList(t *testing.T) {
	list := List()
	for i := 1; i < len(list); i++ {
		if list[i-1].Descriptor().Name > list[i].Descriptor().Name {
			t.Errorf("List not sorted at %d", i)
		}
	}
}

func TestReadOnlyWrite(t *testing.T) {
	h, _ := Lookup("stub_one")
	_, err := h.Write(io.Discard, record.Standard(), NewSession(DefaultOptions()))
	if !errors.Is(err, serrors.ErrUnsupportedDirection) {
		t.Errorf("Expected ErrUnsupportedDirection, got %v", err)
	}
}

func TestIterator(t *testing.T) {
	seqs := []string{"AC", "GT"}
	i := 0
	it := NewIterator(func() (*record.Record, error) {
		if i == len(seqs) {
			return nil, io.EOF
		}
		r, err := record.New(map[string]string{"seqid": "s", "sequence": seqs[i]})
		i++
		return r, err
	})
	recs, err := Collect(it)
	if err != nil {
		t.Fatalf("Collect failed: %v", err)
	}
	if len(recs) != 2 || recs[1].Sequence() != "GT" {
		t.Errorf("Expected 2 records ending in GT, got %d", len(recs))
	}
	if it.Next() {
		t.Error("Expected exhausted iterator to stay exhausted")
	}
}

func TestIteratorError(t *testing.T) {
	boom := serrors.NewParse("x", 1, "boom")
	it := NewIterator(func() (*record.Record, error) { return nil, boom })
	if it.Next() {
		t.Error("Expected Next to return false")
	}
	if it.Err() != boom {
		t.Errorf("Expected boom, got %v", it.Err())
	}
}

func TestWriterHandleLifecycle(t *testing.T) {
	var out strings.Builder
	h := NewWriterHandle(WriterFuncs{
		BeginFn:  func() error { out.WriteString("["); return nil },
		RecordFn: func(r *record.Record) error { out.WriteString(r.SeqID()); return nil },
		EndFn:    func() error { out.WriteString("]"); return nil },
	})
	r, _ := record.New(map[string]string{"seqid": "a", "sequence": "AC"})

	if err := h.Accept(r); !errors.Is(err, ErrHandleNotReady) {
		t.Errorf("Expected ErrHandleNotReady, got %v", err)
	}
	if err := h.Init(); err != nil {
		t.Fatal(err)
	}
	if err := h.Init(); !errors.Is(err, ErrHandleInitialized) {
		t.Errorf("Expected ErrHandleInitialized, got %v", err)
	}
	if err := h.Accept(r); err != nil {
		t.Fatal(err)
	}
	if h.State() != StateReceiving {
		t.Errorf("Expected receiving, got %s", h.State())
	}
	if err := h.Close(); err != nil {
		t.Fatal(err)
	}
	if err := h.Accept(r); !errors.Is(err, ErrHandleClosed) {
		t.Errorf("Expected ErrHandleClosed, got %v", err)
	}
	if err := h.Close(); !errors.Is(err, ErrHandleClosed) {
		t.Errorf("Expected ErrHandleClosed on second close, got %v", err)
	}
	if out.String() != "[a]" {
		t.Errorf("Expected [a], got %q", out.String())
	}
}

func TestWriterHandleCloseWithoutInit(t *testing.T) {
	var out strings.Builder
	h := NewWriterHandle(WriterFuncs{
		BeginFn: func() error { out.WriteString("head;"); return nil },
		EndFn:   func() error { out.WriteString("tail;"); return nil },
	})
	if err := h.Close(); err != nil {
		t.Fatal(err)
	}
	if out.String() != "head;tail;" {
		t.Errorf("Expected header and trailer, got %q", out.String())
	}
}

func TestTwoPass(t *testing.T) {
	var max, min, count int
	tp := NewTwoPass(func(tp *TwoPass) error {
		max, min, count = tp.Stats.Max.Value, tp.Stats.MinOrZero(), tp.Stats.Count.Value
		return nil
	})
	h := NewWriterHandle(tp)
	h.Init()
	for _, s := range []string{"ACGT", "AC", "ACG"} {
		r, _ := record.New(map[string]string{"seqid": "x", "sequence": s})
		h.Accept(r)
	}
	if err := h.Close(); err != nil {
		t.Fatal(err)
	}
	if max != 4 || min != 2 || count != 3 {
		t.Errorf("Expected (4, 2, 3), got (%d, %d, %d)", max, min, count)
	}
	if len(tp.Records) != 3 {
		t.Errorf("Expected 3 buffered records, got %d", len(tp.Records))
	}
}

func TestSessionNaming(t *testing.T) {
	fields := record.FieldList{"seqid", "species", "sequence"}
	r, _ := record.New(map[string]string{"seqid": "id1", "species": "Homo sapiens", "sequence": "A"})

	on := NewSession(DefaultOptions())
	if got := on.NameAssembler(fields).Name(r); got != "Homo_sapiens" {
		t.Errorf("Expected Homo_sapiens, got %s", got)
	}
	if on.Unicifier(false) == nil {
		t.Error("Expected Unicifier under automatic renaming")
	}

	off := NewSession(Options{})
	if got := off.NameAssembler(fields).Name(r); got != "id1" {
		t.Errorf("Expected id1 with renaming off, got %s", got)
	}
	if off.Unicifier(false) != nil {
		t.Error("Expected no Unicifier with renaming off")
	}
	u := off.Unicifier(true)
	Unique(u, "a")
	Unique(u, "a")
	off.ReportRenames(u)
	if off.Warnings.Len() != 1 {
		t.Errorf("Expected one rename warning, got %d", off.Warnings.Len())
	}
}
