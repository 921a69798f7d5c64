package genbank

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/FocuswithJustin/seqconvert/core/diag"
	serrors "github.com/FocuswithJustin/seqconvert/core/errors"
	"github.com/FocuswithJustin/seqconvert/core/record"
)

const minimal = `LOCUS       AB000001                  12 bp    DNA     linear   INV 01-JAN-2000
DEFINITION  Synthetic test sequence.
ACCESSION   AB000001
FEATURES             Location/Qualifiers
     source          1..12
                     /organism="X"
                     /country="Nowhere: far
                     away"
ORIGIN
        1 acgtacgt
        9 ggcc
//
`

func TestLogicalLines(t *testing.T) {
	src := "\n\nLOCUS  a\nDEFINITION  long\n            value\n  AUTHORS x\n"
	l := NewLines(strings.NewReader(src))
	var got []string
	for {
		line, err := l.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatal(err)
		}
		got = append(got, line)
	}
	want := []string{"LOCUS  a", "DEFINITION  long value", "AUTHORS x"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

func TestMinimalRecord(t *testing.T) {
	w := &diag.Warnings{}
	s := NewScanner(strings.NewReader(minimal), w)

	r, err := s.NextRecord()
	if err != nil {
		t.Fatalf("NextRecord failed: %v", err)
	}
	if r.SeqID() != "Synthetic test sequence." {
		t.Errorf("Expected DEFINITION as seqid, got %q", r.SeqID())
	}
	if r.Sequence() != "acgtacgtggcc" {
		t.Errorf("Expected acgtacgtggcc, got %q", r.Sequence())
	}
	if got := r.Value("organism"); got != "X" {
		t.Errorf("Expected organism X, got %q", got)
	}
	if got := r.Value("country"); got != "Nowhere: far away" {
		t.Errorf("Expected joined country, got %q", got)
	}
	if got := r.Value("locus"); got != "AB000001" {
		t.Errorf("Expected locus AB000001, got %q", got)
	}
	if !r.Has("strain") || r.Value("strain") != "" {
		t.Error("Expected absent optional field to be empty")
	}

	if _, err := s.NextRecord(); err != io.EOF {
		t.Errorf("Expected io.EOF after the only record, got %v", err)
	}
	if w.Len() != 0 {
		t.Errorf("Expected no warnings, got %v", w.List())
	}
}

func TestRecordFieldsMatchFieldList(t *testing.T) {
	s := NewScanner(strings.NewReader(minimal), nil)
	r, err := s.NextRecord()
	if err != nil {
		t.Fatal(err)
	}
	for _, f := range Fields {
		if !r.Has(f) {
			t.Errorf("Expected record to carry field %s", f)
		}
	}
	if len(r.Names()) != len(Fields) {
		t.Errorf("Expected %d fields, got %d", len(Fields), len(r.Names()))
	}
	if Fields.Index(record.FieldSequence) < 0 {
		t.Error("Expected sequence in field list")
	}
}

func TestMissingDefinitionSkipped(t *testing.T) {
	noDef := strings.Replace(minimal, "DEFINITION  Synthetic test sequence.\n", "", 1)
	w := &diag.Warnings{}
	s := NewScanner(strings.NewReader(noDef+minimal), w)

	r, err := s.NextRecord()
	if err != nil {
		t.Fatal(err)
	}
	if r.SeqID() != "Synthetic test sequence." {
		t.Errorf("Expected the second record, got %q", r.SeqID())
	}
	if w.Count(diag.CodeRecordSkipped) != 1 {
		t.Errorf("Expected one skip warning, got %v", w.List())
	}
	if msg := w.List()[0].Message; !strings.Contains(msg, `accession "AB000001"`) {
		t.Errorf("Expected record identified by accession, got %q", msg)
	}
}

func TestTruncatedRecordEndsIteration(t *testing.T) {
	cut := minimal[:strings.Index(minimal, "ORIGIN")]
	s := NewScanner(strings.NewReader(cut), nil)
	if _, err := s.NextRecord(); err != io.EOF {
		t.Errorf("Expected io.EOF for a record without ORIGIN, got %v", err)
	}
}

func TestMissingFeaturesWarns(t *testing.T) {
	src := "LOCUS x\nDEFINITION y\nFEATURES  Location\nORIGIN\n//\n"
	w := &diag.Warnings{}
	s := NewScanner(strings.NewReader(src), w)
	if _, err := s.NextRecord(); err != io.EOF {
		t.Errorf("Expected io.EOF, got %v", err)
	}
	if !w.Has(diag.CodeTruncatedRecord) {
		t.Error("Expected a warning about the missing source feature")
	}
}

func TestNoLocus(t *testing.T) {
	s := NewScanner(strings.NewReader(">not genbank\nACGT\n"), nil)
	if _, err := s.NextRecord(); !errors.Is(err, serrors.ErrMalformedInput) {
		t.Errorf("Expected ErrMalformedInput, got %v", err)
	}
}

func TestIdentifyFallsBackToSequence(t *testing.T) {
	e := &Entry{Metadata: map[string]string{}, Features: map[string]string{}, Sequence: strings.Repeat("a", 30)}
	field, value := e.Identify()
	if field != "sequence" || len(value) != 20 {
		t.Errorf("Expected 20-character sequence prefix, got %s %q", field, value)
	}
}
