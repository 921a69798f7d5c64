package nexus

import (
	"errors"
	"strings"
	"testing"

	"github.com/FocuswithJustin/seqconvert/core/diag"
	seqerrors "github.com/FocuswithJustin/seqconvert/core/errors"
	"github.com/FocuswithJustin/seqconvert/core/formats"
	"github.com/FocuswithJustin/seqconvert/core/record"
)

func read(t *testing.T, src string) ([]*record.Record, *formats.Session, error) {
	t.Helper()
	s := formats.NewSession(formats.DefaultOptions())
	_, recs, err := Handler{}.Read(strings.NewReader(src), s)
	if err != nil {
		return nil, s, err
	}
	all, err := formats.Collect(recs)
	return all, s, err
}

func TestReadSkipsNonSequenceBlocks(t *testing.T) {
	src := `#NEXUS
[ morphology first ]
begin characters;
	dimensions nchar=3;
	format datatype=Standard;
	matrix
		ignored 012
	;
end;
begin data;
	dimensions ntax=2 nchar=4;
	format datatype=DNA missing=? gap=-;
	matrix
		'Homo sapiens' ACGT
		mouse          AC--
	;
end;
`
	recs, s, err := read(t, src)
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(recs))
	}
	if recs[0].SeqID() != "Homo sapiens" || recs[0].Sequence() != "ACGT" {
		t.Errorf("Unexpected first record %v", recs[0])
	}
	if recs[1].SeqID() != "mouse" || recs[1].Sequence() != "AC--" {
		t.Errorf("Unexpected second record %v", recs[1])
	}
	if s.Warnings.Len() != 0 {
		t.Errorf("Expected no warnings, got %v", s.Warnings.List())
	}
}

func TestReadProteinWarns(t *testing.T) {
	src := "#NEXUS\nbegin data;\nformat datatype=protein;\nmatrix\np1 MKV\n;\nend;\n"
	recs, s, err := read(t, src)
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 1 || recs[0].Sequence() != "MKV" {
		t.Errorf("Unexpected records %v", recs)
	}
	if !s.Warnings.Has(diag.CodeDatatype) {
		t.Error("Expected a datatype warning")
	}
}

func TestReadErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"no magic", "begin data;\nend;\n"},
		{"odd matrix", "#NEXUS\nbegin data;\nformat datatype=dna;\nmatrix\na ACGT\nb\n;\nend;\n"},
		{"truncated", "#NEXUS\nbegin data;\nformat datatype=dna;\nmatrix\na ACGT\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := read(t, tt.src)
			if !errors.Is(err, seqerrors.ErrMalformedInput) {
				t.Errorf("Expected ErrMalformedInput, got %v", err)
			}
		})
	}
}

func TestWrite(t *testing.T) {
	var out strings.Builder
	s := formats.NewSession(formats.DefaultOptions())
	wh, err := Handler{}.Write(&out, record.Standard(), s)
	if err != nil {
		t.Fatal(err)
	}
	wh.Init()
	for _, row := range []map[string]string{
		{"seqid": "a", "sequence": "ACGT"},
		{"seqid": "long name", "sequence": "AC"},
		{"seqid": "a", "sequence": "TTTT"},
	} {
		r, _ := record.New(row)
		if err := wh.Accept(r); err != nil {
			t.Fatal(err)
		}
	}
	if err := wh.Close(); err != nil {
		t.Fatal(err)
	}

	want := "#NEXUS\n" +
		"begin data;\n" +
		"\tdimensions ntax=3 nchar=4;\n" +
		"\tformat datatype=DNA missing=N gap=-;\n" +
		"\tmatrix\n" +
		"\ta           ACGT\n" +
		"\t'long name' AC--\n" +
		"\ta_1         TTTT\n" +
		"\t;\n" +
		"end;\n"
	if out.String() != want {
		t.Errorf("Expected\n%s\ngot\n%s", want, out.String())
	}
	if s.Warnings.Count(diag.CodePadded) != 1 {
		t.Errorf("Expected one padding warning, got %v", s.Warnings.List())
	}
	if !s.Warnings.Has(diag.CodeRenamed) {
		t.Error("Expected a rename warning for the duplicate name")
	}
}

func TestRoundTrip(t *testing.T) {
	var out strings.Builder
	s := formats.NewSession(formats.DefaultOptions())
	wh, _ := Handler{}.Write(&out, record.Standard(), s)
	wh.Init()
	r, _ := record.New(map[string]string{"seqid": "it's", "sequence": "ACGT"})
	wh.Accept(r)
	if err := wh.Close(); err != nil {
		t.Fatal(err)
	}

	recs, _, err := read(t, out.String())
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 1 || recs[0].SeqID() != "it's" {
		t.Errorf("Expected the quoted name to survive, got %v", recs)
	}
}
