package sequtil

import (
	"testing"

	"github.com/FocuswithJustin/seqconvert/core/record"
)

func mustRecord(t *testing.T, fields map[string]string) *record.Record {
	t.Helper()
	r, err := record.New(fields)
	if err != nil {
		t.Fatal(err)
	}
	return r
}

func TestSanitize(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Homo sapiens", "Homo_sapiens"},
		{"  a--b  c ", "a_b_c"},
		{"plain", "plain"},
		{"ü-x", "x"},
		{"", ""},
		{"***", ""},
	}
	for _, tt := range tests {
		if got := Sanitize(tt.in); got != tt.want {
			t.Errorf("Sanitize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNameAssemblerSimple(t *testing.T) {
	a := NewNameAssembler(record.FieldList{"seqid", "sequence"})
	if !a.Simple() {
		t.Fatal("Expected simple assembler for seqid+sequence")
	}
	r := mustRecord(t, map[string]string{"seqid": "my id", "sequence": "A"})
	if got := a.Name(r); got != "my id" {
		t.Errorf("Expected seqid unchanged, got %q", got)
	}
}

func TestNameAssemblerComplex(t *testing.T) {
	fields := record.FieldList{"seqid", "species", "locality", "sequence", "notes"}
	a := NewNameAssembler(fields)
	if a.Simple() {
		t.Fatal("Expected complex assembler")
	}
	r := mustRecord(t, map[string]string{
		"seqid":    "ignored",
		"species":  "Mus musculus",
		"locality": "",
		"sequence": "ACGT",
		"notes":    "after sequence",
	})
	if got := a.Name(r); got != "Mus_musculus" {
		t.Errorf("Expected Mus_musculus, got %q", got)
	}

	r.Set("locality", "St. Louis, MO")
	if got := a.Name(r); got != "Mus_musculus_St_Louis_MO" {
		t.Errorf("Expected Mus_musculus_St_Louis_MO, got %q", got)
	}
}

func TestSpeciesField(t *testing.T) {
	if f, ok := SpeciesField(record.FieldList{"seqid", "species", "organism"}); !ok || f != "organism" {
		t.Errorf("Expected organism to take priority, got %q", f)
	}
	if _, ok := SpeciesField(record.FieldList{"seqid", "sequence"}); ok {
		t.Error("Expected no species field")
	}
}

func TestIsNucleotide(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"ACGT", true},
		{"acgu-?nN", true},
		{"", true},
		{"ACGTX", false},
		{"MKLV EE", false},
		{"12", false},
	}
	for _, tt := range tests {
		if got := IsNucleotide(tt.in); got != tt.want {
			t.Errorf("IsNucleotide(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
