package tab

import (
	"errors"
	"strings"
	"testing"

	"github.com/FocuswithJustin/seqconvert/core/diag"
	serrors "github.com/FocuswithJustin/seqconvert/core/errors"
	"github.com/FocuswithJustin/seqconvert/core/formats"
	"github.com/FocuswithJustin/seqconvert/core/record"
)

func readAll(t *testing.T, h formats.Handler, src string) (record.FieldList, []*record.Record, *formats.Session) {
	t.Helper()
	s := formats.NewSession(formats.DefaultOptions())
	fields, recs, err := h.Read(strings.NewReader(src), s)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	all, err := formats.Collect(recs)
	if err != nil {
		t.Fatalf("iteration failed: %v", err)
	}
	return fields, all, s
}

func TestRead(t *testing.T) {
	fields, recs, s := readAll(t, Handler{}, "SeqID\tSpecies\tSequence\na\tHomo sapiens\tACGT\n\nb\tMus\n")
	if strings.Join(fields, ",") != "seqid,species,sequence" {
		t.Errorf("Expected case-folded fields, got %v", fields)
	}
	if len(recs) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(recs))
	}
	if recs[0].Value("species") != "Homo sapiens" || recs[0].Sequence() != "ACGT" {
		t.Errorf("Unexpected first record %v", recs[0].Names())
	}
	if !recs[1].Has("sequence") || recs[1].Sequence() != "" {
		t.Error("Expected short row to get an empty sequence")
	}
	if s.Warnings.Len() != 0 {
		t.Errorf("Expected no warnings, got %v", s.Warnings.List())
	}
}

func TestReadGuessesSequenceColumn(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   string
	}{
		{"single candidate", "seqid\tdna_sequence\tnote", "seqid,sequence,note"},
		{"several candidates", "seqid\tsequence_a\tsequence_b", "seqid,sequence,sequence_b"},
		{"last column", "seqid\tnote\tbases", "seqid,note,sequence"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fields, _, s := readAll(t, Handler{}, tt.header+"\nx\ty\tz\n")
			if got := strings.Join(fields, ","); got != tt.want {
				t.Errorf("Expected %s, got %s", tt.want, got)
			}
			if s.Warnings.Count(diag.CodeColumnGuess) != 1 {
				t.Errorf("Expected one column guess warning, got %v", s.Warnings.List())
			}
		})
	}
}

func TestReadMissingSeqID(t *testing.T) {
	_, recs, s := readAll(t, Handler{}, "name\tsequence\nx\tAC\n")
	if !s.Warnings.Has(diag.CodeMissingSeqID) {
		t.Error("Expected missing seqid warning")
	}
	if len(recs) != 1 {
		t.Errorf("Expected 1 record, got %d", len(recs))
	}
}

func TestReadSingleColumn(t *testing.T) {
	_, _, err := Handler{}.Read(strings.NewReader("sequence\nACGT\n"), formats.NewSession(formats.DefaultOptions()))
	if !errors.Is(err, serrors.ErrMalformedInput) {
		t.Errorf("Expected ErrMalformedInput, got %v", err)
	}
}

func writeAll(t *testing.T, h formats.Handler, fields record.FieldList, rows ...map[string]string) (string, *formats.Session) {
	t.Helper()
	var out strings.Builder
	s := formats.NewSession(formats.DefaultOptions())
	wh, err := h.Write(&out, fields, s)
	if err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if err := wh.Init(); err != nil {
		t.Fatal(err)
	}
	for _, row := range rows {
		r, err := record.New(row)
		if err != nil {
			t.Fatal(err)
		}
		if err := wh.Accept(r); err != nil {
			t.Fatal(err)
		}
	}
	if err := wh.Close(); err != nil {
		t.Fatal(err)
	}
	return out.String(), s
}

func TestWriteUniquifies(t *testing.T) {
	got, s := writeAll(t, Handler{}, record.FieldList{"seqid", "sequence"},
		map[string]string{"seqid": "a", "sequence": "AC"},
		map[string]string{"seqid": "a", "sequence": "GT"},
	)
	want := "seqid\tsequence\na\tAC\na_1\tGT\n"
	if got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
	if !s.Warnings.Has(diag.CodeRenamed) {
		t.Error("Expected rename warning")
	}
}

func TestWriteRequiresSeqID(t *testing.T) {
	_, err := Handler{}.Write(&strings.Builder{}, record.FieldList{"name", "sequence"}, formats.NewSession(formats.DefaultOptions()))
	if !errors.Is(err, serrors.ErrMissingField) {
		t.Errorf("Expected ErrMissingField, got %v", err)
	}
}

func TestNoHeaderRead(t *testing.T) {
	_, recs, _ := readAll(t, NoHeaderHandler{}, "Homo sapiens\tvoucher 1\tACGT\nMus\t\tAC--\n")
	if len(recs) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(recs))
	}
	if recs[0].SeqID() != "Homo_sapiens_voucher_1" || recs[0].Sequence() != "ACGT" {
		t.Errorf("Unexpected record %q %q", recs[0].SeqID(), recs[0].Sequence())
	}
	if recs[1].SeqID() != "Mus" {
		t.Errorf("Expected empty column to be dropped, got %q", recs[1].SeqID())
	}
}

func TestNoHeaderReadSequenceFirst(t *testing.T) {
	_, recs, s := readAll(t, NoHeaderHandler{}, "ACGT\tsample one\nGG\tsample two\n")
	if recs[1].Sequence() != "GG" || recs[1].SeqID() != "sample_two" {
		t.Errorf("Expected first column as sequence, got %q %q", recs[1].Sequence(), recs[1].SeqID())
	}
	if !s.Warnings.Has(diag.CodeColumnGuess) {
		t.Error("Expected column guess warning")
	}
}

func TestNoHeaderWrite(t *testing.T) {
	got, _ := writeAll(t, NoHeaderHandler{}, record.FieldList{"seqid", "sequence"},
		map[string]string{"seqid": "a", "sequence": "AC"},
	)
	if got != "a\tAC\n" {
		t.Errorf("Expected a\\tAC, got %q", got)
	}
}
