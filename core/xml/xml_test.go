package xml

import (
	"strings"
	"testing"
)

var (
	rowExpr = MustCompile("//row")
	seqExpr = MustCompile("seq")
)

func TestParseAndSelect(t *testing.T) {
	src := `<?xml version="1.0"?>
<nex:nexml xmlns:nex="http://www.nexml.org/2009">
  <matrix>
    <row otu="o1"><seq>ACGT</seq></row>
    <row otu="o2"><seq>AC</seq></row>
  </matrix>
</nex:nexml>`
	doc, err := Parse(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if doc.Root().Name() != "nexml" {
		t.Errorf("Expected root nexml, got %s", doc.Root().Name())
	}
	rows := doc.Select(rowExpr)
	if len(rows) != 2 {
		t.Fatalf("Expected 2 rows, got %d", len(rows))
	}
	if rows[1].Attr("otu") != "o2" {
		t.Errorf("Expected otu o2, got %q", rows[1].Attr("otu"))
	}
	if seq := rows[0].SelectFirst(seqExpr); seq == nil || seq.Text() != "ACGT" {
		t.Errorf("Expected seq ACGT, got %v", seq)
	}
	if rows[0].SelectFirst(MustCompile("missing")) != nil {
		t.Error("Expected nil for missing child")
	}
}

func TestParseMalformed(t *testing.T) {
	if _, err := Parse(strings.NewReader("<a><b></a>")); err == nil {
		t.Error("Expected error for malformed XML")
	}
}

func TestBuildAndWrite(t *testing.T) {
	doc := NewDocument()
	root := doc.Element("nex:nexml",
		Attr{"xmlns:nex", "http://www.nexml.org/2009"},
		Attr{"version", "0.9"},
	)
	otus := root.Element("otus", Attr{"id", "taxa1"})
	otus.Element("otu", Attr{"id", "t1"}, Attr{"label", `A "quoted" <name>`})
	root.Element("seq").SetText("AC&GT")

	var out strings.Builder
	if err := doc.Write(&out, FormatOptions{}); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	want := `<?xml version="1.0" encoding="UTF-8"?>
<nex:nexml xmlns:nex="http://www.nexml.org/2009" version="0.9">
  <otus id="taxa1">
    <otu id="t1" label="A &quot;quoted&quot; &lt;name&gt;"/>
  </otus>
  <seq>AC&amp;GT</seq>
</nex:nexml>
`
	if out.String() != want {
		t.Errorf("Unexpected output:\n%s\nwant:\n%s", out.String(), want)
	}

	reparsed, err := Parse(strings.NewReader(out.String()))
	if err != nil {
		t.Fatalf("Reparse failed: %v", err)
	}
	if got := reparsed.Select(MustCompile("//otu"))[0].Attr("label"); got != `A "quoted" <name>` {
		t.Errorf("Expected label round trip, got %q", got)
	}
}
