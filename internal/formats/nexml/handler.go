// Package nexml provides NeXML documents with DNA sequence matrices.
package nexml

import (
	"fmt"
	"io"
	"strings"

	"github.com/FocuswithJustin/seqconvert/core/errors"
	"github.com/FocuswithJustin/seqconvert/core/formats"
	"github.com/FocuswithJustin/seqconvert/core/record"
	"github.com/FocuswithJustin/seqconvert/core/xml"
)

const (
	Namespace    = "http://www.nexml.org/2009"
	XSINamespace = "http://www.w3.org/2001/XMLSchema-instance"
	Version      = "0.9"
)

var (
	otuExpr = xml.MustCompile("//otus/otu")
	rowExpr = xml.MustCompile("//characters/matrix/row")
	seqExpr = xml.MustCompile("seq")
)

// Handler reads and writes NeXML.
type Handler struct{}

func (Handler) Descriptor() formats.Descriptor {
	return formats.Descriptor{
		Name:        "nexml",
		Extensions:  []string{".xml"},
		Description: "NeXML with one DnaSeqs character block",
		CanRead:     true,
		CanWrite:    true,
	}
}

// Register registers this format.
func Register() {
	formats.Register(Handler{})
}

func init() {
	Register()
}

// Read loads the whole document and yields one record per matrix row that
// carries a seq element. The seqid is the label of the row's otu, falling
// back to the otu id.
func (Handler) Read(src io.Reader, s *formats.Session) (record.FieldList, formats.Records, error) {
	doc, err := xml.Parse(src)
	if err != nil {
		return nil, nil, &errors.ParseError{Format: "nexml", Message: "invalid XML", Err: err}
	}

	labels := make(map[string]string)
	for _, otu := range doc.Select(otuExpr) {
		label := otu.Attr("label")
		if label == "" {
			label = otu.Attr("id")
		}
		labels[otu.Attr("id")] = label
	}

	rows := doc.Select(rowExpr)
	i := 0
	return record.Standard(), formats.NewIterator(func() (*record.Record, error) {
		for i < len(rows) {
			row := rows[i]
			i++
			seq := row.SelectFirst(seqExpr)
			if seq == nil {
				continue
			}
			name, ok := labels[row.Attr("otu")]
			if !ok {
				name = row.Attr("otu")
			}
			return record.New(map[string]string{
				record.FieldSeqID:    name,
				record.FieldSequence: strings.Join(strings.Fields(seq.Text()), ""),
			})
		}
		return nil, io.EOF
	}), nil
}

// Write builds the document in memory and serializes it on close.
func (Handler) Write(dst io.Writer, fields record.FieldList, s *formats.Session) (*formats.WriterHandle, error) {
	namer := s.NameAssembler(fields)
	unique := s.Unicifier(false)

	doc := xml.NewDocument()
	root := doc.Element("nex:nexml",
		xml.Attr{Name: "xmlns", Value: Namespace},
		xml.Attr{Name: "xmlns:nex", Value: Namespace},
		xml.Attr{Name: "xmlns:xsi", Value: XSINamespace},
		xml.Attr{Name: "version", Value: Version},
		xml.Attr{Name: "generator", Value: "seqconvert"},
	)
	otus := root.Element("otus", xml.Attr{Name: "id", Value: "otus1"})
	chars := root.Element("characters",
		xml.Attr{Name: "id", Value: "characters1"},
		xml.Attr{Name: "otus", Value: "otus1"},
		xml.Attr{Name: "xsi:type", Value: "nex:DnaSeqs"},
	)
	chars.Element("format")
	matrix := chars.Element("matrix")

	n := 0
	return formats.NewWriterHandle(formats.WriterFuncs{
		RecordFn: func(r *record.Record) error {
			n++
			otu := fmt.Sprintf("otu%d", n)
			otus.Element("otu",
				xml.Attr{Name: "id", Value: otu},
				xml.Attr{Name: "label", Value: formats.Unique(unique, namer.Name(r))},
			)
			row := matrix.Element("row",
				xml.Attr{Name: "id", Value: fmt.Sprintf("row%d", n)},
				xml.Attr{Name: "otu", Value: otu},
			)
			row.Element("seq").SetText(r.Sequence())
			return nil
		},
		EndFn: func() error {
			s.ReportRenames(unique)
			return doc.Write(dst, xml.FormatOptions{})
		},
	}), nil
}
