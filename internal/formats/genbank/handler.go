// Package genbank provides the read-only GenBank flat file format.
package genbank

import (
	"io"

	"github.com/FocuswithJustin/seqconvert/core/formats"
	"github.com/FocuswithJustin/seqconvert/core/genbank"
	"github.com/FocuswithJustin/seqconvert/core/record"
)

// Handler reads GenBank flat files.
type Handler struct {
	formats.ReadOnly
}

func (Handler) Descriptor() formats.Descriptor {
	return formats.Descriptor{
		Name:        "genbank",
		Extensions:  []string{".gb", ".gbk"},
		Description: "GenBank flat file; records without a definition are skipped",
		CanRead:     true,
	}
}

// Register registers this format.
func Register() {
	formats.Register(Handler{formats.ReadOnly{Format: "genbank"}})
}

func init() {
	Register()
}

func (Handler) Read(src io.Reader, s *formats.Session) (record.FieldList, formats.Records, error) {
	sc := genbank.NewScanner(src, s.Warnings)
	return genbank.Fields.Clone(), formats.NewIterator(sc.NextRecord), nil
}
