package fasta

import (
	"io"

	"github.com/FocuswithJustin/seqconvert/core/diag"
	"github.com/FocuswithJustin/seqconvert/core/formats"
	"github.com/FocuswithJustin/seqconvert/core/record"
	"github.com/FocuswithJustin/seqconvert/core/sequtil"
	"github.com/FocuswithJustin/seqconvert/internal/formats/base"
)

// HapviewHandler writes FASTA for Hapview: aligned sequences whose names
// carry a short per-species code.
type HapviewHandler struct {
	formats.WriteOnly
}

func (HapviewHandler) Descriptor() formats.Descriptor {
	return formats.Descriptor{
		Name:        "fasta_hapview",
		Extensions:  []string{".hapv.fas"},
		Description: "FASTA for Hapview; padded sequences, headers suffixed with a species code",
		CanWrite:    true,
	}
}

// speciesCode returns the code of the i-th species: a..z, aa, ab, ...
func speciesCode(i int) string {
	var b []byte
	for n := i + 1; n > 0; n = (n - 1) / 26 {
		b = append([]byte{byte('a' + (n-1)%26)}, b...)
	}
	return string(b)
}

// Write buffers every record, then emits ">name.code" headers with padded
// sequences.
func (HapviewHandler) Write(dst io.Writer, fields record.FieldList, s *formats.Session) (*formats.WriterHandle, error) {
	namer := s.NameAssembler(fields)
	unique := s.Unicifier(true)
	speciesField, hasSpecies := sequtil.SpeciesField(fields)

	var species *sequtil.Fold[[]string]
	var extra []sequtil.Reducer
	if hasSpecies {
		species = sequtil.Species(speciesField)
		extra = append(extra, species)
	} else {
		s.Warnings.Add(diag.CodeNoSpecies, "No species column found; Hapview headers are written without species codes")
	}

	flush := func(tp *formats.TwoPass) error {
		out := base.NewOutput(dst)
		align := sequtil.Aligner(tp.Stats.Max.Value, tp.Stats.MinOrZero(), s.Warnings)

		codes := map[string]string{}
		if hasSpecies {
			for i, name := range species.Value {
				codes[name] = speciesCode(i)
			}
		}
		for _, r := range tp.Records {
			name := unique.Unique(namer.Name(r))
			if hasSpecies {
				name += "." + codes[r.Value(speciesField)]
			}
			out.Line(">", name)
			out.Line(align(r.Sequence()))
		}
		s.ReportRenames(unique)
		return out.Flush()
	}
	return formats.NewWriterHandle(formats.NewTwoPass(flush, extra...)), nil
}
