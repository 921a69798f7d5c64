package fasta

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/FocuswithJustin/seqconvert/core/diag"
	"github.com/FocuswithJustin/seqconvert/core/formats"
	"github.com/FocuswithJustin/seqconvert/core/record"
	"github.com/FocuswithJustin/seqconvert/core/sequtil"
	"github.com/FocuswithJustin/seqconvert/internal/formats/base"
)

// MinSubmissionLength is the shortest sequence GenBank accepts without
// special justification.
const MinSubmissionLength = 200

// gbModifiers are the source modifiers read from and written to headers,
// in output order.
var gbModifiers = []string{"organism", "specimen_voucher", "strain", "isolate", "country", "mol_type"}

// gbFields is the field list of records read from Genbank-export FASTA.
var gbFields = record.FieldList{
	"seqid", "organism", "specimen_voucher", "strain", "isolate", "country", "mol_type", "sequence",
}

// countryFields are consulted in order when writing the country modifier.
var countryFields = []string{"country", "geo_loc_name", "locality"}

// gbHeader is the participle grammar of a header line without its '>':
// an identifier followed by "[key=value]" modifiers and free text.
//
//nolint:govet // participle grammar tags are not standard struct tags
type gbHeader struct {
	ID        string   `@Word`
	Modifiers []string `( @Modifier | Word | Stray )*`
}

var gbLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Modifier", Pattern: `\[[^\[\]=]+=[^\[\]]*\]`},
	{Name: "Word", Pattern: `[^\s\[\]]+`},
	{Name: "Stray", Pattern: `[\[\]]`},
	{Name: "Whitespace", Pattern: `\s+`},
})

var gbParser = participle.MustBuild[gbHeader](
	participle.Lexer(gbLexer),
	participle.Elide("Whitespace"),
)

// parseGBHeader returns the identifier and the modifiers of a header keyed
// by lowercased name. The first occurrence of a modifier wins.
func parseGBHeader(header string) (string, map[string]string, error) {
	parsed, err := gbParser.ParseString("", header)
	if err != nil {
		return "", nil, err
	}
	mods := make(map[string]string, len(parsed.Modifiers))
	for _, m := range parsed.Modifiers {
		key, value, _ := strings.Cut(m[1:len(m)-1], "=")
		key = strings.ToLower(strings.TrimSpace(key))
		if _, seen := mods[key]; !seen {
			mods[key] = strings.TrimSpace(value)
		}
	}
	return parsed.ID, mods, nil
}

// GBExportHandler reads and writes FASTA with GenBank source modifiers in
// the header, as produced by and submitted to GenBank.
type GBExportHandler struct{}

func (GBExportHandler) Descriptor() formats.Descriptor {
	return formats.Descriptor{
		Name:        "fasta_gbexport",
		Extensions:  []string{".gb.fas"},
		Description: "FASTA with GenBank source modifiers: >id [organism=...] [country=...]",
		CanRead:     true,
		CanWrite:    true,
	}
}

func (GBExportHandler) Read(src io.Reader, s *formats.Session) (record.FieldList, formats.Records, error) {
	sc := newScanner(src, "fasta_gbexport", nil)
	next := func() (*record.Record, error) {
		e, err := sc.next()
		if err != nil {
			return nil, err
		}
		values := map[string]string{record.FieldSequence: e.sequence}
		id, mods, err := parseGBHeader(e.header)
		if err != nil {
			s.Warnings.Add(diag.CodeHeaderFallback, fmt.Sprintf("Header %q has no recognizable modifiers; it is kept as the identifier", e.header))
			id, mods = e.header, nil
		}
		values[record.FieldSeqID] = id
		for _, f := range gbModifiers {
			values[f] = mods[f]
		}
		if values["country"] == "" {
			values["country"] = mods["geo_loc_name"]
		}
		return record.New(values)
	}
	return gbFields.Clone(), formats.NewIterator(next), nil
}

// Write emits ">seqid [key=value]..." headers. The organism comes from the
// organism field or the first recognized species field; the country from
// the country, geo_loc_name or locality field.
func (GBExportHandler) Write(dst io.Writer, fields record.FieldList, s *formats.Session) (*formats.WriterHandle, error) {
	out := base.NewOutput(dst)
	unique := s.Unicifier(false)

	organism := ""
	if fields.Contains("organism") {
		organism = "organism"
	} else if f, ok := sequtil.SpeciesField(fields); ok {
		organism = f
	}

	return formats.NewWriterHandle(formats.WriterFuncs{
		RecordFn: func(r *record.Record) error {
			values := map[string]string{}
			for _, f := range gbModifiers {
				values[f] = r.Value(f)
			}
			if organism != "" {
				values["organism"] = r.Value(organism)
			}
			for _, f := range countryFields {
				if v := r.Value(f); v != "" {
					values["country"] = v
					break
				}
			}

			var header strings.Builder
			header.WriteString(formats.Unique(unique, r.SeqID()))
			for _, f := range gbModifiers {
				if v := values[f]; v != "" {
					fmt.Fprintf(&header, " [%s=%s]", f, v)
				}
			}

			seq := r.Sequence()
			if utf8.RuneCountInString(seq) < MinSubmissionLength {
				s.Warnings.Once(diag.CodeShortSequence, fmt.Sprintf("Some sequences are shorter than %d characters; GenBank may not accept them", MinSubmissionLength))
			}
			if strings.Contains(seq, "-") {
				s.Warnings.Once(diag.CodeGapCharacters, "Some sequences contain gap characters '-'; GenBank submissions should not contain gaps")
			}

			out.Line(">", header.String())
			out.Line(seq)
			return out.Err()
		},
		EndFn: func() error {
			s.ReportRenames(unique)
			return out.Flush()
		},
	}), nil
}
