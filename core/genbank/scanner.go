package genbank

import (
	"io"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"

	"github.com/FocuswithJustin/seqconvert/core/diag"
	"github.com/FocuswithJustin/seqconvert/core/errors"
)

const formatName = "genbank"

var (
	qualifierRe = regexp.MustCompile(`/([^=]*)="([^"]*)"`)
	productRe   = regexp.MustCompile(`/product="([^"]*)"`)
)

// Entry is one segmented flatfile record before field mapping.
type Entry struct {
	// Metadata holds the top-level fields between LOCUS and FEATURES, keyed
	// by case-folded field name. The first occurrence of a field wins.
	Metadata map[string]string
	// Features holds the qualifiers of the source feature plus the first
	// /product qualifier of the record.
	Features map[string]string
	Sequence string
	// Line is the physical line of the LOCUS line.
	Line int
}

// Scanner segments a flatfile into entries.
type Scanner struct {
	lines    *Lines
	warnings *diag.Warnings
	fold     cases.Caser
	locus    bool
}

// NewScanner returns a scanner reporting recoverable problems to w.
func NewScanner(r io.Reader, w *diag.Warnings) *Scanner {
	return &Scanner{lines: NewLines(r), warnings: w, fold: cases.Fold()}
}

// find advances to the next logical line starting with prefix.
func (s *Scanner) find(prefix string) (string, error) {
	for {
		line, err := s.lines.Next()
		if err != nil {
			return "", err
		}
		if strings.HasPrefix(line, prefix) {
			return line, nil
		}
	}
}

// Next returns the next entry, or io.EOF. An input without any LOCUS line
// fails with a MalformedInput error; a record cut short by the end of the
// input ends iteration.
func (s *Scanner) Next() (*Entry, error) {
	e, err := s.next()
	if err == io.EOF && !s.locus {
		return nil, errors.NewParse(formatName, s.lines.Line(), "no LOCUS line found")
	}
	return e, err
}

func (s *Scanner) next() (*Entry, error) {
	line, err := s.find("LOCUS")
	if err != nil {
		return nil, err
	}
	s.locus = true
	e := &Entry{Metadata: map[string]string{}, Features: map[string]string{}, Line: s.lines.Line()}

	for !strings.HasPrefix(line, "FEATURES") {
		field, value := splitField(line)
		field = s.fold.String(field)
		if _, seen := e.Metadata[field]; !seen {
			e.Metadata[field] = value
		}
		if line, err = s.lines.Next(); err != nil {
			return nil, err
		}
	}

	line, err = s.find("source")
	if err == io.EOF {
		s.warnings.Add(diag.CodeTruncatedRecord, "A record in the Genbank file is missing a FEATURES field. Further parsing is impossible.")
	}
	if err != nil {
		return nil, err
	}
	for _, m := range qualifierRe.FindAllStringSubmatch(line, -1) {
		key := s.fold.String(m[1])
		if _, seen := e.Features[key]; !seen {
			e.Features[key] = m[2]
		}
	}
	for !strings.HasPrefix(line, "ORIGIN") {
		if _, found := e.Features["product"]; !found {
			if m := productRe.FindStringSubmatch(line); m != nil {
				e.Features["product"] = m[1]
			}
		}
		if line, err = s.lines.Next(); err != nil {
			return nil, err
		}
	}

	e.Sequence, err = s.sequence()
	if err != nil {
		return nil, err
	}
	return e, nil
}

// sequence concatenates the sequence tokens after ORIGIN up to `//`,
// ignoring the position numbers.
func (s *Scanner) sequence() (string, error) {
	var b strings.Builder
	for {
		line, err := s.lines.Next()
		if err != nil {
			return "", err
		}
		for _, word := range strings.Fields(line) {
			if isDigits(word) {
				continue
			}
			if strings.HasSuffix(word, "//") {
				b.WriteString(strings.TrimSuffix(word, "//"))
				return b.String(), nil
			}
			b.WriteString(word)
		}
		if strings.HasPrefix(line, "//") {
			return b.String(), nil
		}
	}
}

func splitField(line string) (field, value string) {
	i := strings.IndexFunc(line, unicode.IsSpace)
	if i < 0 {
		return line, ""
	}
	return line[:i], strings.TrimSpace(line[i:])
}

func isDigits(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return s != ""
}
