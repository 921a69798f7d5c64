// Package genbank reads Genbank flatfiles: it rebuilds logical lines from the
// fixed-column layout and segments them into records.
package genbank

import (
	"bufio"
	"io"
	"strings"
	"unicode"
)

// continuationWidth is the indentation that marks a wrapped value.
const continuationWidth = 12

// Lines yields logical lines: a physical line whose first twelve characters
// are all whitespace continues the previous logical line and is joined to
// it with a single space. Logical lines are trimmed.
type Lines struct {
	r       *bufio.Reader
	current string
	started bool
	done    bool
	line    int
}

// NewLines returns a logical line reader over r.
func NewLines(r io.Reader) *Lines {
	return &Lines{r: bufio.NewReader(r)}
}

// Line returns the number of physical lines consumed so far.
func (l *Lines) Line() int { return l.line }

func (l *Lines) physical() (string, error) {
	s, err := l.r.ReadString('\n')
	if err == io.EOF && s != "" {
		err = nil
	}
	if err == nil {
		l.line++
	}
	return s, err
}

func isContinuation(s string) bool {
	if s == "" {
		return false
	}
	n := 0
	for _, c := range s {
		if n == continuationWidth {
			break
		}
		if !unicode.IsSpace(c) {
			return false
		}
		n++
	}
	return true
}

// Next returns the next logical line, or io.EOF.
func (l *Lines) Next() (string, error) {
	if l.done {
		return "", io.EOF
	}
	if !l.started {
		l.started = true
		for {
			s, err := l.physical()
			if err != nil {
				l.done = true
				return "", err
			}
			if t := strings.TrimSpace(s); t != "" {
				l.current = t
				break
			}
		}
	}
	for {
		s, err := l.physical()
		if err == io.EOF {
			l.done = true
			return l.current, nil
		}
		if err != nil {
			l.done = true
			return "", err
		}
		if isContinuation(s) {
			if t := strings.TrimSpace(s); t != "" {
				l.current += " " + t
			}
			continue
		}
		out := l.current
		l.current = strings.TrimSpace(s)
		return out, nil
	}
}
