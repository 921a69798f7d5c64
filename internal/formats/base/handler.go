// Package base provides the line-oriented plumbing shared by the format
// handlers: a line reader with push-back and a buffered output with a
// sticky error.
package base

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// LineReader reads lines without their terminators ("\n" or "\r\n").
type LineReader struct {
	r      *bufio.Reader
	line   int
	pushed []string
}

// NewLineReader returns a LineReader over r.
func NewLineReader(r io.Reader) *LineReader {
	return &LineReader{r: bufio.NewReader(r)}
}

// Next returns the next line, or io.EOF once r is exhausted. A final line
// without terminator is still returned.
func (l *LineReader) Next() (string, error) {
	if n := len(l.pushed); n > 0 {
		s := l.pushed[n-1]
		l.pushed = l.pushed[:n-1]
		l.line++
		return s, nil
	}
	s, err := l.r.ReadString('\n')
	if err == io.EOF && s == "" {
		return "", io.EOF
	}
	if err != nil && err != io.EOF {
		return "", err
	}
	l.line++
	s = strings.TrimSuffix(s, "\n")
	s = strings.TrimSuffix(s, "\r")
	return s, nil
}

// NextNonBlank skips blank lines.
func (l *LineReader) NextNonBlank() (string, error) {
	for {
		s, err := l.Next()
		if err != nil || !IsBlank(s) {
			return s, err
		}
	}
}

// Unread pushes s back so that the following Next returns it.
func (l *LineReader) Unread(s string) {
	l.pushed = append(l.pushed, s)
	l.line--
}

// Line returns the number of the line last returned by Next.
func (l *LineReader) Line() int { return l.line }

// IsBlank reports whether s holds only whitespace.
func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// Output buffers writes and remembers the first error, so writers can emit
// a sequence of lines and check once.
type Output struct {
	w   *bufio.Writer
	err error
}

// NewOutput returns an Output writing to w.
func NewOutput(w io.Writer) *Output {
	return &Output{w: bufio.NewWriter(w)}
}

// WriteString writes s unless an earlier write failed.
func (o *Output) WriteString(s string) {
	if o.err != nil {
		return
	}
	_, o.err = o.w.WriteString(s)
}

// Line writes the parts followed by a newline.
func (o *Output) Line(parts ...string) {
	for _, p := range parts {
		o.WriteString(p)
	}
	o.WriteString("\n")
}

// Printf writes formatted text.
func (o *Output) Printf(format string, args ...any) {
	o.WriteString(fmt.Sprintf(format, args...))
}

// Err returns the first write error.
func (o *Output) Err() error { return o.err }

// Flush writes out buffered data and returns the first error seen.
func (o *Output) Flush() error {
	if o.err != nil {
		return o.err
	}
	o.err = o.w.Flush()
	return o.err
}
