// Package nexus splits Nexus input into tokens and `;`-terminated commands.
package nexus

import (
	"bufio"
	"io"
	"strings"
	"unicode"

	"github.com/FocuswithJustin/seqconvert/core/errors"
)

// Magic is the marker every Nexus file starts with. It is compared
// case-insensitively.
const Magic = "#NEXUS"

const formatName = "nexus"

// Token is one lexical unit. Quoted tokens never act as punctuation.
type Token struct {
	Text   string
	Quoted bool
}

// Is reports whether t is the unquoted token s.
func (t Token) Is(s string) bool {
	return !t.Quoted && t.Text == s
}

// Tokenizer reads tokens from a Nexus stream.
type Tokenizer struct {
	r    *bufio.Reader
	line int
}

// NewTokenizer validates the magic marker and returns a tokenizer positioned
// right after it.
func NewTokenizer(r io.Reader) (*Tokenizer, error) {
	br := bufio.NewReader(r)
	head := make([]byte, len(Magic))
	if _, err := io.ReadFull(br, head); err != nil || !strings.EqualFold(string(head), Magic) {
		return nil, errors.NewParse(formatName, 1, "the input is not a nexus file")
	}
	return &Tokenizer{r: br, line: 1}, nil
}

// Line returns the current 1-based line number.
func (t *Tokenizer) Line() int { return t.line }

func (t *Tokenizer) read() (rune, error) {
	c, _, err := t.r.ReadRune()
	if err == nil && c == '\n' {
		t.line++
	}
	return c, err
}

func isSpecial(c rune) bool {
	return c == '=' || c == ';' || c == '[' || c == '\''
}

// Next returns the next token, or io.EOF once the input is exhausted.
func (t *Tokenizer) Next() (Token, error) {
	var word strings.Builder
	for {
		c, err := t.read()
		if err == io.EOF {
			if word.Len() > 0 {
				return Token{Text: word.String()}, nil
			}
			return Token{}, io.EOF
		}
		if err != nil {
			return Token{}, err
		}

		switch {
		case unicode.IsSpace(c):
			if word.Len() > 0 {
				return Token{Text: word.String()}, nil
			}
		case isSpecial(c) && word.Len() > 0:
			// finish the word; the special character is read again next time
			t.r.UnreadRune()
			return Token{Text: word.String()}, nil
		case c == '=' || c == ';':
			return Token{Text: string(c)}, nil
		case c == '[':
			if err := t.skipComment(); err != nil {
				return Token{}, err
			}
		case c == '\'':
			s, err := t.readQuoted()
			if err != nil {
				return Token{}, err
			}
			return Token{Text: s, Quoted: true}, nil
		default:
			word.WriteRune(c)
		}
	}
}

// skipComment consumes a bracketed comment whose opening bracket was
// already read, including nested comments.
func (t *Tokenizer) skipComment() error {
	depth := 1
	for depth > 0 {
		c, err := t.read()
		if err == io.EOF {
			return errors.NewParse(formatName, t.line, "end of file inside a comment")
		}
		if err != nil {
			return err
		}
		switch c {
		case '[':
			depth++
		case ']':
			depth--
		}
	}
	return nil
}

func (t *Tokenizer) readQuoted() (string, error) {
	var s strings.Builder
	for {
		c, err := t.read()
		if err == io.EOF {
			return "", errors.NewParse(formatName, t.line, "end of file inside a quoted value")
		}
		if err != nil {
			return "", err
		}
		if c != '\'' {
			s.WriteRune(c)
			continue
		}
		next, err := t.read()
		if err == nil && next == '\'' {
			s.WriteByte('\'')
			continue
		}
		if err == nil {
			t.r.UnreadRune()
			if next == '\n' {
				t.line--
			}
		}
		return s.String(), nil
	}
}

// Tokens returns every remaining token text.
func (t *Tokenizer) Tokens() ([]string, error) {
	var out []string
	for {
		tok, err := t.Next()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		out = append(out, tok.Text)
	}
}
