package nexus

import (
	"io"
	"strings"

	"github.com/FocuswithJustin/seqconvert/core/errors"
)

// Parser groups tokens into commands. Arguments of the current command are
// pulled lazily with Arg; moving to the next command drains whatever the
// caller left unread.
type Parser struct {
	tok    *Tokenizer
	inArgs bool
}

// NewParser returns a parser over a Nexus stream.
func NewParser(r io.Reader) (*Parser, error) {
	tok, err := NewTokenizer(r)
	if err != nil {
		return nil, err
	}
	return &Parser{tok: tok}, nil
}

// Line returns the line the parser is on.
func (p *Parser) Line() int { return p.tok.Line() }

// Next returns the lowercased name of the next command, or io.EOF.
// Empty commands (a bare `;`) are skipped.
func (p *Parser) Next() (string, error) {
	for p.inArgs {
		if _, err := p.Arg(); err == io.EOF {
			break
		} else if err != nil {
			return "", err
		}
	}
	for {
		tok, err := p.tok.Next()
		if err != nil {
			return "", err
		}
		if tok.Is(";") {
			continue
		}
		p.inArgs = true
		return strings.ToLower(tok.Text), nil
	}
}

// Arg returns the next argument of the current command. It returns io.EOF
// once the terminating `;` has been consumed, and a MalformedInput error if
// the input ends before it.
func (p *Parser) Arg() (Token, error) {
	if !p.inArgs {
		return Token{}, io.EOF
	}
	tok, err := p.tok.Next()
	if err == io.EOF {
		p.inArgs = false
		return Token{}, errors.NewParse(formatName, p.tok.Line(), "truncated command: missing ';'")
	}
	if err != nil {
		p.inArgs = false
		return Token{}, err
	}
	if tok.Is(";") {
		p.inArgs = false
		return Token{}, io.EOF
	}
	return tok, nil
}

// Args returns every remaining argument of the current command.
func (p *Parser) Args() ([]Token, error) {
	var out []Token
	for {
		tok, err := p.Arg()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		out = append(out, tok)
	}
}

// Value returns the value following key=... among args, compared
// case-insensitively.
func Value(args []Token, key string) (string, bool) {
	for i := 0; i+2 < len(args); i++ {
		if !args[i].Quoted && strings.EqualFold(args[i].Text, key) && args[i+1].Is("=") {
			return args[i+2].Text, true
		}
	}
	return "", false
}
