package parser

import (
	"strings"

	"github.com/hashicorp/hcl/v2"

	"github.com/vk/depict/internal/diag"
	"github.com/vk/depict/internal/fact"
)

// DefaultKeywords are the directive keywords recognized when none are
// supplied to NewParser.
var DefaultKeywords = []fact.Ident{"draw"}

// Parser builds a fact store from a token stream, one token at a time. Each
// Push either accepts the token or rejects it with a *diag.ParseError; there
// is no backtracking across the input. Finish completes the parse.
type Parser struct {
	keywords map[fact.Ident]bool

	items       []fact.Syn
	line        *fact.Compound
	isDirective bool
	stack       []*frame
	inline      bool // line carries inline items; a bracket is no longer valid
	closed      bool // the line's bracket body is complete
	last        hcl.Range
}

// frame is one open bracket. Items are appended to c's body, or to the open
// dash group when one is active.
type frame struct {
	c    *fact.Compound
	dash *fact.Compound
	open hcl.Range
}

// NewParser returns a parser recognizing the given directive keywords, or
// DefaultKeywords when none are given.
func NewParser(keywords ...fact.Ident) *Parser {
	if len(keywords) == 0 {
		keywords = DefaultKeywords
	}
	kw := make(map[fact.Ident]bool, len(keywords))
	for _, k := range keywords {
		kw[k] = true
	}
	return &Parser{keywords: kw}
}

// Push feeds one token to the parser. EOF tokens are ignored; end-of-input
// handling lives in Finish.
func (p *Parser) Push(tok Token) error {
	if tok.Kind == EOF {
		return nil
	}
	p.last = tok.Range

	if len(p.stack) > 0 {
		return p.pushBracket(tok)
	}
	if p.line == nil {
		return p.pushLineStart(tok)
	}
	return p.pushLine(tok)
}

func (p *Parser) pushLineStart(tok Token) error {
	switch tok.Kind {
	case NEWLINE:
		return nil
	case IDENT:
		p.line = &fact.Compound{Head: fact.Ident(tok.Text), Range: tok.Range}
		p.isDirective = p.keywords[fact.Ident(tok.Text)]
		return nil
	case DASH:
		p.line = &fact.Compound{Head: "-", Range: tok.Range}
		return nil
	}
	return p.reject(tok)
}

func (p *Parser) pushLine(tok Token) error {
	if p.closed {
		// only a line break may follow a closed bracket body
		if tok.Kind == NEWLINE {
			p.finishLine()
			return nil
		}
		return p.reject(tok)
	}
	switch tok.Kind {
	case IDENT:
		p.inline = true
		p.line.Body = append(p.line.Body, &fact.Atom{Name: fact.Ident(tok.Text), Range: tok.Range})
		return nil
	case LBRACKET:
		if p.inline || p.isDirective {
			return p.reject(tok)
		}
		p.stack = append(p.stack, &frame{c: p.line, open: tok.Range})
		return nil
	case NEWLINE:
		p.finishLine()
		return nil
	}
	return p.reject(tok)
}

func (p *Parser) pushBracket(tok Token) error {
	f := p.stack[len(p.stack)-1]
	switch tok.Kind {
	case IDENT:
		atom := &fact.Atom{Name: fact.Ident(tok.Text), Range: tok.Range}
		if f.dash != nil {
			f.dash.Body = append(f.dash.Body, atom)
		} else {
			f.c.Body = append(f.c.Body, atom)
		}
		return nil
	case DASH:
		dash := &fact.Compound{Head: "-", Range: tok.Range}
		f.c.Body = append(f.c.Body, dash)
		f.dash = dash
		return nil
	case NEWLINE:
		f.dash = nil
		return nil
	case LBRACKET:
		return p.openNested(f, tok)
	case RBRACKET:
		f.dash = nil
		p.stack = p.stack[:len(p.stack)-1]
		if len(p.stack) == 0 {
			p.closed = true
		}
		return nil
	}
	return p.reject(tok)
}

// openNested handles a bracket inside a bracket. A bracket directly after a
// dash opens the dash group's own body; a bracket after an atom turns that
// atom into the head of a nested compound.
func (p *Parser) openNested(f *frame, tok Token) error {
	if f.dash != nil && len(f.dash.Body) == 0 {
		nested := f.dash
		f.dash = nil
		p.stack = append(p.stack, &frame{c: nested, open: tok.Range})
		return nil
	}
	body := &f.c.Body
	if f.dash != nil {
		body = &f.dash.Body
	}
	n := len(*body)
	if n == 0 {
		return p.reject(tok)
	}
	atom, ok := (*body)[n-1].(*fact.Atom)
	if !ok {
		return p.reject(tok)
	}
	nested := &fact.Compound{Head: atom.Name, Range: atom.Range}
	(*body)[n-1] = nested
	p.stack = append(p.stack, &frame{c: nested, open: tok.Range})
	return nil
}

// Finish completes the parse, returning the ordered fact store. An open
// bracket at end of input is a parse error located at the end of the last
// consumed token.
func (p *Parser) Finish() (fact.Store, error) {
	if len(p.stack) > 0 {
		end := p.last
		end.Start = end.End
		return nil, &diag.ParseError{Range: end}
	}
	if p.line != nil {
		p.finishLine()
	}
	return fact.Store(p.items), nil
}

func (p *Parser) finishLine() {
	if p.isDirective {
		p.items = append(p.items, &fact.Directive{
			Keyword: p.line.Head,
			Body:    p.line.Body,
			Range:   p.line.Range,
		})
	} else {
		p.items = append(p.items, p.line)
	}
	p.line = nil
	p.isDirective = false
	p.inline = false
	p.closed = false
}

func (p *Parser) reject(tok Token) error {
	return &diag.ParseError{Range: tok.Range, Text: tok.Text}
}

// ParseText lexes and parses a whole buffer. An all-whitespace buffer
// short-circuits to an empty store without invoking the lexer, so trivial
// input can never fail.
func ParseText(filename, src string, keywords ...fact.Ident) (fact.Store, error) {
	if strings.TrimSpace(src) == "" {
		return fact.Store{}, nil
	}
	lex := NewLexer(filename, src)
	p := NewParser(keywords...)
	for {
		tok, err := lex.Next()
		if err != nil {
			return nil, err
		}
		if tok.Kind == EOF {
			break
		}
		if err := p.Push(tok); err != nil {
			return nil, err
		}
	}
	return p.Finish()
}
