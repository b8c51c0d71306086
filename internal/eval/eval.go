package eval

import (
	"strings"

	"github.com/vk/depict/internal/diag"
	"github.com/vk/depict/internal/fact"
	"github.com/vk/depict/internal/parser"
)

// Eval turns a token stream into a Val tree. Chained references group into
// Chain nodes and braced or bracketed bodies into Process body groups. The
// root is always a Process holding one group item per statement; identical
// token streams produce structurally identical trees.
func Eval(toks []parser.Token) (*Process, error) {
	e := &evaluator{toks: toks}
	g, err := e.group(parser.EOF)
	if err != nil {
		return nil, err
	}
	return &Process{Body: g}, nil
}

// EvalText lexes and evaluates a whole buffer. All-whitespace input yields
// the default empty root without invoking the lexer.
func EvalText(filename, src string) (*Process, error) {
	if strings.TrimSpace(src) == "" {
		return &Process{Body: &Group{}}, nil
	}
	toks, err := parser.NewLexer(filename, src).All()
	if err != nil {
		return nil, err
	}
	return Eval(toks)
}

type evaluator struct {
	toks []parser.Token
	i    int
}

func (e *evaluator) peek() parser.Token {
	if e.i >= len(e.toks) {
		return parser.Token{Kind: parser.EOF}
	}
	return e.toks[e.i]
}

func (e *evaluator) next() parser.Token {
	tok := e.peek()
	if e.i < len(e.toks) {
		e.i++
	}
	return tok
}

func (e *evaluator) reject(tok parser.Token) error {
	return &diag.ParseError{Range: tok.Range, Text: tok.Text}
}

// group evaluates statements until the closing token kind, consuming it.
// For the root, closing is EOF.
func (e *evaluator) group(closing parser.Kind) (*Group, error) {
	g := &Group{}
	for {
		tok := e.peek()
		switch tok.Kind {
		case parser.EOF:
			if closing != parser.EOF {
				end := tok.Range
				return nil, &diag.ParseError{Range: end}
			}
			return g, nil
		case closing:
			e.next()
			return g, nil
		case parser.NEWLINE:
			e.next()
		default:
			v, err := e.stmt(closing)
			if err != nil {
				return nil, err
			}
			if v != nil {
				g.Items = append(g.Items, v)
			}
		}
	}
}

// stmt evaluates one statement: a process reference, a labelled process, a
// process with a body, or a chain (named or anonymous).
func (e *evaluator) stmt(closing parser.Kind) (Val, error) {
	tok := e.peek()
	switch tok.Kind {
	case parser.DASH:
		e.next()
		path, err := e.refs(closing)
		if err != nil {
			return nil, err
		}
		return &Chain{Path: path}, nil
	case parser.IDENT:
		e.next()
		return e.afterName(fact.Ident(tok.Text), closing)
	}
	return nil, e.reject(tok)
}

func (e *evaluator) afterName(name fact.Ident, closing parser.Kind) (Val, error) {
	switch tok := e.peek(); tok.Kind {
	case parser.COLON:
		e.next()
		return e.afterColon(name, closing)
	case parser.LBRACE:
		e.next()
		g, err := e.group(parser.RBRACE)
		if err != nil {
			return nil, err
		}
		return &Process{Name: name, Body: g}, nil
	case parser.LBRACKET:
		e.next()
		g, err := e.group(parser.RBRACKET)
		if err != nil {
			return nil, err
		}
		return &Process{Name: name, Body: g}, nil
	case parser.DASH:
		e.next()
		rest, err := e.refs(closing)
		if err != nil {
			return nil, err
		}
		return &Chain{Path: append([]Val{&Process{Name: name}}, rest...)}, nil
	default:
		return &Process{Name: name}, nil
	}
}

// afterColon disambiguates `n: a - b` (a named chain) from `n: some words`
// (a labelled process) by whether the rest of the line contains a dash.
func (e *evaluator) afterColon(name fact.Ident, closing parser.Kind) (Val, error) {
	if e.lineHasDash(closing) {
		path, err := e.refs(closing)
		if err != nil {
			return nil, err
		}
		return &Chain{Name: name, Path: path}, nil
	}
	var words []string
	for {
		tok := e.peek()
		if tok.Kind != parser.IDENT {
			break
		}
		e.next()
		words = append(words, tok.Text)
	}
	return &Process{Name: name, Label: fact.Ident(strings.Join(words, " "))}, nil
}

// lineHasDash looks ahead to the end of the current statement.
func (e *evaluator) lineHasDash(closing parser.Kind) bool {
	for i := e.i; i < len(e.toks); i++ {
		switch e.toks[i].Kind {
		case parser.DASH:
			return true
		case parser.NEWLINE, parser.EOF, closing:
			return false
		}
	}
	return false
}

// refs collects the remaining references of a chain, tolerating dash
// separators, until the end of the statement.
func (e *evaluator) refs(closing parser.Kind) ([]Val, error) {
	var path []Val
	for {
		tok := e.peek()
		switch tok.Kind {
		case parser.IDENT:
			e.next()
			path = append(path, &Process{Name: fact.Ident(tok.Text)})
		case parser.DASH:
			e.next()
		case parser.NEWLINE, parser.EOF:
			return path, nil
		default:
			if tok.Kind == closing {
				return path, nil
			}
			return nil, e.reject(tok)
		}
	}
}
