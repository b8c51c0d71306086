package parser

import (
	"strings"
	"unicode/utf8"

	"github.com/hashicorp/hcl/v2"

	"github.com/vk/depict/internal/diag"
)

// Lexer produces tokens from a source buffer on demand. A fresh Lexer always
// restarts from the beginning of the buffer, so lexing the same text twice
// yields the same token sequence.
type Lexer struct {
	filename string
	src      string
	byte     int
	line     int
	col      int
}

// NewLexer returns a lexer positioned at the start of src. filename is
// recorded in token ranges only.
func NewLexer(filename, src string) *Lexer {
	return &Lexer{filename: filename, src: src, line: 1, col: 1}
}

// reserved punctuation that terminates an identifier.
const punct = "[]{}-:"

// Next returns the next token, or a *diag.LexError when no rule matches at
// the current position. After EOF it keeps returning EOF.
func (l *Lexer) Next() (Token, error) {
	for {
		if l.byte >= len(l.src) {
			return Token{Kind: EOF, Range: l.rangeFrom(l.pos())}, nil
		}

		c := l.src[l.byte]
		switch {
		case c == ' ' || c == '\t' || c == '\r':
			l.advance(1)
		case c == '\n':
			start := l.pos()
			l.byte++
			l.line++
			l.col = 1
			return l.token(NEWLINE, "\n", start), nil
		case c == '/' && l.byte+1 < len(l.src) && l.src[l.byte+1] == '/':
			// comment to end of line; the newline itself is still a token
			end := strings.IndexByte(l.src[l.byte:], '\n')
			if end < 0 {
				l.advance(len(l.src) - l.byte)
			} else {
				l.advance(end)
			}
		case c == '[':
			return l.punctToken(LBRACKET, "["), nil
		case c == ']':
			return l.punctToken(RBRACKET, "]"), nil
		case c == '{':
			return l.punctToken(LBRACE, "{"), nil
		case c == '}':
			return l.punctToken(RBRACE, "}"), nil
		case c == '-':
			return l.punctToken(DASH, "-"), nil
		case c == ':':
			return l.punctToken(COLON, ":"), nil
		case c < 0x20:
			start := l.pos()
			text := l.src[l.byte : l.byte+1]
			l.advance(1)
			return Token{}, &diag.LexError{Range: l.rangeBetween(start, l.pos()), Text: text}
		default:
			return l.identToken()
		}
	}
}

// All lexes the remaining input to completion.
func (l *Lexer) All() ([]Token, error) {
	var toks []Token
	for {
		tok, err := l.Next()
		if err != nil {
			return toks, err
		}
		toks = append(toks, tok)
		if tok.Kind == EOF {
			return toks, nil
		}
	}
}

func (l *Lexer) identToken() (Token, error) {
	start := l.pos()
	startByte := l.byte
	for l.byte < len(l.src) {
		r, size := utf8.DecodeRuneInString(l.src[l.byte:])
		if r == utf8.RuneError && size == 1 {
			text := l.src[l.byte : l.byte+1]
			l.advance(1)
			return Token{}, &diag.LexError{Range: l.rangeBetween(start, l.pos()), Text: text}
		}
		if r == ' ' || r == '\t' || r == '\r' || r == '\n' || r < 0x20 || strings.ContainsRune(punct, r) {
			break
		}
		l.advance(size)
	}
	return l.token(IDENT, l.src[startByte:l.byte], start), nil
}

func (l *Lexer) punctToken(kind Kind, text string) Token {
	start := l.pos()
	l.advance(len(text))
	return l.token(kind, text, start)
}

func (l *Lexer) token(kind Kind, text string, start hcl.Pos) Token {
	return Token{Kind: kind, Text: text, Range: l.rangeBetween(start, l.pos())}
}

// advance consumes n bytes. Columns count runes, not bytes, so multibyte
// identifiers keep hcl positions accurate.
func (l *Lexer) advance(n int) {
	l.col += utf8.RuneCountInString(l.src[l.byte : l.byte+n])
	l.byte += n
}

func (l *Lexer) pos() hcl.Pos {
	return hcl.Pos{Line: l.line, Column: l.col, Byte: l.byte}
}

func (l *Lexer) rangeFrom(p hcl.Pos) hcl.Range {
	return hcl.Range{Filename: l.filename, Start: p, End: p}
}

func (l *Lexer) rangeBetween(start, end hcl.Pos) hcl.Range {
	return hcl.Range{Filename: l.filename, Start: start, End: end}
}
