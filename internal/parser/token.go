package parser

import "github.com/hashicorp/hcl/v2"

// Kind identifies the lexical class of a token.
type Kind int

const (
	EOF Kind = iota
	IDENT
	LBRACKET // "["
	RBRACKET // "]"
	LBRACE   // "{"
	RBRACE   // "}"
	DASH     // "-"
	COLON    // ":"
	NEWLINE
)

var kindNames = map[Kind]string{
	EOF:      "EOF",
	IDENT:    "IDENT",
	LBRACKET: "LBRACKET",
	RBRACKET: "RBRACKET",
	LBRACE:   "LBRACE",
	RBRACE:   "RBRACE",
	DASH:     "DASH",
	COLON:    "COLON",
	NEWLINE:  "NEWLINE",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "UNKNOWN"
}

// Token is one lexed unit of source text. Range covers the token's bytes in
// the original buffer.
type Token struct {
	Kind  Kind
	Text  string
	Range hcl.Range
}
