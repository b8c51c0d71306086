package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/depict/internal/diag"
	"github.com/vk/depict/internal/fact"
)

func TestParseTextEmpty(t *testing.T) {
	for _, src := range []string{"", "   ", "\n\n", " \t\n  \n"} {
		store, err := ParseText("test", src)
		require.NoError(t, err)
		assert.Empty(t, store)
	}
}

func TestParseTextInlineFact(t *testing.T) {
	store, err := ParseText("test", "person me alice bob\n")
	require.NoError(t, err)
	require.Len(t, store, 1)

	c, ok := store[0].(*fact.Compound)
	require.True(t, ok)
	assert.Equal(t, fact.Ident("person"), c.Head)
	require.Len(t, c.Body, 3)
	a, ok := c.Body[0].(*fact.Atom)
	require.True(t, ok)
	assert.Equal(t, fact.Ident("me"), a.Name)
}

func TestParseTextBracketBody(t *testing.T) {
	store, err := ParseText("test", "k [ - s b ]\n- c s\n")
	require.NoError(t, err)
	require.Len(t, store, 2)

	k, ok := store[0].(*fact.Compound)
	require.True(t, ok)
	assert.Equal(t, fact.Ident("k"), k.Head)
	require.Len(t, k.Body, 1)

	dash, ok := k.Body[0].(*fact.Compound)
	require.True(t, ok)
	assert.Equal(t, fact.Ident("-"), dash.Head)
	require.Len(t, dash.Body, 2)

	chain, ok := store[1].(*fact.Compound)
	require.True(t, ok)
	assert.Equal(t, fact.Ident("-"), chain.Head)
	require.Len(t, chain.Body, 2)
}

func TestParseTextMultilineBracket(t *testing.T) {
	src := "svc [\n  - a b\n  - b c\n  name [ api gateway ]\n]\n"
	store, err := ParseText("test", src)
	require.NoError(t, err)
	require.Len(t, store, 1)

	svc := store[0].(*fact.Compound)
	require.Len(t, svc.Body, 3)

	// a newline ends a dash group; the next dash starts a fresh one
	first := svc.Body[0].(*fact.Compound)
	assert.Equal(t, fact.Ident("-"), first.Head)
	assert.Len(t, first.Body, 2)

	name, ok := svc.Body[2].(*fact.Compound)
	require.True(t, ok)
	assert.Equal(t, fact.Ident("name"), name.Head)
	assert.Len(t, name.Body, 2)
}

func TestParseTextNestedBracket(t *testing.T) {
	store, err := ParseText("test", "outer [ inner [ leaf ] other ]\n")
	require.NoError(t, err)
	require.Len(t, store, 1)

	outer := store[0].(*fact.Compound)
	require.Len(t, outer.Body, 2)

	inner, ok := outer.Body[0].(*fact.Compound)
	require.True(t, ok)
	assert.Equal(t, fact.Ident("inner"), inner.Head)
	require.Len(t, inner.Body, 1)

	other, ok := outer.Body[1].(*fact.Atom)
	require.True(t, ok)
	assert.Equal(t, fact.Ident("other"), other.Name)
}

func TestParseTextDirective(t *testing.T) {
	store, err := ParseText("test", "draw k m\nk a b\n")
	require.NoError(t, err)
	require.Len(t, store, 2)

	d, ok := store[0].(*fact.Directive)
	require.True(t, ok)
	assert.Equal(t, fact.Ident("draw"), d.Keyword)
	assert.Len(t, d.Body, 2)

	_, ok = store[1].(*fact.Compound)
	assert.True(t, ok)
}

func TestParseTextCustomKeywords(t *testing.T) {
	store, err := ParseText("test", "draw k\ncompact\n", "compact")
	require.NoError(t, err)
	require.Len(t, store, 2)

	// with only "compact" registered, "draw k" is an ordinary fact
	_, ok := store[0].(*fact.Compound)
	assert.True(t, ok)
	d, ok := store[1].(*fact.Directive)
	require.True(t, ok)
	assert.Equal(t, fact.Ident("compact"), d.Keyword)
	assert.Empty(t, d.Body)
}

func TestParseTextMissingNewlineAtEOF(t *testing.T) {
	store, err := ParseText("test", "k a b")
	require.NoError(t, err)
	require.Len(t, store, 1)
	assert.Len(t, store[0].(*fact.Compound).Body, 2)
}

func TestParseTextUnterminatedBracket(t *testing.T) {
	_, err := ParseText("test", "k [ - s")
	require.Error(t, err)

	var parseErr *diag.ParseError
	require.ErrorAs(t, err, &parseErr)
	// located at the end of the last consumed token
	assert.Equal(t, "", parseErr.Text)
	assert.Equal(t, parseErr.Range.Start, parseErr.Range.End)
	assert.Equal(t, 8, parseErr.Range.Start.Column)
}

func TestParseTextRejectsInlineDash(t *testing.T) {
	_, err := ParseText("test", "k a - b\n")
	require.Error(t, err)

	var parseErr *diag.ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, "-", parseErr.Text)
}

func TestParseTextRejectsBracketAfterInlineItems(t *testing.T) {
	_, err := ParseText("test", "k a [ b ]\n")
	require.Error(t, err)
}

func TestParseTextRejectsDanglingCloseBracket(t *testing.T) {
	_, err := ParseText("test", "]\n")
	require.Error(t, err)
}

func TestParserIncremental(t *testing.T) {
	lex := NewLexer("test", "k [ - s b ]\n")
	p := NewParser()
	for {
		tok, err := lex.Next()
		require.NoError(t, err)
		if tok.Kind == EOF {
			break
		}
		require.NoError(t, p.Push(tok))
	}
	store, err := p.Finish()
	require.NoError(t, err)
	assert.Len(t, store, 1)
}

func TestParseTextDeterministic(t *testing.T) {
	src := "draw k\nk [ - s b ]\nperson alice\n"
	first, err := ParseText("test", src)
	require.NoError(t, err)
	second, err := ParseText("test", src)
	require.NoError(t, err)
	assert.True(t, fact.Equal(first, second))
}
