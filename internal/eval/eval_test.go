package eval

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/depict/internal/diag"
	"github.com/vk/depict/internal/fact"
)

func TestEvalTextEmpty(t *testing.T) {
	for _, src := range []string{"", "  \n ", "\t"} {
		root, err := EvalText("test", src)
		require.NoError(t, err)
		require.NotNil(t, root.Body)
		assert.Empty(t, root.Body.Items)
	}
}

func TestEvalBareReference(t *testing.T) {
	root, err := EvalText("test", "api\n")
	require.NoError(t, err)
	require.Len(t, root.Body.Items, 1)

	p, ok := root.Body.Items[0].(*Process)
	require.True(t, ok)
	assert.Equal(t, fact.Ident("api"), p.Name)
	assert.Empty(t, p.Label)
	assert.Nil(t, p.Body)
	assert.Nil(t, p.Binding)
}

func TestEvalLabelledProcess(t *testing.T) {
	root, err := EvalText("test", "gw: api gateway\n")
	require.NoError(t, err)
	require.Len(t, root.Body.Items, 1)

	p := root.Body.Items[0].(*Process)
	assert.Equal(t, fact.Ident("gw"), p.Name)
	assert.Equal(t, fact.Ident("api gateway"), p.Label)
	assert.Equal(t, fact.Ident("gw"), p.DisplayName())
}

func TestEvalAnonymousChain(t *testing.T) {
	root, err := EvalText("test", "- a b c\n")
	require.NoError(t, err)
	require.Len(t, root.Body.Items, 1)

	c := root.Body.Items[0].(*Chain)
	assert.Empty(t, c.Name)
	require.Len(t, c.Path, 3)
	assert.Equal(t, fact.Ident("a"), c.Path[0].(*Process).Name)
	assert.Equal(t, fact.Ident("c"), c.Path[2].(*Process).Name)
}

func TestEvalInlineChain(t *testing.T) {
	root, err := EvalText("test", "a - b - c\n")
	require.NoError(t, err)
	require.Len(t, root.Body.Items, 1)

	c := root.Body.Items[0].(*Chain)
	require.Len(t, c.Path, 3)
	assert.Equal(t, fact.Ident("a"), c.Path[0].(*Process).Name)
	assert.Equal(t, fact.Ident("b"), c.Path[1].(*Process).Name)
}

func TestEvalNamedChain(t *testing.T) {
	root, err := EvalText("test", "flow: a - b\n")
	require.NoError(t, err)
	require.Len(t, root.Body.Items, 1)

	c := root.Body.Items[0].(*Chain)
	assert.Equal(t, fact.Ident("flow"), c.Name)
	require.Len(t, c.Path, 2)
}

func TestEvalBracedBody(t *testing.T) {
	root, err := EvalText("test", "svc {\n  a\n  b\n}\n")
	require.NoError(t, err)
	require.Len(t, root.Body.Items, 1)

	p := root.Body.Items[0].(*Process)
	assert.Equal(t, fact.Ident("svc"), p.Name)
	require.NotNil(t, p.Body)
	assert.Len(t, p.Body.Items, 2)
}

func TestEvalBracketedBody(t *testing.T) {
	root, err := EvalText("test", "k [ - s b ]\n")
	require.NoError(t, err)
	require.Len(t, root.Body.Items, 1)

	p := root.Body.Items[0].(*Process)
	require.NotNil(t, p.Body)
	require.Len(t, p.Body.Items, 1)

	c := p.Body.Items[0].(*Chain)
	assert.Len(t, c.Path, 2)
}

func TestEvalNestedBodies(t *testing.T) {
	root, err := EvalText("test", "outer {\n  inner {\n    leaf\n  }\n}\n")
	require.NoError(t, err)

	outer := root.Body.Items[0].(*Process)
	inner := outer.Body.Items[0].(*Process)
	leaf := inner.Body.Items[0].(*Process)
	assert.Equal(t, fact.Ident("leaf"), leaf.Name)
}

func TestEvalUnclosedBrace(t *testing.T) {
	_, err := EvalText("test", "svc {\n  a\n")
	require.Error(t, err)

	var parseErr *diag.ParseError
	assert.ErrorAs(t, err, &parseErr)
}

func TestEvalDeterministic(t *testing.T) {
	src := "svc {\n  flow: a - b\n  gw: api gateway\n}\n"
	first, err := EvalText("test", src)
	require.NoError(t, err)
	second, err := EvalText("test", src)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
