package highlight

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/depict/internal/eval"
	"github.com/vk/depict/internal/fact"
)

func mustParse(t *testing.T, src string) *eval.Process {
	t.Helper()
	tree, err := Parse("test", src)
	require.NoError(t, err)
	return tree
}

func TestParseEmptyQuery(t *testing.T) {
	for _, src := range []string{"", "   ", "\n"} {
		tree, err := Parse("test", src)
		require.NoError(t, err)
		require.NotNil(t, tree.Body)
		assert.Empty(t, tree.Body.Items)
	}
}

func TestResolveBindsPresentName(t *testing.T) {
	model := mustParse(t, "k [ - s b ]\n")
	query := mustParse(t, "k\n")

	Resolve(query, model)

	ref := query.Body.Items[0].(*eval.Process)
	assert.NotNil(t, ref.Binding)
}

func TestResolveBindsNestedName(t *testing.T) {
	model := mustParse(t, "k [ - s b ]\n")
	query := mustParse(t, "s\n")

	Resolve(query, model)

	// s is declared inside k; a flat query still reaches it
	ref := query.Body.Items[0].(*eval.Process)
	require.NotNil(t, ref.Binding)
	assert.Equal(t, []fact.Ident{"k"}, ref.Binding)
}

func TestResolveAbsentNameNoErrorNoBinding(t *testing.T) {
	model := mustParse(t, "k [ - s b ]\n")
	query := mustParse(t, "ghost\n")

	Resolve(query, model)

	ref := query.Body.Items[0].(*eval.Process)
	assert.Nil(t, ref.Binding)
}

func TestStylesProcess(t *testing.T) {
	model := mustParse(t, "k [ - s b ]\n")
	query := mustParse(t, "k\nghost\n")

	scopes := Resolve(query, model)
	styles := Styles(query, Names(scopes))

	require.Len(t, styles, 1)
	assert.Equal(t, KindProcess, styles[0].Kind)
	assert.Equal(t, fact.Ident("k"), styles[0].Name)
}

func TestStylesEdge(t *testing.T) {
	model := mustParse(t, "k [ - s b ]\n")
	query := mustParse(t, "- s b\n")

	scopes := Resolve(query, model)
	styles := Styles(query, Names(scopes))

	require.Len(t, styles, 1)
	assert.Equal(t, KindEdge, styles[0].Kind)
	assert.Equal(t, fact.Ident("s"), styles[0].From)
	assert.Equal(t, fact.Ident("b"), styles[0].To)
}

func TestStylesEdgeSkipsUnboundHop(t *testing.T) {
	model := mustParse(t, "k [ - s b ]\n")
	query := mustParse(t, "- s ghost b\n")

	scopes := Resolve(query, model)
	styles := Styles(query, Names(scopes))

	// both hops touch the unbound ghost, so neither qualifies
	assert.Empty(t, styles)
}

func TestStylesNamedChain(t *testing.T) {
	model := mustParse(t, "flow: a - b\n")
	query := mustParse(t, "flow: a - b\n")

	scopes := Resolve(query, model)
	styles := Styles(query, Names(scopes))

	require.Len(t, styles, 1)
	assert.Equal(t, KindChain, styles[0].Kind)
	assert.Equal(t, fact.Ident("flow"), styles[0].Name)
}

func TestStylesNamedChainAbsentFromModel(t *testing.T) {
	model := mustParse(t, "a\nb\n")
	query := mustParse(t, "flow: a - b\n")

	scopes := Resolve(query, model)
	styles := Styles(query, Names(scopes))

	assert.Empty(t, styles)
}

func TestNamesFlattensAllDepths(t *testing.T) {
	model := mustParse(t, "A {\n  B {\n    x: deep\n  }\n}\n")
	query := mustParse(t, "")

	scopes := Resolve(query, model)
	names := Names(scopes)

	assert.True(t, names["A"])
	assert.True(t, names["B"])
	assert.True(t, names["x"])
	assert.False(t, names["ghost"])
}
