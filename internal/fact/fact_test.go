package fact

import (
	"slices"
	"testing"

	"github.com/hashicorp/hcl/v2"
	"github.com/stretchr/testify/assert"
)

func atom(name Ident) *Atom {
	return &Atom{Name: name}
}

func compound(head Ident, body ...Fact) *Compound {
	return &Compound{Head: head, Body: body}
}

func names(facts []Fact) []Ident {
	out := make([]Ident, 0, len(facts))
	for _, f := range facts {
		switch e := f.(type) {
		case *Atom:
			out = append(out, e.Name)
		case *Compound:
			out = append(out, e.Head)
		}
	}
	return out
}

func TestFilterFactTopLevel(t *testing.T) {
	store := Store{
		compound("person", atom("alice"), atom("bob")),
		compound("service", atom("api")),
	}

	got := slices.Collect(store.FilterFact("person"))
	assert.Equal(t, []Ident{"alice", "bob"}, names(got))
}

func TestFilterFactConcatenatesDuplicates(t *testing.T) {
	store := Store{
		compound("person", atom("alice")),
		compound("service", atom("api")),
		compound("person", atom("bob"), atom("carol")),
	}

	got := slices.Collect(store.FilterFact("person"))
	assert.Equal(t, []Ident{"alice", "bob", "carol"}, names(got))
}

// A name declared inside another fact's body resolves exactly as a top-level
// one: the namespace is a single flat map, with no shadowing and no
// enclosing-fact precedence.
func TestFilterFactIsFlat(t *testing.T) {
	store := Store{
		compound("outer",
			compound("color", atom("red")),
		),
		compound("color", atom("blue")),
	}

	got := slices.Collect(store.FilterFact("color"))
	assert.Equal(t, []Ident{"red", "blue"}, names(got))
}

func TestFilterFactMatchesDirectiveKeyword(t *testing.T) {
	store := Store{
		&Directive{Keyword: "draw", Body: []Fact{atom("k")}},
		compound("k", atom("a")),
	}

	got := slices.Collect(store.FilterFact("draw"))
	assert.Equal(t, []Ident{"k"}, names(got))
}

func TestFilterFactNoMatch(t *testing.T) {
	store := Store{compound("person", atom("alice"))}
	assert.Empty(t, slices.Collect(store.FilterFact("ghost")))
}

func TestFilterFactEmptyStore(t *testing.T) {
	assert.Empty(t, slices.Collect(Store{}.FilterFact("anything")))
}

func TestFilterFactDeterministic(t *testing.T) {
	store := Store{
		compound("x", atom("a")),
		compound("wrap", compound("x", atom("b"))),
		compound("x", atom("c")),
	}

	first := names(slices.Collect(store.FilterFact("x")))
	second := names(slices.Collect(store.FilterFact("x")))
	assert.Equal(t, first, second)
	assert.Equal(t, []Ident{"a", "b", "c"}, first) // store order, nested contributions in place
}

func TestFilterFactEarlyStop(t *testing.T) {
	store := Store{
		compound("x", atom("a"), atom("b"), atom("c")),
	}

	var got []Ident
	for f := range store.FilterFact("x") {
		got = append(got, f.(*Atom).Name)
		if len(got) == 2 {
			break
		}
	}
	assert.Equal(t, []Ident{"a", "b"}, got)
}

func TestResolveAtomSearchesStore(t *testing.T) {
	store := Store{
		compound("person", atom("alice")),
	}

	got := slices.Collect(store.Resolve(atom("person")))
	assert.Equal(t, []Ident{"alice"}, names(got))
}

func TestResolveCompoundUnwrapsBody(t *testing.T) {
	store := Store{
		compound("person", atom("alice")),
	}

	// a compound resolves to its own body even when the store also has
	// facts under the same head
	c := compound("person", atom("zed"))
	got := slices.Collect(store.Resolve(c))
	assert.Equal(t, []Ident{"zed"}, names(got))
}

func TestEqualIgnoresRanges(t *testing.T) {
	a := Store{compound("k", atom("x"))}
	b := Store{
		&Compound{
			Head: "k",
			Body: []Fact{&Atom{Name: "x", Range: rangeAt(3)}},
			Range: rangeAt(3),
		},
	}
	assert.True(t, Equal(a, b))
}

func TestEqualStructural(t *testing.T) {
	a := Store{compound("k", atom("x"))}

	assert.False(t, Equal(a, Store{compound("k", atom("y"))}))
	assert.False(t, Equal(a, Store{compound("m", atom("x"))}))
	assert.False(t, Equal(a, Store{compound("k")}))
	assert.False(t, Equal(a, Store{&Directive{Keyword: "k", Body: []Fact{atom("x")}}}))
	assert.True(t, Equal(Store{}, Store{}))
}

func rangeAt(line int) hcl.Range {
	return hcl.Range{
		Start: hcl.Pos{Line: line, Column: 1},
		End:   hcl.Pos{Line: line, Column: 2},
	}
}
