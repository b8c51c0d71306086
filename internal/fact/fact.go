// Package fact defines the flat fact language: named records with ordered
// bodies, directives, the fact store produced by a parse, and the flat
// (global-namespace) resolver over it.
package fact

import "github.com/hashicorp/hcl/v2"

// Ident names a fact. Two idents are the same entity iff their text is
// equal; there is no case folding and no aliasing.
type Ident string

// Fact is either a bare name reference (*Atom) or a named record with an
// ordered body (*Compound).
type Fact interface {
	factNode()
}

// Atom is a reference to a name, resolved by lookup against the store.
type Atom struct {
	Name  Ident
	Range hcl.Range
}

// Compound is a named fact with an ordered list of child facts. Order is
// preserved but not significant for lookup.
type Compound struct {
	Head  Ident
	Body  []Fact
	Range hcl.Range
}

func (*Atom) factNode()     {}
func (*Compound) factNode() {}

// Syn is a top-level parsed unit: a plain fact or a keyword-led directive.
type Syn interface {
	synNode()
}

// Directive is a fact-like wrapper carrying a distinguishing keyword, such
// as a draw directive.
type Directive struct {
	Keyword Ident
	Body    []Fact
	Range   hcl.Range
}

func (*Compound) synNode()  {}
func (*Directive) synNode() {}

// Store is the ordered sequence of parsed units. It is not mutated after
// parse; insertion order is preserved but irrelevant to resolution.
type Store []Syn

// Equal reports structural equality of two stores, ignoring source ranges.
func Equal(a, b Store) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !synEqual(a[i], b[i]) {
			return false
		}
	}
	return true
}

func synEqual(a, b Syn) bool {
	switch x := a.(type) {
	case *Compound:
		y, ok := b.(*Compound)
		return ok && x.Head == y.Head && bodyEqual(x.Body, y.Body)
	case *Directive:
		y, ok := b.(*Directive)
		return ok && x.Keyword == y.Keyword && bodyEqual(x.Body, y.Body)
	}
	return false
}

func bodyEqual(a, b []Fact) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !factEqual(a[i], b[i]) {
			return false
		}
	}
	return true
}

func factEqual(a, b Fact) bool {
	switch x := a.(type) {
	case *Atom:
		y, ok := b.(*Atom)
		return ok && x.Name == y.Name
	case *Compound:
		y, ok := b.(*Compound)
		return ok && x.Head == y.Head && bodyEqual(x.Body, y.Body)
	}
	return false
}
