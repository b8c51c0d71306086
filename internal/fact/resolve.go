package fact

import (
	"iter"
	"slices"
)

// FilterFact returns a lazy sequence of the body contents of every fact
// whose head equals name, at top level or nested at any depth, flattened in
// store order. Duplicate heads contribute all their bodies, concatenated.
// The namespace is deliberately flat: a name declared inside one fact's body
// is equally visible when resolving the same name anywhere else. Do not
// introduce scoping here; the scoped resolver lives in the eval package.
func (s Store) FilterFact(name Ident) iter.Seq[Fact] {
	return func(yield func(Fact) bool) {
		for _, syn := range s {
			switch e := syn.(type) {
			case *Compound:
				if !filterCompound(e, name, yield) {
					return
				}
			case *Directive:
				if e.Keyword == name {
					for _, f := range e.Body {
						if !yield(f) {
							return
						}
					}
				}
				for _, f := range e.Body {
					if c, ok := f.(*Compound); ok {
						if !filterCompound(c, name, yield) {
							return
						}
					}
				}
			}
		}
	}
}

// filterCompound yields c's body when its head matches, then recurses into
// nested compounds. Returns false once yield does.
func filterCompound(c *Compound, name Ident, yield func(Fact) bool) bool {
	if c.Head == name {
		for _, f := range c.Body {
			if !yield(f) {
				return false
			}
		}
	}
	for _, f := range c.Body {
		if nested, ok := f.(*Compound); ok {
			if !filterCompound(nested, name, yield) {
				return false
			}
		}
	}
	return true
}

// Resolve returns the facts denoted by f. An atom is a pointer by name and
// triggers a store-wide search; a compound is already materialized and
// simply unwraps its own body.
func (s Store) Resolve(f Fact) iter.Seq[Fact] {
	switch e := f.(type) {
	case *Atom:
		return s.FilterFact(e.Name)
	case *Compound:
		return slices.Values(e.Body)
	}
	return func(func(Fact) bool) {}
}
